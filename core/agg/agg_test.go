package agg

import (
	"testing"

	"github.com/huangsam/schoolfit/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func catalogTable() schema.Table {
	row := func(county, district, school string) schema.Entity {
		return schema.Entity{County: county, District: district, School: school}
	}
	return schema.Table{Rows: []schema.Entity{
		row("San Diego", "Vista Unified", "Bobier"),
		row("San Diego", "Encinitas Union", "Olivenhain Pioneer"),
		row("San Diego", "Encinitas Union", "El Camino Creek"),
		row("Orange", "Capistrano Unified", "Ladera Ranch"),
		row("Alameda", "Central Unified", "Lincoln"),
		row("Fresno", "Central Unified", "Teague"),
		row("San Diego", "Vista Unified", "Alamosa Park"),
	}}
}

func TestListCounties(t *testing.T) {
	got := ListCounties(catalogTable())
	expected := []schema.CountySummary{
		{County: "Alameda", Districts: 1, Schools: 1},
		{County: "Fresno", Districts: 1, Schools: 1},
		{County: "Orange", Districts: 1, Schools: 1},
		{County: "San Diego", Districts: 2, Schools: 4},
	}
	assert.Equal(t, expected, got)
	assert.Empty(t, ListCounties(schema.Table{}))
}

func TestListDistricts(t *testing.T) {
	tests := []struct {
		name     string
		county   string
		expected []schema.DistrictSummary
	}{
		{
			name:   "all counties",
			county: "",
			expected: []schema.DistrictSummary{
				{County: "Orange", District: "Capistrano Unified", Schools: 1},
				{County: "Alameda", District: "Central Unified", Schools: 1},
				{County: "Fresno", District: "Central Unified", Schools: 1},
				{County: "San Diego", District: "Encinitas Union", Schools: 2},
				{County: "San Diego", District: "Vista Unified", Schools: 2},
			},
		},
		{
			name:   "one county ignoring case",
			county: " san diego ",
			expected: []schema.DistrictSummary{
				{County: "San Diego", District: "Encinitas Union", Schools: 2},
				{County: "San Diego", District: "Vista Unified", Schools: 2},
			},
		},
		{
			name:     "unknown county",
			county:   "Modoc",
			expected: []schema.DistrictSummary{},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ListDistricts(catalogTable(), tt.county))
		})
	}
}

func TestSchoolsInDistrict(t *testing.T) {
	schools := SchoolsInDistrict(catalogTable(), "encinitas union")
	require.Len(t, schools, 2)
	assert.Equal(t, "El Camino Creek", schools[0].School)
	assert.Equal(t, "Olivenhain Pioneer", schools[1].School)

	// Same district name in two counties
	schools = SchoolsInDistrict(catalogTable(), "Central Unified")
	require.Len(t, schools, 2)
	assert.Equal(t, "Alameda", schools[0].County)

	assert.Len(t, SchoolsInDistrict(catalogTable(), ""), 7)
	assert.Empty(t, SchoolsInDistrict(catalogTable(), "Nowhere"))
}
