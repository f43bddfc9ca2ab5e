package core

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/huangsam/schoolfit/core/algo"
	"github.com/huangsam/schoolfit/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeCSV(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "sarc.csv")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestCompareSelectionsSchools(t *testing.T) {
	st := algo.Score(sampleTable(), algo.DefaultSettings(nil))
	result := CompareSelections(st, []schema.Selection{
		{District: " encinitas union ", School: "OLIVENHAIN PIONEER"},
		{District: "Vista Unified", School: "Bobier"},
		{District: "Del Mar Union", School: "Ashley Falls"},
		{District: "Vista Unified", School: "El Camino Creek"},
	})

	assert.Equal(t, schema.SchoolLevel, result.Level)
	assert.Equal(t, 6, result.TotalCount)
	assert.Equal(t, 10.0, result.Scale)
	require.Len(t, result.Entries, 4)

	first := result.Entries[0]
	assert.True(t, first.Found)
	assert.Equal(t, "Encinitas Union", first.District, "canonical names replace the typed ones")
	assert.Equal(t, "Olivenhain Pioneer", first.School)
	assert.Equal(t, "San Diego", first.County)
	assert.Equal(t, 1, first.Rank)

	assert.True(t, result.Entries[1].Found)
	assert.Greater(t, result.Entries[1].Rank, first.Rank)

	missing := result.Entries[2]
	assert.False(t, missing.Found)
	assert.Equal(t, "Ashley Falls", missing.School)
	assert.Zero(t, missing.Rank)

	assert.False(t, result.Entries[3].Found, "school must be in the named district")
}

func TestCompareSelectionsDistricts(t *testing.T) {
	st := algo.ScoreDistricts(sampleTable(), algo.DefaultSettings(nil))
	result := CompareSelections(st, []schema.Selection{
		{District: "central unified"},
		{District: "Encinitas Union"},
	})

	assert.Equal(t, schema.DistrictLevel, result.Level)
	assert.Equal(t, 5, result.TotalCount)
	require.Len(t, result.Entries, 2)

	// Central Unified exists in Orange and Fresno; the better-ranked one wins.
	central := result.Entries[0]
	assert.True(t, central.Found)
	assert.Equal(t, "Central Unified", central.District)
	assert.Empty(t, central.School)
	for _, row := range st.Rows {
		if row.District == "Central Unified" && row.County != central.County {
			assert.LessOrEqual(t, central.Rank, row.Rank)
		}
	}
	assert.Equal(t, 1, result.Entries[1].Rank)
}

func TestCompareSelectionsEmpty(t *testing.T) {
	result := CompareSelections(schema.ScoredTable{Level: schema.SchoolLevel}, nil)
	assert.Empty(t, result.Entries)
	assert.NotNil(t, result.Entries)
}

func TestGetCompareResults(t *testing.T) {
	cfg := testConfig()
	cfg.County = "Orange"
	cfg.Level = schema.DistrictLevel
	cfg.Selections = []schema.Selection{{District: "Capistrano Unified"}, {District: "Encinitas Union"}}
	mgr := mockManager(cfg, sampleTable())

	result, err := GetCompareResults(context.Background(), cfg, mgr)
	require.NoError(t, err)
	mgr.AssertExpectations(t)

	assert.Equal(t, "Orange", result.County)
	assert.Equal(t, 2, result.TotalCount)
	assert.True(t, result.Entries[0].Found)
	assert.False(t, result.Entries[1].Found, "other counties are out of scope")
}
