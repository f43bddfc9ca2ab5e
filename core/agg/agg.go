// Package agg has catalog aggregation over the raw school table.
package agg

import (
	"cmp"
	"slices"
	"strings"

	"github.com/huangsam/schoolfit/schema"
)

// districtKey identifies a district; names repeat across counties.
type districtKey struct {
	county   string
	district string
}

// ListCounties counts districts and schools per county, sorted by county name.
func ListCounties(table schema.Table) []schema.CountySummary {
	schools := make(map[string]int)
	districts := make(map[districtKey]struct{})
	for _, e := range table.Rows {
		schools[e.County]++
		districts[districtKey{e.County, e.District}] = struct{}{}
	}

	districtCounts := make(map[string]int, len(schools))
	for k := range districts {
		districtCounts[k.county]++
	}

	summaries := make([]schema.CountySummary, 0, len(schools))
	for county, n := range schools {
		summaries = append(summaries, schema.CountySummary{
			County:    county,
			Districts: districtCounts[county],
			Schools:   n,
		})
	}
	slices.SortFunc(summaries, func(a, b schema.CountySummary) int {
		return strings.Compare(a.County, b.County)
	})
	return summaries
}

// ListDistricts counts schools per district, optionally within one county
// (case-insensitive). Results are sorted by district, then county.
func ListDistricts(table schema.Table, county string) []schema.DistrictSummary {
	county = strings.TrimSpace(county)
	counts := make(map[districtKey]int)
	for _, e := range table.Rows {
		if county != "" && !strings.EqualFold(e.County, county) {
			continue
		}
		counts[districtKey{e.County, e.District}]++
	}

	summaries := make([]schema.DistrictSummary, 0, len(counts))
	for k, n := range counts {
		summaries = append(summaries, schema.DistrictSummary{County: k.county, District: k.district, Schools: n})
	}
	slices.SortFunc(summaries, func(a, b schema.DistrictSummary) int {
		return cmp.Or(
			strings.Compare(a.District, b.District),
			strings.Compare(a.County, b.County),
		)
	})
	return summaries
}

// SchoolsInDistrict returns the schools of a district (case-insensitive),
// sorted by school name. An empty district returns every school.
func SchoolsInDistrict(table schema.Table, district string) []schema.Entity {
	district = strings.TrimSpace(district)
	var schools []schema.Entity
	for _, e := range table.Rows {
		if district == "" || strings.EqualFold(e.District, district) {
			schools = append(schools, e)
		}
	}
	slices.SortStableFunc(schools, func(a, b schema.Entity) int {
		return cmp.Or(
			strings.Compare(a.School, b.School),
			strings.Compare(a.District, b.District),
		)
	})
	return schools
}
