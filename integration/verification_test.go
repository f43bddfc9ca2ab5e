//go:build integration

// Package integration contains integration tests for schoolfit.
// These tests are excluded from normal test runs due to build tags.
// To run these tests: go test -tags integration ./integration
package integration

import (
	"encoding/csv"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// parseCSVOutput reads schoolfit CSV output into header-keyed records.
func parseCSVOutput(t *testing.T, output string) []map[string]string {
	t.Helper()
	records, err := csv.NewReader(strings.NewReader(output)).ReadAll()
	require.NoError(t, err)
	require.NotEmpty(t, records)

	header := records[0]
	var rows []map[string]string
	for _, rec := range records[1:] {
		row := make(map[string]string, len(header))
		for i, h := range header {
			row[h] = rec[i]
		}
		rows = append(rows, row)
	}
	return rows
}

// TestMathOnlyRankingFollowsMath checks that a single linear metric ranks schools by its raw value.
func TestMathOnlyRankingFollowsMath(t *testing.T) {
	fixture := writeFixture(t)
	weights := "SMATH_Y1=10,SELA_Y1=0,AVG_SIZE=0,PERDI=0,PEREL=0,PERSD=0"

	out, err := runSchoolfit(t, nil, "schools", fixture,
		"--data-backend", "none", "--weight", weights, "--output", "csv")
	require.NoError(t, err)

	rows := parseCSVOutput(t, out)
	require.Len(t, rows, 6)

	prev := 101.0
	for i, row := range rows {
		assert.Equal(t, strconv.Itoa(i+1), row["rank"])
		math, err := strconv.ParseFloat(row["smath_y1"], 64)
		require.NoError(t, err)
		assert.LessOrEqual(t, math, prev, "row %d out of math order", i+1)
		prev = math
	}
	assert.Equal(t, "El Camino Creek", rows[0]["school"])
	assert.Equal(t, "Bobier", rows[5]["school"])
}

// TestCountyFilterAndRollup checks that districts only roll up schools in scope.
func TestCountyFilterAndRollup(t *testing.T) {
	fixture := writeFixture(t)

	out, err := runSchoolfit(t, nil, "districts", fixture,
		"--data-backend", "none", "--county", "san diego", "--output", "csv")
	require.NoError(t, err)

	rows := parseCSVOutput(t, out)
	require.Len(t, rows, 2)
	for _, row := range rows {
		assert.Equal(t, "San Diego", row["county"])
		assert.Equal(t, "2", row["members"])
	}
}

// TestCompareStandings checks that compare ranks selections against the whole scope.
func TestCompareStandings(t *testing.T) {
	fixture := writeFixture(t)

	out, err := runSchoolfit(t, nil, "compare", fixture, "--data-backend", "none",
		"--select", "Vista Unified/Bobier", "--select", "Nowhere/Missing", "--output", "csv")
	require.NoError(t, err)

	rows := parseCSVOutput(t, out)
	require.Len(t, rows, 2)
	assert.Equal(t, "true", rows[0]["found"])
	assert.Equal(t, "6", rows[0]["total"])
	assert.Equal(t, "false", rows[1]["found"])
}

// TestMissingSelectFails checks that compare refuses to run without selections.
func TestMissingSelectFails(t *testing.T) {
	fixture := writeFixture(t)

	out, err := runSchoolfit(t, nil, "compare", fixture, "--data-backend", "none")
	require.Error(t, err)
	assert.Contains(t, out, "--select")
}
