package outwriter

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"testing"
	"time"

	"github.com/huangsam/schoolfit/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleComparison() schema.ComparisonResult {
	return schema.ComparisonResult{
		Level:      schema.SchoolLevel,
		County:     "San Diego",
		TotalCount: 120,
		Scale:      10,
		Entries: []schema.ComparisonEntry{
			{
				Selection: schema.Selection{District: "Encinitas Union", School: "El Camino Creek"},
				County:    "San Diego",
				CDSCode:   "37681306037504",
				Found:     true,
				Score:     8.7,
				Rank:      3,
			},
			{
				Selection: schema.Selection{District: "Nowhere Unified", School: "Ghost Elementary"},
			},
		},
	}
}

func TestFormatStanding(t *testing.T) {
	result := sampleComparison()

	tests := []struct {
		name   string
		entry  schema.ComparisonEntry
		county string
		want   string
	}{
		{name: "found in county", entry: result.Entries[0], county: "San Diego", want: "#3 of 120 in San Diego"},
		{name: "found statewide", entry: result.Entries[0], county: "", want: "#3 of 120 statewide"},
		{name: "missing", entry: result.Entries[1], county: "San Diego", want: "not found"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := result
			r.County = tt.county
			assert.Equal(t, tt.want, formatStanding(tt.entry, r))
		})
	}
}

func TestWriteComparisonTable(t *testing.T) {
	fmtFloat, _ := createFormatters(1)

	var buf bytes.Buffer
	require.NoError(t, writeComparisonTable(&buf, sampleComparison(), testConfig(), fmtFloat, 20*time.Millisecond))

	out := buf.String()
	assert.Contains(t, out, "Encinitas Union/El Camino Creek")
	assert.Contains(t, out, "#3 of 120 in San Diego")
	assert.Contains(t, out, "Nowhere Unified/Ghost Elementary")
	assert.Contains(t, out, "not found")
	assert.Contains(t, out, "Compared 2 schools (1 found) out of 120 ranked in San Diego")
}

func TestWriteCSVComparison(t *testing.T) {
	fmtFloat, intFmt := createFormatters(1)

	var buf bytes.Buffer
	require.NoError(t, writeCSVComparison(&buf, sampleComparison(), fmtFloat, intFmt))

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, []string{"selection", "district", "school", "county", "cds_code", "found", "score", "label", "rank", "total"}, records[0])
	assert.Equal(t, []string{"Encinitas Union/El Camino Creek", "Encinitas Union", "El Camino Creek", "San Diego", "37681306037504", "true", "8.7", schema.ExcellentFit, "3", "120"}, records[1])
	assert.Equal(t, []string{"Nowhere Unified/Ghost Elementary", "Nowhere Unified", "Ghost Elementary", "", "", "false", "", "", "", "120"}, records[2])
}

func TestPrintComparisonResults_JSON(t *testing.T) {
	cfg := testConfig()
	cfg.Output = schema.JSONOut
	cfg.OutputFile = t.TempDir() + "/compare.json"

	require.NoError(t, PrintComparisonResults(sampleComparison(), cfg, time.Second))

	var got schema.ComparisonResult
	data := readFile(t, cfg.OutputFile)
	require.NoError(t, json.Unmarshal(data, &got))
	assert.Equal(t, sampleComparison(), got)
}

func TestPrintComparisonResults_ParquetUnsupported(t *testing.T) {
	cfg := testConfig()
	cfg.Output = schema.ParquetOut
	cfg.OutputFile = t.TempDir() + "/compare.parquet"

	assert.Error(t, PrintComparisonResults(sampleComparison(), cfg, time.Second))
}
