package outwriter

import (
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"

	"github.com/huangsam/schoolfit/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrintCounties(t *testing.T) {
	counties := []schema.CountySummary{
		{County: "Orange", Districts: 2, Schools: 5},
		{County: "San Diego", Districts: 3, Schools: 9},
	}

	tests := []struct {
		name   string
		output schema.OutputMode
		want   []string
	}{
		{name: "text", output: schema.TextOut, want: []string{"Orange", "San Diego", "2 counties"}},
		{name: "csv", output: schema.CSVOut, want: []string{"county,districts,schools\n", "San Diego,3,9\n"}},
		{name: "json", output: schema.JSONOut, want: []string{`"county": "Orange"`, `"schools": 9`}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := testConfig()
			cfg.Output = tt.output
			cfg.OutputFile = filepath.Join(t.TempDir(), "counties")

			require.NoError(t, PrintCounties(counties, cfg))

			out := string(readFile(t, cfg.OutputFile))
			for _, w := range tt.want {
				assert.Contains(t, out, w)
			}
		})
	}
}

func TestPrintDistrictList(t *testing.T) {
	districts := []schema.DistrictSummary{
		{County: "Orange", District: "Capistrano Unified", Schools: 3},
	}

	cfg := testConfig()
	cfg.County = "Orange"
	cfg.OutputFile = filepath.Join(t.TempDir(), "districts.txt")
	require.NoError(t, PrintDistrictList(districts, cfg))
	out := string(readFile(t, cfg.OutputFile))
	assert.Contains(t, out, "Capistrano Unified")
	assert.Contains(t, out, "1 districts in Orange")

	cfg.Output = schema.CSVOut
	require.NoError(t, PrintDistrictList(districts, cfg))
	assert.Equal(t, "county,district,schools\nOrange,Capistrano Unified,3\n", string(readFile(t, cfg.OutputFile)))
}

func TestPrintDistrictList_EmptyJSONIsArray(t *testing.T) {
	cfg := testConfig()
	cfg.Output = schema.JSONOut
	cfg.OutputFile = filepath.Join(t.TempDir(), "districts.json")

	require.NoError(t, PrintDistrictList(nil, cfg))
	assert.Equal(t, "[]", strings.TrimSpace(string(readFile(t, cfg.OutputFile))))
}

func TestPrintSchoolList(t *testing.T) {
	schools := []schema.Entity{
		{
			CDSCode: "37681306037504", County: "San Diego", District: "Encinitas Union", School: "El Camino Creek",
			Values: map[schema.MetricKey]any{schema.MathKey: "78.2", schema.ELAKey: "*"},
		},
	}

	t.Run("text with detail", func(t *testing.T) {
		cfg := testConfig()
		cfg.Detail = true
		cfg.OutputFile = filepath.Join(t.TempDir(), "schools.txt")

		require.NoError(t, PrintSchoolList(schools, cfg))
		out := string(readFile(t, cfg.OutputFile))
		assert.Contains(t, out, "El Camino Creek")
		assert.Contains(t, out, "37681306037504")
		assert.Contains(t, out, "78.2")
		assert.Contains(t, out, "1 schools")
	})

	t.Run("csv", func(t *testing.T) {
		cfg := testConfig()
		cfg.Output = schema.CSVOut
		cfg.OutputFile = filepath.Join(t.TempDir(), "schools.csv")

		require.NoError(t, PrintSchoolList(schools, cfg))
		assert.Equal(t,
			"cds_code,county,district,school,smath_y1,sela_y1\n37681306037504,San Diego,Encinitas Union,El Camino Creek,78.2,\n",
			string(readFile(t, cfg.OutputFile)))
	})

	t.Run("json", func(t *testing.T) {
		cfg := testConfig()
		cfg.Output = schema.JSONOut
		cfg.OutputFile = filepath.Join(t.TempDir(), "schools.json")

		require.NoError(t, PrintSchoolList(schools, cfg))
		var got []schema.Entity
		require.NoError(t, json.Unmarshal(readFile(t, cfg.OutputFile), &got))
		require.Len(t, got, 1)
		assert.Equal(t, "El Camino Creek", got[0].School)
	})

	t.Run("parquet unsupported", func(t *testing.T) {
		cfg := testConfig()
		cfg.Output = schema.ParquetOut
		cfg.OutputFile = filepath.Join(t.TempDir(), "schools.parquet")
		assert.Error(t, PrintSchoolList(schools, cfg))
	})
}
