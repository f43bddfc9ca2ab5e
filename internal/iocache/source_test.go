package iocache

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/huangsam/schoolfit/internal/parquet"
	"github.com/huangsam/schoolfit/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sarcCSV = "\ufeffCDSCode,County,District,School,SMATH_Y1,sela_y1,ENROLLED\n" +
	"37681306037504,San Diego,Encinitas Union,El Camino Creek,78.2,81,540\n" +
	"37683386039085,San Diego,Vista Unified,Bobier,*,,610\n" +
	"37683386039086,San Diego,Vista Unified,Short Row\n"

func TestReadCSV(t *testing.T) {
	table, err := ReadCSV(strings.NewReader(sarcCSV))
	require.NoError(t, err)

	assert.Equal(t, []schema.MetricKey{schema.MathKey, schema.ELAKey}, table.Columns)
	require.Len(t, table.Rows, 3)

	first := table.Rows[0]
	assert.Equal(t, "37681306037504", first.CDSCode, "byte order mark is stripped")
	assert.Equal(t, "Encinitas Union", first.District)
	assert.Equal(t, "78.2", first.Values[schema.MathKey])
	assert.Equal(t, "81", first.Values[schema.ELAKey])
	assert.NotContains(t, first.Values, schema.MetricKey("ENROLLED"))

	second := table.Rows[1]
	assert.Equal(t, "*", second.Values[schema.MathKey])
	assert.Nil(t, second.Values[schema.ELAKey], "empty cells load as nil")

	third := table.Rows[2]
	assert.Equal(t, "Short Row", third.School)
	assert.Contains(t, third.Values, schema.MathKey)
	assert.Nil(t, third.Values[schema.MathKey])
}

func TestReadCSVEdgeCases(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		rows    int
		wantErr bool
	}{
		{"empty input", "", 0, false},
		{"header only", "CDSCode,County,District,School\n", 0, false},
		{"no metric columns", "District,School\nA,B\n", 1, false},
		{"bad quoting", "District,School\n\"A,B\n", 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			table, err := ReadCSV(strings.NewReader(tt.input))
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Len(t, table.Rows, tt.rows)
		})
	}
}

func TestFileSource(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	csvPath := filepath.Join(dir, "sarc.csv")
	require.NoError(t, os.WriteFile(csvPath, []byte(sarcCSV), 0o644))
	src, err := NewFileSource(csvPath)
	require.NoError(t, err)
	assert.Equal(t, "file:"+csvPath, src.Key())
	table, err := src.Load(ctx)
	require.NoError(t, err)
	assert.Len(t, table.Rows, 3)

	parquetPath := filepath.Join(dir, "sarc_master.PARQUET")
	require.NoError(t, parquet.WriteEntityRowsParquet(parquet.NewEntityRows(table), parquetPath))
	src, err = NewFileSource(parquetPath)
	require.NoError(t, err)
	table, err = src.Load(ctx)
	require.NoError(t, err)
	require.Len(t, table.Rows, 3)
	assert.Equal(t, 78.2, table.Rows[0].Values[schema.MathKey])

	_, err = NewFileSource(filepath.Join(dir, "sarc.xlsx"))
	assert.ErrorContains(t, err, "unsupported data file")

	src, err = NewFileSource(filepath.Join(dir, "missing.csv"))
	require.NoError(t, err)
	_, err = src.Load(ctx)
	assert.Error(t, err)

	cancelled, cancel := context.WithCancel(ctx)
	cancel()
	src, err = NewFileSource(csvPath)
	require.NoError(t, err)
	_, err = src.Load(cancelled)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestMemorySource(t *testing.T) {
	src := &MemorySource{Name: "sample", Table: sampleTable()}
	assert.Equal(t, "memory:sample", src.Key())
	table, err := src.Load(context.Background())
	require.NoError(t, err)
	assert.Len(t, table.Rows, 3)
}
