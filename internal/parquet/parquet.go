// Package parquet reads joined school tables from Parquet files and writes
// entity and scored rows using github.com/parquet-go/parquet-go.
package parquet

import (
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/huangsam/schoolfit/core/algo"
	"github.com/huangsam/schoolfit/schema"
	"github.com/parquet-go/parquet-go"
)

// readBatchSize is the number of rows pulled from a row group per call.
const readBatchSize = 256

// EntityRow is one school in the joined table, with the same column names
// the ingestion step writes to sarc_master.parquet.
type EntityRow struct {
	CDSCode  string `parquet:"CDSCode,snappy"`
	County   string `parquet:"County,snappy"`
	District string `parquet:"District,snappy"`
	School   string `parquet:"School,snappy"`

	// Metric columns are nullable; a null cell is imputed at scoring time.
	Math           *float64 `parquet:"SMATH_Y1,optional,snappy"`
	ELA            *float64 `parquet:"SELA_Y1,optional,snappy"`
	ClassSize      *float64 `parquet:"AVG_SIZE,optional,snappy"`
	Disadvantaged  *float64 `parquet:"PERDI,optional,snappy"`
	EnglishLearner *float64 `parquet:"PEREL,optional,snappy"`
	Disability     *float64 `parquet:"PERSD,optional,snappy"`
}

// ScoredRow is one ranked school or district in exported results.
type ScoredRow struct {
	// Level is "school" or "district"
	Level string `parquet:"level,snappy"`

	Rank  int32   `parquet:"rank,snappy"`
	Score float64 `parquet:"score,snappy"`
	Scale float64 `parquet:"scale,snappy"`
	Label string  `parquet:"label,snappy"`

	CDSCode  *string `parquet:"cds_code,optional,snappy"`
	County   string  `parquet:"county,snappy"`
	District string  `parquet:"district,snappy"`
	School   *string `parquet:"school,optional,snappy"` // null for districts

	// Members is the number of schools rolled into a district (null for schools)
	Members *int32 `parquet:"members,optional,snappy"`

	Math           *float64 `parquet:"smath_y1,optional,snappy"`
	ELA            *float64 `parquet:"sela_y1,optional,snappy"`
	ClassSize      *float64 `parquet:"avg_size,optional,snappy"`
	Disadvantaged  *float64 `parquet:"perdi,optional,snappy"`
	EnglishLearner *float64 `parquet:"perel,optional,snappy"`
	Disability     *float64 `parquet:"persd,optional,snappy"`

	// ScoredAt is when the ranking was produced
	ScoredAt time.Time `parquet:"scored_at,snappy"`
}

// ReadTable reads a Parquet file into a raw school table.
func ReadTable(path string) (schema.Table, error) {
	file, err := os.Open(path)
	if err != nil {
		return schema.Table{}, fmt.Errorf("failed to open parquet file: %w", err)
	}
	defer func() { _ = file.Close() }()

	info, err := file.Stat()
	if err != nil {
		return schema.Table{}, fmt.Errorf("failed to stat parquet file: %w", err)
	}
	return ReadTableFrom(file, info.Size())
}

// ReadTableFrom reads Parquet data of the given size into a raw school table.
// Columns are matched by name, so files with extra columns or string-typed
// metrics (as produced by spreadsheet exports) load the same way.
func ReadTableFrom(r io.ReaderAt, size int64) (schema.Table, error) {
	file, err := parquet.OpenFile(r, size)
	if err != nil {
		return schema.Table{}, fmt.Errorf("failed to read parquet file: %w", err)
	}

	// Leaf column index -> identity column or metric key
	leaves := file.Schema().Columns()
	identities := make([]string, len(leaves))
	metrics := make([]schema.MetricKey, len(leaves))
	var table schema.Table
	for i, path := range leaves {
		if len(path) != 1 {
			continue
		}
		identities[i], metrics[i] = schema.ResolveColumn(path[0])
		if metrics[i] != "" && !table.HasColumn(metrics[i]) {
			table.Columns = append(table.Columns, metrics[i])
		}
	}

	buf := make([]parquet.Row, readBatchSize)
	for _, rg := range file.RowGroups() {
		if err := readRowGroup(rg, buf, identities, metrics, &table); err != nil {
			return schema.Table{}, err
		}
	}
	return table, nil
}

// readRowGroup appends every row of one row group to the table.
func readRowGroup(rg parquet.RowGroup, buf []parquet.Row, identities []string, metrics []schema.MetricKey, table *schema.Table) error {
	rows := rg.Rows()
	defer func() { _ = rows.Close() }()

	for {
		n, err := rows.ReadRows(buf)
		for _, row := range buf[:n] {
			e := schema.Entity{Values: make(map[schema.MetricKey]any, len(table.Columns))}
			for _, v := range row {
				col := v.Column()
				if col < 0 || col >= len(identities) {
					continue
				}
				if identities[col] != "" {
					if cell := valueOf(v); cell != nil {
						e.SetIdentity(identities[col], fmt.Sprint(cell))
					}
					continue
				}
				if metrics[col] != "" {
					e.Values[metrics[col]] = valueOf(v)
				}
			}
			table.Rows = append(table.Rows, e)
		}
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("failed to read parquet rows: %w", err)
		}
	}
}

// valueOf converts a leaf value to a Go value the coercion layer understands.
func valueOf(v parquet.Value) any {
	if v.IsNull() {
		return nil
	}
	switch v.Kind() {
	case parquet.Boolean:
		return v.Boolean()
	case parquet.Int32:
		return v.Int32()
	case parquet.Int64:
		return v.Int64()
	case parquet.Float:
		return float64(v.Float())
	case parquet.Double:
		return v.Double()
	case parquet.ByteArray, parquet.FixedLenByteArray:
		return string(v.ByteArray())
	default:
		return nil
	}
}

// NewEntityRows converts a raw table into rows ready for Parquet output.
// Unparsable metric cells become nulls.
func NewEntityRows(table schema.Table) []EntityRow {
	rows := make([]EntityRow, len(table.Rows))
	for i, e := range table.Rows {
		rows[i] = EntityRow{
			CDSCode:        e.CDSCode,
			County:         e.County,
			District:       e.District,
			School:         e.School,
			Math:           metricPtr(e, schema.MathKey),
			ELA:            metricPtr(e, schema.ELAKey),
			ClassSize:      metricPtr(e, schema.ClassSizeKey),
			Disadvantaged:  metricPtr(e, schema.DisadvantagedKey),
			EnglishLearner: metricPtr(e, schema.EnglishLearnerKey),
			Disability:     metricPtr(e, schema.DisabilityKey),
		}
	}
	return rows
}

// NewScoredRows converts a ranked table into rows ready for Parquet output.
func NewScoredRows(st schema.ScoredTable, scoredAt time.Time) []ScoredRow {
	rows := make([]ScoredRow, len(st.Rows))
	for i, r := range st.Rows {
		row := ScoredRow{
			Level:          string(st.Level),
			Rank:           int32(r.Rank),
			Score:          r.Score,
			Scale:          st.Scale,
			Label:          schema.GetPlainLabel(r.Score, st.Scale),
			CDSCode:        stringPtr(r.CDSCode),
			County:         r.County,
			District:       r.District,
			School:         stringPtr(r.School),
			Math:           metricPtr(r.Entity, schema.MathKey),
			ELA:            metricPtr(r.Entity, schema.ELAKey),
			ClassSize:      metricPtr(r.Entity, schema.ClassSizeKey),
			Disadvantaged:  metricPtr(r.Entity, schema.DisadvantagedKey),
			EnglishLearner: metricPtr(r.Entity, schema.EnglishLearnerKey),
			Disability:     metricPtr(r.Entity, schema.DisabilityKey),
			ScoredAt:       scoredAt,
		}
		if r.Members > 0 {
			m := int32(r.Members)
			row.Members = &m
		}
		rows[i] = row
	}
	return rows
}

// WriteEntityRowsParquet writes entity rows to a Parquet file.
func WriteEntityRowsParquet(data []EntityRow, outputPath string) error {
	return writeParquetFile(data, outputPath)
}

// WriteScoredRowsParquet writes scored rows to a Parquet file.
func WriteScoredRowsParquet(data []ScoredRow, outputPath string) error {
	return writeParquetFile(data, outputPath)
}

// WriteScoredRows writes scored rows as Parquet to any writer.
func WriteScoredRows(w io.Writer, data []ScoredRow) error {
	return writeParquet(w, data)
}

// writeParquetFile creates the output file and writes all records to it.
func writeParquetFile[T any](data []T, outputPath string) error {
	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	if err := writeParquet(file, data); err != nil {
		_ = file.Close()
		return err
	}
	return file.Close()
}

// writeParquet writes records using struct schema inference from T's tags.
func writeParquet[T any](w io.Writer, data []T) error {
	writer := parquet.NewGenericWriter[T](w)
	if _, err := writer.Write(data); err != nil {
		_ = writer.Close()
		return fmt.Errorf("failed to write data to parquet file: %w", err)
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("failed to finalize parquet file: %w", err)
	}
	return nil
}

func metricPtr(e schema.Entity, key schema.MetricKey) *float64 {
	raw, ok := e.Value(key)
	if !ok {
		return nil
	}
	f, ok := algo.ToFloat(raw)
	if !ok {
		return nil
	}
	return &f
}

func stringPtr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
