package iocache

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/huangsam/schoolfit/internal/contract"
	"github.com/huangsam/schoolfit/internal/parquet"
	"github.com/huangsam/schoolfit/schema"
)

// FileSource loads the school table from a CSV or Parquet file.
type FileSource struct {
	path   string
	format string
}

var _ contract.TableSource = &FileSource{} // Compile-time check

// NewFileSource returns a source for the file, picking the reader by extension.
func NewFileSource(path string) (*FileSource, error) {
	format, err := contract.DataFormatOf(path)
	if err != nil {
		return nil, err
	}
	return &FileSource{path: path, format: format}, nil
}

// Key identifies the file for memoization.
func (fs *FileSource) Key() string {
	return "file:" + fs.path
}

// Load reads the whole file.
func (fs *FileSource) Load(ctx context.Context) (schema.Table, error) {
	if err := ctx.Err(); err != nil {
		return schema.Table{}, err
	}
	switch fs.format {
	case "parquet":
		return parquet.ReadTable(fs.path)
	default:
		return ReadCSVFile(fs.path)
	}
}

// ReadCSVFile reads a CSV file with a header row into a raw school table.
func ReadCSVFile(path string) (schema.Table, error) {
	file, err := os.Open(path)
	if err != nil {
		return schema.Table{}, fmt.Errorf("failed to open CSV file: %w", err)
	}
	defer func() { _ = file.Close() }()
	return ReadCSV(file)
}

// ReadCSV reads CSV data with a header row into a raw school table.
// Headers are matched case-insensitively; unknown columns are ignored.
// Cells stay as strings, and empty or absent cells become nil.
func ReadCSV(r io.Reader) (schema.Table, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return schema.Table{}, nil
	}
	if err != nil {
		return schema.Table{}, fmt.Errorf("failed to read CSV header: %w", err)
	}

	identities := make([]string, len(header))
	metrics := make([]schema.MetricKey, len(header))
	var table schema.Table
	for i, h := range header {
		h = strings.TrimPrefix(h, "\ufeff") // spreadsheet byte order mark
		identities[i], metrics[i] = schema.ResolveColumn(h)
		if metrics[i] != "" && !table.HasColumn(metrics[i]) {
			table.Columns = append(table.Columns, metrics[i])
		}
	}

	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return schema.Table{}, fmt.Errorf("failed to read CSV row %d: %w", len(table.Rows)+2, err)
		}
		e := schema.Entity{Values: make(map[schema.MetricKey]any, len(table.Columns))}
		for _, key := range table.Columns {
			e.Values[key] = nil
		}
		for i, cell := range record {
			if i >= len(header) {
				break
			}
			switch {
			case identities[i] != "":
				e.SetIdentity(identities[i], cell)
			case metrics[i] != "":
				if strings.TrimSpace(cell) != "" {
					e.Values[metrics[i]] = cell
				}
			}
		}
		table.Rows = append(table.Rows, e)
	}
	return table, nil
}

// MemorySource serves a table that is already in memory.
type MemorySource struct {
	Name  string
	Table schema.Table
}

var _ contract.TableSource = &MemorySource{} // Compile-time check

// Key identifies the source for memoization.
func (ms *MemorySource) Key() string {
	return "memory:" + ms.Name
}

// Load returns the in-memory table.
func (ms *MemorySource) Load(ctx context.Context) (schema.Table, error) {
	if err := ctx.Err(); err != nil {
		return schema.Table{}, err
	}
	return ms.Table, nil
}
