package iocache

import (
	"context"
	"errors"
	"fmt"

	"github.com/huangsam/schoolfit/internal/contract"
	"github.com/huangsam/schoolfit/internal/parquet"
)

// ExportStoredTable writes the stored table to a Parquet file with the
// ingestion column names, so the file can be passed back as a data file.
func ExportStoredTable(ctx context.Context, store contract.TableStore, outputFile string) (int, error) {
	// Validate that output file is specified
	if outputFile == "" {
		return 0, errors.New("--output-file is required for export command")
	}
	if store == nil {
		return 0, fmt.Errorf("no table store configured. Set --data-backend to sqlite, mysql or postgresql")
	}

	table, err := store.Load(ctx)
	if err != nil {
		return 0, err
	}

	rows := parquet.NewEntityRows(table)
	if err := parquet.WriteEntityRowsParquet(rows, outputFile); err != nil {
		return 0, fmt.Errorf("failed to write stored table: %w", err)
	}
	return len(rows), nil
}
