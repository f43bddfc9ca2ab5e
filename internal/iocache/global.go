package iocache

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/huangsam/schoolfit/schema"
)

// Global Manager instance for main logic.
var (
	Manager   = NewTableStoreManager(nil)
	initOnce  sync.Once
	closeOnce sync.Once
)

// InitStore initializes the global manager with a table store.
// An empty or none backend leaves the manager without a store, so runs must
// name a data file.
func InitStore(backend schema.DatabaseBackend, connStr string) error {
	var initErr error

	initOnce.Do(func() {
		// This function body runs exactly once, even with concurrent calls.
		if backend == "" || backend == schema.NoneBackend {
			return
		}
		store, err := NewTableStore(backend, connStr)
		if err != nil {
			initErr = fmt.Errorf("failed to initialize table store: %w", err)
			return
		}

		Manager.Lock()
		Manager.store = store
		Manager.Unlock()
	})

	// After once.Do, initErr will contain any error from the initialization block.
	return initErr
}

// CloseStore should be called on application shutdown.
func CloseStore() { // called in main defer
	closeOnce.Do(func() {
		Manager.Lock()
		defer Manager.Unlock()
		if Manager.store != nil {
			_ = Manager.store.Close()
		}
	})
}

// ImportFile loads a CSV or Parquet file and replaces the store's contents with it.
func ImportFile(ctx context.Context, mgr *TableStoreManager, path string) (schema.ImportSummary, error) {
	store := mgr.GetTableStore()
	if store == nil {
		return schema.ImportSummary{}, fmt.Errorf("no table store configured. Set --data-backend to sqlite, mysql or postgresql")
	}
	src, err := NewFileSource(path)
	if err != nil {
		return schema.ImportSummary{}, err
	}
	table, err := src.Load(ctx)
	if err != nil {
		return schema.ImportSummary{}, fmt.Errorf("failed to read %s: %w", path, err)
	}
	table, skipped := dropUnnamedRows(table)
	summary, err := store.Import(ctx, table, path)
	summary.Skipped = skipped
	if err != nil {
		return summary, err
	}
	mgr.InvalidateTable(store)
	return summary, nil
}

// dropUnnamedRows removes rows that lack a district or school name, since
// they cannot be looked up or rolled up, and returns how many were removed.
func dropUnnamedRows(table schema.Table) (schema.Table, int) {
	kept := schema.Table{Columns: table.Columns, Rows: make([]schema.Entity, 0, len(table.Rows))}
	for _, e := range table.Rows {
		if strings.TrimSpace(e.District) == "" || strings.TrimSpace(e.School) == "" {
			continue
		}
		kept.Rows = append(kept.Rows, e)
	}
	return kept, len(table.Rows) - len(kept.Rows)
}
