// Package contract provides interfaces and shared utilities for internal architecture.
package contract

import (
	"context"

	"github.com/huangsam/schoolfit/schema"
)

// TableSource produces the raw school table from some backing medium.
// This allows the orchestration layer to be tested without real files or databases.
type TableSource interface {
	// Key identifies the source for memoization, e.g. "file:/abs/path.parquet".
	Key() string

	// Load reads the whole table. Implementations must not cache.
	Load(ctx context.Context) (schema.Table, error)
}

// TableStore persists imported school tables in a SQL database.
// A store is also a TableSource serving the most recent import.
type TableStore interface {
	TableSource

	// Import replaces the stored table with the given one under a new batch id.
	Import(ctx context.Context, table schema.Table, sourceFile string) (schema.ImportSummary, error)

	// Clear removes every stored row.
	Clear(ctx context.Context) error

	// GetStatus returns status information about the table store.
	GetStatus(ctx context.Context) (schema.StoreStatus, error)

	// Close closes the underlying connection.
	Close() error
}

// StoreManager resolves table sources and memoizes loaded tables.
// This allows the data layer to be mocked for testing.
type StoreManager interface {
	// GetTableStore returns the configured SQL store, or nil when the backend is none.
	GetTableStore() TableStore

	// GetTableSource picks the source for a run: the data file when set, else the store.
	GetTableSource(cfg *Config) (TableSource, error)

	// LoadTable loads the table from a source once per process and returns the shared copy.
	LoadTable(ctx context.Context, src TableSource) (schema.Table, error)
}
