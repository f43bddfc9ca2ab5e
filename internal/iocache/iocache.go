// Package iocache is for loading, storing and memoizing school tables.
package iocache

import (
	"context"
	"errors"
	"sync"

	"github.com/huangsam/schoolfit/internal/contract"
	"github.com/huangsam/schoolfit/schema"
)

// ErrNoDataSource is returned when neither a data file nor a table store is configured.
var ErrNoDataSource = errors.New("no data source. Pass a CSV or Parquet file, set 'data' in the config, or import into a table store")

// IsNoData reports whether err means there is no table to load yet: no
// source is configured, or the store has never been imported into.
func IsNoData(err error) bool {
	return errors.Is(err, ErrNoDataSource) || errors.Is(err, ErrEmptyStore)
}

// TableStoreManager resolves table sources and memoizes loaded tables.
type TableStoreManager struct {
	sync.RWMutex // Protects the store pointer during initialization
	store        contract.TableStore
	tables       *TableCache
}

var _ contract.StoreManager = &TableStoreManager{} // Compile-time check

// NewTableStoreManager returns a manager over the store, which may be nil.
func NewTableStoreManager(store contract.TableStore) *TableStoreManager {
	return &TableStoreManager{store: store, tables: NewTableCache()}
}

// GetTableStore returns the configured TableStore.
func (mgr *TableStoreManager) GetTableStore() contract.TableStore {
	mgr.RLock()
	defer mgr.RUnlock()
	return mgr.store
}

// GetTableSource returns the data file source when one is configured, else the store.
func (mgr *TableStoreManager) GetTableSource(cfg *contract.Config) (contract.TableSource, error) {
	if cfg.DataFile != "" {
		return NewFileSource(cfg.DataFile)
	}
	if store := mgr.GetTableStore(); store != nil {
		return store, nil
	}
	return nil, ErrNoDataSource
}

// LoadTable loads the source once and returns the shared table.
func (mgr *TableStoreManager) LoadTable(ctx context.Context, src contract.TableSource) (schema.Table, error) {
	return mgr.tables.Load(ctx, src)
}

// InvalidateTable drops the memoized table for the source, e.g. after an import.
func (mgr *TableStoreManager) InvalidateTable(src contract.TableSource) {
	mgr.tables.Invalidate(src.Key())
}

// TableCache memoizes loaded tables per source key.
// Concurrent loads of the same key wait for one read; failed loads are retried.
type TableCache struct {
	mu      sync.Mutex
	entries map[string]*tableEntry
}

type tableEntry struct {
	mu     sync.Mutex
	loaded bool
	table  schema.Table
}

// NewTableCache returns an empty cache.
func NewTableCache() *TableCache {
	return &TableCache{entries: make(map[string]*tableEntry)}
}

// Load returns the memoized table for the source, reading it on first use.
func (c *TableCache) Load(ctx context.Context, src contract.TableSource) (schema.Table, error) {
	key := src.Key()

	c.mu.Lock()
	entry, ok := c.entries[key]
	if !ok {
		entry = &tableEntry{}
		c.entries[key] = entry
	}
	c.mu.Unlock()

	entry.mu.Lock()
	defer entry.mu.Unlock()
	if entry.loaded {
		return entry.table, nil
	}
	table, err := src.Load(ctx)
	if err != nil {
		return schema.Table{}, err
	}
	entry.table = table
	entry.loaded = true
	return table, nil
}

// Invalidate forgets the table for key.
func (c *TableCache) Invalidate(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, key)
}

// Len returns the number of keys with a cache entry.
func (c *TableCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}
