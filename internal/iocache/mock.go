package iocache

import (
	"context"

	"github.com/huangsam/schoolfit/internal/contract"
	"github.com/huangsam/schoolfit/schema"
	"github.com/stretchr/testify/mock"
)

// MockStoreManager is a mock implementation of StoreManager for testing.
type MockStoreManager struct {
	mock.Mock
}

var _ contract.StoreManager = &MockStoreManager{} // Compile-time check

// GetTableStore implements the StoreManager interface.
func (m *MockStoreManager) GetTableStore() contract.TableStore {
	ret := m.Called()
	store, _ := ret.Get(0).(contract.TableStore)
	return store
}

// GetTableSource implements the StoreManager interface.
func (m *MockStoreManager) GetTableSource(cfg *contract.Config) (contract.TableSource, error) {
	ret := m.Called(cfg)
	src, _ := ret.Get(0).(contract.TableSource)
	return src, ret.Error(1)
}

// LoadTable implements the StoreManager interface.
func (m *MockStoreManager) LoadTable(ctx context.Context, src contract.TableSource) (schema.Table, error) {
	ret := m.Called(ctx, src)
	return ret.Get(0).(schema.Table), ret.Error(1)
}

// MockTableStore is a mock implementation of TableStore for testing.
type MockTableStore struct {
	mock.Mock
}

var _ contract.TableStore = &MockTableStore{} // Compile-time check

// Key implements the TableSource interface.
func (m *MockTableStore) Key() string {
	args := m.Called()
	return args.String(0)
}

// Load implements the TableSource interface.
func (m *MockTableStore) Load(ctx context.Context) (schema.Table, error) {
	args := m.Called(ctx)
	return args.Get(0).(schema.Table), args.Error(1)
}

// Import implements the TableStore interface.
func (m *MockTableStore) Import(ctx context.Context, table schema.Table, sourceFile string) (schema.ImportSummary, error) {
	args := m.Called(ctx, table, sourceFile)
	return args.Get(0).(schema.ImportSummary), args.Error(1)
}

// Clear implements the TableStore interface.
func (m *MockTableStore) Clear(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

// GetStatus implements the TableStore interface.
func (m *MockTableStore) GetStatus(ctx context.Context) (schema.StoreStatus, error) {
	args := m.Called(ctx)
	return args.Get(0).(schema.StoreStatus), args.Error(1)
}

// Close implements the TableStore interface.
func (m *MockTableStore) Close() error {
	args := m.Called()
	return args.Error(0)
}
