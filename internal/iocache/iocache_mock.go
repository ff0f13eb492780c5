package iocache

import (
	"context"

	"github.com/johanreventlow/BFHcharts-sub001/internal/contract"
	"github.com/johanreventlow/BFHcharts-sub001/schema"
	"github.com/stretchr/testify/mock"
)

// MockHistoryManager is a mock implementation of HistoryManager for testing.
type MockHistoryManager struct {
	mock.Mock
}

var _ contract.HistoryManager = &MockHistoryManager{} // Compile-time check

// GetHistoryStore implements the HistoryManager interface.
func (m *MockHistoryManager) GetHistoryStore() contract.HistoryStore {
	ret := m.Called()
	store, _ := ret.Get(0).(contract.HistoryStore)
	return store
}

// MockHistoryStore is a mock implementation of HistoryStore for testing.
type MockHistoryStore struct {
	mock.Mock
}

var _ contract.HistoryStore = &MockHistoryStore{} // Compile-time check

// RecordRun implements the HistoryStore interface.
func (m *MockHistoryStore) RecordRun(ctx context.Context, run schema.AxisRunRecord, breaks []schema.AxisBreakRecord) (int64, error) {
	args := m.Called(ctx, run, breaks)
	return args.Get(0).(int64), args.Error(1)
}

// GetStatus implements the HistoryStore interface.
func (m *MockHistoryStore) GetStatus(ctx context.Context) (schema.HistoryStatus, error) {
	args := m.Called(ctx)
	return args.Get(0).(schema.HistoryStatus), args.Error(1)
}

// GetAllRuns implements the HistoryStore interface.
func (m *MockHistoryStore) GetAllRuns(ctx context.Context) ([]schema.AxisRunRecord, error) {
	args := m.Called(ctx)
	runs, _ := args.Get(0).([]schema.AxisRunRecord)
	return runs, args.Error(1)
}

// GetAllBreaks implements the HistoryStore interface.
func (m *MockHistoryStore) GetAllBreaks(ctx context.Context) ([]schema.AxisBreakRecord, error) {
	args := m.Called(ctx)
	breaks, _ := args.Get(0).([]schema.AxisBreakRecord)
	return breaks, args.Error(1)
}

// Close implements the HistoryStore interface.
func (m *MockHistoryStore) Close() error {
	args := m.Called()
	return args.Error(0)
}
