package api

import (
	"context"
	"sync"

	"github.com/cloudboard/aggregator/pkg/syncer"
	"github.com/cloudboard/aggregator/pkg/unified"
)

// mockStore is a mock implementation of Store
type mockStore struct {
	ListExpiringResourcesFunc func(ctx context.Context, thresholdDays int, order string) ([]unified.Resource, error)
	ListAccountBalancesFunc   func(ctx context.Context) ([]unified.AccountBalance, error)
	ListBillingDetailsFunc    func(ctx context.Context) ([]unified.Bill, error)
	UpsertResourceRemarkFunc  func(ctx context.Context, provider, resourceID, remark string) error
	ListSyncLogsFunc          func(ctx context.Context, limit int) ([]unified.SyncLogEntry, error)
}

func (m *mockStore) ListExpiringResources(ctx context.Context, thresholdDays int, order string) ([]unified.Resource, error) {
	if m.ListExpiringResourcesFunc != nil {
		return m.ListExpiringResourcesFunc(ctx, thresholdDays, order)
	}
	return nil, nil
}

func (m *mockStore) ListAccountBalances(ctx context.Context) ([]unified.AccountBalance, error) {
	if m.ListAccountBalancesFunc != nil {
		return m.ListAccountBalancesFunc(ctx)
	}
	return nil, nil
}

func (m *mockStore) ListBillingDetails(ctx context.Context) ([]unified.Bill, error) {
	if m.ListBillingDetailsFunc != nil {
		return m.ListBillingDetailsFunc(ctx)
	}
	return nil, nil
}

func (m *mockStore) UpsertResourceRemark(ctx context.Context, provider, resourceID, remark string) error {
	if m.UpsertResourceRemarkFunc != nil {
		return m.UpsertResourceRemarkFunc(ctx, provider, resourceID, remark)
	}
	return nil
}

func (m *mockStore) ListSyncLogs(ctx context.Context, limit int) ([]unified.SyncLogEntry, error) {
	if m.ListSyncLogsFunc != nil {
		return m.ListSyncLogsFunc(ctx, limit)
	}
	return nil, nil
}

// mockTrigger records SynchronizeAll calls and signals each one on Called.
type mockTrigger struct {
	SynchronizeAllFunc func(ctx context.Context) (*syncer.CycleSummary, error)

	mu     sync.Mutex
	calls  int
	Called chan struct{}
}

func newMockTrigger() *mockTrigger {
	return &mockTrigger{Called: make(chan struct{}, 8)}
}

func (m *mockTrigger) SynchronizeAll(ctx context.Context) (*syncer.CycleSummary, error) {
	m.mu.Lock()
	m.calls++
	m.mu.Unlock()

	var summary *syncer.CycleSummary
	var err error
	if m.SynchronizeAllFunc != nil {
		summary, err = m.SynchronizeAllFunc(ctx)
	} else {
		summary = &syncer.CycleSummary{BatchID: "SYNC_1", Attempts: 1}
	}
	m.Called <- struct{}{}
	return summary, err
}

func (m *mockTrigger) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}
