package syncer

import (
	"context"
	"sync"

	"github.com/cloudboard/aggregator/pkg/unified"
	"github.com/cloudboard/aggregator/pkg/validator"
)

// MockSource is a mock implementation of source.Source
type MockSource struct {
	ProviderName  string
	ResourcesFunc func(ctx context.Context) ([]unified.Resource, error)
	BalancesFunc  func(ctx context.Context) ([]unified.AccountBalance, error)
	BillsFunc     func(ctx context.Context) ([]unified.Bill, error)
}

func (m *MockSource) Provider() string {
	return m.ProviderName
}

func (m *MockSource) Resources(ctx context.Context) ([]unified.Resource, error) {
	if m.ResourcesFunc != nil {
		return m.ResourcesFunc(ctx)
	}
	return nil, nil
}

func (m *MockSource) Balances(ctx context.Context) ([]unified.AccountBalance, error) {
	if m.BalancesFunc != nil {
		return m.BalancesFunc(ctx)
	}
	return nil, nil
}

func (m *MockSource) Bills(ctx context.Context) ([]unified.Bill, error) {
	if m.BillsFunc != nil {
		return m.BillsFunc(ctx)
	}
	return nil, nil
}

// MockStore is a mock implementation of Store that records every write.
type MockStore struct {
	ReplaceResourcesFunc func(ctx context.Context, batchID string, rows []unified.Resource) error
	ReplaceBalancesFunc  func(ctx context.Context, batchID string, rows []unified.AccountBalance) error
	ReplaceBillsFunc     func(ctx context.Context, batchID string, rows []unified.Bill) error

	mu              sync.Mutex
	ResourceBatches []string
	AccountBatches  []string
	BillBatches     []string
	Logs            []unified.SyncLogEntry
}

func (m *MockStore) ReplaceResources(ctx context.Context, batchID string, rows []unified.Resource) error {
	if m.ReplaceResourcesFunc != nil {
		if err := m.ReplaceResourcesFunc(ctx, batchID, rows); err != nil {
			return err
		}
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ResourceBatches = append(m.ResourceBatches, batchID)
	return nil
}

func (m *MockStore) ReplaceBalances(ctx context.Context, batchID string, rows []unified.AccountBalance) error {
	if m.ReplaceBalancesFunc != nil {
		if err := m.ReplaceBalancesFunc(ctx, batchID, rows); err != nil {
			return err
		}
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.AccountBatches = append(m.AccountBatches, batchID)
	return nil
}

func (m *MockStore) ReplaceBills(ctx context.Context, batchID string, rows []unified.Bill) error {
	if m.ReplaceBillsFunc != nil {
		if err := m.ReplaceBillsFunc(ctx, batchID, rows); err != nil {
			return err
		}
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.BillBatches = append(m.BillBatches, batchID)
	return nil
}

func (m *MockStore) AppendSyncLog(_ context.Context, entry unified.SyncLogEntry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Logs = append(m.Logs, entry)
	return nil
}

// LogsByType returns recorded log entries with the given sync type.
func (m *MockStore) LogsByType(syncType string) []unified.SyncLogEntry {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []unified.SyncLogEntry
	for _, entry := range m.Logs {
		if entry.SyncType == syncType {
			out = append(out, entry)
		}
	}
	return out
}

// MockValidator is a mock implementation of Validator. The zero value
// reports every batch as clean.
type MockValidator struct {
	ValidateResourcesFunc func(ctx context.Context, batchID string) (*validator.Report, error)
	ValidateBalancesFunc  func(ctx context.Context, batchID string) (*validator.Report, error)
	ValidateBillsFunc     func(ctx context.Context, batchID string) (*validator.Report, error)
}

func (m *MockValidator) ValidateResources(ctx context.Context, batchID string) (*validator.Report, error) {
	if m.ValidateResourcesFunc != nil {
		return m.ValidateResourcesFunc(ctx, batchID)
	}
	return &validator.Report{}, nil
}

func (m *MockValidator) ValidateBalances(ctx context.Context, batchID string) (*validator.Report, error) {
	if m.ValidateBalancesFunc != nil {
		return m.ValidateBalancesFunc(ctx, batchID)
	}
	return &validator.Report{}, nil
}

func (m *MockValidator) ValidateBills(ctx context.Context, batchID string) (*validator.Report, error) {
	if m.ValidateBillsFunc != nil {
		return m.ValidateBillsFunc(ctx, batchID)
	}
	return &validator.Report{}, nil
}
