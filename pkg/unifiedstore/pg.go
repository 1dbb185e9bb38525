// Package unifiedstore persists the unified reporting tables in PostgreSQL.
// Writes replace a whole table inside one transaction so readers only ever
// see a complete batch; reads serve the query surface and never block behind
// a sync.
package unifiedstore

import (
	"context"
	"fmt"
	"time"

	"github.com/uptrace/bun"

	"github.com/cloudboard/aggregator/pkg/unified"
)

// Order directions accepted by ListExpiringResources.
const (
	OrderAsc  = "asc"
	OrderDesc = "desc"
)

type pgStore struct {
	db *bun.DB
}

// NewStore creates a new postgres implementation of the unified store
func NewStore(db *bun.DB) *pgStore {
	return &pgStore{db: db}
}

// ReplaceResources swaps the full contents of cloud_resources for the given
// batch in one transaction. An empty slice still clears the table.
func (s *pgStore) ReplaceResources(ctx context.Context, batchID string, rows []unified.Resource) error {
	daos := make([]ResourceDao, len(rows))
	for i := range rows {
		daos[i] = *toResourceDao(&rows[i], batchID)
	}

	err := s.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		if _, err := tx.NewDelete().
			Model((*ResourceDao)(nil)).
			Where("TRUE").
			Exec(ctx); err != nil {
			return fmt.Errorf("failed to clear resources: %w", err)
		}
		if len(daos) == 0 {
			return nil
		}
		if _, err := tx.NewInsert().
			Model(&daos).
			Exec(ctx); err != nil {
			return fmt.Errorf("failed to insert resources: %w", err)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to replace resources for batch %s: %w", batchID, err)
	}
	return nil
}

// ReplaceBalances swaps the full contents of cloud_accounts for the given
// batch in one transaction.
func (s *pgStore) ReplaceBalances(ctx context.Context, batchID string, rows []unified.AccountBalance) error {
	daos := make([]AccountDao, len(rows))
	for i := range rows {
		daos[i] = *toAccountDao(&rows[i], batchID)
	}

	err := s.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		if _, err := tx.NewDelete().
			Model((*AccountDao)(nil)).
			Where("TRUE").
			Exec(ctx); err != nil {
			return fmt.Errorf("failed to clear account balances: %w", err)
		}
		if len(daos) == 0 {
			return nil
		}
		if _, err := tx.NewInsert().
			Model(&daos).
			Exec(ctx); err != nil {
			return fmt.Errorf("failed to insert account balances: %w", err)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to replace account balances for batch %s: %w", batchID, err)
	}
	return nil
}

// ReplaceBills swaps the full contents of cloud_bills for the given batch in
// one transaction.
func (s *pgStore) ReplaceBills(ctx context.Context, batchID string, rows []unified.Bill) error {
	daos := make([]BillDao, len(rows))
	for i := range rows {
		daos[i] = *toBillDao(&rows[i], batchID)
	}

	err := s.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		if _, err := tx.NewDelete().
			Model((*BillDao)(nil)).
			Where("TRUE").
			Exec(ctx); err != nil {
			return fmt.Errorf("failed to clear bills: %w", err)
		}
		if len(daos) == 0 {
			return nil
		}
		if _, err := tx.NewInsert().
			Model(&daos).
			Exec(ctx); err != nil {
			return fmt.Errorf("failed to insert bills: %w", err)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to replace bills for batch %s: %w", batchID, err)
	}
	return nil
}

// ListExpiringResources returns resources with remaining_days at or below the
// threshold, remark attached, ordered by remaining_days. Order is "asc" or
// "desc"; anything else defaults to ascending.
func (s *pgStore) ListExpiringResources(ctx context.Context, thresholdDays int, order string) ([]unified.Resource, error) {
	direction := "ASC"
	if order == OrderDesc {
		direction = "DESC"
	}

	var daos []ResourceDao
	err := s.db.NewSelect().
		Model(&daos).
		ColumnExpr("r.*").
		ColumnExpr("COALESCE(rr.remark, '') AS remark").
		Join("LEFT JOIN resource_remarks AS rr ON rr.cloud_provider = r.cloud_provider AND rr.resource_id = r.resource_id").
		Where("r.remaining_days <= ?", thresholdDays).
		OrderExpr("r.remaining_days " + direction).
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list expiring resources: %w", err)
	}

	resources := make([]unified.Resource, len(daos))
	for i := range daos {
		resources[i] = *toResource(&daos[i])
	}
	return resources, nil
}

// ListAccountBalances returns all account balance rows of the current batch.
func (s *pgStore) ListAccountBalances(ctx context.Context) ([]unified.AccountBalance, error) {
	var daos []AccountDao
	err := s.db.NewSelect().
		Model(&daos).
		Order("cloud_provider ASC", "account_name ASC", "balance_type ASC", "card_id ASC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list account balances: %w", err)
	}

	balances := make([]unified.AccountBalance, len(daos))
	for i := range daos {
		balances[i] = *toAccountBalance(&daos[i])
	}
	return balances, nil
}

// ListBillingDetails returns all billing rows of the current batch, most
// recent billing date first.
func (s *pgStore) ListBillingDetails(ctx context.Context) ([]unified.Bill, error) {
	var daos []BillDao
	err := s.db.NewSelect().
		Model(&daos).
		OrderExpr("billing_date DESC NULLS LAST").
		Order("cloud_provider ASC", "account_name ASC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list billing details: %w", err)
	}

	bills := make([]unified.Bill, len(daos))
	for i := range daos {
		bills[i] = *toBill(&daos[i])
	}
	return bills, nil
}

// UpsertResourceRemark inserts or updates the annotation for one resource.
func (s *pgStore) UpsertResourceRemark(ctx context.Context, provider, resourceID, remark string) error {
	dao := &RemarkDao{
		CloudProvider: provider,
		ResourceID:    resourceID,
		Remark:        remark,
		UpdatedAt:     time.Now().UTC(),
	}

	_, err := s.db.NewInsert().
		Model(dao).
		On("CONFLICT (cloud_provider, resource_id) DO UPDATE").
		Set("remark = EXCLUDED.remark").
		Set("updated_at = EXCLUDED.updated_at").
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to upsert remark for %s/%s: %w", provider, resourceID, err)
	}
	return nil
}

// AppendSyncLog records the outcome of one sync attempt.
func (s *pgStore) AppendSyncLog(ctx context.Context, entry unified.SyncLogEntry) error {
	_, err := s.db.NewInsert().
		Model(toSyncLogDao(&entry)).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to append sync log: %w", err)
	}
	return nil
}

// ListSyncLogs returns the most recent sync log entries, newest first.
func (s *pgStore) ListSyncLogs(ctx context.Context, limit int) ([]unified.SyncLogEntry, error) {
	var daos []SyncLogDao
	query := s.db.NewSelect().
		Model(&daos).
		Order("started_at DESC", "id DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	if err := query.Scan(ctx); err != nil {
		return nil, fmt.Errorf("failed to list sync logs: %w", err)
	}

	entries := make([]unified.SyncLogEntry, len(daos))
	for i := range daos {
		entries[i] = *toSyncLogEntry(&daos[i])
	}
	return entries, nil
}

// ResourcesByBatch reads back resource rows of one batch for validation.
func (s *pgStore) ResourcesByBatch(ctx context.Context, batchID string) ([]unified.Resource, error) {
	var daos []ResourceDao
	err := s.db.NewSelect().
		Model(&daos).
		Where("batch_id = ?", batchID).
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read resources for batch %s: %w", batchID, err)
	}

	resources := make([]unified.Resource, len(daos))
	for i := range daos {
		resources[i] = *toResource(&daos[i])
	}
	return resources, nil
}

// BalancesByBatch reads back account balance rows of one batch for validation.
func (s *pgStore) BalancesByBatch(ctx context.Context, batchID string) ([]unified.AccountBalance, error) {
	var daos []AccountDao
	err := s.db.NewSelect().
		Model(&daos).
		Where("batch_id = ?", batchID).
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read account balances for batch %s: %w", batchID, err)
	}

	balances := make([]unified.AccountBalance, len(daos))
	for i := range daos {
		balances[i] = *toAccountBalance(&daos[i])
	}
	return balances, nil
}

// BillsByBatch reads back billing rows of one batch for validation.
func (s *pgStore) BillsByBatch(ctx context.Context, batchID string) ([]unified.Bill, error) {
	var daos []BillDao
	err := s.db.NewSelect().
		Model(&daos).
		Where("batch_id = ?", batchID).
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read bills for batch %s: %w", batchID, err)
	}

	bills := make([]unified.Bill, len(daos))
	for i := range daos {
		bills[i] = *toBill(&daos[i])
	}
	return bills, nil
}
