// Package huawei reads the huawei ingestion database and maps its rows into
// unified records. Resource rows and domain rows both become resources;
// cash balances and stored cards both become account balance rows.
package huawei

import (
	"context"
	"time"

	"github.com/uptrace/bun"
	"go.uber.org/zap"

	"github.com/cloudboard/aggregator/internal/metrics"
	"github.com/cloudboard/aggregator/pkg/source"
	"github.com/cloudboard/aggregator/pkg/unified"
)

type Reader struct {
	db  *bun.DB
	log *zap.Logger
}

// NewReader creates a reader over the huawei ingestion database.
func NewReader(db *bun.DB, logger *zap.Logger) *Reader {
	return &Reader{db: db, log: logger}
}

func (r *Reader) Provider() string {
	return unified.ProviderHuawei
}

// Resources returns the latest batch of service resources plus the full
// domains table mapped into the unified shape.
func (r *Reader) Resources(ctx context.Context) ([]unified.Resource, error) {
	var base []resourceRow
	err := r.db.NewSelect().
		Model(&base).
		Where("batch_number = (SELECT MAX(batch_number) FROM resources)").
		Scan(ctx)
	if err != nil {
		return nil, source.Unavailable(unified.ProviderHuawei, "resources", err)
	}

	var domains []domainRow
	if err := r.db.NewSelect().Model(&domains).Scan(ctx); err != nil {
		return nil, source.Unavailable(unified.ProviderHuawei, "domains", err)
	}

	now := time.Now().UTC()
	out := make([]unified.Resource, 0, len(base)+len(domains))
	for i := range base {
		res, err := mapResourceRow(&base[i], now)
		if err != nil {
			r.skipRow(unified.SyncTypeResources, err)
			continue
		}
		out = append(out, *res)
	}
	for i := range domains {
		res, err := mapDomainRow(&domains[i], now)
		if err != nil {
			r.skipRow(unified.SyncTypeResources, err)
			continue
		}
		out = append(out, *res)
	}
	return out, nil
}

// Balances returns the latest cash balance batch plus every valid stored
// card as separate balance rows.
func (r *Reader) Balances(ctx context.Context) ([]unified.AccountBalance, error) {
	var cash []cashBalanceRow
	err := r.db.NewSelect().
		Model(&cash).
		Where("batch_number = (SELECT MAX(batch_number) FROM account_balances)").
		Scan(ctx)
	if err != nil {
		return nil, source.Unavailable(unified.ProviderHuawei, "account balances", err)
	}

	var cards []storedCardRow
	err = r.db.NewSelect().
		Model(&cards).
		Where("batch_number = (SELECT MAX(batch_number) FROM stored_cards)").
		Where("status = ?", "VALID").
		Scan(ctx)
	if err != nil {
		return nil, source.Unavailable(unified.ProviderHuawei, "stored cards", err)
	}

	out := make([]unified.AccountBalance, 0, len(cash)+len(cards))
	for i := range cash {
		bal, err := mapCashBalanceRow(&cash[i])
		if err != nil {
			r.skipRow(unified.SyncTypeAccounts, err)
			continue
		}
		out = append(out, *bal)
	}
	for i := range cards {
		bal, err := mapStoredCardRow(&cards[i])
		if err != nil {
			r.skipRow(unified.SyncTypeAccounts, err)
			continue
		}
		out = append(out, *bal)
	}
	return out, nil
}

// Bills returns the latest bill batch mapped into the unified shape.
func (r *Reader) Bills(ctx context.Context) ([]unified.Bill, error) {
	var rows []billRow
	err := r.db.NewSelect().
		Model(&rows).
		Where("batch_number = (SELECT MAX(batch_number) FROM account_bills)").
		Scan(ctx)
	if err != nil {
		return nil, source.Unavailable(unified.ProviderHuawei, "bills", err)
	}

	out := make([]unified.Bill, 0, len(rows))
	for i := range rows {
		bill, err := mapBillRow(&rows[i])
		if err != nil {
			r.skipRow(unified.SyncTypeBills, err)
			continue
		}
		out = append(out, *bill)
	}
	return out, nil
}

func (r *Reader) skipRow(syncType string, err error) {
	r.log.Warn("skipping unmappable provider row",
		zap.String("provider", unified.ProviderHuawei),
		zap.String("sync_type", syncType),
		zap.Error(err))
	metrics.RowsSkipped.WithLabelValues(unified.ProviderHuawei, syncType).Inc()
}
