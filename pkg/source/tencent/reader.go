// Package tencent reads the tencent ingestion database and maps its rows
// into unified records. Four resource tables are normalized into one resource
// stream; billing_info is split into balance rows and billing lines by the
// sentinel project/service pair.
package tencent

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

// NewReader creates a reader over the tencent ingestion database.
func NewReader(db *bun.DB, logger *zap.Logger) *Reader {
	return &Reader{db: db, log: logger}
}

func (r *Reader) Provider() string {
	return unified.ProviderTencent
}

// Resources returns the latest batch of every resource table mapped into the
// unified shape. Each table tracks its own batch sequence.
func (r *Reader) Resources(ctx context.Context) ([]unified.Resource, error) {
	var cvms []cvmRow
	err := r.db.NewSelect().
		Model(&cvms).
		Where("batch_number = (SELECT MAX(batch_number) FROM cvm_instances)").
		Scan(ctx)
	if err != nil {
		return nil, source.Unavailable(unified.ProviderTencent, "cvm instances", err)
	}

	var disks []cbsRow
	err = r.db.NewSelect().
		Model(&disks).
		Where("batch_number = (SELECT MAX(batch_number) FROM cbs_disks)").
		Scan(ctx)
	if err != nil {
		return nil, source.Unavailable(unified.ProviderTencent, "cbs disks", err)
	}

	var lighthouses []lighthouseRow
	err = r.db.NewSelect().
		Model(&lighthouses).
		Where("batch_number = (SELECT MAX(batch_number) FROM lighthouse_instances)").
		Scan(ctx)
	if err != nil {
		return nil, source.Unavailable(unified.ProviderTencent, "lighthouse instances", err)
	}

	var certs []sslRow
	err = r.db.NewSelect().
		Model(&certs).
		Where("batch_number = (SELECT MAX(batch_number) FROM ssl_certificates)").
		Scan(ctx)
	if err != nil {
		return nil, source.Unavailable(unified.ProviderTencent, "ssl certificates", err)
	}

	now := time.Now().UTC()
	out := make([]unified.Resource, 0, len(cvms)+len(disks)+len(lighthouses)+len(certs))
	for i := range cvms {
		res, err := mapCVMRow(&cvms[i], now)
		if err != nil {
			r.skipRow(unified.SyncTypeResources, err)
			continue
		}
		out = append(out, *res)
	}
	for i := range disks {
		res, err := mapCBSRow(&disks[i], now)
		if err != nil {
			r.skipRow(unified.SyncTypeResources, err)
			continue
		}
		out = append(out, *res)
	}
	for i := range lighthouses {
		res, err := mapLighthouseRow(&lighthouses[i], now)
		if err != nil {
			r.skipRow(unified.SyncTypeResources, err)
			continue
		}
		out = append(out, *res)
	}
	for i := range certs {
		res, err := mapSSLRow(&certs[i], now)
		if err != nil {
			r.skipRow(unified.SyncTypeResources, err)
			continue
		}
		out = append(out, *res)
	}
	return out, nil
}

// Balances returns the sentinel rows of the latest billing batch as cash
// balances.
func (r *Reader) Balances(ctx context.Context) ([]unified.AccountBalance, error) {
	var rows []billingRow
	err := r.db.NewSelect().
		Model(&rows).
		Where("batch_number = (SELECT MAX(batch_number) FROM billing_info)").
		Where("project_name = ?", balanceSentinelProject).
		Where("service_name = ?", balanceSentinelService).
		Scan(ctx)
	if err != nil {
		return nil, source.Unavailable(unified.ProviderTencent, "account balances", err)
	}

	out := make([]unified.AccountBalance, 0, len(rows))
	for i := range rows {
		bal, err := mapBalanceRow(&rows[i])
		if err != nil {
			r.skipRow(unified.SyncTypeAccounts, err)
			continue
		}
		out = append(out, *bal)
	}
	return out, nil
}

// Bills returns the latest billing batch without the sentinel balance rows.
func (r *Reader) Bills(ctx context.Context) ([]unified.Bill, error) {
	var rows []billingRow
	err := r.db.NewSelect().
		Model(&rows).
		Where("batch_number = (SELECT MAX(batch_number) FROM billing_info)").
		Where("NOT (project_name = ? AND service_name = ?)", balanceSentinelProject, balanceSentinelService).
		Scan(ctx)
	if err != nil {
		return nil, source.Unavailable(unified.ProviderTencent, "bills", err)
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
		zap.String("provider", unified.ProviderTencent),
		zap.String("sync_type", syncType),
		zap.Error(err))
	metrics.RowsSkipped.WithLabelValues(unified.ProviderTencent, syncType).Inc()
}
