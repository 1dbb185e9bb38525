package tencent

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/uptrace/bun"
)

// cvmRow maps to the 'cvm_instances' table in the tencent ingestion database.
type cvmRow struct {
	bun.BaseModel `bun:"table:cvm_instances,alias:cvm"`
	ID            int64      `bun:"id,pk,autoincrement"`
	AccountName   string     `bun:"account_name"`
	InstanceID    string     `bun:"instance_id"`
	InstanceName  string     `bun:"instance_name"`
	ProjectName   string     `bun:"project_name"`
	Zone          string     `bun:"zone"`
	ExpiredTime   *time.Time `bun:"expired_time"`
	DifferDays    *int       `bun:"differ_days"`
	BatchNumber   string     `bun:"batch_number"`
}

// cbsRow maps to the 'cbs_disks' table.
type cbsRow struct {
	bun.BaseModel `bun:"table:cbs_disks,alias:cbs"`
	ID            int64      `bun:"id,pk,autoincrement"`
	AccountName   string     `bun:"account_name"`
	DiskID        string     `bun:"disk_id"`
	DiskName      string     `bun:"disk_name"`
	ProjectName   string     `bun:"project_name"`
	Zone          string     `bun:"zone"`
	ExpiredTime   *time.Time `bun:"expired_time"`
	DifferDays    *int       `bun:"differ_days"`
	BatchNumber   string     `bun:"batch_number"`
}

// lighthouseRow maps to the 'lighthouse_instances' table. Lighthouse has no
// project dimension.
type lighthouseRow struct {
	bun.BaseModel `bun:"table:lighthouse_instances,alias:lh"`
	ID            int64      `bun:"id,pk,autoincrement"`
	AccountName   string     `bun:"account_name"`
	InstanceID    string     `bun:"instance_id"`
	InstanceName  string     `bun:"instance_name"`
	Zone          string     `bun:"zone"`
	ExpiredTime   *time.Time `bun:"expired_time"`
	DifferDays    *int       `bun:"differ_days"`
	BatchNumber   string     `bun:"batch_number"`
}

// sslRow maps to the 'ssl_certificates' table.
type sslRow struct {
	bun.BaseModel `bun:"table:ssl_certificates,alias:ssl"`
	ID            int64      `bun:"id,pk,autoincrement"`
	AccountName   string     `bun:"account_name"`
	CertificateID string     `bun:"certificate_id"`
	Domain        string     `bun:"domain"`
	ProjectName   string     `bun:"project_name"`
	ExpiredTime   *time.Time `bun:"expired_time"`
	DifferDays    *int       `bun:"differ_days"`
	BatchNumber   string     `bun:"batch_number"`
}

// billingRow maps to the 'billing_info' table. The table carries both real
// billing lines and synthetic account-balance rows flagged by the sentinel
// project/service pair.
type billingRow struct {
	bun.BaseModel `bun:"table:billing_info,alias:bi"`
	ID            int64           `bun:"id,pk,autoincrement"`
	AccountName   string          `bun:"account_name"`
	ProjectName   string          `bun:"project_name"`
	ServiceName   string          `bun:"service_name"`
	RealTotalCost decimal.Decimal `bun:"real_total_cost"`
	Balance       decimal.Decimal `bun:"balance"`
	BillingDate   *time.Time      `bun:"billing_date"`
	BatchNumber   string          `bun:"batch_number"`
}
