package unifiedstore

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/uptrace/bun"

	"github.com/cloudboard/aggregator/pkg/unified"
)

// ResourceDao is a data access object that maps directly to the 'cloud_resources' table in PostgreSQL.
type ResourceDao struct {
	bun.BaseModel `bun:"table:cloud_resources,alias:r"`
	ID            int64      `bun:"id,pk,autoincrement"`
	CloudProvider string     `bun:"cloud_provider,notnull,type:varchar(32)"`
	AccountName   string     `bun:"account_name,type:varchar(255)"`
	ResourceType  string     `bun:"resource_type,type:varchar(64)"`
	ResourceID    string     `bun:"resource_id,notnull,type:varchar(255)"`
	ResourceName  string     `bun:"resource_name,type:varchar(255)"`
	ProjectName   string     `bun:"project_name,type:varchar(255)"`
	Region        string     `bun:"region,type:varchar(64)"`
	Zone          string     `bun:"zone,type:varchar(64)"`
	ExpireTime    *time.Time `bun:"expire_time"`
	RemainingDays int        `bun:"remaining_days"`
	Status        string     `bun:"status,type:varchar(64)"`
	BatchID       string     `bun:"batch_id,notnull,type:varchar(64)"`
	CreatedAt     time.Time  `bun:"created_at,nullzero,default:current_timestamp"`

	// Remark is filled by the expiring-resources query from a left join on
	// resource_remarks; it has no column of its own in cloud_resources.
	Remark string `bun:"remark,scanonly"`
}

// AccountDao is a data access object that maps directly to the 'cloud_accounts' table in PostgreSQL.
type AccountDao struct {
	bun.BaseModel `bun:"table:cloud_accounts,alias:a"`
	ID            int64           `bun:"id,pk,autoincrement"`
	CloudProvider string          `bun:"cloud_provider,notnull,type:varchar(32)"`
	AccountName   string          `bun:"account_name,notnull,type:varchar(255)"`
	Balance       decimal.Decimal `bun:"balance,notnull,type:numeric(20,2)"`
	Currency      string          `bun:"currency,type:varchar(8)"`
	BalanceType   string          `bun:"balance_type,notnull,type:varchar(16)"`
	CardID        string          `bun:"card_id,type:varchar(128)"`
	ExpireTime    *time.Time      `bun:"expire_time"`
	BatchID       string          `bun:"batch_id,notnull,type:varchar(64)"`
	CreatedAt     time.Time       `bun:"created_at,nullzero,default:current_timestamp"`
}

// BillDao is a data access object that maps directly to the 'cloud_bills' table in PostgreSQL.
type BillDao struct {
	bun.BaseModel `bun:"table:cloud_bills,alias:b"`
	ID            int64           `bun:"id,pk,autoincrement"`
	CloudProvider string          `bun:"cloud_provider,notnull,type:varchar(32)"`
	AccountName   string          `bun:"account_name,notnull,type:varchar(255)"`
	ProjectName   string          `bun:"project_name,type:varchar(255)"`
	ServiceType   string          `bun:"service_type,type:varchar(128)"`
	Amount        decimal.Decimal `bun:"amount,notnull,type:numeric(20,2)"`
	Currency      string          `bun:"currency,type:varchar(8)"`
	BillingCycle  string          `bun:"billing_cycle,type:varchar(32)"`
	BillingDate   *time.Time      `bun:"billing_date"`
	BatchID       string          `bun:"batch_id,notnull,type:varchar(64)"`
	CreatedAt     time.Time       `bun:"created_at,nullzero,default:current_timestamp"`
}

// RemarkDao is a data access object that maps directly to the 'resource_remarks' table in PostgreSQL.
// Remarks are keyed by (cloud_provider, resource_id) and live outside the
// batch lifecycle, so a resync never touches them.
type RemarkDao struct {
	bun.BaseModel `bun:"table:resource_remarks,alias:rr"`
	CloudProvider string    `bun:"cloud_provider,pk,type:varchar(32)"`
	ResourceID    string    `bun:"resource_id,pk,type:varchar(255)"`
	Remark        string    `bun:"remark,type:text"`
	UpdatedAt     time.Time `bun:"updated_at,nullzero,default:current_timestamp"`
}

// SyncLogDao is a data access object that maps directly to the 'sync_logs' table in PostgreSQL.
type SyncLogDao struct {
	bun.BaseModel `bun:"table:sync_logs,alias:sl"`
	ID            int64     `bun:"id,pk,autoincrement"`
	SyncType      string    `bun:"sync_type,notnull,type:varchar(32)"`
	BatchID       string    `bun:"batch_id,notnull,type:varchar(64)"`
	StartedAt     time.Time `bun:"started_at,notnull"`
	EndedAt       time.Time `bun:"ended_at,notnull"`
	Status        string    `bun:"status,notnull,type:varchar(16)"`
	ErrorMessage  string    `bun:"error_message,type:text"`
	CreatedAt     time.Time `bun:"created_at,nullzero,default:current_timestamp"`
}

func toResourceDao(res *unified.Resource, batchID string) *ResourceDao {
	return &ResourceDao{
		CloudProvider: res.CloudProvider,
		AccountName:   res.AccountName,
		ResourceType:  res.ResourceType,
		ResourceID:    res.ResourceID,
		ResourceName:  res.ResourceName,
		ProjectName:   res.ProjectName,
		Region:        res.Region,
		Zone:          res.Zone,
		ExpireTime:    res.ExpireTime,
		RemainingDays: res.RemainingDays,
		Status:        res.Status,
		BatchID:       batchID,
	}
}

func toResource(dao *ResourceDao) *unified.Resource {
	return &unified.Resource{
		CloudProvider: dao.CloudProvider,
		AccountName:   dao.AccountName,
		ResourceType:  dao.ResourceType,
		ResourceID:    dao.ResourceID,
		ResourceName:  dao.ResourceName,
		ProjectName:   dao.ProjectName,
		Region:        dao.Region,
		Zone:          dao.Zone,
		ExpireTime:    dao.ExpireTime,
		RemainingDays: dao.RemainingDays,
		Status:        dao.Status,
		BatchID:       dao.BatchID,
		Remark:        dao.Remark,
	}
}

func toAccountDao(acc *unified.AccountBalance, batchID string) *AccountDao {
	return &AccountDao{
		CloudProvider: acc.CloudProvider,
		AccountName:   acc.AccountName,
		Balance:       acc.Balance,
		Currency:      acc.Currency,
		BalanceType:   string(acc.BalanceType),
		CardID:        acc.CardID,
		ExpireTime:    acc.ExpireTime,
		BatchID:       batchID,
	}
}

func toAccountBalance(dao *AccountDao) *unified.AccountBalance {
	return &unified.AccountBalance{
		CloudProvider: dao.CloudProvider,
		AccountName:   dao.AccountName,
		Balance:       dao.Balance,
		Currency:      dao.Currency,
		BalanceType:   unified.BalanceType(dao.BalanceType),
		CardID:        dao.CardID,
		ExpireTime:    dao.ExpireTime,
		BatchID:       dao.BatchID,
	}
}

func toBillDao(bill *unified.Bill, batchID string) *BillDao {
	return &BillDao{
		CloudProvider: bill.CloudProvider,
		AccountName:   bill.AccountName,
		ProjectName:   bill.ProjectName,
		ServiceType:   bill.ServiceType,
		Amount:        bill.Amount,
		Currency:      bill.Currency,
		BillingCycle:  bill.BillingCycle,
		BillingDate:   bill.BillingDate,
		BatchID:       batchID,
	}
}

func toBill(dao *BillDao) *unified.Bill {
	return &unified.Bill{
		CloudProvider: dao.CloudProvider,
		AccountName:   dao.AccountName,
		ProjectName:   dao.ProjectName,
		ServiceType:   dao.ServiceType,
		Amount:        dao.Amount,
		Currency:      dao.Currency,
		BillingCycle:  dao.BillingCycle,
		BillingDate:   dao.BillingDate,
		BatchID:       dao.BatchID,
	}
}

func toSyncLogDao(entry *unified.SyncLogEntry) *SyncLogDao {
	return &SyncLogDao{
		SyncType:     entry.SyncType,
		BatchID:      entry.BatchID,
		StartedAt:    entry.StartedAt,
		EndedAt:      entry.EndedAt,
		Status:       string(entry.Status),
		ErrorMessage: entry.ErrorMessage,
	}
}

func toSyncLogEntry(dao *SyncLogDao) *unified.SyncLogEntry {
	return &unified.SyncLogEntry{
		SyncType:     dao.SyncType,
		BatchID:      dao.BatchID,
		StartedAt:    dao.StartedAt,
		EndedAt:      dao.EndedAt,
		Status:       unified.SyncStatus(dao.Status),
		ErrorMessage: dao.ErrorMessage,
	}
}
