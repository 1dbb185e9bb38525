package huawei

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/uptrace/bun"
)

// resourceRow maps to the 'resources' table in the huawei ingestion database.
type resourceRow struct {
	bun.BaseModel `bun:"table:resources,alias:res"`
	ID            int64      `bun:"id,pk,autoincrement"`
	AccountName   string     `bun:"account_name"`
	ServiceType   string     `bun:"service_type"`
	ResourceID    string     `bun:"resource_id"`
	ResourceName  string     `bun:"resource_name"`
	ProjectName   string     `bun:"project_name"`
	Region        string     `bun:"region"`
	ExpireTime    *time.Time `bun:"expire_time"`
	RemainingDays *int       `bun:"remaining_days"`
	BatchNumber   string     `bun:"batch_number"`
}

// domainRow maps to the 'domains' table. Domains are refreshed in place and
// carry no batch column; the whole table is the current snapshot.
type domainRow struct {
	bun.BaseModel `bun:"table:domains,alias:dom"`
	ID            int64      `bun:"id,pk,autoincrement"`
	AccountName   string     `bun:"account_name"`
	ResourceID    string     `bun:"resource_id"`
	ResourceName  string     `bun:"resource_name"`
	ExpireTime    *time.Time `bun:"expire_time"`
	RemainingDays *int       `bun:"remaining_days"`
}

// cashBalanceRow maps to the 'account_balances' table.
type cashBalanceRow struct {
	bun.BaseModel `bun:"table:account_balances,alias:bal"`
	ID            int64           `bun:"id,pk,autoincrement"`
	AccountName   string          `bun:"account_name"`
	TotalAmount   decimal.Decimal `bun:"total_amount"`
	Currency      string          `bun:"currency"`
	BatchNumber   string          `bun:"batch_number"`
}

// storedCardRow maps to the 'stored_cards' table.
type storedCardRow struct {
	bun.BaseModel `bun:"table:stored_cards,alias:card"`
	ID            int64           `bun:"id,pk,autoincrement"`
	AccountName   string          `bun:"account_name"`
	CardID        string          `bun:"card_id"`
	CardName      string          `bun:"card_name"`
	FaceValue     decimal.Decimal `bun:"face_value"`
	Balance       decimal.Decimal `bun:"balance"`
	EffectiveTime *time.Time      `bun:"effective_time"`
	ExpireTime    *time.Time      `bun:"expire_time"`
	Status        string          `bun:"status"`
	BatchNumber   string          `bun:"batch_number"`
}

// billRow maps to the 'account_bills' table.
type billRow struct {
	bun.BaseModel `bun:"table:account_bills,alias:bill"`
	ID            int64           `bun:"id,pk,autoincrement"`
	AccountName   string          `bun:"account_name"`
	ProjectName   string          `bun:"project_name"`
	ServiceType   string          `bun:"service_type"`
	Amount        decimal.Decimal `bun:"amount"`
	Currency      string          `bun:"currency"`
	CreatedAt     *time.Time      `bun:"created_at"`
	BatchNumber   string          `bun:"batch_number"`
}
