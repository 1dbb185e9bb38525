// Package unified defines the provider-independent records the reporting
// database is built from. Source readers map provider-native rows into these
// shapes; the unified store persists them and the query surface returns them.
package unified

import (
	"time"

	"github.com/shopspring/decimal"
)

// Cloud provider identifiers as stored in the cloud_provider column.
const (
	ProviderHuawei  = "huawei"
	ProviderTencent = "tencent"
)

// BalanceType distinguishes the two kinds of account value a provider reports.
// Cash balances and stored-value cards carry different expiry semantics, so
// they are kept as separate rows rather than merged.
type BalanceType string

const (
	BalanceTypeCash       BalanceType = "cash"
	BalanceTypeStoredCard BalanceType = "stored_card"
)

// SyncStatus is the outcome recorded for one sync attempt.
type SyncStatus string

const (
	SyncStatusSuccess SyncStatus = "success"
	SyncStatusFailed  SyncStatus = "failed"
)

// Sync types as recorded in the sync log. The *_validation entries record
// post-write validation outcomes separately from the write itself.
const (
	SyncTypeResources = "resources"
	SyncTypeAccounts  = "accounts"
	SyncTypeBills     = "bills"
)

// Resource is one expiring cloud resource in the unified shape.
// Natural key: (CloudProvider, ResourceID).
type Resource struct {
	CloudProvider string
	AccountName   string
	ResourceType  string
	ResourceID    string
	ResourceName  string
	ProjectName   string
	Region        string
	Zone          string
	ExpireTime    *time.Time
	RemainingDays int
	Status        string
	BatchID       string

	// Remark is the user-authored annotation left-joined onto the row at
	// read time. It is never written by a sync cycle.
	Remark string
}

// AccountBalance is one account value row: either the cash balance of a
// provider account or a single stored-value card. Natural key:
// (CloudProvider, AccountName, BalanceType, CardID).
type AccountBalance struct {
	CloudProvider string
	AccountName   string
	Balance       decimal.Decimal
	Currency      string
	BalanceType   BalanceType
	// CardID discriminates multiple stored-value cards on one account.
	// Empty for cash balances.
	CardID     string
	ExpireTime *time.Time
	BatchID    string
}

// Bill is one billing line in the unified shape. Natural key:
// (CloudProvider, AccountName, ProjectName, ServiceType, BillingDate).
type Bill struct {
	CloudProvider string
	AccountName   string
	ProjectName   string
	ServiceType   string
	Amount        decimal.Decimal
	Currency      string
	BillingCycle  string
	BillingDate   *time.Time
	BatchID       string
}

// ResourceRemark is a user-authored annotation keyed by
// (CloudProvider, ResourceID). It lives outside the batch lifecycle and
// survives resource resyncs.
type ResourceRemark struct {
	CloudProvider string
	ResourceID    string
	Remark        string
	UpdatedAt     time.Time
}

// SyncLogEntry is one append-only audit record of a sync attempt.
type SyncLogEntry struct {
	SyncType     string
	BatchID      string
	StartedAt    time.Time
	EndedAt      time.Time
	Status       SyncStatus
	ErrorMessage string
}

// RemainingDays returns the number of whole days between now and expire,
// rounding partial days up. A resource expiring later today reports 1,
// an already-expired resource reports a negative count.
func RemainingDays(expire, now time.Time) int {
	d := expire.Sub(now)
	days := d / (24 * time.Hour)
	if d%(24*time.Hour) > 0 {
		days++
	}
	return int(days)
}
