package huawei

import (
	"time"

	"github.com/cloudboard/aggregator/pkg/source"
	"github.com/cloudboard/aggregator/pkg/unified"
)

const defaultCurrency = "CNY"

func mappingErr(entity, field string) error {
	return &source.MappingError{Provider: unified.ProviderHuawei, Entity: entity, Field: field}
}

func remainingDays(days *int, expire *time.Time, now time.Time) int {
	if days != nil {
		return *days
	}
	if expire != nil {
		return unified.RemainingDays(*expire, now)
	}
	return 0
}

func defaultString(value, fallback string) string {
	if value == "" {
		return fallback
	}
	return value
}

func mapResourceRow(row *resourceRow, now time.Time) (*unified.Resource, error) {
	if row.ResourceID == "" {
		return nil, mappingErr("resource", "resource_id")
	}
	return &unified.Resource{
		CloudProvider: unified.ProviderHuawei,
		AccountName:   row.AccountName,
		ResourceType:  row.ServiceType,
		ResourceID:    row.ResourceID,
		ResourceName:  row.ResourceName,
		ProjectName:   defaultString(row.ProjectName, "default"),
		Region:        row.Region,
		Zone:          row.Region,
		ExpireTime:    row.ExpireTime,
		RemainingDays: remainingDays(row.RemainingDays, row.ExpireTime, now),
		Status:        "active",
	}, nil
}

// Domains are normalized into the resource shape: type DOMAIN, default
// project, global region since a domain is not bound to a datacenter.
func mapDomainRow(row *domainRow, now time.Time) (*unified.Resource, error) {
	if row.ResourceID == "" {
		return nil, mappingErr("domain", "resource_id")
	}
	return &unified.Resource{
		CloudProvider: unified.ProviderHuawei,
		AccountName:   row.AccountName,
		ResourceType:  "DOMAIN",
		ResourceID:    row.ResourceID,
		ResourceName:  defaultString(row.ResourceName, row.ResourceID),
		ProjectName:   "default",
		Region:        "global",
		Zone:          "global",
		ExpireTime:    row.ExpireTime,
		RemainingDays: remainingDays(row.RemainingDays, row.ExpireTime, now),
		Status:        "active",
	}, nil
}

func mapCashBalanceRow(row *cashBalanceRow) (*unified.AccountBalance, error) {
	if row.AccountName == "" {
		return nil, mappingErr("cash balance", "account_name")
	}
	return &unified.AccountBalance{
		CloudProvider: unified.ProviderHuawei,
		AccountName:   row.AccountName,
		Balance:       row.TotalAmount,
		Currency:      defaultString(row.Currency, defaultCurrency),
		BalanceType:   unified.BalanceTypeCash,
	}, nil
}

func mapStoredCardRow(row *storedCardRow) (*unified.AccountBalance, error) {
	if row.AccountName == "" {
		return nil, mappingErr("stored card", "account_name")
	}
	if row.CardID == "" {
		return nil, mappingErr("stored card", "card_id")
	}
	return &unified.AccountBalance{
		CloudProvider: unified.ProviderHuawei,
		AccountName:   row.AccountName,
		Balance:       row.Balance,
		Currency:      defaultCurrency,
		BalanceType:   unified.BalanceTypeStoredCard,
		CardID:        row.CardID,
		ExpireTime:    row.ExpireTime,
	}, nil
}

// Bills carry no explicit billing date in the huawei schema; the ingestion
// timestamp stands in for it.
func mapBillRow(row *billRow) (*unified.Bill, error) {
	if row.AccountName == "" {
		return nil, mappingErr("bill", "account_name")
	}
	if row.ServiceType == "" {
		return nil, mappingErr("bill", "service_type")
	}
	return &unified.Bill{
		CloudProvider: unified.ProviderHuawei,
		AccountName:   row.AccountName,
		ProjectName:   defaultString(row.ProjectName, "default"),
		ServiceType:   row.ServiceType,
		Amount:        row.Amount,
		Currency:      defaultString(row.Currency, defaultCurrency),
		BillingCycle:  "monthly",
		BillingDate:   row.CreatedAt,
	}, nil
}
