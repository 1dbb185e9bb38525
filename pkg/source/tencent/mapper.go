package tencent

import (
	"time"

	"github.com/cloudboard/aggregator/pkg/source"
	"github.com/cloudboard/aggregator/pkg/unified"
)

const defaultCurrency = "CNY"

// Sentinel project/service pair marking billing_info rows that carry the
// account balance instead of a real billing line.
const (
	balanceSentinelProject = "system"
	balanceSentinelService = "account_balance"
)

func mappingErr(entity, field string) error {
	return &source.MappingError{Provider: unified.ProviderTencent, Entity: entity, Field: field}
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

func mapCVMRow(row *cvmRow, now time.Time) (*unified.Resource, error) {
	if row.InstanceID == "" {
		return nil, mappingErr("cvm instance", "instance_id")
	}
	return &unified.Resource{
		CloudProvider: unified.ProviderTencent,
		AccountName:   row.AccountName,
		ResourceType:  "CVM",
		ResourceID:    row.InstanceID,
		ResourceName:  row.InstanceName,
		ProjectName:   defaultString(row.ProjectName, "default"),
		Region:        row.Zone,
		Zone:          row.Zone,
		ExpireTime:    row.ExpiredTime,
		RemainingDays: remainingDays(row.DifferDays, row.ExpiredTime, now),
		Status:        "active",
	}, nil
}

func mapCBSRow(row *cbsRow, now time.Time) (*unified.Resource, error) {
	if row.DiskID == "" {
		return nil, mappingErr("cbs disk", "disk_id")
	}
	return &unified.Resource{
		CloudProvider: unified.ProviderTencent,
		AccountName:   row.AccountName,
		ResourceType:  "CBS",
		ResourceID:    row.DiskID,
		ResourceName:  row.DiskName,
		ProjectName:   defaultString(row.ProjectName, "default"),
		Region:        row.Zone,
		Zone:          row.Zone,
		ExpireTime:    row.ExpiredTime,
		RemainingDays: remainingDays(row.DifferDays, row.ExpiredTime, now),
		Status:        "active",
	}, nil
}

func mapLighthouseRow(row *lighthouseRow, now time.Time) (*unified.Resource, error) {
	if row.InstanceID == "" {
		return nil, mappingErr("lighthouse instance", "instance_id")
	}
	return &unified.Resource{
		CloudProvider: unified.ProviderTencent,
		AccountName:   row.AccountName,
		ResourceType:  "LIGHTHOUSE",
		ResourceID:    row.InstanceID,
		ResourceName:  row.InstanceName,
		ProjectName:   "default",
		Region:        row.Zone,
		Zone:          row.Zone,
		ExpireTime:    row.ExpiredTime,
		RemainingDays: remainingDays(row.DifferDays, row.ExpiredTime, now),
		Status:        "active",
	}, nil
}

// Certificates take their display name from the domain they secure and are
// global resources.
func mapSSLRow(row *sslRow, now time.Time) (*unified.Resource, error) {
	if row.CertificateID == "" {
		return nil, mappingErr("ssl certificate", "certificate_id")
	}
	return &unified.Resource{
		CloudProvider: unified.ProviderTencent,
		AccountName:   row.AccountName,
		ResourceType:  "SSL",
		ResourceID:    row.CertificateID,
		ResourceName:  defaultString(row.Domain, row.CertificateID),
		ProjectName:   defaultString(row.ProjectName, "default"),
		Region:        "global",
		Zone:          "global",
		ExpireTime:    row.ExpiredTime,
		RemainingDays: remainingDays(row.DifferDays, row.ExpiredTime, now),
		Status:        "active",
	}, nil
}

func mapBalanceRow(row *billingRow) (*unified.AccountBalance, error) {
	if row.AccountName == "" {
		return nil, mappingErr("account balance", "account_name")
	}
	return &unified.AccountBalance{
		CloudProvider: unified.ProviderTencent,
		AccountName:   row.AccountName,
		Balance:       row.Balance,
		Currency:      defaultCurrency,
		BalanceType:   unified.BalanceTypeCash,
	}, nil
}

func mapBillRow(row *billingRow) (*unified.Bill, error) {
	if row.AccountName == "" {
		return nil, mappingErr("bill", "account_name")
	}
	if row.ServiceName == "" {
		return nil, mappingErr("bill", "service_name")
	}
	return &unified.Bill{
		CloudProvider: unified.ProviderTencent,
		AccountName:   row.AccountName,
		ProjectName:   defaultString(row.ProjectName, "default"),
		ServiceType:   row.ServiceName,
		Amount:        row.RealTotalCost,
		Currency:      defaultCurrency,
		BillingCycle:  "monthly",
		BillingDate:   row.BillingDate,
	}, nil
}
