// Package validator checks the integrity of a committed batch in the unified
// tables. Checks are advisory: they accumulate findings into a report and
// never short-circuit, leaving the escalation decision to the caller.
package validator

import (
	"context"
	"fmt"
	"time"

	"github.com/cloudboard/aggregator/internal/metrics"
	"github.com/cloudboard/aggregator/pkg/unified"
)

// BatchReader reads back the rows of one committed batch.
type BatchReader interface {
	ResourcesByBatch(ctx context.Context, batchID string) ([]unified.Resource, error)
	BalancesByBatch(ctx context.Context, batchID string) ([]unified.AccountBalance, error)
	BillsByBatch(ctx context.Context, batchID string) ([]unified.Bill, error)
}

// Report is the accumulated outcome of validating one batch.
type Report struct {
	TotalCount     int
	InvalidRecords int
	Errors         []string
}

// OK reports whether the batch passed every check.
func (r *Report) OK() bool {
	return len(r.Errors) == 0
}

type Service struct {
	store BatchReader
}

// New creates a validator over the unified store.
func New(store BatchReader) *Service {
	return &Service{store: store}
}

// ValidateResources checks the resource rows of a committed batch.
func (s *Service) ValidateResources(ctx context.Context, batchID string) (*Report, error) {
	rows, err := s.store.ResourcesByBatch(ctx, batchID)
	if err != nil {
		return nil, fmt.Errorf("failed to read back resources for validation: %w", err)
	}
	report := checkResources(rows)
	metrics.ValidationErrors.WithLabelValues(unified.SyncTypeResources).Add(float64(len(report.Errors)))
	return report, nil
}

// ValidateBalances checks the account balance rows of a committed batch.
func (s *Service) ValidateBalances(ctx context.Context, batchID string) (*Report, error) {
	rows, err := s.store.BalancesByBatch(ctx, batchID)
	if err != nil {
		return nil, fmt.Errorf("failed to read back account balances for validation: %w", err)
	}
	report := checkBalances(rows)
	metrics.ValidationErrors.WithLabelValues(unified.SyncTypeAccounts).Add(float64(len(report.Errors)))
	return report, nil
}

// ValidateBills checks the billing rows of a committed batch.
func (s *Service) ValidateBills(ctx context.Context, batchID string) (*Report, error) {
	rows, err := s.store.BillsByBatch(ctx, batchID)
	if err != nil {
		return nil, fmt.Errorf("failed to read back bills for validation: %w", err)
	}
	report := checkBills(rows, time.Now().UTC())
	metrics.ValidationErrors.WithLabelValues(unified.SyncTypeBills).Add(float64(len(report.Errors)))
	return report, nil
}

func checkResources(rows []unified.Resource) *Report {
	report := &Report{TotalCount: len(rows)}

	missing := 0
	badDates := 0
	seen := make(map[string]int, len(rows))
	for i := range rows {
		row := &rows[i]
		if row.ResourceID == "" || row.ResourceName == "" || row.AccountName == "" {
			missing++
		}
		if row.ExpireTime != nil && row.ExpireTime.IsZero() {
			badDates++
		}
		seen[row.CloudProvider+"/"+row.ResourceID]++
	}

	duplicates := 0
	for _, count := range seen {
		if count > 1 {
			duplicates += count - 1
		}
	}

	if missing > 0 {
		report.InvalidRecords += missing
		report.Errors = append(report.Errors, fmt.Sprintf("found %d resources with missing required fields", missing))
	}
	if badDates > 0 {
		report.InvalidRecords += badDates
		report.Errors = append(report.Errors, fmt.Sprintf("found %d resources with invalid expire time", badDates))
	}
	if duplicates > 0 {
		report.InvalidRecords += duplicates
		report.Errors = append(report.Errors, fmt.Sprintf("found %d duplicate resource records", duplicates))
	}
	return report
}

func checkBalances(rows []unified.AccountBalance) *Report {
	report := &Report{TotalCount: len(rows)}

	missing := 0
	negative := 0
	seen := make(map[string]int, len(rows))
	for i := range rows {
		row := &rows[i]
		if row.AccountName == "" {
			missing++
		}
		if row.Balance.IsNegative() {
			negative++
		}
		key := row.CloudProvider + "/" + row.AccountName + "/" + string(row.BalanceType) + "/" + row.CardID
		seen[key]++
	}

	duplicates := 0
	for _, count := range seen {
		if count > 1 {
			duplicates += count - 1
		}
	}

	if missing > 0 {
		report.InvalidRecords += missing
		report.Errors = append(report.Errors, fmt.Sprintf("found %d accounts with missing required fields", missing))
	}
	if negative > 0 {
		report.InvalidRecords += negative
		report.Errors = append(report.Errors, fmt.Sprintf("found %d accounts with negative balance", negative))
	}
	if duplicates > 0 {
		report.InvalidRecords += duplicates
		report.Errors = append(report.Errors, fmt.Sprintf("found %d duplicate account records", duplicates))
	}
	return report
}

func checkBills(rows []unified.Bill, now time.Time) *Report {
	report := &Report{TotalCount: len(rows)}

	missing := 0
	negative := 0
	badDates := 0
	seen := make(map[string]int, len(rows))
	for i := range rows {
		row := &rows[i]
		if row.AccountName == "" || row.ServiceType == "" {
			missing++
		}
		if row.Amount.IsNegative() {
			negative++
		}
		if row.BillingDate == nil || row.BillingDate.IsZero() || row.BillingDate.After(now) {
			badDates++
		}
		date := ""
		if row.BillingDate != nil {
			date = row.BillingDate.Format("2006-01-02")
		}
		key := row.CloudProvider + "/" + row.AccountName + "/" + row.ProjectName + "/" + row.ServiceType + "/" + date
		seen[key]++
	}

	duplicates := 0
	for _, count := range seen {
		if count > 1 {
			duplicates += count - 1
		}
	}

	if missing > 0 {
		report.InvalidRecords += missing
		report.Errors = append(report.Errors, fmt.Sprintf("found %d bills with missing required fields", missing))
	}
	if negative > 0 {
		report.InvalidRecords += negative
		report.Errors = append(report.Errors, fmt.Sprintf("found %d bills with negative amount", negative))
	}
	if badDates > 0 {
		report.InvalidRecords += badDates
		report.Errors = append(report.Errors, fmt.Sprintf("found %d bills with invalid billing date", badDates))
	}
	if duplicates > 0 {
		report.InvalidRecords += duplicates
		report.Errors = append(report.Errors, fmt.Sprintf("found %d duplicate bill records", duplicates))
	}
	return report
}
