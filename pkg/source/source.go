// Package source defines the contract a provider database must satisfy to
// feed the sync engine, plus the errors shared by all provider readers.
package source

import (
	"context"
	"errors"
	"fmt"

	"github.com/cloudboard/aggregator/pkg/unified"
)

// ErrUnavailable marks a provider database that could not be queried. A
// pipeline hitting it fails the whole cycle so the retry policy can take over.
var ErrUnavailable = errors.New("source database unavailable")

// Source reads the current snapshot of one provider database mapped into
// unified records. "Current" means the rows of the provider's highest
// ingestion batch; earlier batches are ignored.
type Source interface {
	Provider() string
	Resources(ctx context.Context) ([]unified.Resource, error)
	Balances(ctx context.Context) ([]unified.AccountBalance, error)
	Bills(ctx context.Context) ([]unified.Bill, error)
}

// Unavailable wraps a query error so callers can detect it with
// errors.Is(err, ErrUnavailable) while keeping the cause text.
func Unavailable(provider, entity string, err error) error {
	return fmt.Errorf("%w: %s %s: %v", ErrUnavailable, provider, entity, err)
}

// MappingError reports a provider row that could not be mapped into a
// unified record. The row is skipped and counted; it never fails the
// pipeline.
type MappingError struct {
	Provider string
	Entity   string
	Field    string
}

func (e *MappingError) Error() string {
	return fmt.Sprintf("%s %s row missing required field %s", e.Provider, e.Entity, e.Field)
}
