// Package syncer orchestrates full sync cycles: mint a batch id, run the
// resource, account, and bill pipelines concurrently against every provider,
// swap the unified tables, validate the committed batch, and retry the whole
// cycle with a fresh batch id when anything fails.
package syncer

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/cloudboard/aggregator/internal/metrics"
	"github.com/cloudboard/aggregator/pkg/source"
	"github.com/cloudboard/aggregator/pkg/unified"
	"github.com/cloudboard/aggregator/pkg/validator"
)

// ErrValidationFailed marks a cycle failed by strict post-write validation.
// The batch stays committed; only the cycle outcome is affected.
var ErrValidationFailed = errors.New("batch validation failed")

// Store is the slice of the unified store the orchestrator writes through.
type Store interface {
	ReplaceResources(ctx context.Context, batchID string, rows []unified.Resource) error
	ReplaceBalances(ctx context.Context, batchID string, rows []unified.AccountBalance) error
	ReplaceBills(ctx context.Context, batchID string, rows []unified.Bill) error
	AppendSyncLog(ctx context.Context, entry unified.SyncLogEntry) error
}

// Validator checks a committed batch and reports findings.
type Validator interface {
	ValidateResources(ctx context.Context, batchID string) (*validator.Report, error)
	ValidateBalances(ctx context.Context, batchID string) (*validator.Report, error)
	ValidateBills(ctx context.Context, batchID string) (*validator.Report, error)
}

// RetryPolicy retries the whole cycle with a fixed delay between attempts.
type RetryPolicy struct {
	MaxAttempts int
	Delay       time.Duration
}

// Options tunes one Syncer.
type Options struct {
	Retry            RetryPolicy
	StrictValidation bool
	CycleTimeout     time.Duration
}

// CycleSummary describes one successful cycle.
type CycleSummary struct {
	BatchID       string `json:"batch_id"`
	Attempts      int    `json:"attempts"`
	ResourceCount int    `json:"resource_count"`
	AccountCount  int    `json:"account_count"`
	BillCount     int    `json:"bill_count"`
}

type Syncer struct {
	sources   []source.Source
	store     Store
	validator Validator
	log       *zap.Logger
	opts      Options

	batches batchMinter

	// cycleMu serializes cycles so manual triggers and the scheduler never
	// write concurrently.
	cycleMu sync.Mutex

	stopCh chan struct{}
	wg     sync.WaitGroup
}

// New creates a Syncer over the given provider sources.
func New(sources []source.Source, store Store, v Validator, logger *zap.Logger, opts Options) *Syncer {
	if opts.Retry.MaxAttempts < 1 {
		opts.Retry.MaxAttempts = 1
	}
	return &Syncer{
		sources:   sources,
		store:     store,
		validator: v,
		log:       logger,
		opts:      opts,
		stopCh:    make(chan struct{}),
	}
}

// SynchronizeAll runs one full sync cycle under the retry policy. Every
// attempt gets a fresh batch id so a half-failed attempt can never be
// mistaken for the current batch. Returns the summary of the attempt that
// succeeded, or the last error once attempts are exhausted.
func (s *Syncer) SynchronizeAll(ctx context.Context) (*CycleSummary, error) {
	s.cycleMu.Lock()
	defer s.cycleMu.Unlock()

	runID := uuid.NewString()
	var lastErr error

	for attempt := 1; attempt <= s.opts.Retry.MaxAttempts; attempt++ {
		metrics.SyncAttemptsTotal.Inc()
		batchID := s.batches.Mint(time.Now().UTC())
		s.log.Info("starting sync cycle",
			zap.String("run_id", runID),
			zap.String("batch_id", batchID),
			zap.Int("attempt", attempt))

		summary, err := s.runCycle(ctx, batchID)
		if err == nil {
			summary.Attempts = attempt
			metrics.SyncCyclesTotal.WithLabelValues("success").Inc()
			metrics.LastSyncTimestamp.SetToCurrentTime()
			s.log.Info("sync cycle completed",
				zap.String("run_id", runID),
				zap.String("batch_id", batchID),
				zap.Int("attempt", attempt),
				zap.Int("resources", summary.ResourceCount),
				zap.Int("accounts", summary.AccountCount),
				zap.Int("bills", summary.BillCount))
			return summary, nil
		}

		lastErr = err
		s.log.Error("sync cycle attempt failed",
			zap.String("run_id", runID),
			zap.String("batch_id", batchID),
			zap.Int("attempt", attempt),
			zap.Error(err))

		if attempt < s.opts.Retry.MaxAttempts {
			select {
			case <-time.After(s.opts.Retry.Delay):
			case <-ctx.Done():
				metrics.SyncCyclesTotal.WithLabelValues("failed").Inc()
				return nil, ctx.Err()
			}
		}
	}

	metrics.SyncCyclesTotal.WithLabelValues("failed").Inc()
	return nil, fmt.Errorf("sync failed after %d attempts: %w", s.opts.Retry.MaxAttempts, lastErr)
}

// runCycle runs the three pipelines concurrently and waits for all of them.
// No pipeline is cancelled early: every outcome gets logged even when a
// sibling pipeline already failed.
func (s *Syncer) runCycle(ctx context.Context, batchID string) (*CycleSummary, error) {
	var (
		wg                            sync.WaitGroup
		resCount, accCount, billCount int
		resErr, accErr, billErr       error
	)

	wg.Add(3)
	go func() {
		defer wg.Done()
		resCount, resErr = s.syncResources(ctx, batchID)
	}()
	go func() {
		defer wg.Done()
		accCount, accErr = s.syncAccounts(ctx, batchID)
	}()
	go func() {
		defer wg.Done()
		billCount, billErr = s.syncBills(ctx, batchID)
	}()
	wg.Wait()

	if err := errors.Join(resErr, accErr, billErr); err != nil {
		return nil, err
	}

	return &CycleSummary{
		BatchID:       batchID,
		ResourceCount: resCount,
		AccountCount:  accCount,
		BillCount:     billCount,
	}, nil
}

func (s *Syncer) syncResources(ctx context.Context, batchID string) (int, error) {
	started := time.Now().UTC()
	defer func() {
		metrics.PipelineDuration.WithLabelValues(unified.SyncTypeResources).Observe(time.Since(started).Seconds())
	}()

	var rows []unified.Resource
	for _, src := range s.sources {
		part, err := src.Resources(ctx)
		if err != nil {
			s.logAttempt(ctx, unified.SyncTypeResources, batchID, started, err)
			return 0, err
		}
		rows = append(rows, part...)
	}

	if err := s.store.ReplaceResources(ctx, batchID, rows); err != nil {
		s.logAttempt(ctx, unified.SyncTypeResources, batchID, started, err)
		return 0, err
	}
	s.logAttempt(ctx, unified.SyncTypeResources, batchID, started, nil)
	metrics.RowsWritten.WithLabelValues(unified.SyncTypeResources).Add(float64(len(rows)))

	if err := s.validate(ctx, unified.SyncTypeResources, batchID, s.validator.ValidateResources); err != nil {
		return len(rows), err
	}
	return len(rows), nil
}

func (s *Syncer) syncAccounts(ctx context.Context, batchID string) (int, error) {
	started := time.Now().UTC()
	defer func() {
		metrics.PipelineDuration.WithLabelValues(unified.SyncTypeAccounts).Observe(time.Since(started).Seconds())
	}()

	var rows []unified.AccountBalance
	for _, src := range s.sources {
		part, err := src.Balances(ctx)
		if err != nil {
			s.logAttempt(ctx, unified.SyncTypeAccounts, batchID, started, err)
			return 0, err
		}
		rows = append(rows, part...)
	}

	if err := s.store.ReplaceBalances(ctx, batchID, rows); err != nil {
		s.logAttempt(ctx, unified.SyncTypeAccounts, batchID, started, err)
		return 0, err
	}
	s.logAttempt(ctx, unified.SyncTypeAccounts, batchID, started, nil)
	metrics.RowsWritten.WithLabelValues(unified.SyncTypeAccounts).Add(float64(len(rows)))

	if err := s.validate(ctx, unified.SyncTypeAccounts, batchID, s.validator.ValidateBalances); err != nil {
		return len(rows), err
	}
	return len(rows), nil
}

func (s *Syncer) syncBills(ctx context.Context, batchID string) (int, error) {
	started := time.Now().UTC()
	defer func() {
		metrics.PipelineDuration.WithLabelValues(unified.SyncTypeBills).Observe(time.Since(started).Seconds())
	}()

	var rows []unified.Bill
	for _, src := range s.sources {
		part, err := src.Bills(ctx)
		if err != nil {
			s.logAttempt(ctx, unified.SyncTypeBills, batchID, started, err)
			return 0, err
		}
		rows = append(rows, part...)
	}

	if err := s.store.ReplaceBills(ctx, batchID, rows); err != nil {
		s.logAttempt(ctx, unified.SyncTypeBills, batchID, started, err)
		return 0, err
	}
	s.logAttempt(ctx, unified.SyncTypeBills, batchID, started, nil)
	metrics.RowsWritten.WithLabelValues(unified.SyncTypeBills).Add(float64(len(rows)))

	if err := s.validate(ctx, unified.SyncTypeBills, batchID, s.validator.ValidateBills); err != nil {
		return len(rows), err
	}
	return len(rows), nil
}

// validate runs a post-commit check over the batch. Findings are logged under
// "<sync type>_validation"; they fail the cycle only in strict mode. The
// batch itself stays committed either way.
func (s *Syncer) validate(
	ctx context.Context,
	syncType, batchID string,
	check func(context.Context, string) (*validator.Report, error),
) error {
	started := time.Now().UTC()

	report, err := check(ctx, batchID)
	if err != nil {
		s.logAttempt(ctx, syncType+"_validation", batchID, started, err)
		return err
	}
	if report.OK() {
		s.log.Debug("batch validation passed",
			zap.String("sync_type", syncType),
			zap.String("batch_id", batchID),
			zap.Int("total_records", report.TotalCount))
		return nil
	}

	findings := strings.Join(report.Errors, "; ")
	s.logAttempt(ctx, syncType+"_validation", batchID, started,
		fmt.Errorf("validation failed: %s", findings))
	s.log.Warn("batch validation found problems",
		zap.String("sync_type", syncType),
		zap.String("batch_id", batchID),
		zap.Int("total_records", report.TotalCount),
		zap.Int("invalid_records", report.InvalidRecords),
		zap.Strings("errors", report.Errors))

	if s.opts.StrictValidation {
		return fmt.Errorf("%w: %s: %s", ErrValidationFailed, syncType, findings)
	}
	return nil
}

func (s *Syncer) logAttempt(ctx context.Context, syncType, batchID string, started time.Time, attemptErr error) {
	entry := unified.SyncLogEntry{
		SyncType:  syncType,
		BatchID:   batchID,
		StartedAt: started,
		EndedAt:   time.Now().UTC(),
		Status:    unified.SyncStatusSuccess,
	}
	if attemptErr != nil {
		entry.Status = unified.SyncStatusFailed
		entry.ErrorMessage = attemptErr.Error()
	}

	if err := s.store.AppendSyncLog(ctx, entry); err != nil {
		s.log.Warn("failed to append sync log",
			zap.String("sync_type", syncType),
			zap.String("batch_id", batchID),
			zap.Error(err))
	}
}

// StartPeriodic starts a background goroutine running one cycle per tick.
// With immediate set, a cycle runs right away instead of waiting for the
// first tick.
func (s *Syncer) StartPeriodic(interval time.Duration, immediate bool) {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()

		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		s.log.Info("started periodic sync",
			zap.Duration("interval", interval),
			zap.Bool("immediate", immediate))

		if immediate {
			s.runScheduled()
		}

		for {
			select {
			case <-ticker.C:
				s.runScheduled()
			case <-s.stopCh:
				s.log.Info("stopping periodic sync")
				return
			}
		}
	}()
}

// Stop stops the periodic sync and waits for an in-flight cycle to finish.
func (s *Syncer) Stop() {
	close(s.stopCh)
	s.wg.Wait()
}

func (s *Syncer) runScheduled() {
	ctx := context.Background()
	if s.opts.CycleTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.opts.CycleTimeout)
		defer cancel()
	}

	if _, err := s.SynchronizeAll(ctx); err != nil {
		s.log.Error("scheduled sync failed", zap.Error(err))
	}
}
