package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// SyncCyclesTotal counts completed sync cycles by outcome
	SyncCyclesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "aggregator_sync_cycles_total",
			Help: "Total number of sync cycles",
		},
		[]string{"status"},
	)

	// SyncAttemptsTotal counts individual cycle attempts, including retries
	SyncAttemptsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "aggregator_sync_attempts_total",
			Help: "Total number of sync cycle attempts including retries",
		},
	)

	// PipelineDuration tracks per-pipeline sync duration
	PipelineDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "aggregator_pipeline_duration_seconds",
			Help:    "Pipeline processing duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"sync_type"},
	)

	// RowsWritten counts rows written to the unified tables
	RowsWritten = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "aggregator_rows_written_total",
			Help: "Total number of rows written to unified tables",
		},
		[]string{"sync_type"},
	)

	// RowsSkipped counts provider rows dropped during mapping
	RowsSkipped = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "aggregator_rows_skipped_total",
			Help: "Total number of provider rows skipped during mapping",
		},
		[]string{"provider", "sync_type"},
	)

	// ValidationErrors counts post-write validation findings
	ValidationErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "aggregator_validation_errors_total",
			Help: "Total number of post-write validation errors",
		},
		[]string{"sync_type"},
	)

	// LastSyncTimestamp tracks the completion time of the last successful cycle
	LastSyncTimestamp = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "aggregator_last_sync_timestamp_seconds",
			Help: "Unix timestamp of the last successful sync cycle",
		},
	)
)
