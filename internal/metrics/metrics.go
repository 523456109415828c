package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Run outcomes used as the "outcome" label of RunsTotal.
const (
	OutcomeSuccess           = "success"
	OutcomeEmpty             = "empty"
	OutcomeSourceUnavailable = "source_unavailable"
	OutcomeStorageFailure    = "storage_failure"
)

// Pipeline Metrics
var (
	// RunsTotal counts analysis runs by outcome
	RunsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "feedback_runs_total",
			Help: "Total analysis runs by outcome",
		},
		[]string{"outcome"},
	)

	// RecordsTotal counts classified records by verdict
	RecordsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "feedback_records_total",
			Help: "Total classified feedback records by verdict",
		},
		[]string{"verdict"},
	)

	RecordErrors = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "feedback_record_errors_total",
			Help: "Total feedback records skipped because of errors",
		},
	)

	ExcludedRecords = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "feedback_excluded_records_total",
			Help: "Total source rows excluded for blank feedback",
		},
	)

	// RunDuration tracks the wall time of a full run in seconds
	RunDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "feedback_run_duration_seconds",
			Help:    "Analysis run duration in seconds",
			Buckets: []float64{.01, .05, .1, .25, .5, 1, 2.5, 5, 10, 30},
		},
	)

	// LastRunRecords is the number of records emitted by the latest successful run
	LastRunRecords = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "feedback_last_run_records",
			Help: "Records emitted by the latest successful run",
		},
	)
)

// Cache Metrics
var (
	// CacheLookups counts read-through cache lookups by result (hit, miss, error)
	CacheLookups = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "feedback_cache_lookups_total",
			Help: "Read-through cache lookups by result",
		},
		[]string{"result"},
	)
)
