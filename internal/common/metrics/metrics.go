// internal/common/metrics/metrics.go
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	WorkerJobsCompleted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "worker_jobs_completed_total",
			Help: "Total number of jobs completed by worker",
		},
		[]string{"task_type"},
	)

	WorkerJobsFailed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "worker_jobs_failed_total",
			Help: "Total number of jobs failed by worker",
		},
		[]string{"task_type", "error_code"},
	)

	WorkerJobDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "worker_job_duration_seconds",
			Help: "Duration of job processing in seconds",
		},
		[]string{"task_type"},
	)

	WorkerJobsActive = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "worker_jobs_active",
			Help: "Number of active jobs per worker",
		},
		[]string{"task_type"},
	)

	MatrixCacheLookups = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "content_matrix_cache_lookups_total",
			Help: "Content matrix store lookups by result (hit, miss)",
		},
		[]string{"result"},
	)

	MatrixGenerations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "content_matrix_generations_total",
			Help: "Content matrix generation calls by outcome",
		},
		[]string{"outcome"},
	)

	MatrixGenerationDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "content_matrix_generation_duration_seconds",
			Help:    "Latency of the structured generation call",
			Buckets: []float64{0.5, 1, 2.5, 5, 10, 20, 40, 80},
		},
	)

	ResolverRuleHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "template_resolver_rule_hits_total",
			Help: "Template variables resolved per winning rule",
		},
		[]string{"rule"},
	)

	ResolverUnresolved = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "template_resolver_unresolved_total",
			Help: "Template variables left as placeholders",
		},
	)

	CompositionSections = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "composition_sections_selected_total",
			Help: "Sections selected by the composer per category",
		},
		[]string{"category"},
	)

	CompositionQueryErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "composition_section_query_errors_total",
			Help: "Section candidate queries that failed and were treated as empty",
		},
		[]string{"category"},
	)
)
