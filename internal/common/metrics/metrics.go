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

	DispatchTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gateway_dispatch_total",
			Help: "Dispatches by task kind and terminal outcome",
		},
		[]string{"kind", "outcome"},
	)

	BackendAttempts = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gateway_backend_attempts_total",
			Help: "Backend calls by shape and outcome (ok, network, non2xx, malformed)",
		},
		[]string{"backend", "outcome"},
	)

	BackendLatency = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "gateway_backend_latency_seconds",
			Help:    "Latency of a single backend call",
			Buckets: []float64{0.25, 0.5, 1, 2, 5, 10, 20, 40, 80},
		},
		[]string{"backend"},
	)

	FallbackTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "gateway_fallback_total",
			Help: "Fallback hops from the local backend to the hosted backend",
		},
	)

	NormalizeTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gateway_normalize_total",
			Help: "Normalized model outputs by whether a JSON object was extracted",
		},
		[]string{"structured"},
	)

	KnowledgeSearchResults = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "knowledge_search_results",
			Help:    "Number of documents returned per retrieval query",
			Buckets: []float64{0, 1, 2, 3, 5, 10, 20},
		},
	)
)
