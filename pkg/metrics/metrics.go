// Package metrics provides Prometheus instrumentation for threadpool components.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Registry holds all metric instances for threadpool components.
type Registry struct {
	// Pool Metrics
	JobsSubmitted   *prometheus.CounterVec
	JobsCompleted   *prometheus.CounterVec
	JobsFailed      *prometheus.CounterVec
	JobsRejected    *prometheus.CounterVec
	JobDuration     *prometheus.HistogramVec
	PoolWorkers     *prometheus.GaugeVec
	PoolIdleWorkers *prometheus.GaugeVec
	PoolQueueDepth  *prometheus.GaugeVec

	// Schedule Metrics
	JobsScheduled *prometheus.CounterVec
	ScheduleRuns  *prometheus.CounterVec
	ScheduleSkips *prometheus.CounterVec
}

// DefaultRegistry is the default metrics registry used by threadpool components.
var DefaultRegistry *Registry

func init() {
	DefaultRegistry = NewRegistry(prometheus.DefaultRegisterer)
}

// NewRegistry creates a new metrics registry with the given Prometheus registerer.
func NewRegistry(reg prometheus.Registerer) *Registry {
	factory := promauto.With(reg)

	return &Registry{
		// Pool Metrics
		JobsSubmitted: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "threadpool",
				Subsystem: "pool",
				Name:      "jobs_submitted_total",
				Help:      "Total number of jobs accepted into the task queue",
			},
			[]string{"pool_name"},
		),

		JobsCompleted: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "threadpool",
				Subsystem: "pool",
				Name:      "jobs_completed_total",
				Help:      "Total number of jobs completed successfully",
			},
			[]string{"pool_name"},
		),

		JobsFailed: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "threadpool",
				Subsystem: "pool",
				Name:      "jobs_failed_total",
				Help:      "Total number of jobs that returned an error or panicked",
			},
			[]string{"pool_name"},
		),

		JobsRejected: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "threadpool",
				Subsystem: "pool",
				Name:      "jobs_rejected_total",
				Help:      "Total number of submissions rejected by backpressure",
			},
			[]string{"pool_name"},
		),

		JobDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "threadpool",
				Subsystem: "pool",
				Name:      "job_duration_seconds",
				Help:      "Time spent executing jobs",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"pool_name"},
		),

		PoolWorkers: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: "threadpool",
				Subsystem: "pool",
				Name:      "workers",
				Help:      "Current number of live workers",
			},
			[]string{"pool_name"},
		),

		PoolIdleWorkers: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: "threadpool",
				Subsystem: "pool",
				Name:      "idle_workers",
				Help:      "Number of workers waiting for work",
			},
			[]string{"pool_name"},
		),

		PoolQueueDepth: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: "threadpool",
				Subsystem: "pool",
				Name:      "queue_depth",
				Help:      "Number of queued jobs waiting for a worker",
			},
			[]string{"pool_name"},
		),

		// Schedule Metrics
		JobsScheduled: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "threadpool",
				Subsystem: "schedule",
				Name:      "jobs_scheduled_total",
				Help:      "Total number of jobs registered with the scheduler",
			},
			[]string{"scheduler_name"},
		),

		ScheduleRuns: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "threadpool",
				Subsystem: "schedule",
				Name:      "runs_total",
				Help:      "Total number of scheduled job submissions to the pool",
			},
			[]string{"scheduler_name"},
		),

		ScheduleSkips: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "threadpool",
				Subsystem: "schedule",
				Name:      "skips_total",
				Help:      "Total number of scheduled runs skipped because submission failed",
			},
			[]string{"scheduler_name"},
		),
	}
}
