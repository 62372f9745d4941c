// Package metrics provides Prometheus instrumentation for threadpool components.
//
// The package exposes a Registry of counters, gauges and histograms covering
// pool and scheduler activity, built with promauto so registration happens at
// construction time.
//
// # Quick Start
//
// Enable metrics by using the metrics-enabled constructors:
//
//	// Worker pool with metrics
//	pool := threadpool.NewWithMetrics(threadpool.Config{}, "task_pool", metrics.DefaultConfig())
//
// Then expose metrics via HTTP:
//
//	http.Handle("/metrics", promhttp.Handler())
//	log.Fatal(http.ListenAndServe(":8080", nil))
//
// # Custom Registry
//
// Use a custom Prometheus registry for isolation:
//
//	registry := prometheus.NewRegistry()
//	config := metrics.Config{
//		Enabled:  true,
//		Registry: registry,
//	}
//
// # Available Metrics
//
// ## Pool Metrics
//
//   - threadpool_pool_jobs_submitted_total: Jobs accepted into the task queue
//   - threadpool_pool_jobs_completed_total: Jobs completed successfully
//   - threadpool_pool_jobs_failed_total: Jobs that returned an error or panicked
//   - threadpool_pool_jobs_rejected_total: Submissions rejected by backpressure
//   - threadpool_pool_job_duration_seconds: Time spent executing jobs
//   - threadpool_pool_workers: Current number of live workers
//   - threadpool_pool_idle_workers: Workers waiting for work
//   - threadpool_pool_queue_depth: Queued jobs waiting for a worker
//
// ## Schedule Metrics
//
//   - threadpool_schedule_jobs_scheduled_total: Jobs registered with the scheduler
//   - threadpool_schedule_runs_total: Scheduled submissions to the pool
//   - threadpool_schedule_skips_total: Runs skipped because submission failed
//
// # Labels
//
// Metrics include relevant labels for filtering and aggregation:
//
//   - pool_name: User-provided name for the pool instance
//   - scheduler_name: User-provided name for the scheduler instance
package metrics
