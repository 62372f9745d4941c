/*
Package threadpool provides a worker thread pool library for concurrent Go
applications, with typed result handles, bounded submission, and scheduled
execution.

Thread Pool (pkg/threadpool):
  - Fixed and cached scaling modes with idle worker reclamation
  - Typed result handles so jobs with different return types share one pool
  - Bounded FIFO queue with time-limited, non-blocking-on-failure submission
  - Panic recovery and graceful drain-then-join shutdown

Scheduling (pkg/schedule):
  - One-time, interval, and cron job scheduling onto a pool

Observability (pkg/metrics):
  - Prometheus counters, gauges, and histograms for pools and schedulers

Example usage:

	import "github.com/ejgdlyz/threadpool/pkg/threadpool"

	pool := threadpool.New()
	pool.Start(4)
	defer func() { <-pool.Shutdown() }()

	res := threadpool.Submit(pool, func() (int, error) {
		return compute(), nil
	})
	value, err := res.Get()
*/
package threadpool
