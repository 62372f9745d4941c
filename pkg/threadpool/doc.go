/*
Package threadpool provides a two-mode worker pool with typed result handles.

A pool owns a bounded FIFO task queue serviced by a set of worker goroutines.
In fixed mode the worker count is constant for the pool's lifetime; in cached
mode the pool grows under load up to a ceiling and reclaims workers above the
initial count once they idle past a threshold. Every submission returns a
handle through which the job's typed result reaches the submitter.

Basic usage:

	pool := threadpool.New()
	if err := pool.Start(4); err != nil {
		log.Fatal(err)
	}
	defer func() { <-pool.Shutdown() }()

	res := threadpool.Submit(pool, func() (int, error) {
		return 1 + 2, nil
	})

	sum, err := res.Get() // blocks until the job completes
	if err != nil {
		log.Printf("job failed: %v", err)
	}
	fmt.Println(sum) // 3

Scaling Modes:

Fixed mode keeps exactly the workers created by Start. Cached mode spawns an
extra worker whenever a submission finds more queued jobs than idle workers,
up to MaxWorkers, and retires workers above the initial count after
IdleTimeout without work:

	pool := threadpool.New()
	pool.SetMode(threadpool.ModeCached)
	pool.SetMaxWorkers(8)
	pool.Start(2)

All configuration setters are valid only before Start; afterwards they return
errors.ErrPoolRunning and leave the pool unchanged.

Typed Results:

Submit is a package function so each call site carries its own result type;
jobs with different return types share one pool without the pool being
generic over any of them:

	a := threadpool.Submit(pool, func() (int, error) { return 42, nil })
	b := threadpool.Submit(pool, func() (string, error) { return "done", nil })

For dynamically typed jobs, SubmitJob returns a Result[any] and As extracts
the concrete type, failing with errors.ErrTypeMismatch on an incompatible
extraction:

	res := pool.SubmitJob(func() (any, error) { return 7, nil })
	v, _ := res.Get()
	n, err := threadpool.As[int](v)

Backpressure:

The task queue is bounded by MaxQueueDepth. A submission that finds the
queue full waits up to SubmitTimeout for space; if none frees, the returned
handle is already complete, carrying the zero value and an error classified
by errors.IsRejected, so Get never blocks on a rejected handle:

	res := threadpool.Submit(pool, job)
	v, err := res.Get()
	if errors.IsRejected(err) {
		// queue stayed full for the whole window; v is the zero value
	}

Failure Handling:

A job that returns an error or panics still completes its handle; the panic
is recovered and converted into the handle's error, and the worker keeps
running. Submitters are never left blocked by a failed job.

Shutdown:

Shutdown stops accepting submissions, lets workers finish their current and
queued jobs, and closes the returned channel once every worker has
deregistered:

	<-pool.Shutdown()

A pool is single-use: Start after Shutdown returns errors.ErrPoolStopped.

Metrics:

NewWithMetrics wires the pool's lifecycle hooks to a Prometheus registry;
see the metrics package for the exported series.
*/
package threadpool
