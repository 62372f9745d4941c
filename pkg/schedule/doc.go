/*
Package schedule runs jobs on a thread pool at scheduled times.

The scheduler supports one-time delayed execution, fixed-interval repetition,
and cron expressions, all dispatched onto a threadpool.Pool so scheduled work
shares the pool's workers and backpressure rules with directly submitted jobs.

Basic Usage:

	sched := schedule.New()
	sched.Start()
	defer func() { <-sched.Stop() }()

	job := func() (any, error) {
		fmt.Println("job executed")
		return nil, nil
	}

	// Run once, five seconds from now
	sched.ScheduleAfter("warmup", job, 5*time.Second)

	// Run every minute
	sched.ScheduleRepeating("heartbeat", job, time.Minute)

	// Run at 9:00 every weekday (seconds-resolution cron)
	sched.ScheduleCron("report", "0 0 9 * * MON-FRI", job)

Pool Integration:

By default the scheduler owns a small pool and shuts it down on Stop. Pass
an existing pool to share workers with the rest of the application:

	pool := threadpool.New()
	pool.Start(8)

	sched := schedule.NewWithConfig(schedule.Config{Pool: pool})

When the shared pool's queue is full, ready jobs wait out the pool's submit
timeout on their own goroutines rather than blocking the tick loop; with a
metrics registry configured the rejected ones are counted as skips.

Like a pool, a scheduler is single-use: Start after Stop returns an error.

Entry Management:

	sched.Cancel("heartbeat")
	sched.CancelAll()
	for _, e := range sched.List() {
		fmt.Println(e.ID, e.RunAt)
	}
*/
package schedule
