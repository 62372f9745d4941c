package schedule_test

import (
	"fmt"
	"log"
	"sync/atomic"
	"time"

	"github.com/ejgdlyz/threadpool/pkg/schedule"
	"github.com/ejgdlyz/threadpool/pkg/threadpool"
)

// Example demonstrates one-time delayed scheduling.
func Example() {
	sched := schedule.New()
	if err := sched.Start(); err != nil {
		log.Fatal(err)
	}
	defer func() { <-sched.Stop() }()

	done := make(chan struct{})
	err := sched.ScheduleAfter("greeting", func() (any, error) {
		fmt.Println("scheduled job executed")
		close(done)
		return nil, nil
	}, 10*time.Millisecond)
	if err != nil {
		log.Fatal(err)
	}

	<-done

	// Output: scheduled job executed
}

// Example_sharedPool demonstrates scheduling onto an existing pool.
func Example_sharedPool() {
	pool := threadpool.New()
	if err := pool.Start(4); err != nil {
		log.Fatal(err)
	}
	defer func() { <-pool.Shutdown() }()

	sched := schedule.NewWithConfig(schedule.Config{Pool: pool})
	if err := sched.Start(); err != nil {
		log.Fatal(err)
	}
	defer func() { <-sched.Stop() }()

	var runs int32
	err := sched.ScheduleRepeating("counter", func() (any, error) {
		atomic.AddInt32(&runs, 1)
		return nil, nil
	}, 20*time.Millisecond)
	if err != nil {
		log.Fatal(err)
	}

	for atomic.LoadInt32(&runs) < 3 {
		time.Sleep(5 * time.Millisecond)
	}
	fmt.Println("ran at least three times")

	// Output: ran at least three times
}

// Example_retry demonstrates wrapping a flaky job with backoff.
func Example_retry() {
	attempts := 0
	flaky := func() (any, error) {
		attempts++
		if attempts < 3 {
			return nil, fmt.Errorf("attempt %d failed", attempts)
		}
		return attempts, nil
	}

	job := schedule.RetryJob(flaky, 5, time.Millisecond, 10*time.Millisecond)
	v, err := job()
	if err != nil {
		log.Fatal(err)
	}
	fmt.Println(v)

	// Output: 3
}
