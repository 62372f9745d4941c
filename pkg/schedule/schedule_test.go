package schedule

import (
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/ejgdlyz/threadpool/internal/testutil"
	tperrors "github.com/ejgdlyz/threadpool/pkg/common/errors"
	"github.com/ejgdlyz/threadpool/pkg/threadpool"
)

func TestSchedulerBasicScheduling(t *testing.T) {
	s := New()
	defer func() { <-s.Stop() }()

	if err := s.Start(); err != nil {
		t.Fatal(err)
	}

	var executed int32
	job := func() (any, error) {
		atomic.AddInt32(&executed, 1)
		return nil, nil
	}

	// Immediate and delayed scheduling
	if err := s.Schedule("test1", job, time.Now()); err != nil {
		t.Fatal(err)
	}
	if err := s.ScheduleAfter("test2", job, 50*time.Millisecond); err != nil {
		t.Fatal(err)
	}

	testutil.Eventually(t, func() bool {
		return atomic.LoadInt32(&executed) == 2
	}, 500*time.Millisecond, 10*time.Millisecond)

	// One-time entries are removed after dispatch
	testutil.Eventually(t, func() bool { return len(s.List()) == 0 }, 500*time.Millisecond, 10*time.Millisecond)
}

func TestSchedulerRepeating(t *testing.T) {
	s := New()
	defer func() { <-s.Stop() }()

	if err := s.Start(); err != nil {
		t.Fatal(err)
	}

	var executed int32
	job := func() (any, error) {
		atomic.AddInt32(&executed, 1)
		return nil, nil
	}

	if err := s.ScheduleRepeating("repeat", job, 75*time.Millisecond); err != nil {
		t.Fatal(err)
	}

	testutil.Eventually(t, func() bool {
		return atomic.LoadInt32(&executed) >= 3
	}, time.Second, 20*time.Millisecond)
}

func TestSchedulerCron(t *testing.T) {
	s := New()
	defer func() { <-s.Stop() }()

	if err := s.Start(); err != nil {
		t.Fatal(err)
	}

	var executed int32
	job := func() (any, error) {
		atomic.AddInt32(&executed, 1)
		return nil, nil
	}

	// Every second
	if err := s.ScheduleCron("cron", "* * * * * *", job); err != nil {
		t.Fatal(err)
	}

	testutil.Eventually(t, func() bool {
		return atomic.LoadInt32(&executed) > 0
	}, 2*time.Second, 50*time.Millisecond)
}

func TestSchedulerSharedPool(t *testing.T) {
	pool := threadpool.New()
	if err := pool.Start(2); err != nil {
		t.Fatal(err)
	}
	defer func() { <-pool.Shutdown() }()

	s := NewWithConfig(Config{Pool: pool})
	defer func() { <-s.Stop() }()
	if err := s.Start(); err != nil {
		t.Fatal(err)
	}

	var executed int32
	if err := s.ScheduleAfter("shared", func() (any, error) {
		atomic.AddInt32(&executed, 1)
		return nil, nil
	}, 10*time.Millisecond); err != nil {
		t.Fatal(err)
	}

	testutil.Eventually(t, func() bool {
		return atomic.LoadInt32(&executed) == 1
	}, time.Second, 10*time.Millisecond)

	// Stopping the scheduler leaves the shared pool running
	<-s.Stop()
	testutil.AssertEqual(t, pool.Running(), true)
}

func TestSchedulerEntryManagement(t *testing.T) {
	s := New()
	defer func() { <-s.Stop() }()

	job := func() (any, error) { return nil, nil }

	if err := s.Schedule("dup", job, time.Now().Add(time.Hour)); err != nil {
		t.Fatal(err)
	}
	if err := s.Schedule("dup", job, time.Now().Add(time.Hour)); err == nil {
		t.Error("should not allow duplicate entry IDs")
	}

	entries := s.List()
	testutil.AssertEqual(t, len(entries), 1)
	testutil.AssertEqual(t, entries[0].ID, "dup")

	testutil.AssertEqual(t, s.Cancel("dup"), true)
	testutil.AssertEqual(t, s.Cancel("nonexistent"), false)
	testutil.AssertEqual(t, len(s.List()), 0)

	if err := s.Schedule("a", job, time.Now().Add(time.Hour)); err != nil {
		t.Fatal(err)
	}
	if err := s.Schedule("b", job, time.Now().Add(time.Hour)); err != nil {
		t.Fatal(err)
	}
	s.CancelAll()
	testutil.AssertEqual(t, len(s.List()), 0)
}

func TestSchedulerListOrder(t *testing.T) {
	s := New()
	defer func() { <-s.Stop() }()

	job := func() (any, error) { return nil, nil }
	base := time.Now().Add(time.Hour)

	if err := s.Schedule("later", job, base.Add(time.Minute)); err != nil {
		t.Fatal(err)
	}
	if err := s.Schedule("sooner", job, base); err != nil {
		t.Fatal(err)
	}

	entries := s.List()
	testutil.AssertEqual(t, len(entries), 2)
	testutil.AssertEqual(t, entries[0].ID, "sooner")
	testutil.AssertEqual(t, entries[1].ID, "later")
}

func TestSchedulerRestart(t *testing.T) {
	pool := threadpool.New()
	if err := pool.Start(1); err != nil {
		t.Fatal(err)
	}
	defer func() { <-pool.Shutdown() }()

	s := NewWithConfig(Config{Pool: pool, TickInterval: 10 * time.Millisecond})
	if err := s.Start(); err != nil {
		t.Fatal(err)
	}
	<-s.Stop()

	// A scheduler is single-use: restarting is an explicit error, not a
	// silent dead tick loop.
	err := s.Start()
	testutil.AssertError(t, err)
	testutil.AssertEqual(t, errors.Is(err, tperrors.ErrPoolStopped), true)

	var executed int32
	if scheduleErr := s.ScheduleAfter("late", func() (any, error) {
		atomic.AddInt32(&executed, 1)
		return nil, nil
	}, 10*time.Millisecond); scheduleErr != nil {
		t.Fatal(scheduleErr)
	}
	time.Sleep(100 * time.Millisecond)
	testutil.AssertEqual(t, atomic.LoadInt32(&executed), int32(0))

	// Stopping again must not panic
	<-s.Stop()
}

func TestSchedulerTickNotStalledByFullPool(t *testing.T) {
	pool := threadpool.NewWithConfig(threadpool.Config{
		MaxQueueDepth: 1,
		SubmitTimeout: 400 * time.Millisecond,
	})
	if err := pool.Start(1); err != nil {
		t.Fatal(err)
	}

	// Occupy the worker and fill the queue so every scheduled submission
	// waits out the submit timeout.
	block := make(chan struct{})
	gate := threadpool.Submit(pool, func() (int, error) { <-block; return 0, nil })
	testutil.Eventually(t, func() bool { return pool.IdleWorkers() == 0 }, time.Second, time.Millisecond)
	filler := threadpool.Submit(pool, func() (int, error) { return 0, nil })

	s := NewWithConfig(Config{Pool: pool, TickInterval: 10 * time.Millisecond})
	if err := s.Start(); err != nil {
		t.Fatal(err)
	}
	defer func() { <-s.Stop() }()

	job := func() (any, error) { return nil, nil }
	if err := s.Schedule("first", job, time.Now()); err != nil {
		t.Fatal(err)
	}
	if err := s.ScheduleAfter("second", job, 50*time.Millisecond); err != nil {
		t.Fatal(err)
	}

	// One-time entries leave the registry at their dispatching tick. The
	// second entry must be dispatched well before the first submission's
	// timeout window ends, so the tick loop cannot be waiting on it.
	testutil.Eventually(t, func() bool { return len(s.List()) == 0 }, 300*time.Millisecond, 10*time.Millisecond)

	close(block)
	if _, err := gate.Get(); err != nil {
		t.Fatal(err)
	}
	if _, err := filler.Get(); err != nil {
		t.Fatal(err)
	}
	<-pool.Shutdown()
}

func TestSchedulerStartTwice(t *testing.T) {
	s := New()
	defer func() { <-s.Stop() }()

	if err := s.Start(); err != nil {
		t.Fatal(err)
	}
	if err := s.Start(); err == nil {
		t.Error("expected error when starting a running scheduler")
	}
}

func TestSchedulerInputValidation(t *testing.T) {
	s := New()
	defer func() { <-s.Stop() }()

	job := func() (any, error) { return nil, nil }

	tests := []struct {
		name string
		fn   func() error
	}{
		{
			"empty ID",
			func() error { return s.Schedule("", job, time.Now()) },
		},
		{
			"nil job",
			func() error { return s.Schedule("test", nil, time.Now()) },
		},
		{
			"zero run time",
			func() error { return s.Schedule("test", job, time.Time{}) },
		},
		{
			"negative interval",
			func() error { return s.ScheduleRepeating("test", job, -time.Second) },
		},
		{
			"empty cron expression",
			func() error { return s.ScheduleCron("test", "", job) },
		},
		{
			"invalid cron expression",
			func() error { return s.ScheduleCron("test", "invalid", job) },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.fn(); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}

func TestRetryJob(t *testing.T) {
	attempts := 0
	flaky := func() (any, error) {
		attempts++
		if attempts < 3 {
			return nil, errors.New("temporary failure")
		}
		return "recovered", nil
	}

	job := RetryJob(flaky, 5, 10*time.Millisecond, 100*time.Millisecond)

	v, err := job()
	testutil.AssertNoError(t, err)
	testutil.AssertEqual(t, attempts, 3)
	s, err := threadpool.As[string](v)
	testutil.AssertNoError(t, err)
	testutil.AssertEqual(t, s, "recovered")
}

func TestRetryJobExhausted(t *testing.T) {
	attempts := 0
	job := RetryJob(func() (any, error) {
		attempts++
		return nil, errors.New("permanent failure")
	}, 2, time.Millisecond, 10*time.Millisecond)

	_, err := job()
	testutil.AssertError(t, err)
	testutil.AssertEqual(t, attempts, 3)
}
