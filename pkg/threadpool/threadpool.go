package threadpool

import (
	"fmt"
	"runtime/debug"
	"time"

	tperrors "github.com/ejgdlyz/threadpool/pkg/common/errors"
)

// Submit hands fn to the pool and returns a handle typed to fn's return
// type. It never blocks the caller beyond the pool's SubmitTimeout: if the
// queue stays full for the whole window, or the pool is not running, the
// returned handle is pre-completed with the zero value and an error
// classified by errors.IsRejected.
//
// Submit is a package function rather than a method so each call site can
// carry its own result type.
func Submit[R any](p *Pool, fn func() (R, error)) *Result[R] {
	if fn == nil {
		return newRejected[R](tperrors.NewValidationError("threadpool", "fn", nil, "cannot be nil"))
	}

	h := newResult[R]()
	task := func() (err error) {
		defer func() {
			if r := recover(); r != nil {
				err = fmt.Errorf("job panicked: %v\nStack trace:\n%s", r, debug.Stack())
				var zero R
				h.complete(zero, err)
			}
		}()
		v, jerr := fn()
		h.complete(v, jerr)
		return jerr
	}

	p.mu.Lock()
	if !p.running {
		p.mu.Unlock()
		p.reject()
		return newRejected[R](tperrors.ErrPoolStopped)
	}

	// Fast path: room in the queue. Enqueue under the lock, so a job
	// accepted while the pool is running is always drained by a worker.
	if p.queue.tryEnqueue(task) {
		p.maybeGrowLocked()
		p.mu.Unlock()
		p.accept()
		return h
	}

	queue, timeout, cancel := p.queue, p.conf.SubmitTimeout, p.shutdownCh
	p.slowSubmitters.Add(1)
	p.mu.Unlock()

	// Slow path: wait for queue space, bounded by the submit timeout. The
	// slowSubmitters registration, taken under the lock while the pool was
	// still running, keeps shutdown's final drain behind this enqueue.
	ok := queue.enqueue(task, timeout, cancel)
	p.slowSubmitters.Done()
	if !ok {
		p.reject()
		return newRejected[R](tperrors.ErrQueueFull)
	}

	p.accept()
	p.mu.Lock()
	p.maybeGrowLocked()
	p.mu.Unlock()
	return h
}

// SubmitJob submits an untyped job. The result carries the job's value as
// an any; extract it with As.
func (p *Pool) SubmitJob(job Job) *Result[any] {
	return Submit(p, job)
}

func (p *Pool) accept() {
	p.submitted.Add(1)
	if f := p.conf.OnSubmitted; f != nil {
		f()
	}
}

func (p *Pool) reject() {
	p.rejected.Add(1)
	if f := p.conf.OnRejected; f != nil {
		f()
	}
}

// Shutdown initiates teardown: no new submissions are accepted, workers
// finish their current and queued jobs and deregister, and the returned
// channel closes once the worker registry is empty. Jobs that slipped into
// the queue during the shutdown race are executed by the teardown path so
// no submitter is ever left blocked on a handle.
//
// Callers wanting synchronous teardown wait on the channel:
//
//	<-pool.Shutdown()
func (p *Pool) Shutdown() <-chan struct{} {
	p.shutdownOnce.Do(func() {
		p.mu.Lock()
		p.running = false
		p.stopped = true
		queue := p.queue
		p.mu.Unlock()

		close(p.shutdownCh)

		go func() {
			p.wg.Wait()
			p.slowSubmitters.Wait()
			if queue != nil {
				for {
					select {
					case task := <-queue.tasks:
						// Same completion accounting as worker execution;
						// worker ID 0 marks the teardown path (live workers
						// are numbered from 1).
						start := time.Now()
						err := task()
						p.completed.Add(1)
						if f := p.conf.OnJobComplete; f != nil {
							f(0, time.Since(start), err)
						}
					default:
						close(p.done)
						return
					}
				}
			}
			close(p.done)
		}()
	})

	return p.done
}

// run is the main dispatch loop for a worker: wait for a job, execute it
// outside any lock, repeat. Cached-mode workers additionally wake at a
// bounded interval to evaluate idle reclamation.
func (w *worker) run() {
	p := w.pool
	defer p.wg.Done()

	if f := p.conf.OnWorkerStart; f != nil {
		f(w.id)
	}

	cached := p.conf.Mode == ModeCached
	idleSince := time.Now()

	for {
		if cached {
			timer := time.NewTimer(p.idlePoll())
			select {
			case task := <-p.queue.tasks:
				timer.Stop()
				w.execute(task)
				idleSince = time.Now()
			case <-p.shutdownCh:
				timer.Stop()
				w.exit()
				return
			case <-timer.C:
				if w.reclaim(idleSince) {
					return
				}
			}
		} else {
			select {
			case task := <-p.queue.tasks:
				w.execute(task)
			case <-p.shutdownCh:
				w.exit()
				return
			}
		}
	}
}

// execute runs one job. The task closure completes its result handle even
// on panic, so the submitter can never be left blocked.
func (w *worker) execute(task func() error) {
	p := w.pool
	p.markBusy()
	start := time.Now()
	err := task()
	p.completed.Add(1)
	if f := p.conf.OnJobComplete; f != nil {
		f(w.id, time.Since(start), err)
	}
	p.markIdle()
}

// exit drains the remaining queued jobs and removes this worker from the
// registry. Workers observe shutdown only from the Idle state, so the queue
// is drained before the registry shrinks.
func (w *worker) exit() {
	p := w.pool
	for {
		select {
		case task := <-p.queue.tasks:
			w.execute(task)
		default:
			p.mu.Lock()
			p.deregisterLocked(w.id)
			p.mu.Unlock()
			if f := p.conf.OnWorkerStop; f != nil {
				f(w.id)
			}
			return
		}
	}
}

// reclaim retires this worker if it has idled past the threshold and the
// pool still has more workers than it started with. Returns true when the
// worker has deregistered itself.
func (w *worker) reclaim(idleSince time.Time) bool {
	p := w.pool

	p.mu.Lock()
	if time.Since(idleSince) < p.conf.IdleTimeout || p.currentWorkers <= p.initialWorkers {
		p.mu.Unlock()
		return false
	}
	p.deregisterLocked(w.id)
	p.mu.Unlock()

	if f := p.conf.OnWorkerStop; f != nil {
		f(w.id)
	}
	return true
}
