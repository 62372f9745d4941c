package threadpool

import "time"

// taskQueue is the bounded FIFO of pending jobs; the single point of
// synchronization between submitters and workers. It is a buffered channel
// underneath: the queue's order is the channel's order, submitters wait for
// "not full" with a timer, and workers wait for "not empty" by receiving.
type taskQueue struct {
	tasks chan func() error
}

func newTaskQueue(depth int) *taskQueue {
	return &taskQueue{tasks: make(chan func() error, depth)}
}

// tryEnqueue appends the task if the queue has room, without blocking.
func (q *taskQueue) tryEnqueue(task func() error) bool {
	select {
	case q.tasks <- task:
		return true
	default:
		return false
	}
}

// enqueue blocks until the queue has room or the timeout elapses. It also
// aborts when cancel fires, so a submission cannot land in a queue that no
// worker will ever drain. Returns false without mutating the queue on
// timeout or cancellation.
func (q *taskQueue) enqueue(task func() error, timeout time.Duration, cancel <-chan struct{}) bool {
	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case q.tasks <- task:
		return true
	case <-timer.C:
		return false
	case <-cancel:
		return false
	}
}

// depth returns the number of queued tasks.
func (q *taskQueue) depth() int {
	return len(q.tasks)
}

// capacity returns the maximum queue depth.
func (q *taskQueue) capacity() int {
	return cap(q.tasks)
}
