package threadpool

import (
	"context"
	"fmt"
	"sync"

	tperrors "github.com/ejgdlyz/threadpool/pkg/common/errors"
)

// Result is the handle returned at submission time; the sole channel through
// which a job's output reaches its submitter. Each handle is bound 1:1 to its
// job and is independently typed to the job's return type, so jobs with
// different result types can share one pool.
//
// The value slot is written exactly once, by the worker that executes the
// job; Get blocks until that write has happened. A handle created for a
// rejected submission is pre-completed with the zero value and the rejection
// error, so Get never blocks on it.
type Result[R any] struct {
	value    R
	err      error
	done     chan struct{}
	once     sync.Once
	rejected bool
}

func newResult[R any]() *Result[R] {
	return &Result[R]{done: make(chan struct{})}
}

func newRejected[R any](err error) *Result[R] {
	r := newResult[R]()
	r.rejected = true
	var zero R
	r.complete(zero, err)
	return r
}

// complete stores the value and fires the completion signal. Later calls
// are ignored; the slot is write-once.
func (r *Result[R]) complete(value R, err error) {
	r.once.Do(func() {
		r.value = value
		r.err = err
		close(r.done)
	})
}

// Get blocks until the job has completed and returns its value and error.
func (r *Result[R]) Get() (R, error) {
	<-r.done
	return r.value, r.err
}

// GetContext is like Get but gives up when ctx is done, returning the zero
// value and the context's error. The job itself keeps running.
func (r *Result[R]) GetContext(ctx context.Context) (R, error) {
	select {
	case <-r.done:
		return r.value, r.err
	case <-ctx.Done():
		var zero R
		return zero, ctx.Err()
	}
}

// Done returns a channel that closes when the result is available.
func (r *Result[R]) Done() <-chan struct{} {
	return r.done
}

// Rejected reports whether the handle was created for a submission that
// never entered the queue.
func (r *Result[R]) Rejected() bool {
	return r.rejected
}

// As extracts a value of type T from an untyped job result. It fails with
// ErrTypeMismatch when the job produced an incompatible type, at the point
// of extraction rather than at submission time.
func As[T any](v any) (T, error) {
	t, ok := v.(T)
	if !ok {
		var zero T
		return zero, fmt.Errorf("cannot extract %T from %T: %w", zero, v, tperrors.ErrTypeMismatch)
	}
	return t, nil
}
