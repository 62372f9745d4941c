package schedule

import (
	"time"

	"github.com/ejgdlyz/threadpool/pkg/threadpool"
)

// RetryJob wraps a job with exponential backoff retry logic. The returned
// job runs the original up to maxRetries additional times, doubling the
// delay between attempts up to maxDelay, and yields the last attempt's
// value and error.
func RetryJob(job threadpool.Job, maxRetries int, initialDelay, maxDelay time.Duration) threadpool.Job {
	return func() (any, error) {
		var value any
		var lastErr error
		delay := initialDelay

		for attempt := 0; attempt <= maxRetries; attempt++ {
			if attempt > 0 {
				time.Sleep(delay)
				delay *= 2
				if delay > maxDelay {
					delay = maxDelay
				}
			}

			value, lastErr = job()
			if lastErr == nil {
				return value, nil
			}
		}

		return value, lastErr
	}
}
