package resilience

import (
	"context"
	"time"
)

// Retry runs fn until it succeeds, reports a non-retryable error, the policy
// is exhausted or ctx is done. The last error is returned.
func Retry(ctx context.Context, policy RetryPolicy, fn func(attempt int) (retryable bool, err error)) error {
	policy = NormalizeRetryPolicy(policy)

	var lastErr error
	for attempt := 0; attempt <= policy.MaxRetries; attempt++ {
		retryable, err := fn(attempt)
		if err == nil {
			return nil
		}
		lastErr = err
		if !retryable || attempt == policy.MaxRetries {
			break
		}

		timer := time.NewTimer(time.Duration(attempt+1) * policy.Backoff)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
	}
	return lastErr
}
