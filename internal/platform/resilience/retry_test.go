package resilience

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestRetry_StopsOnSuccess(t *testing.T) {
	t.Parallel()

	calls := 0
	err := Retry(context.Background(), RetryPolicy{MaxRetries: 3, Backoff: time.Millisecond}, func(int) (bool, error) {
		calls++
		if calls < 2 {
			return true, errors.New("temporary")
		}
		return false, nil
	})
	if err != nil {
		t.Fatalf("expected success, got %v", err)
	}
	if calls != 2 {
		t.Fatalf("expected 2 calls, got=%d", calls)
	}
}

func TestRetry_NonRetryableReturnsImmediately(t *testing.T) {
	t.Parallel()

	calls := 0
	want := errors.New("status=404")
	err := Retry(context.Background(), RetryPolicy{MaxRetries: 5, Backoff: time.Millisecond}, func(int) (bool, error) {
		calls++
		return false, want
	})
	if !errors.Is(err, want) {
		t.Fatalf("expected %v, got %v", want, err)
	}
	if calls != 1 {
		t.Fatalf("expected one call, got=%d", calls)
	}
}

func TestRetry_ExhaustsPolicy(t *testing.T) {
	t.Parallel()

	calls := 0
	err := Retry(context.Background(), RetryPolicy{MaxRetries: 2, Backoff: time.Millisecond}, func(int) (bool, error) {
		calls++
		return true, errors.New("status=503")
	})
	if err == nil {
		t.Fatalf("expected error after exhausting retries")
	}
	if calls != 3 {
		t.Fatalf("expected 3 calls, got=%d", calls)
	}
}

func TestRetry_ContextCancelledDuringBackoff(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	err := Retry(ctx, RetryPolicy{MaxRetries: 3, Backoff: time.Hour}, func(int) (bool, error) {
		cancel()
		return true, errors.New("timeout")
	})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}
