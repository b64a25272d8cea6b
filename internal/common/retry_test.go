package common

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/finanzaspro/finanzas/internal/service"
)

func fastRetry(attempts int) service.RetryOptions {
	return service.RetryOptions{
		MaxAttempts:  attempts,
		InitialDelay: time.Millisecond,
		MaxDelay:     5 * time.Millisecond,
	}
}

func TestWithRetry_TransientFailureRecovers(t *testing.T) {
	calls := 0
	err := WithRetry(context.Background(), func() error {
		calls++
		if calls < 3 {
			return errors.New("connection reset")
		}
		return nil
	}, fastRetry(5))
	if err != nil {
		t.Fatalf("Expected recovery, got %v", err)
	}
	if calls != 3 {
		t.Errorf("Expected 3 attempts, got %d", calls)
	}
}

func TestWithRetry_ExhaustionWrapsMaxRetries(t *testing.T) {
	calls := 0
	err := WithRetry(context.Background(), func() error {
		calls++
		return errors.New("still down")
	}, fastRetry(3))
	if !errors.Is(err, ErrMaxRetries) {
		t.Errorf("Expected ErrMaxRetries, got %v", err)
	}
	if calls != 3 {
		t.Errorf("Expected 3 attempts, got %d", calls)
	}
}

func TestWithRetry_DoesNotRepeatCallerMistakes(t *testing.T) {
	tests := []struct {
		name string
		err  error
	}{
		{name: "validation error", err: NewValidationError("amount", "must be greater than zero")},
		{name: "user error", err: NewUserError("no AI API key configured", nil)},
		{name: "marked permanent", err: &RetryableError{Err: errors.New("bad request"), Retryable: false}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			calls := 0
			err := WithRetry(context.Background(), func() error {
				calls++
				return tt.err
			}, fastRetry(5))
			if !errors.Is(err, tt.err) {
				t.Errorf("Expected the original error back, got %v", err)
			}
			if calls != 1 {
				t.Errorf("Expected a single attempt, got %d", calls)
			}
		})
	}
}

func TestWithRetry_CanceledContextStopsBackoff(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	calls := 0
	err := WithRetry(ctx, func() error {
		calls++
		return errors.New("flaky")
	}, fastRetry(5))
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Expected context.Canceled, got %v", err)
	}
	if calls != 1 {
		t.Errorf("Expected no retry after cancellation, got %d attempts", calls)
	}
}
