package retry

import (
	"context"
	"errors"
	"testing"
	"time"

	errs "campaignscraper/pkg/errors"
	"campaignscraper/pkg/logger"
)

func TestExponentialBackoff(t *testing.T) {
	backoff := &ExponentialBackoff{
		BaseDelay:    100 * time.Millisecond,
		MaxDelay:     1 * time.Second,
		Multiplier:   2.0,
		JitterFactor: 0.0, // No jitter for predictable testing
	}

	tests := []struct {
		attempt     int
		expected    time.Duration
		description string
	}{
		{1, 100 * time.Millisecond, "First attempt"},
		{2, 200 * time.Millisecond, "Second attempt"},
		{3, 400 * time.Millisecond, "Third attempt"},
		{4, 800 * time.Millisecond, "Fourth attempt"},
		{5, 1 * time.Second, "Fifth attempt (capped at max)"},
		{6, 1 * time.Second, "Sixth attempt (still capped)"},
		{0, 0, "Zero attempt"},
	}

	for _, test := range tests {
		t.Run(test.description, func(t *testing.T) {
			delay := backoff.NextDelay(test.attempt)
			if delay != test.expected {
				t.Errorf("Expected delay %v, got %v", test.expected, delay)
			}
		})
	}
}

func TestExponentialBackoffWithJitter(t *testing.T) {
	backoff := &ExponentialBackoff{
		BaseDelay:    100 * time.Millisecond,
		MaxDelay:     1 * time.Second,
		Multiplier:   2.0,
		JitterFactor: 0.3,
	}

	delays := make(map[time.Duration]bool)
	for i := 0; i < 10; i++ {
		delays[backoff.NextDelay(2)] = true
	}

	if len(delays) < 2 {
		t.Error("Expected multiple different delays with jitter, but got consistent delays")
	}
}

func TestLinearBackoff(t *testing.T) {
	backoff := &LinearBackoff{
		BaseDelay: 100 * time.Millisecond,
		MaxDelay:  300 * time.Millisecond,
		Increment: 100 * time.Millisecond,
	}

	tests := []struct {
		attempt  int
		expected time.Duration
	}{
		{1, 100 * time.Millisecond},
		{2, 200 * time.Millisecond},
		{3, 300 * time.Millisecond},
		{4, 300 * time.Millisecond}, // capped
	}

	for _, test := range tests {
		if delay := backoff.NextDelay(test.attempt); delay != test.expected {
			t.Errorf("attempt %d: expected %v, got %v", test.attempt, test.expected, delay)
		}
	}
}

func TestRetrySucceedsAfterFailures(t *testing.T) {
	attempts := 0
	op := func() error {
		attempts++
		if attempts < 3 {
			return errs.New(errs.ErrorTypeTransport, "temporary failure")
		}
		return nil
	}

	cfg := &Config{
		MaxAttempts: 5,
		Backoff:     &ConstantBackoff{Delay: time.Millisecond},
		RetryIf:     DefaultRetryIf,
		Context:     context.Background(),
		Logger:      logger.NewNopLogger(),
		Sleep:       func(ctx context.Context, d time.Duration) error { return nil },
	}

	if err := Do(op, cfg); err != nil {
		t.Fatalf("expected success, got %v", err)
	}
	if attempts != 3 {
		t.Errorf("expected 3 attempts, got %d", attempts)
	}
}

func TestRetryBackoffSchedule(t *testing.T) {
	// Verify the exponential wait schedule without sleeping for real.
	var waits []time.Duration

	op := func() error {
		return errs.New(errs.ErrorTypeServerError, "server error")
	}

	cfg := &Config{
		MaxAttempts: 4,
		Backoff: &ExponentialBackoff{
			BaseDelay:  5 * time.Second,
			Multiplier: 2.0,
		},
		RetryIf: DefaultRetryIf,
		Context: context.Background(),
		Logger:  logger.NewNopLogger(),
		Sleep: func(ctx context.Context, d time.Duration) error {
			waits = append(waits, d)
			return nil
		},
	}

	if err := Do(op, cfg); err == nil {
		t.Fatal("expected failure after exhausting attempts")
	}

	expected := []time.Duration{
		5 * time.Second,
		10 * time.Second,
		20 * time.Second,
		40 * time.Second,
	}
	if len(waits) != len(expected) {
		t.Fatalf("expected %d waits, got %d", len(expected), len(waits))
	}
	for i, want := range expected {
		if waits[i] != want {
			t.Errorf("wait %d: expected %v, got %v", i, want, waits[i])
		}
	}
}

func TestRetryStopsOnNonRetryableError(t *testing.T) {
	attempts := 0
	terminal := errs.New(errs.ErrorTypeClientRejected, "rejected")

	op := func() error {
		attempts++
		return terminal
	}

	cfg := &Config{
		MaxAttempts: 5,
		Backoff:     &ConstantBackoff{Delay: time.Millisecond},
		RetryIf:     DefaultRetryIf,
		Context:     context.Background(),
		Logger:      logger.NewNopLogger(),
		Sleep:       func(ctx context.Context, d time.Duration) error { return nil },
	}

	err := Do(op, cfg)
	if !errors.Is(err, terminal) {
		t.Fatalf("expected the terminal error back, got %v", err)
	}
	if attempts != 1 {
		t.Errorf("expected exactly 1 attempt, got %d", attempts)
	}
}

func TestRetryMaxAttemptsExceeded(t *testing.T) {
	attempts := 0
	op := func() error {
		attempts++
		return errs.New(errs.ErrorTypeTransport, "always failing")
	}

	cfg := &Config{
		MaxAttempts: 3,
		Backoff:     &ConstantBackoff{Delay: time.Millisecond},
		RetryIf:     DefaultRetryIf,
		Context:     context.Background(),
		Logger:      logger.NewNopLogger(),
		Sleep:       func(ctx context.Context, d time.Duration) error { return nil },
	}

	if err := Do(op, cfg); err == nil {
		t.Fatal("expected error after max attempts")
	}
	if attempts != 3 {
		t.Errorf("expected 3 attempts, got %d", attempts)
	}
}

func TestRetryCancelledDuringWait(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	op := func() error {
		return errs.New(errs.ErrorTypeTransport, "failure")
	}

	cfg := &Config{
		MaxAttempts: 3,
		Backoff:     &ConstantBackoff{Delay: time.Hour},
		RetryIf:     DefaultRetryIf,
		Context:     ctx,
		Logger:      logger.NewNopLogger(),
	}

	err := Do(op, cfg)
	if err == nil || !errors.Is(err, context.Canceled) {
		t.Fatalf("expected cancellation error, got %v", err)
	}
}

func TestDoWithResult(t *testing.T) {
	attempts := 0
	op := func() (int, error) {
		attempts++
		if attempts < 2 {
			return 0, errs.New(errs.ErrorTypeRateLimit, "slow down")
		}
		return 42, nil
	}

	cfg := &Config{
		MaxAttempts: 3,
		Backoff:     &ConstantBackoff{Delay: time.Millisecond},
		RetryIf:     DefaultRetryIf,
		Context:     context.Background(),
		Logger:      logger.NewNopLogger(),
		Sleep:       func(ctx context.Context, d time.Duration) error { return nil },
	}

	result, err := DoWithResult(op, cfg)
	if err != nil {
		t.Fatalf("expected success, got %v", err)
	}
	if result != 42 {
		t.Errorf("expected 42, got %d", result)
	}
}

func TestDefaultRetryIf(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected bool
	}{
		{"nil error", nil, false},
		{"transport error", errs.New(errs.ErrorTypeTransport, "net down"), true},
		{"rate limit error", errs.New(errs.ErrorTypeRateLimit, "429"), true},
		{"server error", errs.New(errs.ErrorTypeServerError, "500"), true},
		{"client rejected", errs.New(errs.ErrorTypeClientRejected, "422"), false},
		{"parsing error", errs.New(errs.ErrorTypeParsing, "bad json"), false},
		{"context cancelled", context.Canceled, false},
		{"unknown error", errors.New("mystery"), true},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			if got := DefaultRetryIf(test.err); got != test.expected {
				t.Errorf("expected %v, got %v", test.expected, got)
			}
		})
	}
}
