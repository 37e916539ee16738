package retry

import (
	"context"
	"errors"
	"testing"
	"time"
)

func fastConfig() *Config {
	return &Config{
		MaxRetries:   3,
		InitialDelay: time.Millisecond,
		MaxDelay:     5 * time.Millisecond,
		Multiplier:   2.0,
	}
}

func TestDo_SucceedsAfterFailures(t *testing.T) {
	attempts := 0
	err := Do(context.Background(), fastConfig(), func() error {
		attempts++
		if attempts < 3 {
			return errors.New("not yet")
		}
		return nil
	})

	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if attempts != 3 {
		t.Errorf("expected 3 attempts, got %d", attempts)
	}
}

func TestDo_ExhaustsRetries(t *testing.T) {
	wantErr := errors.New("permanent")
	attempts := 0
	err := Do(context.Background(), fastConfig(), func() error {
		attempts++
		return wantErr
	})

	if !errors.Is(err, wantErr) {
		t.Fatalf("expected last error, got %v", err)
	}
	if attempts != 4 {
		t.Errorf("expected 4 attempts (1 + 3 retries), got %d", attempts)
	}
}

func TestDo_RespectsContextCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	attempts := 0
	err := Do(ctx, &Config{MaxRetries: 5, InitialDelay: time.Minute, Multiplier: 2.0}, func() error {
		attempts++
		cancel()
		return errors.New("fail")
	})

	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if attempts != 1 {
		t.Errorf("expected 1 attempt before cancellation, got %d", attempts)
	}
}

func TestDoWithResult_ReturnsValue(t *testing.T) {
	attempts := 0
	got, err := DoWithResult(context.Background(), fastConfig(), func() (int, error) {
		attempts++
		if attempts < 2 {
			return 0, errors.New("not yet")
		}
		return 42, nil
	})

	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != 42 {
		t.Errorf("expected 42, got %d", got)
	}
}

func TestApplyJitter_ZeroFactorLeavesDelay(t *testing.T) {
	delay := 100 * time.Millisecond
	if got := applyJitter(delay, 0); got != delay {
		t.Errorf("expected %v, got %v", delay, got)
	}
}
