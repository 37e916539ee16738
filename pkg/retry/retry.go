package retry

import (
	"context"
	"math/rand"
	"time"
)

// Config defines retry behavior with exponential backoff.
type Config struct {
	MaxRetries   int
	InitialDelay time.Duration
	MaxDelay     time.Duration
	Multiplier   float64
	JitterFactor float64 // 0.0-1.0, default 0.1 for +/-10% jitter
}

// DefaultConfig returns sensible defaults for database startup:
// 3 retries with 100ms initial delay, capped at 5s, doubling each time.
func DefaultConfig() *Config {
	return &Config{
		MaxRetries:   3,
		InitialDelay: 100 * time.Millisecond,
		MaxDelay:     5 * time.Second,
		Multiplier:   2.0,
		JitterFactor: 0.1,
	}
}

// applyJitter spreads a delay by +/- jitterFactor to prevent thundering herd.
func applyJitter(delay time.Duration, jitterFactor float64) time.Duration {
	if jitterFactor <= 0 {
		return delay
	}
	jitter := float64(delay) * jitterFactor * (rand.Float64()*2 - 1)
	return time.Duration(float64(delay) + jitter)
}

// Do executes fn with exponential backoff. Returns nil on success, or the
// last error after all retries are exhausted. Respects context cancellation
// during wait periods.
func Do(ctx context.Context, cfg *Config, fn func() error) error {
	if cfg == nil {
		cfg = DefaultConfig()
	}

	var lastErr error
	delay := cfg.InitialDelay

	for attempt := 0; attempt <= cfg.MaxRetries; attempt++ {
		if err := fn(); err == nil {
			return nil
		} else {
			lastErr = err
		}

		if attempt < cfg.MaxRetries {
			select {
			case <-time.After(applyJitter(delay, cfg.JitterFactor)):
				delay = time.Duration(float64(delay) * cfg.Multiplier)
				if delay > cfg.MaxDelay {
					delay = cfg.MaxDelay
				}
			case <-ctx.Done():
				return ctx.Err()
			}
		}
	}

	return lastErr
}

// DoWithResult executes fn with exponential backoff and returns both result
// and error. Useful for constructors like pgxpool.New that may fail while
// the database is still coming up.
func DoWithResult[T any](ctx context.Context, cfg *Config, fn func() (T, error)) (T, error) {
	var result T
	err := Do(ctx, cfg, func() error {
		r, err := fn()
		if err != nil {
			return err
		}
		result = r
		return nil
	})
	return result, err
}
