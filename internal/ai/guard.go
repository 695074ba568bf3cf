package ai

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"
	"go.uber.org/zap"
)

const (
	defaultTimeout    = 60 * time.Second
	defaultMaxRetries = 1
)

// GuardConfig bounds every call made through a Guard.
type GuardConfig struct {
	// Timeout applies to each attempt separately.
	Timeout time.Duration
	// MaxRetries is the number of additional attempts after the first one.
	MaxRetries int
	// Retryable reports whether a provider error is worth another attempt.
	// Attempt timeouts are always retryable.
	Retryable func(error) bool
	// NewBackOff overrides the delay policy between attempts.
	NewBackOff func() backoff.BackOff
}

// Guard wraps a Generator with a per-attempt timeout and a bounded retry.
// Every failure it returns wraps ErrGeneration.
type Guard struct {
	next   Generator
	cfg    GuardConfig
	logger *zap.Logger
}

// NewGuard wraps next. Zero config values fall back to a 60s timeout and one retry.
func NewGuard(next Generator, cfg GuardConfig, logger *zap.Logger) *Guard {
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}
	if cfg.MaxRetries < 0 {
		cfg.MaxRetries = 0
	}
	if cfg.Retryable == nil {
		cfg.Retryable = func(error) bool { return false }
	}
	if cfg.NewBackOff == nil {
		cfg.NewBackOff = func() backoff.BackOff {
			expo := backoff.NewExponentialBackOff()
			expo.InitialInterval = 500 * time.Millisecond
			expo.MaxInterval = 5 * time.Second
			return expo
		}
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Guard{next: next, cfg: cfg, logger: logger}
}

// DefaultGuardConfig returns the config used when none is supplied.
func DefaultGuardConfig() GuardConfig {
	return GuardConfig{Timeout: defaultTimeout, MaxRetries: defaultMaxRetries}
}

func (g *Guard) Generate(ctx context.Context, req Request) (string, error) {
	if g == nil || g.next == nil {
		return "", fmt.Errorf("%w: generator is not initialized", ErrGeneration)
	}

	var (
		output  string
		attempt int
	)

	op := func() error {
		attempt++

		callCtx, cancel := context.WithTimeout(ctx, g.cfg.Timeout)
		defer cancel()

		text, err := g.next.Generate(callCtx, req)
		if err == nil {
			output = text
			return nil
		}

		if ctx.Err() != nil {
			return backoff.Permanent(err)
		}

		if errors.Is(err, context.DeadlineExceeded) || g.cfg.Retryable(err) {
			g.logger.Warn("generation attempt failed",
				zap.Int("attempt", attempt),
				zap.Int("max_retries", g.cfg.MaxRetries),
				zap.Duration("timeout", g.cfg.Timeout),
				zap.Error(err),
			)
			return err
		}

		return backoff.Permanent(err)
	}

	policy := backoff.WithContext(backoff.WithMaxRetries(g.cfg.NewBackOff(), uint64(g.cfg.MaxRetries)), ctx)
	if err := backoff.Retry(op, policy); err != nil {
		return "", fmt.Errorf("%w after %d attempt(s): %w", ErrGeneration, attempt, err)
	}

	return output, nil
}

func (g *Guard) Model() string {
	if g == nil || g.next == nil {
		return ""
	}
	return g.next.Model()
}
