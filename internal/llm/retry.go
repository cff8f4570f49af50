package llm

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"time"
)

// RetryProvider retries failed calls with exponential backoff. Outages and
// rate limits are retried up to MaxAttempts; a malformed structured reply
// (a grammar question missing its answer, say) is worth exactly one more
// try since the same prompt usually comes back fine; truncation and
// cancellation are returned at once.
type RetryProvider struct {
	inner  Provider
	config RetryConfig
}

func WithRetry(p Provider, cfg RetryConfig) Provider {
	if cfg.MaxAttempts < 1 {
		cfg.MaxAttempts = 1
	}
	return &RetryProvider{inner: p, config: cfg}
}

func (r *RetryProvider) Generate(ctx context.Context, req Request) (*Response, error) {
	invalidSeen := false
	attempt := 0
	for {
		resp, err := r.inner.Generate(ctx, req)
		if err == nil {
			return resp, nil
		}
		attempt++

		var invalid *ErrInvalidResponse
		switch {
		case !retryable(err):
			return nil, err
		case errors.As(err, &invalid):
			if invalidSeen {
				return nil, err
			}
			invalidSeen = true
		}
		if attempt >= r.config.MaxAttempts {
			if attempt == 1 {
				return nil, err
			}
			return nil, fmt.Errorf("gave up after %d attempts: %w", attempt, err)
		}

		timer := time.NewTimer(r.wait(attempt-1, err))
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, ctx.Err()
		case <-timer.C:
		}
	}
}

func (r *RetryProvider) ModelID() string {
	return r.inner.ModelID()
}

func retryable(err error) bool {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	var truncated *ErrMaxTokensExceeded
	return !errors.As(err, &truncated)
}

// wait is InitialWait*Multiplier^n capped at MaxWait, with 20% jitter
// either way. A rate limit that names its own delay wins.
func (r *RetryProvider) wait(n int, err error) time.Duration {
	var rl *ErrRateLimit
	if errors.As(err, &rl) && rl.RetryAfter > 0 {
		return rl.RetryAfter
	}

	d := float64(r.config.InitialWait)
	for range n {
		d *= r.config.Multiplier
		if d >= float64(r.config.MaxWait) {
			d = float64(r.config.MaxWait)
			break
		}
	}
	d *= 0.8 + 0.4*rand.Float64()
	return time.Duration(d)
}
