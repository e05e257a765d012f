package llm

import (
	"context"
	"errors"
	"math"
	"math/rand/v2"
	"time"
)

// RetryProvider re-issues failed calls with exponential backoff.
type RetryProvider struct {
	inner Provider
	cfg   RetryConfig
}

// WithRetry wraps p. MaxAttempts below one is treated as a single try.
func WithRetry(p Provider, cfg RetryConfig) Provider {
	cfg.MaxAttempts = max(cfg.MaxAttempts, 1)
	return &RetryProvider{inner: p, cfg: cfg}
}

func (r *RetryProvider) Generate(ctx context.Context, req Request) (*Response, error) {
	malformed := 0
	for attempt := 1; ; attempt++ {
		resp, err := r.inner.Generate(ctx, req)
		if err == nil {
			return resp, nil
		}

		var invalid *ErrInvalidResponse
		if errors.As(err, &invalid) && r.cfg.RetryOn == nil {
			// A second malformed reply in a row is unlikely to improve.
			malformed++
			if malformed > 1 {
				return nil, err
			}
		}
		if attempt >= r.cfg.MaxAttempts || !r.retryable(err) {
			return nil, err
		}

		wait := r.wait(attempt, err)
		if r.cfg.OnRetry != nil {
			r.cfg.OnRetry(attempt, err, wait)
		}
		if err := sleep(ctx, wait); err != nil {
			return nil, err
		}
	}
}

func (r *RetryProvider) ModelID() string {
	return r.inner.ModelID()
}

func (r *RetryProvider) retryable(err error) bool {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	if r.cfg.RetryOn != nil {
		return r.cfg.RetryOn(err)
	}
	return transient(err)
}

// transient is the default policy: anything except configuration,
// credential, quota, truncation and deadline failures.
func transient(err error) bool {
	var (
		badKey  *ErrInvalidKey
		quota   *ErrQuotaExceeded
		maxTok  *ErrMaxTokensExceeded
		timeout *ErrTimeout
	)
	switch {
	case errors.Is(err, ErrNotConfigured),
		errors.As(err, &badKey),
		errors.As(err, &quota),
		errors.As(err, &maxTok),
		errors.As(err, &timeout):
		return false
	}
	return true
}

// wait returns the pause after the given 1-based failed attempt. A
// server-supplied Retry-After wins over the computed backoff.
func (r *RetryProvider) wait(attempt int, err error) time.Duration {
	var rl *ErrRateLimit
	if errors.As(err, &rl) && rl.RetryAfter > 0 {
		return rl.RetryAfter
	}

	d := float64(r.cfg.InitialWait) * math.Pow(r.cfg.Multiplier, float64(attempt-1))
	if r.cfg.MaxWait > 0 {
		d = math.Min(d, float64(r.cfg.MaxWait))
	}
	if r.cfg.Jitter > 0 {
		d *= 1 + r.cfg.Jitter*(2*rand.Float64()-1)
	}
	return time.Duration(math.Max(d, 0))
}

func sleep(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
