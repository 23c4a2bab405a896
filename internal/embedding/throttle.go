package embedding

import (
	"context"
	"errors"
	"io"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// ThrottleOptions configures a Throttled provider
type ThrottleOptions struct {
	RequestsPerSecond float64       // 0 disables rate limiting
	Burst             int           // limiter burst, defaults to 1
	Timeout           time.Duration // per-attempt timeout, 0 disables
	MaxRetries        int           // retries after the first attempt
	InitialBackoff    time.Duration // defaults to 500ms, doubled per retry
}

// Throttled wraps a Provider with rate limiting, per-call timeouts and retries.
// It is the collaborator boundary where I/O policy lives; the vectorizer and
// ranker never retry on their own.
type Throttled struct {
	inner   Provider
	opts    ThrottleOptions
	limiter *rate.Limiter
	logger  *zap.Logger
}

// NewThrottled wraps inner. A nil logger disables logging.
func NewThrottled(inner Provider, opts ThrottleOptions, logger *zap.Logger) *Throttled {
	if logger == nil {
		logger = zap.NewNop()
	}
	if opts.Burst <= 0 {
		opts.Burst = 1
	}
	if opts.InitialBackoff <= 0 {
		opts.InitialBackoff = 500 * time.Millisecond
	}

	t := &Throttled{inner: inner, opts: opts, logger: logger}
	if opts.RequestsPerSecond > 0 {
		t.limiter = rate.NewLimiter(rate.Limit(opts.RequestsPerSecond), opts.Burst)
	}
	return t
}

// Embed implements Provider
func (t *Throttled) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	backoff := t.opts.InitialBackoff
	var lastErr error

	for attempt := 0; attempt <= t.opts.MaxRetries; attempt++ {
		if attempt > 0 {
			t.logger.Warn("retrying embedding request",
				zap.Int("attempt", attempt),
				zap.Int("texts", len(texts)),
				zap.Error(lastErr))
			if err := sleep(ctx, backoff); err != nil {
				return nil, err
			}
			backoff *= 2
		}

		if t.limiter != nil {
			if err := t.limiter.Wait(ctx); err != nil {
				return nil, err
			}
		}

		rows, err := t.attempt(ctx, texts)
		if err == nil {
			return rows, nil
		}
		lastErr = err

		// The caller gave up, no point in retrying
		if ctx.Err() != nil {
			return nil, err
		}
	}

	return nil, lastErr
}

func (t *Throttled) attempt(ctx context.Context, texts []string) ([][]float32, error) {
	if t.opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, t.opts.Timeout)
		defer cancel()
	}

	rows, err := t.inner.Embed(ctx, texts)
	if err != nil {
		var embErr *EmbeddingError
		if errors.As(err, &embErr) {
			return nil, err
		}
		return nil, &EmbeddingError{Provider: "throttled", Message: "provider call failed", Cause: err}
	}
	return rows, nil
}

// Dimension implements Provider
func (t *Throttled) Dimension() int {
	return t.inner.Dimension()
}

// Close closes the wrapped provider if it holds resources
func (t *Throttled) Close() error {
	if c, ok := t.inner.(io.Closer); ok {
		return c.Close()
	}
	return nil
}

func sleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
