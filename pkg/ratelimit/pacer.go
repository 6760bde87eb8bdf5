// Package ratelimit implements client-side pacing between Hub'Eau page
// requests. Pacing is politeness towards the public API, not a correctness
// mechanism: fetch results do not depend on it.
package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"golang.org/x/time/rate"
)

// DefaultPageDelay is the pause between two page requests on the same endpoint.
const DefaultPageDelay = 100 * time.Millisecond

// Prometheus metrics for pacing.
var (
	hubeauPacerWaitSeconds = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "hubeau_pacer_wait_seconds",
		Help:    "Time spent waiting between Hub'Eau page requests",
		Buckets: []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2},
	})
)

// Pacer blocks between consecutive page requests.
type Pacer interface {
	// Wait blocks until the next request may be issued or ctx is done.
	Wait(ctx context.Context) error
}

// FixedDelay sleeps for a constant duration on every Wait.
type FixedDelay struct {
	Delay time.Duration
}

// NewFixedDelay creates a pacer sleeping d between requests.
func NewFixedDelay(d time.Duration) *FixedDelay {
	return &FixedDelay{Delay: d}
}

// Wait sleeps for the configured delay.
func (f *FixedDelay) Wait(ctx context.Context) error {
	if f.Delay <= 0 {
		return ctx.Err()
	}

	start := time.Now()
	timer := time.NewTimer(f.Delay)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		hubeauPacerWaitSeconds.Observe(time.Since(start).Seconds())
		return nil
	}
}

// Limiter paces requests with a token bucket. Unlike FixedDelay it only
// waits when requests arrive faster than the configured rate.
type Limiter struct {
	limiter *rate.Limiter
}

// NewLimiter creates a token-bucket pacer allowing perSecond requests per
// second with the given burst.
func NewLimiter(perSecond float64, burst int) (*Limiter, error) {
	if perSecond <= 0 {
		return nil, fmt.Errorf("rate must be positive (got %g)", perSecond)
	}
	if burst < 1 {
		return nil, fmt.Errorf("burst must be >= 1 (got %d)", burst)
	}
	return &Limiter{limiter: rate.NewLimiter(rate.Limit(perSecond), burst)}, nil
}

// Wait blocks until the bucket grants a token.
func (l *Limiter) Wait(ctx context.Context) error {
	start := time.Now()
	if err := l.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limiter: %w", err)
	}
	hubeauPacerWaitSeconds.Observe(time.Since(start).Seconds())
	return nil
}

// Nop never waits.
type Nop struct{}

// Wait returns immediately unless ctx is already done.
func (Nop) Wait(ctx context.Context) error {
	return ctx.Err()
}
