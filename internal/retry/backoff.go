package retry

import (
	"math"
	"math/rand/v2"
	"time"

	"github.com/vvka-141/ingest/pkg/ingest"
)

// Backoff grows the delay geometrically from an initial value up to a cap,
// optionally spreading it by a symmetric jitter factor.
type Backoff struct {
	initial    time.Duration
	max        time.Duration
	multiplier float64
	jitter     float64
	attempts   int
	random     func() float64
}

// BackoffOption configures a Backoff.
type BackoffOption func(*Backoff)

// WithInitialDelay sets the delay before the first retry.
func WithInitialDelay(d time.Duration) BackoffOption {
	return func(b *Backoff) { b.initial = d }
}

// WithMaxDelay caps the delay between retries.
func WithMaxDelay(d time.Duration) BackoffOption {
	return func(b *Backoff) { b.max = d }
}

// WithMultiplier sets the growth factor between retries.
func WithMultiplier(m float64) BackoffOption {
	return func(b *Backoff) { b.multiplier = m }
}

// WithJitter spreads every delay by up to +/- j (0 disables jitter).
func WithJitter(j float64) BackoffOption {
	return func(b *Backoff) { b.jitter = j }
}

// WithRandom replaces the [0,1) source used for jitter.
func WithRandom(f func() float64) BackoffOption {
	return func(b *Backoff) { b.random = f }
}

// NewBackoff returns a backoff allowing attempts retries (-1 = unlimited).
// Defaults follow the connection defaults in pkg/ingest.
func NewBackoff(attempts int, opts ...BackoffOption) *Backoff {
	b := &Backoff{
		initial:    ingest.DefaultRetryInitialDelay,
		max:        ingest.DefaultRetryMaxDelay,
		multiplier: 2,
		jitter:     0.1,
		attempts:   attempts,
		random:     rand.Float64,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// NextDelay returns the wait before retry number attempt (zero-indexed).
func (b *Backoff) NextDelay(attempt int) time.Duration {
	d := float64(b.initial) * math.Pow(b.multiplier, float64(attempt))
	if d > float64(b.max) {
		d = float64(b.max)
	}
	if b.jitter > 0 {
		d *= 1 + b.jitter*(b.random()*2-1)
	}
	return time.Duration(d)
}

// MaxAttempts returns the number of retries after the first attempt.
func (b *Backoff) MaxAttempts() int {
	return b.attempts
}

var _ ingest.BackoffStrategy = (*Backoff)(nil)
