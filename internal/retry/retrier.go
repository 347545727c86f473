package retry

import (
	"context"
	"time"

	"github.com/vvka-141/ingest/pkg/ingest"
)

// Retrier runs an operation until it succeeds, fails permanently, or the
// backoff strategy runs out of attempts.
//
// Safe for concurrent use.
type Retrier struct {
	classifier ingest.ErrorClassifier
	strategy   ingest.BackoffStrategy
	logger     ingest.Logger
	sleep      func(ctx context.Context, d time.Duration) error
}

// New creates a Retrier. Panics if any dependency is nil.
func New(classifier ingest.ErrorClassifier, strategy ingest.BackoffStrategy, logger ingest.Logger) *Retrier {
	if classifier == nil {
		panic("classifier cannot be nil")
	}
	if strategy == nil {
		panic("strategy cannot be nil")
	}
	if logger == nil {
		panic("logger cannot be nil")
	}
	return &Retrier{
		classifier: classifier,
		strategy:   strategy,
		logger:     logger,
		sleep:      sleepContext,
	}
}

// Do runs op, retrying transient failures. It returns the last error
// unchanged so callers can still match it with errors.Is.
func (r *Retrier) Do(ctx context.Context, name string, op func(ctx context.Context) error) error {
	err := op(ctx)
	max := r.strategy.MaxAttempts()

	for attempt := 0; err != nil && r.classifier.IsTransient(err); attempt++ {
		if max >= 0 && attempt >= max {
			break
		}
		delay := r.strategy.NextDelay(attempt)
		r.logger.Verbose("%s failed (attempt %d): %v; retrying in %s", name, attempt+1, err, delay.Round(time.Millisecond))

		if serr := r.sleep(ctx, delay); serr != nil {
			return serr
		}
		err = op(ctx)
	}
	return err
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
