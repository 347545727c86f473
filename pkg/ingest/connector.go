package ingest

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Connector opens the pool of one store. Implementations differ by
// AuthMethod: password, client certificate, or a cloud IAM token.
type Connector interface {
	// Connect returns a pool that has answered a ping. The caller closes it.
	Connect(ctx context.Context) (*pgxpool.Pool, error)
}

// ErrorClassifier separates connection errors worth retrying from fatal ones.
// Only establishing a connection is retried, never a run.
type ErrorClassifier interface {
	IsTransient(err error) bool
}

// BackoffStrategy spaces connection attempts.
type BackoffStrategy interface {
	// NextDelay returns the wait before retry number attempt (zero-indexed).
	NextDelay(attempt int) time.Duration

	// MaxAttempts bounds the retries after the first attempt.
	// 0 disables retries and -1 removes the bound.
	MaxAttempts() int
}
