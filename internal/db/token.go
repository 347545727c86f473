package db

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/vvka-141/ingest/internal/retry"
	"github.com/vvka-141/ingest/pkg/ingest"
)

// TokenProvider issues short-lived tokens used as the PostgreSQL password.
type TokenProvider interface {
	GetToken(ctx context.Context) (token string, expiresOn time.Time, err error)

	// String describes the provider for logs. Must not contain secrets.
	String() string
}

// tokenExpiryWarning is the remaining lifetime below which a token is logged as expiring.
const tokenExpiryWarning = 5 * time.Minute

// TokenConnector authenticates with a fresh token on every attempt
// (AWS RDS IAM, Azure Entra ID).
type TokenConnector struct {
	config   *ingest.ConnectionConfig
	provider TokenProvider
	logger   ingest.Logger
	retrier  *retry.Retrier
}

// NewTokenConnector creates a connector for provider.
func NewTokenConnector(cfg *ingest.ConnectionConfig, provider TokenProvider, logger ingest.Logger) *TokenConnector {
	if provider == nil {
		panic("token provider cannot be nil")
	}
	return &TokenConnector{
		config:   cfg,
		provider: provider,
		logger:   logger,
		retrier:  newRetrier(logger),
	}
}

// Connect acquires a token and opens a pool with it.
func (c *TokenConnector) Connect(ctx context.Context) (*pgxpool.Pool, error) {
	var pool *pgxpool.Pool
	err := c.retrier.Do(ctx, "connect to "+describe(c.config), func(ctx context.Context) error {
		token, expiresOn, err := c.provider.GetToken(ctx)
		if err != nil {
			return fmt.Errorf("acquire token from %s: %w", c.provider, err)
		}
		if left := time.Until(expiresOn); left < tokenExpiryWarning {
			c.logger.Info("Token from %s expires in %s", c.provider, left.Round(time.Second))
		}

		withToken := *c.config
		withToken.Password = token
		pool, err = openPool(ctx, BuildConnectionString(&withToken), c.logger)
		return err
	})
	if err != nil {
		return nil, wrapConnectionError(err, c.config)
	}
	return pool, nil
}
