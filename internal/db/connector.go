package db

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/vvka-141/ingest/internal/retry"
	"github.com/vvka-141/ingest/pkg/ingest"
)

// Pool sizing for a single ingestion run: one connection carries the
// transaction, a second serves the occasional concurrent query.
const (
	DefaultMaxConns        = 2
	DefaultMinConns        = 1
	DefaultMaxConnIdleTime = 30 * time.Minute
)

// ConnectorFactory builds a Connector for a resolved configuration.
type ConnectorFactory func(cfg *ingest.ConnectionConfig, logger ingest.Logger) (ingest.Connector, error)

// NewConnector picks the connector matching cfg.AuthMethod.
func NewConnector(cfg *ingest.ConnectionConfig, logger ingest.Logger) (ingest.Connector, error) {
	if cfg == nil {
		return nil, fmt.Errorf("connection config is required: %w", ingest.ErrInvalidConfig)
	}
	if logger == nil {
		panic("logger cannot be nil")
	}

	switch cfg.AuthMethod {
	case ingest.AuthMethodStandard, ingest.AuthMethodCertificate:
		return NewStandardConnector(cfg, logger), nil
	case ingest.AuthMethodAWSIAM:
		provider, err := NewAWSIAMTokenProvider(fmt.Sprintf("%s:%d", cfg.Host, cfg.Port), cfg.AWSRegion, cfg.Username)
		if err != nil {
			return nil, err
		}
		return NewTokenConnector(cfg, provider, logger), nil
	case ingest.AuthMethodAzureEntraID:
		provider, err := newAzureProvider(cfg)
		if err != nil {
			return nil, err
		}
		return NewTokenConnector(cfg, provider, logger), nil
	case ingest.AuthMethodGoogleIAM:
		return NewCloudSQLConnector(cfg, logger)
	default:
		return nil, fmt.Errorf("auth method %v: %w", cfg.AuthMethod, ingest.ErrUnsupportedAuthMethod)
	}
}

// StandardConnector authenticates with a password (or .pgpass) and,
// when sslcert/sslkey are configured, a client certificate.
type StandardConnector struct {
	config  *ingest.ConnectionConfig
	logger  ingest.Logger
	retrier *retry.Retrier
}

// NewStandardConnector creates a connector that retries transient failures
// with the defaults from pkg/ingest.
func NewStandardConnector(cfg *ingest.ConnectionConfig, logger ingest.Logger) *StandardConnector {
	return &StandardConnector{
		config:  cfg,
		logger:  logger,
		retrier: newRetrier(logger),
	}
}

// Connect opens and pings a pool.
func (c *StandardConnector) Connect(ctx context.Context) (*pgxpool.Pool, error) {
	var pool *pgxpool.Pool
	err := c.retrier.Do(ctx, "connect to "+describe(c.config), func(ctx context.Context) error {
		var err error
		pool, err = openPool(ctx, BuildConnectionString(c.config), c.logger)
		return err
	})
	if err != nil {
		return nil, wrapConnectionError(err, c.config)
	}
	return pool, nil
}

func newRetrier(logger ingest.Logger) *retry.Retrier {
	return retry.New(
		retry.NewPgClassifier(),
		retry.NewBackoff(ingest.DefaultRetryMaxAttempts,
			retry.WithInitialDelay(ingest.DefaultRetryInitialDelay),
			retry.WithMaxDelay(ingest.DefaultRetryMaxDelay),
		),
		logger,
	)
}

// poolConfig parses connStr and applies the run's pool sizing. Server
// notices (for example from CREATE SCHEMA IF NOT EXISTS) go to the verbose log.
func poolConfig(connStr string, logger ingest.Logger) (*pgxpool.Config, error) {
	pc, err := pgxpool.ParseConfig(connStr)
	if err != nil {
		return nil, fmt.Errorf("parse connection config: %v: %w", err, ingest.ErrInvalidConfig)
	}
	pc.MaxConns = DefaultMaxConns
	pc.MinConns = DefaultMinConns
	pc.MaxConnIdleTime = DefaultMaxConnIdleTime
	pc.ConnConfig.OnNotice = func(_ *pgconn.PgConn, n *pgconn.Notice) {
		logger.Verbose("postgres %s: %s", n.Severity, n.Message)
	}
	return pc, nil
}

func openPool(ctx context.Context, connStr string, logger ingest.Logger) (*pgxpool.Pool, error) {
	pc, err := poolConfig(connStr, logger)
	if err != nil {
		return nil, err
	}
	return openPoolWithConfig(ctx, pc)
}

func openPoolWithConfig(ctx context.Context, pc *pgxpool.Config) (*pgxpool.Pool, error) {
	pool, err := pgxpool.NewWithConfig(ctx, pc)
	if err != nil {
		return nil, err
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	return pool, nil
}

// describe renders cfg for logs without secrets.
func describe(cfg *ingest.ConnectionConfig) string {
	if cfg.AuthMethod == ingest.AuthMethodGoogleIAM {
		return fmt.Sprintf("%s/%s", cfg.GoogleInstance, cfg.Database)
	}
	return fmt.Sprintf("%s:%d/%s", cfg.Host, cfg.Port, cfg.Database)
}
