package db

import (
	"context"
	"fmt"
	"net"

	"cloud.google.com/go/cloudsqlconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/vvka-141/ingest/pkg/ingest"
)

// CloudSQLConnector connects to Google Cloud SQL with IAM database
// authentication through the Cloud SQL Go connector.
//
// The dialer outlives Connect: call Close after the pool is closed.
type CloudSQLConnector struct {
	config *ingest.ConnectionConfig
	logger ingest.Logger
	dialer *cloudsqlconn.Dialer
}

// NewCloudSQLConnector validates cfg for Cloud SQL IAM authentication.
func NewCloudSQLConnector(cfg *ingest.ConnectionConfig, logger ingest.Logger) (*CloudSQLConnector, error) {
	if cfg.GoogleInstance == "" {
		return nil, fmt.Errorf("Cloud SQL IAM auth requires google_instance (project:region:instance): %w", ingest.ErrInvalidConfig)
	}
	if cfg.Username == "" {
		return nil, fmt.Errorf("Cloud SQL IAM auth requires a database username: %w", ingest.ErrInvalidConfig)
	}
	return &CloudSQLConnector{config: cfg, logger: logger}, nil
}

// Connect opens a pool whose connections are dialled by the Cloud SQL connector.
func (c *CloudSQLConnector) Connect(ctx context.Context) (*pgxpool.Pool, error) {
	dialer, err := cloudsqlconn.NewDialer(ctx, cloudsqlconn.WithIAMAuthN())
	if err != nil {
		return nil, fmt.Errorf("%w: create Cloud SQL dialer: %w", ingest.ErrConnectionFailed, err)
	}

	dsn := fmt.Sprintf("user=%s dbname=%s sslmode=disable", c.config.Username, c.config.Database)
	pc, err := poolConfig(dsn, c.logger)
	if err != nil {
		dialer.Close()
		return nil, err
	}
	instance := c.config.GoogleInstance
	pc.ConnConfig.DialFunc = func(ctx context.Context, _, _ string) (net.Conn, error) {
		return dialer.Dial(ctx, instance)
	}

	pool, err := openPoolWithConfig(ctx, pc)
	if err != nil {
		dialer.Close()
		return nil, wrapConnectionError(err, c.config)
	}
	c.dialer = dialer
	return pool, nil
}

// Close releases the dialer.
func (c *CloudSQLConnector) Close() error {
	if c.dialer != nil {
		err := c.dialer.Close()
		c.dialer = nil
		return err
	}
	return nil
}
