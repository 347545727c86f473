package services

import (
	"context"
	"fmt"
	"io"
	"maps"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/vvka-141/ingest/internal/db"
	"github.com/vvka-141/ingest/pkg/ingest"
)

// SessionManager opens the two database resources of a run.
//
// SessionManager is thread-safe for concurrent use as long as the injected
// connectorFactory and logger are also thread-safe.
type SessionManager struct {
	connectorFactory db.ConnectorFactory
	logger           ingest.Logger
}

// NewSessionManager creates a new SessionManager with all dependencies injected.
//
// Panics if any dependency is nil. Panics indicate programmer error
// (incorrect dependency injection setup).
func NewSessionManager(connectorFactory db.ConnectorFactory, logger ingest.Logger) *SessionManager {
	if connectorFactory == nil {
		panic("connectorFactory cannot be nil")
	}
	if logger == nil {
		panic("logger cannot be nil")
	}

	return &SessionManager{
		connectorFactory: connectorFactory,
		logger:           logger,
	}
}

// PrepareSession connects to the metadata store and the destination store.
//
// When both configurations target the same database the session shares
// one pool. On error every resource acquired so far is released.
//
// The caller is responsible for closing the session: defer session.Close()
func (sm *SessionManager) PrepareSession(
	ctx context.Context,
	metadata, destination *ingest.ConnectionConfig,
) (*ingest.StoreSession, error) {
	if metadata == nil || destination == nil {
		return nil, fmt.Errorf("both metadata and destination connections are required: %w", ingest.ErrInvalidConfig)
	}

	var closers []io.Closer
	release := func() {
		for _, c := range closers {
			_ = c.Close()
		}
	}

	metaPool, err := sm.connectToDatabase(ctx, "metadata", metadata, &closers)
	if err != nil {
		release()
		return nil, fmt.Errorf("metadata store connection failed: %w", err)
	}

	if sameTarget(metadata, destination) {
		sm.logger.Verbose("Metadata and destination share database '%s'", destination.Database)
		return ingest.NewStoreSession(metaPool, metaPool, closers...), nil
	}

	destPool, err := sm.connectToDatabase(ctx, "destination", destination, &closers)
	if err != nil {
		metaPool.Close()
		release()
		return nil, fmt.Errorf("destination store connection failed: %w", err)
	}

	return ingest.NewStoreSession(metaPool, destPool, closers...), nil
}

// connectToDatabase establishes one pool. A connector that holds its own
// resources is appended to closers.
func (sm *SessionManager) connectToDatabase(
	ctx context.Context,
	role string,
	connConfig *ingest.ConnectionConfig,
	closers *[]io.Closer,
) (*pgxpool.Pool, error) {
	sm.logger.Verbose("Connecting to %s database '%s'", role, connConfig.Database)

	connector, err := sm.connectorFactory(connConfig, sm.logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create connector: %w", err)
	}
	if c, ok := connector.(io.Closer); ok {
		*closers = append(*closers, c)
	}

	pool, err := connector.Connect(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database %q: %w", connConfig.Database, err)
	}

	return pool, nil
}

// sameTarget reports whether a and b reach the same database as the same
// role with the same credentials and TLS settings. Only then may both stores
// share one pool.
func sameTarget(a, b *ingest.ConnectionConfig) bool {
	if a == b {
		return true
	}
	return a.Host == b.Host &&
		a.Port == b.Port &&
		a.Database == b.Database &&
		a.Username == b.Username &&
		a.Password == b.Password &&
		a.SSLMode == b.SSLMode &&
		a.SSLCert == b.SSLCert &&
		a.SSLKey == b.SSLKey &&
		a.SSLRootCert == b.SSLRootCert &&
		a.AuthMethod == b.AuthMethod &&
		a.AzureTenantID == b.AzureTenantID &&
		a.AzureClientID == b.AzureClientID &&
		a.AzureClientSecret == b.AzureClientSecret &&
		a.AWSRegion == b.AWSRegion &&
		a.GoogleInstance == b.GoogleInstance &&
		maps.Equal(a.AdditionalParams, b.AdditionalParams)
}
