package ingest

import (
	"context"
	"errors"
	"io"

	"github.com/jackc/pgx/v5/pgxpool"
)

// SessionPreparer abstracts session preparation for testability.
type SessionPreparer interface {
	PrepareSession(ctx context.Context, metadata, destination *ConnectionConfig) (*StoreSession, error)
}

// StoreSession encapsulates the two database resources of a run: the
// metadata store (provenance records) and the destination store (data).
//
// StoreSession manages the lifecycle of both pools and ensures proper
// cleanup through a single Close() method.
//
// Thread-Safety: NOT safe for concurrent use. One run owns one session.
//
// Lifecycle:
//  1. Created by SessionManager.PrepareSession()
//  2. Used to build the metadata and data stores for one run
//  3. Cleaned up via Close() (idempotent), on every exit path
//
// Example usage:
//
//	session, err := sessionManager.PrepareSession(ctx, metaCfg, destCfg)
//	if err != nil {
//	    return err
//	}
//	defer session.Close()
type StoreSession struct {
	metadata    *pgxpool.Pool
	destination *pgxpool.Pool

	// closers release connector resources (e.g. Cloud SQL dialers) after the pools
	closers []io.Closer
}

// NewStoreSession creates a new StoreSession instance.
// This is intended to be called by SessionManager, not by external code.
//
// Both pools may be the same pool when metadata and data share a database.
// closers are closed after the pools, in order.
//
// Panics if either pool is nil (programmer error - SessionManager
// should never create a StoreSession with nil resources).
func NewStoreSession(metadata, destination *pgxpool.Pool, closers ...io.Closer) *StoreSession {
	if metadata == nil {
		panic("metadata pool cannot be nil")
	}
	if destination == nil {
		panic("destination pool cannot be nil")
	}

	return &StoreSession{
		metadata:    metadata,
		destination: destination,
		closers:     closers,
	}
}

// MetadataPool returns the pool of the metadata store.
// The pool is valid until Close() is called.
func (s *StoreSession) MetadataPool() *pgxpool.Pool {
	return s.metadata
}

// DestinationPool returns the pool of the destination store.
// The pool is valid until Close() is called.
func (s *StoreSession) DestinationPool() *pgxpool.Pool {
	return s.destination
}

// Close releases all resources associated with the session.
// This method is idempotent and safe to call multiple times.
// After calling Close(), the StoreSession should not be used.
func (s *StoreSession) Close() error {
	if s.destination != nil {
		s.destination.Close()
		s.destination = nil
	}

	if s.metadata != nil {
		s.metadata.Close()
		s.metadata = nil
	}

	var errs []error
	for _, c := range s.closers {
		if err := c.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	s.closers = nil

	return errors.Join(errs...)
}
