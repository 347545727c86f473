package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/vvka-141/ingest/pkg/ingest"
)

// DataStore implements ingest.DataStore on PostgreSQL.
type DataStore struct {
	pool   *pgxpool.Pool
	logger ingest.Logger
}

// NewDataStore panics if pool or logger is nil.
func NewDataStore(pool *pgxpool.Pool, logger ingest.Logger) *DataStore {
	if pool == nil {
		panic("pool cannot be nil")
	}
	if logger == nil {
		panic("logger cannot be nil")
	}
	return &DataStore{pool: pool, logger: logger}
}

// Write commits data to dest in one transaction. Replace drops and
// recreates the table; append creates it only when missing. Rows are
// loaded with COPY.
func (s *DataStore) Write(ctx context.Context, dest ingest.Destination, data *ingest.ValidatedTable, mode ingest.WriteMode) (int64, error) {
	if data == nil {
		return 0, fmt.Errorf("%w: no data for %s", ingest.ErrStoreCommit, dest)
	}
	if dest.Table == "" {
		return 0, fmt.Errorf("%w: destination table name is required", ingest.ErrStoreCommit)
	}
	if dest.Schema == "" {
		dest.Schema = ingest.DefaultDestinationSchema
	}

	target := pgx.Identifier{dest.Schema, dest.Table}
	table := data.Table()

	var ddl []string
	switch mode {
	case ingest.WriteReplace:
		create, err := createTableSQL(target, table.Columns, data.Types(), false)
		if err != nil {
			return 0, fmt.Errorf("%w: %w", ingest.ErrStoreCommit, err)
		}
		ddl = []string{"DROP TABLE IF EXISTS " + target.Sanitize(), create}
	case ingest.WriteAppend:
		create, err := createTableSQL(target, table.Columns, data.Types(), true)
		if err != nil {
			return 0, fmt.Errorf("%w: %w", ingest.ErrStoreCommit, err)
		}
		ddl = []string{create}
	default:
		return 0, fmt.Errorf("%w: write mode %v: %w", ingest.ErrStoreCommit, mode, errors.ErrUnsupported)
	}

	var written int64
	err := pgx.BeginFunc(ctx, s.pool, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, "CREATE SCHEMA IF NOT EXISTS "+pgx.Identifier{dest.Schema}.Sanitize()); err != nil {
			return err
		}
		for _, stmt := range ddl {
			s.logger.Verbose("%s", stmt)
			if _, err := tx.Exec(ctx, stmt); err != nil {
				return err
			}
		}
		n, err := tx.CopyFrom(ctx, target, table.Columns, newCopyRows(table.Rows))
		written = n
		return err
	})
	if err != nil {
		return 0, fmt.Errorf("%w: %s %s: %w", ingest.ErrStoreCommit, mode, dest, err)
	}
	return written, nil
}

var _ ingest.DataStore = (*DataStore)(nil)
