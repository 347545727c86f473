// Package retry re-runs operations that fail with transient PostgreSQL or
// network errors, waiting an exponential backoff between attempts.
//
// An ingestion run never retries its own stages; retry is used only to
// establish the metadata and destination connections.
//
//	r := retry.New(retry.NewPgClassifier(), retry.NewBackoff(3), logger)
//	err := r.Do(ctx, "connect metadata store", func(ctx context.Context) error {
//	    return ping(ctx)
//	})
package retry
