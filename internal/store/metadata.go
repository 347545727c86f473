package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/vvka-141/ingest/pkg/ingest"
)

// MetadataStore implements ingest.MetadataStore on PostgreSQL.
//
// Thread-Safety: safe for concurrent use (pgxpool.Pool is).
type MetadataStore struct {
	pool   *pgxpool.Pool
	schema string
	q      metadataQueries
}

type metadataQueries struct {
	upsertTopic     string
	upsertDataset   string
	deleteVariables string
	insertVariable  string
	upsertEdition   string
	listEditions    string
	listVariables   string
}

// NewMetadataStore creates a store writing to schema (DefaultMetadataSchema
// when empty). Panics if pool is nil.
func NewMetadataStore(pool *pgxpool.Pool, schema string) *MetadataStore {
	if pool == nil {
		panic("pool cannot be nil")
	}
	if schema == "" {
		schema = ingest.DefaultMetadataSchema
	}
	s := pgx.Identifier{schema}.Sanitize()

	return &MetadataStore{
		pool:   pool,
		schema: schema,
		q: metadataQueries{
			upsertTopic: fmt.Sprintf(`INSERT INTO %s.topic (name, description) VALUES ($1, $2)
ON CONFLICT (name) DO UPDATE SET description = EXCLUDED.description, updated_at = now()`, s),
			upsertDataset: fmt.Sprintf(`INSERT INTO %s.dataset (topic, name, description, schema_name) VALUES ($1, $2, $3, $4)
ON CONFLICT (topic, name) DO UPDATE SET description = EXCLUDED.description, schema_name = EXCLUDED.schema_name, updated_at = now()`, s),
			deleteVariables: fmt.Sprintf(`DELETE FROM %s.variable WHERE topic = $1 AND dataset = $2`, s),
			insertVariable: fmt.Sprintf(`INSERT INTO %s.variable (topic, dataset, name, position, data_type, description)
VALUES ($1, $2, $3, $4, $5, $6)`, s),
			upsertEdition: fmt.Sprintf(`INSERT INTO %s.edition
    (topic, dataset, edition_date, raw_path, raw_checksum, variables, version, script_path, num_records, run_id, recorded_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
ON CONFLICT (topic, dataset, edition_date) DO UPDATE SET
    raw_path = EXCLUDED.raw_path,
    raw_checksum = EXCLUDED.raw_checksum,
    variables = EXCLUDED.variables,
    version = EXCLUDED.version,
    script_path = EXCLUDED.script_path,
    num_records = EXCLUDED.num_records,
    run_id = EXCLUDED.run_id,
    recorded_at = EXCLUDED.recorded_at`, s),
			listEditions: fmt.Sprintf(`SELECT t.name, t.description, d.name, d.description, d.schema_name,
    e.edition_date, e.raw_path, e.raw_checksum, e.variables, e.version, e.script_path, e.num_records, e.run_id, e.recorded_at
FROM %[1]s.edition e
JOIN %[1]s.dataset d ON d.topic = e.topic AND d.name = e.dataset
JOIN %[1]s.topic t ON t.name = e.topic
WHERE e.topic = $1 AND e.dataset = $2
ORDER BY e.edition_date DESC`, s),
			listVariables: fmt.Sprintf(`SELECT name, data_type, description FROM %s.variable
WHERE topic = $1 AND dataset = $2 ORDER BY position`, s),
		},
	}
}

// Schema returns the PostgreSQL schema holding the provenance tables.
func (m *MetadataStore) Schema() string {
	return m.schema
}

// EnsureSchema creates the provenance schema and tables if missing.
func (m *MetadataStore) EnsureSchema(ctx context.Context) error {
	ddl := fmt.Sprintf(metadataDDL, pgx.Identifier{m.schema}.Sanitize())
	if _, err := m.pool.Exec(ctx, ddl); err != nil {
		return fmt.Errorf("%w: create provenance schema %q: %w", ingest.ErrStoreCommit, m.schema, err)
	}
	return nil
}

// DropSchema removes the provenance schema and every record in it.
func (m *MetadataStore) DropSchema(ctx context.Context) error {
	ddl := fmt.Sprintf("DROP SCHEMA IF EXISTS %s CASCADE", pgx.Identifier{m.schema}.Sanitize())
	if _, err := m.pool.Exec(ctx, ddl); err != nil {
		return fmt.Errorf("%w: drop provenance schema %q: %w", ingest.ErrStoreCommit, m.schema, err)
	}
	return nil
}

// RecordEdition upserts the topic, table, variables and edition of rec in
// one transaction.
func (m *MetadataStore) RecordEdition(ctx context.Context, rec ingest.EditionRecord) error {
	if err := checkRecord(rec); err != nil {
		return err
	}

	variables, err := json.Marshal(rec.EditionVariables)
	if err != nil {
		return fmt.Errorf("%w: encode edition variables: %w", ingest.ErrStoreCommit, err)
	}

	err = pgx.BeginFunc(ctx, m.pool, func(tx pgx.Tx) error {
		batch := &pgx.Batch{}
		batch.Queue(m.q.upsertTopic, rec.Topic, rec.TopicDescription)
		batch.Queue(m.q.upsertDataset, rec.Topic, rec.Table, rec.TableDescription, rec.SchemaName)
		batch.Queue(m.q.deleteVariables, rec.Topic, rec.Table)
		for i, v := range rec.Variables {
			batch.Queue(m.q.insertVariable, rec.Topic, rec.Table, v.Name, i, string(v.DataType), v.Description)
		}
		batch.Queue(m.q.upsertEdition,
			rec.Topic, rec.Table, rec.EditionDate, rec.RawPath, rec.RawChecksum, variables,
			rec.Version, rec.ScriptPath, int64(rec.NumRecords), rec.RunID, rec.RecordedAt)

		results := tx.SendBatch(ctx, batch)
		for i := 0; i < batch.Len(); i++ {
			if _, err := results.Exec(); err != nil {
				results.Close()
				return fmt.Errorf("statement %d: %w", i+1, err)
			}
		}
		return results.Close()
	})
	if err != nil {
		return fmt.Errorf("%w: record edition %s/%s@%s: %w", ingest.ErrStoreCommit, rec.Topic, rec.Table, rec.EditionDate, err)
	}
	return nil
}

func checkRecord(rec ingest.EditionRecord) error {
	var errs []error
	if rec.Topic == "" {
		errs = append(errs, errors.New("topic is required"))
	}
	if rec.Table == "" {
		errs = append(errs, errors.New("table is required"))
	}
	if rec.EditionDate == "" {
		errs = append(errs, errors.New("edition date is required"))
	}
	if rec.RunID == uuid.Nil {
		errs = append(errs, errors.New("run id is required"))
	}
	if len(errs) > 0 {
		return fmt.Errorf("%w: %w", ingest.ErrStoreCommit, errors.Join(errs...))
	}
	return nil
}

// ListEditions returns the recorded editions of topic/table, newest first.
func (m *MetadataStore) ListEditions(ctx context.Context, topic, table string) ([]ingest.EditionRecord, error) {
	variables, err := m.listVariables(ctx, topic, table)
	if err != nil {
		return nil, err
	}

	rows, err := m.pool.Query(ctx, m.q.listEditions, topic, table)
	if err != nil {
		return nil, fmt.Errorf("list editions of %s/%s: %w", topic, table, err)
	}

	records, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (ingest.EditionRecord, error) {
		var (
			rec        ingest.EditionRecord
			rawVars    []byte
			numRecords int64
			recordedAt time.Time
		)
		err := row.Scan(
			&rec.Topic, &rec.TopicDescription, &rec.Table, &rec.TableDescription, &rec.SchemaName,
			&rec.EditionDate, &rec.RawPath, &rec.RawChecksum, &rawVars, &rec.Version, &rec.ScriptPath,
			&numRecords, &rec.RunID, &recordedAt,
		)
		if err != nil {
			return rec, err
		}
		if err := json.Unmarshal(rawVars, &rec.EditionVariables); err != nil {
			return rec, fmt.Errorf("decode variables of edition %s: %w", rec.EditionDate, err)
		}
		rec.NumRecords = int(numRecords)
		rec.RecordedAt = recordedAt.UTC()
		rec.Variables = variables
		return rec, nil
	})
	if err != nil {
		return nil, fmt.Errorf("list editions of %s/%s: %w", topic, table, err)
	}
	return records, nil
}

func (m *MetadataStore) listVariables(ctx context.Context, topic, table string) ([]ingest.VariableRecord, error) {
	rows, err := m.pool.Query(ctx, m.q.listVariables, topic, table)
	if err != nil {
		return nil, fmt.Errorf("list variables of %s/%s: %w", topic, table, err)
	}
	vars, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (ingest.VariableRecord, error) {
		var v ingest.VariableRecord
		var dataType string
		err := row.Scan(&v.Name, &dataType, &v.Description)
		v.DataType = ingest.FieldType(dataType)
		return v, err
	})
	if err != nil {
		return nil, fmt.Errorf("list variables of %s/%s: %w", topic, table, err)
	}
	return vars, nil
}

var _ ingest.MetadataStore = (*MetadataStore)(nil)
