package services

import (
	"context"
	"fmt"
	"sync"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/vvka-141/ingest/pkg/ingest"
)

// journal records store side effects in the order they happen.
type journal struct {
	mu     sync.Mutex
	events []string
}

func (j *journal) add(format string, args ...interface{}) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.events = append(j.events, fmt.Sprintf(format, args...))
}

func (j *journal) list() []string {
	j.mu.Lock()
	defer j.mu.Unlock()
	return append([]string(nil), j.events...)
}

type mockMetadataStore struct {
	journal  *journal
	recorded []ingest.EditionRecord
	err      error
}

func (m *mockMetadataStore) RecordEdition(_ context.Context, rec ingest.EditionRecord) error {
	if m.err != nil {
		return m.err
	}
	m.recorded = append(m.recorded, rec)
	m.journal.add("metadata %s/%s", rec.Table, rec.EditionDate)
	return nil
}

func (m *mockMetadataStore) ListEditions(_ context.Context, topic, table string) ([]ingest.EditionRecord, error) {
	var out []ingest.EditionRecord
	for _, r := range m.recorded {
		if r.Topic == topic && r.Table == table {
			out = append(out, r)
		}
	}
	return out, m.err
}

type dataWrite struct {
	dest ingest.Destination
	data *ingest.ValidatedTable
	mode ingest.WriteMode
}

type mockDataStore struct {
	journal *journal
	writes  []dataWrite
	err     error
}

func (m *mockDataStore) Write(_ context.Context, dest ingest.Destination, data *ingest.ValidatedTable, mode ingest.WriteMode) (int64, error) {
	if m.err != nil {
		return 0, m.err
	}
	m.writes = append(m.writes, dataWrite{dest: dest, data: data, mode: mode})
	m.journal.add("data %s", dest)
	return int64(data.Len()), nil
}

type mockLogger struct {
	mu       sync.Mutex
	messages []string
	errors   []string
}

func (m *mockLogger) Verbose(format string, args ...interface{}) {}

func (m *mockLogger) Info(format string, args ...interface{}) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.messages = append(m.messages, fmt.Sprintf(format, args...))
}

func (m *mockLogger) Error(format string, args ...interface{}) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.errors = append(m.errors, fmt.Sprintf(format, args...))
}

type mockConnector struct {
	pool   *pgxpool.Pool
	err    error
	calls  int
	closed bool
}

func (m *mockConnector) Connect(_ context.Context) (*pgxpool.Pool, error) {
	m.calls++
	return m.pool, m.err
}

// closingConnector holds resources of its own, like the Cloud SQL dialer.
type closingConnector struct {
	mockConnector
}

func (c *closingConnector) Close() error {
	c.closed = true
	return nil
}
