package provenance

import (
	"context"
	"sync"

	"github.com/vvka-141/ingest/pkg/ingest"
)

type mockMetadataStore struct {
	mu       sync.Mutex
	recorded []ingest.EditionRecord
	err      error
}

func (m *mockMetadataStore) RecordEdition(ctx context.Context, rec ingest.EditionRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.recorded = append(m.recorded, rec)
	return nil
}

func (m *mockMetadataStore) ListEditions(ctx context.Context, topic, table string) ([]ingest.EditionRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []ingest.EditionRecord
	for _, r := range m.recorded {
		if r.Topic == topic && r.Table == table {
			out = append(out, r)
		}
	}
	return out, m.err
}

type mockResolver struct {
	version string
	calls   []string
}

func (m *mockResolver) Resolve(scriptPath string) string {
	m.calls = append(m.calls, scriptPath)
	return m.version
}
