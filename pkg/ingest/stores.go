package ingest

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// VariableRecord is one column description as persisted in the metadata store.
type VariableRecord struct {
	Name        string
	DataType    FieldType
	Description string
}

// EditionRecord is the provenance record of one edition, flattened together
// with the topic and table context needed to locate it.
type EditionRecord struct {
	Topic            string
	TopicDescription string

	Table            string
	TableDescription string
	SchemaName       string
	Variables        []VariableRecord

	EditionDate      string
	RawPath          string
	RawChecksum      string
	EditionVariables []string

	// Facts derived by the run itself
	Version    string
	ScriptPath string
	NumRecords int
	RunID      uuid.UUID
	RecordedAt time.Time
}

// MetadataStore persists provenance records.
// Implementations must write a record atomically: either the whole
// topic/table/variables/edition set is committed or nothing is.
type MetadataStore interface {
	// RecordEdition upserts the edition and its context in a single transaction.
	// Re-recording the same edition date replaces the previous record.
	RecordEdition(ctx context.Context, rec EditionRecord) error

	// ListEditions returns the recorded editions of a table, newest first.
	ListEditions(ctx context.Context, topic, table string) ([]EditionRecord, error)
}

// Destination names the table receiving validated data.
type Destination struct {
	Schema string
	Table  string
}

// String returns the schema-qualified name.
func (d Destination) String() string {
	if d.Schema == "" {
		return d.Table
	}
	return d.Schema + "." + d.Table
}

// DataStore receives validated tables.
type DataStore interface {
	// Write commits data to dest using mode in a single transaction.
	// Returns the number of rows written. Failures wrap ErrStoreCommit.
	Write(ctx context.Context, dest Destination, data *ValidatedTable, mode WriteMode) (int64, error)
}

// VersionResolver resolves the source-control revision of the code performing a load.
// Resolve never fails; it degrades to VersionUnknown or VersionUncommitted.
type VersionResolver interface {
	Resolve(scriptPath string) string
}

// FileLoader reads a raw source file into memory.
// Implementations must be safe for concurrent use by multiple goroutines.
type FileLoader interface {
	// Load reads path according to the declared file type.
	// Failures wrap ErrSourceIO.
	Load(path string, fileType FileType) (*Table, error)
}
