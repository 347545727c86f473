package provenance

import (
	"context"
	"fmt"
	"path/filepath"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/vvka-141/ingest/internal/metadata"
	"github.com/vvka-141/ingest/pkg/ingest"
)

// RecordRequest carries everything needed to audit one edition.
type RecordRequest struct {
	Schema      ingest.SchemaValidator
	ScriptPath  string
	TableName   string
	Topic       *metadata.Topic
	EditionDate string
	Data        *ingest.ValidatedTable

	// SchemaName is the destination schema stamped on the table record.
	// Defaults to the table's schema in the document.
	SchemaName string

	// RawPath and RawChecksum describe the raw file actually loaded
	RawPath     string
	RawChecksum string
}

// Auditor validates and enriches metadata, then commits it.
// Safe for concurrent use if its store and resolver are.
type Auditor struct {
	store    ingest.MetadataStore
	resolver ingest.VersionResolver
	logger   ingest.Logger

	now   func() time.Time
	newID func() uuid.UUID
}

// NewAuditor creates an auditor. Panics if any dependency is nil.
func NewAuditor(store ingest.MetadataStore, resolver ingest.VersionResolver, logger ingest.Logger) *Auditor {
	if store == nil {
		panic("metadata store cannot be nil")
	}
	if resolver == nil {
		panic("version resolver cannot be nil")
	}
	if logger == nil {
		panic("logger cannot be nil")
	}
	return &Auditor{
		store:    store,
		resolver: resolver,
		logger:   logger,
		now:      func() time.Time { return time.Now().UTC() },
		newID:    uuid.New,
	}
}

// Record audits the requested edition and commits its provenance record.
// The target edition in req.Topic is mutated in place. On any error
// nothing has been written to the store.
func (a *Auditor) Record(ctx context.Context, req RecordRequest) (*ingest.EditionRecord, error) {
	if err := req.validate(); err != nil {
		return nil, err
	}

	table, err := req.Topic.Table(req.TableName)
	if err != nil {
		return nil, err
	}

	if err := backfillTypes(table, req.Schema.FieldTypes()); err != nil {
		return nil, err
	}
	a.logger.Verbose("Back-filled %d variable types for %s from schema %s", len(table.Variables), table.Name, req.Schema.Name())

	if err := metadata.ValidateTopic(req.Topic); err != nil {
		return nil, err
	}
	if err := metadata.ValidateTable(req.Topic, table); err != nil {
		return nil, err
	}

	edition, err := table.Edition(req.EditionDate)
	if err != nil {
		return nil, err
	}
	if err := a.enrich(req, table, edition); err != nil {
		return nil, err
	}
	if err := metadata.ValidateEdition(req.Topic, edition); err != nil {
		return nil, err
	}

	rec := buildRecord(req, table, edition)
	if err := a.store.RecordEdition(ctx, rec); err != nil {
		return nil, fmt.Errorf("failed to record edition %s of %s: %w", edition.Date, table.Name, err)
	}
	a.logger.Verbose("Recorded edition %s of %s (version %s, %d records, run %s)",
		edition.Date, table.Name, edition.Version, edition.NumRecords, edition.RunID)
	return &rec, nil
}

func (req RecordRequest) validate() error {
	switch {
	case req.Schema == nil:
		return fmt.Errorf("record request has no schema: %w", ingest.ErrInvalidConfig)
	case req.Topic == nil:
		return fmt.Errorf("record request has no metadata document: %w", ingest.ErrInvalidConfig)
	case req.Data == nil:
		return fmt.Errorf("record request has no validated data: %w", ingest.ErrInvalidConfig)
	case req.TableName == "" || req.EditionDate == "":
		return fmt.Errorf("record request needs a table name and edition date: %w", ingest.ErrInvalidConfig)
	}
	return nil
}

// backfillTypes sets every variable's data type from the schema.
func backfillTypes(table *metadata.Table, fieldTypes map[string]ingest.FieldType) error {
	for _, v := range table.Variables {
		if v == nil {
			continue
		}
		ft, ok := fieldTypes[v.Name]
		if !ok {
			return &DriftError{Table: table.Name, Variable: v.Name, Known: sortedKeys(fieldTypes)}
		}
		v.DataType = string(ft)
	}
	return nil
}

// enrich attaches the run-derived facts to the edition.
func (a *Auditor) enrich(req RecordRequest, table *metadata.Table, edition *metadata.Edition) error {
	if len(edition.Variables) == 0 {
		edition.Variables = append([]string(nil), req.Data.Table().Columns...)
	}
	for _, name := range edition.Variables {
		if !table.HasVariable(name) {
			return &DriftError{Table: table.Name, Edition: edition.Date, Variable: name, Known: table.VariableNames()}
		}
	}

	scriptPath := req.ScriptPath
	if abs, err := filepath.Abs(scriptPath); err == nil && scriptPath != "" {
		scriptPath = abs
	}

	if req.RawPath != "" {
		edition.RawPath = req.RawPath
	}
	if req.RawChecksum != "" {
		edition.RawChecksum = req.RawChecksum
	}
	edition.Version = a.resolver.Resolve(req.ScriptPath)
	edition.ScriptPath = scriptPath
	edition.NumRecords = req.Data.Len()
	edition.RunID = a.newID()
	edition.RecordedAt = a.now()
	return nil
}

func buildRecord(req RecordRequest, table *metadata.Table, edition *metadata.Edition) ingest.EditionRecord {
	schemaName := req.SchemaName
	if schemaName == "" {
		schemaName = table.Schema
	}

	vars := make([]ingest.VariableRecord, 0, len(table.Variables))
	for _, v := range table.Variables {
		if v == nil {
			continue
		}
		vars = append(vars, ingest.VariableRecord{
			Name:        v.Name,
			DataType:    ingest.FieldType(v.DataType),
			Description: v.Description,
		})
	}

	return ingest.EditionRecord{
		Topic:            req.Topic.Name,
		TopicDescription: req.Topic.Description,
		Table:            table.Name,
		TableDescription: table.Description,
		SchemaName:       schemaName,
		Variables:        vars,
		EditionDate:      edition.Date,
		RawPath:          edition.RawPath,
		RawChecksum:      edition.RawChecksum,
		EditionVariables: append([]string(nil), edition.Variables...),
		Version:          edition.Version,
		ScriptPath:       edition.ScriptPath,
		NumRecords:       edition.NumRecords,
		RunID:            edition.RunID,
		RecordedAt:       edition.RecordedAt,
	}
}

func sortedKeys(m map[string]ingest.FieldType) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
