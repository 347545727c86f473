package metadata

import (
	"fmt"
	"slices"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/vvka-141/ingest/pkg/ingest"
)

// Topic is the top-level metadata document: a named mapping from table
// name to Table.
type Topic struct {
	Name        string            `toml:"name" yaml:"name" validate:"required"`
	Description string            `toml:"description" yaml:"description"`
	Tables      map[string]*Table `toml:"tables" yaml:"tables" validate:"required,min=1"`

	// source is the path the document was read from, for error messages.
	source string
}

// Table describes one logical dataset.
type Table struct {
	Name        string              `toml:"name" yaml:"name" validate:"required"`
	Description string              `toml:"description" yaml:"description" validate:"required"`
	Schema      string              `toml:"schema" yaml:"schema"`
	Variables   []*Variable         `toml:"variables" yaml:"variables" validate:"required,min=1,dive,required"`
	Editions    map[string]*Edition `toml:"editions" yaml:"editions"`
}

// Variable describes one column. DataType is back-filled from the schema
// during auditing; a hand-entered value is overwritten.
type Variable struct {
	Name        string `toml:"name" yaml:"name" validate:"required"`
	DataType    string `toml:"data_type" yaml:"data_type" validate:"omitempty,oneof=text integer float decimal boolean date"`
	Description string `toml:"description" yaml:"description"`
}

// Edition is one versioned instance of a table's data.
//
// Version, ScriptPath, NumRecords, RawChecksum, RunID and RecordedAt are set
// by the pipeline during a run and are not expected in the document.
type Edition struct {
	Date      string   `toml:"date" yaml:"date" validate:"required"`
	RawPath   string   `toml:"raw_path" yaml:"raw_path" validate:"required"`
	Variables []string `toml:"variables" yaml:"variables" validate:"required,min=1,dive,required"`

	Version     string    `toml:"version,omitempty" yaml:"version,omitempty" validate:"required"`
	ScriptPath  string    `toml:"script_path,omitempty" yaml:"script_path,omitempty" validate:"required"`
	NumRecords  int       `toml:"num_records,omitempty" yaml:"num_records,omitempty" validate:"gte=0"`
	RawChecksum string    `toml:"raw_checksum,omitempty" yaml:"raw_checksum,omitempty"`
	RunID       uuid.UUID `toml:"-" yaml:"-"`
	RecordedAt  time.Time `toml:"-" yaml:"-"`
}

// Source returns the path the document was loaded from.
func (t *Topic) Source() string { return t.source }

// TableNames returns the declared table names in sorted order.
func (t *Topic) TableNames() []string {
	names := make([]string, 0, len(t.Tables))
	for name := range t.Tables {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Table returns the named table entry.
func (t *Topic) Table(name string) (*Table, error) {
	table, ok := t.Tables[name]
	if !ok || table == nil {
		return nil, fmt.Errorf("table %q is not declared in metadata document %s: %w", name, t.source, ingest.ErrInvalidMetadata)
	}
	return table, nil
}

// Edition returns the edition entry for date.
func (t *Table) Edition(date string) (*Edition, error) {
	edition, ok := t.Editions[date]
	if !ok || edition == nil {
		return nil, fmt.Errorf("edition %q of table %q: %w", date, t.Name, ingest.ErrEditionNotFound)
	}
	return edition, nil
}

// EditionDates returns the declared edition dates, newest first.
func (t *Table) EditionDates() []string {
	dates := make([]string, 0, len(t.Editions))
	for d := range t.Editions {
		dates = append(dates, d)
	}
	sort.Sort(sort.Reverse(sort.StringSlice(dates)))
	return dates
}

// Variable returns the named variable, or nil.
func (t *Table) Variable(name string) *Variable {
	for _, v := range t.Variables {
		if v != nil && v.Name == name {
			return v
		}
	}
	return nil
}

// VariableNames returns the declared variable names in declaration order.
func (t *Table) VariableNames() []string {
	names := make([]string, 0, len(t.Variables))
	for _, v := range t.Variables {
		if v != nil {
			names = append(names, v.Name)
		}
	}
	return names
}

// HasVariable reports whether name is declared on the table.
func (t *Table) HasVariable(name string) bool {
	return slices.Contains(t.VariableNames(), name)
}
