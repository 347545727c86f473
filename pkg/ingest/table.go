package ingest

import (
	"fmt"
	"slices"
)

// FieldType is the declared primitive type of a schema field.
// The string form is what gets recorded as a variable's data type.
type FieldType string

const (
	FieldText    FieldType = "text"
	FieldInteger FieldType = "integer"
	FieldFloat   FieldType = "float"
	FieldDecimal FieldType = "decimal"
	FieldBoolean FieldType = "boolean"
	FieldDate    FieldType = "date"
)

// IsValid returns true if the FieldType is one of the defined values.
func (f FieldType) IsValid() bool {
	switch f {
	case FieldText, FieldInteger, FieldFloat, FieldDecimal, FieldBoolean, FieldDate:
		return true
	default:
		return false
	}
}

// Table is an in-memory, row-major tabular dataset.
//
// A nil cell is a null. Before validation cells are usually strings as read
// from the source file; after coercion they hold the Go value of the
// declared field type (string, int64, float64, decimal.Decimal, bool, time.Time).
//
// Thread-Safety: NOT safe for concurrent mutation.
type Table struct {
	Columns []string
	Rows    [][]any
}

// NewTable creates a table with the given column names and no rows.
func NewTable(columns ...string) *Table {
	return &Table{Columns: slices.Clone(columns)}
}

// Len returns the number of rows.
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.Rows)
}

// ColumnIndex returns the position of the named column, or -1.
func (t *Table) ColumnIndex(name string) int {
	return slices.Index(t.Columns, name)
}

// Column returns a copy of the values of the named column.
func (t *Table) Column(name string) ([]any, error) {
	idx := t.ColumnIndex(name)
	if idx < 0 {
		return nil, fmt.Errorf("column %q not found", name)
	}
	out := make([]any, len(t.Rows))
	for i, row := range t.Rows {
		if idx < len(row) {
			out[i] = row[idx]
		}
	}
	return out, nil
}

// AppendRow adds a row. The row length must match the column count.
func (t *Table) AppendRow(values ...any) error {
	if len(values) != len(t.Columns) {
		return fmt.Errorf("row has %d values, table has %d columns", len(values), len(t.Columns))
	}
	t.Rows = append(t.Rows, values)
	return nil
}

// Rename renames columns according to mapping (old name -> new name).
// Names not present in the table are ignored.
func (t *Table) Rename(mapping map[string]string) *Table {
	for i, c := range t.Columns {
		if to, ok := mapping[c]; ok {
			t.Columns[i] = to
		}
	}
	return t
}

// Drop removes the named columns. Names not present in the table are ignored.
func (t *Table) Drop(names ...string) *Table {
	var keep []int
	var cols []string
	for i, c := range t.Columns {
		if !slices.Contains(names, c) {
			keep = append(keep, i)
			cols = append(cols, c)
		}
	}
	if len(keep) == len(t.Columns) {
		return t
	}
	for r, row := range t.Rows {
		next := make([]any, len(keep))
		for j, idx := range keep {
			if idx < len(row) {
				next[j] = row[idx]
			}
		}
		t.Rows[r] = next
	}
	t.Columns = cols
	return t
}

// Clone returns a deep copy of the table structure. Cell values are copied by value.
func (t *Table) Clone() *Table {
	out := &Table{
		Columns: slices.Clone(t.Columns),
		Rows:    make([][]any, len(t.Rows)),
	}
	for i, row := range t.Rows {
		out.Rows[i] = slices.Clone(row)
	}
	return out
}

// ValidatedTable is a table whose content has been checked and coerced
// against a schema. It is produced by a SchemaValidator and is the only
// form of data a DataStore accepts.
type ValidatedTable struct {
	table  *Table
	schema string
	types  []FieldType
}

// NewValidatedTable wraps a coerced table. types is aligned with t.Columns.
// Only validators should call this.
func NewValidatedTable(t *Table, schemaName string, types []FieldType) *ValidatedTable {
	return &ValidatedTable{table: t, schema: schemaName, types: slices.Clone(types)}
}

// Table returns the underlying coerced table.
func (v *ValidatedTable) Table() *Table { return v.table }

// SchemaName returns the name of the schema the table was validated against.
func (v *ValidatedTable) SchemaName() string { return v.schema }

// Types returns the declared field types aligned with the table columns.
func (v *ValidatedTable) Types() []FieldType { return slices.Clone(v.types) }

// Len returns the number of validated rows.
func (v *ValidatedTable) Len() int { return v.table.Len() }
