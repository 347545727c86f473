package schema

import (
	"errors"
	"fmt"
	"slices"

	"github.com/vvka-141/ingest/pkg/ingest"
)

// Field declares the contract of one column.
type Field struct {
	Name        string
	Type        ingest.FieldType
	Nullable    bool
	Unique      bool
	Description string
	Checks      []Check
}

// Option configures a Schema.
type Option func(*Schema)

// NonStrict allows columns that are not declared. They pass through uncoerced as text.
func NonStrict() Option {
	return func(s *Schema) { s.strict = false }
}

// NoCoerce disables type coercion. Values must already hold the declared Go type.
func NoCoerce() Option {
	return func(s *Schema) { s.coerce = false }
}

// Schema is an ordered list of field specs. It implements ingest.SchemaValidator.
// A Schema is immutable after New and safe for concurrent use.
type Schema struct {
	name   string
	fields []Field
	strict bool
	coerce bool
}

var _ ingest.SchemaValidator = (*Schema)(nil)

// New creates a strict, coercing schema.
func New(name string, fields []Field, opts ...Option) *Schema {
	s := &Schema{
		name:   name,
		fields: slices.Clone(fields),
		strict: true,
		coerce: true,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Name returns the schema name.
func (s *Schema) Name() string { return s.name }

// Fields returns a copy of the declared fields, in declaration order.
func (s *Schema) Fields() []Field { return slices.Clone(s.fields) }

// Strict reports whether undeclared columns are rejected.
func (s *Schema) Strict() bool { return s.strict }

// FieldTypes returns the declared type of every field.
func (s *Schema) FieldTypes() map[string]ingest.FieldType {
	out := make(map[string]ingest.FieldType, len(s.fields))
	for _, f := range s.fields {
		out[f.Name] = f.Type
	}
	return out
}

// Check verifies that the schema itself is well formed: non-empty name,
// unique field names, and known field types.
func (s *Schema) Check() error {
	var errs []error
	if s.name == "" {
		errs = append(errs, fmt.Errorf("schema name is required: %w", ingest.ErrInvalidConfig))
	}
	seen := make(map[string]bool, len(s.fields))
	for _, f := range s.fields {
		if f.Name == "" {
			errs = append(errs, fmt.Errorf("schema %q: field with empty name: %w", s.name, ingest.ErrInvalidConfig))
			continue
		}
		if seen[f.Name] {
			errs = append(errs, fmt.Errorf("schema %q: duplicate field %q: %w", s.name, f.Name, ingest.ErrInvalidConfig))
		}
		seen[f.Name] = true
		if !f.Type.IsValid() {
			errs = append(errs, fmt.Errorf("schema %q: field %q has unknown type %q: %w", s.name, f.Name, f.Type, ingest.ErrInvalidConfig))
		}
	}
	return errors.Join(errs...)
}

// Validate checks t against the schema and returns a coerced copy.
// The input table is never modified. On failure the returned error is a
// *ValidationError listing every violated rule.
func (s *Schema) Validate(t *ingest.Table) (*ingest.ValidatedTable, error) {
	if t == nil {
		return nil, fmt.Errorf("schema %q: nil table: %w", s.name, ingest.ErrValidationFailed)
	}

	if failures := s.checkColumns(t); len(failures) > 0 {
		return nil, &ValidationError{Schema: s.name, Failures: failures}
	}

	columns, types := s.outputLayout(t)
	out := &ingest.Table{Columns: columns, Rows: make([][]any, len(t.Rows))}
	for i := range out.Rows {
		out.Rows[i] = make([]any, len(columns))
	}

	var failures []Failure
	for j, name := range columns {
		raw, err := t.Column(name)
		if err != nil {
			return nil, fmt.Errorf("schema %q: %w", s.name, err)
		}

		field, declared := s.field(name)
		if !declared {
			for i, v := range raw {
				out.Rows[i][j] = v
			}
			continue
		}

		values, fieldFailures := s.validateField(field, raw)
		failures = append(failures, fieldFailures...)
		for i, v := range values {
			out.Rows[i][j] = v
		}
	}

	if len(failures) > 0 {
		return nil, &ValidationError{Schema: s.name, Failures: failures}
	}
	return ingest.NewValidatedTable(out, s.name, types), nil
}

// checkColumns reports missing, duplicate and (in strict mode) undeclared columns.
func (s *Schema) checkColumns(t *ingest.Table) []Failure {
	var failures []Failure

	counts := make(map[string]int, len(t.Columns))
	for _, c := range t.Columns {
		counts[c]++
	}
	for _, c := range t.Columns {
		if counts[c] > 1 {
			failures = append(failures, Failure{Field: c, Rule: RuleDuplicateCol, Detail: fmt.Sprintf("appears %d times", counts[c])})
			counts[c] = 0
		}
	}

	for _, f := range s.fields {
		if _, ok := counts[f.Name]; !ok {
			failures = append(failures, Failure{Field: f.Name, Rule: RuleColumnPresent, Detail: "column missing from table"})
		}
	}

	if s.strict {
		for _, c := range t.Columns {
			if _, declared := s.field(c); !declared {
				failures = append(failures, Failure{Field: c, Rule: RuleStrict, Detail: "column not declared in schema"})
			}
		}
	}
	return failures
}

// outputLayout returns declared fields in declaration order followed by any
// undeclared pass-through columns.
func (s *Schema) outputLayout(t *ingest.Table) ([]string, []ingest.FieldType) {
	columns := make([]string, 0, len(t.Columns))
	types := make([]ingest.FieldType, 0, len(t.Columns))
	for _, f := range s.fields {
		columns = append(columns, f.Name)
		types = append(types, f.Type)
	}
	for _, c := range t.Columns {
		if _, declared := s.field(c); !declared {
			columns = append(columns, c)
			types = append(types, ingest.FieldText)
		}
	}
	return columns, types
}

func (s *Schema) validateField(f Field, raw []any) ([]any, []Failure) {
	var failures []Failure
	values := make([]any, len(raw))

	var badRows []int
	for i, v := range raw {
		if v == nil {
			continue
		}
		if s.coerce {
			cv, err := coerce(f.Type, v)
			if err != nil {
				badRows = append(badRows, i)
				continue
			}
			values[i] = cv
		} else {
			if !hasType(f.Type, v) {
				badRows = append(badRows, i)
				continue
			}
			values[i] = v
		}
	}
	if len(badRows) > 0 {
		rule := RuleDType
		if s.coerce {
			rule = RuleCoerce
		}
		failures = append(failures, Failure{
			Field:   f.Name,
			Rule:    rule,
			Rows:    badRows,
			Samples: sampleValues(raw, badRows),
			Detail:  fmt.Sprintf("expected %s", f.Type),
		})
	}

	if !f.Nullable {
		var nullRows []int
		for i, v := range raw {
			if v == nil {
				nullRows = append(nullRows, i)
			}
		}
		if len(nullRows) > 0 {
			failures = append(failures, Failure{Field: f.Name, Rule: RuleNullable, Rows: nullRows})
		}
	}

	// Uniqueness and checks are meaningful only on a fully coerced column.
	if len(badRows) > 0 {
		return values, failures
	}

	if f.Unique {
		if dupRows := duplicates(values); len(dupRows) > 0 {
			failures = append(failures, Failure{
				Field:   f.Name,
				Rule:    RuleUnique,
				Rows:    dupRows,
				Samples: sampleValues(values, dupRows),
			})
		}
	}

	for _, c := range f.Checks {
		if failure, ok := c.run(f.Name, values); !ok {
			failures = append(failures, failure)
		}
	}
	return values, failures
}

func (s *Schema) field(name string) (Field, bool) {
	for _, f := range s.fields {
		if f.Name == name {
			return f, true
		}
	}
	return Field{}, false
}

// duplicates returns the rows whose non-null value already appeared earlier.
func duplicates(values []any) []int {
	seen := make(map[string]struct{}, len(values))
	var rows []int
	for i, v := range values {
		if v == nil {
			continue
		}
		key := keyOf(v)
		if _, ok := seen[key]; ok {
			rows = append(rows, i)
			continue
		}
		seen[key] = struct{}{}
	}
	return rows
}
