// Package schema is a data-driven table validator.
//
// A Schema is a list of Field specs. Each field declares a primitive type,
// nullability, uniqueness, and any number of named Checks, which are plain
// predicate functions over the column's values:
//
//	s := schema.New("naics_descriptions", []schema.Field{
//	    {Name: "code", Type: ingest.FieldText, Unique: true},
//	    {Name: "title", Type: ingest.FieldText},
//	    {Name: "description", Type: ingest.FieldText, Nullable: true,
//	        Checks: []schema.Check{schema.MaxNulls(200)}},
//	})
//	validated, err := s.Validate(table)
//
// # Validation rules
//
// Validate runs in strict mode by default: the table must contain exactly the
// declared columns. Every column is coerced to its declared type when the
// conversion is lossless; a value that cannot be converted is a failure, never
// a silent null. Uniqueness is enforced among non-null values. Checks run on
// the coerced column.
//
// All failures of one call are collected into a single *ValidationError so
// that an operator sees every problem at once. The error matches
// ingest.ErrValidationFailed with errors.Is.
//
// Validating an already validated table returns an equivalent table.
package schema
