package schema

import (
	"fmt"
	"strings"

	"github.com/vvka-141/ingest/pkg/ingest"
)

// Rule names reported in failures that are not custom checks.
const (
	RuleColumnPresent = "column_present"
	RuleStrict        = "strict"
	RuleDuplicateCol  = "duplicate_column"
	RuleNullable      = "not_nullable"
	RuleUnique        = "unique"
	RuleCoerce        = "coerce"
	RuleDType         = "dtype"
)

// Failure describes one violated rule on one field.
type Failure struct {
	Field   string   // Column the rule applies to
	Rule    string   // Rule or check name
	Rows    []int    // Zero-based offending row indices (empty for column-level rules)
	Samples []string // Up to ingest.MaxFailureSamples offending values
	Detail  string   // Optional extra context
}

func (f Failure) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s: %s", f.Field, f.Rule)
	if f.Detail != "" {
		fmt.Fprintf(&b, " (%s)", f.Detail)
	}
	if len(f.Rows) > 0 {
		fmt.Fprintf(&b, " - %d row(s)", len(f.Rows))
		shown := f.Rows
		if len(shown) > ingest.MaxFailureSamples {
			shown = shown[:ingest.MaxFailureSamples]
		}
		fmt.Fprintf(&b, ", first at %v", shown)
	}
	if len(f.Samples) > 0 {
		fmt.Fprintf(&b, ", values %q", f.Samples)
	}
	return b.String()
}

// ValidationError carries every failure found by one Validate call.
type ValidationError struct {
	Schema   string
	Failures []Failure
}

// Error implements the error interface with one line per failure.
func (e *ValidationError) Error() string {
	var msg strings.Builder
	fmt.Fprintf(&msg, "schema %q: %d failure(s)", e.Schema, len(e.Failures))
	for i, f := range e.Failures {
		fmt.Fprintf(&msg, "\n  %d. %s", i+1, f)
	}
	return msg.String()
}

// Is makes the error match ingest.ErrValidationFailed.
func (e *ValidationError) Is(target error) bool {
	return target == ingest.ErrValidationFailed
}

// FailuresFor returns the failures reported for one field.
func (e *ValidationError) FailuresFor(field string) []Failure {
	var out []Failure
	for _, f := range e.Failures {
		if f.Field == field {
			out = append(out, f)
		}
	}
	return out
}

// HasRule reports whether any failure on field violated rule.
func (e *ValidationError) HasRule(field, rule string) bool {
	for _, f := range e.FailuresFor(field) {
		if f.Rule == rule {
			return true
		}
	}
	return false
}

func sampleValues(values []any, rows []int) []string {
	n := min(len(rows), ingest.MaxFailureSamples)
	out := make([]string, 0, n)
	for _, r := range rows[:n] {
		out = append(out, formatValue(values[r]))
	}
	return out
}

func formatValue(v any) string {
	if v == nil {
		return "<null>"
	}
	return fmt.Sprint(v)
}
