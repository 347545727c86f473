package schema

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vvka-141/ingest/pkg/ingest"
)

func naicsSchema() *Schema {
	return New("naics_descriptions", []Field{
		{Name: "code", Type: ingest.FieldText, Unique: true},
		{Name: "title", Type: ingest.FieldText},
		{Name: "description", Type: ingest.FieldText, Nullable: true, Checks: []Check{MaxNulls(200)}},
	})
}

// naicsRows builds n rows; the first nullDescriptions rows have no description.
func naicsRows(n, nullDescriptions int) *ingest.Table {
	t := ingest.NewTable("code", "title", "description")
	for i := 0; i < n; i++ {
		var desc any = fmt.Sprintf("Description of industry %d", i)
		if i < nullDescriptions {
			desc = nil
		}
		_ = t.AppendRow(fmt.Sprintf("%06d", 111110+i), fmt.Sprintf("Industry %d", i), desc)
	}
	return t
}

func TestValidate_NAICSDescriptions_Passes(t *testing.T) {
	validated, err := naicsSchema().Validate(naicsRows(300, 50))
	require.NoError(t, err)
	require.NotNil(t, validated)

	assert.Equal(t, 300, validated.Len())
	assert.Equal(t, "naics_descriptions", validated.SchemaName())
	assert.Equal(t, []ingest.FieldType{ingest.FieldText, ingest.FieldText, ingest.FieldText}, validated.Types())
}

func TestValidate_DuplicateCode_Fails(t *testing.T) {
	table := naicsRows(300, 0)
	table.Rows[299][0] = table.Rows[3][0]

	_, err := naicsSchema().Validate(table)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ingest.ErrValidationFailed))

	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
	failures := verr.FailuresFor("code")
	require.Len(t, failures, 1)
	assert.Equal(t, RuleUnique, failures[0].Rule)
	assert.Equal(t, []int{299}, failures[0].Rows)
	assert.Equal(t, []string{"111113"}, failures[0].Samples)
}

func TestValidate_TooManyNullDescriptions_Fails(t *testing.T) {
	_, err := naicsSchema().Validate(naicsRows(300, 200))

	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
	assert.True(t, verr.HasRule("description", "max_nulls"))
	assert.Contains(t, err.Error(), "200 nulls")
}

func TestValidate_CollectsAllFailures(t *testing.T) {
	table := naicsRows(10, 0)
	table.Rows[1][0] = table.Rows[0][0]
	table.Rows[2][1] = nil

	_, err := naicsSchema().Validate(table)

	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Len(t, verr.Failures, 2)
	assert.True(t, verr.HasRule("code", RuleUnique))
	assert.True(t, verr.HasRule("title", RuleNullable))
}

func TestValidate_StrictRejectsUndeclaredColumn(t *testing.T) {
	table := ingest.NewTable("code", "title", "description", "")
	require.NoError(t, table.AppendRow("111110", "Soybean Farming", nil, "0"))

	_, err := naicsSchema().Validate(table)

	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
	assert.True(t, verr.HasRule("", RuleStrict))
}

func TestValidate_NonStrictPassesExtraColumnThrough(t *testing.T) {
	s := New("loose", []Field{{Name: "a", Type: ingest.FieldInteger}}, NonStrict())
	table := ingest.NewTable("extra", "a")
	require.NoError(t, table.AppendRow("x", "7"))

	validated, err := s.Validate(table)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "extra"}, validated.Table().Columns)
	assert.Equal(t, []any{int64(7), "x"}, validated.Table().Rows[0])
}

func TestValidate_MissingColumn(t *testing.T) {
	table := ingest.NewTable("code", "title")
	require.NoError(t, table.AppendRow("111110", "Soybean Farming"))

	_, err := naicsSchema().Validate(table)

	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
	assert.True(t, verr.HasRule("description", RuleColumnPresent))
}

func TestValidate_DuplicateColumn(t *testing.T) {
	table := ingest.NewTable("code", "code", "title", "description")

	_, err := naicsSchema().Validate(table)

	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
	assert.True(t, verr.HasRule("code", RuleDuplicateCol))
}

func TestValidate_NilTable(t *testing.T) {
	_, err := naicsSchema().Validate(nil)
	assert.True(t, errors.Is(err, ingest.ErrValidationFailed))
}

func TestValidate_EmptyTablePasses(t *testing.T) {
	validated, err := naicsSchema().Validate(ingest.NewTable("code", "title", "description"))
	require.NoError(t, err)
	assert.Equal(t, 0, validated.Len())
}

func TestValidate_CoercionFailureIsReportedNotNulled(t *testing.T) {
	s := New("numbers", []Field{{Name: "n", Type: ingest.FieldInteger}})
	table := ingest.NewTable("n")
	require.NoError(t, table.AppendRow("1"))
	require.NoError(t, table.AppendRow("2.5"))
	require.NoError(t, table.AppendRow("abc"))

	_, err := s.Validate(table)

	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
	failures := verr.FailuresFor("n")
	require.Len(t, failures, 1)
	assert.Equal(t, RuleCoerce, failures[0].Rule)
	assert.Equal(t, []int{1, 2}, failures[0].Rows)
	assert.Equal(t, []string{"2.5", "abc"}, failures[0].Samples)
}

func TestValidate_NoCoerceRequiresExactTypes(t *testing.T) {
	s := New("numbers", []Field{{Name: "n", Type: ingest.FieldInteger}}, NoCoerce())
	table := ingest.NewTable("n")
	require.NoError(t, table.AppendRow(int64(1)))
	require.NoError(t, table.AppendRow("2"))

	_, err := s.Validate(table)

	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
	assert.True(t, verr.HasRule("n", RuleDType))
}

func TestValidate_DoesNotModifyInput(t *testing.T) {
	s := New("numbers", []Field{{Name: "n", Type: ingest.FieldInteger}})
	table := ingest.NewTable("n")
	require.NoError(t, table.AppendRow("42"))

	_, err := s.Validate(table)
	require.NoError(t, err)
	assert.Equal(t, "42", table.Rows[0][0])
}

func TestValidate_Idempotent(t *testing.T) {
	s := New("mixed", []Field{
		{Name: "id", Type: ingest.FieldInteger, Unique: true},
		{Name: "ratio", Type: ingest.FieldFloat},
		{Name: "amount", Type: ingest.FieldDecimal},
		{Name: "active", Type: ingest.FieldBoolean},
		{Name: "since", Type: ingest.FieldDate, Nullable: true},
	})
	table := ingest.NewTable("since", "active", "amount", "ratio", "id")
	require.NoError(t, table.AppendRow("2022-01-01", "yes", "10.50", "0.25", "1"))
	require.NoError(t, table.AppendRow(nil, "0", "3", "1e3", "2"))

	first, err := s.Validate(table)
	require.NoError(t, err)

	second, err := s.Validate(first.Table())
	require.NoError(t, err)

	assert.Equal(t, first.Table(), second.Table())
	assert.Equal(t, first.Types(), second.Types())

	row := first.Table().Rows[0]
	assert.Equal(t, int64(1), row[0])
	assert.Equal(t, 0.25, row[1])
	assert.True(t, decimal.RequireFromString("10.5").Equal(row[2].(decimal.Decimal)))
	assert.Equal(t, true, row[3])
	assert.Equal(t, time.Date(2022, 1, 1, 0, 0, 0, 0, time.UTC), row[4])
	assert.Nil(t, first.Table().Rows[1][4])
}

func TestValidate_UniqueIgnoresNulls(t *testing.T) {
	s := New("u", []Field{{Name: "k", Type: ingest.FieldText, Unique: true, Nullable: true}})
	table := ingest.NewTable("k")
	require.NoError(t, table.AppendRow(nil))
	require.NoError(t, table.AppendRow(nil))
	require.NoError(t, table.AppendRow("a"))

	_, err := s.Validate(table)
	assert.NoError(t, err)
}

func TestValidate_UniqueComparesCoercedValues(t *testing.T) {
	s := New("u", []Field{{Name: "k", Type: ingest.FieldInteger, Unique: true}})
	table := ingest.NewTable("k")
	require.NoError(t, table.AppendRow("7"))
	require.NoError(t, table.AppendRow(" 7 "))

	_, err := s.Validate(table)

	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
	assert.True(t, verr.HasRule("k", RuleUnique))
}

func TestFieldTypes(t *testing.T) {
	assert.Equal(t, map[string]ingest.FieldType{
		"code":        ingest.FieldText,
		"title":       ingest.FieldText,
		"description": ingest.FieldText,
	}, naicsSchema().FieldTypes())
}

func TestSchemaCheck(t *testing.T) {
	tests := []struct {
		name    string
		schema  *Schema
		wantErr bool
	}{
		{"valid", naicsSchema(), false},
		{"empty name", New("", nil), true},
		{"duplicate field", New("s", []Field{{Name: "a", Type: ingest.FieldText}, {Name: "a", Type: ingest.FieldText}}), true},
		{"unknown type", New("s", []Field{{Name: "a", Type: "geometry"}}), true},
		{"empty field name", New("s", []Field{{Type: ingest.FieldText}}), true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.schema.Check()
			if tt.wantErr {
				assert.True(t, errors.Is(err, ingest.ErrInvalidConfig))
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidationError_Message(t *testing.T) {
	err := &ValidationError{
		Schema: "naics",
		Failures: []Failure{
			{Field: "code", Rule: RuleUnique, Rows: []int{1, 2, 3, 4, 5, 6, 7}, Samples: []string{"a"}},
		},
	}
	msg := err.Error()
	assert.Contains(t, msg, `schema "naics": 1 failure(s)`)
	assert.Contains(t, msg, "code: unique - 7 row(s), first at [1 2 3 4 5]")
}
