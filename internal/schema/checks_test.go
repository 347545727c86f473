package schema

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestChecks(t *testing.T) {
	tests := []struct {
		name   string
		check  Check
		values []any
		pass   bool
		rows   []int
	}{
		{"max_nulls under limit", MaxNulls(2), []any{nil, "a", "b"}, true, nil},
		{"max_nulls at limit", MaxNulls(2), []any{nil, nil, "b"}, false, nil},
		{"exact_length pass", ExactLength(6), []any{"111110", nil, "541511"}, true, nil},
		{"exact_length fail", ExactLength(6), []any{"111110", "11", "5415111"}, false, []int{1, 2}},
		{"length_between", LengthBetween(2, 6), []any{"11", "1"}, false, []int{1}},
		{"pattern pass", MatchesPattern(regexp.MustCompile(`^\d{2,6}$`)), []any{"11", "111110"}, true, nil},
		{"pattern fail", MatchesPattern(regexp.MustCompile(`^\d{2,6}$`)), []any{"11", "31-33"}, false, []int{1}},
		{"in_range pass", InRange(0, 10), []any{int64(0), 10.0, nil}, true, nil},
		{"in_range fail", InRange(0, 10), []any{int64(11), "x"}, false, []int{0, 1}},
		{"one_of pass", OneOf("a", "b"), []any{"a", "b", nil}, true, nil},
		{"one_of fail", OneOf("a", "b"), []any{"c"}, false, []int{0}},
		{"custom column check", NewCheck("non_empty", func(v []any) bool { return len(v) > 0 }), []any{}, false, nil},
		{"custom element check", NewElementCheck("positive", func(v any) bool { return v.(int64) > 0 }), []any{int64(1), int64(-1)}, false, []int{1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			failure, ok := tt.check.run("f", tt.values)
			assert.Equal(t, tt.pass, ok)
			if !tt.pass {
				assert.Equal(t, "f", failure.Field)
				assert.Equal(t, tt.check.Name, failure.Rule)
				assert.Equal(t, tt.rows, failure.Rows)
			}
		})
	}
}

func TestCheck_WithoutPredicatePasses(t *testing.T) {
	_, ok := Check{Name: "empty"}.run("f", []any{"a"})
	assert.True(t, ok)
}
