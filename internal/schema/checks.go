package schema

import (
	"fmt"
	"regexp"
	"slices"
	"strings"
	"unicode/utf8"

	"github.com/shopspring/decimal"
)

// Check is a named predicate over one coerced column.
//
// A check is either column-wise (Column set) or element-wise (Element set).
// Element-wise checks skip nulls and report the offending rows.
type Check struct {
	Name    string
	Column  func(values []any) bool
	Element func(v any) bool

	// Detail optionally explains a column-wise failure.
	Detail func(values []any) string
}

func (c Check) run(field string, values []any) (Failure, bool) {
	name := c.Name
	if name == "" {
		name = "check"
	}

	if c.Element != nil {
		var rows []int
		for i, v := range values {
			if v != nil && !c.Element(v) {
				rows = append(rows, i)
			}
		}
		if len(rows) == 0 {
			return Failure{}, true
		}
		return Failure{Field: field, Rule: name, Rows: rows, Samples: sampleValues(values, rows)}, false
	}

	if c.Column == nil || c.Column(values) {
		return Failure{}, true
	}
	f := Failure{Field: field, Rule: name}
	if c.Detail != nil {
		f.Detail = c.Detail(values)
	}
	return f, false
}

// NewCheck builds a column-wise check from a predicate.
func NewCheck(name string, fn func(values []any) bool) Check {
	return Check{Name: name, Column: fn}
}

// NewElementCheck builds an element-wise check from a predicate.
func NewElementCheck(name string, fn func(v any) bool) Check {
	return Check{Name: name, Element: fn}
}

// MaxNulls passes when the column holds fewer than n nulls.
func MaxNulls(n int) Check {
	return Check{
		Name: "max_nulls",
		Column: func(values []any) bool {
			return countNulls(values) < n
		},
		Detail: func(values []any) string {
			return fmt.Sprintf("%d nulls, limit is fewer than %d", countNulls(values), n)
		},
	}
}

// ExactLength passes when every non-null value renders to exactly k characters.
func ExactLength(k int) Check {
	return Check{
		Name: fmt.Sprintf("exact_length(%d)", k),
		Element: func(v any) bool {
			return utf8.RuneCountInString(fmt.Sprint(v)) == k
		},
	}
}

// LengthBetween passes when every non-null value renders to lo..hi characters.
func LengthBetween(lo, hi int) Check {
	return Check{
		Name: fmt.Sprintf("length_between(%d,%d)", lo, hi),
		Element: func(v any) bool {
			n := utf8.RuneCountInString(fmt.Sprint(v))
			return n >= lo && n <= hi
		},
	}
}

// MatchesPattern passes when every non-null value matches re.
func MatchesPattern(re *regexp.Regexp) Check {
	return Check{
		Name: fmt.Sprintf("matches(%s)", re.String()),
		Element: func(v any) bool {
			return re.MatchString(fmt.Sprint(v))
		},
	}
}

// InRange passes when every non-null numeric value lies within [lo, hi].
func InRange(lo, hi float64) Check {
	return Check{
		Name: fmt.Sprintf("in_range(%g,%g)", lo, hi),
		Element: func(v any) bool {
			f, ok := numeric(v)
			return ok && f >= lo && f <= hi
		},
	}
}

// OneOf passes when every non-null value renders to one of allowed.
func OneOf(allowed ...string) Check {
	set := slices.Clone(allowed)
	return Check{
		Name: fmt.Sprintf("one_of(%s)", strings.Join(set, ",")),
		Element: func(v any) bool {
			return slices.Contains(set, fmt.Sprint(v))
		},
	}
}

func countNulls(values []any) int {
	n := 0
	for _, v := range values {
		if v == nil {
			n++
		}
	}
	return n
}

func numeric(v any) (float64, bool) {
	switch x := v.(type) {
	case int64:
		return float64(x), true
	case int:
		return float64(x), true
	case float64:
		return x, true
	case decimal.Decimal:
		f, _ := x.Float64()
		return f, true
	default:
		return 0, false
	}
}
