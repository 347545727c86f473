package schema

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/vvka-141/ingest/pkg/ingest"
)

var errNotCoercible = errors.New("value not coercible")

// maxExactFloatInt is the largest integer a float64 represents exactly.
const maxExactFloatInt = 1 << 53

var dateLayouts = []string{
	"2006-01-02",
	"2006/01/02",
	"01/02/2006",
	"1/2/2006",
	"20060102",
	time.RFC3339,
	"2006-01-02 15:04:05",
}

// coerce converts v to the Go representation of t without losing information.
func coerce(t ingest.FieldType, v any) (any, error) {
	switch t {
	case ingest.FieldText:
		return toText(v)
	case ingest.FieldInteger:
		return toInteger(v)
	case ingest.FieldFloat:
		return toFloat(v)
	case ingest.FieldDecimal:
		return toDecimal(v)
	case ingest.FieldBoolean:
		return toBoolean(v)
	case ingest.FieldDate:
		return toDate(v)
	default:
		return nil, fmt.Errorf("unknown field type %q", t)
	}
}

// hasType reports whether v already holds the Go type of t.
func hasType(t ingest.FieldType, v any) bool {
	switch t {
	case ingest.FieldText:
		_, ok := v.(string)
		return ok
	case ingest.FieldInteger:
		_, ok := v.(int64)
		return ok
	case ingest.FieldFloat:
		_, ok := v.(float64)
		return ok
	case ingest.FieldDecimal:
		_, ok := v.(decimal.Decimal)
		return ok
	case ingest.FieldBoolean:
		_, ok := v.(bool)
		return ok
	case ingest.FieldDate:
		_, ok := v.(time.Time)
		return ok
	default:
		return false
	}
}

func toText(v any) (any, error) {
	switch x := v.(type) {
	case string:
		return x, nil
	case int:
		return strconv.Itoa(x), nil
	case int64:
		return strconv.FormatInt(x, 10), nil
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64), nil
	case decimal.Decimal:
		return x.String(), nil
	case bool:
		return strconv.FormatBool(x), nil
	case time.Time:
		return x.Format("2006-01-02"), nil
	default:
		return nil, errNotCoercible
	}
}

func toInteger(v any) (any, error) {
	switch x := v.(type) {
	case int64:
		return x, nil
	case int:
		return int64(x), nil
	case int32:
		return int64(x), nil
	case float64:
		if x != math.Trunc(x) || math.Abs(x) > maxExactFloatInt {
			return nil, errNotCoercible
		}
		return int64(x), nil
	case decimal.Decimal:
		return decimalToInt(x)
	case string:
		s := strings.TrimSpace(x)
		if n, err := strconv.ParseInt(s, 10, 64); err == nil {
			return n, nil
		}
		d, err := decimal.NewFromString(s)
		if err != nil {
			return nil, errNotCoercible
		}
		return decimalToInt(d)
	default:
		return nil, errNotCoercible
	}
}

func decimalToInt(d decimal.Decimal) (any, error) {
	if !d.IsInteger() {
		return nil, errNotCoercible
	}
	big := d.BigInt()
	if !big.IsInt64() {
		return nil, errNotCoercible
	}
	return big.Int64(), nil
}

func toFloat(v any) (any, error) {
	switch x := v.(type) {
	case float64:
		return x, nil
	case float32:
		return float64(x), nil
	case int64:
		if x > maxExactFloatInt || x < -maxExactFloatInt {
			return nil, errNotCoercible
		}
		return float64(x), nil
	case int:
		return toFloat(int64(x))
	case decimal.Decimal:
		f, exact := x.Float64()
		if !exact {
			return nil, errNotCoercible
		}
		return f, nil
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(x), 64)
		if err != nil {
			return nil, errNotCoercible
		}
		return f, nil
	default:
		return nil, errNotCoercible
	}
}

func toDecimal(v any) (any, error) {
	switch x := v.(type) {
	case decimal.Decimal:
		return x, nil
	case int64:
		return decimal.NewFromInt(x), nil
	case int:
		return decimal.NewFromInt(int64(x)), nil
	case float64:
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return nil, errNotCoercible
		}
		return decimal.NewFromFloat(x), nil
	case string:
		d, err := decimal.NewFromString(strings.TrimSpace(x))
		if err != nil {
			return nil, errNotCoercible
		}
		return d, nil
	default:
		return nil, errNotCoercible
	}
}

func toBoolean(v any) (any, error) {
	switch x := v.(type) {
	case bool:
		return x, nil
	case int64:
		return intToBool(x)
	case int:
		return intToBool(int64(x))
	case string:
		switch strings.ToLower(strings.TrimSpace(x)) {
		case "true", "t", "yes", "y", "1":
			return true, nil
		case "false", "f", "no", "n", "0":
			return false, nil
		}
		return nil, errNotCoercible
	default:
		return nil, errNotCoercible
	}
}

func intToBool(n int64) (any, error) {
	switch n {
	case 0:
		return false, nil
	case 1:
		return true, nil
	default:
		return nil, errNotCoercible
	}
}

func toDate(v any) (any, error) {
	switch x := v.(type) {
	case time.Time:
		if x.Hour() != 0 || x.Minute() != 0 || x.Second() != 0 || x.Nanosecond() != 0 {
			return nil, errNotCoercible
		}
		return time.Date(x.Year(), x.Month(), x.Day(), 0, 0, 0, 0, time.UTC), nil
	case string:
		s := strings.TrimSpace(x)
		for _, layout := range dateLayouts {
			if t, err := time.Parse(layout, s); err == nil {
				return toDate(t)
			}
		}
		return nil, errNotCoercible
	default:
		return nil, errNotCoercible
	}
}

// keyOf returns a comparison key that treats equal coerced values as equal.
func keyOf(v any) string {
	switch x := v.(type) {
	case decimal.Decimal:
		return "d:" + x.String()
	case time.Time:
		return "t:" + x.Format(time.RFC3339Nano)
	default:
		return fmt.Sprintf("%T:%v", v, v)
	}
}
