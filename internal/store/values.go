package store

import (
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/shopspring/decimal"
)

// toPg converts a coerced cell to a value pgx can COPY in binary format.
func toPg(v any) any {
	switch x := v.(type) {
	case decimal.Decimal:
		return pgtype.Numeric{Int: x.Coefficient(), Exp: x.Exponent(), Valid: true}
	case int:
		return int64(x)
	default:
		return v
	}
}

// copyRows adapts table rows to pgx.CopyFromSource without copying the table.
type copyRows struct {
	rows [][]any
	idx  int
}

func newCopyRows(rows [][]any) *copyRows {
	return &copyRows{rows: rows, idx: -1}
}

func (c *copyRows) Next() bool {
	c.idx++
	return c.idx < len(c.rows)
}

func (c *copyRows) Values() ([]any, error) {
	row := c.rows[c.idx]
	out := make([]any, len(row))
	for i, v := range row {
		out[i] = toPg(v)
	}
	return out, nil
}

func (c *copyRows) Err() error {
	return nil
}
