package loader

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/vvka-141/ingest/pkg/ingest"
)

// ConvertOptions controls ConvertWorkbook.
type ConvertOptions struct {
	// Sheet selects the source sheet (default: first sheet)
	Sheet string

	// WithIndex writes a leading unnamed column holding the zero-based row number
	WithIndex bool
}

// ConvertWorkbook reads the xlsx file at src and writes it as CSV to dst.
// It returns the number of data rows written.
func (l *Loader) ConvertWorkbook(src, dst string, opts ConvertOptions) (int, error) {
	source := l
	if opts.Sheet != "" {
		source = NewLoader(l.fs, WithSheet(opts.Sheet))
	}
	table, err := source.Load(src, ingest.FileTypeXLSX)
	if err != nil {
		return 0, err
	}

	var buf bytes.Buffer
	if err := WriteCSV(&buf, table, opts.WithIndex); err != nil {
		return 0, fmt.Errorf("failed to encode %s: %w", src, err)
	}
	if err := l.fs.WriteFile(dst, buf.Bytes()); err != nil {
		return 0, fmt.Errorf("failed to write %s: %v: %w", dst, err, ingest.ErrSourceIO)
	}
	return table.Len(), nil
}

// WriteCSV encodes t as CSV. Nulls are written as empty cells.
func WriteCSV(w io.Writer, t *ingest.Table, withIndex bool) error {
	cw := csv.NewWriter(w)

	header := t.Columns
	if withIndex {
		header = append([]string{""}, t.Columns...)
	}
	if err := cw.Write(header); err != nil {
		return err
	}

	for i, row := range t.Rows {
		record := make([]string, 0, len(header))
		if withIndex {
			record = append(record, strconv.Itoa(i))
		}
		for _, v := range row {
			if v == nil {
				record = append(record, "")
				continue
			}
			record = append(record, fmt.Sprint(v))
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}
