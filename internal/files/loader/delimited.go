package loader

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"unicode/utf8"

	"github.com/vvka-141/ingest/pkg/ingest"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

func parseDelimited(data []byte, delim rune) (*ingest.Table, error) {
	if isWorkbook(data) {
		return nil, errors.New("content is a workbook, not delimited text")
	}
	if !utf8.Valid(data) {
		return nil, errors.New("content is not valid UTF-8 text")
	}

	r := csv.NewReader(bytes.NewReader(bytes.TrimPrefix(data, utf8BOM)))
	r.Comma = delim

	header, err := r.Read()
	if err == io.EOF {
		return nil, errors.New("file is empty")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read header: %w", err)
	}

	// A single header column while the other delimiter appears suggests the
	// declared type is wrong (e.g. a CSV declared as TSV).
	if len(header) == 1 {
		other := byte(',')
		if delim == ',' {
			other = '\t'
		}
		if bytes.IndexByte([]byte(header[0]), other) >= 0 {
			return nil, fmt.Errorf("header %q is not %q-delimited", header[0], delim)
		}
	}

	table := ingest.NewTable(header...)
	for {
		record, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		row := make([]any, len(record))
		for i, v := range record {
			row[i] = cell(v)
		}
		table.Rows = append(table.Rows, row)
	}
	return table, nil
}
