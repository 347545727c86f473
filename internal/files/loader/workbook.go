package loader

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/vvka-141/ingest/pkg/ingest"
	"github.com/xuri/excelize/v2"
)

func parseWorkbook(data []byte, sheet string) (*ingest.Table, error) {
	if !isWorkbook(data) {
		return nil, errors.New("content is not an xlsx workbook")
	}

	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	if sheet == "" {
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return nil, errors.New("workbook has no sheets")
		}
		sheet = sheets[0]
	}

	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %q: %w", sheet, err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("sheet %q is empty", sheet)
	}

	table := ingest.NewTable(rows[0]...)
	width := len(rows[0])
	for i, record := range rows[1:] {
		if len(record) > width {
			return nil, fmt.Errorf("sheet %q row %d has %d cells, header has %d", sheet, i+2, len(record), width)
		}
		// excelize trims trailing empty cells
		row := make([]any, width)
		for j, v := range record {
			row[j] = cell(v)
		}
		table.Rows = append(table.Rows, row)
	}
	return table, nil
}
