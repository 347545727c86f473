package ingest

import (
	"fmt"
	"strings"
)

// FileType declares how a raw source file is structured.
type FileType int

const (
	FileTypeCSV     FileType = iota // Comma-delimited text
	FileTypeTSV                     // Tab-delimited text
	FileTypeXLSX                    // Excel workbook
	FileTypeGeoJSON                 // GeoJSON FeatureCollection
)

// String returns a human-readable string representation of the FileType.
func (f FileType) String() string {
	switch f {
	case FileTypeCSV:
		return "csv"
	case FileTypeTSV:
		return "tsv"
	case FileTypeXLSX:
		return "xlsx"
	case FileTypeGeoJSON:
		return "geojson"
	default:
		return fmt.Sprintf("Unknown(%d)", f)
	}
}

// IsGeospatial reports whether the file type carries geometries.
func (f FileType) IsGeospatial() bool {
	return f == FileTypeGeoJSON
}

// ParseFileType parses the string form produced by FileType.String.
func ParseFileType(s string) (FileType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "csv":
		return FileTypeCSV, nil
	case "tsv":
		return FileTypeTSV, nil
	case "xlsx", "excel":
		return FileTypeXLSX, nil
	case "geojson":
		return FileTypeGeoJSON, nil
	default:
		return 0, fmt.Errorf("unknown file type %q: %w", s, ErrInvalidConfig)
	}
}

// WriteMode selects how validated data is committed to its destination table.
type WriteMode int

const (
	WriteReplace WriteMode = iota // Drop and recreate the destination table
	WriteAppend                   // Add rows to the existing destination table
)

// String returns a human-readable string representation of the WriteMode.
func (m WriteMode) String() string {
	switch m {
	case WriteReplace:
		return "replace"
	case WriteAppend:
		return "append"
	default:
		return fmt.Sprintf("Unknown(%d)", m)
	}
}

// ParseWriteMode parses "replace" or "append".
func ParseWriteMode(s string) (WriteMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "replace":
		return WriteReplace, nil
	case "append":
		return WriteAppend, nil
	default:
		return 0, fmt.Errorf("unknown write mode %q (want replace|append): %w", s, ErrInvalidConfig)
	}
}

// TransformResult is the tagged outcome of a cleanup transform: either a
// cleaned table or a deliberate no-op with a reason. A no-op is not an error.
type TransformResult struct {
	table  *Table
	reason string
	noop   bool
}

// Transformed wraps a cleaned table.
func Transformed(t *Table) TransformResult {
	return TransformResult{table: t}
}

// NoOp signals that the run should stop without writing anything.
func NoOp(reason string) TransformResult {
	return TransformResult{reason: reason, noop: true}
}

// IsNoOp reports whether the transform declined to produce data.
func (r TransformResult) IsNoOp() bool { return r.noop }

// Table returns the cleaned table (nil for a no-op).
func (r TransformResult) Table() *Table { return r.table }

// Reason returns the no-op reason.
func (r TransformResult) Reason() string { return r.reason }

// TransformFunc cleans a raw table. It returns an error only for genuine
// failures; "nothing to do" is expressed with NoOp.
type TransformFunc func(raw *Table) (TransformResult, error)
