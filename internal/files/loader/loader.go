package loader

import (
	"bytes"
	"fmt"

	"github.com/vvka-141/ingest/internal/files/filesystem"
	"github.com/vvka-141/ingest/pkg/ingest"
)

// zipMagic starts every xlsx workbook.
var zipMagic = []byte("PK\x03\x04")

// Option configures a Loader.
type Option func(*Loader)

// WithSheet selects the workbook sheet read for xlsx files.
func WithSheet(name string) Option {
	return func(l *Loader) { l.sheet = name }
}

// Loader implements ingest.FileLoader over a filesystem provider.
// Safe for concurrent use.
type Loader struct {
	fs    filesystem.FileSystemProvider
	sheet string
}

var _ ingest.FileLoader = (*Loader)(nil)

// NewLoader creates a loader reading through fs. Panics if fs is nil.
func NewLoader(fs filesystem.FileSystemProvider, opts ...Option) *Loader {
	if fs == nil {
		panic("filesystem provider cannot be nil")
	}
	l := &Loader{fs: fs}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Load reads path according to fileType.
func (l *Loader) Load(path string, fileType ingest.FileType) (*ingest.Table, error) {
	data, err := l.fs.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %v: %w", path, err, ingest.ErrSourceIO)
	}

	var table *ingest.Table
	switch fileType {
	case ingest.FileTypeCSV:
		table, err = parseDelimited(data, ',')
	case ingest.FileTypeTSV:
		table, err = parseDelimited(data, '\t')
	case ingest.FileTypeXLSX:
		table, err = parseWorkbook(data, l.sheet)
	case ingest.FileTypeGeoJSON:
		table, err = parseGeoJSON(data)
	default:
		err = fmt.Errorf("unsupported file type %s", fileType)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load %s as %s: %v: %w", path, fileType, err, ingest.ErrSourceIO)
	}
	return table, nil
}

// cell converts a raw text cell; empty cells are nulls.
func cell(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func isWorkbook(data []byte) bool {
	return bytes.HasPrefix(data, zipMagic)
}
