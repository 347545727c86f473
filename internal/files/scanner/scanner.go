package scanner

import (
	"fmt"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/vvka-141/ingest/internal/checksum"
	"github.com/vvka-141/ingest/internal/files/filesystem"
	"github.com/vvka-141/ingest/pkg/ingest"
)

var (
	datePattern = regexp.MustCompile(`(\d{4}-\d{2}-\d{2})`)
	yearPattern = regexp.MustCompile(`(?:^|[_\-. ])((?:19|20)\d{2})(?:[_\-. ]|$)`)
)

// RawFile describes one raw source file.
type RawFile struct {
	Path         string
	RelativePath string
	Name         string
	Extension    string
	SizeBytes    int64
	ModifiedAt   time.Time
	Checksum     string

	// FileType is meaningful only when HasFileType is true.
	FileType    ingest.FileType
	HasFileType bool

	// EditionHint is a date (2022-01-01) or year (2022) found in the file name.
	EditionHint string
}

// Scanner lists raw files. Safe for concurrent use as long as the
// calculator and filesystem provider are.
type Scanner struct {
	calculator checksum.Calculator
	fsProvider filesystem.FileSystemProvider
}

// NewScanner creates a scanner. Panics if calculator or fsProvider is nil.
func NewScanner(calculator checksum.Calculator, fsProvider filesystem.FileSystemProvider) *Scanner {
	if calculator == nil {
		panic("calculator cannot be nil")
	}
	if fsProvider == nil {
		panic("fsProvider cannot be nil")
	}
	return &Scanner{
		calculator: calculator,
		fsProvider: fsProvider,
	}
}

// ScanDirectory recursively lists the files under dir, sorted by relative
// path. Hidden files (leading dot) are skipped.
func (s *Scanner) ScanDirectory(dir string) ([]RawFile, error) {
	d, err := s.fsProvider.Open(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to open directory: %w", err)
	}

	var files []RawFile
	err = d.Walk(func(file filesystem.File, err error) error {
		if err != nil {
			return fmt.Errorf("error walking path: %w", err)
		}
		if file.Info().IsDir() || strings.HasPrefix(file.Info().Name(), ".") {
			return nil
		}

		raw, err := s.processFile(file)
		if err != nil {
			return fmt.Errorf("failed to process file %s: %w", file.RelativePath(), err)
		}
		files = append(files, raw)
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Slice(files, func(i, j int) bool { return files[i].RelativePath < files[j].RelativePath })
	return files, nil
}

func (s *Scanner) processFile(file filesystem.File) (RawFile, error) {
	content, err := file.ReadContent()
	if err != nil {
		return RawFile{}, fmt.Errorf("failed to read file: %w", err)
	}

	info := file.Info()
	name := info.Name()
	ext := strings.ToLower(filepath.Ext(name))
	ft, err := ingest.ParseFileType(strings.TrimPrefix(ext, "."))

	return RawFile{
		Path:         file.Path(),
		RelativePath: filepath.ToSlash(file.RelativePath()),
		Name:         name,
		Extension:    ext,
		SizeBytes:    info.Size(),
		ModifiedAt:   info.ModTime(),
		Checksum:     s.calculator.Calculate(content),
		FileType:     ft,
		HasFileType:  err == nil,
		EditionHint:  EditionHint(name),
	}, nil
}

// EditionHint extracts a date or year from a raw file name.
func EditionHint(name string) string {
	base := strings.TrimSuffix(name, filepath.Ext(name))
	if m := datePattern.FindStringSubmatch(base); m != nil {
		return m[1]
	}
	if m := yearPattern.FindStringSubmatch(base); m != nil {
		return m[1]
	}
	return ""
}
