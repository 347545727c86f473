package scanner

import (
	"errors"
	"io/fs"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vvka-141/ingest/internal/checksum"
	"github.com/vvka-141/ingest/internal/files/filesystem"
	"github.com/vvka-141/ingest/pkg/ingest"
)

func newTestScanner() (*Scanner, *filesystem.MemoryFileSystem) {
	mfs := filesystem.NewMemoryFileSystem("/project")
	return NewScanner(checksum.New(), mfs), mfs
}

func TestNewScanner_NilArgs(t *testing.T) {
	mfs := filesystem.NewMemoryFileSystem("/")

	tests := []struct {
		name string
		fn   func()
	}{
		{"nil calculator", func() { NewScanner(nil, mfs) }},
		{"nil filesystem", func() { NewScanner(checksum.New(), nil) }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Panics(t, tt.fn)
		})
	}
}

func TestScanDirectory(t *testing.T) {
	s, mfs := newTestScanner()
	mfs.AddFile("data/naics/raw/naics_descriptions_2022.csv", "Code\n")
	mfs.AddFile("data/naics/raw/2022_NAICS_Descriptions.xlsx", "PK")
	mfs.AddFile("data/naics/raw/archive/naics_2017-01-01.tsv", "Code\n")
	mfs.AddFile("data/naics/raw/.DS_Store", "")
	mfs.AddFile("data/naics/raw/README", "notes")

	files, err := s.ScanDirectory("data/naics/raw")
	require.NoError(t, err)
	require.Len(t, files, 4)

	assert.Equal(t, "2022_NAICS_Descriptions.xlsx", files[0].RelativePath)
	assert.Equal(t, ingest.FileTypeXLSX, files[0].FileType)
	assert.True(t, files[0].HasFileType)
	assert.Equal(t, "2022", files[0].EditionHint)

	assert.Equal(t, "README", files[1].RelativePath)
	assert.False(t, files[1].HasFileType)
	assert.Empty(t, files[1].EditionHint)

	assert.Equal(t, "archive/naics_2017-01-01.tsv", files[2].RelativePath)
	assert.Equal(t, ingest.FileTypeTSV, files[2].FileType)
	assert.Equal(t, "2017-01-01", files[2].EditionHint)
	assert.Equal(t, "/project/data/naics/raw/archive/naics_2017-01-01.tsv", files[2].Path)

	assert.Equal(t, "naics_descriptions_2022.csv", files[3].RelativePath)
	assert.Equal(t, int64(5), files[3].SizeBytes)
	assert.Equal(t, checksum.New().Calculate([]byte("Code\n")), files[3].Checksum)
}

func TestScanDirectory_Missing(t *testing.T) {
	s, _ := newTestScanner()

	_, err := s.ScanDirectory("data/unknown/raw")
	assert.True(t, errors.Is(err, fs.ErrNotExist))
}

func TestEditionHint(t *testing.T) {
	tests := []struct {
		name string
		want string
	}{
		{"naics_2022-01-01.csv", "2022-01-01"},
		{"naics_index_file_2022.csv", "2022"},
		{"2017_NAICS_Index_File.xlsx", "2017"},
		{"naics.csv", ""},
		{"codes_123456.csv", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, EditionHint(tt.name))
		})
	}
}
