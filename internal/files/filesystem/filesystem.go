package filesystem

import (
	"io/fs"
)

// FileInfo is an alias for fs.FileInfo from the standard library.
type FileInfo = fs.FileInfo

// File is one entry found while walking a directory.
type File interface {
	// Path returns the absolute path to the file
	Path() string

	// RelativePath returns the path relative to the walked directory, slash separated
	RelativePath() string

	// Info returns file metadata
	Info() FileInfo

	// ReadContent returns the file's content
	ReadContent() ([]byte, error)
}

// Directory is a directory that can be traversed, e.g. a table's raw/ folder.
type Directory interface {
	// Path returns the absolute path to the directory
	Path() string

	// Walk visits every file and directory under Path in lexical order.
	// If fn returns an error, walking stops and the error is returned.
	Walk(fn func(File, error) error) error
}

// FileSystemProvider gives access to raw data files and metadata documents.
type FileSystemProvider interface {
	// Open opens a directory at the specified path
	Open(path string) (Directory, error)

	// ReadFile reads a specific file at the given path
	ReadFile(path string) ([]byte, error)

	// WriteFile writes data to path, creating parent directories as needed
	WriteFile(path string, data []byte) error

	// ReadDir returns the entries of a directory without walking into subdirectories
	ReadDir(path string) ([]FileInfo, error)

	// Stat returns file information for the given path.
	// A missing path yields an error matching fs.ErrNotExist.
	Stat(path string) (FileInfo, error)
}
