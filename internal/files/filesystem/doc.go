// Package filesystem abstracts the file access of an ingestion run.
//
// Raw source files, metadata documents, and converted outputs are all read
// and written through FileSystemProvider, so that loaders and the workflow
// can be tested against an in-memory tree.
//
// Implementations:
//   - OSFileSystem: Production implementation using the OS filesystem
//   - MemoryFileSystem: In-memory implementation for testing
package filesystem
