// Package scanner discovers raw source files on disk.
//
// A table's raw files conventionally live under <data_dir>/<table>/raw/.
// ScanDirectory lists them with size, modification time, checksum, the
// file type implied by the extension, and an edition hint parsed from the
// file name, so the CLI can show which raw files are declared as editions
// in the metadata document and which are not.
//
// The scanner reads through filesystem.FileSystemProvider and works equally
// against the OS filesystem and the in-memory one used in tests.
package scanner
