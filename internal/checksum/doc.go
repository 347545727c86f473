// Package checksum fingerprints raw source files.
//
// The SHA-256 of a raw file's exact bytes is stamped into the edition's
// provenance record, so a later reader can tell whether the file on disk is
// still the one that was loaded.
//
//	calculator := checksum.New()
//	sum := calculator.Calculate(content)
//
// SHA256 is safe for concurrent use by multiple goroutines.
package checksum
