// Package logging provides concrete implementations of the ingest.Logger interface.
//
// Available implementations:
//   - ConsoleLogger: Writes prefixed, human-readable lines to stderr
//   - FileLogger: Writes structured JSON lines to a run log file (zap)
//   - NullLogger: Discards all messages (useful for testing)
//
// Tee fans one call out to several loggers, which is how the CLI writes the
// same run narrative to the terminal and to the configured log file.
//
// All logger implementations are safe for concurrent use by multiple goroutines.
package logging
