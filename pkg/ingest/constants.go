package ingest

import "time"

// Exit codes for semantic error classification.
// These follow Unix/GNU conventions:
//   - 0: Success (including runs that intentionally did nothing)
//   - 1: General error
//   - 2: CLI usage error (misuse of command line)
//   - 3+: Application-specific errors
const (
	ExitSuccess          = 0  // Run completed or was a deliberate no-op
	ExitGeneralError     = 1  // Unknown or unclassified error
	ExitUsageError       = 2  // CLI usage error (missing args, invalid flags)
	ExitPanic            = 3  // Internal panic (unexpected crash)
	ExitConfigError      = 10 // Invalid configuration, unknown table or edition
	ExitConnectionError  = 11 // Failed to connect to a store
	ExitSourceError      = 12 // Raw input file missing or malformed
	ExitValidationFailed = 13 // Data violates its schema
	ExitMetadataError    = 14 // Metadata document malformed or drifted from schema
	ExitStoreError       = 15 // Metadata or destination store rejected a write
	ExitApprovalDenied   = 16 // Operator declined a destructive store operation
)

const (
	// DefaultRetryInitialDelay is the default initial delay before the first retry attempt.
	DefaultRetryInitialDelay = 100 * time.Millisecond

	// DefaultRetryMaxDelay is the default maximum delay between retry attempts.
	DefaultRetryMaxDelay = 1 * time.Minute

	// DefaultRetryMaxAttempts is the default maximum number of connection attempts
	// beyond the first. Retries only apply to establishing connections, never to a run.
	DefaultRetryMaxAttempts = 3

	// DefaultTimeout bounds a whole run so a hung connection cannot block forever.
	DefaultTimeout = 30 * time.Minute

	// DefaultForceApprovalCountdown is how long --force waits before a destructive operation.
	DefaultForceApprovalCountdown = 5 * time.Second

	// DefaultMetadataSchema is the PostgreSQL schema holding provenance records.
	DefaultMetadataSchema = "provenance"

	// DefaultDataDir holds raw files laid out as <table>/raw/<table>_<edition>.csv.
	DefaultDataDir = "data"

	// DefaultDestinationSchema is the PostgreSQL schema receiving validated tables.
	DefaultDestinationSchema = "naics"

	// MaxFailureSamples caps how many offending values a validation failure reports.
	MaxFailureSamples = 5

	// VersionUnknown is reported when the processing code is not in a git repository.
	VersionUnknown = "unknown"

	// VersionUncommitted is reported when tracked files have local modifications.
	VersionUncommitted = "uncommitted"
)
