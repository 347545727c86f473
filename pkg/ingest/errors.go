package ingest

import (
	"errors"
	"strings"
)

// Sentinel errors for the failure classes of an ingestion run.
// Callers distinguish them with errors.Is().
//
// Example usage:
//
//	result, err := workflow.Run(ctx, cfg, def)
//	if errors.Is(err, ingest.ErrValidationFailed) {
//	    // fix the source data or the cleanup transform
//	}
var (
	// ErrInvalidConfig indicates the provided configuration is invalid.
	ErrInvalidConfig = errors.New("invalid configuration")

	// ErrUnknownTable indicates no table definition is registered under the requested name.
	ErrUnknownTable = errors.New("unknown table")

	// ErrEditionNotFound indicates the metadata document has no entry for the requested edition date.
	ErrEditionNotFound = errors.New("edition not found")

	// ErrSourceIO indicates the raw input file is missing, unreadable, or does not
	// match its declared file type.
	ErrSourceIO = errors.New("source file unreadable")

	// ErrValidationFailed indicates the cleaned table violates its schema contract.
	ErrValidationFailed = errors.New("schema validation failed")

	// ErrMetadataDrift indicates a declared variable has no matching schema field.
	ErrMetadataDrift = errors.New("metadata does not match schema")

	// ErrInvalidMetadata indicates the metadata document failed structural validation.
	ErrInvalidMetadata = errors.New("invalid metadata document")

	// ErrStoreCommit indicates the metadata or destination store rejected a write.
	ErrStoreCommit = errors.New("store commit failed")

	// ErrConnectionFailed indicates database connection failed.
	ErrConnectionFailed = errors.New("connection failed")

	// ErrUnsupportedAuthMethod indicates the requested authentication method is not supported.
	ErrUnsupportedAuthMethod = errors.New("unsupported authentication method")

	// ErrUsage indicates the command line was invalid (arguments or flags).
	ErrUsage = errors.New("invalid usage")

	// ErrApprovalDenied indicates the operator declined a destructive operation.
	ErrApprovalDenied = errors.New("approval denied")
)

// ExitCodeForError returns the appropriate exit code for an error.
// Returns ExitSuccess (0) for nil errors, semantic codes for known errors,
// and ExitGeneralError (1) for unclassified errors.
func ExitCodeForError(err error) int {
	if err == nil {
		return ExitSuccess
	}

	switch {
	case errors.Is(err, ErrUsage):
		return ExitUsageError
	case errors.Is(err, ErrApprovalDenied):
		return ExitApprovalDenied
	case errors.Is(err, ErrInvalidConfig),
		errors.Is(err, ErrUnknownTable),
		errors.Is(err, ErrEditionNotFound),
		errors.Is(err, ErrUnsupportedAuthMethod):
		return ExitConfigError
	case errors.Is(err, ErrConnectionFailed):
		return ExitConnectionError
	case errors.Is(err, ErrSourceIO):
		return ExitSourceError
	case errors.Is(err, ErrValidationFailed):
		return ExitValidationFailed
	case errors.Is(err, ErrMetadataDrift), errors.Is(err, ErrInvalidMetadata):
		return ExitMetadataError
	case errors.Is(err, ErrStoreCommit):
		return ExitStoreError
	}

	// Check for common connection error patterns
	errStr := err.Error()
	if strings.Contains(errStr, "failed to connect") ||
		strings.Contains(errStr, "connection refused") ||
		strings.Contains(errStr, "no such host") {
		return ExitConnectionError
	}

	return ExitGeneralError
}
