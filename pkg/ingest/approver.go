package ingest

import "context"

// Approver confirms destructive store operations, such as dropping the
// provenance schema, before they run.
type Approver interface {
	// RequestApproval asks for confirmation to destroy target.
	// Returns false without error when the operator declines.
	RequestApproval(ctx context.Context, target string) (bool, error)
}
