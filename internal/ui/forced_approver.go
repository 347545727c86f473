package ui

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/vvka-141/ingest/pkg/ingest"
)

// ForcedApprover implements ingest.Approver for --force: it shows a
// countdown and approves when it ends.
type ForcedApprover struct {
	verbose bool
	output  io.Writer
	sleepFn func(time.Duration)
}

// NewForcedApprover creates an approver counting down on stderr.
func NewForcedApprover(verbose bool) ingest.Approver {
	return &ForcedApprover{verbose: verbose, output: os.Stderr, sleepFn: time.Sleep}
}

// RequestApproval counts down ingest.DefaultForceApprovalCountdown, then approves.
func (a *ForcedApprover) RequestApproval(ctx context.Context, target string) (bool, error) {
	fmt.Fprintf(a.output, "\nDANGER: '%s' will be dropped with all of its provenance records.\n", target)

	seconds := int(ingest.DefaultForceApprovalCountdown.Seconds())
	for i := seconds; i > 0; i-- {
		if err := ctx.Err(); err != nil {
			fmt.Fprintln(a.output)
			return false, err
		}
		fmt.Fprintf(a.output, "\rDropping in: %d seconds... (Press Ctrl+C to cancel)", i)
		a.sleepFn(time.Second)
	}
	if err := ctx.Err(); err != nil {
		fmt.Fprintln(a.output)
		return false, err
	}

	fmt.Fprintf(a.output, "\r✓ Proceeding with drop of %s...                              \n", target)
	return true, nil
}

var _ ingest.Approver = (*ForcedApprover)(nil)
