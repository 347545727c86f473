package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/vvka-141/ingest/pkg/ingest"
)

// requireArgs validates that exactly len(names) positional arguments are
// given. Errors wrap ingest.ErrUsage and show the usage line.
func requireArgs(names ...string) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if len(args) < len(names) {
			missing := make([]string, 0, len(names)-len(args))
			for _, n := range names[len(args):] {
				missing = append(missing, "<"+n+">")
			}
			return fmt.Errorf(`missing required argument: %s

Usage: %s: %w`, strings.Join(missing, " "), cmd.UseLine(), ingest.ErrUsage)
		}
		if len(args) > len(names) {
			return fmt.Errorf("accepts %d arg(s), received %d: %w", len(names), len(args), ingest.ErrUsage)
		}
		return nil
	}
}

// noArgs rejects positional arguments with ingest.ErrUsage.
func noArgs(cmd *cobra.Command, args []string) error {
	if len(args) > 0 {
		return fmt.Errorf("unknown argument %q for %q: %w", args[0], cmd.CommandPath(), ingest.ErrUsage)
	}
	return nil
}
