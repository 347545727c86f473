package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/vvka-141/ingest/pkg/ingest"
)

var rootCmd = &cobra.Command{
	Use:   "ingest",
	Short: "Audited loader for reference tables",
	Long: `ingest loads a raw edition of a reference table (NAICS codes and their
descriptions), cleans it, validates it against a strict schema, records its
provenance, and only then writes it to PostgreSQL.

Every load is described by a metadata document (metadata.toml or .yaml) in
the project directory. The edition's provenance record (code version,
script, checksum, record count) is committed before any data is written.

Exit Codes:
  0  - Success (including a deliberate no-op or a dry run)
  1  - General error
  2  - CLI usage error (invalid arguments or flags)
  3  - Panic or unexpected system error
  10 - Invalid configuration, unknown table or edition
  11 - Database connection failed
  12 - Raw source file missing or malformed
  13 - Data violates its schema
  14 - Metadata document malformed or drifted from the schema
  15 - Metadata or destination store rejected a write
  16 - Operator declined a destructive store operation`,
	SilenceUsage: true,
}

// Execute runs the root command
func Execute() error {
	if len(os.Args) > 1 && os.Args[1] == "--version" {
		printVersionInfo()
		return nil
	}
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose output for all commands")
	rootCmd.PersistentFlags().StringP("dir", "C", ".",
		"Project directory holding ingest.yaml, .env and the metadata document")
	rootCmd.SetFlagErrorFunc(func(cmd *cobra.Command, err error) error {
		return fmt.Errorf("%w: %w", ingest.ErrUsage, err)
	})
}

// getVerboseFlag safely retrieves the verbose flag value
func getVerboseFlag(cmd *cobra.Command) bool {
	verbose, err := cmd.Flags().GetBool("verbose")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: Failed to get verbose flag: %v\n", err)
		return false
	}
	return verbose
}

func getProjectDir(cmd *cobra.Command) string {
	dir, err := cmd.Flags().GetString("dir")
	if err != nil || dir == "" {
		return "."
	}
	return dir
}
