package cli

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/vvka-141/ingest/internal/files/filesystem"
	"github.com/vvka-141/ingest/internal/logging"
	"github.com/vvka-141/ingest/internal/scaffold"
	"github.com/vvka-141/ingest/pkg/ingest"
)

var initCmd = &cobra.Command{
	Use:   "init [directory]",
	Short: "Create a new data project",
	Long: `Init creates a data project with an ingest.yaml, a metadata document,
an .env.example and the data/<table>/raw layout.

The target directory must be empty or absent. It defaults to the current
directory.

Examples:
  ingest init census
  ingest init census --template minimal --name census_2022`,
	Args: func(cmd *cobra.Command, args []string) error {
		if len(args) > 1 {
			return fmt.Errorf("accepts at most 1 arg(s), received %d: %w", len(args), ingest.ErrUsage)
		}
		return nil
	},
	ValidArgsFunction: completeDirectories,
	RunE:              runInit,
}

type initFlagValues struct {
	template string
	name     string
}

var initFlags initFlagValues

func init() {
	rootCmd.AddCommand(initCmd)

	initCmd.Flags().StringVarP(&initFlags.template, "template", "t", scaffold.DefaultTemplate,
		"Project template")
	initCmd.Flags().StringVar(&initFlags.name, "name", "",
		"Project name written into ingest.yaml (default: the directory name)")
	_ = initCmd.RegisterFlagCompletionFunc("template", completeTemplateNames)
}

func runInit(cmd *cobra.Command, args []string) error {
	target := "."
	if len(args) == 1 {
		target = args[0]
	}

	name := initFlags.name
	if name == "" {
		abs, err := filepath.Abs(target)
		if err != nil {
			return err
		}
		name = filepath.Base(abs)
	}

	logger := logging.NewConsoleLoggerTo(cmd.ErrOrStderr(), getVerboseFlag(cmd))
	written, err := scaffold.NewScaffolder(filesystem.NewOSFileSystem(), logger).CreateProject(name, initFlags.template, target)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "✓ Created project %s\n\n", name)
	fmt.Fprint(out, scaffold.BuildFileTree(target, written))
	fmt.Fprintf(out, "\nNext steps:\n  cd %s\n  cp .env.example .env\n  ingest editions naics_descriptions\n", target)
	return nil
}
