package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"github.com/vvka-141/ingest/internal/config"
	"github.com/vvka-141/ingest/internal/db"
	"github.com/vvka-141/ingest/internal/logging"
	"github.com/vvka-141/ingest/pkg/ingest"
)

// app is what every project-aware command needs: the project
// configuration and a logger that also writes to app.log_file when set.
type app struct {
	project *config.ProjectConfig
	logger  ingest.Logger
	verbose bool

	closers []io.Closer
}

// loadApp reads .env and ingest.yaml from the --dir project directory.
func loadApp(cmd *cobra.Command) (*app, error) {
	dir := getProjectDir(cmd)
	verbose := getVerboseFlag(cmd)

	if err := config.LoadEnv(dir); err != nil {
		return nil, fmt.Errorf("%w: %w", ingest.ErrInvalidConfig, err)
	}
	project, err := config.LoadOrDefault(dir)
	if err != nil {
		return nil, err
	}

	a := &app{project: project, verbose: verbose}
	console := logging.NewConsoleLoggerTo(cmd.ErrOrStderr(), verbose)
	if project.App.LogFile == "" {
		a.logger = console
		return a, nil
	}

	fileLogger, err := logging.NewFileLogger(project.Path(project.App.LogFile), verbose)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ingest.ErrInvalidConfig, err)
	}
	a.closers = append(a.closers, fileLogger)
	a.logger = logging.Tee(console, fileLogger)
	return a, nil
}

// Close flushes the file logger, if any.
func (a *app) Close() {
	for _, c := range a.closers {
		if err := c.Close(); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
		}
	}
	a.closers = nil
}

// connections resolves the metadata and destination store connections.
// See db.Resolver for the precedence of flags, environment and ingest.yaml.
func (a *app) connections(destinationURL, metadataURL string) (meta, dest *ingest.ConnectionConfig, err error) {
	resolver := db.NewResolver(a.project)

	dest, err = resolver.Destination(destinationURL)
	if err != nil {
		return nil, nil, fmt.Errorf("destination connection: %w", err)
	}
	meta, err = resolver.Metadata(metadataURL, dest)
	if err != nil {
		return nil, nil, fmt.Errorf("metadata connection: %w", err)
	}

	a.logger.Verbose("Destination store: %s@%s:%d/%s (%s)", dest.Username, dest.Host, dest.Port, dest.Database, dest.AuthMethod)
	a.logger.Verbose("Metadata store: %s@%s:%d/%s (%s)", meta.Username, meta.Host, meta.Port, meta.Database, meta.AuthMethod)
	return meta, dest, nil
}

func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
