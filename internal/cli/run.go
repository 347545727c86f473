package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/vvka-141/ingest/internal/checksum"
	"github.com/vvka-141/ingest/internal/db"
	"github.com/vvka-141/ingest/internal/files/filesystem"
	"github.com/vvka-141/ingest/internal/files/loader"
	"github.com/vvka-141/ingest/internal/provenance"
	"github.com/vvka-141/ingest/internal/services"
	"github.com/vvka-141/ingest/internal/store"
	"github.com/vvka-141/ingest/internal/tables"
	"github.com/vvka-141/ingest/internal/tui"
	gitversion "github.com/vvka-141/ingest/internal/version"
	"github.com/vvka-141/ingest/pkg/ingest"
)

var runCmd = &cobra.Command{
	Use:   "run <table> <edition_date>",
	Short: "Load, clean, validate, audit and write one table edition",
	Long: `Run executes the audited ingestion of one edition of a registered table.

The run:
1. Reads the edition's entry from the project's metadata document
2. Loads the raw file (raw_path, or data/<table>/raw/<table>_<date>.csv)
3. Applies the table's cleanup transform
4. Validates the cleaned table against the table's strict schema
5. Records the edition's provenance in the metadata store
6. Writes the validated table to the destination store

Provenance is always committed before data. A table without a cleanup
function ends as a no-op with exit code 0.

Arguments:
  table           Registered table name (see 'ingest tables')
  edition_date    Edition key in the metadata document, e.g. 2022-01-01

Examples:
  # Check an edition without touching any database
  ingest run naics_descriptions 2022-01-01 --dry-run

  # Load into the database named in ingest.yaml
  ingest run naics_descriptions 2022-01-01

  # Load into an explicit database and keep the enriched metadata
  ingest run naics_descriptions 2022-01-01 \
    --database-url postgresql://loader@db/naics \
    --emit-metadata metadata.lock.toml`,
	Args:              requireArgs("table", "edition_date"),
	ValidArgsFunction: completeTableNames,
	RunE:              runRun,
}

type runFlagValues struct {
	dryRun       bool
	emitMetadata string
	databaseURL  string
	metadataURL  string
	schema       string
	timeout      time.Duration
}

var runFlags runFlagValues

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().BoolVar(&runFlags.dryRun, "dry-run", false,
		"Stop after validation; no database connection is made")
	runCmd.Flags().StringVar(&runFlags.emitMetadata, "emit-metadata", "",
		"After a completed run, write the metadata document enriched with the\n"+
			"edition's provenance facts to this path (.toml, .yaml or .yml)")
	runCmd.Flags().StringVar(&runFlags.databaseURL, "database-url", "",
		"Destination store connection string\n"+
			"Precedence: --database-url > $INGEST_DATABASE_URL > $DATABASE_URL > ingest.yaml")
	runCmd.Flags().StringVar(&runFlags.metadataURL, "metadata-url", "",
		"Metadata store connection string (defaults to the destination)\n"+
			"Precedence: --metadata-url > $INGEST_METADATA_URL > ingest.yaml > destination")
	runCmd.Flags().StringVar(&runFlags.schema, "schema", "",
		"Destination schema when the metadata document declares none\n"+
			"(default: schemas.destination in ingest.yaml, then naics)")
	runCmd.Flags().DurationVar(&runFlags.timeout, "timeout", ingest.DefaultTimeout,
		"Global timeout for the whole run (overrides timeout in ingest.yaml)")
}

// buildRunConfig builds a RunConfig from the project and CLI flags.
func buildRunConfig(cmd *cobra.Command, a *app, tableName, editionDate string) (ingest.RunConfig, error) {
	timeout := runFlags.timeout
	if !cmd.Flags().Changed("timeout") {
		t, err := a.project.TimeoutDuration()
		if err != nil {
			return ingest.RunConfig{}, err
		}
		timeout = t
	}

	schema := runFlags.schema
	if schema == "" {
		schema = a.project.Schemas.Destination
	}

	cfg := ingest.RunConfig{
		TableName:         tableName,
		EditionDate:       editionDate,
		WorkDir:           a.project.Dir,
		DataDir:           a.project.DataDir,
		MetadataFile:      a.project.MetadataFile,
		DestinationSchema: schema,
		DryRun:            runFlags.dryRun,
		Timeout:           timeout,
		Verbose:           a.verbose,
	}
	return cfg, cfg.Validate()
}

func runRun(cmd *cobra.Command, args []string) error {
	a, err := loadApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	def, err := tables.Builtin().Lookup(args[0])
	if err != nil {
		return err
	}
	cfg, err := buildRunConfig(cmd, a, args[0], args[1])
	if err != nil {
		return err
	}

	// Setup context with signal handling for graceful shutdown
	ctx, cancel := context.WithCancel(commandContext(cmd))
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	go func() {
		select {
		case <-sigChan:
			fmt.Fprintln(os.Stderr, "\n[INTERRUPT] Received interrupt signal, cancelling run...")
			cancel()
		case <-ctx.Done():
		}
	}()

	fsProvider := filesystem.NewOSFileSystem()
	workflow := services.NewWorkflow(services.WorkflowDeps{
		FileSystem: fsProvider,
		Loader:     loader.NewLoader(fsProvider),
		OpenStores: openStores(a),
		Checksum:   checksum.New(),
		Logger:     a.logger,
	})

	result, runErr := workflow.Run(ctx, cfg, def)
	fmt.Fprint(cmd.OutOrStdout(), tui.NewRenderer().Summary(&result))
	if runErr != nil {
		return runErr
	}

	if runFlags.emitMetadata != "" && result.Outcome == ingest.OutcomeCompleted {
		target := a.project.Path(runFlags.emitMetadata)
		if err := emitMetadata(fsProvider, a.project.Path(cfg.MetadataFile), target, result.Edition); err != nil {
			return err
		}
		a.logger.Info("Enriched metadata written to %s", target)
	}
	return nil
}

// openStores connects the metadata and destination stores. The workflow
// calls it once the edition has validated.
func openStores(a *app) services.StoreOpener {
	return func(ctx context.Context) (services.Stores, func(), error) {
		metaCfg, destCfg, err := a.connections(runFlags.databaseURL, runFlags.metadataURL)
		if err != nil {
			return services.Stores{}, nil, err
		}

		session, err := services.NewSessionManager(db.NewConnector, a.logger).PrepareSession(ctx, metaCfg, destCfg)
		if err != nil {
			return services.Stores{}, nil, err
		}

		pgMeta := store.NewMetadataStore(session.MetadataPool(), a.project.Schemas.Metadata)
		if err := pgMeta.EnsureSchema(ctx); err != nil {
			session.Close()
			return services.Stores{}, nil, err
		}

		return services.Stores{
			Recorder: provenance.NewAuditor(pgMeta, gitversion.NewGitResolver(a.logger), a.logger),
			Data:     store.NewDataStore(session.DestinationPool(), a.logger),
		}, func() {
			if err := session.Close(); err != nil {
				a.logger.Error("Failed to close store connections: %v", err)
			}
		}, nil
	}
}
