package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/vvka-141/ingest/internal/db"
	"github.com/vvka-141/ingest/internal/services"
	"github.com/vvka-141/ingest/internal/store"
	"github.com/vvka-141/ingest/internal/ui"
	"github.com/vvka-141/ingest/pkg/ingest"
)

var storeCmd = &cobra.Command{
	Use:   "store",
	Short: "Manage the provenance schema in the metadata store",
}

var storeInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Create the provenance schema and tables if missing",
	Args:  noArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withMetadataStore(cmd, func(ctx context.Context, a *app, ms *store.MetadataStore) error {
			if err := ms.EnsureSchema(ctx); err != nil {
				return err
			}
			a.logger.Info("✓ Provenance schema %s is ready", ms.Schema())
			return nil
		})
	},
}

var storeResetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Drop the provenance schema and every record in it",
	Long: `Reset drops the provenance schema (schemas.metadata in ingest.yaml,
default "provenance") with all recorded editions, then recreates it empty.

You are asked to type the schema name to confirm. With --force a short
countdown replaces the prompt, for use in scripts.`,
	Args: noArgs,
	RunE: runStoreReset,
}

type storeFlagValues struct {
	databaseURL string
	metadataURL string
	force       bool
}

var storeFlags storeFlagValues

func init() {
	rootCmd.AddCommand(storeCmd)
	storeCmd.AddCommand(storeInitCmd, storeResetCmd)

	storeCmd.PersistentFlags().StringVar(&storeFlags.databaseURL, "database-url", "",
		"Destination store connection string (the metadata store defaults to it)")
	storeCmd.PersistentFlags().StringVar(&storeFlags.metadataURL, "metadata-url", "",
		"Metadata store connection string")
	storeResetCmd.Flags().BoolVar(&storeFlags.force, "force", false,
		"Skip the confirmation prompt (a countdown is shown instead)")
}

func runStoreReset(cmd *cobra.Command, args []string) error {
	var approver ingest.Approver
	if storeFlags.force {
		approver = ui.NewForcedApprover(getVerboseFlag(cmd))
	} else {
		approver = ui.NewInteractiveApprover(getVerboseFlag(cmd))
	}

	return withMetadataStore(cmd, func(ctx context.Context, a *app, ms *store.MetadataStore) error {
		return resetStore(ctx, a.logger, approver, ms)
	})
}

// schemaResetter is the part of the metadata store that reset needs.
type schemaResetter interface {
	Schema() string
	DropSchema(ctx context.Context) error
	EnsureSchema(ctx context.Context) error
}

func resetStore(ctx context.Context, logger ingest.Logger, approver ingest.Approver, ms schemaResetter) error {
	approved, err := approver.RequestApproval(ctx, ms.Schema())
	if err != nil {
		return err
	}
	if !approved {
		return fmt.Errorf("reset of %s: %w", ms.Schema(), ingest.ErrApprovalDenied)
	}

	if err := ms.DropSchema(ctx); err != nil {
		return err
	}
	if err := ms.EnsureSchema(ctx); err != nil {
		return err
	}
	logger.Info("✓ Provenance schema %s was reset", ms.Schema())
	return nil
}

func withMetadataStore(cmd *cobra.Command, fn func(context.Context, *app, *store.MetadataStore) error) error {
	a, err := loadApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	ctx := commandContext(cmd)
	metaCfg, _, err := a.connections(storeFlags.databaseURL, storeFlags.metadataURL)
	if err != nil {
		return err
	}
	session, err := services.NewSessionManager(db.NewConnector, a.logger).PrepareSession(ctx, metaCfg, metaCfg)
	if err != nil {
		return err
	}
	defer session.Close()

	return fn(ctx, a, store.NewMetadataStore(session.MetadataPool(), a.project.Schemas.Metadata))
}
