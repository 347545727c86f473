package cli

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/vvka-141/ingest/internal/checksum"
	"github.com/vvka-141/ingest/internal/db"
	"github.com/vvka-141/ingest/internal/files/filesystem"
	"github.com/vvka-141/ingest/internal/files/scanner"
	"github.com/vvka-141/ingest/internal/metadata"
	"github.com/vvka-141/ingest/internal/services"
	"github.com/vvka-141/ingest/internal/store"
	"github.com/vvka-141/ingest/internal/tui"
	"github.com/vvka-141/ingest/pkg/ingest"
)

var editionsCmd = &cobra.Command{
	Use:   "editions <table>",
	Short: "List the editions of a table",
	Long: `Editions lists what is known about the editions of a table:

  declared   editions in the project's metadata document, with the raw
             file each one resolves to
  raw files  files found under data/<table>/raw, with the edition date
             guessed from the file name and their SHA-256 checksum
  recorded   provenance records in the metadata store (--recorded)

Examples:
  ingest editions naics_descriptions
  ingest editions naics_descriptions --recorded --metadata-url postgresql://db/meta`,
	Args:              requireArgs("table"),
	ValidArgsFunction: completeTableNames,
	RunE:              runEditions,
}

type editionsFlagValues struct {
	recorded    bool
	databaseURL string
	metadataURL string
}

var editionsFlags editionsFlagValues

func init() {
	rootCmd.AddCommand(editionsCmd)

	editionsCmd.Flags().BoolVar(&editionsFlags.recorded, "recorded", false,
		"Also list the provenance records in the metadata store")
	editionsCmd.Flags().StringVar(&editionsFlags.databaseURL, "database-url", "",
		"Destination store connection string (the metadata store defaults to it)")
	editionsCmd.Flags().StringVar(&editionsFlags.metadataURL, "metadata-url", "",
		"Metadata store connection string")
}

func runEditions(cmd *cobra.Command, args []string) error {
	a, err := loadApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	tableName := args[0]
	fsProvider := filesystem.NewOSFileSystem()
	r := tui.NewRenderer()
	out := cmd.OutOrStdout()

	topic, err := metadata.Load(fsProvider, a.project.Path(a.project.MetadataFile))
	if err != nil {
		return err
	}
	table, err := topic.Table(tableName)
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "Declared editions of %s (%s)\n", tableName, topic.Source())
	fmt.Fprint(out, r.Grid([]string{"DATE", "RAW FILE", "PRESENT"}, declaredRows(fsProvider, a, table)))

	rawDir := a.project.Path(filepath.Join(a.project.DataDir, tableName, "raw"))
	files, err := scanner.NewScanner(checksum.New(), fsProvider).ScanDirectory(rawDir)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		fmt.Fprintf(out, "\nNo raw directory at %s\n", rawDir)
	case err != nil:
		return fmt.Errorf("scan %s: %v: %w", rawDir, err, ingest.ErrSourceIO)
	default:
		fmt.Fprintf(out, "\nRaw files in %s\n", rawDir)
		fmt.Fprint(out, r.Grid([]string{"FILE", "EDITION", "SIZE", "SHA-256"}, rawFileRows(files)))
	}

	if !editionsFlags.recorded {
		return nil
	}

	records, err := recordedEditions(commandContext(cmd), a, topic.Name, tableName)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "\nRecorded editions in schema %s\n", a.project.Schemas.Metadata)
	fmt.Fprint(out, r.Grid([]string{"DATE", "VERSION", "RECORDS", "RUN ID", "RECORDED AT"}, recordRows(records)))
	return nil
}

func declaredRows(fsProvider filesystem.FileSystemProvider, a *app, table *metadata.Table) [][]string {
	var rows [][]string
	for _, date := range table.EditionDates() {
		edition, _ := table.Edition(date)
		raw := edition.RawPath
		if raw == "" {
			raw = services.ConventionalRawPath(a.project.DataDir, table.Name, date)
		}
		_, statErr := fsProvider.Stat(a.project.Path(raw))
		rows = append(rows, []string{date, raw, yesNo(statErr == nil)})
	}
	return rows
}

func rawFileRows(files []scanner.RawFile) [][]string {
	rows := make([][]string, 0, len(files))
	for _, f := range files {
		sum := strings.TrimPrefix(f.Checksum, checksum.Prefix)
		if len(sum) > 12 {
			sum = sum[:12]
		}
		rows = append(rows, []string{f.RelativePath, f.EditionHint, fmt.Sprint(f.SizeBytes), sum})
	}
	return rows
}

func recordRows(records []ingest.EditionRecord) [][]string {
	rows := make([][]string, 0, len(records))
	for _, rec := range records {
		rows = append(rows, []string{
			rec.EditionDate, rec.Version, fmt.Sprint(rec.NumRecords),
			rec.RunID.String(), rec.RecordedAt.Format("2006-01-02 15:04:05Z07:00"),
		})
	}
	return rows
}

func recordedEditions(ctx context.Context, a *app, topic, table string) ([]ingest.EditionRecord, error) {
	metaCfg, _, err := a.connections(editionsFlags.databaseURL, editionsFlags.metadataURL)
	if err != nil {
		return nil, err
	}
	session, err := services.NewSessionManager(db.NewConnector, a.logger).PrepareSession(ctx, metaCfg, metaCfg)
	if err != nil {
		return nil, err
	}
	defer session.Close()

	return store.NewMetadataStore(session.MetadataPool(), a.project.Schemas.Metadata).ListEditions(ctx, topic, table)
}
