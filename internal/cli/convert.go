package cli

import (
	"github.com/spf13/cobra"
	"github.com/vvka-141/ingest/internal/files/filesystem"
	"github.com/vvka-141/ingest/internal/files/loader"
)

var convertCmd = &cobra.Command{
	Use:   "convert <xlsx_file> <csv_file>",
	Short: "Convert a spreadsheet to the CSV layout expected under data/<table>/raw",
	Long: `Convert reads one sheet of an .xlsx workbook and writes it as CSV.

By default a leading unnamed column holding the row number is written,
matching the layout the NAICS cleanup functions expect. Use --index=false
to write the sheet as is.

Examples:
  ingest convert 2022_NAICS_Descriptions.xlsx \
    data/naics_descriptions/raw/naics_descriptions_2022-01-01.csv

  ingest convert workbook.xlsx out.csv --sheet "Sheet2" --index=false`,
	Args: requireArgs("xlsx_file", "csv_file"),
	RunE: runConvert,
}

type convertFlagValues struct {
	sheet string
	index bool
}

var convertFlags convertFlagValues

func init() {
	rootCmd.AddCommand(convertCmd)

	convertCmd.Flags().StringVar(&convertFlags.sheet, "sheet", "",
		"Sheet to convert (default: the first sheet)")
	convertCmd.Flags().BoolVar(&convertFlags.index, "index", true,
		"Write a leading unnamed row-number column")
}

func runConvert(cmd *cobra.Command, args []string) error {
	a, err := loadApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	src, dst := args[0], args[1]
	fsProvider := filesystem.NewOSFileSystem()

	a.logger.Verbose("Converting %s (sheet %q) to %s", src, convertFlags.sheet, dst)
	rows, err := loader.NewLoader(fsProvider).ConvertWorkbook(src, dst, loader.ConvertOptions{
		Sheet:     convertFlags.sheet,
		WithIndex: convertFlags.index,
	})
	if err != nil {
		return err
	}

	a.logger.Info("✓ Converted %d rows from %s to %s", rows, src, dst)
	return nil
}
