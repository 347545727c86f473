package tables

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"runtime"

	"github.com/vvka-141/ingest/internal/schema"
	"github.com/vvka-141/ingest/pkg/ingest"
)

// maxNullDescriptions bounds missing descriptions; more suggests a bad source file.
const maxNullDescriptions = 200

// naicsCode matches a 2 to 6 digit code, or a sector range such as 31-33.
var naicsCode = regexp.MustCompile(`^\d{2,6}$|^\d{2}-\d{2}$`)

// sourceColumns are the headings used by the Census NAICS workbooks.
var sourceColumns = map[string]string{
	"Code":        "code",
	"Title":       "title",
	"Description": "description",
}

// unnamedIndex is the heading of the row index left by the spreadsheet
// export. Converted CSVs keep it as an empty first heading.
const unnamedIndex = ""

func scriptPath() string {
	_, file, _, ok := runtime.Caller(0)
	return resolveScriptPath(file, ok, os.Stat, os.Executable)
}

// resolveScriptPath keeps the compiled-in source path only while that file
// exists. Binaries built with -trimpath, or run away from their checkout,
// record the executable instead.
func resolveScriptPath(file string, ok bool, stat func(string) (fs.FileInfo, error), executable func() (string, error)) string {
	if ok && filepath.IsAbs(file) {
		if _, err := stat(file); err == nil {
			return file
		}
	}
	if exe, err := executable(); err == nil {
		return exe
	}
	if ok {
		return file
	}
	return ""
}

// NAICSIndex is the NAICS index file. No cleanup is defined for it yet,
// so every run is a no-op.
func NAICSIndex() ingest.TableDefinition {
	return ingest.TableDefinition{
		Name:        "naics",
		Description: "NAICS index file (no cleanup defined)",
		FileType:    ingest.FileTypeCSV,
		WriteMode:   ingest.WriteReplace,
		Schema:      schema.New("naics", []schema.Field{{Name: "code", Type: ingest.FieldText}}),
		Transform: func(*ingest.Table) (ingest.TransformResult, error) {
			return ingest.NoOp("No cleanup function defined."), nil
		},
		ScriptPath: scriptPath(),
	}
}

// NAICSDescriptions is the code, title and description of every NAICS code.
func NAICSDescriptions() ingest.TableDefinition {
	return descriptionTable("naics_descriptions", "Title and description of every NAICS code")
}

// IndustryDetail shares the descriptions layout.
func IndustryDetail() ingest.TableDefinition {
	return descriptionTable("industry_detail", "NAICS industry detail")
}

func descriptionTable(name, description string) ingest.TableDefinition {
	return ingest.TableDefinition{
		Name:        name,
		Description: description,
		FileType:    ingest.FileTypeCSV,
		WriteMode:   ingest.WriteReplace,
		Schema:      DescriptionSchema(name),
		Transform:   CleanDescriptions,
		ScriptPath:  scriptPath(),
	}
}

// DescriptionSchema is the strict schema of a descriptions-layout table.
func DescriptionSchema(name string) *schema.Schema {
	return schema.New(name, []schema.Field{
		{Name: "code", Type: ingest.FieldText, Unique: true, Description: "NAICS code",
			Checks: []schema.Check{schema.MatchesPattern(naicsCode)}},
		{Name: "title", Type: ingest.FieldText, Description: "Industry title"},
		{Name: "description", Type: ingest.FieldText, Nullable: true, Description: "Industry description",
			Checks: []schema.Check{schema.MaxNulls(maxNullDescriptions)}},
	})
}

// CleanDescriptions renames the workbook headings and drops the exported
// row index. The raw table is not modified.
func CleanDescriptions(raw *ingest.Table) (ingest.TransformResult, error) {
	for from := range sourceColumns {
		if raw.ColumnIndex(from) < 0 {
			return ingest.TransformResult{}, fmt.Errorf("source column %q not found in %v", from, raw.Columns)
		}
	}
	cleaned := raw.Clone().Rename(sourceColumns).Drop(unnamedIndex)
	return ingest.Transformed(cleaned), nil
}
