package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

// executeCommand runs the root command with args and returns stdout and stderr.
func executeCommand(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	runFlags = runFlagValues{timeout: runFlags.timeout}
	editionsFlags = editionsFlagValues{}
	convertFlags = convertFlagValues{index: true}
	storeFlags = storeFlagValues{}
	initFlags = initFlagValues{template: initFlags.template}

	var stdout, stderr bytes.Buffer
	rootCmd.SetOut(&stdout)
	rootCmd.SetErr(&stderr)
	rootCmd.SetArgs(args)
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
		rootCmd.SetArgs(nil)
	})

	_, err := rootCmd.ExecuteC()
	return stdout.String(), stderr.String(), err
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

const projectMetadata = `name = "naics"
description = "North American Industry Classification System"

[tables.naics_descriptions]
description = "Title and description of every NAICS code"
schema = "naics"

[[tables.naics_descriptions.variables]]
name = "code"
description = "NAICS code"

[[tables.naics_descriptions.variables]]
name = "title"
description = "Industry title"

[[tables.naics_descriptions.variables]]
name = "description"
description = "Industry description"

[tables.naics_descriptions.editions.2022-01-01]
variables = ["code", "title", "description"]

[tables.naics_descriptions.editions.2017-01-01]
raw_path = "legacy/naics_2017.csv"
variables = ["code", "title", "description"]

[tables.naics]
description = "NAICS index file"

[[tables.naics.variables]]
name = "code"

[tables.naics.editions.2022-01-01]
variables = ["code"]
`

const descriptionsCSV = `,Code,Title,Description
0,11,"Agriculture, Forestry, Fishing and Hunting",Growing crops
1,111110,Soybean Farming,
2,31-33,Manufacturing,Transforming materials
`

// newProject lays out a project directory with a metadata document and the
// 2022 raw files at their conventional paths.
func newProject(t *testing.T) string {
	t.Helper()
	t.Setenv("INGEST_DATABASE_URL", "")
	t.Setenv("INGEST_METADATA_URL", "")
	t.Setenv("DATABASE_URL", "")

	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "metadata.toml"), projectMetadata)
	writeFile(t, filepath.Join(dir, "data", "naics_descriptions", "raw", "naics_descriptions_2022-01-01.csv"), descriptionsCSV)
	writeFile(t, filepath.Join(dir, "data", "naics", "raw", "naics_2022-01-01.csv"), "Code\n11\n")
	return dir
}
