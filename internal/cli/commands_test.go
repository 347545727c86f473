package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vvka-141/ingest/pkg/ingest"
	"github.com/xuri/excelize/v2"
)

func TestTablesCmd(t *testing.T) {
	stdout, _, err := executeCommand(t, "tables")
	require.NoError(t, err)

	assert.Contains(t, stdout, "naics_descriptions")
	assert.Contains(t, stdout, "industry_detail")
	assert.Contains(t, stdout, "no cleanup defined")
}

func TestTablesDescribeCmd(t *testing.T) {
	stdout, _, err := executeCommand(t, "tables", "describe", "naics_descriptions")
	require.NoError(t, err)

	assert.Contains(t, stdout, "Write mode:  replace")
	assert.Contains(t, stdout, "naics.go")
	assert.Contains(t, stdout, "max_nulls")
	assert.Contains(t, stdout, "description")

	_, _, err = executeCommand(t, "tables", "describe", "acs_5yr")
	assert.True(t, errors.Is(err, ingest.ErrUnknownTable))
}

func TestEditionsCmd(t *testing.T) {
	dir := newProject(t)

	stdout, _, err := executeCommand(t, "editions", "naics_descriptions", "--dir", dir)
	require.NoError(t, err)

	assert.Contains(t, stdout, "2022-01-01")
	assert.Contains(t, stdout, "legacy/naics_2017.csv")
	assert.Contains(t, stdout, filepath.Join("data", "naics_descriptions", "raw", "naics_descriptions_2022-01-01.csv"))
	assert.Contains(t, stdout, "Raw files in")
	assert.Contains(t, stdout, "naics_descriptions_2022-01-01.csv")
}

func TestEditionsCmd_NoRawDirectory(t *testing.T) {
	dir := newProject(t)
	require.NoError(t, os.RemoveAll(filepath.Join(dir, "data", "naics_descriptions")))

	stdout, _, err := executeCommand(t, "editions", "naics_descriptions", "--dir", dir)
	require.NoError(t, err)
	assert.Contains(t, stdout, "No raw directory")
}

func TestEditionsCmd_UndeclaredTable(t *testing.T) {
	dir := newProject(t)

	_, _, err := executeCommand(t, "editions", "industry_detail", "--dir", dir)
	require.Error(t, err)
	assert.Equal(t, ingest.ExitMetadataError, ingest.ExitCodeForError(err))
}

func TestConvertCmd(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "naics.xlsx")

	f := excelize.NewFile()
	rows := [][]any{
		{"Code", "Title", "Description"},
		{"111110", "Soybean Farming", "Growing soybeans"},
		{"111120", "Oilseed (except Soybean) Farming", "Growing oilseeds"},
	}
	for i, row := range rows {
		r := row
		require.NoError(t, f.SetSheetRow("Sheet1", fmt.Sprintf("A%d", i+1), &r))
	}
	require.NoError(t, f.SaveAs(src))
	require.NoError(t, f.Close())

	dst := filepath.Join(dir, "data", "naics_descriptions", "raw", "naics_descriptions_2022-01-01.csv")
	_, stderr, err := executeCommand(t, "convert", src, dst, "--dir", dir)
	require.NoError(t, err)
	assert.Contains(t, stderr, "Converted 2 rows")

	got, err := os.ReadFile(dst)
	require.NoError(t, err)
	assert.Equal(t, ",Code,Title,Description\n0,111110,Soybean Farming,Growing soybeans\n1,111120,Oilseed (except Soybean) Farming,Growing oilseeds\n", string(got))

	plain := filepath.Join(dir, "plain.csv")
	_, _, err = executeCommand(t, "convert", src, plain, "--index=false", "--dir", dir)
	require.NoError(t, err)
	got, err = os.ReadFile(plain)
	require.NoError(t, err)
	assert.Equal(t, "Code,Title,Description\n", string(got[:len("Code,Title,Description\n")]))
}

func TestConvertCmd_MissingSource(t *testing.T) {
	dir := t.TempDir()

	_, _, err := executeCommand(t, "convert", filepath.Join(dir, "missing.xlsx"), filepath.Join(dir, "out.csv"), "--dir", dir)
	require.Error(t, err)
	assert.Equal(t, ingest.ExitSourceError, ingest.ExitCodeForError(err))
}

func TestInitCmd(t *testing.T) {
	target := filepath.Join(t.TempDir(), "census")

	stdout, _, err := executeCommand(t, "init", target)
	require.NoError(t, err)

	assert.Contains(t, stdout, "Created project census")
	assert.Contains(t, stdout, "metadata.toml")
	assert.FileExists(t, filepath.Join(target, "ingest.yaml"))
	assert.FileExists(t, filepath.Join(target, "data", "naics_descriptions", "raw", ".gitkeep"))

	_, _, err = executeCommand(t, "init", target)
	require.Error(t, err)
	assert.Equal(t, ingest.ExitConfigError, ingest.ExitCodeForError(err))
}

func TestInitCmd_TooManyArgs(t *testing.T) {
	_, _, err := executeCommand(t, "init", "a", "b")
	assert.True(t, errors.Is(err, ingest.ErrUsage))
}

func TestResolveVersionInfo_LdflagsOverride(t *testing.T) {
	original := version
	defer func() { version = original }()

	version = "1.2.3"
	v, _, _ := resolveVersionInfo()
	assert.Equal(t, "1.2.3", v)
}

func TestResolveVersionInfo_DevFallback(t *testing.T) {
	origV, origC, origD := version, commit, date
	defer func() { version, commit, date = origV, origC, origD }()

	version, commit, date = "dev", "unknown", "unknown"
	v, c, d := resolveVersionInfo()

	assert.NotEmpty(t, v)
	assert.NotEmpty(t, c)
	assert.NotEmpty(t, d)
}

func TestCompleteTableNames(t *testing.T) {
	matches, _ := completeTableNames(runCmd, nil, "naics_")
	assert.Equal(t, []string{"naics_descriptions"}, matches)

	dir := newProject(t)
	assert.Equal(t, []string{"2022-01-01", "2017-01-01"}, declaredEditionDates(dir, "naics_descriptions"))
	assert.Nil(t, declaredEditionDates(dir, "industry_detail"))
}
