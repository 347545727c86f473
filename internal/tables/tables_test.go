package tables

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vvka-141/ingest/internal/schema"
	"github.com/vvka-141/ingest/pkg/ingest"
)

func rawDescriptions(n, nullDescriptions int) *ingest.Table {
	t := ingest.NewTable("", "Code", "Title", "Description")
	for i := 0; i < n; i++ {
		var desc any = fmt.Sprintf("Description %d", i)
		if i < nullDescriptions {
			desc = nil
		}
		_ = t.AppendRow(fmt.Sprint(i), fmt.Sprintf("%06d", 111110+i), fmt.Sprintf("Industry %d", i), desc)
	}
	return t
}

func TestBuiltin(t *testing.T) {
	r := Builtin()
	assert.Equal(t, []string{"industry_detail", "naics", "naics_descriptions"}, r.Names())

	for _, name := range r.Names() {
		def, err := r.Lookup(name)
		require.NoError(t, err)
		assert.NoError(t, def.Validate())
		assert.Equal(t, "naics.go", filepath.Base(def.ScriptPath))
		assert.True(t, filepath.IsAbs(def.ScriptPath))
	}
	assert.Same(t, r, Builtin())
}

func TestLookup_Unknown(t *testing.T) {
	_, err := Builtin().Lookup("acs_5yr")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ingest.ErrUnknownTable))
	assert.Contains(t, err.Error(), "naics_descriptions")
}

func TestRegister(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Register(NAICSDescriptions()))

	err := r.Register(NAICSDescriptions())
	assert.True(t, errors.Is(err, ingest.ErrInvalidConfig))

	err = r.Register(ingest.TableDefinition{Name: "incomplete"})
	assert.True(t, errors.Is(err, ingest.ErrInvalidConfig))

	assert.Panics(t, func() { r.MustRegister(ingest.TableDefinition{}) })
}

func TestNAICSIndex_IsNoOp(t *testing.T) {
	result, err := NAICSIndex().Transform(ingest.NewTable("Code"))
	require.NoError(t, err)
	assert.True(t, result.IsNoOp())
	assert.Equal(t, "No cleanup function defined.", result.Reason())
}

func TestCleanDescriptions(t *testing.T) {
	raw := rawDescriptions(3, 1)

	result, err := CleanDescriptions(raw)
	require.NoError(t, err)
	require.False(t, result.IsNoOp())

	cleaned := result.Table()
	assert.Equal(t, []string{"code", "title", "description"}, cleaned.Columns)
	assert.Equal(t, []any{"111110", "Industry 0", nil}, cleaned.Rows[0])

	assert.Equal(t, []string{"", "Code", "Title", "Description"}, raw.Columns, "raw table must not change")
}

func TestCleanDescriptions_MissingSourceColumn(t *testing.T) {
	_, err := CleanDescriptions(ingest.NewTable("", "Code", "Title"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Description")
}

func TestDescriptions_ValidatesCleanedTable(t *testing.T) {
	def := NAICSDescriptions()

	result, err := def.Transform(rawDescriptions(300, 50))
	require.NoError(t, err)

	validated, err := def.Schema.Validate(result.Table())
	require.NoError(t, err)
	assert.Equal(t, 300, validated.Len())
}

func TestDescriptions_TooManyNullDescriptions(t *testing.T) {
	def := IndustryDetail()

	result, err := def.Transform(rawDescriptions(300, 200))
	require.NoError(t, err)

	_, err = def.Schema.Validate(result.Table())
	var verr *schema.ValidationError
	require.True(t, errors.As(err, &verr))
	assert.True(t, verr.HasRule("description", "max_nulls"))
}

func TestDescriptionSchema_CodeFormat(t *testing.T) {
	s := DescriptionSchema("naics_descriptions")
	table := ingest.NewTable("code", "title", "description")
	require.NoError(t, table.AppendRow("31-33", "Manufacturing", nil))
	require.NoError(t, table.AppendRow("11", "Agriculture", nil))
	require.NoError(t, table.AppendRow("1111100", "Too long", nil))

	_, err := s.Validate(table)
	var verr *schema.ValidationError
	require.True(t, errors.As(err, &verr))
	failures := verr.FailuresFor("code")
	require.Len(t, failures, 1)
	assert.Equal(t, []int{2}, failures[0].Rows)
}

func TestResolveScriptPath(t *testing.T) {
	exists := func(string) (fs.FileInfo, error) { return nil, nil }
	missing := func(name string) (fs.FileInfo, error) { return nil, &fs.PathError{Op: "stat", Path: name, Err: fs.ErrNotExist} }
	exe := func() (string, error) { return "/usr/local/bin/ingest", nil }
	noExe := func() (string, error) { return "", errors.New("executable unavailable") }

	tests := []struct {
		name       string
		file       string
		ok         bool
		stat       func(string) (fs.FileInfo, error)
		executable func() (string, error)
		want       string
	}{
		{"source file on disk", "/src/ingest/internal/tables/naics.go", true, exists, exe, "/src/ingest/internal/tables/naics.go"},
		{"trimmed build", "github.com/vvka-141/ingest/internal/tables/naics.go", true, exists, exe, "/usr/local/bin/ingest"},
		{"source moved away", "/build/ingest/internal/tables/naics.go", true, missing, exe, "/usr/local/bin/ingest"},
		{"no executable either", "github.com/vvka-141/ingest/internal/tables/naics.go", true, missing, noExe, "github.com/vvka-141/ingest/internal/tables/naics.go"},
		{"no caller", "", false, missing, noExe, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, resolveScriptPath(tt.file, tt.ok, tt.stat, tt.executable))
		})
	}
}

func TestResolveScriptPath_RealFiles(t *testing.T) {
	file := filepath.Join(t.TempDir(), "naics.go")
	require.NoError(t, os.WriteFile(file, []byte("package tables\n"), 0o644))
	exe := func() (string, error) { return "/usr/local/bin/ingest", nil }

	assert.Equal(t, file, resolveScriptPath(file, true, os.Stat, exe))
	assert.Equal(t, "/usr/local/bin/ingest", resolveScriptPath(file+".gone", true, os.Stat, exe))
}
