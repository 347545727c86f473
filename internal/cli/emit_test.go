package cli

import (
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vvka-141/ingest/internal/files/filesystem"
	"github.com/vvka-141/ingest/internal/metadata"
	"github.com/vvka-141/ingest/pkg/ingest"
)

func emittedRecord() *ingest.EditionRecord {
	return &ingest.EditionRecord{
		Topic:       "naics",
		Table:       "naics_descriptions",
		SchemaName:  "naics",
		EditionDate: "2022-01-01",
		Variables: []ingest.VariableRecord{
			{Name: "code", DataType: ingest.FieldText},
			{Name: "title", DataType: ingest.FieldText},
			{Name: "description", DataType: ingest.FieldText},
		},
		RawPath:     "data/naics_descriptions/raw/naics_descriptions_2022-01-01.csv",
		RawChecksum: "9f86d081884c",
		Version:     "abc1234",
		ScriptPath:  "/src/internal/tables/naics.go",
		NumRecords:  3,
		RunID:       uuid.New(),
	}
}

func TestEmitMetadata(t *testing.T) {
	for _, target := range []string{"/p/metadata.lock.toml", "/p/metadata.lock.yaml"} {
		t.Run(target, func(t *testing.T) {
			mfs := filesystem.NewMemoryFileSystem("/p")
			mfs.AddFile("/p/metadata.toml", projectMetadata)

			require.NoError(t, emitMetadata(mfs, "/p/metadata.toml", target, emittedRecord()))

			topic, err := metadata.Load(mfs, target)
			require.NoError(t, err)
			table, err := topic.Table("naics_descriptions")
			require.NoError(t, err)
			edition, err := table.Edition("2022-01-01")
			require.NoError(t, err)

			assert.Equal(t, "abc1234", edition.Version)
			assert.Equal(t, 3, edition.NumRecords)
			assert.Equal(t, "9f86d081884c", edition.RawChecksum)
			assert.Equal(t, "data/naics_descriptions/raw/naics_descriptions_2022-01-01.csv", edition.RawPath)
			assert.Equal(t, "text", table.Variable("title").DataType)
			assert.NoError(t, metadata.ValidateEdition(topic, edition))

			other, err := table.Edition("2017-01-01")
			require.NoError(t, err)
			assert.Empty(t, other.Version, "other editions are left alone")
		})
	}
}

func TestEmitMetadata_Errors(t *testing.T) {
	mfs := filesystem.NewMemoryFileSystem("/p")
	mfs.AddFile("/p/metadata.toml", projectMetadata)

	err := emitMetadata(mfs, "/p/metadata.toml", "/p/out.toml", nil)
	assert.True(t, errors.Is(err, ingest.ErrInvalidConfig))

	err = emitMetadata(mfs, "/p/metadata.toml", "/p/out.json", emittedRecord())
	assert.True(t, errors.Is(err, ingest.ErrInvalidConfig))

	rec := emittedRecord()
	rec.EditionDate = "1997-01-01"
	err = emitMetadata(mfs, "/p/metadata.toml", "/p/out.toml", rec)
	assert.True(t, errors.Is(err, ingest.ErrEditionNotFound))
}
