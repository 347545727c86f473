package cli

import (
	"fmt"

	"github.com/vvka-141/ingest/internal/files/filesystem"
	"github.com/vvka-141/ingest/internal/metadata"
	"github.com/vvka-141/ingest/pkg/ingest"
)

// emitMetadata writes the document at source to target with the facts of
// rec stamped onto its edition. The format follows target's extension.
func emitMetadata(fs filesystem.FileSystemProvider, source, target string, rec *ingest.EditionRecord) error {
	if rec == nil {
		return fmt.Errorf("no provenance record to emit: %w", ingest.ErrInvalidConfig)
	}
	format, err := metadata.FormatForPath(target)
	if err != nil {
		return err
	}

	topic, err := metadata.Load(fs, source)
	if err != nil {
		return err
	}
	table, err := topic.Table(rec.Table)
	if err != nil {
		return err
	}
	edition, err := table.Edition(rec.EditionDate)
	if err != nil {
		return err
	}

	if table.Schema == "" {
		table.Schema = rec.SchemaName
	}
	for _, v := range rec.Variables {
		if declared := table.Variable(v.Name); declared != nil {
			declared.DataType = string(v.DataType)
		}
	}
	edition.RawPath = rec.RawPath
	edition.RawChecksum = rec.RawChecksum
	edition.Version = rec.Version
	edition.ScriptPath = rec.ScriptPath
	edition.NumRecords = rec.NumRecords

	data, err := metadata.Encode(topic, format)
	if err != nil {
		return err
	}
	if err := fs.WriteFile(target, data); err != nil {
		return fmt.Errorf("failed to write %s: %v: %w", target, err, ingest.ErrSourceIO)
	}
	return nil
}
