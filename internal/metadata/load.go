package metadata

import (
	"bytes"
	"fmt"
	"path/filepath"
	"reflect"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/vvka-141/ingest/internal/files/filesystem"
	"github.com/vvka-141/ingest/pkg/ingest"
	"gopkg.in/yaml.v3"
)

// Format is the encoding of a metadata document.
type Format int

const (
	FormatTOML Format = iota
	FormatYAML
)

// FormatForPath picks the format from the file extension.
func FormatForPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		return FormatTOML, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	default:
		return 0, fmt.Errorf("unsupported metadata document %s (want .toml, .yaml or .yml): %w", path, ingest.ErrInvalidConfig)
	}
}

// Load reads and decodes the metadata document at path.
// Only decoding is done here; shape validation happens during auditing.
func Load(fs filesystem.FileSystemProvider, path string) (*Topic, error) {
	format, err := FormatForPath(path)
	if err != nil {
		return nil, err
	}

	data, err := fs.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read metadata document %s: %v: %w", path, err, ingest.ErrSourceIO)
	}

	topic, err := Decode(data, format)
	if err != nil {
		if me, ok := err.(*MetadataError); ok {
			me.FilePath = path
		}
		return nil, err
	}
	topic.source = path
	return topic, nil
}

// Decode parses a document and fills table names and edition dates from
// their map keys.
func Decode(data []byte, format Format) (*Topic, error) {
	var topic Topic
	var err error
	switch format {
	case FormatTOML:
		var md toml.MetaData
		md, err = toml.Decode(string(data), &topic)
		if err == nil {
			if unknown := md.Undecoded(); len(unknown) > 0 {
				return nil, unknownKeysError(unknown)
			}
		}
	case FormatYAML:
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		err = dec.Decode(&topic)
	default:
		err = fmt.Errorf("unknown metadata format %d", format)
	}
	if err != nil {
		return nil, wrapDecodeError(err, "")
	}

	for name, table := range topic.Tables {
		if table == nil {
			continue
		}
		if table.Name == "" {
			table.Name = name
		}
		for date, edition := range table.Editions {
			if edition != nil && edition.Date == "" {
				edition.Date = date
			}
		}
	}
	return &topic, nil
}

// Encode renders the document, including pipeline-derived edition facts.
func Encode(t *Topic, format Format) ([]byte, error) {
	var buf bytes.Buffer
	switch format {
	case FormatTOML:
		if err := toml.NewEncoder(&buf).Encode(t); err != nil {
			return nil, fmt.Errorf("failed to encode metadata as TOML: %w", err)
		}
	case FormatYAML:
		enc := yaml.NewEncoder(&buf)
		enc.SetIndent(2)
		if err := enc.Encode(t); err != nil {
			return nil, fmt.Errorf("failed to encode metadata as YAML: %w", err)
		}
		if err := enc.Close(); err != nil {
			return nil, fmt.Errorf("failed to encode metadata as YAML: %w", err)
		}
	default:
		return nil, fmt.Errorf("unknown metadata format %d", format)
	}
	return buf.Bytes(), nil
}

// tagName reports fields by their document key in validation messages.
func tagName(f reflect.StructField) string {
	name := strings.SplitN(f.Tag.Get("toml"), ",", 2)[0]
	if name == "-" {
		return ""
	}
	if name == "" {
		return f.Name
	}
	return name
}
