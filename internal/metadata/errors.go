package metadata

import (
	"errors"
	"fmt"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/go-playground/validator/v10"
	"github.com/vvka-141/ingest/pkg/ingest"
)

// MetadataError describes a malformed metadata document with context and
// an actionable hint.
type MetadataError struct {
	FilePath string   // Document path
	Line     int      // Line number (0 if unknown)
	Level    string   // "document", "topic", "table" or "edition"
	Key      string   // Table name or edition date, if applicable
	Problems []string // One entry per violated constraint
	Hint     string   // Actionable suggestion for fixing
}

// Error implements the error interface with rich formatting.
func (e *MetadataError) Error() string {
	location := e.FilePath
	if location == "" {
		location = "metadata document"
	}
	if e.Line > 0 {
		location = fmt.Sprintf("%s (line %d)", location, e.Line)
	}

	subject := e.Level
	if e.Key != "" {
		subject = fmt.Sprintf("%s %q", e.Level, e.Key)
	}

	var msg strings.Builder
	fmt.Fprintf(&msg, "invalid %s in %s", subject, location)
	if len(e.Problems) == 1 {
		fmt.Fprintf(&msg, ": %s", e.Problems[0])
	} else {
		msg.WriteString(":")
		for i, p := range e.Problems {
			fmt.Fprintf(&msg, "\n  %d. %s", i+1, p)
		}
	}
	if e.Hint != "" {
		msg.WriteString("\n\nHint: " + e.Hint)
	}
	return msg.String()
}

// Is makes the error match ingest.ErrInvalidMetadata.
func (e *MetadataError) Is(target error) bool {
	return target == ingest.ErrInvalidMetadata
}

// wrapDecodeError converts decoder errors to MetadataError, keeping the
// line number when the decoder reports one.
func wrapDecodeError(err error, filePath string) error {
	var parseErr toml.ParseError
	if errors.As(err, &parseErr) {
		return &MetadataError{
			FilePath: filePath,
			Line:     parseErr.Position.Line,
			Level:    "document",
			Problems: []string{parseErr.Message},
			Hint:     "Check TOML syntax: quoted strings, [tables.<name>] headers, and [[tables.<name>.variables]] arrays.",
		}
	}
	return &MetadataError{
		FilePath: filePath,
		Level:    "document",
		Problems: []string{err.Error()},
		Hint:     "Verify the document structure: name, description, and a tables mapping.",
	}
}

// unknownKeysError rejects TOML keys that match no document field, the same
// way YAML decoding does with KnownFields.
func unknownKeysError(keys []toml.Key) error {
	problems := make([]string, 0, len(keys))
	for _, k := range keys {
		problems = append(problems, fmt.Sprintf("unknown key %s", k))
	}
	return &MetadataError{
		Level:    "document",
		Problems: problems,
		Hint:     "Check key spelling, e.g. raw_path, variables, data_type.",
	}
}

// shapeError converts validator failures to a MetadataError.
func shapeError(err error, filePath, level, key string) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("failed to validate %s %q: %w", level, key, err)
	}

	problems := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		problems = append(problems, describe(fe))
	}
	return &MetadataError{
		FilePath: filePath,
		Level:    level,
		Key:      key,
		Problems: problems,
		Hint:     hintFor(level),
	}
}

func describe(fe validator.FieldError) string {
	field := fe.Namespace()
	if i := strings.Index(field, "."); i >= 0 {
		field = field[i+1:]
	}
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "min":
		return fmt.Sprintf("%s must have at least %s entries", field, fe.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of [%s], got %v", field, fe.Param(), fe.Value())
	case "gte":
		return fmt.Sprintf("%s must be >= %s, got %v", field, fe.Param(), fe.Value())
	default:
		return fmt.Sprintf("%s failed %q", field, fe.Tag())
	}
}

func hintFor(level string) string {
	switch level {
	case "topic":
		return "The document needs a name and at least one [tables.<name>] entry."
	case "table":
		return "Each table needs a description and at least one [[tables.<name>.variables]] entry with a name."
	case "edition":
		return "Each edition needs a raw_path and the list of variables present in the file."
	default:
		return ""
	}
}
