package provenance

import (
	"fmt"
	"strings"

	"github.com/vvka-141/ingest/pkg/ingest"
)

// DriftError reports a variable named in the metadata document that the
// schema does not declare, or an edition variable the table does not declare.
type DriftError struct {
	Table    string
	Edition  string   // Set when the drift is in an edition's variable list
	Variable string   // Offending name
	Known    []string // Names that would have matched
}

func (e *DriftError) Error() string {
	where := fmt.Sprintf("table %q", e.Table)
	source := "schema fields"
	if e.Edition != "" {
		where = fmt.Sprintf("edition %q of table %q", e.Edition, e.Table)
		source = "table variables"
	}
	return fmt.Sprintf("metadata drift in %s: variable %q has no match among %s [%s]",
		where, e.Variable, source, strings.Join(e.Known, ", "))
}

// Is makes the error match ingest.ErrMetadataDrift.
func (e *DriftError) Is(target error) bool {
	return target == ingest.ErrMetadataDrift
}
