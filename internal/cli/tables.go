package cli

import (
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"
	"github.com/vvka-141/ingest/internal/schema"
	"github.com/vvka-141/ingest/internal/tables"
	"github.com/vvka-141/ingest/internal/tui"
	"github.com/vvka-141/ingest/pkg/ingest"
)

var tablesCmd = &cobra.Command{
	Use:   "tables",
	Short: "List registered tables",
	Args:  noArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		registry := tables.Builtin()
		defs := make([]ingest.TableDefinition, 0, len(registry.Names()))
		for _, name := range registry.Names() {
			def, err := registry.Lookup(name)
			if err != nil {
				return err
			}
			defs = append(defs, def)
		}
		fmt.Fprint(cmd.OutOrStdout(), tui.NewRenderer().Tables(defs))
		return nil
	},
}

var describeCmd = &cobra.Command{
	Use:               "describe <table>",
	Short:             "Show a table's source, destination and schema contract",
	Args:              requireArgs("table"),
	ValidArgsFunction: completeTableNames,
	RunE: func(cmd *cobra.Command, args []string) error {
		def, err := tables.Builtin().Lookup(args[0])
		if err != nil {
			return err
		}
		fmt.Fprint(cmd.OutOrStdout(), describeTable(def, tui.NewRenderer()))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(tablesCmd)
	tablesCmd.AddCommand(describeCmd)
}

func describeTable(def ingest.TableDefinition, r tui.Renderer) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s\n", def.Name)
	if def.Description != "" {
		fmt.Fprintf(&b, "  %s\n", def.Description)
	}
	fmt.Fprintf(&b, "  File type:   %s\n", def.FileType)
	fmt.Fprintf(&b, "  Write mode:  %s\n", def.WriteMode)
	fmt.Fprintf(&b, "  Destination: %s\n", def.DestinationName())
	fmt.Fprintf(&b, "  Script:      %s\n\n", def.ScriptPath)

	headers := []string{"FIELD", "TYPE", "NULLABLE", "UNIQUE", "CHECKS"}
	var rows [][]string
	if s, ok := def.Schema.(*schema.Schema); ok {
		for _, f := range s.Fields() {
			checks := make([]string, 0, len(f.Checks))
			for _, c := range f.Checks {
				checks = append(checks, c.Name)
			}
			rows = append(rows, []string{f.Name, string(f.Type), yesNo(f.Nullable), yesNo(f.Unique), strings.Join(checks, ", ")})
		}
	} else {
		types := def.Schema.FieldTypes()
		names := make([]string, 0, len(types))
		for name := range types {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			rows = append(rows, []string{name, string(types[name]), "", "", ""})
		}
	}
	b.WriteString(r.Grid(headers, rows))
	return b.String()
}

func yesNo(v bool) string {
	if v {
		return "yes"
	}
	return "no"
}
