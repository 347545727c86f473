package cli

import (
	"strings"

	"github.com/spf13/cobra"
	"github.com/vvka-141/ingest/internal/config"
	"github.com/vvka-141/ingest/internal/files/filesystem"
	"github.com/vvka-141/ingest/internal/metadata"
	"github.com/vvka-141/ingest/internal/scaffold"
	"github.com/vvka-141/ingest/internal/tables"
)

func filterPrefix(candidates []string, prefix string) []string {
	var matches []string
	for _, c := range candidates {
		if strings.HasPrefix(c, prefix) {
			matches = append(matches, c)
		}
	}
	return matches
}

// completeTableNames completes the table argument, then the edition dates
// declared for it in the project's metadata document.
func completeTableNames(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	switch len(args) {
	case 0:
		return filterPrefix(tables.Builtin().Names(), toComplete), cobra.ShellCompDirectiveNoFileComp
	case 1:
		if cmd.Name() != "run" {
			return nil, cobra.ShellCompDirectiveNoFileComp
		}
		return filterPrefix(declaredEditionDates(getProjectDir(cmd), args[0]), toComplete), cobra.ShellCompDirectiveNoFileComp
	default:
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
}

func declaredEditionDates(dir, tableName string) []string {
	project, err := config.LoadOrDefault(dir)
	if err != nil {
		return nil
	}
	topic, err := metadata.Load(filesystem.NewOSFileSystem(), project.Path(project.MetadataFile))
	if err != nil {
		return nil
	}
	table, err := topic.Table(tableName)
	if err != nil {
		return nil
	}
	return table.EditionDates()
}

// completeTemplateNames provides shell completion for template names.
func completeTemplateNames(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	templates, err := scaffold.ListTemplates()
	if err != nil {
		return nil, cobra.ShellCompDirectiveError
	}
	return filterPrefix(templates, toComplete), cobra.ShellCompDirectiveNoFileComp
}

// completeDirectories provides shell completion for directory paths.
func completeDirectories(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	if len(args) > 0 {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	return nil, cobra.ShellCompDirectiveFilterDirs
}
