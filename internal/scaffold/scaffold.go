package scaffold

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"github.com/vvka-141/ingest/internal/files/filesystem"
	"github.com/vvka-141/ingest/pkg/ingest"
)

//go:embed all:templates
var templatesFS embed.FS

// DefaultTemplate is used by `ingest init` when no template is named.
const DefaultTemplate = "naics"

// GetTemplatesFS returns the embedded templates filesystem for testing purposes.
func GetTemplatesFS() embed.FS {
	return templatesFS
}

// Scaffolder creates data projects from the embedded templates.
type Scaffolder struct {
	fs     filesystem.FileSystemProvider
	logger ingest.Logger
}

// NewScaffolder creates a Scaffolder writing through fsProvider.
func NewScaffolder(fsProvider filesystem.FileSystemProvider, logger ingest.Logger) *Scaffolder {
	if fsProvider == nil {
		panic("fsProvider cannot be nil")
	}
	if logger == nil {
		panic("logger cannot be nil")
	}
	return &Scaffolder{fs: fsProvider, logger: logger}
}

// CreateProject copies templateName into targetPath, which must be empty
// or absent. It returns the relative paths written, in lexical order.
func (s *Scaffolder) CreateProject(projectName, templateName, targetPath string) ([]string, error) {
	templatePath := path.Join("templates", templateName)
	if _, err := templatesFS.ReadDir(templatePath); err != nil {
		available, _ := ListTemplates()
		return nil, fmt.Errorf("template %q not found (available: %s): %w",
			templateName, strings.Join(available, ", "), ingest.ErrInvalidConfig)
	}

	isEmpty, err := s.isDirectoryEmpty(targetPath)
	if err != nil {
		return nil, fmt.Errorf("failed to check target directory: %w", err)
	}
	if !isEmpty {
		return nil, fmt.Errorf("target directory '%s' is not empty\n\ningest init requires an empty directory to avoid overwriting existing files: %w",
			targetPath, ingest.ErrInvalidConfig)
	}

	s.logger.Verbose("Creating project '%s' at %s with template '%s'", projectName, targetPath, templateName)

	written, err := s.copyTemplateFiles(templatePath, targetPath, projectName)
	if err != nil {
		return nil, fmt.Errorf("failed to copy template files: %w", err)
	}

	s.logger.Verbose("Project created successfully")
	return written, nil
}

func (s *Scaffolder) copyTemplateFiles(templatePath, targetPath, projectName string) ([]string, error) {
	var written []string
	err := fs.WalkDir(templatesFS, templatePath, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}

		relPath := strings.TrimPrefix(p, templatePath+"/")
		content, err := templatesFS.ReadFile(p)
		if err != nil {
			return fmt.Errorf("failed to read template file %s: %w", p, err)
		}

		s.logger.Verbose("Creating file: %s", relPath)
		target := filepath.Join(targetPath, filepath.FromSlash(relPath))
		if err := s.fs.WriteFile(target, []byte(processTemplate(string(content), projectName))); err != nil {
			return fmt.Errorf("failed to write file %s: %w", target, err)
		}
		written = append(written, relPath)
		return nil
	})
	sort.Strings(written)
	return written, err
}

func processTemplate(content, projectName string) string {
	return strings.ReplaceAll(content, "{{PROJECT_NAME}}", projectName)
}

// ListTemplates returns available template names.
func ListTemplates() ([]string, error) {
	entries, err := templatesFS.ReadDir("templates")
	if err != nil {
		return nil, err
	}

	var templates []string
	for _, entry := range entries {
		if entry.IsDir() {
			templates = append(templates, entry.Name())
		}
	}
	return templates, nil
}

// isDirectoryEmpty reports true for a missing or empty directory.
func (s *Scaffolder) isDirectoryEmpty(dir string) (bool, error) {
	info, err := s.fs.Stat(dir)
	if errors.Is(err, fs.ErrNotExist) {
		return true, nil
	}
	if err != nil {
		return false, err
	}
	if !info.IsDir() {
		return false, fmt.Errorf("path exists but is not a directory")
	}

	entries, err := s.fs.ReadDir(dir)
	if err != nil {
		return false, err
	}
	return len(entries) == 0, nil
}

// BuildFileTree renders relative paths as an indented tree under root.
func BuildFileTree(root string, relPaths []string) string {
	var sb strings.Builder
	sb.WriteString(root + "/\n")

	seen := make(map[string]bool)
	for _, rel := range relPaths {
		parts := strings.Split(rel, "/")
		for depth := range parts {
			key := strings.Join(parts[:depth+1], "/")
			if seen[key] {
				continue
			}
			seen[key] = true

			name := parts[depth]
			if depth < len(parts)-1 {
				name += "/"
			}
			sb.WriteString(strings.Repeat("    ", depth) + "├── " + name + "\n")
		}
	}
	return sb.String()
}
