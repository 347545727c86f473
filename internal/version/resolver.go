// Package version resolves the source-control revision of the code that
// performs a load, for stamping provenance records.
package version

import (
	"errors"
	"os"
	"path/filepath"
	"runtime/debug"

	"github.com/go-git/go-git/v5"
	"github.com/vvka-141/ingest/pkg/ingest"
)

// ShortHashLength is the number of hex characters kept from a commit hash.
const ShortHashLength = 7

// GitResolver reads the revision from the git repository enclosing a script.
// When the script lives outside any repository it falls back to the VCS
// stamp embedded in the running binary. It never returns an error.
type GitResolver struct {
	logger ingest.Logger

	// buildInfo is swappable so tests do not depend on how the test binary was built.
	buildInfo func() (*debug.BuildInfo, bool)
}

var _ ingest.VersionResolver = (*GitResolver)(nil)

// NewGitResolver creates a resolver. Panics if logger is nil.
func NewGitResolver(logger ingest.Logger) *GitResolver {
	if logger == nil {
		panic("logger cannot be nil")
	}
	return &GitResolver{logger: logger, buildInfo: debug.ReadBuildInfo}
}

// Resolve returns the short HEAD hash of the repository containing
// scriptPath, ingest.VersionUncommitted when tracked files have local
// changes or the script itself is untracked, and ingest.VersionUnknown
// when no revision can be determined.
func (r *GitResolver) Resolve(scriptPath string) string {
	abs, err := filepath.Abs(scriptPath)
	if err != nil {
		r.logger.Verbose("version: cannot resolve %s: %v", scriptPath, err)
		return ingest.VersionUnknown
	}

	start := abs
	if info, err := os.Stat(abs); err != nil || !info.IsDir() {
		start = filepath.Dir(abs)
	}

	repo, err := git.PlainOpenWithOptions(start, &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		if errors.Is(err, git.ErrRepositoryNotExists) {
			r.logger.Verbose("version: %s is not inside a git repository, using build info", abs)
		} else {
			r.logger.Verbose("version: cannot open repository for %s: %v", abs, err)
		}
		return r.fromBuildInfo()
	}

	head, err := repo.Head()
	if err != nil {
		r.logger.Verbose("version: repository has no HEAD: %v", err)
		return ingest.VersionUnknown
	}
	hash := head.Hash().String()[:ShortHashLength]

	wt, err := repo.Worktree()
	if err != nil {
		// Bare repository: nothing can be modified locally.
		return hash
	}
	status, err := wt.Status()
	if err != nil {
		r.logger.Verbose("version: cannot read worktree status: %v", err)
		return ingest.VersionUnknown
	}

	if rel, err := filepath.Rel(wt.Filesystem.Root(), abs); err == nil {
		if fs, ok := status[filepath.ToSlash(rel)]; ok && fs.Worktree == git.Untracked {
			r.logger.Verbose("version: %s is not tracked", rel)
			return ingest.VersionUncommitted
		}
	}
	for path, fs := range status {
		if fs.Worktree == git.Untracked && fs.Staging == git.Untracked {
			continue
		}
		r.logger.Verbose("version: uncommitted change in %s", path)
		return ingest.VersionUncommitted
	}
	return hash
}

func (r *GitResolver) fromBuildInfo() string {
	info, ok := r.buildInfo()
	if !ok || info == nil {
		return ingest.VersionUnknown
	}
	var revision string
	var modified bool
	for _, s := range info.Settings {
		switch s.Key {
		case "vcs.revision":
			revision = s.Value
		case "vcs.modified":
			modified = s.Value == "true"
		}
	}
	if revision == "" {
		return ingest.VersionUnknown
	}
	if modified {
		return ingest.VersionUncommitted
	}
	if len(revision) > ShortHashLength {
		revision = revision[:ShortHashLength]
	}
	return revision
}

// Static always resolves to the same value. Useful in tests and for
// pinning the version of ad hoc runs.
type Static string

// Resolve returns the static value.
func (s Static) Resolve(string) string { return string(s) }
