// Package walk finds the documents to format under a root directory.
package walk

import (
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"path"
	"path/filepath"
	"slices"
	"sort"
	"strings"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/osfs"
	"github.com/go-git/go-billy/v5/util"
	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/format/gitignore"
)

var ErrRootNotFound = errors.New("root does not exist")

const (
	gitignoreFile   = ".gitignore"
	infoExcludeFile = ".git/info/exclude"
)

// Options selects which files are candidates.
type Options struct {
	Extensions  []string // e.g. ".mdx"; matched case-insensitively
	ExcludeDirs []string // directory names skipped at any depth
	Gitignore   bool     // honor .gitignore and .git/info/exclude
	Log         *log.Logger
}

// Root is a user-supplied path opened as a filesystem. When the path names
// a single file, FS is rooted at its directory and File is its name.
type Root struct {
	Path string
	FS   billy.Filesystem
	File string

	// Worktree is the enclosing git worktree, if any, and Base the path of
	// FS inside it. Ignore files above the root are read from there.
	Worktree billy.Filesystem
	Base     []string
}

// Open opens path on the host filesystem.
func Open(p string) (*Root, error) {
	abs, err := filepath.Abs(p)
	if err != nil {
		return nil, err
	}
	fi, err := os.Stat(abs)
	if errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", ErrRootNotFound, filepath.ToSlash(abs))
	}
	if err != nil {
		return nil, err
	}
	if !fi.IsDir() {
		// Open the link target so a rewrite replaces the target, not the link.
		target, err := filepath.EvalSymlinks(abs)
		if err != nil {
			return nil, err
		}
		return &Root{Path: p, FS: osfs.New(filepath.Dir(target)), File: filepath.Base(target)}, nil
	}
	r := &Root{Path: p, FS: osfs.New(abs)}
	r.Worktree, r.Base = findWorktree(abs)
	return r, nil
}

// findWorktree returns the git worktree containing dir and the slash
// components of dir inside it, or nil when dir is not in a worktree.
func findWorktree(dir string) (billy.Filesystem, []string) {
	repo, err := git.PlainOpenWithOptions(dir, &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		return nil, nil
	}
	wt, err := repo.Worktree()
	if err != nil {
		return nil, nil
	}
	rel, err := filepath.Rel(wt.Filesystem.Root(), dir)
	if err != nil {
		return nil, nil
	}
	rel = filepath.ToSlash(rel)
	if rel == ".." || strings.HasPrefix(rel, "../") {
		return nil, nil
	}
	if rel == "." {
		return wt.Filesystem, nil
	}
	return wt.Filesystem, strings.Split(rel, "/")
}

// Files lists the candidate documents of the root, relative to r.FS. An
// explicitly named file is always a candidate.
func (r *Root) Files(opts Options) ([]string, error) {
	if r.File != "" {
		return []string{r.File}, nil
	}
	if r.Worktree == nil {
		return Files(r.FS, opts)
	}
	return files(r.FS, r.Worktree, r.Base, opts)
}

// Display returns the path of a file for reports: the root as the user
// typed it joined with the file, using forward slashes.
func (r *Root) Display(name string) string {
	if r.File != "" {
		return filepath.ToSlash(r.Path)
	}
	return filepath.ToSlash(filepath.Join(r.Path, name))
}

// Abs returns the host path of a file of the root, for telling apart files
// reached through overlapping roots.
func (r *Root) Abs(name string) string {
	return filepath.Join(r.FS.Root(), filepath.FromSlash(name))
}

// Files walks fs from its root and returns the sorted slash-separated
// paths of every candidate document.
func Files(fs billy.Filesystem, opts Options) ([]string, error) {
	return files(fs, fs, nil, opts)
}

// files walks fs, which is the directory base of ignoreFS.
func files(fs, ignoreFS billy.Filesystem, base []string, opts Options) ([]string, error) {
	logger := opts.Log
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	exts := make(map[string]bool, len(opts.Extensions))
	for _, e := range opts.Extensions {
		exts[strings.ToLower(e)] = true
	}
	excluded := make(map[string]bool, len(opts.ExcludeDirs))
	for _, d := range opts.ExcludeDirs {
		excluded[d] = true
	}

	var matcher gitignore.Matcher
	if opts.Gitignore {
		patterns, err := ignorePatterns(ignoreFS, base)
		if err != nil {
			return nil, fmt.Errorf("read ignore patterns: %w", err)
		}
		matcher = gitignore.NewMatcher(patterns)
	}
	ignored := func(rel string, isDir bool) bool {
		if matcher == nil {
			return false
		}
		return matcher.Match(append(slices.Clip(base), strings.Split(rel, "/")...), isDir)
	}

	var out []string
	err := util.Walk(fs, ".", func(p string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if p == "." {
			return nil
		}
		rel := filepath.ToSlash(p)
		if info.IsDir() {
			if excluded[info.Name()] {
				logger.Printf("skip %s/: excluded directory", rel)
				return filepath.SkipDir
			}
			if ignored(rel, true) {
				logger.Printf("skip %s/: ignored", rel)
				return filepath.SkipDir
			}
			return nil
		}
		if !info.Mode().IsRegular() {
			return nil
		}
		if !exts[strings.ToLower(path.Ext(rel))] {
			return nil
		}
		if ignored(rel, false) {
			logger.Printf("skip %s: ignored", rel)
			return nil
		}
		out = append(out, rel)
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Strings(out)
	return out, nil
}

// ignorePatterns collects the patterns that apply at base and below, lowest
// priority first: .git/info/exclude and every .gitignore from the top of fs
// down to base, then whatever gitignore.ReadPatterns finds under base.
func ignorePatterns(fs billy.Filesystem, base []string) ([]gitignore.Pattern, error) {
	var ps []gitignore.Pattern
	if len(base) > 0 {
		ps = append(ps, readIgnoreFile(fs, nil, infoExcludeFile)...)
		for i := range base {
			ps = append(ps, readIgnoreFile(fs, base[:i], gitignoreFile)...)
		}
	}
	below, err := gitignore.ReadPatterns(fs, base)
	if err != nil {
		return nil, err
	}
	return append(ps, below...), nil
}

// readIgnoreFile parses one ignore file in the directory domain. A missing
// or unreadable file contributes no patterns.
func readIgnoreFile(fs billy.Filesystem, domain []string, name string) []gitignore.Pattern {
	data, err := util.ReadFile(fs, path.Join(append(slices.Clone(domain), name)...))
	if err != nil {
		return nil
	}
	var ps []gitignore.Pattern
	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSuffix(line, "\r")
		if strings.TrimSpace(line) == "" || strings.HasPrefix(line, "#") {
			continue
		}
		ps = append(ps, gitignore.ParsePattern(line, domain))
	}
	return ps
}
