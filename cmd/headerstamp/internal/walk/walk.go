// Package walk enumerates candidate files under a root and feeds them, one at
// a time, to the rewriter.
package walk

import (
	"context"
	"fmt"
	"io/fs"
	"path/filepath"
	"slices"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/albertocavalcante/headerstamp/cmd/headerstamp/internal/langs"
)

// Config configures the walker.
type Config struct {
	Root       string
	Languages  []string // nil = langs.DefaultLanguages
	Include    []string // extra doublestar patterns, relative to Root
	IgnoreDirs []string // additional dir prefixes to ignore
}

// Walker finds candidate files by extension or include pattern.
type Walker struct {
	root       string
	extensions map[string]bool
	include    []string
	ignoreDirs map[string]bool
}

// New creates a walker. Root is made absolute; include patterns are
// validated up front.
func New(cfg Config) (*Walker, error) {
	root, err := filepath.Abs(cfg.Root)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve root: %w", err)
	}
	for _, lang := range cfg.Languages {
		if !langs.Known(lang) {
			return nil, fmt.Errorf("unknown language %q (known: %s)", lang, strings.Join(langs.Names(), ", "))
		}
	}
	for _, p := range cfg.Include {
		if !doublestar.ValidatePattern(p) {
			return nil, fmt.Errorf("invalid include pattern %q", p)
		}
	}

	return &Walker{
		root:       root,
		extensions: langs.ExtensionSet(cfg.Languages),
		include:    slices.Clone(cfg.Include),
		ignoreDirs: langs.IgnoreDirSet(cfg.IgnoreDirs),
	}, nil
}

// Root returns the absolute root directory.
func (w *Walker) Root() string {
	return w.root
}

// IgnoredDir reports whether a directory with this base name is skipped.
func (w *Walker) IgnoredDir(name string) bool {
	for prefix := range w.ignoreDirs {
		if strings.HasPrefix(name, prefix) {
			return true
		}
	}
	return false
}

// Match reports whether the file at path is a candidate.
func (w *Walker) Match(path string) bool {
	if w.extensions[filepath.Ext(path)] {
		return true
	}
	if len(w.include) == 0 {
		return false
	}
	rel, err := filepath.Rel(w.root, path)
	if err != nil || strings.HasPrefix(rel, "..") {
		return false
	}
	rel = filepath.ToSlash(rel)
	for _, p := range w.include {
		if ok, _ := doublestar.Match(p, rel); ok {
			return true
		}
	}
	return false
}

// Walk returns the absolute paths of all candidate files, sorted.
func (w *Walker) Walk(ctx context.Context) ([]string, error) {
	var paths []string

	err := filepath.WalkDir(w.root, func(path string, d fs.DirEntry, err error) error {
		// Check context cancellation
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		if err != nil {
			return err
		}

		if d.IsDir() {
			if path != w.root && w.IgnoredDir(d.Name()) {
				return filepath.SkipDir
			}
			return nil
		}

		if !d.Type().IsRegular() {
			return nil
		}
		if w.Match(path) {
			paths = append(paths, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	slices.Sort(paths)
	return paths, nil
}
