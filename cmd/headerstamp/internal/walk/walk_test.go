package walk

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"slices"
	"testing"

	"github.com/albertocavalcante/headerstamp/pkg/rewrite"
)

func makeTree(t *testing.T, files ...string) string {
	t.Helper()
	root := t.TempDir()
	for _, f := range files {
		path := filepath.Join(root, filepath.FromSlash(f))
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(path, []byte("int x;\n"), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	return root
}

func relPaths(t *testing.T, root string, paths []string) []string {
	t.Helper()
	rel := make([]string, len(paths))
	for i, p := range paths {
		r, err := filepath.Rel(root, p)
		if err != nil {
			t.Fatal(err)
		}
		rel[i] = filepath.ToSlash(r)
	}
	return rel
}

func TestWalkDefaultLanguages(t *testing.T) {
	root := makeTree(t,
		"src/common/Logger.h",
		"src/common/Logger.cpp",
		"src/ui/MainWindow.h",
		"src/ui/MainWindow.hpp",
		"build/moc_predefs.h",
		".git/hooks/x.h",
		"node_modules/pkg/y.h",
		"README.md",
	)

	w, err := New(Config{Root: root})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	paths, err := w.Walk(context.Background())
	if err != nil {
		t.Fatalf("Walk() error = %v", err)
	}

	want := []string{"src/common/Logger.h", "src/ui/MainWindow.h"}
	if got := relPaths(t, root, paths); !slices.Equal(got, want) {
		t.Errorf("Walk() = %v, want %v", got, want)
	}
	for _, p := range paths {
		if !filepath.IsAbs(p) {
			t.Errorf("path %q is not absolute", p)
		}
	}
}

func TestWalkLanguagesAndInclude(t *testing.T) {
	root := makeTree(t,
		"a.h",
		"b.hpp",
		"c.cpp",
		"gen/templates/d.tmpl",
		"other/e.tmpl",
	)

	w, err := New(Config{
		Root:      root,
		Languages: []string{"header", "cpp-header"},
		Include:   []string{"gen/**/*.tmpl"},
	})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	paths, err := w.Walk(context.Background())
	if err != nil {
		t.Fatalf("Walk() error = %v", err)
	}

	want := []string{"a.h", "b.hpp", "gen/templates/d.tmpl"}
	if got := relPaths(t, root, paths); !slices.Equal(got, want) {
		t.Errorf("Walk() = %v, want %v", got, want)
	}
}

func TestWalkExtraIgnoreDirs(t *testing.T) {
	root := makeTree(t, "src/a.h", "generated/b.h")

	w, err := New(Config{Root: root, IgnoreDirs: []string{"generated"}})
	if err != nil {
		t.Fatal(err)
	}
	paths, err := w.Walk(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if got := relPaths(t, root, paths); !slices.Equal(got, []string{"src/a.h"}) {
		t.Errorf("Walk() = %v", got)
	}
}

func TestWalkRootNamedLikeIgnoredDir(t *testing.T) {
	parent := t.TempDir()
	root := filepath.Join(parent, "build")
	if err := os.MkdirAll(root, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(root, "a.h"), nil, 0o644); err != nil {
		t.Fatal(err)
	}

	w, err := New(Config{Root: root})
	if err != nil {
		t.Fatal(err)
	}
	paths, err := w.Walk(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(paths) != 1 {
		t.Errorf("the root itself must never be skipped, got %v", paths)
	}
}

func TestWalkCancelled(t *testing.T) {
	root := makeTree(t, "a.h")
	w, err := New(Config{Root: root})
	if err != nil {
		t.Fatal(err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := w.Walk(ctx); !errors.Is(err, context.Canceled) {
		t.Errorf("Walk() error = %v, want context.Canceled", err)
	}
}

func TestNewRejectsBadInput(t *testing.T) {
	if _, err := New(Config{Root: ".", Languages: []string{"cobol"}}); err == nil {
		t.Error("New() expected error for unknown language")
	}
	if _, err := New(Config{Root: ".", Include: []string{"src/[a"}}); err == nil {
		t.Error("New() expected error for invalid pattern")
	}
}

func TestMatchOutsideRoot(t *testing.T) {
	root := t.TempDir()
	w, err := New(Config{Root: root, Languages: []string{"cpp"}, Include: []string{"**/*.txt"}})
	if err != nil {
		t.Fatal(err)
	}
	if w.Match(filepath.Join(filepath.Dir(root), "x.txt")) {
		t.Error("paths outside the root should not match include patterns")
	}
	if !w.Match(filepath.Join(root, "x.txt")) {
		t.Error("include pattern should match inside the root")
	}
	if !w.Match(filepath.Join(root, "deep", "x.cpp")) {
		t.Error("extension should match")
	}
}

type fakeProcessor struct {
	results map[string]rewrite.Result
	failOn  string
	seen    []string
}

func (f *fakeProcessor) Rewrite(path string) (rewrite.Result, error) {
	f.seen = append(f.seen, path)
	if path == f.failOn {
		return rewrite.Result{Path: path}, rewrite.ErrWrite
	}
	res := f.results[path]
	res.Path = path
	return res, nil
}

func TestRunCounts(t *testing.T) {
	p := &fakeProcessor{results: map[string]rewrite.Result{
		"a": {Status: rewrite.StatusUpdated, Changed: true},
		"b": {Status: rewrite.StatusUpdated},
		"c": {Status: rewrite.StatusSkippedGenerated},
		"d": {Status: rewrite.StatusSkippedEncoding},
	}}

	var reported []string
	sum, err := Run(context.Background(), []string{"a", "b", "c", "d"}, p, func(r rewrite.Result) {
		reported = append(reported, r.Path)
	})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if sum.Total != 4 || sum.Updated != 2 || sum.Changed != 1 || sum.SkippedTotal() != 2 {
		t.Errorf("Run() summary = %+v", sum)
	}
	if sum.Skipped[rewrite.StatusSkippedGenerated] != 1 {
		t.Errorf("generated skips = %d", sum.Skipped[rewrite.StatusSkippedGenerated])
	}
	if !slices.Equal(reported, []string{"a", "b", "c", "d"}) {
		t.Errorf("reported = %v", reported)
	}
}

func TestRunStopsOnFirstError(t *testing.T) {
	p := &fakeProcessor{failOn: "b", results: map[string]rewrite.Result{}}

	sum, err := Run(context.Background(), []string{"a", "b", "c"}, p, nil)
	if !errors.Is(err, rewrite.ErrWrite) {
		t.Fatalf("Run() error = %v, want ErrWrite", err)
	}
	if sum.Total != 1 {
		t.Errorf("Total = %d, want 1", sum.Total)
	}
	if !slices.Equal(p.seen, []string{"a", "b"}) {
		t.Errorf("files after the failure must not be touched, seen %v", p.seen)
	}
}
