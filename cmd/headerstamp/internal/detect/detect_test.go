package detect_test

import (
	"os"
	"path/filepath"
	"slices"
	"testing"

	"github.com/albertocavalcante/headerstamp/cmd/headerstamp/internal/detect"
)

func createFile(t *testing.T, root, rel string) {
	t.Helper()
	path := filepath.Join(root, filepath.FromSlash(rel))
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, nil, 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestLanguages_Empty(t *testing.T) {
	langs, err := detect.Languages(t.TempDir())
	if err != nil {
		t.Fatalf("Languages() error = %v", err)
	}
	if len(langs) != 0 {
		t.Errorf("Languages() = %v, want empty", langs)
	}
}

func TestLanguages_QtProject(t *testing.T) {
	tmpDir := t.TempDir()
	createFile(t, tmpDir, "src/common/Logger.h")
	createFile(t, tmpDir, "src/common/Logger.cpp")
	createFile(t, tmpDir, "src/ui/MainWindow.h")
	createFile(t, tmpDir, "src/ui/widget.hpp")
	createFile(t, tmpDir, "CMakeLists.txt")
	createFile(t, tmpDir, "build/moc_predefs.h")
	createFile(t, tmpDir, ".git/hooks/x.c")

	langs, err := detect.Languages(tmpDir)
	if err != nil {
		t.Fatalf("Languages() error = %v", err)
	}
	want := []string{"cpp", "cpp-header", "header"}
	if !slices.Equal(langs, want) {
		t.Errorf("Languages() = %v, want %v", langs, want)
	}
}

func TestCount(t *testing.T) {
	tmpDir := t.TempDir()
	createFile(t, tmpDir, "a.h")
	createFile(t, tmpDir, "b.h")
	createFile(t, tmpDir, "node_modules/c.h")
	createFile(t, tmpDir, "x/Main.java")

	counts, err := detect.Count(tmpDir)
	if err != nil {
		t.Fatalf("Count() error = %v", err)
	}
	if counts["header"] != 2 || counts["java"] != 1 || len(counts) != 2 {
		t.Errorf("Count() = %v", counts)
	}
}

func TestLanguages_MissingRoot(t *testing.T) {
	if _, err := detect.Languages(filepath.Join(t.TempDir(), "missing")); err == nil {
		t.Error("Languages() expected error for missing root")
	}
}
