package watch

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/albertocavalcante/headerstamp/cmd/headerstamp/internal/incremental"
	"github.com/albertocavalcante/headerstamp/cmd/headerstamp/internal/report"
	"github.com/albertocavalcante/headerstamp/cmd/headerstamp/internal/walk"
	"github.com/albertocavalcante/headerstamp/pkg/rewrite"
)

const testHeader = "/* Copyright (c) test */\n\n"

// stampProcessor prepends testHeader unless the file already starts with it.
type stampProcessor struct {
	mu    sync.Mutex
	calls []string
	err   error
}

func (p *stampProcessor) Rewrite(path string) (rewrite.Result, error) {
	p.mu.Lock()
	p.calls = append(p.calls, path)
	p.mu.Unlock()

	if p.err != nil {
		return rewrite.Result{Path: path}, p.err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return rewrite.Result{}, err
	}
	body := strings.TrimPrefix(string(data), testHeader)
	out := testHeader + body
	if err := os.WriteFile(path, []byte(out), 0o644); err != nil {
		return rewrite.Result{}, err
	}
	return rewrite.Result{
		Path:    path,
		Status:  rewrite.StatusUpdated,
		Changed: out != string(data),
		Written: true,
	}, nil
}

func (p *stampProcessor) callCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.calls)
}

type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func newTestWatcher(t *testing.T, root string, p walk.Processor, out *syncBuffer) *Watcher {
	t.Helper()
	wk, err := walk.New(walk.Config{Root: root})
	if err != nil {
		t.Fatal(err)
	}
	w, err := New(Config{
		Walker:    wk,
		Processor: p,
		Reporter:  report.New(report.Config{Writer: out, Root: wk.Root(), NoColor: true}),
		Debounce:  20 * time.Millisecond,
	})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	t.Cleanup(func() { _ = w.Close() })
	return w
}

func TestNewRequiresCollaborators(t *testing.T) {
	if _, err := New(Config{}); err == nil {
		t.Error("New() expected error without walker, processor and reporter")
	}
}

func TestIsWatchLimitError(t *testing.T) {
	tests := []struct {
		err  error
		want bool
	}{
		{nil, false},
		{errors.New("no space left on device"), true},
		{errors.New("too many open files"), true},
		{errors.New("permission denied"), false},
	}
	for _, tt := range tests {
		if got := isWatchLimitError(tt.err); got != tt.want {
			t.Errorf("isWatchLimitError(%v) = %v, want %v", tt.err, got, tt.want)
		}
	}
}

func TestHandleChangedFilesSuppressesOwnWrites(t *testing.T) {
	root := t.TempDir()
	path := filepath.Join(root, "Logger.h")
	if err := os.WriteFile(path, []byte("#pragma once\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	p := &stampProcessor{}
	var out syncBuffer
	w := newTestWatcher(t, root, p, &out)

	w.handleChangedFiles([]string{path})
	if p.callCount() != 1 {
		t.Fatalf("expected 1 rewrite, got %d", p.callCount())
	}
	if !strings.Contains(out.String(), "updated Logger.h") {
		t.Errorf("expected updated line, got %q", out.String())
	}

	// The event caused by our own write must not trigger another rewrite.
	w.handleChangedFiles([]string{path})
	if p.callCount() != 1 {
		t.Errorf("own write was restamped, %d rewrites", p.callCount())
	}

	// An external edit does.
	if err := os.WriteFile(path, []byte(testHeader+"#pragma once\nint x;\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	w.handleChangedFiles([]string{path})
	if p.callCount() != 2 {
		t.Errorf("external edit not restamped, %d rewrites", p.callCount())
	}
}

func TestHandleChangedFilesReportsErrorsAndContinues(t *testing.T) {
	root := t.TempDir()
	a := filepath.Join(root, "a.h")
	b := filepath.Join(root, "b.h")
	for _, p := range []string{a, b} {
		if err := os.WriteFile(p, []byte("x\n"), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	p := &stampProcessor{err: rewrite.ErrWrite}
	var out syncBuffer
	w := newTestWatcher(t, root, p, &out)

	w.handleChangedFiles([]string{a, filepath.Join(root, "gone.h"), b})

	if p.callCount() != 2 {
		t.Errorf("expected both existing files attempted, got %d", p.callCount())
	}
	if n := strings.Count(out.String(), "error:"); n != 2 {
		t.Errorf("expected 2 reported errors, got %d in %q", n, out.String())
	}
}

func TestHandleChangedFilesRefreshesTracker(t *testing.T) {
	root := t.TempDir()
	path := filepath.Join(root, "a.h")
	if err := os.WriteFile(path, []byte("x\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	wk, err := walk.New(walk.Config{Root: root})
	if err != nil {
		t.Fatal(err)
	}
	tracker := incremental.NewTracker(wk, "fp")
	var out syncBuffer
	w, err := New(Config{
		Walker:    wk,
		Processor: &stampProcessor{},
		Reporter:  report.New(report.Config{Writer: &out}),
		Tracker:   tracker,
	})
	if err != nil {
		t.Fatal(err)
	}
	defer w.Close()

	w.handleChangedFiles([]string{path})

	if !tracker.HasState() || tracker.TrackedFileCount() != 1 {
		t.Errorf("tracker not refreshed: HasState=%v count=%d", tracker.HasState(), tracker.TrackedFileCount())
	}
}

func TestHandleEventFilters(t *testing.T) {
	root := t.TempDir()
	var out syncBuffer
	w := newTestWatcher(t, root, &stampProcessor{}, &out)
	w.debouncer = NewDebouncer(time.Hour, func([]string) {})

	header := filepath.Join(root, "a.h")
	if err := os.WriteFile(header, nil, 0o644); err != nil {
		t.Fatal(err)
	}

	w.handleEvent(fsnotify.Event{Name: filepath.Join(root, "a.cpp"), Op: fsnotify.Write})
	w.handleEvent(fsnotify.Event{Name: header, Op: fsnotify.Chmod})
	if n := w.debouncer.PendingCount(); n != 0 {
		t.Errorf("non-candidate events queued %d paths", n)
	}

	w.handleEvent(fsnotify.Event{Name: header, Op: fsnotify.Write})
	w.handleEvent(fsnotify.Event{Name: header, Op: fsnotify.Create})
	if n := w.debouncer.PendingCount(); n != 1 {
		t.Errorf("expected 1 pending path, got %d", n)
	}
}

func TestHandleEventNewDirectory(t *testing.T) {
	root := t.TempDir()
	var out syncBuffer
	w := newTestWatcher(t, root, &stampProcessor{}, &out)
	w.debouncer = NewDebouncer(time.Hour, func([]string) {})

	dir := filepath.Join(root, "module")
	if err := os.MkdirAll(filepath.Join(dir, "node_modules"), 0o755); err != nil {
		t.Fatal(err)
	}
	for _, p := range []string{
		filepath.Join(dir, "early.h"),
		filepath.Join(dir, "node_modules", "dep.h"),
	} {
		if err := os.WriteFile(p, nil, 0o644); err != nil {
			t.Fatal(err)
		}
	}

	w.handleEvent(fsnotify.Event{Name: dir, Op: fsnotify.Create})

	if n := w.debouncer.PendingCount(); n != 1 {
		t.Errorf("expected the file created before the watch to be queued, got %d", n)
	}
}

func TestRunStampsNewFiles(t *testing.T) {
	root := t.TempDir()
	p := &stampProcessor{}
	var out syncBuffer
	w := newTestWatcher(t, root, p, &out)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()

	deadline := time.Now().Add(5 * time.Second)
	for !strings.Contains(out.String(), "ready") {
		if time.Now().After(deadline) {
			t.Fatal("watcher never became ready")
		}
		time.Sleep(10 * time.Millisecond)
	}

	path := filepath.Join(root, "New.h")
	if err := os.WriteFile(path, []byte("int x;\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	for {
		data, _ := os.ReadFile(path)
		if strings.HasPrefix(string(data), testHeader) {
			break
		}
		if time.Now().After(deadline) {
			t.Fatalf("file was not stamped, content %q", data)
		}
		time.Sleep(10 * time.Millisecond)
	}

	// Give our own write event a chance to arrive; it must be ignored.
	time.Sleep(100 * time.Millisecond)

	cancel()
	if err := <-done; err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if n := p.callCount(); n != 1 {
		t.Errorf("expected exactly 1 rewrite, got %d", n)
	}
	if !strings.Contains(out.String(), "shutting down") {
		t.Errorf("expected shutdown line, got %q", out.String())
	}
}
