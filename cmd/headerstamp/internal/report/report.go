// Package report formats stamp and watch output for the console.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"golang.org/x/term"

	"github.com/albertocavalcante/headerstamp/cmd/headerstamp/internal/walk"
	"github.com/albertocavalcante/headerstamp/pkg/rewrite"
)

const (
	colorGreen  = "\033[32m"
	colorYellow = "\033[33m"
	colorRed    = "\033[31m"
	colorReset  = "\033[0m"
)

// Reporter writes one line (or JSON event) per processed file.
type Reporter struct {
	writer  io.Writer
	root    string
	isTTY   bool
	noColor bool
	jsonOut bool

	// writeMu keeps lines from the watch loop and the debounce timer whole.
	writeMu sync.Mutex

	statsMu sync.Mutex
	stats   Stats
}

// Stats tracks totals for a watch session.
type Stats struct {
	Updated   int
	Errors    int
	StartTime time.Time
}

// Config configures the reporter.
type Config struct {
	Writer  io.Writer
	Root    string // paths are printed relative to Root when set
	NoColor bool
	JSON    bool
}

// New creates a reporter with the given configuration.
func New(cfg Config) *Reporter {
	writer := cfg.Writer
	if writer == nil {
		writer = os.Stdout
	}

	isTTY := false
	if f, ok := writer.(*os.File); ok {
		isTTY = term.IsTerminal(int(f.Fd()))
	}

	return &Reporter{
		writer:  writer,
		root:    cfg.Root,
		isTTY:   isTTY,
		noColor: cfg.NoColor,
		jsonOut: cfg.JSON,
		stats:   Stats{StartTime: time.Now()},
	}
}

// File reports the outcome for one file.
func (r *Reporter) File(res rewrite.Result) {
	if res.Status == rewrite.StatusUpdated {
		r.statsMu.Lock()
		r.stats.Updated++
		r.statsMu.Unlock()
	}

	if r.jsonOut {
		r.writeJSON(map[string]any{
			"event":    "file",
			"path":     r.rel(res.Path),
			"status":   res.Status.String(),
			"encoding": res.Encoding,
			"changed":  res.Changed,
			"written":  res.Written,
		})
		return
	}

	color := colorYellow
	if res.Status == rewrite.StatusUpdated {
		color = colorGreen
	}
	r.printf("%s %s\n", r.colorize(res.Status.String(), color), r.rel(res.Path))
}

// Summary prints the final "<updated>/<total>" line.
func (r *Reporter) Summary(sum walk.Summary, dryRun bool) {
	if r.jsonOut {
		skipped := make(map[string]int, len(sum.Skipped))
		for status, n := range sum.Skipped {
			skipped[status.String()] = n
		}
		r.writeJSON(map[string]any{
			"event":   "summary",
			"total":   sum.Total,
			"updated": sum.Updated,
			"changed": sum.Changed,
			"skipped": skipped,
			"dry_run": dryRun,
		})
		return
	}

	suffix := ""
	if dryRun {
		suffix = " (dry run, nothing written)"
	}
	r.printf("done: %d/%d files updated%s\n", sum.Updated, sum.Total, suffix)
}

// Ready logs the initial watch message.
func (r *Reporter) Ready(fileCount int, languages []string, path string) {
	if r.jsonOut {
		r.writeJSON(map[string]any{
			"event":     "ready",
			"files":     fileCount,
			"languages": languages,
			"path":      path,
		})
		return
	}

	r.printf("headerstamp: watching %d files in %s\n", fileCount, path)
	if len(languages) > 0 {
		r.printf("headerstamp: languages: %s\n", strings.Join(languages, ", "))
	}
	r.println("headerstamp: ready")
}

// Error reports an error without stopping a watch session.
func (r *Reporter) Error(err error) {
	r.statsMu.Lock()
	r.stats.Errors++
	r.statsMu.Unlock()

	if r.jsonOut {
		r.writeJSON(map[string]any{
			"event": "error",
			"error": err.Error(),
			"time":  time.Now().Format(time.RFC3339),
		})
		return
	}

	r.printf("%s %v\n", r.colorize("error:", colorRed), err)
}

// Shutdown prints session totals.
func (r *Reporter) Shutdown() {
	stats := r.Stats()

	if r.jsonOut {
		r.writeJSON(map[string]any{
			"event":    "shutdown",
			"updates":  stats.Updated,
			"errors":   stats.Errors,
			"duration": time.Since(stats.StartTime).String(),
		})
		return
	}

	r.printf("headerstamp: shutting down (%d updates, %d errors)\n", stats.Updated, stats.Errors)
}

// Stats returns the current totals.
func (r *Reporter) Stats() Stats {
	r.statsMu.Lock()
	defer r.statsMu.Unlock()
	return r.stats
}

func (r *Reporter) rel(path string) string {
	if r.root == "" {
		return path
	}
	rel, err := filepath.Rel(r.root, path)
	if err != nil {
		return path
	}
	return filepath.ToSlash(rel)
}

func (r *Reporter) colorize(s, color string) string {
	if r.noColor || !r.isTTY {
		return s
	}
	return color + s + colorReset
}

func (r *Reporter) writeJSON(v any) {
	data, err := json.Marshal(v)
	if err != nil {
		r.println(`{"event":"internal_error","error":"json marshal failed"}`)
		return
	}
	r.println(string(data))
}

// printf and println ignore write errors; report output is informational.
func (r *Reporter) printf(format string, args ...any) {
	r.writeMu.Lock()
	defer r.writeMu.Unlock()
	_, _ = fmt.Fprintf(r.writer, format, args...)
}

func (r *Reporter) println(args ...any) {
	r.writeMu.Lock()
	defer r.writeMu.Unlock()
	_, _ = fmt.Fprintln(r.writer, args...)
}
