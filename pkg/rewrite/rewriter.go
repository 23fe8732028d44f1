// Package rewrite applies the header pipeline to one file:
// decode, exclusion check, detect, strip, resolve, render, write.
package rewrite

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"unicode"

	"github.com/albertocavalcante/headerstamp/internal/log"
	"github.com/albertocavalcante/headerstamp/pkg/header"
	"github.com/albertocavalcante/headerstamp/pkg/metadata"
	"github.com/albertocavalcante/headerstamp/pkg/textenc"
	"github.com/albertocavalcante/headerstamp/pkg/util"
)

// ErrWrite wraps failures writing a rewritten file back to disk.
var ErrWrite = errors.New("write failed")

// Options control rewrite policy.
type Options struct {
	// Force replaces an existing header instead of skipping the file.
	Force bool

	// DryRun computes results without writing.
	DryRun bool

	// RequireAnchored only treats a file as annotated when a block comment
	// also starts at offset zero. A marker found elsewhere in the detection
	// window is then ignored.
	RequireAnchored bool

	// Exclude lists basenames that are never rewritten.
	Exclude []string
}

// Result describes what happened to one file.
type Result struct {
	Path   string `json:"path"`
	Status Status `json:"status"`

	// Encoding is the decoder that accepted the content.
	Encoding string `json:"encoding,omitempty"`
	// Detected is true when the detector found an existing header.
	Detected bool `json:"detected,omitempty"`
	// Stripped is true when a leading block comment was removed.
	Stripped bool `json:"stripped,omitempty"`
	// FromTable is true when metadata came from the table, not the fallback.
	FromTable bool `json:"from_table,omitempty"`
	// Changed is true when the new content differs from the bytes on disk.
	Changed bool `json:"changed,omitempty"`
	// Written is true when the file was actually written.
	Written bool `json:"written,omitempty"`
}

// Outcome is the in-memory part of a Result, produced by Apply.
type Outcome struct {
	Status    Status
	Detected  bool
	Stripped  bool
	FromTable bool
}

// WriteFunc writes a whole file. It matches os.WriteFile.
type WriteFunc func(name string, data []byte, perm fs.FileMode) error

// Rewriter runs the header pipeline. It holds no per-file state and
// processes one file at a time.
type Rewriter struct {
	decoder  *textenc.Chain
	detector header.Detector
	template *header.Template
	resolver *metadata.Resolver
	exclude  map[string]struct{}
	opts     Options

	writeFile WriteFunc
}

// Option configures a Rewriter.
type Option func(*Rewriter)

// WithWriteFunc replaces os.WriteFile. Used primarily for testing.
func WithWriteFunc(fn WriteFunc) Option {
	return func(r *Rewriter) {
		r.writeFile = fn
	}
}

// New creates a Rewriter from its collaborators.
func New(decoder *textenc.Chain, detector header.Detector, tmpl *header.Template,
	resolver *metadata.Resolver, opts Options, extra ...Option) *Rewriter {
	r := &Rewriter{
		decoder:   decoder,
		detector:  detector,
		template:  tmpl,
		resolver:  resolver,
		exclude:   util.SetOf(opts.Exclude...),
		opts:      opts,
		writeFile: os.WriteFile,
	}
	for _, o := range extra {
		o(r)
	}
	return r
}

// Options returns the policy the Rewriter was built with.
func (r *Rewriter) Options() Options {
	return r.opts
}

// Template returns the header template in use.
func (r *Rewriter) Template() *header.Template {
	return r.template
}

// Detector returns the header detector in use.
func (r *Rewriter) Detector() header.Detector {
	return r.detector
}

// Encodings returns the decoder names in the order they are tried.
func (r *Rewriter) Encodings() []string {
	return r.decoder.Names()
}

// Excluded reports whether filename is on the exclusion list.
func (r *Rewriter) Excluded(filename string) bool {
	_, ok := r.exclude[filename]
	return ok
}

// Apply runs detection, stripping, resolution and rendering on decoded
// content. It performs no I/O. When the outcome is a skip, the returned
// content equals the input.
func (r *Rewriter) Apply(filename, content string) (string, Outcome) {
	if r.Excluded(filename) {
		return content, Outcome{Status: StatusSkippedGenerated}
	}

	var out Outcome
	body := content

	out.Detected = r.detector.HasHeader(content)
	_, anchored := header.LeadingBlockEnd(content)
	if r.opts.RequireAnchored && !anchored {
		out.Detected = false
	}

	if out.Detected {
		if !r.opts.Force {
			out.Status = StatusSkippedHasHeader
			return content, out
		}
		body, out.Stripped = header.Strip(content)
		if !out.Stripped {
			log.Warn("header marker found outside a leading block comment; prepending without stripping",
				"file", filename)
		}
	}

	entry, fromTable := r.resolver.Resolve(filename)
	out.FromTable = fromTable

	rendered := r.template.Render(filename, entry.Summary, entry.Description)
	log.Trace("rendered header", "file", filename, "header", rendered)

	out.Status = StatusUpdated
	return rendered + strings.TrimLeftFunc(body, unicode.IsSpace), out
}

// Rewrite processes the file at path. Decode failures and policy skips are
// reported through Result.Status; read and write failures are returned as
// errors and should stop the run.
func (r *Rewriter) Rewrite(path string) (Result, error) {
	res := Result{Path: path}
	logger := log.Component("rewrite")

	info, err := os.Stat(path)
	if err != nil {
		return res, fmt.Errorf("stat %s: %w", path, err)
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return res, fmt.Errorf("read %s: %w", path, err)
	}

	content, used, err := r.decoder.Decode(raw)
	if err != nil {
		logger.Debug("undecodable file", "path", path, "error", err)
		res.Status = StatusSkippedEncoding
		return res, nil
	}
	res.Encoding = used

	updated, out := r.Apply(filepath.Base(path), content)
	res.Status = out.Status
	res.Detected = out.Detected
	res.Stripped = out.Stripped
	res.FromTable = out.FromTable
	if out.Status.Skipped() {
		return res, nil
	}

	res.Changed = updated != string(raw)
	logger.Debug("rewrote header", "path", path, "encoding", used,
		"stripped", out.Stripped, "from_table", out.FromTable, "changed", res.Changed)

	if r.opts.DryRun {
		return res, nil
	}
	if err := r.writeFile(path, []byte(updated), info.Mode().Perm()); err != nil {
		return res, fmt.Errorf("%w: %s: %w", ErrWrite, path, err)
	}
	res.Written = true
	return res, nil
}
