package metadata

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// ErrInvalidTable is returned for structurally invalid metadata files.
var ErrInvalidTable = errors.New("invalid metadata table")

// ContinuationPrefix starts every continuation line of a multi-line
// description inside the rendered block comment.
const ContinuationPrefix = " *       "

// fileFormat is the on-disk layout of a metadata table:
//
//	files:
//	  Logger.h:
//	    summary: Logging module interface definition
//	    description: |
//	      spdlog based logging,
//	      console and file sinks
type fileFormat struct {
	Files map[string]Entry `yaml:"files"`
}

// LoadFile reads a YAML metadata table from path.
func LoadFile(path string) (*Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read metadata file: %w", err)
	}
	t, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return t, nil
}

// Parse decodes a YAML metadata table. Unknown fields are rejected.
//
// Descriptions written as YAML block scalars are converted to the
// continuation-line convention: every line after the first is prefixed with
// ContinuationPrefix. Descriptions that already carry the prefix are kept.
func Parse(data []byte) (*Table, error) {
	var ff fileFormat
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&ff); err != nil {
		if errors.Is(err, io.EOF) {
			return NewTable(nil), nil
		}
		return nil, fmt.Errorf("%w: %v", ErrInvalidTable, err)
	}

	entries := make(map[string]Entry, len(ff.Files))
	for name, e := range ff.Files {
		if name == "" || strings.ContainsAny(name, `/\`) {
			return nil, fmt.Errorf("%w: key %q is not a bare filename", ErrInvalidTable, name)
		}
		if strings.TrimSpace(e.Summary) == "" {
			return nil, fmt.Errorf("%w: %s: summary is empty", ErrInvalidTable, name)
		}
		e.Summary = strings.TrimSpace(e.Summary)
		e.Description = normalizeDescription(e.Description)
		entries[name] = e
	}
	return NewTable(entries), nil
}

func normalizeDescription(s string) string {
	s = strings.TrimRight(s, "\n")
	lines := strings.Split(s, "\n")
	for i := 1; i < len(lines); i++ {
		if strings.HasPrefix(lines[i], " *") {
			continue
		}
		lines[i] = ContinuationPrefix + strings.TrimSpace(lines[i])
	}
	return strings.Join(lines, "\n")
}

// Problem is a table entry whose text would break the rendered comment.
type Problem struct {
	File   string
	Field  string
	Reason string
}

// Check reports entries containing a comment terminator. The renderer does
// not escape them, so such an entry would close the header early.
func (t *Table) Check() []Problem {
	var problems []Problem
	for _, name := range t.Names() {
		e := t.entries[name]
		if strings.Contains(e.Summary, "*/") {
			problems = append(problems, Problem{File: name, Field: "summary", Reason: `contains "*/"`})
		}
		if strings.Contains(e.Description, "*/") {
			problems = append(problems, Problem{File: name, Field: "description", Reason: `contains "*/"`})
		}
	}
	return problems
}
