// Package metadata maps bare filenames to the summary and description used in
// a rendered header.
//
// A Table is built once, typically from a YAML file, and is read-only after
// that. A Resolver wraps a Table with a fallback so that every filename
// resolves to a usable Entry.
package metadata

import (
	"path/filepath"
	"strings"

	"github.com/albertocavalcante/headerstamp/pkg/util"
)

// Entry is the summary/description pair for one file.
//
// Description may span several lines; continuation lines carry the
// " *       " prefix so the text stays valid inside a block comment.
type Entry struct {
	Summary     string `yaml:"summary"`
	Description string `yaml:"description"`
}

// Table is an immutable filename -> Entry mapping. Keys are bare filenames and
// matching is exact and case-sensitive.
type Table struct {
	entries map[string]Entry
}

// NewTable copies entries into a new Table.
func NewTable(entries map[string]Entry) *Table {
	t := &Table{entries: make(map[string]Entry, len(entries))}
	for name, e := range entries {
		t.entries[name] = e
	}
	return t
}

// Lookup returns the entry for filename, if present.
func (t *Table) Lookup(filename string) (Entry, bool) {
	if t == nil {
		return Entry{}, false
	}
	e, ok := t.entries[filename]
	return e, ok
}

// Len returns the number of entries.
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.entries)
}

// Names returns all filenames in the table, sorted.
func (t *Table) Names() []string {
	if t == nil {
		return nil
	}
	return util.SortedKeys(t.entries)
}

// Fallback describes how an Entry is derived for files missing from the table.
type Fallback struct {
	// SummarySuffix is appended to the derived name, separated by Separator.
	SummarySuffix string
	// Separator goes between the derived name and SummarySuffix.
	Separator string
	// Placeholder is used as the description.
	Placeholder string
}

// EnglishFallback produces "Foo module interface definition".
var EnglishFallback = Fallback{
	SummarySuffix: "module interface definition",
	Separator:     " ",
	Placeholder:   "(to be filled in)",
}

// ChineseFallback produces "Foo模块接口定义".
var ChineseFallback = Fallback{
	SummarySuffix: "模块接口定义",
	Separator:     "",
	Placeholder:   "（待补充详细描述）",
}

// Resolver resolves filenames against a Table with a derived default.
type Resolver struct {
	table    *Table
	fallback Fallback
}

// NewResolver returns a Resolver over table. A nil table resolves every name
// through the fallback.
func NewResolver(table *Table, fallback Fallback) *Resolver {
	return &Resolver{table: table, fallback: fallback}
}

// Resolve returns the table entry for filename, or a derived default.
// The second result reports whether the entry came from the table.
func (r *Resolver) Resolve(filename string) (Entry, bool) {
	if e, ok := r.table.Lookup(filename); ok {
		return e, true
	}
	return r.Default(filename), false
}

// Default derives the fallback entry: the filename without its extension,
// underscores turned into spaces, followed by the summary suffix.
func (r *Resolver) Default(filename string) Entry {
	return Entry{
		Summary:     DisplayName(filename) + r.fallback.Separator + r.fallback.SummarySuffix,
		Description: r.fallback.Placeholder,
	}
}

// DisplayName strips the final extension and replaces underscores with spaces.
func DisplayName(filename string) string {
	name := strings.TrimSuffix(filename, filepath.Ext(filename))
	return strings.ReplaceAll(name, "_", " ")
}
