package incremental

import (
	"slices"
	"time"
)

// IndexVersion is the current version of the state file format.
const IndexVersion = 1

// Index is the snapshot recorded after a stamp run.
type Index struct {
	Version     int               `json:"version"`
	UpdatedAt   time.Time         `json:"updated_at"`
	Fingerprint string            `json:"fingerprint,omitempty"`
	Entries     map[string]*Entry `json:"entries"`
}

// NewIndex creates an empty index.
func NewIndex() *Index {
	return &Index{
		Version:   IndexVersion,
		UpdatedAt: time.Now(),
		Entries:   make(map[string]*Entry),
	}
}

// Add adds or updates an entry.
func (idx *Index) Add(e *Entry) {
	if idx == nil || e == nil {
		return
	}
	if idx.Entries == nil {
		idx.Entries = make(map[string]*Entry)
	}
	idx.Entries[e.Path] = e
}

// Get retrieves an entry by path.
func (idx *Index) Get(path string) (*Entry, bool) {
	if idx == nil || idx.Entries == nil {
		return nil, false
	}
	e, ok := idx.Entries[path]
	return e, ok
}

// Len returns the number of entries.
func (idx *Index) Len() int {
	if idx == nil {
		return 0
	}
	return len(idx.Entries)
}

// Paths returns the recorded paths, sorted.
func (idx *Index) Paths() []string {
	if idx == nil {
		return nil
	}
	paths := make([]string, 0, len(idx.Entries))
	for p := range idx.Entries {
		paths = append(paths, p)
	}
	slices.Sort(paths)
	return paths
}

// Diff compares this index against another, returning changes.
// The receiver (idx) is the "old" state, other is the "new" state.
func (idx *Index) Diff(other *Index) *ChangeSet {
	cs := NewChangeSet()

	if idx == nil && other == nil {
		return cs
	}

	var oldEntries, newEntries map[string]*Entry
	if idx != nil {
		oldEntries = idx.Entries
	}
	if other != nil {
		newEntries = other.Entries
	}

	for path, newEntry := range newEntries {
		oldEntry, exists := oldEntries[path]
		if !exists {
			cs.Added = append(cs.Added, path)
			continue
		}
		if !oldEntry.same(newEntry) {
			cs.Modified = append(cs.Modified, path)
		}
	}

	for path := range oldEntries {
		if _, exists := newEntries[path]; !exists {
			cs.Deleted = append(cs.Deleted, path)
		}
	}

	cs.sort()
	return cs
}
