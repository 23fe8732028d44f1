package incremental

import (
	"path/filepath"
	"slices"
)

// ChangeSet describes how the tree differs from the last stamp run.
type ChangeSet struct {
	Added    []string `json:"added"`
	Modified []string `json:"modified"`
	Deleted  []string `json:"deleted"`

	// Stale is set when the header inputs changed since the last run, so every
	// file needs restamping regardless of its own state.
	Stale bool `json:"stale,omitempty"`
}

// NewChangeSet creates an empty ChangeSet.
func NewChangeSet() *ChangeSet {
	return &ChangeSet{
		Added:    []string{},
		Modified: []string{},
		Deleted:  []string{},
	}
}

// IsEmpty returns true if there are no changes.
func (cs *ChangeSet) IsEmpty() bool {
	if cs == nil {
		return true
	}
	return !cs.Stale && len(cs.Added) == 0 && len(cs.Modified) == 0 && len(cs.Deleted) == 0
}

// TotalChanges returns the total number of changed files.
func (cs *ChangeSet) TotalChanges() int {
	if cs == nil {
		return 0
	}
	return len(cs.Added) + len(cs.Modified) + len(cs.Deleted)
}

// Pending returns the added and modified paths as absolute paths under root,
// sorted. Deleted files need no stamping.
func (cs *ChangeSet) Pending(root string) []string {
	if cs == nil {
		return nil
	}
	paths := make([]string, 0, len(cs.Added)+len(cs.Modified))
	for _, p := range cs.Added {
		paths = append(paths, filepath.Join(root, filepath.FromSlash(p)))
	}
	for _, p := range cs.Modified {
		paths = append(paths, filepath.Join(root, filepath.FromSlash(p)))
	}
	slices.Sort(paths)
	return paths
}

// sort sorts all slices for deterministic output.
func (cs *ChangeSet) sort() {
	if cs == nil {
		return
	}
	slices.Sort(cs.Added)
	slices.Sort(cs.Modified)
	slices.Sort(cs.Deleted)
}
