package incremental

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/albertocavalcante/headerstamp/cmd/headerstamp/internal/walk"
	"github.com/albertocavalcante/headerstamp/internal/log"
)

// Tracker compares the candidate files under a walker's root with the state
// recorded by the last stamp run.
type Tracker struct {
	store       Store
	walker      *walk.Walker
	fingerprint string
}

// NewTracker creates a tracker that keeps its state under the walker's root.
// fingerprint identifies the header inputs of the current run (see Fingerprint).
func NewTracker(w *walk.Walker, fingerprint string) *Tracker {
	return NewTrackerWithStore(w, fingerprint, NewJSONStore(w.Root()))
}

// NewTrackerWithStore creates a tracker backed by the given store.
func NewTrackerWithStore(w *walk.Walker, fingerprint string, store Store) *Tracker {
	return &Tracker{
		store:       store,
		walker:      w,
		fingerprint: fingerprint,
	}
}

// Status checks for changes without modifying state. Files whose mtime and
// size match the stored entry are not hashed.
func (t *Tracker) Status(ctx context.Context) (*ChangeSet, error) {
	oldIdx, err := t.store.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load state: %w", err)
	}

	cur, err := t.snapshot(ctx, false)
	if err != nil {
		return nil, err
	}

	for path, e := range cur.Entries {
		old, ok := oldIdx.Get(path)
		if !ok || (old.ModTime == e.ModTime && old.Size == e.Size) {
			continue
		}
		hash, err := HashFile(t.abs(path))
		if err != nil {
			log.Debug("hash failed, treating as modified", "path", path, "error", err)
			continue
		}
		e.Hash = hash
	}

	cs := oldIdx.Diff(cur)
	cs.Stale = t.store.Exists() && oldIdx.Fingerprint != t.fingerprint
	return cs, nil
}

// Pending returns the absolute paths a stamp run has to process: every
// candidate when there is no usable state, otherwise the added and modified
// files.
func (t *Tracker) Pending(ctx context.Context) ([]string, error) {
	if !t.HasState() {
		log.Debug("no stamp state, processing all files", "root", t.walker.Root())
		return t.walker.Walk(ctx)
	}

	cs, err := t.Status(ctx)
	if err != nil {
		return nil, err
	}
	if cs.Stale {
		log.Info("header inputs changed since last run, processing all files")
		return t.walker.Walk(ctx)
	}

	log.Debug("incremental run", "added", len(cs.Added), "modified", len(cs.Modified), "deleted", len(cs.Deleted))
	return cs.Pending(t.walker.Root()), nil
}

// Refresh records the current disk state, with full hashes, as the state
// after a stamp run.
func (t *Tracker) Refresh(ctx context.Context) error {
	idx, err := t.snapshot(ctx, true)
	if err != nil {
		return err
	}
	idx.Fingerprint = t.fingerprint

	if err := t.store.Save(idx); err != nil {
		return fmt.Errorf("failed to save state: %w", err)
	}
	log.Debug("stamp state saved", "files", idx.Len())
	return nil
}

// HasState returns true if a previous state exists.
func (t *Tracker) HasState() bool {
	return t.store.Exists()
}

// Clear discards the recorded state.
func (t *Tracker) Clear() error {
	return t.store.Clear()
}

// TrackedFileCount returns the number of files in the stored index, or 0 if
// no state exists or it cannot be read.
func (t *Tracker) TrackedFileCount() int {
	idx, err := t.store.Load()
	if err != nil {
		return 0
	}
	return idx.Len()
}

func (t *Tracker) snapshot(ctx context.Context, hash bool) (*Index, error) {
	paths, err := t.walker.Walk(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to scan %s: %w", t.walker.Root(), err)
	}
	return Snapshot(t.walker.Root(), paths, hash)
}

func (t *Tracker) abs(rel string) string {
	return filepath.Join(t.walker.Root(), filepath.FromSlash(rel))
}
