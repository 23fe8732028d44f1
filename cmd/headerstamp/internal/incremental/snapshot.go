package incremental

import (
	"fmt"
	"os"
	"path/filepath"
)

// Snapshot builds an index of the given absolute paths under root. Hashes
// are computed only when hash is true.
func Snapshot(root string, paths []string, hash bool) (*Index, error) {
	idx := NewIndex()

	for _, path := range paths {
		info, err := os.Stat(path)
		if err != nil {
			return nil, fmt.Errorf("failed to stat %s: %w", path, err)
		}

		rel, err := filepath.Rel(root, path)
		if err != nil {
			return nil, err
		}

		e := &Entry{
			Path:    filepath.ToSlash(rel),
			ModTime: info.ModTime().UnixNano(),
			Size:    info.Size(),
		}
		if hash {
			if e.Hash, err = HashFile(path); err != nil {
				return nil, fmt.Errorf("%s: %w", path, err)
			}
		}
		idx.Add(e)
	}

	return idx, nil
}
