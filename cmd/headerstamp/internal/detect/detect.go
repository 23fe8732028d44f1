// Package detect finds which block-comment languages a source tree contains.
//
// Detection is deterministic and based purely on file extensions: the tree
// is walked (skipping langs.IgnoredDirs) and each file's extension is looked
// up in langs.Extensions.
package detect

import (
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/albertocavalcante/headerstamp/cmd/headerstamp/internal/langs"
	"github.com/albertocavalcante/headerstamp/pkg/util"
)

// Count returns the number of files per detected language.
func Count(root string) (map[string]int, error) {
	ignored := langs.IgnoreDirSet(nil)
	counts := make(map[string]int)

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		if d.IsDir() {
			if path != root && hasIgnoredPrefix(d.Name(), ignored) {
				return filepath.SkipDir
			}
			return nil
		}

		if lang, ok := langs.LanguageOf(filepath.Ext(path)); ok {
			counts[lang]++
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return counts, nil
}

// Languages returns the sorted names of languages with at least one file
// under root.
func Languages(root string) ([]string, error) {
	counts, err := Count(root)
	if err != nil {
		return nil, err
	}
	return util.SortedKeys(counts), nil
}

func hasIgnoredPrefix(name string, prefixes map[string]bool) bool {
	for p := range prefixes {
		if strings.HasPrefix(name, p) {
			return true
		}
	}
	return false
}
