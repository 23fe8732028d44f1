// Package langs maps language names to the file extensions headerstamp
// visits.
//
// Only languages whose files can open with a C-style block comment are
// listed; the header block is always "/* ... */".
//
//	exts := langs.ExtensionSet([]string{"header", "cpp-header"})
//	if exts[filepath.Ext(file)] {
//	    // candidate file
//	}
package langs

import "github.com/albertocavalcante/headerstamp/pkg/util"

// DefaultLanguages is used when no language is configured.
var DefaultLanguages = []string{"header"}

// Extensions maps language names to their file extensions.
var Extensions = map[string][]string{
	"header":     {".h"},
	"cpp-header": {".hpp", ".hh", ".hxx", ".inl"},
	"c":          {".c"},
	"cpp":        {".cc", ".cpp", ".cxx"},
	"objc":       {".m", ".mm"},
	"java":       {".java"},
	"kotlin":     {".kt", ".kts"},
	"go":         {".go"},
	"js":         {".js", ".mjs", ".ts"},
	"css":        {".css", ".scss"},
	"proto":      {".proto"},
}

// IgnoredDirs contains directory prefixes to skip during scanning/watching.
//
// Prefix matching means "cmake-build" matches "cmake-build-debug" and
// "cmake-build-release".
var IgnoredDirs = []string{
	".",            // Hidden directories (.git, .headerstamp, .vs)
	"node_modules", // Node.js dependencies
	"vendor",       // Vendored third-party code
	"third_party",  // Vendored third-party code
	"build",        // CMake/generic build output
	"cmake-build",  // CLion build directories
	"out",          // Generic output
	"dist",         // Distribution output
	"bazel-",       // Bazel output directories
}

// Names returns all known language names, sorted.
func Names() []string {
	return util.SortedKeys(Extensions)
}

// Known reports whether name is in the language table.
func Known(name string) bool {
	_, ok := Extensions[name]
	return ok
}

// ExtensionSet returns a set of all extensions for the given languages.
// Unknown names are ignored. If languages is empty, DefaultLanguages is used.
func ExtensionSet(languages []string) map[string]bool {
	if len(languages) == 0 {
		languages = DefaultLanguages
	}

	extensions := make(map[string]bool)
	for _, lang := range languages {
		for _, ext := range Extensions[lang] {
			extensions[ext] = true
		}
	}
	return extensions
}

// LanguageOf returns the language whose extension list contains ext.
func LanguageOf(ext string) (string, bool) {
	for _, lang := range Names() {
		for _, e := range Extensions[lang] {
			if e == ext {
				return lang, true
			}
		}
	}
	return "", false
}

// IgnoreDirSet returns the set of ignored directory prefixes, combining
// defaults with any additional patterns.
func IgnoreDirSet(additional []string) map[string]bool {
	dirs := make(map[string]bool, len(IgnoredDirs)+len(additional))
	for _, dir := range IgnoredDirs {
		dirs[dir] = true
	}
	for _, dir := range additional {
		if dir != "" {
			dirs[dir] = true
		}
	}
	return dirs
}
