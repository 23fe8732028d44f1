// Package incremental remembers what a stamp run left on disk so later runs
// can process only the files that changed since.
package incremental

// Entry is the recorded state of one candidate file after a stamp run.
type Entry struct {
	Path    string `json:"path"`     // slash-separated, relative to the root
	Hash    string `json:"hash"`     // xxHash64 hex
	ModTime int64  `json:"mtime_ns"` // UnixNano
	Size    int64  `json:"size"`
}

// same reports whether two entries describe the same file contents. Equal
// mtime and size are trusted without comparing hashes.
func (e *Entry) same(other *Entry) bool {
	if e.ModTime == other.ModTime && e.Size == other.Size {
		return true
	}
	return e.Hash != "" && e.Hash == other.Hash
}
