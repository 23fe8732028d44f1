package rewrite

import "fmt"

// Status is the outcome of processing one file.
type Status int

const (
	// StatusUpdated means a header was rendered and the file was (or, in a
	// dry run, would have been) written.
	StatusUpdated Status = iota
	// StatusSkippedEncoding means no decoder in the chain accepted the bytes.
	StatusSkippedEncoding
	// StatusSkippedGenerated means the basename is on the exclusion list.
	StatusSkippedGenerated
	// StatusSkippedHasHeader means a header exists and force mode is off.
	StatusSkippedHasHeader
)

// String returns the console form: "updated" or "skipped(<reason>)".
func (s Status) String() string {
	if s == StatusUpdated {
		return "updated"
	}
	return fmt.Sprintf("skipped(%s)", s.Reason())
}

// Reason returns the short skip reason, or "" for StatusUpdated.
func (s Status) Reason() string {
	switch s {
	case StatusUpdated:
		return ""
	case StatusSkippedEncoding:
		return "encoding"
	case StatusSkippedGenerated:
		return "generated"
	case StatusSkippedHasHeader:
		return "has-header"
	default:
		return fmt.Sprintf("status-%d", int(s))
	}
}

// Skipped reports whether the file was left untouched by policy.
func (s Status) Skipped() bool {
	return s != StatusUpdated
}

// MarshalText lets Status appear as a string in JSON output.
func (s Status) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}
