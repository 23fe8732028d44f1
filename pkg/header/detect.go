package header

import "strings"

// DefaultMarker is the word whose presence near the top of a file means a
// header is already there.
const DefaultMarker = "copyright"

// DefaultWindow is how many characters from the start of the content are
// inspected for the marker.
const DefaultWindow = 500

// Detector decides whether content already carries a header.
type Detector struct {
	Marker string
	Window int
}

// NewDetector returns a Detector, substituting defaults for zero values.
func NewDetector(marker string, window int) Detector {
	if marker == "" {
		marker = DefaultMarker
	}
	if window <= 0 {
		window = DefaultWindow
	}
	return Detector{Marker: marker, Window: window}
}

// HasHeader reports whether the marker appears, case-insensitively, within
// the first Window characters of content. A marker that starts inside the
// window but runs past its end does not count.
func (d Detector) HasHeader(content string) bool {
	return strings.Contains(strings.ToLower(leadingRunes(content, d.Window)), strings.ToLower(d.Marker))
}

// leadingRunes returns at most n runes from the start of s.
func leadingRunes(s string, n int) string {
	i := 0
	for pos := range s {
		if i == n {
			return s[:pos]
		}
		i++
	}
	return s
}
