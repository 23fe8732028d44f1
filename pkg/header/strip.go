package header

import (
	"unicode"
	"unicode/utf8"
)

const (
	openComment  = "/*"
	closeComment = "*/"
)

// LeadingBlockEnd returns the offset just past the block comment that starts
// at offset zero, including any whitespace that follows it. ok is false when
// content does not begin with "/*" or the comment is never closed.
//
// The scan stops at the first "*/" after the opening token. Nested openers
// are not recognized, so "/* a /* b */ c */" ends after "b */".
func LeadingBlockEnd(content string) (end int, ok bool) {
	if len(content) < len(openComment) || content[:len(openComment)] != openComment {
		return 0, false
	}

	i := len(openComment)
	for {
		if i+len(closeComment) > len(content) {
			return 0, false
		}
		if content[i] == '*' && content[i+1] == '/' {
			i += len(closeComment)
			break
		}
		i++
	}

	for i < len(content) {
		r, size := utf8.DecodeRuneInString(content[i:])
		if !unicode.IsSpace(r) {
			break
		}
		i += size
	}
	return i, true
}

// Strip removes the leading block comment and the whitespace after it.
// Content that does not start with a closed block comment is returned
// unchanged with stripped=false. Everything after the removed region is
// preserved byte for byte.
func Strip(content string) (rest string, stripped bool) {
	end, ok := LeadingBlockEnd(content)
	if !ok {
		return content, false
	}
	return content[end:], true
}
