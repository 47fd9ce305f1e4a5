package sourcemap

import (
	"strings"
	"unicode/utf8"
)

// find returns the bounds of the first verbatim occurrence of sub in text
// at or after start, or (-1,-1) if absent or start is out of range.
func find(text, sub string, start int) (int, int) {
	if start < 0 || start > len(text) {
		return -1, -1
	}
	i := strings.Index(text[start:], sub)
	if i < 0 {
		return -1, -1
	}
	return start + i, start + i + len(sub)
}

// findUnescaped finds sub in text[start:end]. A character of sub matches
// either literally or as any source form that pandoc decodes to it
// (backslash escape or entity, per escapeTable), and carriage returns
// inside a candidate match are skipped as zero-width to tolerate
// line-ending normalization.
//
// The matcher is a plain restartable scan: on mismatch it rewinds to one
// position past where the candidate match began.
func findUnescaped(text, sub string, start, end int) (int, int) {
	if start > end || start < 0 || end > len(text) {
		return -1, -1
	}
	if sub == "" {
		return start, start
	}

	target := []rune(sub)
	ti := 0          // next target rune to match
	matchStart := -1 // where the candidate match began
	i := start
	for i < end {
		r, size := utf8.DecodeRuneInString(text[i:])

		advance := -1
		switch {
		case r == target[ti]:
			advance = size
		case matchStart != -1 && r == '\r':
			advance = 0
		default:
			for _, form := range sourceForms[target[ti]] {
				if strings.HasPrefix(text[i:], form) {
					advance = len(form)
					break
				}
			}
		}

		switch {
		case advance > 0:
			if matchStart == -1 {
				matchStart = i
			}
			ti++
			if ti == len(target) {
				return matchStart, i + advance
			}
			i += advance
		case advance == 0:
			i++
		default:
			if matchStart >= 0 {
				_, first := utf8.DecodeRuneInString(text[matchStart:])
				i = matchStart + first
				matchStart = -1
				ti = 0
			} else {
				i += size
			}
		}
	}
	return -1, -1
}
