package sourcemap

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// lineAt returns the half-open bounds of the line containing index,
// excluding the newline characters themselves. Index is clamped to the
// text.
func lineAt(text string, index int) (int, int) {
	if index < 0 {
		index = 0
	}
	if index > len(text) {
		index = len(text)
	}
	start := strings.LastIndexByte(text[:index], '\n') + 1
	end := strings.IndexByte(text[start:], '\n')
	if end < 0 {
		end = len(text)
	} else {
		end += start
	}
	return start, end
}

// lineBefore returns the line immediately preceding the one containing
// index, or the first line when there is none.
func lineBefore(text string, index int) (int, int) {
	start, _ := lineAt(text, index)
	if start > 0 {
		start--
	}
	return lineAt(text, start)
}

// lineAfter returns the line immediately following the one containing
// index, or the last line when there is none.
func lineAfter(text string, index int) (int, int) {
	_, end := lineAt(text, index)
	next := end + 1
	if next > len(text)-1 {
		next = len(text) - 1
	}
	return lineAt(text, next)
}

// trimSpanSpace narrows [start,end) past any leading and trailing
// whitespace.
func trimSpanSpace(text string, start, end int) (int, int) {
	for start < end {
		r, size := utf8.DecodeRuneInString(text[start:])
		if !unicode.IsSpace(r) {
			break
		}
		start += size
	}
	for end > start {
		r, size := utf8.DecodeLastRuneInString(text[:end])
		if !unicode.IsSpace(r) {
			break
		}
		end -= size
	}
	return start, end
}
