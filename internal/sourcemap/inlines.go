package sourcemap

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/dgallion1/srcmap/internal/pandoc"
)

// Inline walkers. Non-spaced inline spans are whitespace-trimmed after the
// walk, so these don't need to trim.

func (m *Mapper) walkStr(index int, content string) (int, int, Extras) {
	if index >= 0 && index <= len(m.text) && strings.HasPrefix(m.text[index:], content) {
		return index, index + len(content), nil
	}
	// Pandoc may have decoded escapes or entities the source still spells
	// out; fall back to the escape-aware search.
	start, end := findUnescaped(m.text, content, max(index, 0), len(m.text))
	return start, end, nil
}

func (m *Mapper) walkSmallCaps(index int, entries []pandoc.Node) (int, int, Extras) {
	start, end, _ := m.walkSequence(index, entries, 0)
	contentStart, contentEnd := start, end
	for _, delim := range smallCapsDelims {
		opening, closing := delim[0], delim[1]
		if end >= 0 && end <= len(m.text) && strings.HasPrefix(m.text[end:], closing) {
			start = strings.LastIndex(m.text[:end], opening)
			end += len(closing)
			break
		}
	}
	return start, end, ContentExtras{ContentStart: contentStart, ContentEnd: contentEnd}
}

func (m *Mapper) walkCite(index int, citations []pandoc.Citation) (int, int, Extras) {
	start, end := index, index
	citationStart := index
	captureBrackets := true
	var found []Range
	for i, c := range citations {
		var citationEnd int
		citationStart, citationEnd = find(m.text, "@"+c.ID, citationStart)
		if i == 0 {
			start = citationStart
		}
		end = citationEnd
		// "AuthorInText" citations carry no surrounding brackets.
		captureBrackets = captureBrackets && c.Mode.T != "AuthorInText"
		found = append(found, Range{Start: citationStart, End: citationEnd})
	}
	if start >= 0 && end > start && captureBrackets {
		for start >= 0 && m.text[start] != '[' {
			start--
		}
		for end <= len(m.text) && m.text[end-1] != ']' {
			end++
		}
		if end > len(m.text) {
			end = -1
		}
	}
	return start, end, CiteExtras{Citations: found}
}

func (m *Mapper) walkCode(index int, content string) (int, int, Extras) {
	start, end := index, index
	// Inline code can hold line breaks the tree no longer has; locate each
	// whitespace-delimited token independently.
	for i, tok := range strings.Fields(content) {
		var s int
		s, end = find(m.text, tok, end)
		if i == 0 {
			start = s
		}
	}
	// One backtick on each side.
	return start - 1, end + 1, ContentExtras{ContentStart: start, ContentEnd: end}
}

func (m *Mapper) walkSpaces(index int) (int, int) {
	if index < 0 {
		return -1, -1
	}
	start := index
	for start < len(m.text) {
		r, size := utf8.DecodeRuneInString(m.text[start:])
		if unicode.IsSpace(r) {
			break
		}
		start += size
	}
	end := start
	for end < len(m.text) {
		r, size := utf8.DecodeRuneInString(m.text[end:])
		if !unicode.IsSpace(r) {
			break
		}
		end += size
	}
	return start, end
}

func (m *Mapper) walkMath(index int, mathType, content string) (int, int, Extras) {
	start, end := find(m.text, content, index)
	padding := len(mathDelims[mathType])
	return start - padding, end + padding, ContentExtras{ContentStart: start, ContentEnd: end}
}

func (m *Mapper) walkLink(index int, entries []pandoc.Node, url, title string) (int, int, Extras) {
	start := index
	contentStart, contentEnd, _ := m.walkSequence(start, entries, 0)

	urlStart, urlEnd := contentEnd, contentEnd
	titleStart, titleEnd := contentEnd, contentEnd
	if url != "" {
		urlStart, urlEnd = find(m.text, url, contentEnd)
	}
	if title != "" {
		titleStart, titleEnd = find(m.text, title, contentEnd)
	}
	end := max(urlEnd, titleEnd)

	// Metadata on a different line belongs to a reference-style link and
	// is unordered; keep the content-only span in that case.
	cs, _ := lineAt(m.text, contentEnd)
	es, _ := lineAt(m.text, end)
	sameLine := cs == es
	if !sameLine {
		end = contentEnd
	} else if urlStart != urlEnd {
		end++ // closing parenthesis
		if titleStart != titleEnd {
			end++ // closing quote sits before it
		}
	}

	extras := LinkExtras{ContentStart: contentStart, ContentEnd: contentEnd}
	if sameLine {
		if urlStart != urlEnd {
			extras.URLStart, extras.URLEnd = urlStart, urlEnd
		}
		if titleStart != titleEnd {
			extras.TitleStart, extras.TitleEnd = titleStart, titleEnd
		}
	}
	return start, end, extras
}

func (m *Mapper) walkNote(index int, entries []pandoc.Node) (int, int, Extras) {
	if index < 0 || index > len(m.text) {
		return -1, -1, nil
	}
	if strings.HasPrefix(m.text[index:], "^[") {
		start, end, _ := m.walkSequence(index, entries, 0)
		extras := NoteExtras{Form: NoteInline, ContentStart: start, ContentEnd: end}
		end++ // closing bracket
		return start, end, extras
	}

	// Footnote: find the reference token, then walk the content from its
	// definition line, which can sit anywhere in the document.
	start, end := index, index
	extras := NoteExtras{Form: NoteFootnote}
	if token := footnoteToken.FindString(m.text[index:]); token != "" {
		defPattern := regexp.MustCompile(`(?m)^\s{0,3}` + regexp.QuoteMeta(token) + `: `)
		if def := defPattern.FindStringIndex(m.text); def != nil {
			start, end, _ = m.walkSequence(def[0], entries, 0)
			extras.ContentStart, extras.ContentEnd = start, end
		}
	}
	return start, end, extras
}
