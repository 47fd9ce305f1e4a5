package sourcemap

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/dgallion1/srcmap/internal/pandoc"
)

// Block walkers. Paragraph-kind spans are widened to whole lines after the
// walk, so these only need to pin down the content itself.

func (m *Mapper) walkCodeBlock(index int, content string) (int, int, Extras) {
	contentStart, contentEnd := index, index

	// The tree's content won't match the source verbatim here: tabs may
	// have been expanded and per-line indentation stripped. Locate each
	// whitespace-delimited token independently instead.
	for i, tok := range strings.Fields(content) {
		var s int
		s, contentEnd = find(m.text, tok, contentEnd)
		if i == 0 {
			contentStart = s
		}
	}
	start, end := contentStart, contentEnd

	// Cover the fence lines when both are present.
	bs, be := lineBefore(m.text, contentStart)
	as, ae := lineAfter(m.text, contentEnd)
	if codeBlockDelim.MatchString(m.text[bs:be]) && codeBlockDelim.MatchString(m.text[as:ae]) {
		start, end = bs, ae
	}

	return start, end, ContentExtras{ContentStart: contentStart, ContentEnd: contentEnd}
}

func (m *Mapper) walkList(index int, nested [][]pandoc.Node) (int, int, Extras) {
	start, end := m.walkNested(index, nested)
	return start, end, ContentExtras{ContentStart: start, ContentEnd: end}
}

func (m *Mapper) walkHeader(index, level int, entries []pandoc.Node) (int, int, Extras) {
	start, end, _ := m.walkSequence(index, entries, 0)

	// A setext underline directly after the content belongs to the header.
	as, ae := lineAfter(m.text, end)
	if headerSetextDelim.MatchString(m.text[as:ae]) {
		end = ae
	}
	return start, end, HeaderExtras{Level: level, ContentStart: start, ContentEnd: end}
}

func (m *Mapper) walkHorizontalRule(index int) (int, int, Extras) {
	if index < 0 {
		return -1, -1, nil
	}
	for index < len(m.text) {
		r, size := utf8.DecodeRuneInString(m.text[index:])
		if !unicode.IsSpace(r) {
			break
		}
		index += size
	}
	start, end := lineAt(m.text, index)
	start, end = trimSpanSpace(m.text, start, end)
	return start, end, ContentExtras{ContentStart: start, ContentEnd: end}
}

func (m *Mapper) walkTable(index int, caption []pandoc.Node, header [][]pandoc.Node, rows [][][]pandoc.Node) (int, int, Extras) {
	headerStart, headerEnd := m.walkNested(index, header)
	rowsStart, rowsEnd := m.walkNestedRows(headerEnd, rows)
	captionStart, captionEnd, _ := m.walkSequence(index, caption, 0)

	// The caption may sit before or after the table body.
	var start, end int
	switch {
	case headerStart != headerEnd && captionStart != captionEnd:
		start = min(headerStart, captionStart)
	case headerStart != headerEnd:
		start = headerStart
	case captionStart != captionEnd:
		start = min(captionStart, rowsStart)
	default:
		start = rowsStart
	}
	if captionStart != captionEnd {
		end = max(captionEnd, rowsEnd)
	} else {
		end = rowsEnd
	}

	// Cover rule-delimiter lines directly above or below.
	bs, be := lineBefore(m.text, start)
	if tableDelim.MatchString(m.text[bs:be]) {
		start = bs
	}
	as, ae := lineAfter(m.text, end)
	if tableDelim.MatchString(m.text[as:ae]) {
		end = ae
	}

	extras := TableExtras{RowsStart: rowsStart, RowsEnd: rowsEnd}
	if headerStart != headerEnd {
		extras.HeaderStart, extras.HeaderEnd = headerStart, headerEnd
	}
	if captionStart != captionEnd {
		extras.CaptionStart, extras.CaptionEnd = captionStart, captionEnd
	}
	return start, end, extras
}

func (m *Mapper) walkDiv(index int, attr pandoc.Attr, entries []pandoc.Node) (int, int, Extras) {
	start, end, _ := m.walkSequence(index, entries, 0)
	var extras Extras
	if attr.Identifier != "" {
		extras = DivExtras{Identifier: attr.Identifier}
	}
	return start, end, extras
}
