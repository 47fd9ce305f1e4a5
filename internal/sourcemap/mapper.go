// Package sourcemap correlates pandoc's parse tree with the markdown text
// it was produced from, recovering the source span of every tree node.
//
// The tree carries no positions of its own. The walker visits it top-down,
// left-to-right, depth-first, consuming matching text as it goes: each walk
// function receives the offset at which to start searching and reports the
// offset reached after its subtree. Regular-expression scanning would be
// faster but far less accurate; provided pandoc understood the document,
// everything it parsed can be located in the original text, including
// secondary metadata such as a link's URL or a table's caption.
package sourcemap

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"regexp"
	"strings"
	"time"

	"github.com/dgallion1/srcmap/internal/pandoc"
)

var (
	codeBlockDelim    = regexp.MustCompile("^\\s{0,3}[`~]{3,}")
	headerSetextDelim = regexp.MustCompile(`^\s{0,3}(?:-+|=+)\s*$`)
	tableDelim        = regexp.MustCompile(`^\s{0,3}(?:[-\s]+|[-+:]+)\s*$`)
	footnoteToken     = regexp.MustCompile(`\[\^\S+\]`)
)

var smallCapsDelims = [...][2]string{
	{"[", "]{.smallcaps}"},
	{"<span ", "</span>"},
}

var mathDelims = map[string]string{
	"DisplayMath": "$$",
	"InlineMath":  "$",
}

// refsIdentifier marks the bibliography div citeproc appends to the end of
// the document; its position is unrelated to its siblings'.
const refsIdentifier = "refs"

// Converter produces pandoc's parse tree for a document.
type Converter interface {
	Convert(ctx context.Context, text string) (*pandoc.Doc, error)
}

// Mapper walks pandoc's parse tree for one document, producing a Span per
// node. Construct one Mapper per document: the text and accumulated
// results belong to a single Walk call, so a Mapper is not safe for
// concurrent or repeated use.
type Mapper struct {
	text string
	conv Converter
	log  *slog.Logger

	results  []Span
	warnings []string
	err      error
}

// NewMapper returns a Mapper over text.
func NewMapper(text string, conv Converter, log *slog.Logger) *Mapper {
	return &Mapper{text: text, conv: conv, log: log}
}

// Walk converts the document and traverses the resulting tree, returning
// one Span per successfully mapped node in traversal order. Traversal
// order is not text order: some nodes (footnotes, the bibliography div)
// sit elsewhere in the text than their tree position suggests.
func (m *Mapper) Walk(ctx context.Context) ([]Span, error) {
	started := time.Now()
	doc, err := m.conv.Convert(ctx, m.text)
	if err != nil {
		return nil, fmt.Errorf("convert document: %w", err)
	}
	converted := time.Now()

	m.walkSequence(0, doc.Blocks, 0)
	if m.err != nil {
		return nil, m.err
	}

	m.log.Debug("walked parse tree",
		"convert_ms", converted.Sub(started).Milliseconds(),
		"walk_ms", time.Since(converted).Milliseconds(),
		"spans", len(m.results),
		"warnings", len(m.warnings),
	)
	return m.results, nil
}

// Warnings reports the non-fatal diagnostics raised during Walk. A clean
// document raises none.
func (m *Mapper) Warnings() []string { return m.warnings }

func (m *Mapper) warnf(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	m.warnings = append(m.warnings, msg)
	m.log.Warn(msg)
}

func (m *Mapper) fail(kind Kind, err error) {
	if m.err == nil {
		m.err = fmt.Errorf("malformed %s node: %w", kind, err)
	}
}

// walkSequence visits entries left-to-right, advancing the cursor by each
// result's end. Start/end are inherited from ordered results only, so
// out-of-line trailing content cannot corrupt the container's span. A
// non-zero padding widens the returned bounds by that many bytes on each
// side and records the unpadded bounds as content extras.
func (m *Mapper) walkSequence(index int, entries []pandoc.Node, padding int) (int, int, Extras) {
	start, end := index, index
	var produced []*Span
	for i, entry := range entries {
		res := m.walkOne(end, entry)
		if res == nil {
			continue
		}
		produced = append(produced, res)
		if m.lastResultOrdered(produced) {
			if i == 0 {
				start = res.Start
			}
			end = res.End
		}
	}
	var extras Extras
	if padding != 0 {
		extras = ContentExtras{ContentStart: start, ContentEnd: end}
	}
	return start - padding, end + padding, extras
}

// walkNested is walkSequence over a list of lists.
func (m *Mapper) walkNested(index int, nested [][]pandoc.Node) (int, int) {
	start, end := index, index
	for i, entries := range nested {
		s, e, _ := m.walkSequence(end, entries, 0)
		if i == 0 {
			start = s
		}
		end = e
	}
	return start, end
}

// walkNestedRows is walkNested one level deeper, for table rows.
func (m *Mapper) walkNestedRows(index int, rows [][][]pandoc.Node) (int, int) {
	start, end := index, index
	for i, cells := range rows {
		s, e := m.walkNested(end, cells)
		if i == 0 {
			start = s
		}
		end = e
	}
	return start, end
}

// walkPairs alternates a term list and its nested definition lists, for
// definition lists.
func (m *Mapper) walkPairs(index int, items []definitionItem) (int, int) {
	start, end := index, index
	for i, item := range items {
		s, e, _ := m.walkSequence(end, item.term, 0)
		if i == 0 {
			start = s
		}
		_, end = m.walkNested(e, item.definitions)
	}
	return start, end
}

type definitionItem struct {
	term        []pandoc.Node
	definitions [][]pandoc.Node
}

// lastResultOrdered reports whether the most recent result in produced may
// contribute bounds to its container. Bibliography divs and footnotes sit
// at unrelated positions; so does anything after a soft break whose
// matched text holds no newline, which signals reflowed text where the
// break no longer corresponds to a real line boundary.
func (m *Mapper) lastResultOrdered(produced []*Span) bool {
	last := produced[len(produced)-1]
	if d, ok := last.Extras.(DivExtras); ok && last.Kind == KindDiv && d.Identifier == refsIdentifier {
		return false
	}
	if n, ok := last.Extras.(NoteExtras); ok && last.Kind == KindNote && n.Form == NoteFootnote {
		return false
	}
	for _, prev := range produced[:len(produced)-1] {
		if prev.Kind == KindSoftBreak && !strings.Contains(m.text[prev.Start:prev.End], "\n") {
			return false
		}
	}
	return true
}

// walkOne dispatches on the node's tag, applies the tag's span rule, then
// the generic post-processing: validity check, whitespace trim for
// non-spaced kinds, and line widening for paragraph kinds. It returns nil
// for nodes that yield no span (unknown tag or invalid bounds); such nodes
// do not advance the cursor.
func (m *Mapper) walkOne(index int, n pandoc.Node) *Span {
	if m.err != nil {
		return nil
	}

	kind := Kind(n.T)
	var (
		start, end int
		extras     Extras
	)
	switch kind {
	case KindPlain, KindPara, KindBlockQuote:
		var entries []pandoc.Node
		if err := n.Decode(&entries); err != nil {
			m.fail(kind, err)
			return nil
		}
		start, end, extras = m.walkSequence(index, entries, 0)

	case KindLineBlock:
		var nested [][]pandoc.Node
		if err := n.Decode(&nested); err != nil {
			m.fail(kind, err)
			return nil
		}
		start, end = m.walkNested(index, nested)

	case KindCodeBlock:
		var content string
		if err := n.DecodeTuple(nil, &content); err != nil {
			m.fail(kind, err)
			return nil
		}
		start, end, extras = m.walkCodeBlock(index, content)

	case KindRawBlock, KindRawInline:
		var content string
		if err := n.DecodeTuple(nil, &content); err != nil {
			m.fail(kind, err)
			return nil
		}
		start, end, extras = m.walkStr(index, content)

	case KindOrderedList:
		var nested [][]pandoc.Node
		if err := n.DecodeTuple(nil, &nested); err != nil {
			m.fail(kind, err)
			return nil
		}
		start, end, extras = m.walkList(index, nested)

	case KindBulletList:
		var nested [][]pandoc.Node
		if err := n.Decode(&nested); err != nil {
			m.fail(kind, err)
			return nil
		}
		start, end, extras = m.walkList(index, nested)

	case KindDefinitionList:
		items, err := decodeDefinitionItems(n)
		if err != nil {
			m.fail(kind, err)
			return nil
		}
		start, end = m.walkPairs(index, items)

	case KindHeader:
		var (
			level   int
			entries []pandoc.Node
		)
		if err := n.DecodeTuple(&level, nil, &entries); err != nil {
			m.fail(kind, err)
			return nil
		}
		start, end, extras = m.walkHeader(index, level, entries)

	case KindHorizontalRule:
		start, end, extras = m.walkHorizontalRule(index)

	case KindTable:
		var (
			caption []pandoc.Node
			header  [][]pandoc.Node
			rows    [][][]pandoc.Node
		)
		if err := n.DecodeTuple(&caption, nil, nil, &header, &rows); err != nil {
			m.fail(kind, err)
			return nil
		}
		start, end, extras = m.walkTable(index, caption, header, rows)

	case KindDiv:
		var (
			attr    pandoc.Attr
			entries []pandoc.Node
		)
		if err := n.DecodeTuple(&attr, &entries); err != nil {
			m.fail(kind, err)
			return nil
		}
		start, end, extras = m.walkDiv(index, attr, entries)

	case KindNull:
		start, end = index, index

	case KindStr:
		var content string
		if err := n.Decode(&content); err != nil {
			m.fail(kind, err)
			return nil
		}
		start, end, extras = m.walkStr(index, content)

	case KindEmph, KindSuperscript, KindSubscript:
		var entries []pandoc.Node
		if err := n.Decode(&entries); err != nil {
			m.fail(kind, err)
			return nil
		}
		start, end, extras = m.walkSequence(index, entries, 1)

	case KindStrong, KindStrikeout:
		var entries []pandoc.Node
		if err := n.Decode(&entries); err != nil {
			m.fail(kind, err)
			return nil
		}
		start, end, extras = m.walkSequence(index, entries, 2)

	case KindSmallCaps:
		var entries []pandoc.Node
		if err := n.Decode(&entries); err != nil {
			m.fail(kind, err)
			return nil
		}
		start, end, extras = m.walkSmallCaps(index, entries)

	case KindQuoted:
		var entries []pandoc.Node
		if err := n.DecodeTuple(nil, &entries); err != nil {
			m.fail(kind, err)
			return nil
		}
		start, end, extras = m.walkSequence(index, entries, 1)

	case KindCite:
		var citations []pandoc.Citation
		if err := n.DecodeTuple(&citations, nil); err != nil {
			m.fail(kind, err)
			return nil
		}
		start, end, extras = m.walkCite(index, citations)

	case KindCode:
		var content string
		if err := n.DecodeTuple(nil, &content); err != nil {
			m.fail(kind, err)
			return nil
		}
		start, end, extras = m.walkCode(index, content)

	case KindSpace, KindSoftBreak, KindLineBreak:
		start, end = m.walkSpaces(index)

	case KindMath:
		var (
			mathType pandoc.Node
			content  string
		)
		if err := n.DecodeTuple(&mathType, &content); err != nil {
			m.fail(kind, err)
			return nil
		}
		start, end, extras = m.walkMath(index, mathType.T, content)

	case KindLink, KindImage:
		var (
			entries []pandoc.Node
			target  []string
		)
		if err := n.DecodeTuple(nil, &entries, &target); err != nil {
			m.fail(kind, err)
			return nil
		}
		var url, title string
		if len(target) > 0 {
			url = target[0]
		}
		if len(target) > 1 {
			title = target[1]
		}
		start, end, extras = m.walkLink(index, entries, url, title)

	case KindSpan:
		var entries []pandoc.Node
		if err := n.DecodeTuple(nil, &entries); err != nil {
			m.fail(kind, err)
			return nil
		}
		start, end, extras = m.walkSequence(index, entries, 0)

	case KindNote:
		var entries []pandoc.Node
		if err := n.Decode(&entries); err != nil {
			m.fail(kind, err)
			return nil
		}
		start, end, extras = m.walkNote(index, entries)

	default:
		m.warnf("unknown pandoc tag %q, node skipped", n.T)
		return nil
	}
	if m.err != nil {
		return nil
	}

	if start < 0 || end < 0 || start >= end || end > len(m.text) {
		m.warnf("invalid span [%d,%d) for %s node walked from %d, node skipped", start, end, kind, index)
		return nil
	}

	res := &Span{Kind: kind, Start: start, End: end, Extras: extras}
	if kind != KindSpace && kind != KindSoftBreak && kind != KindLineBreak {
		res.Start, res.End = trimSpanSpace(m.text, res.Start, res.End)
	}
	if paragraphKinds[kind] {
		res.InnerStart, res.InnerEnd = res.Start, res.End
		res.Start, _ = lineAt(m.text, res.Start)
		_, res.End = lineAt(m.text, res.End)
	}

	m.results = append(m.results, *res)
	return res
}

func decodeDefinitionItems(n pandoc.Node) ([]definitionItem, error) {
	var raw [][2]json.RawMessage
	if err := n.Decode(&raw); err != nil {
		return nil, err
	}
	items := make([]definitionItem, 0, len(raw))
	for _, entry := range raw {
		var item definitionItem
		if err := json.Unmarshal(entry[0], &item.term); err != nil {
			return nil, err
		}
		if err := json.Unmarshal(entry[1], &item.definitions); err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, nil
}
