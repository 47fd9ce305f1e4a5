package sourcemap

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/dgallion1/srcmap/internal/pandoc"
)

// stubConverter returns a pre-built tree, standing in for the pandoc
// binary.
type stubConverter struct {
	doc *pandoc.Doc
	err error
}

func (c stubConverter) Convert(ctx context.Context, text string) (*pandoc.Doc, error) {
	return c.doc, c.err
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// Tree-building helpers mirroring pandoc's JSON shapes.

func nd(tag string, content any) pandoc.Node {
	if content == nil {
		return pandoc.Node{T: tag}
	}
	raw, err := json.Marshal(content)
	if err != nil {
		panic(err)
	}
	return pandoc.Node{T: tag, C: raw}
}

func str(s string) pandoc.Node                   { return nd("Str", s) }
func space() pandoc.Node                         { return nd("Space", nil) }
func softBreak() pandoc.Node                     { return nd("SoftBreak", nil) }
func para(inlines ...pandoc.Node) pandoc.Node    { return nd("Para", inlines) }
func plain(inlines ...pandoc.Node) pandoc.Node   { return nd("Plain", inlines) }
func inlines(nodes ...pandoc.Node) []pandoc.Node { return nodes }

func attrOf(id string, classes ...string) []any {
	if classes == nil {
		classes = []string{}
	}
	return []any{id, classes, [][]string{}}
}

func citation(id, mode string) map[string]any {
	return map[string]any{
		"citationId":   id,
		"citationMode": map[string]any{"t": mode},
	}
}

func mapText(t *testing.T, text string, blocks ...pandoc.Node) (*Mapper, []Span) {
	t.Helper()
	m := NewMapper(text, stubConverter{doc: &pandoc.Doc{Blocks: blocks}}, testLogger())
	spans, err := m.Walk(context.Background())
	if err != nil {
		t.Fatalf("walk: %v", err)
	}
	return m, spans
}

func spanOf(t *testing.T, spans []Span, kind Kind) Span {
	t.Helper()
	for _, sp := range spans {
		if sp.Kind == kind {
			return sp
		}
	}
	t.Fatalf("no %s span in %v", kind, spans)
	return Span{}
}

func expectNoWarnings(t *testing.T, m *Mapper) {
	t.Helper()
	if len(m.Warnings()) != 0 {
		t.Errorf("unexpected warnings: %v", m.Warnings())
	}
}

func expectSpan(t *testing.T, sp Span, start, end int) {
	t.Helper()
	if sp.Start != start || sp.End != end {
		t.Errorf("%s span: expected [%d,%d), got [%d,%d)", sp.Kind, start, end, sp.Start, sp.End)
	}
}

func TestMapper_StrongDelimiters(t *testing.T) {
	text := "Hello **world**!\n"
	m, spans := mapText(t, text,
		para(str("Hello"), space(), nd("Strong", inlines(str("world"))), str("!")),
	)
	expectNoWarnings(t, m)

	strong := spanOf(t, spans, KindStrong)
	expectSpan(t, strong, 6, 15)
	if got := text[strong.Start:strong.End]; got != "**world**" {
		t.Errorf("expected span over %q, got %q", "**world**", got)
	}
	ce, ok := strong.Extras.(ContentExtras)
	if !ok {
		t.Fatalf("expected ContentExtras, got %T", strong.Extras)
	}
	if text[ce.ContentStart:ce.ContentEnd] != "world" {
		t.Errorf("expected content %q, got %q", "world", text[ce.ContentStart:ce.ContentEnd])
	}

	p := spanOf(t, spans, KindPara)
	expectSpan(t, p, 0, 16)
}

func TestMapper_EmphasisPadding(t *testing.T) {
	text := "an *emphatic* word\n"
	m, spans := mapText(t, text,
		para(str("an"), space(), nd("Emph", inlines(str("emphatic"))), space(), str("word")),
	)
	expectNoWarnings(t, m)

	em := spanOf(t, spans, KindEmph)
	if got := text[em.Start:em.End]; got != "*emphatic*" {
		t.Errorf("expected %q, got %q", "*emphatic*", got)
	}
}

func TestMapper_FencedCodeBlock(t *testing.T) {
	text := "```python\nx = 1\n```\n"
	m, spans := mapText(t, text,
		nd("CodeBlock", []any{attrOf("", "python"), "x = 1"}),
	)
	expectNoWarnings(t, m)

	cb := spanOf(t, spans, KindCodeBlock)
	expectSpan(t, cb, 0, 19)
	if got := text[cb.Start:cb.End]; got != "```python\nx = 1\n```" {
		t.Errorf("expected both fence lines covered, got %q", got)
	}
	ce := cb.Extras.(ContentExtras)
	if text[ce.ContentStart:ce.ContentEnd] != "x = 1" {
		t.Errorf("expected content %q, got %q", "x = 1", text[ce.ContentStart:ce.ContentEnd])
	}
}

func TestMapper_IndentedCodeBlockTokens(t *testing.T) {
	// Indentation is stripped from the tree's content; tokens still
	// locate.
	text := "    x = 1\n    y = 2\n"
	m, spans := mapText(t, text,
		nd("CodeBlock", []any{attrOf(""), "x = 1\ny = 2"}),
	)
	expectNoWarnings(t, m)

	cb := spanOf(t, spans, KindCodeBlock)
	ce := cb.Extras.(ContentExtras)
	if ce.ContentStart != 4 || ce.ContentEnd != 19 {
		t.Errorf("expected content (4,19), got (%d,%d)", ce.ContentStart, ce.ContentEnd)
	}
}

func TestMapper_ATXHeader(t *testing.T) {
	text := "## Section\n\nBody\n"
	m, spans := mapText(t, text,
		nd("Header", []any{2, attrOf("section"), inlines(str("Section"))}),
		para(str("Body")),
	)
	expectNoWarnings(t, m)

	h := spanOf(t, spans, KindHeader)
	expectSpan(t, h, 0, 10)
	hx := h.Extras.(HeaderExtras)
	if hx.Level != 2 {
		t.Errorf("expected level 2, got %d", hx.Level)
	}
	if text[hx.ContentStart:hx.ContentEnd] != "Section" {
		t.Errorf("expected content %q, got %q", "Section", text[hx.ContentStart:hx.ContentEnd])
	}
}

func TestMapper_SetextHeader(t *testing.T) {
	text := "Title\n=====\n\nBody\n"
	m, spans := mapText(t, text,
		nd("Header", []any{1, attrOf("title"), inlines(str("Title"))}),
		para(str("Body")),
	)
	expectNoWarnings(t, m)

	h := spanOf(t, spans, KindHeader)
	expectSpan(t, h, 0, 11)
	if got := text[h.Start:h.End]; got != "Title\n=====" {
		t.Errorf("expected underline covered, got %q", got)
	}
}

func TestMapper_HorizontalRule(t *testing.T) {
	text := "above\n\n---\n\nbelow\n"
	m, spans := mapText(t, text,
		para(str("above")),
		nd("HorizontalRule", nil),
		para(str("below")),
	)
	expectNoWarnings(t, m)

	hr := spanOf(t, spans, KindHorizontalRule)
	expectSpan(t, hr, 7, 10)
	if got := text[hr.Start:hr.End]; got != "---" {
		t.Errorf("expected %q, got %q", "---", got)
	}
}

func TestMapper_SimpleTable(t *testing.T) {
	text := "A   B\n--- ---\n1   2\n"
	m, spans := mapText(t, text,
		nd("Table", []any{
			[]any{}, // caption
			[]any{}, // alignment
			[]any{}, // column widths
			[]any{inlines(plain(str("A"))), inlines(plain(str("B")))},
			[]any{[]any{inlines(plain(str("1"))), inlines(plain(str("2")))}},
		}),
	)
	expectNoWarnings(t, m)

	tbl := spanOf(t, spans, KindTable)
	expectSpan(t, tbl, 0, 19)
	tx := tbl.Extras.(TableExtras)
	if tx.HeaderStart != 0 || tx.HeaderEnd != 5 {
		t.Errorf("expected header (0,5), got (%d,%d)", tx.HeaderStart, tx.HeaderEnd)
	}
	if tx.RowsStart != 14 || tx.RowsEnd != 19 {
		t.Errorf("expected rows (14,19), got (%d,%d)", tx.RowsStart, tx.RowsEnd)
	}
	if tx.CaptionStart != tx.CaptionEnd {
		t.Errorf("expected no caption, got (%d,%d)", tx.CaptionStart, tx.CaptionEnd)
	}
}

func TestMapper_HeaderlessTableDelimiters(t *testing.T) {
	text := "--- ---\n1   2\n--- ---\n"
	m, spans := mapText(t, text,
		nd("Table", []any{
			[]any{},
			[]any{},
			[]any{},
			[]any{[]any{}, []any{}},
			[]any{[]any{inlines(plain(str("1"))), inlines(plain(str("2")))}},
		}),
	)
	expectNoWarnings(t, m)

	tbl := spanOf(t, spans, KindTable)
	expectSpan(t, tbl, 0, 21)
	tx := tbl.Extras.(TableExtras)
	if tx.HeaderStart != tx.HeaderEnd {
		t.Errorf("expected no header, got (%d,%d)", tx.HeaderStart, tx.HeaderEnd)
	}
	if tx.RowsStart != 8 || tx.RowsEnd != 13 {
		t.Errorf("expected rows (8,13), got (%d,%d)", tx.RowsStart, tx.RowsEnd)
	}
}

func TestMapper_LinkWithTitle(t *testing.T) {
	text := "[text](http://example.com \"Title\")\n"
	m, spans := mapText(t, text,
		para(nd("Link", []any{attrOf(""), inlines(str("text")), []string{"http://example.com", "Title"}})),
	)
	expectNoWarnings(t, m)

	link := spanOf(t, spans, KindLink)
	expectSpan(t, link, 0, 34)
	if got := text[link.Start:link.End]; got[len(got)-1] != ')' {
		t.Errorf("expected closing parenthesis covered, got %q", got)
	}
	lx := link.Extras.(LinkExtras)
	if text[lx.ContentStart:lx.ContentEnd] != "text" {
		t.Errorf("expected content %q, got %q", "text", text[lx.ContentStart:lx.ContentEnd])
	}
	if text[lx.URLStart:lx.URLEnd] != "http://example.com" {
		t.Errorf("expected url bounds, got %q", text[lx.URLStart:lx.URLEnd])
	}
	if text[lx.TitleStart:lx.TitleEnd] != "Title" {
		t.Errorf("expected title bounds, got %q", text[lx.TitleStart:lx.TitleEnd])
	}
}

func TestMapper_LinkWithoutTitle(t *testing.T) {
	text := "[text](http://example.com)\n"
	m, spans := mapText(t, text,
		para(nd("Link", []any{attrOf(""), inlines(str("text")), []string{"http://example.com", ""}})),
	)
	expectNoWarnings(t, m)

	link := spanOf(t, spans, KindLink)
	expectSpan(t, link, 0, 26)
	lx := link.Extras.(LinkExtras)
	if lx.TitleStart != lx.TitleEnd {
		t.Errorf("expected no title bounds, got (%d,%d)", lx.TitleStart, lx.TitleEnd)
	}
}

func TestMapper_ReferenceLinkKeepsContentSpan(t *testing.T) {
	text := "[text][ref]\n\n[ref]: http://example.com\n"
	m, spans := mapText(t, text,
		para(nd("Link", []any{attrOf(""), inlines(str("text")), []string{"http://example.com", ""}})),
	)
	expectNoWarnings(t, m)

	// The URL sits on another line: the span stays content-only and the
	// out-of-line metadata is not recorded.
	link := spanOf(t, spans, KindLink)
	if link.End != 5 {
		t.Errorf("expected content-only end 5, got %d", link.End)
	}
	lx := link.Extras.(LinkExtras)
	if lx.URLStart != lx.URLEnd {
		t.Errorf("expected no url bounds, got (%d,%d)", lx.URLStart, lx.URLEnd)
	}
}

func TestMapper_Image(t *testing.T) {
	text := "![alt](img.png)\n"
	m, spans := mapText(t, text,
		para(nd("Image", []any{attrOf(""), inlines(str("alt")), []string{"img.png", ""}})),
	)
	expectNoWarnings(t, m)

	img := spanOf(t, spans, KindImage)
	expectSpan(t, img, 0, 15)
	ix := img.Extras.(LinkExtras)
	if text[ix.URLStart:ix.URLEnd] != "img.png" {
		t.Errorf("expected url %q, got %q", "img.png", text[ix.URLStart:ix.URLEnd])
	}
}

func TestMapper_FootnoteDefinition(t *testing.T) {
	text := "See [^a]\n\n[^a]: Explanation.\n"
	m, spans := mapText(t, text,
		para(str("See"), space(), nd("Note", inlines(para(str("Explanation."))))),
	)
	expectNoWarnings(t, m)

	note := spanOf(t, spans, KindNote)
	nx := note.Extras.(NoteExtras)
	if nx.Form != NoteFootnote {
		t.Fatalf("expected footnote form, got %q", nx.Form)
	}

	// The content resolves to the definition line, not the text between
	// reference and definition.
	inner := spanOf(t, spans, KindStr)
	for _, sp := range spans {
		if sp.Kind == KindStr && text[sp.Start:sp.End] == "Explanation." {
			inner = sp
		}
	}
	if text[inner.Start:inner.End] != "Explanation." {
		t.Errorf("expected content %q, got %q", "Explanation.", text[inner.Start:inner.End])
	}

	// The footnote is unordered: the containing paragraph keeps the span
	// of its in-line content only.
	p := spans[len(spans)-1]
	if p.Kind != KindPara {
		t.Fatalf("expected trailing Para, got %s", p.Kind)
	}
	expectSpan(t, p, 0, 8)
}

func TestMapper_InlineNote(t *testing.T) {
	text := "^[a note]\n"
	m, spans := mapText(t, text,
		para(nd("Note", inlines(para(str("a"), space(), str("note"))))),
	)
	expectNoWarnings(t, m)

	note := spanOf(t, spans, KindNote)
	nx := note.Extras.(NoteExtras)
	if nx.Form != NoteInline {
		t.Fatalf("expected inline form, got %q", nx.Form)
	}
	if got := text[note.Start:note.End]; got != "^[a note]" {
		t.Errorf("expected %q, got %q", "^[a note]", got)
	}
}

func TestMapper_CiteBrackets(t *testing.T) {
	text := "[@doe99; @smith04]\n"
	m, spans := mapText(t, text,
		para(nd("Cite", []any{
			[]any{citation("doe99", "NormalCitation"), citation("smith04", "NormalCitation")},
			[]any{},
		})),
	)
	expectNoWarnings(t, m)

	cite := spanOf(t, spans, KindCite)
	expectSpan(t, cite, 0, 18)
	cx := cite.Extras.(CiteExtras)
	if len(cx.Citations) != 2 {
		t.Fatalf("expected 2 citations, got %d", len(cx.Citations))
	}
	if text[cx.Citations[0].Start:cx.Citations[0].End] != "@doe99" {
		t.Errorf("unexpected first citation bounds: %v", cx.Citations[0])
	}
	if text[cx.Citations[1].Start:cx.Citations[1].End] != "@smith04" {
		t.Errorf("unexpected second citation bounds: %v", cx.Citations[1])
	}
}

func TestMapper_CiteAuthorInText(t *testing.T) {
	text := "@doe99 wrote\n"
	m, spans := mapText(t, text,
		para(nd("Cite", []any{[]any{citation("doe99", "AuthorInText")}, []any{}}), space(), str("wrote")),
	)
	expectNoWarnings(t, m)

	cite := spanOf(t, spans, KindCite)
	expectSpan(t, cite, 0, 6)
}

func TestMapper_InlineCode(t *testing.T) {
	text := "`x = 1`\n"
	m, spans := mapText(t, text,
		para(nd("Code", []any{attrOf(""), "x = 1"})),
	)
	expectNoWarnings(t, m)

	code := spanOf(t, spans, KindCode)
	expectSpan(t, code, 0, 7)
	ce := code.Extras.(ContentExtras)
	if text[ce.ContentStart:ce.ContentEnd] != "x = 1" {
		t.Errorf("expected content %q, got %q", "x = 1", text[ce.ContentStart:ce.ContentEnd])
	}
}

func TestMapper_Math(t *testing.T) {
	text := "$x+y$\n"
	m, spans := mapText(t, text,
		para(nd("Math", []any{map[string]any{"t": "InlineMath"}, "x+y"})),
	)
	expectNoWarnings(t, m)
	expectSpan(t, spanOf(t, spans, KindMath), 0, 5)

	text = "$$E=mc^2$$\n"
	m, spans = mapText(t, text,
		para(nd("Math", []any{map[string]any{"t": "DisplayMath"}, "E=mc^2"})),
	)
	expectNoWarnings(t, m)
	expectSpan(t, spanOf(t, spans, KindMath), 0, 10)
}

func TestMapper_SmallCaps(t *testing.T) {
	text := "[abc]{.smallcaps}\n"
	m, spans := mapText(t, text,
		para(nd("SmallCaps", inlines(str("abc")))),
	)
	expectNoWarnings(t, m)

	sc := spanOf(t, spans, KindSmallCaps)
	expectSpan(t, sc, 0, 17)
	ce := sc.Extras.(ContentExtras)
	if text[ce.ContentStart:ce.ContentEnd] != "abc" {
		t.Errorf("expected content %q, got %q", "abc", text[ce.ContentStart:ce.ContentEnd])
	}
}

func TestMapper_Quoted(t *testing.T) {
	text := "'hello'\n"
	m, spans := mapText(t, text,
		para(nd("Quoted", []any{map[string]any{"t": "SingleQuote"}, inlines(str("hello"))})),
	)
	expectNoWarnings(t, m)

	q := spanOf(t, spans, KindQuoted)
	expectSpan(t, q, 0, 7)
}

func TestMapper_BulletList(t *testing.T) {
	text := "- a\n- b\n"
	m, spans := mapText(t, text,
		nd("BulletList", []any{inlines(plain(str("a"))), inlines(plain(str("b")))}),
	)
	expectNoWarnings(t, m)

	list := spanOf(t, spans, KindBulletList)
	expectSpan(t, list, 0, 7)
}

func TestMapper_OrderedList(t *testing.T) {
	text := "1. a\n2. b\n"
	m, spans := mapText(t, text,
		nd("OrderedList", []any{
			[]any{1, map[string]any{"t": "Decimal"}, map[string]any{"t": "Period"}},
			[]any{inlines(plain(str("a"))), inlines(plain(str("b")))},
		}),
	)
	expectNoWarnings(t, m)

	list := spanOf(t, spans, KindOrderedList)
	expectSpan(t, list, 0, 9)
}

func TestMapper_DefinitionList(t *testing.T) {
	text := "term\n: def\n"
	m, spans := mapText(t, text,
		nd("DefinitionList", []any{
			[]any{inlines(str("term")), []any{inlines(plain(str("def")))}},
		}),
	)
	expectNoWarnings(t, m)

	dl := spanOf(t, spans, KindDefinitionList)
	expectSpan(t, dl, 0, 10)
}

func TestMapper_LineBlock(t *testing.T) {
	text := "| one\n| two\n"
	m, spans := mapText(t, text,
		nd("LineBlock", []any{inlines(str("one")), inlines(str("two"))}),
	)
	expectNoWarnings(t, m)

	lb := spanOf(t, spans, KindLineBlock)
	expectSpan(t, lb, 0, 11)
}

func TestMapper_RawBlockNotWidened(t *testing.T) {
	text := "<div>x</div>\n"
	m, spans := mapText(t, text,
		nd("RawBlock", []any{"html", "<div>x</div>"}),
	)
	expectNoWarnings(t, m)

	raw := spanOf(t, spans, KindRawBlock)
	expectSpan(t, raw, 0, 12)
	if raw.InnerStart != 0 || raw.InnerEnd != 0 {
		t.Errorf("raw blocks must not be line-widened, got inner (%d,%d)", raw.InnerStart, raw.InnerEnd)
	}
}

func TestMapper_ReflowedSoftBreakUnordered(t *testing.T) {
	// The source holds a real line break; the paragraph spans both words.
	text := "one\ntwo\n"
	m, spans := mapText(t, text, para(str("one"), softBreak(), str("two")))
	expectNoWarnings(t, m)
	p := spanOf(t, spans, KindPara)
	if p.InnerEnd != 7 {
		t.Errorf("expected inner end 7, got %d", p.InnerEnd)
	}

	// No line break under the soft break: everything after it no longer
	// tracks source order, so the paragraph keeps only its leading span.
	text = "one two\n"
	m, spans = mapText(t, text, para(str("one"), softBreak(), str("two")))
	expectNoWarnings(t, m)
	p = spanOf(t, spans, KindPara)
	if p.InnerEnd != 3 {
		t.Errorf("expected inner end 3, got %d", p.InnerEnd)
	}
}

func TestMapper_BibliographyDivUnordered(t *testing.T) {
	text := "> quoted\n\nbibliography\n"
	m, spans := mapText(t, text,
		nd("BlockQuote", inlines(
			para(str("quoted")),
			nd("Div", []any{attrOf("refs"), inlines(para(str("bibliography")))}),
		)),
	)
	expectNoWarnings(t, m)

	div := spanOf(t, spans, KindDiv)
	dx := div.Extras.(DivExtras)
	if dx.Identifier != "refs" {
		t.Errorf("expected identifier %q, got %q", "refs", dx.Identifier)
	}

	// The refs div trails out-of-line; the quote's span must not absorb it.
	bq := spanOf(t, spans, KindBlockQuote)
	expectSpan(t, bq, 0, 8)
}

func TestMapper_EscapedStr(t *testing.T) {
	text := "\\*not bold\\*\n"
	m, spans := mapText(t, text,
		para(str("*not"), space(), str("bold*")),
	)
	expectNoWarnings(t, m)

	first := spans[0]
	if first.Kind != KindStr {
		t.Fatalf("expected Str first, got %s", first.Kind)
	}
	expectSpan(t, first, 0, 5)
	last := spanOf(t, spans, KindPara)
	if last.InnerEnd != 12 {
		t.Errorf("expected paragraph to cover trailing escape, got inner end %d", last.InnerEnd)
	}
}

func TestMapper_EntityStr(t *testing.T) {
	text := "&ccedil;a va\n"
	m, spans := mapText(t, text,
		para(str("ça"), space(), str("va")),
	)
	expectNoWarnings(t, m)

	first := spans[0]
	expectSpan(t, first, 0, 9)
	if got := text[first.Start:first.End]; got != "&ccedil;a" {
		t.Errorf("expected %q, got %q", "&ccedil;a", got)
	}
}

func TestMapper_UnknownTagWarnsAndSkips(t *testing.T) {
	m, spans := mapText(t, "x\n", nd("Gizmo", "x"))
	if len(spans) != 0 {
		t.Errorf("expected no spans, got %v", spans)
	}
	if len(m.Warnings()) != 1 {
		t.Errorf("expected 1 warning, got %v", m.Warnings())
	}
}

func TestMapper_UnlocatableNodeWarns(t *testing.T) {
	m, spans := mapText(t, "nothing here\n", para(str("missing")))
	if len(spans) != 0 {
		t.Errorf("expected no spans, got %v", spans)
	}
	// One warning for the Str, one for the now-empty Para.
	if len(m.Warnings()) != 2 {
		t.Errorf("expected 2 warnings, got %v", m.Warnings())
	}
}

func TestMapper_ConverterFailureIsFatal(t *testing.T) {
	wantErr := errors.New("engine exploded")
	m := NewMapper("x\n", stubConverter{err: wantErr}, testLogger())
	if _, err := m.Walk(context.Background()); !errors.Is(err, wantErr) {
		t.Fatalf("expected converter error, got %v", err)
	}
}

func TestMapper_MalformedNodeIsFatal(t *testing.T) {
	m := NewMapper("x\n", stubConverter{doc: &pandoc.Doc{
		Blocks: []pandoc.Node{{T: "Header", C: json.RawMessage(`"not a tuple"`)}},
	}}, testLogger())
	if _, err := m.Walk(context.Background()); err == nil {
		t.Fatal("expected error for malformed node content")
	}
}

// A composite document: no warnings, and every span obeys the containment
// and trim invariants.
func TestMapper_CleanDocumentInvariants(t *testing.T) {
	text := "# Title\n\nHello **world**!\n\n- a\n- b\n\n```python\nx = 1\n```\n"
	m, spans := mapText(t, text,
		nd("Header", []any{1, attrOf("title"), inlines(str("Title"))}),
		para(str("Hello"), space(), nd("Strong", inlines(str("world"))), str("!")),
		nd("BulletList", []any{inlines(plain(str("a"))), inlines(plain(str("b")))}),
		nd("CodeBlock", []any{attrOf("", "python"), "x = 1"}),
	)
	expectNoWarnings(t, m)

	if len(spans) == 0 {
		t.Fatal("expected spans")
	}
	for _, sp := range spans {
		if sp.Start < 0 || sp.Start >= sp.End || sp.End > len(text) {
			t.Errorf("%s span [%d,%d) violates containment", sp.Kind, sp.Start, sp.End)
		}
		if sp.Kind == KindSpace || sp.Kind == KindSoftBreak || sp.Kind == KindLineBreak {
			continue
		}
		bounds := [2]int{sp.Start, sp.End}
		if paragraphKinds[sp.Kind] {
			bounds = [2]int{sp.InnerStart, sp.InnerEnd}
		}
		ts, te := trimSpanSpace(text, bounds[0], bounds[1])
		if ts != bounds[0] || te != bounds[1] {
			t.Errorf("%s span [%d,%d) is not trim-idempotent: re-trim gives [%d,%d)",
				sp.Kind, bounds[0], bounds[1], ts, te)
		}
	}
}
