package sourcemap

// Kind is a pandoc AST tag.
type Kind string

// Block tags.
const (
	KindPlain          Kind = "Plain"
	KindPara           Kind = "Para"
	KindLineBlock      Kind = "LineBlock"
	KindCodeBlock      Kind = "CodeBlock"
	KindRawBlock       Kind = "RawBlock"
	KindBlockQuote     Kind = "BlockQuote"
	KindOrderedList    Kind = "OrderedList"
	KindBulletList     Kind = "BulletList"
	KindDefinitionList Kind = "DefinitionList"
	KindHeader         Kind = "Header"
	KindHorizontalRule Kind = "HorizontalRule"
	KindTable          Kind = "Table"
	KindDiv            Kind = "Div"
	KindNull           Kind = "Null"
)

// Inline tags.
const (
	KindStr         Kind = "Str"
	KindEmph        Kind = "Emph"
	KindStrong      Kind = "Strong"
	KindStrikeout   Kind = "Strikeout"
	KindSuperscript Kind = "Superscript"
	KindSubscript   Kind = "Subscript"
	KindSmallCaps   Kind = "SmallCaps"
	KindQuoted      Kind = "Quoted"
	KindCite        Kind = "Cite"
	KindCode        Kind = "Code"
	KindSpace       Kind = "Space"
	KindSoftBreak   Kind = "SoftBreak"
	KindLineBreak   Kind = "LineBreak"
	KindMath        Kind = "Math"
	KindRawInline   Kind = "RawInline"
	KindLink        Kind = "Link"
	KindImage       Kind = "Image"
	KindNote        Kind = "Note"
	KindSpan        Kind = "Span"
)

var blockKinds = map[Kind]bool{
	KindPlain: true, KindPara: true, KindLineBlock: true, KindCodeBlock: true,
	KindRawBlock: true, KindBlockQuote: true, KindOrderedList: true,
	KindBulletList: true, KindDefinitionList: true, KindHeader: true,
	KindHorizontalRule: true, KindTable: true, KindDiv: true, KindNull: true,
}

// IsBlock reports whether k is a block-level tag.
func IsBlock(k Kind) bool { return blockKinds[k] }

// paragraphKinds span whole source lines: every block except Plain,
// RawBlock and Null.
var paragraphKinds = map[Kind]bool{
	KindPara: true, KindLineBlock: true, KindCodeBlock: true,
	KindBlockQuote: true, KindOrderedList: true, KindBulletList: true,
	KindDefinitionList: true, KindHeader: true, KindHorizontalRule: true,
	KindTable: true, KindDiv: true,
}

// Span is one mapped node: the half-open byte range [Start,End) of the
// source text that produced it, plus tag-specific metadata.
type Span struct {
	Kind  Kind `json:"kind"`
	Start int  `json:"start"`
	End   int  `json:"end"`

	// InnerStart/InnerEnd record the trimmed bounds of line-spanning block
	// kinds before Start/End were widened to cover whole lines.
	InnerStart int `json:"inner_start,omitempty"`
	InnerEnd   int `json:"inner_end,omitempty"`

	Extras Extras `json:"extras,omitempty"`
}

// Extras is tag-specific span metadata. The concrete types below form a
// closed set; consumers dispatch with a type switch.
type Extras interface {
	isExtras()
}

// Range is a half-open byte range.
type Range struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

// ContentExtras bounds the content inside surrounding markup, e.g. "bold"
// inside **bold**, or a code block's body inside its fences.
type ContentExtras struct {
	ContentStart int `json:"content_start"`
	ContentEnd   int `json:"content_end"`
}

// HeaderExtras carries a header's level alongside its content bounds.
type HeaderExtras struct {
	Level        int `json:"level"`
	ContentStart int `json:"content_start"`
	ContentEnd   int `json:"content_end"`
}

// TableExtras locates a table's parts. Rows are always present; the header
// and caption are present iff their start and end differ.
type TableExtras struct {
	RowsStart    int `json:"rows_start"`
	RowsEnd      int `json:"rows_end"`
	HeaderStart  int `json:"header_start,omitempty"`
	HeaderEnd    int `json:"header_end,omitempty"`
	CaptionStart int `json:"caption_start,omitempty"`
	CaptionEnd   int `json:"caption_end,omitempty"`
}

// DivExtras carries a div's identifier attribute when it has one.
type DivExtras struct {
	Identifier string `json:"identifier"`
}

// LinkExtras locates a link or image's parts. URL and title bounds are
// present iff they were found on the same line as the content; metadata of
// reference-style links sits elsewhere in the text and is not recorded.
type LinkExtras struct {
	ContentStart int `json:"content_start"`
	ContentEnd   int `json:"content_end"`
	URLStart     int `json:"url_start,omitempty"`
	URLEnd       int `json:"url_end,omitempty"`
	TitleStart   int `json:"title_start,omitempty"`
	TitleEnd     int `json:"title_end,omitempty"`
}

// CiteExtras locates each citation of a Cite node.
type CiteExtras struct {
	Citations []Range `json:"citations"`
}

// NoteForm distinguishes the two source forms of a Note node.
type NoteForm string

const (
	NoteInline   NoteForm = "inline"
	NoteFootnote NoteForm = "footnote"
)

// NoteExtras carries a note's form and, when resolved, its content bounds.
type NoteExtras struct {
	Form         NoteForm `json:"form"`
	ContentStart int      `json:"content_start,omitempty"`
	ContentEnd   int      `json:"content_end,omitempty"`
}

func (ContentExtras) isExtras() {}
func (HeaderExtras) isExtras()  {}
func (TableExtras) isExtras()   {}
func (DivExtras) isExtras()     {}
func (LinkExtras) isExtras()    {}
func (CiteExtras) isExtras()    {}
func (NoteExtras) isExtras()    {}
