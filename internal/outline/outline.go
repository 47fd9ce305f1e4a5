// Package outline folds a mapped span stream into a document outline: a
// heading tree where every node carries its source span, so an editor can
// jump from an outline entry to the text that produced it.
package outline

import (
	"strings"

	"github.com/dgallion1/srcmap/internal/sourcemap"
)

// Heading is one node of the outline.
type Heading struct {
	Title    string     `json:"title"`
	Level    int        `json:"level"`
	Start    int        `json:"start"`
	End      int        `json:"end"`
	Children []*Heading `json:"children,omitempty"`
}

// Build folds spans into a heading tree. The span stream is in traversal
// order (children precede their parent), so only block-level spans after a
// heading extend that heading's section. Body blocks before the first
// heading are dropped.
func Build(text string, spans []sourcemap.Span) []*Heading {
	type stackEntry struct {
		node  *Heading
		level int
	}
	root := &Heading{}
	stack := []stackEntry{{node: root, level: 0}}

	for _, sp := range spans {
		if sp.Kind == sourcemap.KindHeader {
			hx, ok := sp.Extras.(sourcemap.HeaderExtras)
			if !ok {
				continue
			}
			h := &Heading{
				Title: headingTitle(text, hx),
				Level: hx.Level,
				Start: sp.Start,
				End:   sp.End,
			}

			// Pop until the enclosing heading has a lower level.
			for len(stack) > 1 && stack[len(stack)-1].level >= hx.Level {
				stack = stack[:len(stack)-1]
			}
			parent := stack[len(stack)-1].node
			parent.Children = append(parent.Children, h)
			stack = append(stack, stackEntry{node: h, level: hx.Level})
			continue
		}

		// A body block extends every open section above it.
		if !sourcemap.IsBlock(sp.Kind) {
			continue
		}
		for _, e := range stack[1:] {
			if sp.End > e.node.End {
				e.node.End = sp.End
			}
		}
	}

	return root.Children
}

// headingTitle extracts the heading text from its content span, dropping a
// setext underline when the span was extended to cover one.
func headingTitle(text string, hx sourcemap.HeaderExtras) string {
	if hx.ContentStart < 0 || hx.ContentEnd > len(text) || hx.ContentStart >= hx.ContentEnd {
		return ""
	}
	title := text[hx.ContentStart:hx.ContentEnd]
	if i := strings.IndexByte(title, '\n'); i >= 0 {
		title = title[:i]
	}
	return strings.TrimSpace(title)
}
