// Package preview renders markdown to the HTML shown in an editor's
// preview pane.
package preview

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/yuin/goldmark"
	"golang.org/x/net/html"
)

// Result is rendered preview HTML plus metadata pulled from it.
type Result struct {
	HTML  string `json:"html"`
	Title string `json:"title,omitempty"`
}

// Renderer turns markdown into preview HTML.
type Renderer struct {
	md goldmark.Markdown
}

func New() *Renderer {
	return &Renderer{md: goldmark.New()}
}

// Render converts markdown to HTML. When base is non-empty it is injected
// as a <base href> so relative links and images resolve against the
// document's location.
func (r *Renderer) Render(source, base string) (*Result, error) {
	var buf bytes.Buffer
	if err := r.md.Convert([]byte(source), &buf); err != nil {
		return nil, fmt.Errorf("render markdown: %w", err)
	}

	doc, err := html.Parse(&buf)
	if err != nil {
		return nil, fmt.Errorf("parse rendered html: %w", err)
	}
	if base != "" {
		injectBase(doc, base)
	}
	title := firstHeading(doc)

	var out bytes.Buffer
	if err := html.Render(&out, doc); err != nil {
		return nil, fmt.Errorf("serialize html: %w", err)
	}
	return &Result{HTML: out.String(), Title: title}, nil
}

// injectBase prepends <base href> to the document head.
func injectBase(doc *html.Node, href string) {
	head := findElement(doc, "head")
	if head == nil {
		return
	}
	base := &html.Node{
		Type: html.ElementNode,
		Data: "base",
		Attr: []html.Attribute{{Key: "href", Val: href}},
	}
	head.InsertBefore(base, head.FirstChild)
}

// firstHeading returns the text of the first h1, the preview's title
// candidate.
func firstHeading(n *html.Node) string {
	if n.Type == html.ElementNode && n.Data == "h1" {
		return strings.TrimSpace(textContent(n))
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if t := firstHeading(c); t != "" {
			return t
		}
	}
	return ""
}

func findElement(n *html.Node, name string) *html.Node {
	if n.Type == html.ElementNode && n.Data == name {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := findElement(c, name); found != nil {
			return found
		}
	}
	return nil
}

func textContent(n *html.Node) string {
	var buf strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			buf.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return buf.String()
}
