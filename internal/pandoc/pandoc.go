// Package pandoc runs the pandoc binary and decodes its JSON parse tree.
//
// The AST shapes follow pandoc-types 1.17 (the pandoc 2.x line). Pandoc
// signals AST changes with major versions, so the decoders here will need
// revisiting when 3.x output shows up; Doc.APIVersion carries the version
// for callers that want to check.
package pandoc

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os/exec"
	"strings"
	"time"
)

// Doc is the top level of pandoc's JSON output.
type Doc struct {
	APIVersion []int           `json:"pandoc-api-version"`
	Meta       json.RawMessage `json:"meta"`
	Blocks     []Node          `json:"blocks"`
}

// Node is one AST node: a tag plus tag-specific content. Content shapes
// vary per tag, so it stays raw until the consumer knows the tag.
type Node struct {
	T string          `json:"t"`
	C json.RawMessage `json:"c,omitempty"`
}

// Decode unmarshals the node's content into v.
func (n Node) Decode(v any) error {
	if len(n.C) == 0 {
		return fmt.Errorf("%s node has no content", n.T)
	}
	return json.Unmarshal(n.C, v)
}

// DecodeTuple unmarshals the node's content as a JSON array, decoding each
// element into the corresponding target. Nil targets skip their element.
func (n Node) DecodeTuple(targets ...any) error {
	var raw []json.RawMessage
	if err := json.Unmarshal(n.C, &raw); err != nil {
		return err
	}
	if len(raw) < len(targets) {
		return fmt.Errorf("%s node: expected %d elements, got %d", n.T, len(targets), len(raw))
	}
	for i, t := range targets {
		if t == nil {
			continue
		}
		if err := json.Unmarshal(raw[i], t); err != nil {
			return fmt.Errorf("%s node element %d: %w", n.T, i, err)
		}
	}
	return nil
}

// Attr is pandoc's [identifier, classes, key-value pairs] attribute triple.
type Attr struct {
	Identifier string
	Classes    []string
	Pairs      [][2]string
}

func (a *Attr) UnmarshalJSON(data []byte) error {
	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if len(raw) != 3 {
		return fmt.Errorf("attr: expected 3 elements, got %d", len(raw))
	}
	if err := json.Unmarshal(raw[0], &a.Identifier); err != nil {
		return err
	}
	if err := json.Unmarshal(raw[1], &a.Classes); err != nil {
		return err
	}
	return json.Unmarshal(raw[2], &a.Pairs)
}

// Citation is one entry of a Cite node.
type Citation struct {
	ID   string `json:"citationId"`
	Mode Node   `json:"citationMode"`
}

// Engine converts markdown to pandoc's JSON tree by running the pandoc
// binary.
type Engine struct {
	path   string
	format string
	log    *slog.Logger
}

// NewEngine returns an Engine that runs the binary at path with the given
// input format (e.g. "markdown", "markdown_mmd").
func NewEngine(path, format string, log *slog.Logger) *Engine {
	return &Engine{path: path, format: format, log: log}
}

// Convert runs pandoc over text and decodes the resulting tree. Smart
// typography is disabled so every character in the tree stays attributable
// to the source text.
func (e *Engine) Convert(ctx context.Context, text string) (*Doc, error) {
	start := time.Now()

	cmd := exec.CommandContext(ctx, e.path, "--from", e.format+"-smart", "--to", "json")
	cmd.Stdin = strings.NewReader(text)
	out, err := cmd.Output()
	if err != nil {
		if ee, ok := err.(*exec.ExitError); ok && len(ee.Stderr) > 0 {
			return nil, fmt.Errorf("pandoc: %s", strings.TrimSpace(string(ee.Stderr)))
		}
		return nil, fmt.Errorf("pandoc: %w", err)
	}

	var doc Doc
	if err := json.Unmarshal(out, &doc); err != nil {
		return nil, fmt.Errorf("decode pandoc output: %w", err)
	}

	e.log.Debug("converted document",
		"bytes", len(text),
		"blocks", len(doc.Blocks),
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return &doc, nil
}
