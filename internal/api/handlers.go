package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/dgallion1/srcmap/internal/outline"
	"github.com/dgallion1/srcmap/internal/sourcemap"
)

type documentRequest struct {
	Text string `json:"text"`
	Base string `json:"base,omitempty"`
}

func (s *Server) handleMap(w http.ResponseWriter, r *http.Request) {
	req, ok := s.decodeDocument(w, r)
	if !ok {
		return
	}

	spans, warnings, ok := s.mapDocument(r.Context(), w, req.Text)
	if !ok {
		return
	}
	if spans == nil {
		spans = []sourcemap.Span{}
	}
	if warnings == nil {
		warnings = []string{}
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"spans":    spans,
		"warnings": warnings,
	})
}

func (s *Server) handleOutline(w http.ResponseWriter, r *http.Request) {
	req, ok := s.decodeDocument(w, r)
	if !ok {
		return
	}

	spans, warnings, ok := s.mapDocument(r.Context(), w, req.Text)
	if !ok {
		return
	}
	headings := outline.Build(req.Text, spans)
	if headings == nil {
		headings = []*outline.Heading{}
	}
	if warnings == nil {
		warnings = []string{}
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"outline":  headings,
		"warnings": warnings,
	})
}

func (s *Server) handlePreview(w http.ResponseWriter, r *http.Request) {
	req, ok := s.decodeDocument(w, r)
	if !ok {
		return
	}

	result, err := s.renderer.Render(req.Text, req.Base)
	if err != nil {
		jsonError(w, "render preview: "+err.Error(), http.StatusUnprocessableEntity)
		return
	}

	writeJSON(w, http.StatusOK, result)
}

// mapDocument runs one mapper over text. A conversion failure is reported
// to the client as 422 and ok=false; per-node warnings are returned
// alongside the spans.
func (s *Server) mapDocument(ctx context.Context, w http.ResponseWriter, text string) ([]sourcemap.Span, []string, bool) {
	ctx, cancel := context.WithTimeout(ctx, s.cfg.ConvertTimeout)
	defer cancel()

	m := sourcemap.NewMapper(text, s.conv, s.log)
	spans, err := m.Walk(ctx)
	if err != nil {
		jsonError(w, "map document: "+err.Error(), http.StatusUnprocessableEntity)
		return nil, nil, false
	}
	return spans, m.Warnings(), true
}

func (s *Server) decodeDocument(w http.ResponseWriter, r *http.Request) (documentRequest, bool) {
	var req documentRequest
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxDocumentBytes)
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		jsonError(w, "invalid request body: "+err.Error(), http.StatusBadRequest)
		return req, false
	}
	if req.Text == "" {
		jsonError(w, "text is required", http.StatusBadRequest)
		return req, false
	}
	return req, true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func jsonError(w http.ResponseWriter, msg string, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	fmt.Fprintf(w, `{"error":%q}`+"\n", msg)
}
