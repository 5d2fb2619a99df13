package api

import (
	"encoding/json"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"

	"irmend/internal/ir"
	"irmend/internal/render"
	"irmend/internal/review"
)

// maxBodyBytes bounds request bodies; document trees run large but bounded.
const maxBodyBytes = 32 << 20

// handleReview reviews the posted document tree and returns the session
// stats plus the reviewed, metadata-stripped tree.
func (s *Server) handleReview(w http.ResponseWriter, r *http.Request) {
	doc, ok := s.readDocument(w, r)
	if !ok {
		return
	}

	start := time.Now()
	stats, err := s.svc.ReviewDocument(r.Context(), doc, review.Options{})
	if err != nil {
		jsonError(w, "review failed: "+err.Error(), http.StatusInternalServerError)
		return
	}
	report := review.BuildReport(doc, stats, r.Header.Get("X-Request-Id"), "", time.Since(start))

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"stats":         stats,
		"repairedTotal": stats.RepairedTotal(),
		"blocks":        report.Blocks,
		"document":      ir.Strip(doc),
	})
}

// handleRender reviews nothing; it renders the posted tree to Markdown,
// honoring any embedded review outcomes.
func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	doc, ok := s.readDocument(w, r)
	if !ok {
		return
	}

	markdown := render.Markdown(doc)

	w.Header().Set("Content-Type", "text/markdown; charset=utf-8")
	if _, err := io.WriteString(w, markdown); err != nil {
		s.log.Warn("writing render response", zap.Error(err))
	}
}

func (s *Server) readDocument(w http.ResponseWriter, r *http.Request) (ir.Document, bool) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	if err != nil {
		jsonError(w, "reading request body: "+err.Error(), http.StatusBadRequest)
		return nil, false
	}
	doc, err := ir.Parse(body)
	if err != nil {
		jsonError(w, err.Error(), http.StatusBadRequest)
		return nil, false
	}
	return doc, true
}

func jsonError(w http.ResponseWriter, message string, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": message})
}
