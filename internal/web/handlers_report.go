package web

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/JonMunkholm/register/internal/core"
	"github.com/JonMunkholm/register/internal/logging"
)

const (
	defaultAuditLimit = 50
	maxAuditLimit     = 500
)

// handleHealth reports liveness and the import limiter state.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":  "ok",
		"imports": s.service.ImportStatus(),
	})
}

// handleSummary serves whole-registry attendance counts.
func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	summary, err := s.service.Summary(r.Context())
	if err != nil {
		fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, summary)
}

// handleReport downloads the attendance workbook. With ?format=json the
// computed sheets are returned instead.
func (s *Server) handleReport(w http.ResponseWriter, r *http.Request) {
	report, err := s.service.BuildReport(r.Context())
	if err != nil {
		fail(w, r, err)
		return
	}

	if r.URL.Query().Get("format") == "json" {
		writeJSON(w, http.StatusOK, report)
		return
	}

	data, err := report.Bytes()
	if err != nil {
		fail(w, r, err)
		return
	}

	w.Header().Set("Content-Type", core.ReportContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", report.FileName()))
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(data); err != nil {
		logging.FromContext(r.Context()).Warn("report write failed", "error", err)
	}
}

// handleDedupe runs the maintenance dedup pass.
func (s *Server) handleDedupe(w http.ResponseWriter, r *http.Request) {
	result, err := s.service.DedupeExisting(withRequestMetadata(r))
	if err != nil {
		fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// handleAudit lists recent mutations, newest first. ?limit= caps the count.
func (s *Server) handleAudit(w http.ResponseWriter, r *http.Request) {
	limit := defaultAuditLimit
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			fail(w, r, fmt.Errorf("%w: limit must be a positive integer", errInvalidRequest))
			return
		}
		limit = min(n, maxAuditLimit)
	}
	writeJSON(w, http.StatusOK, s.service.RecentAudit(limit))
}
