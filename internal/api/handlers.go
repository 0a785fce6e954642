// Package api provides the HTTP surface of the verification service.
package api

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/rs/zerolog/log"
	"github.com/veriscope/veriscope/internal/models"
	"github.com/veriscope/veriscope/internal/pipeline"
	"github.com/veriscope/veriscope/internal/session"
)

// SessionHeader identifies the browser session owning the report slot. The
// server mints one when the client sends none and echoes it back.
const SessionHeader = "X-Session-ID"

// Handler contains all HTTP handlers.
type Handler struct {
	engine   *pipeline.Engine
	sessions *session.Store
}

// NewHandler creates a new handler.
func NewHandler(engine *pipeline.Engine, sessions *session.Store) *Handler {
	return &Handler{engine: engine, sessions: sessions}
}

// HealthCheck returns the service health status.
func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":  "healthy",
		"version": "1.0.0",
	})
}

type analyzeRequest struct {
	Category models.Category  `json:"category"`
	Mode     models.InputMode `json:"mode"`
	Text     string           `json:"text,omitempty"`
	URL      string           `json:"url,omitempty"`
}

// Analyze handles text and URL analysis requests.
func (h *Handler) Analyze(w http.ResponseWriter, r *http.Request) {
	var req analyzeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if req.Mode != models.ModeText && req.Mode != models.ModeURL {
		writeError(w, http.StatusBadRequest, "mode must be text or url for this endpoint")
		return
	}
	if !validCategory(req.Category) {
		writeError(w, http.StatusBadRequest, "unknown category")
		return
	}

	h.runAnalysis(w, r, &models.AnalysisRequest{
		Category: req.Category,
		Mode:     req.Mode,
		Text:     req.Text,
		URL:      req.URL,
	})
}

// AnalyzeUpload handles multipart image/video analysis requests.
func (h *Handler) AnalyzeUpload(w http.ResponseWriter, r *http.Request) {
	// Bound the whole request body; the extractor applies the exact
	// per-category ceiling before any further work.
	r.Body = http.MaxBytesReader(w, r.Body, models.MaxVideoBytes+(1<<20))

	if err := r.ParseMultipartForm(16 << 20); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid multipart request")
		return
	}

	category := models.Category(r.FormValue("category"))
	if !validCategory(category) {
		writeError(w, http.StatusBadRequest, "unknown category")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "Please upload a file to analyze")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Failed to read uploaded file")
		return
	}

	h.runAnalysis(w, r, &models.AnalysisRequest{
		Category: category,
		Mode:     models.ModeUpload,
		Upload: &models.Upload{
			Filename:    header.Filename,
			ContentType: header.Header.Get("Content-Type"),
			Size:        header.Size,
			Data:        data,
		},
	})
}

// runAnalysis drives one request through the session slot and the engine.
func (h *Handler) runAnalysis(w http.ResponseWriter, r *http.Request, req *models.AnalysisRequest) {
	sessionID := sessionID(w, r)

	token, err := h.sessions.Begin(sessionID)
	if err != nil {
		writeError(w, http.StatusConflict, err.Error())
		return
	}

	report, err := h.engine.Run(r.Context(), req)
	if err != nil {
		h.sessions.Fail(sessionID, token)
		writeError(w, statusFor(err), userMessage(err))
		return
	}

	if !h.sessions.Complete(sessionID, token, report) {
		// The session was reset mid-flight; the result is orphaned.
		writeError(w, http.StatusConflict, "Analysis was superseded")
		return
	}

	writeJSON(w, http.StatusOK, report)
}

// GetReport returns the session's current report.
func (h *Handler) GetReport(w http.ResponseWriter, r *http.Request) {
	report := h.sessions.Report(sessionID(w, r))
	if report == nil {
		writeError(w, http.StatusNotFound, "No report for this session")
		return
	}
	writeJSON(w, http.StatusOK, report)
}

// ResetReport clears the session's report and orphans any in-flight run.
func (h *Handler) ResetReport(w http.ResponseWriter, r *http.Request) {
	h.sessions.Reset(sessionID(w, r))
	w.WriteHeader(http.StatusNoContent)
}

func validCategory(c models.Category) bool {
	switch c {
	case models.CategoryVideo, models.CategoryImage, models.CategoryNews, models.CategoryTryout:
		return true
	}
	return false
}

// statusFor maps the error taxonomy onto HTTP statuses.
func statusFor(err error) int {
	var ae *models.AnalysisError
	if errors.As(err, &ae) {
		switch ae.Kind {
		case models.ErrValidation:
			return http.StatusBadRequest
		case models.ErrExtraction:
			return http.StatusUnprocessableEntity
		case models.ErrService, models.ErrParse:
			return http.StatusBadGateway
		}
	}
	return http.StatusInternalServerError
}

// userMessage reduces any failure to its single user-facing message. Internal
// diagnostics never cross this boundary.
func userMessage(err error) string {
	var ae *models.AnalysisError
	if errors.As(err, &ae) {
		return ae.Message
	}
	return "Analysis failed. Please try again."
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error().Err(err).Msg("Failed to encode response")
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
