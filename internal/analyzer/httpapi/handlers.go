package httpapi

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/amir656/polytrage/internal/analyzer/reasoning"
	"github.com/amir656/polytrage/pkg/models"
)

// Handler exposes the reasoning engine over HTTP for ad-hoc analysis
type Handler struct {
	reasoner *reasoning.Engine
}

// NewHandler creates a new handler
func NewHandler(reasoner *reasoning.Engine) *Handler {
	return &Handler{
		reasoner: reasoner,
	}
}

// Router builds the analyzer HTTP routes
func (h *Handler) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)

	r.Get("/health", h.HealthCheck)
	r.Post("/v1/analyze", h.Analyze)

	return r
}

// HealthCheck returns service health
func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{
		"status":  "healthy",
		"service": "analyzer",
	})
}

// AnalyzeRequest is the body for POST /v1/analyze
type AnalyzeRequest struct {
	Market       string  `json:"market"`
	ProfitMargin float64 `json:"profit_margin"`
	Confidence   float64 `json:"confidence"`
}

// Analyze scores a single opportunity on demand
func (h *Handler) Analyze(w http.ResponseWriter, r *http.Request) {
	var req AnalyzeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, fmt.Sprintf("invalid request: %v", err))
		return
	}

	if req.Market == "" {
		respondError(w, http.StatusBadRequest, "market is required")
		return
	}
	if req.Confidence < 0 || req.Confidence > 100 {
		respondError(w, http.StatusBadRequest, "confidence must be between 0 and 100")
		return
	}

	analysis := h.reasoner.Evaluate(models.Opportunity{
		Market:       req.Market,
		ProfitMargin: req.ProfitMargin,
		Confidence:   req.Confidence,
	})

	respondJSON(w, http.StatusOK, analysis)
}

// respondJSON writes a JSON response
func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// respondError writes an error response
func respondError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{
		"error": message,
	})
}
