// Package chi exposes the HTTP API: semantic search, personalized feeds and
// interaction recording.
package chi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	chirouter "github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/resurch-labs/resurch/internal/domain"
	feeduc "github.com/resurch-labs/resurch/internal/usecase/feed"
	healthuc "github.com/resurch-labs/resurch/internal/usecase/health"
	searchuc "github.com/resurch-labs/resurch/internal/usecase/search"
)

const maxLimit = 100

// Error codes returned to clients.
type errorCode string

const (
	codeBadRequest             errorCode = "bad_request"
	codeValidationFailed       errorCode = "validation_failed"
	codeNotFound               errorCode = "not_found"
	codeVectorDimMismatch      errorCode = "vector_dim_mismatch"
	codeEmbeddingProviderError errorCode = "embedding_provider_error"
	codeIndexQueryFailed       errorCode = "index_query_failed"
	codeInternalError          errorCode = "internal_error"
)

type errorResponse struct {
	Code    errorCode `json:"code"`
	Message string    `json:"message"`
}

// InteractionWriter records user interactions.
type InteractionWriter interface {
	Add(ctx context.Context, in domain.Interaction) error
}

// errorHandler tries to handle a domain error. Returns true if handled.
type errorHandler func(w http.ResponseWriter, err error, msg string) bool

// Server wires the HTTP handlers to the usecase layer.
type Server struct {
	search        *searchuc.Service
	feed          *feeduc.Service
	interactions  InteractionWriter
	health        *healthuc.Service
	logger        *zap.Logger
	errorHandlers []errorHandler
}

// NewServer creates an HTTP API server.
func NewServer(
	search *searchuc.Service,
	feed *feeduc.Service,
	interactions InteractionWriter,
	health *healthuc.Service,
	logger *zap.Logger,
) *Server {
	s := &Server{
		search:       search,
		feed:         feed,
		interactions: interactions,
		health:       health,
		logger:       logger,
	}
	s.errorHandlers = []errorHandler{
		sentinelHandler(domain.ErrInvalidArgument, http.StatusBadRequest, codeValidationFailed),
		sentinelHandler(domain.ErrNotFound, http.StatusNotFound, codeNotFound),
		sentinelHandler(domain.ErrVectorDimMismatch, http.StatusBadRequest, codeVectorDimMismatch),
		sentinelHandler(domain.ErrEmbeddingProviderError, http.StatusBadGateway, codeEmbeddingProviderError),
		sentinelHandler(domain.ErrIndexQueryFailed, http.StatusInternalServerError, codeIndexQueryFailed),
	}
	return s
}

// Routes mounts all API routes on the router.
func (s *Server) Routes(r chirouter.Router) {
	r.Get("/api/v1/search", s.SearchPapers)
	r.Get("/api/v1/feed", s.GetFeed)
	r.Post("/api/v1/interactions", s.AddInteraction)
	r.Get("/health", s.HealthCheck)
	r.Get("/metrics", s.Metrics)
}

type scoredPaperItem struct {
	ID         string  `json:"id"`
	Title      string  `json:"title"`
	Abstract   string  `json:"abstract"`
	URL        string  `json:"url,omitempty"`
	Similarity float64 `json:"similarity"`
}

type paperListResponse struct {
	Items []scoredPaperItem `json:"items"`
	Total int               `json:"total"`
}

// SearchPapers handles GET /api/v1/search.
func (s *Server) SearchPapers(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")
	if query == "" {
		writeError(w, http.StatusBadRequest, codeValidationFailed, "query parameter q is required")
		return
	}

	limit, ok := parseLimit(w, r)
	if !ok {
		return
	}

	results, err := s.search.Search(r.Context(), query, limit)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toPaperList(results))
}

// GetFeed handles GET /api/v1/feed.
func (s *Server) GetFeed(w http.ResponseWriter, r *http.Request) {
	userID := r.URL.Query().Get("user_id")
	if userID == "" {
		writeError(w, http.StatusBadRequest, codeValidationFailed, "query parameter user_id is required")
		return
	}

	limit, ok := parseLimit(w, r)
	if !ok {
		return
	}

	results, err := s.feed.Feed(r.Context(), userID, limit)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toPaperList(results))
}

type interactionRequest struct {
	UserID  string `json:"user_id"`
	PaperID string `json:"paper_id"`
	Type    string `json:"type"`
}

// AddInteraction handles POST /api/v1/interactions.
func (s *Server) AddInteraction(w http.ResponseWriter, r *http.Request) {
	var req interactionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, "Invalid request body: "+err.Error())
		return
	}

	if req.UserID == "" || req.PaperID == "" {
		writeError(w, http.StatusBadRequest, codeValidationFailed, "user_id and paper_id are required")
		return
	}

	kind := domain.InteractionKind(req.Type)
	if !kind.Valid() {
		writeError(w, http.StatusBadRequest, codeValidationFailed, "type must be one of: star, view")
		return
	}

	err := s.interactions.Add(r.Context(), domain.Interaction{
		UserID:  req.UserID,
		PaperID: req.PaperID,
		Kind:    kind,
	})
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	w.WriteHeader(http.StatusCreated)
}

// HealthCheck handles GET /health.
func (s *Server) HealthCheck(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	httpStatus := http.StatusOK
	if report.Status != healthuc.Healthy {
		httpStatus = http.StatusServiceUnavailable
	}

	writeJSON(w, httpStatus, map[string]any{
		"status": report.Status,
		"checks": report.Checks,
	})
}

// Metrics handles GET /metrics.
func (s *Server) Metrics(w http.ResponseWriter, r *http.Request) {
	promhttp.Handler().ServeHTTP(w, r)
}

func toPaperList(results []domain.ScoredPaper) paperListResponse {
	items := make([]scoredPaperItem, len(results))
	for i, sp := range results {
		items[i] = scoredPaperItem{
			ID:         sp.ID,
			Title:      sp.Title,
			Abstract:   sp.Abstract,
			URL:        sp.URL,
			Similarity: sp.Similarity,
		}
	}
	return paperListResponse{Items: items, Total: len(items)}
}

// parseLimit reads the optional limit query parameter. Writes an error
// response and returns false on an invalid value.
func parseLimit(w http.ResponseWriter, r *http.Request) (int, bool) {
	raw := r.URL.Query().Get("limit")
	if raw == "" {
		return 0, true
	}

	limit, err := strconv.Atoi(raw)
	if err != nil || limit <= 0 || limit > maxLimit {
		writeError(w, http.StatusBadRequest, codeValidationFailed,
			"limit must be an integer between 1 and "+strconv.Itoa(maxLimit))
		return 0, false
	}
	return limit, true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code errorCode, message string) {
	writeJSON(w, status, errorResponse{
		Code:    code,
		Message: message,
	})
}

// safeDomainMessage returns a sentinel error message for the client without exposing internals.
func safeDomainMessage(err error) string {
	sentinels := []error{
		domain.ErrNotFound,
		domain.ErrInvalidArgument,
		domain.ErrVectorDimMismatch,
		domain.ErrEmbeddingProviderError,
		domain.ErrIndexQueryFailed,
	}
	for _, s := range sentinels {
		if errors.Is(err, s) {
			return s.Error()
		}
	}
	return "internal error"
}

// sentinelHandler returns an errorHandler that matches a single sentinel error.
func sentinelHandler(sentinel error, status int, code errorCode) errorHandler {
	return func(w http.ResponseWriter, err error, msg string) bool {
		if !errors.Is(err, sentinel) {
			return false
		}
		writeError(w, status, code, msg)
		return true
	}
}

func (s *Server) handleDomainError(w http.ResponseWriter, err error) {
	s.logger.Warn("domain error", zap.Error(err))
	msg := safeDomainMessage(err)
	for _, h := range s.errorHandlers {
		if h(w, err, msg) {
			return
		}
	}
	s.logger.Error("internal error", zap.Error(err))
	writeError(w, http.StatusInternalServerError, codeInternalError, "internal error")
}
