package chi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/kailas-cloud/discovery/internal/domain"
	"github.com/kailas-cloud/discovery/internal/domain/search/request"
	"github.com/kailas-cloud/discovery/internal/domain/search/result"
	"github.com/kailas-cloud/discovery/internal/logger"
	healthuc "github.com/kailas-cloud/discovery/internal/usecase/health"
	searchuc "github.com/kailas-cloud/discovery/internal/usecase/search"
)

// ErrorCode is the machine-readable code in error responses.
type ErrorCode string

// Error codes.
const (
	CodeBadRequest       ErrorCode = "bad_request"
	CodeUnauthorized     ErrorCode = "unauthorized"
	CodeValidationFailed ErrorCode = "validation_failed"
	CodeIndexUnavailable ErrorCode = "index_unavailable"
	CodeInternalError    ErrorCode = "internal_error"
)

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
}

// errorHandler tries to handle a domain error. Returns true if handled.
type errorHandler func(w http.ResponseWriter, err error, msg string) bool

// Server serves the JSON search API.
type Server struct {
	search        *searchuc.Service
	health        *healthuc.Service
	logger        *zap.Logger
	errorHandlers []errorHandler
}

// NewServer creates an HTTP API server.
func NewServer(search *searchuc.Service, health *healthuc.Service, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Server{
		search: search,
		health: health,
		logger: logger,
	}
	s.errorHandlers = []errorHandler{
		sentinelHandler(domain.ErrInvalidRequest, http.StatusBadRequest, CodeValidationFailed),
		sentinelHandler(domain.ErrIndexUnavailable, http.StatusBadGateway, CodeIndexUnavailable),
	}
	return s
}

// RecordResponse is one record in a search response.
type RecordResponse struct {
	ID         string              `json:"id"`
	Heading    string              `json:"heading"`
	UseFor     []string            `json:"use_for,omitempty"`
	SeeAlso    []string            `json:"see_also,omitempty"`
	Score      float64             `json:"score"`
	Highlights map[string][]string `json:"highlights,omitempty"`
}

// SearchResponse is the body of GET /search.
type SearchResponse struct {
	Total           int                         `json:"total"`
	Page            int                         `json:"page"`
	Limit           int                         `json:"limit"`
	Items           []RecordResponse            `json:"items"`
	Recommendations map[string][]result.Heading `json:"recommendations"`
}

// HealthResponse is the body of GET /health.
type HealthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
}

// Search handles GET /search.
func (s *Server) Search(w http.ResponseWriter, r *http.Request) {
	req, err := request.FromValues(r.URL.Query())
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	resp, err := s.search.Search(r.Context(), &req)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	items := make([]RecordResponse, len(resp.Records))
	for i := range resp.Records {
		items[i] = recordToResponse(&resp.Records[i])
	}
	writeJSON(w, http.StatusOK, SearchResponse{
		Total:           resp.Total,
		Page:            req.Page(),
		Limit:           req.Limit(),
		Items:           items,
		Recommendations: resp.Recommendations,
	})
}

// HealthCheck handles GET /health.
func (s *Server) HealthCheck(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	checks := make(map[string]string, len(report.Checks))
	for k, v := range report.Checks {
		checks[k] = string(v)
	}

	httpStatus := http.StatusOK
	if report.Status != healthuc.Healthy {
		httpStatus = http.StatusServiceUnavailable
	}

	writeJSON(w, httpStatus, HealthResponse{
		Status: string(report.Status),
		Checks: checks,
	})
}

// Metrics handles GET /metrics.
func (s *Server) Metrics(w http.ResponseWriter, r *http.Request) {
	promhttp.Handler().ServeHTTP(w, r)
}

func recordToResponse(rec *result.Record) RecordResponse {
	return RecordResponse{
		ID:         rec.ID(),
		Heading:    rec.Heading(),
		UseFor:     rec.UseFor(),
		SeeAlso:    rec.SeeAlso(),
		Score:      rec.Score(),
		Highlights: rec.Highlights(),
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code ErrorCode, message string) {
	writeJSON(w, status, ErrorResponse{
		Code:    code,
		Message: message,
	})
}

// safeDomainMessage returns a message for the client without exposing internals.
// Invalid requests echo the validation detail; everything else only its sentinel.
func safeDomainMessage(err error) string {
	if errors.Is(err, domain.ErrInvalidRequest) {
		return err.Error()
	}
	if errors.Is(err, domain.ErrIndexUnavailable) {
		return domain.ErrIndexUnavailable.Error()
	}
	return "internal error"
}

// sentinelHandler returns an errorHandler that matches a single sentinel error.
func sentinelHandler(sentinel error, status int, code ErrorCode) errorHandler {
	return func(w http.ResponseWriter, err error, msg string) bool {
		if !errors.Is(err, sentinel) {
			return false
		}
		writeError(w, status, code, msg)
		return true
	}
}

func (s *Server) handleDomainError(w http.ResponseWriter, r *http.Request, err error) {
	log := logger.FromContext(r.Context())
	log.Warn("domain error", zap.Error(err))
	msg := safeDomainMessage(err)
	for _, h := range s.errorHandlers {
		if h(w, err, msg) {
			return
		}
	}
	s.logger.Error("internal error", zap.Error(err))
	writeError(w, http.StatusInternalServerError, CodeInternalError, "internal error")
}
