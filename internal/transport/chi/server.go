// Package chi exposes the query pipeline over HTTP.
package chi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/helpline-labs/refdesk/internal/domain"
	"github.com/helpline-labs/refdesk/internal/domain/match"
	"github.com/helpline-labs/refdesk/internal/domain/resolved"
	logpkg "github.com/helpline-labs/refdesk/internal/logger"
	healthuc "github.com/helpline-labs/refdesk/internal/usecase/health"
)

// resolver runs one query through the pipeline.
type resolver interface {
	Resolve(ctx context.Context, rawQuery, scopeHint string) (resolved.Query, error)
}

// healthChecker aggregates component health.
type healthChecker interface {
	Check(ctx context.Context) healthuc.Report
}

// aliasReloader re-reads the alias dictionary from disk.
type aliasReloader interface {
	Reload() error
}

// errorHandler tries to handle a domain error. Returns true if handled.
type errorHandler func(w http.ResponseWriter, err error, msg string) bool

// Server is the HTTP API server.
type Server struct {
	resolver      resolver
	health        healthChecker
	aliases       aliasReloader
	logger        *zap.Logger
	errorHandlers []errorHandler
}

// NewServer creates an HTTP API server. aliases can be nil when no alias
// dictionary is configured.
func NewServer(res resolver, health healthChecker, aliases aliasReloader, logger *zap.Logger) *Server {
	s := &Server{
		resolver: res,
		health:   health,
		aliases:  aliases,
		logger:   logger,
	}
	s.errorHandlers = []errorHandler{
		sentinelHandler(domain.ErrEmptyQuery, http.StatusBadRequest, codeEmptyQuery),
		sentinelHandler(domain.ErrAliasFile, http.StatusUnprocessableEntity, codeAliasFile),
		sentinelHandler(domain.ErrEmbeddingProviderError, http.StatusBadGateway, codeEmbeddingProvider),
		sentinelHandler(domain.ErrDirectoryUnavailable, http.StatusServiceUnavailable, codeDirectoryUnavailable),
	}
	return s
}

// Register mounts the API routes on the given router.
func (s *Server) Register(r chi.Router) {
	r.Post("/v1/query", s.handleQuery)
	r.Post("/v1/aliases/reload", s.handleAliasReload)
	r.Get("/health", s.handleHealth)
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())
}

type queryRequest struct {
	Query     string `json:"query"`
	ScopeHint string `json:"scope_hint,omitempty"`
}

type candidatePayload struct {
	Original    string  `json:"original"`
	MatchedName string  `json:"matched_name"`
	Score       float64 `json:"score"`
	MatchType   string  `json:"match_type"`
	EntityID    string  `json:"entity_id,omitempty"`
	Scope       string  `json:"scope,omitempty"`
}

type evidencePayload struct {
	SourceID  string  `json:"source_id"`
	Content   string  `json:"content"`
	Relevance float64 `json:"relevance"`
}

type queryResponse struct {
	Decision     string             `json:"decision"`
	Confidence   float64            `json:"confidence"`
	Reason       string             `json:"reason,omitempty"`
	Degraded     bool               `json:"degraded,omitempty"`
	Entity       *candidatePayload  `json:"entity,omitempty"`
	Alternatives []candidatePayload `json:"alternatives,omitempty"`
	Evidence     []evidencePayload  `json:"evidence,omitempty"`
}

// handleQuery handles POST /v1/query.
func (s *Server) handleQuery(w http.ResponseWriter, r *http.Request) {
	var req queryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, "Invalid request body: "+err.Error())
		return
	}

	result, err := s.resolver.Resolve(r.Context(), req.Query, req.ScopeHint)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, resultToPayload(&result))
}

// handleAliasReload handles POST /v1/aliases/reload.
func (s *Server) handleAliasReload(w http.ResponseWriter, r *http.Request) {
	if s.aliases == nil {
		writeError(w, http.StatusNotFound, codeBadRequest, "no alias dictionary configured")
		return
	}

	if err := s.aliases.Reload(); err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleHealth handles GET /health.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	status := http.StatusOK
	if report.Status == healthuc.Unhealthy {
		status = http.StatusServiceUnavailable
	}

	checks := make(map[string]string, len(report.Checks))
	for name, result := range report.Checks {
		checks[name] = string(result)
	}

	writeJSON(w, status, map[string]any{
		"status": string(report.Status),
		"checks": checks,
	})
}

func resultToPayload(q *resolved.Query) queryResponse {
	resp := queryResponse{
		Decision:   string(q.Decision()),
		Confidence: q.Confidence(),
		Reason:     q.Reason(),
		Degraded:   q.Degraded(),
	}

	if e := q.Entity(); e != nil {
		p := candidateToPayload(e)
		resp.Entity = &p
	}
	alternatives := q.Alternatives()
	for i := range alternatives {
		resp.Alternatives = append(resp.Alternatives, candidateToPayload(&alternatives[i]))
	}
	items := q.Evidence()
	for i := range items {
		resp.Evidence = append(resp.Evidence, evidencePayload{
			SourceID:  items[i].SourceID(),
			Content:   items[i].Content(),
			Relevance: items[i].Relevance(),
		})
	}
	return resp
}

func candidateToPayload(c *match.Candidate) candidatePayload {
	return candidatePayload{
		Original:    c.Original(),
		MatchedName: c.MatchedName(),
		Score:       c.Score(),
		MatchType:   string(c.MatchType()),
		EntityID:    c.EntityID(),
		Scope:       c.Scope(),
	}
}

// --- Error plumbing ---

type errorCode string

const (
	codeBadRequest           errorCode = "bad_request"
	codeEmptyQuery           errorCode = "empty_query"
	codeAliasFile            errorCode = "alias_file_invalid"
	codeEmbeddingProvider    errorCode = "embedding_provider_error"
	codeDirectoryUnavailable errorCode = "directory_unavailable"
	codeInternalError        errorCode = "internal_error"
)

type errorResponse struct {
	Code    errorCode `json:"code"`
	Message string    `json:"message"`
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

// safeDomainMessage returns the sentinel text for known errors and a
// generic message otherwise, so internals never leak into responses.
func safeDomainMessage(err error) string {
	sentinels := []error{
		domain.ErrEmptyQuery,
		domain.ErrAliasFile,
		domain.ErrEmbeddingProviderError,
		domain.ErrDirectoryUnavailable,
	}
	for _, s := range sentinels {
		if errors.Is(err, s) {
			return s.Error()
		}
	}
	return "internal error"
}

func sentinelHandler(sentinel error, status int, code errorCode) errorHandler {
	return func(w http.ResponseWriter, err error, msg string) bool {
		if !errors.Is(err, sentinel) {
			return false
		}
		writeError(w, status, code, msg)
		return true
	}
}

func (s *Server) handleDomainError(w http.ResponseWriter, r *http.Request, err error) {
	log := logpkg.FromContext(r.Context(), s.logger)
	log.Warn("domain error", zap.Error(err))
	msg := safeDomainMessage(err)
	for _, h := range s.errorHandlers {
		if h(w, err, msg) {
			return
		}
	}
	log.Error("internal error", zap.Error(err))
	writeError(w, http.StatusInternalServerError, codeInternalError, "internal error")
}
