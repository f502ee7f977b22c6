// Package chi exposes the retrieval operations as a JSON HTTP API.
package chi

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/kailas-cloud/legalsearch/internal/domain/document"
	"github.com/kailas-cloud/legalsearch/internal/domain/facet"
	"github.com/kailas-cloud/legalsearch/internal/domain/search/request"
	"github.com/kailas-cloud/legalsearch/internal/domain/search/result"
	"github.com/kailas-cloud/legalsearch/internal/metrics"
	healthuc "github.com/kailas-cloud/legalsearch/internal/usecase/health"
)

// Retriever is the operation surface served over HTTP.
//
//nolint:interfacebloat // mirrors the public operation set
type Retriever interface {
	Search(ctx context.Context, req request.Search) (result.Page[document.Case], error)
	SearchStatutes(ctx context.Context, req request.Statute) (result.Page[document.Law], error)
	Facets(ctx context.Context, category string) ([]facet.Node, error)
	ChildFacets(ctx context.Context, category string, path []string) ([]facet.Node, error)
	TimeFacets(ctx context.Context, category string) ([]facet.Node, error)
	Categories(ctx context.Context) ([]facet.Category, error)
	GetCase(ctx context.Context, name string) (document.Case, error)
	GetLaw(ctx context.Context, title string) (document.Law, error)
}

// HealthChecker reports component health.
type HealthChecker interface {
	Check(ctx context.Context) healthuc.Report
}

// Server holds the HTTP handlers.
type Server struct {
	api           Retriever
	health        HealthChecker
	logger        *zap.Logger
	errorHandlers []errorHandler
}

// NewServer creates an HTTP API server.
func NewServer(api Retriever, health HealthChecker, logger *zap.Logger) *Server {
	return &Server{
		api:           api,
		health:        health,
		logger:        logger,
		errorHandlers: defaultErrorHandlers(),
	}
}

// Routes builds the router with the recovery, request id, wide-event and
// metrics middleware chain.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(JSONRecoverer(s.logger))
	r.Use(chiMiddleware.RequestID)
	r.Use(WideEvent(s.logger))
	r.Use(metrics.Middleware())

	r.Get("/health", s.HealthCheck)
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.Route("/v1", func(r chi.Router) {
		r.Get("/cases/search", s.SearchCases)
		r.Get("/cases/{name}", s.GetCase)
		r.Get("/laws/search", s.SearchLaws)
		r.Get("/laws/{title}", s.GetLaw)
		r.Get("/facets", s.Categories)
		r.Get("/facets/{category}", s.Facets)
		r.Get("/facets/{category}/children", s.ChildFacets)
		r.Get("/facets/{category}/years", s.TimeFacets)
	})

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusNotFound, codeNotFound, "route not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, codeBadRequest, "method not allowed")
	})
	return r
}

// SearchCases handles GET /v1/cases/search.
func (s *Server) SearchCases(w http.ResponseWriter, r *http.Request) {
	req, err := searchRequest(r.URL.Query())
	if err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, err.Error())
		return
	}
	page, err := s.api.Search(r.Context(), req)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, page)
}

// SearchLaws handles GET /v1/laws/search.
func (s *Server) SearchLaws(w http.ResponseWriter, r *http.Request) {
	req, err := statuteRequest(r.URL.Query())
	if err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, err.Error())
		return
	}
	page, err := s.api.SearchStatutes(r.Context(), req)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, page)
}

// Categories handles GET /v1/facets.
func (s *Server) Categories(w http.ResponseWriter, r *http.Request) {
	cats, err := s.api.Categories(r.Context())
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"categories": cats})
}

// Facets handles GET /v1/facets/{category}.
func (s *Server) Facets(w http.ResponseWriter, r *http.Request) {
	s.serveNodes(w, r, s.api.Facets)
}

// TimeFacets handles GET /v1/facets/{category}/years.
func (s *Server) TimeFacets(w http.ResponseWriter, r *http.Request) {
	s.serveNodes(w, r, s.api.TimeFacets)
}

// ChildFacets handles GET /v1/facets/{category}/children?path=a|b.
func (s *Server) ChildFacets(w http.ResponseWriter, r *http.Request) {
	path, err := childPath(r.URL.Query())
	if err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, err.Error())
		return
	}
	s.serveNodes(w, r, func(ctx context.Context, category string) ([]facet.Node, error) {
		return s.api.ChildFacets(ctx, category, path)
	})
}

func (s *Server) serveNodes(
	w http.ResponseWriter, r *http.Request,
	fetch func(ctx context.Context, category string) ([]facet.Node, error),
) {
	category, err := pathParam(r, "category")
	if err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, err.Error())
		return
	}
	nodes, err := fetch(r.Context(), category)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"filters": nodes})
}

// GetCase handles GET /v1/cases/{name}.
func (s *Server) GetCase(w http.ResponseWriter, r *http.Request) {
	name, err := pathParam(r, "name")
	if err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, err.Error())
		return
	}
	c, err := s.api.GetCase(r.Context(), name)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, c)
}

// GetLaw handles GET /v1/laws/{title}.
func (s *Server) GetLaw(w http.ResponseWriter, r *http.Request) {
	title, err := pathParam(r, "title")
	if err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, err.Error())
		return
	}
	l, err := s.api.GetLaw(r.Context(), title)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, l)
}

// HealthCheck handles GET /health.
func (s *Server) HealthCheck(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	httpStatus := http.StatusOK
	if report.Status != healthuc.Healthy {
		httpStatus = http.StatusServiceUnavailable
	}
	writeJSON(w, httpStatus, report)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
