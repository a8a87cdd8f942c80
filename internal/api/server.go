// SPDX-License-Identifier: MIT

// Package api exposes the assessment and insights services over HTTP.
package api

import (
	_ "embed"
	"errors"
	"net/http"

	"github.com/ManuGH/wellcheck/internal/api/middleware"
	"github.com/ManuGH/wellcheck/internal/assessment"
	"github.com/ManuGH/wellcheck/internal/health"
	"github.com/ManuGH/wellcheck/internal/insights"
	"github.com/ManuGH/wellcheck/internal/model"
	"github.com/go-chi/chi/v5"
)

// OpenAPISpec is the HTTP contract served at /openapi.yaml.
//
//go:embed openapi.yaml
var OpenAPISpec []byte

// DefaultMaxBodyBytes bounds JSON request bodies when Deps leaves it unset.
const DefaultMaxBodyBytes int64 = 1 << 20

// Errors returned by New when a collaborator is missing.
var (
	ErrMissingAssessment = errors.New("assessment service is required")
	ErrMissingInsights   = errors.New("insights service is required")
	ErrMissingModels     = errors.New("model holder is required")
	ErrMissingHealth     = errors.New("health manager is required")
)

// ModelAdmin is the subset of model.Holder the admin routes need.
type ModelAdmin interface {
	Current() *model.Bundle
	Reload() error
}

// Deps are the collaborators of a Server.
type Deps struct {
	Assessment   *assessment.Service
	Insights     *insights.Service
	Models       ModelAdmin
	Health       *health.Manager
	Stack        middleware.StackConfig
	MaxBodyBytes int64
}

// Server routes HTTP requests to the services.
type Server struct {
	assessment *assessment.Service
	insights   *insights.Service
	models     ModelAdmin
	health     *health.Manager
	stack      middleware.StackConfig
	maxBody    int64
}

// New validates deps and builds a Server.
func New(deps Deps) (*Server, error) {
	switch {
	case deps.Assessment == nil:
		return nil, ErrMissingAssessment
	case deps.Insights == nil:
		return nil, ErrMissingInsights
	case deps.Models == nil:
		return nil, ErrMissingModels
	case deps.Health == nil:
		return nil, ErrMissingHealth
	}
	maxBody := deps.MaxBodyBytes
	if maxBody <= 0 {
		maxBody = DefaultMaxBodyBytes
	}
	return &Server{
		assessment: deps.Assessment,
		insights:   deps.Insights,
		models:     deps.Models,
		health:     deps.Health,
		stack:      deps.Stack,
		maxBody:    maxBody,
	}, nil
}

// Handler returns the routed handler with the middleware stack applied.
func (s *Server) Handler() http.Handler {
	r := middleware.NewRouter(s.stack)

	r.Get("/healthz", s.health.ServeHealth)
	r.Get("/readyz", s.health.ServeReady)
	r.Get("/test", s.handleTest)
	r.Get("/openapi.yaml", s.handleOpenAPI)

	r.Post("/check_health", s.handleCheckHealth)
	r.Post("/get_gemini_insights", s.handleInsights)

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/assessments", s.handleListAssessments)
		r.Get("/model", s.handleModelInfo)
		r.Post("/model/reload", s.handleModelReload)
	})

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusNotFound, "not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	})
	return r
}
