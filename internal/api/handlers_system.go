// SPDX-License-Identifier: MIT

package api

import (
	"errors"
	"net/http"

	"github.com/ManuGH/wellcheck/internal/log"
	"github.com/ManuGH/wellcheck/internal/model"
)

func (s *Server) handleTest(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "API is working"})
}

func (s *Server) handleOpenAPI(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/yaml")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(OpenAPISpec)
}

func (s *Server) handleModelInfo(w http.ResponseWriter, _ *http.Request) {
	b := s.models.Current()
	if b == nil {
		writeError(w, http.StatusServiceUnavailable, msgModelNotLoaded)
		return
	}
	writeJSON(w, http.StatusOK, b.Info())
}

// handleModelReload re-reads the bundle from disk. On failure the previously
// loaded bundle stays active.
func (s *Server) handleModelReload(w http.ResponseWriter, r *http.Request) {
	logger := log.WithComponentFromContext(r.Context(), "api")

	if err := s.models.Reload(); err != nil {
		code := http.StatusInternalServerError
		switch {
		case errors.Is(err, model.ErrModelNotFound):
			code = http.StatusNotFound
		case errors.Is(err, model.ErrInvalidBundle):
			code = http.StatusUnprocessableEntity
		}
		logger.Warn().Err(err).Str(log.FieldEvent, "model.reload_rejected").Msg("model reload via API failed")
		writeError(w, code, err.Error())
		return
	}

	b := s.models.Current()
	if b == nil {
		writeError(w, http.StatusServiceUnavailable, msgModelNotLoaded)
		return
	}
	logger.Info().
		Str(log.FieldEvent, "model.reloaded_via_api").
		Str(log.FieldModelName, b.Name).
		Msg("model reloaded")
	writeJSON(w, http.StatusOK, b.Info())
}
