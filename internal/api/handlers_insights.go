// SPDX-License-Identifier: MIT

package api

import (
	"encoding/json"
	"net/http"

	"github.com/ManuGH/wellcheck/internal/insights"
	"github.com/ManuGH/wellcheck/internal/log"
	"github.com/ManuGH/wellcheck/internal/metrics"
)

// handleInsights always answers 200. Clients render whatever text comes back,
// so an unreadable body gets the generic advice instead of an error.
func (s *Server) handleInsights(w http.ResponseWriter, r *http.Request) {
	var req insights.Request
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, s.maxBody)).Decode(&req); err != nil {
		logger := log.WithComponentFromContext(r.Context(), "api")
		logger.Warn().
			Err(err).
			Str(log.FieldEvent, "insights.bad_body").
			Msg("serving fallback for unreadable insights request")
		metrics.RecordInsightsFallback("bad_request")
		writeJSON(w, http.StatusOK, insights.Response{Insights: insights.FallbackBadRequest})
		return
	}

	writeJSON(w, http.StatusOK, s.insights.Insights(r.Context(), req))
}
