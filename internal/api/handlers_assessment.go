// SPDX-License-Identifier: MIT

package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/ManuGH/wellcheck/internal/assessment"
	"github.com/ManuGH/wellcheck/internal/history"
	"github.com/ManuGH/wellcheck/internal/log"
	"github.com/ManuGH/wellcheck/internal/model"
)

// HeaderAssessmentID carries the ID of the recorded assessment.
const HeaderAssessmentID = "X-Assessment-ID"

type checkHealthRequest struct {
	Features []any `json:"features"`
}

type assessmentList struct {
	Assessments []history.Record `json:"assessments"`
	Count       int              `json:"count"`
}

func (s *Server) handleCheckHealth(w http.ResponseWriter, r *http.Request) {
	logger := log.WithComponentFromContext(r.Context(), "api")

	if !s.assessment.Ready() {
		logger.Error().Str(log.FieldEvent, "check_health.no_model").Msg("assessment requested without a loaded model")
		writeError(w, http.StatusInternalServerError, msgModelNotLoaded)
		return
	}

	var req checkHealthRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, s.maxBody))
	dec.UseNumber()
	if err := dec.Decode(&req); err != nil {
		logger.Debug().Err(err).Str(log.FieldEvent, "check_health.bad_body").Msg("rejecting unreadable body")
		writeDecodeError(w, err)
		return
	}

	features, err := assessment.ParseFeatures(req.Features)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	res, err := s.assessment.Assess(r.Context(), features)
	if err != nil {
		code, msg := assessmentError(err)
		if code >= http.StatusInternalServerError {
			logger.Error().Err(err).Str(log.FieldEvent, "check_health.failed").Msg("assessment failed")
		}
		writeError(w, code, msg)
		return
	}

	w.Header().Set(HeaderAssessmentID, res.ID)
	writeJSON(w, http.StatusOK, res)
}

// assessmentError maps an Assess error to a status code and client message.
func assessmentError(err error) (int, string) {
	var countErr *assessment.FeatureCountError
	var valueErr *assessment.FeatureValueError
	switch {
	case errors.Is(err, assessment.ErrModelNotLoaded):
		return http.StatusInternalServerError, msgModelNotLoaded
	case errors.As(err, &countErr):
		return http.StatusBadRequest, fmt.Sprintf("Expected %d features, got %d", assessment.ExpectedFeatureCount, countErr.Got)
	case errors.As(err, &valueErr):
		return http.StatusBadRequest, valueErr.Error()
	case errors.Is(err, model.ErrMissingValue):
		return http.StatusBadRequest, "Missing feature values cannot be imputed by the active model"
	default:
		return http.StatusInternalServerError, err.Error()
	}
}

func (s *Server) handleListAssessments(w http.ResponseWriter, r *http.Request) {
	limit := history.DefaultLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			writeError(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		limit = n
	}

	records, err := s.assessment.Recent(r.Context(), limit)
	if err != nil {
		logger := log.WithComponentFromContext(r.Context(), "api")
		logger.Error().
			Err(err).
			Str(log.FieldEvent, "history.read_failed").
			Msg("failed to read assessment history")
		writeError(w, http.StatusInternalServerError, "failed to read assessment history")
		return
	}
	if records == nil {
		records = []history.Record{}
	}
	writeJSON(w, http.StatusOK, assessmentList{Assessments: records, Count: len(records)})
}
