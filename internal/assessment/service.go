// SPDX-License-Identifier: MIT

// Package assessment scores questionnaire feature vectors with the active
// model and attaches the static risk texts.
package assessment

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/ManuGH/wellcheck/internal/history"
	"github.com/ManuGH/wellcheck/internal/log"
	"github.com/ManuGH/wellcheck/internal/metrics"
	"github.com/ManuGH/wellcheck/internal/model"
	"github.com/ManuGH/wellcheck/internal/telemetry"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel/attribute"
)

// ExpectedFeatureCount is the questionnaire length the service accepts.
const ExpectedFeatureCount = 20

// ModelSource yields the currently active bundle, or nil.
type ModelSource interface {
	Current() *model.Bundle
}

// Result is the outcome of one assessment.
type Result struct {
	ID               string `json:"-"`
	HealthScore      int    `json:"health_score"`
	HealthStatus     string `json:"health_status"`
	ScoreExplanation string `json:"score_explanation"`
	Suggestions      string `json:"suggestions"`
}

// Service runs assessments.
type Service struct {
	models         ModelSource
	history        history.Store
	historyBackend string
	logger         zerolog.Logger
	now            func() time.Time
}

// NewService creates a Service. A nil store disables history.
func NewService(models ModelSource, store history.Store, historyBackend string) *Service {
	if store == nil {
		store, _ = history.Open(history.BackendNone, "")
		historyBackend = history.BackendNone
	}
	return &Service{
		models:         models,
		history:        store,
		historyBackend: historyBackend,
		logger:         log.WithComponent("assessment"),
		now:            time.Now,
	}
}

// Ready reports whether a model is loaded.
func (s *Service) Ready() bool {
	return s.models.Current() != nil
}

// Assess scores one feature vector. Nil entries are treated as missing.
func (s *Service) Assess(ctx context.Context, features []*float64) (Result, error) {
	ctx, span := telemetry.Tracer("wellcheck/assessment").Start(ctx, "assessment.assess")
	defer span.End()

	b := s.models.Current()
	if b == nil {
		metrics.RecordPredictionError("model_not_loaded")
		return Result{}, ErrModelNotLoaded
	}
	if len(features) != ExpectedFeatureCount {
		metrics.RecordPredictionError("feature_count")
		return Result{}, &FeatureCountError{Got: len(features)}
	}

	x := make([]float64, len(features))
	for i, f := range features {
		if f == nil {
			x[i] = math.NaN()
			continue
		}
		x[i] = *f
	}

	span.SetAttributes(telemetry.ModelAttributes(b.Name, b.Classifier.Kind)...)

	start := s.now()
	score, err := b.Predict(x)
	if err != nil {
		telemetry.RecordError(span, err)
		reason := "internal"
		if errors.Is(err, model.ErrMissingValue) {
			reason = "missing_value"
		}
		metrics.RecordPredictionError(reason)
		return Result{}, fmt.Errorf("predict: %w", err)
	}
	metrics.RecordPrediction(score, s.now().Sub(start))
	span.SetAttributes(attribute.Int(telemetry.AssessmentScoreKey, score))

	res := Result{
		ID:               uuid.NewString(),
		HealthScore:      score,
		HealthStatus:     Status(score),
		ScoreExplanation: Explanation(score),
		Suggestions:      Suggestion,
	}

	logger := log.WithContext(ctx, s.logger)
	rec := history.Record{
		ID:        res.ID,
		RequestID: log.RequestIDFromContext(ctx),
		Score:     res.HealthScore,
		Status:    res.HealthStatus,
		CreatedAt: s.now().UTC(),
	}
	herr := s.history.Record(ctx, rec)
	metrics.RecordHistoryWrite(s.historyBackend, herr)
	if herr != nil {
		logger.Warn().
			Err(herr).
			Str(log.FieldEvent, "assessment.history_failed").
			Str(log.FieldAssessmentID, res.ID).
			Msg("failed to record assessment")
	}

	logger.Info().
		Str(log.FieldEvent, "assessment.completed").
		Str(log.FieldAssessmentID, res.ID).
		Str(log.FieldModelName, b.Name).
		Int(log.FieldScore, score).
		Msg("assessment completed")

	return res, nil
}

// Recent returns the latest recorded assessments, newest first.
func (s *Service) Recent(ctx context.Context, limit int) ([]history.Record, error) {
	return s.history.Recent(ctx, history.ClampLimit(limit))
}
