// SPDX-License-Identifier: MIT

package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/ManuGH/wellcheck/internal/api/middleware"
	"github.com/ManuGH/wellcheck/internal/assessment"
	"github.com/ManuGH/wellcheck/internal/health"
	"github.com/ManuGH/wellcheck/internal/history"
	"github.com/ManuGH/wellcheck/internal/insights"
	"github.com/ManuGH/wellcheck/internal/model"
	"github.com/ManuGH/wellcheck/internal/model/modeltest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubGenerator struct {
	calls atomic.Int32
	text  string
}

func (g *stubGenerator) Generate(context.Context, string) (string, error) {
	g.calls.Add(1)
	return g.text, nil
}

type brokenStore struct{}

func (brokenStore) Record(context.Context, history.Record) error { return nil }
func (brokenStore) Recent(context.Context, int) ([]history.Record, error) {
	return nil, errors.New("database is locked")
}
func (brokenStore) Close() error { return nil }

type fixture struct {
	handler http.Handler
	holder  *model.Holder
	dir     string
	gen     *stubGenerator
}

type fixtureOption func(*Deps)

func newFixture(t *testing.T, loaded bool, opts ...fixtureOption) *fixture {
	t.Helper()

	dir := t.TempDir()
	holder := model.NewHolder(filepath.Join(dir, "bundle.json"), model.WithFeatureCount(assessment.ExpectedFeatureCount))
	if loaded {
		modeltest.WriteBundle(t, dir)
		require.NoError(t, holder.Reload())
	}

	gen := &stubGenerator{text: "Try a screen-free evening each week."}
	hm := health.NewManager("test")
	hm.RegisterChecker(health.NewModelChecker(holder))

	deps := Deps{
		Assessment: assessment.NewService(holder, history.NewMemoryStore(0), history.BackendMemory),
		Insights:   insights.NewService(gen, nil, insights.Config{}),
		Models:     holder,
		Health:     hm,
		Stack:      middleware.StackConfig{AllowedOrigins: []string{"*"}},
	}
	for _, opt := range opts {
		opt(&deps)
	}

	srv, err := New(deps)
	require.NoError(t, err)
	return &fixture{handler: srv.Handler(), holder: holder, dir: dir, gen: gen}
}

func (f *fixture) do(t *testing.T, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	f.handler.ServeHTTP(rec, req)
	return rec
}

func featuresBody(t *testing.T, first any, n int) string {
	t.Helper()
	features := make([]any, n)
	for i := range features {
		features[i] = 3
	}
	if n > 0 {
		features[0] = first
	}
	data, err := json.Marshal(map[string]any{"features": features})
	require.NoError(t, err)
	return string(data)
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

func TestNew_RequiresDeps(t *testing.T) {
	_, err := New(Deps{})
	assert.ErrorIs(t, err, ErrMissingAssessment)
}

func TestCheckHealth(t *testing.T) {
	f := newFixture(t, true)

	rec := f.do(t, http.MethodPost, "/check_health", featuresBody(t, 4, 20))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	res := decode[map[string]any](t, rec)
	assert.EqualValues(t, 4, res["health_score"])
	assert.Equal(t, "High Risk", res["health_status"])
	assert.Equal(t, assessment.Explanation(4), res["score_explanation"])
	assert.Equal(t, assessment.Suggestion, res["suggestions"])
	assert.NotContains(t, res, "ID")

	id := rec.Header().Get(HeaderAssessmentID)
	require.NotEmpty(t, id)

	list := decode[assessmentList](t, f.do(t, http.MethodGet, "/api/v1/assessments", ""))
	require.Equal(t, 1, list.Count)
	assert.Equal(t, id, list.Assessments[0].ID)
	assert.Equal(t, 4, list.Assessments[0].Score)
}

func TestCheckHealth_NullIsImputed(t *testing.T) {
	f := newFixture(t, true)

	rec := f.do(t, http.MethodPost, "/check_health", featuresBody(t, nil, 20))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.EqualValues(t, 2, decode[map[string]any](t, rec)["health_score"])
}

func TestCheckHealth_Errors(t *testing.T) {
	tests := []struct {
		name     string
		loaded   bool
		body     string
		wantCode int
		wantErr  string
	}{
		{"too few features", true, `{"features":[1,2,3]}`, http.StatusBadRequest, "Expected 20 features, got 3"},
		{"missing features", true, `{}`, http.StatusBadRequest, "Expected 20 features, got 0"},
		{"model not loaded", false, `{"features":[1]}`, http.StatusInternalServerError, "Model not loaded properly"},
		{"invalid json", true, `{"features":`, http.StatusBadRequest, msgInvalidBody},
		{"invalid json without model", false, `{"features":`, http.StatusInternalServerError, "Model not loaded properly"},
		{"non-numeric without model", false, `{"features":["abc"]}`, http.StatusInternalServerError, "Model not loaded properly"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, tt.loaded)
			rec := f.do(t, http.MethodPost, "/check_health", tt.body)
			assert.Equal(t, tt.wantCode, rec.Code)
			assert.Equal(t, tt.wantErr, decode[map[string]string](t, rec)["error"])
		})
	}
}

func TestCheckHealth_NonNumericFeature(t *testing.T) {
	f := newFixture(t, true)

	rec := f.do(t, http.MethodPost, "/check_health", featuresBody(t, map[string]int{"a": 1}, 20))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, decode[map[string]string](t, rec)["error"], "feature 0")
}

func TestCheckHealth_BodyTooLarge(t *testing.T) {
	f := newFixture(t, true, func(d *Deps) { d.MaxBodyBytes = 16 })

	rec := f.do(t, http.MethodPost, "/check_health", featuresBody(t, 1, 20))
	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
}

func TestInsights(t *testing.T) {
	f := newFixture(t, true)

	rec := f.do(t, http.MethodPost, "/get_gemini_insights", `{"answers":{"PCIAT_01":3},"healthStatus":"High Risk","healthScore":4}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, f.gen.text, decode[insights.Response](t, rec).Insights)
	assert.EqualValues(t, 1, f.gen.calls.Load())
}

func TestInsights_MalformedBodyGetsFallback(t *testing.T) {
	f := newFixture(t, true)

	rec := f.do(t, http.MethodPost, "/get_gemini_insights", `not json`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, insights.FallbackBadRequest, decode[insights.Response](t, rec).Insights)
	assert.Zero(t, f.gen.calls.Load())
}

func TestInsights_LooseOptionalFields(t *testing.T) {
	tests := []struct {
		name  string
		extra string
	}{
		{"fractional score", `"healthScore":3.5`},
		{"string score", `"healthScore":"4"`},
		{"numeric status", `"healthStatus":4`},
		{"object status", `"healthStatus":{"level":"high"}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, true)

			rec := f.do(t, http.MethodPost, "/get_gemini_insights", `{"answers":{"PCIAT_01":3},`+tt.extra+`}`)
			require.Equal(t, http.StatusOK, rec.Code)
			assert.Equal(t, f.gen.text, decode[insights.Response](t, rec).Insights)
			assert.EqualValues(t, 1, f.gen.calls.Load())
		})
	}
}

func TestTestEndpoint(t *testing.T) {
	f := newFixture(t, false)

	rec := f.do(t, http.MethodGet, "/test", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "API is working", decode[map[string]string](t, rec)["status"])
	assert.Equal(t, "*", f.doWithOrigin(t, "/test").Header().Get("Access-Control-Allow-Origin"))
}

func (f *fixture) doWithOrigin(t *testing.T, target string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	req.Header.Set("Origin", "http://localhost:3000")
	rec := httptest.NewRecorder()
	f.handler.ServeHTTP(rec, req)
	return rec
}

func TestReadiness(t *testing.T) {
	notLoaded := newFixture(t, false)
	assert.Equal(t, http.StatusServiceUnavailable, notLoaded.do(t, http.MethodGet, "/readyz", "").Code)
	assert.Equal(t, http.StatusOK, notLoaded.do(t, http.MethodGet, "/healthz", "").Code)

	loaded := newFixture(t, true)
	rec := loaded.do(t, http.MethodGet, "/readyz?verbose=true", "")
	require.Equal(t, http.StatusOK, rec.Code)
	resp := decode[health.ReadinessResponse](t, rec)
	assert.True(t, resp.Ready)
	assert.Equal(t, health.StatusHealthy, resp.Checks["model"].Status)
}

func TestModelInfo(t *testing.T) {
	f := newFixture(t, false)
	rec := f.do(t, http.MethodGet, "/api/v1/model", "")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)

	f = newFixture(t, true)
	rec = f.do(t, http.MethodGet, "/api/v1/model", "")
	require.Equal(t, http.StatusOK, rec.Code)
	info := decode[model.Info](t, rec)
	assert.Equal(t, "health_model_20_features", info.Name)
	assert.Equal(t, model.KindDecisionTree, info.Classifier)
	assert.Equal(t, 20, info.FeatureCount)
}

func TestModelReload(t *testing.T) {
	f := newFixture(t, false)

	rec := f.do(t, http.MethodPost, "/api/v1/model/reload", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	modeltest.WriteBundle(t, f.dir)
	rec = f.do(t, http.MethodPost, "/api/v1/model/reload", "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "health_model_20_features", decode[model.Info](t, rec).Name)

	require.NoError(t, os.WriteFile(filepath.Join(f.dir, "bundle.json"), []byte(`{"format_version":99}`), 0o600))
	rec = f.do(t, http.MethodPost, "/api/v1/model/reload", "")
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	// The previous bundle keeps serving.
	assert.Equal(t, http.StatusOK, f.do(t, http.MethodPost, "/check_health", featuresBody(t, 1, 20)).Code)
}

func TestModelReload_RejectsWrongFeatureCount(t *testing.T) {
	f := newFixture(t, true)

	modeltest.Write(t, f.dir, modeltest.Narrow(10))
	rec := f.do(t, http.MethodPost, "/api/v1/model/reload", "")
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	assert.Equal(t, http.StatusOK, f.do(t, http.MethodPost, "/check_health", featuresBody(t, 1, 20)).Code)
	assert.Equal(t, "health_model_20_features", decode[model.Info](t, f.do(t, http.MethodGet, "/api/v1/model", "")).Name)
}

func TestListAssessments_StoreFailure(t *testing.T) {
	f := newFixture(t, true, func(d *Deps) {
		d.Assessment = assessment.NewService(d.Models.(*model.Holder), brokenStore{}, "broken")
	})

	rec := f.do(t, http.MethodGet, "/api/v1/assessments", "")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "failed to read assessment history", decode[map[string]string](t, rec)["error"])
}

func TestListAssessments_Limit(t *testing.T) {
	f := newFixture(t, true)
	for i := 0; i < 3; i++ {
		require.Equal(t, http.StatusOK, f.do(t, http.MethodPost, "/check_health", featuresBody(t, i, 20)).Code)
	}

	list := decode[assessmentList](t, f.do(t, http.MethodGet, "/api/v1/assessments?limit=2", ""))
	require.Equal(t, 2, list.Count)
	assert.Equal(t, 2, list.Assessments[0].Score, "newest first")

	assert.Equal(t, http.StatusBadRequest, f.do(t, http.MethodGet, "/api/v1/assessments?limit=abc", "").Code)
	assert.Equal(t, http.StatusBadRequest, f.do(t, http.MethodGet, "/api/v1/assessments?limit=0", "").Code)
}

func TestOpenAPIEndpoint(t *testing.T) {
	f := newFixture(t, false)

	rec := f.do(t, http.MethodGet, "/openapi.yaml", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, bytes.Equal(OpenAPISpec, rec.Body.Bytes()))
}

func TestUnknownRoute(t *testing.T) {
	f := newFixture(t, false)

	rec := f.do(t, http.MethodGet, "/nope", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "not found", decode[map[string]string](t, rec)["error"])

	rec = f.do(t, http.MethodGet, "/check_health", "")
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}
