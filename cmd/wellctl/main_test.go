// SPDX-License-Identifier: MIT

package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ManuGH/wellcheck/internal/config"
	"github.com/ManuGH/wellcheck/internal/model"
	"github.com/ManuGH/wellcheck/internal/model/modeltest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func vectorArg(first string) string {
	parts := make([]string, modeltest.FeatureCount)
	for i := range parts {
		parts[i] = "3"
	}
	parts[0] = first
	return strings.Join(parts, ",")
}

func TestPredict(t *testing.T) {
	path := modeltest.WriteBundle(t, t.TempDir())

	out, err := run(t, "predict", "--model", path, vectorArg("4"))
	require.NoError(t, err)

	var res map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &res))
	assert.EqualValues(t, 4, res["health_score"])
	assert.Equal(t, "High Risk", res["health_status"])
}

func TestPredict_MissingValueIsImputed(t *testing.T) {
	path := modeltest.WriteBundle(t, t.TempDir())

	out, err := run(t, "predict", "-m", path, vectorArg("null"))
	require.NoError(t, err)
	assert.Contains(t, out, `"health_score": 2`)
}

func TestPredict_Errors(t *testing.T) {
	path := modeltest.WriteBundle(t, t.TempDir())

	_, err := run(t, "predict", "-m", path, "1,2,3")
	assert.ErrorContains(t, err, "expected 20 features, got 3")

	_, err = run(t, "predict", "-m", path, vectorArg("abc"))
	assert.ErrorContains(t, err, "not numeric")

	_, err = run(t, "predict", "-m", filepath.Join(t.TempDir(), "none.json"), vectorArg("1"))
	assert.ErrorIs(t, err, model.ErrModelNotFound)
}

func TestSplitFeatures(t *testing.T) {
	got := splitFeatures([]string{"1, 2", "null", ",NaN"})
	assert.Equal(t, []any{"1", "2", nil, nil, nil}, got)
}

func TestInspect(t *testing.T) {
	path := modeltest.WriteBundle(t, t.TempDir())

	out, err := run(t, "inspect", "--model", path)
	require.NoError(t, err)

	var info model.Info
	require.NoError(t, json.Unmarshal([]byte(out), &info))
	assert.Equal(t, "health_model_20_features", info.Name)
	assert.Equal(t, modeltest.FeatureCount, info.FeatureCount)
	assert.True(t, info.HasImputer)
}

func TestConfigInitAndValidate(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")

	out, err := run(t, "config", "init", "--out", path)
	require.NoError(t, err)
	assert.Contains(t, out, "wrote "+path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, config.ExampleYAML, string(data))

	_, err = run(t, "config", "init", "--out", path)
	assert.ErrorContains(t, err, "already exists")

	_, err = run(t, "config", "init", "--out", path, "--force")
	assert.NoError(t, err)

	t.Setenv("WELLCHECK_DATA_DIR", dir)
	out, err = run(t, "config", "validate", "-f", path)
	require.NoError(t, err)
	assert.Contains(t, out, "configuration valid")
}

func TestConfigValidate_Rejects(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("nope: true\n"), 0o600))

	_, err := run(t, "config", "validate", "-f", path)
	assert.ErrorContains(t, err, "configuration error")
}
