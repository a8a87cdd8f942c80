// SPDX-License-Identifier: MIT

package model_test

import (
	"errors"
	"math"
	"path/filepath"
	"testing"

	"github.com/ManuGH/wellcheck/internal/model"
	"github.com/ManuGH/wellcheck/internal/model/modeltest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPredict_StepTree(t *testing.T) {
	b := modeltest.Loaded(t)

	tests := []struct {
		first float64
		want  int
	}{
		{0, 0}, {0.5, 0}, {1, 1}, {2, 2}, {2.5, 2}, {3, 3}, {4, 4}, {4.6, 5}, {100, 5},
	}
	for _, tt := range tests {
		got, err := b.Predict(modeltest.Features(tt.first))
		require.NoError(t, err)
		assert.Equal(t, tt.want, got, "first=%v", tt.first)
	}
}

func TestPredict_ImputesMissingValues(t *testing.T) {
	b := modeltest.Loaded(t)

	x := modeltest.Features(math.NaN())
	got, err := b.Predict(x)
	require.NoError(t, err)
	assert.Equal(t, 2, got, "NaN should be imputed with %v", modeltest.ImputedFirstFeature)
	assert.True(t, math.IsNaN(x[0]), "input vector must not be modified")
}

func TestPredict_MissingValueWithoutImputer(t *testing.T) {
	raw := modeltest.Bundle()
	raw.Imputer = nil
	b, err := model.Parse(modeltest.JSON(t, raw))
	require.NoError(t, err)

	_, err = b.Predict(modeltest.Features(math.NaN()))
	assert.ErrorIs(t, err, model.ErrMissingValue)
}

func TestPredict_DimensionMismatch(t *testing.T) {
	b := modeltest.Loaded(t)

	_, err := b.Predict([]float64{1, 2, 3})
	var dimErr *model.DimensionError
	require.ErrorAs(t, err, &dimErr)
	assert.Equal(t, 20, dimErr.Expected)
	assert.Equal(t, 3, dimErr.Got)
}

func TestPredictProba_TreeIsNormalized(t *testing.T) {
	b := modeltest.Loaded(t)

	p, err := b.PredictProba(modeltest.Features(3))
	require.NoError(t, err)
	require.Len(t, p, 6)
	assert.InDelta(t, 1.0, p[3], 1e-12)
}

func TestScaler_StandardAndMinMax(t *testing.T) {
	raw := modeltest.Bundle()
	// Shift feature 0 by 10 and halve it: (x-10)/0.5
	raw.Scaler.Mean[0] = 10
	raw.Scaler.Scale[0] = 0.5
	b, err := model.Parse(modeltest.JSON(t, raw))
	require.NoError(t, err)

	got, err := b.Predict(modeltest.Features(11)) // (11-10)/0.5 = 2
	require.NoError(t, err)
	assert.Equal(t, 2, got)

	mm := modeltest.Bundle()
	minV := make([]float64, modeltest.FeatureCount)
	scale := make([]float64, modeltest.FeatureCount)
	for i := range scale {
		scale[i] = 1
	}
	minV[0] = 1
	scale[0] = 0.1
	mm.Scaler = &model.Scaler{Kind: model.ScalerMinMax, Min: minV, Scale: scale}
	b, err = model.Parse(modeltest.JSON(t, mm))
	require.NoError(t, err)

	got, err = b.Predict(modeltest.Features(30)) // 30*0.1 + 1 = 4
	require.NoError(t, err)
	assert.Equal(t, 4, got)
}

func TestScaler_ZeroScaleIsIdentity(t *testing.T) {
	raw := modeltest.Bundle()
	raw.Scaler.Scale[0] = 0
	b, err := model.Parse(modeltest.JSON(t, raw))
	require.NoError(t, err)

	got, err := b.Predict(modeltest.Features(4))
	require.NoError(t, err)
	assert.Equal(t, 4, got)
}

func TestRandomForest_AveragesTrees(t *testing.T) {
	// Tree A always votes class 1, tree B splits 3:1 between classes 2 and 3,
	// tree C follows the step tree.
	constTree := func(v []float64) *model.Tree {
		return &model.Tree{
			ChildrenLeft:  []int{-1},
			ChildrenRight: []int{-1},
			Feature:       []int{-2},
			Threshold:     []float64{-2},
			Value:         [][]float64{v},
		}
	}
	raw := modeltest.Bundle()
	raw.Classifier = model.ClassifierSpec{
		Kind:      model.KindRandomForest,
		Classes:   []int{0, 1, 2, 3, 4, 5},
		NFeatures: modeltest.FeatureCount,
		Trees: []*model.Tree{
			constTree([]float64{0, 5, 0, 0, 0, 0}),
			constTree([]float64{0, 0, 3, 1, 0, 0}),
			modeltest.StepTree(),
		},
	}
	b, err := model.Parse(modeltest.JSON(t, raw))
	require.NoError(t, err)

	p, err := b.PredictProba(modeltest.Features(3))
	require.NoError(t, err)
	assert.InDelta(t, 1.0/3, p[1], 1e-12)
	assert.InDelta(t, 0.75/3, p[2], 1e-12)
	assert.InDelta(t, 1.25/3, p[3], 1e-12)

	got, err := b.Predict(modeltest.Features(3))
	require.NoError(t, err)
	assert.Equal(t, 3, got)

	got, err = b.Predict(modeltest.Features(1))
	require.NoError(t, err)
	assert.Equal(t, 1, got)
}

func TestLogisticRegression(t *testing.T) {
	coefRow := func(w0 float64) []float64 {
		row := make([]float64, modeltest.FeatureCount)
		row[0] = w0
		return row
	}

	t.Run("multinomial", func(t *testing.T) {
		raw := modeltest.Bundle()
		raw.Classifier = model.ClassifierSpec{
			Kind:      model.KindLogisticRegression,
			Classes:   []int{0, 1, 2},
			NFeatures: modeltest.FeatureCount,
			Coef:      [][]float64{coefRow(-1), coefRow(0), coefRow(1)},
			Intercept: []float64{0, 0, 0},
		}
		b, err := model.Parse(modeltest.JSON(t, raw))
		require.NoError(t, err)

		got, err := b.Predict(modeltest.Features(-2))
		require.NoError(t, err)
		assert.Equal(t, 0, got)

		got, err = b.Predict(modeltest.Features(2))
		require.NoError(t, err)
		assert.Equal(t, 2, got)

		p, err := b.PredictProba(modeltest.Features(0))
		require.NoError(t, err)
		for _, v := range p {
			assert.InDelta(t, 1.0/3, v, 1e-12)
		}
	})

	t.Run("binary", func(t *testing.T) {
		raw := modeltest.Bundle()
		raw.Classifier = model.ClassifierSpec{
			Kind:      model.KindLogisticRegression,
			Classes:   []int{0, 5},
			NFeatures: modeltest.FeatureCount,
			Coef:      [][]float64{coefRow(1)},
			Intercept: []float64{-2},
		}
		b, err := model.Parse(modeltest.JSON(t, raw))
		require.NoError(t, err)

		got, err := b.Predict(modeltest.Features(1))
		require.NoError(t, err)
		assert.Equal(t, 0, got)

		got, err = b.Predict(modeltest.Features(3))
		require.NoError(t, err)
		assert.Equal(t, 5, got)

		p, err := b.PredictProba(modeltest.Features(2))
		require.NoError(t, err)
		assert.InDelta(t, 0.5, p[0], 1e-12)
		assert.InDelta(t, 0.5, p[1], 1e-12)
	})

	t.Run("ovr", func(t *testing.T) {
		raw := modeltest.Bundle()
		raw.Classifier = model.ClassifierSpec{
			Kind:       model.KindLogisticRegression,
			Classes:    []int{0, 1, 2},
			NFeatures:  modeltest.FeatureCount,
			Coef:       [][]float64{coefRow(-1), coefRow(0), coefRow(1)},
			Intercept:  []float64{0, 0, 0},
			MultiClass: "ovr",
		}
		b, err := model.Parse(modeltest.JSON(t, raw))
		require.NoError(t, err)

		p, err := b.PredictProba(modeltest.Features(1))
		require.NoError(t, err)
		var sum float64
		for _, v := range p {
			sum += v
		}
		assert.InDelta(t, 1.0, sum, 1e-12)
		assert.Greater(t, p[2], p[1])
	})
}

func TestParse_RejectsInvalidBundles(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*model.Bundle)
	}{
		{"format version", func(b *model.Bundle) { b.FormatVersion = 2 }},
		{"no classes", func(b *model.Bundle) { b.Classifier.Classes = nil }},
		{"duplicate classes", func(b *model.Bundle) { b.Classifier.Classes = []int{0, 0, 1, 2, 3, 4} }},
		{"unknown kind", func(b *model.Bundle) { b.Classifier.Kind = "svm" }},
		{"empty kind", func(b *model.Bundle) { b.Classifier.Kind = "" }},
		{"missing tree", func(b *model.Bundle) { b.Classifier.Tree = nil }},
		{"columns mismatch", func(b *model.Bundle) { b.ValidColumns = b.ValidColumns[:5] }},
		{"imputer length", func(b *model.Bundle) { b.Imputer.Statistics = b.Imputer.Statistics[:3] }},
		{"imputer strategy", func(b *model.Bundle) { b.Imputer.Strategy = "knn" }},
		{"scaler kind", func(b *model.Bundle) { b.Scaler.Kind = "robust" }},
		{"scaler length", func(b *model.Bundle) { b.Scaler.Mean = []float64{1} }},
		{"tree feature range", func(b *model.Bundle) { b.Classifier.Tree.Feature[0] = 99 }},
		{"tree child order", func(b *model.Bundle) { b.Classifier.Tree.ChildrenLeft[2] = 0 }},
		{"tree value width", func(b *model.Bundle) { b.Classifier.Tree.Value[1] = []float64{1} }},
		{"tree one child", func(b *model.Bundle) { b.Classifier.Tree.ChildrenRight[1] = 2 }},
		{"n_features", func(b *model.Bundle) { b.Classifier.NFeatures = 0 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			raw := modeltest.Bundle()
			tt.mutate(raw)
			_, err := model.Parse(modeltest.JSON(t, raw))
			require.Error(t, err)
			assert.ErrorIs(t, err, model.ErrInvalidBundle)
		})
	}
}

func TestParse_RejectsGarbage(t *testing.T) {
	_, err := model.Parse([]byte("not json"))
	assert.ErrorIs(t, err, model.ErrInvalidBundle)
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()

	_, err := model.Load(filepath.Join(dir, "missing.json"))
	assert.ErrorIs(t, err, model.ErrModelNotFound)

	path := modeltest.WriteBundle(t, dir)
	b, err := model.Load(path)
	require.NoError(t, err)

	info := b.Info()
	assert.Equal(t, "health_model_20_features", info.Name)
	assert.Equal(t, model.KindDecisionTree, info.Classifier)
	assert.Equal(t, 20, info.FeatureCount)
	assert.Equal(t, []int{0, 1, 2, 3, 4, 5}, info.Classes)
	assert.True(t, info.HasImputer)
	assert.True(t, info.HasScaler)
	assert.Equal(t, path, info.Path)
	assert.Len(t, info.Checksum, 64)
	assert.False(t, info.LoadedAt.IsZero())
}

func TestLoad_UnreadableIsNotNotFound(t *testing.T) {
	dir := t.TempDir()
	_, err := model.Load(dir) // a directory cannot be read as a file
	require.Error(t, err)
	assert.False(t, errors.Is(err, model.ErrModelNotFound))
}
