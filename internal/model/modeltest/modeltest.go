// SPDX-License-Identifier: MIT

// Package modeltest provides deterministic model bundles for tests.
package modeltest

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/ManuGH/wellcheck/internal/model"
)

// FeatureCount matches the questionnaire length used by the service.
const FeatureCount = 20

// ImputedFirstFeature is the mean statistic used when feature 0 is missing.
const ImputedFirstFeature = 2.5

// Columns returns the questionnaire column names.
func Columns() []string {
	cols := make([]string, FeatureCount)
	for i := range cols {
		cols[i] = fmt.Sprintf("PCIAT-PCIAT_%02d", i+1)
	}
	return cols
}

// StepTree returns a decision tree whose predicted class is feature 0
// rounded half-down into 0..5 (x<=0.5 -> 0, x<=1.5 -> 1, ...).
func StepTree() *model.Tree {
	leaf := func(class int) []float64 {
		v := make([]float64, 6)
		v[class] = 10
		return v
	}
	split := func(from int) []float64 {
		v := make([]float64, 6)
		for c := from; c < 6; c++ {
			v[c] = 10
		}
		return v
	}
	return &model.Tree{
		ChildrenLeft:  []int{1, -1, 3, -1, 5, -1, 7, -1, 9, -1, -1},
		ChildrenRight: []int{2, -1, 4, -1, 6, -1, 8, -1, 10, -1, -1},
		Feature:       []int{0, -2, 0, -2, 0, -2, 0, -2, 0, -2, -2},
		Threshold:     []float64{0.5, -2, 1.5, -2, 2.5, -2, 3.5, -2, 4.5, -2, -2},
		Value: [][]float64{
			split(0), leaf(0),
			split(1), leaf(1),
			split(2), leaf(2),
			split(3), leaf(3),
			split(4), leaf(4),
			leaf(5),
		},
	}
}

// Bundle returns a 20-feature bundle with a mean imputer, an identity
// standard scaler and StepTree as classifier.
func Bundle() *model.Bundle {
	stats := make([]float64, FeatureCount)
	mean := make([]float64, FeatureCount)
	scale := make([]float64, FeatureCount)
	for i := range stats {
		stats[i] = ImputedFirstFeature
		scale[i] = 1
	}
	return &model.Bundle{
		FormatVersion: model.FormatVersion,
		Name:          "health_model_20_features",
		ValidColumns:  Columns(),
		Imputer:       &model.Imputer{Strategy: "mean", Statistics: stats},
		Scaler:        &model.Scaler{Kind: model.ScalerStandard, Mean: mean, Scale: scale},
		Classifier: model.ClassifierSpec{
			Kind:      model.KindDecisionTree,
			Classes:   []int{0, 1, 2, 3, 4, 5},
			NFeatures: FeatureCount,
			Tree:      StepTree(),
		},
	}
}

// JSON encodes b.
func JSON(tb testing.TB, b *model.Bundle) []byte {
	tb.Helper()
	data, err := json.Marshal(b)
	if err != nil {
		tb.Fatalf("marshal bundle: %v", err)
	}
	return data
}

// WriteBundle writes Bundle() into dir and returns its path.
func WriteBundle(tb testing.TB, dir string) string {
	tb.Helper()
	return Write(tb, dir, Bundle())
}

// Write writes b as dir/bundle.json and returns its path.
func Write(tb testing.TB, dir string, b *model.Bundle) string {
	tb.Helper()
	path := filepath.Join(dir, "bundle.json")
	if err := os.WriteFile(path, JSON(tb, b), 0o600); err != nil {
		tb.Fatalf("write bundle: %v", err)
	}
	return path
}

// Narrow returns a valid bundle that accepts only n features, with no
// imputer or scaler.
func Narrow(n int) *model.Bundle {
	b := Bundle()
	b.Name = fmt.Sprintf("health_model_%d_features", n)
	b.ValidColumns = Columns()[:n]
	b.Imputer = nil
	b.Scaler = nil
	b.Classifier.NFeatures = n
	return b
}

// Loaded returns a validated copy of Bundle().
func Loaded(tb testing.TB) *model.Bundle {
	tb.Helper()
	b, err := model.Parse(JSON(tb, Bundle()))
	if err != nil {
		tb.Fatalf("parse bundle: %v", err)
	}
	return b
}

// Features returns a valid feature vector whose first entry is first.
func Features(first float64) []float64 {
	x := make([]float64, FeatureCount)
	x[0] = first
	for i := 1; i < FeatureCount; i++ {
		x[i] = 3
	}
	return x
}
