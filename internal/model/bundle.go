// SPDX-License-Identifier: MIT

// Package model loads exported classifier bundles and evaluates them.
//
// A bundle is the JSON export of a trained pipeline: an optional imputer,
// an optional scaler and one classifier. Evaluation follows scikit-learn
// semantics so exported models score identically in both runtimes.
package model

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"math"
	"os"
	"path/filepath"
	"time"
)

// FormatVersion is the only bundle format this package understands.
const FormatVersion = 1

// Bundle is a loaded, validated model pipeline.
type Bundle struct {
	FormatVersion int            `json:"format_version"`
	Name          string         `json:"name"`
	ValidColumns  []string       `json:"valid_columns,omitempty"`
	Imputer       *Imputer       `json:"imputer,omitempty"`
	Scaler        *Scaler        `json:"scaler,omitempty"`
	Classifier    ClassifierSpec `json:"classifier"`

	clf      Classifier
	path     string
	checksum string
	loadedAt time.Time
}

// Info is the metadata exposed over the API.
type Info struct {
	Name         string    `json:"name"`
	Classifier   string    `json:"classifier"`
	Classes      []int     `json:"classes"`
	FeatureCount int       `json:"feature_count"`
	Columns      []string  `json:"columns,omitempty"`
	HasImputer   bool      `json:"has_imputer"`
	HasScaler    bool      `json:"has_scaler"`
	Path         string    `json:"path,omitempty"`
	Checksum     string    `json:"checksum,omitempty"`
	LoadedAt     time.Time `json:"loaded_at"`
}

// Load reads and validates the bundle at path.
func Load(path string) (*Bundle, error) {
	// #nosec G304 -- the model path is operator configuration
	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrModelNotFound, path)
		}
		return nil, fmt.Errorf("read model: %w", err)
	}

	b, err := Parse(data)
	if err != nil {
		return nil, err
	}
	b.path = path
	return b, nil
}

// Parse decodes and validates a bundle from raw JSON.
func Parse(data []byte) (*Bundle, error) {
	var b Bundle
	if err := json.Unmarshal(data, &b); err != nil {
		return nil, fmt.Errorf("%w: decode: %v", ErrInvalidBundle, err)
	}
	if err := b.Validate(); err != nil {
		return nil, err
	}

	sum := sha256.Sum256(data)
	b.checksum = hex.EncodeToString(sum[:])
	b.loadedAt = time.Now().UTC()
	return &b, nil
}

// Validate checks internal consistency and builds the classifier.
func (b *Bundle) Validate() error {
	if b.FormatVersion != FormatVersion {
		return invalidf("unsupported format_version %d (want %d)", b.FormatVersion, FormatVersion)
	}

	clf, err := b.Classifier.build()
	if err != nil {
		return err
	}

	n := clf.NumFeatures()
	if len(b.ValidColumns) > 0 && len(b.ValidColumns) != n {
		return invalidf("valid_columns has %d entries, classifier expects %d", len(b.ValidColumns), n)
	}
	if b.Imputer != nil {
		if err := b.Imputer.validate(n); err != nil {
			return err
		}
	}
	if b.Scaler != nil {
		if err := b.Scaler.validate(n); err != nil {
			return err
		}
	}

	b.clf = clf
	return nil
}

// NumFeatures is the length of the input vector the bundle accepts.
func (b *Bundle) NumFeatures() int {
	return b.clf.NumFeatures()
}

// Classes returns the class labels in model order.
func (b *Bundle) Classes() []int {
	return append([]int(nil), b.clf.Classes()...)
}

// Transform applies the imputer and scaler to a copy of x.
func (b *Bundle) Transform(x []float64) ([]float64, error) {
	if len(x) != b.NumFeatures() {
		return nil, &DimensionError{Expected: b.NumFeatures(), Got: len(x)}
	}
	out := append([]float64(nil), x...)
	if b.Imputer != nil {
		b.Imputer.transform(out)
	}
	if b.Scaler != nil {
		b.Scaler.transform(out)
	}
	for _, v := range out {
		if math.IsNaN(v) {
			return nil, ErrMissingValue
		}
	}
	return out, nil
}

// Predict returns the class label for one raw feature vector.
func (b *Bundle) Predict(x []float64) (int, error) {
	proba, err := b.PredictProba(x)
	if err != nil {
		return 0, err
	}
	return b.clf.Classes()[argmax(proba)], nil
}

// PredictProba returns per-class probabilities in Classes() order.
func (b *Bundle) PredictProba(x []float64) ([]float64, error) {
	xt, err := b.Transform(x)
	if err != nil {
		return nil, err
	}
	return b.clf.PredictProba(xt), nil
}

// Info returns bundle metadata.
func (b *Bundle) Info() Info {
	return Info{
		Name:         b.Name,
		Classifier:   b.Classifier.Kind,
		Classes:      b.Classes(),
		FeatureCount: b.NumFeatures(),
		Columns:      append([]string(nil), b.ValidColumns...),
		HasImputer:   b.Imputer != nil,
		HasScaler:    b.Scaler != nil,
		Path:         b.path,
		Checksum:     b.checksum,
		LoadedAt:     b.loadedAt,
	}
}

// argmax returns the first index of the maximum value.
func argmax(v []float64) int {
	best := 0
	for i := 1; i < len(v); i++ {
		if v[i] > v[best] {
			best = i
		}
	}
	return best
}
