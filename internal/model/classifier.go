// SPDX-License-Identifier: MIT

package model

// Classifier kinds understood by ClassifierSpec.
const (
	KindDecisionTree       = "decision_tree"
	KindRandomForest       = "random_forest"
	KindLogisticRegression = "logistic_regression"
)

// Classifier evaluates a preprocessed feature vector.
type Classifier interface {
	Classes() []int
	NumFeatures() int
	PredictProba(x []float64) []float64
}

// ClassifierSpec is the serialized form of every supported classifier.
// Only the fields relevant to Kind are read.
type ClassifierSpec struct {
	Kind      string `json:"kind"`
	Classes   []int  `json:"classes"`
	NFeatures int    `json:"n_features"`

	// decision_tree
	Tree *Tree `json:"tree,omitempty"`

	// random_forest
	Trees []*Tree `json:"trees,omitempty"`

	// logistic_regression
	Coef       [][]float64 `json:"coef,omitempty"`
	Intercept  []float64   `json:"intercept,omitempty"`
	MultiClass string      `json:"multi_class,omitempty"` // multinomial (default) or ovr
}

func (s ClassifierSpec) build() (Classifier, error) {
	if len(s.Classes) == 0 {
		return nil, invalidf("classifier has no classes")
	}
	seen := make(map[int]struct{}, len(s.Classes))
	for _, c := range s.Classes {
		if _, dup := seen[c]; dup {
			return nil, invalidf("duplicate class label %d", c)
		}
		seen[c] = struct{}{}
	}
	if s.NFeatures <= 0 {
		return nil, invalidf("n_features must be positive, got %d", s.NFeatures)
	}

	switch s.Kind {
	case KindDecisionTree:
		if s.Tree == nil {
			return nil, invalidf("decision_tree requires tree")
		}
		if err := s.Tree.validate(s.NFeatures, len(s.Classes)); err != nil {
			return nil, err
		}
		return &treeClassifier{classes: s.Classes, nFeatures: s.NFeatures, tree: s.Tree}, nil
	case KindRandomForest:
		return newForest(s)
	case KindLogisticRegression:
		return newLogistic(s)
	case "":
		return nil, invalidf("classifier kind is required")
	default:
		return nil, invalidf("unsupported classifier kind %q", s.Kind)
	}
}
