// SPDX-License-Identifier: MIT

package model

// forest averages the normalized leaf distributions of its trees, which is
// how scikit-learn's RandomForestClassifier.predict_proba votes.
type forest struct {
	classes   []int
	nFeatures int
	trees     []*Tree
}

func newForest(s ClassifierSpec) (*forest, error) {
	if len(s.Trees) == 0 {
		return nil, invalidf("random_forest requires at least one tree")
	}
	for i, t := range s.Trees {
		if t == nil {
			return nil, invalidf("random_forest tree %d is null", i)
		}
		if err := t.validate(s.NFeatures, len(s.Classes)); err != nil {
			return nil, invalidf("tree %d: %v", i, err)
		}
	}
	return &forest{classes: s.Classes, nFeatures: s.NFeatures, trees: s.Trees}, nil
}

func (f *forest) Classes() []int   { return f.classes }
func (f *forest) NumFeatures() int { return f.nFeatures }

func (f *forest) PredictProba(x []float64) []float64 {
	out := make([]float64, len(f.classes))
	for _, t := range f.trees {
		for i, p := range t.proba(x) {
			out[i] += p
		}
	}
	n := float64(len(f.trees))
	for i := range out {
		out[i] /= n
	}
	return out
}
