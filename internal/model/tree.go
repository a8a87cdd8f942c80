// SPDX-License-Identifier: MIT

package model

// Tree is a fitted binary decision tree in scikit-learn's array layout.
// Node i is a leaf when ChildrenLeft[i] == -1. Internal nodes send
// x[Feature[i]] <= Threshold[i] to the left child.
type Tree struct {
	ChildrenLeft  []int       `json:"children_left"`
	ChildrenRight []int       `json:"children_right"`
	Feature       []int       `json:"feature"`
	Threshold     []float64   `json:"threshold"`
	Value         [][]float64 `json:"value"`
}

const leafMarker = -1

func (t *Tree) validate(nFeatures, nClasses int) error {
	n := len(t.ChildrenLeft)
	if n == 0 {
		return invalidf("tree has no nodes")
	}
	if len(t.ChildrenRight) != n || len(t.Feature) != n || len(t.Threshold) != n || len(t.Value) != n {
		return invalidf("tree arrays differ in length")
	}
	for i := 0; i < n; i++ {
		if len(t.Value[i]) != nClasses {
			return invalidf("node %d value has %d entries, want %d", i, len(t.Value[i]), nClasses)
		}
		l, r := t.ChildrenLeft[i], t.ChildrenRight[i]
		if l == leafMarker {
			if r != leafMarker {
				return invalidf("node %d has only one child", i)
			}
			continue
		}
		// Children always come after their parent in exported trees, which
		// also rules out cycles.
		if l <= i || l >= n || r <= i || r >= n {
			return invalidf("node %d has child index out of range", i)
		}
		if f := t.Feature[i]; f < 0 || f >= nFeatures {
			return invalidf("node %d splits on feature %d outside [0,%d)", i, f, nFeatures)
		}
	}
	return nil
}

// leaf walks the tree and returns the leaf distribution for x.
func (t *Tree) leaf(x []float64) []float64 {
	node := 0
	for t.ChildrenLeft[node] != leafMarker {
		if x[t.Feature[node]] <= t.Threshold[node] {
			node = t.ChildrenLeft[node]
		} else {
			node = t.ChildrenRight[node]
		}
	}
	return t.Value[node]
}

// proba returns the normalized leaf distribution for x.
func (t *Tree) proba(x []float64) []float64 {
	return normalize(t.leaf(x))
}

func normalize(v []float64) []float64 {
	out := make([]float64, len(v))
	var sum float64
	for _, x := range v {
		sum += x
	}
	if sum == 0 {
		return out
	}
	for i, x := range v {
		out[i] = x / sum
	}
	return out
}

type treeClassifier struct {
	classes   []int
	nFeatures int
	tree      *Tree
}

func (c *treeClassifier) Classes() []int   { return c.classes }
func (c *treeClassifier) NumFeatures() int { return c.nFeatures }

func (c *treeClassifier) PredictProba(x []float64) []float64 {
	return c.tree.proba(x)
}
