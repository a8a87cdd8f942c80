// SPDX-License-Identifier: MIT

package model

import "math"

type logistic struct {
	classes   []int
	nFeatures int
	coef      [][]float64
	intercept []float64
	ovr       bool
}

func newLogistic(s ClassifierSpec) (*logistic, error) {
	nClasses := len(s.Classes)
	rows := nClasses
	if nClasses == 2 {
		rows = 1
	}
	if nClasses < 2 {
		return nil, invalidf("logistic_regression needs at least two classes")
	}
	if len(s.Coef) != rows {
		return nil, invalidf("coef has %d rows, want %d", len(s.Coef), rows)
	}
	for i, row := range s.Coef {
		if len(row) != s.NFeatures {
			return nil, invalidf("coef row %d has %d entries, want %d", i, len(row), s.NFeatures)
		}
	}
	if len(s.Intercept) != rows {
		return nil, invalidf("intercept has %d entries, want %d", len(s.Intercept), rows)
	}
	switch s.MultiClass {
	case "", "multinomial", "auto", "ovr":
	default:
		return nil, invalidf("unsupported multi_class %q", s.MultiClass)
	}
	return &logistic{
		classes:   s.Classes,
		nFeatures: s.NFeatures,
		coef:      s.Coef,
		intercept: s.Intercept,
		ovr:       s.MultiClass == "ovr",
	}, nil
}

func (l *logistic) Classes() []int   { return l.classes }
func (l *logistic) NumFeatures() int { return l.nFeatures }

func (l *logistic) decision(x []float64) []float64 {
	out := make([]float64, len(l.coef))
	for k, row := range l.coef {
		z := l.intercept[k]
		for i, w := range row {
			z += w * x[i]
		}
		out[k] = z
	}
	return out
}

func (l *logistic) PredictProba(x []float64) []float64 {
	d := l.decision(x)
	if len(d) == 1 {
		p := sigmoid(d[0])
		return []float64{1 - p, p}
	}
	if l.ovr {
		out := make([]float64, len(d))
		for i, z := range d {
			out[i] = sigmoid(z)
		}
		return normalize(out)
	}
	return softmax(d)
}

func sigmoid(z float64) float64 {
	return 1 / (1 + math.Exp(-z))
}

func softmax(z []float64) []float64 {
	maxZ := z[0]
	for _, v := range z[1:] {
		if v > maxZ {
			maxZ = v
		}
	}
	out := make([]float64, len(z))
	var sum float64
	for i, v := range z {
		out[i] = math.Exp(v - maxZ)
		sum += out[i]
	}
	for i := range out {
		out[i] /= sum
	}
	return out
}
