// SPDX-License-Identifier: MIT

package model

import "math"

// Imputer replaces missing values (NaN) column by column.
type Imputer struct {
	Strategy   string    `json:"strategy"` // mean, median, most_frequent, constant
	Statistics []float64 `json:"statistics,omitempty"`
	FillValue  *float64  `json:"fill_value,omitempty"`
}

func (im *Imputer) validate(n int) error {
	switch im.Strategy {
	case "mean", "median", "most_frequent":
		if len(im.Statistics) != n {
			return invalidf("imputer statistics has %d entries, want %d", len(im.Statistics), n)
		}
	case "constant":
		if len(im.Statistics) != n && im.FillValue == nil {
			return invalidf("constant imputer needs statistics or fill_value")
		}
	default:
		return invalidf("unsupported imputer strategy %q", im.Strategy)
	}
	return nil
}

func (im *Imputer) transform(x []float64) {
	for i, v := range x {
		if !math.IsNaN(v) {
			continue
		}
		switch {
		case len(im.Statistics) == len(x):
			x[i] = im.Statistics[i]
		case im.FillValue != nil:
			x[i] = *im.FillValue
		}
	}
}

// Scaler kinds.
const (
	ScalerStandard = "standard"
	ScalerMinMax   = "minmax"
)

// Scaler is a fitted StandardScaler or MinMaxScaler.
type Scaler struct {
	Kind  string    `json:"kind"`
	Mean  []float64 `json:"mean,omitempty"`
	Scale []float64 `json:"scale,omitempty"`
	Min   []float64 `json:"min,omitempty"`
}

func (s *Scaler) validate(n int) error {
	check := func(name string, v []float64, required bool) error {
		if v == nil && !required {
			return nil
		}
		if len(v) != n {
			return invalidf("scaler %s has %d entries, want %d", name, len(v), n)
		}
		return nil
	}
	switch s.Kind {
	case ScalerStandard:
		if err := check("mean", s.Mean, false); err != nil {
			return err
		}
		return check("scale", s.Scale, false)
	case ScalerMinMax:
		if err := check("min", s.Min, true); err != nil {
			return err
		}
		return check("scale", s.Scale, true)
	default:
		return invalidf("unsupported scaler kind %q", s.Kind)
	}
}

func (s *Scaler) transform(x []float64) {
	switch s.Kind {
	case ScalerStandard:
		for i := range x {
			if s.Mean != nil {
				x[i] -= s.Mean[i]
			}
			if s.Scale != nil && s.Scale[i] != 0 {
				x[i] /= s.Scale[i]
			}
		}
	case ScalerMinMax:
		for i := range x {
			x[i] = x[i]*s.Scale[i] + s.Min[i]
		}
	}
}
