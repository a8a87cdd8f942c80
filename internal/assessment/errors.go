// SPDX-License-Identifier: MIT

package assessment

import (
	"errors"
	"fmt"
)

// ErrModelNotLoaded is returned while no model bundle is available.
var ErrModelNotLoaded = errors.New("model not loaded")

// FeatureCountError reports a feature vector of the wrong length.
type FeatureCountError struct {
	Got int
}

func (e *FeatureCountError) Error() string {
	return fmt.Sprintf("expected %d features, got %d", ExpectedFeatureCount, e.Got)
}

// FeatureValueError reports a feature that is neither a number nor null.
type FeatureValueError struct {
	Index int
	Value any
}

func (e *FeatureValueError) Error() string {
	return fmt.Sprintf("feature %d is not numeric: %v", e.Index, e.Value)
}
