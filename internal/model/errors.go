// SPDX-License-Identifier: MIT

package model

import (
	"errors"
	"fmt"
)

var (
	// ErrModelNotFound is returned when the bundle file does not exist.
	ErrModelNotFound = errors.New("model file not found")

	// ErrInvalidBundle classifies malformed or unsupported bundles.
	ErrInvalidBundle = errors.New("invalid model bundle")

	// ErrMissingValue is returned when a NaN survives preprocessing.
	ErrMissingValue = errors.New("feature vector contains missing values")
)

// DimensionError reports a vector whose length does not match the bundle.
type DimensionError struct {
	Expected int
	Got      int
}

func (e *DimensionError) Error() string {
	return fmt.Sprintf("expected %d features, got %d", e.Expected, e.Got)
}

func invalidf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidBundle, fmt.Sprintf(format, args...))
}
