// SPDX-License-Identifier: MIT

package assessment

import (
	"encoding/json"
	"strconv"
	"strings"
)

// ParseFeatures converts decoded JSON values into a feature vector.
// Numbers, numeric strings and booleans are accepted; null stays nil and is
// imputed later.
func ParseFeatures(values []any) ([]*float64, error) {
	out := make([]*float64, len(values))
	for i, v := range values {
		f, ok, err := toFloat(v)
		if err != nil {
			return nil, &FeatureValueError{Index: i, Value: v}
		}
		if ok {
			out[i] = &f
		}
	}
	return out, nil
}

func toFloat(v any) (float64, bool, error) {
	switch t := v.(type) {
	case nil:
		return 0, false, nil
	case float64:
		return t, true, nil
	case json.Number:
		f, err := t.Float64()
		return f, err == nil, err
	case int:
		return float64(t), true, nil
	case bool:
		if t {
			return 1, true, nil
		}
		return 0, true, nil
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(t), 64)
		return f, err == nil, err
	default:
		return 0, false, strconv.ErrSyntax
	}
}
