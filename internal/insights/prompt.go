// SPDX-License-Identifier: MIT

package insights

import (
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/ManuGH/wellcheck/internal/assessment"
)

// FormatAnswers renders questionnaire answers one per line as
// "Q<id>: <value>", where <id> is the key without its "PCIAT_" prefix.
// Lines are sorted by key.
func FormatAnswers(answers map[string]any) string {
	keys := make([]string, 0, len(answers))
	for k := range answers {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	lines := make([]string, 0, len(keys))
	for _, k := range keys {
		lines = append(lines, fmt.Sprintf("Q%s: %s", strings.ReplaceAll(k, "PCIAT_", ""), formatValue(answers[k])))
	}
	return strings.Join(lines, "\n")
}

func formatValue(v any) string {
	switch t := v.(type) {
	case nil:
		return "None"
	case string:
		return t
	case bool:
		if t {
			return "True"
		}
		return "False"
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case json.Number:
		return t.String()
	default:
		data, err := json.Marshal(t)
		if err != nil {
			return fmt.Sprint(t)
		}
		return string(data)
	}
}

// BuildPrompt assembles the generation prompt for a dependency score and the
// formatted answers.
func BuildPrompt(score int, formattedAnswers string) string {
	return fmt.Sprintf(`User answered the following questions about their internet usage:
%s

Their predicted internet dependency level is: %d (%s).
Provide specific feedback tailored to these responses.
Suggest ways to manage and improve their digital habits.
`, formattedAnswers, score, assessment.Explanation(score))
}
