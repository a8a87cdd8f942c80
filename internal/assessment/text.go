// SPDX-License-Identifier: MIT

package assessment

// Suggestion is the static advice returned with every assessment.
const Suggestion = "To improve digital wellbeing, establish screen-free times, use apps to monitor usage, take regular breaks, and engage in offline activities."

var explanations = map[int]string{
	0: "Excellent digital well-being. No signs of internet overuse.",
	1: "Minor internet dependency. Mostly healthy usage.",
	2: "Slight concerns over internet use. Some areas need improvement.",
	3: "Moderate internet dependency. Certain areas of life could be impacted.",
	4: "High internet dependency. Likely affecting daily activities.",
	5: "Severe internet dependency. Strongly affecting daily life and well-being.",
}

var statuses = map[int]string{
	0: "Low Risk",
	1: "Low Risk",
	2: "Low to Moderate Risk",
	3: "Moderate Risk",
	4: "High Risk",
	5: "Severe Risk",
}

// Explanation describes a dependency score.
func Explanation(score int) string {
	if s, ok := explanations[score]; ok {
		return s
	}
	return "Unknown dependency level."
}

// Status maps a dependency score to its risk label.
func Status(score int) string {
	if s, ok := statuses[score]; ok {
		return s
	}
	return "Unknown Risk Level"
}
