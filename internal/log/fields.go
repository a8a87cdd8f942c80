// SPDX-License-Identifier: MIT

package log

// Canonical field name constants for structured logging.
const (
	// Identity fields
	FieldRequestID     = "request_id"
	FieldCorrelationID = "correlation_id"
	FieldAssessmentID  = "assessment_id"

	// Process fields
	FieldEvent     = "event"
	FieldComponent = "component"

	// Model fields
	FieldModelName    = "model_name"
	FieldModelPath    = "model_path"
	FieldClassifier   = "classifier"
	FieldFeatureCount = "feature_count"
	FieldScore        = "health_score"

	// Insights fields
	FieldGenModel  = "gen_model"
	FieldCacheHit  = "cache_hit"
	FieldPromptLen = "prompt_len"

	// HTTP fields
	FieldMethod     = "method"
	FieldPath       = "path"
	FieldStatus     = "status"
	FieldRemoteAddr = "remote_addr"
	FieldDuration   = "duration"
)
