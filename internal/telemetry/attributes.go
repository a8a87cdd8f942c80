// SPDX-License-Identifier: MIT

package telemetry

import (
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Common attribute keys for consistent tracing across the application.
const (
	// HTTP attributes
	HTTPMethodKey     = "http.method"
	HTTPStatusCodeKey = "http.status_code"
	HTTPRouteKey      = "http.route"
	HTTPURLKey        = "http.url"

	// Assessment attributes
	ModelNameKey       = "model.name"
	ModelClassifierKey = "model.classifier"
	AssessmentScoreKey = "assessment.score"

	// Insights attributes
	GenAIModelKey      = "genai.model"
	GenAIPromptLenKey  = "genai.prompt_length"
	GenAICacheHitKey   = "genai.cache_hit"
	GenAIFallbackKey   = "genai.fallback_reason"
	GenAISharedCallKey = "genai.shared"

	// Error attributes
	ErrorKey     = "error"
	ErrorTypeKey = "error.type"
)

// HTTPAttributes creates common HTTP span attributes.
func HTTPAttributes(method, route, url string, statusCode int) []attribute.KeyValue {
	return []attribute.KeyValue{
		attribute.String(HTTPMethodKey, method),
		attribute.String(HTTPRouteKey, route),
		attribute.String(HTTPURLKey, url),
		attribute.Int(HTTPStatusCodeKey, statusCode),
	}
}

// ModelAttributes describes the bundle used for a prediction.
func ModelAttributes(name, classifier string) []attribute.KeyValue {
	attrs := make([]attribute.KeyValue, 0, 2)
	if name != "" {
		attrs = append(attrs, attribute.String(ModelNameKey, name))
	}
	if classifier != "" {
		attrs = append(attrs, attribute.String(ModelClassifierKey, classifier))
	}
	return attrs
}

// RecordError marks span as failed with err. A nil err is ignored.
func RecordError(span trace.Span, err error) {
	if err == nil {
		return
	}
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	span.SetAttributes(attribute.Bool(ErrorKey, true))
}
