package services

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"

	"resume-analyzer/internal/apperrors"
	"resume-analyzer/internal/models"
)

// analysisResultSchema is the contract the raw completion must satisfy.
// Validation is strict at this boundary: missing fields, wrong types and
// out-of-range scores are all rejected, never coerced. Display-time defaults
// are a presentation concern handled in the models package.
const analysisResultSchema = `{
	"type": "object",
	"required": [
		"suitability_score",
		"matching_skills",
		"missing_skills",
		"suggested_title",
		"tailored_suggestions"
	],
	"properties": {
		"suitability_score": {"type": "integer", "minimum": 0, "maximum": 100},
		"matching_skills":   {"type": "array", "items": {"type": "string"}},
		"missing_skills":    {"type": "array", "items": {"type": "string"}},
		"suggested_title":   {"type": "string"},
		"tailored_suggestions": {"type": "string"}
	}
}`

// ResponseNormalizer turns a raw completion into a validated AnalysisResult,
// or a classified parse failure.
type ResponseNormalizer interface {
	Normalize(rawCompletion string) (*models.AnalysisResult, error)
}

type responseNormalizer struct {
	schema *gojsonschema.Schema
}

func NewResponseNormalizer() (ResponseNormalizer, error) {
	schema, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(analysisResultSchema))
	if err != nil {
		return nil, fmt.Errorf("failed to compile analysis result schema: %w", err)
	}
	return &responseNormalizer{schema: schema}, nil
}

// Normalize implements ResponseNormalizer.
func (n *responseNormalizer) Normalize(rawCompletion string) (*models.AnalysisResult, error) {
	cleaned := StripCodeFences(rawCompletion)

	if !json.Valid([]byte(cleaned)) {
		return nil, apperrors.NewParseError(apperrors.CodeMalformedJSON,
			fmt.Sprintf("completion is not valid JSON: %s", snippet(cleaned)), nil)
	}

	result, err := n.schema.Validate(gojsonschema.NewStringLoader(cleaned))
	if err != nil {
		return nil, apperrors.NewParseError(apperrors.CodeMalformedJSON,
			fmt.Sprintf("completion could not be validated: %s", snippet(cleaned)), err)
	}

	if !result.Valid() {
		violations := make([]string, len(result.Errors()))
		for i, desc := range result.Errors() {
			violations[i] = desc.String()
		}
		return nil, apperrors.NewParseError(apperrors.CodeSchemaViolation,
			fmt.Sprintf("completion violates result schema: %s", strings.Join(violations, "; ")), nil)
	}

	var analysisResult models.AnalysisResult
	if err := json.Unmarshal([]byte(cleaned), &analysisResult); err != nil {
		return nil, apperrors.NewParseError(apperrors.CodeMalformedJSON,
			fmt.Sprintf("failed to decode completion: %s", snippet(cleaned)), err)
	}

	return &analysisResult, nil
}

// StripCodeFences removes a leading markdown code fence (with optional "json"
// language tag) and a trailing fence from the completion. Completions without
// fences pass through unchanged, so the operation is idempotent.
func StripCodeFences(input string) string {
	clean := strings.TrimSpace(input)

	if strings.HasPrefix(clean, "```json") {
		clean = strings.TrimPrefix(clean, "```json")
	} else if strings.HasPrefix(clean, "```") {
		clean = strings.TrimPrefix(clean, "```")
	}
	clean = strings.TrimLeft(clean, "\r\n")

	clean = strings.TrimSuffix(strings.TrimSpace(clean), "```")

	return strings.TrimSpace(clean)
}

// snippet truncates offending text kept in parse errors for diagnostics.
func snippet(text string) string {
	const maxLen = 200
	if len(text) > maxLen {
		return text[:maxLen] + "..."
	}
	return text
}
