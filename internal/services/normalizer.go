package services

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"

	"alfredoptarigan/interview-coach/internal/logger"
)

// Normalize strips an optional code fence and decodes raw model output.
// It returns false, and no value, when the text is not a JSON object or array.
func Normalize(raw string) (any, bool) {
	cleaned, ok := cleanJSON(raw)
	if !ok {
		return nil, false
	}

	// numbers stay json.Number so large integers survive unchanged
	dec := json.NewDecoder(bytes.NewReader(cleaned))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, false
	}
	switch v.(type) {
	case map[string]any, []any:
		return v, true
	default:
		return nil, false
	}
}

// Decode validates raw model output against schema and only then unmarshals it into target.
// target is left untouched on failure.
func Decode(raw string, schema *Schema, target any) bool {
	cleaned, ok := cleanJSON(raw)
	if !ok {
		return false
	}

	if schema != nil {
		if err := schema.Validate(cleaned); err != nil {
			logger.Debug().Err(err).Str("schema", schema.name).Msg("model output rejected")
			return false
		}
	}

	if err := json.Unmarshal(cleaned, target); err != nil {
		logger.Debug().Err(err).Msg("model output could not be decoded")
		return false
	}
	return true
}

// cleanJSON drops a leading ```lang line and a trailing ``` line, then checks the JSON is well formed.
func cleanJSON(raw string) ([]byte, bool) {
	text := strings.TrimSpace(raw)
	if text == "" {
		return nil, false
	}

	if strings.HasPrefix(text, "```") {
		lines := strings.Split(text, "\n")
		lines = lines[1:]
		if n := len(lines); n > 0 && strings.HasPrefix(strings.TrimSpace(lines[n-1]), "```") {
			lines = lines[:n-1]
		}
		text = strings.TrimSpace(strings.Join(lines, "\n"))
	} else if strings.HasSuffix(text, "```") {
		text = strings.TrimSpace(strings.TrimSuffix(text, "```"))
	}

	b := []byte(text)
	if !json.Valid(b) {
		return nil, false
	}
	return b, true
}

// Schema is a compiled JSON schema for one kind of model answer.
type Schema struct {
	name   string
	schema *gojsonschema.Schema
}

func mustSchema(name, source string) *Schema {
	s, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(source))
	if err != nil {
		panic(fmt.Sprintf("invalid %s schema: %v", name, err))
	}
	return &Schema{name: name, schema: s}
}

func (s *Schema) Validate(doc []byte) error {
	result, err := s.schema.Validate(gojsonschema.NewBytesLoader(doc))
	if err != nil {
		return fmt.Errorf("failed to validate %s: %w", s.name, err)
	}
	if !result.Valid() {
		msgs := make([]string, 0, len(result.Errors()))
		for _, e := range result.Errors() {
			msgs = append(msgs, e.String())
		}
		return fmt.Errorf("%s does not match schema: %s", s.name, strings.Join(msgs, "; "))
	}
	return nil
}

const stringList = `{"type": "array", "items": {"type": "string"}}`

var (
	questionsSchema = mustSchema("questions", `{
		"type": "array",
		"minItems": 5,
		"maxItems": 5,
		"items": {"type": "string", "minLength": 1}
	}`)

	evaluationSchema = mustSchema("evaluation", `{
		"type": "object",
		"required": ["score", "feedback", "ideal_answer"],
		"properties": {
			"score": {"type": "number"},
			"feedback": {"type": "string"},
			"ideal_answer": {"type": "string"}
		}
	}`)

	partialAnalysisSchema = mustSchema("partial_analysis", `{
		"type": "object",
		"required": ["strengths", "weaknesses", "skills_detected"],
		"properties": {
			"strengths": `+stringList+`,
			"weaknesses": `+stringList+`,
			"skills_detected": `+stringList+`
		}
	}`)

	resumeAnalysisSchema = mustSchema("resume_analysis", `{
		"type": "object",
		"required": ["ats_score", "summary"],
		"properties": {
			"ats_score": {"type": "number"},
			"summary": {"type": "string"},
			"strengths": `+stringList+`,
			"weaknesses": `+stringList+`,
			"missing_skills": `+stringList+`,
			"suggested_roles": `+stringList+`
		}
	}`)

	skillAnalysisSchema = mustSchema("skill_analysis", `{
		"type": "object",
		"required": ["strengths", "improvements", "recommendations"],
		"properties": {
			"strengths": `+stringList+`,
			"improvements": `+stringList+`,
			"recommendations": `+stringList+`
		}
	}`)

	interviewAnalysisSchema = mustSchema("interview_analysis", `{
		"type": "object",
		"required": ["overall_score", "detailed_feedback", "verdict"],
		"properties": {
			"overall_score": {"type": "number"},
			"communication_score": {"type": "number"},
			"technical_score": {"type": "number"},
			"confidence_score": {"type": "number"},
			"body_language_score": {"type": "number"},
			"strengths": `+stringList+`,
			"areas_for_improvement": `+stringList+`,
			"detailed_feedback": {"type": "string"},
			"recommendations": `+stringList+`,
			"verdict": {"type": "string"}
		}
	}`)

	codingProblemSchema = mustSchema("coding_problem", `{
		"type": "object",
		"required": ["title", "description", "starter_code"],
		"properties": {
			"title": {"type": "string", "minLength": 1},
			"description": {"type": "string", "minLength": 1},
			"starter_code": {"type": "string"},
			"constraints": `+stringList+`,
			"examples": {
				"type": "array",
				"items": {
					"type": "object",
					"properties": {
						"input": {"type": "string"},
						"output": {"type": "string"},
						"explanation": {"type": "string"}
					}
				}
			}
		}
	}`)

	codeReviewSchema = mustSchema("code_review", `{
		"type": "object",
		"required": ["is_correct", "feedback"],
		"properties": {
			"is_correct": {"type": "boolean"},
			"feedback": {"type": "string"},
			"bugs": `+stringList+`,
			"optimization_tips": `+stringList+`
		}
	}`)
)
