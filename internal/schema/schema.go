// Package schema is the single gate through which raw exam JSON becomes a
// usable model.Exam. Every exam-producing path (files on disk, AI
// generation) must pass through Validate; nothing else constructs an Exam.
package schema

import (
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/javimcasas/smartquiz/internal/model"
)

// ValidationError reports the first offending field and the rule it
// violated. A ValidationError never comes with a partial Exam.
type ValidationError struct {
	Field string
	Rule  string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("exam validation: %s: %s", e.Field, e.Rule)
}

var optionDef = map[string]any{
	"type": "object",
	"properties": map[string]any{
		"value":       map[string]any{"type": "string", "minLength": 1},
		"text":        map[string]any{"type": "string"},
		"description": map[string]any{"type": "string"},
	},
	"required": []any{"value", "text"},
}

var questionDef = map[string]any{
	"type": "object",
	"properties": map[string]any{
		"number": map[string]any{"type": "integer"},
		"type": map[string]any{
			"enum": []any{"single", "true_false", "multiple", "fill_blank"},
		},
		"question": map[string]any{"type": "string", "minLength": 1},
		"options": map[string]any{
			"type":  "array",
			"items": optionDef,
		},
		"correct": map[string]any{
			"type":     "array",
			"minItems": 1,
			"items":    map[string]any{"type": "string"},
		},
		"points":         map[string]any{"type": "number", "exclusiveMinimum": 0},
		"case_sensitive": map[string]any{"type": "boolean"},
	},
	"required": []any{"number", "type", "question", "correct"},
}

// examDef is the JSON Schema for an exam document. Unknown extra keys are
// tolerated so older exam files with legacy fields still load.
var examDef = map[string]any{
	"type": "object",
	"properties": map[string]any{
		"id":                 map[string]any{"type": "string", "minLength": 1},
		"title":              map[string]any{"type": "string", "minLength": 1},
		"description":        map[string]any{"type": "string"},
		"difficulty":         map[string]any{"enum": []any{"easy", "medium", "hard"}},
		"shuffle_questions":  map[string]any{"type": "boolean"},
		"time_limit_seconds": map[string]any{"type": "integer", "minimum": 1},
		"passing_score":      map[string]any{"type": "number", "minimum": 0, "maximum": 100},
		"questions": map[string]any{
			"type":     "array",
			"minItems": 1,
			"items":    questionDef,
		},
	},
	"required": []any{"id", "title", "difficulty", "questions"},
}

var compileExamSchema = sync.OnceValues(func() (*jsonschema.Schema, error) {
	// The compiler wants a parsed JSON value, so round-trip the definition
	// through encoding/json.
	defBytes, err := json.Marshal(examDef)
	if err != nil {
		return nil, fmt.Errorf("marshal schema definition: %w", err)
	}
	var defParsed any
	if err := json.Unmarshal(defBytes, &defParsed); err != nil {
		return nil, fmt.Errorf("parse schema definition: %w", err)
	}

	c := jsonschema.NewCompiler()
	const schemaURL = "schema://exam.json"
	if err := c.AddResource(schemaURL, defParsed); err != nil {
		return nil, fmt.Errorf("add resource: %w", err)
	}
	return c.Compile(schemaURL)
})

// Validate checks a raw exam JSON document and returns a fully-typed Exam.
// It applies the JSON Schema gate first (presence, typing, enums, numeric
// bounds) and then the structural rules the schema language cannot express
// (unique question numbers, per-type cardinality, correct values drawn
// from options). On any violation it returns a *ValidationError and no
// Exam at all.
func Validate(raw []byte) (*model.Exam, error) {
	var parsed any
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return nil, &ValidationError{Field: "$", Rule: "invalid JSON: " + err.Error()}
	}

	compiled, err := compileExamSchema()
	if err != nil {
		return nil, fmt.Errorf("compile exam schema: %w", err)
	}

	if err := compiled.Validate(parsed); err != nil {
		if ve, ok := err.(*jsonschema.ValidationError); ok {
			return nil, schemaViolation(ve)
		}
		return nil, fmt.Errorf("schema validation: %w", err)
	}

	var exam model.Exam
	if err := json.Unmarshal(raw, &exam); err != nil {
		return nil, &ValidationError{Field: "$", Rule: "decode exam: " + err.Error()}
	}
	applyDefaults(&exam)

	if err := validateStructure(&exam); err != nil {
		return nil, err
	}
	return &exam, nil
}

// schemaViolation converts the first leaf cause of a schema validation
// error into a ValidationError naming the offending field.
func schemaViolation(ve *jsonschema.ValidationError) *ValidationError {
	leaf := ve
	for len(leaf.Causes) > 0 {
		leaf = leaf.Causes[0]
	}
	field := "$"
	if len(leaf.InstanceLocation) > 0 {
		field = strings.Join(leaf.InstanceLocation, "/")
	}
	p := message.NewPrinter(language.English)
	return &ValidationError{Field: field, Rule: leaf.ErrorKind.LocalizedString(p)}
}

// applyDefaults fills in defaults for optional fields.
// An explicit zero or negative points value never reaches here; the
// schema rejects it.
func applyDefaults(exam *model.Exam) {
	for i := range exam.Questions {
		if exam.Questions[i].Points == 0 {
			exam.Questions[i].Points = 1
		}
	}
}

func validateStructure(exam *model.Exam) error {
	seen := make(map[int]bool, len(exam.Questions))
	for i, q := range exam.Questions {
		field := fmt.Sprintf("questions/%d", i)
		if seen[q.Number] {
			return &ValidationError{
				Field: field + "/number",
				Rule:  fmt.Sprintf("duplicate question number %d", q.Number),
			}
		}
		seen[q.Number] = true

		switch q.Type {
		case model.TypeSingle, model.TypeTrueFalse:
			if len(q.Correct) != 1 {
				return &ValidationError{
					Field: field + "/correct",
					Rule:  fmt.Sprintf("type %q requires exactly one correct value, got %d", q.Type, len(q.Correct)),
				}
			}
		case model.TypeMultiple, model.TypeFillBlank:
			// minItems 1 already enforced by the schema gate.
		}

		if q.Type.HasOptions() {
			if len(q.Options) == 0 {
				return &ValidationError{
					Field: field + "/options",
					Rule:  fmt.Sprintf("type %q requires options", q.Type),
				}
			}
			values := make(map[string]bool, len(q.Options))
			for _, o := range q.Options {
				values[o.Value] = true
			}
			for _, c := range q.Correct {
				if !values[c] {
					return &ValidationError{
						Field: field + "/correct",
						Rule:  fmt.Sprintf("correct value %q not found in options", c),
					}
				}
			}
		}
	}
	return nil
}
