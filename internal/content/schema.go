package content

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

// LevelDefinition returns the JSON Schema for a single level document.
// The returned map is freshly built on every call and safe to modify.
func LevelDefinition() map[string]any {
	option := map[string]any{
		"type": "object",
		"properties": map[string]any{
			"text":      map[string]any{"type": "string", "minLength": 1, "description": "Answer text shown to the learner"},
			"correct":   map[string]any{"type": "boolean", "description": "True for the single correct option"},
			"points":    map[string]any{"type": "integer", "minimum": 0, "description": "Base points awarded when chosen"},
			"feedback":  map[string]any{"type": "string", "description": "Optional message shown when this option is chosen"},
			"principle": map[string]any{"type": "string", "description": "Communication principle the option illustrates"},
		},
		"required": []any{"text", "correct", "points"},
	}

	item := map[string]any{
		"type": "object",
		"properties": map[string]any{
			"id":        map[string]any{"type": "string", "minLength": 1},
			"prompt":    map[string]any{"type": "string", "minLength": 1, "description": "The question or scenario"},
			"options":   map[string]any{"type": "array", "minItems": 2, "items": option},
			"hint":      map[string]any{"type": "string"},
			"narrative": map[string]any{"type": "string"},
			"feedback": map[string]any{
				"type": "object",
				"properties": map[string]any{
					"correct":   map[string]any{"type": "string"},
					"incorrect": map[string]any{"type": "string"},
				},
			},
		},
		"required": []any{"id", "prompt", "options"},
	}

	types := make([]any, 0, len(AllLevelTypes()))
	for _, t := range AllLevelTypes() {
		types = append(types, string(t))
	}

	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"id":                  map[string]any{"type": "string", "minLength": 1},
			"course_id":           map[string]any{"type": "string"},
			"title":               map[string]any{"type": "string", "minLength": 1},
			"type":                map[string]any{"type": "string", "enum": types},
			"has_continuity":      map[string]any{"type": "boolean"},
			"duration_minutes":    map[string]any{"type": "integer", "minimum": 0},
			"xp_reward":           map[string]any{"type": "integer", "minimum": 0},
			"coin_reward":         map[string]any{"type": "integer", "minimum": 0},
			"background":          map[string]any{"type": "string"},
			"story":               map[string]any{"type": "string"},
			"unlocked_by_default": map[string]any{"type": "boolean"},
			"items":               map[string]any{"type": "array", "minItems": 1, "items": item},
		},
		"required": []any{"id", "title", "type", "items"},
	}
}

// CourseDefinition returns the JSON Schema for a course file.
func CourseDefinition() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"id":          map[string]any{"type": "string", "minLength": 1},
			"title":       map[string]any{"type": "string", "minLength": 1},
			"description": map[string]any{"type": "string"},
			"icon":        map[string]any{"type": "string"},
			"levels":      map[string]any{"type": "array", "minItems": 1, "items": LevelDefinition()},
		},
		"required": []any{"id", "title", "levels"},
	}
}

var (
	compileOnce  sync.Once
	courseSchema *jsonschema.Schema
	levelSchema  *jsonschema.Schema
	compileErr   error
)

func compiledSchemas() (course, level *jsonschema.Schema, err error) {
	compileOnce.Do(func() {
		courseSchema, compileErr = compile("course", CourseDefinition())
		if compileErr != nil {
			return
		}
		levelSchema, compileErr = compile("level", LevelDefinition())
	})
	return courseSchema, levelSchema, compileErr
}

func compile(name string, def map[string]any) (*jsonschema.Schema, error) {
	// The compiler wants a decoded JSON value, not Go-typed maps with ints.
	raw, err := json.Marshal(def)
	if err != nil {
		return nil, fmt.Errorf("marshal %s schema: %w", name, err)
	}
	doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("parse %s schema: %w", name, err)
	}

	c := jsonschema.NewCompiler()
	url := fmt.Sprintf("schema://%s.json", name)
	if err := c.AddResource(url, doc); err != nil {
		return nil, fmt.Errorf("add %s schema: %w", name, err)
	}
	return c.Compile(url)
}
