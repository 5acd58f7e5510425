package content

import (
	"bytes"
	"embed"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

//go:embed seed/*.json
var seedFS embed.FS

// DefaultCourseID is assigned to stand-alone level files.
const DefaultCourseID = "custom"

// ParseCourse decodes and validates a course document.
func ParseCourse(data []byte) (*Course, error) {
	courseSch, _, err := compiledSchemas()
	if err != nil {
		return nil, fmt.Errorf("compile course schema: %w", err)
	}
	if err := validateDocument(courseSch, data); err != nil {
		return nil, err
	}

	var c Course
	if err := json.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("decode course: %w", err)
	}
	for i := range c.Levels {
		c.Levels[i].CourseID = c.ID
	}
	if err := ValidateCourse(c); err != nil {
		return nil, err
	}
	return &c, nil
}

// ParseLevel decodes and validates a single level document.
func ParseLevel(data []byte) (*Level, error) {
	_, levelSch, err := compiledSchemas()
	if err != nil {
		return nil, fmt.Errorf("compile level schema: %w", err)
	}
	if err := validateDocument(levelSch, data); err != nil {
		return nil, err
	}

	var l Level
	if err := json.Unmarshal(data, &l); err != nil {
		return nil, fmt.Errorf("decode level: %w", err)
	}
	if l.CourseID == "" {
		l.CourseID = DefaultCourseID
	}
	if !isKnownType(l.Type) {
		return nil, fmt.Errorf("%w: level %q has unknown type %q", ErrInvalidContent, l.ID, l.Type)
	}
	if err := ValidateLevel(l); err != nil {
		return nil, err
	}
	return &l, nil
}

// Parse accepts either a course document or a single level document. A
// stand-alone level is wrapped in a one-level course.
func Parse(data []byte) (*Course, error) {
	var shape struct {
		Levels json.RawMessage `json:"levels"`
	}
	if err := json.Unmarshal(data, &shape); err != nil {
		return nil, fmt.Errorf("%w: invalid JSON: %v", ErrInvalidContent, err)
	}
	if shape.Levels != nil {
		return ParseCourse(data)
	}

	l, err := ParseLevel(data)
	if err != nil {
		return nil, err
	}
	return &Course{ID: l.CourseID, Title: l.Title, Levels: []Level{*l}}, nil
}

// LoadFile reads and parses a course or level file.
func LoadFile(path string) (*Course, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read content file: %w", err)
	}
	c, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filepath.Base(path), err)
	}
	return c, nil
}

// LoadDir loads every *.json file in dir, in name order. Stand-alone levels
// are merged into a single course per course id.
func LoadDir(dir string) ([]*Course, error) {
	paths, err := filepath.Glob(filepath.Join(dir, "*.json"))
	if err != nil {
		return nil, fmt.Errorf("list content dir: %w", err)
	}
	sort.Strings(paths)

	var courses []*Course
	byID := make(map[string]*Course)
	for _, p := range paths {
		c, err := LoadFile(p)
		if err != nil {
			return nil, err
		}
		if existing, ok := byID[c.ID]; ok {
			existing.Levels = append(existing.Levels, c.Levels...)
			continue
		}
		byID[c.ID] = c
		courses = append(courses, c)
	}
	return courses, nil
}

// Seed returns the built-in courses. It panics if the embedded content is
// malformed, which is caught by the package tests.
func Seed() []*Course {
	entries, err := seedFS.ReadDir("seed")
	if err != nil {
		panic(fmt.Sprintf("content: read seed dir: %v", err))
	}
	var courses []*Course
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".json") {
			continue
		}
		data, err := seedFS.ReadFile("seed/" + e.Name())
		if err != nil {
			panic(fmt.Sprintf("content: read seed %s: %v", e.Name(), err))
		}
		c, err := ParseCourse(data)
		if err != nil {
			panic(fmt.Sprintf("content: seed %s: %v", e.Name(), err))
		}
		courses = append(courses, c)
	}
	return courses
}

func validateDocument(sch *jsonschema.Schema, data []byte) error {
	doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("%w: invalid JSON: %v", ErrInvalidContent, err)
	}
	if err := sch.Validate(doc); err != nil {
		return fmt.Errorf("%w: schema validation failed: %v", ErrInvalidContent, err)
	}
	return nil
}
