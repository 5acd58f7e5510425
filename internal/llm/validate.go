package llm

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

// schemaCache holds compiled schemas by Schema.Name. Level drafts all use
// the same schema, so it compiles once per process.
var schemaCache sync.Map // map[string]*jsonschema.Schema

// checkReply turns a reply into JSON matching schema. Models sometimes wrap
// the document in a markdown fence; that is stripped first.
func checkReply(schema *Schema, text string) (json.RawMessage, error) {
	raw := json.RawMessage(stripFence(text))

	doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(raw))
	if err != nil {
		return raw, fmt.Errorf("reply is not JSON: %w", err)
	}
	compiled, err := compileSchema(schema)
	if err != nil {
		return raw, err
	}
	if err := compiled.Validate(doc); err != nil {
		return raw, fmt.Errorf("reply does not match %s: %w", schema.Name, err)
	}
	return raw, nil
}

func stripFence(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimPrefix(s, "json")
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}

func compileSchema(schema *Schema) (*jsonschema.Schema, error) {
	if cached, ok := schemaCache.Load(schema.Name); ok {
		return cached.(*jsonschema.Schema), nil
	}

	// Go ints and typed slices must become generic JSON values first.
	def, err := json.Marshal(schema.Definition)
	if err != nil {
		return nil, fmt.Errorf("marshal schema %s: %w", schema.Name, err)
	}
	doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(def))
	if err != nil {
		return nil, fmt.Errorf("parse schema %s: %w", schema.Name, err)
	}

	url := "schema://" + schema.Name + ".json"
	c := jsonschema.NewCompiler()
	if err := c.AddResource(url, doc); err != nil {
		return nil, fmt.Errorf("add schema %s: %w", schema.Name, err)
	}
	compiled, err := c.Compile(url)
	if err != nil {
		return nil, fmt.Errorf("compile schema %s: %w", schema.Name, err)
	}
	schemaCache.Store(schema.Name, compiled)
	return compiled, nil
}
