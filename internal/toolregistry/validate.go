package toolregistry

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/haasonsaas/agentcore/pkg/models"
)

// schemaCache compiles and caches one JSON schema per tool descriptor, the
// way internal/config/schema.go compiles its configuration schema once and
// reuses it for every Validate call. Tool descriptors are registered once
// at startup and never mutated, so a cache keyed by name never goes stale.
type schemaCache struct {
	mu      sync.Mutex
	schemas map[string]*jsonschema.Schema
}

func newSchemaCache() *schemaCache {
	return &schemaCache{schemas: make(map[string]*jsonschema.Schema)}
}

// compiledSchema returns the compiled parameter schema for desc, compiling
// and caching it on first use.
func (c *schemaCache) compiledSchema(desc models.ToolDescriptor) (*jsonschema.Schema, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if s, ok := c.schemas[desc.Name]; ok {
		return s, nil
	}
	s, err := compileParamSchema(desc)
	if err != nil {
		return nil, err
	}
	c.schemas[desc.Name] = s
	return s, nil
}

// compileParamSchema converts a ToolDescriptor's ParamSchema map into a
// JSON Schema document and compiles it. Every argument value arrives as a
// string per the LLM client contract (pkg/models.ToolCall), so every
// property is declared "type": "string"; an enum constrains it further
// when the descriptor declares one.
func compileParamSchema(desc models.ToolDescriptor) (*jsonschema.Schema, error) {
	properties := make(map[string]any, len(desc.Parameters))
	var required []string
	for name, p := range desc.Parameters {
		prop := map[string]any{"type": "string"}
		if p.Description != "" {
			prop["description"] = p.Description
		}
		if len(p.Enum) > 0 {
			enum := make([]any, len(p.Enum))
			for i, v := range p.Enum {
				enum[i] = v
			}
			prop["enum"] = enum
		}
		properties[name] = prop
		if p.Required {
			required = append(required, name)
		}
	}
	doc := map[string]any{
		"$schema":              "http://json-schema.org/draft-07/schema#",
		"type":                 "object",
		"properties":           properties,
		"required":             required,
		"additionalProperties": true,
	}
	raw, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("encode schema for tool %s: %w", desc.Name, err)
	}
	schema, err := jsonschema.CompileString(desc.Name+".schema.json", string(raw))
	if err != nil {
		return nil, fmt.Errorf("compile schema for tool %s: %w", desc.Name, err)
	}
	return schema, nil
}

// validateArguments checks call.Arguments against desc's compiled
// parameter schema, returning a validation ToolError on mismatch (missing
// required argument, value not in an enumerated set).
func (c *schemaCache) validateArguments(desc models.ToolDescriptor, args map[string]string) error {
	schema, err := c.compiledSchema(desc)
	if err != nil {
		return err
	}
	payload := make(map[string]any, len(args))
	for k, v := range args {
		payload[k] = v
	}
	if err := schema.Validate(payload); err != nil {
		return NewToolError(desc.Name, ErrKindValidation, err)
	}
	return nil
}
