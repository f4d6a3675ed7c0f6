package llm

import (
	"encoding/json"

	"github.com/haasonsaas/agentcore/pkg/models"
)

// toolInputSchema renders a ToolDescriptor's parameter map as a JSON
// Schema object, the shape every provider SDK expects for tool/function
// definitions.
func toolInputSchema(d models.ToolDescriptor) map[string]any {
	properties := make(map[string]any, len(d.Parameters))
	var required []string
	for name, p := range d.Parameters {
		prop := map[string]any{"type": paramJSONType(p.Type)}
		if p.Description != "" {
			prop["description"] = p.Description
		}
		if len(p.Enum) > 0 {
			prop["enum"] = p.Enum
		}
		properties[name] = prop
		if p.Required {
			required = append(required, name)
		}
	}
	schema := map[string]any{
		"type":       "object",
		"properties": properties,
	}
	if len(required) > 0 {
		schema["required"] = required
	}
	return schema
}

func paramJSONType(t string) string {
	switch t {
	case "string", "number", "integer", "boolean", "array", "object":
		return t
	default:
		return "string"
	}
}

// argumentsToStringMap converts a provider's decoded tool-call input
// (arbitrary JSON) into the string-keyed map the core's ToolCall carries
// (§3 "richer values are JSON-encoded strings").
func argumentsToStringMap(input map[string]any) map[string]string {
	out := make(map[string]string, len(input))
	for k, v := range input {
		if s, ok := v.(string); ok {
			out[k] = s
			continue
		}
		encoded, err := json.Marshal(v)
		if err != nil {
			continue
		}
		out[k] = string(encoded)
	}
	return out
}

// argumentsToJSONObject reverses argumentsToStringMap for messages being
// replayed back to a provider: each value is re-parsed as JSON if it looks
// like a JSON scalar/object/array, otherwise kept as a string.
func argumentsToJSONObject(args map[string]string) map[string]any {
	out := make(map[string]any, len(args))
	for k, v := range args {
		var decoded any
		if err := json.Unmarshal([]byte(v), &decoded); err == nil {
			out[k] = decoded
		} else {
			out[k] = v
		}
	}
	return out
}
