package llm

import (
	"testing"

	"github.com/haasonsaas/agentcore/pkg/models"
)

func TestToolInputSchema(t *testing.T) {
	d := models.ToolDescriptor{
		Name: "read_file",
		Parameters: map[string]models.ParamSchema{
			"path":    {Type: "string", Required: true, Description: "file path"},
			"max_len": {Type: "integer", Required: false},
		},
	}
	schema := toolInputSchema(d)
	if schema["type"] != "object" {
		t.Fatalf("expected object schema, got %v", schema["type"])
	}
	props, ok := schema["properties"].(map[string]any)
	if !ok || len(props) != 2 {
		t.Fatalf("expected 2 properties, got %v", schema["properties"])
	}
	required, ok := schema["required"].([]string)
	if !ok || len(required) != 1 || required[0] != "path" {
		t.Fatalf("expected required=[path], got %v", schema["required"])
	}
}

func TestArgumentsRoundTrip(t *testing.T) {
	input := map[string]any{
		"command": "ls -la",
		"count":   float64(3),
		"flags":   []any{"-a", "-l"},
	}
	strMap := argumentsToStringMap(input)
	if strMap["command"] != "ls -la" {
		t.Fatalf("expected plain string preserved, got %q", strMap["command"])
	}
	if strMap["count"] != "3" {
		t.Fatalf("expected encoded number, got %q", strMap["count"])
	}

	back := argumentsToJSONObject(strMap)
	if back["command"] != "ls -la" {
		t.Fatalf("expected command round-tripped as string, got %v", back["command"])
	}
	if back["count"] != float64(3) {
		t.Fatalf("expected count round-tripped as number, got %v (%T)", back["count"], back["count"])
	}
}

func TestParamJSONType_UnknownFallsBackToString(t *testing.T) {
	if got := paramJSONType("unknown-type"); got != "string" {
		t.Fatalf("expected fallback to string, got %q", got)
	}
}
