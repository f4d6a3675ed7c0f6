package tools

import (
	"bufio"
	"context"
	"encoding/base64"
	"encoding/json"
	"os"
	"strconv"
	"strings"

	"github.com/haasonsaas/agentcore/pkg/models"
)

// SearchInFileTool implements search_in_file: grep-like substring search
// returning matching lines prefixed with their line number.
type SearchInFileTool struct{}

func NewSearchInFileTool() *SearchInFileTool { return &SearchInFileTool{} }

func (t *SearchInFileTool) Descriptor() models.ToolDescriptor {
	return descriptor("search_in_file", "Finds lines in a file containing a substring.", "text", models.RiskLow,
		map[string]models.ParamSchema{
			"path":  param("string", "File to search", true),
			"query": param("string", "Substring to search for", true),
		})
}

func (t *SearchInFileTool) Execute(ctx context.Context, args map[string]string) (string, error) {
	path, query := arg(args, "path"), arg(args, "query")
	if path == "" || query == "" {
		return "", errorf("path and query are required")
	}
	f, err := os.Open(path)
	if err != nil {
		return "", errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	var sb strings.Builder
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 10<<20)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := scanner.Text()
		if strings.Contains(line, query) {
			sb.WriteString(strconv.Itoa(lineNo))
			sb.WriteString(": ")
			sb.WriteString(line)
			sb.WriteString("\n")
		}
	}
	return sb.String(), scanner.Err()
}

// ReplaceInFileTool implements replace_in_file: a literal find/replace
// across the whole file content.
type ReplaceInFileTool struct{}

func NewReplaceInFileTool() *ReplaceInFileTool { return &ReplaceInFileTool{} }

func (t *ReplaceInFileTool) Descriptor() models.ToolDescriptor {
	return descriptor("replace_in_file", "Replaces all occurrences of a string in a file.", "text", models.RiskMedium,
		map[string]models.ParamSchema{
			"path":        param("string", "File to modify", true),
			"find":        param("string", "Text to find", true),
			"replacement": param("string", "Replacement text", true),
		})
}

func (t *ReplaceInFileTool) Execute(ctx context.Context, args map[string]string) (string, error) {
	path, find := arg(args, "path"), arg(args, "find")
	if path == "" || find == "" {
		return "", errorf("path and find are required")
	}
	replacement := arg(args, "replacement")

	data, err := os.ReadFile(path)
	if err != nil {
		return "", errorf("reading %s: %w", path, err)
	}
	updated := strings.ReplaceAll(string(data), find, replacement)
	count := strings.Count(string(data), find)
	if err := os.WriteFile(path, []byte(updated), 0o644); err != nil {
		return "", errorf("writing %s: %w", path, err)
	}
	return strconv.Itoa(count) + " replacement(s) made in " + path, nil
}

// CalculateTool implements calculate: a small arithmetic expression
// evaluator supporting +, -, *, / over floating point operands.
type CalculateTool struct{}

func NewCalculateTool() *CalculateTool { return &CalculateTool{} }

func (t *CalculateTool) Descriptor() models.ToolDescriptor {
	return descriptor("calculate", "Evaluates a simple arithmetic expression.", "text", models.RiskLow,
		map[string]models.ParamSchema{"expression": param("string", "Expression such as '2 + 2 * 3'", true)})
}

func (t *CalculateTool) Execute(ctx context.Context, args map[string]string) (string, error) {
	expr := arg(args, "expression")
	if expr == "" {
		return "", errorf("expression is required")
	}
	result, err := evalArithmetic(expr)
	if err != nil {
		return "", errorf("evaluating %q: %w", expr, err)
	}
	return strconv.FormatFloat(result, 'g', -1, 64), nil
}

// ParseJSONTool implements parse_json: validates and pretty-prints JSON.
type ParseJSONTool struct{}

func NewParseJSONTool() *ParseJSONTool { return &ParseJSONTool{} }

func (t *ParseJSONTool) Descriptor() models.ToolDescriptor {
	return descriptor("parse_json", "Parses a JSON string and returns it pretty-printed.", "text", models.RiskLow,
		map[string]models.ParamSchema{"json": param("string", "Raw JSON text", true)})
}

func (t *ParseJSONTool) Execute(ctx context.Context, args map[string]string) (string, error) {
	raw := arg(args, "json")
	var v any
	if err := json.Unmarshal([]byte(raw), &v); err != nil {
		return "", errorf("invalid JSON: %w", err)
	}
	pretty, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return "", errorf("re-encoding JSON: %w", err)
	}
	return string(pretty), nil
}

// EncodeBase64Tool implements encode_base64.
type EncodeBase64Tool struct{}

func NewEncodeBase64Tool() *EncodeBase64Tool { return &EncodeBase64Tool{} }

func (t *EncodeBase64Tool) Descriptor() models.ToolDescriptor {
	return descriptor("encode_base64", "Base64-encodes a string.", "text", models.RiskLow,
		map[string]models.ParamSchema{"text": param("string", "Text to encode", true)})
}

func (t *EncodeBase64Tool) Execute(ctx context.Context, args map[string]string) (string, error) {
	return base64.StdEncoding.EncodeToString([]byte(arg(args, "text"))), nil
}

// DecodeBase64Tool implements decode_base64.
type DecodeBase64Tool struct{}

func NewDecodeBase64Tool() *DecodeBase64Tool { return &DecodeBase64Tool{} }

func (t *DecodeBase64Tool) Descriptor() models.ToolDescriptor {
	return descriptor("decode_base64", "Decodes a base64 string.", "text", models.RiskLow,
		map[string]models.ParamSchema{"text": param("string", "Base64 text to decode", true)})
}

func (t *DecodeBase64Tool) Execute(ctx context.Context, args map[string]string) (string, error) {
	decoded, err := base64.StdEncoding.DecodeString(arg(args, "text"))
	if err != nil {
		return "", errorf("invalid base64: %w", err)
	}
	return string(decoded), nil
}
