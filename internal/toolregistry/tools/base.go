// Package tools implements the built-in tool catalog: every handler named
// in the Tool Registry's built-in table, grouped by category.
package tools

import (
	"fmt"
	"strings"

	execsafety "github.com/haasonsaas/agentcore/internal/exec"
	"github.com/haasonsaas/agentcore/pkg/models"
)

// descriptor is a small builder to keep each tool's registration compact.
func descriptor(name, desc, category string, risk models.RiskLevel, params map[string]models.ParamSchema) models.ToolDescriptor {
	return models.ToolDescriptor{
		Name:          name,
		Description:   desc,
		Category:      category,
		IntrinsicRisk: risk,
		Parameters:    params,
	}
}

func param(typ, desc string, required bool) models.ParamSchema {
	return models.ParamSchema{Type: typ, Description: desc, Required: required}
}

// errorf formats a handler failure. Handlers return this as the error
// value; the registry's Dispatch wraps it into a ToolError, and the loop
// surfaces it to the model prefixed with "Error: ", per the tool contract.
func errorf(format string, args ...any) error {
	return fmt.Errorf(format, args...)
}

func arg(args map[string]string, name string) string {
	return args[name]
}

func argOr(args map[string]string, name, def string) string {
	if v, ok := args[name]; ok && v != "" {
		return v
	}
	return def
}

// requirePath fetches a required filesystem-path argument and rejects null
// bytes and control characters, grounded in the teacher's exec argument
// safety checks (internal/exec). Shell metacharacter rejection is skipped
// here (unlike internal/exec.SanitizeArgument) because paths are handed to
// os/* calls directly, never to a shell.
func requirePath(args map[string]string, name string) (string, error) {
	v := arg(args, name)
	if v == "" {
		return "", errorf("%s is required", name)
	}
	if strings.Contains(v, "\x00") {
		return "", errorf("%s: %w", name, execsafety.ErrArgumentNullByte)
	}
	if execsafety.ControlChars.MatchString(v) {
		return "", errorf("%s: %w", name, execsafety.ErrArgumentControlChar)
	}
	return v, nil
}
