package tools

import (
	"bytes"
	"context"
	"os/exec"
	"strings"

	"github.com/haasonsaas/agentcore/pkg/models"
)

// ExecuteCommandTool implements execute_command: runs a shell command via
// the platform shell and captures combined stdout/stderr. The wall-clock
// ceiling is enforced by the registry's Dispatch, not here — the handler
// simply honors ctx cancellation.
type ExecuteCommandTool struct {
	// Shell and ShellFlag select the interpreter, e.g. "/bin/sh", "-c".
	Shell     string
	ShellFlag string
	// WorkDir, if set, is the working directory for every invocation.
	WorkDir string
}

func NewExecuteCommandTool(workDir string) *ExecuteCommandTool {
	return &ExecuteCommandTool{Shell: "/bin/sh", ShellFlag: "-c", WorkDir: workDir}
}

func (t *ExecuteCommandTool) Descriptor() models.ToolDescriptor {
	return descriptor("execute_command", "Runs a shell command and returns its combined output.", "shell", models.RiskHigh,
		map[string]models.ParamSchema{
			"command": param("string", "Shell command to execute", true),
			"cwd":     param("string", "Working directory override", false),
		})
}

func (t *ExecuteCommandTool) Execute(ctx context.Context, args map[string]string) (string, error) {
	command := strings.TrimSpace(arg(args, "command"))
	if command == "" {
		return "", errorf("command is required")
	}

	cmd := exec.CommandContext(ctx, t.Shell, t.ShellFlag, command)
	if cwd := argOr(args, "cwd", t.WorkDir); cwd != "" {
		cmd.Dir = cwd
	}

	var out bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &out

	runErr := cmd.Run()
	output := out.String()
	if runErr != nil {
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		if output != "" {
			return "", errorf("command failed: %w\noutput:\n%s", runErr, output)
		}
		return "", errorf("command failed: %w", runErr)
	}
	return output, nil
}
