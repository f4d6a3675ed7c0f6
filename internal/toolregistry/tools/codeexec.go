package tools

import (
	"bytes"
	"context"
	"os"
	"os/exec"

	"github.com/haasonsaas/agentcore/pkg/models"
)

type scriptInterpreterTool struct {
	name        string
	desc        string
	interpreter string
	extension   string
}

func NewRunPythonTool() scriptInterpreterTool {
	return scriptInterpreterTool{name: "run_python", desc: "Executes a Python script and returns its output.", interpreter: "python3", extension: ".py"}
}

func NewRunNodeTool() scriptInterpreterTool {
	return scriptInterpreterTool{name: "run_node", desc: "Executes a Node.js script and returns its output.", interpreter: "node", extension: ".js"}
}

func (t scriptInterpreterTool) Descriptor() models.ToolDescriptor {
	return descriptor(t.name, t.desc, "codeexec", models.RiskHigh,
		map[string]models.ParamSchema{"code": param("string", "Source code to execute", true)})
}

func (t scriptInterpreterTool) Execute(ctx context.Context, args map[string]string) (string, error) {
	code := arg(args, "code")
	if code == "" {
		return "", errorf("code is required")
	}

	f, err := os.CreateTemp("", "agentcore-script-*"+t.extension)
	if err != nil {
		return "", errorf("creating script file: %w", err)
	}
	path := f.Name()
	defer os.Remove(path)
	if _, err := f.WriteString(code); err != nil {
		f.Close()
		return "", errorf("writing script file: %w", err)
	}
	f.Close()

	cmd := exec.CommandContext(ctx, t.interpreter, path)
	var out bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &out
	if err := cmd.Run(); err != nil {
		return "", errorf("%s failed: %w\n%s", t.interpreter, err, out.String())
	}
	return out.String(), nil
}
