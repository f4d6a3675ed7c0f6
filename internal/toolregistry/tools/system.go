package tools

import (
	"context"
	"os/exec"
	"runtime"
	"strconv"
	"strings"
	"time"

	"github.com/haasonsaas/agentcore/pkg/models"
)

// GetCurrentDatetimeTool implements get_current_datetime.
type GetCurrentDatetimeTool struct{}

func NewGetCurrentDatetimeTool() *GetCurrentDatetimeTool { return &GetCurrentDatetimeTool{} }

func (t *GetCurrentDatetimeTool) Descriptor() models.ToolDescriptor {
	return descriptor("get_current_datetime", "Returns the current UTC date and time in ISO-8601.", "system", models.RiskLow, nil)
}

func (t *GetCurrentDatetimeTool) Execute(ctx context.Context, args map[string]string) (string, error) {
	return time.Now().UTC().Format(time.RFC3339), nil
}

// GetSystemInfoTool implements get_system_info.
type GetSystemInfoTool struct{}

func NewGetSystemInfoTool() *GetSystemInfoTool { return &GetSystemInfoTool{} }

func (t *GetSystemInfoTool) Descriptor() models.ToolDescriptor {
	return descriptor("get_system_info", "Reports OS, architecture, and CPU count.", "system", models.RiskLow, nil)
}

func (t *GetSystemInfoTool) Execute(ctx context.Context, args map[string]string) (string, error) {
	return strings.Join([]string{
		"os: " + runtime.GOOS,
		"arch: " + runtime.GOARCH,
		"cpus: " + strconv.Itoa(runtime.NumCPU()),
		"go_version: " + runtime.Version(),
	}, "\n"), nil
}

// ListProcessesTool implements list_processes.
type ListProcessesTool struct{}

func NewListProcessesTool() *ListProcessesTool { return &ListProcessesTool{} }

func (t *ListProcessesTool) Descriptor() models.ToolDescriptor {
	return descriptor("list_processes", "Lists running processes (delegates to the platform ps/tasklist tool).", "system", models.RiskLow, nil)
}

func (t *ListProcessesTool) Execute(ctx context.Context, args map[string]string) (string, error) {
	var cmd *exec.Cmd
	if runtime.GOOS == "windows" {
		cmd = exec.CommandContext(ctx, "tasklist")
	} else {
		cmd = exec.CommandContext(ctx, "ps", "aux")
	}
	out, err := cmd.Output()
	if err != nil {
		return "", errorf("listing processes: %w", err)
	}
	return string(out), nil
}
