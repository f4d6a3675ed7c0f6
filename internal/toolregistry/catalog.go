package toolregistry

import (
	"github.com/haasonsaas/agentcore/internal/memorystore"
	"github.com/haasonsaas/agentcore/internal/toolregistry/tools"
)

// CatalogOptions configures the built-in tool set registered at process
// start. All built-in tools are registered unconditionally — per spec,
// the full typed catalog exists regardless of which tools an individual
// agent is allowed to see; visibility is filtered later by Registry.Filtered
// and by the Execution Loop's agent_mode switch, not by registration.
type CatalogOptions struct {
	WorkDir  string
	Memory   *memorystore.Store
	Capturer tools.Capturer
}

// RegisterBuiltins installs every built-in tool named in the Tool
// Registry's built-in table. update_self is deliberately absent: it is a
// sentinel intercepted by the Execution Loop and is never dispatchable.
func RegisterBuiltins(r *Registry, opts CatalogOptions) {
	if opts.Capturer == nil {
		opts.Capturer = tools.NewCommandCapturer()
	}
	if opts.Memory == nil {
		opts.Memory, _ = memorystore.Open(opts.WorkDir + "/memory.json")
	}

	// File ops
	r.Register(tools.NewReadFileTool())
	r.Register(tools.NewListDirectoryTool())
	r.Register(tools.NewGetFileInfoTool())
	r.Register(tools.NewSearchFilesTool())
	r.Register(tools.NewCountLinesTool())
	r.Register(tools.NewWriteFileTool())
	r.Register(tools.NewAppendToFileTool())
	r.Register(tools.NewMoveFileTool())
	r.Register(tools.NewCopyFileTool())
	r.Register(tools.NewCreateDirectoryTool())
	r.Register(tools.NewDeleteFileTool())

	// Shell
	r.Register(tools.NewExecuteCommandTool(opts.WorkDir))

	// System
	r.Register(tools.NewGetCurrentDatetimeTool())
	r.Register(tools.NewGetSystemInfoTool())
	r.Register(tools.NewListProcessesTool())

	// Network
	r.Register(tools.NewFetchURLTool())
	r.Register(tools.NewWebSearchTool())
	r.Register(tools.NewHTTPRequestTool())

	// Git
	r.Register(tools.NewGitStatusHandler())
	r.Register(tools.NewGitLogHandler())
	r.Register(tools.NewGitDiffHandler())
	r.Register(tools.NewGitBranchTool())
	r.Register(tools.NewGitCloneTool())
	r.Register(tools.NewGitCommitTool())

	// Text/data
	r.Register(tools.NewSearchInFileTool())
	r.Register(tools.NewCalculateTool())
	r.Register(tools.NewParseJSONTool())
	r.Register(tools.NewEncodeBase64Tool())
	r.Register(tools.NewDecodeBase64Tool())
	r.Register(tools.NewReplaceInFileTool())

	// Clipboard
	r.Register(tools.NewReadClipboardTool())
	r.Register(tools.NewWriteClipboardTool())

	// Media
	r.Register(tools.NewTakeScreenshotTool(opts.Capturer))

	// Code exec
	r.Register(tools.NewRunPythonTool())
	r.Register(tools.NewRunNodeTool())

	// Screen control
	r.Register(tools.NewGetScreenInfoTool())
	r.Register(tools.NewMoveMouseTool())
	r.Register(tools.NewClickMouseTool())
	r.Register(tools.NewScrollMouseTool())
	r.Register(tools.NewTypeTextTool())
	r.Register(tools.NewPressKeyTool())
	r.Register(tools.NewRunAppleScriptOrPlatformScriptTool())

	// Memory
	r.Register(tools.NewMemorySaveTool(opts.Memory))
	r.Register(tools.NewMemoryReadTool(opts.Memory))
	r.Register(tools.NewMemoryListTool(opts.Memory))
	r.Register(tools.NewMemoryDeleteTool(opts.Memory))
}

// ScreenMutatingTools is the set that triggers vision feedback in
// agent_mode, per the Execution Loop's post-action screenshot rule.
var ScreenMutatingTools = map[string]bool{
	"open_application":                   true,
	"click_mouse":                        true,
	"scroll_mouse":                       true,
	"type_text":                          true,
	"press_key":                          true,
	"run_applescript_or_platform_script": true,
	"take_screenshot":                    true,
}
