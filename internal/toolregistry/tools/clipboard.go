package tools

import (
	"context"

	"github.com/haasonsaas/agentcore/internal/clipboard"
	"github.com/haasonsaas/agentcore/pkg/models"
)

// ReadClipboardTool implements read_clipboard, delegating to the
// cross-platform clipboard package.
type ReadClipboardTool struct{}

func NewReadClipboardTool() *ReadClipboardTool { return &ReadClipboardTool{} }

func (t *ReadClipboardTool) Descriptor() models.ToolDescriptor {
	return descriptor("read_clipboard", "Reads the current system clipboard contents.", "clipboard", models.RiskLow, nil)
}

func (t *ReadClipboardTool) Execute(ctx context.Context, args map[string]string) (string, error) {
	text, err := clipboard.ReadFromClipboard()
	if err != nil {
		return "", errorf("reading clipboard: %w", err)
	}
	return text, nil
}

// WriteClipboardTool implements write_clipboard.
type WriteClipboardTool struct{}

func NewWriteClipboardTool() *WriteClipboardTool { return &WriteClipboardTool{} }

func (t *WriteClipboardTool) Descriptor() models.ToolDescriptor {
	return descriptor("write_clipboard", "Writes text to the system clipboard.", "clipboard", models.RiskLow,
		map[string]models.ParamSchema{"text": param("string", "Text to copy", true)})
}

func (t *WriteClipboardTool) Execute(ctx context.Context, args map[string]string) (string, error) {
	text := arg(args, "text")
	ok, err := clipboard.CopyToClipboard(text)
	if err != nil {
		return "", errorf("writing clipboard: %w", err)
	}
	if !ok {
		return "", errorf("no clipboard tool available on this platform")
	}
	return "copied to clipboard", nil
}
