package tools

import (
	"bytes"
	"context"
	"image/jpeg"
	"os"
	"os/exec"
	"runtime"
	"strconv"

	"golang.org/x/image/draw"

	"github.com/haasonsaas/agentcore/pkg/models"
)

// Capturer is the pluggable screen-capture capability described by the
// design notes: capture(display_id?, max_width) -> image_bytes. On
// platforms without a capture tool, Capture returns an error and callers
// degrade gracefully (the vision-feedback step is skipped silently).
type Capturer interface {
	Capture(ctx context.Context, displayID int, maxWidth int) ([]byte, error)
}

// CommandCapturer shells out to the platform's native screenshot utility,
// the same os/exec idiom the clipboard package uses for cross-platform
// tool dispatch.
type CommandCapturer struct{}

func NewCommandCapturer() *CommandCapturer { return &CommandCapturer{} }

func (c *CommandCapturer) Capture(ctx context.Context, displayID int, maxWidth int) ([]byte, error) {
	tmp, err := os.CreateTemp("", "agentcore-screenshot-*.png")
	if err != nil {
		return nil, err
	}
	tmpPath := tmp.Name()
	tmp.Close()
	defer os.Remove(tmpPath)

	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "darwin":
		args := []string{"-x"}
		if displayID > 0 {
			args = append(args, "-D", strconv.Itoa(displayID))
		}
		args = append(args, tmpPath)
		cmd = exec.CommandContext(ctx, "screencapture", args...)
	case "linux":
		cmd = exec.CommandContext(ctx, "import", "-window", "root", tmpPath)
	case "windows":
		script := "Add-Type -AssemblyName System.Windows.Forms; " +
			"[System.Windows.Forms.SendKeys]::SendWait('{PRTSC}')"
		cmd = exec.CommandContext(ctx, "powershell", "-NoProfile", "-Command", script)
	default:
		return nil, errorf("screen capture is not supported on %s", runtime.GOOS)
	}

	if err := cmd.Run(); err != nil {
		return nil, errorf("capturing screen: %w", err)
	}

	data, err := os.ReadFile(tmpPath)
	if err != nil {
		return nil, errorf("reading captured screenshot: %w", err)
	}
	return rescaleToJPEG(data, maxWidth)
}

// rescaleToJPEG decodes an arbitrary still image and re-encodes it as a
// JPEG scaled to at most maxWidth pixels wide, per the vision-feedback
// contract's "JPEG scaled to <=1440px wide" requirement.
func rescaleToJPEG(data []byte, maxWidth int) ([]byte, error) {
	src, _, err := imageDecode(data)
	if err != nil {
		return nil, err
	}
	bounds := src.Bounds()
	width, height := bounds.Dx(), bounds.Dy()
	if maxWidth > 0 && width > maxWidth {
		height = height * maxWidth / width
		width = maxWidth
	}
	dst := newRGBA(width, height)
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, bounds, draw.Over, nil)

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, dst, &jpeg.Options{Quality: 85}); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// TakeScreenshotTool implements take_screenshot.
type TakeScreenshotTool struct {
	Capturer Capturer
	MaxWidth int
}

func NewTakeScreenshotTool(capturer Capturer) *TakeScreenshotTool {
	return &TakeScreenshotTool{Capturer: capturer, MaxWidth: 1440}
}

func (t *TakeScreenshotTool) Descriptor() models.ToolDescriptor {
	return descriptor("take_screenshot", "Captures the primary display and returns a base64 JPEG.", "media", models.RiskMedium, nil)
}

func (t *TakeScreenshotTool) Execute(ctx context.Context, args map[string]string) (string, error) {
	data, err := t.Capturer.Capture(ctx, 0, t.MaxWidth)
	if err != nil {
		return "", err
	}
	return encodeImageBase64(data), nil
}
