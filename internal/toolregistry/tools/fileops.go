package tools

import (
	"bufio"
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/haasonsaas/agentcore/pkg/models"
)

// ReadFileTool implements read_file.
type ReadFileTool struct{}

func NewReadFileTool() *ReadFileTool { return &ReadFileTool{} }

func (t *ReadFileTool) Descriptor() models.ToolDescriptor {
	return descriptor("read_file", "Reads the full UTF-8 contents of a file.", "file", models.RiskLow,
		map[string]models.ParamSchema{"path": param("string", "Path of the file to read", true)})
}

func (t *ReadFileTool) Execute(ctx context.Context, args map[string]string) (string, error) {
	path, err := requirePath(args, "path")
	if err != nil {
		return "", err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", errorf("reading %s: %w", path, err)
	}
	return string(data), nil
}

// ListDirectoryTool implements list_directory.
type ListDirectoryTool struct{}

func NewListDirectoryTool() *ListDirectoryTool { return &ListDirectoryTool{} }

func (t *ListDirectoryTool) Descriptor() models.ToolDescriptor {
	return descriptor("list_directory", "Lists the entries of a directory, one per line.", "file", models.RiskLow,
		map[string]models.ParamSchema{"path": param("string", "Directory to list", true)})
}

func (t *ListDirectoryTool) Execute(ctx context.Context, args map[string]string) (string, error) {
	path, err := requirePath(args, "path")
	if err != nil {
		return "", err
	}
	entries, err := os.ReadDir(path)
	if err != nil {
		return "", errorf("listing %s: %w", path, err)
	}
	var sb strings.Builder
	for _, e := range entries {
		if e.IsDir() {
			sb.WriteString(e.Name() + "/\n")
		} else {
			sb.WriteString(e.Name() + "\n")
		}
	}
	return sb.String(), nil
}

// GetFileInfoTool implements get_file_info.
type GetFileInfoTool struct{}

func NewGetFileInfoTool() *GetFileInfoTool { return &GetFileInfoTool{} }

func (t *GetFileInfoTool) Descriptor() models.ToolDescriptor {
	return descriptor("get_file_info", "Returns size, mode, and modification time for a path.", "file", models.RiskLow,
		map[string]models.ParamSchema{"path": param("string", "Path to inspect", true)})
}

func (t *GetFileInfoTool) Execute(ctx context.Context, args map[string]string) (string, error) {
	path, err := requirePath(args, "path")
	if err != nil {
		return "", err
	}
	info, err := os.Stat(path)
	if err != nil {
		return "", errorf("stat %s: %w", path, err)
	}
	return formatFileInfo(path, info), nil
}

func formatFileInfo(path string, info fs.FileInfo) string {
	kind := "file"
	if info.IsDir() {
		kind = "directory"
	}
	return strings.Join([]string{
		"path: " + path,
		"type: " + kind,
		"size: " + strconv.FormatInt(info.Size(), 10),
		"mode: " + info.Mode().String(),
		"modified: " + info.ModTime().Format("2006-01-02T15:04:05Z07:00"),
	}, "\n")
}

// SearchFilesTool implements search_files: finds files matching a glob
// pattern under a root directory.
type SearchFilesTool struct{}

func NewSearchFilesTool() *SearchFilesTool { return &SearchFilesTool{} }

func (t *SearchFilesTool) Descriptor() models.ToolDescriptor {
	return descriptor("search_files", "Finds files under root whose name matches a glob pattern.", "file", models.RiskLow,
		map[string]models.ParamSchema{
			"root":    param("string", "Root directory to search under", true),
			"pattern": param("string", "Glob pattern, e.g. *.go", true),
		})
}

func (t *SearchFilesTool) Execute(ctx context.Context, args map[string]string) (string, error) {
	root := arg(args, "root")
	pattern := arg(args, "pattern")
	if root == "" || pattern == "" {
		return "", errorf("root and pattern are required")
	}
	var matches []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if d.IsDir() {
			return nil
		}
		ok, _ := filepath.Match(pattern, d.Name())
		if ok {
			matches = append(matches, path)
		}
		return nil
	})
	if err != nil {
		return "", errorf("searching %s: %w", root, err)
	}
	return strings.Join(matches, "\n"), nil
}

// CountLinesTool implements count_lines.
type CountLinesTool struct{}

func NewCountLinesTool() *CountLinesTool { return &CountLinesTool{} }

func (t *CountLinesTool) Descriptor() models.ToolDescriptor {
	return descriptor("count_lines", "Counts the number of lines in a file.", "file", models.RiskLow,
		map[string]models.ParamSchema{"path": param("string", "File to count lines in", true)})
}

func (t *CountLinesTool) Execute(ctx context.Context, args map[string]string) (string, error) {
	path, err := requirePath(args, "path")
	if err != nil {
		return "", err
	}
	f, err := os.Open(path)
	if err != nil {
		return "", errorf("opening %s: %w", path, err)
	}
	defer f.Close()
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 10<<20)
	count := 0
	for scanner.Scan() {
		count++
	}
	if err := scanner.Err(); err != nil {
		return "", errorf("counting lines in %s: %w", path, err)
	}
	return strconv.Itoa(count), nil
}

// WriteFileTool implements write_file.
type WriteFileTool struct{}

func NewWriteFileTool() *WriteFileTool { return &WriteFileTool{} }

func (t *WriteFileTool) Descriptor() models.ToolDescriptor {
	return descriptor("write_file", "Writes content to a file, creating or overwriting it.", "file", models.RiskMedium,
		map[string]models.ParamSchema{
			"path":    param("string", "Path of the file to write", true),
			"content": param("string", "Content to write", true),
		})
}

func (t *WriteFileTool) Execute(ctx context.Context, args map[string]string) (string, error) {
	path, err := requirePath(args, "path")
	if err != nil {
		return "", err
	}
	content := arg(args, "content")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return "", errorf("writing %s: %w", path, err)
	}
	return "wrote " + strconv.Itoa(len(content)) + " bytes to " + path, nil
}

// AppendToFileTool implements append_to_file.
type AppendToFileTool struct{}

func NewAppendToFileTool() *AppendToFileTool { return &AppendToFileTool{} }

func (t *AppendToFileTool) Descriptor() models.ToolDescriptor {
	return descriptor("append_to_file", "Appends content to the end of a file, creating it if needed.", "file", models.RiskMedium,
		map[string]models.ParamSchema{
			"path":    param("string", "Path of the file to append to", true),
			"content": param("string", "Content to append", true),
		})
}

func (t *AppendToFileTool) Execute(ctx context.Context, args map[string]string) (string, error) {
	path, err := requirePath(args, "path")
	if err != nil {
		return "", err
	}
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return "", errorf("opening %s: %w", path, err)
	}
	defer f.Close()
	content := arg(args, "content")
	if _, err := f.WriteString(content); err != nil {
		return "", errorf("appending to %s: %w", path, err)
	}
	return "appended " + strconv.Itoa(len(content)) + " bytes to " + path, nil
}

// MoveFileTool implements move_file.
type MoveFileTool struct{}

func NewMoveFileTool() *MoveFileTool { return &MoveFileTool{} }

func (t *MoveFileTool) Descriptor() models.ToolDescriptor {
	return descriptor("move_file", "Moves or renames a file.", "file", models.RiskMedium,
		map[string]models.ParamSchema{
			"source":      param("string", "Source path", true),
			"destination": param("string", "Destination path", true),
		})
}

func (t *MoveFileTool) Execute(ctx context.Context, args map[string]string) (string, error) {
	src, err := requirePath(args, "source")
	if err != nil {
		return "", err
	}
	dst, err := requirePath(args, "destination")
	if err != nil {
		return "", err
	}
	if err := os.Rename(src, dst); err != nil {
		return "", errorf("moving %s to %s: %w", src, dst, err)
	}
	return "moved " + src + " to " + dst, nil
}

// CopyFileTool implements copy_file.
type CopyFileTool struct{}

func NewCopyFileTool() *CopyFileTool { return &CopyFileTool{} }

func (t *CopyFileTool) Descriptor() models.ToolDescriptor {
	return descriptor("copy_file", "Copies a file to a new location.", "file", models.RiskMedium,
		map[string]models.ParamSchema{
			"source":      param("string", "Source path", true),
			"destination": param("string", "Destination path", true),
		})
}

func (t *CopyFileTool) Execute(ctx context.Context, args map[string]string) (string, error) {
	src, err := requirePath(args, "source")
	if err != nil {
		return "", err
	}
	dst, err := requirePath(args, "destination")
	if err != nil {
		return "", err
	}
	data, err := os.ReadFile(src)
	if err != nil {
		return "", errorf("reading %s: %w", src, err)
	}
	if err := os.WriteFile(dst, data, 0o644); err != nil {
		return "", errorf("writing %s: %w", dst, err)
	}
	return "copied " + src + " to " + dst, nil
}

// CreateDirectoryTool implements create_directory.
type CreateDirectoryTool struct{}

func NewCreateDirectoryTool() *CreateDirectoryTool { return &CreateDirectoryTool{} }

func (t *CreateDirectoryTool) Descriptor() models.ToolDescriptor {
	return descriptor("create_directory", "Creates a directory, including parents.", "file", models.RiskMedium,
		map[string]models.ParamSchema{"path": param("string", "Directory path to create", true)})
}

func (t *CreateDirectoryTool) Execute(ctx context.Context, args map[string]string) (string, error) {
	path, err := requirePath(args, "path")
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(path, 0o755); err != nil {
		return "", errorf("creating %s: %w", path, err)
	}
	return "created directory " + path, nil
}

// DeleteFileTool implements delete_file.
type DeleteFileTool struct{}

func NewDeleteFileTool() *DeleteFileTool { return &DeleteFileTool{} }

func (t *DeleteFileTool) Descriptor() models.ToolDescriptor {
	return descriptor("delete_file", "Deletes a file or empty directory.", "file", models.RiskHigh,
		map[string]models.ParamSchema{"path": param("string", "Path to delete", true)})
}

func (t *DeleteFileTool) Execute(ctx context.Context, args map[string]string) (string, error) {
	path, err := requirePath(args, "path")
	if err != nil {
		return "", err
	}
	if err := os.Remove(path); err != nil {
		return "", errorf("deleting %s: %w", path, err)
	}
	return "deleted " + path, nil
}
