package tools

import (
	"context"
	"os/exec"
	"strings"

	"github.com/haasonsaas/agentcore/pkg/models"
)

func runGit(ctx context.Context, cwd string, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, "git", args...)
	if cwd != "" {
		cmd.Dir = cwd
	}
	out, err := cmd.CombinedOutput()
	if err != nil {
		return "", errorf("git %s: %w\n%s", strings.Join(args, " "), err, out)
	}
	return string(out), nil
}

type gitReadOnlyTool struct {
	name string
	desc string
	args []string
}

func (t gitReadOnlyTool) Descriptor() models.ToolDescriptor {
	return descriptor(t.name, t.desc, "git", models.RiskLow,
		map[string]models.ParamSchema{"cwd": param("string", "Repository directory", false)})
}

func (t gitReadOnlyTool) Execute(ctx context.Context, args map[string]string) (string, error) {
	return runGit(ctx, arg(args, "cwd"), t.args...)
}

// The following constructors return concrete handlers for the read-only
// git tools: git_status, git_log, git_diff.
func NewGitStatusHandler() gitReadOnlyTool {
	return gitReadOnlyTool{name: "git_status", desc: "Shows the working tree status.", args: []string{"status", "--short", "--branch"}}
}

func NewGitLogHandler() gitReadOnlyTool {
	return gitReadOnlyTool{name: "git_log", desc: "Shows recent commit history.", args: []string{"log", "--oneline", "-20"}}
}

func NewGitDiffHandler() gitReadOnlyTool {
	return gitReadOnlyTool{name: "git_diff", desc: "Shows unstaged changes.", args: []string{"diff"}}
}

// GitBranchTool implements git_branch: creates, lists, or switches branches.
type GitBranchTool struct{}

func NewGitBranchTool() *GitBranchTool { return &GitBranchTool{} }

func (t *GitBranchTool) Descriptor() models.ToolDescriptor {
	return descriptor("git_branch", "Lists branches, or creates/switches to one if 'name' is given.", "git", models.RiskMedium,
		map[string]models.ParamSchema{
			"cwd":  param("string", "Repository directory", false),
			"name": param("string", "Branch to create/switch to", false),
		})
}

func (t *GitBranchTool) Execute(ctx context.Context, args map[string]string) (string, error) {
	cwd := arg(args, "cwd")
	if name := arg(args, "name"); name != "" {
		return runGit(ctx, cwd, "checkout", "-B", name)
	}
	return runGit(ctx, cwd, "branch", "--list")
}

// GitCloneTool implements git_clone.
type GitCloneTool struct{}

func NewGitCloneTool() *GitCloneTool { return &GitCloneTool{} }

func (t *GitCloneTool) Descriptor() models.ToolDescriptor {
	return descriptor("git_clone", "Clones a remote repository to a local path.", "git", models.RiskMedium,
		map[string]models.ParamSchema{
			"url":  param("string", "Repository URL", true),
			"path": param("string", "Destination path", false),
		})
}

func (t *GitCloneTool) Execute(ctx context.Context, args map[string]string) (string, error) {
	url := arg(args, "url")
	if url == "" {
		return "", errorf("url is required")
	}
	gitArgs := []string{"clone", url}
	if path := arg(args, "path"); path != "" {
		gitArgs = append(gitArgs, path)
	}
	return runGit(ctx, "", gitArgs...)
}

// GitCommitTool implements git_commit.
type GitCommitTool struct{}

func NewGitCommitTool() *GitCommitTool { return &GitCommitTool{} }

func (t *GitCommitTool) Descriptor() models.ToolDescriptor {
	return descriptor("git_commit", "Stages all changes and creates a commit.", "git", models.RiskHigh,
		map[string]models.ParamSchema{
			"cwd":     param("string", "Repository directory", false),
			"message": param("string", "Commit message", true),
		})
}

func (t *GitCommitTool) Execute(ctx context.Context, args map[string]string) (string, error) {
	message := arg(args, "message")
	if message == "" {
		return "", errorf("message is required")
	}
	cwd := arg(args, "cwd")
	if _, err := runGit(ctx, cwd, "add", "-A"); err != nil {
		return "", err
	}
	return runGit(ctx, cwd, "commit", "-m", message)
}
