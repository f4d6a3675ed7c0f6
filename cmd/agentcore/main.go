// Package main provides the CLI entry point for the Agent Execution
// Core: a typed tool registry, a bounded reason-act-observe execution
// loop, a policy/risk engine with a human-in-the-loop approval queue, and
// an append-only audit journal, wired together behind a small cobra CLI.
// It is grounded in the teacher's cmd/nexus/main.go command-tree shape
// (build-info version vars, buildRootCmd separated from main for
// testability, JSON slog default logger) trimmed to this core's own
// subcommands instead of the teacher's channel-gateway ones.
package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/haasonsaas/agentcore/internal/observability"
)

// Build information, populated by ldflags during release builds.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	appLogger := observability.NewLogger(observability.LogConfig{
		Level:  envOr("AGENTCORE_LOG_LEVEL", "info"),
		Format: envOr("AGENTCORE_LOG_FORMAT", "json"),
		Output: os.Stderr,
	})
	slog.SetDefault(appLogger.Slog())

	rootCmd := buildRootCmd()
	if err := rootCmd.Execute(); err != nil {
		slog.Error("command execution failed", "error", err)
		os.Exit(1)
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// buildRootCmd assembles the command tree. Separated from main so tests
// can exercise it directly without spawning a process.
func buildRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "agentcore",
		Short: "Agent Execution Core - tool dispatch, policy, approval, and audit for an LLM agent",
		Long: `agentcore drives a bounded reason-act-observe loop between an LLM and a
typed catalog of side-effecting tools (files, shell, network, git, screen
control), gating risky calls through a policy engine and a human approval
queue, and recording every decision to an append-only audit journal.`,
		Version:      fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, date),
		SilenceUsage: true,
	}

	rootCmd.AddCommand(
		buildRunCmd(),
		buildAuditCmd(),
		buildMemoryCmd(),
		buildApprovalsCmd(),
	)
	return rootCmd
}
