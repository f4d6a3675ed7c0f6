package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/haasonsaas/agentcore/internal/config"
	"github.com/haasonsaas/agentcore/internal/storage"
)

// buildApprovalsCmd exposes the durable mirror the Approval Queue writes to
// internal/storage (spec §6): live adjudication happens inside a running
// "run" via internal/approvalcli, but an operator inspecting state between
// runs, or after a crash, needs a read path that does not require the
// in-memory Queue to still be alive.
func buildApprovalsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "approvals",
		Short: "Inspect approval requests recorded by past or current sessions",
	}
	cmd.AddCommand(buildApprovalsListCmd(), buildApprovalsGetCmd(), buildSessionsListCmd())
	return cmd
}

func openApprovalStoreFromConfig(configPath string) (storage.ApprovalStore, storage.SessionStore, func(), error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("load config: %w", err)
	}
	if cfg.Session.Audit.DSN == "" {
		return nil, nil, nil, fmt.Errorf("no durable store configured: session.audit.dsn is empty")
	}
	driver := storage.DriverSQLite
	if cfg.Session.Audit.Driver == "postgres" {
		driver = storage.DriverPostgres
	}
	dsn := cfg.Session.Audit.DSN
	if driver != storage.DriverPostgres {
		dsn += ".sessions"
	}
	sessions, approvals, err := storage.OpenSQL(context.Background(), driver, dsn)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("open storage: %w", err)
	}
	closeFn := func() {
		_ = sessions.Close()
		_ = approvals.Close()
	}
	return approvals, sessions, closeFn, nil
}

func buildApprovalsListCmd() *cobra.Command {
	var configPath, agentID string
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List pending approval requests for an agent",
		RunE: func(cmd *cobra.Command, args []string) error {
			if agentID == "" {
				return fmt.Errorf("--agent-id is required")
			}
			approvals, _, closeFn, err := openApprovalStoreFromConfig(configPath)
			if err != nil {
				return err
			}
			defer closeFn()

			reqs, err := approvals.ListPendingByAgent(cmd.Context(), agentID)
			if err != nil {
				return fmt.Errorf("list pending approvals: %w", err)
			}
			if len(reqs) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "no pending approvals")
				return nil
			}
			for _, r := range reqs {
				fmt.Fprintf(cmd.OutOrStdout(), "%s  tool=%-20s risk=%-8s expires=%s\n",
					r.ID, r.Call.Name, r.RiskLevel, r.ExpiresAt.Format(time.RFC3339))
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&configPath, "config", "c", "", "Path to YAML configuration file")
	cmd.Flags().StringVar(&agentID, "agent-id", "", "Agent whose pending approvals to list")
	return cmd
}

func buildApprovalsGetCmd() *cobra.Command {
	var configPath string
	cmd := &cobra.Command{
		Use:   "get <id>",
		Short: "Show one approval request's full record",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			approvals, _, closeFn, err := openApprovalStoreFromConfig(configPath)
			if err != nil {
				return err
			}
			defer closeFn()

			r, err := approvals.Get(cmd.Context(), args[0])
			if err != nil {
				return fmt.Errorf("get approval %s: %w", args[0], err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "id:          %s\n", r.ID)
			fmt.Fprintf(cmd.OutOrStdout(), "session:     %s\n", r.SessionID)
			fmt.Fprintf(cmd.OutOrStdout(), "tool:        %s\n", r.Call.Name)
			fmt.Fprintf(cmd.OutOrStdout(), "risk:        %s\n", r.RiskLevel)
			fmt.Fprintf(cmd.OutOrStdout(), "status:      %s\n", r.Status)
			fmt.Fprintf(cmd.OutOrStdout(), "reasoning:   %s\n", r.Reasoning)
			fmt.Fprintf(cmd.OutOrStdout(), "requested:   %s\n", r.RequestedAt.Format(time.RFC3339))
			if r.DecidedAt != nil {
				fmt.Fprintf(cmd.OutOrStdout(), "decided:     %s\n", r.DecidedAt.Format(time.RFC3339))
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&configPath, "config", "c", "", "Path to YAML configuration file")
	return cmd
}

func buildSessionsListCmd() *cobra.Command {
	var (
		configPath string
		agentID    string
		limit      int
		offset     int
	)
	cmd := &cobra.Command{
		Use:   "sessions",
		Short: "List recorded execution sessions for an agent, newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			if agentID == "" {
				return fmt.Errorf("--agent-id is required")
			}
			_, sessions, closeFn, err := openApprovalStoreFromConfig(configPath)
			if err != nil {
				return err
			}
			defer closeFn()

			got, err := sessions.ListByAgent(cmd.Context(), agentID, limit, offset)
			if err != nil {
				return fmt.Errorf("list sessions: %w", err)
			}
			for _, s := range got {
				fmt.Fprintf(cmd.OutOrStdout(), "%s  status=%-10s started=%s steps=%d\n",
					s.ID, s.Status, s.StartedAt.Format(time.RFC3339), len(s.Steps))
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&configPath, "config", "c", "", "Path to YAML configuration file")
	cmd.Flags().StringVar(&agentID, "agent-id", "", "Agent whose sessions to list")
	cmd.Flags().IntVar(&limit, "limit", 20, "Maximum sessions to return")
	cmd.Flags().IntVar(&offset, "offset", 0, "Pagination offset")
	return cmd
}
