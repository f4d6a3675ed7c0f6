package main

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/haasonsaas/agentcore/internal/audit"
	"github.com/haasonsaas/agentcore/internal/config"
	"github.com/haasonsaas/agentcore/pkg/models"
)

// buildAuditCmd groups the Audit Journal's query/export operations
// (spec §4.A) behind a small CLI surface, mirroring the teacher's
// practice of exposing each core subsystem as its own command group
// (buildChannelsCmd, buildAgentsCmd, ...) rather than one monolithic verb.
func buildAuditCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "audit",
		Short: "Query or export the append-only Audit Journal",
	}
	cmd.AddCommand(buildAuditQueryCmd(), buildAuditExportCmd())
	return cmd
}

func auditFilterFlags(cmd *cobra.Command) (agentID, sessionID, contains *string, severities *[]string, limit, offset *int) {
	agentID = cmd.Flags().String("agent-id", "", "Filter by agent id")
	sessionID = cmd.Flags().String("session-id", "", "Filter by session id")
	contains = cmd.Flags().String("contains", "", "Substring match on action/target")
	sevs := cmd.Flags().StringSlice("severity", nil, "Filter by severity (repeatable): info, warning, error, critical")
	lim := cmd.Flags().Int("limit", 100, "Maximum entries to return")
	off := cmd.Flags().Int("offset", 0, "Pagination offset")
	return agentID, sessionID, contains, &sevs, lim, off
}

func buildAuditQueryCmd() *cobra.Command {
	var configPath string
	cmd := &cobra.Command{
		Use:   "query",
		Short: "List audit entries matching a filter, newest first",
	}
	agentID, sessionID, contains, severities, limit, offset := auditFilterFlags(cmd)
	cmd.Flags().StringVarP(&configPath, "config", "c", "", "Path to YAML configuration file")

	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		j, err := openJournalFromConfig(cmd, configPath)
		if err != nil {
			return err
		}
		defer j.Close()

		filter := models.AuditFilter{
			AgentID:   *agentID,
			SessionID: *sessionID,
			Contains:  *contains,
			Limit:     *limit,
			Offset:    *offset,
		}
		for _, s := range *severities {
			filter.Severities = append(filter.Severities, models.Severity(strings.ToLower(s)))
		}

		entries, err := j.Query(cmd.Context(), filter)
		if err != nil {
			return fmt.Errorf("query audit journal: %w", err)
		}
		for _, e := range entries {
			fmt.Fprintf(cmd.OutOrStdout(), "%s  %-8s %-20s agent=%s session=%s result=%s action=%s target=%s\n",
				e.Timestamp.Format(time.RFC3339), e.Severity, e.EventType, e.AgentID, e.SessionID, e.Result, e.Action, e.Target)
		}
		return nil
	}
	return cmd
}

func buildAuditExportCmd() *cobra.Command {
	var (
		configPath string
		outPath    string
	)
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export audit entries matching a filter as CSV",
	}
	agentID, sessionID, contains, severities, limit, offset := auditFilterFlags(cmd)
	cmd.Flags().StringVarP(&configPath, "config", "c", "", "Path to YAML configuration file")
	cmd.Flags().StringVarP(&outPath, "out", "o", "", "Output file path (default: a process-temporary file)")

	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		j, err := openJournalFromConfig(cmd, configPath)
		if err != nil {
			return err
		}
		defer j.Close()

		filter := models.AuditFilter{
			AgentID:   *agentID,
			SessionID: *sessionID,
			Contains:  *contains,
			Limit:     *limit,
			Offset:    *offset,
		}
		for _, s := range *severities {
			filter.Severities = append(filter.Severities, models.Severity(strings.ToLower(s)))
		}

		if outPath == "" {
			f, err := os.CreateTemp("", "agentcore-audit-export-*.csv")
			if err != nil {
				return fmt.Errorf("create temp export file: %w", err)
			}
			outPath = f.Name()
			defer f.Close()
			n, err := j.Export(cmd.Context(), f, filter)
			if err != nil {
				return fmt.Errorf("export audit journal: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "exported %d entries to %s\n", n, outPath)
			return nil
		}

		f, err := os.Create(outPath)
		if err != nil {
			return fmt.Errorf("create %s: %w", outPath, err)
		}
		defer f.Close()
		n, err := j.Export(cmd.Context(), f, filter)
		if err != nil {
			return fmt.Errorf("export audit journal: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "exported %d entries to %s\n", n, outPath)
		return nil
	}
	return cmd
}

func openJournalFromConfig(cmd *cobra.Command, configPath string) (*audit.Journal, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	driver := audit.DriverSQLite
	if cfg.Session.Audit.Driver == "postgres" {
		driver = audit.DriverPostgres
	}
	return audit.Open(cmd.Context(), driver, cfg.Session.Audit.DSN)
}
