package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/haasonsaas/agentcore/internal/approval"
	"github.com/haasonsaas/agentcore/internal/approvalcli"
	"github.com/haasonsaas/agentcore/internal/audit"
	"github.com/haasonsaas/agentcore/internal/config"
	"github.com/haasonsaas/agentcore/internal/llm"
	"github.com/haasonsaas/agentcore/internal/loop"
	"github.com/haasonsaas/agentcore/internal/observability"
	"github.com/haasonsaas/agentcore/internal/policy"
	"github.com/haasonsaas/agentcore/internal/storage"
	"github.com/haasonsaas/agentcore/internal/toolregistry"
	"github.com/haasonsaas/agentcore/internal/toolregistry/tools"
	"github.com/haasonsaas/agentcore/pkg/models"
)

// buildRunCmd creates the "run" command: it carries one user prompt
// through the Execution Loop to a terminal result, the single primitive
// spec §9 says this core exposes ("run one session to completion").
func buildRunCmd() *cobra.Command {
	var (
		configPath      string
		prompt          string
		agentMode       bool
		provider        string
		model           string
		requireApproval bool
		ceilingTools    []string
		showTimeline    bool
	)

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run one agent session against a prompt to completion",
		RunE: func(cmd *cobra.Command, args []string) error {
			if prompt == "" {
				return fmt.Errorf("--prompt is required")
			}

			cfg, err := config.Load(configPath)
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			if provider != "" {
				cfg.LLM.DefaultProvider = provider
			}
			if requireApproval {
				cfg.Security.RequireApproval = true
			}

			runner, closeFn, err := buildRunner(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			defer closeFn()

			var timelineStore *observability.MemoryEventStore
			if showTimeline {
				timelineStore = observability.NewMemoryEventStore(10000)
				runner.Timeline = observability.NewEventRecorder(timelineStore, nil)
			}

			agent := models.Agent{
				ID:           uuid.NewString(),
				Name:         "cli-agent",
				Provider:     cfg.LLM.DefaultProvider,
				Model:        resolveModel(cfg, model),
				Temperature:  0.7,
				MaxTokens:    4096,
				EnabledTools: ceilingTools,
				Policy:       cfg.Security,
				CreatedAt:    time.Now(),
				UpdatedAt:    time.Now(),
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			// An interactive approval prompt runs alongside the loop so an
			// operator can adjudicate "ask" decisions without a separate
			// process sharing this run's in-memory Approval Queue.
			watchCtx, cancelWatch := context.WithCancel(ctx)
			defer cancelWatch()
			go approvalcli.New(runner.Approvals).Watch(watchCtx, 500*time.Millisecond)

			session, err := runner.Run(ctx, agent, prompt, loop.Options{AgentMode: agentMode})
			if err != nil {
				return fmt.Errorf("session failed: %w", err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "session %s: %s\n", session.ID, session.Status)
			if session.Result != nil {
				if session.Result.Output != "" {
					fmt.Fprintln(cmd.OutOrStdout(), session.Result.Output)
				}
				if session.Result.Error != "" {
					fmt.Fprintf(cmd.OutOrStdout(), "error: %s\n", session.Result.Error)
				}
			}

			if timelineStore != nil {
				events, terr := timelineStore.GetByRunID(session.ID)
				if terr == nil && len(events) > 0 {
					fmt.Fprintln(cmd.OutOrStdout())
					fmt.Fprint(cmd.OutOrStdout(), observability.FormatTimeline(observability.BuildTimeline(events)))
				}
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "Path to YAML configuration file")
	cmd.Flags().StringVar(&prompt, "prompt", "", "User prompt to run the agent against")
	cmd.Flags().BoolVar(&agentMode, "agent-mode", false, "Grant the full tool set and enable vision feedback")
	cmd.Flags().StringVar(&provider, "provider", "", "Override the default LLM provider")
	cmd.Flags().StringVar(&model, "model", "", "Override the provider's default model")
	cmd.Flags().BoolVar(&requireApproval, "require-approval", false, "Force require_approval regardless of config")
	cmd.Flags().StringSliceVar(&ceilingTools, "tool", nil, "Enabled tool name (repeatable); empty means the config default")
	cmd.Flags().BoolVar(&showTimeline, "timeline", false, "Print a replayable event timeline for this run after it completes")

	return cmd
}

func resolveModel(cfg config.Config, override string) string {
	if override != "" {
		return override
	}
	if p, ok := cfg.LLM.Providers[cfg.LLM.DefaultProvider]; ok {
		return p.Model
	}
	return ""
}

// buildRunner wires Registry, Policy Engine, Approval Queue (+ sweeper),
// Audit Journal, LLM Router, and optional Session/Approval persistence
// into one loop.Runner, returning a cleanup func that stops the sweeper
// and closes every backing store.
func buildRunner(ctx context.Context, cfg config.Config) (*loop.Runner, func(), error) {
	reg := toolregistry.New()
	toolregistry.RegisterBuiltins(reg, toolregistry.CatalogOptions{
		WorkDir: cfg.Session.WorkDir,
	})

	eng := policy.New()
	approvals := approval.New()
	sweeper := approval.NewSweeper(approvals, cfg.Session.ApprovalSweepInterval, nil)
	sweeper.Start()

	journalDriver := audit.DriverSQLite
	if cfg.Session.Audit.Driver == "postgres" {
		journalDriver = audit.DriverPostgres
	}
	journal, err := audit.Open(ctx, journalDriver, cfg.Session.Audit.DSN)
	if err != nil {
		sweeper.Stop()
		return nil, nil, fmt.Errorf("open audit journal: %w", err)
	}

	opsLogCfg := audit.DefaultConfig()
	opsLogCfg.Enabled = true
	opsLog, err := audit.NewLogger(opsLogCfg)
	if err != nil {
		sweeper.Stop()
		_ = journal.Close()
		return nil, nil, fmt.Errorf("open operational logger: %w", err)
	}

	providers := make(map[string]llm.ProviderConfig, len(cfg.LLM.Providers))
	for name, p := range cfg.LLM.Providers {
		apiKey := p.APIKey
		if apiKey == "" {
			apiKey = os.Getenv(envKeyFor(name))
		}
		providers[name] = llm.ProviderConfig{APIKey: apiKey, BaseURL: p.BaseURL, Model: p.Model}
	}
	router, err := llm.BuildRouter(providers, cfg.LLM.DefaultProvider)
	if err != nil {
		sweeper.Stop()
		_ = journal.Close()
		_ = opsLog.Close()
		return nil, nil, fmt.Errorf("build llm router: %w", err)
	}

	runner := loop.New(reg, eng, approvals, journal, opsLog, router, tools.NewCommandCapturer(), cfg.Session)
	runner.Metrics = observability.NewLoopMetrics()

	var sessionStore storage.SessionStore
	var approvalStore storage.ApprovalStore
	if cfg.Session.Audit.DSN != "" {
		sessions, approvalsStore, serr := storage.OpenSQL(ctx, storage.Driver(journalDriver), sessionsDSN(cfg))
		if serr == nil {
			sessionStore = sessions
			approvalStore = approvalsStore
		}
	}
	if sessionStore == nil {
		sessionStore = storage.NewMemorySessionStore()
	}
	if approvalStore == nil {
		approvalStore = storage.NewMemoryApprovalStore()
	}
	runner.SessionStore = sessionStore
	runner.ApprovalStore = approvalStore

	closeFn := func() {
		sweeper.Stop()
		_ = sessionStore.Close()
		_ = approvalStore.Close()
		_ = journal.Close()
		_ = opsLog.Close()
	}
	return runner, closeFn, nil
}

// sessionsDSN derives a sibling DSN for session/approval rows so a
// sqlite deployment doesn't contend on the same file handle as the audit
// journal's *sql.DB; a postgres DSN is reused unchanged since multiple
// connections to the same database are the normal case there.
func sessionsDSN(cfg config.Config) string {
	if cfg.Session.Audit.Driver == "postgres" {
		return cfg.Session.Audit.DSN
	}
	return cfg.Session.Audit.DSN + ".sessions"
}

func envKeyFor(provider string) string {
	switch provider {
	case "anthropic":
		return "ANTHROPIC_API_KEY"
	case "openai":
		return "OPENAI_API_KEY"
	case "gemini":
		return "GEMINI_API_KEY"
	default:
		return ""
	}
}
