// Package loop implements the Execution Loop: it carries a session from a
// user prompt to a terminal result, driving the LLM client, the Tool
// Registry & Dispatcher, the Policy & Risk Engine, the Approval Queue and
// the Audit Journal to completion. It is grounded in the teacher's
// internal/agent.AgenticLoop (loop.go): the phase-based Init/Stream/
// ExecuteTools/Continue state machine is kept, generalized from a
// streaming chat loop to the bounded, audited, policy-gated tool loop
// this system calls for.
package loop

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/haasonsaas/agentcore/internal/approval"
	"github.com/haasonsaas/agentcore/internal/audit"
	"github.com/haasonsaas/agentcore/internal/config"
	"github.com/haasonsaas/agentcore/internal/llm"
	"github.com/haasonsaas/agentcore/internal/observability"
	"github.com/haasonsaas/agentcore/internal/policy"
	"github.com/haasonsaas/agentcore/internal/storage"
	"github.com/haasonsaas/agentcore/internal/toolregistry"
	"github.com/haasonsaas/agentcore/internal/toolregistry/tools"
	"github.com/haasonsaas/agentcore/pkg/models"
)

// MaxDelegationDepth bounds agent-to-agent delegation. The loop itself
// never delegates; it only refuses to run past this depth, leaving
// fan-out to the caller (see the design notes on agent-to-agent
// delegation).
const MaxDelegationDepth = 20

// updateSelfTool is the sentinel tool name the loop intercepts before
// Registry.Dispatch ever sees it.
const updateSelfTool = "update_self"

var hostname = lookupHostname()

func lookupHostname() string {
	h, err := os.Hostname()
	if err != nil {
		return "unknown"
	}
	return h
}

// Runner wires every collaborator the Execution Loop needs. A single
// Runner is shared across concurrently executing sessions; every field
// is either read-only after construction or internally synchronized
// (Registry, Policy Engine, Approval Queue, Audit Journal all satisfy
// that contract already).
type Runner struct {
	Registry  *toolregistry.Registry
	Policy    *policy.Engine
	Approvals *approval.Queue
	Journal   *audit.Journal
	OpsLog    *audit.Logger
	LLM       *llm.Router
	Capturer  tools.Capturer
	Session   config.SessionConfig
	Metrics   *observability.LoopMetrics

	// Timeline records a replayable event sequence for one Run (session
	// start/end, each tool dispatch) into an observability.EventStore, for
	// post-hoc debugging of a run distinct from the Audit Journal's
	// security-focused record. Nil-safe: a Runner built without one skips
	// this recording entirely.
	Timeline *observability.EventRecorder

	// SessionStore and ApprovalStore are optional persistence hooks (spec
	// §6 "Persistence contracts"): when set, every session create/update
	// and every approval-request submission/decision is mirrored for
	// durable listing. Both are nil-safe; a Runner built without them
	// behaves exactly as before they existed.
	SessionStore  storage.SessionStore
	ApprovalStore storage.ApprovalStore
}

// New builds a Runner. opsLog may be nil (and a disabled *audit.Logger is
// safe to pass: its Log method is a no-op when Config.Enabled is false).
// Metrics defaults to a freshly registered LoopMetrics; callers that embed
// multiple Runners in one process should build one LoopMetrics and assign
// it to every Runner's Metrics field instead, since promauto registration
// panics on a duplicate metric name.
func New(registry *toolregistry.Registry, eng *policy.Engine, approvals *approval.Queue, journal *audit.Journal, opsLog *audit.Logger, router *llm.Router, capturer tools.Capturer, sessionCfg config.SessionConfig) *Runner {
	return &Runner{
		Registry:  registry,
		Policy:    eng,
		Approvals: approvals,
		Journal:   journal,
		OpsLog:    opsLog,
		LLM:       router,
		Capturer:  capturer,
		Session:   sessionCfg,
	}
}

// Options configures one Run invocation.
type Options struct {
	// AgentMode grants the full tool set regardless of the agent's
	// enabled_tools, raises the iteration ceiling, and enables vision
	// feedback after screen-mutating tool calls.
	AgentMode bool

	// DelegationDepth is the agent-to-agent nesting depth this session
	// runs at. The loop refuses to start past MaxDelegationDepth.
	DelegationDepth int
}

// state carries everything that changes across iterations of one Run.
type state struct {
	session      *models.ExecutionSession
	messages     []llm.Message
	enabledTools []string
	agent        models.Agent
	iteration    int
	finalText    string
	dispatched   map[string]bool // tool names dispatched this iteration, for vision feedback
}

// Run executes agent against prompt to completion, returning the finished
// ExecutionSession. It never returns a non-nil error for tool-level
// failures (policy blocks, approval denials, handler errors and
// timeouts) — those are surfaced to the model as text and recorded on
// the session. A non-nil error indicates an infrastructure failure: LLM
// transport failure, or a storage failure outside the audit journal.
func (r *Runner) Run(ctx context.Context, agent models.Agent, prompt string, opts Options) (*models.ExecutionSession, error) {
	if opts.DelegationDepth > MaxDelegationDepth {
		return nil, fmt.Errorf("loop: delegation depth %d exceeds maximum of %d", opts.DelegationDepth, MaxDelegationDepth)
	}

	st := &state{
		session: &models.ExecutionSession{
			ID:        uuid.NewString(),
			AgentID:   agent.ID,
			Prompt:    prompt,
			Status:    models.SessionRunning,
			StartedAt: time.Now(),
		},
		agent: agent.Snapshot(),
	}
	st.session.AppendStep(models.ExecutionStep{Kind: models.StepThinking, Timestamp: time.Now(), Detail: "starting session"})
	r.audit(ctx, audit.EventSessionStarted, models.SeverityInfo, st.session.ID, agent.ID, "run", prompt, models.ResultSuccess, nil)
	r.persistSessionCreate(ctx, st.session)

	runStarted := time.Now()
	if r.Timeline != nil {
		ctx = observability.AddRunID(ctx, st.session.ID)
		ctx = observability.AddSessionID(ctx, st.session.ID)
		ctx = observability.AddAgentID(ctx, agent.ID)
		_ = r.Timeline.RecordRunStart(ctx, st.session.ID, map[string]interface{}{"agent_id": agent.ID, "agent_mode": opts.AgentMode})
	}

	st.messages = []llm.Message{{Role: llm.RoleUser, Content: prompt}}
	st.enabledTools = r.effectiveToolNames(agent, opts.AgentMode)

	ceiling := r.Session.MaxIterations
	if opts.AgentMode {
		ceiling = r.Session.AgentModeMaxIterations
	}

	var loopErr error
	cancelled := false

iterate:
	for st.iteration < ceiling {
		select {
		case <-ctx.Done():
			cancelled = true
			break iterate
		default:
		}

		resp, err := r.LLM.SendMessage(ctx, llm.Request{
			Provider:     st.agent.Provider,
			Model:        st.agent.Model,
			Messages:     st.messages,
			SystemPrompt: st.agent.SystemPrompt,
			Tools:        r.Registry.Filtered(st.enabledTools),
			Temperature:  st.agent.Temperature,
			MaxTokens:    st.agent.MaxTokens,
		})
		if err != nil {
			loopErr = fmt.Errorf("llm transport failure: %w", err)
			break iterate
		}

		st.messages = append(st.messages, llm.Message{Role: llm.RoleAssistant, Content: resp.Content, ToolCalls: resp.ToolCalls})
		st.session.AppendStep(models.ExecutionStep{Kind: models.StepModelResponse, Timestamp: time.Now(), Detail: resp.Content})

		if len(resp.ToolCalls) == 0 {
			st.finalText = resp.Content
			break iterate
		}

		st.dispatched = make(map[string]bool, len(resp.ToolCalls))
		for _, call := range resp.ToolCalls {
			select {
			case <-ctx.Done():
				cancelled = true
				break iterate
			default:
			}
			r.handleToolCall(ctx, st, call)
		}

		if opts.AgentMode {
			r.visionFeedback(ctx, st)
		}

		st.iteration++
	}

	if r.Metrics != nil {
		r.Metrics.RecordIteration(opts.AgentMode, st.iteration)
	}

	if cancelled {
		st.session.Status = models.SessionCancelled
		now := time.Now()
		st.session.EndedAt = &now
		st.session.Result = &models.ExecutionResult{Success: false, Output: st.finalText, Error: "cancelled"}
		r.audit(ctx, audit.EventSessionEnded, models.SeverityWarning, st.session.ID, agent.ID, "cancelled", "", models.ResultPartial, nil)
		r.recordSessionEnd(ctx, st.session, models.SessionCancelled)
		r.recordRunEnd(ctx, runStarted, fmt.Errorf("cancelled"))
		return st.session, nil
	}

	if loopErr != nil {
		st.session.Status = models.SessionFailed
		now := time.Now()
		st.session.EndedAt = &now
		st.session.Result = &models.ExecutionResult{Success: false, Output: st.finalText, Error: loopErr.Error()}
		r.audit(ctx, audit.EventSessionEnded, models.SeverityError, st.session.ID, agent.ID, "failed", loopErr.Error(), models.ResultFailure, nil)
		r.recordSessionEnd(ctx, st.session, models.SessionFailed)
		r.recordRunEnd(ctx, runStarted, loopErr)
		return st.session, loopErr
	}

	if st.finalText == "" && st.iteration >= ceiling {
		st.session.AppendStep(models.ExecutionStep{Kind: models.StepError, Timestamp: time.Now(), Detail: "max iterations"})
		st.session.Status = models.SessionFailed
		now := time.Now()
		st.session.EndedAt = &now
		st.session.Result = &models.ExecutionResult{Success: false, Output: st.finalText, Error: "max iterations"}
		r.audit(ctx, audit.EventSessionEnded, models.SeverityError, st.session.ID, agent.ID, "max iterations", "", models.ResultFailure, nil)
		r.recordSessionEnd(ctx, st.session, models.SessionFailed)
		r.recordRunEnd(ctx, runStarted, fmt.Errorf("max iterations"))
		return st.session, nil
	}

	st.session.Status = models.SessionCompleted
	now := time.Now()
	st.session.EndedAt = &now
	st.session.Result = &models.ExecutionResult{Success: true, Output: st.finalText}
	r.audit(ctx, audit.EventSessionEnded, models.SeverityInfo, st.session.ID, agent.ID, "completed", "", models.ResultSuccess, nil)
	r.recordSessionEnd(ctx, st.session, models.SessionCompleted)
	r.recordRunEnd(ctx, runStarted, nil)
	return st.session, nil
}

// recordRunEnd closes out the Timeline's run-level event, if a Timeline is
// configured.
func (r *Runner) recordRunEnd(ctx context.Context, started time.Time, err error) {
	if r.Timeline == nil {
		return
	}
	_ = r.Timeline.RecordRunEnd(ctx, time.Since(started), err)
}

func (r *Runner) recordSessionEnd(ctx context.Context, session *models.ExecutionSession, status models.SessionStatus) {
	if r.Metrics != nil {
		r.Metrics.RecordSessionEnd(string(status))
	}
	r.persistSessionUpdate(ctx, session)
}

// persistSessionCreate mirrors a freshly started session into SessionStore,
// if configured. A storage failure here is not a loop-terminating error
// (per §7: only infrastructure failures in the session/approval store
// terminate the loop, and this mirror is strictly additive to the
// in-memory session already returned to the caller) — it is logged to
// the ambient operational logger and otherwise swallowed.
func (r *Runner) persistSessionCreate(ctx context.Context, session *models.ExecutionSession) {
	if r.SessionStore == nil {
		return
	}
	if err := r.SessionStore.Create(ctx, session); err != nil {
		if r.OpsLog != nil {
			r.OpsLog.LogError(ctx, audit.EventAgentError, "session_store_create", err.Error(), nil, session.ID)
		}
	}
}

func (r *Runner) persistSessionUpdate(ctx context.Context, session *models.ExecutionSession) {
	if r.SessionStore == nil {
		return
	}
	if err := r.SessionStore.Update(ctx, session); err != nil {
		if r.OpsLog != nil {
			r.OpsLog.LogError(ctx, audit.EventAgentError, "session_store_update", err.Error(), nil, session.ID)
		}
	}
}

// persistApproval mirrors one approval-request transition into
// ApprovalStore, if configured. Same swallow-on-failure rule as session
// persistence above.
func (r *Runner) persistApproval(ctx context.Context, req models.ApprovalRequest) {
	if r.ApprovalStore == nil {
		return
	}
	if err := r.ApprovalStore.Upsert(ctx, &req); err != nil {
		if r.OpsLog != nil {
			r.OpsLog.LogError(ctx, audit.EventAgentError, "approval_store_upsert", err.Error(), nil, req.SessionID)
		}
	}
}

// effectiveToolNames computes the tool set for one Run, per step 3:
// agent_mode sees everything; otherwise the agent's own whitelist, with
// update_self always included (it never reaches Registry.Filtered as a
// real lookup, but callers pass the full enabled set to the LLM so the
// model can request it).
func (r *Runner) effectiveToolNames(agent models.Agent, agentMode bool) []string {
	if agentMode {
		return nil // nil -> Registry.Filtered returns everything
	}
	names := append([]string(nil), agent.EnabledTools...)
	found := false
	for _, n := range names {
		if n == updateSelfTool {
			found = true
			break
		}
	}
	if !found {
		names = append(names, updateSelfTool)
	}
	return names
}

// handleToolCall resolves, intercepts, policy-checks, possibly parks for
// approval, and dispatches a single tool call, appending its outcome as
// a tool_result step and a tool message.
func (r *Runner) handleToolCall(ctx context.Context, st *state, call models.ToolCall) {
	st.session.AppendStep(models.ExecutionStep{Kind: models.StepToolCall, Timestamp: time.Now(), ToolCall: &call})

	descriptor, ok := r.Registry.Descriptor(call.Name)
	if !ok && call.Name != updateSelfTool {
		r.recordToolResult(st, call, fmt.Sprintf("Tool not found: %s", call.Name), true)
		return
	}

	if call.Name == updateSelfTool {
		confirmation := r.applyUpdateSelf(&st.agent, call.Arguments)
		r.audit(ctx, audit.EventConfigurationChanged, models.SeverityInfo, st.session.ID, st.agent.ID, "update_self", confirmation, models.ResultSuccess, nil)
		r.recordToolResult(st, call, confirmation, false)
		return
	}

	decision := r.Policy.Evaluate(call, st.agent.Policy, descriptor.IntrinsicRisk)
	if r.Metrics != nil {
		r.Metrics.RecordPolicyDecision(call.Name, string(decision.Outcome))
	}

	switch decision.Outcome {
	case policy.Block:
		r.audit(ctx, audit.EventSecurityViolation, models.SeverityCritical, st.session.ID, st.agent.ID, call.Name, decision.Reasoning, models.ResultBlocked, map[string]string{"risk": decision.EffectiveRisk.String()})
		r.recordToolResult(st, call, fmt.Sprintf("Blocked: %s", decision.Reasoning), true)
		return
	case policy.Ask:
		if !r.awaitApproval(ctx, st, call, decision) {
			return
		}
	}

	r.dispatchAndRecord(ctx, st, call, decision)
}

// awaitApproval parks an "ask" decision and blocks on the approval
// queue's deadline. It returns true when the call should proceed to
// dispatch (possibly with a modified command substituted into call).
func (r *Runner) awaitApproval(ctx context.Context, st *state, call models.ToolCall, decision policy.Decision) bool {
	now := time.Now()
	timeout := r.Session.ApprovalTimeout
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	req := models.ApprovalRequest{
		ID:              uuid.NewString(),
		SessionID:       st.session.ID,
		AgentID:         st.agent.ID,
		Call:            call,
		RiskLevel:       decision.EffectiveRisk,
		Reasoning:       decision.Reasoning,
		EstimatedImpact: decision.EstimatedImpact,
		RequestedAt:     now,
		ExpiresAt:       now.Add(timeout),
	}
	submitted := r.Approvals.Submit(req)
	st.session.AppendStep(models.ExecutionStep{Kind: models.StepApprovalRequested, Timestamp: time.Now(), ToolCall: &call, Detail: decision.Reasoning})
	r.persistApproval(ctx, submitted)

	decided, err := r.Approvals.AwaitDecision(ctx, submitted.ID, submitted.ExpiresAt)
	if err != nil {
		r.recordToolResult(st, call, "Error: approval wait failed", true)
		return false
	}

	st.session.AppendStep(models.ExecutionStep{Kind: models.StepApprovalDecision, Timestamp: time.Now(), Detail: string(decided.Status)})
	r.persistApproval(ctx, decided)

	if r.Metrics != nil {
		latency := time.Since(req.RequestedAt).Seconds()
		if decided.DecidedAt != nil {
			latency = decided.DecidedAt.Sub(req.RequestedAt).Seconds()
		}
		r.Metrics.RecordApprovalTerminal(string(decided.Status), latency)
	}

	switch decided.Status {
	case models.ApprovalApproved:
		r.audit(ctx, audit.EventApprovalGranted, models.SeverityInfo, st.session.ID, st.agent.ID, call.Name, decided.Justification, models.ResultSuccess, nil)
		return true
	case models.ApprovalModified:
		if decided.ModifiedCommand != "" {
			call.Arguments["command"] = decided.ModifiedCommand
		}
		r.audit(ctx, audit.EventApprovalGranted, models.SeverityInfo, st.session.ID, st.agent.ID, call.Name, "modified: "+decided.ModifiedCommand, models.ResultSuccess, nil)
		return true
	case models.ApprovalExpired:
		r.audit(ctx, audit.EventApprovalExpired, models.SeverityWarning, st.session.ID, st.agent.ID, call.Name, "", models.ResultBlocked, nil)
		r.recordToolResult(st, call, "Error: approval timed out", true)
		return false
	default: // denied
		detail := decided.Justification
		result := fmt.Sprintf("Denied by user: %s", detail)
		if detail == "" {
			result = "Denied by user"
		}
		r.audit(ctx, audit.EventApprovalDenied, models.SeverityWarning, st.session.ID, st.agent.ID, call.Name, detail, models.ResultBlocked, nil)
		r.recordToolResult(st, call, result, true)
		return false
	}
}

// dispatchAndRecord runs the handler within its time budget and records
// the outcome with the severity taxonomy standardized in the design
// notes: success -> info, handler failure -> error, timeout -> warning.
func (r *Runner) dispatchAndRecord(ctx context.Context, st *state, call models.ToolCall, decision policy.Decision) {
	timeout := st.agent.Policy.MaxExecutionTime
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	if r.Timeline != nil {
		toolCtx := observability.AddToolCallID(ctx, call.ID)
		_ = r.Timeline.RecordToolStart(toolCtx, call.Name, call.Arguments)
	}

	started := time.Now()
	content, err := r.Registry.Dispatch(ctx, call, timeout)
	elapsed := time.Since(started).Seconds()
	if err != nil {
		severity := models.SeverityError
		outcome := "error"
		if te, ok := toolregistry.AsToolError(err); ok && te.Kind == toolregistry.ErrKindTimeout {
			severity = models.SeverityWarning
			outcome = "timeout"
			content = "Error: timeout"
		} else {
			content = fmt.Sprintf("Error: %v", err)
		}
		if r.Metrics != nil {
			r.Metrics.RecordToolDispatch(call.Name, outcome, elapsed)
		}
		r.audit(ctx, audit.EventCommandExecuted, severity, st.session.ID, st.agent.ID, call.Name, err.Error(), models.ResultFailure, map[string]string{"risk": decision.EffectiveRisk.String()})
		r.recordToolResult(st, call, content, true)
		if r.Timeline != nil {
			toolCtx := observability.AddToolCallID(ctx, call.ID)
			_ = r.Timeline.RecordToolEnd(toolCtx, call.Name, time.Since(started), nil, err)
		}
		return
	}

	if r.Metrics != nil {
		r.Metrics.RecordToolDispatch(call.Name, "success", elapsed)
	}
	r.audit(ctx, audit.EventCommandExecuted, models.SeverityInfo, st.session.ID, st.agent.ID, call.Name, "", models.ResultSuccess, map[string]string{"risk": decision.EffectiveRisk.String()})
	r.recordToolResult(st, call, content, false)
	st.dispatched[call.Name] = true
	if r.Timeline != nil {
		toolCtx := observability.AddToolCallID(ctx, call.ID)
		_ = r.Timeline.RecordToolEnd(toolCtx, call.Name, time.Since(started), content, nil)
	}
}

// recordToolResult appends a tool_result step and the corresponding tool
// message the next LLM call will see.
func (r *Runner) recordToolResult(st *state, call models.ToolCall, content string, isError bool) {
	st.session.AppendStep(models.ExecutionStep{Kind: models.StepToolResult, Timestamp: time.Now(), Detail: content, ToolCall: &call})
	st.messages = append(st.messages, llm.Message{Role: llm.RoleTool, Content: content, ToolCallID: call.ID, ToolCallName: call.Name})
}

// visionFeedback implements step 4.e: if any tool dispatched this
// iteration is screen-mutating, pause for the UI to settle, capture the
// primary display, and inject it as a user-role observation.
func (r *Runner) visionFeedback(ctx context.Context, st *state) {
	if r.Capturer == nil {
		return
	}
	triggered := false
	for name := range st.dispatched {
		if toolregistry.ScreenMutatingTools[name] {
			triggered = true
			break
		}
	}
	if !triggered {
		return
	}

	delay := r.Session.VisionSettleDelay
	if delay <= 0 {
		delay = 900 * time.Millisecond
	}
	select {
	case <-time.After(delay):
	case <-ctx.Done():
		return
	}

	img, err := r.Capturer.Capture(ctx, 0, 1440)
	if err != nil {
		// Screen capture is a pluggable, best-effort capability; a
		// platform without one degrades silently.
		return
	}

	st.messages = append(st.messages, llm.Message{
		Role:    llm.RoleUser,
		Content: "Here is the current screen state after your last action. Use it as the authoritative ground truth for your next step.",
		Images:  [][]byte{img},
	})
	st.session.AppendStep(models.ExecutionStep{Kind: models.StepScreenshotObservation, Timestamp: time.Now()})
}

// audit writes one entry to the Audit Journal and mirrors it to the
// ambient operational logger (§9's "observable published state" becomes
// an emitted event rather than shared mutable state; OpsLog is that
// event stream for general tracing, distinct from the journal's
// queryable security record). The ops-log call is routed through the
// Logger method matching eventType so the operational stream carries
// the same tool/permission shape the audit journal records, rather than
// flattening every event to one generic action log.
func (r *Runner) audit(ctx context.Context, eventType audit.EventType, severity models.Severity, sessionID, agentID, action, detail string, result models.Result, extra map[string]string) {
	entry := models.AuditEntry{
		EventType: string(eventType),
		Severity:  severity,
		AgentID:   agentID,
		SessionID: sessionID,
		Action:    action,
		Target:    detail,
		Result:    result,
		Detail:    extra,
		Host:      hostname,
	}
	if r.Journal != nil {
		if _, err := r.Journal.Log(ctx, entry); err != nil {
			// Storage failure in audit is swallowed per the error
			// handling design: logged to stderr only.
			fmt.Fprintf(os.Stderr, "audit: log failed: %v\n", err)
		}
	}
	if r.OpsLog == nil {
		return
	}
	switch eventType {
	case audit.EventCommandExecuted:
		r.OpsLog.LogToolCompletion(ctx, action, "", result == models.ResultSuccess, detail, 0, sessionID)
	case audit.EventSecurityViolation:
		r.OpsLog.LogToolDenied(ctx, action, "", detail, extra["risk"], sessionID)
	case audit.EventApprovalGranted, audit.EventApprovalDenied:
		r.OpsLog.LogPermissionDecision(ctx, eventType == audit.EventApprovalGranted, action, "", "execute", detail, sessionID)
	default:
		r.OpsLog.LogAgentAction(ctx, agentID, action, string(eventType), map[string]any{"result": string(result), "detail": detail}, sessionID)
	}
}

// applyUpdateSelf mutates the in-flight agent snapshot per §4.B/§9: name,
// system prompt, model and temperature may change; temperature is
// clamped into [0, 2] rather than rejected. The handler map never sees
// this call.
func (r *Runner) applyUpdateSelf(agent *models.Agent, args map[string]string) string {
	var changed []string
	if name, ok := args["name"]; ok && name != "" {
		agent.Name = name
		changed = append(changed, "name")
	}
	if sp, ok := args["system_prompt"]; ok {
		agent.SystemPrompt = sp
		changed = append(changed, "system_prompt")
	}
	if model, ok := args["model"]; ok && model != "" {
		agent.Model = model
		changed = append(changed, "model")
	}
	if tempStr, ok := args["temperature"]; ok {
		if t, err := strconv.ParseFloat(tempStr, 64); err == nil {
			agent.Temperature = clampTemperature(t)
			changed = append(changed, "temperature")
		}
	}
	agent.UpdatedAt = time.Now()
	if len(changed) == 0 {
		return "No changes applied."
	}
	return fmt.Sprintf("Updated: %v", changed)
}

func clampTemperature(t float64) float64 {
	if t < 0 {
		return 0
	}
	if t > 2 {
		return 2
	}
	return t
}
