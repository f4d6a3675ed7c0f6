package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// LoopMetrics instruments the Execution Loop, Policy & Risk Engine, and
// Approval Queue (spec §12: "not named in spec.md, but part of the
// ambient stack every teacher service carries"), separate from the
// general-purpose Metrics struct so a host that only runs the execution
// core need not register the channel/webhook families above.
type LoopMetrics struct {
	// Iterations observes how many reason-act-observe iterations a
	// session consumed before reaching a terminal state.
	Iterations *prometheus.HistogramVec

	// SessionsTotal counts sessions by terminal status
	// (completed|failed|cancelled).
	SessionsTotal *prometheus.CounterVec

	// PolicyDecisions counts Policy & Risk Engine outcomes
	// (allow|ask|block) by tool name.
	PolicyDecisions *prometheus.CounterVec

	// ApprovalLatency measures the wall-clock time an approval request
	// spends pending before a terminal transition.
	ApprovalLatency *prometheus.HistogramVec

	// ApprovalOutcomes counts approval terminal transitions
	// (approved|modified|denied|expired).
	ApprovalOutcomes *prometheus.CounterVec

	// ToolDispatchDuration measures registry dispatch latency per tool.
	ToolDispatchDuration *prometheus.HistogramVec
}

// NewLoopMetrics registers the loop/policy/approval metric family.
func NewLoopMetrics() *LoopMetrics {
	return &LoopMetrics{
		Iterations: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "agentcore_loop_iterations",
				Help:    "Number of reason-act-observe iterations per session",
				Buckets: []float64{1, 2, 3, 5, 8, 10, 15, 20, 30},
			},
			[]string{"agent_mode"},
		),
		SessionsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "agentcore_sessions_total",
				Help: "Total execution sessions by terminal status",
			},
			[]string{"status"},
		),
		PolicyDecisions: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "agentcore_policy_decisions_total",
				Help: "Policy & Risk Engine outcomes by tool and decision",
			},
			[]string{"tool", "outcome"},
		),
		ApprovalLatency: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "agentcore_approval_latency_seconds",
				Help:    "Time an approval request spent pending before a terminal transition",
				Buckets: []float64{1, 5, 15, 30, 60, 120, 300, 600},
			},
			[]string{"outcome"},
		),
		ApprovalOutcomes: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "agentcore_approval_outcomes_total",
				Help: "Approval requests by terminal outcome",
			},
			[]string{"outcome"},
		),
		ToolDispatchDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "agentcore_tool_dispatch_duration_seconds",
				Help:    "Tool Registry dispatch latency by tool name",
				Buckets: []float64{0.01, 0.05, 0.1, 0.5, 1, 5, 10, 30, 60},
			},
			[]string{"tool", "outcome"},
		),
	}
}

// RecordIteration observes one completed loop iteration for a session that
// has not yet reached a terminal state.
func (m *LoopMetrics) RecordIteration(agentMode bool, iterations int) {
	m.Iterations.WithLabelValues(boolLabel(agentMode)).Observe(float64(iterations))
}

// RecordSessionEnd tallies a session's terminal status.
func (m *LoopMetrics) RecordSessionEnd(status string) {
	m.SessionsTotal.WithLabelValues(status).Inc()
}

// RecordPolicyDecision tallies one Policy & Risk Engine verdict.
func (m *LoopMetrics) RecordPolicyDecision(tool, outcome string) {
	m.PolicyDecisions.WithLabelValues(tool, outcome).Inc()
}

// RecordApprovalTerminal tallies an approval's terminal transition and its
// pending latency.
func (m *LoopMetrics) RecordApprovalTerminal(outcome string, latencySeconds float64) {
	m.ApprovalOutcomes.WithLabelValues(outcome).Inc()
	m.ApprovalLatency.WithLabelValues(outcome).Observe(latencySeconds)
}

// RecordToolDispatch observes one Tool Registry dispatch.
func (m *LoopMetrics) RecordToolDispatch(tool, outcome string, durationSeconds float64) {
	m.ToolDispatchDuration.WithLabelValues(tool, outcome).Observe(durationSeconds)
}

func boolLabel(b bool) string {
	if b {
		return "true"
	}
	return "false"
}
