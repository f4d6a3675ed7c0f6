// Package policy implements the Policy & Risk Engine: a deterministic,
// ordered algorithm that turns a tool call plus an agent's security
// policy into one of {allow, ask, block}, grounded in the teacher's
// ApprovalChecker.Check precedence order and enriched with the
// compound-command/pipe-to-shell/dangerous-path idioms from the
// almost-yolo-guard rule engine.
package policy

import (
	"strings"

	"github.com/haasonsaas/agentcore/pkg/models"
)

// Decision is the outcome of evaluating one tool call.
type Decision struct {
	Outcome         Outcome
	EffectiveRisk   models.RiskLevel
	Reasoning       string
	EstimatedImpact string
}

// Outcome is the ternary verdict of the engine.
type Outcome string

const (
	Allow Outcome = "allow"
	Ask   Outcome = "ask"
	Block Outcome = "block"
)

// catastrophicPatterns are fixed, substring-matched signatures that always
// block regardless of any allowlist, per spec §4.C step 1.
var catastrophicPatterns = []string{
	"rm -rf /",
	"dd if=/dev/zero",
	":(){ :|:& };:",
	"chmod -R 777",
	"chown -R",
	"mkfs",
	"format",
	"> /dev/sda",
	"mv /* /dev/null",
}

// privilegeTokens mark shell commands that elevate privilege.
var privilegeTokens = []string{"sudo "}

// deletionVerbs and permissionVerbs bump risk to at least medium when
// present in a shell command (spec §4.C step 4).
var deletionVerbs = []string{"rm ", "del ", "rmdir", "unlink"}
var permissionVerbs = []string{"chmod", "chown"}

// Engine holds no state; it is a pure function of (call, policy).
type Engine struct{}

func New() *Engine { return &Engine{} }

// Evaluate runs the 5-step algorithm from spec §4.C against a tool call
// and the owning agent's policy. intrinsicRisk is the tool descriptor's
// floor; the effective risk returned is never lower than it.
func (e *Engine) Evaluate(call models.ToolCall, pol models.SecurityPolicy, intrinsicRisk models.RiskLevel) Decision {
	command := call.Arguments["command"]
	path := firstNonEmpty(call.Arguments["path"], call.Arguments["target"])

	// Step 1: denylist scan, including the fixed catastrophic-pattern set.
	if hit, pattern := matchesAny(command, pol.CommandDenylist); hit {
		return blockDecision(models.RiskCritical, "denylist match: "+pattern, path)
	}
	if hit, pattern := matchesAny(path, pol.CommandDenylist); hit {
		return blockDecision(models.RiskCritical, "denylist match: "+pattern, path)
	}
	if hit, pattern := matchesAny(command, catastrophicPatterns); hit {
		return blockDecision(models.RiskCritical, "matches critical pattern: "+pattern, path)
	}

	// Step 2: privilege check.
	privileged := startsWithAny(strings.TrimSpace(command), privilegeTokens)
	if privileged && !pol.AllowPrivilegedShell {
		return blockDecision(models.RiskCritical, "privileged shell invocation is not permitted", path)
	}

	// Step 3: allowlist gate. Empty allowlist means "any command".
	if len(pol.CommandAllowlist) > 0 {
		if ok, _ := matchesPrefix(command, pol.CommandAllowlist); !ok {
			return blockDecision(models.RiskHigh, "command does not match the allowlist", path)
		}
	}

	// Step 4: risk classification.
	risk := intrinsicRisk
	if matchesPathPrefix(path, pol.RestrictedPaths) {
		risk = models.Max(risk, models.RiskHigh)
	}
	if hasAny(command, deletionVerbs) || hasAny(command, permissionVerbs) {
		risk = models.Max(risk, models.RiskMedium)
	}
	if privileged {
		risk = models.Max(risk, models.RiskHigh)
	}

	reasoning, impact := describe(risk, privileged, path, command)

	// Step 5: auto-approve decision.
	if !pol.RequireApproval && risk <= pol.AutoApproveCeiling {
		return Decision{Outcome: Allow, EffectiveRisk: risk, Reasoning: reasoning, EstimatedImpact: impact}
	}
	return Decision{Outcome: Ask, EffectiveRisk: risk, Reasoning: reasoning, EstimatedImpact: impact}
}

func blockDecision(risk models.RiskLevel, reasoning, path string) Decision {
	return Decision{
		Outcome:         Block,
		EffectiveRisk:   risk,
		Reasoning:       reasoning,
		EstimatedImpact: impactFor(risk, path),
	}
}

func describe(risk models.RiskLevel, privileged bool, path, command string) (reasoning, impact string) {
	switch {
	case matchesPathPrefixRisk(risk, path):
		reasoning = "target path is sensitive"
	case privileged:
		reasoning = "command requires elevated privileges"
	case hasAny(command, deletionVerbs):
		reasoning = "command deletes data"
	case hasAny(command, permissionVerbs):
		reasoning = "command changes permissions or ownership"
	default:
		reasoning = "within normal operating risk"
	}
	return reasoning, impactFor(risk, path)
}

func matchesPathPrefixRisk(risk models.RiskLevel, path string) bool {
	return risk == models.RiskHigh && path != ""
}

func impactFor(risk models.RiskLevel, path string) string {
	switch {
	case risk == models.RiskCritical:
		return "files will be permanently deleted"
	case risk == models.RiskHigh:
		return "system-wide changes may occur"
	case path != "":
		return "Target: " + path
	default:
		return ""
	}
}

func matchesAny(s string, patterns []string) (bool, string) {
	if s == "" {
		return false, ""
	}
	for _, p := range patterns {
		if p != "" && strings.Contains(s, p) {
			return true, p
		}
	}
	return false, ""
}

func matchesPrefix(s string, prefixes []string) (bool, string) {
	for _, p := range prefixes {
		if p != "" && strings.HasPrefix(strings.TrimSpace(s), p) {
			return true, p
		}
	}
	return false, ""
}

func matchesPathPrefix(path string, prefixes []string) bool {
	if path == "" {
		return false
	}
	for _, p := range prefixes {
		if p != "" && strings.HasPrefix(path, p) {
			return true
		}
	}
	return false
}

func startsWithAny(s string, prefixes []string) bool {
	for _, p := range prefixes {
		if strings.HasPrefix(s, p) {
			return true
		}
	}
	return false
}

func hasAny(s string, substrs []string) bool {
	for _, sub := range substrs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}
