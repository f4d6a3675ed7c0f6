// Package approvalcli is an interactive terminal approval UI that a human
// operator runs against the Approval Queue's pending-request stream (spec
// §12 "Interactive approval CLI"). The teacher has no terminal approval
// surface of its own — approvals are surfaced over a gateway/websocket to
// a separate frontend — so this is new, grounded in the teacher's
// promptPassword terminal-input idiom in cmd/nexus/handlers_channels.go
// (golang.org/x/term for TTY detection, bufio.Reader fallback otherwise)
// generalized from a password prompt to an approve/deny/modify prompt.
package approvalcli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"golang.org/x/term"

	"github.com/haasonsaas/agentcore/internal/approval"
	"github.com/haasonsaas/agentcore/pkg/models"
)

// Prompter drives one pass of human adjudication over a Queue's pending
// requests, reading decisions from in and writing prompts to out.
type Prompter struct {
	Queue *approval.Queue
	In    *bufio.Reader
	Out   io.Writer
}

// New builds a Prompter reading from stdin and writing to stdout.
func New(q *approval.Queue) *Prompter {
	return &Prompter{Queue: q, In: bufio.NewReader(os.Stdin), Out: os.Stdout}
}

// Watch polls the queue every interval until ctx is cancelled, presenting
// each newly promoted request to the operator in turn. It is meant to run
// as a background goroutine alongside an Execution Loop run, since
// approval.Queue.AwaitDecision blocks the loop on exactly the request this
// Prompter is expected to resolve.
func (p *Prompter) Watch(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = 500 * time.Millisecond
	}
	seen := make(map[string]bool)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			req, ok := p.Queue.Current()
			if !ok || seen[req.ID] {
				continue
			}
			seen[req.ID] = true
			p.Present(req)
		}
	}
}

// Present renders one request and blocks on operator input until a
// terminal decision is recorded (or the request expires out from under
// the operator, in which case Present reports that and returns).
func (p *Prompter) Present(req models.ApprovalRequest) {
	if !isTTY() {
		fmt.Fprintf(p.Out, "\n--- approval requested (no TTY attached, leaving pending until expiry) ---\n")
		fmt.Fprintf(p.Out, "tool: %s  risk: %s  expires: %s\n", req.Call.Name, req.RiskLevel, req.ExpiresAt.Format(time.RFC3339))
		return
	}
	fmt.Fprintf(p.Out, "\n--- approval requested ---\n")
	fmt.Fprintf(p.Out, "tool:      %s\n", req.Call.Name)
	fmt.Fprintf(p.Out, "risk:      %s\n", req.RiskLevel)
	fmt.Fprintf(p.Out, "reasoning: %s\n", req.Reasoning)
	fmt.Fprintf(p.Out, "impact:    %s\n", req.EstimatedImpact)
	fmt.Fprintf(p.Out, "expires:   %s\n", req.ExpiresAt.Format(time.RFC3339))
	for k, v := range req.Call.Arguments {
		fmt.Fprintf(p.Out, "  %s = %s\n", k, v)
	}

	for {
		fmt.Fprint(p.Out, "approve / deny / modify <command> / skip? ")
		line, err := p.In.ReadString('\n')
		if err != nil {
			return
		}
		line = strings.TrimSpace(line)
		switch {
		case line == "" || strings.EqualFold(line, "a") || strings.EqualFold(line, "approve"):
			if _, err := p.Queue.Approve(req.ID, "", ""); err != nil {
				fmt.Fprintf(p.Out, "could not approve: %v\n", err)
				return
			}
			return
		case strings.EqualFold(line, "d") || strings.EqualFold(line, "deny"):
			justification := p.readJustification()
			if _, err := p.Queue.Deny(req.ID, justification); err != nil {
				fmt.Fprintf(p.Out, "could not deny: %v\n", err)
			}
			return
		case strings.HasPrefix(strings.ToLower(line), "modify "):
			modified := strings.TrimSpace(line[len("modify "):])
			if modified == "" {
				fmt.Fprintln(p.Out, "modify requires a replacement command")
				continue
			}
			if _, err := p.Queue.Approve(req.ID, "operator-modified", modified); err != nil {
				fmt.Fprintf(p.Out, "could not approve modified command: %v\n", err)
			}
			return
		case strings.EqualFold(line, "s") || strings.EqualFold(line, "skip"):
			p.Queue.SkipCurrent()
			return
		default:
			fmt.Fprintln(p.Out, "unrecognized response; type approve, deny, modify <command>, or skip")
		}
	}
}

func (p *Prompter) readJustification() string {
	fmt.Fprint(p.Out, "justification (optional): ")
	line, err := p.In.ReadString('\n')
	if err != nil {
		return ""
	}
	return strings.TrimSpace(line)
}

// isTTY reports whether stdin is an interactive terminal, using the same
// fd-based detection the teacher uses before reading a password. It is a
// variable so tests can substitute a fixed value without needing a real
// pty.
var isTTY = func() bool {
	return term.IsTerminal(int(os.Stdin.Fd()))
}
