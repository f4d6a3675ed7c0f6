package approvalcli

import (
	"bufio"
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/haasonsaas/agentcore/internal/approval"
	"github.com/haasonsaas/agentcore/pkg/models"
)

func withTTY(t *testing.T, v bool) {
	t.Helper()
	prev := isTTY
	isTTY = func() bool { return v }
	t.Cleanup(func() { isTTY = prev })
}

func submit(q *approval.Queue, name string) models.ApprovalRequest {
	return q.Submit(models.ApprovalRequest{
		ID:          "req-1",
		Call:        models.ToolCall{ID: "call-1", Name: name, Arguments: map[string]string{"command": "ls"}},
		RiskLevel:   models.RiskMedium,
		Reasoning:   "deletion verb",
		RequestedAt: time.Now(),
		ExpiresAt:   time.Now().Add(time.Minute),
	})
}

func TestPresent_Approve(t *testing.T) {
	withTTY(t, true)
	q := approval.New()
	req := submit(q, "write_file")

	var out bytes.Buffer
	p := &Prompter{Queue: q, In: bufio.NewReader(strings.NewReader("approve\n")), Out: &out}
	p.Present(req)

	got, _ := q.Get(req.ID)
	if got.Status != models.ApprovalApproved {
		t.Fatalf("expected approved, got %s", got.Status)
	}
}

func TestPresent_Deny(t *testing.T) {
	withTTY(t, true)
	q := approval.New()
	req := submit(q, "delete_file")

	var out bytes.Buffer
	p := &Prompter{Queue: q, In: bufio.NewReader(strings.NewReader("deny\ntoo risky\n")), Out: &out}
	p.Present(req)

	got, _ := q.Get(req.ID)
	if got.Status != models.ApprovalDenied || got.Justification != "too risky" {
		t.Fatalf("expected denied with justification, got %+v", got)
	}
}

func TestPresent_ModifyCommand(t *testing.T) {
	withTTY(t, true)
	q := approval.New()
	req := submit(q, "execute_command")

	var out bytes.Buffer
	p := &Prompter{Queue: q, In: bufio.NewReader(strings.NewReader("modify ls -la\n")), Out: &out}
	p.Present(req)

	got, _ := q.Get(req.ID)
	if got.Status != models.ApprovalModified || got.ModifiedCommand != "ls -la" {
		t.Fatalf("expected modified command, got %+v", got)
	}
}

func TestPresent_Skip(t *testing.T) {
	withTTY(t, true)
	q := approval.New()
	req := submit(q, "write_file")

	var out bytes.Buffer
	p := &Prompter{Queue: q, In: bufio.NewReader(strings.NewReader("skip\n")), Out: &out}
	p.Present(req)

	got, _ := q.Get(req.ID)
	if got.Status != models.ApprovalPending {
		t.Fatalf("expected skip to leave request pending, got %s", got.Status)
	}
	if _, ok := q.Current(); ok {
		t.Fatalf("expected no current request after skip with only one pending")
	}
}

func TestPresent_RejectsUnrecognizedThenApproves(t *testing.T) {
	withTTY(t, true)
	q := approval.New()
	req := submit(q, "write_file")

	var out bytes.Buffer
	p := &Prompter{Queue: q, In: bufio.NewReader(strings.NewReader("huh?\napprove\n")), Out: &out}
	p.Present(req)

	got, _ := q.Get(req.ID)
	if got.Status != models.ApprovalApproved {
		t.Fatalf("expected eventual approval, got %s", got.Status)
	}
	if !strings.Contains(out.String(), "unrecognized") {
		t.Fatalf("expected a hint about the unrecognized input, got %q", out.String())
	}
}

func TestPresent_NoTTYLeavesPending(t *testing.T) {
	withTTY(t, false)
	q := approval.New()
	req := submit(q, "write_file")

	var out bytes.Buffer
	p := &Prompter{Queue: q, In: bufio.NewReader(strings.NewReader("")), Out: &out}
	p.Present(req)

	got, _ := q.Get(req.ID)
	if got.Status != models.ApprovalPending {
		t.Fatalf("expected no-TTY path to leave request untouched, got %s", got.Status)
	}
}
