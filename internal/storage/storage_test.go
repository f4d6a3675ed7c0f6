package storage

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"

	"github.com/haasonsaas/agentcore/pkg/models"
)

func TestMemorySessionStore_CreateGetUpdateList(t *testing.T) {
	ctx := context.Background()
	s := NewMemorySessionStore()

	session := &models.ExecutionSession{
		ID:        "sess-1",
		AgentID:   "agent-1",
		Prompt:    "show me /etc/hosts",
		Status:    models.SessionRunning,
		StartedAt: time.Now(),
	}
	if err := s.Create(ctx, session); err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := s.Create(ctx, session); err != nil {
		t.Fatalf("duplicate create should overwrite, not error: %v", err)
	}

	got, err := s.Get(ctx, "sess-1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Prompt != session.Prompt {
		t.Fatalf("prompt mismatch: %q", got.Prompt)
	}

	got.Status = models.SessionCompleted
	now := time.Now()
	got.EndedAt = &now
	got.Result = &models.ExecutionResult{Success: true, Output: "done"}
	if err := s.Update(ctx, got); err != nil {
		t.Fatalf("update: %v", err)
	}

	updated, err := s.Get(ctx, "sess-1")
	if err != nil {
		t.Fatalf("get after update: %v", err)
	}
	if updated.Status != models.SessionCompleted || updated.Result == nil || !updated.Result.Success {
		t.Fatalf("update did not persist: %+v", updated)
	}

	// Mutating the returned copy must not affect the store's internal state.
	updated.Prompt = "mutated"
	reread, _ := s.Get(ctx, "sess-1")
	if reread.Prompt == "mutated" {
		t.Fatalf("store leaked internal pointer to caller")
	}

	if err := s.Update(ctx, &models.ExecutionSession{ID: "missing"}); err != ErrNotFound {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	list, err := s.ListByAgent(ctx, "agent-1", 10, 0)
	if err != nil || len(list) != 1 {
		t.Fatalf("list by agent: %v, %d results", err, len(list))
	}
}

func TestMemoryApprovalStore_UpsertGetListPending(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryApprovalStore()

	req := &models.ApprovalRequest{
		ID:          "req-1",
		SessionID:   "sess-1",
		AgentID:     "agent-1",
		RiskLevel:   models.RiskMedium,
		Status:      models.ApprovalPending,
		RequestedAt: time.Now(),
		ExpiresAt:   time.Now().Add(time.Minute),
	}
	if err := s.Upsert(ctx, req); err != nil {
		t.Fatalf("upsert: %v", err)
	}

	pending, err := s.ListPendingByAgent(ctx, "agent-1")
	if err != nil || len(pending) != 1 {
		t.Fatalf("list pending: %v, %d results", err, len(pending))
	}

	req.Status = models.ApprovalApproved
	decided := time.Now()
	req.DecidedAt = &decided
	if err := s.Upsert(ctx, req); err != nil {
		t.Fatalf("upsert terminal: %v", err)
	}

	pending, err = s.ListPendingByAgent(ctx, "agent-1")
	if err != nil || len(pending) != 0 {
		t.Fatalf("expected no pending after approval, got %d", len(pending))
	}

	got, err := s.Get(ctx, "req-1")
	if err != nil || got.Status != models.ApprovalApproved {
		t.Fatalf("get after decision: %v, %+v", err, got)
	}
}

func TestSQLSessionStore_SQLite(t *testing.T) {
	ctx := context.Background()
	sessions, approvals, err := OpenSQL(ctx, DriverSQLite, "file::memory:?cache=shared")
	if err != nil {
		t.Fatalf("open sql store: %v", err)
	}
	t.Cleanup(func() { _ = approvals.Close(); _ = sessions.Close() })

	session := &models.ExecutionSession{
		ID:      "sess-sql-1",
		AgentID: "agent-1",
		Prompt:  "count lines in main.go",
		Status:  models.SessionRunning,
		Steps: []models.ExecutionStep{
			{Kind: models.StepThinking, Timestamp: time.Now(), Detail: "starting"},
		},
		StartedAt: time.Now(),
	}
	if err := sessions.Create(ctx, session); err != nil {
		t.Fatalf("create: %v", err)
	}

	got, err := sessions.Get(ctx, session.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if len(got.Steps) != 1 || got.Steps[0].Detail != "starting" {
		t.Fatalf("steps round-trip failed: %+v", got.Steps)
	}

	got.Status = models.SessionCompleted
	now := time.Now()
	got.EndedAt = &now
	got.Result = &models.ExecutionResult{Success: true, Output: "12 lines"}
	if err := sessions.Update(ctx, got); err != nil {
		t.Fatalf("update: %v", err)
	}

	list, err := sessions.ListByAgent(ctx, "agent-1", 0, 0)
	if err != nil || len(list) != 1 || list[0].Status != models.SessionCompleted {
		t.Fatalf("list by agent: %v, %+v", err, list)
	}

	req := &models.ApprovalRequest{
		ID:          "req-sql-1",
		SessionID:   session.ID,
		AgentID:     "agent-1",
		RiskLevel:   models.RiskHigh,
		Reasoning:   "deletion verb",
		Status:      models.ApprovalPending,
		RequestedAt: time.Now(),
		ExpiresAt:   time.Now().Add(time.Minute),
	}
	if err := approvals.Upsert(ctx, req); err != nil {
		t.Fatalf("upsert approval: %v", err)
	}
	pending, err := approvals.ListPendingByAgent(ctx, "agent-1")
	if err != nil || len(pending) != 1 {
		t.Fatalf("list pending: %v, %d", err, len(pending))
	}

	if _, err := sessions.Get(ctx, "does-not-exist"); err != ErrNotFound {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

// TestSQLSessionStore_UpdateFailure exercises the error path with
// go-sqlmock, grounded in the teacher's internal/sessions/cockroach_test.go
// setupMockDB pattern: a real database is slow to coerce into failing, so
// the mock driver simulates the storage-layer error §7 says terminates a
// session with SessionFailed.
func TestSQLSessionStore_UpdateFailure(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	store := &SQLSessionStore{db: db, driver: DriverSQLite, owner: true}
	mock.ExpectExec("UPDATE execution_sessions SET").
		WillReturnError(sql.ErrConnDone)

	err = store.Update(context.Background(), &models.ExecutionSession{
		ID:        "sess-1",
		AgentID:   "agent-1",
		StartedAt: time.Now(),
	})
	if err == nil {
		t.Fatal("expected error from failing UPDATE")
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}
