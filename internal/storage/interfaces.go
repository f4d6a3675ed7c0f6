// Package storage implements persistence for Execution Sessions and
// Approval Requests (spec §6 "Persistence contracts"): create, update,
// get(id), and the domain-specific listings each collaborator needs
// (session history by agent, pending approvals). It is grounded in the
// teacher's internal/storage (StoreSet/AgentStore shape) and
// internal/sessions/cockroach.go (prepared-statement row store), adapted
// from the teacher's chat-session/agent-config rows to this core's
// ExecutionSession/ApprovalRequest rows. Agent and secret persistence
// stay external collaborators per spec §1 and are not implemented here.
package storage

import (
	"context"
	"errors"

	"github.com/haasonsaas/agentcore/pkg/models"
)

// ErrNotFound is returned when a lookup references an unknown id.
var ErrNotFound = errors.New("storage: not found")

// SessionStore persists Execution Sessions (spec §3, §6).
type SessionStore interface {
	Create(ctx context.Context, session *models.ExecutionSession) error
	Update(ctx context.Context, session *models.ExecutionSession) error
	Get(ctx context.Context, id string) (*models.ExecutionSession, error)
	ListByAgent(ctx context.Context, agentID string, limit, offset int) ([]*models.ExecutionSession, error)
	Close() error
}

// ApprovalStore persists Approval Requests for durable listing and audit
// replay across restarts. The live adjudication path (submit/await/
// approve/deny/expire) is owned by internal/approval.Queue; this store
// mirrors each transition for the "domain-specific listing" half of the
// contract (e.g. pending requests by agent, historical lookups by id).
type ApprovalStore interface {
	Upsert(ctx context.Context, req *models.ApprovalRequest) error
	Get(ctx context.Context, id string) (*models.ApprovalRequest, error)
	ListPendingByAgent(ctx context.Context, agentID string) ([]*models.ApprovalRequest, error)
	Close() error
}
