package storage

import (
	"context"
	"sort"
	"sync"

	"github.com/haasonsaas/agentcore/pkg/models"
)

// MemorySessionStore is an in-memory SessionStore, grounded in the
// teacher's storage.MemoryAgentStore — a mutex-guarded map with the same
// Create/Get/List/Update shape, adapted to ExecutionSession rows. It is
// the default store a process falls back to when no database DSN is
// configured, and what the test suite exercises against.
type MemorySessionStore struct {
	mu       sync.RWMutex
	sessions map[string]*models.ExecutionSession
}

// NewMemorySessionStore creates an empty in-memory SessionStore.
func NewMemorySessionStore() *MemorySessionStore {
	return &MemorySessionStore{sessions: make(map[string]*models.ExecutionSession)}
}

func cloneSession(s *models.ExecutionSession) *models.ExecutionSession {
	cp := *s
	cp.Steps = append([]models.ExecutionStep(nil), s.Steps...)
	if s.Result != nil {
		r := *s.Result
		cp.Result = &r
	}
	if s.EndedAt != nil {
		t := *s.EndedAt
		cp.EndedAt = &t
	}
	return &cp
}

func (m *MemorySessionStore) Create(ctx context.Context, session *models.ExecutionSession) error {
	if session == nil || session.ID == "" {
		return ErrNotFound
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[session.ID] = cloneSession(session)
	return nil
}

func (m *MemorySessionStore) Update(ctx context.Context, session *models.ExecutionSession) error {
	if session == nil || session.ID == "" {
		return ErrNotFound
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.sessions[session.ID]; !ok {
		return ErrNotFound
	}
	m.sessions[session.ID] = cloneSession(session)
	return nil
}

func (m *MemorySessionStore) Get(ctx context.Context, id string) (*models.ExecutionSession, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.sessions[id]
	if !ok {
		return nil, ErrNotFound
	}
	return cloneSession(s), nil
}

func (m *MemorySessionStore) ListByAgent(ctx context.Context, agentID string, limit, offset int) ([]*models.ExecutionSession, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []*models.ExecutionSession
	for _, s := range m.sessions {
		if agentID != "" && s.AgentID != agentID {
			continue
		}
		out = append(out, cloneSession(s))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartedAt.After(out[j].StartedAt) })
	if offset < 0 {
		offset = 0
	}
	if offset >= len(out) {
		return nil, nil
	}
	out = out[offset:]
	if limit > 0 && limit < len(out) {
		out = out[:limit]
	}
	return out, nil
}

func (m *MemorySessionStore) Close() error { return nil }

// MemoryApprovalStore is an in-memory ApprovalStore mirroring approval
// requests for durable listing, the same map-plus-mutex idiom as
// MemorySessionStore above.
type MemoryApprovalStore struct {
	mu       sync.RWMutex
	requests map[string]*models.ApprovalRequest
}

// NewMemoryApprovalStore creates an empty in-memory ApprovalStore.
func NewMemoryApprovalStore() *MemoryApprovalStore {
	return &MemoryApprovalStore{requests: make(map[string]*models.ApprovalRequest)}
}

func cloneApproval(r *models.ApprovalRequest) *models.ApprovalRequest {
	cp := *r
	if r.DecidedAt != nil {
		t := *r.DecidedAt
		cp.DecidedAt = &t
	}
	return &cp
}

func (m *MemoryApprovalStore) Upsert(ctx context.Context, req *models.ApprovalRequest) error {
	if req == nil || req.ID == "" {
		return ErrNotFound
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.requests[req.ID] = cloneApproval(req)
	return nil
}

func (m *MemoryApprovalStore) Get(ctx context.Context, id string) (*models.ApprovalRequest, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	r, ok := m.requests[id]
	if !ok {
		return nil, ErrNotFound
	}
	return cloneApproval(r), nil
}

func (m *MemoryApprovalStore) ListPendingByAgent(ctx context.Context, agentID string) ([]*models.ApprovalRequest, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []*models.ApprovalRequest
	for _, r := range m.requests {
		if r.Status != models.ApprovalPending {
			continue
		}
		if agentID != "" && r.AgentID != agentID {
			continue
		}
		out = append(out, cloneApproval(r))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].RequestedAt.Before(out[j].RequestedAt) })
	return out, nil
}

func (m *MemoryApprovalStore) Close() error { return nil }
