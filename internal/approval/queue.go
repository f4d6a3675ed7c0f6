// Package approval implements the Approval Queue (spec §4.D): it parks
// "ask" verdicts from the Policy & Risk Engine for human adjudication,
// enforces per-request expiry timeouts, and exposes a blocking
// await-decision primitive the Execution Loop suspends on. It is grounded
// in the teacher's internal/agent/approval.go ApprovalStore/
// MemoryApprovalStore state machine, generalized to the FIFO "promoted
// request" semantics and cron-driven expiry sweep spec.md calls for.
package approval

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/haasonsaas/agentcore/pkg/models"
)

// ErrNotFound is returned when an operation references an unknown request id.
var ErrNotFound = errors.New("approval: request not found")

// ErrTerminal is returned when a terminal transition is attempted on a
// request that has already reached a terminal status.
var ErrTerminal = errors.New("approval: request already terminal")

// Queue holds pending human decisions with bounded waits. All mutations
// go through its single mutex (the serialization point the concurrency
// model requires); readers observe consistent snapshots.
type Queue struct {
	mu       sync.Mutex
	order    []string // submission order, oldest first
	requests map[string]*models.ApprovalRequest
	current  string // id of the promoted (currently presented) request
	waiters  map[string][]chan struct{}
}

// New creates an empty Approval Queue.
func New() *Queue {
	return &Queue{
		requests: make(map[string]*models.ApprovalRequest),
		waiters:  make(map[string][]chan struct{}),
	}
}

// Submit appends request as pending. If no request is currently promoted,
// this one is promoted immediately, preserving the FIFO guarantee that the
// promoted request is always the earliest-submitted pending one.
func (q *Queue) Submit(req models.ApprovalRequest) models.ApprovalRequest {
	q.mu.Lock()
	defer q.mu.Unlock()
	req.Status = models.ApprovalPending
	cp := req
	q.requests[req.ID] = &cp
	q.order = append(q.order, req.ID)
	if q.current == "" {
		q.current = req.ID
	}
	return cp
}

// Get returns a snapshot of the request by id.
func (q *Queue) Get(id string) (models.ApprovalRequest, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	r, ok := q.requests[id]
	if !ok {
		return models.ApprovalRequest{}, false
	}
	return *r, true
}

// Current returns the promoted request, if any.
func (q *Queue) Current() (models.ApprovalRequest, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.current == "" {
		return models.ApprovalRequest{}, false
	}
	r, ok := q.requests[q.current]
	if !ok {
		return models.ApprovalRequest{}, false
	}
	return *r, true
}

// Pending returns every request still in the pending state, oldest first.
func (q *Queue) Pending() []models.ApprovalRequest {
	q.mu.Lock()
	defer q.mu.Unlock()
	var out []models.ApprovalRequest
	for _, id := range q.order {
		r := q.requests[id]
		if r != nil && r.Status == models.ApprovalPending {
			out = append(out, *r)
		}
	}
	return out
}

// SkipCurrent un-promotes the current request without recording a
// decision; the next-earliest pending request is promoted in its place.
func (q *Queue) SkipCurrent() {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.promoteNextLocked()
}

// Approve records a terminal "approved" decision, or "modified" when
// modifiedCommand is non-empty.
func (q *Queue) Approve(id, justification, modifiedCommand string) (models.ApprovalRequest, error) {
	status := models.ApprovalApproved
	if modifiedCommand != "" {
		status = models.ApprovalModified
	}
	return q.terminalTransition(id, status, justification, modifiedCommand)
}

// Deny records a terminal "denied" decision.
func (q *Queue) Deny(id, justification string) (models.ApprovalRequest, error) {
	return q.terminalTransition(id, models.ApprovalDenied, justification, "")
}

// ExpirePending flips every pending request whose ExpiresAt is before now
// to the "expired" terminal status and returns the ones that changed.
func (q *Queue) ExpirePending(now time.Time) []models.ApprovalRequest {
	q.mu.Lock()
	defer q.mu.Unlock()
	var expired []models.ApprovalRequest
	for _, id := range q.order {
		r := q.requests[id]
		if r == nil || r.Status != models.ApprovalPending {
			continue
		}
		if r.ExpiresAt.Before(now) {
			r.Status = models.ApprovalExpired
			decided := now
			r.DecidedAt = &decided
			expired = append(expired, *r)
			q.notifyLocked(id)
			if q.current == id {
				q.promoteNextLocked()
			}
		}
	}
	return expired
}

// AwaitDecision blocks until request id reaches a terminal status, the
// deadline passes, or ctx is cancelled. A deadline reached while the
// sweeper has not yet run forces a local expiry rather than returning
// stale pending state to the caller, so the Execution Loop never blocks
// past a request's own expires_at.
func (q *Queue) AwaitDecision(ctx context.Context, id string, deadline time.Time) (models.ApprovalRequest, error) {
	for {
		q.mu.Lock()
		r, ok := q.requests[id]
		if !ok {
			q.mu.Unlock()
			return models.ApprovalRequest{}, ErrNotFound
		}
		if r.Status.Terminal() {
			cp := *r
			q.mu.Unlock()
			return cp, nil
		}
		ch := make(chan struct{})
		q.waiters[id] = append(q.waiters[id], ch)
		q.mu.Unlock()

		wait := time.Until(deadline)
		if wait < 0 {
			wait = 0
		}
		timer := time.NewTimer(wait)
		select {
		case <-ch:
			timer.Stop()
			continue
		case <-timer.C:
			expired := q.ExpirePending(time.Now().Add(time.Nanosecond))
			for _, e := range expired {
				if e.ID == id {
					timer.Stop()
					return e, nil
				}
			}
			// Already terminal via a concurrent decision that raced the
			// timer; re-check once more.
			if r, ok := q.Get(id); ok && r.Status.Terminal() {
				return r, nil
			}
			return models.ApprovalRequest{}, errors.New("approval: deadline reached with no terminal status")
		case <-ctx.Done():
			timer.Stop()
			return models.ApprovalRequest{}, ctx.Err()
		}
	}
}

func (q *Queue) terminalTransition(id string, status models.ApprovalStatus, justification, modifiedCommand string) (models.ApprovalRequest, error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	r, ok := q.requests[id]
	if !ok {
		return models.ApprovalRequest{}, ErrNotFound
	}
	if r.Status.Terminal() {
		return models.ApprovalRequest{}, ErrTerminal
	}
	r.Status = status
	r.Justification = justification
	if modifiedCommand != "" {
		r.ModifiedCommand = modifiedCommand
	}
	now := time.Now()
	r.DecidedAt = &now
	q.notifyLocked(id)
	if q.current == id {
		q.promoteNextLocked()
	}
	return *r, nil
}

// promoteNextLocked selects the earliest-submitted still-pending request
// as current. Callers must hold q.mu.
func (q *Queue) promoteNextLocked() {
	q.current = ""
	for _, id := range q.order {
		if r := q.requests[id]; r != nil && r.Status == models.ApprovalPending {
			q.current = id
			return
		}
	}
}

// notifyLocked wakes every AwaitDecision waiter blocked on id. Callers
// must hold q.mu.
func (q *Queue) notifyLocked(id string) {
	for _, ch := range q.waiters[id] {
		close(ch)
	}
	delete(q.waiters, id)
}
