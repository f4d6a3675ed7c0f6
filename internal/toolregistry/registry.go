// Package toolregistry implements the Tool Registry & Dispatcher: a typed
// catalog of side-effecting operations the model may request, keyed by
// name, with per-call timeout enforcement and panic recovery.
package toolregistry

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/haasonsaas/agentcore/pkg/models"
)

// Tool parameter limits, mirrored from the teacher's resource-exhaustion
// guards.
const (
	MaxToolNameLength = 256
	MaxArgumentsSize  = 10 << 20
)

// Handler is the contract every built-in and host-installed tool
// implements. Execute accepts the argument map declared by its
// ToolDescriptor's parameter schema and produces a UTF-8 string result; a
// failing Execute should prefer returning an error over panicking, but the
// registry recovers panics regardless.
type Handler interface {
	Descriptor() models.ToolDescriptor
	Execute(ctx context.Context, args map[string]string) (string, error)
}

// Registry is the in-memory, thread-safe map of registered tools. It is
// written only during initialization and read-only thereafter, per the
// concurrency model's shared-resource policy.
type Registry struct {
	mu      sync.RWMutex
	tools   map[string]Handler
	metrics *Metrics
	schemas *schemaCache
}

// Metrics tracks dispatcher-level counters for observability.
type Metrics struct {
	mu         sync.Mutex
	Executions int64
	Failures   int64
	Timeouts   int64
	Panics     int64
}

func (m *Metrics) snapshot() Metrics {
	m.mu.Lock()
	defer m.mu.Unlock()
	return Metrics{Executions: m.Executions, Failures: m.Failures, Timeouts: m.Timeouts, Panics: m.Panics}
}

// New creates an empty registry.
func New() *Registry {
	return &Registry{tools: make(map[string]Handler), metrics: &Metrics{}, schemas: newSchemaCache()}
}

// Register adds a tool keyed by its descriptor name. Registering a
// duplicate name replaces the prior descriptor (last-wins) — this is the
// supported mechanism for a host to install custom tools before loop
// start.
func (r *Registry) Register(h Handler) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.tools[h.Descriptor().Name] = h
}

// Unregister removes a tool by name.
func (r *Registry) Unregister(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.tools, name)
}

// Get returns the handler registered under name, if any. update_self is
// never registered, so Get always misses for it — the Execution Loop
// intercepts that name before ever calling Get.
func (r *Registry) Get(name string) (Handler, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	h, ok := r.tools[name]
	return h, ok
}

// Descriptor is a convenience lookup returning just the descriptor.
func (r *Registry) Descriptor(name string) (models.ToolDescriptor, bool) {
	h, ok := r.Get(name)
	if !ok {
		return models.ToolDescriptor{}, false
	}
	return h.Descriptor(), true
}

// All returns every registered descriptor, unfiltered.
func (r *Registry) All() []models.ToolDescriptor {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]models.ToolDescriptor, 0, len(r.tools))
	for _, h := range r.tools {
		out = append(out, h.Descriptor())
	}
	return out
}

// Filtered returns descriptors restricted to enabledNames. A nil slice
// means "no filter" (all tools); an empty, non-nil slice means "none".
func (r *Registry) Filtered(enabledNames []string) []models.ToolDescriptor {
	if enabledNames == nil {
		return r.All()
	}
	allow := make(map[string]struct{}, len(enabledNames))
	for _, n := range enabledNames {
		allow[n] = struct{}{}
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]models.ToolDescriptor, 0, len(allow))
	for name, h := range r.tools {
		if _, ok := allow[name]; ok {
			out = append(out, h.Descriptor())
		}
	}
	return out
}

// Metrics returns a point-in-time snapshot of dispatch counters.
func (r *Registry) Metrics() Metrics {
	return r.metrics.snapshot()
}

// Dispatch runs a tool call with a wall-clock ceiling and panic recovery.
// timeout is the agent's max_execution_time_seconds. The returned string
// is the raw tool content; dispatch errors are distinguished from content
// results via the returned error so callers can classify audit severity
// (timeout vs. handler failure) without parsing strings.
func (r *Registry) Dispatch(ctx context.Context, call models.ToolCall, timeout time.Duration) (string, error) {
	if len(call.Name) > MaxToolNameLength {
		return "", NewToolError(call.Name, ErrKindValidation, fmt.Errorf("tool name exceeds maximum length of %d", MaxToolNameLength))
	}

	h, ok := r.Get(call.Name)
	if !ok {
		return "", NewToolError(call.Name, ErrKindNotFound, fmt.Errorf("tool not found: %s", call.Name))
	}

	if err := r.schemas.validateArguments(h.Descriptor(), call.Arguments); err != nil {
		return "", err
	}

	execCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	type outcome struct {
		content string
		err     error
	}
	resultCh := make(chan outcome, 1)

	go func() {
		defer func() {
			if p := recover(); p != nil {
				resultCh <- outcome{err: NewToolError(call.Name, ErrKindPanic, fmt.Errorf("panic: %v", p))}
			}
		}()
		content, err := h.Execute(execCtx, call.Arguments)
		resultCh <- outcome{content: content, err: err}
	}()

	select {
	case res := <-resultCh:
		r.metrics.mu.Lock()
		r.metrics.Executions++
		if res.err != nil {
			r.metrics.Failures++
			if te, ok := AsToolError(res.err); ok && te.Kind == ErrKindPanic {
				r.metrics.Panics++
			}
		}
		r.metrics.mu.Unlock()
		if res.err != nil {
			return "", res.err
		}
		return res.content, nil
	case <-execCtx.Done():
		r.metrics.mu.Lock()
		r.metrics.Executions++
		r.metrics.Failures++
		r.metrics.Timeouts++
		r.metrics.mu.Unlock()
		if ctx.Err() != nil {
			return "", NewToolError(call.Name, ErrKindTimeout, ctx.Err())
		}
		return "", NewToolError(call.Name, ErrKindTimeout, fmt.Errorf("execution timed out after %s", timeout))
	}
}
