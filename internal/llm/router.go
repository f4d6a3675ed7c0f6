package llm

import (
	"context"
	"fmt"
)

// Router dispatches to the Client registered under an agent's configured
// provider tag (§3 "Agent.Provider"). It is built once at startup and read
// thereafter, matching the Registry's shared-after-init concurrency model.
type Router struct {
	clients  map[string]Client
	fallback string
}

// NewRouter builds a Router from provider name to Client. fallback is used
// when a request names a provider with no registered Client.
func NewRouter(clients map[string]Client, fallback string) *Router {
	return &Router{clients: clients, fallback: fallback}
}

// Client returns the Client registered for provider, falling back to the
// router's default provider if provider is empty or unregistered.
func (r *Router) Client(provider string) (Client, error) {
	if provider == "" {
		provider = r.fallback
	}
	if c, ok := r.clients[provider]; ok {
		return c, nil
	}
	if provider != r.fallback && r.fallback != "" {
		if c, ok := r.clients[r.fallback]; ok {
			return c, nil
		}
	}
	return nil, fmt.Errorf("llm: no client registered for provider %q", provider)
}

// SendMessage resolves req.Provider to a Client and forwards the call,
// letting the Execution Loop hold a single Router instead of juggling
// per-provider clients itself.
func (r *Router) SendMessage(ctx context.Context, req Request) (Response, error) {
	c, err := r.Client(req.Provider)
	if err != nil {
		return Response{}, err
	}
	return c.SendMessage(ctx, req)
}
