package hostsim

import (
	"sort"
	"sync"

	"github.com/wippyai/wasm-contract-sdk/errors"
)

// Handler serves one method and returns the boundary status.
type Handler func(call *Call) int32

// Registry maps method names to handlers.
type Registry struct {
	handlers map[string]Handler
	mu       sync.RWMutex
}

func NewRegistry() *Registry {
	return &Registry{
		handlers: make(map[string]Handler),
	}
}

// Register adds or replaces the handler for method.
func (r *Registry) Register(method string, h Handler) error {
	if method == "" {
		return errors.InvalidInput(errors.PhaseHost, "method cannot be empty")
	}
	if h == nil {
		return errors.InvalidInput(errors.PhaseHost, "handler cannot be nil")
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.handlers[method] = h
	return nil
}

// Lookup returns the handler for method.
func (r *Registry) Lookup(method string) (Handler, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	h, ok := r.handlers[method]
	return h, ok
}

// Methods returns the registered method names in sorted order.
func (r *Registry) Methods() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.handlers))
	for name := range r.handlers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
