package event

import (
	"fmt"
	"slices"
	"sync"

	"github.com/rs/zerolog"

	"github.com/NeboLoop/resist-go-sdk/internal/logging"
)

// Registry maps event kind names to their shared Event. The reader looks
// up every inbound frame here.
type Registry struct {
	logger *zerolog.Logger

	mu     sync.RWMutex
	events map[string]*Event
}

// RegistryOption configures a Registry.
type RegistryOption func(*Registry)

// WithLogger sets the logger used for dispatch traces.
func WithLogger(logger *zerolog.Logger) RegistryOption {
	return func(r *Registry) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// NewRegistry returns an empty registry.
func NewRegistry(opts ...RegistryOption) *Registry {
	r := &Registry{
		logger: logging.Default(),
		events: make(map[string]*Event),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Register creates the Event for name. Each name can be registered once.
func (r *Registry) Register(name string) (*Event, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.events[name]; ok {
		return nil, fmt.Errorf("%w: %q", ErrEventExists, name)
	}
	ev := &Event{name: name, logger: r.logger}
	r.events[name] = ev
	return ev, nil
}

// MustRegister is Register for fixed catalogs; it panics on duplicates.
func (r *Registry) MustRegister(name string) *Event {
	ev, err := r.Register(name)
	if err != nil {
		panic(err)
	}
	return ev
}

// Ensure returns the Event registered under name, registering it first if
// needed.
func (r *Registry) Ensure(name string) *Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	if ev, ok := r.events[name]; ok {
		return ev
	}
	ev := &Event{name: name, logger: r.logger}
	r.events[name] = ev
	return ev
}

// Lookup returns the Event registered under name.
func (r *Registry) Lookup(name string) (*Event, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	ev, ok := r.events[name]
	return ev, ok
}

// Names returns the registered names, sorted.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.events))
	for name := range r.events {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Len returns the number of registered events.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.events)
}

// DefaultRegistry is the process-wide registry backing Events.
var DefaultRegistry = NewRegistry()
