package engine

import (
	"fmt"
	"sync"
)

// DefaultEngineName is the reserved name resolved when no selector is given.
const DefaultEngineName = "default"

// Factory produces a fresh Engine instance per resolution.
type Factory func() (Engine, error)

// Registry maps engine names to factories. State lives only for the process
// lifetime.
type Registry struct {
	mu        sync.RWMutex
	factories map[string]Factory
}

// NewRegistry creates an empty engine registry.
func NewRegistry() *Registry {
	return &Registry{
		factories: make(map[string]Factory),
	}
}

// Register binds a name to an engine factory, overwriting any prior binding
// for that name. Rebinding DefaultEngineName is supported.
func (r *Registry) Register(name string, factory Factory) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.factories[name] = factory
}

// RegisterEngine binds a name to an already-constructed engine instance.
func (r *Registry) RegisterEngine(name string, e Engine) {
	r.Register(name, func() (Engine, error) { return e, nil })
}

// Resolve turns a selector into a concrete Engine. An Engine instance is
// returned unchanged, a string is instantiated fresh from its registered
// factory, and nil resolves the "default" binding. An unregistered name is a
// configuration error identifying the offending name.
func (r *Registry) Resolve(selector any) (Engine, error) {
	switch v := selector.(type) {
	case nil:
		return r.Resolve(DefaultEngineName)
	case Engine:
		return v, nil
	case string:
		r.mu.RLock()
		factory, exists := r.factories[v]
		r.mu.RUnlock()
		if !exists {
			return nil, fmt.Errorf("%q, %w", v, ErrUnknownEngine)
		}
		return factory()
	default:
		return nil, fmt.Errorf("%T, %w", selector, ErrInvalidSelector)
	}
}

// defaultRegistry holds the built-in bindings. The "default" name resolves to
// the zero engine unless rebound.
var defaultRegistry = func() *Registry {
	r := NewRegistry()
	r.Register("zero", func() (Engine, error) { return NewZeroEngine(), nil })
	r.Register("local", func() (Engine, error) { return NewLocalEngine(), nil })
	r.Register("remote", func() (Engine, error) { return NewRemoteEngine(RemoteConfig{}) })
	r.Register(DefaultEngineName, func() (Engine, error) { return NewZeroEngine(), nil })
	return r
}()

// Register binds a name in the process-wide registry.
func Register(name string, factory Factory) {
	defaultRegistry.Register(name, factory)
}

// Resolve resolves a selector against the process-wide registry.
func Resolve(selector any) (Engine, error) {
	return defaultRegistry.Resolve(selector)
}
