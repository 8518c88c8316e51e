// Package drivers creates browser drivers by name for multi-driver runs.
package drivers

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"

	"github.com/aretw0/probe/pkg/domain"
)

// Constructor creates a fresh driver session.
type Constructor func(ctx context.Context) (domain.Driver, error)

// Registry manages the available driver constructors and implements
// domain.DriverFactory.
type Registry struct {
	mu           sync.RWMutex
	constructors map[string]Constructor
}

// NewRegistry creates a new empty registry.
func NewRegistry() *Registry {
	return &Registry{
		constructors: make(map[string]Constructor),
	}
}

// Register adds a constructor to the registry.
// If a constructor with the same name exists, it is overwritten.
func (r *Registry) Register(name string, fn Constructor) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.constructors[name] = fn
}

// Alias makes name create the same driver as target.
func (r *Registry) Alias(name, target string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	fn, ok := r.constructors[target]
	if !ok {
		return fmt.Errorf("%w: %s", domain.ErrDriverNotSupported, target)
	}
	r.constructors[name] = fn
	return nil
}

// Names returns the registered names, sorted.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.constructors))
	for name := range r.constructors {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// NewDriver looks up a constructor by name and runs it.
// Returns domain.ErrDriverNotSupported if the name is unknown.
func (r *Registry) NewDriver(ctx context.Context, name string) (domain.Driver, error) {
	r.mu.RLock()
	fn, ok := r.constructors[name]
	r.mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrDriverNotSupported, name)
	}

	d, err := fn(ctx)
	if err != nil {
		if d != nil {
			err = errors.Join(err, d.Quit())
		}
		return nil, fmt.Errorf("failed to start driver %s: %w", name, err)
	}
	return d, nil
}
