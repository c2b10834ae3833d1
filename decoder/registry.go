// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package decoder

import (
	"sort"
	"sync"

	"github.com/gogpu/videotex"
)

// Source is a decoder that owns its decode goroutine.
type Source interface {
	videotex.Decoder
	videotex.Runner
}

// Factory creates a source for cfg. Implementations should validate cfg
// and return descriptive errors.
type Factory func(cfg Config) (Source, error)

// Entry is a registered source.
type Entry struct {
	// Name is the unique identifier, e.g. "pattern" or "gst".
	Name string

	// Priority orders automatic selection (higher is preferred).
	// Native media decoders use 100, synthetic sources 10.
	Priority int

	// Factory creates source instances.
	Factory Factory

	// Available reports whether the source can run on this system.
	Available func() bool
}

var globalRegistry = NewRegistry()

// Registry maps names to source factories. Decoder sub-packages register
// themselves from init, in the same way database/sql drivers do.
type Registry struct {
	mu      sync.RWMutex
	entries map[string]*Entry
}

// NewRegistry creates an empty registry. Most code uses the package-level
// functions backed by the global registry.
func NewRegistry() *Registry {
	return &Registry{entries: make(map[string]*Entry)}
}

// Register adds a source to the global registry. A nil available means
// always available. Registering an existing name replaces it.
func Register(name string, priority int, factory Factory, available func() bool) {
	globalRegistry.Register(name, priority, factory, available)
}

// Unregister removes a source from the global registry.
func Unregister(name string) { globalRegistry.Unregister(name) }

// List returns all registered source names, highest priority first.
func List() []string { return globalRegistry.List() }

// Available returns the names of usable sources, highest priority first.
func Available() []string { return globalRegistry.Available() }

// Get returns a copy of a registered entry.
func Get(name string) (*Entry, bool) { return globalRegistry.Get(name) }

// Open creates a source by name from the global registry.
func Open(name string, cfg Config) (Source, error) { return globalRegistry.Open(name, cfg) }

// OpenBest creates a source from the highest-priority usable entry.
func OpenBest(cfg Config) (Source, error) { return globalRegistry.OpenBest(cfg) }

// Register adds a source to this registry.
func (r *Registry) Register(name string, priority int, factory Factory, available func() bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if available == nil {
		available = func() bool { return true }
	}
	r.entries[name] = &Entry{
		Name:      name,
		Priority:  priority,
		Factory:   factory,
		Available: available,
	}
}

// Unregister removes a source from this registry.
func (r *Registry) Unregister(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.entries, name)
}

// List returns all source names sorted by priority.
func (r *Registry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.sortedNames(false)
}

// Available returns usable source names sorted by priority.
func (r *Registry) Available() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.sortedNames(true)
}

// Get returns a copy of the named entry.
func (r *Registry) Get(name string) (*Entry, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.entries[name]
	if !ok {
		return nil, false
	}
	cp := *e
	return &cp, true
}

// Open creates a source from the named entry.
func (r *Registry) Open(name string, cfg Config) (Source, error) {
	r.mu.RLock()
	e, ok := r.entries[name]
	r.mu.RUnlock()

	if !ok {
		return nil, &SourceNotFoundError{Name: name}
	}
	if !e.Available() {
		return nil, &SourceUnavailableError{Name: name}
	}
	return e.Factory(cfg)
}

// OpenBest tries usable entries in priority order and returns the first
// source that opens.
func (r *Registry) OpenBest(cfg Config) (Source, error) {
	r.mu.RLock()
	names := r.sortedNames(true)
	r.mu.RUnlock()

	if len(names) == 0 {
		return nil, ErrNoSourceAvailable
	}
	var lastErr error
	for _, name := range names {
		src, err := r.Open(name, cfg)
		if err == nil {
			return src, nil
		}
		videotex.Logger().Debug("decoder: source failed to open, trying next",
			"source", name, "error", err)
		lastErr = err
	}
	return nil, lastErr
}

// sortedNames must be called with the lock held. Ties sort by name so the
// order is stable.
func (r *Registry) sortedNames(onlyAvailable bool) []string {
	type entry struct {
		name     string
		priority int
	}
	entries := make([]entry, 0, len(r.entries))
	for name, e := range r.entries {
		if onlyAvailable && !e.Available() {
			continue
		}
		entries = append(entries, entry{name: name, priority: e.Priority})
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].priority != entries[j].priority {
			return entries[i].priority > entries[j].priority
		}
		return entries[i].name < entries[j].name
	})

	names := make([]string, len(entries))
	for i, e := range entries {
		names[i] = e.name
	}
	return names
}
