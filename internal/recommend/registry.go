// Cartographus - Media Server Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cartographus

package recommend

import (
	"errors"
	"fmt"
	"sort"
	"sync"
)

// Constructor builds an untrained model from resolved parameters.
type Constructor func(Params) (Model, error)

// Entry is a registered model variant.
type Entry struct {
	New         Constructor
	Params      ParamSchema
	Description string
}

// Registry maps model names to constructors. It is populated once during
// startup and read concurrently afterwards.
type Registry struct {
	mu      sync.RWMutex
	entries map[string]Entry
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{entries: make(map[string]Entry)}
}

// Register adds or replaces the entry for name. The last registration wins.
func (r *Registry) Register(name string, e Entry) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries[name] = e
}

// Get returns the entry for name.
func (r *Registry) Get(name string) (Entry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	e, ok := r.entries[name]
	if !ok {
		return Entry{}, fmt.Errorf("%w: %q", ErrUnknownModel, name)
	}
	return e, nil
}

// Instantiate validates params against the variant's schema and constructs
// an untrained model.
func (r *Registry) Instantiate(name string, params Params) (Model, error) {
	e, err := r.Get(name)
	if err != nil {
		return nil, err
	}
	resolved, err := e.Params.Resolve(params)
	if err != nil {
		return nil, fmt.Errorf("instantiate %s: %w", name, err)
	}
	m, err := e.New(resolved)
	if err != nil {
		return nil, fmt.Errorf("instantiate %s: %w", name, err)
	}
	return m, nil
}

// List returns registered names in sorted order.
func (r *Registry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.entries))
	for name := range r.entries {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ModelSpec is the declarative form of a model: a registry name plus options.
type ModelSpec struct {
	Model  string `json:"model" yaml:"model" koanf:"model"`
	Params Params `json:"params" yaml:"params" koanf:"params"`
}

// FromSpec instantiates the model a spec describes.
func (r *Registry) FromSpec(spec ModelSpec) (Model, error) {
	if spec.Model == "" {
		return nil, errors.New("model spec: missing \"model\" key")
	}
	return r.Instantiate(spec.Model, spec.Params)
}
