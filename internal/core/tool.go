package core

import (
	"slices"
	"sort"
)

// ToolSpec describes how to invoke one external AI CLI.
type ToolSpec struct {
	Key         string
	Name        string
	Command     string
	Args        []string
	Description string
}

// Clone returns a deep copy of the spec.
func (t ToolSpec) Clone() ToolSpec {
	t.Args = slices.Clone(t.Args)
	return t
}

// Solver pairs a registry key with its spec.
type Solver struct {
	Key  string
	Spec ToolSpec
}

// Registry is an immutable set of tools keyed by name.
// It is built once and shared read-only across goroutines.
type Registry struct {
	tools map[string]ToolSpec
	keys  []string
}

// NewRegistry builds a registry from the given tools. Each spec's Key is
// set to its map key.
func NewRegistry(tools map[string]ToolSpec) *Registry {
	r := &Registry{
		tools: make(map[string]ToolSpec, len(tools)),
		keys:  make([]string, 0, len(tools)),
	}
	for key, spec := range tools {
		spec = spec.Clone()
		spec.Key = key
		r.tools[key] = spec
		r.keys = append(r.keys, key)
	}
	sort.Strings(r.keys)
	return r
}

// Get returns a copy of the spec registered under key.
func (r *Registry) Get(key string) (ToolSpec, bool) {
	if r == nil {
		return ToolSpec{}, false
	}
	spec, ok := r.tools[key]
	if !ok {
		return ToolSpec{}, false
	}
	return spec.Clone(), true
}

// Has checks if a tool is registered.
func (r *Registry) Has(key string) bool {
	if r == nil {
		return false
	}
	_, ok := r.tools[key]
	return ok
}

// Keys returns all tool keys in sorted order.
func (r *Registry) Keys() []string {
	if r == nil {
		return nil
	}
	return slices.Clone(r.keys)
}

// Len returns the number of registered tools.
func (r *Registry) Len() int {
	if r == nil {
		return 0
	}
	return len(r.tools)
}

// Tools returns copies of all specs in key order.
func (r *Registry) Tools() []ToolSpec {
	if r == nil {
		return nil
	}
	out := make([]ToolSpec, 0, len(r.keys))
	for _, k := range r.keys {
		out = append(out, r.tools[k].Clone())
	}
	return out
}
