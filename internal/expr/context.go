// Package expr evaluates template expressions against a layered context.
//
// A template is a stored string meant to be evaluated, not read literally.
// Evaluation happens against an ordered stack of scopes: global, project,
// layer, feature (the current record's field values) and finally any ad-hoc
// static variables. Later scopes shadow earlier ones, so user-supplied
// bindings always win.
package expr

import (
	"fmt"
	"sort"
	"strings"
)

// Scope is one named layer of the evaluation context.
type Scope struct {
	// Name identifies the scope in diagnostic traces ("global", "project", ...).
	Name string

	// Values maps variable names to their bound values.
	Values map[string]any
}

// Context is a precedence-ordered stack of scopes consulted during
// substitution. Built fresh for every substitution call; never persisted.
type Context struct {
	scopes []Scope

	featureID  string
	hasFeature bool
}

// NewContext returns an empty evaluation context.
func NewContext() *Context {
	return &Context{}
}

// AppendScope appends a scope with higher precedence than all existing ones.
func (c *Context) AppendScope(name string, values map[string]any) {
	c.scopes = append(c.scopes, Scope{Name: name, Values: values})
}

// BindFeature appends the current record as the feature scope. Field values
// become addressable by field name. The identifier is only used in traces.
func (c *Context) BindFeature(id string, fields map[string]any) {
	c.featureID = id
	c.hasFeature = true
	c.AppendScope("feature", fields)
}

// flatten merges all scopes into a single binding map, later scopes
// overwriting earlier ones.
func (c *Context) flatten() map[string]any {
	merged := make(map[string]any)
	for _, s := range c.scopes {
		for k, v := range s.Values {
			merged[k] = v
		}
	}
	return merged
}

// Describe returns a human-readable trace of the attached scopes, used for
// diagnosability when a substitution runs. Advisory only.
func (c *Context) Describe() string {
	parts := make([]string, 0, len(c.scopes))
	for _, s := range c.scopes {
		if s.Name == "feature" && c.hasFeature {
			parts = append(parts, fmt.Sprintf("feature(%s)", c.featureID))
			continue
		}
		if s.Name == "variables" {
			names := make([]string, 0, len(s.Values))
			for k := range s.Values {
				names = append(names, k)
			}
			sort.Strings(names)
			parts = append(parts, fmt.Sprintf("variables[%s]", strings.Join(names, " ")))
			continue
		}
		parts = append(parts, s.Name)
	}
	return strings.Join(parts, " < ")
}

// Variables is an ordered name -> value mapping used as the highest-precedence
// scope in table-based substitution mode.
type Variables struct {
	names  []string
	values map[string]any
}

// NewVariables returns an empty variable set.
func NewVariables() *Variables {
	return &Variables{values: make(map[string]any)}
}

// Set binds name to value, preserving first-seen order.
func (v *Variables) Set(name string, value any) {
	if _, ok := v.values[name]; !ok {
		v.names = append(v.names, name)
	}
	v.values[name] = value
}

// Get returns the value bound to name.
func (v *Variables) Get(name string) (any, bool) {
	val, ok := v.values[name]
	return val, ok
}

// Names returns the variable names in insertion order.
func (v *Variables) Names() []string {
	out := make([]string, len(v.names))
	copy(out, v.names)
	return out
}

// Len returns the number of bound variables.
func (v *Variables) Len() int {
	return len(v.names)
}

// Map returns the bindings as a plain map.
func (v *Variables) Map() map[string]any {
	out := make(map[string]any, len(v.values))
	for k, val := range v.values {
		out[k] = val
	}
	return out
}
