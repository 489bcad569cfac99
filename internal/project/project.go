// Package project holds the mutable project document graph: a collection of
// layers, a typed property bag, a dirty flag and a repointable file identity.
//
// The graph is mutated destructively and in place by the engine; there is no
// defensive copying. A project must only be driven by one engine pass at a
// time.
package project

import "sort"

// Project is the root mutable document.
type Project struct {
	fileName string
	dirty    bool

	title string

	layers map[string]*Layer
	order  []string

	properties PropertyBag
}

// New creates an empty project.
func New() *Project {
	return &Project{
		layers:     make(map[string]*Layer),
		properties: make(PropertyBag),
	}
}

// FileName returns the project's file identity.
func (p *Project) FileName() string {
	return p.fileName
}

// SetFileName repoints the project's file identity. It does not touch the
// dirty flag: repointing is how the batch generator writes a copy without
// disturbing the original document state.
func (p *Project) SetFileName(path string) {
	p.fileName = path
}

// Dirty reports whether the document has unsaved mutations.
func (p *Project) Dirty() bool {
	return p.dirty
}

// SetDirty sets the dirty flag.
func (p *Project) SetDirty(dirty bool) {
	p.dirty = dirty
}

// Title returns the project title.
func (p *Project) Title() string {
	return p.title
}

// SetTitle updates the project title.
func (p *Project) SetTitle(title string) {
	p.title = title
	p.dirty = true
}

// AddLayer registers a layer under its id. The layer re-probes its source so
// relative paths resolve against the project file.
func (p *Project) AddLayer(l *Layer) {
	if _, ok := p.layers[l.id]; !ok {
		p.order = append(p.order, l.id)
	}
	p.layers[l.id] = l
	l.project = p
	l.probe()
	p.dirty = true
}

// Layer returns the layer with the given id, or nil.
func (p *Project) Layer(id string) *Layer {
	return p.layers[id]
}

// Layers returns the project's layers keyed by id. The map is the live
// collection; callers must not mutate it.
func (p *Project) Layers() map[string]*Layer {
	return p.layers
}

// LayerIDs returns the layer ids in their stable document order.
func (p *Project) LayerIDs() []string {
	out := make([]string, len(p.order))
	copy(out, p.order)
	return out
}

// ReadEntry returns the string property stored under namespace/key.
func (p *Project) ReadEntry(ns, key string) (string, bool) {
	v, ok := p.properties.get(ns, key)
	if !ok {
		return "", false
	}
	return v.String(), true
}

// ReadListEntry returns the string-list property stored under namespace/key.
func (p *Project) ReadListEntry(ns, key string) ([]string, bool) {
	v, ok := p.properties.get(ns, key)
	if !ok {
		return nil, false
	}
	return v.List(), true
}

// WriteEntry stores a string property and marks the document dirty.
func (p *Project) WriteEntry(ns, key, value string) {
	p.properties.set(ns, key, StringValue(value))
	p.dirty = true
}

// WriteListEntry stores a string-list property and marks the document dirty.
func (p *Project) WriteListEntry(ns, key string, values []string) {
	p.properties.set(ns, key, ListValue(values))
	p.dirty = true
}

// Namespaces returns the property namespaces in sorted order.
func (p *Project) Namespaces() []string {
	out := make([]string, 0, len(p.properties))
	for ns := range p.properties {
		out = append(out, ns)
	}
	sort.Strings(out)
	return out
}
