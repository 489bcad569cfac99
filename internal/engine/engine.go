// Package engine applies one binding set to a live project: it discovers the
// dynamic layers, rewrites their datasources and metadata, rewrites the
// project's published properties and recomputes the published extent.
//
// An Engine mutates its project in place and is not safe for concurrent use;
// run one Apply at a time per project.
package engine

import (
	"path/filepath"
	"strings"

	"github.com/atlasgen/cli/internal/expr"
	"github.com/atlasgen/cli/internal/output"
	"github.com/atlasgen/cli/internal/project"
	"github.com/atlasgen/cli/internal/version"
)

// Mode selects the failure policy for a run.
type Mode int

const (
	// ModeStrict aborts the run on the first datasource rewrite failure.
	// The interactive default: a single clear error beats silently
	// corrupted output.
	ModeStrict Mode = iota

	// ModeLenient logs datasource rewrite failures, skips the affected
	// layer and continues. The batch default: one bad layer must not halt
	// thousands of records.
	ModeLenient
)

// Engine runs one substitution pass over a project.
type Engine struct {
	proj *project.Project
	eval *expr.Evaluator
	mode Mode

	variables *expr.Variables

	featureSource string
	feature       map[string]any
	hasFeature    bool

	viewport ViewportProvider

	lastExtent *project.Extent
}

// Option configures an Engine.
type Option func(*Engine)

// WithMode sets the failure policy.
func WithMode(mode Mode) Option {
	return func(e *Engine) { e.mode = mode }
}

// WithVariables binds a static variable table as the highest-precedence scope.
func WithVariables(vars *expr.Variables) Option {
	return func(e *Engine) { e.variables = vars }
}

// WithFeature binds one record's field values as the feature scope. source
// names the record's origin in evaluation traces.
func WithFeature(source string, fields map[string]any) Option {
	return func(e *Engine) {
		e.featureSource = source
		e.feature = fields
		e.hasFeature = true
	}
}

// WithViewport attaches an optional viewport. Absent in headless runs; when
// present it serves as the fallback extent provider and is re-centered on the
// final extent.
func WithViewport(v ViewportProvider) Option {
	return func(e *Engine) { e.viewport = v }
}

// New creates an engine over the given project. The default mode is strict.
func New(p *project.Project, eval *expr.Evaluator, opts ...Option) *Engine {
	e := &Engine{proj: p, eval: eval, mode: ModeStrict}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Apply runs the full substitution pass: discovery, per-layer datasource and
// metadata rewrite, a forced extent refresh of every layer, project property
// rewrite and extent recalculation.
//
// In strict mode the first datasource failure aborts with its error. In
// lenient mode failed layers are logged and skipped.
func (e *Engine) Apply() error {
	e.lastExtent = nil

	dynamic := Discover(e.proj)
	output.Debug("discovered dynamic layers", "count", len(dynamic))

	for _, id := range e.proj.LayerIDs() {
		l, ok := dynamic[id]
		if !ok {
			continue
		}
		if err := e.rewriteLayer(l); err != nil {
			if e.mode == ModeStrict {
				return err
			}
			output.Warn("skipping layer after datasource failure",
				"layer", id, "error", err)
		}
	}

	// Non-dynamic layers may depend visually on the rewritten ones, so
	// every layer gets a forced extent refresh.
	for _, id := range e.proj.LayerIDs() {
		l := e.proj.Layer(id)
		if err := l.UpdateExtents(true); err != nil {
			output.Warn("extent refresh failed", "layer", id, "error", err)
		}
	}

	e.rewriteProjectProperties()
	e.lastExtent = e.recomputeExtent()
	return nil
}

// LastExtent returns the extent computed by the most recent Apply, or nil
// when none could be determined.
func (e *Engine) LastExtent() *project.Extent {
	return e.lastExtent
}

// contextFor builds the layered evaluation context for one layer. A nil layer
// omits the layer scope.
func (e *Engine) contextFor(l *project.Layer) *expr.Context {
	ctx := expr.NewContext()
	ctx.AppendScope("global", map[string]any{
		"app_name":    "atlasgen",
		"app_version": version.Version,
	})
	ctx.AppendScope("project", map[string]any{
		"project_title":    e.proj.Title(),
		"project_filename": e.proj.FileName(),
		"project_folder":   projectFolder(e.proj),
		"project_basename": projectBasename(e.proj),
	})
	if l != nil {
		ctx.AppendScope("layer", map[string]any{
			"layer_id":   l.ID(),
			"layer_name": l.Name(),
		})
	}
	if e.hasFeature {
		ctx.BindFeature(e.featureSource, e.feature)
	}
	if e.variables != nil && e.variables.Len() > 0 {
		ctx.AppendScope("variables", e.variables.Map())
	}
	return ctx
}

func projectFolder(p *project.Project) string {
	if p.FileName() == "" {
		return ""
	}
	return filepath.Dir(p.FileName())
}

func projectBasename(p *project.Project) string {
	if p.FileName() == "" {
		return ""
	}
	base := filepath.Base(p.FileName())
	return strings.TrimSuffix(base, filepath.Ext(base))
}
