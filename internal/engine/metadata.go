package engine

import (
	"github.com/atlasgen/cli/internal/expr"
	"github.com/atlasgen/cli/internal/output"
	"github.com/atlasgen/cli/internal/project"
)

// rewriteMetadata recomputes the layer's display name, title and abstract
// from their per-layer templates. A missing or placeholder template falls
// back to the current literal value, quoted so it is not re-evaluated. Each
// resolved value is written unconditionally, so a template resolving to the
// empty string clears its field. All three fields are attempted even when one
// fails.
func (e *Engine) rewriteMetadata(l *project.Layer) {
	ctx := e.contextFor(l)

	if name, ok := e.resolveField(l, project.PropNameTemplate, l.Name(), ctx); ok {
		l.SetName(name)
	}
	if title, ok := e.resolveField(l, project.PropTitleTemplate, l.Title(), ctx); ok {
		l.SetTitle(title)
	}
	if abstract, ok := e.resolveField(l, project.PropAbstractTemplate, l.Abstract(), ctx); ok {
		l.SetAbstract(abstract)
	}
}

// resolveField resolves one metadata template, falling back to the field's
// current literal value. A failure is logged and reported false so the caller
// leaves the field unchanged; an empty result is a valid value.
func (e *Engine) resolveField(l *project.Layer, key, current string, ctx *expr.Context) (string, bool) {
	template := l.CustomPropertyString(key)
	if template == "" || template == "''" {
		template = expr.QuoteLiteral(current)
	}

	resolved, err := e.eval.Resolve(template, ctx)
	if err != nil {
		output.Error("metadata template failed",
			"layer", l.ID(), "property", key, "error", err)
		return "", false
	}
	return resolved, true
}
