package engine

import (
	"strings"

	"github.com/atlasgen/cli/internal/output"
	"github.com/atlasgen/cli/internal/project"
)

// rewriteLayer recomputes one dynamic layer's datasource and then its
// metadata. The returned error is an *expr.EvalError or *InvalidURIError from
// the datasource step; metadata failures are logged, never returned, since
// metadata is cosmetic while the datasource is load-bearing.
func (e *Engine) rewriteLayer(l *project.Layer) error {
	if err := e.rewriteDatasource(l); err != nil {
		return err
	}
	e.rewriteMetadata(l)
	return nil
}

// rewriteDatasource resolves the layer's datasource template and applies the
// result to the live layer. An empty resolution is rejected before anything
// is applied, so the layer keeps its last-good connection string. A layer the
// host reports invalid after the swap is a terminal state for this update,
// logged and returned normally; derived state stays untouched.
func (e *Engine) rewriteDatasource(l *project.Layer) error {
	template := l.CustomPropertyString(project.PropDatasourceContent)

	resolved, err := e.eval.Resolve(template, e.contextFor(l))
	if err != nil {
		return err
	}
	if resolved == "" {
		return &InvalidURIError{LayerID: l.ID(), Template: template}
	}

	source, provider := splitSource(resolved, l.Provider())
	l.SetDataSource(source, "", provider)

	if !l.IsValid() {
		output.Error("layer invalid after datasource update",
			"layer", l.ID(), "source", source, "error", l.Error())
		return nil
	}

	if err := l.UpdateExtents(true); err != nil {
		output.Warn("extent refresh failed after datasource update",
			"layer", l.ID(), "error", err)
	}

	// A graduated renderer with a single class is the uninitialized state:
	// reclassify once from the new data. More than one class means the user
	// tuned the breaks; leave them alone.
	if r := l.Renderer(); r != nil && len(r.Ranges()) == 1 {
		if err := r.UpdateClasses(l, r.Mode(), len(r.Ranges())); err != nil {
			output.Warn("renderer reclassification failed",
				"layer", l.ID(), "error", err)
		}
	}

	output.Debug("datasource updated", "layer", l.ID(), "source", source, "provider", provider)
	return nil
}

// splitSource splits a resolved datasource of the form "hint|uri" into the
// connection URI and the provider hint before the first "|". Without a hint
// the layer keeps its current provider.
func splitSource(resolved, current string) (source, provider string) {
	if i := strings.Index(resolved, "|"); i >= 0 {
		if hint := resolved[:i]; hint != "" {
			return resolved[i+1:], hint
		}
		return resolved[i+1:], current
	}
	return resolved, current
}
