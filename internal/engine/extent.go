package engine

import (
	"strconv"

	"github.com/atlasgen/cli/internal/output"
	"github.com/atlasgen/cli/internal/project"
)

// ViewportProvider is the optional interactive-session capability: a current
// map viewport that can seed the extent when no extent layer is configured
// and that is re-centered on the final extent. Headless runs pass none.
type ViewportProvider interface {
	// Extent returns the viewport's current extent.
	Extent() project.Extent

	// SetExtent re-centers the viewport on the given extent.
	SetExtent(project.Extent)
}

// recomputeExtent derives the project's published extent from the configured
// extent layer, falling back to the viewport. The result, buffered by the
// configured percentage margin, is persisted as the published WMS extent and
// the default view extent. Returns nil when no extent could be determined.
func (e *Engine) recomputeExtent() *project.Extent {
	base := e.baseExtent()
	if base == nil {
		output.Debug("no extent source available, published extent unchanged")
		return nil
	}

	ext := *base
	if ext.IsDegenerate() && e.viewport != nil {
		ext = e.viewport.Extent()
	}

	if pct := e.extentMargin(); pct > 0 {
		ext = ext.Buffer(ext.MarginFor(pct))
	}

	coords := ext.WMSStrings()
	e.proj.WriteListEntry(project.NamespaceWMS, project.KeyWMSExtent, coords)
	e.proj.WriteListEntry(project.NamespaceMap, project.KeyDefaultViewExtent, coords)

	if e.viewport != nil {
		e.viewport.SetExtent(ext)
	}

	output.Debug("published extent updated", "extent", coords)
	return &ext
}

// baseExtent picks the extent source: the configured extent layer, force
// refreshed, else the viewport.
func (e *Engine) baseExtent() *project.Extent {
	if id, ok := e.proj.ReadEntry(project.Namespace, project.KeyExtentLayer); ok && id != "" {
		l := e.proj.Layer(id)
		if l == nil {
			output.Warn("configured extent layer not found", "layer", id)
		} else {
			if err := l.UpdateExtents(true); err != nil {
				output.Warn("extent layer refresh failed", "layer", id, "error", err)
			}
			if ext := l.Extent(); ext != nil {
				return ext
			}
		}
	}
	if e.viewport != nil {
		ext := e.viewport.Extent()
		return &ext
	}
	return nil
}

// extentMargin reads the configured percentage margin. The value has
// historically been stored as a string; it is coerced once here at the read
// boundary.
func (e *Engine) extentMargin() int {
	raw, ok := e.proj.ReadEntry(project.Namespace, project.KeyExtentMargin)
	if !ok || raw == "" {
		return 0
	}
	pct, err := strconv.Atoi(raw)
	if err != nil {
		output.Warn("extent margin is not an integer, ignoring", "value", raw)
		return 0
	}
	return pct
}
