package project

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/paulmach/orb/geojson"
)

// Provider kinds the store can probe locally. Anything else is treated as an
// opaque remote source and assumed reachable.
const (
	ProviderGeoJSON = "geojson"
	ProviderOGR     = "ogr"
	ProviderSQLite  = "sqlite"
)

// Layer is a named data entity of a project: a connection descriptor, display
// metadata, a validity flag maintained on every (re)connect, an optional
// graduated renderer and a cached spatial extent that must be explicitly
// recomputed after a source change.
type Layer struct {
	id       string
	name     string
	title    string
	abstract string

	provider string
	source   string

	valid     bool
	lastError string

	extent   *Extent
	renderer *GraduatedRenderer

	custom map[string]any

	project *Project
}

// NewLayer creates a layer and probes its datasource.
func NewLayer(id, name, provider, source string) *Layer {
	l := &Layer{
		id:       id,
		name:     name,
		provider: provider,
		source:   source,
		custom:   make(map[string]any),
	}
	l.probe()
	return l
}

// ID returns the layer's stable identifier.
func (l *Layer) ID() string { return l.id }

// Name returns the display name.
func (l *Layer) Name() string { return l.name }

// SetName updates the display name.
func (l *Layer) SetName(name string) {
	l.name = name
	l.touch()
}

// Title returns the layer title.
func (l *Layer) Title() string { return l.title }

// SetTitle updates the layer title.
func (l *Layer) SetTitle(title string) {
	l.title = title
	l.touch()
}

// Abstract returns the layer abstract.
func (l *Layer) Abstract() string { return l.abstract }

// SetAbstract updates the layer abstract.
func (l *Layer) SetAbstract(abstract string) {
	l.abstract = abstract
	l.touch()
}

// Provider returns the provider kind.
func (l *Layer) Provider() string { return l.provider }

// Source returns the connection string.
func (l *Layer) Source() string { return l.source }

// IsValid reports the host-side validity of the current datasource.
func (l *Layer) IsValid() bool { return l.valid }

// Error returns the last validity error message, if any.
func (l *Layer) Error() string { return l.lastError }

// Renderer returns the layer's graduated renderer, or nil.
func (l *Layer) Renderer() *GraduatedRenderer { return l.renderer }

// SetRenderer attaches a graduated renderer.
func (l *Layer) SetRenderer(r *GraduatedRenderer) {
	l.renderer = r
	l.touch()
}

// CustomProperty returns the custom property stored under key, or nil.
func (l *Layer) CustomProperty(key string) any {
	return l.custom[key]
}

// CustomPropertyString returns the custom property as a string.
func (l *Layer) CustomPropertyString(key string) string {
	v, ok := l.custom[key]
	if !ok || v == nil {
		return ""
	}
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprintf("%v", v)
}

// SetCustomProperty stores a custom property on the layer.
func (l *Layer) SetCustomProperty(key string, value any) {
	l.custom[key] = value
	l.touch()
}

// SetDataSource applies a new connection descriptor to the live layer,
// preserving its identity and display name binding, and synchronously
// re-probes validity. The cached extent is invalidated but not recomputed;
// callers decide when to refresh it.
func (l *Layer) SetDataSource(source, name, provider string) {
	l.source = source
	l.provider = provider
	if name != "" {
		l.name = name
	}
	l.extent = nil
	l.probe()
	l.touch()
}

// Extent returns the cached extent, or nil when never computed.
func (l *Layer) Extent() *Extent {
	return l.extent
}

// UpdateExtents recomputes the cached extent from the datasource. With force
// false, a cached extent is kept as-is. Invalid layers keep a nil extent and
// return no error: an unreachable source is a legitimate state the callers
// tolerate.
func (l *Layer) UpdateExtents(force bool) error {
	if !force && l.extent != nil {
		return nil
	}
	if !l.valid {
		l.extent = nil
		return nil
	}

	fc, err := l.readFeatures()
	if err != nil {
		return fmt.Errorf("layer %s: reading features: %w", l.id, err)
	}
	if fc == nil || len(fc.Features) == 0 {
		l.extent = nil
		return nil
	}

	bound := fc.Features[0].Geometry.Bound()
	for _, f := range fc.Features[1:] {
		bound = bound.Union(f.Geometry.Bound())
	}
	ext := Extent{Bound: bound}
	l.extent = &ext
	l.touch()
	return nil
}

// FieldValues returns the numeric values of field across all features.
// Non-numeric and missing values are skipped.
func (l *Layer) FieldValues(field string) ([]float64, error) {
	fc, err := l.readFeatures()
	if err != nil {
		return nil, err
	}
	if fc == nil {
		return nil, nil
	}

	var out []float64
	for _, f := range fc.Features {
		switch v := f.Properties[field].(type) {
		case float64:
			out = append(out, v)
		case int:
			out = append(out, float64(v))
		case int64:
			out = append(out, float64(v))
		}
	}
	return out, nil
}

// readFeatures loads the layer's features for file-backed GeoJSON sources.
// Other providers have no local feature access; they return nil.
func (l *Layer) readFeatures() (*geojson.FeatureCollection, error) {
	if l.provider != ProviderGeoJSON {
		return nil, nil
	}
	data, err := os.ReadFile(l.SourcePath())
	if err != nil {
		return nil, err
	}
	return geojson.UnmarshalFeatureCollection(data)
}

// SourcePath resolves the connection string to a filesystem path, relative
// sources resolving against the project file's directory.
func (l *Layer) SourcePath() string {
	path := l.source
	if i := strings.Index(path, "?"); i >= 0 {
		path = path[:i]
	}
	if filepath.IsAbs(path) || l.project == nil || l.project.FileName() == "" {
		return path
	}
	return filepath.Join(filepath.Dir(l.project.FileName()), path)
}

// probe re-checks datasource validity. File-backed providers require the
// source file to exist; opaque remote sources are assumed valid.
func (l *Layer) probe() {
	l.lastError = ""
	if l.source == "" {
		l.valid = false
		l.lastError = "empty datasource"
		return
	}

	fileBacked := l.provider == ProviderGeoJSON || l.provider == ProviderOGR || l.provider == ProviderSQLite
	if !fileBacked && !strings.Contains(l.source, "://") {
		fileBacked = true
	}
	if !fileBacked || strings.Contains(l.source, "://") {
		l.valid = true
		return
	}

	if _, err := os.Stat(l.SourcePath()); err != nil {
		l.valid = false
		l.lastError = fmt.Sprintf("source not reachable: %v", err)
		return
	}
	l.valid = true
}

// touch marks the owning project dirty.
func (l *Layer) touch() {
	if l.project != nil {
		l.project.SetDirty(true)
	}
}
