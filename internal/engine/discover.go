package engine

import "github.com/atlasgen/cli/internal/project"

// Discover returns the project's dynamic layers keyed by id: layers whose
// active flag is truthy and whose datasource template is non-empty. Read-only.
// Flags and templates do not vary per record, so every call over the same
// project yields the same set.
func Discover(p *project.Project) map[string]*project.Layer {
	dynamic := make(map[string]*project.Layer)
	for id, l := range p.Layers() {
		if !project.TruthyFlag(l.CustomProperty(project.PropDatasourceActive)) {
			continue
		}
		if l.CustomPropertyString(project.PropDatasourceContent) == "" {
			continue
		}
		dynamic[id] = l
	}
	return dynamic
}
