package project

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Current on-disk document version.
const documentVersion = 1

type document struct {
	Version    int             `yaml:"version"`
	Title      string          `yaml:"title,omitempty"`
	Properties PropertyBag     `yaml:"properties,omitempty"`
	Layers     []layerDocument `yaml:"layers"`
}

type layerDocument struct {
	ID       string            `yaml:"id"`
	Name     string            `yaml:"name"`
	Title    string            `yaml:"title,omitempty"`
	Abstract string            `yaml:"abstract,omitempty"`
	Provider string            `yaml:"provider"`
	Source   string            `yaml:"source"`
	Custom   map[string]any    `yaml:"custom,omitempty"`
	Renderer *rendererDocument `yaml:"renderer,omitempty"`
}

type rendererDocument struct {
	Field  string       `yaml:"field"`
	Mode   string       `yaml:"mode"`
	Ranges []ClassRange `yaml:"ranges,omitempty"`
}

// Read loads a project document from path. The loaded project is clean and
// its file identity points at path. Layer validity is probed on load.
func Read(path string) (*Project, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading project: %w", err)
	}

	var doc document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parsing project %s: %w", path, err)
	}
	if doc.Version > documentVersion {
		return nil, fmt.Errorf("project %s: unsupported document version %d", path, doc.Version)
	}

	p := New()
	p.fileName = path
	p.title = doc.Title
	if doc.Properties != nil {
		p.properties = doc.Properties
	}

	for _, ld := range doc.Layers {
		l := NewLayer(ld.ID, ld.Name, ld.Provider, ld.Source)
		l.title = ld.Title
		l.abstract = ld.Abstract
		if ld.Custom != nil {
			l.custom = ld.Custom
		}
		if ld.Renderer != nil {
			r := &GraduatedRenderer{
				field: ld.Renderer.Field,
				mode:  ClassMode(ld.Renderer.Mode),
			}
			r.SetRanges(ld.Renderer.Ranges)
			if len(r.ranges) == 0 {
				r.ranges = []ClassRange{{}}
			}
			l.renderer = r
		}
		p.AddLayer(l)
	}

	p.dirty = false
	return p, nil
}

// Write persists the project to its current file identity and clears the
// dirty flag. The parent directory must exist.
func (p *Project) Write() error {
	if p.fileName == "" {
		return fmt.Errorf("project has no file identity")
	}

	doc := document{
		Version:    documentVersion,
		Title:      p.title,
		Properties: p.properties,
	}

	for _, id := range p.order {
		l := p.layers[id]
		ld := layerDocument{
			ID:       l.id,
			Name:     l.name,
			Title:    l.title,
			Abstract: l.abstract,
			Provider: l.provider,
			Source:   l.source,
		}
		if len(l.custom) > 0 {
			ld.Custom = l.custom
		}
		if l.renderer != nil {
			ld.Renderer = &rendererDocument{
				Field:  l.renderer.field,
				Mode:   string(l.renderer.mode),
				Ranges: l.renderer.Ranges(),
			}
		}
		doc.Layers = append(doc.Layers, ld)
	}

	data, err := yaml.Marshal(&doc)
	if err != nil {
		return fmt.Errorf("marshaling project: %w", err)
	}
	if err := os.WriteFile(p.fileName, data, 0o644); err != nil {
		return fmt.Errorf("writing project %s: %w", p.fileName, err)
	}

	p.dirty = false
	return nil
}
