package coverage

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/paulmach/orb/geojson"
)

// GeoJSONSource is a coverage source backed by a GeoJSON feature collection
// on disk. Features are loaded eagerly; coverage files are small relative to
// the projects they drive.
type GeoJSONSource struct {
	name   string
	fields []string
	fc     *geojson.FeatureCollection
}

// OpenGeoJSON opens a GeoJSON file as a coverage source.
func OpenGeoJSON(path string) (*GeoJSONSource, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading coverage: %w", err)
	}

	fc, err := geojson.UnmarshalFeatureCollection(data)
	if err != nil {
		return nil, fmt.Errorf("parsing coverage %s: %w", path, err)
	}

	// Field set is the union of all feature properties, sorted for a
	// stable order.
	seen := make(map[string]struct{})
	for _, f := range fc.Features {
		for k := range f.Properties {
			seen[k] = struct{}{}
		}
	}
	fields := make([]string, 0, len(seen))
	for k := range seen {
		fields = append(fields, k)
	}
	sort.Strings(fields)

	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	return &GeoJSONSource{name: name, fields: fields, fc: fc}, nil
}

// Name implements Source.
func (s *GeoJSONSource) Name() string { return s.name }

// Fields implements Source.
func (s *GeoJSONSource) Fields() []string {
	out := make([]string, len(s.fields))
	copy(out, s.fields)
	return out
}

// Count implements Source.
func (s *GeoJSONSource) Count() (int, error) {
	return len(s.fc.Features), nil
}

// Cursor implements Source.
func (s *GeoJSONSource) Cursor() (Cursor, error) {
	return &geojsonCursor{src: s}, nil
}

// Close implements Source.
func (s *GeoJSONSource) Close() error { return nil }

type geojsonCursor struct {
	src *GeoJSONSource
	idx int
}

func (c *geojsonCursor) Next() (Record, bool, error) {
	if c.idx >= len(c.src.fc.Features) {
		return Record{}, false, nil
	}
	f := c.src.fc.Features[c.idx]
	c.idx++

	values := make(map[string]any, len(c.src.fields))
	for _, name := range c.src.fields {
		values[name] = normalizeNumber(f.Properties[name])
	}
	return NewRecord(c.src.fields, values), true, nil
}

func (c *geojsonCursor) Close() error { return nil }

// normalizeNumber turns integral JSON numbers back into integers. JSON
// decoding reads every number as float64, but identifier fields must
// substitute as "2", never "2.0".
func normalizeNumber(v any) any {
	if f, ok := v.(float64); ok {
		if i := int64(f); float64(i) == f {
			return i
		}
	}
	return v
}
