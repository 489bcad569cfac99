package project

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const linesGeoJSON = `{
  "type": "FeatureCollection",
  "features": [
    {
      "type": "Feature",
      "properties": {"id": 1, "value": 4},
      "geometry": {"type": "LineString", "coordinates": [[0, 0], [10, 5]]}
    },
    {
      "type": "Feature",
      "properties": {"id": 2, "value": 12},
      "geometry": {"type": "LineString", "coordinates": [[2, 1], [20, 8]]}
    }
  ]
}`

// writeFixture writes a geojson fixture and returns its directory.
func writeFixture(t *testing.T, rel string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, rel)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(linesGeoJSON), 0o644))
	return dir
}

func TestTruthyFlag(t *testing.T) {
	cases := []struct {
		name string
		in   any
		want bool
	}{
		{"native true", true, true},
		{"native false", false, false},
		{"legacy True string", "True", true},
		{"legacy False string", "False", false},
		{"lowercase true", "true", true},
		{"numeric string", "1", true},
		{"zero string", "0", false},
		{"nil", nil, false},
		{"int", 1, true},
		{"zero int", 0, false},
		{"garbage", "maybe", false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, TruthyFlag(tc.in))
		})
	}
}

func TestExtentMarginIsAxisMax(t *testing.T) {
	ext := NewExtent(0, 0, 100, 50)

	margin := ext.MarginFor(10)
	assert.InDelta(t, 10.0, margin, 1e-9)

	buffered := ext.Buffer(margin)
	assert.InDelta(t, 120.0, buffered.Width(), 1e-9)
	assert.InDelta(t, 70.0, buffered.Height(), 1e-9)

	// Centered on the original.
	assert.InDelta(t, -10.0, buffered.Bound.Min[0], 1e-9)
	assert.InDelta(t, -10.0, buffered.Bound.Min[1], 1e-9)
	assert.InDelta(t, 110.0, buffered.Bound.Max[0], 1e-9)
	assert.InDelta(t, 60.0, buffered.Bound.Max[1], 1e-9)
}

func TestExtentDegenerate(t *testing.T) {
	assert.True(t, NewExtent(5, 0, 5, 10).IsDegenerate())
	assert.False(t, NewExtent(0, 0, 1, 1).IsDegenerate())
}

func TestExtentWMSStrings(t *testing.T) {
	ext := NewExtent(-1.5, 2, 3.25, 4)
	assert.Equal(t, []string{"-1.5", "2", "3.25", "4"}, ext.WMSStrings())
}

func TestPropertyBagReadWrite(t *testing.T) {
	p := New()

	_, ok := p.ReadEntry(Namespace, KeyTitle)
	assert.False(t, ok)

	p.SetDirty(false)
	p.WriteEntry(Namespace, KeyTitle, `"Atlas \(region)"`)
	assert.True(t, p.Dirty())

	got, ok := p.ReadEntry(Namespace, KeyTitle)
	require.True(t, ok)
	assert.Equal(t, `"Atlas \(region)"`, got)

	p.WriteListEntry(NamespaceWMS, KeyWMSExtent, []string{"0", "0", "10", "10"})
	list, ok := p.ReadListEntry(NamespaceWMS, KeyWMSExtent)
	require.True(t, ok)
	assert.Equal(t, []string{"0", "0", "10", "10"}, list)
}

func TestLayerDataSourceProbe(t *testing.T) {
	dir := writeFixture(t, "folder_1/lines_1.geojson")

	l := NewLayer("roads", "Roads", ProviderGeoJSON, filepath.Join(dir, "folder_1/lines_1.geojson"))
	assert.True(t, l.IsValid())

	l.SetDataSource(filepath.Join(dir, "folder_9/lines_9.geojson"), l.Name(), ProviderGeoJSON)
	assert.False(t, l.IsValid())
	assert.NotEmpty(t, l.Error())
	assert.Nil(t, l.Extent())
}

func TestLayerUpdateExtents(t *testing.T) {
	dir := writeFixture(t, "folder_1/lines_1.geojson")
	l := NewLayer("roads", "Roads", ProviderGeoJSON, filepath.Join(dir, "folder_1/lines_1.geojson"))

	require.NoError(t, l.UpdateExtents(true))
	ext := l.Extent()
	require.NotNil(t, ext)
	assert.InDelta(t, 0.0, ext.Bound.Min[0], 1e-9)
	assert.InDelta(t, 0.0, ext.Bound.Min[1], 1e-9)
	assert.InDelta(t, 20.0, ext.Bound.Max[0], 1e-9)
	assert.InDelta(t, 8.0, ext.Bound.Max[1], 1e-9)

	// Cached extent survives a lazy refresh.
	prev := l.Extent()
	require.NoError(t, l.UpdateExtents(false))
	assert.Same(t, prev, l.Extent())
}

func TestGraduatedRendererBootstrap(t *testing.T) {
	dir := writeFixture(t, "folder_1/lines_1.geojson")
	l := NewLayer("roads", "Roads", ProviderGeoJSON, filepath.Join(dir, "folder_1/lines_1.geojson"))

	r := NewGraduatedRenderer("value", ModeEqualInterval)
	l.SetRenderer(r)
	require.Len(t, r.Ranges(), 1)

	require.NoError(t, r.UpdateClasses(l, ModeEqualInterval, 2))
	ranges := r.Ranges()
	require.Len(t, ranges, 2)
	assert.InDelta(t, 4.0, ranges[0].Lower, 1e-9)
	assert.InDelta(t, 8.0, ranges[0].Upper, 1e-9)
	assert.InDelta(t, 12.0, ranges[1].Upper, 1e-9)
}

func TestStoreRoundTrip(t *testing.T) {
	dir := writeFixture(t, "folder_1/lines_1.geojson")
	path := filepath.Join(dir, "parent.yaml")

	p := New()
	p.SetFileName(path)
	p.SetTitle("Parent")
	p.WriteEntry(Namespace, KeyTitle, "'Atlas'")
	p.WriteListEntry(NamespaceWMS, KeyWMSExtent, []string{"0", "0", "1", "1"})

	l := NewLayer("roads", "Roads", ProviderGeoJSON, "folder_1/lines_1.geojson")
	l.SetCustomProperty(PropDatasourceActive, "True")
	l.SetCustomProperty(PropDatasourceContent, `"folder_\(id)/lines_\(id).geojson"`)
	p.AddLayer(l)

	require.NoError(t, p.Write())
	assert.False(t, p.Dirty())

	loaded, err := Read(path)
	require.NoError(t, err)
	assert.Equal(t, "Parent", loaded.Title())
	assert.False(t, loaded.Dirty())

	title, ok := loaded.ReadEntry(Namespace, KeyTitle)
	require.True(t, ok)
	assert.Equal(t, "'Atlas'", title)

	ext, ok := loaded.ReadListEntry(NamespaceWMS, KeyWMSExtent)
	require.True(t, ok)
	assert.Len(t, ext, 4)

	ll := loaded.Layer("roads")
	require.NotNil(t, ll)
	assert.Equal(t, "Roads", ll.Name())
	assert.Equal(t, "True", ll.CustomPropertyString(PropDatasourceActive))
	assert.True(t, ll.IsValid(), "relative source should resolve against the project directory")
}

func TestFileIdentityRepoint(t *testing.T) {
	p := New()
	p.SetFileName("/tmp/parent.yaml")
	p.SetDirty(false)

	p.SetFileName("/tmp/child.yaml")
	assert.False(t, p.Dirty(), "repointing identity must not dirty the document")
	assert.Equal(t, "/tmp/child.yaml", p.FileName())

	p.SetFileName("/tmp/parent.yaml")
	assert.Equal(t, "/tmp/parent.yaml", p.FileName())
}
