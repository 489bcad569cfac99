package cmd

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/atlasgen/cli/internal/engine"
	"github.com/atlasgen/cli/internal/expr"
	"github.com/atlasgen/cli/internal/project"
)

// execute runs the CLI with the given arguments and captures cobra output.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := NewRootCmd()
	buf := &bytes.Buffer{}
	root.SetOut(buf)
	root.SetErr(buf)
	root.SetArgs(args)
	err := root.Execute()
	return buf.String(), err
}

func writeLines(t *testing.T, path string, x0, y0, x1, y1 float64) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	data := fmt.Sprintf(`{
  "type": "FeatureCollection",
  "features": [
    {"type": "Feature", "properties": {}, "geometry": {"type": "Point", "coordinates": [%g, %g]}},
    {"type": "Feature", "properties": {}, "geometry": {"type": "Point", "coordinates": [%g, %g]}}
  ]
}`, x0, y0, x1, y1)
	require.NoError(t, os.WriteFile(path, []byte(data), 0o644))
}

// parentProject writes a parent project with one dynamic layer and fixtures
// for folders 1 and 2, returning the project path.
func parentProject(t *testing.T, dir string) string {
	t.Helper()
	writeLines(t, filepath.Join(dir, "fixtures", "folder_1", "lines_1.geojson"), 0, 0, 10, 4)
	writeLines(t, filepath.Join(dir, "fixtures", "folder_2", "lines_2.geojson"), 5, 5, 25, 13)

	p := project.New()
	path := filepath.Join(dir, "parent.yaml")
	p.SetFileName(path)
	p.SetTitle("Parent atlas")

	l := project.NewLayer("lines", "lines_1", project.ProviderGeoJSON, "fixtures/folder_1/lines_1.geojson")
	l.SetCustomProperty(project.PropDatasourceActive, "True")
	l.SetCustomProperty(project.PropDatasourceContent,
		"\"fixtures/folder_\\(id)/lines_\\(id).geojson\"")
	p.AddLayer(l)
	require.NoError(t, p.Write())
	return path
}

func TestVersionCmd(t *testing.T) {
	out, err := execute(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "atlasgen")
	assert.Contains(t, out, "Version:")
}

func TestConfigViewCmd(t *testing.T) {
	out, err := execute(t, "config", "view")
	require.NoError(t, err)
	assert.Contains(t, out, "copySidecars:")
	assert.Contains(t, out, "destination:")
}

func TestApplyCmd(t *testing.T) {
	dir := t.TempDir()
	path := parentProject(t, dir)

	_, err := execute(t, "apply", path, "--var", "id=2")
	require.NoError(t, err)

	p, err := project.Read(path)
	require.NoError(t, err)
	assert.Contains(t, p.Layer("lines").Source(), "folder_2")
}

func TestApplyCmdCoverageSource(t *testing.T) {
	dir := t.TempDir()
	path := parentProject(t, dir)

	covPath := filepath.Join(dir, "coverage.geojson")
	cov := `{
  "type": "FeatureCollection",
  "features": [
    {"type": "Feature", "properties": {"id": 1}, "geometry": {"type": "Point", "coordinates": [0, 0]}},
    {"type": "Feature", "properties": {"id": 2}, "geometry": {"type": "Point", "coordinates": [1, 1]}}
  ]
}`
	require.NoError(t, os.WriteFile(covPath, []byte(cov), 0o644))

	_, err := execute(t, "apply", path, "--source", covPath, "--filter", "id == 2")
	require.NoError(t, err)

	p, err := project.Read(path)
	require.NoError(t, err)
	assert.Contains(t, p.Layer("lines").Source(), "folder_2")
}

func TestApplyCmdVariableSourceLayer(t *testing.T) {
	dir := t.TempDir()
	path := parentProject(t, dir)

	covPath := filepath.Join(dir, "areas.geojson")
	cov := `{
  "type": "FeatureCollection",
  "features": [
    {"type": "Feature", "properties": {"id": 2}, "geometry": {"type": "Point", "coordinates": [1, 1]}}
  ]
}`
	require.NoError(t, os.WriteFile(covPath, []byte(cov), 0o644))

	p, err := project.Read(path)
	require.NoError(t, err)
	p.AddLayer(project.NewLayer("areas", "areas", project.ProviderGeoJSON, "areas.geojson"))
	p.WriteEntry(project.Namespace, project.KeyVariableSourceLayer, "areas")
	require.NoError(t, p.Write())

	_, err = execute(t, "apply", path)
	require.NoError(t, err)

	p, err = project.Read(path)
	require.NoError(t, err)
	assert.Contains(t, p.Layer("lines").Source(), "folder_2")
}

func TestApplyCmdTemplateError(t *testing.T) {
	dir := t.TempDir()
	path := parentProject(t, dir)

	p, err := project.Read(path)
	require.NoError(t, err)
	p.Layer("lines").SetCustomProperty(project.PropDatasourceContent, `""`)
	require.NoError(t, p.Write())

	_, err = execute(t, "apply", path)
	require.Error(t, err)
	assert.Equal(t, ExitTemplateError, ExitCodeFromError(err))
}

func TestGenerateCmd(t *testing.T) {
	dir := t.TempDir()
	path := parentProject(t, dir)
	dest := filepath.Join(dir, "out")

	covPath := filepath.Join(dir, "coverage.geojson")
	cov := `{
  "type": "FeatureCollection",
  "features": [
    {"type": "Feature", "properties": {"id": 1, "folder": "folder_1"}, "geometry": {"type": "Point", "coordinates": [0, 0]}},
    {"type": "Feature", "properties": {"id": 2, "folder": "folder_2"}, "geometry": {"type": "Point", "coordinates": [1, 1]}}
  ]
}`
	require.NoError(t, os.WriteFile(covPath, []byte(cov), 0o644))

	_, err := execute(t, "generate", path,
		"--coverage", covPath,
		"--field", "folder",
		"--filename-template", `"atlas_\(folder).yaml"`,
		"--destination", dest)
	require.NoError(t, err)

	for _, folder := range []string{"folder_1", "folder_2"} {
		child, err := project.Read(filepath.Join(dest, "atlas_"+folder+".yaml"))
		require.NoError(t, err)
		assert.Contains(t, child.Layer("lines").Source(), folder)
	}
}

func TestGenerateCmdRequiresFlags(t *testing.T) {
	_, err := execute(t, "generate", "whatever.yaml")
	require.Error(t, err)
}

func TestParseVariables(t *testing.T) {
	vars, err := parseVariables([]string{"id=2", "ratio=0.5", "name=atlas"})
	require.NoError(t, err)

	id, _ := vars.Get("id")
	assert.Equal(t, 2, id)
	ratio, _ := vars.Get("ratio")
	assert.Equal(t, 0.5, ratio)
	name, _ := vars.Get("name")
	assert.Equal(t, "atlas", name)

	_, err = parseVariables([]string{"missing"})
	require.Error(t, err)
}

func TestExitCodeFromError(t *testing.T) {
	assert.Equal(t, ExitSuccess, ExitCodeFromError(nil))
	assert.Equal(t, ExitTemplateError, ExitCodeFromError(&expr.EvalError{Template: "x"}))
	assert.Equal(t, ExitTemplateError, ExitCodeFromError(&engine.InvalidURIError{LayerID: "l"}))
	assert.Equal(t, ExitNotFound, ExitCodeFromError(os.ErrNotExist))
	assert.Equal(t, ExitCancelled, ExitCodeFromError(NewExitError(ErrCancelled, ExitCancelled)))
	assert.Equal(t, ExitGeneralError, ExitCodeFromError(assert.AnError))
}

func TestExitCodeName(t *testing.T) {
	assert.Equal(t, "Success", ExitCodeName(ExitSuccess))
	assert.Equal(t, "Template Error", ExitCodeName(ExitTemplateError))
	assert.Equal(t, "Unknown", ExitCodeName(99))
}
