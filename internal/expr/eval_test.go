package expr

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testContext() *Context {
	ctx := NewContext()
	ctx.AppendScope("global", map[string]any{"app": "atlasgen"})
	ctx.AppendScope("project", map[string]any{"project_title": "Parent", "region": "north"})
	return ctx
}

func TestResolveEmptyTemplate(t *testing.T) {
	e := NewEvaluator()
	got, err := e.Resolve("", testContext())
	require.NoError(t, err)
	assert.Equal(t, "", got)
}

func TestResolveStringExpression(t *testing.T) {
	e := NewEvaluator()
	ctx := testContext()
	ctx.BindFeature("2", map[string]any{"id": 2, "folder": "folder_2"})

	got, err := e.Resolve(`"fixtures/\(folder)/lines_\(id).geojson"`, ctx)
	require.NoError(t, err)
	assert.Equal(t, "fixtures/folder_2/lines_2.geojson", got)
}

func TestResolveScopePrecedence(t *testing.T) {
	e := NewEvaluator()
	ctx := testContext()
	ctx.BindFeature("1", map[string]any{"region": "south"})

	vars := NewVariables()
	vars.Set("region", "override")
	ctx.AppendScope("variables", vars.Map())

	got, err := e.Resolve("region", ctx)
	require.NoError(t, err)
	assert.Equal(t, "override", got)
}

func TestResolveFeatureShadowsProject(t *testing.T) {
	e := NewEvaluator()
	ctx := testContext()
	ctx.BindFeature("1", map[string]any{"region": "south"})

	got, err := e.Resolve("region", ctx)
	require.NoError(t, err)
	assert.Equal(t, "south", got)
}

func TestResolveNullCoercedToEmpty(t *testing.T) {
	e := NewEvaluator()
	got, err := e.Resolve("null", testContext())
	require.NoError(t, err)
	assert.Equal(t, "", got)
}

func TestResolveNumericResult(t *testing.T) {
	e := NewEvaluator()
	ctx := NewContext()
	ctx.AppendScope("variables", map[string]any{"count": 3})

	got, err := e.Resolve("count * 2", ctx)
	require.NoError(t, err)
	assert.Equal(t, "6", got)
}

func TestResolveParseErrorPropagates(t *testing.T) {
	e := NewEvaluator()
	_, err := e.Resolve(`"unclosed`, testContext())

	var evalErr *EvalError
	require.ErrorAs(t, err, &evalErr)
	assert.Equal(t, `"unclosed`, evalErr.Template)
}

func TestResolveUnboundReferenceSubstitutesEmpty(t *testing.T) {
	e := NewEvaluator()

	got, err := e.Resolve("no_such_variable", testContext())
	require.NoError(t, err)
	assert.Equal(t, "", got)

	got, err = e.Resolve(`"title_" + no_such_variable`, testContext())
	require.NoError(t, err)
	assert.Equal(t, "title_", got)

	got, err = e.Resolve(`"maps/\(no_such_variable)/\(region)"`, testContext())
	require.NoError(t, err)
	assert.Equal(t, "maps//north", got)
}

func TestResolveTemplateMode(t *testing.T) {
	e := NewEvaluator()
	ctx := testContext()
	ctx.BindFeature("7", map[string]any{"name": "Rivers"})

	got, err := e.ResolveMode("Map of [% name %] ([% region %])", ctx, ModeTemplate)
	require.NoError(t, err)
	assert.Equal(t, "Map of Rivers (north)", got)
}

func TestResolveTemplateModeNoSplices(t *testing.T) {
	e := NewEvaluator()
	got, err := e.ResolveMode("plain text", testContext(), ModeTemplate)
	require.NoError(t, err)
	assert.Equal(t, "plain text", got)
}

func TestResolveTemplateModeUnterminated(t *testing.T) {
	e := NewEvaluator()
	_, err := e.ResolveMode("broken [% name", testContext(), ModeTemplate)

	var evalErr *EvalError
	require.ErrorAs(t, err, &evalErr)
}

func TestQuoteLiteral(t *testing.T) {
	e := NewEvaluator()
	got, err := e.Resolve(QuoteLiteral(`My "quoted" layer`), NewContext())
	require.NoError(t, err)
	assert.Equal(t, `My "quoted" layer`, got)
}

func TestVariablesOrder(t *testing.T) {
	vars := NewVariables()
	vars.Set("b", 1)
	vars.Set("a", 2)
	vars.Set("b", 3)

	assert.Equal(t, []string{"b", "a"}, vars.Names())
	v, ok := vars.Get("b")
	require.True(t, ok)
	assert.Equal(t, 3, v)
	assert.Equal(t, 2, vars.Len())
}

func TestContextDescribe(t *testing.T) {
	ctx := testContext()
	ctx.BindFeature("42", map[string]any{"id": 42})
	ctx.AppendScope("variables", map[string]any{"x": 1})

	desc := ctx.Describe()
	assert.Contains(t, desc, "global")
	assert.Contains(t, desc, "feature(42)")
	assert.Contains(t, desc, "variables[x]")
}
