package expr

import (
	"regexp"
	"strconv"
	"strings"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	cueerrors "cuelang.org/go/cue/errors"

	"github.com/atlasgen/cli/internal/output"
)

// Mode selects how a template string is interpreted.
type Mode int

const (
	// ModeExpression treats the whole template as a single expression.
	ModeExpression Mode = iota

	// ModeTemplate treats the template as literal text with embedded
	// [% expr %] splices.
	ModeTemplate
)

// Evaluator resolves template strings against an evaluation context.
//
// The expression language itself is CUE; the evaluator only depends on the
// parse/evaluate/null contract. A single Evaluator must not be shared across
// goroutines: it owns one cue.Context, and CUE contexts are not safe for
// concurrent evaluation.
type Evaluator struct {
	cctx *cue.Context
}

// NewEvaluator creates an Evaluator with a fresh CUE context.
func NewEvaluator() *Evaluator {
	return &Evaluator{cctx: cuecontext.New()}
}

// Resolve evaluates template as a single expression against ctx.
//
// An empty template short-circuits to the empty string. A parse or evaluation
// failure returns *EvalError. A reference bound in no scope substitutes as
// the empty string with a warning, never as a missing-key error. A null
// result is coerced to the empty string with a warning: titles and abstracts
// must never literally become a null marker.
func (e *Evaluator) Resolve(template string, ctx *Context) (string, error) {
	return e.ResolveMode(template, ctx, ModeExpression)
}

// ResolveMode is Resolve with an explicit interpretation mode.
func (e *Evaluator) ResolveMode(template string, ctx *Context, mode Mode) (string, error) {
	if template == "" {
		output.Info("no expression to evaluate")
		return "", nil
	}

	output.Debug("resolving template", "template", template, "scopes", ctx.Describe())

	if mode == ModeTemplate {
		return e.resolveSplices(template, ctx)
	}
	return e.resolveExpression(template, ctx)
}

// resolveExpression compiles and evaluates one expression in the flattened
// scope of ctx.
func (e *Evaluator) resolveExpression(template string, ctx *Context) (string, error) {
	bindings := ctx.flatten()

	var v cue.Value
	for {
		scope := e.cctx.Encode(bindings)
		if err := scope.Err(); err != nil {
			return "", &EvalError{Template: template, Diagnostic: err}
		}

		v = e.cctx.CompileString(template, cue.Scope(scope), cue.InferBuiltins(true))
		err := v.Err()
		if err == nil {
			break
		}

		// An absent binding substitutes as the empty string, it is not a
		// missing-key error. Bind the unresolved names and compile again.
		missing := unboundReferences(bindings, err)
		if len(missing) == 0 {
			output.Error("template failed to parse", "template", template, "error", err)
			return "", &EvalError{Template: template, Diagnostic: err}
		}
		output.Warn("unbound references substitute as empty strings",
			"template", template, "references", strings.Join(missing, " "))
		for _, name := range missing {
			bindings[name] = ""
		}
	}

	if v.Kind() == cue.NullKind {
		output.Warn("template evaluated to null, coercing to empty string", "template", template)
		return "", nil
	}

	if err := v.Validate(cue.Concrete(true)); err != nil {
		output.Error("template failed to evaluate", "template", template, "error", err)
		return "", &EvalError{Template: template, Diagnostic: err}
	}

	s, err := formatValue(v)
	if err != nil {
		output.Error("template result is not representable", "template", template, "error", err)
		return "", &EvalError{Template: template, Diagnostic: err}
	}
	return s, nil
}

var unboundRef = regexp.MustCompile(`reference "([^"]+)" not found`)

// unboundReferences extracts the names of unresolved references from a
// compile error. It returns nil when any part of the error is not an
// unresolved reference, or when a reported name is already bound, so genuine
// failures still propagate.
func unboundReferences(bound map[string]any, err error) []string {
	var names []string
	for _, e := range cueerrors.Errors(err) {
		m := unboundRef.FindStringSubmatch(e.Error())
		if m == nil {
			return nil
		}
		if _, ok := bound[m[1]]; ok {
			return nil
		}
		names = append(names, m[1])
	}
	return names
}

// formatValue renders a concrete CUE value as a string. Composite values fall
// back to their JSON form.
func formatValue(v cue.Value) (string, error) {
	switch v.Kind() {
	case cue.StringKind:
		return v.String()
	case cue.BoolKind:
		b, err := v.Bool()
		if err != nil {
			return "", err
		}
		return strconv.FormatBool(b), nil
	case cue.IntKind:
		i, err := v.Int64()
		if err != nil {
			return "", err
		}
		return strconv.FormatInt(i, 10), nil
	case cue.FloatKind, cue.NumberKind:
		f, err := v.Float64()
		if err != nil {
			return "", err
		}
		return strconv.FormatFloat(f, 'f', -1, 64), nil
	default:
		b, err := v.MarshalJSON()
		if err != nil {
			return "", err
		}
		return string(b), nil
	}
}

// QuoteLiteral wraps s so that resolving it yields s unchanged. Used for
// fallback values that must be treated as literals rather than re-evaluated.
func QuoteLiteral(s string) string {
	return strconv.Quote(s)
}
