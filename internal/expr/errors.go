package expr

import "fmt"

// EvalError indicates a template failed to parse or evaluate against its
// context. It is always surfaced, never swallowed: a broken template is a
// user-authoring mistake that would otherwise silently corrupt output.
type EvalError struct {
	// Template is the offending template text.
	Template string

	// Diagnostic is the underlying parse/eval error.
	Diagnostic error
}

func (e *EvalError) Error() string {
	return fmt.Sprintf("evaluating template %q: %v", e.Template, e.Diagnostic)
}

func (e *EvalError) Unwrap() error {
	return e.Diagnostic
}
