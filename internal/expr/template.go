package expr

import (
	"errors"
	"strings"
)

// Splice delimiters for ModeTemplate.
const (
	spliceOpen  = "[%"
	spliceClose = "%]"
)

// resolveSplices treats text as literal content with embedded [% expr %]
// splices, evaluating each splice as an expression.
func (e *Evaluator) resolveSplices(text string, ctx *Context) (string, error) {
	var b strings.Builder
	rest := text

	for {
		open := strings.Index(rest, spliceOpen)
		if open < 0 {
			b.WriteString(rest)
			return b.String(), nil
		}

		b.WriteString(rest[:open])
		rest = rest[open+len(spliceOpen):]

		end := strings.Index(rest, spliceClose)
		if end < 0 {
			return "", &EvalError{Template: text, Diagnostic: errors.New("unterminated [% splice")}
		}

		inner := strings.TrimSpace(rest[:end])
		rest = rest[end+len(spliceClose):]

		if inner == "" {
			continue
		}

		val, err := e.resolveExpression(inner, ctx)
		if err != nil {
			var evalErr *EvalError
			if errors.As(err, &evalErr) {
				// Report the whole template, not just the splice.
				return "", &EvalError{Template: text, Diagnostic: evalErr.Diagnostic}
			}
			return "", err
		}
		b.WriteString(val)
	}
}
