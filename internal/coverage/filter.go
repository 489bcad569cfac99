package coverage

import (
	"errors"
	"fmt"

	"github.com/atlasgen/cli/internal/expr"
	"github.com/atlasgen/cli/internal/output"
)

// ErrNoRecords indicates the coverage source has no records.
var ErrNoRecords = errors.New("coverage source has no records")

// FirstMatching returns the first record for which filter evaluates to true.
//
// An empty filter selects the first record. A filter that fails to parse or
// evaluate is logged and ignored, falling back to the first record: a broken
// filter narrows nothing, it must not block variable binding.
func FirstMatching(eval *expr.Evaluator, src Source, filter string) (Record, error) {
	cur, err := src.Cursor()
	if err != nil {
		return Record{}, err
	}
	defer cur.Close()

	var first Record
	haveFirst := false

	for {
		rec, ok, err := cur.Next()
		if err != nil {
			return Record{}, err
		}
		if !ok {
			break
		}
		if !haveFirst {
			first = rec
			haveFirst = true
		}
		if filter == "" {
			return rec, nil
		}

		ctx := expr.NewContext()
		ctx.BindFeature(src.Name(), rec.Values())

		val, err := eval.Resolve(filter, ctx)
		if err != nil {
			var evalErr *expr.EvalError
			if errors.As(err, &evalErr) {
				output.Warn("coverage filter failed to evaluate, using first record",
					"filter", filter, "error", evalErr.Diagnostic)
				return first, nil
			}
			return Record{}, err
		}
		if val == "true" {
			return rec, nil
		}
	}

	if !haveFirst {
		return Record{}, ErrNoRecords
	}
	if filter != "" {
		return Record{}, fmt.Errorf("no coverage record matches filter %q", filter)
	}
	return first, nil
}
