// Package generator runs the batch loop: one generated project per coverage
// record. Every record re-runs the single-project engine against the same
// in-memory parent, so records are processed strictly in source order and
// never concurrently.
package generator

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/atlasgen/cli/internal/coverage"
	"github.com/atlasgen/cli/internal/engine"
	"github.com/atlasgen/cli/internal/expr"
	"github.com/atlasgen/cli/internal/output"
	"github.com/atlasgen/cli/internal/project"
)

// Options configures one batch generation run.
type Options struct {
	// Coverage drives the run: one generated project per record.
	Coverage coverage.Source

	// KeyField names the coverage field used to identify records in logs.
	KeyField string

	// FilenameTemplate is the expression producing each record's destination
	// filename, extension included. Evaluated with project, coverage and
	// record scopes.
	FilenameTemplate string

	// Destination is the output directory. Resolved filenames may add
	// per-record sub-folders beneath it.
	Destination string

	// CopySidecars copies the parent project's side-car files next to every
	// generated project.
	CopySidecars bool

	// Limit caps the number of records processed when positive. Zero or
	// negative means all records.
	Limit int

	// Viewport is the optional interactive viewport, absent in headless runs.
	Viewport engine.ViewportProvider

	// Progress receives percentage updates. Nil means log-only progress.
	Progress ProgressSink
}

// Summary reports the outcome of a batch run.
type Summary struct {
	// Total is the number of records the run set out to process, after the
	// record limit was applied.
	Total int

	// Generated counts successfully written projects.
	Generated int

	// Failed counts records that errored.
	Failed int

	// Skipped counts records left unprocessed after a cancellation.
	Skipped int

	// Cancelled reports whether the run was cut short by the caller.
	Cancelled bool

	// Paths lists the written project files in generation order.
	Paths []string
}

// Generate produces one project file per coverage record.
//
// Each record is bound as the feature scope, applied to the project in
// lenient mode, named by the filename template and written by temporarily
// repointing the project's file identity. The parent's identity and dirty
// state are restored after every write, so the in-memory project is unchanged
// when Generate returns.
//
// Cancellation is polled between steps, never mid-write. A record's failure
// is logged and counted; it never halts the run.
func Generate(ctx context.Context, p *project.Project, eval *expr.Evaluator, opts Options) (*Summary, error) {
	total, err := opts.Coverage.Count()
	if err != nil {
		return nil, fmt.Errorf("counting coverage records: %w", err)
	}
	if opts.Limit > 0 && opts.Limit < total {
		total = opts.Limit
	}

	sink := opts.Progress
	if sink == nil {
		sink = logSink{}
	}

	cur, err := opts.Coverage.Cursor()
	if err != nil {
		return nil, fmt.Errorf("opening coverage cursor: %w", err)
	}
	defer cur.Close()

	summary := &Summary{Total: total}
	seen := make(map[string]int)
	plog := output.ProjectLogger(filepath.Base(p.FileName()))

	for i := 0; i < total; i++ {
		if cancelled(ctx, summary) {
			break
		}

		rec, ok, err := cur.Next()
		if err != nil {
			return summary, fmt.Errorf("reading coverage record: %w", err)
		}
		if !ok {
			break
		}

		key := rec.StringValue(opts.KeyField)
		plog.Info("generating project", "record", key)

		dest, err := generateOne(ctx, p, eval, opts, rec, summary, seen)
		if err != nil {
			plog.Error("record failed", "record", key, "error", err)
			summary.Failed++
		} else if dest != "" {
			output.Println(output.FormatRecordLine(i+1, total, key, dest))
		}
		if summary.Cancelled {
			break
		}

		sink.SetProgress((i + 1) * 100 / total)
	}

	summary.Skipped = summary.Total - summary.Generated - summary.Failed
	if !summary.Cancelled {
		sink.SetProgress(100)
	}
	return summary, nil
}

// generateOne runs the per-record state machine: bind, apply, name, write,
// copy sidecars. Cancellation is checked at each step boundary. It returns
// the written destination, or "" when cancellation stopped the record before
// its write.
func generateOne(ctx context.Context, p *project.Project, eval *expr.Evaluator, opts Options, rec coverage.Record, summary *Summary, seen map[string]int) (string, error) {
	eng := engine.New(p, eval,
		engine.WithMode(engine.ModeLenient),
		engine.WithFeature(opts.Coverage.Name(), rec.Values()),
		engine.WithViewport(opts.Viewport))

	if cancelled(ctx, summary) {
		return "", nil
	}

	if err := eng.Apply(); err != nil {
		return "", err
	}
	if cancelled(ctx, summary) {
		return "", nil
	}

	dest, err := resolveDestination(p, eval, opts, rec)
	if err != nil {
		return "", err
	}
	if n := seen[dest]; n > 0 {
		output.Warn("duplicate destination, overwriting earlier output", "path", dest)
	}
	seen[dest]++
	if cancelled(ctx, summary) {
		return "", nil
	}

	source := p.FileName()
	if err := writeAs(p, dest); err != nil {
		return "", err
	}
	summary.Generated++
	summary.Paths = append(summary.Paths, dest)
	if cancelled(ctx, summary) {
		return dest, nil
	}

	if opts.CopySidecars {
		copySidecars(source, dest, eng.LastExtent())
	}
	return dest, nil
}

// resolveDestination evaluates the filename template with project, coverage
// and record scopes and anchors it under the destination directory, creating
// per-record sub-folders as needed. The template owns the file extension.
func resolveDestination(p *project.Project, eval *expr.Evaluator, opts Options, rec coverage.Record) (string, error) {
	ectx := expr.NewContext()
	ectx.AppendScope("project", map[string]any{
		"project_title":    p.Title(),
		"project_filename": p.FileName(),
	})
	ectx.AppendScope("coverage", map[string]any{
		"coverage_name": opts.Coverage.Name(),
	})
	ectx.BindFeature(opts.Coverage.Name(), rec.Values())

	name, err := eval.Resolve(opts.FilenameTemplate, ectx)
	if err != nil {
		return "", err
	}
	if name == "" {
		return "", fmt.Errorf("filename template %q resolved to an empty name", opts.FilenameTemplate)
	}

	dest := filepath.Join(opts.Destination, name)
	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return "", fmt.Errorf("creating destination directory: %w", err)
	}
	return dest, nil
}

// writeAs persists the project at path by repointing its file identity for
// the duration of the write. Identity and dirty state are restored even when
// the write fails.
func writeAs(p *project.Project, path string) error {
	origName := p.FileName()
	origDirty := p.Dirty()
	p.SetFileName(path)
	defer func() {
		p.SetFileName(origName)
		p.SetDirty(origDirty)
	}()

	return p.Write()
}

// cancelled polls the run context, recording the cancellation on first
// observation.
func cancelled(ctx context.Context, summary *Summary) bool {
	if ctx.Err() == nil {
		return false
	}
	if !summary.Cancelled {
		output.Warn("generation cancelled")
		summary.Cancelled = true
	}
	return true
}
