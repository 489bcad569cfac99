package cmd

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/atlasgen/cli/internal/coverage"
	"github.com/atlasgen/cli/internal/engine"
	"github.com/atlasgen/cli/internal/expr"
	"github.com/atlasgen/cli/internal/output"
	"github.com/atlasgen/cli/internal/project"
)

// NewApplyCmd creates the apply command.
func NewApplyCmd() *cobra.Command {
	var (
		varFlags   []string
		sourceFlag string
		tableFlag  string
		filterFlag string
		lenient    bool
	)

	applyCmd := &cobra.Command{
		Use:   "apply PROJECT",
		Short: "Apply variable bindings to a project in place",
		Long: `Apply one set of variable bindings to a project.

Bindings come either from repeated --var flags or from the first record of a
coverage source (--source), optionally narrowed by a --filter expression. The
project's dynamic layers get their datasources and metadata rewritten and the
published extent is recomputed; the project file is then saved in place.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runApply(cmd, args[0], varFlags, sourceFlag, tableFlag, filterFlag, lenient)
		},
	}

	applyCmd.Flags().StringArrayVar(&varFlags, "var", nil, "Variable binding NAME=VALUE (repeatable)")
	applyCmd.Flags().StringVar(&sourceFlag, "source", "", "Coverage source supplying the bindings of one record")
	applyCmd.Flags().StringVar(&tableFlag, "table", "", "Table name for SQLite coverage sources")
	applyCmd.Flags().StringVar(&filterFlag, "filter", "", "Filter expression selecting the coverage record")
	applyCmd.Flags().BoolVar(&lenient, "lenient", false, "Skip failing layers instead of aborting")

	return applyCmd
}

func runApply(cmd *cobra.Command, path string, varFlags []string, source, table, filter string, lenient bool) error {
	p, err := project.Read(path)
	if err != nil {
		return err
	}
	applyConfigDefaults(p)

	eval := expr.NewEvaluator()
	opts := []engine.Option{engine.WithMode(engine.ModeStrict)}
	if lenient {
		opts = []engine.Option{engine.WithMode(engine.ModeLenient)}
	}

	if len(varFlags) > 0 {
		vars, err := parseVariables(varFlags)
		if err != nil {
			return err
		}
		opts = append(opts, engine.WithVariables(vars))
	}

	if source == "" {
		source = variableSourcePath(p)
	}
	if source != "" {
		src, err := coverage.Open(source, table)
		if err != nil {
			return err
		}
		defer src.Close()

		rec, err := coverage.FirstMatching(eval, src, filter)
		if err != nil {
			return err
		}
		opts = append(opts, engine.WithFeature(src.Name(), rec.Values()))
	}

	eng := engine.New(p, eval, opts...)
	err = output.RunWithSpinner(cmd.Context(), func() error {
		return eng.Apply()
	}, output.WithTitle("Applying bindings..."))
	if err != nil {
		return err
	}

	if err := p.Write(); err != nil {
		return err
	}

	for _, id := range p.LayerIDs() {
		l := p.Layer(id)
		status := output.StatusWritten
		if !l.IsValid() {
			status = output.StatusFailed
		}
		output.Println(output.FormatLayerLine(l.Name(), l.Provider(), status))
	}
	output.Println(fmt.Sprintf("%s %s", output.Checkmark(), output.StyleNoun.Render(path)))
	return nil
}

// parseVariables turns NAME=VALUE flags into an ordered variable set. Values
// parse as numbers when they look numeric, so templates can do arithmetic on
// them.
func parseVariables(flags []string) (*expr.Variables, error) {
	vars := expr.NewVariables()
	for _, f := range flags {
		name, value, ok := strings.Cut(f, "=")
		if !ok || name == "" {
			return nil, fmt.Errorf("invalid variable %q, expected NAME=VALUE", f)
		}
		if n, err := strconv.Atoi(value); err == nil {
			vars.Set(name, n)
			continue
		}
		if x, err := strconv.ParseFloat(value, 64); err == nil {
			vars.Set(name, x)
			continue
		}
		vars.Set(name, value)
	}
	return vars, nil
}

// variableSourcePath returns the file path of the project's configured
// variable source layer, if it names a readable local layer.
func variableSourcePath(p *project.Project) string {
	id, ok := p.ReadEntry(project.Namespace, project.KeyVariableSourceLayer)
	if !ok || id == "" {
		return ""
	}
	l := p.Layer(id)
	if l == nil {
		output.Warn("configured variable source layer not found", "layer", id)
		return ""
	}
	if l.Provider() != project.ProviderGeoJSON && l.Provider() != project.ProviderSQLite {
		output.Warn("variable source layer has no readable local source",
			"layer", id, "provider", l.Provider())
		return ""
	}
	return l.SourcePath()
}

// applyConfigDefaults seeds project settings from the CLI configuration when
// the project itself does not configure them.
func applyConfigDefaults(p *project.Project) {
	cfg := GetConfig()
	if cfg.ExtentMargin > 0 {
		if _, ok := p.ReadEntry(project.Namespace, project.KeyExtentMargin); !ok {
			p.WriteEntry(project.Namespace, project.KeyExtentMargin, strconv.Itoa(cfg.ExtentMargin))
		}
	}
}
