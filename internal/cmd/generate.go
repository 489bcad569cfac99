package cmd

import (
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/atlasgen/cli/internal/coverage"
	"github.com/atlasgen/cli/internal/expr"
	"github.com/atlasgen/cli/internal/generator"
	"github.com/atlasgen/cli/internal/output"
	"github.com/atlasgen/cli/internal/project"
)

// NewGenerateCmd creates the generate command.
func NewGenerateCmd() *cobra.Command {
	var (
		coverageFlag string
		tableFlag    string
		fieldFlag    string
		templateFlag string
		destFlag     string
		sidecarsFlag bool
		limitFlag    int
	)

	generateCmd := &cobra.Command{
		Use:   "generate PROJECT",
		Short: "Generate one project per coverage record",
		Long: `Generate a batch of projects from a parent project and a coverage source.

Every coverage record is bound as the feature scope, applied to the parent
and written to the destination under a name produced by the filename
template. Side-car files are copied next to each generated project; a .cfg
side-car gets its extent fields patched to the record's extent. Interrupting
the run (Ctrl-C) stops it at the next record boundary.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := GetConfig()
			if !cmd.Flags().Changed("destination") && cfg.Destination != "" {
				destFlag = cfg.Destination
			}
			if !cmd.Flags().Changed("copy-sidecars") {
				sidecarsFlag = cfg.ShouldCopySidecars()
			}
			if !cmd.Flags().Changed("limit") {
				limitFlag = cfg.Limit
			}
			return runGenerate(cmd, args[0], coverageFlag, tableFlag, fieldFlag, templateFlag, destFlag, sidecarsFlag, limitFlag)
		},
	}

	generateCmd.Flags().StringVar(&coverageFlag, "coverage", "", "Coverage source driving the batch (required)")
	generateCmd.Flags().StringVar(&tableFlag, "table", "", "Table name for SQLite coverage sources")
	generateCmd.Flags().StringVar(&fieldFlag, "field", "", "Coverage field identifying records in logs")
	generateCmd.Flags().StringVar(&templateFlag, "filename-template", "", "Expression producing each record's filename (required)")
	generateCmd.Flags().StringVar(&destFlag, "destination", ".", "Output directory (env: ATLASGEN_DESTINATION)")
	generateCmd.Flags().BoolVar(&sidecarsFlag, "copy-sidecars", true, "Copy project side-car files (env: ATLASGEN_COPY_SIDECARS)")
	generateCmd.Flags().IntVar(&limitFlag, "limit", 0, "Cap the number of records processed, 0 for all (env: ATLASGEN_LIMIT)")
	_ = generateCmd.MarkFlagRequired("coverage")
	_ = generateCmd.MarkFlagRequired("filename-template")

	return generateCmd
}

func runGenerate(cmd *cobra.Command, path, coveragePath, table, field, template, dest string, sidecars bool, limit int) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	p, err := project.Read(path)
	if err != nil {
		return err
	}
	applyConfigDefaults(p)

	src, err := coverage.Open(coveragePath, table)
	if err != nil {
		return err
	}
	defer src.Close()

	summary, err := generator.Generate(ctx, p, expr.NewEvaluator(), generator.Options{
		Coverage:         src,
		KeyField:         field,
		FilenameTemplate: template,
		Destination:      dest,
		CopySidecars:     sidecars,
		Limit:            limit,
		Progress:         ttyProgress{},
	})
	if err != nil {
		return err
	}

	output.Println(output.Summary(summary.Generated, summary.Skipped, summary.Failed))

	if summary.Cancelled {
		return NewExitError(ErrCancelled, ExitCancelled)
	}
	return nil
}

// ttyProgress prints progress lines on terminals and stays quiet in pipes,
// where the structured log already carries the percentages.
type ttyProgress struct{}

func (ttyProgress) SetProgress(pct int) {
	if output.IsTTY() {
		output.Println(output.FormatProgress(pct))
	} else {
		output.Debug("progress", "pct", pct)
	}
}
