package generator

import "github.com/atlasgen/cli/internal/output"

// ProgressSink receives batch progress as an integer percentage. Updates
// arrive after each record and a final 100 is sent when the run completes
// without cancellation.
type ProgressSink interface {
	SetProgress(pct int)
}

// logSink is the headless default: progress goes to the debug log.
type logSink struct{}

func (logSink) SetProgress(pct int) {
	output.Debug("progress", "pct", pct)
}
