package engine

import (
	"github.com/atlasgen/cli/internal/output"
	"github.com/atlasgen/cli/internal/project"
)

// wmsTargets maps each project-scoped template to the published property it
// feeds.
var wmsTargets = []struct {
	templateKey string
	wmsKey      string
}{
	{project.KeyTitle, project.KeyWMSServiceTitle},
	{project.KeyShortName, project.KeyWMSRootName},
	{project.KeyAbstract, project.KeyWMSServiceAbstract},
}

// rewriteProjectProperties resolves the project-scoped templates into the
// published WMS-facing properties and makes sure the WMS capability flag is
// on. Failed templates are logged and leave the published value unchanged.
func (e *Engine) rewriteProjectProperties() {
	if _, ok := e.proj.ReadEntry(project.NamespaceWMS, project.KeyWMSServiceCapabilities); !ok {
		e.proj.WriteEntry(project.NamespaceWMS, project.KeyWMSServiceCapabilities, "True")
	}

	ctx := e.contextFor(nil)
	for _, t := range wmsTargets {
		template, ok := e.proj.ReadEntry(project.Namespace, t.templateKey)
		if !ok || template == "" {
			continue
		}
		resolved, err := e.eval.Resolve(template, ctx)
		if err != nil {
			output.Error("project template failed",
				"property", t.templateKey, "error", err)
			continue
		}
		e.proj.WriteEntry(project.NamespaceWMS, t.wmsKey, resolved)
	}
}
