package generator

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/ohler55/ojg/jp"
	"github.com/ohler55/ojg/oj"

	"github.com/atlasgen/cli/internal/output"
	"github.com/atlasgen/cli/internal/project"
)

// SidecarPatchError reports a failure while patching the config side-car.
// Always absorbed by the caller: by the time the patch runs, the project file
// itself has already been written.
type SidecarPatchError struct {
	Path string
	Err  error
}

// Error implements the error interface.
func (e *SidecarPatchError) Error() string {
	return fmt.Sprintf("patching side-car %s: %v", e.Path, e.Err)
}

// Unwrap returns the underlying error.
func (e *SidecarPatchError) Unwrap() error { return e.Err }

// copySidecars copies every side-car of the source project next to the
// destination project. A side-car is any file in the source directory whose
// name is the source filename plus a suffix. A ".cfg" side-car additionally
// gets its extent fields rewritten when the run produced one. Failures are
// logged per file and never abort the record.
func copySidecars(srcProject, destProject string, ext *project.Extent) {
	srcDir := filepath.Dir(srcProject)
	srcBase := filepath.Base(srcProject)

	entries, err := os.ReadDir(srcDir)
	if err != nil {
		output.Error("listing side-cars failed", "dir", srcDir, "error", err)
		return
	}

	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || name == srcBase || !strings.HasPrefix(name, srcBase) {
			continue
		}
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		suffix := name[len(srcBase):]
		dest := destProject + suffix

		if err := copyFile(filepath.Join(srcDir, name), dest); err != nil {
			output.Error("side-car copy failed", "file", name, "error", err)
			continue
		}
		output.Debug("side-car copied", "file", name, "dest", dest)

		if strings.EqualFold(suffix, ".cfg") && ext != nil {
			if err := patchConfigSidecar(dest, *ext); err != nil {
				output.Error("side-car patch failed", "error", err)
			}
		}
	}
}

// patchConfigSidecar overwrites the bbox and initial extent of a JSON config
// side-car with the run's extent.
func patchConfigSidecar(path string, ext project.Extent) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return &SidecarPatchError{Path: path, Err: err}
	}

	doc, err := oj.Parse(data)
	if err != nil {
		return &SidecarPatchError{Path: path, Err: err}
	}

	coords := ext.Coords()
	bbox := []any{coords[0], coords[1], coords[2], coords[3]}
	for _, selector := range []string{"options.bbox", "options.initialExtent"} {
		x, err := jp.ParseString(selector)
		if err != nil {
			return &SidecarPatchError{Path: path, Err: err}
		}
		if err := x.Set(doc, bbox); err != nil {
			return &SidecarPatchError{Path: path, Err: err}
		}
	}

	if err := os.WriteFile(path, []byte(oj.JSON(doc, 2)), 0o644); err != nil {
		return &SidecarPatchError{Path: path, Err: err}
	}
	return nil
}

// copyFile copies src to dest byte for byte.
func copyFile(src, dest string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dest)
	if err != nil {
		return err
	}
	defer out.Close()

	if _, err := io.Copy(out, in); err != nil {
		return err
	}
	return out.Close()
}
