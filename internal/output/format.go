package output

import "fmt"

// FormatLayerLine formats a per-layer status line:
//
//	layer roads (ogr): written
func FormatLayerLine(name, provider, status string) string {
	return fmt.Sprintf("layer %s (%s): %s", StyleNoun.Render(name), provider, StyleStatus(status))
}

// FormatRecordLine formats a per-record batch line:
//
//	record 3/12 key=folder_3 -> out/folder_3/project.yaml
func FormatRecordLine(index, total int, key, destination string) string {
	return fmt.Sprintf("record %d/%d key=%s -> %s", index, total, StyleNoun.Render(key), destination)
}

// FormatProgress formats a progress percentage line.
func FormatProgress(pct int) string {
	return fmt.Sprintf("progress %3d%%", pct)
}
