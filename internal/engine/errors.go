package engine

import "fmt"

// InvalidURIError reports a datasource template that resolved to an empty
// connection string. An empty connection string is never usable, so the
// affected layer keeps its previous datasource.
type InvalidURIError struct {
	// LayerID identifies the layer whose datasource rewrite was rejected.
	LayerID string

	// Template is the datasource template that resolved to empty.
	Template string
}

// Error implements the error interface.
func (e *InvalidURIError) Error() string {
	return fmt.Sprintf("layer %s: datasource template %q resolved to an empty connection string", e.LayerID, e.Template)
}
