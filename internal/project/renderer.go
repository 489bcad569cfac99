package project

import (
	"fmt"
	"sort"
)

// ClassMode selects how graduated class breaks are computed.
type ClassMode string

const (
	ModeEqualInterval ClassMode = "equalinterval"
	ModeQuantile      ClassMode = "quantile"
)

// ClassRange is one class of a graduated renderer.
type ClassRange struct {
	Lower float64 `yaml:"lower"`
	Upper float64 `yaml:"upper"`
	Label string  `yaml:"label"`
}

// GraduatedRenderer is a classed renderer over a numeric field. Its class
// ranges are derived state: they must be recomputed when the underlying
// datasource changes, but never destroyed when a user has tuned them by hand.
type GraduatedRenderer struct {
	field  string
	mode   ClassMode
	ranges []ClassRange
}

// NewGraduatedRenderer creates a renderer for field with the given mode and a
// single degenerate class, the uninitialized state a first classification
// replaces.
func NewGraduatedRenderer(field string, mode ClassMode) *GraduatedRenderer {
	return &GraduatedRenderer{
		field:  field,
		mode:   mode,
		ranges: []ClassRange{{}},
	}
}

// Field returns the classified field name.
func (r *GraduatedRenderer) Field() string { return r.field }

// Mode returns the configured classification mode.
func (r *GraduatedRenderer) Mode() ClassMode { return r.mode }

// Ranges returns the current class ranges.
func (r *GraduatedRenderer) Ranges() []ClassRange {
	out := make([]ClassRange, len(r.ranges))
	copy(out, r.ranges)
	return out
}

// SetRanges replaces the class ranges.
func (r *GraduatedRenderer) SetRanges(ranges []ClassRange) {
	r.ranges = make([]ClassRange, len(ranges))
	copy(r.ranges, ranges)
}

// UpdateClasses recomputes count class ranges from the layer's current data
// using the given mode.
func (r *GraduatedRenderer) UpdateClasses(l *Layer, mode ClassMode, count int) error {
	if count < 1 {
		return fmt.Errorf("class count must be positive, got %d", count)
	}

	values, err := l.FieldValues(r.field)
	if err != nil {
		return fmt.Errorf("classifying field %q: %w", r.field, err)
	}
	if len(values) == 0 {
		return nil
	}

	sort.Float64s(values)
	breaks := classBreaks(values, mode, count)

	ranges := make([]ClassRange, 0, count)
	for i := 0; i < count; i++ {
		lower, upper := breaks[i], breaks[i+1]
		ranges = append(ranges, ClassRange{
			Lower: lower,
			Upper: upper,
			Label: fmt.Sprintf("%g - %g", lower, upper),
		})
	}
	r.ranges = ranges
	l.touch()
	return nil
}

// classBreaks computes count+1 ascending break values over sorted values.
func classBreaks(sorted []float64, mode ClassMode, count int) []float64 {
	min, max := sorted[0], sorted[len(sorted)-1]
	breaks := make([]float64, count+1)

	switch mode {
	case ModeQuantile:
		for i := 0; i <= count; i++ {
			idx := i * (len(sorted) - 1) / count
			breaks[i] = sorted[idx]
		}
	default: // equal interval
		step := (max - min) / float64(count)
		for i := 0; i <= count; i++ {
			breaks[i] = min + float64(i)*step
		}
		breaks[count] = max
	}
	return breaks
}
