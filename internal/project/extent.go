package project

import (
	"strconv"

	"github.com/paulmach/orb"
)

// Extent is a cached spatial bounding box. It wraps orb.Bound with the
// operations the engine needs: margin buffering, degeneracy checks and the
// published WMS string form.
type Extent struct {
	Bound orb.Bound
}

// NewExtent builds an extent from its four bounds.
func NewExtent(xMin, yMin, xMax, yMax float64) Extent {
	return Extent{Bound: orb.Bound{
		Min: orb.Point{xMin, yMin},
		Max: orb.Point{xMax, yMax},
	}}
}

// Width returns the extent width.
func (e Extent) Width() float64 {
	return e.Bound.Max[0] - e.Bound.Min[0]
}

// Height returns the extent height.
func (e Extent) Height() float64 {
	return e.Bound.Max[1] - e.Bound.Min[1]
}

// IsDegenerate reports whether the extent has non-positive width.
func (e Extent) IsDegenerate() bool {
	return e.Width() <= 0
}

// Buffer returns the extent grown symmetrically by margin on all sides.
func (e Extent) Buffer(margin float64) Extent {
	return NewExtent(
		e.Bound.Min[0]-margin,
		e.Bound.Min[1]-margin,
		e.Bound.Max[0]+margin,
		e.Bound.Max[1]+margin,
	)
}

// MarginFor computes the buffer distance for a percentage margin: the larger
// of the two axis-proportional margins, so the buffer is never
// anisotropically tiny on one axis.
func (e Extent) MarginFor(pct int) float64 {
	marginX := e.Width() * float64(pct) / 100
	marginY := e.Height() * float64(pct) / 100
	if marginX > marginY {
		return marginX
	}
	return marginY
}

// Union returns the smallest extent covering both e and other.
func (e Extent) Union(other Extent) Extent {
	return Extent{Bound: e.Bound.Union(other.Bound)}
}

// Coords returns [xmin, ymin, xmax, ymax].
func (e Extent) Coords() [4]float64 {
	return [4]float64{e.Bound.Min[0], e.Bound.Min[1], e.Bound.Max[0], e.Bound.Max[1]}
}

// WMSStrings returns the four bounds as ordered, formatted coordinate
// strings, the form persisted under the published extent property.
func (e Extent) WMSStrings() []string {
	coords := e.Coords()
	out := make([]string, 4)
	for i, c := range coords {
		out[i] = strconv.FormatFloat(c, 'f', -1, 64)
	}
	return out
}
