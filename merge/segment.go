package merge

import "github.com/tsawler/cartograph/model"

// Segment is one ordered coordinate run collected from a flattened entity.
// Segments live only for the duration of a single merge call.
type Segment struct {
	Coords []model.Point
}

// NewSegment wraps a coordinate run as a segment. It returns false when the
// run has fewer than two coordinates.
func NewSegment(pts []model.Point) (Segment, bool) {
	if len(pts) < 2 {
		return Segment{}, false
	}
	return Segment{Coords: pts}, true
}

// Start returns the first coordinate.
func (s Segment) Start() model.Point {
	return s.Coords[0]
}

// End returns the last coordinate.
func (s Segment) End() model.Point {
	return s.Coords[len(s.Coords)-1]
}

// Length returns the planar length of the segment.
func (s Segment) Length() float64 {
	var total float64
	for i := 1; i < len(s.Coords); i++ {
		total += s.Coords[i-1].Distance(s.Coords[i])
	}
	return total
}

// SnapSegments snaps every segment's two endpoints to the tolerance grid and
// drops segments left degenerate: consecutive duplicate coordinates are
// removed, and runs with fewer than two distinct points or zero length are
// discarded. Interior coordinates are left untouched.
//
// A tolerance of zero or less returns the input unchanged.
func SnapSegments(segs []Segment, tol float64) []Segment {
	if tol <= 0 || len(segs) == 0 {
		return segs
	}
	out := make([]Segment, 0, len(segs))
	for _, s := range segs {
		if len(s.Coords) < 2 {
			continue
		}
		head := s.Coords[0]
		head.X, head.Y = Quantize(head.X, tol), Quantize(head.Y, tol)
		tail := s.Coords[len(s.Coords)-1]
		tail.X, tail.Y = Quantize(tail.X, tol), Quantize(tail.Y, tol)

		snapped := make([]model.Point, 0, len(s.Coords))
		snapped = append(snapped, head)
		for _, p := range s.Coords[1 : len(s.Coords)-1] {
			if !p.EqualXY(snapped[len(snapped)-1]) {
				snapped = append(snapped, p)
			}
		}
		if !tail.EqualXY(snapped[len(snapped)-1]) {
			snapped = append(snapped, tail)
		}

		seg, ok := NewSegment(snapped)
		if !ok || seg.Length() <= 0 {
			continue
		}
		out = append(out, seg)
	}
	return out
}
