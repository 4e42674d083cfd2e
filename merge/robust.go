package merge

import (
	"github.com/twpayne/go-geom"

	"github.com/tsawler/cartograph/model"
)

// Ops is the geometry-engine collaborator the robust tier depends on. Every
// operation may fail on degenerate input; a failure is treated as a pass
// failure, never propagated.
//
// The geos package provides the production implementation.
type Ops interface {
	// UnaryUnion dissolves a set of geometries into one.
	UnaryUnion(gs []geom.T) (geom.T, error)

	// LineMerge joins connected linework into maximal polylines.
	LineMerge(g geom.T) (geom.T, error)

	// Snap moves vertices of g onto ref within tol.
	Snap(g, ref geom.T, tol float64) (geom.T, error)

	// Buffer expands g by dist.
	Buffer(g geom.T, dist float64) (geom.T, error)

	// Boundary extracts the boundary of an areal geometry.
	Boundary(g geom.T) (geom.T, error)
}

// Robust merges segments with the geometry engine, trying three isolated
// passes in order:
//
//  1. union the grid-snapped segments and merge connected pieces
//  2. additionally snap the union onto itself at the tolerance, then merge
//  3. buffer the union by half the tolerance, extract the boundary, merge
//
// Each pass starts from a fresh union so one pass's failure cannot poison
// the next. Robust returns nil when all passes fail or yield nothing; the
// caller then falls back to the graph tier.
func Robust(segs []Segment, tol float64, ops Ops) geom.T {
	if ops == nil || len(segs) == 0 {
		return nil
	}
	snapped := SnapSegments(segs, tol)
	if len(snapped) == 0 {
		return nil
	}
	lines := make([]geom.T, 0, len(snapped))
	for _, s := range snapped {
		if ls := lineString(s.Coords); ls != nil {
			lines = append(lines, ls)
		}
	}
	if len(lines) == 0 {
		return nil
	}

	// Pass 1: plain union + merge.
	if u, err := ops.UnaryUnion(lines); err == nil {
		if m, err := ops.LineMerge(u); err == nil && !model.IsEmptyGeometry(m) {
			return m
		}
	}

	// Pass 2: snap the union to itself before merging.
	if u, err := ops.UnaryUnion(lines); err == nil {
		if s, err := ops.Snap(u, u, tol); err == nil {
			if m, err := ops.LineMerge(s); err == nil && !model.IsEmptyGeometry(m) {
				return m
			}
		}
	}

	// Pass 3: buffer by half the tolerance and merge the boundary.
	if u, err := ops.UnaryUnion(lines); err == nil {
		if b, err := ops.Buffer(u, tol*0.5); err == nil {
			if bd, err := ops.Boundary(b); err == nil {
				if ub, err := ops.UnaryUnion([]geom.T{bd}); err == nil {
					if m, err := ops.LineMerge(ub); err == nil && !model.IsEmptyGeometry(m) {
						return m
					}
				}
			}
		}
	}

	return nil
}

// UnionPolygons dissolves the polygon rings collected for one block into a
// single areal geometry. It returns nil when the engine is unavailable, the
// union fails, or the result is empty; the caller then proceeds to the line
// tiers.
func UnionPolygons(polys []geom.T, ops Ops) geom.T {
	if ops == nil || len(polys) == 0 {
		return nil
	}
	u, err := ops.UnaryUnion(polys)
	if err != nil || model.IsEmptyGeometry(u) {
		return nil
	}
	return u
}
