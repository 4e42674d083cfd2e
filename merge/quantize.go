package merge

import (
	"math"

	"github.com/tsawler/cartograph/model"
)

// Quantize snaps a coordinate to the nearest multiple of tol. A tolerance
// of zero or less disables snapping and returns the coordinate unchanged.
//
// Both merge algorithms quantize through this function so their connectivity
// decisions agree on the same grid: two endpoints that differ by less than
// half the tolerance in each axis land on the same grid coordinate.
func Quantize(v, tol float64) float64 {
	if tol <= 0 {
		return v
	}
	return math.Round(v/tol) * tol
}

// Node is a coordinate pair rounded to the tolerance grid. Nodes serve only
// as map keys for endpoint identity; they are never emitted as geometry.
type Node struct {
	X, Y float64
}

// NodeFor returns the grid node a point falls on.
func NodeFor(p model.Point, tol float64) Node {
	return Node{X: Quantize(p.X, tol), Y: Quantize(p.Y, tol)}
}
