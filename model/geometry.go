package model

import (
	"math"

	"github.com/twpayne/go-geom"
)

// Point represents a coordinate in drawing space. Z is carried only when the
// conversion runs with elevation enabled; otherwise readers and flatteners
// force it to zero.
type Point struct {
	X, Y, Z float64
}

// Distance calculates the planar (XY) Euclidean distance to another point.
func (p Point) Distance(other Point) float64 {
	dx := p.X - other.X
	dy := p.Y - other.Y
	return math.Sqrt(dx*dx + dy*dy)
}

// EqualXY reports whether two points coincide exactly in the XY plane.
// Elevation is ignored: closure and connectivity decisions are planar.
func (p Point) EqualXY(other Point) bool {
	return p.X == other.X && p.Y == other.Y
}

// Matrix represents a 2D affine transformation matrix in the column order
// [a b c d tx ty].
type Matrix [6]float64

// Identity returns an identity matrix.
func Identity() Matrix {
	return Matrix{1, 0, 0, 1, 0, 0}
}

// Transform applies the matrix transformation to a point. Elevation passes
// through unchanged.
func (m Matrix) Transform(p Point) Point {
	return Point{
		X: m[0]*p.X + m[2]*p.Y + m[4],
		Y: m[1]*p.X + m[3]*p.Y + m[5],
		Z: p.Z,
	}
}

// Multiply multiplies two matrices. The receiver is applied first, then other.
func (m Matrix) Multiply(other Matrix) Matrix {
	return Matrix{
		m[0]*other[0] + m[1]*other[2],
		m[0]*other[1] + m[1]*other[3],
		m[2]*other[0] + m[3]*other[2],
		m[2]*other[1] + m[3]*other[3],
		m[4]*other[0] + m[5]*other[2] + other[4],
		m[4]*other[1] + m[5]*other[3] + other[5],
	}
}

// Translate creates a translation matrix.
func Translate(tx, ty float64) Matrix {
	return Matrix{1, 0, 0, 1, tx, ty}
}

// Scale creates a scaling matrix.
func Scale(sx, sy float64) Matrix {
	return Matrix{sx, 0, 0, sy, 0, 0}
}

// Rotate creates a rotation matrix (angle in radians).
func Rotate(angle float64) Matrix {
	cos := math.Cos(angle)
	sin := math.Sin(angle)
	return Matrix{cos, sin, -sin, cos, 0, 0}
}

// IsIdentity returns true if the matrix is an identity matrix.
func (m Matrix) IsIdentity() bool {
	return m[0] == 1 && m[1] == 0 && m[2] == 0 && m[3] == 1 && m[4] == 0 && m[5] == 0
}

// GeometryFromPoints converts a raw point sequence into a typed geometry.
// This is the one canonical classification site for the whole pipeline:
// a single point becomes a POINT, a closed sequence of at least four points
// becomes a POLYGON (single exterior ring), and any other sequence of at
// least two points becomes a LINE. Closure is decided on XY only.
//
// When includeZ is false, coordinates are emitted as XY and elevation is
// discarded; otherwise geometries carry XYZ coordinates.
//
// The boolean result is false when the sequence is empty or the geometry
// could not be built.
func GeometryFromPoints(pts []Point, includeZ bool) (GeometryType, geom.T, bool) {
	if len(pts) == 0 {
		return 0, nil, false
	}

	layout := geom.XY
	if includeZ {
		layout = geom.XYZ
	}

	if len(pts) == 1 {
		return GeometryPoint, geom.NewPointFlat(layout, flatCoords(pts[:1], includeZ)), true
	}

	if pts[0].EqualXY(pts[len(pts)-1]) && len(pts) >= 4 {
		ring := coords(pts, includeZ)
		poly := geom.NewPolygon(layout)
		if _, err := poly.SetCoords([][]geom.Coord{ring}); err != nil {
			return 0, nil, false
		}
		return GeometryPolygon, poly, true
	}

	line := geom.NewLineString(layout)
	if _, err := line.SetCoords(coords(pts, includeZ)); err != nil {
		return 0, nil, false
	}
	return GeometryLine, line, true
}

// coords converts a point slice to go-geom coordinates.
func coords(pts []Point, includeZ bool) []geom.Coord {
	out := make([]geom.Coord, len(pts))
	for i, p := range pts {
		if includeZ {
			out[i] = geom.Coord{p.X, p.Y, p.Z}
		} else {
			out[i] = geom.Coord{p.X, p.Y}
		}
	}
	return out
}

// flatCoords converts a point slice to a flat coordinate array.
func flatCoords(pts []Point, includeZ bool) []float64 {
	stride := 2
	if includeZ {
		stride = 3
	}
	out := make([]float64, 0, len(pts)*stride)
	for _, p := range pts {
		out = append(out, p.X, p.Y)
		if includeZ {
			out = append(out, p.Z)
		}
	}
	return out
}
