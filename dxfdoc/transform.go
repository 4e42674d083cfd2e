package dxfdoc

import (
	"math"

	"github.com/tsawler/cartograph/model"
)

// applyMatrix returns a copy of e with the transform baked into its
// geometry. Radii scale by the matrix's uniform scale factor and angular
// parameters shift by its rotation; mirrored or strongly anisotropic
// transforms of circular entities are approximated rather than promoted to
// ellipses.
func applyMatrix(e model.Entity, m model.Matrix) model.Entity {
	if m.IsIdentity() {
		return e
	}

	out := e
	out.Start = m.Transform(e.Start)
	out.End = m.Transform(e.End)
	out.Center = m.Transform(e.Center)
	out.Location = m.Transform(e.Location)
	out.Insertion = m.Transform(e.Insertion)
	out.Vertices = transformPoints(e.Vertices, m)

	if len(e.Rings) > 0 {
		rings := make([][]model.Point, len(e.Rings))
		for i, ring := range e.Rings {
			rings[i] = transformPoints(ring, m)
		}
		out.Rings = rings
	}

	if e.Radius != 0 {
		out.Radius = e.Radius * uniformScale(m)
	}
	if e.Category == model.EntityArc {
		rot := rotation(m)
		out.StartAngle = e.StartAngle + rot
		out.EndAngle = e.EndAngle + rot
	}
	if e.Category == model.EntityEllipse {
		out.MajorAxis = transformVector(e.MajorAxis, m)
	}

	if e.Children != nil {
		inner := e.Children
		out.Children = func() ([]model.Entity, error) {
			kids, err := inner()
			if err != nil {
				return nil, err
			}
			for i := range kids {
				kids[i] = applyMatrix(kids[i], m)
			}
			return kids, nil
		}
	}
	return out
}

func transformPoints(pts []model.Point, m model.Matrix) []model.Point {
	if len(pts) == 0 {
		return pts
	}
	out := make([]model.Point, len(pts))
	for i, p := range pts {
		out[i] = m.Transform(p)
	}
	return out
}

// transformVector applies only the linear part of the matrix.
func transformVector(v model.Point, m model.Matrix) model.Point {
	return model.Point{
		X: m[0]*v.X + m[2]*v.Y,
		Y: m[1]*v.X + m[3]*v.Y,
		Z: v.Z,
	}
}

func uniformScale(m model.Matrix) float64 {
	det := m[0]*m[3] - m[1]*m[2]
	return math.Sqrt(math.Abs(det))
}

func rotation(m model.Matrix) float64 {
	return math.Atan2(m[1], m[0])
}
