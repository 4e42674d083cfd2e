package dxfdoc

import (
	"math"

	"github.com/rpaloschi/dxf-go/core"
	"github.com/rpaloschi/dxf-go/entities"

	"github.com/tsawler/cartograph/model"
)

// mapEntity converts one parser entity to its neutral form. The second
// result is false for entity types the pipeline does not consume, such as
// text and dimensions.
func (r *Reader) mapEntity(raw interface{}) (model.Entity, bool) {
	switch e := raw.(type) {
	case *entities.Line:
		return model.Entity{
			Category: model.EntityLine,
			Layer:    e.LayerName,
			Start:    toPoint(e.Start),
			End:      toPoint(e.End),
		}, true

	case *entities.Polyline:
		return model.Entity{
			Category: model.EntityPolyline,
			Layer:    e.LayerName,
			Vertices: vertexPoints(e.Vertices),
			Closed:   e.Closed,
		}, true

	case *entities.LWPolyline:
		pts := make([]model.Point, len(e.Points))
		for i, p := range e.Points {
			pts[i] = toPoint(p.Point)
		}
		return model.Entity{
			Category: model.EntityPolyline,
			Layer:    e.LayerName,
			Vertices: pts,
			Closed:   e.Closed,
		}, true

	case *entities.Circle:
		return model.Entity{
			Category: model.EntityCircle,
			Layer:    e.LayerName,
			Center:   toPoint(e.Center),
			Radius:   e.Radius,
		}, true

	case *entities.Arc:
		return model.Entity{
			Category:   model.EntityArc,
			Layer:      e.LayerName,
			Center:     toPoint(e.Center),
			Radius:     e.Radius,
			StartAngle: radians(e.StartAngle),
			EndAngle:   radians(e.EndAngle),
		}, true

	case *entities.Ellipse:
		return model.Entity{
			Category:   model.EntityEllipse,
			Layer:      e.LayerName,
			Center:     toPoint(e.Center),
			MajorAxis:  toPoint(e.MajorAxisEnd),
			Ratio:      e.MinorToMajorAxisRatio,
			StartParam: e.StartParameter,
			EndParam:   e.EndParameter,
		}, true

	case *entities.Spline:
		ctrl := make([]model.Point, len(e.ControlPoints))
		for i, p := range e.ControlPoints {
			ctrl[i] = toPoint(p)
		}
		return model.Entity{
			Category: model.EntitySpline,
			Layer:    e.LayerName,
			Vertices: ctrl,
			Degree:   e.Degree,
			Knots:    append([]float64(nil), e.KnotValues...),
		}, true

	case *entities.Point:
		return model.Entity{
			Category: model.EntityPoint,
			Layer:    e.LayerName,
			Location: toPoint(e.Location),
		}, true

	case *entities.Insert:
		return r.mapInsert(e), true
	}
	return model.Entity{}, false
}

// mapInsert builds an insert whose Children resolve the referenced block
// lazily. The insertion transform is composed once here and baked into each
// child when the callback runs, so nested inserts compose naturally.
func (r *Reader) mapInsert(e *entities.Insert) model.Entity {
	name := e.BlockName
	m := insertMatrix(e)
	return model.Entity{
		Category:  model.EntityInsert,
		Layer:     e.LayerName,
		BlockName: name,
		Insertion: m.Transform(model.Point{}),
		Children: func() ([]model.Entity, error) {
			block, ok := r.doc.Blocks[name]
			if !ok {
				return nil, ErrUnknownBlock
			}
			// Block contents are defined relative to the block base point.
			bm := model.Translate(-block.BasePoint.X, -block.BasePoint.Y).Multiply(m)
			var kids []model.Entity
			for _, raw := range block.Entities {
				child, ok := r.mapEntity(raw)
				if !ok {
					continue
				}
				kids = append(kids, applyMatrix(child, bm))
			}
			return kids, nil
		},
	}
}

// insertMatrix composes scale, rotation and translation in drawing order.
func insertMatrix(e *entities.Insert) model.Matrix {
	sx, sy := e.ScaleFactorX, e.ScaleFactorY
	if sx == 0 {
		sx = 1
	}
	if sy == 0 {
		sy = 1
	}
	return model.Scale(sx, sy).
		Multiply(model.Rotate(radians(e.RotationAngle))).
		Multiply(model.Translate(e.InsertionPoint.X, e.InsertionPoint.Y))
}

func toPoint(p core.Point) model.Point {
	return model.Point{X: p.X, Y: p.Y, Z: p.Z}
}

func vertexPoints(vv entities.VertexSlice) []model.Point {
	pts := make([]model.Point, len(vv))
	for i, v := range vv {
		pts[i] = toPoint(v.Location)
	}
	return pts
}

func radians(degrees float64) float64 {
	return degrees * math.Pi / 180
}
