// Package normalize reconciles heterogeneous merge results with the
// geometry type their bucket declares.
//
// Union and merge operations can hand back mixed collections: a line bucket
// may receive a collection holding points and polygons alongside its
// linework. Downstream vector writers require each layer to be homogeneous,
// so rows that do not match their bucket are dropped, never coerced; forcing
// a type would silently corrupt the geometry.
package normalize

import (
	"github.com/twpayne/go-geom"

	"github.com/tsawler/cartograph/buckets"
	"github.com/tsawler/cartograph/merge"
	"github.com/tsawler/cartograph/model"
)

// Set normalizes every bucket of a set, preserving bucket order. Buckets
// left empty disappear.
func Set(s *buckets.Set) *buckets.Set {
	out := buckets.NewSet()
	out.SourceCRS = s.SourceCRS
	for _, key := range s.Keys() {
		for _, row := range Rows(key.Type, s.Rows(key)) {
			out.Add(row)
		}
	}
	return out
}

// Rows filters one bucket's rows against its declared geometry type.
func Rows(declared model.GeometryType, rows []model.Row) []model.Row {
	var out []model.Row
	for _, row := range rows {
		g := conform(declared, row.Geometry)
		if g == nil {
			continue
		}
		row.Geometry = g
		out = append(out, row)
	}
	return out
}

func conform(declared model.GeometryType, g geom.T) geom.T {
	switch declared {
	case model.GeometryLine:
		return Lineal(g)
	case model.GeometryPolygon:
		switch g.(type) {
		case *geom.Polygon, *geom.MultiPolygon:
			if !model.IsEmptyGeometry(g) {
				return g
			}
		}
	case model.GeometryPoint:
		switch g.(type) {
		case *geom.Point, *geom.MultiPoint:
			if !model.IsEmptyGeometry(g) {
				return g
			}
		}
	}
	return nil
}

// Lineal extracts the lineal part of a geometry. Lines and multi lines pass
// through; a mixed collection contributes only its lineal members, which
// are re-merged with each other where they touch exactly. Geometries with
// no lineal part yield nil.
func Lineal(g geom.T) geom.T {
	switch v := g.(type) {
	case nil:
		return nil
	case *geom.LineString, *geom.MultiLineString:
		if model.IsEmptyGeometry(v) {
			return nil
		}
		return v
	case *geom.GeometryCollection:
		segs := linealSegments(v)
		if len(segs) == 0 {
			return nil
		}
		if merged := merge.Graph(segs, 0); merged != nil {
			return merged
		}
		return flatMultiLine(segs)
	}
	return nil
}

// linealSegments collects every line member of a collection as a merge
// segment, one per polyline.
func linealSegments(gc *geom.GeometryCollection) []merge.Segment {
	var segs []merge.Segment
	for _, member := range gc.Geoms() {
		switch v := member.(type) {
		case *geom.LineString:
			if seg, ok := segmentFromCoords(v.Coords()); ok {
				segs = append(segs, seg)
			}
		case *geom.MultiLineString:
			for _, cs := range v.Coords() {
				if seg, ok := segmentFromCoords(cs); ok {
					segs = append(segs, seg)
				}
			}
		case *geom.GeometryCollection:
			segs = append(segs, linealSegments(v)...)
		}
	}
	return segs
}

func segmentFromCoords(cs []geom.Coord) (merge.Segment, bool) {
	pts := make([]model.Point, len(cs))
	for i, c := range cs {
		pts[i] = model.Point{X: c[0], Y: c[1]}
	}
	return merge.NewSegment(pts)
}

// flatMultiLine is the last-resort wrapper when re-merging fails.
func flatMultiLine(segs []merge.Segment) geom.T {
	runs := make([][]geom.Coord, 0, len(segs))
	for _, seg := range segs {
		cs := make([]geom.Coord, len(seg.Coords))
		for i, p := range seg.Coords {
			cs[i] = geom.Coord{p.X, p.Y}
		}
		runs = append(runs, cs)
	}
	ml := geom.NewMultiLineString(geom.XY)
	if _, err := ml.SetCoords(runs); err != nil {
		return nil
	}
	return ml
}
