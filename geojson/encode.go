// Package geojson converts assembled buckets into GeoJSON feature
// collections, the hand-off format for the writer boundary.
//
// Each bucket becomes one feature collection under a file-safe name derived
// from its layer and geometry type. The core performs no reprojection; the
// features carry source coordinates and the set's SourceCRS tells the
// boundary what they are.
package geojson

import (
	"fmt"

	"github.com/paulmach/go.geojson"
	"github.com/twpayne/go-geom"

	"github.com/tsawler/cartograph/buckets"
)

// Encode converts a bucket set into one feature collection per bucket. The
// result maps a sanitized "<layer>_<TYPE>" name to its collection, suitable
// for use as an output file stem. Distinct layers whose sanitized names
// collide get a numeric suffix in bucket order, so no bucket is lost.
func Encode(s *buckets.Set) map[string]*geojson.FeatureCollection {
	out := make(map[string]*geojson.FeatureCollection, s.Len())
	for _, key := range s.Keys() {
		fc := geojson.NewFeatureCollection()
		for i, row := range s.Rows(key) {
			g := Geometry(row.Geometry)
			if g == nil {
				continue
			}
			f := geojson.NewFeature(g)
			f.SetProperty("FID", i)
			f.SetProperty("layer", key.Layer)
			f.SetProperty("geom", key.Type.String())
			if row.BlockName != "" {
				f.SetProperty("block_name", row.BlockName)
			}
			fc.AddFeature(f)
		}
		name := SanitizeName(key.Layer) + "_" + key.Type.String()
		out[uniqueName(out, name)] = fc
	}
	return out
}

// uniqueName appends the first free numeric suffix when name is taken.
func uniqueName(taken map[string]*geojson.FeatureCollection, name string) string {
	if _, ok := taken[name]; !ok {
		return name
	}
	for n := 2; ; n++ {
		candidate := fmt.Sprintf("%s_%d", name, n)
		if _, ok := taken[candidate]; !ok {
			return candidate
		}
	}
}

// Geometry converts a go-geom value to its GeoJSON equivalent. Unsupported
// or nil geometries yield nil.
func Geometry(g geom.T) *geojson.Geometry {
	switch v := g.(type) {
	case *geom.Point:
		return geojson.NewPointGeometry(position(v.Coords()))
	case *geom.MultiPoint:
		return geojson.NewMultiPointGeometry(positions(v.Coords())...)
	case *geom.LineString:
		return geojson.NewLineStringGeometry(positions(v.Coords()))
	case *geom.MultiLineString:
		lines := make([][][]float64, v.NumLineStrings())
		for i := range lines {
			lines[i] = positions(v.LineString(i).Coords())
		}
		return geojson.NewMultiLineStringGeometry(lines...)
	case *geom.Polygon:
		return geojson.NewPolygonGeometry(rings(v.Coords()))
	case *geom.MultiPolygon:
		polys := make([][][][]float64, v.NumPolygons())
		for i := range polys {
			polys[i] = rings(v.Polygon(i).Coords())
		}
		return geojson.NewMultiPolygonGeometry(polys...)
	case *geom.GeometryCollection:
		members := make([]*geojson.Geometry, 0, v.NumGeoms())
		for _, sub := range v.Geoms() {
			if m := Geometry(sub); m != nil {
				members = append(members, m)
			}
		}
		if len(members) == 0 {
			return nil
		}
		return geojson.NewCollectionGeometry(members...)
	}
	return nil
}

func position(c geom.Coord) []float64 {
	return append([]float64(nil), c...)
}

func positions(cs []geom.Coord) [][]float64 {
	out := make([][]float64, len(cs))
	for i, c := range cs {
		out[i] = position(c)
	}
	return out
}

func rings(css [][]geom.Coord) [][][]float64 {
	out := make([][][]float64, len(css))
	for i, cs := range css {
		out[i] = positions(cs)
	}
	return out
}
