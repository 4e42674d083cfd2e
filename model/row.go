package model

import "github.com/twpayne/go-geom"

// GeometryType represents the output category of a produced geometry.
type GeometryType int

const (
	GeometryPoint GeometryType = iota + 1
	GeometryLine
	GeometryPolygon
)

func (gt GeometryType) String() string {
	switch gt {
	case GeometryPoint:
		return "POINT"
	case GeometryLine:
		return "LINE"
	case GeometryPolygon:
		return "POLYGON"
	default:
		return "UNKNOWN"
	}
}

// Row is one produced feature. Rows are created by the flattener or the
// block expander, grouped by the bucket assembler, and handed unchanged to
// the output boundary. A Row is immutable after creation.
type Row struct {
	// Layer is the drawing layer the feature came from.
	Layer string

	// Type is the declared geometry category of the bucket this row
	// belongs in.
	Type GeometryType

	// Geometry is the opaque geometry value. Due to union and merge
	// operations it may be a multi geometry or a mixed collection; the
	// normalizer reconciles it with Type before output.
	Geometry geom.T

	// BlockName is the originating block reference name, when the row was
	// produced by expanding a block instance. Empty otherwise.
	BlockName string
}

// IsEmptyGeometry reports whether a geometry carries no coordinates at all.
// A nil geometry is empty.
func IsEmptyGeometry(g geom.T) bool {
	if g == nil {
		return true
	}
	if gc, ok := g.(*geom.GeometryCollection); ok {
		for _, sub := range gc.Geoms() {
			if !IsEmptyGeometry(sub) {
				return false
			}
		}
		return true
	}
	return len(g.FlatCoords()) == 0
}
