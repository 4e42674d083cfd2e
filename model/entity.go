package model

// EntityCategory identifies the kind of drawing entity. The set is closed:
// the flattener dispatches over exactly these categories, and document
// readers map whatever their source format calls an element onto one of
// them (or skip it).
type EntityCategory int

const (
	EntityUnknown EntityCategory = iota
	EntityLine
	EntityPolyline
	EntityCircle
	EntityArc
	EntityEllipse
	EntitySpline
	EntityPoint
	EntityHatch
	EntityFace
	EntityInsert
)

func (c EntityCategory) String() string {
	switch c {
	case EntityLine:
		return "Line"
	case EntityPolyline:
		return "Polyline"
	case EntityCircle:
		return "Circle"
	case EntityArc:
		return "Arc"
	case EntityEllipse:
		return "Ellipse"
	case EntitySpline:
		return "Spline"
	case EntityPoint:
		return "Point"
	case EntityHatch:
		return "Hatch"
	case EntityFace:
		return "Face"
	case EntityInsert:
		return "Insert"
	default:
		return "Unknown"
	}
}

// IsLinear reports whether the category flattens to a single point sequence
// (straight or curved stroke entities).
func (c EntityCategory) IsLinear() bool {
	switch c {
	case EntityLine, EntityPolyline, EntityCircle, EntityArc, EntityEllipse, EntitySpline:
		return true
	}
	return false
}

// IsAreal reports whether the category flattens to one or more closed rings.
func (c EntityCategory) IsAreal() bool {
	return c == EntityHatch || c == EntityFace
}

// Entity is one drawn element. Each category populates a fixed subset of
// the fields; the rest stay zero.
type Entity struct {
	Category EntityCategory

	// Layer is the drawing layer name; readers substitute "0" when the
	// source leaves it blank.
	Layer string

	// Start, End: EntityLine endpoints.
	Start, End Point

	// Vertices: EntityPolyline vertex list, EntitySpline control points,
	// EntityFace corner vertices (3 or 4).
	Vertices []Point

	// Closed marks a polyline whose last vertex implicitly connects back
	// to the first.
	Closed bool

	// Center, Radius: EntityCircle and EntityArc.
	Center Point
	Radius float64

	// StartAngle, EndAngle: EntityArc sweep in radians.
	StartAngle, EndAngle float64

	// MajorAxis is the EntityEllipse semi-major axis vector relative to
	// Center; Ratio is the minor/major axis ratio; StartParam and EndParam
	// bound the parametric sweep (0..2pi for a full ellipse).
	MajorAxis            Point
	Ratio                float64
	StartParam, EndParam float64

	// Degree and Knots: EntitySpline basis data. A zero Degree means
	// cubic; an empty knot vector means uniform.
	Degree int
	Knots  []float64

	// Location: EntityPoint position.
	Location Point

	// Rings: EntityHatch boundary rings, outermost first when the reader
	// knows the nesting. Rings need not be closed; the flattener closes
	// them.
	Rings [][]Point

	// Block reference data for EntityInsert: the referenced block name,
	// the insertion coordinate, and a resolver producing the child
	// entities with the placement transform already baked into their
	// coordinates. Children may be nil when the reader cannot resolve the
	// reference; expansion then degrades to a point feature.
	BlockName string
	Insertion Point
	Children  func() ([]Entity, error)
}
