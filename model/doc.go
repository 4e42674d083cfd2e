// Package model provides the intermediate representation (IR) for drawing
// content extracted from CAD documents.
//
// This package defines the data structures shared by every stage of the
// conversion pipeline. Document readers produce these types, the analysis
// packages (flatten, blocks, merge) consume and transform them, and the
// bucket assembler groups them for the output boundary.
//
// # Entities
//
// An [Entity] is one drawn element from a CAD document: a line, an arc, a
// filled region, a block reference, and so on. Entities form a closed set of
// categories enumerated by [EntityCategory]; each category populates a fixed
// subset of the Entity fields. Readers never extend the set.
//
// # Rows and geometry
//
// A [Row] is one produced feature: a layer name, a [GeometryType], an opaque
// geometry value (a go-geom geometry), and an optional originating block
// name. Rows are created once and never mutated.
//
// The single canonical rule that turns a point sequence into a typed
// geometry lives in [GeometryFromPoints]:
//
//   - one point              -> POINT
//   - closed with >= 4 pts   -> POLYGON
//   - anything else (>= 2)   -> LINE
//
// # Geometry primitives
//
//   - [Point] - a coordinate with optional elevation
//   - [Matrix] - 2D affine transformation matrix, used to bake block
//     placements into child coordinates
package model
