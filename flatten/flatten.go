// Package flatten turns CAD entities into point sequences and typed
// geometry rows.
//
// Curved primitives are approximated by point sequences whose chord
// deviation stays within the configured flattening tolerance. When an
// entity's data is malformed the adaptive path fails and a per-category
// closed-form sampler takes over; when that fails too, the entity is
// skipped by the caller, never fatal for the run.
package flatten

import (
	"errors"
	"fmt"

	"github.com/tsawler/cartograph/model"
)

var (
	// ErrUnsupported is returned for entity categories the flattener does
	// not handle. Block references are expanded by the blocks package, not
	// flattened.
	ErrUnsupported = errors.New("flatten: unsupported entity category")

	// ErrMalformed is returned when an entity's data cannot produce any
	// point sequence.
	ErrMalformed = errors.New("flatten: malformed entity data")
)

// Options control flattening.
type Options struct {
	// Tolerance is the maximum chord deviation allowed when a curved
	// primitive is approximated by straight segments.
	Tolerance float64

	// IncludeElevation keeps entity Z coordinates; otherwise Z is forced
	// to zero.
	IncludeElevation bool
}

// handler flattens one entity category into raw point sequences. Linear
// categories produce exactly one sequence; areal categories produce one
// closed ring per boundary; point entities produce one single-point
// sequence.
type handler func(e model.Entity, opts Options) ([][]model.Point, error)

// handlers is the closed dispatch table: one handler per category. New
// categories are added by extending the EntityCategory enumeration and this
// table together.
var handlers = map[model.EntityCategory]handler{
	model.EntityLine:     flattenLine,
	model.EntityPolyline: flattenPolyline,
	model.EntityCircle:   flattenCircle,
	model.EntityArc:      flattenArc,
	model.EntityEllipse:  flattenEllipse,
	model.EntitySpline:   flattenSpline,
	model.EntityPoint:    flattenPoint,
	model.EntityHatch:    flattenHatch,
	model.EntityFace:     flattenFace,
}

// Entity flattens one entity into zero or more typed rows. Each produced
// point sequence is classified by the canonical rule in
// model.GeometryFromPoints. Sequences that classify to nothing are dropped
// silently; a handler error means the whole entity is unusable.
func Entity(e model.Entity, opts Options) ([]model.Row, error) {
	seqs, err := sequences(e, opts)
	if err != nil {
		return nil, err
	}
	var rows []model.Row
	for _, seq := range seqs {
		gt, g, ok := model.GeometryFromPoints(seq, opts.IncludeElevation)
		if !ok {
			continue
		}
		rows = append(rows, model.Row{
			Layer:    layerOf(e),
			Type:     gt,
			Geometry: g,
		})
	}
	return rows, nil
}

// Sequence flattens a linear entity into its single raw point sequence.
// The keep-merge block path collects these as merge segments instead of
// finished rows.
func Sequence(e model.Entity, opts Options) ([]model.Point, error) {
	if !e.Category.IsLinear() {
		return nil, fmt.Errorf("%w: %v is not linear", ErrUnsupported, e.Category)
	}
	seqs, err := sequences(e, opts)
	if err != nil {
		return nil, err
	}
	if len(seqs) == 0 || len(seqs[0]) == 0 {
		return nil, ErrMalformed
	}
	return seqs[0], nil
}

// Rings flattens an areal entity into its closed boundary rings.
func Rings(e model.Entity, opts Options) ([][]model.Point, error) {
	if !e.Category.IsAreal() {
		return nil, fmt.Errorf("%w: %v is not areal", ErrUnsupported, e.Category)
	}
	return sequences(e, opts)
}

func sequences(e model.Entity, opts Options) ([][]model.Point, error) {
	h, ok := handlers[e.Category]
	if !ok {
		return nil, fmt.Errorf("%w: %v", ErrUnsupported, e.Category)
	}
	return h(e, opts)
}

func layerOf(e model.Entity) string {
	if e.Layer == "" {
		return "0"
	}
	return e.Layer
}

// withElevation applies the include-elevation policy to a point.
func withElevation(p model.Point, include bool) model.Point {
	if !include {
		p.Z = 0
	}
	return p
}

func flattenLine(e model.Entity, opts Options) ([][]model.Point, error) {
	seq := []model.Point{
		withElevation(e.Start, opts.IncludeElevation),
		withElevation(e.End, opts.IncludeElevation),
	}
	return [][]model.Point{seq}, nil
}

func flattenPolyline(e model.Entity, opts Options) ([][]model.Point, error) {
	if len(e.Vertices) == 0 {
		return nil, ErrMalformed
	}
	seq := make([]model.Point, 0, len(e.Vertices)+1)
	for _, v := range e.Vertices {
		seq = append(seq, withElevation(v, opts.IncludeElevation))
	}
	if e.Closed && len(seq) >= 3 && !seq[0].EqualXY(seq[len(seq)-1]) {
		seq = append(seq, seq[0])
	}
	return [][]model.Point{seq}, nil
}

func flattenCircle(e model.Entity, opts Options) ([][]model.Point, error) {
	seq, err := circleAdaptive(e.Center, e.Radius, opts.Tolerance)
	if err != nil {
		seq, err = circleFixed(e.Center, e.Radius, opts.Tolerance)
		if err != nil {
			return nil, err
		}
	}
	return [][]model.Point{seq}, nil
}

func flattenArc(e model.Entity, opts Options) ([][]model.Point, error) {
	seq, err := arcAdaptive(e.Center, e.Radius, e.StartAngle, e.EndAngle, opts.Tolerance)
	if err != nil {
		seq, err = arcFixed(e.Center, e.Radius, e.StartAngle, e.EndAngle, opts.Tolerance)
		if err != nil {
			return nil, err
		}
	}
	return [][]model.Point{seq}, nil
}

func flattenEllipse(e model.Entity, opts Options) ([][]model.Point, error) {
	seq, err := ellipseAdaptive(e, opts.Tolerance)
	if err != nil {
		return nil, err
	}
	return [][]model.Point{seq}, nil
}

func flattenSpline(e model.Entity, opts Options) ([][]model.Point, error) {
	seq, err := splineApprox(e, opts.Tolerance)
	if err != nil {
		return nil, err
	}
	return [][]model.Point{seq}, nil
}

func flattenPoint(e model.Entity, opts Options) ([][]model.Point, error) {
	return [][]model.Point{{withElevation(e.Location, opts.IncludeElevation)}}, nil
}

// flattenHatch enumerates each boundary ring independently. Rings are
// implicitly closed by appending the first point when needed; empty and
// single-vertex rings are discarded.
func flattenHatch(e model.Entity, _ Options) ([][]model.Point, error) {
	var out [][]model.Point
	for _, raw := range e.Rings {
		if len(raw) < 2 {
			continue
		}
		ring := make([]model.Point, 0, len(raw)+1)
		for _, p := range raw {
			p.Z = 0
			ring = append(ring, p)
		}
		if !ring[0].EqualXY(ring[len(ring)-1]) {
			ring = append(ring, ring[0])
		}
		out = append(out, ring)
	}
	if len(out) == 0 {
		return nil, ErrMalformed
	}
	return out, nil
}

// flattenFace treats a 3 or 4 vertex planar face as one closed ring
// projected to 2D.
func flattenFace(e model.Entity, _ Options) ([][]model.Point, error) {
	if len(e.Vertices) < 3 || len(e.Vertices) > 4 {
		return nil, ErrMalformed
	}
	ring := make([]model.Point, 0, len(e.Vertices)+1)
	for _, v := range e.Vertices {
		v.Z = 0
		ring = append(ring, v)
	}
	ring = append(ring, ring[0])
	return [][]model.Point{ring}, nil
}
