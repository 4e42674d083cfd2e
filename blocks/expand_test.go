package blocks

import (
	"errors"
	"testing"
	"time"

	"github.com/twpayne/go-geom"

	"github.com/tsawler/cartograph/flatten"
	"github.com/tsawler/cartograph/merge"
	"github.com/tsawler/cartograph/model"
)

func lineEntity(layer string, x1, y1, x2, y2 float64) model.Entity {
	return model.Entity{
		Category: model.EntityLine,
		Layer:    layer,
		Start:    model.Point{X: x1, Y: y1},
		End:      model.Point{X: x2, Y: y2},
	}
}

func insert(name string, children []model.Entity) model.Entity {
	return model.Entity{
		Category:  model.EntityInsert,
		Layer:     "PLAN",
		BlockName: name,
		Insertion: model.Point{X: 100, Y: 200},
		Children: func() ([]model.Entity, error) {
			return children, nil
		},
	}
}

func defaultOpts(mode Mode) Options {
	return Options{
		Mode:           mode,
		Flatten:        flatten.Options{Tolerance: 0.2},
		MergeTolerance: 0.01,
		Limits:         merge.DefaultLimits(),
	}
}

func TestExpand_NonInsertYieldsNothing(t *testing.T) {
	if rows := Expand(lineEntity("0", 0, 0, 1, 1), defaultOpts(ModeExplode)); rows != nil {
		t.Errorf("Expand(non-insert) = %v, want nil", rows)
	}
}

func TestExpand_ExplodeMode(t *testing.T) {
	e := insert("DOOR", []model.Entity{
		lineEntity("A", 0, 0, 1, 0),
		lineEntity("B", 1, 0, 2, 0),
	})
	rows := Expand(e, defaultOpts(ModeExplode))
	if len(rows) != 2 {
		t.Fatalf("got %d rows, want 2", len(rows))
	}
	// Explode mode keeps each child's own layer and does no merging.
	if rows[0].Layer != "A" || rows[1].Layer != "B" {
		t.Errorf("layers = %q, %q; want A, B", rows[0].Layer, rows[1].Layer)
	}
}

func TestExpand_ExplodeModeLayerFilter(t *testing.T) {
	e := insert("DOOR", []model.Entity{
		lineEntity("KEEP", 0, 0, 1, 0),
		lineEntity("SKIP", 1, 0, 2, 0),
	})
	opts := defaultOpts(ModeExplode)
	opts.Layers = map[string]bool{"KEEP": true}
	rows := Expand(e, opts)
	if len(rows) != 1 || rows[0].Layer != "KEEP" {
		t.Fatalf("rows = %+v, want single KEEP row", rows)
	}
}

func TestExpand_ResolverFailureDegradesToPoint(t *testing.T) {
	e := model.Entity{
		Category:  model.EntityInsert,
		Layer:     "PLAN",
		BlockName: "BROKEN",
		Insertion: model.Point{X: 7, Y: 8},
		Children: func() ([]model.Entity, error) {
			return nil, errors.New("unresolvable reference")
		},
	}
	for _, mode := range []Mode{ModeExplode, ModeKeepMerge} {
		rows := Expand(e, defaultOpts(mode))
		if len(rows) != 1 {
			t.Fatalf("mode %v: got %d rows, want 1", mode, len(rows))
		}
		row := rows[0]
		if row.Type != model.GeometryPoint {
			t.Errorf("mode %v: type = %v, want POINT", mode, row.Type)
		}
		coords := row.Geometry.FlatCoords()
		if coords[0] != 7 || coords[1] != 8 {
			t.Errorf("mode %v: point at (%f,%f), want insertion (7,8)", mode, coords[0], coords[1])
		}
		if row.BlockName != "BROKEN" {
			t.Errorf("mode %v: block name = %q", mode, row.BlockName)
		}
	}
}

func TestExpand_ChildrenAllFailDegradesToPoint(t *testing.T) {
	e := insert("BAD", []model.Entity{
		{Category: model.EntityCircle, Radius: -1}, // malformed
		{Category: model.EntitySpline},             // no control points
	})
	rows := Expand(e, defaultOpts(ModeKeepMerge))
	if len(rows) != 1 || rows[0].Type != model.GeometryPoint {
		t.Fatalf("rows = %+v, want single POINT degradation", rows)
	}
}

func TestExpand_KeepMergeGraphChain(t *testing.T) {
	// No geometry engine is configured, so the robust tier fails over to
	// the graph tier, which chains the three segments into one line.
	e := insert("FENCE", []model.Entity{
		lineEntity("0", 0, 0, 1, 0),
		lineEntity("0", 1, 0, 2, 0),
		lineEntity("0", 2, 0, 3, 0),
	})
	rows := Expand(e, defaultOpts(ModeKeepMerge))
	if len(rows) != 1 {
		t.Fatalf("got %d rows, want 1 merged row", len(rows))
	}
	row := rows[0]
	if row.Type != model.GeometryLine {
		t.Errorf("type = %v, want LINE", row.Type)
	}
	// Merged rows carry the instance's layer and block name.
	if row.Layer != "PLAN" || row.BlockName != "FENCE" {
		t.Errorf("layer/block = %q/%q, want PLAN/FENCE", row.Layer, row.BlockName)
	}
	if _, ok := row.Geometry.(*geom.LineString); !ok {
		t.Errorf("geometry = %T, want single line string", row.Geometry)
	}
}

func TestExpand_KeepMergeExplodeStrategyTagsBlock(t *testing.T) {
	children := []model.Entity{
		lineEntity("0", 0, 0, 1, 0),
		lineEntity("0", 2, 0, 3, 0),
		lineEntity("0", 4, 0, 5, 0),
	}
	e := insert("GRID", children)
	opts := defaultOpts(ModeKeepMerge)
	// Force the explode strategy by segment count.
	opts.Limits = merge.Limits{Small: 1, Medium: 2, Budget: time.Second}
	rows := Expand(e, opts)
	if len(rows) != len(children) {
		t.Fatalf("got %d rows, want %d individual segments", len(rows), len(children))
	}
	for i, row := range rows {
		if row.Type != model.GeometryLine {
			t.Errorf("row %d type = %v, want LINE", i, row.Type)
		}
		if row.BlockName != "GRID" {
			t.Errorf("row %d block name = %q, want GRID", i, row.BlockName)
		}
	}
}

func TestExpand_KeepMergeClosedChildStaysLine(t *testing.T) {
	// A closed polyline child is treated as linework in keep-merge, not a
	// polygon.
	e := insert("CELL", []model.Entity{
		{
			Category: model.EntityPolyline,
			Closed:   true,
			Vertices: []model.Point{
				{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 1, Y: 1}, {X: 0, Y: 1},
			},
		},
	})
	rows := Expand(e, defaultOpts(ModeKeepMerge))
	if len(rows) != 1 {
		t.Fatalf("got %d rows, want 1", len(rows))
	}
	if rows[0].Type != model.GeometryLine {
		t.Errorf("type = %v, want LINE", rows[0].Type)
	}
}

// unionOps implements just enough of the engine for polygon union.
type unionOps struct{}

func (unionOps) UnaryUnion(gs []geom.T) (geom.T, error) {
	if len(gs) == 0 {
		return nil, errors.New("empty")
	}
	return gs[0], nil
}
func (unionOps) LineMerge(g geom.T) (geom.T, error)          { return nil, errors.New("no") }
func (unionOps) Snap(g, r geom.T, t float64) (geom.T, error) { return nil, errors.New("no") }
func (unionOps) Buffer(g geom.T, d float64) (geom.T, error)  { return nil, errors.New("no") }
func (unionOps) Boundary(g geom.T) (geom.T, error)           { return nil, errors.New("no") }

func TestExpand_PolygonUnionTakesPrecedence(t *testing.T) {
	e := insert("SLAB", []model.Entity{
		lineEntity("0", 0, 0, 1, 0), // linework that would merge fine
		{
			Category: model.EntityHatch,
			Rings: [][]model.Point{
				{{X: 0, Y: 0}, {X: 2, Y: 0}, {X: 2, Y: 2}, {X: 0, Y: 2}},
			},
		},
	})
	opts := defaultOpts(ModeKeepMerge)
	opts.Ops = unionOps{}
	rows := Expand(e, opts)
	if len(rows) != 1 {
		t.Fatalf("got %d rows, want 1", len(rows))
	}
	if rows[0].Type != model.GeometryPolygon {
		t.Errorf("type = %v, want POLYGON to take precedence over linework", rows[0].Type)
	}
}

func TestExpand_NestedInserts(t *testing.T) {
	inner := insert("INNER", []model.Entity{
		lineEntity("0", 0, 0, 1, 0),
	})
	outer := insert("OUTER", []model.Entity{
		inner,
		lineEntity("0", 1, 0, 2, 0),
	})
	rows := Expand(outer, defaultOpts(ModeKeepMerge))
	if len(rows) != 1 {
		t.Fatalf("got %d rows, want 1 merged row across nesting", len(rows))
	}
	if rows[0].Type != model.GeometryLine {
		t.Errorf("type = %v, want LINE", rows[0].Type)
	}
}

func TestExpand_PanickingProgressIsSwallowed(t *testing.T) {
	e := insert("NOISY", []model.Entity{lineEntity("0", 0, 0, 1, 0)})
	opts := defaultOpts(ModeKeepMerge)
	opts.Progress = func(string) { panic("observer bug") }
	opts.Limits = merge.Limits{Small: 0, Medium: 0, Budget: time.Second} // forces explode messages

	defer func() {
		if r := recover(); r != nil {
			t.Fatalf("progress panic escaped: %v", r)
		}
	}()
	if rows := Expand(e, opts); len(rows) == 0 {
		t.Error("expected rows despite panicking observer")
	}
}
