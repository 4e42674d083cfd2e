// Package blocks expands block references (reusable named entity
// collections placed with a transform) into output rows.
//
// Two modes are supported. Explode turns every resolved child into its own
// row through the flattener. Keep-merge collects the children's linework as
// merge segments and their filled regions as polygon rings, then
// reconstructs a single representative geometry per instance through the
// merge tiers. Whatever goes wrong, an instance never vanishes: the last
// resort is a single point row at its insertion coordinate.
package blocks

import (
	"fmt"
	"time"

	"github.com/twpayne/go-geom"

	"github.com/tsawler/cartograph/flatten"
	"github.com/tsawler/cartograph/merge"
	"github.com/tsawler/cartograph/model"
)

// Mode selects how a block reference is expanded.
type Mode int

const (
	// ModeExplode emits every resolved child as its own row; no merging.
	ModeExplode Mode = iota

	// ModeKeepMerge reconstructs one representative geometry per instance.
	ModeKeepMerge
)

func (m Mode) String() string {
	if m == ModeKeepMerge {
		return "keep-merge"
	}
	return "explode"
}

// Options configure block expansion.
type Options struct {
	Mode Mode

	// Layers restricts expansion to the named layers. A nil map means all
	// layers. Children are filtered before flattening, so excluding a
	// layer avoids the flattening cost of large irrelevant definitions.
	Layers map[string]bool

	// Flatten holds the flattening tolerance and elevation flag passed to
	// each child.
	Flatten flatten.Options

	// MergeTolerance is the endpoint snapping distance used by the line
	// merge tiers.
	MergeTolerance float64

	// Limits bound the per-instance merge latency.
	Limits merge.Limits

	// Ops is the geometry engine used by the robust tier and polygon
	// union. It may be nil; the affected tiers then fail over to the next.
	Ops merge.Ops

	// Progress receives best-effort status messages.
	Progress model.Progress
}

// Expand resolves one block reference into rows. Entities that are not
// block references yield nothing. Expand never fails: every internal error
// degrades, at worst to a single point row at the insertion coordinate.
func Expand(e model.Entity, opts Options) []model.Row {
	if e.Category != model.EntityInsert {
		return nil
	}
	if opts.Mode == ModeKeepMerge {
		return keepMerge(e, opts)
	}
	return explode(e, opts)
}

// explode flattens every resolved child into its own rows, each under the
// child's own layer. An instance whose children cannot be resolved at all
// degrades to a point row.
func explode(e model.Entity, opts Options) []model.Row {
	var rows []model.Row
	expanded := false

	children, err := resolveChildren(e)
	if err != nil {
		opts.Progress.Notify(fmt.Sprintf("block %s: expansion failed: %v", e.BlockName, err))
	}
	for _, child := range children {
		if !layerAllowed(opts, child) {
			continue
		}
		if child.Category == model.EntityInsert {
			rows = append(rows, explode(child, opts)...)
			expanded = true
			continue
		}
		expanded = true
		childRows, err := flatten.Entity(child, opts.Flatten)
		if err != nil {
			continue
		}
		rows = append(rows, childRows...)
	}

	if !expanded {
		return []model.Row{pointRow(e)}
	}
	return rows
}

// collection is the per-instance scratch gathered from the children.
type collection struct {
	segments []merge.Segment
	rings    []geom.T
}

func keepMerge(e model.Entity, opts Options) []model.Row {
	start := time.Now()

	var col collection
	collect(e, opts, &col)
	elapsed := time.Since(start)

	layer := layerOf(e)

	// Any polygon result takes precedence as the representative geometry
	// for the instance; line merging only runs when the union yields
	// nothing.
	if u := merge.UnionPolygons(col.rings, opts.Ops); u != nil {
		return []model.Row{{
			Layer:     layer,
			Type:      model.GeometryPolygon,
			Geometry:  u,
			BlockName: e.BlockName,
		}}
	}

	if len(col.segments) > 0 {
		strategy := merge.Choose(len(col.segments), elapsed, opts.Limits)
		for {
			if rows := runTier(strategy, e, layer, col.segments, opts); rows != nil {
				return rows
			}
			next, ok := strategy.Next()
			if !ok {
				break
			}
			strategy = next
		}
	}

	return []model.Row{pointRow(e)}
}

// runTier attempts one merge tier and returns its rows, or nil when the
// tier yielded nothing and the caller should downgrade.
func runTier(s merge.Strategy, e model.Entity, layer string, segs []merge.Segment, opts Options) []model.Row {
	switch s {
	case merge.StrategyRobust:
		if m := merge.Robust(segs, opts.MergeTolerance, opts.Ops); !model.IsEmptyGeometry(m) {
			return []model.Row{lineRow(layer, m, e.BlockName)}
		}
	case merge.StrategyGraph:
		if m := merge.Graph(segs, opts.MergeTolerance); !model.IsEmptyGeometry(m) {
			return []model.Row{lineRow(layer, m, e.BlockName)}
		}
	case merge.StrategyExplode:
		rows := make([]model.Row, 0, len(segs))
		for _, seg := range segs {
			gt, g, ok := model.GeometryFromPoints(seg.Coords, false)
			if !ok || gt != model.GeometryLine {
				continue
			}
			rows = append(rows, lineRow(layer, g, e.BlockName))
		}
		opts.Progress.Notify(fmt.Sprintf("block %s: exploded %d segments", e.BlockName, len(rows)))
		if len(rows) > 0 {
			return rows
		}
	}
	return nil
}

// collect gathers segments and polygon rings from an instance's children,
// recursing through nested references. Each child failure is skipped.
func collect(e model.Entity, opts Options, col *collection) {
	children, err := resolveChildren(e)
	if err != nil {
		opts.Progress.Notify(fmt.Sprintf("block %s: expansion failed: %v", e.BlockName, err))
		return
	}
	for _, child := range children {
		if !layerAllowed(opts, child) {
			continue
		}
		switch {
		case child.Category == model.EntityInsert:
			collect(child, opts, col)

		case child.Category.IsLinear():
			pts, err := flatten.Sequence(child, opts.Flatten)
			if err != nil {
				continue
			}
			seg, ok := merge.NewSegment(openRun(pts))
			if !ok {
				continue
			}
			col.segments = append(col.segments, seg)
			if n := len(col.segments); n%5000 == 0 {
				opts.Progress.Notify(fmt.Sprintf("block %s: collected %d segments", e.BlockName, n))
			}

		case child.Category.IsAreal():
			rings, err := flatten.Rings(child, opts.Flatten)
			if err != nil {
				continue
			}
			for _, ring := range rings {
				gt, g, ok := model.GeometryFromPoints(ring, false)
				if ok && gt == model.GeometryPolygon {
					col.rings = append(col.rings, g)
				}
			}
		}
		// Point children contribute nothing to a merged block.
	}
}

// openRun strips the closing coordinate from a closed run so it merges as
// linework rather than classifying as a ring.
func openRun(pts []model.Point) []model.Point {
	if len(pts) >= 3 && pts[0].EqualXY(pts[len(pts)-1]) {
		return pts[:len(pts)-1]
	}
	return pts
}

func resolveChildren(e model.Entity) ([]model.Entity, error) {
	if e.Children == nil {
		return nil, fmt.Errorf("blocks: no resolver for reference %q", e.BlockName)
	}
	return e.Children()
}

func layerAllowed(opts Options, child model.Entity) bool {
	if opts.Layers == nil {
		return true
	}
	return opts.Layers[layerOf(child)]
}

func layerOf(e model.Entity) string {
	if e.Layer == "" {
		return "0"
	}
	return e.Layer
}

func lineRow(layer string, g geom.T, blockName string) model.Row {
	return model.Row{
		Layer:     layer,
		Type:      model.GeometryLine,
		Geometry:  g,
		BlockName: blockName,
	}
}

func pointRow(e model.Entity) model.Row {
	return model.Row{
		Layer:     layerOf(e),
		Type:      model.GeometryPoint,
		Geometry:  geom.NewPointFlat(geom.XY, []float64{e.Insertion.X, e.Insertion.Y}),
		BlockName: e.BlockName,
	}
}
