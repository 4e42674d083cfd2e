package merge

import (
	"github.com/twpayne/go-geom"

	"github.com/tsawler/cartograph/model"
)

// chainGraph is the scratch state for one Graph call. It is built fresh per
// call and discarded on return; nothing here outlives or is shared across
// merges.
type chainGraph struct {
	edges  []chainEdge
	adj    map[Node][]int
	degree map[Node]int
	order  []Node // nodes in first-encounter order, for deterministic walks
	used   []bool
}

type chainEdge struct {
	a, b   Node
	coords []model.Point
}

// Graph merges segments by explicit edge chaining. Every segment becomes an
// edge between its quantized endpoint nodes. Open chains are walked outward
// from every node whose degree is not two, consuming one edge at a time and
// concatenating coordinate runs; what remains afterwards is pure cycles,
// each walked once until it closes on itself.
//
// The result is a single line geometry when exactly one polyline was
// reconstructed, a multi line geometry otherwise, and nil when no segment
// was usable. The reconstruction is deterministic: ties at branch points go
// to the first unconsumed edge in collection order.
func Graph(segs []Segment, tol float64) geom.T {
	g := buildChainGraph(segs, tol)
	if g == nil {
		return nil
	}

	var merged [][]model.Point

	// Open chains: start from every branching or terminal node.
	for _, n := range g.order {
		if g.degree[n] == 2 {
			continue
		}
		for g.firstUnused(n) >= 0 {
			if path := g.walk(n); len(path) >= 2 {
				merged = append(merged, path)
			}
		}
	}

	// Pure cycles: every remaining edge has degree-2 endpoints on both
	// sides, so walking any of them comes back around to the start.
	for ei := range g.edges {
		if g.used[ei] {
			continue
		}
		g.used[ei] = true
		e := g.edges[ei]
		path := append([]model.Point(nil), e.coords...)
		cur := e.b
		for {
			ej := g.firstUnused(cur)
			if ej < 0 {
				break
			}
			g.used[ej] = true
			next := g.edges[ej]
			run := next.coords
			to := next.b
			if next.a != cur {
				run = reversed(run)
				to = next.a
			}
			path = appendRun(path, run)
			cur = to
			if g.degree[cur] != 2 {
				break
			}
		}
		if len(path) >= 2 {
			merged = append(merged, path)
		}
	}

	return linesGeometry(merged)
}

func buildChainGraph(segs []Segment, tol float64) *chainGraph {
	g := &chainGraph{
		adj:    make(map[Node][]int),
		degree: make(map[Node]int),
	}
	for _, s := range segs {
		if len(s.Coords) < 2 {
			continue
		}
		a := NodeFor(s.Start(), tol)
		b := NodeFor(s.End(), tol)
		i := len(g.edges)
		g.edges = append(g.edges, chainEdge{a: a, b: b, coords: s.Coords})
		g.addIncidence(a, i)
		g.addIncidence(b, i)
	}
	if len(g.edges) == 0 {
		return nil
	}
	g.used = make([]bool, len(g.edges))
	return g
}

func (g *chainGraph) addIncidence(n Node, edge int) {
	if _, seen := g.degree[n]; !seen {
		g.order = append(g.order, n)
	}
	g.adj[n] = append(g.adj[n], edge)
	g.degree[n]++
}

// firstUnused returns the first unconsumed edge incident to n in collection
// order, or -1.
func (g *chainGraph) firstUnused(n Node) int {
	for _, ei := range g.adj[n] {
		if !g.used[ei] {
			return ei
		}
	}
	return -1
}

// walk extends a path edge by edge from start, stopping when it reaches a
// node whose degree is not two or runs out of unconsumed edges.
func (g *chainGraph) walk(start Node) []model.Point {
	var path []model.Point
	cur := start
	for {
		ei := g.firstUnused(cur)
		if ei < 0 {
			break
		}
		g.used[ei] = true
		e := g.edges[ei]
		run := e.coords
		other := e.b
		if e.a != cur {
			run = reversed(run)
			other = e.a
		}
		path = appendRun(path, run)
		if g.degree[other] != 2 {
			break
		}
		cur = other
	}
	return path
}

// appendRun concatenates a coordinate run onto a path, dropping the run's
// first coordinate when it exactly equals the path's last one. Suppression
// is exact-equality only: endpoints that already agree after quantization
// normally meet exactly, and near-duplicates within tolerance are kept.
func appendRun(path, run []model.Point) []model.Point {
	if len(path) == 0 {
		return append(path, run...)
	}
	if len(run) > 0 && path[len(path)-1].EqualXY(run[0]) {
		return append(path, run[1:]...)
	}
	return append(path, run...)
}

func reversed(pts []model.Point) []model.Point {
	out := make([]model.Point, len(pts))
	for i, p := range pts {
		out[len(pts)-1-i] = p
	}
	return out
}

// linesGeometry wraps reconstructed polylines as a line geometry: the single
// polyline itself when there is exactly one, otherwise a multi line holding
// the non-degenerate ones.
func linesGeometry(merged [][]model.Point) geom.T {
	switch len(merged) {
	case 0:
		return nil
	case 1:
		if ls := lineString(merged[0]); ls != nil {
			return ls
		}
		return nil
	}
	var runs [][]geom.Coord
	for _, pts := range merged {
		if seg := (Segment{Coords: pts}); seg.Length() <= 0 {
			continue
		}
		runs = append(runs, xyCoords(pts))
	}
	if len(runs) == 0 {
		return nil
	}
	ml := geom.NewMultiLineString(geom.XY)
	if _, err := ml.SetCoords(runs); err != nil {
		return nil
	}
	return ml
}

func lineString(pts []model.Point) *geom.LineString {
	ls := geom.NewLineString(geom.XY)
	if _, err := ls.SetCoords(xyCoords(pts)); err != nil {
		return nil
	}
	return ls
}

func xyCoords(pts []model.Point) []geom.Coord {
	out := make([]geom.Coord, len(pts))
	for i, p := range pts {
		out[i] = geom.Coord{p.X, p.Y}
	}
	return out
}
