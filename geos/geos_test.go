//go:build geos

package geos

import (
	"math"
	"testing"

	"github.com/twpayne/go-geom"
)

func newTestClient(t *testing.T) *Client {
	t.Helper()
	c, err := NewClient()
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	t.Cleanup(func() { c.Close() })
	return c
}

func lineXY(t *testing.T, coords []geom.Coord) *geom.LineString {
	t.Helper()
	ls := geom.NewLineString(geom.XY)
	if _, err := ls.SetCoords(coords); err != nil {
		t.Fatal(err)
	}
	return ls
}

func TestUnaryUnionAndLineMerge(t *testing.T) {
	c := newTestClient(t)

	u, err := c.UnaryUnion([]geom.T{
		lineXY(t, []geom.Coord{{0, 0}, {1, 0}}),
		lineXY(t, []geom.Coord{{1, 0}, {2, 0}}),
	})
	if err != nil {
		t.Fatalf("UnaryUnion: %v", err)
	}

	m, err := c.LineMerge(u)
	if err != nil {
		t.Fatalf("LineMerge: %v", err)
	}
	ls, ok := m.(*geom.LineString)
	if !ok {
		t.Fatalf("expected a single LineString, got %T", m)
	}
	coords := ls.Coords()
	first, last := coords[0], coords[len(coords)-1]
	if first[0] > last[0] {
		first, last = last, first
	}
	if first[0] != 0 || last[0] != 2 {
		t.Errorf("merged span = %v..%v, want 0..2", first, last)
	}
}

func TestBufferKeepsSquareCorners(t *testing.T) {
	c := newTestClient(t)

	// An L-shaped line buffered with mitred joins keeps the outer corner
	// sharp, so the buffered area exceeds what a rounded corner produces.
	l := lineXY(t, []geom.Coord{{0, 0}, {10, 0}, {10, 10}})
	buffered, err := c.Buffer(l, 1)
	if err != nil {
		t.Fatalf("Buffer: %v", err)
	}
	poly, ok := buffered.(*geom.Polygon)
	if !ok {
		t.Fatalf("expected Polygon, got %T", buffered)
	}

	// Two 10x2 arm strips overlap in a unit square (39), round end caps add
	// pi, and the outer elbow adds a full unit square under mitre against a
	// quarter circle under round. The threshold sits between the two.
	area := poly.Area()
	roundJoin := 39 + math.Pi + math.Pi/4
	mitreJoin := 39 + math.Pi + 1
	threshold := (roundJoin + mitreJoin) / 2
	if area <= threshold {
		t.Errorf("area = %v, want above %v (mitred corner)", area, threshold)
	}

	boundary, err := c.Boundary(buffered)
	if err != nil {
		t.Fatalf("Boundary: %v", err)
	}
	if _, ok := boundary.(*geom.LineString); !ok {
		if _, ok := boundary.(*geom.MultiLineString); !ok {
			t.Errorf("boundary is %T, want lineal", boundary)
		}
	}
}

func TestSnapAlignsNearbyVertices(t *testing.T) {
	c := newTestClient(t)

	g := lineXY(t, []geom.Coord{{0, 0}, {1.009, 0}})
	ref := lineXY(t, []geom.Coord{{1, 0}, {2, 0}})
	snapped, err := c.Snap(g, ref, 0.05)
	if err != nil {
		t.Fatalf("Snap: %v", err)
	}
	ls, ok := snapped.(*geom.LineString)
	if !ok {
		t.Fatalf("expected LineString, got %T", snapped)
	}
	end := ls.Coords()[len(ls.Coords())-1]
	if end[0] != 1 || end[1] != 0 {
		t.Errorf("snapped endpoint = %v, want (1,0)", end)
	}
}
