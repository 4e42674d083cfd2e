//go:build geos

// Package geos provides the production geometry engine for the robust merge
// tier and polygon union, backed by the GEOS library via go-geos.
//
// This package requires the GEOS C library to be installed and the "geos"
// build tag to be set. On macOS, install via:
//
//	brew install geos
//
// On Ubuntu/Debian:
//
//	apt-get install libgeos-dev
//
// Then rebuild with:
//
//	go build -tags geos
//
// Without the tag, the stub implementation is compiled in and every
// operation returns ErrGEOSNotEnabled; the merge tiers then fail over to
// the pure-Go graph algorithm.
package geos

import (
	"errors"
	"fmt"
	"sync"

	"github.com/twpayne/go-geom"
	"github.com/twpayne/go-geom/encoding/wkb"
	geos "github.com/twpayne/go-geos"

	"github.com/tsawler/cartograph/merge"
)

// ErrGEOSNotEnabled is returned by the stub when GEOS support was not
// compiled in. It is never returned by this implementation and exists so
// callers can reference it under either build configuration.
var ErrGEOSNotEnabled = errors.New("geos: GEOS support not enabled; rebuild with -tags geos")

// bufferMitreLimit bounds how far a mitred corner may extend, in multiples
// of the buffer distance.
const bufferMitreLimit = 5.0

// Client wraps a GEOS context. Geometries cross the boundary as WKB, so the
// rest of the pipeline stays on go-geom values. A Client is safe for use
// from one goroutine at a time.
type Client struct {
	mu  sync.Mutex
	ctx *geos.Context
}

var _ merge.Ops = (*Client)(nil)

// NewClient creates a geometry engine client.
func NewClient() (*Client, error) {
	return &Client{ctx: geos.NewContext()}, nil
}

// Close releases engine resources.
func (c *Client) Close() error {
	return nil
}

// UnaryUnion dissolves a set of geometries into one.
func (c *Client) UnaryUnion(gs []geom.T) (out geom.T, err error) {
	defer catch(&err)
	c.mu.Lock()
	defer c.mu.Unlock()

	items := make([]*geos.Geom, 0, len(gs))
	for _, g := range gs {
		gg, err := c.toGeos(g)
		if err != nil {
			return nil, err
		}
		items = append(items, gg)
	}
	coll := c.ctx.NewCollection(geos.TypeIDGeometryCollection, items)
	return c.fromGeos(coll.UnaryUnion())
}

// LineMerge joins connected linework into maximal polylines.
func (c *Client) LineMerge(g geom.T) (out geom.T, err error) {
	defer catch(&err)
	c.mu.Lock()
	defer c.mu.Unlock()

	gg, err := c.toGeos(g)
	if err != nil {
		return nil, err
	}
	return c.fromGeos(gg.LineMerge())
}

// Snap moves vertices of g onto ref within tol.
func (c *Client) Snap(g, ref geom.T, tol float64) (out geom.T, err error) {
	defer catch(&err)
	c.mu.Lock()
	defer c.mu.Unlock()

	gg, err := c.toGeos(g)
	if err != nil {
		return nil, err
	}
	rr, err := c.toGeos(ref)
	if err != nil {
		return nil, err
	}
	return c.fromGeos(gg.Snap(rr, tol))
}

// Buffer expands g by dist. Joins are mitred so the buffered outline keeps
// sharp corners and its boundary stays close to the input linework.
func (c *Client) Buffer(g geom.T, dist float64) (out geom.T, err error) {
	defer catch(&err)
	c.mu.Lock()
	defer c.mu.Unlock()

	gg, err := c.toGeos(g)
	if err != nil {
		return nil, err
	}
	return c.fromGeos(gg.BufferWithStyle(dist, 8, geos.BufCapStyleRound, geos.BufJoinStyleMitre, bufferMitreLimit))
}

// Boundary extracts the boundary of an areal geometry.
func (c *Client) Boundary(g geom.T) (out geom.T, err error) {
	defer catch(&err)
	c.mu.Lock()
	defer c.mu.Unlock()

	gg, err := c.toGeos(g)
	if err != nil {
		return nil, err
	}
	return c.fromGeos(gg.Boundary())
}

func (c *Client) toGeos(g geom.T) (*geos.Geom, error) {
	data, err := wkb.Marshal(g, wkb.NDR)
	if err != nil {
		return nil, fmt.Errorf("geos: encode: %w", err)
	}
	gg, err := c.ctx.NewGeomFromWKB(data)
	if err != nil {
		return nil, fmt.Errorf("geos: decode into engine: %w", err)
	}
	return gg, nil
}

func (c *Client) fromGeos(g *geos.Geom) (geom.T, error) {
	if g == nil {
		return nil, errors.New("geos: operation produced no geometry")
	}
	out, err := wkb.Unmarshal(g.ToWKB())
	if err != nil {
		return nil, fmt.Errorf("geos: decode result: %w", err)
	}
	return out, nil
}

// catch converts a GEOS exception (surfaced by go-geos as a panic) into an
// ordinary error, which the merge tiers treat as a tier failure.
func catch(err *error) {
	if r := recover(); r != nil {
		if e, ok := r.(error); ok {
			*err = fmt.Errorf("geos: %w", e)
			return
		}
		*err = fmt.Errorf("geos: %v", r)
	}
}
