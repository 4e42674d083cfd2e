//go:build !geos

// Package geos provides the production geometry engine for the robust merge
// tier and polygon union, backed by the GEOS library via go-geos.
//
// This is the stub implementation used when the "geos" build tag is not
// set. Every operation returns ErrGEOSNotEnabled, so the merge tiers fail
// over to the pure-Go graph algorithm and conversions still complete.
//
// To enable the engine, install the GEOS C library and rebuild with the
// "geos" build tag:
//
//	go build -tags geos
package geos

import (
	"errors"

	"github.com/twpayne/go-geom"

	"github.com/tsawler/cartograph/merge"
)

// ErrGEOSNotEnabled is returned when engine operations are called but GEOS
// support was not compiled in. Rebuild with -tags geos to enable it.
var ErrGEOSNotEnabled = errors.New("geos: GEOS support not enabled; rebuild with -tags geos")

// Client is the stub engine handle.
type Client struct{}

var _ merge.Ops = (*Client)(nil)

// NewClient reports that GEOS support is not available.
func NewClient() (*Client, error) {
	return nil, ErrGEOSNotEnabled
}

// Close releases engine resources.
func (c *Client) Close() error {
	return nil
}

// UnaryUnion returns ErrGEOSNotEnabled.
func (c *Client) UnaryUnion([]geom.T) (geom.T, error) {
	return nil, ErrGEOSNotEnabled
}

// LineMerge returns ErrGEOSNotEnabled.
func (c *Client) LineMerge(geom.T) (geom.T, error) {
	return nil, ErrGEOSNotEnabled
}

// Snap returns ErrGEOSNotEnabled.
func (c *Client) Snap(geom.T, geom.T, float64) (geom.T, error) {
	return nil, ErrGEOSNotEnabled
}

// Buffer returns ErrGEOSNotEnabled.
func (c *Client) Buffer(geom.T, float64) (geom.T, error) {
	return nil, ErrGEOSNotEnabled
}

// Boundary returns ErrGEOSNotEnabled.
func (c *Client) Boundary(geom.T) (geom.T, error) {
	return nil, ErrGEOSNotEnabled
}
