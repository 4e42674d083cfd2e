//go:build !geos

package geos

import (
	"errors"
	"testing"

	"github.com/twpayne/go-geom"
)

func TestNewClient_Stub(t *testing.T) {
	client, err := NewClient()
	if !errors.Is(err, ErrGEOSNotEnabled) {
		t.Errorf("NewClient() err = %v, want ErrGEOSNotEnabled", err)
	}
	if client != nil {
		t.Error("stub NewClient() should return a nil client")
	}
}

func TestStubOperationsReturnNotEnabled(t *testing.T) {
	var c Client
	ls := geom.NewLineString(geom.XY)

	if _, err := c.UnaryUnion([]geom.T{ls}); !errors.Is(err, ErrGEOSNotEnabled) {
		t.Errorf("UnaryUnion err = %v", err)
	}
	if _, err := c.LineMerge(ls); !errors.Is(err, ErrGEOSNotEnabled) {
		t.Errorf("LineMerge err = %v", err)
	}
	if _, err := c.Snap(ls, ls, 0.1); !errors.Is(err, ErrGEOSNotEnabled) {
		t.Errorf("Snap err = %v", err)
	}
	if _, err := c.Buffer(ls, 0.1); !errors.Is(err, ErrGEOSNotEnabled) {
		t.Errorf("Buffer err = %v", err)
	}
	if _, err := c.Boundary(ls); !errors.Is(err, ErrGEOSNotEnabled) {
		t.Errorf("Boundary err = %v", err)
	}
	if err := c.Close(); err != nil {
		t.Errorf("Close err = %v", err)
	}
}
