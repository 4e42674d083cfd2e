// Package cartograph converts CAD drawings into GIS-ready feature buckets
// grouped by layer and geometry type.
//
// Basic usage:
//
//	set, warnings, err := cartograph.Open("site-plan.dxf").Buckets()
//	if err != nil {
//	    // handle error
//	}
//	if len(warnings) > 0 {
//	    log.Println("Warnings:", cartograph.FormatWarnings(warnings))
//	}
//
// With options:
//
//	set, _, err := cartograph.Open("site-plan.dxf").
//	    Layers("WALLS", "DOORS").
//	    ExplodeBlocks().
//	    MergeTolerance(0.005).
//	    Buckets()
//
// The resulting bucket set maps (layer, geometry type) pairs to ordered
// feature rows; the geojson package turns it into feature collections for
// writing. For advanced use cases, the lower-level dxfdoc, flatten, blocks
// and merge packages are also available.
package cartograph

import (
	"github.com/tsawler/cartograph/model"
)

// Source supplies entities for conversion. The dxfdoc package provides the
// DXF-backed implementation; tests and other formats can supply their own.
type Source interface {
	// Name identifies the source in warnings and progress messages.
	Name() string

	// Entities returns the source's drawing entities.
	Entities() ([]model.Entity, error)
}

// Open prepares a conversion of one or more DXF files and returns a
// Converter for fluent configuration. Files are not opened until a terminal
// operation runs; files that fail to open are skipped with a warning.
//
// Example:
//
//	set, warnings, err := cartograph.Open("plan.dxf", "detail.dxf").Buckets()
func Open(paths ...string) *Converter {
	return &Converter{
		paths:   append([]string(nil), paths...),
		options: defaultOptions(),
	}
}

// FromSource creates a Converter over already-constructed sources. This is
// useful when entities come from somewhere other than a DXF file on disk.
//
// Example:
//
//	r, err := dxfdoc.Open("plan.dxf")
//	if err != nil {
//	    // handle error
//	}
//	set, warnings, err := cartograph.FromSource(r).Buckets()
func FromSource(sources ...Source) *Converter {
	return &Converter{
		sources: append([]Source(nil), sources...),
		options: defaultOptions(),
	}
}

// Must is a helper that wraps a call to a function returning (T, error)
// and panics if the error is non-nil. It is intended for use in scripts
// or tests where error handling would be cumbersome.
func Must[T any](val T, err error) T {
	if err != nil {
		panic(err)
	}
	return val
}

// MustBuckets is a helper that wraps a call to Buckets() and panics if the
// error is non-nil. It discards warnings and returns just the bucket set.
//
// Example:
//
//	set := cartograph.MustBuckets(cartograph.Open("plan.dxf").Buckets())
func MustBuckets[T any](val T, _ []Warning, err error) T {
	if err != nil {
		panic(err)
	}
	return val
}
