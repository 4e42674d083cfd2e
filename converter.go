package cartograph

import (
	"fmt"
	"time"

	"github.com/tsawler/cartograph/blocks"
	"github.com/tsawler/cartograph/buckets"
	"github.com/tsawler/cartograph/dxfdoc"
	"github.com/tsawler/cartograph/flatten"
	"github.com/tsawler/cartograph/merge"
	"github.com/tsawler/cartograph/model"
	"github.com/tsawler/cartograph/normalize"
)

// Progress reporting intervals, in processed items.
const (
	entityProgressEvery = 1000
	insertProgressEvery = 50
)

// Converter provides a fluent interface for converting CAD drawings into
// feature buckets. Each configuration method returns a new Converter
// instance, making it safe for concurrent use and allowing method chaining.
type Converter struct {
	// Inputs
	paths   []string
	sources []Source

	// Configuration
	options ConvertOptions

	// Accumulated error (fail-fast)
	err error
}

// clone creates a shallow copy of the Converter with a deep copy of options.
// This ensures immutability so each chain method returns a new instance.
func (c *Converter) clone() *Converter {
	return &Converter{
		paths:   append([]string(nil), c.paths...),
		sources: append([]Source(nil), c.sources...),
		options: c.options.clone(),
		err:     c.err,
	}
}

// Layers restricts conversion to the named layers. Calling it again replaces
// the selection; without it all layers convert.
func (c *Converter) Layers(names ...string) *Converter {
	newConv := c.clone()
	newConv.options.layers = make(map[string]bool, len(names))
	for _, n := range names {
		newConv.options.layers[n] = true
	}
	return newConv
}

// IncludeElevation carries entity elevations into output coordinates.
// Without it output geometries are two-dimensional.
func (c *Converter) IncludeElevation() *Converter {
	newConv := c.clone()
	newConv.options.includeElevation = true
	return newConv
}

// ExplodeBlocks emits each block instance's children as individual rows on
// their own layers instead of merging them.
func (c *Converter) ExplodeBlocks() *Converter {
	newConv := c.clone()
	newConv.options.blockMode = blocks.ModeExplode
	return newConv
}

// MergeBlocks merges each block instance into a single feature on the
// instance's layer. This is the default.
func (c *Converter) MergeBlocks() *Converter {
	newConv := c.clone()
	newConv.options.blockMode = blocks.ModeKeepMerge
	return newConv
}

// FlattenTolerance sets the maximum chord deviation used when approximating
// curved entities. It must be positive.
func (c *Converter) FlattenTolerance(tol float64) *Converter {
	newConv := c.clone()
	if tol <= 0 {
		newConv.err = fmt.Errorf("cartograph: flattening tolerance must be positive, got %v", tol)
		return newConv
	}
	newConv.options.flattenTolerance = tol
	return newConv
}

// MergeTolerance sets the grid spacing used to decide when segment
// endpoints touch during line merging. Zero or negative disables snapping.
func (c *Converter) MergeTolerance(tol float64) *Converter {
	newConv := c.clone()
	newConv.options.mergeTolerance = tol
	return newConv
}

// MergeLimits overrides the strategy-selection thresholds for block merging.
func (c *Converter) MergeLimits(limits merge.Limits) *Converter {
	newConv := c.clone()
	newConv.options.limits = limits
	return newConv
}

// WithEngine supplies the geometry engine backing the robust merge tier and
// polygon unions, typically a geos.Client. Without one those paths are
// skipped and merging falls back to the graph algorithm.
func (c *Converter) WithEngine(ops merge.Ops) *Converter {
	newConv := c.clone()
	newConv.options.ops = ops
	return newConv
}

// WithProgress registers an observer for progress messages. The callback
// runs synchronously; panics in it are swallowed.
func (c *Converter) WithProgress(fn model.Progress) *Converter {
	newConv := c.clone()
	newConv.options.progress = fn
	return newConv
}

// SourceCRS records the coordinate reference system identifier the input
// coordinates are in, for example "EPSG:3826". It is carried to the bucket
// set as metadata; no reprojection happens.
func (c *Converter) SourceCRS(crs string) *Converter {
	newConv := c.clone()
	newConv.options.sourceCRS = crs
	return newConv
}

// Buckets runs the conversion and returns the assembled bucket set. This is
// a terminal operation.
//
// Returns the buckets, any warnings encountered during processing, and an
// error if the run could not start at all. Warnings indicate non-fatal
// issues (an unreadable file, a malformed entity) where conversion
// continued but some features were dropped. A set with zero rows is a valid
// result.
func (c *Converter) Buckets() (*buckets.Set, []Warning, error) {
	if c.err != nil {
		return nil, nil, c.err
	}

	var warnings []Warning
	set := buckets.NewSet()
	set.SourceCRS = c.options.sourceCRS

	for _, src := range c.resolveSources(&warnings) {
		entities, err := src.Entities()
		if err != nil {
			warnings = append(warnings, Warning{
				Type:    WarningSourceRead,
				Source:  src.Name(),
				Message: err.Error(),
			})
			continue
		}
		warnings = append(warnings, c.convertSource(src.Name(), entities, set)...)
	}

	return normalize.Set(set), warnings, nil
}

// resolveSources opens the path-based inputs and combines them with the
// preconstructed sources. Files that fail to open become warnings.
func (c *Converter) resolveSources(warnings *[]Warning) []Source {
	out := make([]Source, 0, len(c.paths)+len(c.sources))
	for _, path := range c.paths {
		r, err := dxfdoc.Open(path)
		if err != nil {
			*warnings = append(*warnings, Warning{
				Type:    WarningSourceRead,
				Source:  path,
				Message: err.Error(),
			})
			continue
		}
		out = append(out, r)
	}
	return append(out, c.sources...)
}

// convertSource runs the entity loop for one source, appending rows to set.
func (c *Converter) convertSource(name string, entities []model.Entity, set *buckets.Set) []Warning {
	var warnings []Warning
	opts := c.options
	progress := opts.progress
	blockOpts := opts.blockOptions()
	flattenOpts := opts.flattenOptions()

	start := time.Now()
	progress.Notify(fmt.Sprintf("%s: converting %d entities", name, len(entities)))

	inserts := 0
	for i, e := range entities {
		if i > 0 && i%entityProgressEvery == 0 {
			progress.Notify(fmt.Sprintf("%s: %d/%d entities", name, i, len(entities)))
		}

		// Filtering before the insert branch keeps excluded-layer block
		// references from being expanded at all.
		if !c.layerSelected(e) {
			continue
		}

		if e.Category == model.EntityInsert {
			for _, row := range blocks.Expand(e, blockOpts) {
				set.Add(row)
			}
			inserts++
			if inserts%insertProgressEvery == 0 {
				progress.Notify(fmt.Sprintf("%s: %d block instances expanded", name, inserts))
			}
			continue
		}

		rows, err := flatten.Entity(e, flattenOpts)
		if err != nil {
			warnings = append(warnings, Warning{
				Type:    WarningEntitySkipped,
				Source:  name,
				Message: fmt.Sprintf("skipping %s on layer %s: %v", e.Category, e.Layer, err),
			})
			continue
		}
		for _, row := range rows {
			set.Add(row)
		}
	}

	progress.Notify(fmt.Sprintf("%s: done in %s", name, time.Since(start).Round(time.Millisecond)))
	return warnings
}

func (c *Converter) layerSelected(e model.Entity) bool {
	if c.options.layers == nil {
		return true
	}
	layer := e.Layer
	if layer == "" {
		layer = "0"
	}
	return c.options.layers[layer]
}
