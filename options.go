package cartograph

import (
	"github.com/tsawler/cartograph/blocks"
	"github.com/tsawler/cartograph/flatten"
	"github.com/tsawler/cartograph/merge"
	"github.com/tsawler/cartograph/model"
)

// ConvertOptions holds configuration for a conversion run.
type ConvertOptions struct {
	// Layer selection (nil means all layers)
	layers map[string]bool

	// Geometry options
	includeElevation bool
	flattenTolerance float64
	mergeTolerance   float64

	// Block expansion
	blockMode blocks.Mode
	limits    merge.Limits

	// Collaborators
	ops      merge.Ops
	progress model.Progress

	// Output metadata
	sourceCRS string
}

// defaultOptions returns the default conversion options.
func defaultOptions() ConvertOptions {
	return ConvertOptions{
		layers:           nil, // nil means all layers
		includeElevation: false,
		flattenTolerance: 0.01,
		mergeTolerance:   0.001,
		blockMode:        blocks.ModeKeepMerge,
		limits:           merge.DefaultLimits(),
	}
}

// clone creates a deep copy of ConvertOptions.
func (o ConvertOptions) clone() ConvertOptions {
	newOpts := o
	if o.layers != nil {
		newOpts.layers = make(map[string]bool, len(o.layers))
		for k, v := range o.layers {
			newOpts.layers[k] = v
		}
	}
	return newOpts
}

// flattenOptions derives the flattener configuration.
func (o ConvertOptions) flattenOptions() flatten.Options {
	return flatten.Options{
		Tolerance:        o.flattenTolerance,
		IncludeElevation: o.includeElevation,
	}
}

// blockOptions derives the block expander configuration.
func (o ConvertOptions) blockOptions() blocks.Options {
	return blocks.Options{
		Mode:           o.blockMode,
		Layers:         o.layers,
		Flatten:        o.flattenOptions(),
		MergeTolerance: o.mergeTolerance,
		Limits:         o.limits,
		Ops:            o.ops,
		Progress:       o.progress,
	}
}
