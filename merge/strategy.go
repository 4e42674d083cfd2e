package merge

import "time"

// Strategy identifies one merge tier.
type Strategy int

const (
	// StrategyRobust is the union/snap based merge: geometrically the most
	// forgiving, superlinear cost on dense inputs.
	StrategyRobust Strategy = iota

	// StrategyGraph is the quantized edge-chaining merge: near-linear, but
	// only reconnects endpoints that agree after snapping.
	StrategyGraph

	// StrategyExplode skips merging and emits every segment as its own
	// feature, guaranteeing bounded latency.
	StrategyExplode
)

func (s Strategy) String() string {
	switch s {
	case StrategyRobust:
		return "robust"
	case StrategyGraph:
		return "graph"
	case StrategyExplode:
		return "explode"
	default:
		return "unknown"
	}
}

// Next returns the tier below s in the fixed downgrade order
// robust -> graph -> explode. ok is false when s is already the last tier.
// Tiers never upgrade and never repeat.
func (s Strategy) Next() (next Strategy, ok bool) {
	switch s {
	case StrategyRobust:
		return StrategyGraph, true
	case StrategyGraph:
		return StrategyExplode, true
	default:
		return StrategyExplode, false
	}
}

// Limits bounds the worst-case merge latency for one block instance.
type Limits struct {
	// Small is the largest segment count still merged with the robust tier.
	Small int

	// Medium is the largest segment count still merged at all; above it
	// the block is exploded.
	Medium int

	// Budget is the soft per-block time budget for collecting segments.
	// Exceeding it downgrades robust to graph. It never aborts work in
	// progress; it only influences the next decision.
	Budget time.Duration
}

// DefaultLimits returns the default strategy thresholds.
func DefaultLimits() Limits {
	return Limits{
		Small:  2000,
		Medium: 20000,
		Budget: 2 * time.Second,
	}
}

// Choose picks the merge strategy for one block instance from the number of
// collected segments and the time spent collecting them. The decision is
// made once per instance:
//
//	count > Medium                     -> explode
//	count > Small or elapsed > Budget  -> graph
//	otherwise                          -> robust
func Choose(segments int, elapsed time.Duration, l Limits) Strategy {
	switch {
	case segments > l.Medium:
		return StrategyExplode
	case segments > l.Small || elapsed > l.Budget:
		return StrategyGraph
	default:
		return StrategyRobust
	}
}
