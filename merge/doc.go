// Package merge reconstructs continuous polylines from the many short,
// possibly duplicated, possibly misaligned segments produced by exploding a
// block reference.
//
// Two independent algorithms are provided. [Robust] leans on a full geometry
// engine (union, snap, buffer) and is the most forgiving, but its cost grows
// superlinearly on dense inputs. [Graph] chains segments through a quantized
// endpoint graph and is near-linear, but only reconnects segments whose
// endpoints agree after snapping to the tolerance grid. A third tier,
// exploding the block into individual segment features, is implemented by the
// caller and guarantees bounded latency.
//
// [Choose] selects among the tiers from the segment count and the time spent
// collecting them, and [Strategy.Next] walks the fixed downgrade order
// robust -> graph -> explode when a tier yields nothing. Tiers only ever
// downgrade, never retry.
package merge
