// Copyright 2025 The ROAMS Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// aerial samples plume observations from an aerial survey into
// per-iteration emissions matrices, applying the configured bias
// correction, measurement noise, and partial-detection adjustment.
package aerial // import "github.com/roams-model/roams/aerial"

// A Plume is one aerially observed emissions event at a source during
// a single flyover, paired with its wind-normalized value.
type Plume struct {
	// Emissions is the observed emissions rate in common units
	// (e.g. kgh).
	Emissions float64

	// WindNorm is the wind-normalized observation (e.g. kgh/mps)
	// used by the probability-of-detection functions. It is never
	// bias-corrected or noised.
	WindNorm float64
}

// A SourceCoverage records every flyover of one physical source. A
// flyover with no detected plume is still a coverage event; it simply
// has no entry in Plumes and counts as a zero observation.
type SourceCoverage struct {
	// SourceID identifies the source, for diagnostics only.
	SourceID string

	// Coverages is the total number of flyovers of this source.
	// It must be at least len(Plumes).
	Coverages int

	// Plumes holds the flyovers on which the source was observed
	// emitting, in survey order.
	Plumes []Plume
}
