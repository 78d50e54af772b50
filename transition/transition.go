// Copyright 2025 The ROAMS Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// transition locates, for one Monte Carlo iteration, the emissions rate
// at which aerial evidence becomes more reliable than the simulated
// sub-detection-level sample: the point where the aerial cumulative
// emissions distribution starts declining faster than the simulated
// one.
package transition // import "github.com/roams-model/roams/transition"

import (
	"errors"
	"fmt"
)

// ErrNoTransition is returned when the aerial rate of decline never
// exceeds the simulated rate of decline within the search grid.
var ErrNoTransition = errors.New("transition: no crossing found within the search grid")

// A Finder searches for the transition point on a fixed integer grid of
// candidate emissions rates. The zero value is not useful; use
// DefaultFinder or populate the bounds from configuration.
type Finder struct {
	// Low and High bound the integer search grid [Low, High). Low
	// reflects the expected minimum detection level; High is a
	// generous upper bound on plausible transition rates.
	Low, High int

	// Window is the width, in grid units, of the trailing window
	// over which each curve's local rate of decline is measured. A
	// narrower window is used near Low where a full window would
	// underflow the grid.
	Window int
}

// DefaultFinder searches rates from 5 up to 1000 with a decline window
// of 10 grid units.
var DefaultFinder = Finder{Low: 5, High: 1000, Window: 10}

// Find returns the transition point for one iteration's pair of
// cumulative-above-threshold curves. simX and aerialX are ascending
// emissions values; simY and aerialY are the corresponding cumulative
// emissions from entities emitting at least that value (so each curve
// is non-increasing and ends at 0).
//
// Both curves are interpolated onto the integer grid, the local rate of
// decline over the trailing window is computed at each grid point, and
// the smallest grid value at which the aerial decline first exceeds the
// simulated decline is returned. If the curves never cross,
// ErrNoTransition is returned; a caller must treat that as fatal
// configuration rather than substitute a boundary value.
func (f Finder) Find(simX, simY, aerialX, aerialY []float64) (float64, error) {
	if len(simX) != len(simY) || len(aerialX) != len(aerialY) {
		return 0, fmt.Errorf("transition: cumulative curve lengths differ (sim %d/%d, aerial %d/%d)",
			len(simX), len(simY), len(aerialX), len(aerialY))
	}
	if len(simX) == 0 || len(aerialX) == 0 {
		return 0, fmt.Errorf("transition: empty distribution")
	}
	if f.High <= f.Low {
		return 0, fmt.Errorf("transition: bad search grid [%d, %d)", f.Low, f.High)
	}

	n := f.High - f.Low
	interpSim := make([]float64, n)
	interpAerial := make([]float64, n)
	for w := 0; w < n; w++ {
		x := float64(f.Low + w)
		interpSim[w] = interp(x, simX, simY)
		interpAerial[w] = interp(x, aerialX, aerialY)
	}

	// The decline at w is the average drop per grid unit over the
	// trailing window; near the low end the window shrinks to what
	// the grid can supply. diff at w=0 is always 0.
	for w := 1; w < n; w++ {
		wmin := w - f.Window
		if wmin < 0 {
			wmin = 0
		}
		span := float64(w - wmin)
		declSim := (interpSim[wmin] - interpSim[w]) / span
		declAerial := (interpAerial[wmin] - interpAerial[w]) / span
		if declAerial > declSim {
			return float64(f.Low + w - 1), nil
		}
	}
	return 0, fmt.Errorf("%w: [%d, %d)", ErrNoTransition, f.Low, f.High)
}

// interp evaluates the piecewise-linear curve (xs, ys) at x, clamping
// to the first and last points outside the curve's range. xs must be
// ascending; a vertical segment (repeated x) evaluates to its upper y.
func interp(x float64, xs, ys []float64) float64 {
	if x <= xs[0] {
		return ys[0]
	}
	last := len(xs) - 1
	if x >= xs[last] {
		return ys[last]
	}
	// Binary search for the segment with xs[i] <= x < xs[i+1].
	lo, hi := 0, last
	for hi-lo > 1 {
		mid := (lo + hi) / 2
		if xs[mid] <= x {
			lo = mid
		} else {
			hi = mid
		}
	}
	dx := xs[hi] - xs[lo]
	if dx == 0 {
		return ys[hi]
	}
	return ys[lo] + (x-xs[lo])/dx*(ys[hi]-ys[lo])
}
