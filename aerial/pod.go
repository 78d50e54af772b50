// Copyright 2025 The ROAMS Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package aerial

import "fmt"

// A PoDFunc maps a wind-normalized emissions value to the probability
// of aerially detecting it. Implementations must return values in
// (0, 1]: a zero probability would make the partial-detection
// multiplier 1/φ−1 undefined. That is a contract on the configured
// function, not checked at sample time.
//
// By convention φ(0) = 1, so sources covered without a detected plume
// contribute no partial-detection mass.
type PoDFunc func(windNorm float64) float64

// Empirical detection fractions by wind-normalized bin, from the
// controlled-release results reported in the supplement to Sherwin et
// al. (2024), p. 48. Values below the empirical detection level are
// held at 1/5 to conservatively replicate the smallest observed
// emissions rather than extrapolate the curve downward.
var podBins = []struct {
	lo, hi float64
	p      float64
}{
	{0, 6, 1. / 5},
	{6, 8, 8. / 33},
	{8, 10, 12. / 34},
	{10, 12, 23. / 33},
	{12, 14, 20. / 22},
}

// PoDBin is the piecewise-constant probability-of-detection curve.
func PoDBin(w float64) float64 {
	if w <= 0 {
		return 1
	}
	for _, b := range podBins {
		if w >= b.lo && w < b.hi {
			return b.p
		}
	}
	return 1
}

var (
	podXs = []float64{4, 6, 8, 10, 12, 14, 16}
	podYs = []float64{.2, .2, 8. / 33, 12. / 34, 23. / 33, 20. / 22, 1}
)

// PoDLinear linearly interpolates the empirical probability-of-
// detection curve between wind-normalized values of 4 and 16. Below 4
// it returns 1 (no extra samples are added); above 16 detection is
// certain.
func PoDLinear(w float64) float64 {
	if w < 4 {
		return 1
	}
	if w >= podXs[len(podXs)-1] {
		return 1
	}
	for i := 0; i < len(podXs)-1; i++ {
		if w <= podXs[i+1] {
			t := (w - podXs[i]) / (podXs[i+1] - podXs[i])
			return podYs[i] + t*(podYs[i+1]-podYs[i])
		}
	}
	return 1
}

// PoDByName resolves a configured probability-of-detection name. The
// empty name and "none" disable the partial-detection correction.
func PoDByName(name string) (PoDFunc, error) {
	switch name {
	case "", "none":
		return nil, nil
	case "bin":
		return PoDBin, nil
	case "linear":
		return PoDLinear, nil
	}
	return nil, fmt.Errorf("aerial: unknown probability-of-detection function %q", name)
}
