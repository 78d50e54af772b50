// Copyright 2025 The ROAMS Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package aerial

import (
	"fmt"
	"math"

	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/stat/distuv"
)

// A Transform adjusts sampled emissions values elementwise, in place.
// Transforms are selected by name from the run configuration and
// applied to raw sampled emissions in a fixed order: bias correction,
// then noise, then the negative-value policy.
type Transform func(xs []float64)

// PowerCorrection corrects observed emissions rates for measured bias
// in the aerial instrument, per empirical field calibration of the
// survey platform.
//
// Rutherford et al. (2023), supplementary p. S19, "Quantifying regional
// methane emissions in the New Mexico Permian Basin with a
// comprehensive aerial survey".
func PowerCorrection(xs []float64) {
	for i, x := range xs {
		xs[i] = 4.08 * math.Pow(x, 0.77)
	}
}

// ZeroNegatives clamps values below zero, which noise can produce, back
// to zero.
func ZeroNegatives(xs []float64) {
	for i, x := range xs {
		if x < 0 {
			xs[i] = 0
		}
	}
}

// NormalNoise returns a Transform that multiplies each value by an
// independent N(loc, scale) draw from src. Draws come from the shared
// process-wide stream so that fixed seeds reproduce fixed ensembles.
func NormalNoise(loc, scale float64, src rand.Source) Transform {
	n := distuv.Normal{Mu: loc, Sigma: scale, Src: src}
	return func(xs []float64) {
		for i := range xs {
			xs[i] *= n.Rand()
		}
	}
}

// CorrectionByName resolves a configured bias-correction name. The
// empty name and "none" disable correction.
func CorrectionByName(name string) (Transform, error) {
	switch name {
	case "", "none":
		return nil, nil
	case "power":
		return PowerCorrection, nil
	}
	return nil, fmt.Errorf("aerial: unknown correction function %q", name)
}

// NoiseByName resolves a configured noise name. The empty name and
// "none" disable error simulation.
func NoiseByName(name string, loc, scale float64, src rand.Source) (Transform, error) {
	switch name {
	case "", "none":
		return nil, nil
	case "normal":
		return NormalNoise(loc, scale, src), nil
	}
	return nil, fmt.Errorf("aerial: unknown noise function %q", name)
}

// NegativePolicyByName resolves a configured negative-value policy.
func NegativePolicyByName(name string) (Transform, error) {
	switch name {
	case "", "zero":
		return ZeroNegatives, nil
	case "keep":
		return nil, nil
	}
	return nil, fmt.Errorf("aerial: unknown negative-value policy %q", name)
}
