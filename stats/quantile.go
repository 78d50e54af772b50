// Copyright 2025 The ROAMS Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package stats

import "math"

// Quantile returns the p'th quantile of xs, which must be sorted in
// ascending order, using linear interpolation between order statistics
// (type 7 in the taxonomy of Hyndman and Fan).
//
// Hyndman, R. J.; Fan, Y. (1996) Sample Quantiles in Statistical
// Packages.
func Quantile(xs []float64, p float64) float64 {
	if len(xs) == 0 {
		return nan
	}
	if p <= 0 {
		return xs[0]
	}
	if p >= 1 {
		return xs[len(xs)-1]
	}
	h := float64(len(xs)-1) * p
	lo := int(math.Floor(h))
	if lo == len(xs)-1 {
		return xs[lo]
	}
	return xs[lo] + (h-float64(lo))*(xs[lo+1]-xs[lo])
}
