// Copyright 2025 The ROAMS Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package stats

import "gonum.org/v1/gonum/floats"

// CumulativeAbove turns one iteration's ascending emissions column into
// a cumulative-above-threshold curve: entry i is the total emissions
// from entities whose rate is above values[i]. The last entry is always
// 0, corresponding to the largest value contributing the final piece of
// the cumulative sum.
//
// extra, if non-nil, is added elementwise before accumulating; it
// carries the partial-detection mass paired with each observed value.
// values and extra are not modified.
func CumulativeAbove(values, extra []float64) []float64 {
	if len(values) == 0 {
		return nil
	}
	src := make([]float64, len(values))
	copy(src, values)
	if extra != nil {
		floats.Add(src, extra)
	}
	ys := make([]float64, len(src))
	floats.CumSum(ys, src)
	total := ys[len(ys)-1]
	for i, y := range ys {
		ys[i] = total - y
	}
	return ys
}
