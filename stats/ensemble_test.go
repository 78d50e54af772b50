// Copyright 2025 The ROAMS Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package stats

import (
	"math"
	"testing"
)

func TestQuantile(t *testing.T) {
	xs := []float64{1, 2, 3, 4, 5}
	for _, c := range []struct {
		p, want float64
	}{
		{-1, 1},
		{0, 1},
		{0.025, 1.1},
		{0.25, 2},
		{0.5, 3},
		{0.975, 4.9},
		{1, 5},
		{2, 5},
	} {
		if got := Quantile(xs, c.p); !aeq(c.want, got) {
			t.Errorf("Quantile(%v) = %v, want %v", c.p, got, c.want)
		}
	}

	if got := Quantile(nil, 0.5); !math.IsNaN(got) {
		t.Errorf("Quantile of empty slice = %v, want NaN", got)
	}
	if got := Quantile([]float64{7}, 0.9); got != 7 {
		t.Errorf("Quantile of singleton = %v, want 7", got)
	}
}

func TestSummarize(t *testing.T) {
	// For values 1..5 the empirical 2.5th and 97.5th percentiles
	// are 1.1 and 4.9; with 25 effective sites the distances from
	// the mean shrink by 1/sqrt(25) = 0.2.
	s := Summarize([]float64{1, 2, 3, 4, 5}, 25)
	if !aeq(3, s.Avg) {
		t.Errorf("Avg = %v, want 3", s.Avg)
	}
	if !aeq(3+(1.1-3)*0.2, s.Lo) {
		t.Errorf("Lo = %v, want %v", s.Lo, 3+(1.1-3)*0.2)
	}
	if !aeq(3+(4.9-3)*0.2, s.Hi) {
		t.Errorf("Hi = %v, want %v", s.Hi, 3+(4.9-3)*0.2)
	}

	// One effective site leaves the raw percentiles in place.
	s = Summarize([]float64{1, 2, 3, 4, 5}, 1)
	if !aeq(1.1, s.Lo) || !aeq(4.9, s.Hi) {
		t.Errorf("unscaled interval = [%v, %v], want [1.1, 4.9]", s.Lo, s.Hi)
	}

	s = Summarize(nil, 25)
	if !math.IsNaN(s.Avg) || !math.IsNaN(s.Lo) || !math.IsNaN(s.Hi) {
		t.Errorf("empty ensemble = %+v, want NaNs", s)
	}
}

func TestCumulativeAbove(t *testing.T) {
	ys := CumulativeAbove([]float64{1, 2, 3, 4}, nil)
	want := []float64{9, 7, 4, 0}
	for i := range want {
		if !aeq(want[i], ys[i]) {
			t.Fatalf("CumulativeAbove = %v, want %v", ys, want)
		}
	}

	// Partial detection mass folds into the curve.
	ys = CumulativeAbove([]float64{1, 2, 3, 4}, []float64{1, 0, 1, 0})
	want = []float64{10, 8, 4, 0}
	for i := range want {
		if !aeq(want[i], ys[i]) {
			t.Fatalf("CumulativeAbove with extra = %v, want %v", ys, want)
		}
	}

	if ys := CumulativeAbove(nil, nil); len(ys) != 0 {
		t.Errorf("CumulativeAbove(nil) = %v, want empty", ys)
	}
}
