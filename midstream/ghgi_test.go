// Copyright 2025 The ROAMS Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package midstream

import (
	"math"
	"testing"
)

func aeq(expect, got float64) bool {
	return math.Abs(expect-got) < 0.00001
}

func TestEstimate(t *testing.T) {
	e := Estimator{
		TotalCH4Production: 200000,
		StateLossRate:      0.03,
		NationalLossRate:   0.02,
		CILow:              -0.15,
		CIHigh:             0.19,
		SubMDLFraction:     0.6,
	}
	got, err := e.Estimate()
	if err != nil {
		t.Fatal(err)
	}

	// The national rate is the smaller of the two.
	mid := 200000 * 0.02 * 0.6
	if !aeq(mid, got.Mid) {
		t.Errorf("Mid = %v, want %v", got.Mid, mid)
	}
	if !aeq(mid*0.85, got.Low) {
		t.Errorf("Low = %v, want %v", got.Low, mid*0.85)
	}
	if !aeq(mid*1.19, got.High) {
		t.Errorf("High = %v, want %v", got.High, mid*1.19)
	}

	// Flip the rates: the state rate now binds.
	e.StateLossRate, e.NationalLossRate = 0.01, 0.02
	got, err = e.Estimate()
	if err != nil {
		t.Fatal(err)
	}
	if !aeq(200000*0.01*0.6, got.Mid) {
		t.Errorf("Mid = %v, want %v", got.Mid, 200000*0.01*0.6)
	}
}

func TestEstimateContract(t *testing.T) {
	base := Estimator{
		TotalCH4Production: 1000,
		StateLossRate:      0.02,
		NationalLossRate:   0.02,
		CILow:              -0.1,
		CIHigh:             0.1,
		SubMDLFraction:     0.5,
	}

	e := base
	e.SubMDLFraction = 1.5
	if _, err := e.Estimate(); err == nil {
		t.Error("expected error for sub-MDL fraction > 1")
	}

	e = base
	e.CILow = 0.05
	if _, err := e.Estimate(); err == nil {
		t.Error("expected error for lower offset above the estimate")
	}

	e = base
	e.NationalLossRate = -0.01
	if _, err := e.Estimate(); err == nil {
		t.Error("expected error for negative loss rate")
	}

	e = base
	e.TotalCH4Production = -1
	if _, err := e.Estimate(); err == nil {
		t.Error("expected error for negative production")
	}
}
