// Copyright 2025 The ROAMS Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// midstream estimates sub-detection-level midstream CH4 emissions from
// inventory-derived loss rates. Unlike the rest of the pipeline this is
// a deterministic scalar computation, evaluated once per run, but it
// shares the low/mid/high output shape used everywhere confidence
// bounds are reported.
package midstream // import "github.com/roams-model/roams/midstream"

import "fmt"

// An Estimate is a point estimate with its inventory-derived 95%
// confidence bounds.
type Estimate struct {
	Low, Mid, High float64
}

// An Estimator computes the sub-detection-level midstream emissions
// estimate for a covered region from greenhouse-gas-inventory (GHGI)
// loss rates.
type Estimator struct {
	// TotalCH4Production is the covered region's total CH4
	// production in common emissions units (e.g. kgh).
	TotalCH4Production float64

	// StateLossRate and NationalLossRate are the fractional
	// midstream CH4 loss rates derived from state and national
	// inventories. The smaller of the two is used, on the view that
	// the state estimate can only overstate the covered region.
	StateLossRate    float64
	NationalLossRate float64

	// CILow and CIHigh are the fractional confidence-interval
	// offsets from the inventory uncertainty tables, e.g. -0.15 and
	// 0.19. CILow must not be greater than 0 nor CIHigh less.
	CILow, CIHigh float64

	// SubMDLFraction is the fraction of total midstream emissions
	// expected to fall below the aerial minimum detection level,
	// i.e. 1 minus the aerially detectable fraction.
	SubMDLFraction float64
}

// Estimate computes the sub-detection-level midstream emissions
// estimate with its confidence bounds.
func (e Estimator) Estimate() (Estimate, error) {
	if e.TotalCH4Production < 0 {
		return Estimate{}, fmt.Errorf("midstream: negative CH4 production %v", e.TotalCH4Production)
	}
	if e.SubMDLFraction < 0 || e.SubMDLFraction > 1 {
		return Estimate{}, fmt.Errorf("midstream: sub-MDL fraction %v outside [0, 1]", e.SubMDLFraction)
	}
	if e.CILow > 0 || e.CIHigh < 0 {
		return Estimate{}, fmt.Errorf("midstream: confidence offsets [%v, %v] do not bracket the estimate", e.CILow, e.CIHigh)
	}

	rate := e.StateLossRate
	if e.NationalLossRate < rate {
		rate = e.NationalLossRate
	}
	if rate < 0 {
		return Estimate{}, fmt.Errorf("midstream: negative loss rate %v", rate)
	}

	mid := e.TotalCH4Production * rate * e.SubMDLFraction
	return Estimate{
		Low:  mid * (1 + e.CILow),
		Mid:  mid,
		High: mid * (1 + e.CIHigh),
	}, nil
}
