// Copyright 2025 The ROAMS Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package stats

import (
	"math"
	"slices"

	"gonum.org/v1/gonum/stat"
)

// A Summary is the reduction of a Monte Carlo ensemble of scalar
// estimates to a mean and a 95% confidence interval.
type Summary struct {
	// Avg is the arithmetic mean of the ensemble.
	Avg float64

	// Lo and Hi are the bounds of the 95% confidence interval,
	// derived from the empirical 2.5th and 97.5th percentiles of
	// the ensemble and scaled toward Avg by the effective number
	// of independent sampling units.
	Lo, Hi float64
}

// Summarize reduces an ensemble of scalar estimates, one per Monte
// Carlo iteration, to its mean and a scaled 95% interval.
//
// The signed distances from the mean to the empirical 2.5th and 97.5th
// percentiles are each scaled by 1/√nEffective before being re-applied
// to the mean. nEffective is the effective number of independent
// sampling units behind each estimate (for the production distribution,
// site visits divided by wells per site, per simulated entity); it must
// be positive.
//
// An empty ensemble summarizes to NaNs.
func Summarize(values []float64, nEffective float64) Summary {
	if len(values) == 0 {
		return Summary{nan, nan, nan}
	}
	avg := stat.Mean(values, nil)

	sorted := slices.Clone(values)
	slices.Sort(sorted)
	qlo := Quantile(sorted, 0.025)
	qhi := Quantile(sorted, 0.975)

	scale := 1 / math.Sqrt(nEffective)
	return Summary{
		Avg: avg,
		Lo:  avg + (qlo-avg)*scale,
		Hi:  avg + (qhi-avg)*scale,
	}
}
