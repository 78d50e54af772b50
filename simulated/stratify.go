// Copyright 2025 The ROAMS Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package simulated

import (
	"fmt"
	"math"
	"slices"
	"sort"

	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/mat"

	"github.com/roams-model/roams/matx"
	"github.com/roams-model/roams/stats"
)

// Quantiles is the fixed percentile bin set used for stratification:
// deciles up to the median, 5% bins up to the 95th percentile, then 1%,
// one 0.5%, and 0.1% bins into the upper tail. Bin boundaries are
// deliberately not configurable so that independent runs stay
// comparable; tests override them through the Stratified field.
var Quantiles = []float64{
	0, .1, .2, .3, .4, .5,
	.55, .6, .65, .7, .75, .8, .85, .9, .95,
	.96, .97, .98, .99, .995, .996, .997, .998, .999, 1,
}

// Stratified resamples simulated emissions so that the production
// distribution underlying the sample matches the externally estimated
// distribution of production actually covered by the survey.
//
// The simulated production values are cut into the fixed Quantiles
// bins; the fraction of covered productivity falling in each bin's
// production range sets how many output entities that bin contributes,
// and those entities are drawn with replacement from the simulated
// emissions whose production lies in the bin.
type Stratified struct {
	// Emissions and Production are the simulated table; values
	// correspond index-wise and must have equal length.
	Emissions  []float64
	Production []float64

	// CoveredProductivity is a uniform quantization of the best
	// estimate of per-well production in the covered region, in the
	// same units as Production.
	CoveredProductivity []float64

	// WellsPerSite scales covered per-well productivity up to the
	// well-site level of the simulated table. Zero means 1.
	WellsPerSite float64

	// Bins overrides Quantiles; for tests only.
	Bins []float64
}

// Sample draws the stratified [nEntities × nIter] emissions matrix,
// each column sorted ascending.
//
// It fails when a bin whose covered-productivity share rounds to a
// non-zero entity count has no candidate simulated values, and when
// bins rounding down to zero entities would drop 20% or more of the
// requested entities; both indicate misconfigured input tables rather
// than conditions to paper over.
func (s Stratified) Sample(nEntities, nIter int, rng *rand.Rand) (*mat.Dense, error) {
	if len(s.Emissions) != len(s.Production) {
		return nil, fmt.Errorf("simulated: %d emissions values but %d production values; the tables must be index-aligned",
			len(s.Emissions), len(s.Production))
	}
	if len(s.Emissions) == 0 || len(s.CoveredProductivity) == 0 {
		return nil, fmt.Errorf("simulated: empty simulated or covered-productivity table")
	}
	if nEntities <= 0 || nIter <= 0 {
		return nil, fmt.Errorf("simulated: non-positive sample shape %dx%d", nEntities, nIter)
	}

	qs := s.Bins
	if qs == nil {
		qs = Quantiles
	}
	nBins := len(qs) - 1

	// Bin edges are quantiles of simulated production, with the
	// outer edges forced to [0, +inf) so no covered value falls
	// outside.
	sortedProd := slices.Clone(s.Production)
	slices.Sort(sortedProd)
	edges := make([]float64, len(qs))
	for i, q := range qs {
		edges[i] = stats.Quantile(sortedProd, q)
	}
	edges[0] = 0
	edges[len(edges)-1] = math.Inf(1)

	wps := s.WellsPerSite
	if wps == 0 {
		wps = 1
	}

	// Allocate output entities to bins in proportion to the covered
	// productivity mass in each bin's production range.
	shares := make([]float64, nBins)
	for _, v := range s.CoveredProductivity {
		shares[findBin(edges, v*wps)]++
	}
	perCovered := float64(nEntities) / float64(len(s.CoveredProductivity))
	var droppedMass float64
	for b := range shares {
		shares[b] *= perCovered
		if shares[b] < 0.5 {
			droppedMass += shares[b]
		}
	}
	if droppedMass/float64(nEntities) >= 0.20 {
		return nil, fmt.Errorf("simulated: %.0f%% of %d entities fall in quantile bins too light to round to a single sample; revisit the quantile set or the input tables",
			100*droppedMass/float64(nEntities), nEntities)
	}

	alloc := make([]int, nBins)
	total, largest := 0, 0
	for b, f := range shares {
		alloc[b] = int(math.Floor(f + 0.5))
		total += alloc[b]
		if alloc[b] > alloc[largest] {
			largest = b
		}
	}
	// Rounding can leave the total a few entities off; the heaviest
	// bin absorbs the difference.
	alloc[largest] += nEntities - total
	if alloc[largest] < 0 {
		return nil, fmt.Errorf("simulated: rounding left bin [%v, %v) with negative allocation %d",
			qs[largest], qs[largest+1], alloc[largest])
	}

	out := mat.NewDense(nEntities, nIter, nil)
	row := 0
	for b := 0; b < nBins; b++ {
		if alloc[b] == 0 {
			continue
		}
		var candidates []float64
		for i, p := range s.Production {
			if p > edges[b] && p <= edges[b+1] {
				candidates = append(candidates, s.Emissions[i])
			}
		}
		if len(candidates) == 0 {
			return nil, fmt.Errorf("simulated: quantile bin [%v, %v) needs %d entities but has no candidate simulated values",
				qs[b], qs[b+1], alloc[b])
		}
		for i := 0; i < alloc[b]; i++ {
			for j := 0; j < nIter; j++ {
				out.Set(row+i, j, candidates[rng.Intn(len(candidates))])
			}
		}
		row += alloc[b]
	}

	matx.SortColumns(out)
	return out, nil
}

// findBin returns b such that edges[b] <= v < edges[b+1], clamped to
// the valid bin range.
func findBin(edges []float64, v float64) int {
	i := sort.SearchFloat64s(edges, v)
	if i == len(edges) || edges[i] != v {
		i--
	}
	if i < 0 {
		i = 0
	}
	if i > len(edges)-2 {
		i = len(edges) - 2
	}
	return i
}
