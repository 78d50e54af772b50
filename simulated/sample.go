// Copyright 2025 The ROAMS Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// simulated resamples a basin-scale simulated emissions table into
// per-iteration emissions matrices representing the production
// infrastructure below the aerial detection level.
package simulated // import "github.com/roams-model/roams/simulated"

import (
	"fmt"

	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/mat"

	"github.com/roams-model/roams/matx"
)

// A Sampler produces an [entities × iterations] matrix of simulated
// emissions with every column sorted ascending. It is an injection
// point: the model accepts any Sampler, and ships Direct and
// Stratified.
type Sampler interface {
	Sample(nEntities, nIter int, rng *rand.Rand) (*mat.Dense, error)
}

// Direct resamples emissions values uniformly with replacement,
// ignoring the production distribution.
type Direct struct {
	// Emissions is the simulated emissions table, one value per
	// simulated entity.
	Emissions []float64
}

// Sample draws nEntities values with replacement for each of nIter
// iterations and sorts each column ascending.
func (d Direct) Sample(nEntities, nIter int, rng *rand.Rand) (*mat.Dense, error) {
	if len(d.Emissions) == 0 {
		return nil, fmt.Errorf("simulated: no emissions values to sample")
	}
	if nEntities <= 0 || nIter <= 0 {
		return nil, fmt.Errorf("simulated: non-positive sample shape %dx%d", nEntities, nIter)
	}

	out := mat.NewDense(nEntities, nIter, nil)
	for i := 0; i < nEntities; i++ {
		for j := 0; j < nIter; j++ {
			out.Set(i, j, d.Emissions[rng.Intn(len(d.Emissions))])
		}
	}
	matx.SortColumns(out)
	return out, nil
}
