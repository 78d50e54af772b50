// Copyright 2025 The ROAMS Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package aerial

import (
	"fmt"

	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/mat"

	"github.com/roams-model/roams/matx"
)

// A Sampler draws per-iteration aerial emissions samples from source
// coverage records. The zero value samples raw observations with no
// adjustment and no partial-detection correction; fields are normally
// populated from the run configuration via the *ByName registries.
type Sampler struct {
	// Correction deterministically corrects measurement bias. It
	// is applied to sampled emissions only, never to
	// wind-normalized values. nil disables it.
	Correction Transform

	// Noise simulates measurement error multiplicatively, after
	// bias correction. nil disables error simulation.
	Noise Transform

	// HandleNegative is applied last, to dispose of values the
	// noise pushed below zero. nil keeps them.
	HandleNegative Transform

	// PoD converts the original wind-normalized observation into a
	// probability of detection; each cell of the partial-detection
	// matrix is (1/φ−1) times the adjusted emissions value. nil
	// disables the correction and yields an all-zero matrix.
	PoD PoDFunc
}

// SampleGroup resamples one asset group's coverage records into an
// [sources × nIter] emissions matrix and its paired partial-detection
// matrix. For every source and iteration one flyover is drawn uniformly
// with replacement from the source's full coverage list; flyovers with
// no detected plume draw as zero. Columns of both matrices are returned
// sorted ascending by adjusted emissions value, with index
// correspondence between the pair preserved.
//
// A record with zero coverages contributes zero to every iteration. A
// record claiming fewer coverages than recorded plumes is a
// configuration error.
func (s *Sampler) SampleGroup(records []SourceCoverage, nIter int, rng *rand.Rand) (em, pd *mat.Dense, err error) {
	if nIter <= 0 {
		return nil, nil, fmt.Errorf("aerial: nIter must be positive, got %d", nIter)
	}
	for _, rec := range records {
		if rec.Coverages < len(rec.Plumes) {
			return nil, nil, fmt.Errorf("aerial: source %q has %d plumes but only %d coverages",
				rec.SourceID, len(rec.Plumes), rec.Coverages)
		}
	}

	em = mat.NewDense(len(records), nIter, nil)
	wind := mat.NewDense(len(records), nIter, nil)
	for i, rec := range records {
		if rec.Coverages == 0 {
			// Never covered: zero contribution by policy.
			continue
		}
		for j := 0; j < nIter; j++ {
			k := rng.Intn(rec.Coverages)
			if k < len(rec.Plumes) {
				em.Set(i, j, rec.Plumes[k].Emissions)
				wind.Set(i, j, rec.Plumes[k].WindNorm)
			}
		}
	}

	data := em.RawMatrix().Data
	if s.Correction != nil {
		s.Correction(data)
	}
	if s.Noise != nil {
		s.Noise(data)
	}
	if s.HandleNegative != nil {
		s.HandleNegative(data)
	}

	pd = mat.NewDense(len(records), nIter, nil)
	if s.PoD != nil {
		for i := 0; i < len(records); i++ {
			for j := 0; j < nIter; j++ {
				phi := s.PoD(wind.At(i, j))
				pd.Set(i, j, (1/phi-1)*em.At(i, j))
			}
		}
	}

	matx.SortColumnsPaired(em, pd)
	return em, pd, nil
}
