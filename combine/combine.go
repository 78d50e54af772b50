// Copyright 2025 The ROAMS Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// combine splices the simulated sub-detection-level sample into the
// aerial sample below each iteration's transition point, producing the
// combined production emissions distribution.
package combine // import "github.com/roams-model/roams/combine"

import (
	"errors"
	"fmt"

	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/mat"

	"github.com/roams-model/roams/matx"
)

// ErrPoolTooSmall is returned when an iteration has fewer simulated
// values below its transition point than aerial slots to fill. Sampling
// with replacement from such an undersized pool has no defined meaning,
// so the run is aborted rather than guessed at.
var ErrPoolTooSmall = errors.New("combine: sub-transition simulated pool too small")

// Combine merges the aerial and simulated production samples into a
// combined [nEntities × iterations] distribution with its paired
// partial-detection matrix.
//
// The aerial matrices are first zero-padded on top to nEntities rows,
// standing in for entities the survey could not detect. Then, per
// iteration: every slot below the first aerial value ≥ that iteration's
// transition point is overwritten with a draw (with replacement) from
// the simulated values below the transition point, the paired
// partial-detection entries for those slots are zeroed, and both
// columns are re-sorted ascending under one permutation.
//
// Inputs are not modified; tps carries one transition point per
// iteration.
func Combine(aerialEm, aerialPD, sim *mat.Dense, tps []float64, nEntities int, rng *rand.Rand) (em, pd *mat.Dense, err error) {
	ar, ac := aerialEm.Dims()
	if pr, pc := aerialPD.Dims(); pr != ar || pc != ac {
		return nil, nil, fmt.Errorf("combine: aerial emissions %dx%d but partial detection %dx%d", ar, ac, pr, pc)
	}
	sr, sc := sim.Dims()
	if sc != ac {
		return nil, nil, fmt.Errorf("combine: aerial sample has %d iterations but simulated sample has %d", ac, sc)
	}
	if len(tps) != ac {
		return nil, nil, fmt.Errorf("combine: %d iterations but %d transition points", ac, len(tps))
	}
	if nEntities < ar {
		return nil, nil, fmt.Errorf("combine: %d aerial sources exceed %d entities to simulate", ar, nEntities)
	}

	em = matx.PadRowsTop(aerialEm, nEntities)
	pd = matx.PadRowsTop(aerialPD, nEntities)

	simCol := make([]float64, sr)
	for j := 0; j < ac; j++ {
		tp := tps[j]

		mat.Col(simCol, j, sim)
		var pool []float64
		for _, v := range simCol {
			if v < tp {
				pool = append(pool, v)
			}
		}

		// First index at or above the transition point; the
		// padded column is ascending, so everything before it is
		// a slot to fill with simulated values.
		slots := 0
		for slots < nEntities && em.At(slots, j) < tp {
			slots++
		}
		if slots == nEntities {
			// Every aerial value sits below the transition
			// point; nothing survives to splice around.
			slots = 0
		}

		if len(pool) < slots {
			return nil, nil, fmt.Errorf("%w: iteration %d has %d simulated values below the transition point (%v) but %d slots to fill",
				ErrPoolTooSmall, j, len(pool), tp, slots)
		}
		for i := 0; i < slots; i++ {
			em.Set(i, j, pool[rng.Intn(len(pool))])
			pd.Set(i, j, 0)
		}
	}

	matx.SortColumnsPaired(em, pd)
	return em, pd, nil
}
