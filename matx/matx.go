// Copyright 2025 The ROAMS Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// matx provides helpers for the [entities × iterations] emissions
// matrices flowing through the ROAMS pipeline. Each column of such a
// matrix is one Monte Carlo iteration and is kept sorted ascending;
// every helper that reorders an emissions column applies the identical
// permutation to its paired partial-detection column.
package matx // import "github.com/roams-model/roams/matx"

import (
	"sort"

	"gonum.org/v1/gonum/mat"
)

// Col returns a copy of column j of m.
func Col(m *mat.Dense, j int) []float64 {
	r, _ := m.Dims()
	dst := make([]float64, r)
	mat.Col(dst, j, m)
	return dst
}

// SortColumns sorts every column of m ascending, in place.
func SortColumns(m *mat.Dense) {
	r, c := m.Dims()
	col := make([]float64, r)
	for j := 0; j < c; j++ {
		mat.Col(col, j, m)
		sort.Float64s(col)
		m.SetCol(j, col)
	}
}

// SortColumnsPaired sorts every column of m ascending, in place,
// permuting the corresponding column of paired identically so that
// index correspondence between the two matrices is preserved. The two
// matrices must have the same shape.
func SortColumnsPaired(m, paired *mat.Dense) {
	r, c := m.Dims()
	pr, pc := paired.Dims()
	if r != pr || c != pc {
		panic("matx: paired matrix shape mismatch")
	}

	col := make([]float64, r)
	pcol := make([]float64, r)
	perm := make([]int, r)
	for j := 0; j < c; j++ {
		mat.Col(col, j, m)
		mat.Col(pcol, j, paired)
		for i := range perm {
			perm[i] = i
		}
		sort.SliceStable(perm, func(a, b int) bool {
			return col[perm[a]] < col[perm[b]]
		})

		sorted := make([]float64, r)
		psorted := make([]float64, r)
		for i, p := range perm {
			sorted[i] = col[p]
			psorted[i] = pcol[p]
		}
		m.SetCol(j, sorted)
		paired.SetCol(j, psorted)
	}
}

// PadRowsTop returns a new rows×cols matrix whose bottom rows are m and
// whose leading rows are zero. rows must be at least the row count of
// m. The zero rows stand in for entities the aerial survey could not
// detect.
func PadRowsTop(m *mat.Dense, rows int) *mat.Dense {
	r, c := m.Dims()
	if rows < r {
		panic("matx: cannot pad to fewer rows")
	}
	out := mat.NewDense(rows, c, nil)
	out.Slice(rows-r, rows, 0, c).(*mat.Dense).Copy(m)
	return out
}

// ColSums returns the per-column totals of m, one per iteration.
func ColSums(m *mat.Dense) []float64 {
	r, c := m.Dims()
	sums := make([]float64, c)
	for j := 0; j < c; j++ {
		for i := 0; i < r; i++ {
			sums[j] += m.At(i, j)
		}
	}
	return sums
}
