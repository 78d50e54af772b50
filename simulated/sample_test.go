// Copyright 2025 The ROAMS Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package simulated

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"golang.org/x/exp/rand"
)

func TestDirectSample(t *testing.T) {
	d := Direct{Emissions: []float64{5, 1, 9}}
	out, err := d.Sample(40, 6, rand.New(rand.NewSource(1)))
	if err != nil {
		t.Fatal(err)
	}

	r, c := out.Dims()
	if r != 40 || c != 6 {
		t.Fatalf("sample is %dx%d, want 40x6", r, c)
	}
	allowed := map[float64]bool{5: true, 1: true, 9: true}
	for j := 0; j < c; j++ {
		for i := 0; i < r; i++ {
			if !allowed[out.At(i, j)] {
				t.Fatalf("sampled value %v not in source data", out.At(i, j))
			}
			if i > 0 && out.At(i, j) < out.At(i-1, j) {
				t.Fatalf("column %d not sorted ascending at row %d", j, i)
			}
		}
	}
}

func TestDirectSampleDeterminism(t *testing.T) {
	d := Direct{Emissions: []float64{2, 4, 8, 16}}
	a, err := d.Sample(10, 5, rand.New(rand.NewSource(42)))
	if err != nil {
		t.Fatal(err)
	}
	b, err := d.Sample(10, 5, rand.New(rand.NewSource(42)))
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(a.RawMatrix().Data, b.RawMatrix().Data); diff != "" {
		t.Errorf("same seed produced different samples (-a +b):\n%s", diff)
	}
}

func TestDirectSampleErrors(t *testing.T) {
	if _, err := (Direct{}).Sample(10, 5, rand.New(rand.NewSource(1))); err == nil {
		t.Error("expected error for empty emissions table")
	}
	d := Direct{Emissions: []float64{1}}
	if _, err := d.Sample(0, 5, rand.New(rand.NewSource(1))); err == nil {
		t.Error("expected error for zero entities")
	}
}
