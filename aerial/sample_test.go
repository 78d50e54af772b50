// Copyright 2025 The ROAMS Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package aerial

import (
	"math"
	"testing"

	"golang.org/x/exp/rand"
)

func TestSampleGroupFrequency(t *testing.T) {
	// One source flown over three times: one quiet flyover and two
	// plumes. Each observation should be drawn 1/3 of the time.
	records := []SourceCoverage{{
		SourceID:  "w-1",
		Coverages: 3,
		Plumes:    []Plume{{Emissions: 50, WindNorm: 5}, {Emissions: 100, WindNorm: 10}},
	}}

	const n = 30000
	var s Sampler
	em, _, err := s.SampleGroup(records, n, rand.New(rand.NewSource(1)))
	if err != nil {
		t.Fatal(err)
	}

	counts := map[float64]int{}
	for j := 0; j < n; j++ {
		counts[em.At(0, j)]++
	}
	for _, v := range []float64{0, 50, 100} {
		freq := float64(counts[v]) / n
		if math.Abs(freq-1./3) > 0.02 {
			t.Errorf("value %v drawn with frequency %v, want 1/3 ± 0.02", v, freq)
		}
	}
}

func TestSampleGroupColumnsSortedNonNegative(t *testing.T) {
	records := []SourceCoverage{
		{SourceID: "a", Coverages: 4, Plumes: []Plume{{120, 12}, {3, 1}, {40, 7}}},
		{SourceID: "b", Coverages: 2, Plumes: []Plume{{900, 30}}},
		{SourceID: "c", Coverages: 1},
		{SourceID: "d", Coverages: 5, Plumes: []Plume{{15, 4}, {15, 4}}},
	}
	src := rand.NewSource(7)
	s := Sampler{
		Correction:     PowerCorrection,
		Noise:          NormalNoise(1.07, 0.4, src),
		HandleNegative: ZeroNegatives,
		PoD:            PoDBin,
	}
	em, pd, err := s.SampleGroup(records, 50, rand.New(src))
	if err != nil {
		t.Fatal(err)
	}

	r, c := em.Dims()
	if r != len(records) || c != 50 {
		t.Fatalf("emissions matrix is %dx%d, want %dx50", r, c, len(records))
	}
	for j := 0; j < c; j++ {
		for i := 0; i < r; i++ {
			if v := em.At(i, j); v < 0 {
				t.Fatalf("emissions[%d,%d] = %v, want >= 0", i, j, v)
			}
			if v := pd.At(i, j); v < 0 {
				t.Fatalf("partial detection[%d,%d] = %v, want >= 0", i, j, v)
			}
			if i > 0 && em.At(i, j) < em.At(i-1, j) {
				t.Fatalf("column %d not sorted ascending at row %d", j, i)
			}
		}
	}
}

func TestSampleGroupPartialDetection(t *testing.T) {
	// A single always-emitting source with a wind-normalized value
	// of 5 sits in the 1/5 detection bin, so the partial-detection
	// cell must be (1/0.2 - 1) = 4 times the emissions value.
	records := []SourceCoverage{{
		SourceID:  "w-1",
		Coverages: 1,
		Plumes:    []Plume{{Emissions: 10, WindNorm: 5}},
	}}
	s := Sampler{PoD: PoDBin}
	em, pd, err := s.SampleGroup(records, 4, rand.New(rand.NewSource(3)))
	if err != nil {
		t.Fatal(err)
	}
	for j := 0; j < 4; j++ {
		if got := em.At(0, j); got != 10 {
			t.Errorf("emissions[0,%d] = %v, want 10", j, got)
		}
		if got := pd.At(0, j); math.Abs(got-40) > 1e-9 {
			t.Errorf("partial detection[0,%d] = %v, want 40", j, got)
		}
	}
}

func TestSampleGroupZeroCoverage(t *testing.T) {
	records := []SourceCoverage{{SourceID: "quiet", Coverages: 0}}
	var s Sampler
	em, pd, err := s.SampleGroup(records, 8, rand.New(rand.NewSource(2)))
	if err != nil {
		t.Fatal(err)
	}
	for j := 0; j < 8; j++ {
		if em.At(0, j) != 0 || pd.At(0, j) != 0 {
			t.Fatalf("zero-coverage source contributed (%v, %v) in iteration %d",
				em.At(0, j), pd.At(0, j), j)
		}
	}
}

func TestSampleGroupCoverageContract(t *testing.T) {
	records := []SourceCoverage{{
		SourceID:  "bad",
		Coverages: 1,
		Plumes:    []Plume{{1, 1}, {2, 2}},
	}}
	var s Sampler
	if _, _, err := s.SampleGroup(records, 4, rand.New(rand.NewSource(2))); err == nil {
		t.Error("expected error for record with more plumes than coverages")
	}
	if _, _, err := s.SampleGroup(nil, 0, rand.New(rand.NewSource(2))); err == nil {
		t.Error("expected error for non-positive iteration count")
	}
}
