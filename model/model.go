// Copyright 2025 The ROAMS Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// model wires the sampling pipeline together: it loads the configured
// inputs, draws the simulated and aerial ensembles from one seeded
// random stream, locates per-iteration transition points, combines the
// distributions, and reduces the ensembles to reportable summaries.
package model // import "github.com/roams-model/roams/model"

import (
	"fmt"
	"log/slog"

	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"

	"github.com/roams-model/roams/aerial"
	"github.com/roams-model/roams/combine"
	"github.com/roams-model/roams/matx"
	"github.com/roams-model/roams/midstream"
	"github.com/roams-model/roams/simulated"
	"github.com/roams-model/roams/stats"
	"github.com/roams-model/roams/transition"
)

// A Group is one asset group's materialized survey data.
type Group struct {
	Name    string
	Records []aerial.SourceCoverage
}

// A Model is a fully materialized run: configuration plus every input
// table loaded into memory. Construct one with Load, or populate the
// fields directly when the inputs do not come from files.
type Model struct {
	Config Config

	// Groups holds the aerial survey data in configuration order.
	Groups []Group

	// Simulated supplies the sub-detection-level production sample.
	Simulated simulated.Sampler

	// Logger receives stage-level progress; nil means slog.Default.
	Logger *slog.Logger

	// OnStage, if non-nil, is called as each pipeline stage starts.
	OnStage func(stage string)
}

// Load materializes a Model from a validated configuration, reading
// every input table it names.
func Load(cfg *Config, logger *slog.Logger) (*Model, error) {
	emissions, production, err := LoadSimulatedTable(cfg.Data.Simulated)
	if err != nil {
		return nil, err
	}

	var sampler simulated.Sampler
	if cfg.Stratify {
		covered, err := LoadCoveredProductivity(cfg.Data.CoveredProductivity)
		if err != nil {
			return nil, err
		}
		sampler = simulated.Stratified{
			Emissions:           emissions,
			Production:          production,
			CoveredProductivity: covered,
			WellsPerSite:        cfg.WellsPerSite,
		}
	} else {
		sampler = simulated.Direct{Emissions: emissions}
	}

	groups := make([]Group, len(cfg.Groups))
	for i, gc := range cfg.Groups {
		records, err := LoadCoverage(gc.Sources, gc.Plumes)
		if err != nil {
			return nil, fmt.Errorf("model: group %q: %w", gc.Name, err)
		}
		groups[i] = Group{Name: gc.Name, Records: records}
	}

	return &Model{Config: *cfg, Groups: groups, Simulated: sampler, Logger: logger}, nil
}

// A GroupSample is one asset group's aerial ensemble: the emissions
// matrix and its paired partial-detection matrix, columns sorted
// ascending.
type GroupSample struct {
	Name             string
	Emissions        *mat.Dense
	PartialDetection *mat.Dense
}

// Results holds everything one run produces: the per-group aerial
// ensembles, the simulated ensemble, the per-iteration transition
// points, the combined production distribution with its paired
// partial-detection matrix, the midstream inventory estimate, and the
// reduced scalar summaries.
type Results struct {
	Groups           []GroupSample
	Simulated        *mat.Dense
	TransitionPoints []float64
	Combined         *mat.Dense
	CombinedPD       *mat.Dense
	Midstream        midstream.Estimate
	Summaries        Summaries
}

// Summaries are the run's reportable scalars, each reduced from its
// per-iteration ensemble by the same mean-plus-scaled-interval rule.
type Summaries struct {
	// NEffectiveSites is the effective number of independent sampling
	// units used to scale every confidence interval: surveyed well
	// sites (well visits over wells per site) per simulated entity.
	NEffectiveSites float64

	// AerialTotals maps each asset group to the summary of its total
	// aerial emissions (observed plus partial-detection mass).
	AerialTotals map[string]stats.Summary

	// ProductionTotal summarizes total emissions of the combined
	// production distribution, including partial-detection mass.
	ProductionTotal stats.Summary

	// MidstreamAboveDetection summarizes the midstream aerial
	// emissions at or above the midstream transition point. It is
	// zero when no "midstream" group is configured.
	MidstreamAboveDetection stats.Summary

	// FractionalLoss summarizes the combined production total as a
	// fraction of covered CH4 production. It is zero when
	// coveredCH4Production is not configured.
	FractionalLoss stats.Summary

	// TotalLoss summarizes the region-wide rollup: combined
	// production total, plus midstream aerial above detection, plus
	// the midstream inventory point estimate.
	TotalLoss stats.Summary
}

// Run executes the pipeline. All stochastic stages draw from one stream
// seeded with Config.Seed, in a fixed order (simulated sample, then
// aerial groups in configuration order, then combination), so equal
// seeds reproduce bit-identical results.
func (m *Model) Run() (*Results, error) {
	cfg := &m.Config
	log := m.Logger
	if log == nil {
		log = slog.Default()
	}

	src := rand.NewSource(cfg.Seed)
	rng := rand.New(src)

	m.stage("simulated sample")
	sim, err := m.Simulated.Sample(cfg.Entities, cfg.Iterations, rng)
	if err != nil {
		return nil, err
	}
	log.Info("drew simulated sample", "entities", cfg.Entities, "iterations", cfg.Iterations, "stratified", cfg.Stratify)

	sampler, err := m.aerialSampler(src)
	if err != nil {
		return nil, err
	}
	res := &Results{Simulated: sim}
	var production GroupSample
	for _, g := range m.Groups {
		m.stage("aerial sample: " + g.Name)
		em, pd, err := sampler.SampleGroup(g.Records, cfg.Iterations, rng)
		if err != nil {
			return nil, fmt.Errorf("model: group %q: %w", g.Name, err)
		}
		gs := GroupSample{Name: g.Name, Emissions: em, PartialDetection: pd}
		res.Groups = append(res.Groups, gs)
		if g.Name == ProductionGroup {
			production = gs
		}
		log.Info("drew aerial sample", "group", g.Name, "sources", len(g.Records))
	}
	if production.Emissions == nil {
		return nil, fmt.Errorf("model: no %q asset group", ProductionGroup)
	}

	m.stage("transition points")
	res.TransitionPoints, err = m.transitionPoints(sim, production)
	if err != nil {
		return nil, err
	}
	log.Info("located transition points",
		"mean", floats.Sum(res.TransitionPoints)/float64(len(res.TransitionPoints)),
		"fixed", cfg.ProductionTransitionPoint != nil)

	m.stage("combine")
	res.Combined, res.CombinedPD, err = combine.Combine(
		production.Emissions, production.PartialDetection, sim,
		res.TransitionPoints, cfg.Entities, rng)
	if err != nil {
		return nil, err
	}

	est := midstream.Estimator{
		TotalCH4Production: cfg.GHGI.TotalCH4Production,
		StateLossRate:      cfg.GHGI.StateLossRate,
		NationalLossRate:   cfg.GHGI.NationalLossRate,
		CILow:              cfg.GHGI.CILow,
		CIHigh:             cfg.GHGI.CIHigh,
		SubMDLFraction:     cfg.GHGI.SubMDLFraction,
	}
	if res.Midstream, err = est.Estimate(); err != nil {
		return nil, err
	}
	log.Info("estimated sub-detection midstream emissions",
		"low", res.Midstream.Low, "mid", res.Midstream.Mid, "high", res.Midstream.High)

	m.stage("summarize")
	res.Summaries = m.summarize(res)
	return res, nil
}

// aerialSampler resolves the configured adjustment functions. The noise
// transform draws from src, the same stream every other stochastic
// stage uses.
func (m *Model) aerialSampler(src rand.Source) (*aerial.Sampler, error) {
	cfg := &m.Config
	s := &aerial.Sampler{}
	var err error
	if s.Correction, err = aerial.CorrectionByName(cfg.Correction); err != nil {
		return nil, err
	}
	if cfg.SimulateError {
		s.Noise, err = aerial.NoiseByName(cfg.Noise.Name, cfg.Noise.Loc, cfg.Noise.Scale, src)
		if err != nil {
			return nil, err
		}
	}
	if s.HandleNegative, err = aerial.NegativePolicyByName(cfg.NegativePolicy); err != nil {
		return nil, err
	}
	if s.PoD, err = aerial.PoDByName(cfg.PartialDetection); err != nil {
		return nil, err
	}
	return s, nil
}

// transitionPoints returns one transition point per iteration, either
// the configured fixed value or the per-column crossing of the two
// cumulative-above-threshold curves.
func (m *Model) transitionPoints(sim *mat.Dense, production GroupSample) ([]float64, error) {
	cfg := &m.Config
	tps := make([]float64, cfg.Iterations)
	if cfg.ProductionTransitionPoint != nil {
		for j := range tps {
			tps[j] = *cfg.ProductionTransitionPoint
		}
		return tps, nil
	}

	finder := transition.Finder{
		Low:    cfg.Transition.Low,
		High:   cfg.Transition.High,
		Window: cfg.Transition.Window,
	}
	for j := 0; j < cfg.Iterations; j++ {
		simX := matx.Col(sim, j)
		simY := stats.CumulativeAbove(simX, nil)
		aerialX := matx.Col(production.Emissions, j)
		aerialY := stats.CumulativeAbove(aerialX, matx.Col(production.PartialDetection, j))

		tp, err := finder.Find(simX, simY, aerialX, aerialY)
		if err != nil {
			return nil, fmt.Errorf("model: iteration %d: %w", j, err)
		}
		tps[j] = tp
	}
	return tps, nil
}

// summarize reduces the run's ensembles to the reportable scalars.
func (m *Model) summarize(res *Results) Summaries {
	cfg := &m.Config
	nEff := (cfg.WellVisits / cfg.WellsPerSite) / float64(cfg.Entities)

	s := Summaries{
		NEffectiveSites: nEff,
		AerialTotals:    make(map[string]stats.Summary, len(res.Groups)),
	}
	for _, g := range res.Groups {
		s.AerialTotals[g.Name] = stats.Summarize(totalsWithPD(g.Emissions, g.PartialDetection), nEff)
	}

	prodTotals := totalsWithPD(res.Combined, res.CombinedPD)
	s.ProductionTotal = stats.Summarize(prodTotals, nEff)

	midAbove := make([]float64, cfg.Iterations)
	for _, g := range res.Groups {
		if g.Name != MidstreamGroup {
			continue
		}
		r, c := g.Emissions.Dims()
		for j := 0; j < c; j++ {
			for i := 0; i < r; i++ {
				if v := g.Emissions.At(i, j); v >= cfg.MidstreamTransitionPoint {
					midAbove[j] += v + g.PartialDetection.At(i, j)
				}
			}
		}
		s.MidstreamAboveDetection = stats.Summarize(midAbove, nEff)
	}

	if cfg.CoveredCH4Production > 0 {
		frac := make([]float64, len(prodTotals))
		for j, t := range prodTotals {
			frac[j] = t / cfg.CoveredCH4Production
		}
		s.FractionalLoss = stats.Summarize(frac, nEff)
	}

	total := make([]float64, len(prodTotals))
	for j, t := range prodTotals {
		total[j] = t + midAbove[j] + res.Midstream.Mid
	}
	s.TotalLoss = stats.Summarize(total, nEff)
	return s
}

// totalsWithPD returns the per-iteration total of observed emissions
// plus partial-detection mass.
func totalsWithPD(em, pd *mat.Dense) []float64 {
	totals := matx.ColSums(em)
	floats.Add(totals, matx.ColSums(pd))
	return totals
}

func (m *Model) stage(name string) {
	if m.OnStage != nil {
		m.OnStage(name)
	}
}

// Stages returns the pipeline stage count for progress reporting: the
// simulated sample, one aerial sample per group, the transition search,
// combination, and summarization.
func (m *Model) Stages() int {
	return 4 + len(m.Groups)
}
