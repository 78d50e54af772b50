// Copyright 2025 The ROAMS Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package model

import (
	"fmt"
	"io"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/roams-model/roams/aerial"
)

// A Config is one run's complete configuration. Zero-valued fields are
// filled with defaults by ApplyDefaults; Validate rejects configurations
// the pipeline cannot honor.
type Config struct {
	// Seed seeds the single process-wide random stream. Zero means
	// time-based, which ApplyDefaults resolves to a concrete value so
	// the effective configuration can reproduce the run.
	Seed uint64 `yaml:"seed"`

	// Iterations is the Monte Carlo ensemble size.
	Iterations int `yaml:"iterations"`

	// Entities is the number of production well sites to simulate in
	// the covered region.
	Entities int `yaml:"entities"`

	// WellsPerSite and WellVisits characterize the survey: average
	// wells per well site, and total well visits flown. Together with
	// Entities they set the effective number of independent sampling
	// units behind each ensemble member.
	WellsPerSite float64 `yaml:"wellsPerSite"`
	WellVisits   float64 `yaml:"wellVisits"`

	// Stratify selects production-stratified simulated resampling
	// instead of direct resampling.
	Stratify bool `yaml:"stratify"`

	// SimulateError enables the multiplicative measurement-noise
	// transform.
	SimulateError bool `yaml:"simulateError"`

	// Correction, NegativePolicy and PartialDetection name the
	// adjustment functions to apply; see the aerial package
	// registries for the recognized names.
	Correction       string `yaml:"correction"`
	NegativePolicy   string `yaml:"negativePolicy"`
	PartialDetection string `yaml:"partialDetection"`

	// Noise parameterizes the "normal" noise transform.
	Noise NoiseConfig `yaml:"noise"`

	// Transition bounds the transition-point search grid.
	Transition TransitionConfig `yaml:"transition"`

	// ProductionTransitionPoint, when set, bypasses the search and
	// holds the production transition point fixed for every
	// iteration.
	ProductionTransitionPoint *float64 `yaml:"productionTransitionPoint"`

	// MidstreamTransitionPoint splits the midstream aerial sample
	// into the aerially trusted part (at or above it) and the part
	// covered by the inventory estimate below.
	MidstreamTransitionPoint float64 `yaml:"midstreamTransitionPoint"`

	// CoveredCH4Production is the total CH4 production mass of the
	// covered region, the denominator of the fractional loss. Zero
	// disables the fractional-loss summary.
	CoveredCH4Production float64 `yaml:"coveredCH4Production"`

	// GHGI parameterizes the sub-detection-level midstream estimate.
	GHGI GHGIConfig `yaml:"ghgi"`

	// Data locates the simulated emissions table and the covered
	// productivity quantization.
	Data DataConfig `yaml:"data"`

	// Groups lists the aerially surveyed asset groups. Order matters:
	// groups are sampled in list order from the shared random stream,
	// so reordering them changes the ensemble under a fixed seed. One
	// group must be named "production".
	Groups []GroupConfig `yaml:"groups"`
}

// A NoiseConfig selects and parameterizes the measurement-noise
// transform.
type NoiseConfig struct {
	Name  string  `yaml:"name"`
	Loc   float64 `yaml:"loc"`
	Scale float64 `yaml:"scale"`
}

// A TransitionConfig bounds the integer transition-point search grid
// [Low, High) and sets the trailing decline window width.
type TransitionConfig struct {
	Low    int `yaml:"low"`
	High   int `yaml:"high"`
	Window int `yaml:"window"`
}

// A GHGIConfig carries the inventory-derived inputs of the midstream
// estimate.
type GHGIConfig struct {
	TotalCH4Production float64 `yaml:"totalCH4Production"`
	StateLossRate      float64 `yaml:"stateLossRate"`
	NationalLossRate   float64 `yaml:"nationalLossRate"`
	CILow              float64 `yaml:"ciLow"`
	CIHigh             float64 `yaml:"ciHigh"`
	SubMDLFraction     float64 `yaml:"subMDLFraction"`
}

// A DataConfig locates the simulated input tables.
type DataConfig struct {
	// Simulated is a CSV with "emissions" and "production" columns,
	// one row per simulated well site.
	Simulated string `yaml:"simulated"`

	// CoveredProductivity is a CSV with a "productivity" column, a
	// uniform quantization of covered per-well production.
	CoveredProductivity string `yaml:"coveredProductivity"`
}

// A GroupConfig locates one asset group's survey files: a sources CSV
// ("source_id", "coverages") and a plumes CSV ("source_id", "emissions",
// "wind_norm").
type GroupConfig struct {
	Name    string `yaml:"name"`
	Sources string `yaml:"sources"`
	Plumes  string `yaml:"plumes"`
}

// ProductionGroup is the asset group name the combined distribution is
// built from.
const ProductionGroup = "production"

// MidstreamGroup is the asset group name the midstream loss summaries
// are built from.
const MidstreamGroup = "midstream"

// LoadConfig reads a YAML configuration file, applies defaults, and
// validates it.
func LoadConfig(path string) (*Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("model: reading config: %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return nil, fmt.Errorf("model: parsing config %s: %w", path, err)
	}
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("model: config %s: %w", path, err)
	}
	return &cfg, nil
}

// ApplyDefaults fills zero-valued fields with run defaults. A zero seed
// is resolved from the clock so the effective configuration written
// back out reproduces the run.
func (c *Config) ApplyDefaults() {
	if c.Seed == 0 {
		c.Seed = uint64(time.Now().UnixNano())
	}
	if c.Iterations == 0 {
		c.Iterations = 1000
	}
	if c.WellsPerSite == 0 {
		c.WellsPerSite = 1
	}
	if c.Correction == "" {
		c.Correction = "power"
	}
	if c.NegativePolicy == "" {
		c.NegativePolicy = "zero"
	}
	if c.PartialDetection == "" {
		c.PartialDetection = "bin"
	}
	if c.Noise.Name == "" {
		c.Noise.Name = "normal"
	}
	if c.Noise.Loc == 0 {
		c.Noise.Loc = 1.07
	}
	if c.Noise.Scale == 0 {
		c.Noise.Scale = 0.4
	}
	if c.Transition == (TransitionConfig{}) {
		c.Transition = TransitionConfig{Low: 5, High: 1000, Window: 10}
	}
}

// Validate checks the configuration against the pipeline's contracts:
// positive sample shape, resolvable adjustment names, a sane search
// grid, and a uniquely named group list containing "production".
func (c *Config) Validate() error {
	if c.Iterations <= 0 {
		return fmt.Errorf("iterations must be positive, got %d", c.Iterations)
	}
	if c.Entities <= 0 {
		return fmt.Errorf("entities must be positive, got %d", c.Entities)
	}
	if c.WellsPerSite <= 0 || c.WellVisits <= 0 {
		return fmt.Errorf("wellsPerSite (%v) and wellVisits (%v) must be positive",
			c.WellsPerSite, c.WellVisits)
	}
	if _, err := aerial.CorrectionByName(c.Correction); err != nil {
		return err
	}
	if _, err := aerial.NegativePolicyByName(c.NegativePolicy); err != nil {
		return err
	}
	if _, err := aerial.PoDByName(c.PartialDetection); err != nil {
		return err
	}
	if c.SimulateError {
		if _, err := aerial.NoiseByName(c.Noise.Name, c.Noise.Loc, c.Noise.Scale, nil); err != nil {
			return err
		}
	}
	if c.ProductionTransitionPoint == nil && c.Transition.High <= c.Transition.Low {
		return fmt.Errorf("empty transition search grid [%d, %d)", c.Transition.Low, c.Transition.High)
	}
	if c.MidstreamTransitionPoint < 0 {
		return fmt.Errorf("negative midstream transition point %v", c.MidstreamTransitionPoint)
	}
	if c.CoveredCH4Production < 0 {
		return fmt.Errorf("negative covered CH4 production %v", c.CoveredCH4Production)
	}

	seen := make(map[string]bool)
	for _, g := range c.Groups {
		if g.Name == "" {
			return fmt.Errorf("asset group with empty name")
		}
		if seen[g.Name] {
			return fmt.Errorf("duplicate asset group %q", g.Name)
		}
		seen[g.Name] = true
	}
	if !seen[ProductionGroup] {
		return fmt.Errorf("no %q asset group configured", ProductionGroup)
	}
	return nil
}

// Write writes the effective configuration as YAML, so a defaulted run
// can be reproduced exactly from its saved configuration.
func (c *Config) Write(w io.Writer) error {
	enc := yaml.NewEncoder(w)
	if err := enc.Encode(c); err != nil {
		return fmt.Errorf("model: writing config: %w", err)
	}
	return enc.Close()
}
