// Copyright 2025 The ROAMS Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"encoding/csv"
	"fmt"
	"log/slog"
	"os"
	"strconv"

	"github.com/spf13/cobra"
	"gonum.org/v1/gonum/mat"
	"gopkg.in/cheggaaa/pb.v1"
	"gopkg.in/yaml.v3"

	"github.com/roams-model/roams/midstream"
	"github.com/roams-model/roams/model"
)

var runFlags struct {
	config      string
	writeConfig string
	out         string
	verbose     bool
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the full sampling pipeline from a configuration file",
	Long: `Run loads a YAML run configuration, draws the simulated and aerial
Monte Carlo ensembles, combines them at the per-iteration transition
points, and prints the reduced summaries as YAML on stdout.`,
	RunE: runRun,
}

func init() {
	runCmd.Flags().StringVarP(&runFlags.config, "config", "c", "", "run configuration file (required)")
	runCmd.Flags().StringVar(&runFlags.writeConfig, "write-config", "", "write the effective configuration to `file`")
	runCmd.Flags().StringVarP(&runFlags.out, "out", "o", "", "write the combined emissions matrix to CSV `file`")
	runCmd.Flags().BoolVarP(&runFlags.verbose, "verbose", "v", false, "log pipeline stages")
	runCmd.MarkFlagRequired("config")
}

func runRun(cmd *cobra.Command, args []string) error {
	level := slog.LevelWarn
	if runFlags.verbose {
		level = slog.LevelInfo
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	cfg, err := model.LoadConfig(runFlags.config)
	if err != nil {
		return err
	}
	if runFlags.writeConfig != "" {
		f, err := os.Create(runFlags.writeConfig)
		if err != nil {
			return err
		}
		if err := cfg.Write(f); err != nil {
			f.Close()
			return err
		}
		if err := f.Close(); err != nil {
			return err
		}
	}

	m, err := model.Load(cfg, logger)
	if err != nil {
		return err
	}

	bar := pb.New(m.Stages())
	bar.Output = os.Stderr
	bar.Start()
	m.OnStage = func(stage string) {
		bar.Prefix(stage)
		bar.Increment()
	}
	res, err := m.Run()
	bar.Finish()
	if err != nil {
		return err
	}

	if runFlags.out != "" {
		if err := writeMatrixCSV(runFlags.out, res.Combined); err != nil {
			return err
		}
	}
	return printReport(res)
}

// printReport writes the run's scalar results as YAML on stdout.
func printReport(res *model.Results) error {
	report := struct {
		Midstream midstream.Estimate `yaml:"midstreamEstimate"`
		Summaries model.Summaries    `yaml:"summaries"`
	}{res.Midstream, res.Summaries}

	enc := yaml.NewEncoder(os.Stdout)
	if err := enc.Encode(report); err != nil {
		return err
	}
	return enc.Close()
}

// writeMatrixCSV writes m row-wise, one column per Monte Carlo
// iteration.
func writeMatrixCSV(path string, m *mat.Dense) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	w := csv.NewWriter(f)
	r, c := m.Dims()
	record := make([]string, c)
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			record[j] = strconv.FormatFloat(m.At(i, j), 'g', -1, 64)
		}
		if err := w.Write(record); err != nil {
			f.Close()
			return err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		f.Close()
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return f.Close()
}
