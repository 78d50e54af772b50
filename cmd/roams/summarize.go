// Copyright 2025 The ROAMS Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/roams-model/roams/stats"
)

var summarizeSites float64

var summarizeCmd = &cobra.Command{
	Use:   "summarize",
	Short: "Reduce newline-separated scalars from stdin to a mean and 95% interval",
	Long: `Summarize reads one ensemble member per line from stdin and prints the
mean with the 95% confidence interval scaled by the effective number of
independent sampling units.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if summarizeSites <= 0 {
			return fmt.Errorf("--sites must be positive")
		}
		values, err := readValues(os.Stdin)
		if err != nil {
			return err
		}
		if len(values) == 0 {
			return fmt.Errorf("no input values")
		}
		s := stats.Summarize(values, summarizeSites)
		fmt.Printf("N %d  mean %.6g  95%% CI [%.6g, %.6g]\n", len(values), s.Avg, s.Lo, s.Hi)
		return nil
	},
}

func init() {
	summarizeCmd.Flags().Float64Var(&summarizeSites, "sites", 1, "effective number of independent sampling units")
}

func readValues(r io.Reader) ([]float64, error) {
	var values []float64
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		l := scanner.Text()
		if l == "" {
			continue
		}
		value, err := strconv.ParseFloat(l, 64)
		if err != nil {
			return nil, err
		}
		values = append(values, value)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return values, nil
}
