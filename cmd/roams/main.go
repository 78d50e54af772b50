// Copyright 2025 The ROAMS Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// roams runs the regional methane emissions synthesis pipeline.
package main

import (
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:           "roams",
	Short:         "Regional methane emissions size-distribution model",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func main() {
	rootCmd.AddCommand(runCmd, summarizeCmd)
	if err := rootCmd.Execute(); err != nil {
		rootCmd.PrintErrln("roams:", err)
		os.Exit(1)
	}
}
