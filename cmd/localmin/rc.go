// Copyright ©2025 curioloop. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"bufio"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/curioloop/localmin/brent"
)

var (
	rcLower    float64
	rcUpper    float64
	rcMaxCalls int
)

var rcCmd = &cobra.Command{
	Use:   "rc",
	Short: "Minimize through reverse communication over stdin/stdout",
	Long: `Runs the minimizer with the caller as the objective.

Each request is written to stdout as "eval <x>"; the caller answers with the
function value at x on one line of stdin. When the search converges the
estimate is written as "done <x>".`,
	RunE: runRC,
}

func init() {
	rcCmd.Flags().Float64Var(&rcLower, "lower", 0, "Lower bound of the interval")
	rcCmd.Flags().Float64Var(&rcUpper, "upper", 1, "Upper bound of the interval")
	rcCmd.Flags().IntVar(&rcMaxCalls, "max-calls", 0, "Maximum number of requests, 0 for no limit")

	rootCmd.AddCommand(rcCmd)
}

func runRC(cmd *cobra.Command, args []string) error {
	m, err := brent.New(rcLower, rcUpper)
	if err != nil {
		return err
	}

	in := bufio.NewScanner(cmd.InOrStdin())
	out := cmd.OutOrStdout()

	value := 0.
	for calls := 1; ; calls++ {
		x := m.Step(value)
		if m.Ready() {
			a, b := m.Bounds()
			slog.Debug("Converged", "x", x, "lower", a, "upper", b, "calls", calls)
			_, err = fmt.Fprintf(out, "done %s\n", strconv.FormatFloat(x, 'g', -1, 64))
			return err
		}
		if rcMaxCalls > 0 && calls > rcMaxCalls {
			return fmt.Errorf("no convergence after %d requests", rcMaxCalls)
		}
		if _, err = fmt.Fprintf(out, "eval %s\n", strconv.FormatFloat(x, 'g', -1, 64)); err != nil {
			return err
		}

		if !in.Scan() {
			if err = in.Err(); err != nil {
				return fmt.Errorf("failed to read value: %w", err)
			}
			return errors.New("input closed before convergence")
		}
		line := strings.TrimSpace(in.Text())
		if value, err = strconv.ParseFloat(line, 64); err != nil {
			return fmt.Errorf("invalid value %q for x = %g: %w", line, x, err)
		}
		slog.Debug("Received value", "x", x, "f", value, "step", m.LastStep().String())
	}
}
