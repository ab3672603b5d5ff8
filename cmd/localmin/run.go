// Copyright ©2025 curioloop. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sort"
	"sync"
	"text/tabwriter"

	"github.com/facette/natsort"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/curioloop/localmin/brent"
	"github.com/curioloop/localmin/internal/config"
)

var (
	configPath string
	format     string
	jobs       int
	trace      bool
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Solve a batch of problems",
	Long:  `Loads a YAML or TOML batch file, minimizes every problem and prints a report ordered by name.`,
	RunE:  runBatch,
}

func init() {
	runCmd.Flags().StringVar(&configPath, "config", "", "Batch file path, .yaml/.yml or .toml (required)")
	runCmd.Flags().StringVar(&format, "format", "text", "Report format: text, yaml")
	runCmd.Flags().IntVar(&jobs, "jobs", 1, "Number of problems solved concurrently")
	runCmd.Flags().BoolVar(&trace, "trace", false, "Print every evaluation to stderr")

	runCmd.MarkFlagRequired("config")
	rootCmd.AddCommand(runCmd)
}

// report is one row of the batch result.
type report struct {
	Name      string  `yaml:"name"`
	Objective string  `yaml:"objective"`
	OK        bool    `yaml:"ok"`
	X         float64 `yaml:"x"`
	F         float64 `yaml:"f"`
	Lower     float64 `yaml:"lower"`
	Upper     float64 `yaml:"upper"`
	Status    string  `yaml:"status"`
	NumIter   int     `yaml:"iterations"`
	NumEval   int     `yaml:"evaluations"`
	Error     string  `yaml:"error,omitempty"`
}

func runBatch(cmd *cobra.Command, args []string) error {
	if format != "text" && format != "yaml" {
		return fmt.Errorf("unknown report format %q", format)
	}

	batch, err := config.Load(configPath)
	if err != nil {
		return err
	}
	slog.Info("Loaded batch", "path", configPath, "problems", len(batch.Problems))

	var logger *brent.Logger
	if trace {
		// problems solved concurrently share the writer
		w := &lockedWriter{w: cmd.ErrOrStderr()}
		logger = &brent.Logger{Level: brent.LogTrace, Msg: w, Out: io.Discard}
	}

	reports := make([]report, len(batch.Problems))
	sem := make(chan struct{}, max(jobs, 1))
	var wg sync.WaitGroup
	for i := range batch.Problems {
		i := i
		wg.Add(1)
		sem <- struct{}{}
		go func() {
			defer wg.Done()
			defer func() { <-sem }()
			reports[i] = solve(cmd.Context(), &batch.Problems[i], logger)
		}()
	}
	wg.Wait()

	sort.Slice(reports, func(i, j int) bool {
		return natsort.Compare(reports[i].Name, reports[j].Name)
	})

	failed := 0
	for _, r := range reports {
		if !r.OK {
			failed++
		}
	}

	if err := writeReport(cmd.OutOrStdout(), reports); err != nil {
		return err
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d problems did not converge", failed, len(reports))
	}
	return nil
}

// solve minimizes one problem. Failures are recorded in the report rather than returned,
// so a single bad problem does not abort the batch.
func solve(ctx context.Context, p *config.Problem, logger *brent.Logger) report {
	r := report{Name: p.Name, Objective: p.Objective}
	if ctx == nil {
		ctx = context.Background()
	}

	bp, err := p.Build(ctx)
	if err != nil {
		r.Error = err.Error()
		slog.Error("Invalid problem", "problem", p.Name, "error", err)
		return r
	}

	// The driver only sees that the evaluation panicked; keep the reason.
	var evalErr error
	eval := bp.Eval
	bp.Eval = func(x float64) float64 {
		defer func() {
			if v := recover(); v != nil {
				if err, ok := v.(error); ok {
					evalErr = err
				} else {
					evalErr = fmt.Errorf("%v", v)
				}
				panic(v)
			}
		}()
		return eval(x)
	}

	o, err := bp.New(logger)
	if err != nil {
		r.Error = err.Error()
		slog.Error("Invalid problem", "problem", p.Name, "error", err)
		return r
	}

	res := o.Fit()
	r.OK = res.OK
	r.X, r.F = res.X, res.F
	r.Lower, r.Upper = res.Lower, res.Upper
	r.Status = res.Status.String()
	r.NumIter, r.NumEval = res.NumIter, res.NumEval
	if evalErr != nil {
		r.Error = evalErr.Error()
	}

	if res.OK {
		slog.Info("Problem solved", "problem", p.Name, "x", res.X, "f", res.F, "evaluations", res.NumEval)
	} else {
		slog.Warn("Problem not solved", "problem", p.Name, "status", r.Status, "error", r.Error)
	}
	return r
}

func writeReport(w io.Writer, reports []report) error {
	if format == "yaml" {
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(map[string][]report{"results": reports}); err != nil {
			return fmt.Errorf("failed to encode report: %w", err)
		}
		return enc.Close()
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "NAME\tOBJECTIVE\tX\tF\tEVALS\tSTATUS")
	for _, r := range reports {
		status := r.Status
		if r.Error != "" {
			status = r.Error
		}
		fmt.Fprintf(tw, "%s\t%s\t%.10g\t%.10g\t%d\t%s\n", r.Name, r.Objective, r.X, r.F, r.NumEval, status)
	}
	return tw.Flush()
}

// lockedWriter serializes writes from concurrent optimizers.
type lockedWriter struct {
	mu sync.Mutex
	w  io.Writer
}

func (l *lockedWriter) Write(p []byte) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.w.Write(p)
}
