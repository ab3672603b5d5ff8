// Copyright ©2025 curioloop. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package config

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/curioloop/localmin/brent"
	"github.com/curioloop/localmin/objective"
)

// Load loads and parses a batch file, choosing the format by extension.
func Load(path string) (*Batch, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read batch file %s: %w", path, err)
	}

	var batch *Batch
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		batch, err = ParseYAML(data)
	case ".toml":
		batch, err = ParseTOML(data)
	default:
		return nil, fmt.Errorf("unsupported batch file extension %q (want .yaml, .yml or .toml)", ext)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to parse batch file %s: %w", path, err)
	}
	return batch, nil
}

// Build resolves the objective and returns the problem ready for the brent driver.
func (p *Problem) Build(ctx context.Context) (*brent.Problem[float64], error) {
	var (
		f   objective.Func
		err error
	)
	if p.Objective == CommandObjective {
		f, err = objective.Command(ctx, p.Command)
	} else {
		f, err = objective.Lookup(p.Objective, p.Params)
	}
	if err != nil {
		return nil, fmt.Errorf("problem %s: %w", p.Name, err)
	}
	return &brent.Problem[float64]{
		Lower: p.Lower,
		Upper: p.Upper,
		Eval:  brent.Evaluation[float64](f),
		Stop: brent.Termination{
			MaxEvaluations:  p.MaxEvaluations,
			MaxComputations: p.MaxSeconds,
		},
		CheckEnds: p.CheckEnds,
	}, nil
}
