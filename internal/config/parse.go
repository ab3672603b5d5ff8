// Copyright ©2025 curioloop. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// ParseYAML parses a Batch from YAML bytes and validates it.
// Unknown keys are rejected.
func ParseYAML(data []byte) (*Batch, error) {
	var batch Batch
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&batch); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, errors.New("failed to parse batch yaml: empty document")
		}
		return nil, fmt.Errorf("failed to parse batch yaml: %w", err)
	}

	if err := validateBatch(&batch); err != nil {
		return nil, fmt.Errorf("invalid batch: %w", err)
	}
	return &batch, nil
}

// ParseTOML parses a Batch from TOML bytes and validates it.
// Unknown keys are rejected.
func ParseTOML(data []byte) (*Batch, error) {
	var batch Batch
	meta, err := toml.Decode(string(data), &batch)
	if err != nil {
		return nil, fmt.Errorf("failed to parse batch toml: %w", err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return nil, fmt.Errorf("failed to parse batch toml: unknown keys %s", strings.Join(keys, ", "))
	}

	if err := validateBatch(&batch); err != nil {
		return nil, fmt.Errorf("invalid batch: %w", err)
	}
	return &batch, nil
}

// validateBatch performs validation on the batch
func validateBatch(batch *Batch) error {
	if len(batch.Problems) == 0 {
		return fmt.Errorf("at least one problem must be defined")
	}
	names := make(map[string]bool)
	for _, p := range batch.Problems {
		if p.Name == "" {
			return fmt.Errorf("problem name cannot be empty")
		}
		if names[p.Name] {
			return fmt.Errorf("duplicate problem name: %s", p.Name)
		}
		names[p.Name] = true

		switch {
		case p.Objective == "":
			return fmt.Errorf("problem %s: objective is required", p.Name)
		case p.Objective == CommandObjective && len(p.Command) == 0:
			return fmt.Errorf("problem %s: command objective requires a command", p.Name)
		case p.Objective != CommandObjective && len(p.Command) > 0:
			return fmt.Errorf("problem %s: command is only allowed with the command objective", p.Name)
		case p.Objective == CommandObjective && len(p.Params) > 0:
			return fmt.Errorf("problem %s: command objective takes no params", p.Name)
		}

		if math.IsInf(p.Lower, 0) || math.IsInf(p.Upper, 0) {
			return fmt.Errorf("problem %s: bounds must be finite", p.Name)
		}
		if !(p.Lower < p.Upper) {
			return fmt.Errorf("problem %s: lower < upper is required, but lower = %g; upper = %g", p.Name, p.Lower, p.Upper)
		}
		if p.MaxEvaluations < 0 {
			return fmt.Errorf("problem %s: max_evaluations cannot be negative", p.Name)
		}
		if p.MaxSeconds < 0 {
			return fmt.Errorf("problem %s: max_seconds cannot be negative", p.Name)
		}
	}
	return nil
}
