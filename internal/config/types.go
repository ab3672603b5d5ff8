// Copyright ©2025 curioloop. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package config

// CommandObjective names the objective evaluated by an external program.
const CommandObjective = "command"

// Batch is a set of independent minimization problems.
type Batch struct {
	Problems []Problem `yaml:"problems" toml:"problems"`
}

// Problem describes one bounded scalar minimization.
type Problem struct {
	Name      string             `yaml:"name" toml:"name"`
	Objective string             `yaml:"objective" toml:"objective"`
	Params    map[string]float64 `yaml:"params,omitempty" toml:"params"`
	// Command is the argv of the external program when Objective is "command".
	Command []string `yaml:"command,omitempty" toml:"command"`

	Lower float64 `yaml:"lower" toml:"lower"`
	Upper float64 `yaml:"upper" toml:"upper"`

	MaxEvaluations int   `yaml:"max_evaluations,omitempty" toml:"max_evaluations"`
	MaxSeconds     int64 `yaml:"max_seconds,omitempty" toml:"max_seconds"`
	CheckEnds      bool  `yaml:"check_ends,omitempty" toml:"check_ends"`
}
