// Copyright ©2025 curioloop. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package objective

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"slices"
	"strconv"
	"strings"
)

// EvalError is the panic value raised by a command objective that failed to produce a value.
type EvalError struct {
	Argv []string
	X    float64
	Err  error
}

func (e *EvalError) Error() string {
	return fmt.Sprintf("objective: %s at x = %g: %v", strings.Join(e.Argv, " "), e.X, e.Err)
}

func (e *EvalError) Unwrap() error { return e.Err }

// Command builds an objective evaluated by an external program.
// The point is appended to argv as the last argument and
// the first field printed on stdout is parsed as the function value.
//
// Func has no error return, so a failed evaluation panics with *EvalError.
// The brent driver recovers it and halts the search.
func Command(ctx context.Context, argv []string) (Func, error) {
	if len(argv) == 0 {
		return nil, errors.New("objective: command is empty")
	}
	if _, err := exec.LookPath(argv[0]); err != nil {
		return nil, fmt.Errorf("objective: %w", err)
	}
	argv = slices.Clone(argv)
	return func(x float64) float64 {
		args := append(slices.Clone(argv[1:]), strconv.FormatFloat(x, 'g', -1, 64))
		out, err := exec.CommandContext(ctx, argv[0], args...).Output()
		if err != nil {
			panic(&EvalError{Argv: argv, X: x, Err: err})
		}
		fields := strings.Fields(string(out))
		if len(fields) == 0 {
			panic(&EvalError{Argv: argv, X: x, Err: errors.New("no output")})
		}
		f, err := strconv.ParseFloat(fields[0], 64)
		if err != nil {
			panic(&EvalError{Argv: argv, X: x, Err: err})
		}
		return f
	}, nil
}
