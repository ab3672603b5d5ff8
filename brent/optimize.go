// Copyright ©2025 curioloop. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package brent

import (
	"errors"
	"math"
	"os"
	"time"

	"golang.org/x/exp/constraints"
)

// Status is the final state of a driven minimization.
type Status int

const (
	// ConvInterval the bracket shrank below the tolerance around the estimate.
	ConvInterval Status = 1 + iota
	// ConvEndpoint an endpoint of the initial interval is better than the interior estimate.
	ConvEndpoint
	// OverEvalLimit the number of function evaluations reached the limit.
	OverEvalLimit
	// OverTimeLimit the time spent on function evaluations exceeded the quota.
	OverTimeLimit
	// HaltEvalPanic the evaluation panicked.
	HaltEvalPanic
	// HaltEvalNaN the evaluation returned NaN.
	HaltEvalNaN
)

func (s Status) String() string {
	switch s {
	case ConvInterval:
		return "CONVERGENCE: BRACKET_WIDTH_<=_TOL"
	case ConvEndpoint:
		return "CONVERGENCE: ENDPOINT_IS_BETTER"
	case OverEvalLimit:
		return "STOP: TOTAL NO. of f EVALUATIONS EXCEEDS LIMIT"
	case OverTimeLimit:
		return "STOP: EVALUATION TIME EXCEEDS LIMIT"
	case HaltEvalPanic:
		return "STOP: CALLBACK REQUESTED HALT"
	case HaltEvalNaN:
		return "STOP: CALLBACK RETURNED NaN"
	default:
		return "UNKNOWN STATUS"
	}
}

// Converged reports whether the status ends with an estimated minimizer.
func (s Status) Converged() bool {
	return s == ConvInterval || s == ConvEndpoint
}

// Evaluation evaluates the objective function at x.
type Evaluation[T constraints.Float] func(x T) (f T)

// Termination specifies the stopping criteria beyond the convergence of the bracket.
type Termination struct {
	// The iteration stop when the total number of function evaluation exceeds limit.
	MaxEvaluations int
	// The iteration stop when the time spent on function evaluation is over quota (in seconds).
	MaxComputations int64
}

// Problem specifies a bounded scalar minimization.
type Problem[T constraints.Float] struct {
	Lower, Upper T             // Initial interval
	Eval         Evaluation[T] // Objective function
	Stop         Termination   // Stop condition
	// Also evaluate both endpoints after convergence, since an interior search
	// cannot detect a minimizer located at the initial endpoints.
	CheckEnds bool
}

// New creates a new optimizer for given problem.
// A nil logger disables logging; logger itself is not modified.
func (p *Problem[T]) New(logger *Logger) (optimizer *Optimizer[T], err error) {

	// the caller's logger may be shared, so it is never written
	log := logger.withDefaults(os.Stdout)

	stop := p.Stop

	stop.MaxEvaluations = max(stop.MaxEvaluations, 0)
	if stop.MaxEvaluations == 0 {
		stop.MaxEvaluations = math.MaxInt
	}

	stop.MaxComputations = max(stop.MaxComputations, 0)
	if stop.MaxComputations > 0 {
		stop.MaxComputations *= time.Second.Nanoseconds()
	}
	if stop.MaxComputations <= 0 {
		stop.MaxComputations = math.MaxInt64
	}

	switch {
	case p.Eval == nil:
		err = errors.New("evaluation target is required")
	case !(p.Lower < p.Upper):
		err = &IntervalError{Lower: float64(p.Lower), Upper: float64(p.Upper)}
	}
	if err != nil {
		return
	}

	optimizer = &Optimizer[T]{
		lower: p.Lower, upper: p.Upper,
		eval:   p.Eval,
		stop:   stop,
		ends:   p.CheckEnds,
		logger: log,
	}
	return
}

// Optimizer drives a Minimizer with a forward evaluation callback.
// An optimizer holds no iteration state, so Fit could be called from multiple goroutines.
type Optimizer[T constraints.Float] struct {
	lower, upper T
	eval         Evaluation[T]
	stop         Termination
	ends         bool
	logger       Logger
}

// Result contains the final result of the optimization process.
type Result[T constraints.Float] struct {
	OK           bool // Whether the optimization was converged.
	X, F         T    // Final estimate and its function value.
	Lower, Upper T    // Final bracket.
	Summary           // Optimization summary.
}

// Summary contains a summary of the optimization process.
type Summary struct {
	Status  Status // Final status after optimization.
	NumIter int    // Number of Step calls performed.
	NumEval int    // Number of function evaluations performed.
	Elapsed int64  // Nanoseconds spent on function evaluations.
}

// Fit runs the optimization process from the initial interval.
func (o *Optimizer[T]) Fit() *Result[T] {
	m, err := New(o.lower, o.upper)
	if err != nil {
		panic(err) // validated by Problem.New
	}
	d := driver[T]{optimizer: o, minimizer: m}
	return d.mainLoop()
}
