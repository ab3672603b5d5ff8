// Copyright ©2025 curioloop. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package brent

import (
	"math"
	"time"

	"golang.org/x/exp/constraints"
)

// driver answers the requests of a Minimizer by calling the objective function.
type driver[T constraints.Float] struct {
	optimizer *Optimizer[T]
	minimizer *Minimizer[T]
	numIter   int
	numEval   int
	elapsed   int64
}

// evaluate calls the objective at x unless a stop condition has already triggered.
func (d *driver[T]) evaluate(x T) (f T, halt Status) {
	o := d.optimizer
	if d.numEval >= o.stop.MaxEvaluations {
		return f, OverEvalLimit
	}
	if d.elapsed >= o.stop.MaxComputations {
		return f, OverTimeLimit
	}
	return d.call(x)
}

// call invokes the objective at x, converting panic and NaN into a halt status.
func (d *driver[T]) call(x T) (f T, halt Status) {
	start := time.Now()
	func() {
		defer func() {
			if r := recover(); r != nil {
				halt = HaltEvalPanic
			}
		}()
		f = d.optimizer.eval(x)
	}()
	d.elapsed += time.Since(start).Nanoseconds()
	d.numEval++
	if halt == 0 && math.IsNaN(float64(f)) {
		halt = HaltEvalNaN
	}
	return
}

// mainLoop feeds the function values back into the minimizer until it is ready
// or a stop condition triggers.
func (d *driver[T]) mainLoop() *Result[T] {

	o, m := d.optimizer, d.minimizer
	log := o.logger

	if log.enable(LogEval) {
		log.log("Brent local minimization on [%g, %g]\n", float64(o.lower), float64(o.upper))
	}

	var (
		x, f   T
		status Status
	)
	for {
		x = m.Step(f)
		d.numIter++
		if m.Ready() {
			status = ConvInterval
			break
		}
		if f, status = d.evaluate(x); status != 0 {
			break
		}
		a, b := m.Bounds()
		log.iterate(iterRow{
			iter: d.numIter, eval: d.numEval, kind: m.LastStep(),
			x: float64(x), f: float64(f), lower: float64(a), upper: float64(b),
		})
	}

	if !status.Converged() {
		// keep the best point known so far
		x, f = m.Best()
		if m.Iteration() < 2 { // no value was accepted yet
			f = T(math.NaN())
		}
	} else if o.ends {
		x, f, status = d.checkEnds(x, f)
	}

	a, b := m.Bounds()
	res := &Result[T]{
		OK: status.Converged(),
		X:  x, F: f,
		Lower: a, Upper: b,
		Summary: Summary{
			Status:  status,
			NumIter: d.numIter,
			NumEval: d.numEval,
			Elapsed: d.elapsed,
		},
	}
	d.printExit(res)
	return res
}

// checkEnds compares the interior estimate with both endpoints of the initial interval.
// The search has already converged, so the evaluation limits no longer apply.
func (d *driver[T]) checkEnds(x, f T) (T, T, Status) {
	o := d.optimizer
	status := ConvInterval
	for _, end := range [2]T{o.lower, o.upper} {
		fe, halt := d.call(end)
		if halt != 0 {
			return x, f, halt
		}
		if fe < f {
			x, f, status = end, fe, ConvEndpoint
		}
	}
	return x, f, status
}

func (d *driver[T]) printExit(res *Result[T]) {
	log := d.optimizer.logger
	if !log.enable(LogLast) {
		return
	}

	log.log("\n           * * *\n")
	log.log("Tit   = total number of Step calls\n")
	log.log("Tnf   = total number of function evaluations\n")
	log.log("X     = final estimate\n")
	log.log("F     = final function value\n")
	log.log("\n           * * *\n")
	log.log("\n    Tit      Tnf        X              F\n")
	log.log(" %6d %7d   %12.5e   %12.5e\n", res.NumIter, res.NumEval, float64(res.X), float64(res.F))
	log.log("\n%s\n", res.Status)

	if log.enable(LogEval) {
		log.log("\n Final bracket: [%.9e, %.9e]\n", float64(res.Lower), float64(res.Upper))
	}
	log.log("\n Total User time: %s\n", formatNs(d.elapsed))
}
