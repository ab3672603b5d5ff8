// Copyright ©2025 curioloop. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package brent

import (
	"errors"
	"fmt"
	"math"

	"golang.org/x/exp/constraints"
)

// ErrInvalidInterval is reported when the initial interval is empty or not ordered.
var ErrInvalidInterval = errors.New("brent: lower < upper is required")

// IntervalError describes an interval rejected at construction.
type IntervalError struct {
	Lower, Upper float64
}

func (e *IntervalError) Error() string {
	return fmt.Sprintf("brent: lower < upper is required, but lower = %g; upper = %g", e.Lower, e.Upper)
}

func (e *IntervalError) Unwrap() error { return ErrInvalidInterval }

// StepKind reports how the last point was proposed.
type StepKind int

const (
	StepNone      StepKind = iota // no step has been taken yet
	StepInit                      // startup point inside the initial interval
	StepGolden                    // golden-section step
	StepParabolic                 // successive parabolic interpolation step
	StepConverged                 // stopping criterion satisfied
)

func (k StepKind) String() string {
	switch k {
	case StepNone:
		return "none"
	case StepInit:
		return "init"
	case StepGolden:
		return "golden"
	case StepParabolic:
		return "parabolic"
	case StepConverged:
		return "converged"
	default:
		return fmt.Sprintf("StepKind(%d)", int(k))
	}
}

// Minimizer seeks a local minimizer of f on the interval (a,b) with reverse communication.
//
// The method combines golden section search and successive parabolic interpolation.
// Convergence is never much slower than that of a Fibonacci search. If f has a continuous
// second derivative which is positive at the minimum (which is not at a or b), then
// convergence is superlinear, usually of order about 1.324.
//
// The minimizer never evaluates f. Each call of Step returns a point x and the caller
// feeds f(x) back into the next call:
//
//	m, err := brent.New(0., 5.)
//	fx := 0.
//	for {
//		x := m.Step(fx)
//		if m.Ready() {
//			return x // estimated minimizer
//		}
//		fx = f(x)
//	}
//
// A minimizer located at either endpoint of the initial interval cannot be detected.
// Callers concerned about this should compare the value at the estimate with the values
// at the endpoints.
//
// # Reference:
//
//   - Richard Brent, Algorithms for Minimization Without Derivatives, Dover, 2002.
//   - David Kahaner, Cleve Moler, Steven Nash, Numerical Methods and Software, Prentice Hall, 1989.
type Minimizer[T constraints.Float] struct {
	// bracket containing the minimizer
	a, b T
	// 0 idle or converged, 1 first value pending, ≥2 steady iteration
	iter int
	// squared inverse of the golden ratio
	c T
	// machine precision and its square root
	tol, eps T
	// x the best point, w the second best, v the previous w, u the latest evaluated
	v, w, x, u     T
	fv, fw, fx, fu T
	// d the current step, e the step before last
	d, e    T
	p, q, r T
	// the point handed to the caller
	arg  T
	kind StepKind
}

// New creates a minimizer for the interval (lower, upper).
func New[T constraints.Float](lower, upper T) (*Minimizer[T], error) {
	if !(lower < upper) {
		return nil, &IntervalError{Lower: float64(lower), Upper: float64(upper)}
	}
	tol := epsilon[T]()
	return &Minimizer[T]{
		a: lower, b: upper,
		tol: tol,
		eps: T(math.Sqrt(float64(tol))),
	}, nil
}

// Ready reports whether the iteration is idle: either not started yet,
// or converged with the last value returned by Step as the estimated minimizer.
func (m *Minimizer[T]) Ready() bool {
	return m.iter == 0
}

// Bounds returns the current bracket of the minimizer.
func (m *Minimizer[T]) Bounds() (lower, upper T) {
	return m.a, m.b
}

// Best returns the point with the lowest known value and that value.
func (m *Minimizer[T]) Best() (x, fx T) {
	return m.x, m.fx
}

// Iteration returns the internal call counter.
func (m *Minimizer[T]) Iteration() int {
	return m.iter
}

// LastStep returns the kind of the last point proposed.
func (m *Minimizer[T]) LastStep() StepKind {
	return m.kind
}

// Step advances the iteration.
//
// The value is the function value at the point returned by the previous call.
// It is ignored on the startup call, i.e. whenever Ready reports true.
// When Ready reports true after the call, the returned point is the estimated minimizer,
// otherwise the caller is requested to evaluate the function at the returned point.
//
// Calling Step again once ready restarts the search on the current bracket.
func (m *Minimizer[T]) Step(value T) T {

	switch {
	case m.iter == 0:
		m.c = T(0.5 * (3.0 - math.Sqrt(5.0)))
		m.v = m.a + m.c*(m.b-m.a)
		m.w = m.v
		m.x = m.v
		m.e = 0
		m.iter = 1
		m.arg = m.x
		m.kind = StepInit
		return m.arg
	case m.iter == 1:
		m.fx = value
		m.fv = m.fx
		m.fw = m.fx
	default:
		m.fu = value
		m.accept()
	}

	// Take the next step.
	midpoint := T(0.5) * (m.a + m.b)
	tol1 := m.eps*abs(m.x) + m.tol/3
	tol2 := 2 * tol1

	// Stop when the bracket is small enough around x.
	if abs(m.x-midpoint) <= tol2-T(0.5)*(m.b-m.a) {
		m.iter = 0
		m.kind = StepConverged
		return m.arg
	}

	if abs(m.e) <= tol1 {
		m.golden(midpoint)
	} else {
		m.parabolic(midpoint, tol1, tol2)
	}

	// f must not be evaluated too close to x.
	if tol1 <= abs(m.d) {
		m.u = m.x + m.d
	} else {
		m.u = m.x + sign(tol1, m.d)
	}

	m.arg = m.u
	m.iter++
	return m.arg
}

// accept merges fu = f(u) into the bracket and the three best points.
func (m *Minimizer[T]) accept() {
	if m.fu <= m.fx {
		if m.x <= m.u {
			m.a = m.x
		} else {
			m.b = m.x
		}
		m.v, m.fv = m.w, m.fw
		m.w, m.fw = m.x, m.fx
		m.x, m.fx = m.u, m.fu
		return
	}

	if m.u < m.x {
		m.a = m.u
	} else {
		m.b = m.u
	}

	if m.fu <= m.fw || m.w == m.x {
		m.v, m.fv = m.w, m.fw
		m.w, m.fw = m.u, m.fu
	} else if m.fu <= m.fv || m.v == m.x || m.v == m.w {
		m.v, m.fv = m.u, m.fu
	}
}

// golden takes a golden-section step into the larger part of the bracket.
func (m *Minimizer[T]) golden(midpoint T) {
	if midpoint <= m.x {
		m.e = m.a - m.x
	} else {
		m.e = m.b - m.x
	}
	m.d = m.c * m.e
	m.kind = StepGolden
}

// parabolic fits a parabola through (x,fx), (v,fv), (w,fw) and steps to its vertex,
// falling back to golden-section when the vertex is not acceptable.
func (m *Minimizer[T]) parabolic(midpoint, tol1, tol2 T) {
	m.r = (m.x - m.w) * (m.fx - m.fv)
	m.q = (m.x - m.v) * (m.fx - m.fw)
	m.p = (m.x-m.v)*m.q - (m.x-m.w)*m.r
	m.q = 2 * (m.q - m.r)
	if 0 < m.q {
		m.p = -m.p
	}
	m.q = abs(m.q)
	m.r = m.e
	m.e = m.d

	// The step must be less than half the step before last and must fall inside the bracket.
	if abs(T(0.5)*m.q*m.r) <= abs(m.p) ||
		m.p <= m.q*(m.a-m.x) ||
		m.q*(m.b-m.x) <= m.p {
		m.golden(midpoint)
		return
	}

	m.d = m.p / m.q
	m.u = m.x + m.d

	// f must not be evaluated too close to a or b.
	if m.u-m.a < tol2 {
		m.d = sign(tol1, midpoint-m.x)
	}
	if m.b-m.u < tol2 {
		m.d = sign(tol1, midpoint-m.x)
	}
	m.kind = StepParabolic
}

// epsilon returns the machine precision of T.
func epsilon[T constraints.Float]() T {
	one, eps := T(1), T(1)
	for T(one+eps/2) != one {
		eps /= 2
	}
	return eps
}

func abs[T constraints.Float](x T) T {
	return T(math.Abs(float64(x)))
}

// sign returns |a| with the sign of b.
func sign[T constraints.Float](a, b T) T {
	return T(math.Copysign(float64(a), float64(b)))
}
