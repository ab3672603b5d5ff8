// Copyright ©2025 curioloop. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package brent

import (
	"bytes"
	"errors"
	"math"
	"strings"
	"sync"
	"testing"
	"time"
)

func quadratic(x float64) float64 { return (x - 2) * (x - 2) }

func TestFitQuadratic(t *testing.T) {
	p := Problem[float64]{Lower: 0, Upper: 5, Eval: quadratic}
	o, err := p.New(nil)
	if err != nil {
		t.Fatal(err)
	}
	r := o.Fit()

	switch {
	case !r.OK:
		t.Fatalf("TestFitQuadratic: Not Converge (%v)", r.Status)
	case r.Status != ConvInterval:
		t.Fatalf("TestFitQuadratic: status %v", r.Status)
	case math.Abs(r.X-2) > 1e-4:
		t.Fatalf("TestFitQuadratic: got %v want 2", r.X)
	case r.F != quadratic(r.X):
		t.Fatalf("TestFitQuadratic: F=%v is not f(X)=%v", r.F, quadratic(r.X))
	case r.NumIter != r.NumEval+1:
		t.Fatalf("TestFitQuadratic: %d calls for %d evaluations", r.NumIter, r.NumEval)
	case !(r.Lower <= r.X && r.X <= r.Upper):
		t.Fatalf("TestFitQuadratic: %v outside [%v, %v]", r.X, r.Lower, r.Upper)
	}

	// The driver must agree with a hand-written reverse-communication loop.
	m, _ := New(0., 5.)
	x, calls := drive(m, quadratic, 200)
	if x != r.X || calls != r.NumIter {
		t.Fatalf("TestFitQuadratic: driver (%v, %d) loop (%v, %d)", r.X, r.NumIter, x, calls)
	}
}

func TestFitExpLinear(t *testing.T) {
	p := Problem[float64]{
		Lower: 0, Upper: 3,
		Eval: func(x float64) float64 { return math.Exp(x) - 3*x },
	}
	o, err := p.New(nil)
	if err != nil {
		t.Fatal(err)
	}
	if r := o.Fit(); !r.OK || math.Abs(r.X-math.Log(3)) > 1e-5 {
		t.Fatalf("TestFitExpLinear: got %v (%v) want ln 3", r.X, r.Status)
	}
}

func TestFitEvalLimit(t *testing.T) {
	p := Problem[float64]{
		Lower: 0, Upper: 5, Eval: quadratic,
		Stop: Termination{MaxEvaluations: 5},
	}
	o, _ := p.New(nil)
	r := o.Fit()
	switch {
	case r.OK:
		t.Fatal("TestFitEvalLimit: should not converge")
	case r.Status != OverEvalLimit:
		t.Fatalf("TestFitEvalLimit: status %v", r.Status)
	case r.NumEval != 5:
		t.Fatalf("TestFitEvalLimit: %d evaluations", r.NumEval)
	case r.F != quadratic(r.X):
		t.Fatalf("TestFitEvalLimit: best value %v is not f(%v)", r.F, r.X)
	}
}

func TestFitTimeLimit(t *testing.T) {
	p := Problem[float64]{
		Lower: 0, Upper: 5,
		Eval: func(x float64) float64 {
			time.Sleep(300 * time.Millisecond)
			return quadratic(x)
		},
		Stop: Termination{MaxComputations: 1},
	}
	o, _ := p.New(nil)
	if r := o.Fit(); r.Status != OverTimeLimit || r.NumEval < 4 {
		t.Fatalf("TestFitTimeLimit: status %v after %d evaluations", r.Status, r.NumEval)
	}
}

func TestFitHalt(t *testing.T) {
	calls := 0
	p := Problem[float64]{
		Lower: 0, Upper: 5,
		Eval: func(x float64) float64 {
			if calls++; calls == 3 {
				panic("broken objective")
			}
			return quadratic(x)
		},
	}
	o, _ := p.New(nil)
	if r := o.Fit(); r.Status != HaltEvalPanic || r.NumEval != 3 || r.OK {
		t.Fatalf("TestFitHalt: status %v after %d evaluations", r.Status, r.NumEval)
	}

	p.Eval = func(float64) float64 { return math.NaN() }
	o, _ = p.New(nil)
	r := o.Fit()
	if r.Status != HaltEvalNaN || !math.IsNaN(r.F) {
		t.Fatalf("TestFitHalt: status %v F=%v", r.Status, r.F)
	}
}

func TestFitCheckEnds(t *testing.T) {
	linear := func(x float64) float64 { return x }

	p := Problem[float64]{Lower: 1, Upper: 2, Eval: linear}
	o, _ := p.New(nil)
	r := o.Fit()
	if r.Status != ConvInterval || r.X <= 1 {
		t.Fatalf("TestFitCheckEnds: interior search got %v (%v)", r.X, r.Status)
	}

	p.CheckEnds = true
	o, _ = p.New(nil)
	r = o.Fit()
	switch {
	case r.Status != ConvEndpoint || !r.OK:
		t.Fatalf("TestFitCheckEnds: status %v", r.Status)
	case r.X != 1 || r.F != 1:
		t.Fatalf("TestFitCheckEnds: got %v want 1", r.X)
	case r.NumEval != r.NumIter+1:
		t.Fatalf("TestFitCheckEnds: %d calls for %d evaluations", r.NumIter, r.NumEval)
	}

	p.Eval, p.Lower, p.Upper = quadratic, 0, 5
	o, _ = p.New(nil)
	if r = o.Fit(); r.Status != ConvInterval || math.Abs(r.X-2) > 1e-4 {
		t.Fatalf("TestFitCheckEnds: interior minimum got %v (%v)", r.X, r.Status)
	}
}

func TestProblemValidation(t *testing.T) {
	p := Problem[float64]{Lower: 0, Upper: 1}
	if _, err := p.New(nil); err == nil {
		t.Fatal("TestProblemValidation: missing evaluation accepted")
	}
	p = Problem[float64]{Lower: 1, Upper: 1, Eval: quadratic}
	if _, err := p.New(nil); !errors.Is(err, ErrInvalidInterval) {
		t.Fatalf("TestProblemValidation: got %v", err)
	}
}

func TestFitLogging(t *testing.T) {
	var msg, out bytes.Buffer
	p := Problem[float64]{Lower: 0, Upper: 5, Eval: quadratic}
	o, err := p.New(&Logger{Level: LogTrace, Msg: &msg, Out: &out})
	if err != nil {
		t.Fatal(err)
	}
	r := o.Fit()

	log := msg.String()
	for _, s := range []string{"At iterate", "parabolic", "golden", ConvInterval.String(), "Total User time"} {
		if !strings.Contains(log, s) {
			t.Fatalf("TestFitLogging: %q missing from log", s)
		}
	}
	if rows := strings.Count(out.String(), "\n"); rows != r.NumEval {
		t.Fatalf("TestFitLogging: %d trace rows for %d evaluations", rows, r.NumEval)
	}
}

func TestFitCheckEndsAtEvalLimit(t *testing.T) {
	p := Problem[float64]{Lower: 0, Upper: 5, Eval: quadratic}
	o, _ := p.New(nil)
	free := o.Fit()
	if !free.OK {
		t.Fatalf("TestFitCheckEndsAtEvalLimit: Not Converge (%v)", free.Status)
	}

	// The interior search converges on its last allowed evaluation.
	p.Stop.MaxEvaluations = free.NumEval
	p.CheckEnds = true
	o, _ = p.New(nil)
	r := o.Fit()
	switch {
	case !r.OK || r.Status != ConvInterval:
		t.Fatalf("TestFitCheckEndsAtEvalLimit: status %v", r.Status)
	case r.X != free.X || r.F != free.F:
		t.Fatalf("TestFitCheckEndsAtEvalLimit: got %v want %v", r.X, free.X)
	case r.NumEval != free.NumEval+2:
		t.Fatalf("TestFitCheckEndsAtEvalLimit: %d evaluations want %d", r.NumEval, free.NumEval+2)
	}

	// A broken objective at an endpoint still halts.
	p.Eval = func(x float64) float64 {
		if x == 5 {
			panic("endpoint")
		}
		return quadratic(x)
	}
	o, _ = p.New(nil)
	if r = o.Fit(); r.Status != HaltEvalPanic || r.OK {
		t.Fatalf("TestFitCheckEndsAtEvalLimit: endpoint panic gave %v", r.Status)
	}
}

func TestProblemNewKeepsLogger(t *testing.T) {
	var msg bytes.Buffer
	shared := &Logger{Level: LogLast, Msg: &msg}

	var wg sync.WaitGroup
	for c := 0; c < 4; c++ {
		c := c
		wg.Add(1)
		go func() {
			defer wg.Done()
			p := Problem[float64]{
				Lower: -10, Upper: 10,
				Eval: func(x float64) float64 { return (x - float64(c)) * (x - float64(c)) },
			}
			if _, err := p.New(shared); err != nil {
				t.Error(err)
			}
		}()
	}
	wg.Wait()

	if shared.Out != nil || shared.Msg != &msg || shared.Level != LogLast {
		t.Fatalf("TestProblemNewKeepsLogger: logger modified to %+v", *shared)
	}
}
