// Copyright ©2025 curioloop. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package objective provides scalar objective functions addressable by name,
// so problems can be described in configuration files.
package objective

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"github.com/facette/natsort"
)

// Func is a scalar objective function.
type Func func(x float64) float64

// Params holds the named parameters of an objective.
type Params map[string]float64

// ErrUnknown is returned by Lookup for a name that is not registered.
var ErrUnknown = errors.New("objective: unknown function")

type entry struct {
	doc      string
	defaults Params
	build    func(p Params) (Func, error)
}

var registry = map[string]entry{
	"quadratic": {
		doc:      "scale·(x − center)² + offset",
		defaults: Params{"center": 0, "scale": 1, "offset": 0},
		build: func(p Params) (Func, error) {
			c, s, o := p["center"], p["scale"], p["offset"]
			if s <= 0 {
				return nil, errors.New("scale must be greater than 0")
			}
			return func(x float64) float64 { return s*(x-c)*(x-c) + o }, nil
		},
	},
	"cosine": {
		doc:      "cos(freq·x + phase)",
		defaults: Params{"freq": 1, "phase": 0},
		build: func(p Params) (Func, error) {
			w, ph := p["freq"], p["phase"]
			if w == 0 {
				return nil, errors.New("freq must not be 0")
			}
			return func(x float64) float64 { return math.Cos(w*x + ph) }, nil
		},
	},
	"abs": {
		doc:      "|x − center|",
		defaults: Params{"center": 0},
		build: func(p Params) (Func, error) {
			c := p["center"]
			return func(x float64) float64 { return math.Abs(x - c) }, nil
		},
	},
	"quartic": {
		doc:      "(x − center)⁴",
		defaults: Params{"center": 0},
		build: func(p Params) (Func, error) {
			c := p["center"]
			return func(x float64) float64 {
				d := (x - c) * (x - c)
				return d * d
			}, nil
		},
	},
	"exp-linear": {
		doc:      "exp(x) − k·x, minimum at ln k",
		defaults: Params{"k": 1},
		build: func(p Params) (Func, error) {
			k := p["k"]
			if k <= 0 {
				return nil, errors.New("k must be greater than 0")
			}
			return func(x float64) float64 { return math.Exp(x) - k*x }, nil
		},
	},
	"rosen1d": {
		doc:      "(1 − x)² + 100(x² − 1)², minimum at 1",
		defaults: Params{},
		build: func(Params) (Func, error) {
			return func(x float64) float64 {
				t := x*x - 1
				return (1-x)*(1-x) + 100*t*t
			}, nil
		},
	},
}

// Lookup builds the named objective, filling missing parameters with their defaults.
func Lookup(name string, params Params) (Func, error) {
	e, ok := registry[name]
	if !ok {
		return nil, fmt.Errorf("%w %q", ErrUnknown, name)
	}
	p := make(Params, len(e.defaults))
	for k, v := range e.defaults {
		p[k] = v
	}
	for k, v := range params {
		if _, ok := e.defaults[k]; !ok {
			return nil, fmt.Errorf("objective %s: unknown parameter %q", name, k)
		}
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, fmt.Errorf("objective %s: parameter %q is not finite", name, k)
		}
		p[k] = v
	}
	f, err := e.build(p)
	if err != nil {
		return nil, fmt.Errorf("objective %s: %w", name, err)
	}
	return f, nil
}

// Names returns the registered objectives in natural order.
func Names() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool {
		return natsort.Compare(names[i], names[j])
	})
	return names
}

// Describe returns the formula of the named objective and its default parameters.
func Describe(name string) (doc string, defaults Params, ok bool) {
	e, ok := registry[name]
	if !ok {
		return "", nil, false
	}
	defaults = make(Params, len(e.defaults))
	for k, v := range e.defaults {
		defaults[k] = v
	}
	return e.doc, defaults, true
}
