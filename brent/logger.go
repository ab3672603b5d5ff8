// Copyright ©2025 curioloop. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package brent

import (
	"fmt"
	"io"
)

// LogLevel selects how much of a driven minimization is reported.
type LogLevel int

const (
	// LogNoop no output is generated
	LogNoop LogLevel = -1
	// LogLast print the exit summary only
	LogLast LogLevel = 0
	// LogEval print also x and f(x) of every evaluation, and a data row to Out
	LogEval LogLevel = 1
	// LogTrace print also the bracket and the StepKind that proposed x
	LogTrace LogLevel = 99
)

// Logger reports the progress of Optimizer.Fit.
// Messages go to Msg, one data row per evaluation goes to Out.
// A Logger may be shared by optimizers running concurrently if its writers are thread-safe.
type Logger struct {
	Level LogLevel
	Msg   io.Writer
	Out   io.Writer
}

// withDefaults returns a copy of l with the missing writers filled in.
func (l *Logger) withDefaults(msg io.Writer) Logger {
	c := Logger{Level: LogNoop}
	if l != nil {
		c = *l
	}
	if c.Msg == nil {
		c.Msg = msg
	}
	if c.Out == nil {
		c.Out = io.Discard
	}
	return c
}

func (l *Logger) enable(level LogLevel) bool {
	return l.Level >= level
}

func (l *Logger) log(format string, a ...any) {
	write(l.Msg, format, a)
}

// iterRow is the state reported after one evaluation.
type iterRow struct {
	iter, eval   int
	kind         StepKind
	x, f         float64
	lower, upper float64
}

// iterate reports one evaluation according to the level.
func (l *Logger) iterate(r iterRow) {
	switch {
	case l.enable(LogTrace):
		l.log("At iterate %5d    x= %12.5e    f= %12.5e    [%12.5e, %12.5e]  %-9s\n",
			r.iter, r.x, r.f, r.lower, r.upper, r.kind)
	case l.enable(LogEval):
		l.log("At iterate %5d    x= %12.5e    f= %12.5e\n", r.iter, r.x, r.f)
	default:
		return
	}
	write(l.Out, " %4d %4d %-9s %23.16e %23.16e\n", []any{r.iter, r.eval, r.kind, r.x, r.f})
}

func write(w io.Writer, format string, a []any) {
	if len(a) > 0 {
		_, _ = fmt.Fprintf(w, format, a...)
	} else {
		_, _ = fmt.Fprint(w, format)
	}
}

func formatNs(nanoseconds int64) string {
	switch {
	case nanoseconds >= 1e9:
		return fmt.Sprintf("%.2f s", float64(nanoseconds)/1e9)
	case nanoseconds >= 1e6:
		return fmt.Sprintf("%.2f ms", float64(nanoseconds)/1e6)
	case nanoseconds >= 1e3:
		return fmt.Sprintf("%.2f µs", float64(nanoseconds)/1e3)
	default:
		return fmt.Sprintf("%.2f ns", float64(nanoseconds))
	}
}
