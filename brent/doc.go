// Copyright ©2025 curioloop. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package brent implements Brent's local minimization of a scalar function
// on a bounded interval without derivatives.
//
// Minimizer is the reverse-communication form: it proposes points and the caller
// supplies the function values, so evaluation may happen anywhere (another process,
// a remote service, a batched back end). Problem and Optimizer wrap it with a
// forward evaluation callback and the usual stop conditions.
package brent
