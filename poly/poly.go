/*
NAME
  poly.go

DESCRIPTION
  poly.go implements a fixed-size monomial polynomial of degree at most 7,
  the L0 numeric primitive trajectory segments and their derivatives are
  built from. Evaluation is by Horner's method; evaluation, derivative,
  scale and stretch are allocation-free.

AUTHOR
  Mara Voss <mara@windlass.aero>

LICENSE
  Copyright (C) 2026 Windlass Aero. All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of Windlass Aero.
*/

// Package poly implements a small fixed-size monomial polynomial (degree
// <= 7, constant-first) with Horner evaluation, derivative, scale,
// stretch, Bezier conversion, extrema and closed-form root solving. A Poly
// is a value type backed by a fixed array, so evaluation, derivative,
// scale and stretch do not allocate; Solve returns its roots in a newly
// allocated slice.
package poly

import (
	"math"

	"gonum.org/v1/gonum/floats/scalar"
)

// MaxCoeffs is the maximum number of monomial coefficients a Poly holds,
// i.e. one more than the highest supported degree (7).
const MaxCoeffs = 8

// epsilon is the magnitude below which a coefficient, or the residual of a
// candidate root, is treated as zero.
const epsilon = 1e-6

// Poly is a monomial polynomial c[0] + c[1]*t + ... + c[n-1]*t^(n-1),
// constant-first, with n <= MaxCoeffs valid coefficients.
type Poly struct {
	c [MaxCoeffs]float64
	n int
}

// New returns a Poly with the given coefficients, constant-first. Extra
// coefficients beyond MaxCoeffs are dropped.
func New(coeffs ...float64) Poly {
	var p Poly
	p.n = len(coeffs)
	if p.n > MaxCoeffs {
		p.n = MaxCoeffs
	}
	copy(p.c[:p.n], coeffs[:p.n])
	return p
}

// Degree returns the index of the highest non-negligible coefficient, or
// 0 for the zero polynomial.
func (p Poly) Degree() int {
	for i := p.n - 1; i > 0; i-- {
		if !scalar.EqualWithinAbs(p.c[i], 0, epsilon) {
			return i
		}
	}
	return 0
}

// Coeff returns the i-th coefficient, or 0 if out of range.
func (p Poly) Coeff(i int) float64 {
	if i < 0 || i >= p.n {
		return 0
	}
	return p.c[i]
}

// Eval evaluates p(t) in float64 by Horner's method.
func (p Poly) Eval(t float64) float64 {
	if p.n == 0 {
		return 0
	}
	r := p.c[p.n-1]
	for i := p.n - 2; i >= 0; i-- {
		r = r*t + p.c[i]
	}
	return r
}

// Eval32 evaluates p(t) in float32 by Horner's method, for the hot path
// where the caller only needs single-precision output.
func (p Poly) Eval32(t float32) float32 {
	if p.n == 0 {
		return 0
	}
	ft := float64(t)
	r := p.c[p.n-1]
	for i := p.n - 2; i >= 0; i-- {
		r = r*ft + p.c[i]
	}
	return float32(r)
}

// Derivative returns p', truncating the top coefficient.
func (p Poly) Derivative() Poly {
	if p.n <= 1 {
		return New(0)
	}
	var d Poly
	d.n = p.n - 1
	for i := 1; i < p.n; i++ {
		d.c[i-1] = float64(i) * p.c[i]
	}
	return d
}

// Scale returns k*p.
func (p Poly) Scale(k float64) Poly {
	var r Poly
	r.n = p.n
	for i := 0; i < p.n; i++ {
		r.c[i] = p.c[i] * k
	}
	return r
}

// Stretch returns the polynomial q such that q(t) == p(t/factor), i.e.
// coefficient i is multiplied by factor^-i. factor must be non-zero.
func (p Poly) Stretch(factor float64) Poly {
	var r Poly
	r.n = p.n
	inv := 1 / factor
	mult := 1.0
	for i := 0; i < p.n; i++ {
		r.c[i] = p.c[i] * mult
		mult *= inv
	}
	return r
}

// IsZero reports whether every coefficient is negligible.
func (p Poly) IsZero() bool {
	for i := 0; i < p.n; i++ {
		if !scalar.EqualWithinAbs(p.c[i], 0, epsilon) {
			return false
		}
	}
	return true
}

// Extrema returns the minimum and maximum value of p over [0,1].
func (p Poly) Extrema() (min, max float64) {
	min = math.Min(p.Eval(0), p.Eval(1))
	max = math.Max(p.Eval(0), p.Eval(1))
	if p.Degree() <= 1 {
		return min, max
	}
	d := p.Derivative()
	roots, _ := d.Solve(0)
	for _, r := range roots {
		if r < 0 || r > 1 {
			continue
		}
		v := p.Eval(r)
		if v < min {
			min = v
		}
		if v > max {
			max = v
		}
	}
	return min, max
}
