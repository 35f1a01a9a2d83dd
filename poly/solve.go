/*
NAME
  solve.go

DESCRIPTION
  solve.go implements closed-form root finding for p(t) = rhs, degree 0
  through 3, plus the "touches" fast path used by the trajectory player's
  takeoff/landing heuristics.

AUTHOR
  Mara Voss <mara@windlass.aero>

LICENSE
  Copyright (C) 2026 Windlass Aero. All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of Windlass Aero.
*/

package poly

import (
	"math"
	"math/cmplx"

	"github.com/windlass-aero/skyplay/xerr"
)

// Solve returns every real root of p(t) = rhs. Degree 0 and 1 are
// trivial; degree 2 uses the quadratic formula (a zero discriminant
// collapses to a single root); degree 3 uses the depressed-cubic Cardano
// method with complex arithmetic for the three-real-root case. Degree > 3
// returns EUNIMPLEMENTED; the file format caps segment degree at 3, so
// this is never hit by the trajectory player itself, only by hand-built
// or malformed inputs.
func (p Poly) Solve(rhs float64) ([]float64, error) {
	shifted := p
	shifted.c[0] -= rhs
	deg := shifted.Degree()

	switch deg {
	case 0:
		// Either no t solves it, or every t does; neither is a discrete
		// root, so there is nothing to report.
		return nil, nil
	case 1:
		return []float64{-shifted.c[0] / shifted.c[1]}, nil
	case 2:
		return solveQuadratic(shifted.c[2], shifted.c[1], shifted.c[0]), nil
	case 3:
		return solveCubic(shifted.c[3], shifted.c[2], shifted.c[1], shifted.c[0]), nil
	default:
		return nil, xerr.EUNIMPLEMENTED
	}
}

func scalar0(v float64) bool { return math.Abs(v) < epsilon }

// solveQuadratic returns the real roots of a*t^2 + b*t + c = 0, a != 0.
func solveQuadratic(a, b, c float64) []float64 {
	disc := b*b - 4*a*c
	if disc < 0 {
		return nil
	}
	if scalar0(disc) {
		return []float64{-b / (2 * a)}
	}
	sq := math.Sqrt(disc)
	return []float64{(-b + sq) / (2 * a), (-b - sq) / (2 * a)}
}

// solveCubic returns the real roots of a*t^3 + b*t^2 + c*t + d = 0, a != 0,
// via the depressed cubic substitution t = u - b/(3a) and Cardano's
// formula, using complex arithmetic to extract the three-real-root case.
func solveCubic(a, b, c, d float64) []float64 {
	b /= a
	c /= a
	d /= a

	// Depress: u^3 + p*u + q = 0, t = u - b/3.
	shift := b / 3
	p := c - b*b/3
	q := 2*b*b*b/27 - b*c/3 + d

	disc := (q*q)/4 + (p*p*p)/27

	var roots []float64
	switch {
	case disc > epsilon:
		sq := math.Sqrt(disc)
		u := cbrt(-q/2 + sq)
		v := cbrt(-q/2 - sq)
		roots = []float64{u + v - shift}
	case disc < -epsilon:
		// Three distinct real roots via complex cube roots.
		r := cmplx.Sqrt(complex(disc, 0))
		u := cmplx.Pow(complex(-q/2, 0)+r, complex(1.0/3, 0))
		if u == 0 {
			u = cmplx.Pow(complex(-q/2, 0)-r, complex(1.0/3, 0))
		}
		omega := cmplx.Exp(complex(0, 2*math.Pi/3))
		for k := 0; k < 3; k++ {
			uk := u * cmplx.Pow(omega, complex(float64(k), 0))
			vk := complex(0, 0)
			if cmplx.Abs(uk) > epsilon {
				vk = complex(-p/3, 0) / uk
			}
			root := real(uk+vk) - shift
			roots = append(roots, root)
		}
	default:
		// Repeated root case.
		if scalar0(p) && scalar0(q) {
			roots = []float64{-shift}
			break
		}
		u := cbrt(-q / 2)
		roots = []float64{2*u - shift, -u - shift}
	}
	return roots
}

func cbrt(v float64) float64 {
	if v < 0 {
		return -math.Cbrt(-v)
	}
	return math.Cbrt(v)
}

// Touches reports whether the curve, parameterized over [0,1], reaches
// value, and if so the smallest such t. It first tries a fast
// monotonicity test using the closed-form derivative sign (degree <= 2,
// where the sign of the derivative cannot change more than once),
// falling back to Solve for higher degrees.
func (p Poly) Touches(value float64) (t float64, ok bool, err error) {
	lo, hi := p.Eval(0), p.Eval(1)
	deg := p.Degree()

	if deg <= 1 {
		if lo == hi {
			if scalar0(value - lo) {
				return 0, true, nil
			}
			return 0, false, nil
		}
		tt := (value - lo) / (hi - lo)
		if tt < 0 || tt > 1 {
			return 0, false, nil
		}
		return tt, true, nil
	}

	// Fast path: if value is outside the monotone envelope of a
	// degree-<=2 curve (whose derivative, being linear, changes sign at
	// most once), it cannot be touched.
	if deg == 2 {
		min, max := p.Extrema()
		if value < min-epsilon || value > max+epsilon {
			return 0, false, nil
		}
	}

	roots, err := p.Solve(value)
	if err != nil {
		return 0, false, err
	}
	best := math.Inf(1)
	found := false
	for _, r := range roots {
		if r < -epsilon || r > 1+epsilon {
			continue
		}
		if r < best {
			best = r
			found = true
		}
	}
	if !found {
		return 0, false, nil
	}
	if best < 0 {
		best = 0
	}
	return best, true, nil
}
