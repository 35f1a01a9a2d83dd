/*
NAME
  bezier.go

DESCRIPTION
  bezier.go converts Bezier control points over a given duration into the
  equivalent monomial Poly, the step the trajectory player's segment
  decoder performs once per segment.

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

// FromBezier converts the Bezier control points (p0 is the starting
// point, pn the last) into the equivalent monomial polynomial
// parameterized over local time u in [0,1] scaled to durationSec, i.e.
// stretched so the returned Poly is evaluated directly against elapsed
// seconds within the segment. Degrees 0-3 use closed forms; higher
// degrees use the general Bernstein-to-monomial factorial expansion.
func FromBezier(durationSec float64, points ...float64) Poly {
	var p Poly
	switch len(points) {
	case 0:
		p = New()
	case 1:
		p = New(points[0])
	case 2:
		p = linearFromBezier(points[0], points[1])
	case 3:
		p = quadraticFromBezier(points[0], points[1], points[2])
	case 4:
		p = cubicFromBezier(points[0], points[1], points[2], points[3])
	default:
		p = generalFromBezier(points)
	}
	if durationSec > 0 {
		p = p.Stretch(durationSec)
	}
	return p
}

func linearFromBezier(p0, p1 float64) Poly {
	return New(p0, p1-p0)
}

func quadraticFromBezier(p0, p1, p2 float64) Poly {
	return New(
		p0,
		2*(p1-p0),
		p0-2*p1+p2,
	)
}

func cubicFromBezier(p0, p1, p2, p3 float64) Poly {
	return New(
		p0,
		3*(p1-p0),
		3*(p0-2*p1+p2),
		-p0+3*p1-3*p2+p3,
	)
}

// generalFromBezier expands an order-n Bezier curve to monomial form via
// the standard Bernstein-basis-change factorial formula:
//
//	c[j] = n!/(n-j)! * sum_{i=0}^{j} (-1)^(i+j) p[i] / (i! (j-i)!)
func generalFromBezier(points []float64) Poly {
	n := len(points) - 1
	if n < 0 || n >= MaxCoeffs {
		return New()
	}
	fact := make([]float64, n+1)
	fact[0] = 1
	for i := 1; i <= n; i++ {
		fact[i] = fact[i-1] * float64(i)
	}

	coeffs := make([]float64, n+1)
	for j := 0; j <= n; j++ {
		var sum float64
		for i := 0; i <= j; i++ {
			sign := 1.0
			if (i+j)%2 != 0 {
				sign = -1.0
			}
			sum += sign * points[i] / (fact[i] * fact[j-i])
		}
		coeffs[j] = (fact[n] / fact[n-j]) * sum
	}
	return New(coeffs...)
}
