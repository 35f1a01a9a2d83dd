/*
NAME
  poly_test.go

DESCRIPTION
  poly_test.go validates Horner evaluation, derivative, scale/stretch
  round-trips, Bezier conversion against naive de Casteljau evaluation,
  and closed-form root solving.

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

import "testing"

const tol = 1e-6

func approxEqual(a, b float64) bool {
	d := a - b
	if d < 0 {
		d = -d
	}
	return d < tol
}

func TestEvalHorner(t *testing.T) {
	p := New(1, 2, 3) // 1 + 2t + 3t^2
	cases := []struct {
		t, want float64
	}{
		{0, 1},
		{1, 6},
		{2, 17},
	}
	for _, c := range cases {
		if got := p.Eval(c.t); !approxEqual(got, c.want) {
			t.Errorf("Eval(%v) = %v, want %v", c.t, got, c.want)
		}
	}
}

func TestDerivative(t *testing.T) {
	p := New(1, 2, 3, 4) // 1 + 2t + 3t^2 + 4t^3
	d := p.Derivative()  // 2 + 6t + 12t^2
	if got, want := d.Eval(1), 2.0+6.0+12.0; !approxEqual(got, want) {
		t.Errorf("Derivative Eval(1) = %v, want %v", got, want)
	}
}

func TestScaleRoundTrip(t *testing.T) {
	p := New(1, -2, 3, 4)
	q := p.Scale(5).Scale(1.0 / 5)
	for i := 0; i < MaxCoeffs; i++ {
		if !approxEqual(p.Coeff(i), q.Coeff(i)) {
			t.Fatalf("Scale round-trip mismatch at coeff %d: %v vs %v", i, p.Coeff(i), q.Coeff(i))
		}
	}
}

func TestStretchEvaluateEquivalence(t *testing.T) {
	p := New(1, 2, 3, 4)
	k := 2.5
	q := p.Stretch(k)
	for _, tt := range []float64{0, 0.3, 1, 2} {
		got := q.Eval(k * tt)
		want := p.Eval(tt)
		if !approxEqual(got, want) {
			t.Errorf("Stretch(%v).Eval(%v*%v) = %v, want %v", k, k, tt, got, want)
		}
	}
}

// deCasteljau evaluates a Bezier curve with control points pts at
// parameter u in [0,1] using the naive recursive algorithm, for
// comparison against FromBezier's closed-form monomial conversion.
func deCasteljau(pts []float64, u float64) float64 {
	work := append([]float64(nil), pts...)
	for len(work) > 1 {
		next := make([]float64, len(work)-1)
		for i := range next {
			next[i] = work[i]*(1-u) + work[i+1]*u
		}
		work = next
	}
	return work[0]
}

func TestBezierMatchesDeCasteljau(t *testing.T) {
	cases := [][]float64{
		{0, 10},
		{0, 5, 10},
		{0, 2, 8, 10},
		{0, 1, 4, 9, 16}, // degree 4, exercises the general path.
	}
	for _, pts := range cases {
		p := FromBezier(1, pts...) // duration 1 so u == t directly.
		for _, u := range []float64{0, 0.25, 0.5, 0.75, 1} {
			got := p.Eval(u)
			want := deCasteljau(pts, u)
			if !approxEqual(got, want) {
				t.Errorf("FromBezier(%v).Eval(%v) = %v, want %v (de Casteljau)", pts, u, got, want)
			}
		}
	}
}

func TestBezierStretchByDuration(t *testing.T) {
	pts := []float64{0, 2, 8, 10}
	const dur = 4.0
	p := FromBezier(dur, pts...)
	for _, u := range []float64{0, 0.25, 0.5, 1} {
		got := p.Eval(u * dur)
		want := deCasteljau(pts, u)
		if !approxEqual(got, want) {
			t.Errorf("FromBezier(dur=%v).Eval(%v) = %v, want %v", dur, u*dur, got, want)
		}
	}
}

func TestSolveLinear(t *testing.T) {
	p := New(-4, 2) // -4 + 2t = 0 => t = 2
	roots, err := p.Solve(0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(roots) != 1 || !approxEqual(roots[0], 2) {
		t.Fatalf("Solve = %v, want [2]", roots)
	}
}

func TestSolveQuadraticDiscriminants(t *testing.T) {
	// t^2 - 3t + 2 = (t-1)(t-2)
	p := New(2, -3, 1)
	roots, err := p.Solve(0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(roots) != 2 {
		t.Fatalf("Solve = %v, want 2 roots", roots)
	}
	for _, r := range roots {
		if v := p.Eval(r); !approxEqual(v, 0) {
			t.Errorf("p(%v) = %v, want ~0", r, v)
		}
	}

	// t^2 - 2t + 1 = (t-1)^2, zero discriminant.
	p2 := New(1, -2, 1)
	roots2, err := p2.Solve(0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(roots2) != 1 || !approxEqual(roots2[0], 1) {
		t.Fatalf("Solve = %v, want [1]", roots2)
	}
}

func TestSolveCubicAllRootsSatisfyResidual(t *testing.T) {
	// (t-1)(t-2)(t-3) = t^3 - 6t^2 + 11t - 6
	p := New(-6, 11, -6, 1)
	roots, err := p.Solve(0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(roots) != 3 {
		t.Fatalf("Solve = %v, want 3 roots", roots)
	}
	for _, r := range roots {
		if v := p.Eval(r); !approxEqual(v, 0) {
			t.Errorf("p(%v) = %v, want ~0", r, v)
		}
	}
}

func TestSolveDegreeAbove3Unimplemented(t *testing.T) {
	p := New(1, 1, 1, 1, 1) // degree 4
	_, err := p.Solve(0)
	if err == nil {
		t.Fatalf("Solve on degree 4: want error, got nil")
	}
}

func TestTouchesMonotone(t *testing.T) {
	p := New(0, 10) // linear ramp 0..10 over [0,1]
	tt, ok, err := p.Touches(5)
	if err != nil || !ok || !approxEqual(tt, 0.5) {
		t.Fatalf("Touches(5) = (%v, %v, %v), want (0.5, true, nil)", tt, ok, err)
	}
	_, ok, err = p.Touches(20)
	if err != nil || ok {
		t.Fatalf("Touches(20) = (_, %v, %v), want (false, nil)", ok, err)
	}
}

func TestTouchesOutsideEnvelopeFastPath(t *testing.T) {
	p := New(0, 0, 1) // t^2, range [0,1] over u in [0,1]
	_, ok, err := p.Touches(5)
	if err != nil || ok {
		t.Fatalf("Touches(5) on t^2 = (_, %v, %v), want (false, nil)", ok, err)
	}
}
