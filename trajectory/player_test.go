/*
NAME
  player_test.go

DESCRIPTION
  player_test.go validates the trajectory player against a cube-hover
  end-to-end scenario, order-independence of repeated queries, and the
  velocity vs. numerical-derivative relationship, plus the builder's
  segment splitting and yaw-omission encoding.

AUTHOR
  Mara Voss <mara@windlass.aero>

LICENSE
  Copyright (C) 2026 Windlass Aero. All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of Windlass Aero.
*/

package trajectory

import (
	"math"
	"testing"

	"github.com/windlass-aero/skyplay/geom"
)

// buildCubeHover constructs a simple show trajectory: climb to 10m over
// 10s, move to (5,0,10)m over the next 5s, then hover until 50s.
func buildCubeHover(t *testing.T) *Player {
	t.Helper()
	b := NewBuilder(geom.Vector3WithYaw{}, 10, false)
	b.LinearTo(geom.Vector3WithYaw{X: 0, Y: 0, Z: 10000}, 10000)
	b.LinearTo(geom.Vector3WithYaw{X: 5000, Y: 0, Z: 10000}, 5000)
	b.Hold(35000)
	buf, err := b.Build()
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	p, err := NewPlayer(buf)
	if err != nil {
		t.Fatalf("NewPlayer: %v", err)
	}
	return p
}

func closeEnough(t *testing.T, name string, got, want float32, tol float32) {
	t.Helper()
	if math.Abs(float64(got-want)) > float64(tol) {
		t.Errorf("%s = %v, want %v (tol %v)", name, got, want, tol)
	}
}

func TestCubeHoverScenario(t *testing.T) {
	p := buildCubeHover(t)
	const tol = 5 // mm / (mm/s), allow for scale-byte rounding.

	pos, err := p.PositionAt(0)
	if err != nil {
		t.Fatalf("PositionAt(0): %v", err)
	}
	closeEnough(t, "pos(0).X", pos.X, 0, tol)
	closeEnough(t, "pos(0).Z", pos.Z, 0, tol)

	vel, err := p.VelocityAt(0)
	if err != nil {
		t.Fatalf("VelocityAt(0): %v", err)
	}
	closeEnough(t, "vel(0).Z", vel.Z, 1000, tol)

	pos5, err := p.PositionAt(5)
	if err != nil {
		t.Fatalf("PositionAt(5): %v", err)
	}
	closeEnough(t, "pos(5).Z", pos5.Z, 5000, tol)

	pos15, err := p.PositionAt(15)
	if err != nil {
		t.Fatalf("PositionAt(15): %v", err)
	}
	closeEnough(t, "pos(15).X", pos15.X, 5000, tol)
	closeEnough(t, "pos(15).Z", pos15.Z, 10000, tol)

	vel15, err := p.VelocityAt(15)
	if err != nil {
		t.Fatalf("VelocityAt(15): %v", err)
	}
	closeEnough(t, "vel(15).X", vel15.X, 1000, tol)

	vel50, err := p.VelocityAt(50)
	if err != nil {
		t.Fatalf("VelocityAt(50): %v", err)
	}
	closeEnough(t, "vel(50).X", vel50.X, 0, tol)
	closeEnough(t, "vel(50).Z", vel50.Z, 0, tol)

	velNeg, err := p.VelocityAt(-1)
	if err != nil {
		t.Fatalf("VelocityAt(-1): %v", err)
	}
	closeEnough(t, "vel(-1).X", velNeg.X, 0, tol)
}

func TestPositionAtOrderIndependence(t *testing.T) {
	times := []float64{0, 15, 5, 50, -1, 12.5, 3, 49.9}
	inOrder := buildCubeHover(t)
	shuffled := buildCubeHover(t)

	var want, got []geom.Vector3WithYaw
	for _, tt := range times {
		v, err := inOrder.PositionAt(tt)
		if err != nil {
			t.Fatalf("PositionAt(%v): %v", tt, err)
		}
		want = append(want, v)
	}
	// Query the second player in reverse order; results for each t must
	// match regardless of the order queries arrive in.
	for i := len(times) - 1; i >= 0; i-- {
		v, err := shuffled.PositionAt(times[i])
		if err != nil {
			t.Fatalf("PositionAt(%v): %v", times[i], err)
		}
		got = append([]geom.Vector3WithYaw{v}, got...)
	}
	for i := range times {
		if want[i] != got[i] {
			t.Errorf("order-dependence at t=%v: in-order=%v shuffled=%v", times[i], want[i], got[i])
		}
	}
}

func TestVelocityMatchesNumericalDerivative(t *testing.T) {
	p := buildCubeHover(t)
	const h = 1e-3
	for _, tt := range []float64{2, 7, 12, 20} {
		pPlus, err := p.PositionAt(tt + h)
		if err != nil {
			t.Fatalf("PositionAt: %v", err)
		}
		pMinus, err := p.PositionAt(tt - h)
		if err != nil {
			t.Fatalf("PositionAt: %v", err)
		}
		numZ := (float64(pPlus.Z) - float64(pMinus.Z)) / (2 * h)
		vel, err := p.VelocityAt(tt)
		if err != nil {
			t.Fatalf("VelocityAt: %v", err)
		}
		if math.Abs(numZ-float64(vel.Z)) > 5 {
			t.Errorf("at t=%v: velocity.Z=%v, numerical derivative=%v", tt, vel.Z, numZ)
		}
	}
}

func TestAxisAlignedBoundingBox(t *testing.T) {
	p := buildCubeHover(t)
	box, err := p.AxisAlignedBoundingBox()
	if err != nil {
		t.Fatalf("AxisAlignedBoundingBox: %v", err)
	}
	closeEnough(t, "box.X.Max", box.X.Max, 5000, 10)
	closeEnough(t, "box.Z.Max", box.Z.Max, 10000, 10)
	closeEnough(t, "box.X.Min", box.X.Min, 0, 10)
}

// TestLongLinearSegmentSplit drives a single linear move longer than
// one encoded segment may carry, so Build has to split it; position
// must still be continuous across the split boundary.
func TestLongLinearSegmentSplit(t *testing.T) {
	b := NewBuilder(geom.Vector3WithYaw{}, 10, false)
	b.LinearTo(geom.Vector3WithYaw{Z: 100_000}, 100_000)
	buf, err := b.Build()
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	p, err := NewPlayer(buf)
	if err != nil {
		t.Fatalf("NewPlayer: %v", err)
	}

	total, err := p.TotalDurationMS()
	if err != nil {
		t.Fatalf("TotalDurationMS: %v", err)
	}
	if total != 100_000 {
		t.Fatalf("TotalDurationMS = %d, want 100000", total)
	}
	for _, tt := range []float64{10, 50, 65.535, 66, 90} {
		pos, err := p.PositionAt(tt)
		if err != nil {
			t.Fatalf("PositionAt(%v): %v", tt, err)
		}
		closeEnough(t, "split pos.Z", pos.Z, float32(tt*1000), 20)
	}
}

// TestBuildWithoutYawOmitsYawPoints round-trips a linear move through a
// builder whose yaw-used bit is clear; the decoder must land exactly on
// the encoded endpoints with no stream misalignment.
func TestBuildWithoutYawOmitsYawPoints(t *testing.T) {
	b := NewBuilder(geom.Vector3WithYaw{}, 10, false)
	b.LinearTo(geom.Vector3WithYaw{X: 1000, Z: 2000}, 1000)
	b.LinearTo(geom.Vector3WithYaw{X: 3000, Z: 2000}, 1000)
	buf, err := b.Build()
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	p, err := NewPlayer(buf)
	if err != nil {
		t.Fatalf("NewPlayer: %v", err)
	}
	pos, err := p.PositionAt(2)
	if err != nil {
		t.Fatalf("PositionAt(2): %v", err)
	}
	closeEnough(t, "pos(2).X", pos.X, 3000, 5)
	closeEnough(t, "pos(2).Z", pos.Z, 2000, 5)
}

func TestCutAtPreservesEndPose(t *testing.T) {
	p := buildCubeHover(t)
	poseAt12, err := p.PositionAt(12)
	if err != nil {
		t.Fatalf("PositionAt(12): %v", err)
	}
	cut, err := p.CutAt(12)
	if err != nil {
		t.Fatalf("CutAt(12): %v", err)
	}
	end, err := cut.EndPosition()
	if err != nil {
		t.Fatalf("EndPosition: %v", err)
	}
	closeEnough(t, "cut.EndPosition.X", end.X, poseAt12.X, 5)
	closeEnough(t, "cut.EndPosition.Z", end.Z, poseAt12.Z, 5)

	// Content before the cut is carried over byte-for-byte, so positions
	// there must match the original exactly, not just approximately.
	for _, tt := range []float64{0, 3, 7.5, 9.5} {
		want, err := p.PositionAt(tt)
		if err != nil {
			t.Fatalf("PositionAt(%v): %v", tt, err)
		}
		got, err := cut.PositionAt(tt)
		if err != nil {
			t.Fatalf("cut.PositionAt(%v): %v", tt, err)
		}
		if want != got {
			t.Errorf("pre-cut position at t=%v: original=%v cut=%v", tt, want, got)
		}
	}
}
