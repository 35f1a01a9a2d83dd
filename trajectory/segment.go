/*
NAME
  segment.go

DESCRIPTION
  segment.go decodes one encoded trajectory segment: its per-axis kind
  byte, 16-bit duration, and per-axis control points, producing the
  cached 4-D polynomial (x,y,z,yaw) a Player evaluates against the local
  parameter u = (t-start)/duration.

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
	"github.com/windlass-aero/skyplay/buffer"
	"github.com/windlass-aero/skyplay/poly"
	"github.com/windlass-aero/skyplay/xerr"
)

// Kind is the per-axis segment shape.
type Kind uint8

// The four segment kinds, packed 2 bits per axis in the segment header
// byte (x in bits 0-1, y in 2-3, z in 4-5, yaw in 6-7).
const (
	Constant Kind = iota
	Linear
	QuadraticBezier
	CubicBezier
)

// numControlPoints returns how many intermediate control points (beyond
// the implicit starting point) a segment of this kind carries.
func (k Kind) numControlPoints() int {
	switch k {
	case Constant:
		return 0
	case Linear:
		return 1
	case QuadraticBezier:
		return 2
	case CubicBezier:
		return 3
	default:
		return 0
	}
}

// Poly4D is the decoded position (or yaw) polynomial for each of the four
// axes, each parameterized over elapsed seconds within the segment (the
// Poly returned by poly.FromBezier is already stretched by duration).
type Poly4D struct {
	X, Y, Z, Yaw poly.Poly
}

// segment is one decoded trajectory segment: its local time span and its
// cached per-axis polynomials. p is parameterized over elapsed seconds
// (used for position/velocity/acceleration queries); u is the same curve
// parameterized over the Bezier parameter u in [0,1] (used by Touches and
// Extrema, both of which operate over a [0,1] domain).
type segment struct {
	startMS  uint32
	durMS    uint16
	startPos geom4
	endPos   geom4
	p        Poly4D
	u        Poly4D
}

// geom4 is the raw start/end pose of a segment in player-internal units
// (millimeters, degrees).
type geom4 struct {
	x, y, z, yaw float32
}

// decodeSegment reads one segment starting at the cursor's current
// position, given the running start pose, axis scale and whether yaw
// segments are present. It returns the decoded segment and leaves the
// cursor positioned at the next segment's header byte.
func decodeSegment(c *buffer.Cursor, start geom4, scale uint8, yawUsed bool) (segment, error) {
	kindByte, err := c.ReadByte()
	if err != nil {
		return segment{}, xerr.EREAD
	}
	kinds := [4]Kind{
		Kind(kindByte & 0x3),
		Kind((kindByte >> 2) & 0x3),
		Kind((kindByte >> 4) & 0x3),
		Kind((kindByte >> 6) & 0x3),
	}

	durMS, err := c.ReadU16()
	if err != nil {
		return segment{}, xerr.EREAD
	}

	var end geom4
	var p, u Poly4D

	readAxis := func(k Kind, startVal float32, isYaw bool) (seconds, unit poly.Poly, endVal float32, err error) {
		n := k.numControlPoints()
		var ptsArr [4]float64
		pts := ptsArr[:n+1]
		pts[0] = float64(startVal)
		for i := 1; i <= n; i++ {
			raw, err := c.ReadI16()
			if err != nil {
				return poly.Poly{}, poly.Poly{}, 0, xerr.EREAD
			}
			var v float32
			if isYaw {
				v = float32(raw) / 10
			} else {
				v = buffer.ScaledCoord(raw, scale)
			}
			pts[i] = float64(v)
		}
		endVal = startVal
		if n > 0 {
			endVal = float32(pts[n])
		}
		durSec := float64(durMS) / 1000
		unit = poly.FromBezier(0, pts...) // parameterized over u in [0,1].
		seconds = poly.FromBezier(durSec, pts...)
		return seconds, unit, endVal, nil
	}

	var err2 error
	p.X, u.X, end.x, err2 = readAxis(kinds[0], start.x, false)
	if err2 != nil {
		return segment{}, err2
	}
	p.Y, u.Y, end.y, err2 = readAxis(kinds[1], start.y, false)
	if err2 != nil {
		return segment{}, err2
	}
	p.Z, u.Z, end.z, err2 = readAxis(kinds[2], start.z, false)
	if err2 != nil {
		return segment{}, err2
	}
	if yawUsed {
		p.Yaw, u.Yaw, end.yaw, err2 = readAxis(kinds[3], start.yaw, true)
		if err2 != nil {
			return segment{}, err2
		}
	} else {
		end.yaw = start.yaw
		p.Yaw = poly.New(float64(start.yaw))
		u.Yaw = poly.New(float64(start.yaw))
	}

	return segment{
		durMS:    durMS,
		startPos: start,
		endPos:   end,
		p:        p,
		u:        u,
	}, nil
}

// containsLocal reports whether local time tSec (relative to the
// segment's own start) lies within [0, duration].
func (s segment) containsLocal(tSec float64) bool {
	if s.durMS == 0 {
		return tSec == 0
	}
	return tSec >= 0 && tSec <= float64(s.durMS)/1000
}

// positionAtLocal evaluates the segment's position at local time tSec.
func (s segment) positionAtLocal(tSec float64) geom4 {
	return geom4{
		x:   float32(s.p.X.Eval(tSec)),
		y:   float32(s.p.Y.Eval(tSec)),
		z:   float32(s.p.Z.Eval(tSec)),
		yaw: float32(s.p.Yaw.Eval(tSec)),
	}
}

// velocityAtLocal evaluates the segment's velocity (derivative of
// position w.r.t. elapsed seconds) at local time tSec.
func (s segment) velocityAtLocal(tSec float64) geom4 {
	return geom4{
		x:   float32(s.p.X.Derivative().Eval(tSec)),
		y:   float32(s.p.Y.Derivative().Eval(tSec)),
		z:   float32(s.p.Z.Derivative().Eval(tSec)),
		yaw: float32(s.p.Yaw.Derivative().Eval(tSec)),
	}
}

// accelerationAtLocal evaluates the segment's acceleration (second
// derivative of position) at local time tSec.
func (s segment) accelerationAtLocal(tSec float64) geom4 {
	return geom4{
		x: float32(s.p.X.Derivative().Derivative().Eval(tSec)),
		y: float32(s.p.Y.Derivative().Derivative().Eval(tSec)),
		z: float32(s.p.Z.Derivative().Derivative().Eval(tSec)),
	}
}
