/*
NAME
  stats.go

DESCRIPTION
  stats.go implements the trajectory statistics helpers: the takeoff and
  landing time heuristics used by a host to decide when to arm and when
  to flare, kept in their own file so the allocation-free player stays
  easy to audit in isolation.

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

	"gonum.org/v1/gonum/stat"
)

// ProposeTakeoffTime finds the earliest time t* at which z exceeds
// minAscentMM, then proposes a launch instant t*-minAscent/speed so the
// craft reaches minAscent exactly at t* (possibly negative, meaning
// "launch before the trajectory's own start"). With non-zero accelMMPerS2
// it instead computes the minimum time to cover minAscentMM under a
// triangular-or-trapezoidal speed profile capped at takeoffSpeedMMPerS,
// and subtracts that from t*. Returns +Inf if the trajectory never
// reaches minAscentMM.
func (p *Player) ProposeTakeoffTime(minAscentMM, takeoffSpeedMMPerS, accelMMPerS2 float64) (float64, error) {
	tStar, found, err := p.firstTimeZExceeds(minAscentMM)
	if err != nil {
		return 0, err
	}
	if !found {
		return math.Inf(1), nil
	}

	if accelMMPerS2 <= 0 || takeoffSpeedMMPerS <= 0 {
		return tStar - minAscentMM/takeoffSpeedMMPerS, nil
	}

	// Time to reach the target speed from rest.
	tAccel := takeoffSpeedMMPerS / accelMMPerS2
	distAtMaxSpeed := 0.5 * accelMMPerS2 * tAccel * tAccel
	var ascentTime float64
	if distAtMaxSpeed >= minAscentMM {
		// Pure triangular profile: never reaches takeoffSpeedMMPerS.
		ascentTime = math.Sqrt(2 * minAscentMM / accelMMPerS2)
	} else {
		// Trapezoidal: accelerate, then cruise for the remainder.
		remaining := minAscentMM - distAtMaxSpeed
		ascentTime = tAccel + remaining/takeoffSpeedMMPerS
	}
	return tStar - ascentTime, nil
}

// firstTimeZExceeds scans segments in order and returns the earliest
// absolute time at which z first reaches or exceeds target, using
// Touches on each segment's u-domain z polynomial.
func (p *Player) firstTimeZExceeds(target float64) (float64, bool, error) {
	var result float64
	found := false
	err := p.walkSegments(func(s segment) {
		if found {
			return
		}
		lo := float64(s.startPos.z)
		hi := float64(s.endPos.z)
		if lo > target && hi > target {
			// Already above target for the whole segment: the touch
			// happened earlier or at the very start.
			if float64(s.startMS) == 0 && lo >= target {
				result = 0
				found = true
			}
			return
		}
		if lo < target && hi < target {
			return
		}
		u, ok, err := s.u.Z.Touches(target)
		if err != nil || !ok {
			return
		}
		result = float64(s.startMS)/1000 + u*float64(s.durMS)/1000
		found = true
	})
	return result, found, err
}

// ProposeLandingTime scans the trajectory backward from its end,
// accumulating descent over segments classified as "vertical" (their
// horizontal displacement stays within verticalityThresholdMM), until
// preferredDescentMM has been accounted for, and returns the wall-clock
// time at which that descent begins. If the trajectory is never
// vertical, it returns the last time before which horizontal motion
// stops (i.e. the start of the final stationary-in-XY tail).
func (p *Player) ProposeLandingTime(preferredDescentMM, verticalityThresholdMM float64) (float64, error) {
	var segs []segment
	err := p.walkSegments(func(s segment) { segs = append(segs, s) })
	if err != nil {
		return 0, err
	}
	if len(segs) == 0 {
		return 0, nil
	}

	accumulated := 0.0
	sawVertical := false
	for i := len(segs) - 1; i >= 0; i-- {
		s := segs[i]
		if horizontalDrift(s) > verticalityThresholdMM {
			if sawVertical {
				return float64(s.startMS+uint32(s.durMS)) / 1000, nil
			}
			continue
		}
		sawVertical = true
		descent := float64(s.startPos.z - s.endPos.z)
		if descent < 0 {
			descent = 0
		}
		accumulated += descent
		if accumulated >= preferredDescentMM {
			return float64(s.startMS) / 1000, nil
		}
	}

	if sawVertical {
		return 0, nil
	}

	// Never vertical: return the start of the final stationary-in-XY tail.
	last := segs[len(segs)-1]
	tailStartMS := last.startMS
	for i := len(segs) - 1; i >= 0; i-- {
		s := segs[i]
		if horizontalDrift(s) > verticalityThresholdMM {
			break
		}
		tailStartMS = s.startMS
	}
	return float64(tailStartMS) / 1000, nil
}

// driftSamples is how many points along a segment the verticality test
// samples its horizontal displacement at. Curved segments can wander
// off the vertical between their endpoints, so the endpoints alone are
// not enough.
const driftSamples = 8

// horizontalDrift returns the mean horizontal distance, over sampled
// points of the segment, from the segment's starting XY.
func horizontalDrift(s segment) float64 {
	x0 := float64(s.startPos.x)
	y0 := float64(s.startPos.y)
	var d [driftSamples]float64
	for i := range d {
		u := float64(i+1) / driftSamples
		d[i] = math.Hypot(s.u.X.Eval(u)-x0, s.u.Y.Eval(u)-y0)
	}
	return stat.Mean(d[:], nil)
}
