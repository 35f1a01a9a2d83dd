/*
NAME
  timeaxis.go

DESCRIPTION
  timeaxis.go implements the time axis: a piecewise wall-clock-to-
  warped-time map built from segments that each hold a duration and a
  linearly-varying rate, plus an origin before which time passes
  through unmodified.

AUTHOR
  Mara Voss <mara@windlass.aero>

LICENSE
  Copyright (C) 2026 Windlass Aero. All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of Windlass Aero.
*/

// Package timeaxis implements the wall-clock-to-warped-time map: an
// origin plus a sequence of segments, each a wall-clock duration in
// milliseconds and a (initial rate, final rate) linear ramp.
// math.MaxUint32 as a segment's duration means "infinite".
package timeaxis

import (
	"math"

	"github.com/windlass-aero/skyplay/xerr"
)

// InfiniteMS marks a segment's duration as unbounded.
const InfiniteMS uint32 = math.MaxUint32

// Segment is one piece of the piecewise rate ramp.
type Segment struct {
	DurationMS             uint32
	InitialRate, FinalRate float32
}

// Axis is the full piecewise map, an origin plus ordered segments.
type Axis struct {
	OriginMS uint32
	segments []Segment
}

// NewAxis returns an Axis with the given origin and no segments.
func NewAxis(originMS uint32) *Axis {
	return &Axis{OriginMS: originMS}
}

// AddSegment appends seg, validating its rates. NaN or negative rates
// are rejected with EINVAL and the axis is left unchanged.
func (a *Axis) AddSegment(seg Segment) error {
	if isInvalidRate(seg.InitialRate) || isInvalidRate(seg.FinalRate) {
		return xerr.EINVAL
	}
	a.segments = append(a.segments, seg)
	return nil
}

func isInvalidRate(r float32) bool {
	return math.IsNaN(float64(r)) || r < 0
}

// Map returns the warped-time in seconds corresponding to wallMS.
func (a *Axis) Map(wallMS uint32) (float64, error) {
	warped, _, err := a.MapEx(wallMS)
	return warped, err
}

// MapEx returns both the warped time in seconds and the instantaneous
// rate at wallMS.
func (a *Axis) MapEx(wallMS uint32) (warpedSec float64, rate float32, err error) {
	if wallMS < a.OriginMS {
		// Before the origin: time passes through unmodified (rate 1).
		return -float64(a.OriginMS-wallMS) / 1000, 1, nil
	}
	relMS := wallMS - a.OriginMS

	var warped float64
	for i, seg := range a.segments {
		last := i == len(a.segments)-1

		if seg.DurationMS == InfiniteMS {
			// Infinite last segment: constant at InitialRate forever.
			elapsedSec := float64(relMS) / 1000
			return warped + elapsedSec*float64(seg.InitialRate), seg.InitialRate, nil
		}

		if relMS <= seg.DurationMS {
			return a.evalWithinSegment(warped, seg, relMS)
		}

		warped += segmentWarpedTotal(seg)
		relMS -= seg.DurationMS

		if last {
			// Past the final finite segment: extrapolate at FinalRate.
			extraSec := float64(relMS) / 1000
			return warped + extraSec*float64(seg.FinalRate), seg.FinalRate, nil
		}
	}

	// No segments at all: time passes through unmodified.
	return float64(relMS) / 1000, 1, nil
}

func (a *Axis) evalWithinSegment(warpedSoFar float64, seg Segment, relMS uint32) (float64, float32, error) {
	if seg.DurationMS == 0 {
		return warpedSoFar, (seg.InitialRate + seg.FinalRate) / 2, nil
	}
	u := float64(relMS) / float64(seg.DurationMS)
	dSec := float64(seg.DurationMS) / 1000
	r0, r1 := float64(seg.InitialRate), float64(seg.FinalRate)

	if r0 == r1 {
		return warpedSoFar + u*dSec*r0, float32(r0), nil
	}
	warpedIn := (r0 + (r1-r0)*u/2) * u * dSec
	rate := r0 + (r1-r0)*u
	return warpedSoFar + warpedIn, float32(rate), nil
}

// segmentWarpedTotal returns the warped seconds a fully-elapsed finite
// segment contributes.
func segmentWarpedTotal(seg Segment) float64 {
	dSec := float64(seg.DurationMS) / 1000
	if dSec == 0 {
		return 0
	}
	return (float64(seg.InitialRate) + float64(seg.FinalRate)) / 2 * dSec
}
