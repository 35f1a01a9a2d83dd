/*
NAME
  rth.go

DESCRIPTION
  rth.go implements the return-to-home plan evaluator: a sorted list of
  abort-time entries referencing a shared table of XY reference points,
  plus synthesis of a one-shot trajectory from whichever entry governs a
  given abort time.

AUTHOR
  Mara Voss <mara@windlass.aero>

LICENSE
  Copyright (C) 2026 Windlass Aero. All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of Windlass Aero.
*/

// Package rth implements the return-to-home plan evaluator: given an
// abort time, find the entry in effect and synthesize a one-shot
// trajectory from the craft's current pose.
package rth

import (
	"sort"

	"github.com/windlass-aero/skyplay/buffer"
	"github.com/windlass-aero/skyplay/geom"
	"github.com/windlass-aero/skyplay/trajectory"
	"github.com/windlass-aero/skyplay/xerr"
)

// Action identifies an RTH entry's kind.
type Action int

const (
	ActionLand Action = iota
	ActionGoToKeepingAltitude
	ActionGoToWithAltitude
)

// Point is a reference location, XY in millimeters.
type Point struct {
	X, Y float32
}

// Entry is one scheduled RTH action.
type Entry struct {
	TimeSec uint16
	Action  Action

	Target Point // GO_TO_KEEPING_ALTITUDE, GO_TO_WITH_ALTITUDE

	TargetAltitudeMM   float32 // GO_TO_WITH_ALTITUDE
	PreNeckPresent     bool
	PreNeckMM          float32
	PreNeckDurationSec uint16

	PreDelaySec  uint16
	PostDelaySec uint16
	DurationSec  uint16
}

// Plan is a parsed RTH plan: the shared point table plus the sorted
// entry list.
type Plan struct {
	points  []Point
	entries []Entry
}

// NewPlan parses an RTH-plan block body: a reserved byte, a u16 point
// count and that many (i16,i16) mm pairs, then a u16 entry count and
// that many entries.
func NewPlan(buf *buffer.Buffer) (*Plan, error) {
	c := buffer.NewCursor(buf)
	if _, err := c.ReadByte(); err != nil { // reserved
		return nil, xerr.EREAD
	}
	pointCount, err := c.ReadU16()
	if err != nil {
		return nil, xerr.EREAD
	}
	points := make([]Point, 0, pointCount)
	for i := 0; i < int(pointCount); i++ {
		x, err := c.ReadI16()
		if err != nil {
			return nil, xerr.EREAD
		}
		y, err := c.ReadI16()
		if err != nil {
			return nil, xerr.EREAD
		}
		points = append(points, Point{X: float32(x), Y: float32(y)})
	}

	entryCount, err := c.ReadU16()
	if err != nil {
		return nil, xerr.EREAD
	}
	entries := make([]Entry, 0, entryCount)
	for i := 0; i < int(entryCount); i++ {
		e, err := decodeEntry(c, points)
		if err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	if !sort.SliceIsSorted(entries, func(i, j int) bool { return entries[i].TimeSec < entries[j].TimeSec }) {
		return nil, xerr.EPARSE
	}

	return &Plan{points: points, entries: entries}, nil
}

func decodeEntry(c *buffer.Cursor, points []Point) (Entry, error) {
	timeSec, err := c.ReadU16()
	if err != nil {
		return Entry{}, xerr.EREAD
	}
	actionByte, err := c.ReadByte()
	if err != nil {
		return Entry{}, xerr.EREAD
	}

	switch actionByte {
	case 0:
		return Entry{TimeSec: timeSec, Action: ActionLand}, nil

	case 1:
		target, err := readPointRef(c, points)
		if err != nil {
			return Entry{}, err
		}
		preDelay, postDelay, duration, err := readDelaysAndDuration(c)
		if err != nil {
			return Entry{}, err
		}
		return Entry{
			TimeSec: timeSec, Action: ActionGoToKeepingAltitude, Target: target,
			PreDelaySec: preDelay, PostDelaySec: postDelay, DurationSec: duration,
		}, nil

	case 2:
		target, err := readPointRef(c, points)
		if err != nil {
			return Entry{}, err
		}
		altRaw, err := c.ReadI16()
		if err != nil {
			return Entry{}, xerr.EREAD
		}
		presence, err := c.ReadByte()
		if err != nil {
			return Entry{}, xerr.EREAD
		}
		e := Entry{
			TimeSec: timeSec, Action: ActionGoToWithAltitude, Target: target,
			TargetAltitudeMM: float32(altRaw),
		}
		if presence&1 != 0 {
			e.PreNeckPresent = true
			neckRaw, err := c.ReadI16()
			if err != nil {
				return Entry{}, xerr.EREAD
			}
			neckDur, err := c.ReadU16()
			if err != nil {
				return Entry{}, xerr.EREAD
			}
			e.PreNeckMM = float32(neckRaw)
			e.PreNeckDurationSec = neckDur
		}
		preDelay, postDelay, duration, err := readDelaysAndDuration(c)
		if err != nil {
			return Entry{}, err
		}
		e.PreDelaySec, e.PostDelaySec, e.DurationSec = preDelay, postDelay, duration
		return e, nil

	default:
		return Entry{}, xerr.EPARSE
	}
}

func readPointRef(c *buffer.Cursor, points []Point) (Point, error) {
	idx, err := c.ReadU16()
	if err != nil {
		return Point{}, xerr.EREAD
	}
	if int(idx) >= len(points) {
		return Point{}, xerr.EPARSE
	}
	return points[idx], nil
}

func readDelaysAndDuration(c *buffer.Cursor) (preDelay, postDelay, duration uint16, err error) {
	preDelay, err = c.ReadU16()
	if err != nil {
		return 0, 0, 0, xerr.EREAD
	}
	postDelay, err = c.ReadU16()
	if err != nil {
		return 0, 0, 0, xerr.EREAD
	}
	duration, err = c.ReadU16()
	if err != nil {
		return 0, 0, 0, xerr.EREAD
	}
	sum := uint32(preDelay) + uint32(postDelay) + uint32(duration)
	if sum > 0xFFFF {
		return 0, 0, 0, xerr.EOVERFLOW
	}
	return preDelay, postDelay, duration, nil
}

// EvaluateAt returns the entry in effect for an abort at tSec: the most
// recent entry whose TimeSec is ≤ tSec, found by binary search. Aborts
// before the first entry clamp to it; only an empty plan yields a
// synthetic LAND at tSec.
func (p *Plan) EvaluateAt(tSec float64) (Entry, error) {
	if len(p.entries) == 0 {
		t := uint16(0)
		if tSec > 0 {
			if tSec > 65535 {
				t = 65535
			} else {
				t = uint16(tSec)
			}
		}
		return Entry{TimeSec: t, Action: ActionLand}, nil
	}
	i := sort.Search(len(p.entries), func(i int) bool { return float64(p.entries[i].TimeSec) > tSec })
	if i == 0 {
		return p.entries[0], nil
	}
	return p.entries[i-1], nil
}

// InitTrajectoryFromEntry synthesizes a one-shot trajectory for entry,
// starting at startPose.
func InitTrajectoryFromEntry(entry Entry, startPose geom.Vector3WithYaw) (*buffer.Buffer, error) {
	b := trajectory.NewBuilder(startPose, 10, true)

	switch entry.Action {
	case ActionLand:
		b.Hold(0)

	case ActionGoToKeepingAltitude:
		holdMS := uint32(entry.TimeSec) * 1000
		holdMS += uint32(entry.PreDelaySec) * 1000
		if holdMS > 0 {
			b.Hold(holdMS)
		}
		target := geom.Vector3WithYaw{X: entry.Target.X, Y: entry.Target.Y, Z: startPose.Z, Yaw: startPose.Yaw}
		b.LinearTo(target, uint32(entry.DurationSec)*1000)
		if entry.PostDelaySec > 0 {
			b.Hold(uint32(entry.PostDelaySec) * 1000)
		}

	case ActionGoToWithAltitude:
		if entry.PreNeckPresent && entry.PreNeckDurationSec > 0 {
			necked := startPose
			necked.Z += entry.PreNeckMM
			b.LinearTo(necked, uint32(entry.PreNeckDurationSec)*1000)
		}
		if entry.PreDelaySec > 0 {
			b.Hold(uint32(entry.PreDelaySec) * 1000)
		}
		target := geom.Vector3WithYaw{
			X: entry.Target.X, Y: entry.Target.Y, Z: entry.TargetAltitudeMM, Yaw: startPose.Yaw,
		}
		b.LinearTo(target, uint32(entry.DurationSec)*1000)
		if entry.PostDelaySec > 0 {
			b.Hold(uint32(entry.PostDelaySec) * 1000)
		}

	default:
		return nil, xerr.EPARSE
	}

	return b.Build()
}
