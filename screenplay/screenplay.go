/*
NAME
  screenplay.go

DESCRIPTION
  screenplay.go implements the scene and screenplay types: a scene owns
  a duration, a time axis, and up to four optional inner players; a
  screenplay is an ordered list of scenes plus an optional RTH plan.

AUTHOR
  Mara Voss <mara@windlass.aero>

LICENSE
  Copyright (C) 2026 Windlass Aero. All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of Windlass Aero.
*/

// Package screenplay implements the scene and screenplay types: a
// scene bundles a duration, a time axis, and its four optional inner
// players, and a screenplay sequences scenes plus an optional RTH plan.
// Inner objects are owned by plain Go pointers; the garbage collector
// provides the release-on-last-owner lifetime, so no intrusive refcount
// is implemented.
package screenplay

import (
	"math"

	"github.com/windlass-aero/skyplay/buffer"
	"github.com/windlass-aero/skyplay/events"
	"github.com/windlass-aero/skyplay/light"
	"github.com/windlass-aero/skyplay/rth"
	"github.com/windlass-aero/skyplay/skyfile"
	"github.com/windlass-aero/skyplay/timeaxis"
	"github.com/windlass-aero/skyplay/trajectory"
	"github.com/windlass-aero/skyplay/xerr"
	"github.com/windlass-aero/skyplay/yaw"
)

// InfiniteMS marks a scene's duration as unbounded.
const InfiniteMS uint32 = math.MaxUint32

// Scene owns a duration, a time axis, and its (optional) trajectory,
// light program, yaw control and event list.
type Scene struct {
	DurationMS uint32
	Axis       *timeaxis.Axis

	Trajectory *trajectory.Player
	Light      *light.VM
	Yaw        *yaw.Player
	Events     *events.List
}

// NewScene returns an empty scene with an infinite duration and an
// identity (origin-0, no segments) time axis.
func NewScene() *Scene {
	return &Scene{DurationMS: InfiniteMS, Axis: timeaxis.NewAxis(0)}
}

// IsInfinite reports whether the scene's duration is unbounded.
func (s *Scene) IsInfinite() bool { return s.DurationMS == InfiniteMS }

// Reset clears the scene back to NewScene's state, releasing all four
// inner references (here: dropping the pointers, letting the garbage
// collector reclaim them once nothing else retains them).
func (s *Scene) Reset() {
	s.DurationMS = InfiniteMS
	s.Axis = timeaxis.NewAxis(0)
	s.Trajectory = nil
	s.Light = nil
	s.Yaw = nil
	s.Events = nil
}

// UpdateFromBinaryFileInMemory parses a skyb file and attaches
// whatever trajectory, light-program, yaw-control and event-list
// blocks it contains to the scene. An RTH-plan block, if present, is
// returned rather than attached: the plan belongs to the screenplay,
// not to any one scene. Any parse error reverts the scene to its state
// before the call.
func (s *Scene) UpdateFromBinaryFileInMemory(data []byte) (*rth.Plan, error) {
	before := *s
	plan, err := s.tryUpdateFromBinaryFileInMemory(data)
	if err != nil {
		*s = before
		return nil, err
	}
	return plan, nil
}

func (s *Scene) tryUpdateFromBinaryFileInMemory(data []byte) (*rth.Plan, error) {
	buf := buffer.NewView(data)
	_, br, err := skyfile.ParseHeader(buf)
	if err != nil {
		return nil, err
	}

	var plan *rth.Plan
	for br.IsCurrentBlockValid() {
		body := br.CurrentBody()
		switch br.CurrentTag() {
		case skyfile.TagTrajectory:
			p, err := trajectory.NewPlayer(buffer.NewOwned(append([]byte(nil), body...)))
			if err != nil {
				return nil, err
			}
			s.Trajectory = p

		case skyfile.TagLightProgram:
			s.Light = light.NewVM(buffer.NewOwned(append([]byte(nil), body...)))

		case skyfile.TagYawControl:
			p, err := yaw.NewPlayer(buffer.NewOwned(append([]byte(nil), body...)))
			if err != nil {
				return nil, err
			}
			s.Yaw = p

		case skyfile.TagEventList:
			// Event-list blocks are a flat run of 10-byte (time_ms, type,
			// subtype, payload) records; decode directly into a List.
			list, err := decodeEventListBlock(body)
			if err != nil {
				return nil, err
			}
			s.Events = list

		case skyfile.TagRTHPlan:
			p, err := rth.NewPlan(buffer.NewOwned(append([]byte(nil), body...)))
			if err != nil {
				return nil, err
			}
			plan = p

		case skyfile.TagComment:
			// Opaque; ignored.
		}

		if err := br.NextBlock(); err != nil {
			return nil, err
		}
	}
	return plan, nil
}

// eventRecordSize is this implementation's event-list block record
// layout: u32 time_ms, u8 type, u8 subtype, u32 payload.
const eventRecordSize = 10

func decodeEventListBlock(body []byte) (*events.List, error) {
	if len(body)%eventRecordSize != 0 {
		return nil, xerr.EPARSE
	}
	c := buffer.NewCursor(buffer.NewView(body))
	list := events.NewList()
	for c.Remaining() > 0 {
		timeMS, err := c.ReadU32()
		if err != nil {
			return nil, xerr.EREAD
		}
		typ, err := c.ReadByte()
		if err != nil {
			return nil, xerr.EREAD
		}
		subtype, err := c.ReadByte()
		if err != nil {
			return nil, xerr.EREAD
		}
		payload, err := c.ReadU32()
		if err != nil {
			return nil, xerr.EREAD
		}
		if err := list.Append(events.Event{TimeMS: timeMS, Type: typ, Subtype: subtype, Payload: payload}); err != nil {
			return nil, err
		}
	}
	return list, nil
}

// Screenplay is an ordered list of scenes plus an optional RTH plan.
type Screenplay struct {
	scenes []*Scene
	RTH    *rth.Plan
}

// NewScreenplay returns an empty screenplay.
func NewScreenplay() *Screenplay {
	return &Screenplay{}
}

// LoadFile parses a whole skyb file into a single-scene, realtime
// screenplay: one infinite scene carrying whatever trajectory,
// light-program, yaw-control and event-list blocks the file contains,
// with an identity (rate-1, unsegmented) time axis, and the file's
// RTH-plan block (if any) attached to the screenplay itself.
func LoadFile(data []byte) (*Screenplay, error) {
	sp := NewScreenplay()
	sc := sp.AppendNewScene()
	plan, err := sc.UpdateFromBinaryFileInMemory(data)
	if err != nil {
		sp.Clear()
		return nil, err
	}
	sp.RTH = plan
	return sp, nil
}

// Size returns the number of scenes.
func (sp *Screenplay) Size() int { return len(sp.scenes) }

// Capacity returns how many scenes the screenplay can hold before its
// backing storage grows again.
func (sp *Screenplay) Capacity() int { return cap(sp.scenes) }

// IsEmpty reports whether the screenplay has no scenes.
func (sp *Screenplay) IsEmpty() bool { return len(sp.scenes) == 0 }

// AppendNewScene appends a fresh scene and returns it.
func (sp *Screenplay) AppendNewScene() *Scene {
	sc := NewScene()
	sp.scenes = append(sp.scenes, sc)
	return sc
}

// RemoveLastScene drops the final scene, if any.
func (sp *Screenplay) RemoveLastScene() {
	if len(sp.scenes) == 0 {
		return
	}
	sp.scenes = sp.scenes[:len(sp.scenes)-1]
}

// Clear removes every scene and the RTH plan.
func (sp *Screenplay) Clear() {
	sp.scenes = nil
	sp.RTH = nil
}

// GetScenePtr returns the i'th scene, or nil if i is out of range.
func (sp *Screenplay) GetScenePtr(i int) *Scene {
	if i < 0 || i >= len(sp.scenes) {
		return nil
	}
	return sp.scenes[i]
}

// GetScenePtrAtTimeMsec finds the scene covering timeMS: scene
// durations are subtracted from timeMS in order until the first scene
// whose remaining time is strictly less than its own duration, which
// wins. An infinite scene terminates the scan and matches
// unconditionally. If timeMS runs past every finite scene with no
// infinite scene following, it returns (nil, -1, 0).
func (sp *Screenplay) GetScenePtrAtTimeMsec(timeMS uint32) (*Scene, int, uint32) {
	remaining := timeMS
	for i, sc := range sp.scenes {
		if sc.IsInfinite() {
			return sc, i, remaining
		}
		if remaining < sc.DurationMS {
			return sc, i, remaining
		}
		remaining -= sc.DurationMS
	}
	return nil, -1, 0
}
