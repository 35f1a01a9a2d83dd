/*
NAME
  showcontrol.go

DESCRIPTION
  showcontrol.go implements the show controller: given a screenplay and
  a wall-clock millisecond, it selects the active scene, maps time
  through the scene's time axis, dispatches to the four per-scene
  players, and packages the merged control output.

AUTHOR
  Mara Voss <mara@windlass.aero>

LICENSE
  Copyright (C) 2026 Windlass Aero. All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of Windlass Aero.
*/

// Package showcontrol implements the show controller: the top-level
// sequencer that walks the screenplay at a host-driven cadence, merging
// the trajectory, yaw, light and event streams into one ControlOutput
// per call.
package showcontrol

import (
	"math"

	"github.com/ausocean/utils/logging"

	"github.com/windlass-aero/skyplay/events"
	"github.com/windlass-aero/skyplay/geom"
	"github.com/windlass-aero/skyplay/rgb"
	"github.com/windlass-aero/skyplay/screenplay"
)

// OutputMask is a bitfield over which ControlOutput fields are valid.
type OutputMask uint8

const (
	MaskPosition OutputMask = 1 << iota
	MaskVelocity
	MaskLights
	MaskYaw
	MaskYawRate
)

// ControlOutput is the show controller's merged per-tick result.
type ControlOutput struct {
	Mask     OutputMask
	Position geom.Vector3WithYaw // Yaw slot carries yaw in degrees.
	Velocity geom.Vector3WithYaw // Yaw slot carries yaw-rate in deg/s.
	Color    rgb.Color
}

// invalidTimeMS is the ControlOutputTime.TimeMS sentinel meaning "not
// valid", forcing recomputation on the next update.
const invalidTimeMS uint32 = math.MaxUint32

// ControlOutputTime is the cached context of the last computed output.
type ControlOutputTime struct {
	TimeMS               uint32
	SceneIndex           int
	TimeInSceneMS        uint32
	WarpedTimeInSceneSec float64
}

// Controller is the L4 show controller.
type Controller struct {
	play *screenplay.Screenplay

	activeScene *screenplay.Scene
	events      *events.Player

	defaultOutput ControlOutput
	output        ControlOutput
	outputTime    ControlOutputTime
	pyroMask      uint8

	log logging.Logger
}

// NewController returns a Controller over play, with its output
// invalidated so the first UpdateTimeMsec call always recomputes.
func NewController(play *screenplay.Screenplay) *Controller {
	c := &Controller{play: play}
	c.InvalidateOutput()
	return c
}

// SetLogger attaches an optional diagnostics logger. The controller
// logs scene transitions and downstream evaluation failures only; the
// steady-state per-tick path never logs.
func (c *Controller) SetLogger(l logging.Logger) { c.log = l }

// InvalidateOutput resets Output to the zero-velocity default and
// forces the next UpdateTimeMsec call to recompute.
func (c *Controller) InvalidateOutput() {
	c.output = c.defaultOutput
	c.outputTime.TimeMS = invalidTimeMS
}

// Output returns the most recently computed control output.
func (c *Controller) Output() ControlOutput { return c.output }

// PyroMask returns the active scene's light-program pyro-channel mask
// as of the last UpdateTimeMsec call. It rides alongside, but is not
// part of, ControlOutput; a host wanting pyro-channel output reads it
// separately, e.g. to drive the pyro package's GPIO adapter. Zero when
// no scene (or no light program) is active.
func (c *Controller) PyroMask() uint8 { return c.pyroMask }

// OutputTime returns the cached context of the most recent output.
func (c *Controller) OutputTime() ControlOutputTime { return c.outputTime }

// UpdateTimeMsec advances (or rewinds) the controller to wallMS,
// recomputing the merged output unless wallMS matches the cached
// output time.
func (c *Controller) UpdateTimeMsec(wallMS uint32) error {
	if c.outputTime.TimeMS == wallMS {
		return nil
	}

	c.output = ControlOutput{}
	c.pyroMask = 0

	scene, idx, timeInSceneMS := c.play.GetScenePtrAtTimeMsec(wallMS)
	if scene == nil {
		if c.activeScene != nil && c.log != nil {
			c.log.Debug("show left its final scene", "wall_ms", int(wallMS))
		}
		c.output = c.defaultOutput
		c.activeScene = nil
		c.events = nil
		c.outputTime = ControlOutputTime{TimeMS: wallMS, SceneIndex: -1}
		return nil
	}

	if scene != c.activeScene {
		if c.log != nil {
			c.log.Debug("show scene changed", "scene", idx, "wall_ms", int(wallMS))
		}
		c.activeScene = scene
		if scene.Events != nil {
			c.events = events.NewPlayer(scene.Events)
		} else {
			c.events = nil
		}
	}

	warpedSec, rate, err := scene.Axis.MapEx(timeInSceneMS)
	if err != nil {
		return c.fail("time axis", wallMS, err)
	}

	if scene.Trajectory != nil {
		pos, err := scene.Trajectory.PositionAt(warpedSec)
		if err != nil {
			return c.fail("trajectory position", wallMS, err)
		}
		vel, err := scene.Trajectory.VelocityAt(warpedSec)
		if err != nil {
			return c.fail("trajectory velocity", wallMS, err)
		}
		c.output.Position.X, c.output.Position.Y, c.output.Position.Z = pos.X, pos.Y, pos.Z
		c.output.Velocity.X = vel.X * rate
		c.output.Velocity.Y = vel.Y * rate
		c.output.Velocity.Z = vel.Z * rate
		c.output.Mask |= MaskPosition | MaskVelocity
	}

	if scene.Light != nil {
		ms := int64(warpedSec * 1000)
		if ms < 0 {
			ms = 0
		}
		const maxLightMS = 86_400_000
		if ms > maxLightMS {
			ms = maxLightMS
		}
		col, pyroMask, err := scene.Light.At(ms)
		if err != nil {
			return c.fail("light program", wallMS, err)
		}
		c.output.Color = col
		c.output.Mask |= MaskLights
		c.pyroMask = pyroMask
	}

	if scene.Yaw != nil {
		yawDeg, err := scene.Yaw.YawAt(warpedSec)
		if err != nil {
			return c.fail("yaw", wallMS, err)
		}
		rateDeg, err := scene.Yaw.YawRateAt(warpedSec)
		if err != nil {
			return c.fail("yaw rate", wallMS, err)
		}
		c.output.Position.Yaw = yawDeg
		c.output.Velocity.Yaw = rateDeg * rate
		c.output.Mask |= MaskYaw | MaskYawRate
	}

	c.outputTime = ControlOutputTime{
		TimeMS:               wallMS,
		SceneIndex:           idx,
		TimeInSceneMS:        timeInSceneMS,
		WarpedTimeInSceneSec: warpedSec,
	}
	return nil
}

// fail reports a downstream evaluation failure to the diagnostics
// logger, invalidates the cached output and passes err back to the
// caller.
func (c *Controller) fail(stage string, wallMS uint32, err error) error {
	if c.log != nil {
		c.log.Warning("show evaluation failed", "stage", stage, "wall_ms", int(wallMS), "error", err.Error())
	}
	c.InvalidateOutput()
	return err
}

// GetNextEvent drains and returns the next event due at the cached
// warped time, or ok=false if none is due or no scene has an event
// list attached.
func (c *Controller) GetNextEvent() (ev events.Event, ok bool) {
	if c.events == nil {
		return events.Event{}, false
	}
	return c.events.NextEventNotLaterThan(c.outputTime.WarpedTimeInSceneSec)
}
