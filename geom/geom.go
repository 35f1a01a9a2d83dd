/*
NAME
  geom.go

DESCRIPTION
  geom.go defines the shared spatial value types used across the
  playback engine: the 4-D pose (position + yaw), scalar intervals, and
  axis-aligned bounding boxes.

AUTHOR
  Mara Voss <mara@windlass.aero>

LICENSE
  Copyright (C) 2026 Windlass Aero. All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of Windlass Aero.
*/

// Package geom defines the spatial value types shared by the trajectory,
// yaw and RTH players: Vector3WithYaw, Interval and AxisAlignedBox.
package geom

import "math"

// Vector3WithYaw is an (x,y,z,yaw) pose. Positions are in millimeters;
// Yaw is in degrees. A velocity value reuses the same type with its Yaw
// slot carrying yaw-rate in degrees/second.
type Vector3WithYaw struct {
	X, Y, Z float32
	Yaw     float32
}

// Zero is the zero pose/velocity.
var Zero = Vector3WithYaw{}

// Interval is a closed numeric range [Min,Max].
type Interval struct {
	Min, Max float32
}

// Contains reports whether v lies within the interval (inclusive).
func (iv Interval) Contains(v float32) bool {
	return v >= iv.Min && v <= iv.Max
}

// Union returns the smallest interval containing both iv and other.
func (iv Interval) Union(other Interval) Interval {
	return Interval{
		Min: float32(math.Min(float64(iv.Min), float64(other.Min))),
		Max: float32(math.Max(float64(iv.Max), float64(other.Max))),
	}
}

// Expand returns the smallest interval containing iv and v.
func (iv Interval) Expand(v float32) Interval {
	return iv.Union(Interval{Min: v, Max: v})
}

// EmptyInterval returns an interval that Expand will immediately replace,
// used as the starting accumulator for a bounding-box scan.
func EmptyInterval() Interval {
	return Interval{Min: float32(math.Inf(1)), Max: float32(math.Inf(-1))}
}

// AxisAlignedBox is the bounding box of a trajectory's x, y and z extents.
type AxisAlignedBox struct {
	X, Y, Z Interval
}

// Union returns the smallest box containing both b and other.
func (b AxisAlignedBox) Union(other AxisAlignedBox) AxisAlignedBox {
	return AxisAlignedBox{
		X: b.X.Union(other.X),
		Y: b.Y.Union(other.Y),
		Z: b.Z.Union(other.Z),
	}
}

// ExpandPoint returns the smallest box containing b and the point (x,y,z).
func (b AxisAlignedBox) ExpandPoint(x, y, z float32) AxisAlignedBox {
	return AxisAlignedBox{
		X: b.X.Expand(x),
		Y: b.Y.Expand(y),
		Z: b.Z.Expand(z),
	}
}

// EmptyBox returns a box ready for an ExpandPoint-based scan.
func EmptyBox() AxisAlignedBox {
	return AxisAlignedBox{X: EmptyInterval(), Y: EmptyInterval(), Z: EmptyInterval()}
}
