/*
NAME
  bbox.go

DESCRIPTION
  bbox.go computes a trajectory's axis-aligned bounding box by walking
  every segment once and taking the per-axis extrema of its u-domain
  polynomial.

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
	"github.com/windlass-aero/skyplay/geom"
)

// AxisAlignedBoundingBox returns the trajectory's bounding box, decoding
// the whole segment stream once.
func (p *Player) AxisAlignedBoundingBox() (geom.AxisAlignedBox, error) {
	box := geom.EmptyBox()
	err := p.walkSegments(func(s segment) {
		xmin, xmax := s.u.X.Extrema()
		ymin, ymax := s.u.Y.Extrema()
		zmin, zmax := s.u.Z.Extrema()
		box = box.Union(geom.AxisAlignedBox{
			X: geom.Interval{Min: float32(xmin), Max: float32(xmax)},
			Y: geom.Interval{Min: float32(ymin), Max: float32(ymax)},
			Z: geom.Interval{Min: float32(zmin), Max: float32(zmax)},
		})
	})
	return box, err
}

// walkSegments decodes every segment of the trajectory from the start,
// invoking fn on each in order. It does not disturb the player's
// position-query cache.
func (p *Player) walkSegments(fn func(segment)) error {
	c := buffer.NewCursor(p.buf)
	if err := c.Seek(p.bodyAt); err != nil {
		return err
	}
	cur := p.hdr.start
	startMS := uint32(0)
	for c.Remaining() > 0 {
		seg, err := decodeSegment(c, cur, p.hdr.scale, p.hdr.yawUsed)
		if err != nil {
			return err
		}
		seg.startMS = startMS
		fn(seg)
		cur = seg.endPos
		startMS += uint32(seg.durMS)
	}
	return nil
}
