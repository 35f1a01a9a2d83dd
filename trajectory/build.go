/*
NAME
  build.go

DESCRIPTION
  build.go provides the encode-side counterpart to segment decoding: a
  small in-memory segment builder used, via NewBuilder, by the RTH plan
  evaluator's ad-hoc trajectory synthesis, and the encoding helpers
  CutAt uses. A built trajectory owns its buffer rather than borrowing
  one.

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
	"encoding/binary"
	"math"

	"github.com/windlass-aero/skyplay/buffer"
	"github.com/windlass-aero/skyplay/geom"
)

// Builder accumulates segments for a hand-synthesized trajectory, e.g.
// an RTH abort maneuver. The builder enforces the
// "no encoded segment exceeds 65535ms" invariant by splitting long linear
// segments automatically.
type Builder struct {
	scale   uint8
	yawUsed bool
	start   geom.Vector3WithYaw
	segs    []builtSegment
}

type builtSegment struct {
	kinds   [4]Kind
	durMS   uint32 // may require splitting if > 65535.
	axisPts [4][]float64
}

// NewBuilder starts a trajectory builder with the given start pose and
// coordinate scale (millimeters per encoded unit, 1..127).
func NewBuilder(start geom.Vector3WithYaw, scale uint8, yawUsed bool) *Builder {
	return &Builder{scale: scale, yawUsed: yawUsed, start: start}
}

// Hold appends a zero-motion (constant) segment of durMS, holding the
// current end pose. At most one zero-duration segment may legally appear
// in the final encoding; callers composing multiple holds should prefer
// a single hold with the combined duration.
func (b *Builder) Hold(durMS uint32) {
	b.segs = append(b.segs, builtSegment{
		kinds: [4]Kind{Constant, Constant, Constant, Constant},
		durMS: durMS,
	})
}

// LinearTo appends a linear segment ending at end, over durMS.
func (b *Builder) LinearTo(end geom.Vector3WithYaw, durMS uint32) {
	b.segs = append(b.segs, builtSegment{
		kinds: [4]Kind{Linear, Linear, Linear, Linear},
		durMS: durMS,
		axisPts: [4][]float64{
			{float64(end.X)},
			{float64(end.Y)},
			{float64(end.Z)},
			{float64(end.Yaw)},
		},
	})
}

// End returns the pose reached after every appended segment so far.
func (b *Builder) End() geom.Vector3WithYaw {
	pose := b.start
	for _, s := range b.segs {
		if len(s.axisPts[0]) > 0 {
			pose.X = float32(s.axisPts[0][len(s.axisPts[0])-1])
		}
		if len(s.axisPts[1]) > 0 {
			pose.Y = float32(s.axisPts[1][len(s.axisPts[1])-1])
		}
		if len(s.axisPts[2]) > 0 {
			pose.Z = float32(s.axisPts[2][len(s.axisPts[2])-1])
		}
		if len(s.axisPts[3]) > 0 {
			pose.Yaw = float32(s.axisPts[3][len(s.axisPts[3])-1])
		}
	}
	return pose
}

// maxSegmentMS is the largest duration a single encoded segment may
// carry.
const maxSegmentMS = 65535

// Build encodes the accumulated segments into an owning Buffer, ready to
// be wrapped by NewPlayer. Long linear segments are split so no encoded
// segment exceeds maxSegmentMS.
func (b *Builder) Build() (*buffer.Buffer, error) {
	var out []byte

	hb := b.scale & 0x7f
	if hb == 0 {
		hb = 1
	}
	if b.yawUsed {
		hb |= 0x80
	}
	out = append(out, hb)
	out = appendI16(out, scaleTo(b.start.X, b.scale))
	out = appendI16(out, scaleTo(b.start.Y, b.scale))
	out = appendI16(out, scaleTo(b.start.Z, b.scale))
	out = appendI16(out, int16(math.Round(float64(b.start.Yaw)*10)))

	cur := [4]float64{float64(b.start.X), float64(b.start.Y), float64(b.start.Z), float64(b.start.Yaw)}
	for _, s := range b.segs {
		kinds := s.kinds
		pts := s.axisPts
		if !b.yawUsed {
			// The decoder skips the yaw axis entirely when the header's
			// yaw-used bit is clear, so the encoding must not carry it.
			kinds[3] = Constant
			pts[3] = nil
		}

		parts := splitDuration(s.durMS)
		elapsed := uint32(0)
		for _, durMS := range parts {
			elapsed += durMS
			kb := byte(kinds[0]) | byte(kinds[1])<<2 | byte(kinds[2])<<4 | byte(kinds[3])<<6
			out = append(out, kb)
			out = appendU16(out, uint16(durMS))

			// The builder only emits constant and linear segments, so
			// each axis carries at most one control point: its endpoint.
			// Split parts end at the proportional point along the move.
			frac := 1.0
			if s.durMS > 0 {
				frac = float64(elapsed) / float64(s.durMS)
			}
			for axis := 0; axis < 4; axis++ {
				if len(pts[axis]) == 0 {
					continue
				}
				end := pts[axis][len(pts[axis])-1]
				v := cur[axis] + (end-cur[axis])*frac
				if axis == 3 {
					out = appendI16(out, int16(math.Round(v*10)))
				} else {
					out = appendI16(out, scaleTo(float32(v), b.scale))
				}
			}
		}

		for axis := 0; axis < 4; axis++ {
			if len(pts[axis]) > 0 {
				cur[axis] = pts[axis][len(pts[axis])-1]
			}
		}
	}

	return buffer.NewOwned(out), nil
}

// splitDuration breaks durMS into chunks each <= maxSegmentMS.
func splitDuration(durMS uint32) []uint32 {
	if durMS <= maxSegmentMS {
		return []uint32{durMS}
	}
	var parts []uint32
	for durMS > maxSegmentMS {
		parts = append(parts, maxSegmentMS)
		durMS -= maxSegmentMS
	}
	parts = append(parts, durMS)
	return parts
}

func scaleTo(v float32, scale uint8) int16 {
	if scale == 0 {
		scale = 1
	}
	return int16(math.Round(float64(v) / float64(scale)))
}

func appendI16(dst []byte, v int16) []byte {
	var tmp [2]byte
	binary.LittleEndian.PutUint16(tmp[:], uint16(v))
	return append(dst, tmp[:]...)
}

func appendU16(dst []byte, v uint16) []byte {
	var tmp [2]byte
	binary.LittleEndian.PutUint16(tmp[:], v)
	return append(dst, tmp[:]...)
}

// CutAt truncates the trajectory at tSec, returning a new owning Player
// whose content is identical to p up to tSec. The header and every
// fully-kept segment are copied byte-for-byte, so curved segments keep
// their exact shape; only the segment the cut lands in is re-encoded,
// as a linear move to the cut pose. End-pose continuity is preserved:
// CutAt(t).EndPosition() == p.PositionAt(t).
func (p *Player) CutAt(tSec float64) (*Player, error) {
	pose, err := p.PositionAt(tSec)
	if err != nil {
		return nil, err
	}
	cutMS := uint32(math.Round(tSec * 1000))

	c := buffer.NewCursor(p.buf)
	if err := c.Seek(p.bodyAt); err != nil {
		return nil, err
	}
	out := append([]byte(nil), p.buf.Bytes()[:p.bodyAt]...)
	cur := p.hdr.start
	startMS := uint32(0)
	for c.Remaining() > 0 {
		off := c.Offset()
		seg, err := decodeSegment(c, cur, p.hdr.scale, p.hdr.yawUsed)
		if err != nil {
			return nil, err
		}
		segEndMS := startMS + uint32(seg.durMS)
		if segEndMS <= cutMS {
			out = append(out, p.buf.Bytes()[off:c.Offset()]...)
			cur = seg.endPos
			startMS = segEndMS
			continue
		}
		if startMS < cutMS {
			// Partial segment: encoded durations never exceed 65535ms, so
			// cutMS-startMS always fits the segment's u16 duration field.
			out = appendLinearSegment(out, pose, cutMS-startMS, p.hdr.scale, p.hdr.yawUsed)
		}
		break
	}
	return NewPlayer(buffer.NewOwned(out))
}

// appendLinearSegment encodes one all-axes-linear segment ending at end.
func appendLinearSegment(dst []byte, end geom.Vector3WithYaw, durMS uint32, scale uint8, yawUsed bool) []byte {
	kb := byte(Linear) | byte(Linear)<<2 | byte(Linear)<<4
	if yawUsed {
		kb |= byte(Linear) << 6
	}
	dst = append(dst, kb)
	dst = appendU16(dst, uint16(durMS))
	dst = appendI16(dst, scaleTo(end.X, scale))
	dst = appendI16(dst, scaleTo(end.Y, scale))
	dst = appendI16(dst, scaleTo(end.Z, scale))
	if yawUsed {
		dst = appendI16(dst, int16(math.Round(float64(end.Yaw)*10)))
	}
	return dst
}
