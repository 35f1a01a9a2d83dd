/*
NAME
  player.go

DESCRIPTION
  player.go implements the trajectory player: lazy decode of the segment
  stream, a cached "current segment" the player evaluates against, and
  the position/velocity/acceleration query API. Segment lookup walks
  forward or rewinds-and-walks as needed so random, forward and backward
  access all give the same answer regardless of query order.

AUTHOR
  Mara Voss <mara@windlass.aero>

LICENSE
  Copyright (C) 2026 Windlass Aero. All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of Windlass Aero.
*/

// Package trajectory implements the piecewise-polynomial trajectory
// player: position/velocity/acceleration queries over a binary-encoded
// segment stream, plus the takeoff/landing heuristics and cut/clone
// operations used by the show controller and the RTH plan evaluator.
package trajectory

import (
	"github.com/windlass-aero/skyplay/buffer"
	"github.com/windlass-aero/skyplay/geom"
	"github.com/windlass-aero/skyplay/xerr"
)

// header is the fixed trajectory-block header: a header byte with
// bit 7 = yaw-used and bits 0-6 = axis scale (1..127), followed by the
// start pose.
type header struct {
	scale   uint8
	yawUsed bool
	start   geom4
}

func decodeHeader(c *buffer.Cursor) (header, error) {
	hb, err := c.ReadByte()
	if err != nil {
		return header{}, xerr.EREAD
	}
	scale := hb & 0x7f
	if scale == 0 {
		return header{}, xerr.EPARSE
	}
	yawUsed := hb&0x80 != 0

	readI16Scaled := func(isYaw bool) (float32, error) {
		raw, err := c.ReadI16()
		if err != nil {
			return 0, xerr.EREAD
		}
		if isYaw {
			return float32(raw) / 10, nil
		}
		return buffer.ScaledCoord(raw, scale), nil
	}

	x, err := readI16Scaled(false)
	if err != nil {
		return header{}, err
	}
	y, err := readI16Scaled(false)
	if err != nil {
		return header{}, err
	}
	z, err := readI16Scaled(false)
	if err != nil {
		return header{}, err
	}
	yaw, err := readI16Scaled(true)
	if err != nil {
		return header{}, err
	}

	return header{
		scale:   scale,
		yawUsed: yawUsed,
		start:   geom4{x: x, y: y, z: z, yaw: yaw},
	}, nil
}

// Player decodes and evaluates a trajectory segment stream. It borrows or
// owns an underlying buffer.Buffer and caches the decoded "current
// segment" so repeated nearby queries avoid re-decoding.
type Player struct {
	buf    *buffer.Buffer
	hdr    header
	bodyAt int // byte offset, within buf, of the first segment header.

	// cur is the decoded segment currently cached (its start time is
	// cur.startMS), and curOff is its byte offset; curEnd lets a forward
	// walk resume without rewinding.
	cur      segment
	curValid bool
	curOff   int
	curEnd   int // byte offset just past cur, i.e. next segment's header.

	totalDurMS  uint32
	totalKnown  bool
	endPosition geom4
}

// NewPlayer parses the trajectory header from buf and returns a Player
// ready to evaluate it. buf is retained for the lifetime of the Player;
// if buf is a borrowed view, the caller must keep the underlying storage
// alive for at least as long.
func NewPlayer(buf *buffer.Buffer) (*Player, error) {
	c := buffer.NewCursor(buf)
	hdr, err := decodeHeader(c)
	if err != nil {
		return nil, err
	}
	return &Player{
		buf:    buf,
		hdr:    hdr,
		bodyAt: c.Offset(),
	}, nil
}

// seekFromStart decodes segments from the beginning of the body until it
// finds the one containing tSec (or runs out of data), leaving p.cur
// (and p.curValid) set to that segment, or p.curValid false if tSec is
// past every segment.
func (p *Player) seekFromStart(tSec float64) error {
	c := buffer.NewCursor(p.buf)
	if err := c.Seek(p.bodyAt); err != nil {
		return err
	}
	cur := p.hdr.start
	startMS := uint32(0)
	p.curValid = false
	for c.Remaining() > 0 {
		off := c.Offset()
		seg, err := decodeSegment(c, cur, p.hdr.scale, p.hdr.yawUsed)
		if err != nil {
			return err
		}
		seg.startMS = startMS
		endMS := startMS + uint32(seg.durMS)
		localT := tSec - float64(startMS)/1000
		if seg.containsLocal(localT) && tSec <= float64(endMS)/1000 {
			p.cur = seg
			p.curValid = true
			p.curOff = off
			p.curEnd = c.Offset()
			return nil
		}
		cur = seg.endPos
		startMS = endMS
	}
	p.endPosition = cur
	p.totalDurMS = startMS
	p.totalKnown = true
	return nil
}

// ensureSegment makes sure p.cur covers tSec, walking forward from the
// current cache entry when possible and falling back to a full rewind
// otherwise. It also discovers total duration/end-pose lazily as it
// walks off the end of the stream.
func (p *Player) ensureSegment(tSec float64) error {
	if p.curValid {
		localT := tSec - float64(p.cur.startMS)/1000
		if p.cur.containsLocal(localT) {
			return nil
		}
		if tSec >= float64(p.cur.startMS)/1000 {
			// Walk forward from the cached segment instead of rewinding.
			c := buffer.NewCursor(p.buf)
			if err := c.Seek(p.curEnd); err != nil {
				return err
			}
			cur := p.cur.endPos
			startMS := p.cur.startMS + uint32(p.cur.durMS)
			for c.Remaining() > 0 {
				off := c.Offset()
				seg, err := decodeSegment(c, cur, p.hdr.scale, p.hdr.yawUsed)
				if err != nil {
					return err
				}
				seg.startMS = startMS
				endMS := startMS + uint32(seg.durMS)
				localTT := tSec - float64(startMS)/1000
				if seg.containsLocal(localTT) && tSec <= float64(endMS)/1000 {
					p.cur = seg
					p.curOff = off
					p.curEnd = c.Offset()
					return nil
				}
				cur = seg.endPos
				startMS = endMS
			}
			p.endPosition = cur
			p.totalDurMS = startMS
			p.totalKnown = true
			p.curValid = false
			return nil
		}
	}
	return p.seekFromStart(tSec)
}

// clampedTime reports whether tSec is before the start or past the known
// end; both are false when tSec is within range or the end is not yet
// known.
func (p *Player) clampedTime(tSec float64) (before, after bool) {
	if tSec < 0 {
		return true, false
	}
	if p.totalKnown && tSec > float64(p.totalDurMS)/1000 {
		return false, true
	}
	return false, false
}

// PositionAt returns the trajectory's position (and yaw) at tSec. Times
// before 0 return the start pose; times past the total duration return
// the end pose.
func (p *Player) PositionAt(tSec float64) (geom.Vector3WithYaw, error) {
	if before, _ := p.clampedTime(tSec); before {
		return toVec(p.hdr.start), nil
	}
	if err := p.ensureSegment(tSec); err != nil {
		return geom.Vector3WithYaw{}, err
	}
	if !p.curValid {
		return toVec(p.endPosition), nil
	}
	localT := tSec - float64(p.cur.startMS)/1000
	return toVec(p.cur.positionAtLocal(localT)), nil
}

// VelocityAt returns the trajectory's velocity (and yaw-rate) at tSec.
// Out-of-range times return zero velocity.
func (p *Player) VelocityAt(tSec float64) (geom.Vector3WithYaw, error) {
	if before, _ := p.clampedTime(tSec); before {
		return geom.Zero, nil
	}
	if err := p.ensureSegment(tSec); err != nil {
		return geom.Vector3WithYaw{}, err
	}
	if !p.curValid {
		return geom.Zero, nil
	}
	localT := tSec - float64(p.cur.startMS)/1000
	return toVec(p.cur.velocityAtLocal(localT)), nil
}

// AccelerationAt returns the trajectory's acceleration at tSec.
// Out-of-range times return zero acceleration.
func (p *Player) AccelerationAt(tSec float64) (geom.Vector3WithYaw, error) {
	if before, _ := p.clampedTime(tSec); before {
		return geom.Zero, nil
	}
	if err := p.ensureSegment(tSec); err != nil {
		return geom.Vector3WithYaw{}, err
	}
	if !p.curValid {
		return geom.Zero, nil
	}
	localT := tSec - float64(p.cur.startMS)/1000
	return toVec(p.cur.accelerationAtLocal(localT)), nil
}

// StartPosition returns the trajectory's first pose.
func (p *Player) StartPosition() geom.Vector3WithYaw { return toVec(p.hdr.start) }

// EndPosition returns the trajectory's last pose, decoding the full
// stream once if it has not been walked yet.
func (p *Player) EndPosition() (geom.Vector3WithYaw, error) {
	if !p.totalKnown {
		if err := p.seekFromStart(-1); err != nil {
			return geom.Vector3WithYaw{}, err
		}
	}
	return toVec(p.endPosition), nil
}

// TotalDurationMS returns the trajectory's total duration in
// milliseconds, decoding the full stream once if needed.
func (p *Player) TotalDurationMS() (uint32, error) {
	if !p.totalKnown {
		if err := p.seekFromStart(-1); err != nil {
			return 0, err
		}
	}
	return p.totalDurMS, nil
}

// TotalDurationSec returns TotalDurationMS in seconds.
func (p *Player) TotalDurationSec() (float64, error) {
	ms, err := p.TotalDurationMS()
	return float64(ms) / 1000, err
}

// ClonePlayer duplicates the player's cached decode state; the clone
// shares the (read-only) underlying buffer.
func (p *Player) ClonePlayer() *Player {
	cp := *p
	return &cp
}

func toVec(g geom4) geom.Vector3WithYaw {
	return geom.Vector3WithYaw{X: g.x, Y: g.y, Z: g.z, Yaw: g.yaw}
}
