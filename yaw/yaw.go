/*
NAME
  yaw.go

DESCRIPTION
  yaw.go implements the yaw player: a stream of (dyaw, duration) tuples
  over an initial yaw, evaluated by linear interpolation, plus an
  alternative constant-yaw mode where the whole track degenerates to a
  single tuple.

AUTHOR
  Mara Voss <mara@windlass.aero>

LICENSE
  Copyright (C) 2026 Windlass Aero. All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of Windlass Aero.
*/

// Package yaw implements the piecewise-linear yaw player: a stream of
// (dyaw_deci_deg, duration_ms) tuples evaluated at an arbitrary query
// time, with the same forward/rewind cursor-cache discipline as the
// trajectory player.
package yaw

import (
	"github.com/windlass-aero/skyplay/buffer"
	"github.com/windlass-aero/skyplay/xerr"
)

// tuple is one decoded (delta yaw, duration) entry.
type tuple struct {
	startMS  uint32
	durMS    uint16
	startDeg float32
	dDeg     float32
}

func (t tuple) containsLocalMS(localMS int64) bool {
	if t.durMS == 0 {
		return localMS == 0
	}
	return localMS >= 0 && localMS <= int64(t.durMS)
}

func (t tuple) yawAtLocalMS(localMS int64) float32 {
	if t.durMS == 0 {
		return t.startDeg + t.dDeg
	}
	u := float32(localMS) / float32(t.durMS)
	return t.startDeg + t.dDeg*u
}

func (t tuple) rateDegPerSec() float32 {
	if t.durMS == 0 {
		return 0
	}
	return t.dDeg / (float32(t.durMS) / 1000)
}

// Player evaluates a yaw-delta stream (or a constant yaw) against a query
// time in seconds.
type Player struct {
	buf      *buffer.Buffer
	bodyAt   int
	startDeg float32
	constant bool

	cur      tuple
	curValid bool
	curEnd   int

	totalMS    uint32
	totalKnown bool
	endDeg     float32
}

// NewPlayer parses a yaw-control block: a leading i16 initial yaw in
// deci-degrees, followed by (i16 dyaw_deci_deg, u16 duration_ms) tuples.
func NewPlayer(buf *buffer.Buffer) (*Player, error) {
	c := buffer.NewCursor(buf)
	raw, err := c.ReadI16()
	if err != nil {
		return nil, xerr.EREAD
	}
	return &Player{
		buf:      buf,
		bodyAt:   c.Offset(),
		startDeg: float32(raw) / 10,
	}, nil
}

// NewConstant returns a Player that always reports yawDeg with zero
// yaw-rate, the degenerate constant-yaw mode.
func NewConstant(yawDeg float32) *Player {
	return &Player{constant: true, startDeg: yawDeg, endDeg: yawDeg}
}

func decodeTuple(c *buffer.Cursor, startDeg float32, startMS uint32) (tuple, error) {
	dRaw, err := c.ReadI16()
	if err != nil {
		return tuple{}, xerr.EREAD
	}
	durMS, err := c.ReadU16()
	if err != nil {
		return tuple{}, xerr.EREAD
	}
	return tuple{
		startMS:  startMS,
		durMS:    durMS,
		startDeg: startDeg,
		dDeg:     float32(dRaw) / 10,
	}, nil
}

func (p *Player) seekFromStart(tSec float64) error {
	if p.constant {
		return nil
	}
	c := buffer.NewCursor(p.buf)
	if err := c.Seek(p.bodyAt); err != nil {
		return err
	}
	deg := p.startDeg
	startMS := uint32(0)
	localMS := int64(tSec * 1000)
	p.curValid = false
	for c.Remaining() > 0 {
		tup, err := decodeTuple(c, deg, startMS)
		if err != nil {
			return err
		}
		rel := localMS - int64(startMS)
		if tup.containsLocalMS(rel) && localMS <= int64(startMS)+int64(tup.durMS) {
			p.cur = tup
			p.curValid = true
			p.curEnd = c.Offset()
			return nil
		}
		deg = tup.startDeg + tup.dDeg
		startMS += uint32(tup.durMS)
	}
	p.endDeg = deg
	p.totalMS = startMS
	p.totalKnown = true
	return nil
}

func (p *Player) ensure(tSec float64) error {
	if p.constant {
		return nil
	}
	localMS := int64(tSec * 1000)
	if p.curValid {
		rel := localMS - int64(p.cur.startMS)
		if p.cur.containsLocalMS(rel) {
			return nil
		}
		if localMS >= int64(p.cur.startMS) {
			c := buffer.NewCursor(p.buf)
			if err := c.Seek(p.curEnd); err != nil {
				return err
			}
			deg := p.cur.startDeg + p.cur.dDeg
			startMS := p.cur.startMS + uint32(p.cur.durMS)
			for c.Remaining() > 0 {
				tup, err := decodeTuple(c, deg, startMS)
				if err != nil {
					return err
				}
				rel := localMS - int64(startMS)
				if tup.containsLocalMS(rel) && localMS <= int64(startMS)+int64(tup.durMS) {
					p.cur = tup
					p.curEnd = c.Offset()
					return nil
				}
				deg = tup.startDeg + tup.dDeg
				startMS += uint32(tup.durMS)
			}
			p.endDeg = deg
			p.totalMS = startMS
			p.totalKnown = true
			p.curValid = false
			return nil
		}
	}
	return p.seekFromStart(tSec)
}

// YawAt returns the yaw, in degrees, at tSec.
func (p *Player) YawAt(tSec float64) (float32, error) {
	if p.constant {
		return p.startDeg, nil
	}
	if tSec < 0 {
		return p.startDeg, nil
	}
	if err := p.ensure(tSec); err != nil {
		return 0, err
	}
	if !p.curValid {
		return p.endDeg, nil
	}
	localMS := int64(tSec*1000) - int64(p.cur.startMS)
	return p.cur.yawAtLocalMS(localMS), nil
}

// YawRateAt returns the yaw rate, in degrees/second, at tSec.
// Zero-duration tuples are jumps: yaw-rate is zero there.
func (p *Player) YawRateAt(tSec float64) (float32, error) {
	if p.constant || tSec < 0 {
		return 0, nil
	}
	if err := p.ensure(tSec); err != nil {
		return 0, err
	}
	if !p.curValid {
		return 0, nil
	}
	return p.cur.rateDegPerSec(), nil
}
