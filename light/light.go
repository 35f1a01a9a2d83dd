/*
NAME
  light.go

DESCRIPTION
  light.go implements the light-program bytecode VM: a byte-offset
  program counter, a small loop stack, and an interpreter that can seek
  to an arbitrary millisecond and report the color (including mid-fade
  interpolation) and pyro-channel mask in effect at that time.

AUTHOR
  Mara Voss <mara@windlass.aero>

LICENSE
  Copyright (C) 2026 Windlass Aero. All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of Windlass Aero.
*/

// Package light implements the light-program bytecode VM: an
// interpreter queried by millisecond rather than stepped by a host
// clock. Seeking backward or to an arbitrary time re-parses from the
// beginning, so forward, backward and random seek all agree.
package light

import (
	"github.com/windlass-aero/skyplay/buffer"
	"github.com/windlass-aero/skyplay/rgb"
	"github.com/windlass-aero/skyplay/xerr"
)

// Opcode tag bytes. Values are fixed by the on-disk format and must not
// be renumbered.
type Opcode byte

const (
	OpEnd        Opcode = 0
	OpNop        Opcode = 1
	OpSleep      Opcode = 2
	OpWaitUntil  Opcode = 3
	OpSetColor   Opcode = 4
	OpSetGray    Opcode = 5
	OpSetBlack   Opcode = 6
	OpSetWhite   Opcode = 7
	OpFadeColor  Opcode = 8
	OpFadeGray   Opcode = 9
	OpFadeBlack  Opcode = 10
	OpFadeWhite  Opcode = 11
	OpLoopBegin  Opcode = 12
	OpLoopEnd    Opcode = 13
	OpResetClock Opcode = 14
	OpSetPyro    Opcode = 15
	OpClearPyro  Opcode = 16
	OpJump       Opcode = 17
)

// maxLoopDepth bounds the loop stack so a corrupted program with
// unbounded LOOP_BEGIN nesting cannot grow memory.
const maxLoopDepth = 16

// maxSteps bounds the number of instructions one run may execute, so a
// corrupted program that cycles without ever covering the query time
// (an infinite loop that resets the clock, a backward jump with no
// counter) terminates with ECORRUPTED instead of hanging the caller.
const maxSteps = 1 << 26

type loopFrame struct {
	pcAfterHead int
	remaining   int // 0 means infinite.
	infinite    bool
}

// span is one color-producing instruction's time extent: [start, end) in
// program-local milliseconds, holding or fading between from and to.
type span struct {
	startMS, endMS int64
	from, to       rgb.Color
	fade           bool
}

func (s span) colorAt(ms int64) rgb.Color {
	if !s.fade || s.endMS <= s.startMS {
		return s.to
	}
	u := float64(ms-s.startMS) / float64(s.endMS-s.startMS)
	return rgb.Lerp(s.from, s.to, u)
}

// VM interprets a light program. It re-executes from the start whenever
// a query falls outside the span cached by the previous query (earlier
// than that query, or at or past the span's end), so its behaviour is
// independent of query order.
type VM struct {
	buf *buffer.Buffer

	// lastMS and lastSpan cache the most recent seek so repeated nearby
	// queries (the common case on the hot path) avoid re-parsing.
	haveLast bool
	lastMS   int64
	lastSpan span
	pyroMask uint8
	ended    bool
	endColor rgb.Color
}

// NewVM returns a VM over the given light-program bytecode.
func NewVM(buf *buffer.Buffer) *VM {
	return &VM{buf: buf}
}

// At returns the color and pyro-channel mask in effect at ms,
// milliseconds since the program started.
func (v *VM) At(ms int64) (rgb.Color, uint8, error) {
	if v.haveLast && ms >= v.lastMS && ms < v.lastSpan.endMS && !v.ended {
		return v.lastSpan.colorAt(ms), v.pyroMask, nil
	}
	sp, mask, ended, endColor, err := v.run(ms)
	if err != nil {
		return rgb.Color{}, 0, err
	}
	v.haveLast = true
	v.lastMS = ms
	v.lastSpan = sp
	v.pyroMask = mask
	v.ended = ended
	v.endColor = endColor
	if ended {
		return endColor, mask, nil
	}
	return sp.colorAt(ms), mask, nil
}

// NextChangeMS returns the next timestamp at which the color returned by
// At may change, for callers that want to avoid re-querying every tick.
func (v *VM) NextChangeMS() int64 {
	if v.ended {
		return -1
	}
	return v.lastSpan.endMS
}

// run re-parses the program from byte 0, executing instructions and
// advancing a virtual clock until the clock reaches targetMS or a
// color-producing span containing targetMS is found.
func (v *VM) run(targetMS int64) (span, uint8, bool, rgb.Color, error) {
	c := buffer.NewCursor(v.buf)
	var clock int64
	var cur rgb.Color
	var mask uint8
	var loops [maxLoopDepth]loopFrame
	depth := 0

	for steps := 0; ; steps++ {
		if steps >= maxSteps {
			return span{}, 0, false, rgb.Color{}, xerr.ECORRUPTED
		}
		tagByte, err := c.ReadByte()
		if err != nil {
			// Program ended without an explicit END; treat as END.
			return span{startMS: clock, endMS: clock, from: cur, to: cur}, mask, true, cur, nil
		}
		op := Opcode(tagByte)

		switch op {
		case OpEnd:
			return span{startMS: clock, endMS: clock, from: cur, to: cur}, mask, true, cur, nil

		case OpNop:
			// No-op.

		case OpSleep:
			d, err := c.ReadUvarint()
			if err != nil {
				return span{}, 0, false, rgb.Color{}, xerr.ECORRUPTED
			}
			start := clock
			clock += int64(d)
			// The color holds through the gap.
			if targetMS >= start && targetMS < clock {
				return span{startMS: start, endMS: clock, from: cur, to: cur}, mask, false, rgb.Color{}, nil
			}

		case OpWaitUntil:
			abs, err := c.ReadUvarint()
			if err != nil {
				return span{}, 0, false, rgb.Color{}, xerr.ECORRUPTED
			}
			start := clock
			if int64(abs) > clock {
				clock = int64(abs)
			}
			if targetMS >= start && targetMS < clock {
				return span{startMS: start, endMS: clock, from: cur, to: cur}, mask, false, rgb.Color{}, nil
			}

		case OpSetColor, OpSetGray, OpSetBlack, OpSetWhite:
			col, err := decodeSolidOperand(c, op)
			if err != nil {
				return span{}, 0, false, rgb.Color{}, err
			}
			d, err := c.ReadUvarint()
			if err != nil {
				return span{}, 0, false, rgb.Color{}, xerr.ECORRUPTED
			}
			start := clock
			end := clock + int64(d)
			sp := span{startMS: start, endMS: end, from: col, to: col}
			cur = col
			if targetMS >= start && targetMS < end {
				return sp, mask, false, rgb.Color{}, nil
			}
			clock = end

		case OpFadeColor, OpFadeGray, OpFadeBlack, OpFadeWhite:
			to, err := decodeSolidOperand(c, fadeToSolid(op))
			if err != nil {
				return span{}, 0, false, rgb.Color{}, err
			}
			d, err := c.ReadUvarint()
			if err != nil {
				return span{}, 0, false, rgb.Color{}, xerr.ECORRUPTED
			}
			start := clock
			end := clock + int64(d)
			sp := span{startMS: start, endMS: end, from: cur, to: to, fade: true}
			if targetMS >= start && targetMS < end {
				return sp, mask, false, rgb.Color{}, nil
			}
			cur = to
			clock = end

		case OpLoopBegin:
			iters, err := c.ReadByte()
			if err != nil {
				return span{}, 0, false, rgb.Color{}, xerr.ECORRUPTED
			}
			if depth >= maxLoopDepth {
				return span{}, 0, false, rgb.Color{}, xerr.ECORRUPTED
			}
			frame := loopFrame{pcAfterHead: c.Offset()}
			if iters == 0 {
				frame.infinite = true
			} else {
				frame.remaining = int(iters)
			}
			loops[depth] = frame
			depth++

		case OpLoopEnd:
			if depth == 0 {
				return span{}, 0, false, rgb.Color{}, xerr.ECORRUPTED
			}
			top := &loops[depth-1]
			if top.infinite {
				if err := c.Seek(top.pcAfterHead); err != nil {
					return span{}, 0, false, rgb.Color{}, xerr.ECORRUPTED
				}
				continue
			}
			top.remaining--
			if top.remaining > 0 {
				if err := c.Seek(top.pcAfterHead); err != nil {
					return span{}, 0, false, rgb.Color{}, xerr.ECORRUPTED
				}
				continue
			}
			depth--

		case OpResetClock:
			clock = 0

		case OpSetPyro:
			ch, err := c.ReadByte()
			if err != nil {
				return span{}, 0, false, rgb.Color{}, xerr.ECORRUPTED
			}
			mask |= 1 << (ch & 7)

		case OpClearPyro:
			ch, err := c.ReadByte()
			if err != nil {
				return span{}, 0, false, rgb.Color{}, xerr.ECORRUPTED
			}
			mask &^= 1 << (ch & 7)

		case OpJump:
			off, err := c.ReadVarint()
			if err != nil {
				return span{}, 0, false, rgb.Color{}, xerr.ECORRUPTED
			}
			if err := c.Seek(c.Offset() + int(off)); err != nil {
				return span{}, 0, false, rgb.Color{}, xerr.ECORRUPTED
			}

		default:
			return span{}, 0, false, rgb.Color{}, xerr.ECORRUPTED
		}
	}
}

func fadeToSolid(op Opcode) Opcode {
	switch op {
	case OpFadeColor:
		return OpSetColor
	case OpFadeGray:
		return OpSetGray
	case OpFadeBlack:
		return OpSetBlack
	case OpFadeWhite:
		return OpSetWhite
	}
	return op
}

func decodeSolidOperand(c *buffer.Cursor, op Opcode) (rgb.Color, error) {
	switch op {
	case OpSetColor:
		bs, err := c.ReadBytes(3)
		if err != nil {
			return rgb.Color{}, xerr.ECORRUPTED
		}
		return rgb.Color{R: bs[0], G: bs[1], B: bs[2]}, nil
	case OpSetGray:
		y, err := c.ReadByte()
		if err != nil {
			return rgb.Color{}, xerr.ECORRUPTED
		}
		return rgb.Color{R: y, G: y, B: y}, nil
	case OpSetBlack:
		return rgb.Color{}, nil
	case OpSetWhite:
		return rgb.Color{R: 255, G: 255, B: 255}, nil
	default:
		return rgb.Color{}, xerr.ECORRUPTED
	}
}
