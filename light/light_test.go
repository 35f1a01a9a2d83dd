/*
NAME
  light_test.go

DESCRIPTION
  light_test.go validates opcode execution, fade interpolation, the
  WAIT_UNTIL fixture from the engine's light-program scenario, loop
  repetition, and forward/backward/random seek equivalence.

AUTHOR
  Mara Voss <mara@windlass.aero>

LICENSE
  Copyright (C) 2026 Windlass Aero. All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of Windlass Aero.
*/

package light

import (
	"encoding/binary"
	"testing"

	"github.com/windlass-aero/skyplay/buffer"
	"github.com/windlass-aero/skyplay/rgb"
)

type prog struct {
	out []byte
}

func (p *prog) op(o Opcode) *prog {
	p.out = append(p.out, byte(o))
	return p
}

func (p *prog) u8(v byte) *prog {
	p.out = append(p.out, v)
	return p
}

func (p *prog) uvarint(v uint64) *prog {
	var tmp [binary.MaxVarintLen64]byte
	n := binary.PutUvarint(tmp[:], v)
	p.out = append(p.out, tmp[:n]...)
	return p
}

func (p *prog) varint(v int64) *prog {
	var tmp [binary.MaxVarintLen64]byte
	n := binary.PutVarint(tmp[:], v)
	p.out = append(p.out, tmp[:n]...)
	return p
}

func (p *prog) buf() *buffer.Buffer {
	return buffer.NewView(p.out)
}

func TestSetColorHolds(t *testing.T) {
	b := (&prog{}).op(OpSetColor).u8(10).u8(20).u8(30).uvarint(1000).op(OpEnd).buf()
	vm := NewVM(b)
	for _, ms := range []int64{0, 500, 999} {
		col, mask, err := vm.At(ms)
		if err != nil {
			t.Fatalf("At(%d): %v", ms, err)
		}
		if col != (rgb.Color{R: 10, G: 20, B: 30}) {
			t.Errorf("At(%d) = %v, want {10,20,30}", ms, col)
		}
		if mask != 0 {
			t.Errorf("At(%d) mask = %v, want 0", ms, mask)
		}
	}
}

func TestFadeInterpolation(t *testing.T) {
	b := (&prog{}).
		op(OpSetBlack).uvarint(0).
		op(OpFadeWhite).uvarint(1000).
		op(OpEnd).buf()
	vm := NewVM(b)
	col, _, err := vm.At(500)
	if err != nil {
		t.Fatalf("At(500): %v", err)
	}
	if col.R < 100 || col.R > 150 {
		t.Errorf("At(500).R = %v, want roughly mid-gray", col.R)
	}
	end, _, err := vm.At(999)
	if err != nil {
		t.Fatalf("At(999): %v", err)
	}
	if end.R < 250 {
		t.Errorf("At(999).R = %v, want near 255", end.R)
	}
}

// TestWaitUntilFixture builds a program that holds red until an absolute
// clock mark, then switches to blue, matching the engine's WAIT_UNTIL
// scenario: the color must not change before the waited-for instant even
// though the preceding SET_COLOR duration undershoots it.
func TestWaitUntilFixture(t *testing.T) {
	b := (&prog{}).
		op(OpSetColor).u8(255).u8(0).u8(0).uvarint(100).
		op(OpWaitUntil).uvarint(5000).
		op(OpSetColor).u8(0).u8(0).u8(255).uvarint(1000).
		op(OpEnd).buf()
	vm := NewVM(b)

	red, _, err := vm.At(4999)
	if err != nil {
		t.Fatalf("At(4999): %v", err)
	}
	if red != (rgb.Color{R: 255}) {
		t.Errorf("At(4999) = %v, want red", red)
	}

	blue, _, err := vm.At(5000)
	if err != nil {
		t.Fatalf("At(5000): %v", err)
	}
	if blue != (rgb.Color{B: 255}) {
		t.Errorf("At(5000) = %v, want blue", blue)
	}
}

func TestLoopRepeats(t *testing.T) {
	b := (&prog{}).
		op(OpLoopBegin).u8(3).
		op(OpSetColor).u8(1).u8(0).u8(0).uvarint(100).
		op(OpSetColor).u8(0).u8(1).u8(0).uvarint(100).
		op(OpLoopEnd).
		op(OpSetColor).u8(0).u8(0).u8(1).uvarint(100).
		op(OpEnd).buf()
	vm := NewVM(b)

	// 3 iterations x 200ms = 600ms of red/green, then blue.
	col, _, err := vm.At(550)
	if err != nil {
		t.Fatalf("At(550): %v", err)
	}
	if col != (rgb.Color{G: 1}) {
		t.Errorf("At(550) = %v, want green from final iteration", col)
	}
	col, _, err = vm.At(650)
	if err != nil {
		t.Fatalf("At(650): %v", err)
	}
	if col != (rgb.Color{B: 1}) {
		t.Errorf("At(650) = %v, want blue after loop exit", col)
	}
}

func TestPyroMask(t *testing.T) {
	b := (&prog{}).
		op(OpSetPyro).u8(2).
		op(OpSetColor).u8(0).u8(0).u8(0).uvarint(1000).
		op(OpClearPyro).u8(2).
		op(OpSetColor).u8(0).u8(0).u8(0).uvarint(1000).
		op(OpEnd).buf()
	vm := NewVM(b)

	_, mask, err := vm.At(500)
	if err != nil {
		t.Fatalf("At(500): %v", err)
	}
	if mask != 1<<2 {
		t.Errorf("At(500) mask = %b, want bit 2 set", mask)
	}
	_, mask, err = vm.At(1500)
	if err != nil {
		t.Fatalf("At(1500): %v", err)
	}
	if mask != 0 {
		t.Errorf("At(1500) mask = %b, want 0", mask)
	}
}

func TestSeekOrderIndependence(t *testing.T) {
	b := (&prog{}).
		op(OpSetColor).u8(10).u8(0).u8(0).uvarint(300).
		op(OpFadeColor).u8(0).u8(10).u8(0).uvarint(300).
		op(OpSetColor).u8(0).u8(0).u8(10).uvarint(300).
		op(OpEnd).buf()

	times := []int64{0, 700, 150, 450, 899, 50}
	vm := NewVM(b)
	var forward []rgb.Color
	for _, ms := range times {
		c, _, err := vm.At(ms)
		if err != nil {
			t.Fatalf("At(%d): %v", ms, err)
		}
		forward = append(forward, c)
	}

	vm2 := NewVM(b)
	var backward []rgb.Color
	for i := len(times) - 1; i >= 0; i-- {
		c, _, err := vm2.At(times[i])
		if err != nil {
			t.Fatalf("At(%d): %v", times[i], err)
		}
		backward = append([]rgb.Color{c}, backward...)
	}

	for i := range times {
		if forward[i] != backward[i] {
			t.Errorf("order mismatch at ms=%d: forward=%v backward=%v", times[i], forward[i], backward[i])
		}
	}
}

// TestSleepGapsHoldColor steps through a program shaped like the
// wait-until fixture show: black for 3s, gray 128 until 10s, black for
// 2s, then white forever. The color during a SLEEP gap must be whatever
// was last set, not whatever the next instruction will set.
func TestSleepGapsHoldColor(t *testing.T) {
	b := (&prog{}).
		op(OpSleep).uvarint(3000).
		op(OpSetGray).u8(128).uvarint(7000).
		op(OpSetBlack).uvarint(2000).
		op(OpFadeWhite).uvarint(40).
		op(OpEnd).buf()
	vm := NewVM(b)

	cases := []struct {
		ms   int64
		want rgb.Color
	}{
		{1500, rgb.Color{}},
		{5000, rgb.Color{R: 128, G: 128, B: 128}},
		{11000, rgb.Color{}},
		{12100, rgb.Color{R: 255, G: 255, B: 255}},
	}
	for _, c := range cases {
		got, _, err := vm.At(c.ms)
		if err != nil {
			t.Fatalf("At(%d): %v", c.ms, err)
		}
		if got != c.want {
			t.Errorf("At(%d) = %v, want %v", c.ms, got, c.want)
		}
	}
}

func TestEndReturnsFinalColor(t *testing.T) {
	b := (&prog{}).op(OpSetColor).u8(7).u8(7).u8(7).uvarint(100).op(OpEnd).buf()
	vm := NewVM(b)
	col, _, err := vm.At(1_000_000)
	if err != nil {
		t.Fatalf("At: %v", err)
	}
	if col != (rgb.Color{R: 7, G: 7, B: 7}) {
		t.Errorf("At(past end) = %v, want held final color", col)
	}
}
