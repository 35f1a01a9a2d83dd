/*
NAME
  pyro.go

DESCRIPTION
  pyro.go adapts the light VM's pyro-channel bitmask onto physical GPIO
  output pins: each set bit in the mask drives its corresponding pin
  high, each clear bit drives it low, and only bits that actually
  changed since the last call touch hardware.

AUTHOR
  Mara Voss <mara@windlass.aero>

LICENSE
  Copyright (C) 2026 Windlass Aero. All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of Windlass Aero.
*/

// Package pyro adapts the light player's pyro-channel mask (its
// SET_PYRO/CLEAR_PYRO bits) onto physical GPIO output pins. It lives on
// the flight-controller side of the engine boundary: nothing in this
// package sits on the hot path, and the engine's own packages never
// import it.
package pyro

import (
	"fmt"

	"github.com/kidoman/embd"
	_ "github.com/kidoman/embd/host/rpi"

	"github.com/windlass-aero/skyplay/xerr"
)

// MaxChannels is the number of pyro-mask bits a Driver can address; the
// mask itself is a uint8, so no more than 8 channels ever exist.
const MaxChannels = 8

// DigitalPin is the subset of embd.DigitalPin this package depends on,
// so tests can supply a fake without opening real hardware.
type DigitalPin interface {
	SetDirection(embd.Direction) error
	Write(int) error
	Close() error
}

// Driver maps each bit of a pyro-channel mask onto a GPIO output pin
// and only writes the pins whose state actually changed.
type Driver struct {
	pins     [MaxChannels]DigitalPin
	last     uint8
	haveLast bool
}

// PinOpener opens a digital GPIO pin by number; embd.NewDigitalPin
// satisfies this signature once the rpi host driver is registered.
type PinOpener func(pin int) (embd.DigitalPin, error)

// NewDriver opens one output pin per non-negative entry of pinNumbers
// (indexed by pyro-mask bit; a negative entry leaves that channel
// unwired) via open, setting each to digital output. If any pin fails
// to open, the pins already opened are closed before returning the
// error.
func NewDriver(open PinOpener, pinNumbers [MaxChannels]int) (*Driver, error) {
	d := &Driver{}
	for ch, num := range pinNumbers {
		if num < 0 {
			continue
		}
		p, err := open(num)
		if err != nil {
			d.Close()
			return nil, xerr.Wrap(err, xerr.EPERM, fmt.Sprintf("pyro: open pin %d for channel %d", num, ch))
		}
		if err := p.SetDirection(embd.Out); err != nil {
			d.Close()
			return nil, xerr.Wrap(err, xerr.EPERM, fmt.Sprintf("pyro: set direction for channel %d", ch))
		}
		d.pins[ch] = p
	}
	return d, nil
}

// Apply writes mask to the driver's pins, touching only the channels
// whose bit changed since the previous Apply call (or all wired
// channels, on the first call).
func (d *Driver) Apply(mask uint8) error {
	changed := uint8(0xFF)
	if d.haveLast {
		changed = mask ^ d.last
	}
	for ch := 0; ch < MaxChannels; ch++ {
		bit := uint8(1) << uint(ch)
		if changed&bit == 0 || d.pins[ch] == nil {
			continue
		}
		v := 0
		if mask&bit != 0 {
			v = 1
		}
		if err := d.pins[ch].Write(v); err != nil {
			return xerr.Wrap(err, xerr.EPERM, fmt.Sprintf("pyro: write channel %d", ch))
		}
	}
	d.last = mask
	d.haveLast = true
	return nil
}

// Close releases every wired pin, returning the first error
// encountered (if any) after attempting to close them all.
func (d *Driver) Close() error {
	var first error
	for ch, p := range d.pins {
		if p == nil {
			continue
		}
		if err := p.Close(); err != nil && first == nil {
			first = xerr.Wrap(err, xerr.EPERM, fmt.Sprintf("pyro: close channel %d", ch))
		}
		d.pins[ch] = nil
	}
	return first
}
