/*
NAME
  rgb.go

DESCRIPTION
  rgb.go defines the 8-bit-per-channel RgbColor and RgbwColor value
  types. RGB-to-RGBW remapping belongs to the LED driver outside this
  engine; this package only defines the shapes that boundary is
  expressed in terms of.

AUTHOR
  Mara Voss <mara@windlass.aero>

LICENSE
  Copyright (C) 2026 Windlass Aero. All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of Windlass Aero.
*/

// Package rgb defines the RgbColor and RgbwColor value types shared by
// the light player and the show controller.
package rgb

// Color is an 8-bit-per-channel RGB color.
type Color struct {
	R, G, B uint8
}

// ColorW is an 8-bit-per-channel RGBW color, the input shape the external
// RGB-to-RGBW LED remapper operates on.
type ColorW struct {
	R, G, B, W uint8
}

// Lerp linearly interpolates between a and b at fraction u in [0,1].
func Lerp(a, b Color, u float64) Color {
	if u <= 0 {
		return a
	}
	if u >= 1 {
		return b
	}
	return Color{
		R: lerp8(a.R, b.R, u),
		G: lerp8(a.G, b.G, u),
		B: lerp8(a.B, b.B, u),
	}
}

func lerp8(a, b uint8, u float64) uint8 {
	v := float64(a) + (float64(b)-float64(a))*u
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(v + 0.5)
}
