/*
NAME
  buffer.go

DESCRIPTION
  buffer.go provides a cursor over a contiguous byte region along with
  little-endian integer and scaled fixed-point vector decoding, the L0
  layer every binary-buffer-backed player walks to locate the segment
  covering a query time.

AUTHOR
  Mara Voss <mara@windlass.aero>

LICENSE
  Copyright (C) 2026 Windlass Aero. All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of Windlass Aero.
*/

// Package buffer provides a byte cursor over a possibly-borrowed byte
// region, plus little-endian decode helpers. It never reallocates: a
// Buffer either owns its backing slice (built offline or edited) or
// borrows it (parsed in place from a caller-owned region), and the
// distinction is an explicit flag the caller must respect for the
// lifetime of anything built on top of the Buffer.
package buffer

import (
	"encoding/binary"

	"github.com/windlass-aero/skyplay/xerr"
)

// Buffer is an ordered byte sequence with an owner flag. size <= capacity
// always holds; a view never reallocates.
type Buffer struct {
	data  []byte
	owned bool
}

// NewOwned returns a Buffer that owns (and may grow) its backing slice.
func NewOwned(data []byte) *Buffer {
	return &Buffer{data: data, owned: true}
}

// NewView returns a Buffer that borrows data. The caller must keep data
// alive for as long as the Buffer, and anything decoded from it, is used.
func NewView(data []byte) *Buffer {
	return &Buffer{data: data, owned: false}
}

// Owned reports whether the Buffer owns its backing storage.
func (b *Buffer) Owned() bool { return b.owned }

// Len returns the number of bytes in the buffer.
func (b *Buffer) Len() int { return len(b.data) }

// Bytes returns the full backing slice. Callers must not retain it past
// the Buffer's lifetime when Owned is false.
func (b *Buffer) Bytes() []byte { return b.data }

// Cursor is a read-only walk position over a Buffer. It never mutates the
// Buffer and carries no allocation of its own.
type Cursor struct {
	buf *Buffer
	off int
}

// NewCursor returns a Cursor positioned at the start of buf.
func NewCursor(buf *Buffer) *Cursor {
	return &Cursor{buf: buf}
}

// Offset returns the current byte offset.
func (c *Cursor) Offset() int { return c.off }

// Remaining returns the number of unread bytes.
func (c *Cursor) Remaining() int { return c.buf.Len() - c.off }

// Seek repositions the cursor to an absolute offset.
func (c *Cursor) Seek(off int) error {
	if off < 0 || off > c.buf.Len() {
		return xerr.EREAD
	}
	c.off = off
	return nil
}

// Rewind repositions the cursor to the start of the buffer.
func (c *Cursor) Rewind() { c.off = 0 }

// ReadByte reads a single byte and advances the cursor.
func (c *Cursor) ReadByte() (byte, error) {
	if c.Remaining() < 1 {
		return 0, xerr.EREAD
	}
	v := c.buf.data[c.off]
	c.off++
	return v, nil
}

// ReadU16 reads a little-endian uint16 and advances the cursor.
func (c *Cursor) ReadU16() (uint16, error) {
	if c.Remaining() < 2 {
		return 0, xerr.EREAD
	}
	v := binary.LittleEndian.Uint16(c.buf.data[c.off:])
	c.off += 2
	return v, nil
}

// ReadI16 reads a little-endian int16 and advances the cursor.
func (c *Cursor) ReadI16() (int16, error) {
	v, err := c.ReadU16()
	return int16(v), err
}

// ReadU32 reads a little-endian uint32 and advances the cursor.
func (c *Cursor) ReadU32() (uint32, error) {
	if c.Remaining() < 4 {
		return 0, xerr.EREAD
	}
	v := binary.LittleEndian.Uint32(c.buf.data[c.off:])
	c.off += 4
	return v, nil
}

// ReadBytes reads n raw bytes and advances the cursor.
func (c *Cursor) ReadBytes(n int) ([]byte, error) {
	if c.Remaining() < n {
		return nil, xerr.EREAD
	}
	v := c.buf.data[c.off : c.off+n]
	c.off += n
	return v, nil
}

// ReadUvarint reads an unsigned LEB128 varint (used for light-VM
// durations) and advances the cursor.
func (c *Cursor) ReadUvarint() (uint64, error) {
	v, n := binary.Uvarint(c.buf.data[c.off:])
	if n <= 0 {
		return 0, xerr.EREAD
	}
	c.off += n
	return v, nil
}

// ReadVarint reads a signed, zigzag-encoded LEB128 varint (used for the
// light-VM JUMP operand) and advances the cursor.
func (c *Cursor) ReadVarint() (int64, error) {
	v, n := binary.Varint(c.buf.data[c.off:])
	if n <= 0 {
		return 0, xerr.EREAD
	}
	c.off += n
	return v, nil
}

// ScaledCoord decodes a signed 16-bit integer into millimeters using the
// trajectory header's per-axis scale byte (1..127).
func ScaledCoord(raw int16, scale uint8) float32 {
	return float32(raw) * float32(scale)
}
