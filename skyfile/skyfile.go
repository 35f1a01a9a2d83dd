/*
NAME
  skyfile.go

DESCRIPTION
  skyfile.go parses the skyb binary container: magic, version, an
  optional version-2 feature bitfield and AP-CRC32 check, then a flat
  walk of tag+length blocks.

AUTHOR
  Mara Voss <mara@windlass.aero>

LICENSE
  Copyright (C) 2026 Windlass Aero. All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of Windlass Aero.
*/

// Package skyfile parses the skyb container format: a four-byte magic,
// a version byte, an optional feature bitfield and AP-CRC32 checksum in
// the version-2 header, and a flat sequence of one-byte-tag plus u16-length
// blocks.
package skyfile

import (
	"github.com/windlass-aero/skyplay/buffer"
	"github.com/windlass-aero/skyplay/xerr"
)

// Block tag values. 5 and 6 (yaw-control, event-list) are tags this
// producer assigns; unrecognized tags are skipped.
const (
	TagNone         byte = 0
	TagTrajectory   byte = 1
	TagLightProgram byte = 2
	TagComment      byte = 3
	TagRTHPlan      byte = 4
	TagYawControl   byte = 5
	TagEventList    byte = 6
)

var magic = [4]byte{0x73, 0x6B, 0x79, 0x62} // "skyb"

const featureCRC32 byte = 1 << 0

// Header is the fixed file preamble.
type Header struct {
	Version  byte
	HasCRC32 bool
}

// BlockReader walks the flat tag+length block sequence following the
// header. Past the last block, NextBlock returns a nil error with
// IsCurrentBlockValid reporting false, never EREAD.
type BlockReader struct {
	cur   *buffer.Cursor
	tag   byte
	body  []byte
	valid bool
}

// ParseHeader validates the magic and version, verifies the AP-CRC32
// checksum in the header when present, and returns a BlockReader positioned at the
// first block.
func ParseHeader(buf *buffer.Buffer) (Header, *BlockReader, error) {
	data := buf.Bytes()
	if len(data) < 5 || data[0] != magic[0] || data[1] != magic[1] || data[2] != magic[2] || data[3] != magic[3] {
		return Header{}, nil, xerr.EPARSE
	}
	version := data[4]
	if version != 1 && version != 2 {
		return Header{}, nil, xerr.EPARSE
	}

	hdr := Header{Version: version}
	blocksAt := 5

	if version == 2 {
		if len(data) < 6 {
			return Header{}, nil, xerr.EREAD
		}
		feature := data[5]
		hdr.HasCRC32 = feature&featureCRC32 != 0
		blocksAt = 6

		if hdr.HasCRC32 {
			if len(data) < blocksAt+4 {
				return Header{}, nil, xerr.EREAD
			}
			crcAt := blocksAt
			blocksAt += 4
			wantCRC := uint32(data[crcAt]) | uint32(data[crcAt+1])<<8 | uint32(data[crcAt+2])<<16 | uint32(data[crcAt+3])<<24
			checked := make([]byte, 0, len(data)-4)
			checked = append(checked, data[:crcAt]...)
			checked = append(checked, data[blocksAt:]...)
			if apCRC32(checked) != wantCRC {
				return Header{}, nil, xerr.ECORRUPTED
			}
		}
	}

	c := buffer.NewCursor(buf)
	if err := c.Seek(blocksAt); err != nil {
		return Header{}, nil, xerr.EREAD
	}
	br := &BlockReader{cur: c}
	if err := br.NextBlock(); err != nil {
		return Header{}, nil, err
	}
	return hdr, br, nil
}

// CurrentTag returns the current block's tag.
func (b *BlockReader) CurrentTag() byte { return b.tag }

// CurrentBody returns the current block's body bytes.
func (b *BlockReader) CurrentBody() []byte { return b.body }

// IsCurrentBlockValid reports whether the reader sits on a real block
// (false once the terminator or end of file has been reached).
func (b *BlockReader) IsCurrentBlockValid() bool { return b.valid }

// NextBlock decodes the following tag+length block. Reaching TagNone or
// the end of the buffer is not an error: it leaves IsCurrentBlockValid
// false.
func (b *BlockReader) NextBlock() error {
	if b.cur.Remaining() == 0 {
		b.valid = false
		return nil
	}
	tag, err := b.cur.ReadByte()
	if err != nil {
		return xerr.EREAD
	}
	if tag == TagNone {
		b.valid = false
		return nil
	}
	length, err := b.cur.ReadU16()
	if err != nil {
		return xerr.EREAD
	}
	body, err := b.cur.ReadBytes(int(length))
	if err != nil {
		return xerr.EREAD
	}
	b.tag = tag
	b.body = body
	b.valid = true
	return nil
}

// apCRC32Table is the AP-CRC32 (ArduPilot-style, non-reflected) table
// for polynomial 0x04C11DB7, MSB-first with a zero initial value.
var apCRC32Table = makeAPCRC32Table(0x04C11DB7)

func makeAPCRC32Table(poly uint32) [256]uint32 {
	var t [256]uint32
	for i := range t {
		crc := uint32(i) << 24
		for j := 0; j < 8; j++ {
			if crc&0x80000000 != 0 {
				crc = (crc << 1) ^ poly
			} else {
				crc <<= 1
			}
		}
		t[i] = crc
	}
	return t
}

func apCRC32(p []byte) uint32 {
	var crc uint32
	for _, v := range p {
		crc = apCRC32Table[byte(crc>>24)^v] ^ (crc << 8)
	}
	return crc
}
