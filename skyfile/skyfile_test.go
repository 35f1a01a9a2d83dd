/*
NAME
  skyfile_test.go

DESCRIPTION
  skyfile_test.go validates header parsing, the AP-CRC32 check (both
  passing and mismatched), block iteration including unknown-tag
  skipping, and the past-last-block SUCCESS-with-invalid contract.

AUTHOR
  Mara Voss <mara@windlass.aero>

LICENSE
  Copyright (C) 2026 Windlass Aero. All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of Windlass Aero.
*/

package skyfile

import (
	"encoding/binary"
	"testing"

	"github.com/windlass-aero/skyplay/buffer"
)

func appendBlock(out []byte, tag byte, body []byte) []byte {
	out = append(out, tag)
	var lenB [2]byte
	binary.LittleEndian.PutUint16(lenB[:], uint16(len(body)))
	out = append(out, lenB[:]...)
	return append(out, body...)
}

func TestParseHeaderVersion1NoCRC(t *testing.T) {
	var out []byte
	out = append(out, magic[:]...)
	out = append(out, 1)
	out = appendBlock(out, TagComment, []byte("hi"))
	out = append(out, TagNone)

	hdr, br, err := ParseHeader(buffer.NewView(out))
	if err != nil {
		t.Fatalf("ParseHeader: %v", err)
	}
	if hdr.Version != 1 || hdr.HasCRC32 {
		t.Errorf("hdr = %+v, want version 1, no CRC", hdr)
	}
	if !br.IsCurrentBlockValid() || br.CurrentTag() != TagComment {
		t.Fatalf("first block = tag %v valid %v, want TagComment valid", br.CurrentTag(), br.IsCurrentBlockValid())
	}
}

func buildVersion2(t *testing.T, withCRC bool, corrupt bool) []byte {
	t.Helper()
	var body []byte
	body = appendBlock(body, TagTrajectory, []byte{1, 2, 3})
	body = append(body, TagNone)

	var out []byte
	out = append(out, magic[:]...)
	out = append(out, 2)
	feature := byte(0)
	if withCRC {
		feature |= featureCRC32
	}
	out = append(out, feature)

	if withCRC {
		header := append([]byte{}, out...)
		checked := append(append([]byte{}, header...), body...)
		crc := apCRC32(checked)
		if corrupt {
			crc ^= 0xFFFFFFFF
		}
		var crcB [4]byte
		binary.LittleEndian.PutUint32(crcB[:], crc)
		out = append(out, crcB[:]...)
	}
	out = append(out, body...)
	return out
}

func TestParseHeaderVersion2CRCPasses(t *testing.T) {
	data := buildVersion2(t, true, false)
	hdr, br, err := ParseHeader(buffer.NewView(data))
	if err != nil {
		t.Fatalf("ParseHeader: %v", err)
	}
	if !hdr.HasCRC32 {
		t.Fatalf("hdr.HasCRC32 = false, want true")
	}
	if br.CurrentTag() != TagTrajectory {
		t.Errorf("CurrentTag = %v, want TagTrajectory", br.CurrentTag())
	}
}

func TestParseHeaderVersion2CRCMismatch(t *testing.T) {
	data := buildVersion2(t, true, true)
	_, _, err := ParseHeader(buffer.NewView(data))
	if err == nil {
		t.Fatalf("expected ECORRUPTED on CRC mismatch, got nil")
	}
}

func TestBlockWalkPastLastIsValidFalseNotError(t *testing.T) {
	var out []byte
	out = append(out, magic[:]...)
	out = append(out, 1)
	out = appendBlock(out, TagLightProgram, []byte{9})
	out = append(out, TagNone)

	_, br, err := ParseHeader(buffer.NewView(out))
	if err != nil {
		t.Fatalf("ParseHeader: %v", err)
	}
	if err := br.NextBlock(); err != nil {
		t.Fatalf("NextBlock at terminator: %v", err)
	}
	if br.IsCurrentBlockValid() {
		t.Errorf("IsCurrentBlockValid() = true past the terminator, want false")
	}
}

func TestUnknownTagsDoNotBreakIteration(t *testing.T) {
	var out []byte
	out = append(out, magic[:]...)
	out = append(out, 1)
	out = appendBlock(out, 200, []byte{1, 2, 3, 4}) // unrecognized tag.
	out = appendBlock(out, TagComment, []byte("ok"))
	out = append(out, TagNone)

	_, br, err := ParseHeader(buffer.NewView(out))
	if err != nil {
		t.Fatalf("ParseHeader: %v", err)
	}
	if br.CurrentTag() != 200 {
		t.Fatalf("first tag = %v, want 200", br.CurrentTag())
	}
	if err := br.NextBlock(); err != nil {
		t.Fatalf("NextBlock: %v", err)
	}
	if br.CurrentTag() != TagComment {
		t.Errorf("second tag = %v, want TagComment", br.CurrentTag())
	}
}
