/*
DESCRIPTION
  booldecoder.go implements the VP8 boolean (arithmetic) entropy decoder
  described in RFC 6386 section 7, used to read every field of the
  compressed frame header (section 9).

AUTHORS
  Saxon A. Nelson-Milton <saxon@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package vp8

import "github.com/pkg/errors"

// boolDecoder is the VP8 range/arithmetic decoder of RFC 6386 section 7.3.
// It consumes a byte slice (the compressed partition, starting right after
// the uncompressed frame tag and, for key frames, the dimensions) and
// serves a sequence of boolean decisions, each made against a probability
// in [1,255].
type boolDecoder struct {
	buf   []byte
	pos   int
	value uint32
	rng   uint32
	bits  int // number of bits of value that are "live" above the top byte
}

// newBoolDecoder initializes a boolDecoder over buf per RFC 6386 section
// 7.3's init_bool_decoder: range starts at 255 and the first two bytes are
// loaded into value.
func newBoolDecoder(buf []byte) (*boolDecoder, error) {
	if len(buf) < 2 {
		return nil, errors.New("vp8: compressed header shorter than 2 bytes")
	}
	d := &boolDecoder{buf: buf, rng: 255}
	d.value = uint32(buf[0])<<8 | uint32(buf[1])
	d.pos = 2
	d.bits = 0
	return d, nil
}

// nextByte returns the next input byte, or 0 once the buffer is exhausted
// (RFC 6386 permits reading past the end of the partition; the bitstream
// is constructed so this never affects a conformant decode).
func (d *boolDecoder) nextByte() byte {
	if d.pos >= len(d.buf) {
		d.pos++
		return 0
	}
	b := d.buf[d.pos]
	d.pos++
	return b
}

// bool decodes one boolean value with the given probability (of a 0 bit)
// in [1,255], per RFC 6386 section 7.3's bool_decode.
func (d *boolDecoder) bool(prob uint8) int {
	split := 1 + (((d.rng - 1) * uint32(prob)) >> 8)
	bigSplit := split << 8

	var ret int
	if d.value >= bigSplit {
		ret = 1
		d.rng -= split
		d.value -= bigSplit
	} else {
		ret = 0
		d.rng = split
	}

	for d.rng < 128 {
		d.value <<= 1
		d.rng <<= 1
		d.bits++
		if d.bits == 8 {
			d.bits = 0
			d.value |= uint32(d.nextByte())
		}
	}
	return ret
}

// flag decodes a single boolean with probability 128 (an unweighted flag
// bit), per RFC 6386 section 7.3's bool_get_bit.
func (d *boolDecoder) flag() bool {
	return d.bool(128) != 0
}

// literal decodes n bits, most significant first, each with probability
// 128, per RFC 6386 section 7.3's bool_get_uint.
func (d *boolDecoder) literal(n int) uint32 {
	var v uint32
	for i := 0; i < n; i++ {
		v = v<<1 | uint32(d.bool(128))
	}
	return v
}

// signedLiteral decodes an n-bit magnitude followed by a sign flag (1
// means negative), the "L(n), sign" pattern used throughout RFC 6386
// section 9 (e.g. quantizer deltas).
func (d *boolDecoder) signedLiteral(n int) int32 {
	v := int32(d.literal(n))
	if d.flag() {
		return -v
	}
	return v
}

// optionalSignedLiteral decodes a presence flag, then if set an n-bit
// magnitude and sign, returning (0, false) when absent. This is the "if
// (update) { L(n), sign }" pattern RFC 6386 section 9.3/9.6 uses for
// per-segment and per-reference-frame deltas.
func (d *boolDecoder) optionalSignedLiteral(n int) (int32, bool) {
	if !d.flag() {
		return 0, false
	}
	return d.signedLiteral(n), true
}
