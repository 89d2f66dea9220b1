/*
DESCRIPTION
  parser.go implements Parser, which walks a VP8 frame's uncompressed
  header (RFC 6386 section 9.1) and compressed header (sections 9.2-9.7)
  far enough to recover the fields the coordination core needs: frame
  type, dimensions, and the reference-refresh/copy-buffer/sign-bias
  fields consumed by References.Update. Fields describing segmentation,
  loop filtering, partition layout and quantization are walked (their
  bits are consumed in order) but not retained, since the core never
  reconstructs a macroblock.

AUTHORS
  Saxon A. Nelson-Milton <saxon@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package vp8 implements the VP8 bitstream header parser and Decoder
// Driver: the codec-specific layer that sits between a raw VP8 frame and
// the codec-independent hwdecode/backend machinery. It parses exactly as
// much of RFC 6386 as the coordination core needs and leaves macroblock
// reconstruction to the opaque hardware backend.
package vp8

import "github.com/pkg/errors"

// keyFrameStartCode is the 3-byte marker RFC 6386 section 9.1 requires
// immediately following a key frame's tag.
var keyFrameStartCode = [3]byte{0x9d, 0x01, 0x2a}

// Parser walks successive VP8 frames from one bitstream. It retains the
// coded dimensions across interframes, which carry no dimension fields of
// their own.
type Parser struct {
	width, height          uint16
	horizScale, vertScale  uint8
	haveDimensions         bool
}

// NewParser returns a Parser with no dimensions yet known; the first frame
// it sees must be a key frame.
func NewParser() *Parser {
	return &Parser{}
}

// Clone returns a copy of p's persisted state (the last key frame's
// dimensions and scale hints). The Driver does not use it: for a
// negotiation replay it stashes the frame bytes and header instead.
func (p *Parser) Clone() *Parser {
	clone := *p
	return &clone
}

// ParseFrame parses one frame's uncompressed and compressed header from
// data, which must contain at least the complete first partition (the
// remainder of the frame, if any, is the token/coefficient partitions the
// core never inspects). Dimensions are taken from the frame tag's key
// frame fields, or inherited from the last key frame parsed.
func (p *Parser) ParseFrame(data []byte) (*Header, error) {
	if len(data) < 3 {
		return nil, errors.New("vp8: frame shorter than the 3-byte frame tag")
	}

	tag := uint32(data[0]) | uint32(data[1])<<8 | uint32(data[2])<<16
	h := &Header{
		KeyFrame:      tag&0x1 == 0,
		Version:       Version((tag >> 1) & 0x7),
		ShowFrame:     (tag>>4)&0x1 != 0,
		FirstPartSize: (tag >> 5) & 0x7ffff,
	}

	off := 3
	if h.KeyFrame {
		if len(data) < off+7 {
			return nil, errors.New("vp8: key frame shorter than the fixed-size dimension header")
		}
		if data[off] != keyFrameStartCode[0] || data[off+1] != keyFrameStartCode[1] || data[off+2] != keyFrameStartCode[2] {
			return nil, errors.New("vp8: key frame missing start code")
		}
		off += 3

		widthField := uint16(data[off]) | uint16(data[off+1])<<8
		heightField := uint16(data[off+2]) | uint16(data[off+3])<<8
		off += 4

		p.width = widthField & 0x3fff
		p.horizScale = uint8(widthField >> 14)
		p.height = heightField & 0x3fff
		p.vertScale = uint8(heightField >> 14)
		p.haveDimensions = true
	}

	if !p.haveDimensions {
		return nil, errors.New("vp8: interframe parsed before any key frame")
	}
	h.Width, h.Height = p.width, p.height
	h.HorizScale, h.VertScale = p.horizScale, p.vertScale

	if len(data) < off+int(h.FirstPartSize) {
		return nil, errors.Errorf("vp8: first partition size %d exceeds %d bytes remaining", h.FirstPartSize, len(data)-off)
	}
	bd, err := newBoolDecoder(data[off : off+int(h.FirstPartSize)])
	if err != nil {
		return nil, errors.Wrap(err, "vp8: initializing bool decoder over first partition")
	}

	if err := parseCompressedHeader(bd, h); err != nil {
		return nil, errors.Wrap(err, "vp8: parsing compressed header")
	}
	return h, nil
}

// parseCompressedHeader walks RFC 6386 sections 9.2 through 9.7 in order,
// since the boolean decoder's bit position depends on every field read
// before it. Segmentation, loop filter, partition-count and quantizer
// fields are consumed but discarded; only the reference-management
// fields of section 9.7 are retained on h.
func parseCompressedHeader(bd *boolDecoder, h *Header) error {
	if h.KeyFrame {
		_ = bd.flag() // color_space
		_ = bd.flag() // clamping_type
	}

	if err := parseSegmentation(bd); err != nil {
		return errors.Wrap(err, "segmentation")
	}
	parseLoopFilter(bd)
	parsePartitionCount(bd)
	parseQuantIndices(bd)

	if h.KeyFrame {
		h.RefreshGoldenFrame = true
		h.RefreshAlternateFrame = true
		h.RefreshLast = true
		h.RefreshEntropyProbs = bd.flag()
		return nil
	}

	h.RefreshGoldenFrame = bd.flag()
	h.RefreshAlternateFrame = bd.flag()
	if !h.RefreshGoldenFrame {
		cb, err := readCopyBuffer(bd)
		if err != nil {
			return errors.Wrap(err, "copy_buffer_to_golden")
		}
		h.CopyBufferToGolden = cb
	}
	if !h.RefreshAlternateFrame {
		cb, err := readCopyBuffer(bd)
		if err != nil {
			return errors.Wrap(err, "copy_buffer_to_alternate")
		}
		h.CopyBufferToAlternate = cb
	}
	h.SignBiasGolden = bd.flag()
	h.SignBiasAltRef = bd.flag()
	h.RefreshEntropyProbs = bd.flag()
	h.RefreshLast = bd.flag()
	return nil
}

// readCopyBuffer reads the 2-bit copy_buffer_to_golden/alternate field of
// RFC 6386 section 9.7 and validates it against the three values the
// format defines (0, 1, 2); any other value is a bitstream conformance
// error, reported to the caller rather than panicking.
func readCopyBuffer(bd *boolDecoder) (CopyBuffer, error) {
	v := bd.literal(2)
	switch v {
	case 0:
		return NoCopy, nil
	case 1:
		return CopyFromLast, nil
	case 2:
		return CopyFromOther, nil
	default:
		return 0, errors.Errorf("value %d out of range [0,2]", v)
	}
}

// parseSegmentation consumes RFC 6386 section 9.3's segment-based
// adjustment fields without retaining them.
func parseSegmentation(bd *boolDecoder) error {
	enabled := bd.flag()
	if !enabled {
		return nil
	}
	updateMap := bd.flag()
	updateData := bd.flag()
	if updateData {
		_ = bd.flag() // segment_feature_mode
		for i := 0; i < 4; i++ {
			bd.optionalSignedLiteral(7) // quantizer update
		}
		for i := 0; i < 4; i++ {
			bd.optionalSignedLiteral(6) // loop filter update
		}
	}
	if updateMap {
		for i := 0; i < 3; i++ {
			if bd.flag() {
				_ = bd.literal(8)
			}
		}
	}
	return nil
}

// parseLoopFilter consumes RFC 6386 section 9.4's loop filter fields.
func parseLoopFilter(bd *boolDecoder) {
	_ = bd.flag()      // filter_type
	_ = bd.literal(6)  // loop_filter_level
	_ = bd.literal(3)  // sharpness_level
	if bd.flag() {     // loop_filter_adj_enable
		if bd.flag() { // mode_ref_lf_delta_update
			for i := 0; i < 4; i++ {
				bd.optionalSignedLiteral(6)
			}
			for i := 0; i < 4; i++ {
				bd.optionalSignedLiteral(6)
			}
		}
	}
}

// parsePartitionCount consumes RFC 6386 section 9.5's DCT partition count
// field.
func parsePartitionCount(bd *boolDecoder) {
	_ = bd.literal(2) // log2_nbr_of_DCT_partitions
}

// parseQuantIndices consumes RFC 6386 section 9.6's quantizer fields.
func parseQuantIndices(bd *boolDecoder) {
	_ = bd.literal(7) // y_ac_qi
	bd.optionalSignedLiteral(4) // y_dc_delta_q
	bd.optionalSignedLiteral(4) // y2_dc_delta_q
	bd.optionalSignedLiteral(4) // y2_ac_delta_q
	bd.optionalSignedLiteral(4) // uv_dc_delta_q
	bd.optionalSignedLiteral(4) // uv_ac_delta_q
}
