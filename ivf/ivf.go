/*
DESCRIPTION
  ivf.go implements a minimal IVF reader, supplementing spec.md per
  original_source/'s test harness (src/decoders/vp8/decoder.rs's
  read_ivf_packet/vp8_decoding_loop): enough to read the packets of a
  real IVF-framed VP8 stream without pulling in a general container
  demuxer, which stays out of scope for the core. No other package of this
  module imports it.

AUTHORS
  Saxon A. Nelson-Milton <saxon@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package ivf is a test-side-only reader for the IVF container format
// used to package raw VP8/VP9 bitstreams in test vectors.
package ivf

import (
	"encoding/binary"
	"fmt"
	"io"
)

// fileHeaderSize is the fixed size in bytes of the IVF file header.
const fileHeaderSize = 32

// FileHeader is the fixed-size header at the start of an IVF file.
type FileHeader struct {
	Codec      [4]byte
	Width      uint16
	Height     uint16
	FrameRate  uint32
	TimeScale  uint32
	FrameCount uint32
}

// Reader reads successive (timestamp, payload) packets from an IVF
// stream after having consumed its file header.
type Reader struct {
	r      io.Reader
	Header FileHeader
}

// NewReader reads and validates the 32-byte IVF file header from r, then
// returns a Reader positioned at the first packet.
func NewReader(r io.Reader) (*Reader, error) {
	var raw [fileHeaderSize]byte
	if _, err := io.ReadFull(r, raw[:]); err != nil {
		return nil, fmt.Errorf("ivf: reading file header: %w", err)
	}
	if string(raw[0:4]) != "DKIF" {
		return nil, fmt.Errorf("ivf: bad signature %q", raw[0:4])
	}

	h := FileHeader{
		Width:      binary.LittleEndian.Uint16(raw[12:14]),
		Height:     binary.LittleEndian.Uint16(raw[14:16]),
		FrameRate:  binary.LittleEndian.Uint32(raw[16:20]),
		TimeScale:  binary.LittleEndian.Uint32(raw[20:24]),
		FrameCount: binary.LittleEndian.Uint32(raw[24:28]),
	}
	copy(h.Codec[:], raw[8:12])

	return &Reader{r: r, Header: h}, nil
}

// ReadPacket reads the next (len uint32 LE, pts uint64 LE, payload)
// packet record. It returns io.EOF once the stream is exhausted.
func (r *Reader) ReadPacket() (payload []byte, pts uint64, err error) {
	var hdr [12]byte
	if _, err := io.ReadFull(r.r, hdr[:]); err != nil {
		if err == io.ErrUnexpectedEOF {
			return nil, 0, io.EOF
		}
		return nil, 0, err
	}
	size := binary.LittleEndian.Uint32(hdr[0:4])
	pts = binary.LittleEndian.Uint64(hdr[4:12])

	payload = make([]byte, size)
	if _, err := io.ReadFull(r.r, payload); err != nil {
		return nil, 0, fmt.Errorf("ivf: reading %d-byte packet: %w", size, err)
	}
	return payload, pts, nil
}
