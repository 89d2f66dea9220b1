/*
DESCRIPTION
  stream_info.go implements backend.StreamInfo for VP8, deriving the
  profile, RT format, coded size, visible rectangle and minimum surface
  count a key frame's header implies, per spec.md §4.4.

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

import (
	"github.com/ausocean/hwdecode"
	"github.com/ausocean/hwdecode/backend"
)

// minReferenceSurfaces is the number of reference slots VP8 needs (last,
// golden, alt-ref) plus one for the frame currently being decoded and two
// more so the client can hold a couple of ready frames without stalling
// admission control immediately.
const minReferenceSurfaces = 3 + 1 + 2

// streamInfo implements backend.StreamInfo from a key frame's header.
type streamInfo struct {
	header *Header
}

// newStreamInfo wraps a key frame's header as a backend.StreamInfo. h must
// have KeyFrame set; VP8 only carries dimensions on key frames.
func newStreamInfo(h *Header) *streamInfo {
	return &streamInfo{header: h}
}

// Profile implements backend.StreamInfo. VP8 has a single profile family;
// the wire version selects the in-loop filter/reconstruction variant, not
// a distinct negotiated profile, but is surfaced here since a real
// hardware driver may expose it as such.
func (s *streamInfo) Profile() int {
	return int(s.header.Version)
}

// RTFormat implements backend.StreamInfo. VP8 is always 8-bit 4:2:0.
func (s *streamInfo) RTFormat() hwdecode.RTFormat {
	return hwdecode.RTFormatYUV420
}

// MinNumSurfaces implements backend.StreamInfo.
func (s *streamInfo) MinNumSurfaces() int {
	return minReferenceSurfaces
}

// CodedSize implements backend.StreamInfo, rounding the visible
// dimensions up to the next multiple of 16 as RFC 6386's macroblock grid
// requires.
func (s *streamInfo) CodedSize() hwdecode.Resolution {
	return hwdecode.Resolution{
		Width:  mbAlign(uint32(s.header.Width)),
		Height: mbAlign(uint32(s.header.Height)),
	}
}

// VisibleRect implements backend.StreamInfo: VP8 has no separate cropping
// rectangle, so the visible rect is the full coded-size frame clipped to
// the header's pixel dimensions.
func (s *streamInfo) VisibleRect() backend.Rect {
	return backend.Rect{
		Left:   0,
		Top:    0,
		Right:  uint32(s.header.Width),
		Bottom: uint32(s.header.Height),
	}
}

// mbAlign rounds x up to the next multiple of 16.
func mbAlign(x uint32) uint32 {
	return (x + 15) &^ 15
}
