/*
DESCRIPTION
  header.go defines Header, the parsed subset of a VP8 frame's
  uncompressed and compressed headers the coordination core needs: enough
  to drive sequence negotiation, reference-picture bookkeeping and
  admission control, per RFC 6386 sections 9.1-9.7. Full macroblock/DCT
  parsing is out of scope: reconstruction happens in the opaque hardware
  backend, not here.

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

// Version is the VP8 "version number" of RFC 6386 section 9.2, selecting
// the reconstruction/loop filter profile. The core never reconstructs
// pixels itself, but the version is still required as part of the codec
// profile the backend is configured with.
type Version uint8

// CopyBuffer names which reference slot a non-refreshed golden or
// alt-ref frame copies its contents from, per RFC 6386 section 9.7. Only
// NoCopy, CopyFromLast and CopyFromOther are valid;
// anything else in the bitstream is a conformance error.
type CopyBuffer uint8

const (
	// NoCopy means the reference slot is left untouched this frame.
	NoCopy CopyBuffer = iota
	// CopyFromLast copies the last-frame reference buffer.
	CopyFromLast
	// CopyFromOther copies the other non-last reference buffer (golden
	// when updating alt-ref, alt-ref when updating golden).
	CopyFromOther
)

// Header is the parsed VP8 frame header, covering RFC 6386 sections 9.1
// (uncompressed data chunk) through 9.7 (refresh golden frame / sign bias
// / refresh entropy probs / refresh last).
type Header struct {
	// KeyFrame is true for a key frame (frame_type == 0), matching RFC
	// 6386's inverted sense of the on-the-wire bit.
	KeyFrame bool
	// Version is the wire version/profile number, 0-3.
	Version Version
	// ShowFrame is false for an invisible "alt-ref" frame, never queued
	// for display.
	ShowFrame bool
	// FirstPartSize is the size in bytes of the first (compressed header
	// + per-macroblock mode/motion) partition, from the 19-bit uncompressed
	// frame tag field.
	FirstPartSize uint32

	// Width and Height are in pixels (14 bits each, RFC 6386 section 9.1).
	// Only key frames carry them in the bitstream; the parser fills an
	// interframe's header with those of the last key frame. HorizScale/
	// VertScale are the 2-bit upscale hints, carried through the same way
	// but not acted on by the core.
	Width       uint16
	Height      uint16
	HorizScale  uint8
	VertScale   uint8

	// RefreshGoldenFrame and RefreshAlternateFrame request that the
	// respective slot be replaced with this frame's own reconstruction.
	// Always true on a key frame (both, and last, are implicitly
	// refreshed).
	RefreshGoldenFrame    bool
	RefreshAlternateFrame bool
	// CopyBufferToGolden/CopyBufferToAlternate are only meaningful when
	// the corresponding Refresh* flag above is false; see
	// References.Update.
	CopyBufferToGolden    CopyBuffer
	CopyBufferToAlternate CopyBuffer

	// SignBiasGolden and SignBiasAltRef record each non-last reference's
	// sign-bias bit, used by the backend's motion-vector reconstruction;
	// always false on a key frame.
	SignBiasGolden bool
	SignBiasAltRef bool

	// RefreshEntropyProbs is false when this frame's probability-table
	// updates should be discarded after decode rather than persisted to
	// the next frame.
	RefreshEntropyProbs bool
	// RefreshLast requests the "last frame" reference slot be replaced
	// with this frame's own reconstruction. Always true on a key frame.
	RefreshLast bool
}
