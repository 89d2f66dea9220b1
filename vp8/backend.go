/*
DESCRIPTION
  backend.go defines Backend, the VP8-specific extension of
  backend.Decoder adding the one operation every codec backend needs that
  is not codec-independent: submitting a picture for reconstruction
  against its reference frames.

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

import "github.com/ausocean/hwdecode/backend"

// Backend is the contract a hardware acceleration backend must satisfy to
// back a VP8 Driver: the codec-independent backend.Decoder operations,
// plus VP8 picture submission.
type Backend interface {
	backend.Decoder

	// SubmitPicture submits one parsed frame for reconstruction. refs
	// gives the backend the last/golden/alt-ref handles this frame may
	// predict from (nil for slots not yet set, always nil/irrelevant on a
	// key frame). bitstream is the complete frame, including the
	// uncompressed header the backend's own parser re-derives its
	// macroblock/DCT state from. The returned handle is Pending until the
	// backend's completion mechanism observes it Ready, and is owned by
	// the caller (the Driver), which must Release it once it has taken
	// whatever clones it needs for the reference slots and ready queue.
	SubmitPicture(h *Header, refs *References, bitstream []byte, timestamp uint64) (*backend.Handle, error)
}
