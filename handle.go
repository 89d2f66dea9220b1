/*
DESCRIPTION
  handle.go provides DecodedHandle, the client-facing decoded frame token:
  a backend.Handle plus the display order assigned by the Decoder Driver's
  ready queue (spec.md §4.8), which the backend has no notion of.

AUTHORS
  Saxon A. Nelson-Milton <saxon@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package hwdecode

import "github.com/ausocean/hwdecode/backend"

// DecodedHandle is a decoded frame ready (or pending) for client
// consumption, carrying the display order the ready queue assigned it in
// addition to everything a backend.Handle already provides.
type DecodedHandle struct {
	*backend.Handle
	displayOrder uint64
}

// NewDecodedHandle wraps h with the display order assigned by the ready
// queue.
func NewDecodedHandle(h *backend.Handle, displayOrder uint64) *DecodedHandle {
	return &DecodedHandle{Handle: h, displayOrder: displayOrder}
}

// DisplayOrder returns the output position this handle was assigned,
// monotonically increasing per negotiated sequence.
func (h *DecodedHandle) DisplayOrder() uint64 {
	return h.displayOrder
}

// Clone returns a new DecodedHandle sharing the same underlying surface
// state, per backend.Handle.Clone, with the same display order.
func (h *DecodedHandle) Clone() *DecodedHandle {
	return &DecodedHandle{Handle: h.Handle.Clone(), displayOrder: h.displayOrder}
}
