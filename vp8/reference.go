/*
DESCRIPTION
  reference.go implements References, the VP8 Reference Picture Manager
  of spec.md §4.7: the last/golden/alt-ref reference slots, updated each
  frame from the refresh and copy-buffer header fields per RFC 6386
  section 9.7.

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

// References holds the three reference slots a VP8 inter frame predicts
// from. Each slot is a clone of a backend.Handle (refcounted, so the slot
// and anything still displaying the same picture share ownership) or nil
// before the first key frame.
type References struct {
	last   *backend.Handle
	golden *backend.Handle
	alt    *backend.Handle
}

// Update applies h's refresh/copy-buffer header fields to the reference
// slots, per RFC 6386 section 9.7 and the table in spec.md §4.7. It must
// be called exactly once per decoded frame, after the frame's own handle
// has been obtained from the backend. h.CopyBufferToGolden/Alternate are
// assumed already validated against {NoCopy, CopyFromLast, CopyFromOther}
// by the parser, which reports an out-of-range wire value as a parse
// error rather than ever constructing an invalid CopyBuffer.
func (r *References) Update(h *Header, handle *backend.Handle) {
	// Resolve copy-buffer sources before mutating any slot, since "copy
	// golden from alt" and "copy alt from golden" must both observe the
	// pre-update slot contents.
	newGolden := r.resolve(h.RefreshGoldenFrame, h.CopyBufferToGolden, handle, r.alt)
	newAlt := r.resolve(h.RefreshAlternateFrame, h.CopyBufferToAlternate, handle, r.golden)

	r.replace(&r.golden, newGolden)
	r.replace(&r.alt, newAlt)
	if h.RefreshLast {
		r.replace(&r.last, handle.Clone())
	}
}

// resolve computes the new value for one of the golden/alt-ref slots.
// other is the opposite non-last slot (alt when resolving golden, golden
// when resolving alt), the CopyFromOther source.
func (r *References) resolve(refresh bool, copyFrom CopyBuffer, current *backend.Handle, other *backend.Handle) *backend.Handle {
	if refresh {
		return current.Clone()
	}
	switch copyFrom {
	case CopyFromLast:
		if r.last == nil {
			return nil
		}
		return r.last.Clone()
	case CopyFromOther:
		if other == nil {
			return nil
		}
		return other.Clone()
	default: // NoCopy
		return nil
	}
}

// replace installs newHandle (which may be nil, meaning "no change") into
// *slot, releasing whatever the slot held before.
func (r *References) replace(slot **backend.Handle, newHandle *backend.Handle) {
	if newHandle == nil {
		return
	}
	if *slot != nil {
		(*slot).Release()
	}
	*slot = newHandle
}

// Last, Golden and AltRef return the current contents of each slot, or
// nil if that slot has never been set (i.e. no key frame decoded yet).
func (r *References) Last() *backend.Handle   { return r.last }
func (r *References) Golden() *backend.Handle { return r.golden }
func (r *References) AltRef() *backend.Handle { return r.alt }

// Reset releases all three slots, used when a new, incompatible sequence
// begins (spec.md §4.6: a key frame with a new resolution invalidates
// every prior reference).
func (r *References) Reset() {
	for _, slot := range []**backend.Handle{&r.last, &r.golden, &r.alt} {
		if *slot != nil {
			(*slot).Release()
			*slot = nil
		}
	}
}
