/*
DESCRIPTION
  negotiator.go provides FormatNegotiator, the client-facing object handed
  out via a FormatChanged event (spec.md §4.5/§4.8). It gives the client
  exclusive, temporary access to the newly parsed stream's parameters so it
  can pick an output format, then must be explicitly Finished to resume
  decoding.

  The original gives the client this access by having the negotiator take
  the decoder by value and return it on Drop after applying the chosen
  format. Go has no destructors, so FormatNegotiator instead holds a
  reference to the decoder and requires an explicit Finish call, per the
  same design note as backend.Handle's explicit Release.

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

import "fmt"

// StreamParams is the set of stream parameters a FormatNegotiator exposes
// to the client for inspection before a format decision is made.
type StreamParams struct {
	CodedResolution   Resolution
	DisplayResolution Resolution
	MinNumSurfaces    int
	SupportedFormats  map[DecodedFormat]bool
}

// negotiable is the subset of a codec driver's behaviour FormatNegotiator
// needs: the ability to commit a chosen output format, and to be told when
// negotiation is complete so it can resume decoding (replaying the frame
// that triggered negotiation). vp8.Driver implements this.
type negotiable interface {
	TryFormat(format DecodedFormat) error
	Finish()
}

// FormatNegotiator holds exclusive access to the decoder while the client
// decides on an output format. Decode calls made to the owning driver
// before Finish is called return ErrCheckEvents.
type FormatNegotiator struct {
	decoder  negotiable
	params   StreamParams
	finished bool
}

// NewFormatNegotiator constructs a FormatNegotiator for the given decoder
// and newly parsed stream parameters.
func NewFormatNegotiator(decoder negotiable, params StreamParams) *FormatNegotiator {
	return &FormatNegotiator{decoder: decoder, params: params}
}

// StreamParams returns the newly parsed stream's parameters.
func (n *FormatNegotiator) StreamParams() StreamParams {
	return n.params
}

// TryFormat requests format as the backend's output format for this
// sequence. It may be called zero or more times before Finish; the last
// call wins. Panics if called after Finish, matching the original's
// "negotiator used after being consumed" invariant violation.
func (n *FormatNegotiator) TryFormat(format DecodedFormat) error {
	if n.finished {
		panic("hwdecode: TryFormat called on a finished FormatNegotiator")
	}
	if !n.params.SupportedFormats[format] {
		return fmt.Errorf("hwdecode: format %v not supported for this stream", format)
	}
	return n.decoder.TryFormat(format)
}

// Finish commits the negotiation and returns exclusive access to the
// decoder, unblocking subsequent Decode calls. It is a programming error
// to call Finish more than once.
func (n *FormatNegotiator) Finish() {
	if n.finished {
		panic("hwdecode: Finish called twice on the same FormatNegotiator")
	}
	n.finished = true
	n.decoder.Finish()
}
