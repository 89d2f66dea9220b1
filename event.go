/*
DESCRIPTION
  event.go provides DecoderEvent, the event queue drained via
  VideoDecoder.NextEvent per spec.md §4.8/§6: a format change requiring
  client negotiation, or a decoded frame ready for output in display
  order.

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

// EventKind distinguishes the variants of DecoderEvent.
type EventKind int

const (
	// FormatChanged is emitted when the negotiation state machine reaches
	// Possible: decode is blocked until the client consumes a
	// FormatNegotiator and calls Finish.
	FormatChanged EventKind = iota
	// FrameReady is emitted for each handle that reaches display order,
	// ready for the client to Map and consume.
	FrameReady
)

// String implements fmt.Stringer.
func (k EventKind) String() string {
	switch k {
	case FormatChanged:
		return "FormatChanged"
	case FrameReady:
		return "FrameReady"
	default:
		return "unknown"
	}
}

// DecoderEvent is one entry of the event queue drained by NextEvent.
// Negotiator is non-nil iff Kind is FormatChanged; Handle is non-nil iff
// Kind is FrameReady.
type DecoderEvent struct {
	Kind       EventKind
	Negotiator *FormatNegotiator
	Handle     *DecodedHandle
}
