/*
DESCRIPTION
  decoder.go defines VideoDecoder, the public, codec-independent decoding
  contract a client drives: push timestamped bitstream units in, drain
  events out. Codec packages (e.g. vp8) implement it.

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

// VideoDecoder is the contract every codec driver (vp8.Driver and future
// codec drivers) implements. A single VideoDecoder handles one bitstream
// from one encoded sequence at a time; decoding a second, differently
// configured stream requires a new VideoDecoder.
type VideoDecoder interface {
	// Decode submits one encoded bitstream unit (e.g. one VP8 frame) at the
	// given presentation timestamp. It returns a *DecodeError wrapping
	// ErrCheckEvents when a format change needs client negotiation. A
	// sequence-starting frame that triggers negotiation is stashed by the
	// driver and replayed when the negotiation is finished, so it is not to
	// be resubmitted. A call made while a negotiation is still outstanding
	// consumes nothing; the caller must drain events via NextEvent, finish
	// the negotiation and retry with the identical (timestamp, bitstream)
	// pair. Running out of free surfaces is not reported this way: Decode blocks
	// internally until the oldest undelivered frame is ready and room
	// opens up. Any other error is terminal for this VideoDecoder.
	Decode(timestamp uint64, bitstream []byte) error

	// Flush drains any frames still pending in the reference/ready-queue
	// pipeline, delivering them as FrameReady events before returning.
	Flush() error

	// NumResourcesTotal is the number of output surfaces allocated for the
	// current sequence, 0 before the first sequence header is parsed.
	NumResourcesTotal() int

	// NumResourcesLeft is the number of currently free output surfaces.
	NumResourcesLeft() int

	// CodedResolution reports the coded (surface) resolution of the
	// current sequence, or false if no sequence header has been parsed
	// yet.
	CodedResolution() (Resolution, bool)

	// Format reports the output DecodedFormat the backend is currently
	// configured with, or false if no sequence header has been parsed yet.
	// While a negotiation is outstanding this is the default format, or
	// the one last accepted by FormatNegotiator.TryFormat.
	Format() (DecodedFormat, bool)

	// NextEvent pops the oldest pending event, or returns false if the
	// queue is empty. The client must keep draining events (and, for
	// FormatChanged, call FormatNegotiator.Finish) before Decode will
	// accept further input.
	NextEvent() (DecoderEvent, bool)
}
