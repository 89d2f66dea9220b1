/*
DESCRIPTION
  errors.go provides the client-facing error taxonomy for decode() and
  flush(): the DecodeError wrapper and the sentinel causes a caller may test
  for with errors.Is.

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

import (
	"errors"
	"fmt"
)

// ErrCheckEvents indicates that the client must drain pending events and
// acknowledge a format change (see FormatNegotiator.Finish). When it is
// returned for the sequence-starting frame that began the negotiation, that
// frame has been stashed and is replayed by Finish, so it is not retried.
// When it is returned because a negotiation is already outstanding, the
// input was not parsed and the caller must retry with the exact same
// (timestamp, bitstream) once negotiation completes. Running out of free
// surfaces no longer surfaces this way: Decode blocks internally instead.
var ErrCheckEvents = errors.New("hwdecode: cannot accept more input until pending events are processed")

// DecodeError is returned by VideoDecoder.Decode and Flush. It is either a
// parser/invariant failure (wrapping the parser's own error) or a backend
// failure (wrapping the backend's error, usually a *backend.Error), and supports errors.Is/errors.As
// against the sentinels in this package and in the backend package.
type DecodeError struct {
	// CheckEvents is true when the caller should drain events and retry
	// with identical inputs rather than treat this as a hard failure.
	CheckEvents bool
	err         error
}

// NewDecoderError wraps a parser or invariant failure as a DecodeError.
func NewDecoderError(err error) *DecodeError {
	return &DecodeError{err: err}
}

// NewBackendDecodeError wraps a backend failure as a DecodeError.
func NewBackendDecodeError(err error) *DecodeError {
	return &DecodeError{err: err}
}

// NewCheckEventsError returns the DecodeError form of ErrCheckEvents.
func NewCheckEventsError() *DecodeError {
	return &DecodeError{CheckEvents: true, err: ErrCheckEvents}
}

// Error implements the error interface.
func (e *DecodeError) Error() string {
	if e.err == nil {
		return "hwdecode: decode error"
	}
	return fmt.Sprintf("hwdecode: %v", e.err)
}

// Unwrap allows errors.Is/errors.As to see through to the underlying cause.
func (e *DecodeError) Unwrap() error {
	return e.err
}
