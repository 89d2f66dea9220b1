/*
DESCRIPTION
  backend.go defines the codec-independent backend contract the core
  consumes: resource accounting, format negotiation plumbing, and the
  submit/poll completion model. Codec-specific submission (e.g. VP8's
  submit_picture with reference slots) lives in the codec package that
  extends Decoder, mirroring how StreamInfo is also codec-specific.

AUTHORS
  Saxon A. Nelson-Milton <saxon@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package backend defines the contract between the codec-independent
// decoder core and an opaque "submit picture, poll completion" hardware
// acceleration backend, along with the surface pool and handle types that
// implement it for a concrete backend.
package backend

import (
	"errors"
	"fmt"

	"github.com/ausocean/hwdecode"
)

// BlockingMode controls whether a submission or poll waits for hardware
// completion before returning.
type BlockingMode int

const (
	// NonBlocking returns immediately; completion is observed later via
	// IsReady, Sync or a subsequent Poll.
	NonBlocking BlockingMode = iota
	// Blocking waits for the hardware operation to complete before
	// returning.
	Blocking
)

// Sentinel causes for Error, matching spec.md's backend error taxonomy.
var (
	// ErrOutOfResources means no free surface was available; the caller
	// must drain/drop a ready handle and retry the same input.
	ErrOutOfResources = errors.New("backend: no free surface to submit picture")
	// ErrResourceNotReady means a status query required Ready but found
	// the operation still Pending.
	ErrResourceNotReady = errors.New("backend: resource not ready")
	// ErrUnsupportedFormat means the requested rt_format/fourcc is not
	// offered by the driver.
	ErrUnsupportedFormat = errors.New("backend: unsupported format")
)

// Error is the error type returned by backend operations. NegotiationFailed
// carries the underlying cause; the other sentinels are returned directly
// or wrapped with extra context via Errorf.
type Error struct {
	cause         error
	negotiation   bool
	negotiationOf string
}

// Errorf wraps sentinel with additional context, preserving errors.Is
// compatibility.
func Errorf(sentinel error, format string, args ...any) *Error {
	return &Error{cause: fmt.Errorf("%w: %s", sentinel, fmt.Sprintf(format, args...))}
}

// NegotiationFailed builds a NegotiationFailed backend error with the given
// cause, e.g. try_format called outside the Possible state, or a format not
// present in the supported set.
func NegotiationFailed(reason string) *Error {
	return &Error{negotiation: true, negotiationOf: reason}
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.negotiation {
		return fmt.Sprintf("backend: negotiation failed: %s", e.negotiationOf)
	}
	if e.cause != nil {
		return e.cause.Error()
	}
	return "backend: error"
}

// Unwrap exposes the wrapped sentinel, if any, to errors.Is/errors.As.
func (e *Error) Unwrap() error {
	return e.cause
}

// Decoder is the codec-independent contract a hardware acceleration backend
// must provide. Codec packages (e.g. vp8) extend this with a
// codec-specific SubmitPicture method.
type Decoder interface {
	// CodedResolution reports the coded (surface) resolution, or false if
	// the stream has not been parsed yet.
	CodedResolution() (hwdecode.Resolution, bool)
	// DisplayResolution reports the display (cropped) resolution, or
	// false if the stream has not been parsed yet.
	DisplayResolution() (hwdecode.Resolution, bool)
	// NumResourcesTotal is the number of output surfaces allocated.
	NumResourcesTotal() int
	// NumResourcesLeft is the number of output surfaces currently free.
	NumResourcesLeft() int
	// Format is the currently negotiated DecodedFormat, or false if the
	// stream has not been parsed yet.
	Format() (hwdecode.DecodedFormat, bool)
	// SupportedFormats reports the DecodedFormats the driver can map
	// surfaces into for the stream described by info, used to populate a
	// FormatNegotiator before the client picks an output format.
	SupportedFormats(info StreamInfo) (map[hwdecode.DecodedFormat]bool, error)
	// TryFormat attempts to change the output format. info carries the
	// codec-specific stream parameters needed to reopen stream metadata
	// at the new format.
	TryFormat(info StreamInfo, format hwdecode.DecodedFormat) error
	// NewSequence is called when a sequence-starting frame (e.g. a VP8
	// key frame) is parsed, (re)opening stream metadata for info.
	NewSequence(info StreamInfo) error
	// Poll returns newly-ready handles. If mode is Blocking, it waits for
	// at least the oldest pending submission to complete.
	Poll(mode BlockingMode) ([]*Handle, error)
	// BlockOnHandle waits for h to become ready.
	BlockOnHandle(h *Handle) error
	// HandleIsReady is a non-blocking status query.
	HandleIsReady(h *Handle) bool
}
