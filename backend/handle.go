/*
DESCRIPTION
  handle.go provides Handle, the decoded-frame token described in spec.md
  §3/§4.2: a surface, an async completion state (Pending/Ready/Invalid),
  display geometry, a pixel-format descriptor, and a back-reference to its
  pool for return-on-release.

  Rust's Rc<RefCell<...>> shared-ownership-with-interior-mutability and
  Drop-triggered release have no direct Go equivalent (no destructors, no
  compiler-checked aliasing), so Handle models "last clone drops" with an
  explicit reference count and an explicit Release method. Every holder of
  a clone releases it: the driver releases the clones it keeps for
  submission, polling and reference slots, and the client releases each
  handle delivered to it.

AUTHORS
  Saxon A. Nelson-Milton <saxon@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package backend

import (
	"fmt"

	"github.com/ausocean/hwdecode"
)

// pictureState is the rendering state of a submitted picture.
type pictureState int

const (
	// statePending means the picture has been submitted but completion
	// has not yet been observed.
	statePending pictureState = iota
	// stateReady means completion has been observed; the surface is
	// accessible for mapping.
	stateReady
	// stateInvalid is a transient sentinel used only while the surface is
	// being moved out during Release.
	stateInvalid
)

// Completion lets a Handle observe the backend's asynchronous completion of
// a submitted picture, the Go analogue of libva's picture sync/status
// query.
type Completion interface {
	// IsReady is a non-blocking poll.
	IsReady() (bool, error)
	// Wait blocks until the operation completes.
	Wait() error
}

// sharedState is the data every clone of a Handle observes in common.
type sharedState struct {
	state             pictureState
	surface           Surface
	completion        Completion
	pool              *SurfacePool
	codedResolution   hwdecode.Resolution
	displayResolution hwdecode.Resolution
	mapFormat         hwdecode.FormatMap
	timestamp         uint64
	refCount          int
}

// Handle is a decoded-frame token. Clones share the same underlying state
// via a pointer to sharedState; all clones observe the same Pending->Ready
// transition.
type Handle struct {
	shared *sharedState
}

// NewHandle creates a new Pending Handle for a just-submitted picture.
func NewHandle(surface Surface, completion Completion, pool *SurfacePool, codedResolution, displayResolution hwdecode.Resolution, mapFormat hwdecode.FormatMap, timestamp uint64) *Handle {
	return &Handle{shared: &sharedState{
		state:             statePending,
		surface:           surface,
		completion:        completion,
		pool:              pool,
		codedResolution:   codedResolution,
		displayResolution: displayResolution,
		mapFormat:         mapFormat,
		timestamp:         timestamp,
		refCount:          1,
	}}
}

// Clone returns a new Handle sharing the same underlying state; the
// original and the clone observe the same completion transition and the
// surface is only returned to the pool once every clone has been Released.
func (h *Handle) Clone() *Handle {
	h.shared.refCount++
	return &Handle{shared: h.shared}
}

// IsReady is a non-blocking status query. A true value is terminal.
func (h *Handle) IsReady() bool {
	if h.shared.state == stateReady {
		return true
	}
	ready, err := h.shared.completion.IsReady()
	if err != nil {
		return false
	}
	if ready {
		h.shared.state = stateReady
	}
	return ready
}

// Sync blocks until the handle is Ready. It is idempotent.
func (h *Handle) Sync() error {
	if h.shared.state == stateReady {
		return nil
	}
	if err := h.shared.completion.Wait(); err != nil {
		return err
	}
	h.shared.state = stateReady
	return nil
}

// Timestamp returns the stream timestamp carried from submission.
func (h *Handle) Timestamp() uint64 {
	return h.shared.timestamp
}

// DisplayResolution returns the handle's display resolution.
func (h *Handle) DisplayResolution() hwdecode.Resolution {
	return h.shared.displayResolution
}

// CodedResolution returns the coded resolution this handle's surface was
// allocated at, used to decide whether Release can return it to the
// current pool.
func (h *Handle) CodedResolution() hwdecode.Resolution {
	return h.shared.codedResolution
}

// Map implies Sync and returns a host-accessible view of the decoded
// pixels. It fails with ErrUnsupportedFormat if the map format's fourcc is
// unknown to this package's copy kernels.
func (h *Handle) Map() (MappableImage, error) {
	if err := h.Sync(); err != nil {
		return nil, fmt.Errorf("backend: sync before map: %w", err)
	}
	src, ok := h.shared.surface.(PlaneSource)
	if !ok {
		return nil, Errorf(ErrUnsupportedFormat, "surface does not expose plane data")
	}
	switch h.shared.mapFormat.FourCC {
	case hwdecode.FourCCNV12, hwdecode.FourCCI420:
		return &mappableImage{
			src:    src,
			format: h.shared.mapFormat.DecodedFormat,
			res:    h.shared.displayResolution,
		}, nil
	default:
		return nil, Errorf(ErrUnsupportedFormat, "fourcc %v", h.shared.mapFormat.FourCC)
	}
}

// Release drops this clone. On the last clone's release, per spec.md §4.2:
// move state into a local, best-effort sync if Pending, extract the
// surface, and return it to the pool iff the pool's coded resolution still
// matches this handle's -- otherwise the surface is dropped. Errors
// encountered while syncing on release are swallowed per spec.md §7.
func (h *Handle) Release() {
	h.shared.refCount--
	if h.shared.refCount > 0 {
		return
	}

	state := h.shared.state
	h.shared.state = stateInvalid
	if state == statePending {
		_ = h.shared.completion.Wait() // best-effort; swallow errors per spec.md §7.
	}

	surface := h.shared.surface
	h.shared.surface = nil
	if surface == nil {
		return
	}
	if h.shared.pool.CodedResolution() == h.shared.codedResolution {
		h.shared.pool.Release(surface)
	}
}
