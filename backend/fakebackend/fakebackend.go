/*
DESCRIPTION
  fakebackend.go implements a software stand-in for a hardware
  acceleration backend, supplementing spec.md per original_source/'s
  test-only dummy decoder (src/decoders/vp8/decoder.rs's
  test_decoder_dummy). It satisfies vp8.Backend without ever touching
  real hardware: surfaces are plain byte buffers, submissions complete
  after a configurable number of polls rather than instantly, and decoded
  pixel data is a synthetic pattern derived from the frame's timestamp --
  not a real VP8 reconstruction, which stays out of scope for the core.

AUTHORS
  Saxon A. Nelson-Milton <saxon@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package fakebackend is a software hwdecode/vp8.Backend used by tests in
// place of real hardware acceleration.
package fakebackend

import (
	"fmt"

	"github.com/ausocean/hwdecode"
	"github.com/ausocean/hwdecode/backend"
	"github.com/ausocean/hwdecode/vp8"
)

// Backend is a software vp8.Backend. The zero value is not usable; use
// New.
type Backend struct {
	meta    *backend.StreamMetadata
	alloc   *allocator
	latency int
	pending []*backend.Handle
}

// New returns a Backend whose submissions become Ready only after
// latency subsequent IsReady/Poll observations (0 means "ready
// immediately"), letting tests exercise the Pending path deterministically
// without real timing.
func New(latency int) *Backend {
	alloc := newAllocator()
	return &Backend{meta: backend.NewStreamMetadata(alloc), alloc: alloc, latency: latency}
}

// CodedResolution implements backend.Decoder.
func (b *Backend) CodedResolution() (hwdecode.Resolution, bool) {
	p, ok := b.meta.Parsed()
	if !ok {
		return hwdecode.Resolution{}, false
	}
	return p.SurfacePool.CodedResolution(), true
}

// DisplayResolution implements backend.Decoder.
func (b *Backend) DisplayResolution() (hwdecode.Resolution, bool) {
	p, ok := b.meta.Parsed()
	if !ok {
		return hwdecode.Resolution{}, false
	}
	return p.DisplayResolution, true
}

// NumResourcesTotal implements backend.Decoder.
func (b *Backend) NumResourcesTotal() int {
	p, ok := b.meta.Parsed()
	if !ok {
		return 0
	}
	return p.MinNumSurfaces
}

// NumResourcesLeft implements backend.Decoder.
func (b *Backend) NumResourcesLeft() int {
	p, ok := b.meta.Parsed()
	if !ok {
		return 0
	}
	return p.SurfacePool.Len()
}

// Format implements backend.Decoder.
func (b *Backend) Format() (hwdecode.DecodedFormat, bool) {
	p, ok := b.meta.Parsed()
	if !ok {
		return 0, false
	}
	return p.MapFormat.DecodedFormat, true
}

// SupportedFormats implements backend.Decoder.
func (b *Backend) SupportedFormats(info backend.StreamInfo) (map[hwdecode.DecodedFormat]bool, error) {
	fourccs, err := b.alloc.SupportedFourCCs(info.Profile(), info.RTFormat())
	if err != nil {
		return nil, err
	}
	out := make(map[hwdecode.DecodedFormat]bool)
	for _, fm := range hwdecode.DefaultFormatMap {
		if fm.RTFormat == info.RTFormat() && fourccs[fm.FourCC] {
			out[fm.DecodedFormat] = true
		}
	}
	return out, nil
}

// TryFormat implements backend.Decoder.
func (b *Backend) TryFormat(info backend.StreamInfo, format hwdecode.DecodedFormat) error {
	fm, ok := hwdecode.FindByDecodedFormat(format)
	if !ok {
		return backend.Errorf(backend.ErrUnsupportedFormat, "no format map entry for %v", format)
	}
	b.pending = nil
	return b.meta.Open(info, &fm)
}

// NewSequence implements backend.Decoder.
func (b *Backend) NewSequence(info backend.StreamInfo) error {
	b.pending = nil
	return b.meta.Open(info, nil)
}

// Poll implements backend.Decoder.
func (b *Backend) Poll(mode backend.BlockingMode) ([]*backend.Handle, error) {
	var ready, still []*backend.Handle
	for _, h := range b.pending {
		if mode == backend.Blocking {
			if err := h.Sync(); err != nil {
				return nil, err
			}
			ready = append(ready, h)
			continue
		}
		if h.IsReady() {
			ready = append(ready, h)
		} else {
			still = append(still, h)
		}
	}
	b.pending = still
	return ready, nil
}

// BlockOnHandle implements backend.Decoder.
func (b *Backend) BlockOnHandle(h *backend.Handle) error {
	return h.Sync()
}

// HandleIsReady implements backend.Decoder.
func (b *Backend) HandleIsReady(h *backend.Handle) bool {
	return h.IsReady()
}

// SubmitPicture implements vp8.Backend. It acquires a free surface, fills
// it with a synthetic pattern derived from timestamp, and returns a
// Pending handle that becomes Ready after b.latency observations.
func (b *Backend) SubmitPicture(h *vp8.Header, refs *vp8.References, bitstream []byte, timestamp uint64) (*backend.Handle, error) {
	p, ok := b.meta.Parsed()
	if !ok {
		return nil, backend.Errorf(backend.ErrUnsupportedFormat, "no sequence negotiated yet")
	}

	s, ok := p.SurfacePool.Acquire()
	if !ok {
		return nil, backend.Errorf(backend.ErrOutOfResources, "no free surface for submission")
	}
	sw, ok := s.(*surface)
	if !ok {
		return nil, fmt.Errorf("fakebackend: surface pool returned unexpected type %T", s)
	}
	sw.fillSynthetic(timestamp)

	handle := backend.NewHandle(s, &completion{ticksRemaining: b.latency}, p.SurfacePool, p.SurfacePool.CodedResolution(), p.DisplayResolution, p.MapFormat, timestamp)
	b.pending = append(b.pending, handle.Clone())
	return handle, nil
}
