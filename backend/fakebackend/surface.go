/*
DESCRIPTION
  surface.go implements the software surface, allocator and completion
  types backing fakebackend.Backend.

AUTHORS
  Saxon A. Nelson-Milton <saxon@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package fakebackend

import (
	"fmt"

	"github.com/ausocean/hwdecode"
	"github.com/ausocean/hwdecode/backend"
)

// surface is a software decode-target surface: a single contiguous
// buffer laid out as either NV12 (Y plane then interleaved UV) or I420
// (separate Y, U, V planes), decided at allocation time by the
// negotiated fourcc.
type surface struct {
	res    hwdecode.Resolution
	fourcc hwdecode.FourCC
	data   []byte
}

func newSurface(res hwdecode.Resolution, fourcc hwdecode.FourCC) *surface {
	format := hwdecode.NV12
	if fourcc == hwdecode.FourCCI420 {
		format = hwdecode.I420
	}
	return &surface{res: res, fourcc: fourcc, data: make([]byte, hwdecode.ImageSize(format, res))}
}

// Resolution implements backend.Surface.
func (s *surface) Resolution() hwdecode.Resolution {
	return s.res
}

// Planes implements backend.PlaneSource.
func (s *surface) Planes() []backend.Plane {
	w, h := int(s.res.Width), int(s.res.Height)
	luma := w * h
	if s.fourcc == hwdecode.FourCCI420 {
		chroma := luma / 4
		return []backend.Plane{
			{Bytes: s.data[:luma], Pitch: uint32(w), Offset: 0},
			{Bytes: s.data[luma : luma+chroma], Pitch: uint32(w / 2), Offset: 0},
			{Bytes: s.data[luma+chroma:], Pitch: uint32(w / 2), Offset: 0},
		}
	}
	return []backend.Plane{
		{Bytes: s.data[:luma], Pitch: uint32(w), Offset: 0},
		{Bytes: s.data[luma:], Pitch: uint32(w), Offset: 0},
	}
}

// fillSynthetic overwrites the surface with a pattern derived from
// timestamp: not a real VP8 reconstruction, just enough for tests to
// assert that a given decoded handle corresponds to a given input frame.
func (s *surface) fillSynthetic(timestamp uint64) {
	luma := int(s.res.Width) * int(s.res.Height)
	y, chroma := byte(timestamp), byte(timestamp>>8)
	for i := 0; i < luma; i++ {
		s.data[i] = y
	}
	for i := luma; i < len(s.data); i++ {
		s.data[i] = chroma
	}
}

// allocator is a software backend.Allocator: it advertises NV12 and I420
// support for the one rt_format the core knows about and allocates
// surfaces as plain byte buffers.
type allocator struct{}

func newAllocator() *allocator {
	return &allocator{}
}

// SupportedFourCCs implements backend.Allocator.
func (a *allocator) SupportedFourCCs(profile int, rt hwdecode.RTFormat) (map[hwdecode.FourCC]bool, error) {
	if rt != hwdecode.RTFormatYUV420 {
		return nil, fmt.Errorf("fakebackend: unsupported rt_format %v", rt)
	}
	return map[hwdecode.FourCC]bool{hwdecode.FourCCNV12: true, hwdecode.FourCCI420: true}, nil
}

// CreateSurfaces implements backend.Allocator.
func (a *allocator) CreateSurfaces(profile int, rt hwdecode.RTFormat, fourcc hwdecode.FourCC, resolution hwdecode.Resolution, n int) ([]backend.Surface, backend.Context, error) {
	surfaces := make([]backend.Surface, n)
	for i := range surfaces {
		surfaces[i] = newSurface(resolution, fourcc)
	}
	return surfaces, noopContext{}, nil
}

// noopContext implements backend.Context; the software backend has no
// driver resource to release.
type noopContext struct{}

func (noopContext) Close() error { return nil }

// completion implements backend.Completion with a tick-based fake
// latency: IsReady returns false exactly ticksRemaining times before
// reporting Ready, and Wait jumps straight to Ready.
type completion struct {
	ticksRemaining int
}

// IsReady implements backend.Completion.
func (c *completion) IsReady() (bool, error) {
	if c.ticksRemaining <= 0 {
		return true, nil
	}
	c.ticksRemaining--
	return false, nil
}

// Wait implements backend.Completion.
func (c *completion) Wait() error {
	c.ticksRemaining = 0
	return nil
}
