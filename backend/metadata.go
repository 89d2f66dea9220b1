/*
DESCRIPTION
  metadata.go provides StreamMetadata, the two-phase (Unparsed/Parsed)
  object that encapsulates (re)configuration of the decode context: driver
  capability queries, config/context/surface allocation, and the resulting
  surface pool.

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

// Rect is a visible rectangle within a coded surface, as (Left, Top) to
// (Right, Bottom), exclusive of the bottom-right corner.
type Rect struct {
	Left, Top, Right, Bottom uint32
}

// Width returns the rectangle's width.
func (r Rect) Width() uint32 { return r.Right - r.Left }

// Height returns the rectangle's height.
func (r Rect) Height() uint32 { return r.Bottom - r.Top }

// StreamInfo is the codec-specific information the backend needs in order
// to (re)configure the decode context: profile, RT format, coded size,
// visible rectangle and minimum surface count, all derived from a parsed
// sequence header.
type StreamInfo interface {
	// Profile returns the codec profile (e.g. a VP8/VAProfile-style tag).
	Profile() int
	// RTFormat returns the RT format (chroma/bit-depth family) required.
	RTFormat() hwdecode.RTFormat
	// MinNumSurfaces returns the minimum number of surfaces required to
	// decode the stream (reference slots plus in-flight margin).
	MinNumSurfaces() int
	// CodedSize returns the coded (surface) resolution.
	CodedSize() hwdecode.Resolution
	// VisibleRect returns the visible rectangle within the coded size.
	VisibleRect() Rect
}

// Allocator is the driver capability StreamMetadata uses to query format
// support and allocate surfaces/contexts. A real backend implements this on
// top of its hardware driver handle; fakebackend implements it in software.
type Allocator interface {
	// SupportedFourCCs returns the fourccs the driver can map into for the
	// given profile and rt format, used to filter DefaultFormatMap down to
	// what's actually usable for this stream.
	SupportedFourCCs(profile int, rt hwdecode.RTFormat) (map[hwdecode.FourCC]bool, error)
	// CreateSurfaces allocates n surfaces at resolution for the given
	// profile/rt/fourcc triple, along with an opaque context bound to
	// them. The returned Context is closed when metadata is reopened.
	CreateSurfaces(profile int, rt hwdecode.RTFormat, fourcc hwdecode.FourCC, resolution hwdecode.Resolution, n int) ([]Surface, Context, error)
}

// Context is an opaque driver object binding a configuration to a set of
// surfaces for a decode session.
type Context interface {
	Close() error
}

// ParsedMetadata holds the fields available once a stream's metadata has
// been parsed and a decode context created.
type ParsedMetadata struct {
	Context           Context
	SurfacePool       *SurfacePool
	MinNumSurfaces    int
	DisplayResolution hwdecode.Resolution
	MapFormat         hwdecode.FormatMap
	RTFormat          hwdecode.RTFormat
	Profile           int
}

// StreamMetadata is the two-phase stream metadata object of spec.md §4.4:
// Unparsed until the first Open call succeeds, Parsed afterwards. The zero
// value reports Unparsed but has no Allocator, so Open panics on it; use
// NewStreamMetadata.
type StreamMetadata struct {
	alloc  Allocator
	parsed *ParsedMetadata
}

// NewStreamMetadata returns an Unparsed StreamMetadata that will use alloc
// to satisfy future Open calls.
func NewStreamMetadata(alloc Allocator) *StreamMetadata {
	return &StreamMetadata{alloc: alloc}
}

// Parsed reports whether Open has succeeded at least once, and returns the
// current parsed state.
func (m *StreamMetadata) Parsed() (*ParsedMetadata, bool) {
	return m.parsed, m.parsed != nil
}

// SupportedFormatsForStream filters DefaultFormatMap by (a) RTFormat match
// and (b) driver advertisement of the fourcc, returning the set of
// DecodedFormats usable without conversion. Fails if metadata is Unparsed.
func (m *StreamMetadata) SupportedFormatsForStream() (map[hwdecode.DecodedFormat]bool, error) {
	if m.parsed == nil {
		return nil, fmt.Errorf("backend: stream metadata not parsed yet")
	}
	fourccs, err := m.alloc.SupportedFourCCs(m.parsed.Profile, m.parsed.RTFormat)
	if err != nil {
		return nil, err
	}
	out := make(map[hwdecode.DecodedFormat]bool)
	for _, f := range hwdecode.DefaultFormatMap {
		if f.RTFormat == m.parsed.RTFormat && fourccs[f.FourCC] {
			out[f.DecodedFormat] = true
		}
	}
	return out, nil
}

// Open initializes or reinitializes the codec state per spec.md §4.4:
// verify driver support for the stream's rt_format, choose a FormatMap
// entry, allocate a fresh context and surface pool, and replace m with the
// resulting Parsed state. A nil formatMap means "pick the default".
func (m *StreamMetadata) Open(info StreamInfo, formatMap *hwdecode.FormatMap) error {
	profile := info.Profile()
	rt := info.RTFormat()

	fourccs, err := m.alloc.SupportedFourCCs(profile, rt)
	if err != nil {
		return Errorf(ErrUnsupportedFormat, "rt_format %v not supported for profile %d: %v", rt, profile, err)
	}

	chosen := formatMap
	if chosen == nil {
		fm, ok := hwdecode.FindDefaultFormat(rt)
		if !ok {
			return Errorf(ErrUnsupportedFormat, "no format map entry for rt_format %v", rt)
		}
		chosen = &fm
	}
	if !fourccs[chosen.FourCC] {
		return Errorf(ErrUnsupportedFormat, "driver does not advertise fourcc for %v", chosen.DecodedFormat)
	}

	codedSize := info.CodedSize()
	minSurfaces := info.MinNumSurfaces()

	surfaces, ctx, err := m.alloc.CreateSurfaces(profile, rt, chosen.FourCC, codedSize, minSurfaces)
	if err != nil {
		return fmt.Errorf("backend: could not create surfaces: %w", err)
	}

	if m.parsed != nil && m.parsed.Context != nil {
		_ = m.parsed.Context.Close()
	}

	visible := info.VisibleRect()
	m.parsed = &ParsedMetadata{
		Context:        ctx,
		SurfacePool:    NewSurfacePool(surfaces, codedSize),
		MinNumSurfaces: minSurfaces,
		DisplayResolution: hwdecode.Resolution{
			Width:  visible.Width(),
			Height: visible.Height(),
		},
		MapFormat: *chosen,
		RTFormat:  rt,
		Profile:   profile,
	}
	return nil
}
