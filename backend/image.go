/*
DESCRIPTION
  image.go provides MappableImage, the host-accessible view of a decoded
  surface's pixels, and the NV12/I420 planar copy kernels used to realize
  it. Pixel-format conversion is explicitly out of scope as a codec
  concern (spec.md §1), but the copy-with-stride routines are simple enough
  that the core implements them directly rather than leaving MappableImage
  unimplementable.

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

// MappableImage is a host-accessible view of a decoded surface's pixels.
type MappableImage interface {
	// ImageSize returns the buffer size Read expects, derived from format
	// and dimensions.
	ImageSize() int
	// Read copies decoded pixels into buf, which must have length
	// ImageSize(). Fails if buf is the wrong size or the format is
	// unsupported.
	Read(buf []byte) error
}

// Plane describes one plane of a surface's backing storage: its raw bytes,
// the stride (pitch) between rows in bytes, and the byte offset of the
// plane's first row within Bytes.
type Plane struct {
	Bytes  []byte
	Pitch  uint32
	Offset uint32
}

// PlaneSource is implemented by a Surface that can expose its raw plane
// data for mapping. Planes are ordered Y, U, V for I420 and Y, UV for NV12;
// a surface backing both formats exposes whichever planes its map format
// needs.
type PlaneSource interface {
	Planes() []Plane
}

// mappableImage implements MappableImage on top of a PlaneSource.
type mappableImage struct {
	src    PlaneSource
	format hwdecode.DecodedFormat
	res    hwdecode.Resolution
}

// ImageSize implements MappableImage.
func (m *mappableImage) ImageSize() int {
	return hwdecode.ImageSize(m.format, m.res)
}

// Read implements MappableImage.
func (m *mappableImage) Read(buf []byte) error {
	size := m.ImageSize()
	if len(buf) != size {
		return fmt.Errorf("backend: size mismatch: buffer is %d bytes, image is %d bytes", len(buf), size)
	}

	planes := m.src.Planes()
	switch m.format {
	case hwdecode.NV12:
		if len(planes) < 2 {
			return Errorf(ErrUnsupportedFormat, "NV12 surface exposes %d planes, want 2", len(planes))
		}
		return nv12Copy(planes[0], planes[1], buf, m.res.Width, m.res.Height)
	case hwdecode.I420:
		if len(planes) < 3 {
			return Errorf(ErrUnsupportedFormat, "I420 surface exposes %d planes, want 3", len(planes))
		}
		return i420Copy(planes[0], planes[1], planes[2], buf, m.res.Width, m.res.Height)
	default:
		return Errorf(ErrUnsupportedFormat, "decoded format %v", m.format)
	}
}

// nv12Copy copies a semi-planar 4:2:0 surface (one Y plane, one interleaved
// UV plane, width bytes per chroma row since each of the width/2 chroma
// samples is a U,V pair) into dst, honoring each plane's pitch.
func nv12Copy(y, uv Plane, dst []byte, width, height uint32) error {
	w, h := int(width), int(height)
	lumaSize := w * h
	copyPlane(dst[:lumaSize], y, w, h)
	copyPlane(dst[lumaSize:lumaSize+lumaSize/2], uv, w, h/2)
	return nil
}

// i420Copy copies a fully planar 4:2:0 surface (separate Y, U, V planes)
// into dst, honoring each plane's pitch.
func i420Copy(y, u, v Plane, dst []byte, width, height uint32) error {
	w, h := int(width), int(height)
	lumaSize := w * h
	chromaW, chromaH := w/2, h/2
	chromaSize := chromaW * chromaH

	copyPlane(dst[:lumaSize], y, w, h)
	copyPlane(dst[lumaSize:lumaSize+chromaSize], u, chromaW, chromaH)
	copyPlane(dst[lumaSize+chromaSize:lumaSize+2*chromaSize], v, chromaW, chromaH)
	return nil
}

// copyPlane copies rowBytes*rows bytes from src, starting at src.Offset
// and advancing src.Pitch bytes per row, into dst (tightly packed, no
// destination stride). rowBytes is the number of meaningful bytes per row;
// src.Pitch may exceed it if the surface's rows are padded.
func copyPlane(dst []byte, src Plane, rowBytes, rows int) {
	for row := 0; row < rows; row++ {
		srcStart := int(src.Offset) + row*int(src.Pitch)
		copy(dst[row*rowBytes:(row+1)*rowBytes], src.Bytes[srcStart:srcStart+rowBytes])
	}
}
