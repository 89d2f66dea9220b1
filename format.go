/*
DESCRIPTION
  format.go provides DecodedFormat, the pixel layouts the core knows how to
  negotiate and map, and FormatMap, the table that ties a driver RT format to
  a concrete fourcc and DecodedFormat.

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

// DecodedFormat names a pixel layout the core can negotiate with the
// client. It is extensible: new tags can be added without touching the
// negotiation or reference-management logic.
type DecodedFormat int

const (
	// NV12 is semi-planar 4:2:0: one Y plane, one interleaved UV plane.
	NV12 DecodedFormat = iota
	// I420 is planar 4:2:0: separate Y, U and V planes.
	I420
)

// String implements fmt.Stringer.
func (f DecodedFormat) String() string {
	switch f {
	case NV12:
		return "NV12"
	case I420:
		return "I420"
	default:
		return "unknown"
	}
}

// RT format tags, analogous to VA_RT_FORMAT_*. VP8/VP9/H.264 baseline all
// decode into 8-bit 4:2:0, so only one tag is needed today; the type is
// widened to a named uint32 so additional chroma/bit-depth families can be
// added for other codecs without a breaking change.
type RTFormat uint32

// RTFormatYUV420 is 8-bit 4:2:0 chroma subsampling.
const RTFormatYUV420 RTFormat = 1

// FourCC identifies a concrete pixel layout the way V4L2/VA-API do: four
// ASCII characters packed little-endian into a uint32.
type FourCC uint32

func fourCC(a, b, c, d byte) FourCC {
	return FourCC(uint32(a) | uint32(b)<<8 | uint32(c)<<16 | uint32(d)<<24)
}

// FourCCNV12 and FourCCI420 are the standard V4L2/VA-API fourcc codes for
// the two formats the core supports.
var (
	FourCCNV12 = fourCC('N', 'V', '1', '2')
	FourCCI420 = fourCC('I', '4', '2', '0')
)

// FormatMap ties a driver RT format to the fourcc the driver should be
// asked to map surfaces into, and the DecodedFormat that fourcc corresponds
// to from the client's point of view.
type FormatMap struct {
	RTFormat      RTFormat
	FourCC        FourCC
	DecodedFormat DecodedFormat
}

// DefaultFormatMap is the core's static, ordered format preference list.
// For a given RTFormat, the first matching entry is the default chosen by
// StreamMetadata.Open when the caller does not request a specific format.
var DefaultFormatMap = []FormatMap{
	{RTFormat: RTFormatYUV420, FourCC: FourCCNV12, DecodedFormat: NV12},
	{RTFormat: RTFormatYUV420, FourCC: FourCCI420, DecodedFormat: I420},
}

// FindDefaultFormat returns the first FormatMap entry whose RTFormat
// matches rt, or false if none does.
func FindDefaultFormat(rt RTFormat) (FormatMap, bool) {
	for _, m := range DefaultFormatMap {
		if m.RTFormat == rt {
			return m, true
		}
	}
	return FormatMap{}, false
}

// FindByDecodedFormat returns the first FormatMap entry for the given
// DecodedFormat, or false if none is known.
func FindByDecodedFormat(f DecodedFormat) (FormatMap, bool) {
	for _, m := range DefaultFormatMap {
		if m.DecodedFormat == f {
			return m, true
		}
	}
	return FormatMap{}, false
}

// ImageSize returns the byte size of a decoded image of format f at the
// given display resolution, accounting for 4:2:0 chroma subsampling shared
// by both NV12 and I420 (one luma sample, half a chroma sample per pixel).
func ImageSize(f DecodedFormat, r Resolution) int {
	luma := int(r.Width) * int(r.Height)
	switch f {
	case NV12, I420:
		return luma + luma/2
	default:
		return 0
	}
}
