/*
DESCRIPTION
  resolution.go provides the Resolution type shared by every layer of the
  decoder: the bitstream parser, the surface pool, and the backend
  abstraction all agree on frame dimensions through this type.

AUTHORS
  Saxon A. Nelson-Milton <saxon@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package hwdecode provides a codec-independent coordination layer for
// stateless, hardware-accelerated video decoding: stream metadata
// lifecycle, output format negotiation, reference-picture bookkeeping and
// surface-pool admission control, sitting between a bitstream parser and an
// opaque "submit picture, poll completion" hardware backend.
package hwdecode

import "fmt"

// Resolution is a coded or display width/height pair. Once parsed from a
// stream, both fields are non-zero.
type Resolution struct {
	Width  uint32
	Height uint32
}

// String implements fmt.Stringer.
func (r Resolution) String() string {
	return fmt.Sprintf("%dx%d", r.Width, r.Height)
}

// IsZero reports whether r is the zero Resolution, i.e. not yet parsed.
func (r Resolution) IsZero() bool {
	return r.Width == 0 && r.Height == 0
}
