/*
DESCRIPTION
  surfacepool.go provides Surface and SurfacePool: the fixed-capacity bag of
  reusable decode-target surfaces keyed by coded resolution, per spec.md
  §3/§4.1.

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

import "github.com/ausocean/hwdecode"

// Surface is an opaque driver resource sized to a coded resolution. It is
// owned exclusively by whichever holder currently possesses it (a
// SurfacePool or a Handle) and is never cloned.
type Surface interface {
	// Resolution returns the resolution this surface was created at.
	Resolution() hwdecode.Resolution
}

// SurfacePool is a fixed-capacity bag of reusable decode-target surfaces,
// all created at the same coded resolution. Every surface returned via
// Release that no longer matches CodedResolution is discarded rather than
// kept, per spec.md §4.1.
type SurfacePool struct {
	queue           []Surface
	codedResolution hwdecode.Resolution
}

// NewSurfacePool constructs a pool containing the given surfaces, all
// assumed to be sized to resolution.
func NewSurfacePool(surfaces []Surface, resolution hwdecode.Resolution) *SurfacePool {
	queue := make([]Surface, len(surfaces))
	copy(queue, surfaces)
	return &SurfacePool{queue: queue, codedResolution: resolution}
}

// Acquire pops the front surface, returning false if none are free.
func (p *SurfacePool) Acquire() (Surface, bool) {
	if len(p.queue) == 0 {
		return nil, false
	}
	s := p.queue[0]
	p.queue = p.queue[1:]
	return s, true
}

// Release pushes a surface back onto the pool if its resolution still
// matches CodedResolution; otherwise the surface is discarded. Callers must
// only pass surfaces that were originally acquired from a pool at this
// resolution; a mismatched resolution signals the pool was replaced since
// the surface was allocated (see StreamMetadata.Open).
func (p *SurfacePool) Release(s Surface) {
	if s.Resolution() != p.codedResolution {
		return
	}
	p.queue = append(p.queue, s)
}

// Len returns the number of free surfaces.
func (p *SurfacePool) Len() int {
	return len(p.queue)
}

// CodedResolution returns the resolution every surface in the pool was
// created at.
func (p *SurfacePool) CodedResolution() hwdecode.Resolution {
	return p.codedResolution
}
