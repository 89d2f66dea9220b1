package backend

import (
	"testing"

	"github.com/ausocean/hwdecode"
)

type fakeCompletion struct {
	ready bool
}

func (c *fakeCompletion) IsReady() (bool, error) { return c.ready, nil }
func (c *fakeCompletion) Wait() error             { c.ready = true; return nil }

func TestHandleCloneSharesState(t *testing.T) {
	res := hwdecode.Resolution{Width: 16, Height: 16}
	pool := NewSurfacePool([]Surface{fakeSurface{res}}, res)
	s, _ := pool.Acquire()

	comp := &fakeCompletion{}
	h := NewHandle(s, comp, pool, res, res, hwdecode.FormatMap{DecodedFormat: hwdecode.NV12}, 42)
	clone := h.Clone()

	if h.IsReady() {
		t.Fatalf("IsReady() = true before completion; want false")
	}
	if err := clone.Sync(); err != nil {
		t.Fatalf("clone.Sync() = %v", err)
	}
	if !h.IsReady() {
		t.Errorf("IsReady() on original after clone.Sync() = false; want true (shared state)")
	}
}

func TestHandleReleaseReturnsSurfaceOnLastRelease(t *testing.T) {
	res := hwdecode.Resolution{Width: 16, Height: 16}
	pool := NewSurfacePool([]Surface{fakeSurface{res}}, res)
	s, _ := pool.Acquire()
	if got := pool.Len(); got != 0 {
		t.Fatalf("Len() after Acquire = %d; want 0", got)
	}

	h := NewHandle(s, &fakeCompletion{ready: true}, pool, res, res, hwdecode.FormatMap{DecodedFormat: hwdecode.NV12}, 0)
	clone := h.Clone()

	clone.Release()
	if got := pool.Len(); got != 0 {
		t.Errorf("Len() after releasing one of two clones = %d; want 0", got)
	}

	h.Release()
	if got := pool.Len(); got != 1 {
		t.Errorf("Len() after releasing last clone = %d; want 1", got)
	}
}

func TestHandleReleaseDiscardsOnResolutionMismatch(t *testing.T) {
	res := hwdecode.Resolution{Width: 16, Height: 16}
	pool := NewSurfacePool([]Surface{fakeSurface{res}}, res)
	s, _ := pool.Acquire()

	h := NewHandle(s, &fakeCompletion{ready: true}, pool, res, res, hwdecode.FormatMap{DecodedFormat: hwdecode.NV12}, 0)

	// Simulate the pool having been replaced at a new resolution (as
	// StreamMetadata.Open does on a sequence change) before this handle
	// is released.
	newRes := hwdecode.Resolution{Width: 32, Height: 32}
	pool2 := NewSurfacePool(nil, newRes)
	h.shared.pool = pool2

	h.Release()
	if got := pool2.Len(); got != 0 {
		t.Errorf("Len() after releasing stale-resolution handle = %d; want 0 (discarded)", got)
	}
}
