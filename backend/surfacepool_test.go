package backend

import (
	"testing"

	"github.com/ausocean/hwdecode"
)

type fakeSurface struct {
	res hwdecode.Resolution
}

func (s fakeSurface) Resolution() hwdecode.Resolution { return s.res }

func TestSurfacePoolAcquireRelease(t *testing.T) {
	res := hwdecode.Resolution{Width: 16, Height: 16}
	pool := NewSurfacePool([]Surface{fakeSurface{res}, fakeSurface{res}}, res)

	if got := pool.Len(); got != 2 {
		t.Fatalf("Len() = %d; want 2", got)
	}

	s1, ok := pool.Acquire()
	if !ok {
		t.Fatalf("Acquire() ok = false; want true")
	}
	if got := pool.Len(); got != 1 {
		t.Errorf("Len() after one Acquire = %d; want 1", got)
	}

	pool.Release(s1)
	if got := pool.Len(); got != 2 {
		t.Errorf("Len() after Release = %d; want 2", got)
	}
}

func TestSurfacePoolAcquireEmpty(t *testing.T) {
	pool := NewSurfacePool(nil, hwdecode.Resolution{Width: 16, Height: 16})
	if _, ok := pool.Acquire(); ok {
		t.Errorf("Acquire() on empty pool ok = true; want false")
	}
}

func TestSurfacePoolReleaseDiscardsMismatchedResolution(t *testing.T) {
	res := hwdecode.Resolution{Width: 16, Height: 16}
	pool := NewSurfacePool([]Surface{fakeSurface{res}}, res)
	s, _ := pool.Acquire()

	other := hwdecode.Resolution{Width: 32, Height: 32}
	pool.Release(fakeSurface{other})
	if got := pool.Len(); got != 0 {
		t.Errorf("Len() after releasing mismatched-resolution surface = %d; want 0", got)
	}

	pool.Release(s)
	if got := pool.Len(); got != 1 {
		t.Errorf("Len() after releasing matching surface = %d; want 1", got)
	}
}
