package vp8

import (
	"errors"
	"testing"

	"github.com/ausocean/hwdecode"
	"github.com/ausocean/hwdecode/backend"
	"github.com/ausocean/hwdecode/backend/fakebackend"
)

func negotiate(t *testing.T, d *Driver, format hwdecode.DecodedFormat) {
	t.Helper()
	ev, ok := d.NextEvent()
	if !ok || ev.Kind != hwdecode.FormatChanged {
		t.Fatalf("NextEvent() = %+v, %v; want a FormatChanged event", ev, ok)
	}
	if err := ev.Negotiator.TryFormat(format); err != nil {
		t.Fatalf("TryFormat(%v) = %v", format, err)
	}
	ev.Negotiator.Finish()
}

// A key frame on a driver with no prior sequence must trigger negotiation
// rather than being submitted directly.
func TestDriverKeyFrameTriggersNegotiation(t *testing.T) {
	d := NewDriver(fakebackend.New(0), DriverConfig{})

	err := d.Decode(0, keyFrame(16, 16))
	var de *hwdecode.DecodeError
	if !errors.As(err, &de) || !de.CheckEvents {
		t.Fatalf("Decode() on first key frame = %v; want a CheckEvents DecodeError", err)
	}

	ev, ok := d.NextEvent()
	if !ok || ev.Kind != hwdecode.FormatChanged {
		t.Fatalf("NextEvent() = %+v, %v; want FormatChanged", ev, ok)
	}
	params := ev.Negotiator.StreamParams()
	if !params.SupportedFormats[hwdecode.NV12] {
		t.Errorf("SupportedFormats = %v; want NV12 supported", params.SupportedFormats)
	}

	if err := ev.Negotiator.TryFormat(hwdecode.NV12); err != nil {
		t.Fatalf("TryFormat(NV12) = %v", err)
	}
	ev.Negotiator.Finish()

	// Finish replays the stashed key frame; it should now have produced a
	// FrameReady event rather than leaving anything pending.
	ev2, ok := d.NextEvent()
	if !ok || ev2.Kind != hwdecode.FrameReady {
		t.Fatalf("NextEvent() after Finish = %+v, %v; want FrameReady", ev2, ok)
	}
	if ev2.Handle.DisplayOrder() != 0 {
		t.Errorf("first frame's DisplayOrder = %d; want 0", ev2.Handle.DisplayOrder())
	}
}

// Once negotiated, decoding further frames with blocking submission
// completes synchronously and each call yields exactly one FrameReady
// event for a shown frame.
func TestDriverBlockingDecode25fps(t *testing.T) {
	d := NewDriver(fakebackend.New(3), DriverConfig{BlockingMode: backend.Blocking})

	if err := d.Decode(0, keyFrame(16, 16)); err == nil {
		t.Fatalf("Decode() on first key frame = nil; want CheckEvents error")
	}
	negotiate(t, d, hwdecode.NV12)
	if _, ok := d.NextEvent(); !ok {
		t.Fatalf("NextEvent() after negotiation = false; want the replayed key frame's FrameReady")
	}

	for i := uint64(1); i <= 5; i++ {
		if err := d.Decode(i*40, interFrame()); err != nil {
			t.Fatalf("Decode() frame %d = %v", i, err)
		}
		ev, ok := d.NextEvent()
		if !ok || ev.Kind != hwdecode.FrameReady {
			t.Fatalf("NextEvent() frame %d = %+v, %v; want FrameReady", i, ev, ok)
		}
		if ev.Handle.DisplayOrder() != i {
			t.Errorf("frame %d DisplayOrder = %d; want %d", i, ev.Handle.DisplayOrder(), i)
		}
		// Blocking submission guarantees the handle is immediately synced.
		if !ev.Handle.IsReady() {
			t.Errorf("frame %d IsReady() = false; want true under blocking submission", i)
		}
	}
}

// With non-blocking submission, a handle may still be Pending right after
// Decode returns. The driver must not deliver it as FrameReady until it is
// actually observed Ready (spec.md §8: "every handle delivered from
// decode/flush/poll satisfies is_ready()"), and must not error in the
// meantime either.
func TestDriverNonBlockingDecode25fps(t *testing.T) {
	d := NewDriver(fakebackend.New(2), DriverConfig{BlockingMode: backend.NonBlocking})

	if err := d.Decode(0, keyFrame(16, 16)); err == nil {
		t.Fatalf("Decode() on first key frame = nil; want CheckEvents error")
	}
	negotiate(t, d, hwdecode.NV12)
	// The replayed key frame is forced through blocking (the Possible-state
	// override), so it comes back already Ready.
	ev0, ok := d.NextEvent()
	if !ok || ev0.Kind != hwdecode.FrameReady || !ev0.Handle.IsReady() {
		t.Fatalf("NextEvent() after negotiation = %+v, %v; want a Ready FrameReady", ev0, ok)
	}

	if err := d.Decode(40, interFrame()); err != nil {
		t.Fatalf("Decode() = %v", err)
	}
	// latency=2: not ready yet, so nothing should be delivered.
	if ev, ok := d.NextEvent(); ok {
		t.Fatalf("NextEvent() = %+v; want none until the frame is actually Ready", ev)
	}

	if err := d.Decode(80, interFrame()); err != nil {
		t.Fatalf("Decode() = %v", err)
	}
	// The polling done while handling this second call has ticked the
	// first frame's completion down; it should now be delivered, and every
	// delivered handle must satisfy IsReady().
	ev, ok := d.NextEvent()
	if !ok || ev.Kind != hwdecode.FrameReady {
		t.Fatalf("NextEvent() = %+v, %v; want FrameReady", ev, ok)
	}
	if !ev.Handle.IsReady() {
		t.Errorf("delivered handle IsReady() = false; every delivered handle must be Ready")
	}
}

// A key frame whose resolution differs from the current sequence must
// re-trigger negotiation, discarding prior references.
func TestDriverResolutionChangeRenegotiates(t *testing.T) {
	d := NewDriver(fakebackend.New(0), DriverConfig{})

	d.Decode(0, keyFrame(16, 16))
	negotiate(t, d, hwdecode.NV12)
	d.NextEvent() // drain the replayed key frame's FrameReady

	err := d.Decode(40, keyFrame(64, 48))
	var de *hwdecode.DecodeError
	if !errors.As(err, &de) || !de.CheckEvents {
		t.Fatalf("Decode() on resolution-changing key frame = %v; want CheckEvents", err)
	}
	ev, ok := d.NextEvent()
	if !ok || ev.Kind != hwdecode.FormatChanged {
		t.Fatalf("NextEvent() = %+v, %v; want a second FormatChanged", ev, ok)
	}
	want := hwdecode.Resolution{Width: 64, Height: 48}
	if ev.Negotiator.StreamParams().DisplayResolution != want {
		t.Errorf("DisplayResolution = %+v; want %+v", ev.Negotiator.StreamParams().DisplayResolution, want)
	}
}

// Admission control: once every surface is pinned by frames still in
// flight, Decode must block internally until the ready queue's head frame
// is ready and deliverable -- never report an error -- and delivery must
// continue with contiguous display orders once it does (spec.md §4.8 step
// 5, §8 scenario 5).
func TestDriverAdmissionControlBlocksRatherThanErrors(t *testing.T) {
	// latency=10 keeps frames Pending across several Decode calls, so all
	// six surfaces are pinned by the fifth interframe.
	d := NewDriver(fakebackend.New(10), DriverConfig{BlockingMode: backend.NonBlocking})
	if err := d.Decode(0, keyFrame(16, 16)); err == nil {
		t.Fatalf("Decode() on first key frame = nil; want CheckEvents error")
	}
	negotiate(t, d, hwdecode.NV12)

	var delivered []uint64
	drain := func() {
		for {
			ev, ok := d.NextEvent()
			if !ok {
				return
			}
			if ev.Kind != hwdecode.FrameReady {
				continue
			}
			delivered = append(delivered, ev.Handle.DisplayOrder())
			ev.Handle.Release()
		}
	}
	drain() // the replayed key frame's FrameReady

	const frames = 20
	for i := uint64(1); i <= frames; i++ {
		if err := d.Decode(i*40, interFrame()); err != nil {
			t.Fatalf("Decode() frame %d = %v; want nil (admission control must block, not error)", i, err)
		}
		drain()
	}
	// Force out whatever is still in flight.
	if err := d.Flush(); err != nil {
		t.Fatalf("Flush() = %v", err)
	}
	drain()

	if len(delivered) != frames+1 {
		t.Fatalf("delivered %d frames; want %d (key frame + %d interframes)", len(delivered), frames+1, frames)
	}
	for i, order := range delivered {
		if order != uint64(i) {
			t.Errorf("delivered[%d].DisplayOrder() = %d; want %d (display order must be contiguous)", i, order, i)
		}
	}
}

// Flush on a driver that never finished negotiating -- a single-frame
// stream whose only key frame is still stashed in Possible -- must decode
// that stashed frame under a default format and deliver it, rather than
// silently dropping it (spec.md §4.8 Flush: "so single-frame streams emit
// output").
func TestDriverFlushReplaysStashedFrame(t *testing.T) {
	d := NewDriver(fakebackend.New(0), DriverConfig{})

	err := d.Decode(0, keyFrame(16, 16))
	var de *hwdecode.DecodeError
	if !errors.As(err, &de) || !de.CheckEvents {
		t.Fatalf("Decode() on first key frame = %v; want a CheckEvents DecodeError", err)
	}
	// Drain but do not act on the FormatChanged event: the client never
	// calls TryFormat/Finish, as if the stream ended before negotiation
	// completed.
	if ev, ok := d.NextEvent(); !ok || ev.Kind != hwdecode.FormatChanged {
		t.Fatalf("NextEvent() = %+v, %v; want FormatChanged", ev, ok)
	}

	if err := d.Flush(); err != nil {
		t.Fatalf("Flush() = %v", err)
	}

	ev, ok := d.NextEvent()
	if !ok || ev.Kind != hwdecode.FrameReady {
		t.Fatalf("NextEvent() after Flush = %+v, %v; want FrameReady for the stashed key frame", ev, ok)
	}
	if ev.Handle.DisplayOrder() != 0 {
		t.Errorf("DisplayOrder = %d; want 0", ev.Handle.DisplayOrder())
	}
	if !ev.Handle.IsReady() {
		t.Errorf("delivered handle IsReady() = false; want true")
	}
	ev.Handle.Release()

	// A second Flush with nothing stashed must be a harmless no-op.
	if err := d.Flush(); err != nil {
		t.Fatalf("second Flush() = %v", err)
	}
	if ev, ok := d.NextEvent(); ok {
		t.Fatalf("NextEvent() after second Flush = %+v; want none", ev)
	}
}

// A malformed frame (here, one too short to contain its declared first
// partition) must come back as a hard parse-error DecodeError, never
// panic. The invalid-copy-buffer case specifically (RFC 6386 section
// 9.7's copy_buffer_to_golden/alternate out of [0,2]) is exercised
// directly against the parser in parser_test.go's
// TestReadCopyBufferRejectsOutOfRange, since it is reported at the same
// parse-error layer this test checks the driver wraps correctly.
func TestDriverMalformedFrameIsDecodeErrorNotPanic(t *testing.T) {
	d := NewDriver(fakebackend.New(0), DriverConfig{})
	d.Decode(0, keyFrame(16, 16))
	negotiate(t, d, hwdecode.NV12)
	d.NextEvent() // drain the replayed key frame's FrameReady

	tag := uint32(1) | 0<<1 | 1<<4 | 2<<5
	malformed := []byte{byte(tag), byte(tag >> 8), byte(tag >> 16), 0x00}

	err := d.Decode(40, malformed)
	var de *hwdecode.DecodeError
	if !errors.As(err, &de) {
		t.Fatalf("Decode() on malformed frame = %v (%T); want a *hwdecode.DecodeError", err, err)
	}
	if de.CheckEvents {
		t.Errorf("Decode() on malformed frame reported CheckEvents; want a hard parse-error DecodeError")
	}
}
