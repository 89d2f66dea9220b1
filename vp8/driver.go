/*
DESCRIPTION
  driver.go implements Driver, the VP8 Decoder Driver of spec.md §2/§4.8:
  it implements hwdecode.VideoDecoder by orchestrating the parser, the
  negotiation state machine, picture submission, reference-picture
  updates and the event queue the client drains.

AUTHORS
  Saxon A. Nelson-Milton <saxon@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package vp8

import (
	"errors"
	"fmt"

	"github.com/ausocean/hwdecode"
	"github.com/ausocean/hwdecode/backend"
	"github.com/ausocean/hwdecode/internal/logging"
)

// negotiationStatus tracks the VP8-specific negotiation state machine of
// spec.md §4.6: NonNegotiated before any sequence has been seen, Possible
// while a FormatNegotiator is outstanding, Negotiated once a format has
// been committed and decode has resumed.
type negotiationStatus int

const (
	nonNegotiated negotiationStatus = iota
	possible
	negotiated
)

// DriverConfig configures a Driver at construction. The zero value is
// valid: NonBlocking submission and a discarding logger.
type DriverConfig struct {
	// BlockingMode is the mode Driver.Decode submits pictures with.
	BlockingMode backend.BlockingMode
	// Logger receives decode-loop events; nil discards them.
	Logger logging.Logger
}

// Driver is the VP8 Decoder Driver: the hwdecode.VideoDecoder
// implementation that turns a sequence of VP8 frames into decoded handles
// via an opaque Backend.
type Driver struct {
	backend Backend
	parser  *Parser
	cfg     DriverConfig

	status negotiationStatus
	refs   References

	// Negotiation replay state: the frame that triggered the currently
	// outstanding negotiation, stashed so it can be resubmitted once the
	// client finishes choosing a format. Mirrors the cheap-clone stash the
	// original backs this with; here the stash is simply the raw frame
	// bytes plus the header already parsed from them.
	pendingNegotiator *hwdecode.FormatNegotiator
	stashedHeader     *Header
	stashedBitstream  []byte
	stashedTimestamp  uint64

	// pendingErr surfaces an error encountered while replaying the
	// stashed frame from Finish (which itself cannot return an error) to
	// the next call to Decode.
	pendingErr error

	// displayOrder counts frames queued as FrameReady, in submission
	// order; VP8 has no B-frame-style reordering, so decode order is
	// display order.
	displayOrder uint64

	// readyQueue holds shown frames submitted but not yet delivered,
	// oldest first. Delivery only ever pops a prefix of entries observed
	// Ready, preserving display order (spec.md §4.8 steps 6-7, §5).
	readyQueue []queuedFrame

	events []hwdecode.DecoderEvent
}

// queuedFrame is one entry on the ready queue: a shown frame's handle,
// tagged with the display order it was assigned at submission.
type queuedFrame struct {
	displayOrder uint64
	handle       *backend.Handle
}

// NewDriver constructs a Driver over the given Backend. The Backend must
// not have been used by any other Driver.
func NewDriver(be Backend, cfg DriverConfig) *Driver {
	if cfg.Logger == nil {
		cfg.Logger = logging.Discard
	}
	return &Driver{backend: be, parser: NewParser(), cfg: cfg}
}

// Decode implements hwdecode.VideoDecoder.
func (d *Driver) Decode(timestamp uint64, bitstream []byte) error {
	if d.pendingErr != nil {
		err := d.pendingErr
		d.pendingErr = nil
		return err
	}
	if d.pendingNegotiator != nil {
		return hwdecode.NewCheckEventsError()
	}
	return d.decode(timestamp, bitstream, false)
}

// decode parses one frame and either starts negotiation or submits it.
// isReplay is true only when called from Finish to resubmit the frame
// that triggered negotiation, and suppresses re-stashing it.
func (d *Driver) decode(timestamp uint64, bitstream []byte, isReplay bool) error {
	header, err := d.parser.ParseFrame(bitstream)
	if err != nil {
		return hwdecode.NewDecoderError(err)
	}

	if header.KeyFrame {
		info := newStreamInfo(header)
		newRes := info.CodedSize()
		curRes, ok := d.backend.CodedResolution()

		if !isReplay && (d.status == nonNegotiated || !ok || curRes != newRes) {
			d.cfg.Logger.Log(0, "vp8: sequence change, starting negotiation", "resolution", newRes.String())
			d.refs.Reset()
			d.status = possible
			d.stashedHeader = header
			d.stashedBitstream = append([]byte(nil), bitstream...)
			d.stashedTimestamp = timestamp

			// Open stream metadata at the default format now, so the coded
			// resolution and resource counts describe the new sequence while
			// the client negotiates.
			if err := d.backend.NewSequence(info); err != nil {
				return hwdecode.NewBackendDecodeError(err)
			}

			supported, err := d.backend.SupportedFormats(info)
			if err != nil {
				return hwdecode.NewBackendDecodeError(err)
			}
			negotiator := hwdecode.NewFormatNegotiator(d, hwdecode.StreamParams{
				CodedResolution:   newRes,
				DisplayResolution: hwdecode.Resolution{Width: uint32(header.Width), Height: uint32(header.Height)},
				MinNumSurfaces:    info.MinNumSurfaces(),
				SupportedFormats:  supported,
			})
			d.pendingNegotiator = negotiator
			d.events = append(d.events, hwdecode.DecoderEvent{Kind: hwdecode.FormatChanged, Negotiator: negotiator})
			return hwdecode.NewCheckEventsError()
		}

		// A replay keeps the stream metadata opened when negotiation began,
		// including any format the client chose via TryFormat. Any other key
		// frame at the current resolution still (re)opens stream metadata for
		// its new sequence, but no client negotiation is required.
		if !isReplay {
			if err := d.backend.NewSequence(info); err != nil {
				return hwdecode.NewBackendDecodeError(err)
			}
		}
	}

	return d.submit(header, bitstream, timestamp)
}

// submit hands header/bitstream to the backend, updates reference state,
// queues shown frames on the ready queue, and applies admission control
// and delivery per spec.md §4.8 steps 4-7.
func (d *Driver) submit(header *Header, bitstream []byte, timestamp uint64) error {
	blocking := d.cfg.BlockingMode
	if d.status == possible {
		blocking = backend.Blocking
	}

	handle, err := d.backend.SubmitPicture(header, &d.refs, bitstream, timestamp)
	if err != nil {
		if !errors.Is(err, backend.ErrOutOfResources) {
			return hwdecode.NewBackendDecodeError(err)
		}
		// Step 5 (admission control): no free surface. Block until the
		// oldest undelivered frame is ready, which frees its surface once
		// drained, then retry -- this is never surfaced to the client as
		// an error.
		if err := d.blockHead(); err != nil {
			return hwdecode.NewBackendDecodeError(err)
		}
		handle, err = d.backend.SubmitPicture(header, &d.refs, bitstream, timestamp)
		if err != nil {
			return hwdecode.NewBackendDecodeError(err)
		}
	}

	if blocking == backend.Blocking {
		if err := d.backend.BlockOnHandle(handle); err != nil {
			handle.Release()
			return hwdecode.NewBackendDecodeError(err)
		}
	}

	d.refs.Update(header, handle)

	if header.ShowFrame {
		d.readyQueue = append(d.readyQueue, queuedFrame{displayOrder: d.nextDisplayOrder(), handle: handle.Clone()})
	}
	handle.Release()

	// Step 5, look-ahead case: this submission itself left no free
	// surface; block now so the next decode's submission has room.
	if d.backend.NumResourcesLeft() == 0 {
		if err := d.blockHead(); err != nil {
			return hwdecode.NewBackendDecodeError(err)
		}
	}

	return d.drainReady(backend.NonBlocking)
}

// blockHead blocks until the oldest ready-queue entry is ready, then
// drains whatever that makes deliverable. A no-op if the queue is empty,
// since there is nothing in flight for admission control to wait on.
func (d *Driver) blockHead() error {
	if len(d.readyQueue) == 0 {
		return nil
	}
	if err := d.backend.BlockOnHandle(d.readyQueue[0].handle); err != nil {
		return err
	}
	return d.drainReady(backend.Blocking)
}

// drainReady implements spec.md §4.8 steps 6-7: poll the backend, then
// split the ready queue into the longest prefix of handles observed
// Ready -- preserving display order -- and queue each as a FrameReady
// event.
func (d *Driver) drainReady(mode backend.BlockingMode) error {
	completed, err := d.backend.Poll(mode)
	if err != nil {
		return err
	}
	// Poll transfers ownership of the backend's own tracking clone to us;
	// the ready queue already holds an independent clone per entry, so
	// these are no longer needed.
	for _, h := range completed {
		h.Release()
	}

	i := 0
	for ; i < len(d.readyQueue); i++ {
		if !d.readyQueue[i].handle.IsReady() {
			break
		}
	}
	for _, q := range d.readyQueue[:i] {
		d.events = append(d.events, hwdecode.DecoderEvent{
			Kind:   hwdecode.FrameReady,
			Handle: hwdecode.NewDecodedHandle(q.handle, q.displayOrder),
		})
	}
	d.readyQueue = d.readyQueue[i:]
	return nil
}

func (d *Driver) nextDisplayOrder() uint64 {
	n := d.displayOrder
	d.displayOrder++
	return n
}

// TryFormat implements the negotiable interface hwdecode.FormatNegotiator
// uses to commit a chosen format.
func (d *Driver) TryFormat(format hwdecode.DecodedFormat) error {
	if d.stashedHeader == nil {
		return fmt.Errorf("vp8: TryFormat called with no negotiation in progress")
	}
	return d.backend.TryFormat(newStreamInfo(d.stashedHeader), format)
}

// Finish implements the negotiable interface: it is called by
// FormatNegotiator.Finish once the client has chosen a format, and
// replays the frame that triggered negotiation, forced through as a
// normal submission now that the backend has been reconfigured.
func (d *Driver) Finish() {
	d.pendingNegotiator = nil

	ts, bs := d.stashedTimestamp, d.stashedBitstream
	d.stashedBitstream = nil
	d.stashedHeader = nil
	if bs == nil {
		d.status = negotiated
		return
	}
	// Replay while status is still possible, so submit's Possible-state
	// override (spec.md §4.6) forces this first submission to block and
	// come back Ready, rather than leaving it to race the fake backend's
	// latency.
	err := d.decode(ts, bs, true)
	d.status = negotiated
	if err != nil {
		d.pendingErr = err
	}
}

// Flush implements hwdecode.VideoDecoder. If a sequence-starting frame is
// still stashed awaiting negotiation (state Possible), it is decoded now
// under a default output format so single-frame streams still emit
// output, per spec.md §4.8's Flush. Either way, the backend is
// block-polled and the entire now-ready prefix of the ready queue is
// delivered as FrameReady events.
func (d *Driver) Flush() error {
	if d.status == possible && d.stashedBitstream != nil {
		header := d.stashedHeader
		ts, bs := d.stashedTimestamp, d.stashedBitstream

		d.stashedHeader = nil
		d.stashedBitstream = nil
		d.pendingNegotiator = nil
		d.status = negotiated

		if err := d.backend.NewSequence(newStreamInfo(header)); err != nil {
			return hwdecode.NewBackendDecodeError(err)
		}
		if err := d.submit(header, bs, ts); err != nil {
			return err
		}
	}
	return d.drainReady(backend.Blocking)
}

// NumResourcesTotal implements hwdecode.VideoDecoder.
func (d *Driver) NumResourcesTotal() int {
	return d.backend.NumResourcesTotal()
}

// NumResourcesLeft implements hwdecode.VideoDecoder.
func (d *Driver) NumResourcesLeft() int {
	return d.backend.NumResourcesLeft()
}

// CodedResolution implements hwdecode.VideoDecoder.
func (d *Driver) CodedResolution() (hwdecode.Resolution, bool) {
	return d.backend.CodedResolution()
}

// Format implements hwdecode.VideoDecoder.
func (d *Driver) Format() (hwdecode.DecodedFormat, bool) {
	return d.backend.Format()
}

// NextEvent implements hwdecode.VideoDecoder.
func (d *Driver) NextEvent() (hwdecode.DecoderEvent, bool) {
	if len(d.events) == 0 {
		return hwdecode.DecoderEvent{}, false
	}
	e := d.events[0]
	d.events = d.events[1:]
	return e, true
}
