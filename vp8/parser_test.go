package vp8

import "testing"

// A first partition of all-zero bytes decodes every flag/literal in
// parseCompressedHeader to false/0, regardless of how many fields are
// read, since a short all-zero buffer keeps serving zero bits past its
// end (see booldecoder_test.go). This lets these frames be built by hand
// without implementing an encoder.
func keyFrame(width, height uint16) []byte {
	tag := uint32(0) | 0<<1 | 1<<4 | 2<<5 // key_frame, version 0, show_frame, first_part_size=2
	data := []byte{
		byte(tag), byte(tag >> 8), byte(tag >> 16),
		0x9d, 0x01, 0x2a,
		byte(width), byte(width >> 8),
		byte(height), byte(height >> 8),
		0x00, 0x00, // first partition, all-zero
	}
	return data
}

func interFrame() []byte {
	tag := uint32(1) | 0<<1 | 1<<4 | 2<<5 // interframe, version 0, show_frame, first_part_size=2
	return []byte{
		byte(tag), byte(tag >> 8), byte(tag >> 16),
		0x00, 0x00, // first partition, all-zero
	}
}

func TestParseFrameKeyFrame(t *testing.T) {
	p := NewParser()
	h, err := p.ParseFrame(keyFrame(16, 16))
	if err != nil {
		t.Fatalf("ParseFrame() = %v", err)
	}
	if !h.KeyFrame {
		t.Errorf("KeyFrame = false; want true")
	}
	if !h.ShowFrame {
		t.Errorf("ShowFrame = false; want true")
	}
	if h.Width != 16 || h.Height != 16 {
		t.Errorf("dimensions = %dx%d; want 16x16", h.Width, h.Height)
	}
	if !h.RefreshGoldenFrame || !h.RefreshAlternateFrame || !h.RefreshLast {
		t.Errorf("key frame refresh flags = %+v; want all true", h)
	}
	if h.RefreshEntropyProbs {
		t.Errorf("RefreshEntropyProbs = true; want false (all-zero header)")
	}
}

func TestParseFrameInterframeInheritsDimensions(t *testing.T) {
	p := NewParser()
	if _, err := p.ParseFrame(keyFrame(32, 16)); err != nil {
		t.Fatalf("key frame ParseFrame() = %v", err)
	}

	h, err := p.ParseFrame(interFrame())
	if err != nil {
		t.Fatalf("interframe ParseFrame() = %v", err)
	}
	if h.KeyFrame {
		t.Errorf("KeyFrame = true; want false")
	}
	if h.Width != 32 || h.Height != 16 {
		t.Errorf("inherited dimensions = %dx%d; want 32x16", h.Width, h.Height)
	}
	if h.RefreshGoldenFrame || h.RefreshAlternateFrame || h.RefreshLast {
		t.Errorf("interframe refresh flags = %+v; want all false (all-zero header)", h)
	}
	if h.CopyBufferToGolden != NoCopy || h.CopyBufferToAlternate != NoCopy {
		t.Errorf("copy buffer fields = %v/%v; want NoCopy/NoCopy", h.CopyBufferToGolden, h.CopyBufferToAlternate)
	}
}

func TestParseFrameInterframeBeforeKeyFrameFails(t *testing.T) {
	p := NewParser()
	if _, err := p.ParseFrame(interFrame()); err == nil {
		t.Errorf("ParseFrame() on interframe with no prior key frame = nil error; want error")
	}
}

func TestParseFrameRejectsBadStartCode(t *testing.T) {
	p := NewParser()
	data := keyFrame(16, 16)
	data[3] = 0x00 // corrupt the start code
	if _, err := p.ParseFrame(data); err == nil {
		t.Errorf("ParseFrame() with bad start code = nil error; want error")
	}
}

func TestParseFrameRejectsShortFirstPartition(t *testing.T) {
	p := NewParser()
	data := keyFrame(16, 16)
	data = data[:len(data)-1] // truncate the first partition
	if _, err := p.ParseFrame(data); err == nil {
		t.Errorf("ParseFrame() with truncated first partition = nil error; want error")
	}
}

func TestParserCloneIsIndependent(t *testing.T) {
	p := NewParser()
	if _, err := p.ParseFrame(keyFrame(16, 16)); err != nil {
		t.Fatalf("ParseFrame() = %v", err)
	}
	clone := p.Clone()

	if _, err := p.ParseFrame(keyFrame(64, 48)); err != nil {
		t.Fatalf("ParseFrame() on original = %v", err)
	}

	h, err := clone.ParseFrame(interFrame())
	if err != nil {
		t.Fatalf("ParseFrame() on clone = %v", err)
	}
	if h.Width != 16 || h.Height != 16 {
		t.Errorf("clone dimensions = %dx%d; want 16x16 (unaffected by original's later key frame)", h.Width, h.Height)
	}
}

func TestReadCopyBufferRejectsOutOfRange(t *testing.T) {
	bd, err := newBoolDecoder([]byte{0xFF, 0xFF, 0xFF, 0xFF})
	if err != nil {
		t.Fatalf("newBoolDecoder() = %v", err)
	}
	if _, err := readCopyBuffer(bd); err == nil {
		t.Errorf("readCopyBuffer() on all-ones input = nil error; want error (value 3 out of [0,2])")
	}
}

func TestReadCopyBufferNoCopy(t *testing.T) {
	bd, err := newBoolDecoder([]byte{0x00, 0x00})
	if err != nil {
		t.Fatalf("newBoolDecoder() = %v", err)
	}
	cb, err := readCopyBuffer(bd)
	if err != nil {
		t.Fatalf("readCopyBuffer() = %v", err)
	}
	if cb != NoCopy {
		t.Errorf("readCopyBuffer() = %v; want NoCopy", cb)
	}
}
