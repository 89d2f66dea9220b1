package hwdecode

import "testing"

func TestFindDefaultFormat(t *testing.T) {
	fm, ok := FindDefaultFormat(RTFormatYUV420)
	if !ok {
		t.Fatalf("FindDefaultFormat(RTFormatYUV420) = _, false; want true")
	}
	if fm.DecodedFormat != NV12 {
		t.Errorf("default format = %v; want NV12", fm.DecodedFormat)
	}

	if _, ok := FindDefaultFormat(RTFormat(99)); ok {
		t.Errorf("FindDefaultFormat(99) = _, true; want false")
	}
}

func TestFindByDecodedFormat(t *testing.T) {
	fm, ok := FindByDecodedFormat(I420)
	if !ok || fm.FourCC != FourCCI420 {
		t.Errorf("FindByDecodedFormat(I420) = %+v, %v; want FourCCI420, true", fm, ok)
	}
}

func TestImageSize(t *testing.T) {
	cases := []struct {
		format DecodedFormat
		res    Resolution
		want   int
	}{
		{NV12, Resolution{Width: 16, Height: 16}, 16*16 + 16*16/2},
		{I420, Resolution{Width: 176, Height: 144}, 176*144 + 176*144/2},
		{DecodedFormat(99), Resolution{Width: 16, Height: 16}, 0},
	}
	for _, c := range cases {
		if got := ImageSize(c.format, c.res); got != c.want {
			t.Errorf("ImageSize(%v, %v) = %d; want %d", c.format, c.res, got, c.want)
		}
	}
}

func TestResolutionIsZero(t *testing.T) {
	if !(Resolution{}).IsZero() {
		t.Errorf("zero Resolution reports non-zero")
	}
	if (Resolution{Width: 1}).IsZero() {
		t.Errorf("non-zero Resolution reports zero")
	}
}
