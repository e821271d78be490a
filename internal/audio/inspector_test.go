package audio

import (
	"bytes"
	"math"
	"testing"
)

// mp3Frame builds a valid MPEG1 Layer III frame: 44100 Hz, 128 kbps, no
// padding. Frame length works out to 417 bytes, 1152 samples.
func mp3Frame() []byte {
	frame := make([]byte, 417)
	frame[0] = 0xFF
	frame[1] = 0xFB
	frame[2] = 0x90
	return frame
}

func TestDurationCountsFrames(t *testing.T) {
	const frames = 20
	var buf bytes.Buffer
	for i := 0; i < frames; i++ {
		buf.Write(mp3Frame())
	}

	got, err := NewMP3Inspector().Duration(buf.Bytes())
	if err != nil {
		t.Fatalf("Duration returned error: %v", err)
	}
	want := frames * 1152.0 / 44100.0
	if math.Abs(got-want) > 1e-9 {
		t.Fatalf("Duration = %v, want %v", got, want)
	}
}

func TestDurationSkipsID3Tag(t *testing.T) {
	tag := []byte{'I', 'D', '3', 4, 0, 0, 0, 0, 0, 10}
	tag = append(tag, make([]byte, 10)...)
	data := append(tag, mp3Frame()...)

	got, err := NewMP3Inspector().Duration(data)
	if err != nil {
		t.Fatalf("Duration returned error: %v", err)
	}
	want := 1152.0 / 44100.0
	if math.Abs(got-want) > 1e-9 {
		t.Fatalf("Duration = %v, want %v", got, want)
	}
}

func TestDurationErrors(t *testing.T) {
	insp := NewMP3Inspector()
	if _, err := insp.Duration(nil); err != ErrEmptyAudio {
		t.Fatalf("empty input: err = %v, want ErrEmptyAudio", err)
	}
	if _, err := insp.Duration([]byte("not an mp3 stream at all")); err != ErrNotMP3 {
		t.Fatalf("garbage input: err = %v, want ErrNotMP3", err)
	}
}
