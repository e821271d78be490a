// Package audio measures synthesized artifacts. Measurement is best-effort:
// generation proceeds with a zero duration when a probe fails.
package audio

import "errors"

// Inspector reports the playing time of an audio artifact.
type Inspector interface {
	Duration(data []byte) (float64, error)
}

var (
	ErrEmptyAudio   = errors.New("audio: empty data")
	ErrNotMP3       = errors.New("audio: no mpeg frames found")
	ErrTruncatedTag = errors.New("audio: truncated id3 tag")
)

var (
	mp3BitratesV1 = [16]int{0, 32, 40, 48, 56, 64, 80, 96, 112, 128, 160, 192, 224, 256, 320}
	mp3BitratesV2 = [16]int{0, 8, 16, 24, 32, 40, 48, 56, 64, 80, 96, 112, 128, 144, 160}

	mp3SampleRates = map[byte][4]int{
		0b00: {11025, 12000, 8000, 0},  // MPEG 2.5
		0b10: {22050, 24000, 16000, 0}, // MPEG 2
		0b11: {44100, 48000, 32000, 0}, // MPEG 1
	}
)

// MP3Inspector derives duration by walking MPEG audio frame headers. It
// understands Layer III frames of MPEG versions 1, 2 and 2.5, which covers
// everything the synthesis engines emit.
type MP3Inspector struct{}

func NewMP3Inspector() *MP3Inspector {
	return &MP3Inspector{}
}

// Duration returns the total playing time of the MP3 stream in seconds.
func (MP3Inspector) Duration(data []byte) (float64, error) {
	if len(data) == 0 {
		return 0, ErrEmptyAudio
	}
	offset, err := skipID3v2(data)
	if err != nil {
		return 0, err
	}

	var seconds float64
	frames := 0
	for offset+4 <= len(data) {
		frameLen, frameSeconds, ok := parseFrameHeader(data[offset:])
		if !ok {
			// Resync: audio streams may carry junk between frames.
			offset++
			continue
		}
		seconds += frameSeconds
		frames++
		offset += frameLen
	}
	if frames == 0 {
		return 0, ErrNotMP3
	}
	return seconds, nil
}

// parseFrameHeader validates the 4-byte header at the start of b and returns
// the frame length in bytes and its duration in seconds.
func parseFrameHeader(b []byte) (int, float64, bool) {
	if len(b) < 4 {
		return 0, 0, false
	}
	if b[0] != 0xFF || b[1]&0xE0 != 0xE0 {
		return 0, 0, false
	}
	version := (b[1] >> 3) & 0x03
	layer := (b[1] >> 1) & 0x03
	if version == 0b01 || layer != 0b01 { // reserved version, or not Layer III
		return 0, 0, false
	}
	bitrateIdx := (b[2] >> 4) & 0x0F
	sampleIdx := (b[2] >> 2) & 0x03
	padding := int((b[2] >> 1) & 0x01)

	rates, ok := mp3SampleRates[version]
	if !ok {
		return 0, 0, false
	}
	sampleRate := rates[sampleIdx]
	if sampleRate == 0 {
		return 0, 0, false
	}

	var bitrate, samplesPerFrame int
	if version == 0b11 {
		bitrate = mp3BitratesV1[bitrateIdx]
		samplesPerFrame = 1152
	} else {
		bitrate = mp3BitratesV2[bitrateIdx]
		samplesPerFrame = 576
	}
	if bitrate == 0 {
		return 0, 0, false
	}

	frameLen := samplesPerFrame/8*bitrate*1000/sampleRate + padding
	if frameLen <= 4 {
		return 0, 0, false
	}
	return frameLen, float64(samplesPerFrame) / float64(sampleRate), true
}

// skipID3v2 returns the offset of the first byte after an ID3v2 tag, if any.
func skipID3v2(data []byte) (int, error) {
	if len(data) < 10 || string(data[:3]) != "ID3" {
		return 0, nil
	}
	// Syncsafe 28-bit size, header excluded.
	size := int(data[6]&0x7F)<<21 | int(data[7]&0x7F)<<14 | int(data[8]&0x7F)<<7 | int(data[9]&0x7F)
	offset := 10 + size
	if offset >= len(data) {
		return 0, ErrTruncatedTag
	}
	return offset, nil
}

var _ Inspector = (*MP3Inspector)(nil)
