package backend

import (
	"bytes"
	"errors"
	"fmt"
	"os"

	"github.com/go-audio/aiff"
	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

// ErrUnknownFormat indicates data that is neither a WAV nor an AIFF file.
var ErrUnknownFormat = errors.New("unknown sound format")

// Chunk is a decoded sound ready for a native channel: interleaved stereo
// 16-bit samples at the device rate.
type Chunk struct {
	Samples []int16
}

// Frames returns the number of stereo frames.
func (c *Chunk) Frames() int {
	return len(c.Samples) / stereoChannels
}

// LoadChunk decodes a RIFF/WAVE or FORM/AIFF image and converts it for a
// device running at freq Hz.
func LoadChunk(data []byte, freq int) (*Chunk, error) {
	if len(data) < len(riffMagic) {
		return nil, fmt.Errorf("%w: %d bytes", ErrUnknownFormat, len(data))
	}
	r := bytes.NewReader(data)

	switch string(data[:4]) {
	case riffMagic:
		d := wav.NewDecoder(r)
		if !d.IsValidFile() {
			return nil, fmt.Errorf("%w: invalid wav file", ErrUnknownFormat)
		}
		buf, err := d.FullPCMBuffer()
		if err != nil {
			return nil, fmt.Errorf("failed to decode wav: %w", err)
		}
		return ChunkFromBuffer(buf, int(d.BitDepth), true, freq)

	case formMagic:
		d := aiff.NewDecoder(r)
		if !d.IsValidFile() {
			return nil, fmt.Errorf("%w: invalid aiff file", ErrUnknownFormat)
		}
		buf, err := d.FullPCMBuffer()
		if err != nil {
			return nil, fmt.Errorf("failed to decode aiff: %w", err)
		}
		return ChunkFromBuffer(buf, int(d.BitDepth), false, freq)

	default:
		return nil, fmt.Errorf("%w: magic %q", ErrUnknownFormat, data[:4])
	}
}

// LoadChunkFile reads and decodes a sound file.
func LoadChunkFile(path string, freq int) (*Chunk, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read sound file: %w", err)
	}
	return LoadChunk(data, freq)
}

// ChunkFromBuffer converts decoded PCM of the given bit depth to a chunk at
// freq Hz. unsigned8 marks 8-bit data stored as 0..255, as WAV does.
// Mono is duplicated to both sides and channels past the second are dropped.
func ChunkFromBuffer(buf *audio.IntBuffer, bitDepth int, unsigned8 bool, freq int) (*Chunk, error) {
	if buf == nil || buf.Format == nil {
		return nil, fmt.Errorf("%w: missing format", ErrUnknownFormat)
	}
	channels := buf.Format.NumChannels
	rate := buf.Format.SampleRate
	if channels < 1 || rate <= 0 || bitDepth <= 0 {
		return nil, fmt.Errorf("%w: %d channels at %d Hz, %d bits",
			ErrUnknownFormat, channels, rate, bitDepth)
	}

	frames := len(buf.Data) / channels
	samples := make([]int16, 0, frames*stereoChannels)
	for i := range frames {
		frame := buf.Data[i*channels:]
		left := toS16(frame[0], bitDepth, unsigned8)
		right := left
		if channels > monoInput {
			right = toS16(frame[1], bitDepth, unsigned8)
		}
		samples = append(samples, left, right)
	}

	if rate != freq {
		samples = resampleStereo(samples, rate, freq)
	}
	return &Chunk{Samples: samples}, nil
}

// toS16 scales a decoded sample to 16 bits.
func toS16(v, bitDepth int, unsigned8 bool) int16 {
	if bitDepth == bits8 && unsigned8 {
		v -= u8Offset
	}
	switch {
	case bitDepth > bits16:
		v >>= bitDepth - bits16
	case bitDepth < bits16:
		v <<= bits16 - bitDepth
	}
	return int16(max(minS16, min(v, maxS16)))
}
