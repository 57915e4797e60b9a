// Package wav locates the PCM payload of a RIFF/WAVE buffer.
//
// Parse never copies: the returned View points into the caller's bytes.
// Only uncompressed 8-bit and 16-bit mono or stereo PCM is accepted.
package wav

import (
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/go-audio/riff"
)

// Parse errors.
var (
	// ErrNotRIFF indicates a missing "RIFF" magic.
	ErrNotRIFF = errors.New("not a RIFF container")

	// ErrNotWAVE indicates a RIFF container of another form type.
	ErrNotWAVE = errors.New("not a WAVE container")

	// ErrTruncated indicates a chunk that does not fit its container.
	ErrTruncated = errors.New("truncated wave data")

	// ErrChunkNotFound indicates a required chunk missing from the RIFF extent.
	ErrChunkNotFound = errors.New("wave chunk not found")

	// ErrUnsupportedFormat indicates a format other than 8/16-bit mono/stereo PCM.
	ErrUnsupportedFormat = errors.New("unsupported wave file")
)

// View describes the PCM payload of a parsed WAV buffer.
type View struct {
	// PCM is the sample data, a subslice of the parsed buffer.
	PCM []byte

	// SampleRate is the declared rate in Hz.
	SampleRate int

	// Frames is the number of sample frames in PCM.
	Frames int

	// BitsPerSample is 8 or 16.
	BitsPerSample int

	// Channels is 1 or 2.
	Channels int
}

// Is16Bit reports whether samples are signed 16-bit.
func (v View) Is16Bit() bool {
	return v.BitsPerSample == bits16
}

// IsStereo reports whether frames are interleaved stereo.
func (v View) IsStereo() bool {
	return v.Channels == stereoChannels
}

// Parse validates a RIFF/WAVE buffer and returns a view of its PCM data.
func Parse(data []byte) (View, error) {
	if len(data) < firstChunkStart {
		return View{}, fmt.Errorf("%w: %d bytes", ErrTruncated, len(data))
	}
	if [4]byte(data[0:4]) != riff.RiffID {
		return View{}, ErrNotRIFF
	}
	riffLength := uint64(binary.LittleEndian.Uint32(data[riffSizeOffset:]))
	if [4]byte(data[waveIDOffset:waveIDOffset+4]) != riff.WavFormatID {
		return View{}, ErrNotWAVE
	}

	offset, chunkLength, err := findChunk(data, riffLength, firstChunkStart, 0, riff.FmtID)
	if err != nil {
		return View{}, err
	}
	if chunkLength < minFmtSize {
		return View{}, fmt.Errorf("%w: fmt chunk of %d bytes", ErrTruncated, chunkLength)
	}
	if offset+chunkLength >= riffLength {
		return View{}, fmt.Errorf("%w: fmt chunk exceeds riff extent", ErrTruncated)
	}
	if offset+min(chunkLength, fullFmtSize) > uint64(len(data)) {
		return View{}, fmt.Errorf("%w: fmt chunk exceeds buffer", ErrTruncated)
	}

	fmtData := data[offset:]
	formatTag := int(binary.LittleEndian.Uint16(fmtData[fmtTagOffset:]))
	channels := int(binary.LittleEndian.Uint16(fmtData[fmtChannelsOffset:]))
	sampleRate := int(binary.LittleEndian.Uint32(fmtData[fmtRateOffset:]))
	bitsPerSample := 0
	if chunkLength >= fullFmtSize {
		bitsPerSample = int(binary.LittleEndian.Uint16(fmtData[fmtBitsOffset:]))
	} else if formatTag == FormatPCM && channels != 0 {
		blockAlign := int(binary.LittleEndian.Uint16(fmtData[fmtBlockAlignOffset:]))
		bitsPerSample = blockAlign * bitsPerByte / channels
	}
	if formatTag != FormatPCM ||
		(channels != monoChannels && channels != stereoChannels) ||
		(bitsPerSample != bits8 && bitsPerSample != bits16) {
		return View{}, fmt.Errorf("%w: tag %d, %d channels, %d bits",
			ErrUnsupportedFormat, formatTag, channels, bitsPerSample)
	}

	offset, chunkLength, err = findChunk(data, riffLength, offset, chunkLength, riff.DataFormatID)
	if err != nil {
		return View{}, err
	}

	size := chunkLength
	if end := riffLength + riffEnvelopeHeader; offset+size > end {
		size = end - offset
	}
	if offset+size > uint64(len(data)) {
		size = uint64(len(data)) - offset
	}

	frames := size
	if channels == stereoChannels {
		frames >>= 1
	}
	if bitsPerSample == bits16 {
		frames >>= 1
	}

	return View{
		PCM:           data[offset : offset+size],
		SampleRate:    sampleRate,
		Frames:        int(frames),
		BitsPerSample: bitsPerSample,
		Channels:      channels,
	}, nil
}

// findChunk skips the chunk of chunkLength bytes at offset, then walks
// sub-chunks until id, returning the offset and length of its data.
// Chunks are padded to even sizes. The walk fails once it passes the
// declared RIFF length.
func findChunk(data []byte, riffLength, offset, chunkLength uint64, id [4]byte) (uint64, uint64, error) {
	for {
		offset += chunkLength + chunkLength&1
		if offset >= riffLength {
			return 0, 0, fmt.Errorf("%w: %q", ErrChunkNotFound, id[:])
		}
		if offset+chunkHeaderSize > uint64(len(data)) {
			return 0, 0, fmt.Errorf("%w: chunk header at %d", ErrTruncated, offset)
		}
		magic := [4]byte(data[offset : offset+4])
		chunkLength = uint64(binary.LittleEndian.Uint32(data[offset+chunkSizeOffset:]))
		offset += chunkHeaderSize
		if magic == id {
			return offset, chunkLength, nil
		}
	}
}
