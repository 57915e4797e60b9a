package main

import (
	"fmt"
	"os"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

const (
	// Frames rendered per pull; matches a typical device buffer.
	blockFrames = 1024

	stereoChannels  = 2
	bitsPerSample16 = 16
	wavFormatPCM    = 1
)

type inputFormat int

const (
	formatRaw inputFormat = iota
	formatWav
)

func parseFormat(s string) (inputFormat, error) {
	switch s {
	case "raw":
		return formatRaw, nil
	case "wav":
		return formatWav, nil
	default:
		return 0, fmt.Errorf("unknown input format %q", s)
	}
}

// renderer is the part of the mixer pulled by renderToWAV.
type renderer interface {
	Render(buf []int16)
}

type renderStats struct {
	rate   int
	frames int
	peak   int
}

// renderToWAV pulls frames stereo frames from r and writes them to a 16-bit
// WAV file.
func renderToWAV(r renderer, path string, rate, frames int) (stats *renderStats, err error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("failed to create output file: %w", err)
	}
	defer func() {
		if closeErr := f.Close(); err == nil {
			err = closeErr
		}
	}()

	enc := wav.NewEncoder(f, rate, bitsPerSample16, stereoChannels, wavFormatPCM)
	s16 := make([]int16, blockFrames*stereoChannels)
	buf := &audio.IntBuffer{
		Data:           make([]int, len(s16)),
		Format:         &audio.Format{NumChannels: stereoChannels, SampleRate: rate},
		SourceBitDepth: bitsPerSample16,
	}

	stats = &renderStats{rate: rate}
	for stats.frames < frames {
		n := min(blockFrames, frames-stats.frames) * stereoChannels
		r.Render(s16[:n])
		stats.peak = max(stats.peak, toIntSamples(buf.Data[:n], s16[:n]))

		chunk := &audio.IntBuffer{Data: buf.Data[:n], Format: buf.Format, SourceBitDepth: buf.SourceBitDepth}
		if err := enc.Write(chunk); err != nil {
			return nil, fmt.Errorf("failed to write audio data: %w", err)
		}
		stats.frames += n / stereoChannels
	}

	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("failed to finish WAV file: %w", err)
	}
	return stats, nil
}

// toIntSamples widens src into dst and returns the peak magnitude.
func toIntSamples(dst []int, src []int16) int {
	peak := 0
	for i, s := range src {
		v := int(s)
		dst[i] = v
		peak = max(peak, v, -v)
	}
	return peak
}
