// Package channel implements a single playback slot of the software mixer.
//
// A Channel borrows its sample buffer: nothing is copied, and the caller must
// keep the bytes unchanged while the channel is active. The channel is not
// safe for concurrent use; the engine serializes access.
package channel

import (
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/shinra-electric/rawgl-mixer/internal/fixed"
)

// ErrShortBuffer indicates a raw buffer without a complete header.
var ErrShortBuffer = errors.New("raw sound buffer too short")

// Format identifies the sample representation of an active channel.
type Format uint8

const (
	// FormatRaw is header-prefixed signed 8-bit game data.
	FormatRaw Format = iota
	// FormatWav8Mono is unsigned 8-bit mono PCM.
	FormatWav8Mono
	// FormatWav8Stereo is unsigned 8-bit interleaved stereo PCM.
	FormatWav8Stereo
	// FormatWav16Mono is signed little-endian 16-bit mono PCM.
	FormatWav16Mono
	// FormatWav16Stereo is signed little-endian 16-bit interleaved stereo PCM.
	FormatWav16Stereo
)

// WavFormat returns the format for the given PCM layout.
func WavFormat(bits16, stereo bool) Format {
	switch {
	case bits16 && stereo:
		return FormatWav16Stereo
	case bits16:
		return FormatWav16Mono
	case stereo:
		return FormatWav8Stereo
	default:
		return FormatWav8Mono
	}
}

// String returns a short name of the format.
func (f Format) String() string {
	switch f {
	case FormatRaw:
		return "raw"
	case FormatWav8Mono:
		return "wav8-mono"
	case FormatWav8Stereo:
		return "wav8-stereo"
	case FormatWav16Mono:
		return "wav16-mono"
	case FormatWav16Stereo:
		return "wav16-stereo"
	default:
		return fmt.Sprintf("Format(%d)", uint8(f))
	}
}

// Channel is one mixing slot. The zero value is inactive.
type Channel struct {
	data    []byte
	pos     fixed.Frac
	length  uint32
	loopLen uint32
	loopPos uint32
	volume  int
	format  Format
}

// InitRaw starts raw game-format playback of data.
//
// The first big-endian word is the playable length and the second the loop
// length, both in words. A looping sound restarts at the end of the playable
// part, not at frame 0. The payload starts 8 bytes into data.
func (c *Channel) InitRaw(data []byte, freq, volume, mixFreq int) error {
	if len(data) < rawHeaderSize {
		return fmt.Errorf("%w: %d bytes", ErrShortBuffer, len(data))
	}
	length := uint32(binary.BigEndian.Uint16(data[rawLengthOffset:])) * rawWordSize
	loopLen := uint32(binary.BigEndian.Uint16(data[rawLoopOffset:])) * rawWordSize

	c.data = data[rawHeaderSize:]
	c.pos.Reset(freq, mixFreq)
	c.length = length
	c.loopLen = loopLen
	c.loopPos = 0
	if loopLen != 0 {
		c.loopPos = length
	}
	c.volume = volume
	c.format = FormatRaw
	return nil
}

// InitWav starts playback of a PCM payload of length frames.
// A looping WAV restarts at frame 0.
func (c *Channel) InitWav(pcm []byte, freq, volume, mixFreq, length int, bits16, stereo, loop bool) {
	c.data = pcm
	c.pos.Reset(freq, mixFreq)
	c.length = uint32(length)
	c.loopLen = 0
	if loop {
		c.loopLen = uint32(length)
	}
	c.loopPos = 0
	c.volume = volume
	c.format = WavFormat(bits16, stereo)
}

// Stop deactivates the channel and releases its buffer.
func (c *Channel) Stop() {
	c.data = nil
}

// SetVolume changes the volume of the current sound.
func (c *Channel) SetVolume(volume int) {
	c.volume = volume
}

// Active reports whether the channel still produces output.
func (c *Channel) Active() bool {
	return c.data != nil
}

// Volume returns the channel volume.
func (c *Channel) Volume() int {
	return c.volume
}

// Format returns the sample representation of the current sound.
func (c *Channel) Format() Format {
	return c.format
}

// Position returns the integer frame index of the cursor.
func (c *Channel) Position() uint32 {
	return c.pos.Int()
}

// LoopStart returns the first frame of the loop region.
func (c *Channel) LoopStart() uint32 {
	return c.loopPos
}

// LoopLength returns the loop length in frames, 0 when not looping.
func (c *Channel) LoopLength() uint32 {
	return c.loopLen
}

// Length returns the playable length in frames.
func (c *Channel) Length() uint32 {
	return c.length
}

// MixRaw mixes the next frame into *dst as raw game data.
//
// The sample is fetched at the cursor position before it is advanced.
// Reaching the end of the loop region seeks back to its start; reaching the
// end of a non-looping sound deactivates the channel.
func (c *Channel) MixRaw(dst *int16) {
	if c.data == nil {
		return
	}
	pos := c.pos.Int()
	c.pos.Advance()
	if c.loopLen != 0 {
		if pos >= c.loopPos+c.loopLen {
			pos = c.loopPos
			c.pos.Seek(c.loopPos)
		}
	} else if pos >= c.length {
		c.data = nil
		return
	}
	if pos >= uint32(len(c.data)) {
		c.data = nil
		return
	}
	*dst = MixS16(int(*dst), int(ToS16(int(int8(c.data[pos]))*c.volume/volumeDivisor)))
}

// MixWav mixes the next frame into the interleaved stereo frame dst.
//
// A looping sound restarts at frame 0 with the cursor re-seeded to one
// increment; a non-looping sound deactivates at its end. Mono sources feed
// both sides. A raw sound mixed here is read as 8-bit mono.
func (c *Channel) MixWav(dst []int16) {
	if c.data == nil {
		return
	}
	pos, ok := c.advanceWav()
	if !ok {
		return
	}
	switch c.format {
	case FormatWav8Stereo:
		c.mixWav8Stereo(dst, pos)
	case FormatWav16Mono:
		c.mixWav16Mono(dst, pos)
	case FormatWav16Stereo:
		c.mixWav16Stereo(dst, pos)
	default:
		c.mixWav8Mono(dst, pos)
	}
}

// advanceWav steps the cursor and returns the frame to read.
func (c *Channel) advanceWav() (uint32, bool) {
	pos := c.pos.Int()
	c.pos.Advance()
	if pos >= c.length {
		if c.loopLen == 0 {
			c.data = nil
			return 0, false
		}
		pos = 0
		c.pos.Seek(0)
	}
	return pos, true
}

func (c *Channel) mixWav8Mono(dst []int16, pos uint32) {
	if pos >= uint32(len(c.data)) {
		c.data = nil
		return
	}
	v := c.u8(pos)
	dst[0] = MixS16(int(dst[0]), v)
	dst[1] = MixS16(int(dst[1]), v)
}

func (c *Channel) mixWav8Stereo(dst []int16, pos uint32) {
	i := pos * 2
	if i+1 >= uint32(len(c.data)) {
		c.data = nil
		return
	}
	dst[0] = MixS16(int(dst[0]), c.u8(i))
	dst[1] = MixS16(int(dst[1]), c.u8(i+1))
}

func (c *Channel) mixWav16Mono(dst []int16, pos uint32) {
	if (pos+1)*s16Bytes > uint32(len(c.data)) {
		c.data = nil
		return
	}
	v := c.s16(pos)
	dst[0] = MixS16(int(dst[0]), v)
	dst[1] = MixS16(int(dst[1]), v)
}

func (c *Channel) mixWav16Stereo(dst []int16, pos uint32) {
	i := pos * 2
	if (i+2)*s16Bytes > uint32(len(c.data)) {
		c.data = nil
		return
	}
	dst[0] = MixS16(int(dst[0]), c.s16(i))
	dst[1] = MixS16(int(dst[1]), c.s16(i+1))
}

// u8 returns the volume-scaled unsigned 8-bit sample at index i.
func (c *Channel) u8(i uint32) int {
	return int(ToS16(int(c.data[i])-u8Midpoint)) * c.volume / volumeDivisor
}

// s16 returns the volume-scaled little-endian 16-bit sample at index i.
func (c *Channel) s16(i uint32) int {
	v := int16(binary.LittleEndian.Uint16(c.data[i*s16Bytes:]))
	return int(v) * c.volume / volumeDivisor
}
