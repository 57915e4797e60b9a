// Package backend is the platform side of the mixer: an output device that
// pulls audio through a music hook, plays decoded chunks on its own
// channels, and exposes a post-mix hook, in the manner of SDL_mixer.
//
// All rendering happens under the device lock, which is the audio lock of
// the system: hook functions run with it held and must not call back into
// the device.
package backend

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"
	"sync"

	"github.com/tphakala/simd/f32"

	"github.com/shinra-electric/rawgl-mixer/internal/channel"
)

// Device errors.
var (
	// ErrChannelRange indicates a native channel that was not allocated.
	ErrChannelRange = errors.New("native channel out of range")

	// ErrClosed indicates an operation on a closed device.
	ErrClosed = errors.New("device closed")
)

// Hook processes an interleaved stereo buffer in place.
type Hook func(buf []int16)

// voice plays one chunk.
type voice struct {
	chunk  *Chunk
	pos    int
	loops  int
	volume int
}

func (v *voice) start(c *Chunk, loops int) {
	v.chunk = c
	v.pos = 0
	v.loops = loops
	if c == nil || len(c.Samples) == 0 {
		v.chunk = nil
	}
}

func (v *voice) playing() bool {
	return v.chunk != nil
}

// mix adds the voice to buf, following its loop count.
func (v *voice) mix(buf []int16) {
	for i := 0; i < len(buf) && v.chunk != nil; i++ {
		if v.pos >= len(v.chunk.Samples) {
			if v.loops == 0 {
				v.chunk = nil
				return
			}
			if v.loops > 0 {
				v.loops--
			}
			v.pos = 0
		}
		s := int(v.chunk.Samples[v.pos]) * v.volume / MaxVolume
		buf[i] = channel.MixS16(int(buf[i]), s)
		v.pos++
	}
}

// Device renders the final output stream.
type Device struct {
	mu        sync.Mutex
	freq      int
	musicHook Hook
	postMix   Hook
	voices    []voice
	music     voice
	closed    bool

	// Scratch buffers for Read, grown on demand.
	s16 []int16
	f32 []float32
}

// NewDevice creates a stereo device rendering at freq Hz.
func NewDevice(freq int) *Device {
	return &Device{
		freq:  freq,
		music: voice{volume: MaxVolume},
	}
}

// Freq returns the output rate in Hz.
func (d *Device) Freq() int {
	return d.freq
}

// SetMusicHook makes fn produce the music part of every buffer, replacing
// the music voice. nil restores the music voice.
func (d *Device) SetMusicHook(fn Hook) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.musicHook = fn
}

// SetPostMix registers fn to run on every buffer after all device mixing.
func (d *Device) SetPostMix(fn Hook) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.postMix = fn
}

// AllocateChannels sets the number of native channels, keeping the state of
// channels below n.
func (d *Device) AllocateChannels(n int) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if n < 0 {
		n = 0
	}
	for len(d.voices) < n {
		d.voices = append(d.voices, voice{volume: MaxVolume})
	}
	d.voices = d.voices[:n]
}

// Channels returns the number of native channels.
func (d *Device) Channels() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.voices)
}

// PlayChannel starts c on native channel ch, repeating it loops more times
// or forever with LoopForever.
func (d *Device) PlayChannel(ch int, c *Chunk, loops int) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return ErrClosed
	}
	if ch < 0 || ch >= len(d.voices) {
		return fmt.Errorf("%w: %d", ErrChannelRange, ch)
	}
	d.voices[ch].start(c, loops)
	return nil
}

// HaltChannel stops native channel ch.
func (d *Device) HaltChannel(ch int) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if ch >= 0 && ch < len(d.voices) {
		d.voices[ch].chunk = nil
	}
}

// Playing reports whether native channel ch has a chunk playing.
func (d *Device) Playing(ch int) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return ch >= 0 && ch < len(d.voices) && d.voices[ch].playing()
}

// Volume sets the volume of native channel ch, clamped to 0..MaxVolume.
func (d *Device) Volume(ch, volume int) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if ch >= 0 && ch < len(d.voices) {
		d.voices[ch].volume = clampVolume(volume)
	}
}

// PlayMusic starts c on the music voice.
func (d *Device) PlayMusic(c *Chunk, loops int) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return ErrClosed
	}
	d.music.start(c, loops)
	return nil
}

// HaltMusic stops the music voice.
func (d *Device) HaltMusic() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.music.chunk = nil
}

// PlayingMusic reports whether the music voice is playing.
func (d *Device) PlayingMusic() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.music.playing()
}

// VolumeMusic sets the music volume, clamped to 0..MaxVolume.
func (d *Device) VolumeMusic(volume int) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.music.volume = clampVolume(volume)
}

// Close halts everything; later renders produce silence.
func (d *Device) Close() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.closed = true
	d.musicHook = nil
	d.postMix = nil
	d.music.chunk = nil
	for i := range d.voices {
		d.voices[i].chunk = nil
	}
}

// Render fills buf with the next interleaved stereo samples.
func (d *Device) Render(buf []int16) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.render(buf)
}

func (d *Device) render(buf []int16) {
	clear(buf)
	if d.closed {
		return
	}
	if d.musicHook != nil {
		d.musicHook(buf)
	} else {
		d.music.mix(buf)
	}
	for i := range d.voices {
		d.voices[i].mix(buf)
	}
	if d.postMix != nil {
		d.postMix(buf)
	}
}

// Read renders little-endian float32 stereo samples into p. It is the
// io.Reader pulled by the speaker output and must not be called
// concurrently with itself.
func (d *Device) Read(p []byte) (int, error) {
	n := len(p) / bytesPerFloat32

	d.mu.Lock()
	if cap(d.s16) < n {
		d.s16 = make([]int16, n)
		d.f32 = make([]float32, n)
	}
	s16 := d.s16[:n]
	f := d.f32[:n]
	d.render(s16)
	d.mu.Unlock()

	toFloat32(f, s16)
	for i, v := range f {
		binary.LittleEndian.PutUint32(p[i*bytesPerFloat32:], math.Float32bits(v))
	}
	clear(p[n*bytesPerFloat32:])
	return len(p), nil
}

// toFloat32 converts samples to the -1..1 range.
func toFloat32(dst []float32, src []int16) {
	for i, s := range src {
		dst[i] = float32(s)
	}
	f32.Scale(dst, dst, s16Scale)
}

func clampVolume(v int) int {
	return max(0, min(v, MaxVolume))
}
