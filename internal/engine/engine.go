// Package engine implements the four-channel software mixing core.
//
// The engine is driven from two sides: the game logic starts, stops and
// re-volumes channels, and the audio callback mixes them into output
// buffers. Both sides take the engine lock, so the callback always sees a
// channel either fully before or fully after a change. No allocation happens
// on the callback path.
package engine

import (
	"errors"
	"fmt"
	"sync"

	"github.com/shinra-electric/rawgl-mixer/internal/channel"
	"github.com/shinra-electric/rawgl-mixer/internal/wav"
)

// ErrChannelRange indicates a channel index outside 0..NumChannels-1.
var ErrChannelRange = errors.New("channel index out of range")

// Mode selects how sound effect channels reach the output.
type Mode int

const (
	// ModeNative leaves mixing to the backend's own channels.
	ModeNative Mode = iota

	// ModeRawHook mixes raw game sounds from a music hook into a silent buffer.
	ModeRawHook

	// ModeWavHook mixes WAV sounds from a post-mix hook on top of the backend output.
	ModeWavHook
)

// String returns the mode name.
func (m Mode) String() string {
	switch m {
	case ModeNative:
		return "native"
	case ModeRawHook:
		return "raw"
	case ModeWavHook:
		return "wav"
	default:
		return fmt.Sprintf("Mode(%d)", int(m))
	}
}

// StreamSource fills an interleaved stereo buffer with additional audio.
type StreamSource interface {
	ReadSamples(buf []int16)
}

// Option configures an Engine.
type Option func(*Engine)

// WithPairedStereo routes channels 0 and 3 to the left and 1 and 2 to the
// right in the raw hook, like the Amiga hardware, instead of mixing all four
// to mono.
func WithPairedStereo() Option {
	return func(e *Engine) {
		e.pairedStereo = true
	}
}

// Engine owns the mixing channels.
type Engine struct {
	mu           sync.Mutex
	channels     [NumChannels]channel.Channel
	mixFreq      int
	mode         Mode
	pairedStereo bool
	stream       StreamSource
}

// New creates an engine mixing at mixFreq Hz.
func New(mixFreq int, mode Mode, opts ...Option) *Engine {
	e := &Engine{
		mixFreq: mixFreq,
		mode:    mode,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Mode returns the mixing strategy chosen at construction.
func (e *Engine) Mode() Mode {
	return e.mode
}

// MixFreq returns the output rate in Hz.
func (e *Engine) MixFreq() int {
	return e.mixFreq
}

// PlayRaw starts a raw game-format sound on channel ch.
func (e *Engine) PlayRaw(ch int, data []byte, freq, volume int) error {
	if err := checkChannel(ch); err != nil {
		return err
	}
	// Decode into a fresh slot so a bad header leaves the old sound playing.
	var c channel.Channel
	if err := c.InitRaw(data, freq, volume, e.mixFreq); err != nil {
		return err
	}

	e.mu.Lock()
	e.channels[ch] = c
	e.mu.Unlock()
	return nil
}

// PlayWav starts a WAV sound on channel ch. freq is the game frequency;
// sounds declared at a standard rate are pitched against the reference rate.
func (e *Engine) PlayWav(ch int, data []byte, freq, volume int, loop bool) error {
	if err := checkChannel(ch); err != nil {
		return err
	}
	v, err := wav.Parse(data)
	if err != nil {
		return err
	}
	freq = RescaleWavFreq(freq, v.SampleRate)

	var c channel.Channel
	c.InitWav(v.PCM, freq, volume, e.mixFreq, v.Frames, v.Is16Bit(), v.IsStereo(), loop)

	e.mu.Lock()
	e.channels[ch] = c
	e.mu.Unlock()
	return nil
}

// RescaleWavFreq converts a game frequency for a WAV declared at wavFreq.
func RescaleWavFreq(freq, wavFreq int) int {
	for _, r := range wavRescaledRates {
		if wavFreq == r {
			return int(float32(freq) * (float32(wavFreq) / wavReferenceFreq))
		}
	}
	return freq
}

// Stop deactivates channel ch. Once Stop returns no callback references the
// channel's previous buffer.
func (e *Engine) Stop(ch int) error {
	if err := checkChannel(ch); err != nil {
		return err
	}
	e.mu.Lock()
	e.channels[ch].Stop()
	e.mu.Unlock()
	return nil
}

// StopAll deactivates every channel.
func (e *Engine) StopAll() {
	e.mu.Lock()
	defer e.mu.Unlock()
	for i := range e.channels {
		e.channels[i].Stop()
	}
}

// SetVolume changes the volume of channel ch.
func (e *Engine) SetVolume(ch, volume int) error {
	if err := checkChannel(ch); err != nil {
		return err
	}
	e.mu.Lock()
	e.channels[ch].SetVolume(volume)
	e.mu.Unlock()
	return nil
}

// Active reports whether channel ch is playing.
func (e *Engine) Active(ch int) bool {
	if checkChannel(ch) != nil {
		return false
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.channels[ch].Active()
}

// Channel returns a snapshot of channel ch.
func (e *Engine) Channel(ch int) (channel.Channel, error) {
	if err := checkChannel(ch); err != nil {
		return channel.Channel{}, err
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.channels[ch], nil
}

// AttachStream sets the source mixed after the channels in the raw hook.
// Attaching nil detaches. fn, when not nil, runs under the engine lock so the
// source can be started or stopped without racing the callback.
func (e *Engine) AttachStream(src StreamSource, fn func()) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if fn != nil {
		fn()
	}
	e.stream = src
}

// Stream returns the attached stream source.
func (e *Engine) Stream() StreamSource {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.stream
}

// MixRaw is the raw hook callback. It clears buf, mixes every channel as
// raw data, then lets the attached stream add to the result. buf holds
// interleaved stereo samples.
func (e *Engine) MixRaw(buf []int16) {
	clear(buf)

	e.mu.Lock()
	defer e.mu.Unlock()

	n := len(buf) &^ 1
	if e.pairedStereo {
		for i := 0; i < n; i += 2 {
			e.channels[0].MixRaw(&buf[i])
			e.channels[3].MixRaw(&buf[i])
			e.channels[1].MixRaw(&buf[i+1])
			e.channels[2].MixRaw(&buf[i+1])
		}
	} else {
		for i := 0; i < n; i += 2 {
			for j := range e.channels {
				e.channels[j].MixRaw(&buf[i])
			}
			buf[i+1] = buf[i]
		}
	}
	if e.stream != nil {
		e.stream.ReadSamples(buf)
	}
}

// MixWav is the post-mix hook callback. It adds every channel as WAV data
// on top of the audio already in buf.
func (e *Engine) MixWav(buf []int16) {
	e.mu.Lock()
	defer e.mu.Unlock()

	n := len(buf) &^ 1
	for i := 0; i < n; i += stereoChannels {
		frame := buf[i : i+stereoChannels]
		for j := range e.channels {
			e.channels[j].MixWav(frame)
		}
	}
}

func checkChannel(ch int) error {
	if ch < 0 || ch >= NumChannels {
		return fmt.Errorf("%w: %d", ErrChannelRange, ch)
	}
	return nil
}
