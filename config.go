package mixer

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/shinra-electric/rawgl-mixer/internal/engine"
)

// Mode selects how sound effect channels reach the output. The values match
// the integer selector used by the game's configuration.
type Mode int

const (
	// ModeNative plays decoded sounds on the backend's own channels.
	ModeNative Mode = iota

	// ModeRawHook mixes raw game sounds in software from the music hook.
	// It is the mode used with DOS and Amiga game data.
	ModeRawHook

	// ModeWavHook mixes WAV sounds in software on top of the backend output.
	ModeWavHook
)

// String returns the mode name, as accepted by ParseMode.
func (m Mode) String() string {
	return m.engineMode().String()
}

func (m Mode) engineMode() engine.Mode {
	switch m {
	case ModeNative:
		return engine.ModeNative
	case ModeRawHook:
		return engine.ModeRawHook
	case ModeWavHook:
		return engine.ModeWavHook
	default:
		return engine.Mode(m)
	}
}

// ParseMode parses "native", "raw" or "wav".
func ParseMode(s string) (Mode, error) {
	for _, m := range []Mode{ModeNative, ModeRawHook, ModeWavHook} {
		if m.String() == s {
			return m, nil
		}
	}
	return 0, fmt.Errorf("%w: unknown mode %q", ErrInvalidConfig, s)
}

// Output selects where rendered audio goes.
type Output int

const (
	// OutputNone renders only when pulled through Mixer.Render.
	OutputNone Output = iota

	// OutputSpeaker plays through the system audio device.
	OutputSpeaker
)

// String returns the output name.
func (o Output) String() string {
	switch o {
	case OutputNone:
		return "none"
	case OutputSpeaker:
		return "speaker"
	default:
		return fmt.Sprintf("Output(%d)", int(o))
	}
}

// Config holds mixer configuration.
type Config struct {
	// MixFreq is the output sample rate in Hz.
	MixFreq int

	// Mode is the software mixing strategy, fixed for the mixer's lifetime.
	Mode Mode

	// Output selects the audio sink.
	Output Output

	// PairedStereo routes channels 0 and 3 left and 1 and 2 right in
	// ModeRawHook instead of mixing all channels to both sides.
	PairedStereo bool

	// BufferFrames is the speaker buffer size in stereo frames.
	BufferFrames int

	// LogOutput receives log lines. nil means stderr.
	LogOutput io.Writer

	// LogLevel is one of "debug", "info", "warn", "error" or "none".
	// Unknown values mean "warn".
	LogLevel string
}

// ErrInvalidConfig indicates invalid configuration parameters.
var ErrInvalidConfig = errors.New("invalid mixer configuration")

// DefaultConfig returns the configuration used by the game engine.
func DefaultConfig() Config {
	return Config{
		MixFreq:      defaultMixFreq,
		Mode:         ModeRawHook,
		Output:       OutputNone,
		BufferFrames: defaultBufferFrames,
		LogOutput:    os.Stderr,
		LogLevel:     "warn",
	}
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.MixFreq <= 0 {
		return fmt.Errorf("%w: mix frequency must be positive", ErrInvalidConfig)
	}

	if c.MixFreq > maxMixFreq {
		return fmt.Errorf("%w: mix frequency above %d Hz", ErrInvalidConfig, maxMixFreq)
	}

	if c.BufferFrames <= 0 {
		return fmt.Errorf("%w: buffer frames must be positive", ErrInvalidConfig)
	}

	if c.Mode < ModeNative || c.Mode > ModeWavHook {
		return fmt.Errorf("%w: unknown mode %d", ErrInvalidConfig, int(c.Mode))
	}

	if c.Output < OutputNone || c.Output > OutputSpeaker {
		return fmt.Errorf("%w: unknown output %d", ErrInvalidConfig, int(c.Output))
	}

	return nil
}
