package mixer

import "github.com/shinra-electric/rawgl-mixer/internal/engine"

// Defaults
const (
	defaultMixFreq      = 44100
	defaultBufferFrames = 4096
	maxMixFreq          = 192000
)

// Channels
const (
	// NumChannels is the number of sound effect channels.
	NumChannels = engine.NumChannels

	// maxGameVolume is the loudest volume a game script can set.
	maxGameVolume = 63
)

// AIFF preload images start with a FORM header whose size excludes itself.
const (
	formHeaderSize = 8
	formSizeOffset = 4
)
