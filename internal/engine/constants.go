package engine

// Channel layout.
const (
	// NumChannels is the number of mixing slots.
	NumChannels = 4

	// stereoChannels is the sample count of an output frame.
	stereoChannels = 2
)

// WAV frequency rescaling.
const (
	// wavReferenceFreq is the rate game frequencies are expressed against.
	wavReferenceFreq = 9943.0
)

// wavRescaledRates are the declared rates whose sounds are pitched relative
// to wavReferenceFreq.
var wavRescaledRates = [...]int{22050, 44100, 48000}
