package wav

// RIFF layout offsets.
const (
	riffSizeOffset  = 4
	waveIDOffset    = 8
	firstChunkStart = 12
	chunkHeaderSize = 8
	chunkSizeOffset = 4

	// riffEnvelopeHeader is the RIFF id and size preceding the declared extent.
	riffEnvelopeHeader = 8
)

// Format chunk field offsets.
const (
	fmtTagOffset        = 0
	fmtChannelsOffset   = 2
	fmtRateOffset       = 4
	fmtBlockAlignOffset = 12
	fmtBitsOffset       = 14

	// minFmtSize is the smallest format chunk, without bits per sample.
	minFmtSize = 14

	// fullFmtSize is a format chunk that carries bits per sample.
	fullFmtSize = 16
)

// Supported PCM parameters.
const (
	// FormatPCM is the format tag of uncompressed integer PCM.
	FormatPCM = 1

	monoChannels   = 1
	stereoChannels = 2
	bits8          = 8
	bits16         = 16
	bitsPerByte    = 8
)
