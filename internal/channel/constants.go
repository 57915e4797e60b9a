package channel

// Raw game-format buffer layout.
const (
	// rawHeaderSize is the offset of the first payload byte.
	rawHeaderSize = 8

	// rawLengthOffset holds the big-endian playable length in words.
	rawLengthOffset = 0

	// rawLoopOffset holds the big-endian loop length in words.
	rawLoopOffset = 2

	// rawWordSize converts header word counts to sample counts.
	rawWordSize = 2
)

// Volume scaling.
const (
	// MaxVolume is the loudest channel volume.
	MaxVolume = 63

	// volumeDivisor scales samples by volume/64.
	volumeDivisor = 64
)

// Signed 16-bit limits.
const (
	minS16 = -32768
	maxS16 = 32767
)

// 8-bit sample conversion.
const (
	signBit8   = 0x80
	minS8      = -128
	maxS8      = 127
	u8Midpoint = 128
)

// s16Bytes is the size of a 16-bit PCM sample.
const s16Bytes = 2
