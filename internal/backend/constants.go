package backend

// Output layout.
const (
	// stereoChannels is the sample count of a device frame.
	stereoChannels = 2

	// bytesPerFloat32 is the size of one output sample handed to oto.
	bytesPerFloat32 = 4
)

// Volume.
const (
	// MaxVolume is the loudest native channel or music volume.
	MaxVolume = 128
)

// Loop counts.
const (
	// LoopForever repeats a chunk until halted.
	LoopForever = -1
)

// Sample conversion.
const (
	bits16    = 16
	bits8     = 8
	u8Offset  = 128
	s16Scale  = 1.0 / 32768.0
	minS16    = -32768
	maxS16    = 32767
	monoInput = 1
)

// Hermite interpolation coefficients, as in y = ((a*x + b)*x + c)*x + d.
const (
	hermiteCoeff0_5 = 0.5
	hermiteCoeff1_5 = 1.5
	hermiteCoeff2_5 = 2.5
)

// Container magics.
const (
	riffMagic = "RIFF"
	formMagic = "FORM"
)
