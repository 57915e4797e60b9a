// Package fixed implements the fixed-point playback cursor used to step
// through sample buffers at an arbitrary source/mix frequency ratio.
package fixed

// Bits is the number of fractional bits in a cursor position.
const Bits = 16

// fracMask selects the fractional part of an offset.
const fracMask = 1<<Bits - 1

// Frac is a playback position of Offset / 2^Bits frames into a buffer,
// advanced by Inc once per output frame.
type Frac struct {
	Inc    uint32
	Offset uint64
}

// Reset sets the increment to freq/mixFreq and rewinds to frame 0.
// The shift is done in 64 bits so high source rates cannot overflow.
// mixFreq must be positive.
func (f *Frac) Reset(freq, mixFreq int) {
	f.Inc = uint32((int64(freq) << Bits) / int64(mixFreq))
	f.Offset = 0
}

// Int returns the integer frame index of the position.
func (f *Frac) Int() uint32 {
	return uint32(f.Offset >> Bits)
}

// Frac returns the fractional part of the position.
func (f *Frac) Frac() uint32 {
	return uint32(f.Offset & fracMask)
}

// Advance moves the position forward by one increment.
func (f *Frac) Advance() {
	f.Offset += uint64(f.Inc)
}

// Seek places the position at frame pos, then applies one increment.
// Loop wraparound uses it to re-seed the cursor.
func (f *Frac) Seek(pos uint32) {
	f.Offset = uint64(pos)<<Bits + uint64(f.Inc)
}
