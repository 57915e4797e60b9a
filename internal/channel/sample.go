package channel

// ToS16 widens an 8-bit game sample to 16 bits.
// The extremes saturate; other values are sign-flipped and replicated into
// both bytes, which is the offset PCM convention of the game assets, not a
// linear scale.
func ToS16(a int) int16 {
	switch {
	case a <= minS8:
		return minS16
	case a >= maxS8:
		return maxS16
	}
	u8 := int(uint8(a ^ signBit8))
	return int16((u8<<8 | u8) + minS16)
}

// MixS16 adds two samples, clamping to the int16 range.
func MixS16(a, b int) int16 {
	s := a + b
	if s < minS16 {
		return minS16
	}
	if s > maxS16 {
		return maxS16
	}
	return int16(s)
}
