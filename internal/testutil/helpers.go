// Package testutil provides reusable test helpers for mixer tests.
package testutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// AssertMonotonic verifies that a slice is monotonically non-decreasing.
func AssertMonotonic(t *testing.T, s []int16, msgAndArgs ...any) bool {
	t.Helper()
	for i := 1; i < len(s); i++ {
		if s[i] < s[i-1] {
			return assert.Fail(t, "not monotonic",
				"s[%d]=%d < s[%d]=%d", i, s[i], i-1, s[i-1])
		}
	}
	return true
}

// AssertSilent verifies that every sample is zero.
func AssertSilent(t *testing.T, s []int16, msgAndArgs ...any) bool {
	t.Helper()
	for i, v := range s {
		if v != 0 {
			return assert.Fail(t, "expected silence",
				"s[%d]=%d is not zero", i, v)
		}
	}
	return true
}

// AssertNoSilence verifies that no sample is zero.
func AssertNoSilence(t *testing.T, s []int16, msgAndArgs ...any) bool {
	t.Helper()
	for i, v := range s {
		if v == 0 {
			return assert.Fail(t, "unexpected silence",
				"s[%d] is zero", i)
		}
	}
	return true
}

// AssertStereoDuplicated verifies that left and right of every interleaved
// stereo frame are equal.
func AssertStereoDuplicated(t *testing.T, s []int16, msgAndArgs ...any) bool {
	t.Helper()
	for i := 0; i+1 < len(s); i += 2 {
		if s[i] != s[i+1] {
			return assert.Fail(t, "channels differ",
				"frame %d: left=%d right=%d", i/2, s[i], s[i+1])
		}
	}
	return true
}

// Left returns the left samples of an interleaved stereo buffer.
func Left(s []int16) []int16 {
	out := make([]int16, 0, len(s)/2)
	for i := 0; i < len(s); i += 2 {
		out = append(out, s[i])
	}
	return out
}
