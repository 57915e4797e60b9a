package engine

import (
	"math/cmplx"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/dsp/fourier"

	"github.com/shinra-electric/rawgl-mixer/internal/channel"
	"github.com/shinra-electric/rawgl-mixer/internal/testutil"
	"github.com/shinra-electric/rawgl-mixer/internal/wav"
)

const testMixFreq = 44100

// addStream adds a constant to every sample and counts calls.
type addStream struct {
	delta int16
	calls int
	last  int
}

func (s *addStream) ReadSamples(buf []int16) {
	s.calls++
	s.last = len(buf)
	for i := range buf {
		buf[i] += s.delta
	}
}

// =============================================================================
// Raw hook
// =============================================================================

func TestMixRaw_SingleChannelDuplicatedToStereo(t *testing.T) {
	e := New(testMixFreq, ModeRawHook)
	data := testutil.RawSound(1, 0, []byte{0x00, 0x01})
	require.NoError(t, e.PlayRaw(0, data, testMixFreq, 64))

	buf := make([]int16, 4)
	e.MixRaw(buf)

	assert.Equal(t, []int16{
		channel.ToS16(0), channel.ToS16(0),
		channel.ToS16(1), channel.ToS16(1),
	}, buf)
}

func TestMixRaw_ClearsBufferFirst(t *testing.T) {
	e := New(testMixFreq, ModeRawHook)
	buf := []int16{500, -500, 7, 7}
	e.MixRaw(buf)
	testutil.AssertSilent(t, buf)
}

func TestMixRaw_AllChannelsSumSaturated(t *testing.T) {
	e := New(testMixFreq, ModeRawHook)
	for ch := range NumChannels {
		require.NoError(t, e.PlayRaw(ch, testutil.RawSound(4, 0, []byte{100, 100, 10, 10, 10, 10, 10, 10}), testMixFreq, 64))
	}

	buf := make([]int16, 6)
	e.MixRaw(buf)

	// Four channels at ToS16(100) overflow; four at ToS16(10) do not.
	assert.Equal(t, int16(32767), buf[0])
	assert.Equal(t, int16(32767), buf[2])
	assert.Equal(t, int16(4*int(channel.ToS16(10))), buf[4])
	testutil.AssertStereoDuplicated(t, buf)
}

func TestMixRaw_PairedStereoRouting(t *testing.T) {
	e := New(testMixFreq, ModeRawHook, WithPairedStereo())
	require.NoError(t, e.PlayRaw(0, testutil.RawSound(1, 0, []byte{10, 10}), testMixFreq, 64))
	require.NoError(t, e.PlayRaw(1, testutil.RawSound(1, 0, []byte{20, 20}), testMixFreq, 64))
	require.NoError(t, e.PlayRaw(2, testutil.RawSound(1, 0, []byte{30, 30}), testMixFreq, 64))

	buf := make([]int16, 4)
	e.MixRaw(buf)

	left := channel.ToS16(10)
	right := channel.MixS16(int(channel.ToS16(20)), int(channel.ToS16(30)))
	assert.Equal(t, []int16{left, right, left, right}, buf)
}

func TestMixRaw_StreamAddsAfterChannels(t *testing.T) {
	e := New(testMixFreq, ModeRawHook)
	require.NoError(t, e.PlayRaw(2, testutil.RawSound(1, 0, []byte{0, 0}), testMixFreq, 64))

	s := &addStream{delta: 3}
	started := false
	e.AttachStream(s, func() { started = true })
	assert.True(t, started)
	assert.Same(t, s, e.Stream())

	buf := make([]int16, 8)
	e.MixRaw(buf)
	assert.Equal(t, 1, s.calls)
	assert.Equal(t, 8, s.last)
	assert.Equal(t, channel.ToS16(0)+3, buf[0])
	assert.Equal(t, int16(3), buf[6])

	e.AttachStream(nil, nil)
	e.MixRaw(buf)
	assert.Equal(t, 1, s.calls)
}

func TestMixRaw_OddBufferLeavesTrailingSample(t *testing.T) {
	e := New(testMixFreq, ModeRawHook)
	require.NoError(t, e.PlayRaw(0, testutil.RawSound(4, 0, make([]byte, 8)), testMixFreq, 64))

	buf := make([]int16, 3)
	e.MixRaw(buf)
	assert.NotZero(t, buf[0])
	assert.Zero(t, buf[2])
}

// The cursor steps the source at freq/mixFreq: halving the frequency halves
// the pitch of a looping tone.
func TestMixRaw_PitchFollowsFrequencyRatio(t *testing.T) {
	const period = 16
	payload := make([]byte, 2*period)
	for i := range payload {
		if i%period < period/2 {
			payload[i] = 100
		} else {
			payload[i] = 0x9C // -100
		}
	}
	sound := testutil.RawSound(period/2, period/2, payload)

	const n = 4096
	peak := func(freq int) int {
		e := New(testMixFreq, ModeRawHook)
		require.NoError(t, e.PlayRaw(0, sound, freq, 64))
		buf := make([]int16, 2*n)
		e.MixRaw(buf)

		seq := make([]float64, n)
		for i, v := range testutil.Left(buf) {
			seq[i] = float64(v)
		}
		coeffs := fourier.NewFFT(n).Coefficients(nil, seq)
		best := 1
		for k := 2; k < len(coeffs); k++ {
			if cmplx.Abs(coeffs[k]) > cmplx.Abs(coeffs[best]) {
				best = k
			}
		}
		return best
	}

	assert.Equal(t, n/period, peak(testMixFreq))
	assert.Equal(t, n/(2*period), peak(testMixFreq/2))
}

// =============================================================================
// WAV hook
// =============================================================================

func TestMixWav_AddsOnTopOfBackendAudio(t *testing.T) {
	e := New(testMixFreq, ModeWavHook)
	data := testutil.WAVBytes(
		testutil.FmtChunk(wav.FormatPCM, 1, 11025, 16, false),
		testutil.DataChunk(testutil.PCM16(1000, 2000)),
	)
	require.NoError(t, e.PlayWav(1, data, testMixFreq, 64, false))

	buf := []int16{100, -100, 100, -100, 100, -100}
	e.MixWav(buf)
	assert.Equal(t, []int16{1100, 900, 2100, 1900, 100, -100}, buf)
	assert.False(t, e.Active(1))
}

func TestMixWav_NoChannelsKeepsBuffer(t *testing.T) {
	e := New(testMixFreq, ModeWavHook)
	buf := []int16{1, 2, 3, 4}
	e.MixWav(buf)
	assert.Equal(t, []int16{1, 2, 3, 4}, buf)
}

func TestMixWav_StereoSource(t *testing.T) {
	e := New(testMixFreq, ModeWavHook)
	data := testutil.WAVBytes(
		testutil.FmtChunk(wav.FormatPCM, 2, 11025, 16, false),
		testutil.DataChunk(testutil.PCM16(10, -10, 20, -20)),
	)
	require.NoError(t, e.PlayWav(0, data, testMixFreq, 64, true))

	buf := make([]int16, 8)
	e.MixWav(buf)
	assert.Equal(t, []int16{10, -10, 20, -20, 10, -10, 20, -20}, buf)
	assert.True(t, e.Active(0))
}

func TestPlayWav_ParseFailureKeepsChannel(t *testing.T) {
	e := New(testMixFreq, ModeWavHook)
	require.NoError(t, e.PlayRaw(0, testutil.RawSound(8, 0, make([]byte, 16)), testMixFreq, 64))

	err := e.PlayWav(0, []byte("definitely not a wave file"), testMixFreq, 64, false)
	require.ErrorIs(t, err, wav.ErrNotRIFF)
	assert.True(t, e.Active(0))

	c, err := e.Channel(0)
	require.NoError(t, err)
	assert.Equal(t, channel.FormatRaw, c.Format())
}

func TestPlayWav_UnsupportedFormat(t *testing.T) {
	e := New(testMixFreq, ModeWavHook)
	data := testutil.WAVBytes(
		testutil.FmtChunk(3, 1, 44100, 32, false),
		testutil.DataChunk(make([]byte, 8)),
	)
	require.ErrorIs(t, e.PlayWav(0, data, testMixFreq, 64, false), wav.ErrUnsupportedFormat)
	assert.False(t, e.Active(0))
}

func TestRescaleWavFreq(t *testing.T) {
	assert.InDelta(t, 22050, RescaleWavFreq(9943, 22050), 1)
	assert.InDelta(t, 44100, RescaleWavFreq(9943, 44100), 1)
	assert.InDelta(t, 2*48000, RescaleWavFreq(2*9943, 48000), 2)
	assert.Equal(t, 9943, RescaleWavFreq(9943, 11025))
	assert.Equal(t, 5000, RescaleWavFreq(5000, 32000))
}

// =============================================================================
// Channel management
// =============================================================================

func TestChannelRange(t *testing.T) {
	e := New(testMixFreq, ModeRawHook)
	data := testutil.RawSound(1, 0, []byte{1, 2})

	require.ErrorIs(t, e.PlayRaw(-1, data, testMixFreq, 64), ErrChannelRange)
	require.ErrorIs(t, e.PlayRaw(NumChannels, data, testMixFreq, 64), ErrChannelRange)
	require.ErrorIs(t, e.PlayWav(9, data, testMixFreq, 64, false), ErrChannelRange)
	require.ErrorIs(t, e.Stop(4), ErrChannelRange)
	require.ErrorIs(t, e.SetVolume(-3, 10), ErrChannelRange)
	_, err := e.Channel(4)
	require.ErrorIs(t, err, ErrChannelRange)
	assert.False(t, e.Active(17))
}

func TestPlayRaw_ShortBufferKeepsChannel(t *testing.T) {
	e := New(testMixFreq, ModeRawHook)
	require.NoError(t, e.PlayRaw(3, testutil.RawSound(8, 0, make([]byte, 16)), testMixFreq, 64))

	require.ErrorIs(t, e.PlayRaw(3, []byte{1}, testMixFreq, 64), channel.ErrShortBuffer)
	assert.True(t, e.Active(3))
}

func TestPlayRaw_ReplacesWholeSlot(t *testing.T) {
	e := New(testMixFreq, ModeRawHook)
	require.NoError(t, e.PlayRaw(0, testutil.RawSound(8, 8, make([]byte, 32)), testMixFreq/2, 10))

	buf := make([]int16, 20)
	e.MixRaw(buf)

	require.NoError(t, e.PlayRaw(0, testutil.RawSound(2, 0, make([]byte, 4)), testMixFreq, 64))
	c, err := e.Channel(0)
	require.NoError(t, err)
	assert.Equal(t, uint32(0), c.Position())
	assert.Equal(t, uint32(4), c.Length())
	assert.Equal(t, uint32(0), c.LoopLength())
	assert.Equal(t, 64, c.Volume())
}

func TestStop_SilencesNextCallback(t *testing.T) {
	e := New(testMixFreq, ModeRawHook)
	require.NoError(t, e.PlayRaw(1, testutil.RawSound(100, 0, make([]byte, 200)), testMixFreq, 64))

	buf := make([]int16, 8)
	e.MixRaw(buf)
	testutil.AssertNoSilence(t, buf)

	require.NoError(t, e.Stop(1))
	e.MixRaw(buf)
	testutil.AssertSilent(t, buf)
	assert.False(t, e.Active(1))
}

func TestStopAll(t *testing.T) {
	e := New(testMixFreq, ModeRawHook)
	for ch := range NumChannels {
		require.NoError(t, e.PlayRaw(ch, testutil.RawSound(100, 0, make([]byte, 200)), testMixFreq, 64))
	}
	e.StopAll()
	for ch := range NumChannels {
		assert.False(t, e.Active(ch))
	}
}

func TestSetVolume(t *testing.T) {
	e := New(testMixFreq, ModeWavHook)
	data := testutil.WAVBytes(
		testutil.FmtChunk(wav.FormatPCM, 1, 11025, 16, false),
		testutil.DataChunk(testutil.PCM16(1000, 1000)),
	)
	require.NoError(t, e.PlayWav(0, data, testMixFreq, 64, false))
	require.NoError(t, e.SetVolume(0, 32))

	buf := make([]int16, 2)
	e.MixWav(buf)
	assert.Equal(t, []int16{500, 500}, buf)
}

func TestModeString(t *testing.T) {
	assert.Equal(t, "native", ModeNative.String())
	assert.Equal(t, "raw", ModeRawHook.String())
	assert.Equal(t, "wav", ModeWavHook.String())
	assert.Equal(t, "Mode(7)", Mode(7).String())
	assert.Equal(t, ModeWavHook, New(testMixFreq, ModeWavHook).Mode())
}
