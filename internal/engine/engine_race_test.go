package engine

import (
	"math/rand/v2"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/shinra-electric/rawgl-mixer/internal/testutil"
	"github.com/shinra-electric/rawgl-mixer/internal/wav"
)

// TestEngine_ConcurrentPlayStopMix hammers the engine from a logic goroutine
// while an audio goroutine runs both callbacks. After each Stop returns, the
// logic side overwrites the stopped buffer; a callback still reading it would
// be reported by the race detector.
// Run with: go test -race -run TestEngine_ConcurrentPlayStopMix -count=1
func TestEngine_ConcurrentPlayStopMix(t *testing.T) {
	e := New(testMixFreq, ModeRawHook)
	rng := rand.New(rand.NewPCG(1, 2))

	newRaw := func() []byte {
		payload := make([]byte, 64)
		for i := range payload {
			payload[i] = byte(rng.IntN(256))
		}
		return testutil.RawSound(16, uint16(rng.IntN(2)*16), payload)
	}
	newWav := func() []byte {
		return testutil.WAVBytes(
			testutil.FmtChunk(wav.FormatPCM, uint16(1+rng.IntN(2)), 22050, uint16(8*(1+rng.IntN(2))), false),
			testutil.DataChunk(make([]byte, 64)),
		)
	}

	var wg sync.WaitGroup
	stop := make(chan struct{})

	wg.Go(func() {
		var playing [NumChannels][]byte
		for {
			select {
			case <-stop:
				return
			default:
			}
			ch := rng.IntN(NumChannels)
			switch rng.IntN(4) {
			case 0:
				buf := newRaw()
				_ = e.PlayRaw(ch, buf, 4000+rng.IntN(40000), rng.IntN(64))
				playing[ch] = buf
			case 1:
				buf := newWav()
				_ = e.PlayWav(ch, buf, 4000+rng.IntN(40000), rng.IntN(64), rng.IntN(2) == 0)
				playing[ch] = buf
			case 2:
				_ = e.Stop(ch)
				clear(playing[ch])
				playing[ch] = nil
			case 3:
				_ = e.SetVolume(ch, rng.IntN(64))
			}
		}
	})

	wg.Go(func() {
		buf := make([]int16, 512)
		for {
			select {
			case <-stop:
				return
			default:
			}
			e.MixRaw(buf)
			e.MixWav(buf)
		}
	})

	time.Sleep(100 * time.Millisecond)
	close(stop)
	wg.Wait()

	e.StopAll()
	out := make([]int16, 64)
	e.MixRaw(out)
	assert.Equal(t, make([]int16, 64), out)
}
