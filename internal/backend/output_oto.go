//go:build !headless

package backend

import (
	"fmt"
	"sync"
	"time"

	"github.com/ebitengine/oto/v3"
)

// Output plays a device through the system audio stack.
type Output struct {
	ctx     *oto.Context
	player  *oto.Player
	started bool
	mutex   sync.Mutex
}

// OpenOutput opens the speaker at the device rate and starts pulling audio
// from dev. bufferFrames sizes the backend buffer.
func OpenOutput(dev *Device, bufferFrames int) (*Output, error) {
	op := &oto.NewContextOptions{
		SampleRate:   dev.Freq(),
		ChannelCount: stereoChannels,
		Format:       oto.FormatFloat32LE,
		BufferSize:   time.Duration(bufferFrames) * time.Second / time.Duration(dev.Freq()),
	}

	ctx, ready, err := oto.NewContext(op)
	if err != nil {
		return nil, fmt.Errorf("failed to open audio output: %w", err)
	}
	<-ready

	o := &Output{
		ctx:    ctx,
		player: ctx.NewPlayer(dev),
	}
	o.player.Play()
	o.started = true
	return o, nil
}

// Close stops playback.
func (o *Output) Close() error {
	o.mutex.Lock()
	defer o.mutex.Unlock()

	if o.player == nil {
		return nil
	}
	err := o.player.Close()
	o.player = nil
	o.started = false
	return err
}

// IsStarted reports whether the speaker is playing.
func (o *Output) IsStarted() bool {
	o.mutex.Lock()
	defer o.mutex.Unlock()
	return o.started
}
