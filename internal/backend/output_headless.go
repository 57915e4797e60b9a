//go:build headless

package backend

// Output is inert in headless builds; the device is pulled with Render.
type Output struct {
	started bool
}

func OpenOutput(dev *Device, bufferFrames int) (*Output, error) {
	return &Output{started: true}, nil
}

func (o *Output) Close() error {
	o.started = false
	return nil
}

func (o *Output) IsStarted() bool {
	return o.started
}
