package mixer

import (
	"encoding/binary"
	"os"

	"github.com/shinra-electric/rawgl-mixer/internal/backend"
	"github.com/shinra-electric/rawgl-mixer/internal/engine"
	"github.com/shinra-electric/rawgl-mixer/internal/log"
)

// StreamSource fills an interleaved stereo buffer; len(buf) is the sample
// count. It is used for streamed AIFF music.
type StreamSource interface {
	ReadSamples(buf []int16)
}

// SfxPlayer is the tracker music player. ReadSamples adds its output to the
// interleaved stereo buffer produced by the raw hook.
type SfxPlayer interface {
	Play(mixFreq int)
	Stop()
	ReadSamples(buf []int16)
}

// Mixer is the sound system used by the game logic.
//
// Mixer methods are meant to be called from the logic goroutine. Render and
// the speaker output may pull audio concurrently from other goroutines.
type Mixer struct {
	cfg    Config
	logger *log.Logger

	engine *engine.Engine
	device *backend.Device
	output *backend.Output

	// Native chunks currently owned by each device channel.
	sounds   [NumChannels]*backend.Chunk
	preloads *preloadCache

	sfx        SfxPlayer
	sfxPlaying bool
	aifc       StreamSource
	closed     bool
}

// New creates a mixer and starts its output. sfx may be nil when no tracker
// music is available. Failing to open the speaker is not fatal: the mixer
// keeps working and can still be pulled with Render.
func New(cfg Config, sfx SfxPlayer) (*Mixer, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if cfg.LogOutput == nil {
		cfg.LogOutput = os.Stderr
	}

	var opts []engine.Option
	if cfg.PairedStereo {
		opts = append(opts, engine.WithPairedStereo())
	}

	m := &Mixer{
		cfg:      cfg,
		logger:   log.New(cfg.LogOutput, log.LevelFromString(cfg.LogLevel)),
		engine:   engine.New(cfg.MixFreq, cfg.Mode.engineMode(), opts...),
		device:   backend.NewDevice(cfg.MixFreq),
		preloads: newPreloadCache(),
		sfx:      sfx,
	}

	// Native channels back AIFF sounds in every mode.
	m.device.AllocateChannels(NumChannels)
	switch cfg.Mode {
	case ModeRawHook:
		m.device.SetMusicHook(m.engine.MixRaw)
	case ModeWavHook:
		m.device.SetPostMix(m.engine.MixWav)
	}

	if cfg.Output == OutputSpeaker {
		out, err := backend.OpenOutput(m.device, cfg.BufferFrames)
		if err != nil {
			m.logger.Warnf("Failed to open audio output: %v", err)
		} else {
			m.output = out
		}
	}

	m.logger.Debugf("Mixer.init(%s, %d Hz)", cfg.Mode, cfg.MixFreq)
	return m, nil
}

// Quit stops every sound and closes the output. The mixer renders silence
// afterwards.
func (m *Mixer) Quit() {
	if m.closed {
		return
	}
	m.StopAll()
	m.device.Close()
	if m.output != nil {
		if err := m.output.Close(); err != nil {
			m.logger.Warnf("Failed to close audio output: %v", err)
		}
		m.output = nil
	}
	m.closed = true
}

// Update releases native sounds whose device channel has finished.
func (m *Mixer) Update() {
	for ch := range m.sounds {
		if m.sounds[ch] != nil && !m.device.Playing(ch) {
			m.sounds[ch] = nil
		}
	}
}

// PlaySoundRaw starts a raw game-format sound on channel ch. freq is the
// playback rate in Hz and volume is 0..63.
func (m *Mixer) PlaySoundRaw(ch int, data []byte, freq, volume int) {
	m.logger.Debugf("Mixer.playSoundRaw(%d, %d, %d)", ch, freq, volume)
	if err := m.engine.PlayRaw(ch, data, freq, volume); err != nil {
		m.logger.Warnf("Mixer.playSoundRaw(%d): %v", ch, err)
	}
}

// PlaySoundWav starts a WAV sound on channel ch. In native mode the sound is
// decoded and played by the device instead of the software mixer.
func (m *Mixer) PlaySoundWav(ch int, data []byte, freq, volume int, loop bool) {
	m.logger.Debugf("Mixer.playSoundWav(%d, %d, %t)", ch, volume, loop)

	if m.cfg.Mode == ModeNative {
		chunk, err := backend.LoadChunk(data, m.device.Freq())
		if err != nil {
			m.logger.Warnf("Mixer.playSoundWav(%d): %v", ch, err)
			return
		}
		loops := 0
		if loop {
			loops = backend.LoopForever
		}
		m.playSound(ch, volume, chunk, loops)
		return
	}

	if err := m.engine.PlayWav(ch, data, freq, volume, loop); err != nil {
		m.logger.Warnf("Mixer.playSoundWav(%d): %v", ch, err)
	}
}

// playSound replaces whatever channel ch plays with a native chunk.
func (m *Mixer) playSound(ch, volume int, chunk *backend.Chunk, loops int) {
	if !m.validChannel(ch) {
		return
	}
	m.StopSound(ch)
	if chunk != nil {
		if err := m.device.PlayChannel(ch, chunk, loops); err != nil {
			m.logger.Warnf("Mixer.playSound(%d): %v", ch, err)
		}
	}
	m.SetChannelVolume(ch, volume)
	m.sounds[ch] = chunk
}

// StopSound silences channel ch in both the software mixer and the device.
// Once it returns, the mixing callback no longer reads the channel's data.
func (m *Mixer) StopSound(ch int) {
	m.logger.Debugf("Mixer.stopSound(%d)", ch)
	if !m.validChannel(ch) {
		return
	}
	_ = m.engine.Stop(ch)
	m.device.HaltChannel(ch)
	m.sounds[ch] = nil
}

// SetChannelVolume sets the volume of channel ch, 0..63.
func (m *Mixer) SetChannelVolume(ch, volume int) {
	m.logger.Debugf("Mixer.setChannelVolume(%d, %d)", ch, volume)
	if err := m.engine.SetVolume(ch, volume); err != nil {
		m.logger.Warnf("Mixer.setChannelVolume(%d): %v", ch, err)
		return
	}
	m.device.Volume(ch, deviceVolume(volume))
}

// PlayMusic loads a music file and plays it at half volume, looping forever
// when loop is set.
func (m *Mixer) PlayMusic(path string, loop bool) {
	m.logger.Debugf("Mixer.playMusic(%s, %t)", path, loop)
	m.stopMusic()

	chunk, err := backend.LoadChunkFile(path, m.device.Freq())
	if err != nil {
		m.logger.Warnf("Failed to load music '%s': %v", path, err)
		return
	}
	loops := 0
	if loop {
		loops = backend.LoopForever
	}
	m.device.VolumeMusic(backend.MaxVolume / 2)
	if err := m.device.PlayMusic(chunk, loops); err != nil {
		m.logger.Warnf("Mixer.playMusic(%s): %v", path, err)
	}
}

// StopMusic halts the music started by PlayMusic.
func (m *Mixer) StopMusic() {
	m.logger.Debugf("Mixer.stopMusic()")
	m.stopMusic()
}

func (m *Mixer) stopMusic() {
	m.device.HaltMusic()
}

// PlayAifcMusic routes a streamed music source through the music hook. The
// caller keeps ownership of src and stops it after StopAifcMusic.
func (m *Mixer) PlayAifcMusic(src StreamSource) {
	m.logger.Debugf("Mixer.playAifcMusic()")
	m.restoreMusicHook()
	if src == nil {
		return
	}
	m.aifc = src
	m.device.SetMusicHook(src.ReadSamples)
}

// StopAifcMusic detaches the streamed music source.
func (m *Mixer) StopAifcMusic() {
	m.logger.Debugf("Mixer.stopAifcMusic()")
	if m.aifc == nil {
		return
	}
	m.restoreMusicHook()
}

// restoreMusicHook gives the music hook back to the software mixer in raw
// mode, or to the music voice otherwise.
func (m *Mixer) restoreMusicHook() {
	m.aifc = nil
	if m.cfg.Mode == ModeRawHook {
		m.device.SetMusicHook(m.engine.MixRaw)
	} else {
		m.device.SetMusicHook(nil)
	}
}

// PlaySfxMusic starts the tracker player. Its output is added by the raw
// hook, so it is audible in ModeRawHook only.
func (m *Mixer) PlaySfxMusic(num int) {
	m.logger.Debugf("Mixer.playSfxMusic(%d)", num)
	if m.sfx == nil {
		return
	}
	freq := m.engine.MixFreq()
	m.engine.AttachStream(m.sfx, func() {
		m.sfx.Play(freq)
	})
	m.sfxPlaying = true
}

// StopSfxMusic stops the tracker player.
func (m *Mixer) StopSfxMusic() {
	m.logger.Debugf("Mixer.stopSfxMusic()")
	if m.sfx == nil || !m.sfxPlaying {
		return
	}
	m.engine.AttachStream(nil, m.sfx.Stop)
	m.sfxPlaying = false
}

// StopAll stops every channel, the music and the tracker player, and
// flushes preloaded sounds.
func (m *Mixer) StopAll() {
	m.logger.Debugf("Mixer.stopAll()")
	for ch := range NumChannels {
		m.StopSound(ch)
	}
	m.stopMusic()
	m.StopSfxMusic()
	m.preloads.flush(func(num int) {
		m.logger.Debugf("Flush preload %d", num)
	})
}

// PreloadSoundAiff decodes an AIFF sound image and stores it as num. The
// image size is taken from its FORM header.
func (m *Mixer) PreloadSoundAiff(num int, data []byte) {
	m.logger.Debugf("Mixer.preloadSoundAiff(num:%d, size:%d)", num, len(data))
	if m.preloads.has(num) {
		m.logger.Warnf("AIFF sound %d is already preloaded", num)
		return
	}
	if len(data) < formHeaderSize {
		m.logger.Warnf("AIFF sound %d: truncated header", num)
		return
	}

	size := int(binary.BigEndian.Uint32(data[formSizeOffset:])) + formHeaderSize
	size = min(size, len(data))
	chunk, err := backend.LoadChunk(data[:size], m.device.Freq())
	if err != nil {
		m.logger.Warnf("AIFF sound %d: %v", num, err)
		return
	}
	m.preloads.put(num, chunk)
}

// PlaySoundAiff plays preloaded sound num on device channel ch. volume is
// 0..63.
func (m *Mixer) PlaySoundAiff(ch, num, volume int) {
	m.logger.Debugf("Mixer.playSoundAiff(%d, %d, %d)", ch, num, volume)
	chunk, ok := m.preloads.get(num)
	if !ok {
		m.logger.Warnf("AIFF sound %d is not preloaded", num)
		return
	}
	if err := m.device.PlayChannel(ch, chunk, 0); err != nil {
		m.logger.Warnf("Mixer.playSoundAiff(%d): %v", ch, err)
		return
	}
	m.device.Volume(ch, deviceVolume(volume))
}

// Render pulls the next interleaved stereo samples from the device.
func (m *Mixer) Render(buf []int16) {
	m.device.Render(buf)
}

// MixFreq returns the output rate in Hz.
func (m *Mixer) MixFreq() int {
	return m.cfg.MixFreq
}

// Mode returns the mixing strategy.
func (m *Mixer) Mode() Mode {
	return m.cfg.Mode
}

// OutputStarted reports whether the speaker output is playing.
func (m *Mixer) OutputStarted() bool {
	return m.output != nil && m.output.IsStarted()
}

func (m *Mixer) validChannel(ch int) bool {
	if ch < 0 || ch >= NumChannels {
		m.logger.Warnf("Invalid channel %d", ch)
		return false
	}
	return true
}

// deviceVolume converts a game volume to the device scale.
func deviceVolume(volume int) int {
	return volume * backend.MaxVolume / maxGameVolume
}
