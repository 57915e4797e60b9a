// Package mixer is the sound system of a retro adventure-game engine: a
// fixed-point, four-channel software mixer for the game's raw 8-bit sounds
// and WAV effects, on top of a software audio device.
//
// # Quick Start
//
//	cfg := mixer.DefaultConfig()
//	cfg.Output = mixer.OutputSpeaker
//	m, err := mixer.New(cfg, nil)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer m.Quit()
//
//	m.PlaySoundRaw(0, data, 8000, 63)
//
// Without a speaker output the mixer is pulled explicitly:
//
//	buf := make([]int16, 2*1024)
//	m.Render(buf)
//
// # Modes
//
// The mixing strategy is chosen once, in [Config.Mode]:
//
//   - [ModeRawHook]: channels hold raw game sounds (big-endian word lengths,
//     signed 8-bit mono payload) and are mixed from the device music hook
//     into a silent buffer. The tracker player, when playing, adds its
//     output afterwards.
//   - [ModeWavHook]: channels hold 8- or 16-bit mono or stereo PCM WAV
//     sounds and are added on top of the device output by a post-mix hook.
//   - [ModeNative]: no software mixing. WAV sounds are decoded and played
//     on the device's own channels.
//
// Preloaded AIFF sounds and music files always play on the device's own
// channels and music voice.
//
// # Pitch
//
// Every channel steps through its sound with a 16.16 fixed-point cursor
// advanced by freq/mixFreq per output frame. There is no interpolation:
// samples are picked, not filtered. WAV sounds declared at 22050, 44100 or
// 48000 Hz are pitched against a 9943 Hz reference rate.
//
// # Concurrency
//
// Mixer methods belong to the game logic goroutine. Audio is rendered from
// the output goroutine, or from whoever calls [Mixer.Render]. Every channel
// change is made under the engine lock that the mixing callbacks also
// hold, so a callback never sees a half-initialized channel, and once
// [Mixer.StopSound] returns no callback reads the stopped sound's data.
package mixer
