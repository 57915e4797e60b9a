// Command rawmix plays game sound resources through the mixer.
//
// Usage:
//
//	rawmix -out mix.wav sound1.raw sound2.raw        # render 2 seconds to a WAV file
//	rawmix -play -freq 11025 sound.raw               # play through the speaker
//	rawmix -mode wav -format wav -loop -play fx.wav  # software WAV mixing
//
// Each input is started on its own channel, up to four.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	mixer "github.com/shinra-electric/rawgl-mixer"
)

const (
	// CLI defaults
	defaultGameFreq = 8000
	defaultVolume   = 63
	defaultSeconds  = 2.0
	defaultMixRate  = 44100
	minRequiredArgs = 1
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	modeName := flag.String("mode", "raw", "Mixing mode: raw, wav, native")
	formatName := flag.String("format", "raw", "Input format: raw, wav")
	freq := flag.Int("freq", defaultGameFreq, "Playback frequency in Hz")
	volume := flag.Int("volume", defaultVolume, "Channel volume (0-63)")
	loop := flag.Bool("loop", false, "Loop WAV inputs")
	seconds := flag.Float64("seconds", defaultSeconds, "Duration to render or play")
	rate := flag.Int("rate", defaultMixRate, "Output sample rate in Hz")
	outPath := flag.String("out", "", "Write the mix to this WAV file")
	play := flag.Bool("play", false, "Play through the speaker")
	paired := flag.Bool("paired", false, "Route channels 0+3 left and 1+2 right in raw mode")
	logLevel := flag.String("loglevel", "warn", "Log level: debug, info, warn, error, none")
	flag.Parse()

	args := flag.Args()
	if len(args) < minRequiredArgs || (*outPath == "" && !*play) {
		fmt.Fprintf(os.Stderr, "Usage: %s [options] sound...\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  %s -out mix.wav a.raw b.raw     # Render to a file\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s -play -freq 11025 a.raw      # Play through the speaker\n", os.Args[0])
		return fmt.Errorf("need at least one sound and -out or -play")
	}
	if len(args) > mixer.NumChannels {
		return fmt.Errorf("at most %d sounds, got %d", mixer.NumChannels, len(args))
	}

	mode, err := mixer.ParseMode(*modeName)
	if err != nil {
		return err
	}
	format, err := parseFormat(*formatName)
	if err != nil {
		return err
	}

	cfg := mixer.DefaultConfig()
	cfg.Mode = mode
	cfg.MixFreq = *rate
	cfg.PairedStereo = *paired
	cfg.LogLevel = *logLevel
	if *play {
		cfg.Output = mixer.OutputSpeaker
	}

	m, err := mixer.New(cfg, nil)
	if err != nil {
		return err
	}
	defer m.Quit()

	for ch, path := range args {
		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("failed to read sound: %w", err)
		}
		switch format {
		case formatRaw:
			m.PlaySoundRaw(ch, data, *freq, *volume)
		case formatWav:
			m.PlaySoundWav(ch, data, *freq, *volume, *loop)
		}
	}

	if *play {
		if !m.OutputStarted() {
			return fmt.Errorf("audio output unavailable")
		}
		time.Sleep(time.Duration(*seconds * float64(time.Second)))
		return nil
	}

	start := time.Now()
	stats, err := renderToWAV(m, *outPath, *rate, int(*seconds*float64(*rate)))
	if err != nil {
		return err
	}

	fmt.Printf("Rendered %d sound(s) -> %s\n", len(args), filepath.Base(*outPath))
	fmt.Printf("  %s mode, %d Hz, %d frames, peak %d\n", mode, stats.rate, stats.frames, stats.peak)
	fmt.Printf("  Took %v\n", time.Since(start))
	return nil
}
