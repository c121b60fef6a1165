package main

import (
	"log"

	"github.com/cbegin/beatmix"
	"github.com/spf13/cobra"
)

var (
	sampleRate int
	midiPath   string
	waveName   string
	saturate   bool
)

var rootCmd = &cobra.Command{
	Use:   "beatmix",
	Short: "Render beat-timed scores to PCM",
	Long: `beatmix renders a score of oscillator tracks to 16-bit mono PCM.
Without --midi it uses the built-in demo tune.`,
}

func init() {
	log.SetFlags(0)
	f := rootCmd.PersistentFlags()
	f.IntVar(&sampleRate, "sample-rate", beatmix.DefaultSampleRate, "output sample rate")
	f.StringVar(&midiPath, "midi", "", "load the score from a MIDI file instead of the demo")
	f.StringVar(&waveName, "wave", "sine", "oscillator for MIDI parts: sine|square|triangle|saw")
	f.BoolVar(&saturate, "saturate", false, "clamp overflowing samples instead of wrapping")
}

func Execute() {
	cobra.CheckErr(rootCmd.Execute())
}

func loadScore() (*beatmix.Score, error) {
	if midiPath == "" {
		return beatmix.DemoScore()
	}
	if _, err := beatmix.InstrumentByName(waveName); err != nil {
		return nil, err
	}
	return beatmix.ReadMIDIFile(midiPath, func(int, string) beatmix.Oscillator {
		o, _ := beatmix.InstrumentByName(waveName)
		return o
	})
}

func renderOptions() []beatmix.RenderOption {
	opts := []beatmix.RenderOption{
		beatmix.WithSampleRate(sampleRate),
		beatmix.WithSegmentHook(func(info beatmix.SegmentInfo) {
			log.Printf("segment %d: beats %v-%v at %g bpm, %d samples",
				info.Index, info.Start, info.Cutoff, info.Tempo.BPM, info.Samples)
		}),
	}
	if saturate {
		opts = append(opts, beatmix.WithPolicy(beatmix.Saturate))
	}
	return opts
}
