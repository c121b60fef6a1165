package main

import (
	"log"

	"github.com/cbegin/beatmix"
	"github.com/spf13/cobra"
)

var volume float64

func init() {
	playCmd.Flags().Float64Var(&volume, "volume", 1.0, "master volume scalar")
	rootCmd.AddCommand(playCmd)
}

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Play the score on the default audio device",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		score, err := loadScore()
		if err != nil {
			return err
		}
		pl, err := beatmix.NewPlayer(sampleRate,
			beatmix.WithMasterVolume(volume),
			beatmix.WithRenderOptions(renderOptions()...))
		if err != nil {
			return err
		}
		if err := pl.Play(score); err != nil {
			return err
		}
		log.Printf("playing %.2fs", score.Duration())
		pl.Wait()
		return pl.Stop()
	},
}
