package main

import (
	"bufio"
	"log"
	"os"

	"github.com/cbegin/beatmix"
	"github.com/spf13/cobra"
)

var (
	outPath string
	rawPCM  bool
)

func init() {
	renderCmd.Flags().StringVarP(&outPath, "out", "o", "out.wav", "output WAV path")
	renderCmd.Flags().BoolVar(&rawPCM, "raw", false, "write raw s16le PCM to stdout instead of a WAV file")
	rootCmd.AddCommand(renderCmd)
}

var renderCmd = &cobra.Command{
	Use:   "render",
	Short: "Render the score to a WAV file or raw PCM",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		score, err := loadScore()
		if err != nil {
			return err
		}
		if rawPCM {
			w := bufio.NewWriter(os.Stdout)
			if err := beatmix.RenderPCM(w, score, renderOptions()...); err != nil {
				return err
			}
			return w.Flush()
		}
		if err := beatmix.RenderWAVFile(outPath, score, renderOptions()...); err != nil {
			return err
		}
		log.Printf("wrote %s (%.2fs)", outPath, score.Duration())
		return nil
	},
}
