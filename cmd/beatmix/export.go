package main

import (
	"log"

	"github.com/spf13/cobra"
)

var midiOut string

func init() {
	exportCmd.Flags().StringVarP(&midiOut, "out", "o", "out.mid", "output MIDI path")
	rootCmd.AddCommand(exportCmd)
}

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write the score as a Standard MIDI File",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		score, err := loadScore()
		if err != nil {
			return err
		}
		if err := score.WriteMIDIFile(midiOut); err != nil {
			return err
		}
		log.Printf("wrote %s (%d tracks)", midiOut, len(score.Tracks()))
		return nil
	},
}
