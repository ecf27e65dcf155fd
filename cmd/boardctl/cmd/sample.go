package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/inamate/inamate/board-go/internal/document"
)

var (
	sampleOut    string
	sampleWidth  float64
	sampleHeight float64
)

var sampleCmd = &cobra.Command{
	Use:   "sample",
	Short: "Write a demo snapshot with one widget of each kind",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if sampleWidth <= 0 || sampleHeight <= 0 {
			return fmt.Errorf("board size must be positive, got %vx%v", sampleWidth, sampleHeight)
		}
		data, err := json.MarshalIndent(document.NewSampleSnapshot(sampleWidth, sampleHeight), "", "  ")
		if err != nil {
			return err
		}
		return os.WriteFile(sampleOut, data, 0o644)
	},
}

func init() {
	rootCmd.AddCommand(sampleCmd)

	sampleCmd.Flags().StringVarP(&sampleOut, "output", "o", "sample.json", "output snapshot file")
	sampleCmd.Flags().Float64Var(&sampleWidth, "width", 1920, "board width")
	sampleCmd.Flags().Float64Var(&sampleHeight, "height", 1080, "board height")
}
