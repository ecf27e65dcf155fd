package cmd

import (
	"fmt"
	"image/png"
	"os"

	"github.com/spf13/cobra"
)

var (
	thumbOut    string
	thumbWidth  int
	thumbHeight int
)

var thumbnailCmd = &cobra.Command{
	Use:   "thumbnail <snapshot>",
	Short: "Render a snapshot to a PNG",
	Long: `Render every widget of a snapshot into a PNG that fits within the
given size, keeping the board's aspect ratio.

Examples:
  boardctl thumbnail board.json -o thumb.png
  boardctl thumbnail board.json -o big.png --width 1920 --height 1080`,
	Args: cobra.ExactArgs(1),
	RunE: runThumbnail,
}

func init() {
	rootCmd.AddCommand(thumbnailCmd)

	thumbnailCmd.Flags().StringVarP(&thumbOut, "output", "o", "thumbnail.png", "output PNG file")
	thumbnailCmd.Flags().IntVar(&thumbWidth, "width", 320, "maximum width")
	thumbnailCmd.Flags().IntVar(&thumbHeight, "height", 180, "maximum height")
}

func runThumbnail(cmd *cobra.Command, args []string) error {
	if thumbWidth <= 0 || thumbHeight <= 0 {
		return fmt.Errorf("thumbnail size must be positive, got %dx%d", thumbWidth, thumbHeight)
	}
	b, err := openBoard(args[0])
	if err != nil {
		return err
	}
	img := b.Thumbnail(thumbWidth, thumbHeight)

	f, err := os.Create(thumbOut)
	if err != nil {
		return fmt.Errorf("create output: %w", err)
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		return fmt.Errorf("encode png: %w", err)
	}
	if err := f.Close(); err != nil {
		return err
	}
	if verbose {
		fmt.Fprintf(cmd.OutOrStdout(), "wrote %s (%dx%d)\n", thumbOut, img.Bounds().Dx(), img.Bounds().Dy())
	}
	return nil
}
