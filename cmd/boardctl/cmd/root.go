package cmd

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/inamate/inamate/board-go/internal/asset"
	"github.com/inamate/inamate/board-go/internal/board"
	"github.com/inamate/inamate/board-go/internal/document"
	"github.com/inamate/inamate/board-go/internal/task"
	"github.com/inamate/inamate/board-go/internal/widget"
)

var (
	// Global flags
	verbose  bool
	assetDir string
	iconDir  string
)

var rootCmd = &cobra.Command{
	Use:   "boardctl",
	Short: "Offline tools for whiteboard snapshots",
	Long: `Inspect, render and script whiteboard snapshots without a server.

Examples:
  boardctl inspect board.json                       # List the widgets of a snapshot
  boardctl thumbnail board.json -o thumb.png        # Render a preview image
  boardctl replay script.yaml -o board.json         # Run a touch script on a fresh board`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		level := slog.LevelWarn
		if verbose {
			level = slog.LevelDebug
		}
		slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
	},
	SilenceUsage: true,
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().StringVar(&assetDir, "assets", "", "directory relative image paths resolve against (default: next to the snapshot)")
	rootCmd.PersistentFlags().StringVar(&iconDir, "icons", "", "directory of frame icon PNGs")
}

// newBoard builds a board whose work all runs on the calling goroutine.
func newBoard(width, height float64, images string) *board.Board {
	opts := board.DefaultOptions(width, height)
	opts.Exec = task.Inline
	opts.Post = task.Direct
	opts.Images = asset.NewLoader(images)
	opts.Icon = asset.NewIconSet(iconDir, widget.IconNames).Icon
	return board.New(opts)
}

// openBoard restores the snapshot at path at the size it was saved with.
func openBoard(path string) (*board.Board, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read snapshot: %w", err)
	}
	width, height := snapshotSize(data)
	dir := assetDir
	if dir == "" {
		dir = filepath.Dir(path)
	}
	b := newBoard(width, height, dir)
	if err := b.Restore(data); err != nil {
		return nil, err
	}
	return b, nil
}

// snapshotSize reads the board size header, falling back to 1920x1080 for
// bare record arrays and older files.
func snapshotSize(data []byte) (float64, float64) {
	var s document.Snapshot
	if err := json.Unmarshal(data, &s); err != nil || s.Width <= 0 || s.Height <= 0 {
		return 1920, 1080
	}
	return s.Width, s.Height
}
