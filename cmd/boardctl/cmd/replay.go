package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/inamate/inamate/board-go/internal/board"
	"github.com/inamate/inamate/board-go/internal/input"
)

// Script is a replayable board session:
//
//	width: 1920
//	height: 1080
//	steps:
//	  - command: {name: armShape, shape: rectangle}
//	  - touch:
//	      - {action: down, x: 100, y: 100}
//	      - {action: up, x: 300, y: 200}
//	  - command: {name: undo}
type Script struct {
	Width  float64 `yaml:"width"`
	Height float64 `yaml:"height"`
	Steps  []Step  `yaml:"steps"`
}

// Step holds either touch events or one command.
type Step struct {
	Touch   []input.Event  `yaml:"touch,omitempty"`
	Command *board.Command `yaml:"command,omitempty"`
}

var errEmptyStep = errors.New("step has neither touch nor command")

// ParseScript reads a yaml script. Missing sizes default to 1920x1080.
func ParseScript(r io.Reader) (*Script, error) {
	var s Script
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&s); err != nil {
		return nil, fmt.Errorf("parse script: %w", err)
	}
	if s.Width == 0 {
		s.Width = 1920
	}
	if s.Height == 0 {
		s.Height = 1080
	}
	if s.Width < 0 || s.Height < 0 {
		return nil, fmt.Errorf("parse script: invalid board size %vx%v", s.Width, s.Height)
	}
	for i, st := range s.Steps {
		if len(st.Touch) == 0 && st.Command == nil {
			return nil, fmt.Errorf("parse script: step %d: %w", i, errEmptyStep)
		}
	}
	return &s, nil
}

// Run applies every step in order. Touch events are given in board pixels
// at the current scale, exactly as a client would send them.
func (s *Script) Run(b *board.Board) error {
	for i, st := range s.Steps {
		for _, ev := range st.Touch {
			b.Touch(ev)
		}
		if st.Command != nil {
			if err := b.Exec(*st.Command); err != nil {
				return fmt.Errorf("step %d: %w", i, err)
			}
		}
	}
	return nil
}

var replayOut string

var replayCmd = &cobra.Command{
	Use:   "replay <script.yaml>",
	Short: "Run a touch and command script on a fresh board",
	Long: `Run a yaml script of touch events and board commands against an empty
board and save the resulting snapshot.

Examples:
  boardctl replay testdata/rectangle.yaml -o board.json
  boardctl replay session.yaml -o out.json --assets ./data/assets`,
	Args: cobra.ExactArgs(1),
	RunE: runReplay,
}

func init() {
	rootCmd.AddCommand(replayCmd)

	replayCmd.Flags().StringVarP(&replayOut, "output", "o", "board.json", "output snapshot file")
}

func runReplay(cmd *cobra.Command, args []string) error {
	f, err := os.Open(args[0])
	if err != nil {
		return fmt.Errorf("open script: %w", err)
	}
	defer f.Close()
	script, err := ParseScript(f)
	if err != nil {
		return err
	}

	dir := assetDir
	if dir == "" {
		dir = filepath.Dir(args[0])
	}
	b := newBoard(script.Width, script.Height, dir)
	if err := script.Run(b); err != nil {
		return err
	}
	if !b.Save(replayOut) {
		return fmt.Errorf("save %s failed", replayOut)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%d steps, %d widgets, %d undoable -> %s\n",
		len(script.Steps), len(b.Widgets()), b.UndoLen(), replayOut)
	return nil
}
