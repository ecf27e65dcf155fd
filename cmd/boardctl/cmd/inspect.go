package cmd

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/inamate/inamate/board-go/internal/document"
)

var inspectCmd = &cobra.Command{
	Use:   "inspect <snapshot>",
	Short: "List the widgets of a snapshot",
	Args:  cobra.ExactArgs(1),
	RunE:  runInspect,
}

func init() {
	rootCmd.AddCommand(inspectCmd)
}

func runInspect(cmd *cobra.Command, args []string) error {
	data, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("read snapshot: %w", err)
	}
	recs, err := document.Decode(data)
	if err != nil {
		return err
	}
	width, height := snapshotSize(data)

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Board %vx%v, %d widgets (bottom to top)\n\n", width, height, len(recs))
	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "#\tKIND\tID\tRECT\tROTATION\tDETAIL")
	for i, r := range recs {
		fmt.Fprintf(tw, "%d\t%s\t%s\t(%.0f,%.0f,%.0f,%.0f)\t%.1f\t%s\n",
			i, r.Kind, r.ID, r.Rect.Left, r.Rect.Top, r.Rect.Right, r.Rect.Bottom, r.Rotation, detail(r))
	}
	return tw.Flush()
}

func detail(r document.Record) string {
	switch {
	case r.Image != nil:
		return r.Image.Path
	case r.Shape != nil:
		return fmt.Sprintf("%s %s", r.Shape.Kind, r.Shape.Color)
	case r.Text != nil:
		s := r.Text.Text
		if len(s) > 32 {
			s = s[:32] + "..."
		}
		return fmt.Sprintf("%q page %d", s, r.Text.PageIdx)
	case r.Ink != nil:
		n := 0
		for _, s := range r.Ink.Strokes {
			n += len(s.Points)
		}
		return fmt.Sprintf("%d strokes, %d points", len(r.Ink.Strokes), n)
	}
	return ""
}
