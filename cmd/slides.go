package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"decklint/internal/deck"
)

var slidesCmd = &cobra.Command{
	Use:   "slides <deck.pptx>",
	Short: "List slides with their detected titles",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		provider, err := deck.Open(args[0])
		if err != nil {
			return err
		}

		total, err := provider.SlideCount()
		if err != nil {
			return err
		}
		slides, err := provider.Slides(1, total)
		if err != nil {
			return err
		}

		fmt.Fprintf(os.Stdout, "%d slide(s)\n", total)
		for _, s := range slides {
			title := firstSlideText(s)
			if title == "" {
				title = dimStyle.Render("(no title)")
			}
			fmt.Fprintf(os.Stdout, "  %3d  %s\n", s.Num, title)
		}
		return nil
	},
}

func firstSlideText(s deck.Slide) string {
	for _, sh := range s.Shapes {
		if t := strings.TrimSpace(sh.Text); t != "" {
			return t
		}
	}
	return ""
}

func init() {
	rootCmd.AddCommand(slidesCmd)
}
