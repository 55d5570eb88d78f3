package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "decklint",
	Short: "decklint - accessibility checks for slide decks",
	Long:  "decklint audits .pptx decks against a fixed set of accessibility heuristics, tracks per-user resolution state across scans, and exports gated reports.",
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.SetHelpCommand(&cobra.Command{Hidden: true})
}
