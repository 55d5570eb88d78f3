package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"decklint/internal/deck"
	"decklint/internal/model"
	"decklint/internal/scan"
	"decklint/internal/score"
	"decklint/internal/store"
)

var (
	resolveIntentional bool
	resolveClear       bool
	resolveStorePath   string
)

var resolveCmd = &cobra.Command{
	Use:   "resolve <deck.pptx> [issue-key]",
	Short: "Mark a finding resolved or intentional for this deck",
	Long: `Mark a finding resolved (or, with --intentional, intentional) against the
issue key shown in scan output. Markers are per-user and scoped to the deck;
--clear resets all markers for the deck.`,
	Args: cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()

		provider, err := deck.Open(args[0])
		if err != nil {
			return err
		}
		ns := provider.Namespace()

		st, err := openStore(resolveStorePath)
		if err != nil {
			return err
		}
		defer st.Close()

		if resolveClear {
			if len(args) > 1 {
				return fmt.Errorf("--clear does not take an issue key")
			}
			if err := st.ClearResolved(ctx, ns); err != nil {
				return err
			}
			if err := refreshCounts(ctx, st, provider, ns); err != nil {
				return err
			}
			fmt.Fprintln(os.Stdout, "Cleared all resolution markers for this deck.")
			return nil
		}

		if len(args) < 2 {
			return fmt.Errorf("an issue key is required (see the key lines in scan output)")
		}
		key := ns + "|" + args[1]

		kind := store.KindResolved
		if resolveIntentional {
			kind = store.KindIntentional
		}
		if err := st.MarkResolved(ctx, ns, key, kind); err != nil {
			return err
		}
		if err := refreshCounts(ctx, st, provider, ns); err != nil {
			return err
		}

		fmt.Fprintf(os.Stdout, "Marked %s: %s\n", kind, args[1])
		return nil
	},
}

// refreshCounts re-runs the checks quietly and persists a fresh counts
// snapshot. Resolution mutations change the open/resolved split, so the
// delta baseline must follow them.
func refreshCounts(ctx context.Context, st *store.Store, provider deck.Provider, ns string) error {
	record, err := scan.NewRunner(provider).Run(model.ScanConfig{Mode: "all"}, nil)
	if err != nil || record == nil {
		return err
	}
	resolvedIndex, err := st.ResolvedIndex(ctx, ns)
	if err != nil {
		return err
	}
	counts := score.Compute(record, resolvedIndex, model.DefaultFilters(), ns)
	return st.SetLastScanCounts(ctx, ns, &counts)
}

func init() {
	resolveCmd.Flags().BoolVar(&resolveIntentional, "intentional", false, "record the marker as intentional instead of resolved")
	resolveCmd.Flags().BoolVar(&resolveClear, "clear", false, "clear all resolution markers for the deck")
	resolveCmd.Flags().StringVar(&resolveStorePath, "store", "", "path to the resolution state database")

	rootCmd.AddCommand(resolveCmd)
}
