package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"decklint/internal/checks"
	"decklint/internal/deck"
	"decklint/internal/model"
	"decklint/internal/report"
	"decklint/internal/scan"
	"decklint/internal/score"
	"decklint/internal/store"
	"decklint/internal/tui"
)

var (
	scanFrom         int
	scanTo           int
	scanJSONPath     string
	scanCSVPath      string
	scanHideResolved bool
	scanShowWarnings bool
	scanSeverities   string
	scanGateExit     bool
	scanStorePath    string
)

var scanCmd = &cobra.Command{
	Use:   "scan <deck.pptx>",
	Short: "Run all accessibility checks against a deck",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()

		provider, err := deck.Open(args[0])
		if err != nil {
			return err
		}
		ns := provider.Namespace()

		st, err := openStore(scanStorePath)
		if err != nil {
			return err
		}
		defer st.Close()

		resolvedIndex, err := st.ResolvedIndex(ctx, ns)
		if err != nil {
			return err
		}

		filters, err := buildFilters()
		if err != nil {
			return err
		}

		total, err := provider.SlideCount()
		if err != nil {
			return err
		}
		cfg := rangeConfig(scanFrom, scanTo, total)

		updates := make(chan scan.ProgressUpdate, 16)
		program := tea.NewProgram(tui.NewModel(updates))

		uiDone := make(chan struct{})
		go func() {
			_, _ = program.Run()
			close(uiDone)
		}()

		runner := scan.NewRunner(provider)
		record, err := runner.Run(cfg, updates)
		close(updates)
		<-uiDone
		if err != nil {
			return err
		}
		if record == nil {
			return nil
		}

		printChecks(record)
		printIssues(record, resolvedIndex, filters, ns)

		// Read the previous snapshot before overwriting it.
		prev, err := st.LastScanCounts(ctx, ns)
		if err != nil {
			return err
		}
		counts := score.Compute(record, resolvedIndex, filters, ns)
		printScore(record, counts, prev)

		if err := st.SetLastScanCounts(ctx, ns, &counts); err != nil {
			return err
		}

		if err := export(ctx, st, record, counts, prev, ns); err != nil {
			return err
		}

		gate := score.Gate(counts)
		if scanGateExit && !gate.Pass {
			return fmt.Errorf("accessibility gate failed (%d critical, %d serious)", gate.Critical, gate.Serious)
		}
		return nil
	},
}

// rangeConfig builds the scan config from the range flags. An unset bound
// means "to the edge of the deck": --from alone scans from there to the last
// slide, --to alone scans from slide 1.
func rangeConfig(from, to, total int) model.ScanConfig {
	if from <= 0 && to <= 0 {
		return model.ScanConfig{Mode: "all"}
	}
	if from <= 0 {
		from = 1
	}
	if to <= 0 {
		to = total
	}
	return model.ScanConfig{Mode: "range", FromSlide: from, ToSlide: to}
}

func openStore(override string) (*store.Store, error) {
	path := override
	if path == "" {
		var err error
		path, err = store.DefaultPath()
		if err != nil {
			return nil, err
		}
	}
	return store.Open(path)
}

func buildFilters() (model.FilterState, error) {
	filters := model.DefaultFilters()
	filters.HideResolved = scanHideResolved
	filters.ShowWarnings = scanShowWarnings

	if scanSeverities != "" {
		for sev := range filters.Severity {
			filters.Severity[sev] = false
		}
		for _, tok := range strings.Split(scanSeverities, ",") {
			sev := model.Severity(strings.ToLower(strings.TrimSpace(tok)))
			if _, ok := filters.Severity[sev]; !ok {
				return filters, fmt.Errorf("unknown severity %q (expected critical, serious, moderate, or minor)", tok)
			}
			filters.Severity[sev] = true
		}
	}
	return filters, nil
}

func printChecks(record *model.ScanRecord) {
	fmt.Fprintln(os.Stdout, headerStyle.Render("Checks"))
	for _, c := range record.PerCheck {
		label := c.Name
		if def := checks.ByID(c.Name); def != nil {
			label = def.Label
		}
		switch {
		case c.Skipped:
			fmt.Fprintf(os.Stdout, "  %s %s %s\n",
				dimStyle.Render("·"), label, dimStyle.Render("Skipped in this environment"))
		case c.Success || isWarningCheck(c.Name):
			fmt.Fprintf(os.Stdout, "  %s %s  %s\n",
				okStyle.Render("✓"), label, dimStyle.Render(c.Message))
		default:
			fmt.Fprintf(os.Stdout, "  %s %s  %s\n",
				badStyle.Render("✗"), label, dimStyle.Render(c.Message))
		}
	}

	failed := scan.Failed(record)
	if failed == 0 {
		fmt.Fprintln(os.Stdout, okStyle.Render("Scan complete"))
	} else {
		fmt.Fprintln(os.Stdout, warnStyle.Render(fmt.Sprintf("Scan complete (%d check(s) flagged)", failed)))
	}
	fmt.Fprintln(os.Stdout)
}

func isWarningCheck(id string) bool {
	def := checks.ByID(id)
	return def != nil && def.Warning
}

func printIssues(record *model.ScanRecord, resolvedIndex map[string]bool, filters model.FilterState, ns string) {
	visible := make([]model.Issue, 0, len(record.Issues))
	for _, issue := range record.Issues {
		sev := model.NormalizeSeverity(string(issue.Severity))
		if enabled, known := filters.Severity[sev]; known && !enabled {
			continue
		}
		if !filters.ShowWarnings && issue.IsWarning {
			continue
		}
		if filters.HideResolved && resolvedIndex[model.Key(issue, ns)] {
			continue
		}
		visible = append(visible, issue)
	}

	fmt.Fprintln(os.Stdout, headerStyle.Render("Issues"))
	if len(visible) == 0 {
		fmt.Fprintln(os.Stdout, dimStyle.Render("  No issues to show (based on your filters)."))
		fmt.Fprintln(os.Stdout)
		return
	}

	bySlide := make(map[int][]model.Issue)
	for _, issue := range visible {
		bySlide[issue.SlideNum] = append(bySlide[issue.SlideNum], issue)
	}
	slides := make([]int, 0, len(bySlide))
	for n := range bySlide {
		slides = append(slides, n)
	}
	sort.Ints(slides)

	for _, n := range slides {
		fmt.Fprintf(os.Stdout, "  %s\n", slideStyle.Render(fmt.Sprintf("Slide %d", n)))
		for _, issue := range bySlide[n] {
			sev := model.NormalizeSeverity(string(issue.Severity))
			badge := tui.SeverityStyle(sev).Render(strings.ToUpper(string(sev)))
			fmt.Fprintf(os.Stdout, "    %s %s\n", badge, issue.Title)
			if issue.Description != "" {
				fmt.Fprintf(os.Stdout, "      %s\n", dimStyle.Render(issue.Description))
			}
			fmt.Fprintf(os.Stdout, "      %s\n", dimStyle.Render("key: "+model.KeySuffix(issue)))
		}
	}
	fmt.Fprintln(os.Stdout)
}

func printScore(record *model.ScanRecord, counts model.Counts, prev *model.Counts) {
	rows := []tui.SummaryRow{
		{Label: "Open issues", Value: fmt.Sprintf("%d", counts.Open.Total)},
		{Label: "Open after filters", Value: fmt.Sprintf("%d", counts.FilteredOpen)},
		{Label: "Resolved", Value: fmt.Sprintf("%d", counts.Resolved.Total)},
		{Label: "Critical", Value: fmt.Sprintf("%d", counts.Open.Critical)},
		{Label: "Serious", Value: fmt.Sprintf("%d", counts.Open.Serious)},
		{Label: "Moderate", Value: fmt.Sprintf("%d", counts.Open.Moderate)},
		{Label: "Minor", Value: fmt.Sprintf("%d", counts.Open.Minor)},
	}
	fmt.Fprintln(os.Stdout, tui.RenderSummary(rows))
	fmt.Fprintln(os.Stdout, dimStyle.Render("Counts reflect your per-user resolved state and current filters."))

	fmt.Fprintln(os.Stdout, score.FormatDeltaLine(score.Delta(counts, prev)))

	gate := score.Gate(counts)
	if gate.Pass {
		color.New(color.FgGreen, color.Bold).Fprintln(os.Stdout, gate.String())
	} else {
		color.New(color.FgRed, color.Bold).Fprintln(os.Stdout, gate.String())
	}
}

func export(ctx context.Context, st *store.Store, record *model.ScanRecord, counts model.Counts, prev *model.Counts, ns string) error {
	now := time.Now()

	if scanJSONPath != "" {
		path := resolveExportPath(scanJSONPath, "json", now)
		f, err := os.Create(path)
		if err != nil {
			return err
		}
		if err := report.WriteJSON(f, record); err != nil {
			f.Close()
			return err
		}
		if err := f.Close(); err != nil {
			return err
		}
		fmt.Fprintf(os.Stdout, "JSON report written to: %s\n", path)
	}

	if scanCSVPath != "" {
		bag, err := st.Bag(ctx, ns)
		if err != nil {
			return err
		}
		resolvedKeys := make(map[string]bool, len(bag.Resolved))
		for k := range bag.Resolved {
			resolvedKeys[k] = true
		}
		intentionalKeys := make(map[string]bool, len(bag.Intentional))
		for k := range bag.Intentional {
			intentionalKeys[k] = true
		}

		path := resolveExportPath(scanCSVPath, "csv", now)
		f, err := os.Create(path)
		if err != nil {
			return err
		}
		if err := report.WriteCSV(f, record, counts, prev, resolvedKeys, intentionalKeys, ns); err != nil {
			f.Close()
			return err
		}
		if err := f.Close(); err != nil {
			return err
		}
		fmt.Fprintf(os.Stdout, "CSV report written to: %s\n", path)
	}

	return nil
}

// resolveExportPath treats an existing directory as a destination for an
// auto-named timestamped file; anything else is used verbatim.
func resolveExportPath(path, ext string, now time.Time) string {
	if info, err := os.Stat(path); err == nil && info.IsDir() {
		return filepath.Join(path, report.Filename(ext, now))
	}
	return path
}

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(tui.ColorAccent)
	slideStyle  = lipgloss.NewStyle().Foreground(tui.ColorAccentAlt)
	okStyle     = lipgloss.NewStyle().Foreground(tui.ColorSuccess)
	warnStyle   = lipgloss.NewStyle().Foreground(tui.ColorWarn)
	badStyle    = lipgloss.NewStyle().Foreground(tui.ColorAlert)
	dimStyle    = lipgloss.NewStyle().Foreground(tui.ColorDim)
)

func init() {
	scanCmd.Flags().IntVar(&scanFrom, "from", 0, "first slide of the scan range (1-based)")
	scanCmd.Flags().IntVar(&scanTo, "to", 0, "last slide of the scan range (1-based)")
	scanCmd.Flags().StringVar(&scanJSONPath, "json", "", "write a JSON report (file or directory)")
	scanCmd.Flags().StringVar(&scanCSVPath, "csv", "", "write a CSV report (file or directory)")
	scanCmd.Flags().BoolVar(&scanHideResolved, "hide-resolved", true, "hide issues you marked resolved or intentional")
	scanCmd.Flags().BoolVar(&scanShowWarnings, "show-warnings", true, "show advisory (warning) findings")
	scanCmd.Flags().StringVar(&scanSeverities, "severity", "", "comma-separated severity buckets to show (default all)")
	scanCmd.Flags().BoolVar(&scanGateExit, "gate", false, "exit non-zero when the release gate fails")
	scanCmd.Flags().StringVar(&scanStorePath, "store", "", "path to the resolution state database")

	rootCmd.AddCommand(scanCmd)
}
