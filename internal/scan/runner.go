// Package scan runs the full check suite over a deck and assembles the
// scan record.
package scan

import (
	"fmt"
	"sync/atomic"
	"time"

	"decklint/internal/checks"
	"decklint/internal/deck"
	"decklint/internal/model"
)

// CheckState is the reported outcome of one check for progress observers.
type CheckState string

const (
	StateSuccess CheckState = "success"
	StateFailed  CheckState = "failed"
	StateSkipped CheckState = "skipped"
)

// ProgressUpdate is emitted once per completed check.
type ProgressUpdate struct {
	CheckIndex int
	CheckCount int
	CheckID    string
	Label      string
	State      CheckState
	Message    string
}

// Runner executes scans. Only one scan may be in flight at a time; a
// concurrent Run call is a silent no-op.
type Runner struct {
	provider deck.Provider
	checks   []checks.Definition
	scanning atomic.Bool
}

func NewRunner(p deck.Provider) *Runner {
	return &Runner{provider: p, checks: checks.All}
}

// Run executes every check in order over the configured range and returns
// the scan record. A nil record with nil error means another scan was
// already in flight. A failing or panicking check becomes a failed summary;
// it never aborts the rest of the scan. Updates, if non-nil, receives one
// entry per check; the caller owns closing the channel.
func (r *Runner) Run(cfg model.ScanConfig, updates chan<- ProgressUpdate) (*model.ScanRecord, error) {
	if !r.scanning.CompareAndSwap(false, true) {
		return nil, nil
	}
	defer r.scanning.Store(false)

	total, err := r.provider.SlideCount()
	if err != nil {
		return nil, fmt.Errorf("slide count: %w", err)
	}
	if cfg.Mode == "" {
		cfg.Mode = "all"
	}
	from, to := deck.Range(cfg.Mode, cfg.FromSlide, cfg.ToSlide, total)

	var issues []model.Issue
	perCheck := make([]model.CheckSummary, 0, len(r.checks))

	for i, def := range r.checks {
		res, err := runCheck(def, r.provider, from, to)

		var summary model.CheckSummary
		if err != nil {
			summary = model.CheckSummary{Name: def.ID, Success: false, Message: err.Error()}
		} else {
			summary = model.CheckSummary{
				Name:       def.ID,
				Success:    res.Success,
				Message:    res.Message,
				Skipped:    res.Skipped,
				IssueCount: len(res.Details),
			}
		}
		perCheck = append(perCheck, summary)

		for _, d := range res.Details {
			d.Check = def.ID
			sev := string(d.Severity)
			if sev == "" {
				sev = string(def.DefaultSeverity)
			}
			d.Severity = model.NormalizeSeverity(sev)
			d.IsWarning = def.Warning
			issues = append(issues, d)
		}

		if updates != nil {
			updates <- ProgressUpdate{
				CheckIndex: i,
				CheckCount: len(r.checks),
				CheckID:    def.ID,
				Label:      def.Label,
				State:      summaryState(summary, def.Warning),
				Message:    summary.Message,
			}
		}
	}

	record := &model.ScanRecord{
		Time:       time.Now().UTC().Format(time.RFC3339),
		ScanConfig: cfg,
		PerCheck:   perCheck,
		Issues:     issues,
	}
	return record, nil
}

func summaryState(s model.CheckSummary, warning bool) CheckState {
	if s.Skipped {
		return StateSkipped
	}
	if s.Success || warning {
		return StateSuccess
	}
	return StateFailed
}

// runCheck isolates a single check: a panic inside it is converted to an
// error so the scan can continue.
func runCheck(def checks.Definition, p deck.Provider, from, to int) (res model.CheckResult, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("check %s: %v", def.ID, r)
		}
	}()
	return def.Run(p, from, to)
}

// Failed counts checks that evaluated and failed. Skipped checks and
// warning checks do not count; the result drives the scan badge, not the
// release gate.
func Failed(record *model.ScanRecord) int {
	if record == nil {
		return 0
	}
	n := 0
	for _, c := range record.PerCheck {
		if !c.Success && !c.Skipped {
			n++
		}
	}
	return n
}
