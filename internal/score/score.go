// Package score turns a scan record plus resolution state into counts, the
// release gate, and the trend delta. Everything here is pure; persisting a
// snapshot is the caller's call site.
package score

import (
	"fmt"

	"decklint/internal/model"
)

// Compute tallies a scan record against the resolved-key index and the
// current view filters. Resolved issues count only toward resolved.total;
// open issues fill the severity buckets, and FilteredOpen counts the open
// issues the current filters would show.
func Compute(record *model.ScanRecord, resolvedIndex map[string]bool, filters model.FilterState, namespace string) model.Counts {
	var counts model.Counts
	if record == nil {
		return counts
	}

	for _, issue := range record.Issues {
		sev := model.NormalizeSeverity(string(issue.Severity))
		resolved := resolvedIndex[model.Key(issue, namespace)]

		if resolved {
			counts.Resolved.Total++
			continue
		}

		counts.Open.Total++
		switch sev {
		case model.SeverityCritical:
			counts.Open.Critical++
		case model.SeveritySerious:
			counts.Open.Serious++
		case model.SeverityModerate:
			counts.Open.Moderate++
		case model.SeverityMinor:
			counts.Open.Minor++
		}

		enabled, known := filters.Severity[sev]
		passesSeverity := !known || enabled
		passesWarnings := filters.ShowWarnings || !issue.IsWarning
		passesResolved := !filters.HideResolved || !resolved

		if passesSeverity && passesWarnings && passesResolved {
			counts.FilteredOpen++
		}
	}
	return counts
}

// GateResult is the release-readiness verdict.
type GateResult struct {
	Pass     bool
	Critical int
	Serious  int
}

// Gate passes iff there are zero open critical and zero open serious issues.
func Gate(counts model.Counts) GateResult {
	return GateResult{
		Pass:     counts.Open.Critical == 0 && counts.Open.Serious == 0,
		Critical: counts.Open.Critical,
		Serious:  counts.Open.Serious,
	}
}

func (g GateResult) String() string {
	if g.Pass {
		return "Gate: PASS (0 Critical, 0 Serious)"
	}
	return fmt.Sprintf("Gate: FAIL (%d Critical, %d Serious)", g.Critical, g.Serious)
}

// DeltaCounts is the signed change in open issues vs the previous snapshot.
type DeltaCounts struct {
	Total    int
	Critical int
	Serious  int
	Moderate int
	Minor    int
}

// Delta compares current open counts with the previous snapshot. A nil
// previous means no prior data, which yields nil rather than zeros.
func Delta(current model.Counts, previous *model.Counts) *DeltaCounts {
	if previous == nil {
		return nil
	}
	return &DeltaCounts{
		Total:    current.Open.Total - previous.Open.Total,
		Critical: current.Open.Critical - previous.Open.Critical,
		Serious:  current.Open.Serious - previous.Open.Serious,
		Moderate: current.Open.Moderate - previous.Open.Moderate,
		Minor:    current.Open.Minor - previous.Open.Minor,
	}
}

// FormatDelta renders a signed delta: explicit + for positive, plain digits
// for negative, literal 0 for zero.
func FormatDelta(n int) string {
	if n > 0 {
		return fmt.Sprintf("+%d", n)
	}
	return fmt.Sprintf("%d", n)
}

// FormatDeltaLine renders the one-line trend summary shown after a scan.
func FormatDeltaLine(d *DeltaCounts) string {
	if d == nil {
		return "Delta vs last scan: —"
	}
	return fmt.Sprintf("Delta vs last scan (open): Total %s | Critical %s | Serious %s | Moderate %s | Minor %s",
		FormatDelta(d.Total), FormatDelta(d.Critical), FormatDelta(d.Serious), FormatDelta(d.Moderate), FormatDelta(d.Minor))
}
