// Package report serializes a scan record to its export forms.
package report

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"decklint/internal/model"
	"decklint/internal/score"
)

// WriteJSON writes the scan record verbatim, pretty-printed.
func WriteJSON(w io.Writer, record *model.ScanRecord) error {
	if record == nil {
		return fmt.Errorf("no scan to export")
	}
	data, err := json.MarshalIndent(record, "", "  ")
	if err != nil {
		return fmt.Errorf("encode scan: %w", err)
	}
	if _, err := w.Write(append(data, '\n')); err != nil {
		return fmt.Errorf("write export: %w", err)
	}
	return nil
}

// csvHeader fixes the column order of the CSV export.
var csvHeader = []string{
	"scan_time", "check", "severity", "slide_num", "shape_id",
	"title", "description", "resolved", "intentional",
}

// WriteCSV writes the header, a synthetic SUMMARY row packing the scoring
// snapshot and deltas, then one row per issue with its persisted resolution
// state. Quoting is RFC 4180 via encoding/csv.
func WriteCSV(w io.Writer, record *model.ScanRecord, counts model.Counts, prev *model.Counts,
	resolvedKeys, intentionalKeys map[string]bool, namespace string) error {
	if record == nil {
		return fmt.Errorf("no scan to export")
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return fmt.Errorf("write csv: %w", err)
	}

	summary := []string{record.Time, "SUMMARY", "", "", "", "Scoring Summary", summaryDescription(counts, prev), "", ""}
	if err := cw.Write(summary); err != nil {
		return fmt.Errorf("write csv: %w", err)
	}

	for _, issue := range record.Issues {
		key := model.Key(issue, namespace)
		slideNum := ""
		if issue.SlideNum != 0 {
			slideNum = fmt.Sprintf("%d", issue.SlideNum)
		}
		row := []string{
			record.Time,
			issue.Check,
			string(model.NormalizeSeverity(string(issue.Severity))),
			slideNum,
			issue.ShapeID,
			issue.Title,
			issue.Description,
			boolString(resolvedKeys[key]),
			boolString(intentionalKeys[key]),
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write csv: %w", err)
		}
	}

	cw.Flush()
	return cw.Error()
}

// summaryDescription packs the scoring snapshot into the SUMMARY row's
// description field. Deltas render as — when there is no prior snapshot.
func summaryDescription(counts model.Counts, prev *model.Counts) string {
	gate := score.Gate(counts)
	gateWord := "FAIL"
	if gate.Pass {
		gateWord = "PASS"
	}

	d := score.Delta(counts, prev)
	delta := func(pick func(*score.DeltaCounts) int) string {
		if d == nil {
			return "—"
		}
		return score.FormatDelta(pick(d))
	}

	return fmt.Sprintf("Open Total=%d; Resolved=%d; Critical=%d; Serious=%d; Moderate=%d; Minor=%d; Open After Filters=%d; Gate=%s; Delta(Open)=%s (C %s, S %s, M %s, Mi %s)",
		counts.Open.Total, counts.Resolved.Total,
		counts.Open.Critical, counts.Open.Serious, counts.Open.Moderate, counts.Open.Minor,
		counts.FilteredOpen, gateWord,
		delta(func(d *score.DeltaCounts) int { return d.Total }),
		delta(func(d *score.DeltaCounts) int { return d.Critical }),
		delta(func(d *score.DeltaCounts) int { return d.Serious }),
		delta(func(d *score.DeltaCounts) int { return d.Moderate }),
		delta(func(d *score.DeltaCounts) int { return d.Minor }),
	)
}

func boolString(b bool) string {
	if b {
		return "true"
	}
	return "false"
}

// Stamp renders an instant as a filename-safe timestamp: colons and periods
// become hyphens.
func Stamp(t time.Time) string {
	s := t.UTC().Format("2006-01-02T15:04:05.000Z")
	return strings.NewReplacer(":", "-", ".", "-").Replace(s)
}

// Filename builds the default export filename for an instant.
func Filename(ext string, t time.Time) string {
	return "decklint-scan-" + Stamp(t) + "." + ext
}
