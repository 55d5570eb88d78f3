// Package model holds the normalized issue model shared by the checks,
// the scan runner, scoring, and the exporters.
package model

import (
	"fmt"
	"strings"
)

// Severity buckets, from most to least blocking.
type Severity string

const (
	SeverityCritical Severity = "critical"
	SeveritySerious  Severity = "serious"
	SeverityModerate Severity = "moderate"
	SeverityMinor    Severity = "minor"
)

// NormalizeSeverity maps any input to one of the four buckets. The legacy
// "warning" token maps to minor; anything unrecognized, including the empty
// string, maps to moderate. Total and idempotent.
func NormalizeSeverity(s string) Severity {
	switch Severity(strings.ToLower(strings.TrimSpace(s))) {
	case SeverityCritical:
		return SeverityCritical
	case SeveritySerious:
		return SeveritySerious
	case SeverityModerate:
		return SeverityModerate
	case SeverityMinor:
		return SeverityMinor
	case "warning":
		return SeverityMinor
	default:
		return SeverityModerate
	}
}

// Issue is a single finding produced by a check.
type Issue struct {
	Check       string   `json:"check"`
	Severity    Severity `json:"severity"`
	IsWarning   bool     `json:"isWarning,omitempty"`
	SlideNum    int      `json:"slideNum"`
	ShapeID     string   `json:"shapeId,omitempty"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	ExtraKey    string   `json:"extraKey,omitempty"`
}

// KeySuffix is the namespace-free part of an issue's identity key. It is
// what scan output shows and what resolve commands accept.
func KeySuffix(issue Issue) string {
	return fmt.Sprintf("%s|s%d|sh%s|%s", issue.Check, issue.SlideNum, issue.ShapeID, issue.ExtraKey)
}

// Key returns the identity key for an issue under a document namespace.
// Two issues are the same logical finding across scans iff their keys match.
func Key(issue Issue, namespace string) string {
	return namespace + "|" + KeySuffix(issue)
}

// CheckResult is the uniform envelope every check returns. Skipped means a
// required host capability was unavailable on every inspected element and
// zero issues were found; it is not a failure.
type CheckResult struct {
	Success bool
	Message string
	Skipped bool
	Details []Issue
}

// CheckSummary is the per-check row recorded in a ScanRecord.
type CheckSummary struct {
	Name       string `json:"name"`
	Success    bool   `json:"success"`
	Message    string `json:"message"`
	Skipped    bool   `json:"skipped"`
	IssueCount int    `json:"issueCount"`
}

// ScanConfig selects the slide range for a scan. Mode is "all" or "range";
// FromSlide/ToSlide are 1-based and only consulted in range mode.
type ScanConfig struct {
	Mode      string `json:"mode"`
	FromSlide int    `json:"fromSlide"`
	ToSlide   int    `json:"toSlide"`
}

// ScanRecord is one completed run. Immutable once produced.
type ScanRecord struct {
	Time       string         `json:"time"`
	ScanConfig ScanConfig     `json:"scanConfig"`
	PerCheck   []CheckSummary `json:"perCheck"`
	Issues     []Issue        `json:"issues"`
}

// OpenCounts are the per-severity open tallies of a scoring snapshot.
type OpenCounts struct {
	Total    int `json:"total"`
	Critical int `json:"critical"`
	Serious  int `json:"serious"`
	Moderate int `json:"moderate"`
	Minor    int `json:"minor"`
}

// ResolvedCounts holds the resolved tally of a scoring snapshot.
type ResolvedCounts struct {
	Total int `json:"total"`
}

// Counts is a scoring snapshot: derived from a scan record plus resolution
// state plus filters, and persisted only as the previous-scan baseline for
// delta computation.
type Counts struct {
	Open         OpenCounts     `json:"open"`
	Resolved     ResolvedCounts `json:"resolved"`
	FilteredOpen int            `json:"filteredOpen"`
}

// FilterState is the transient view filter; it never changes a ScanRecord.
type FilterState struct {
	Severity     map[Severity]bool
	HideResolved bool
	ShowWarnings bool
}

// DefaultFilters enables all severity buckets, hides resolved issues, and
// shows warnings.
func DefaultFilters() FilterState {
	return FilterState{
		Severity: map[Severity]bool{
			SeverityCritical: true,
			SeveritySerious:  true,
			SeverityModerate: true,
			SeverityMinor:    true,
		},
		HideResolved: true,
		ShowWarnings: true,
	}
}
