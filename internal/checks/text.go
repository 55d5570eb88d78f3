package checks

import (
	"fmt"
	"math"
	"regexp"
	"strings"

	"decklint/internal/deck"
	"decklint/internal/model"
)

// minReadablePt is the smallest point size considered readable.
const minReadablePt = 12

// manualListThreshold is how many bullet-looking lines a block needs before
// it is flagged as a hand-typed list.
const manualListThreshold = 5

// Leading dash/en-dash/em-dash/asterisk/bullet, "N." / "N)", or a single
// alphanumeric list marker with "." / ")", followed by whitespace.
var bulletRe = regexp.MustCompile(`^\s*(?:[-–—*•]|\d+[.)]|\w[.)])\s+`)

var vaguePhrases = map[string]bool{
	"click here": true,
	"here":       true,
	"learn more": true,
	"more":       true,
	"this":       true,
	"link":       true,
}

func checkTextSize(p deck.Provider, from, to int) (model.CheckResult, error) {
	slides, err := p.Slides(from, to)
	if err != nil {
		return model.CheckResult{}, err
	}

	var issues []model.Issue
	textBlocks := 0
	capabilityMissing := false
	for _, s := range slides {
		for _, sh := range s.Shapes {
			if strings.TrimSpace(sh.Text) == "" {
				continue
			}
			textBlocks++
			if !sh.FontSize.Known {
				capabilityMissing = true
				continue
			}
			size := sh.FontSize.Value
			if size > 0 && size < minReadablePt {
				issues = append(issues, model.Issue{
					SlideNum: s.Num,
					ShapeID:  sh.ID,
					Title:    "Small text size",
					Description: fmt.Sprintf("Text appears to be %dpt. Consider increasing to at least %dpt.",
						int(math.Round(size)), minReadablePt),
					Severity: model.SeverityModerate,
				})
			}
		}
	}

	if capabilityMissing && len(issues) == 0 {
		return model.CheckResult{Success: true, Skipped: true}, nil
	}

	msg := "No text elements found in the selected range."
	switch {
	case len(issues) > 0:
		msg = fmt.Sprintf("Found %d text element(s) below %dpt.", len(issues), minReadablePt)
	case textBlocks > 0:
		msg = fmt.Sprintf("Scanned %d text element(s) - no small text detected.", textBlocks)
	}
	return model.CheckResult{Success: len(issues) == 0, Message: msg, Details: issues}, nil
}

func checkTextFormatting(p deck.Provider, from, to int) (model.CheckResult, error) {
	slides, err := p.Slides(from, to)
	if err != nil {
		return model.CheckResult{}, err
	}

	var issues []model.Issue
	blocks := 0
	capabilityMissing := false
	for _, s := range slides {
		for _, sh := range s.Shapes {
			if strings.TrimSpace(sh.Text) == "" {
				continue
			}
			blocks++
			if !sh.Bold.Known || !sh.Italic.Known || !sh.Underline.Known {
				capabilityMissing = true
				continue
			}
			if sh.Bold.Value && sh.Italic.Value && sh.Underline.Value {
				issues = append(issues, model.Issue{
					SlideNum:    s.Num,
					ShapeID:     sh.ID,
					Title:       "Excessive text styling",
					Description: "This text appears bold + italic + underlined. Reduce styling and rely on structure instead.",
					Severity:    model.SeverityMinor,
				})
			}
		}
	}

	if capabilityMissing && len(issues) == 0 {
		return model.CheckResult{Success: true, Skipped: true}, nil
	}

	msg := "No text elements found in the selected range."
	switch {
	case len(issues) > 0:
		msg = fmt.Sprintf("Found %d block(s) with excessive styling.", len(issues))
	case blocks > 0:
		msg = fmt.Sprintf("Scanned %d text block(s) - no excessive styling detected.", blocks)
	}
	return model.CheckResult{Success: len(issues) == 0, Message: msg, Details: issues}, nil
}

func checkManualListFormatting(p deck.Provider, from, to int) (model.CheckResult, error) {
	slides, err := p.Slides(from, to)
	if err != nil {
		return model.CheckResult{}, err
	}

	var issues []model.Issue
	for _, s := range slides {
		for _, sh := range s.Shapes {
			if strings.TrimSpace(sh.Text) == "" {
				continue
			}
			manual := 0
			for _, line := range splitLines(sh.Text) {
				if bulletRe.MatchString(line) {
					manual++
				}
			}
			if manual >= manualListThreshold {
				issues = append(issues, model.Issue{
					SlideNum: s.Num,
					ShapeID:  sh.ID,
					Title:    "Possible manual list formatting",
					Description: fmt.Sprintf("This block has %d line(s) that look like manually typed bullets/numbering. Use built-in list formatting for screen reader structure.",
						manual),
					Severity: model.SeverityModerate,
				})
			}
		}
	}

	msg := "No large manual lists detected (best-effort)."
	if len(issues) > 0 {
		msg = fmt.Sprintf("Found %d text block(s) with likely manual list formatting.", len(issues))
	}
	return model.CheckResult{Success: len(issues) == 0, Message: msg, Details: issues}, nil
}

func checkVagueLinks(p deck.Provider, from, to int) (model.CheckResult, error) {
	slides, err := p.Slides(from, to)
	if err != nil {
		return model.CheckResult{}, err
	}

	var issues []model.Issue
	for _, s := range slides {
		for _, sh := range s.Shapes {
			if sh.Text == "" {
				continue
			}
			for _, line := range splitLines(sh.Text) {
				line = strings.TrimSpace(line)
				if line == "" || !vaguePhrases[strings.ToLower(line)] {
					continue
				}
				issues = append(issues, model.Issue{
					SlideNum: s.Num,
					ShapeID:  sh.ID,
					Title:    "Potential vague link text",
					Description: fmt.Sprintf("Found %q. If this is a link, make it descriptive (e.g., \"Download the report (PDF)\").",
						line),
					Severity: model.SeverityModerate,
				})
			}
		}
	}

	msg := "No obvious vague link text found (best-effort)."
	if len(issues) > 0 {
		msg = fmt.Sprintf("Found %d potential vague link issue(s).", len(issues))
	}
	return model.CheckResult{Success: len(issues) == 0, Message: msg, Details: issues}, nil
}

func splitLines(text string) []string {
	return strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n")
}
