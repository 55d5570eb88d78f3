// Package checks implements the accessibility heuristics. Each check is a
// read-only pass over a slide range returning a uniform result envelope;
// none of them mutate the deck or each other's state.
package checks

import (
	"strings"

	"decklint/internal/deck"
	"decklint/internal/model"
)

// Definition registers one check with its default severity. Warning checks
// are advisory: they report overall success even when they emit issues.
type Definition struct {
	ID              string
	Label           string
	DefaultSeverity model.Severity
	Warning         bool
	Run             func(p deck.Provider, from, to int) (model.CheckResult, error)
}

// All lists every check in scan order. The order is part of the report
// contract; do not reorder.
var All = []Definition{
	{ID: "slideTitles", Label: "Slides should have titles", DefaultSeverity: model.SeveritySerious, Run: checkSlideTitles},
	{ID: "duplicateTitles", Label: "Avoid duplicate slide titles (warn)", DefaultSeverity: model.SeverityMinor, Warning: true, Run: checkDuplicateTitles},
	{ID: "emptySlides", Label: "Slides should not be empty", DefaultSeverity: model.SeveritySerious, Run: checkEmptySlides},
	{ID: "textSize", Label: "Text should be readable (min size)", DefaultSeverity: model.SeverityModerate, Run: checkTextSize},
	{ID: "textFormatting", Label: "Avoid excessive text styling", DefaultSeverity: model.SeverityMinor, Run: checkTextFormatting},
	{ID: "manualListFormatting", Label: "Use real lists (avoid manual bullets)", DefaultSeverity: model.SeverityModerate, Run: checkManualListFormatting},
	{ID: "altText", Label: "Images/shapes should have alt text", DefaultSeverity: model.SeveritySerious, Run: checkAltText},
	{ID: "overlappingElements", Label: "Overlapping elements may impact reading order", DefaultSeverity: model.SeverityMinor, Warning: true, Run: checkOverlappingElements},
	{ID: "vagueLinkText", Label: "Links should be descriptive (best-effort)", DefaultSeverity: model.SeverityModerate, Run: checkVagueLinks},
}

// ByID returns the definition for a check id, or nil.
func ByID(id string) *Definition {
	for i := range All {
		if All[i].ID == id {
			return &All[i]
		}
	}
	return nil
}

// firstText returns the first non-empty trimmed text on a slide, which the
// checks treat as its title.
func firstText(s deck.Slide) string {
	for _, sh := range s.Shapes {
		if t := strings.TrimSpace(sh.Text); t != "" {
			return t
		}
	}
	return ""
}
