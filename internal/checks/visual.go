package checks

import (
	"fmt"
	"strings"

	"decklint/internal/deck"
	"decklint/internal/model"
)

func isVisualType(shapeType string) bool {
	t := strings.ToLower(shapeType)
	return strings.Contains(t, "picture") || strings.Contains(t, "graphic") ||
		strings.Contains(t, "image") || strings.Contains(t, "media")
}

func checkAltText(p deck.Provider, from, to int) (model.CheckResult, error) {
	slides, err := p.Slides(from, to)
	if err != nil {
		return model.CheckResult{}, err
	}

	var issues []model.Issue
	visuals := 0
	capabilityMissing := false
	for _, s := range slides {
		for _, sh := range s.Shapes {
			visual := isVisualType(sh.Type)
			if visual {
				visuals++
			}
			if !sh.AltTitle.Known && !sh.AltDescription.Known {
				capabilityMissing = true
				continue
			}
			// The title is a fallback only for an outright empty description;
			// trimming happens after the pick.
			alt := sh.AltDescription.Value
			if alt == "" {
				alt = sh.AltTitle.Value
			}
			alt = strings.TrimSpace(alt)
			if visual && alt == "" {
				issues = append(issues, model.Issue{
					SlideNum:    s.Num,
					ShapeID:     sh.ID,
					Title:       "Missing alt text",
					Description: "A visual element is missing alt text. Add a short description that conveys meaning.",
					Severity:    model.SeveritySerious,
				})
			}
		}
	}

	if capabilityMissing && len(issues) == 0 {
		return model.CheckResult{Success: true, Skipped: true}, nil
	}

	msg := "No visual elements found (best-effort)."
	switch {
	case len(issues) > 0:
		msg = fmt.Sprintf("Found %d visual element(s) missing alt text.", len(issues))
	case visuals > 0:
		msg = "No missing alt text detected for visual elements (best-effort)."
	}
	return model.CheckResult{Success: len(issues) == 0, Message: msg, Details: issues}, nil
}

type box struct {
	left, top, right, bottom float64
}

// boundsOverlap is strict-edge-exclusive: boxes that only touch do not
// overlap.
func boundsOverlap(a, b box) bool {
	return !(a.right <= b.left || a.left >= b.right || a.bottom <= b.top || a.top >= b.bottom)
}

func checkOverlappingElements(p deck.Provider, from, to int) (model.CheckResult, error) {
	slides, err := p.Slides(from, to)
	if err != nil {
		return model.CheckResult{}, err
	}

	var issues []model.Issue
	capabilityMissing := false
	for _, s := range slides {
		var boxes []box
		for _, sh := range s.Shapes {
			if !sh.Left.Known || !sh.Top.Known || !sh.Width.Known || !sh.Height.Known {
				capabilityMissing = true
				continue
			}
			boxes = append(boxes, box{
				left:   sh.Left.Value,
				top:    sh.Top.Value,
				right:  sh.Left.Value + sh.Width.Value,
				bottom: sh.Top.Value + sh.Height.Value,
			})
		}
		found := false
		for i := 0; i < len(boxes) && !found; i++ {
			for j := i + 1; j < len(boxes); j++ {
				if boundsOverlap(boxes[i], boxes[j]) {
					found = true
					break
				}
			}
		}
		if found {
			issues = append(issues, model.Issue{
				SlideNum:    s.Num,
				Title:       "Overlapping elements detected",
				Description: "Elements overlap on this slide. This can cause confusing reading order. Review the slide's reading order.",
				Severity:    model.SeverityMinor,
			})
		}
	}

	if capabilityMissing && len(issues) == 0 {
		return model.CheckResult{Success: true, Skipped: true}, nil
	}

	msg := "No overlapping elements detected (best-effort)."
	if len(issues) > 0 {
		msg = fmt.Sprintf("Found overlapping elements on %d slide(s) (best-effort).", len(issues))
	}
	// Advisory check: overlap is flagged but never fails the scan.
	return model.CheckResult{Success: true, Message: msg, Details: issues}, nil
}
