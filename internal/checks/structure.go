package checks

import (
	"fmt"
	"sort"
	"strings"

	"decklint/internal/deck"
	"decklint/internal/model"
)

func checkSlideTitles(p deck.Provider, from, to int) (model.CheckResult, error) {
	slides, err := p.Slides(from, to)
	if err != nil {
		return model.CheckResult{}, err
	}

	var issues []model.Issue
	for _, s := range slides {
		if firstText(s) == "" {
			issues = append(issues, model.Issue{
				SlideNum:    s.Num,
				Title:       "Missing slide title",
				Description: "Add a title so screen readers can identify the slide.",
				Severity:    model.SeveritySerious,
			})
		}
	}

	msg := fmt.Sprintf("All slides in range (%d-%d) appear to have titles.", from, to)
	if len(issues) > 0 {
		msg = fmt.Sprintf("Found %d slide(s) missing a clear title.", len(issues))
	}
	return model.CheckResult{Success: len(issues) == 0, Message: msg, Details: issues}, nil
}

func checkDuplicateTitles(p deck.Provider, from, to int) (model.CheckResult, error) {
	slides, err := p.Slides(from, to)
	if err != nil {
		return model.CheckResult{}, err
	}

	groups := make(map[string][]int)
	for _, s := range slides {
		key := strings.ToLower(strings.TrimSpace(firstText(s)))
		if key == "" {
			continue
		}
		groups[key] = append(groups[key], s.Num)
	}

	var issues []model.Issue
	for key, nums := range groups {
		if len(nums) < 2 {
			continue
		}
		issues = append(issues, model.Issue{
			SlideNum: nums[0],
			Title:    "Duplicate slide title",
			Description: fmt.Sprintf("The title %q is used on slides: %s. This may be OK (continued sections), but consider making titles unique.",
				key, joinInts(nums)),
			ExtraKey: "title:" + key,
			Severity: model.SeverityMinor,
		})
	}
	sort.Slice(issues, func(i, j int) bool { return issues[i].SlideNum < issues[j].SlideNum })

	msg := "No duplicate titles detected in the selected range."
	if len(issues) > 0 {
		msg = fmt.Sprintf("Found %d duplicated title group(s) (warning).", len(issues))
	}
	// Advisory check: duplicates are flagged but never fail the scan.
	return model.CheckResult{Success: true, Message: msg, Details: issues}, nil
}

func checkEmptySlides(p deck.Provider, from, to int) (model.CheckResult, error) {
	slides, err := p.Slides(from, to)
	if err != nil {
		return model.CheckResult{}, err
	}

	var issues []model.Issue
	for _, s := range slides {
		if len(s.Shapes) == 0 {
			issues = append(issues, model.Issue{
				SlideNum:    s.Num,
				Title:       "Empty slide",
				Description: "No elements found on the slide.",
				Severity:    model.SeveritySerious,
			})
			continue
		}
		anyText := false
		anyNonText := false
		for _, sh := range s.Shapes {
			if strings.TrimSpace(sh.Text) != "" {
				anyText = true
			}
			t := strings.ToLower(sh.Type)
			if t != "" && !strings.Contains(t, "text") {
				anyNonText = true
			}
		}
		if !anyText && !anyNonText {
			issues = append(issues, model.Issue{
				SlideNum:    s.Num,
				Title:       "Empty slide",
				Description: "Only empty text placeholders were found.",
				Severity:    model.SeveritySerious,
			})
		}
	}

	msg := fmt.Sprintf("Scanned %d slide(s) - none appear empty.", len(slides))
	if len(issues) > 0 {
		msg = fmt.Sprintf("Found %d empty slide(s).", len(issues))
	}
	return model.CheckResult{Success: len(issues) == 0, Message: msg, Details: issues}, nil
}

func joinInts(nums []int) string {
	parts := make([]string, len(nums))
	for i, n := range nums {
		parts[i] = fmt.Sprintf("%d", n)
	}
	return strings.Join(parts, ", ")
}
