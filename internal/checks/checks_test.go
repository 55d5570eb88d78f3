package checks

import (
	"strings"
	"testing"

	"decklint/internal/deck"
	"decklint/internal/model"
)

func textShape(id, text string) deck.Shape {
	return deck.Shape{ID: id, Type: "textBox", Text: text}
}

func provider(slides ...deck.Slide) *deck.StaticProvider {
	return &deck.StaticProvider{Deck: slides}
}

func run(t *testing.T, fn func(deck.Provider, int, int) (model.CheckResult, error), p deck.Provider) model.CheckResult {
	t.Helper()
	total, _ := p.SlideCount()
	res, err := fn(p, 1, total)
	if err != nil {
		t.Fatalf("check returned error: %v", err)
	}
	return res
}

func TestSlideTitles(t *testing.T) {
	p := provider(
		deck.Slide{Num: 1, Shapes: []deck.Shape{textShape("1", "Welcome")}},
		deck.Slide{Num: 2, Shapes: []deck.Shape{textShape("2", "   ")}},
		deck.Slide{Num: 3},
	)
	res := run(t, checkSlideTitles, p)
	if res.Success {
		t.Fatal("expected failure with untitled slides")
	}
	if len(res.Details) != 2 {
		t.Fatalf("expected 2 issues, got %d: %#v", len(res.Details), res.Details)
	}
	if res.Details[0].SlideNum != 2 || res.Details[1].SlideNum != 3 {
		t.Fatalf("flagged wrong slides: %#v", res.Details)
	}
}

func TestDuplicateTitlesGroupsAndAlwaysSucceeds(t *testing.T) {
	p := provider(
		deck.Slide{Num: 1, Shapes: []deck.Shape{textShape("1", "Roadmap")}},
		deck.Slide{Num: 2, Shapes: []deck.Shape{textShape("2", "  roadmap ")}},
		deck.Slide{Num: 3, Shapes: []deck.Shape{textShape("3", "Summary")}},
		deck.Slide{Num: 4, Shapes: []deck.Shape{textShape("4", "ROADMAP")}},
	)
	res := run(t, checkDuplicateTitles, p)
	if !res.Success {
		t.Fatal("duplicate titles is advisory; success must be true even with findings")
	}
	if len(res.Details) != 1 {
		t.Fatalf("expected one duplicate group, got %d", len(res.Details))
	}
	issue := res.Details[0]
	if issue.SlideNum != 1 {
		t.Errorf("group should anchor at first member slide, got %d", issue.SlideNum)
	}
	if issue.ExtraKey != "title:roadmap" {
		t.Errorf("unexpected extra key %q", issue.ExtraKey)
	}
	if !strings.Contains(issue.Description, "1, 2, 4") {
		t.Errorf("description should list member slides, got %q", issue.Description)
	}
}

func TestDuplicateTitlesKeyStableAcrossRuns(t *testing.T) {
	p := provider(
		deck.Slide{Num: 1, Shapes: []deck.Shape{textShape("1", "Intro")}},
		deck.Slide{Num: 2, Shapes: []deck.Shape{textShape("2", "Intro")}},
	)
	first := run(t, checkDuplicateTitles, p)
	second := run(t, checkDuplicateTitles, p)
	ns := "decklint:test"
	a := model.Key(first.Details[0], ns)
	b := model.Key(second.Details[0], ns)
	if a != b {
		t.Fatalf("same duplicate group keyed differently across runs: %q vs %q", a, b)
	}
}

func TestEmptySlides(t *testing.T) {
	p := provider(
		deck.Slide{Num: 1},
		deck.Slide{Num: 2, Shapes: []deck.Shape{textShape("1", "")}},
		deck.Slide{Num: 3, Shapes: []deck.Shape{textShape("1", ""), {ID: "2", Type: "picture"}}},
		deck.Slide{Num: 4, Shapes: []deck.Shape{textShape("1", "content")}},
	)
	res := run(t, checkEmptySlides, p)
	if len(res.Details) != 2 {
		t.Fatalf("expected 2 empty slides, got %d: %#v", len(res.Details), res.Details)
	}
	if res.Details[0].SlideNum != 1 || res.Details[1].SlideNum != 2 {
		t.Fatalf("flagged wrong slides: %#v", res.Details)
	}
}

func TestTextSizeFlagsSmallText(t *testing.T) {
	p := provider(deck.Slide{Num: 1, Shapes: []deck.Shape{
		{ID: "1", Type: "textBox", Text: "tiny", FontSize: deck.Float(9)},
		{ID: "2", Type: "textBox", Text: "fine", FontSize: deck.Float(18)},
	}})
	res := run(t, checkTextSize, p)
	if res.Skipped {
		t.Fatal("sizes were known; check must not skip")
	}
	if len(res.Details) != 1 || res.Details[0].ShapeID != "1" {
		t.Fatalf("expected shape 1 flagged, got %#v", res.Details)
	}
	if !strings.Contains(res.Details[0].Description, "9pt") {
		t.Errorf("description should carry the measured size, got %q", res.Details[0].Description)
	}
}

func TestTextSizeSkipsWhenCapabilityMissing(t *testing.T) {
	p := provider(deck.Slide{Num: 1, Shapes: []deck.Shape{
		{ID: "1", Type: "textBox", Text: "no size info"},
	}})
	res := run(t, checkTextSize, p)
	if !res.Skipped || !res.Success {
		t.Fatalf("expected skipped success envelope, got %#v", res)
	}
	if len(res.Details) != 0 {
		t.Fatalf("skipped check must carry no issues, got %#v", res.Details)
	}
}

func TestTextSizeDoesNotSkipWhenIssuesFound(t *testing.T) {
	p := provider(deck.Slide{Num: 1, Shapes: []deck.Shape{
		{ID: "1", Type: "textBox", Text: "no size info"},
		{ID: "2", Type: "textBox", Text: "tiny", FontSize: deck.Float(8)},
	}})
	res := run(t, checkTextSize, p)
	if res.Skipped {
		t.Fatal("a check that found issues must not report skipped")
	}
	if len(res.Details) != 1 {
		t.Fatalf("expected 1 issue, got %d", len(res.Details))
	}
}

func TestTextFormatting(t *testing.T) {
	p := provider(deck.Slide{Num: 1, Shapes: []deck.Shape{
		{ID: "1", Type: "textBox", Text: "loud", Bold: deck.Bool(true), Italic: deck.Bool(true), Underline: deck.Bool(true)},
		{ID: "2", Type: "textBox", Text: "ok", Bold: deck.Bool(true), Italic: deck.Bool(true), Underline: deck.Bool(false)},
	}})
	res := run(t, checkTextFormatting, p)
	if len(res.Details) != 1 || res.Details[0].ShapeID != "1" {
		t.Fatalf("expected only fully styled shape flagged, got %#v", res.Details)
	}

	unknown := provider(deck.Slide{Num: 1, Shapes: []deck.Shape{
		{ID: "1", Type: "textBox", Text: "mystery styling"},
	}})
	if res := run(t, checkTextFormatting, unknown); !res.Skipped {
		t.Fatalf("expected skip with unknown styling, got %#v", res)
	}
}

func TestManualListThreshold(t *testing.T) {
	five := strings.Repeat("- item\n", 5)
	four := strings.Repeat("- item\n", 4)

	p := provider(deck.Slide{Num: 1, Shapes: []deck.Shape{textShape("1", five)}})
	if res := run(t, checkManualListFormatting, p); len(res.Details) != 1 {
		t.Fatalf("5 bullet lines should flag, got %#v", res.Details)
	}

	p = provider(deck.Slide{Num: 1, Shapes: []deck.Shape{textShape("1", four)}})
	if res := run(t, checkManualListFormatting, p); len(res.Details) != 0 {
		t.Fatalf("4 bullet lines should not flag, got %#v", res.Details)
	}
}

func TestManualListPatterns(t *testing.T) {
	block := "1. one\n2) two\n• three\n– four\na) five"
	p := provider(deck.Slide{Num: 1, Shapes: []deck.Shape{textShape("1", block)}})
	if res := run(t, checkManualListFormatting, p); len(res.Details) != 1 {
		t.Fatalf("mixed manual markers should flag, got %#v", res.Details)
	}
}

func TestAltText(t *testing.T) {
	p := provider(deck.Slide{Num: 1, Shapes: []deck.Shape{
		{ID: "1", Type: "picture", AltTitle: deck.String(""), AltDescription: deck.String("")},
		{ID: "2", Type: "picture", AltTitle: deck.String(""), AltDescription: deck.String("A chart of Q3 growth")},
		{ID: "3", Type: "textBox", Text: "not a visual", AltTitle: deck.String(""), AltDescription: deck.String("")},
	}})
	res := run(t, checkAltText, p)
	if len(res.Details) != 1 || res.Details[0].ShapeID != "1" {
		t.Fatalf("expected only the undescribed picture flagged, got %#v", res.Details)
	}
}

func TestAltTextBlankDescriptionBeatsTitle(t *testing.T) {
	p := provider(deck.Slide{Num: 1, Shapes: []deck.Shape{
		{ID: "1", Type: "picture", AltTitle: deck.String("Chart"), AltDescription: deck.String("   ")},
		{ID: "2", Type: "picture", AltTitle: deck.String("Chart"), AltDescription: deck.String("")},
	}})
	res := run(t, checkAltText, p)
	if len(res.Details) != 1 || res.Details[0].ShapeID != "1" {
		t.Fatalf("a whitespace-only description must not fall back to the title, got %#v", res.Details)
	}
}

func TestAltTextSkipsWhenCapabilityMissing(t *testing.T) {
	p := provider(deck.Slide{Num: 1, Shapes: []deck.Shape{
		{ID: "1", Type: "picture"},
	}})
	res := run(t, checkAltText, p)
	if !res.Skipped {
		t.Fatalf("expected skip when alt attributes are unavailable, got %#v", res)
	}
}

func TestIsVisualType(t *testing.T) {
	for _, typ := range []string{"picture", "graphicFrame", "media", "Image"} {
		if !isVisualType(typ) {
			t.Errorf("%q should be visual", typ)
		}
	}
	for _, typ := range []string{"textBox", "geometricShape", ""} {
		if isVisualType(typ) {
			t.Errorf("%q should not be visual", typ)
		}
	}
}

func boxShape(id string, left, top, width, height float64) deck.Shape {
	return deck.Shape{
		ID: id, Type: "geometricShape",
		Left: deck.Float(left), Top: deck.Float(top),
		Width: deck.Float(width), Height: deck.Float(height),
	}
}

func TestOverlappingElements(t *testing.T) {
	overlapping := provider(deck.Slide{Num: 1, Shapes: []deck.Shape{
		boxShape("1", 0, 0, 10, 10),
		boxShape("2", 5, 5, 10, 10),
	}})
	res := run(t, checkOverlappingElements, overlapping)
	if !res.Success {
		t.Fatal("overlap check is advisory; success must be true even with findings")
	}
	if len(res.Details) != 1 || res.Details[0].SlideNum != 1 {
		t.Fatalf("expected one slide-level issue, got %#v", res.Details)
	}

	touching := provider(deck.Slide{Num: 1, Shapes: []deck.Shape{
		boxShape("1", 0, 0, 10, 10),
		boxShape("2", 10, 0, 10, 10),
	}})
	if res := run(t, checkOverlappingElements, touching); len(res.Details) != 0 {
		t.Fatalf("touching edges must not count as overlap, got %#v", res.Details)
	}
}

func TestOverlappingSkipsWhenBoxesUnknown(t *testing.T) {
	p := provider(deck.Slide{Num: 1, Shapes: []deck.Shape{
		{ID: "1", Type: "geometricShape"},
		{ID: "2", Type: "geometricShape"},
	}})
	if res := run(t, checkOverlappingElements, p); !res.Skipped {
		t.Fatalf("expected skip without geometry, got %#v", res)
	}
}

func TestVagueLinks(t *testing.T) {
	p := provider(deck.Slide{Num: 1, Shapes: []deck.Shape{
		textShape("1", "Agenda\nClick Here\nsee the appendix for more"),
		textShape("2", "  learn more  "),
	}})
	res := run(t, checkVagueLinks, p)
	if len(res.Details) != 2 {
		t.Fatalf("expected 2 vague lines, got %#v", res.Details)
	}
	if res.Details[0].ShapeID != "1" || res.Details[1].ShapeID != "2" {
		t.Fatalf("flagged wrong shapes: %#v", res.Details)
	}
}

func TestChecksOperateWithinRange(t *testing.T) {
	p := provider(
		deck.Slide{Num: 1},
		deck.Slide{Num: 2, Shapes: []deck.Shape{textShape("1", "Titled")}},
		deck.Slide{Num: 3},
	)
	res, err := checkSlideTitles(p, 2, 2)
	if err != nil {
		t.Fatalf("check returned error: %v", err)
	}
	if !res.Success || len(res.Details) != 0 {
		t.Fatalf("slides outside the range must not be inspected: %#v", res)
	}
}
