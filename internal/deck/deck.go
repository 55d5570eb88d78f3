// Package deck is the read-only view of a presentation that the checks
// consume. Attributes a host cannot report are modeled as unknown, which is
// distinct from empty: unknown drives the checks' skip logic.
package deck

// OptString is a string attribute that may be structurally unavailable.
type OptString struct {
	Value string
	Known bool
}

// OptFloat is a numeric attribute that may be structurally unavailable.
type OptFloat struct {
	Value float64
	Known bool
}

// OptBool is a boolean attribute that may be structurally unavailable.
type OptBool struct {
	Value bool
	Known bool
}

func String(v string) OptString { return OptString{Value: v, Known: true} }
func Float(v float64) OptFloat  { return OptFloat{Value: v, Known: true} }
func Bool(v bool) OptBool       { return OptBool{Value: v, Known: true} }

// Shape is one element on a slide with the attributes the checks read.
type Shape struct {
	ID             string
	Type           string
	Text           string
	FontSize       OptFloat
	Bold           OptBool
	Italic         OptBool
	Underline      OptBool
	Left           OptFloat
	Top            OptFloat
	Width          OptFloat
	Height         OptFloat
	AltTitle       OptString
	AltDescription OptString
}

// Slide is a 1-based slide with its shapes in z-order.
type Slide struct {
	Num    int
	Shapes []Shape
}

// Provider is the host document boundary. Implementations must not be
// mutated by callers; Slides returns slides for a clamped 1-based inclusive
// range.
type Provider interface {
	SlideCount() (int, error)
	Slides(from, to int) ([]Slide, error)
	Namespace() string
}

// Range resolves a scan config against the deck's slide count: "all" covers
// the whole deck, "range" is clamped to [1,total] with inverted bounds
// swapped.
func Range(mode string, fromSlide, toSlide, total int) (from, to int) {
	if total < 1 {
		total = 1
	}
	if mode != "range" {
		return 1, total
	}
	from = clamp(fromSlide, 1, total)
	to = clamp(toSlide, 1, total)
	if from > to {
		from, to = to, from
	}
	return from, to
}

func clamp(n, lo, hi int) int {
	if n < lo {
		return lo
	}
	if n > hi {
		return hi
	}
	return n
}

// StaticProvider serves a fixed in-memory deck.
type StaticProvider struct {
	Deck []Slide
	NS   string
}

func (p *StaticProvider) SlideCount() (int, error) { return len(p.Deck), nil }

func (p *StaticProvider) Slides(from, to int) ([]Slide, error) {
	var out []Slide
	for _, s := range p.Deck {
		if s.Num >= from && s.Num <= to {
			out = append(out, s)
		}
	}
	return out, nil
}

func (p *StaticProvider) Namespace() string {
	if p.NS == "" {
		return "decklint:unsaved"
	}
	return p.NS
}
