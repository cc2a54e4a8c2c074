package chat

import (
	"cmp"
	"slices"
	"strings"

	"github.com/fatih/color"
)

// Style describes how a span of text is emphasized. It carries no terminal
// specifics; a Formatter turns styled spans into output.
type Style struct {
	Color     *Color
	Italic    bool
	Underline bool
}

// Over layers s on top of base: a set color replaces base's, emphasis flags
// accumulate.
func (s Style) Over(base Style) Style {
	out := base
	if s.Color != nil {
		out.Color = s.Color
	}
	out.Italic = out.Italic || s.Italic
	out.Underline = out.Underline || s.Underline
	return out
}

// IsZero reports whether s applies no styling.
func (s Style) IsZero() bool {
	return s.Color == nil && !s.Italic && !s.Underline
}

// Span is a run of text sharing one Style.
type Span struct {
	Text  string
	Style Style
}

// Render lays out msg as styled spans: the name, the separator and the
// content with every emote range underlined. Output does not depend on the
// order emote ranges arrived in.
func Render(msg *Message) []Span {
	spans := []Span{{Text: nameOf(msg), Style: Style{Color: msg.Color}}}

	var base Style
	if msg.IsAction {
		base.Italic = true
		spans = append(spans, Span{Text: " "})
	} else {
		spans = append(spans, Span{Text: ": "})
	}
	underline := Style{Underline: true}.Over(base)

	content := []rune(msg.Content)
	clamp := func(i int) int { return min(max(i, 0), len(content)) }

	prevEnd := 0
	for _, r := range sortedRanges(msg.Emotes) {
		start, end := clamp(r.Start), clamp(r.End)
		if prevEnd < start {
			spans = append(spans, Span{Text: string(content[prevEnd:start]), Style: base})
		}
		if from := max(start, prevEnd); from < end {
			spans = append(spans, Span{Text: string(content[from:end]), Style: underline})
		}
		prevEnd = max(prevEnd, end)
	}
	if prevEnd < len(content) {
		spans = append(spans, Span{Text: string(content[prevEnd:]), Style: base})
	}
	return spans
}

func nameOf(msg *Message) string {
	switch {
	case msg.DisplayName == "":
		return msg.NickName
	case strings.EqualFold(msg.DisplayName, msg.NickName):
		return msg.DisplayName
	default:
		return msg.DisplayName + " (" + msg.NickName + ")"
	}
}

// sortedRanges flattens every emote's ranges, ordered by start. Equal starts
// keep their arrival order.
func sortedRanges(emotes []Emote) []Range {
	var ranges []Range
	for _, e := range emotes {
		ranges = append(ranges, e.Ranges...)
	}
	slices.SortStableFunc(ranges, func(a, b Range) int { return cmp.Compare(a.Start, b.Start) })
	return ranges
}

// Formatter turns spans into text for a particular target.
type Formatter interface {
	Format(spans []Span) string
}

// Plain drops all styling.
type Plain struct{}

// Format implements Formatter.
func (Plain) Format(spans []Span) string {
	var b strings.Builder
	for _, sp := range spans {
		b.WriteString(sp.Text)
	}
	return b.String()
}

// ANSI emits SGR escape sequences with 24-bit colors. It styles output even
// when the process is not attached to a terminal, since the text usually
// travels to one elsewhere.
type ANSI struct{}

// Format implements Formatter.
func (ANSI) Format(spans []Span) string {
	var b strings.Builder
	for _, sp := range spans {
		if sp.Style.IsZero() || sp.Text == "" {
			b.WriteString(sp.Text)
			continue
		}
		b.WriteString(sgr(sp.Style).Sprint(sp.Text))
	}
	return b.String()
}

func sgr(s Style) *color.Color {
	c := color.New()
	if s.Color != nil {
		c.AddRGB(int(s.Color.R), int(s.Color.G), int(s.Color.B))
	}
	if s.Italic {
		c.Add(color.Italic)
	}
	if s.Underline {
		c.Add(color.Underline)
	}
	c.EnableColor()
	return c
}

// FormatMessage renders msg and formats it in one step.
func FormatMessage(f Formatter, msg *Message) string {
	return f.Format(Render(msg))
}
