package chat

import (
	"math/rand/v2"
	"testing"

	"github.com/fatih/color"
	"github.com/google/go-cmp/cmp"
)

func TestRenderRonni(t *testing.T) {
	msg, err := ParseFrame(mustFrame(t, ronniLine))
	if err != nil {
		t.Fatalf("ParseFrame: %v", err)
	}
	green := &Color{13, 66, 0}
	ul := Style{Underline: true}
	want := []Span{
		{Text: "ronni", Style: Style{Color: green}},
		{Text: ": "},
		{Text: "Kappa", Style: ul},
		{Text: " "},
		{Text: "Keepo", Style: ul},
		{Text: " "},
		{Text: "Kappa", Style: ul},
	}
	if diff := cmp.Diff(want, Render(msg)); diff != "" {
		t.Errorf("Render mismatch (-want +got):\n%s", diff)
	}

	underline := color.New(color.Underline)
	underline.EnableColor()
	name := color.New()
	name.AddRGB(13, 66, 0)
	name.EnableColor()
	wantANSI := name.Sprint("ronni") + ": " +
		underline.Sprint("Kappa") + " " + underline.Sprint("Keepo") + " " + underline.Sprint("Kappa")
	if got := FormatMessage(ANSI{}, msg); got != wantANSI {
		t.Errorf("ANSI = %q, want %q", got, wantANSI)
	}
	if got := FormatMessage(Plain{}, msg); got != "ronni: Kappa Keepo Kappa" {
		t.Errorf("Plain = %q", got)
	}
}

func TestRenderName(t *testing.T) {
	tests := []struct {
		display string
		nick    string
		want    string
	}{
		{"", "bob", "bob"},
		{"Bob", "bob", "Bob"},
		{"BOB", "bob", "BOB"},
		{"ボブ", "bob", "ボブ (bob)"},
	}
	for _, tt := range tests {
		msg := &Message{NickName: tt.nick, DisplayName: tt.display, Content: "hi"}
		spans := Render(msg)
		if spans[0].Text != tt.want {
			t.Errorf("name(%q, %q) = %q, want %q", tt.display, tt.nick, spans[0].Text, tt.want)
		}
		if !spans[0].Style.IsZero() {
			t.Errorf("uncolored name got style %+v", spans[0].Style)
		}
	}
}

func TestRenderAction(t *testing.T) {
	red := &Color{255, 0, 0}
	msg := &Message{
		NickName: "bob",
		Content:  "dances Kappa",
		IsAction: true,
		Color:    red,
		Emotes:   []Emote{{ID: 25, Ranges: []Range{{8, 13}}}},
	}
	want := []Span{
		{Text: "bob", Style: Style{Color: red}},
		{Text: " "},
		{Text: "dances ", Style: Style{Italic: true}},
		{Text: "Kappa", Style: Style{Italic: true, Underline: true}},
	}
	if diff := cmp.Diff(want, Render(msg)); diff != "" {
		t.Errorf("Render mismatch (-want +got):\n%s", diff)
	}
}

func TestRenderCodepointOffsets(t *testing.T) {
	msg := &Message{
		NickName: "a",
		Content:  "héllo 😀 Kappa",
		Emotes:   []Emote{{ID: 1, Ranges: []Range{{8, 13}}}},
	}
	spans := Render(msg)
	last := spans[len(spans)-1]
	if last.Text != "Kappa" || !last.Style.Underline {
		t.Errorf("last span = %+v, want underlined Kappa", last)
	}
	if spans[2].Text != "héllo 😀 " {
		t.Errorf("gap span = %q", spans[2].Text)
	}
}

func TestRenderOrderIndependent(t *testing.T) {
	content := "a Kappa b Keepo c PogChamp d LUL e"
	ranges := []Range{{2, 7}, {10, 15}, {18, 26}, {29, 32}}
	base := &Message{NickName: "x", Content: content, Emotes: []Emote{{ID: 1, Ranges: ranges}}}
	want := Render(base)

	rng := rand.New(rand.NewPCG(1, 2))
	for i := 0; i < 50; i++ {
		shuffled := append([]Range(nil), ranges...)
		rng.Shuffle(len(shuffled), func(i, j int) { shuffled[i], shuffled[j] = shuffled[j], shuffled[i] })
		// Split across emotes too; grouping must not matter either.
		cut := rng.IntN(len(shuffled) + 1)
		msg := &Message{NickName: "x", Content: content, Emotes: []Emote{
			{ID: 1, Ranges: shuffled[:cut]},
			{ID: 2, Ranges: shuffled[cut:]},
		}}
		if diff := cmp.Diff(want, Render(msg)); diff != "" {
			t.Fatalf("order %v changed output (-want +got):\n%s", shuffled, diff)
		}
	}
}

func TestRenderAdversarialRanges(t *testing.T) {
	tests := []struct {
		name   string
		ranges []Range
		want   []Span
	}{
		{
			name:   "overlap skips covered prefix",
			ranges: []Range{{0, 4}, {2, 6}},
			want: []Span{
				{Text: "abcd", Style: Style{Underline: true}},
				{Text: "ef", Style: Style{Underline: true}},
				{Text: "gh"},
			},
		},
		{
			name:   "nested range does not move cursor back",
			ranges: []Range{{0, 6}, {1, 3}},
			want: []Span{
				{Text: "abcdef", Style: Style{Underline: true}},
				{Text: "gh"},
			},
		},
		{
			name:   "range past end is clamped",
			ranges: []Range{{6, 40}},
			want: []Span{
				{Text: "abcdef"},
				{Text: "gh", Style: Style{Underline: true}},
			},
		},
		{
			name:   "empty range emits only gap",
			ranges: []Range{{3, 3}},
			want: []Span{
				{Text: "abc"},
				{Text: "defgh"},
			},
		},
		{
			name:   "range entirely beyond content",
			ranges: []Range{{20, 25}},
			want:   []Span{{Text: "abcdefgh"}},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg := &Message{NickName: "n", Content: "abcdefgh", Emotes: []Emote{{ID: 1, Ranges: tt.ranges}}}
			got := Render(msg)[2:]
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("Render mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestStyleOver(t *testing.T) {
	red, blue := &Color{255, 0, 0}, &Color{0, 0, 255}
	base := Style{Color: red, Italic: true}
	got := Style{Underline: true}.Over(base)
	if got.Color != red || !got.Italic || !got.Underline {
		t.Errorf("Over = %+v", got)
	}
	if got := (Style{Color: blue}).Over(base); got.Color != blue || !got.Italic {
		t.Errorf("color override = %+v", got)
	}
	if !(Style{}).IsZero() || base.IsZero() {
		t.Errorf("IsZero wrong")
	}
}

func TestANSIStylesComposition(t *testing.T) {
	spans := []Span{{Text: "x", Style: Style{Italic: true, Underline: true}}, {Text: "y"}}
	c := color.New(color.Italic, color.Underline)
	c.EnableColor()
	if got, want := (ANSI{}).Format(spans), c.Sprint("x")+"y"; got != want {
		t.Errorf("ANSI = %q, want %q", got, want)
	}
}
