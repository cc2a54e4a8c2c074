package chat

import (
	"fmt"
	"strconv"
	"strings"
)

// Message is one chat post received in a channel.
type Message struct {
	UserID   uint64
	NickName string
	// DisplayName is empty when the frame carried none.
	DisplayName string
	Channel     string
	// Content is indexed by codepoint in every Range below.
	Content  string
	IsAction bool
	// Color is nil until resolved, either from the frame or by the stream's
	// fallback cache.
	Color  *Color
	Emotes []Emote
}

// Emote marks the places an emote token occurs in a message.
type Emote struct {
	ID     uint64
	Ranges []Range
}

// Range is a half-open codepoint range [Start, End).
type Range struct {
	Start int
	End   int
}

// Color is a 24-bit RGB display color.
type Color struct {
	R, G, B uint8
}

// ParseColor parses a #RRGGBB color. Hex digits are case-insensitive.
func ParseColor(s string) (Color, error) {
	if len(s) != 7 || s[0] != '#' {
		return Color{}, fmt.Errorf("color %q: want #RRGGBB", s)
	}
	var rgb [3]uint8
	for i := range rgb {
		part := s[1+2*i : 3+2*i]
		v, err := strconv.ParseUint(part, 16, 8)
		if err != nil {
			return Color{}, fmt.Errorf("color %q: %w", s, err)
		}
		rgb[i] = uint8(v)
	}
	return Color{R: rgb[0], G: rgb[1], B: rgb[2]}, nil
}

// parseEmotes decodes the emotes tag: id:start-end,start-end/id:start-end.
// Wire ranges are inclusive and become half-open.
func parseEmotes(s string) ([]Emote, error) {
	parts := strings.Split(s, "/")
	emotes := make([]Emote, 0, len(parts))
	for _, part := range parts {
		idStr, rangesStr, ok := strings.Cut(part, ":")
		if !ok {
			return nil, fmt.Errorf("emote %q: missing ranges", part)
		}
		id, err := strconv.ParseUint(idStr, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("emote %q: %w", part, err)
		}
		var ranges []Range
		for _, rs := range strings.Split(rangesStr, ",") {
			startStr, endStr, ok := strings.Cut(rs, "-")
			if !ok {
				return nil, fmt.Errorf("emote range %q: missing end", rs)
			}
			start, err := strconv.Atoi(startStr)
			if err != nil || start < 0 {
				return nil, fmt.Errorf("emote range %q: bad start", rs)
			}
			end, err := strconv.Atoi(endStr)
			if err != nil || end < 0 {
				return nil, fmt.Errorf("emote range %q: bad end", rs)
			}
			ranges = append(ranges, Range{Start: start, End: end + 1})
		}
		emotes = append(emotes, Emote{ID: id, Ranges: ranges})
	}
	return emotes, nil
}
