package twitchapi

import (
	"strconv"
	"strings"

	"github.com/fatih/color"
)

// Broadcast is one live channel as listed by the streams or search endpoints.
type Broadcast struct {
	UserLogin   string
	UserName    string
	GameName    string
	Title       string
	ViewerCount *int
}

// Format renders b as a header line followed by its title on the next line.
// When styled, the user name is green and the game blue.
func (b Broadcast) Format(styled bool) string {
	name, game := b.UserName, b.GameName
	if styled {
		name = paint(color.FgGreen, name)
		game = paint(color.FgBlue, game)
	}

	var sb strings.Builder
	sb.WriteString(name)
	sb.WriteString(" /")
	sb.WriteString(b.UserLogin)
	if b.GameName != "" {
		sb.WriteString(" - ")
		sb.WriteString(game)
	}
	if b.ViewerCount != nil {
		sb.WriteString(" (")
		sb.WriteString(strconv.Itoa(*b.ViewerCount))
		sb.WriteString(" viewers)")
	}
	if title := strings.TrimSpace(b.Title); title != "" {
		sb.WriteByte('\n')
		sb.WriteString(title)
	}
	return sb.String()
}

func (b Broadcast) String() string { return b.Format(false) }

func paint(attr color.Attribute, s string) string {
	c := color.New(attr)
	c.EnableColor()
	return c.Sprint(s)
}

// FormatList renders each broadcast followed by a newline, separated by blank lines.
func FormatList(bs []Broadcast, styled bool) string {
	parts := make([]string, 0, len(bs))
	for _, b := range bs {
		parts = append(parts, b.Format(styled)+"\n")
	}
	return strings.Join(parts, "\n")
}
