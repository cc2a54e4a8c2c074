package chat

import (
	"strconv"
	"strings"

	"github.com/onnwee/twch/irc"
)

const (
	actionPrefix = "\x01ACTION "
	actionSuffix = "\x01"
)

// ParseFrame converts a channel post into a Message. Any other command, a
// missing sender or tag block, or a single malformed recognized tag rejects
// the whole frame with a *ParseError.
func ParseFrame(f *irc.Frame) (*Message, error) {
	post, ok := f.Command.(irc.PrivMsg)
	if !ok {
		return nil, invalidValue("not a PRIVMSG")
	}

	nick, ok := f.SourceNickname()
	if !ok {
		return nil, missingValue("nick name")
	}

	msg := &Message{
		NickName: nick,
		Channel:  strings.TrimPrefix(post.Target, "#"),
		Content:  post.Text,
	}
	if stripped, ok := strings.CutPrefix(post.Text, actionPrefix); ok {
		msg.IsAction = true
		msg.Content = strings.TrimSuffix(stripped, actionSuffix)
	}

	if f.Tags == nil {
		return nil, missingValue("tags")
	}

	var haveUserID bool
	for _, tag := range f.Tags {
		if tag.Value == "" {
			continue
		}
		switch tag.Key {
		case "user-id":
			id, err := strconv.ParseUint(tag.Value, 10, 64)
			if err != nil {
				return nil, invalidValue("user-id")
			}
			msg.UserID = id
			haveUserID = true
		case "display-name":
			msg.DisplayName = tag.Value
		case "color":
			c, err := ParseColor(tag.Value)
			if err != nil {
				return nil, invalidValue("color")
			}
			msg.Color = &c
		case "emotes":
			emotes, err := parseEmotes(tag.Value)
			if err != nil {
				return nil, invalidValue("emotes")
			}
			msg.Emotes = emotes
		}
	}

	if !haveUserID {
		return nil, missingValue("user-id")
	}
	return msg, nil
}
