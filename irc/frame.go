// Package irc decodes raw IRCv3 lines, as sent by the Twitch chat servers,
// into frames: an ordered tag block, an optional source prefix and a command.
//
// The decoder does not interpret tag values; that
// is left to the chat package.
package irc

import (
	"errors"
	"strings"
)

// Tag is one key/value entry of a frame's tag block. A bare key decodes with
// an empty Value.
type Tag struct {
	Key   string
	Value string
}

// Prefix is the source of a frame. Exactly one of Nick or Server is set.
type Prefix struct {
	Nick   string
	User   string
	Host   string
	Server string
}

// Frame is one decoded protocol line.
type Frame struct {
	// Tags is nil when the line carried no tag block at all.
	Tags    []Tag
	Prefix  *Prefix
	Command Command
}

// Command is the closed set of command kinds a Frame can carry.
type Command interface {
	command()
}

// PrivMsg is a channel post.
type PrivMsg struct {
	Target string
	Text   string
}

// Notice is a server or channel notice.
type Notice struct {
	Target string
	Text   string
}

// Ping is a keep-alive check from the server.
type Ping struct {
	Server string
}

// Raw is every command without a dedicated variant.
type Raw struct {
	Name   string
	Params []string
}

func (PrivMsg) command() {}
func (Notice) command()  {}
func (Ping) command()    {}
func (Raw) command()     {}

var (
	errEmptyLine      = errors.New("irc: empty line")
	errMissingCommand = errors.New("irc: missing command")
)

// SourceNickname returns the nick of a user prefix. Server prefixes and
// frames without a prefix report false.
func (f *Frame) SourceNickname() (string, bool) {
	if f.Prefix == nil || f.Prefix.Nick == "" {
		return "", false
	}
	return f.Prefix.Nick, true
}

// Parse decodes a single line. Trailing CR/LF are ignored.
func Parse(line string) (*Frame, error) {
	line = strings.TrimRight(line, "\r\n")
	if strings.TrimSpace(line) == "" {
		return nil, errEmptyLine
	}

	f := &Frame{}
	if strings.HasPrefix(line, "@") {
		var block string
		block, line = cut(line[1:])
		f.Tags = parseTags(block)
	}
	if strings.HasPrefix(line, ":") {
		var src string
		src, line = cut(line[1:])
		f.Prefix = parsePrefix(src)
	}

	name, rest := cut(line)
	if name == "" {
		return nil, errMissingCommand
	}
	f.Command = newCommand(strings.ToUpper(name), parseParams(rest))
	return f, nil
}

// cut splits s at the first space and drops any further leading spaces from
// the remainder.
func cut(s string) (string, string) {
	head, tail, _ := strings.Cut(s, " ")
	return head, strings.TrimLeft(tail, " ")
}

func parseTags(block string) []Tag {
	tags := make([]Tag, 0, strings.Count(block, ";")+1)
	for _, entry := range strings.Split(block, ";") {
		if entry == "" {
			continue
		}
		key, value, _ := strings.Cut(entry, "=")
		tags = append(tags, Tag{Key: key, Value: unescapeTagValue(value)})
	}
	return tags
}

func unescapeTagValue(v string) string {
	if !strings.Contains(v, `\`) {
		return v
	}
	var b strings.Builder
	b.Grow(len(v))
	for i := 0; i < len(v); i++ {
		c := v[i]
		if c != '\\' {
			b.WriteByte(c)
			continue
		}
		i++
		if i == len(v) {
			break
		}
		switch v[i] {
		case ':':
			b.WriteByte(';')
		case 's':
			b.WriteByte(' ')
		case 'r':
			b.WriteByte('\r')
		case 'n':
			b.WriteByte('\n')
		default:
			b.WriteByte(v[i])
		}
	}
	return b.String()
}

func parsePrefix(src string) *Prefix {
	if !strings.ContainsAny(src, "!@") && strings.Contains(src, ".") {
		return &Prefix{Server: src}
	}
	p := &Prefix{}
	rest := src
	if i := strings.IndexByte(rest, '@'); i >= 0 {
		p.Host = rest[i+1:]
		rest = rest[:i]
	}
	if i := strings.IndexByte(rest, '!'); i >= 0 {
		p.User = rest[i+1:]
		rest = rest[:i]
	}
	p.Nick = rest
	return p
}

func parseParams(s string) []string {
	var params []string
	for s != "" {
		if strings.HasPrefix(s, ":") {
			return append(params, s[1:])
		}
		var p string
		p, s = cut(s)
		params = append(params, p)
	}
	return params
}

func newCommand(name string, params []string) Command {
	switch {
	case name == "PRIVMSG" && len(params) == 2:
		return PrivMsg{Target: params[0], Text: params[1]}
	case name == "NOTICE" && len(params) == 2:
		return Notice{Target: params[0], Text: params[1]}
	case name == "PING" && len(params) >= 1:
		return Ping{Server: params[0]}
	default:
		return Raw{Name: name, Params: params}
	}
}
