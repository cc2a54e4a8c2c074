// Package chat turns raw Twitch chat frames into renderable messages.
//
// A Stream pulls frames from a Source (DialTwitch reads a channel anonymously
// over go-twitch-irc), keeps only channel posts that parse into a Message, and
// fills in a per-stream fallback color for senders who never picked one. The
// same sender keeps the same fallback color for the life of the stream.
//
// Render lays a Message out as styled spans that a Formatter (ANSI or Plain)
// turns into text. Stream and Render never log; frames that fail to parse are
// reported through StreamOptions.OnDrop.
package chat
