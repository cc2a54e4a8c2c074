package server

import (
	"context"
	"time"

	"github.com/onnwee/twch/chat"
	"github.com/onnwee/twch/config"
	"github.com/onnwee/twch/twitchapi"
)

// Helix lists live streams and searches live channels.
type Helix interface {
	GetStreams(ctx context.Context, first int) ([]twitchapi.Broadcast, error)
	SearchChannels(ctx context.Context, query string, first int) ([]twitchapi.Broadcast, error)
}

// Opener opens a message stream for a channel. It returns once the upstream
// accepted the connection, or with the reason it did not.
type Opener func(ctx context.Context, channel string, opts chat.StreamOptions) (*chat.Stream, error)

// OpenTwitch reads the channel anonymously from Twitch chat.
func OpenTwitch(ctx context.Context, channel string, opts chat.StreamOptions) (*chat.Stream, error) {
	return chat.Open(ctx, channel, opts)
}

// Options configures the routes. A nil Helix makes the listing routes answer 503.
type Options struct {
	Helix             Helix
	Open              Opener
	HeartbeatInterval time.Duration
	StreamRateLimit   int
	StreamRateWindow  time.Duration
}

// Handlers holds dependencies for all HTTP handlers.
type Handlers struct {
	helix    Helix
	open     Opener
	interval time.Duration
}

// NewHandlers creates a new Handlers instance, filling unset options with defaults.
func NewHandlers(opts Options) *Handlers {
	h := &Handlers{helix: opts.Helix, open: opts.Open, interval: opts.HeartbeatInterval}
	if h.open == nil {
		h.open = OpenTwitch
	}
	if h.interval <= 0 {
		h.interval = config.DefaultHeartbeatInterval
	}
	return h
}
