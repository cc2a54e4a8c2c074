package chat

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	twitch "github.com/gempir/go-twitch-irc/v4"

	"github.com/onnwee/twch/irc"
)

const (
	// deliveryBuffer absorbs short bursts while the consumer is busy writing.
	deliveryBuffer = 256
	// dialTimeout bounds the wait for the server welcome.
	dialTimeout = 10 * time.Second
)

// TwitchSource is a Source backed by an anonymous go-twitch-irc connection to
// a single channel. Every line the client hands back is re-decoded with
// irc.Parse so the parser sees the frame exactly as it arrived.
//
// The source covers exactly one connection. go-twitch-irc redials on its own
// after a dropped connection; the source ends instead, before any frame of
// the new connection is delivered.
type TwitchSource struct {
	channel string
	client  *twitch.Client
	frames  chan Delivery

	connects  atomic.Int32
	stale     atomic.Bool
	connected chan struct{}
	stopped   chan error

	done      chan struct{}
	closeOnce sync.Once
	endOnce   sync.Once
}

// DialTwitch joins channel read-only and returns once the server accepted the
// connection. It fails with the connect error, or when ctx is done first.
func DialTwitch(ctx context.Context, channel string) (*TwitchSource, error) {
	return dial(ctx, channel, twitch.NewAnonymousClient())
}

func dial(ctx context.Context, channel string, client *twitch.Client) (*TwitchSource, error) {
	ctx, cancel := context.WithTimeout(ctx, dialTimeout)
	defer cancel()

	s := &TwitchSource{
		channel:   strings.ToLower(strings.TrimPrefix(channel, "#")),
		client:    client,
		frames:    make(chan Delivery, deliveryBuffer),
		connected: make(chan struct{}),
		stopped:   make(chan error, 1),
		done:      make(chan struct{}),
	}

	s.client.OnConnect(s.onConnect)
	s.client.OnPrivateMessage(func(m twitch.PrivateMessage) { s.forward(m.Raw) })
	s.client.OnUserNoticeMessage(func(m twitch.UserNoticeMessage) { s.forward(m.Raw) })
	s.client.OnNoticeMessage(func(m twitch.NoticeMessage) { s.forward(m.Raw) })
	s.client.OnClearChatMessage(func(m twitch.ClearChatMessage) { s.forward(m.Raw) })
	s.client.OnRoomStateMessage(func(m twitch.RoomStateMessage) { s.forward(m.Raw) })
	s.client.OnUnsetMessage(func(m twitch.RawMessage) { s.forward(m.Raw) })
	s.client.Join(s.channel)

	go func() {
		err := s.client.Connect()
		s.stopped <- err
		if err == nil || errors.Is(err, twitch.ErrClientDisconnected) {
			err = io.EOF
		}
		slog.Debug("twitch chat connection ended", slog.String("channel", s.channel), slog.Any("err", err))
		s.end(err)
	}()

	select {
	case <-s.connected:
		return s, nil
	case err := <-s.stopped:
		_ = s.Close()
		if err == nil {
			err = io.EOF
		}
		return nil, fmt.Errorf("connect to #%s: %w", s.channel, err)
	case <-ctx.Done():
		_ = s.Close()
		return nil, fmt.Errorf("connect to #%s: %w", s.channel, ctx.Err())
	}
}

// Open dials channel and wraps it in a Stream with its own color cache.
func Open(ctx context.Context, channel string, opts StreamOptions) (*Stream, error) {
	src, err := DialTwitch(ctx, channel)
	if err != nil {
		return nil, err
	}
	return NewStream(src, opts), nil
}

// Frames implements Source. The channel is never closed; the source ends
// with a delivery carrying io.EOF or the connection error.
func (s *TwitchSource) Frames() <-chan Delivery { return s.frames }

// Close disconnects the client. Deliveries stop immediately.
func (s *TwitchSource) Close() error {
	var err error
	s.closeOnce.Do(func() {
		close(s.done)
		err = s.client.Disconnect()
		if errors.Is(err, twitch.ErrConnectionIsNotOpen) {
			err = nil
		}
	})
	return err
}

func (s *TwitchSource) onConnect() {
	select {
	case <-s.done:
		// closed while the first handshake was still pending
		_ = s.client.Disconnect()
		return
	default:
	}
	if s.connects.Add(1) == 1 {
		slog.Debug("twitch chat connected", slog.String("channel", s.channel))
		close(s.connected)
		return
	}
	// the client redialed after losing the first connection
	s.stale.Store(true)
	slog.Debug("twitch chat reconnected, ending source", slog.String("channel", s.channel))
	_ = s.client.Disconnect()
	go s.end(io.EOF)
}

// forward skips lines irc.Parse rejects; they never carry chat messages.
func (s *TwitchSource) forward(raw string) {
	if s.stale.Load() {
		return
	}
	f, err := irc.Parse(raw)
	if err != nil {
		slog.Debug("unparsable chat line", slog.String("channel", s.channel), slog.Any("err", err))
		return
	}
	s.send(Delivery{Frame: f})
}

// end delivers the terminal item once.
func (s *TwitchSource) end(err error) {
	s.endOnce.Do(func() {
		s.stale.Store(true)
		s.send(Delivery{Err: err})
	})
}

func (s *TwitchSource) send(d Delivery) {
	select {
	case s.frames <- d:
	case <-s.done:
	}
}
