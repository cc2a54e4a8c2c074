package chat

import (
	"context"
	"errors"
	"io"
	"iter"
	"time"

	"github.com/onnwee/twch/irc"
)

// Delivery is one item received from a Source: a decoded frame, or the error
// that ended the source.
type Delivery struct {
	Frame *irc.Frame
	Err   error
}

// Source is the transport feeding a Stream. The source ends when its channel
// is closed or when it delivers a non-nil Err.
type Source interface {
	Frames() <-chan Delivery
	Close() error
}

// PollStatus is the outcome of a non-blocking Poll.
type PollStatus int

const (
	// Pending means no message can be produced without waiting.
	Pending PollStatus = iota
	// Ready means Poll returned a message.
	Ready
	// Ended means the stream is finished for good.
	Ended
)

// StreamOptions tune a Stream. The zero value is ready to use.
type StreamOptions struct {
	// Sample draws fallback colors; defaults to SampleFallbackColor.
	Sample func() FallbackColor
	// OnDrop is called for every frame that failed to parse. The frame is
	// discarded either way.
	OnDrop func(f *irc.Frame, err error)
}

var errWouldBlock = errors.New("chat: would block")

type received struct {
	d  Delivery
	ok bool
}

// Stream turns a Source of raw frames into Messages. Frames that do not parse
// are skipped, messages without a color get one from the stream's private
// ColorCache, and the first upstream error or end of input finishes the
// stream permanently.
//
// A Stream is meant to be pulled from one goroutine.
type Stream struct {
	src    Source
	frames <-chan Delivery
	colors *ColorCache
	onDrop func(*irc.Frame, error)

	peeked   *received
	ended    bool
	closeErr error
}

// NewStream wraps src with a fresh color cache.
func NewStream(src Source, opts StreamOptions) *Stream {
	return &Stream{
		src:    src,
		frames: src.Frames(),
		colors: NewColorCache(opts.Sample),
		onDrop: opts.OnDrop,
	}
}

// Next blocks until a message is available. It returns io.EOF once the source
// has ended or failed, and ctx.Err() if ctx is done first; cancellation does
// not end the stream.
func (s *Stream) Next(ctx context.Context) (*Message, error) {
	return s.next(ctx, true)
}

// Poll returns the next message only if it can be produced without waiting.
func (s *Stream) Poll() (*Message, PollStatus) {
	msg, err := s.next(context.Background(), false)
	switch {
	case err == nil:
		return msg, Ready
	case errors.Is(err, errWouldBlock):
		return nil, Pending
	default:
		return nil, Ended
	}
}

// Wait suspends until the source has something to deliver or tick fires. A
// delivered frame is kept for the next Next or Poll. When both are ready the
// frame wins and ticked is false. Wait returns io.EOF on an ended stream.
func (s *Stream) Wait(ctx context.Context, tick <-chan time.Time) (ticked bool, err error) {
	if s.ended {
		return false, io.EOF
	}
	if s.peeked != nil {
		return false, nil
	}
	select {
	case d, ok := <-s.frames:
		s.peeked = &received{d: d, ok: ok}
		return false, nil
	case <-tick:
		select {
		case d, ok := <-s.frames:
			s.peeked = &received{d: d, ok: ok}
			return false, nil
		default:
		}
		return true, nil
	case <-ctx.Done():
		return false, ctx.Err()
	}
}

// All yields messages until the stream ends or ctx is done.
func (s *Stream) All(ctx context.Context) iter.Seq[*Message] {
	return func(yield func(*Message) bool) {
		for {
			msg, err := s.Next(ctx)
			if err != nil || !yield(msg) {
				return
			}
		}
	}
}

// Close ends the stream and releases its source. It reports the source's
// close error, including one hit when the stream ended on its own; repeated
// calls return the same error.
func (s *Stream) Close() error {
	if !s.ended {
		s.end()
	}
	return s.closeErr
}

func (s *Stream) end() {
	s.ended = true
	s.peeked = nil
	s.closeErr = s.src.Close()
}

func (s *Stream) next(ctx context.Context, block bool) (*Message, error) {
	for {
		if s.ended {
			return nil, io.EOF
		}
		r, err := s.receive(ctx, block)
		if err != nil {
			return nil, err
		}
		if !r.ok || r.d.Err != nil {
			s.end()
			return nil, io.EOF
		}
		if r.d.Frame == nil {
			continue
		}

		msg, err := ParseFrame(r.d.Frame)
		if err != nil {
			if s.onDrop != nil {
				s.onDrop(r.d.Frame, err)
			}
			continue
		}
		if msg.Color == nil {
			c := s.colors.ColorFor(msg.UserID)
			msg.Color = &c
		}
		return msg, nil
	}
}

func (s *Stream) receive(ctx context.Context, block bool) (received, error) {
	if s.peeked != nil {
		r := *s.peeked
		s.peeked = nil
		return r, nil
	}
	if !block {
		select {
		case d, ok := <-s.frames:
			return received{d: d, ok: ok}, nil
		default:
			return received{}, errWouldBlock
		}
	}
	select {
	case d, ok := <-s.frames:
		return received{d: d, ok: ok}, nil
	case <-ctx.Done():
		return received{}, ctx.Err()
	}
}
