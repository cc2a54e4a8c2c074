package server

import (
	"context"
	"io"
	"time"

	"github.com/onnwee/twch/chat"
)

// filler is written while the channel is idle: a space the terminal
// immediately erases with a backspace.
var filler = []byte(" \b")

// Heartbeat batches a message stream into output chunks and emits filler
// chunks when no message arrived for a whole interval. It is pulled from a
// single goroutine, usually an HTTP handler.
type Heartbeat struct {
	stream *chat.Stream
	format chat.Formatter
	tick   <-chan time.Time
	stop   func()

	// OnChunk, when set, observes every chunk before it is returned: the
	// number of messages batched into it, or 0 for filler.
	OnChunk func(messages int)
}

// NewHeartbeat ticks every interval. Call Stop to release the ticker.
func NewHeartbeat(stream *chat.Stream, format chat.Formatter, interval time.Duration) *Heartbeat {
	t := time.NewTicker(interval)
	return newHeartbeat(stream, format, t.C, t.Stop)
}

func newHeartbeat(stream *chat.Stream, format chat.Formatter, tick <-chan time.Time, stop func()) *Heartbeat {
	if stop == nil {
		stop = func() {}
	}
	return &Heartbeat{stream: stream, format: format, tick: tick, stop: stop}
}

// Next returns the next chunk: every message immediately available, one per
// line, or a filler chunk after an idle tick. It returns io.EOF once the
// message stream ends, dropping any batch still being collected.
func (h *Heartbeat) Next(ctx context.Context) ([]byte, error) {
	for {
		var buf []byte
		n := 0
	drain:
		for {
			msg, st := h.stream.Poll()
			switch st {
			case chat.Ready:
				buf = append(buf, chat.FormatMessage(h.format, msg)...)
				buf = append(buf, '\n')
				n++
			case chat.Ended:
				return nil, io.EOF
			default:
				break drain
			}
		}
		if n > 0 {
			h.observe(n)
			return buf, nil
		}

		ticked, err := h.stream.Wait(ctx, h.tick)
		if err != nil {
			return nil, err
		}
		if ticked {
			h.observe(0)
			return append([]byte(nil), filler...), nil
		}
	}
}

// Stop releases the ticker. The message stream is left to its owner.
func (h *Heartbeat) Stop() { h.stop() }

func (h *Heartbeat) observe(n int) {
	if h.OnChunk != nil {
		h.OnChunk(n)
	}
}
