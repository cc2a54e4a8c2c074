package server

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"regexp"

	"github.com/onnwee/twch/chat"
	"github.com/onnwee/twch/irc"
	"github.com/onnwee/twch/telemetry"
)

var channelPattern = regexp.MustCompile(`^[a-zA-Z0-9_]+$`)

// HandleChannel streams the channel's chat as rendered lines until the client
// disconnects or the upstream connection ends. Idle periods are filled with
// heartbeat chunks so proxies keep the response open.
func (h *Handlers) HandleChannel(w http.ResponseWriter, r *http.Request) {
	channel := r.PathValue("channel")
	if !channelPattern.MatchString(channel) {
		http.NotFound(w, r)
		return
	}
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming unsupported", http.StatusInternalServerError)
		return
	}

	ctx := r.Context()
	log := telemetry.LoggerWithCorr(ctx).With(slog.String("channel", channel), slog.String("component", "chat_stream"))
	ctx, span := telemetry.StartSpan(ctx, "chat", "chat.stream", telemetry.ChannelAttr(channel))
	defer span.End()

	stream, err := h.open(ctx, channel, chat.StreamOptions{
		OnDrop: func(f *irc.Frame, err error) {
			telemetry.RecordDrop(err)
			log.Debug("frame dropped", slog.Any("err", err))
		},
	})
	if err != nil {
		telemetry.RecordError(span, err)
		log.Error("open channel stream", slog.Any("err", err))
		http.Error(w, "failed to open channel stream", http.StatusInternalServerError)
		return
	}
	defer func() {
		if err := stream.Close(); err != nil {
			log.Warn("failed to close channel stream", slog.Any("err", err))
		}
	}()
	done := telemetry.StreamOpened()
	defer done()

	format := chat.Formatter(chat.ANSI{})
	if !wantColor(r) {
		format = chat.Plain{}
	}
	hb := NewHeartbeat(stream, format, h.interval)
	defer hb.Stop()
	hb.OnChunk = telemetry.RecordChunk

	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("X-Accel-Buffering", "no")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()
	log.Info("channel stream opened")

	for {
		chunk, err := hb.Next(ctx)
		if err != nil {
			switch {
			case errors.Is(err, io.EOF):
				log.Info("channel stream ended upstream")
			case errors.Is(err, context.Canceled):
				log.Info("client left channel stream")
			default:
				log.Warn("channel stream stopped", slog.Any("err", err))
			}
			return
		}
		if _, err := w.Write(chunk); err != nil {
			log.Debug("failed to write chunk", slog.Any("err", err))
			return
		}
		flusher.Flush()
	}
}
