package server

import (
	"log/slog"
	"net/http"

	"github.com/onnwee/twch/telemetry"
	"github.com/onnwee/twch/twitchapi"
)

const defaultListLimit = 10

// HandleStreams lists the most viewed live streams.
func (h *Handlers) HandleStreams(w http.ResponseWriter, r *http.Request) {
	if h.helix == nil {
		http.Error(w, "twitch api not configured", http.StatusServiceUnavailable)
		return
	}
	limit := parseIntQuery(r, "limit", defaultListLimit)
	streams, err := h.helix.GetStreams(r.Context(), limit)
	if err != nil {
		telemetry.LoggerWithCorr(r.Context()).Error("list streams", slog.Any("err", err), slog.String("component", "http"))
		http.Error(w, "failed to list streams", http.StatusInternalServerError)
		return
	}
	writeBroadcasts(w, r, streams)
}

// HandleSearch lists live channels matching ?q=.
func (h *Handlers) HandleSearch(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")
	if query == "" {
		http.Error(w, "missing query parameter q", http.StatusBadRequest)
		return
	}
	if h.helix == nil {
		http.Error(w, "twitch api not configured", http.StatusServiceUnavailable)
		return
	}
	limit := parseIntQuery(r, "limit", defaultListLimit)
	channels, err := h.helix.SearchChannels(r.Context(), query, limit)
	if err != nil {
		telemetry.LoggerWithCorr(r.Context()).Error("search channels", slog.Any("err", err), slog.String("query", query), slog.String("component", "http"))
		http.Error(w, "failed to search channels", http.StatusInternalServerError)
		return
	}
	writeBroadcasts(w, r, channels)
}

func writeBroadcasts(w http.ResponseWriter, r *http.Request, bs []twitchapi.Broadcast) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(twitchapi.FormatList(bs, wantColor(r))))
}
