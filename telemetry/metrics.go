package telemetry

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/onnwee/twch/chat"
)

var (
	once sync.Once

	// Counters
	FramesDropped  *prometheus.CounterVec
	MessagesSent   prometheus.Counter
	HeartbeatsSent prometheus.Counter
	ChunksSent     prometheus.Counter
	StreamsOpened  prometheus.Counter
	HelixRequests  *prometheus.CounterVec

	// Histograms
	BatchMessages       prometheus.Observer
	HelixRequestSeconds prometheus.Observer

	// Gauges
	ActiveStreams prometheus.Gauge
)

// Init registers metrics (idempotent).
func Init() {
	once.Do(func() {
		FramesDropped = promauto.NewCounterVec(prometheus.CounterOpts{Name: "twch_frames_dropped_total", Help: "Chat frames discarded because they did not parse into a message"}, []string{"kind", "field"})
		MessagesSent = promauto.NewCounter(prometheus.CounterOpts{Name: "twch_messages_total", Help: "Chat messages written to channel streams"})
		HeartbeatsSent = promauto.NewCounter(prometheus.CounterOpts{Name: "twch_heartbeats_total", Help: "Keep-alive filler chunks written to idle channel streams"})
		ChunksSent = promauto.NewCounter(prometheus.CounterOpts{Name: "twch_chunks_total", Help: "Message batches written to channel streams"})
		StreamsOpened = promauto.NewCounter(prometheus.CounterOpts{Name: "twch_streams_opened_total", Help: "Channel streams opened"})
		HelixRequests = promauto.NewCounterVec(prometheus.CounterOpts{Name: "twch_helix_requests_total", Help: "Helix API requests by endpoint and outcome"}, []string{"endpoint", "outcome"})
		BatchMessages = promauto.NewHistogram(prometheus.HistogramOpts{Name: "twch_batch_messages", Help: "Messages per written batch", Buckets: prometheus.ExponentialBuckets(1, 2, 8)})
		HelixRequestSeconds = promauto.NewHistogram(prometheus.HistogramOpts{Name: "twch_helix_request_duration_seconds", Help: "Helix request duration seconds", Buckets: prometheus.DefBuckets})
		ActiveStreams = promauto.NewGauge(prometheus.GaugeOpts{Name: "twch_active_streams", Help: "Channel streams currently open"})
	})
}

// RecordDrop counts a frame the chat stream discarded. Suitable as a
// chat.StreamOptions.OnDrop hook.
func RecordDrop(err error) {
	if FramesDropped == nil {
		return
	}
	kind, field := "other", ""
	var pe *chat.ParseError
	if errors.As(err, &pe) {
		field = pe.Field
		switch {
		case errors.Is(err, chat.ErrMissingValue):
			kind = "missing"
		case errors.Is(err, chat.ErrInvalidValue):
			kind = "invalid"
		}
	}
	FramesDropped.WithLabelValues(kind, field).Inc()
}

// RecordChunk counts one written chunk: n batched messages, or filler when n is 0.
func RecordChunk(n int) {
	if n == 0 {
		if HeartbeatsSent != nil {
			HeartbeatsSent.Inc()
		}
		return
	}
	if ChunksSent != nil {
		ChunksSent.Inc()
	}
	if MessagesSent != nil {
		MessagesSent.Add(float64(n))
	}
	if BatchMessages != nil {
		BatchMessages.Observe(float64(n))
	}
}

// StreamOpened tracks an open channel stream; call the returned func when it closes.
func StreamOpened() func() {
	if StreamsOpened != nil {
		StreamsOpened.Inc()
	}
	if ActiveStreams != nil {
		ActiveStreams.Inc()
	}
	return func() {
		if ActiveStreams != nil {
			ActiveStreams.Dec()
		}
	}
}

// RecordHelix counts one Helix request against endpoint.
func RecordHelix(endpoint string, err error) {
	if HelixRequests == nil {
		return
	}
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	HelixRequests.WithLabelValues(endpoint, outcome).Inc()
}

// TimeFunc measures the duration of fn and records in observer if non-nil.
func TimeFunc(obs prometheus.Observer, fn func()) time.Duration {
	start := time.Now()
	fn()
	d := time.Since(start)
	if obs != nil {
		obs.Observe(d.Seconds())
	}
	return d
}

// Correlation ID helpers ----------------------------------------------------
type corrKeyType struct{}

var corrKey corrKeyType

// WithCorrelation returns a new context embedding correlation id (if absent) and the id.
func WithCorrelation(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, corrKey, id)
}

// GetCorrelation returns correlation id or empty string.
func GetCorrelation(ctx context.Context) string {
	v := ctx.Value(corrKey)
	if s, ok := v.(string); ok {
		return s
	}
	return ""
}

// LoggerWithCorr returns a logger with corr attribute if present.
func LoggerWithCorr(ctx context.Context) *slog.Logger {
	if id := GetCorrelation(ctx); id != "" {
		return slog.Default().With(slog.String("corr", id))
	}
	return slog.Default()
}
