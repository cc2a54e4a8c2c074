package server

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/onnwee/twch/telemetry"
	"github.com/onnwee/twch/twitchapi"
)

type fakeHelix struct {
	streams []twitchapi.Broadcast
	err     error

	gotFirst int
	gotQuery string
}

func (f *fakeHelix) GetStreams(ctx context.Context, first int) ([]twitchapi.Broadcast, error) {
	f.gotFirst = first
	return f.streams, f.err
}

func (f *fakeHelix) SearchChannels(ctx context.Context, query string, first int) ([]twitchapi.Broadcast, error) {
	f.gotFirst, f.gotQuery = first, query
	return f.streams, f.err
}

func serve(t *testing.T, h http.Handler, target string) *httptest.ResponseRecorder {
	t.Helper()
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, target, nil))
	return rr
}

func TestHealthzOK(t *testing.T) {
	rr := serve(t, NewMux(context.Background(), Options{}), "/healthz")
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d, body=%s", rr.Code, rr.Body.String())
	}
	if got := rr.Body.String(); got != "ok" {
		t.Fatalf("expected ok body, got %q", got)
	}
	if got := rr.Header().Get("Content-Type"); got != "text/plain; charset=utf-8" {
		t.Errorf("Content-Type = %q", got)
	}
}

func TestMetricsEndpoint(t *testing.T) {
	telemetry.Init()
	telemetry.RecordChunk(2)
	rr := serve(t, NewMux(context.Background(), Options{}), "/metrics")
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	if !strings.Contains(rr.Body.String(), "twch_messages_total") {
		t.Errorf("metrics output missing twch_messages_total")
	}
}

func TestCorrelationIDReused(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set("X-Correlation-ID", "abc-123")
	rr := httptest.NewRecorder()
	NewMux(context.Background(), Options{}).ServeHTTP(rr, req)
	if got := rr.Header().Get("X-Correlation-ID"); got != "abc-123" {
		t.Errorf("X-Correlation-ID = %q, want abc-123", got)
	}
}

func TestListStreams(t *testing.T) {
	viewers := 42
	helix := &fakeHelix{streams: []twitchapi.Broadcast{
		{UserLogin: "ronni", UserName: "Ronni", GameName: "Chess", Title: "blitz", ViewerCount: &viewers},
		{UserLogin: "quiet", UserName: "Quiet"},
	}}
	handler := NewMux(context.Background(), Options{Helix: helix})

	tests := []struct {
		name      string
		target    string
		wantFirst int
		wantBody  string
	}{
		{name: "default limit", target: "/?color=0", wantFirst: 10, wantBody: "Ronni /ronni - Chess (42 viewers)\nblitz\n\nQuiet /quiet\n"},
		{name: "explicit limit", target: "/?limit=3&color=0", wantFirst: 3},
		{name: "invalid limit", target: "/?limit=abc&color=0", wantFirst: 10},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := serve(t, handler, tt.target)
			if rr.Code != http.StatusOK {
				t.Fatalf("status = %d, body=%q", rr.Code, rr.Body.String())
			}
			if helix.gotFirst != tt.wantFirst {
				t.Errorf("first = %d, want %d", helix.gotFirst, tt.wantFirst)
			}
			if tt.wantBody != "" && rr.Body.String() != tt.wantBody {
				t.Errorf("body = %q, want %q", rr.Body.String(), tt.wantBody)
			}
		})
	}
}

func TestListStreamsStyledByDefault(t *testing.T) {
	helix := &fakeHelix{streams: []twitchapi.Broadcast{{UserLogin: "ronni", UserName: "Ronni"}}}
	rr := serve(t, NewMux(context.Background(), Options{Helix: helix}), "/")
	if want := twitchapi.FormatList(helix.streams, true); rr.Body.String() != want {
		t.Errorf("body = %q, want %q", rr.Body.String(), want)
	}
}

func TestSearch(t *testing.T) {
	helix := &fakeHelix{streams: []twitchapi.Broadcast{{UserLogin: "ronni", UserName: "Ronni", Title: "blitz"}}}
	handler := NewMux(context.Background(), Options{Helix: helix})

	rr := serve(t, handler, "/search?q=chess&limit=5&color=0")
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d", rr.Code)
	}
	if helix.gotQuery != "chess" || helix.gotFirst != 5 {
		t.Errorf("search(%q, %d), want (chess, 5)", helix.gotQuery, helix.gotFirst)
	}
	if got := rr.Body.String(); got != "Ronni /ronni\nblitz\n" {
		t.Errorf("body = %q", got)
	}

	if rr := serve(t, handler, "/search"); rr.Code != http.StatusBadRequest {
		t.Errorf("missing q: status = %d, want 400", rr.Code)
	}
	if rr := serve(t, handler, "/search/"); rr.Code != http.StatusBadRequest {
		t.Errorf("trailing slash, missing q: status = %d, want 400", rr.Code)
	}
}

func TestHelixUnavailable(t *testing.T) {
	handler := NewMux(context.Background(), Options{})
	for _, target := range []string{"/", "/search?q=chess"} {
		if rr := serve(t, handler, target); rr.Code != http.StatusServiceUnavailable {
			t.Errorf("%s: status = %d, want 503", target, rr.Code)
		}
	}
}

func TestHelixError(t *testing.T) {
	handler := NewMux(context.Background(), Options{Helix: &fakeHelix{err: errors.New("helix down")}})
	for _, target := range []string{"/", "/search?q=chess"} {
		rr := serve(t, handler, target)
		if rr.Code != http.StatusInternalServerError {
			t.Errorf("%s: status = %d, want 500", target, rr.Code)
		}
		if strings.Contains(rr.Body.String(), "helix down") {
			t.Errorf("%s: upstream error leaked into body", target)
		}
	}
}

func TestStartAndShutdown(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Run server in background on random port by using :0
	done := make(chan error, 1)
	go func() { done <- Start(ctx, Options{}, "127.0.0.1:0") }()

	cancel()
	if err := <-done; err != nil {
		t.Fatalf("server returned error: %v", err)
	}
}

func TestRequestSpanStatus(t *testing.T) {
	rec := tracetest.NewSpanRecorder()
	prev := otel.GetTracerProvider()
	otel.SetTracerProvider(sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(rec)))
	t.Cleanup(func() { otel.SetTracerProvider(prev) })

	handler := NewMux(context.Background(), Options{})
	tests := []struct {
		target string
		want   codes.Code
	}{
		{target: "/healthz", want: codes.Ok},
		{target: "/", want: codes.Error},
	}
	for _, tt := range tests {
		before := len(rec.Ended())
		serve(t, handler, tt.target)
		ended := rec.Ended()
		if len(ended) != before+1 {
			t.Fatalf("%s: %d spans ended, want 1", tt.target, len(ended)-before)
		}
		if got := ended[len(ended)-1].Status().Code; got != tt.want {
			t.Errorf("%s: span status = %v, want %v", tt.target, got, tt.want)
		}
	}
}
