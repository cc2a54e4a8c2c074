// Package twitchapi contains minimal helpers to interact with Twitch Helix APIs
// for listing live streams and searching live channels.
package twitchapi

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"

	"github.com/onnwee/twch/telemetry"
)

const helixBaseURL = "https://api.twitch.tv/helix"

// HelixClient provides the stream listing and channel search endpoints.
// HTTPClient is expected to attach the bearer token (see NewHTTPClient).
type HelixClient struct {
	ClientID   string
	HTTPClient *http.Client
}

// NewHelixClient builds a client authenticated with creds.
func NewHelixClient(ctx context.Context, creds Credentials) (*HelixClient, error) {
	hc, err := NewHTTPClient(ctx, creds)
	if err != nil {
		return nil, err
	}
	return &HelixClient{ClientID: creds.ClientID, HTTPClient: hc}, nil
}

func (hc *HelixClient) http() *http.Client {
	if hc.HTTPClient != nil {
		return hc.HTTPClient
	}
	return http.DefaultClient
}

// GetStreams lists the first live streams, most viewed first.
func (hc *HelixClient) GetStreams(ctx context.Context, first int) ([]Broadcast, error) {
	q := url.Values{}
	q.Set("first", strconv.Itoa(clampFirst(first)))
	var body struct {
		Data []struct {
			UserLogin   string `json:"user_login"`
			UserName    string `json:"user_name"`
			GameName    string `json:"game_name"`
			Title       string `json:"title"`
			ViewerCount int    `json:"viewer_count"`
		} `json:"data"`
	}
	if err := hc.get(ctx, "streams", q, &body); err != nil {
		return nil, err
	}
	out := make([]Broadcast, 0, len(body.Data))
	for _, s := range body.Data {
		viewers := s.ViewerCount
		out = append(out, Broadcast{
			UserLogin:   s.UserLogin,
			UserName:    s.UserName,
			GameName:    s.GameName,
			Title:       s.Title,
			ViewerCount: &viewers,
		})
	}
	return out, nil
}

// SearchChannels lists live channels matching query. Results carry no viewer count.
func (hc *HelixClient) SearchChannels(ctx context.Context, query string, first int) ([]Broadcast, error) {
	if query == "" {
		return nil, fmt.Errorf("query empty")
	}
	q := url.Values{}
	q.Set("query", query)
	q.Set("first", strconv.Itoa(clampFirst(first)))
	q.Set("live_only", "true")
	var body struct {
		Data []struct {
			BroadcasterLogin string `json:"broadcaster_login"`
			DisplayName      string `json:"display_name"`
			GameName         string `json:"game_name"`
			Title            string `json:"title"`
		} `json:"data"`
	}
	if err := hc.get(ctx, "search/channels", q, &body); err != nil {
		return nil, err
	}
	out := make([]Broadcast, 0, len(body.Data))
	for _, c := range body.Data {
		out = append(out, Broadcast{
			UserLogin: c.BroadcasterLogin,
			UserName:  c.DisplayName,
			GameName:  c.GameName,
			Title:     c.Title,
		})
	}
	return out, nil
}

// Helix accepts 1..100 for first.
func clampFirst(first int) int {
	switch {
	case first <= 0:
		return 20
	case first > 100:
		return 100
	}
	return first
}

func (hc *HelixClient) get(ctx context.Context, endpoint string, q url.Values, out any) (err error) {
	ctx, span := telemetry.StartSpan(ctx, "twitchapi", "helix."+endpoint)
	defer span.End()
	defer func() {
		telemetry.RecordHelix(endpoint, err)
		telemetry.RecordError(span, err)
	}()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, helixBaseURL+"/"+endpoint, nil)
	if err != nil {
		return err
	}
	req.URL.RawQuery = q.Encode()
	req.Header.Set("Client-Id", hc.ClientID)

	var resp *http.Response
	telemetry.TimeFunc(telemetry.HelixRequestSeconds, func() {
		resp, err = hc.http().Do(req)
	})
	if err != nil {
		return fmt.Errorf("helix %s: %w", endpoint, err)
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			slog.Warn("failed to close response body", slog.Any("err", err))
		}
	}()
	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("helix %s failed: %s: %s", endpoint, resp.Status, string(b))
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("helix %s: decode: %w", endpoint, err)
	}
	return nil
}
