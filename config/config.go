// Package config loads environment variables and provides a typed Config used across the service.
// It applies sensible defaults so the binaries can run locally with minimal setup.
// Helix credentials are optional; use ValidateHelix where listing or searching streams is required.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// DefaultHeartbeatInterval is how long a channel stream may stay silent before filler is sent.
const DefaultHeartbeatInterval = 10 * time.Second

type Config struct {
	// Twitch Helix
	ClientID     string
	ClientSecret string
	OAuthToken   string

	// HTTP server
	HTTPAddr          string
	HeartbeatInterval time.Duration

	// Channel stream opens allowed per client IP per window; 0 disables the limit
	StreamRateLimit  int
	StreamRateWindow time.Duration
}

// Load reads environment variables and applies defaults. Missing credentials are not an error;
// a malformed HEARTBEAT_INTERVAL is.
func Load() (*Config, error) {
	cfg := &Config{}

	cfg.ClientID = os.Getenv("CLIENT_ID")
	cfg.ClientSecret = os.Getenv("CLIENT_SECRET")
	// Tokens copied from chat tooling often carry an "oauth:" prefix
	token := os.Getenv("OAUTH_TOKEN")
	cfg.OAuthToken = strings.TrimPrefix(token, "oauth:")

	cfg.HTTPAddr = os.Getenv("HTTP_ADDR")
	if cfg.HTTPAddr == "" {
		cfg.HTTPAddr = "0.0.0.0:8080"
	}

	cfg.HeartbeatInterval = DefaultHeartbeatInterval
	if v := os.Getenv("HEARTBEAT_INTERVAL"); v != "" {
		secs, err := strconv.ParseUint(v, 10, 32)
		if err != nil || secs == 0 {
			return nil, fmt.Errorf("invalid HEARTBEAT_INTERVAL (whole seconds > 0): %q", v)
		}
		cfg.HeartbeatInterval = time.Duration(secs) * time.Second
	}

	cfg.StreamRateLimit = getEnvInt("STREAM_RATE_LIMIT", 10)
	cfg.StreamRateWindow = time.Duration(getEnvInt("STREAM_RATE_WINDOW_SECONDS", 60)) * time.Second
	if cfg.StreamRateWindow <= 0 {
		cfg.StreamRateWindow = time.Minute
	}

	return cfg, nil
}

// getEnvInt returns an integer environment variable value or def if unset or invalid.
func getEnvInt(key string, def int) int {
	if s := os.Getenv(key); s != "" {
		if n, err := strconv.Atoi(s); err == nil && n >= 0 {
			return n
		}
	}
	return def
}

// ValidateHelix checks the fields needed to call the Helix API: a client id plus either a user
// token or a client secret.
func (c *Config) ValidateHelix() error {
	if c.ClientID == "" {
		return fmt.Errorf("missing twitch env: require CLIENT_ID")
	}
	if c.OAuthToken == "" && c.ClientSecret == "" {
		return fmt.Errorf("missing twitch env: require OAUTH_TOKEN or CLIENT_SECRET")
	}
	return nil
}
