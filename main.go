// Command twch-server serves Twitch chat over plain HTTP, for example to curl.
// It:
//   - Loads configuration and initializes structured logging.
//   - Lists live streams (/) and searches live channels (/search) via Helix when
//     credentials are configured.
//   - Streams a channel's chat (/{channel}) as rendered lines, with heartbeat
//     chunks while the channel is idle.
//   - Exposes /healthz and /metrics.
//
// Shutdown is graceful on SIGINT/SIGTERM.
package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/onnwee/twch/config"
	"github.com/onnwee/twch/server"
	"github.com/onnwee/twch/telemetry"
	"github.com/onnwee/twch/twitchapi"
)

const version = "0.1.0"

func main() {
	// Load .env file if present (local dev convenience only; production relies on real env)
	_ = godotenv.Load()

	lvl := telemetry.SetupLogging(os.Stdout, slog.LevelInfo)
	slog.Info("logger initialized", slog.String("level", lvl.String()))

	cfg, err := config.Load()
	if err != nil {
		slog.Error("config load failed", slog.Any("err", err))
		os.Exit(1)
	}

	// Metrics / telemetry init
	telemetry.Init()

	// Tracing is optional; spans are exported only when OTEL_EXPORTER_OTLP_ENDPOINT is set
	tcfg, err := telemetry.TracingConfigFromEnv()
	if err != nil {
		slog.Error("tracing config invalid", slog.Any("err", err))
		os.Exit(1)
	}
	shutdown, err := telemetry.InitTracing("twch", version, tcfg)
	if err != nil {
		slog.Error("tracing initialization failed", slog.Any("err", err))
		os.Exit(1)
	}
	defer shutdown()
	slog.Info("tracing", slog.Bool("enabled", telemetry.IsTracingEnabled()), slog.String("endpoint", tcfg.Endpoint))

	// Root context with graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	opts := server.Options{
		Open:              server.OpenTwitch,
		HeartbeatInterval: cfg.HeartbeatInterval,
		StreamRateLimit:   cfg.StreamRateLimit,
		StreamRateWindow:  cfg.StreamRateWindow,
	}
	if err := cfg.ValidateHelix(); err != nil {
		slog.Warn("helix disabled, stream listing and search will answer 503", slog.Any("err", err))
	} else {
		helix, err := twitchapi.NewHelixClient(ctx, twitchapi.Credentials{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			OAuthToken:   cfg.OAuthToken,
		})
		if err != nil {
			slog.Error("helix client init failed", slog.Any("err", err))
			os.Exit(1)
		}
		opts.Helix = helix
	}

	slog.Info("listening", slog.String("addr", "http://"+cfg.HTTPAddr), slog.Duration("heartbeat_interval", cfg.HeartbeatInterval))
	if err := server.Start(ctx, opts, cfg.HTTPAddr); err != nil {
		slog.Error("http server exited with error", slog.Any("err", err))
		os.Exit(1)
	}
	slog.Info("shutting down")
}
