// Command twch lists live Twitch streams, searches live channels and prints a
// channel's chat to the terminal.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/onnwee/twch/chat"
	"github.com/onnwee/twch/config"
	"github.com/onnwee/twch/irc"
	"github.com/onnwee/twch/telemetry"
	"github.com/onnwee/twch/twitchapi"
)

const defaultCount = 10

type helixAPI interface {
	GetStreams(ctx context.Context, first int) ([]twitchapi.Broadcast, error)
	SearchChannels(ctx context.Context, query string, first int) ([]twitchapi.Broadcast, error)
}

// app carries the dependencies shared by all subcommands.
type app struct {
	out      io.Writer
	styled   bool
	newHelix func(ctx context.Context) (helixAPI, error)
	open     func(ctx context.Context, channel string, opts chat.StreamOptions) (*chat.Stream, error)
}

func main() {
	_ = godotenv.Load()
	telemetry.SetupLogging(os.Stderr, slog.LevelWarn)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a := &app{
		out:      os.Stdout,
		styled:   isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd()),
		newHelix: helixFromEnv,
		open:     chat.Open,
	}
	if err := newRootCmd(a).ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

func helixFromEnv(ctx context.Context) (helixAPI, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if err := cfg.ValidateHelix(); err != nil {
		return nil, err
	}
	return twitchapi.NewHelixClient(ctx, twitchapi.Credentials{
		ClientID:     cfg.ClientID,
		ClientSecret: cfg.ClientSecret,
		OAuthToken:   cfg.OAuthToken,
	})
}

func newRootCmd(a *app) *cobra.Command {
	n := defaultCount
	root := &cobra.Command{
		Use:          "twch",
		Short:        "Browse live Twitch streams and read chat in the terminal",
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.list(cmd.Context(), n)
		},
	}
	root.Flags().IntVarP(&n, "number", "n", defaultCount, "number of streams to list")
	root.AddCommand(newListCmd(a), newSearchCmd(a), newViewCmd(a))
	return root
}

func newListCmd(a *app) *cobra.Command {
	var n int
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List the most viewed live streams",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.list(cmd.Context(), n)
		},
	}
	cmd.Flags().IntVarP(&n, "number", "n", defaultCount, "number of streams to list")
	return cmd
}

func newSearchCmd(a *app) *cobra.Command {
	var n int
	cmd := &cobra.Command{
		Use:   "search QUERY",
		Short: "Search live channels",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			helix, err := a.newHelix(cmd.Context())
			if err != nil {
				return err
			}
			channels, err := helix.SearchChannels(cmd.Context(), args[0], n)
			if err != nil {
				return fmt.Errorf("search channels: %w", err)
			}
			return a.printBroadcasts(channels)
		},
	}
	cmd.Flags().IntVarP(&n, "number", "n", defaultCount, "number of channels to list")
	return cmd
}

func newViewCmd(a *app) *cobra.Command {
	var noColor bool
	cmd := &cobra.Command{
		Use:   "view CHANNEL",
		Short: "Print a channel's chat until interrupted",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.view(cmd.Context(), args[0], a.styled && !noColor)
		},
	}
	cmd.Flags().BoolVar(&noColor, "no-color", false, "disable colors")
	return cmd
}

func (a *app) list(ctx context.Context, n int) error {
	helix, err := a.newHelix(ctx)
	if err != nil {
		return err
	}
	streams, err := helix.GetStreams(ctx, n)
	if err != nil {
		return fmt.Errorf("list streams: %w", err)
	}
	return a.printBroadcasts(streams)
}

func (a *app) printBroadcasts(bs []twitchapi.Broadcast) error {
	_, err := fmt.Fprintln(a.out, twitchapi.FormatList(bs, a.styled))
	return err
}

func (a *app) view(ctx context.Context, channel string, styled bool) error {
	format := chat.Formatter(chat.Plain{})
	if styled {
		format = chat.ANSI{}
	}
	stream, err := a.open(ctx, channel, chat.StreamOptions{
		OnDrop: func(_ *irc.Frame, err error) {
			slog.Debug("frame dropped", slog.Any("err", err))
		},
	})
	if err != nil {
		return err
	}
	defer func() {
		if err := stream.Close(); err != nil {
			slog.Warn("failed to close channel stream", slog.Any("err", err))
		}
	}()
	for {
		msg, err := stream.Next(ctx)
		if err != nil {
			if errors.Is(err, io.EOF) || errors.Is(err, context.Canceled) {
				return nil
			}
			return err
		}
		if _, err := fmt.Fprintln(a.out, chat.FormatMessage(format, msg)); err != nil {
			return err
		}
	}
}
