package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/alecthomas/kong"
	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"

	"github.com/lvaneyck/holdem/room"
	"github.com/lvaneyck/holdem/server"
)

var cli struct {
	Addr            string        `help:"Address to listen on." default:":8080"`
	LogLevel        string        `help:"Log level: debug, info, warn or error." default:"info"`
	TurnTimeout     time.Duration `help:"How long a player may take per turn." default:"30s"`
	RoundPause      time.Duration `help:"Pause between the end of a round and the next deal." default:"5s"`
	SmallBlind      int           `help:"Small blind amount." default:"10"`
	StartingBalance int           `help:"Chips each player starts with." default:"1000"`
	Seed            int64         `help:"Shuffle seed, 0 means random." default:"0"`
	DebugEvents     bool          `help:"Dump every domain event to the log."`
}

func main() {
	kong.Parse(&cli,
		kong.Name("holdem"),
		kong.Description("Real-time multiplayer hold'em server."),
	)

	logger := log.New(os.Stderr)
	level, err := log.ParseLevel(cli.LogLevel)
	if err != nil {
		logger.Fatal("invalid log level", "level", cli.LogLevel)
	}
	logger.SetLevel(level)

	cfg := room.Config{
		TurnTimeout:     cli.TurnTimeout,
		RoundPause:      cli.RoundPause,
		SmallBlind:      cli.SmallBlind,
		StartingBalance: cli.StartingBalance,
		Seed:            cli.Seed,
		DebugEvents:     cli.DebugEvents,
	}

	manager := room.NewManager(cfg, logger)
	srv := server.NewServer(manager, logger, cli.DebugEvents)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return srv.Start(ctx, cli.Addr)
	})

	if err := g.Wait(); err != nil && err != context.Canceled {
		logger.Fatal("server stopped", "err", err)
	}
	logger.Info("bye")
}
