// Command colonizer is the contest bot. It reads the referee's snapshots on
// stdin and answers each one with a single action line on stdout. Logs go
// to stderr so they never mix with the protocol.
package main

import (
	"log/slog"
	"os"

	"github.com/talgya/colonizer/internal/bot"
	"github.com/talgya/colonizer/internal/config"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: cfg.SlogLevel(),
	}))
	slog.SetDefault(logger)

	slog.Info("colonizer starting",
		"tech_upgrades", cfg.TechUpgrades,
		"log_ratings", cfg.LogRatings,
	)

	d := bot.New(cfg)
	if err := d.Run(os.Stdin, os.Stdout); err != nil {
		slog.Error("game aborted", "turn", d.Turns()+1, "error", err)
		os.Exit(1)
	}
}
