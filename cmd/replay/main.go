// Command replay plays a recorded or generated game through the bot and
// prints what it did. With -db every turn is journaled to SQLite.
package main

import (
	"bytes"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/joho/godotenv"
	"github.com/mattn/go-isatty"

	"github.com/talgya/colonizer/internal/config"
	"github.com/talgya/colonizer/internal/persistence"
	"github.com/talgya/colonizer/internal/replay"
	"github.com/talgya/colonizer/internal/scenario"
)

func main() {
	_ = godotenv.Load()

	input := flag.String("input", "data/four-rounds.txt", "recorded game to replay")
	generate := flag.Bool("generate", false, "replay a generated game instead of -input")
	seed := flag.Int64("seed", 0, "scenario seed (0 = random)")
	turns := flag.Int("turns", scenario.DefaultGenConfig().Turns, "turns to generate")
	planets := flag.Int("planets", scenario.DefaultGenConfig().Planets, "planets to generate")
	dump := flag.String("dump", "", "also write the generated game to this file")
	dbPath := flag.String("db", "", "journal database (defaults to COLONIZER_JOURNAL)")
	tech := flag.Bool("tech", false, "enable tech upgrades")
	listRuns := flag.Bool("runs", false, "list journaled runs and exit")
	asJSON := flag.Bool("json", false, "print the report as JSON")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}
	if *tech {
		cfg.TechUpgrades = true
	}
	if *dbPath != "" {
		cfg.JournalPath = *dbPath
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: cfg.SlogLevel(),
	}))
	slog.SetDefault(logger)

	var journal *persistence.Journal
	if cfg.JournalPath != "" {
		journal, err = persistence.Open(cfg.JournalPath)
		if err != nil {
			slog.Error("failed to open journal", "path", cfg.JournalPath, "error", err)
			os.Exit(1)
		}
		defer journal.Close()
	}

	if *listRuns {
		if journal == nil {
			slog.Error("-runs needs a journal")
			os.Exit(1)
		}
		if err := printRuns(os.Stdout, journal); err != nil {
			slog.Error("failed to list runs", "error", err)
			os.Exit(1)
		}
		return
	}

	source, data, err := load(*input, *generate, *seed, *turns, *planets, *dump)
	if err != nil {
		slog.Error("failed to load game", "error", err)
		os.Exit(1)
	}

	rn := &replay.Runner{Config: cfg, Journal: journal}
	rep, err := rn.Run(source, bytes.NewReader(data))
	if err != nil {
		slog.Error("replay failed", "error", err)
		os.Exit(1)
	}

	switch {
	case *asJSON:
		if err := rep.WriteJSON(os.Stdout); err != nil {
			slog.Error("failed to write report", "error", err)
			os.Exit(1)
		}
	case isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd()):
		for i, a := range rep.Actions {
			fmt.Printf("%4d  %s\n", i+1, a)
		}
		fmt.Print(rep.Summary())
	default:
		// Piped: only the bot's output, as the referee would see it.
		for _, a := range rep.Actions {
			fmt.Println(a)
		}
		if rep.Died {
			fmt.Println("Simulation died")
		}
	}

	if rep.Died {
		os.Exit(1)
	}
}

func load(input string, generate bool, seed int64, turns, planets int, dump string) (string, []byte, error) {
	if !generate {
		data, err := os.ReadFile(input)
		if err != nil {
			return "", nil, fmt.Errorf("read %s: %w", input, err)
		}
		return input, data, nil
	}

	gc := scenario.DefaultGenConfig()
	gc.Seed = seed
	gc.Turns = turns
	gc.Planets = planets
	sc := scenario.Generate(gc)

	var buf bytes.Buffer
	if _, err := sc.WriteTo(&buf); err != nil {
		return "", nil, fmt.Errorf("encode scenario: %w", err)
	}
	if dump != "" {
		if err := os.WriteFile(dump, buf.Bytes(), 0644); err != nil {
			return "", nil, fmt.Errorf("write %s: %w", dump, err)
		}
	}
	slog.Info("scenario generated", "seed", sc.Seed, "turns", gc.Turns, "planets", gc.Planets)
	return fmt.Sprintf("seed:%d", sc.Seed), buf.Bytes(), nil
}

func printRuns(w io.Writer, j *persistence.Journal) error {
	runs, err := j.Runs()
	if err != nil {
		return err
	}
	distinct, err := j.DistinctSnapshots()
	if err != nil {
		return err
	}
	for _, r := range runs {
		fmt.Fprintf(w, "%s  %-28s %6s turns  tech=%v  %s\n",
			r.ID, r.Source, humanize.Comma(int64(r.Turns)), r.TechUpgrades,
			humanize.Time(time.Unix(r.StartedAt, 0)))
	}
	fmt.Fprintf(w, "%s runs, %s distinct snapshots\n",
		humanize.Comma(int64(len(runs))), humanize.Comma(int64(distinct)))
	return nil
}
