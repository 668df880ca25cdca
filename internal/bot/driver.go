// Package bot drives the game: it reads the objectives header, then for
// every snapshot runs one triage -> decide -> act cycle and writes exactly
// one action line.
package bot

import (
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/talgya/colonizer/internal/config"
	"github.com/talgya/colonizer/internal/game"
	"github.com/talgya/colonizer/internal/protocol"
	"github.com/talgya/colonizer/internal/strategy"
)

// TurnResult is handed to the OnTurn callback after each action is written.
type TurnResult struct {
	Turn     int
	State    *game.State
	Board    strategy.Board
	Decision strategy.Decision
}

// Driver runs the turn loop. The only state carried across turns is the
// objectives header, the last sector index and the turn memory.
type Driver struct {
	Options    strategy.Options
	LogRatings bool
	Memory     *TurnMemory

	// OnTurn is called after every turn's action is flushed. An error stops Run.
	OnTurn func(TurnResult) error

	objectives game.Objectives
	sector     int
	turns      int
}

// New creates a Driver from the loaded configuration.
func New(cfg config.Config) *Driver {
	return &Driver{
		Options:    strategy.Options{TechUpgrades: cfg.TechUpgrades},
		LogRatings: cfg.LogRatings,
		Memory:     NewTurnMemory(cfg.MemorySize),
	}
}

// Objectives returns the station objectives read from the header.
func (d *Driver) Objectives() game.Objectives { return d.objectives }

// Sector returns the sector index of the last snapshot.
func (d *Driver) Sector() int { return d.sector }

// Turns returns the number of turns decided so far.
func (d *Driver) Turns() int { return d.turns }

// Run reads the header and then plays until the input ends. A clean end of
// input between turns returns nil; malformed or truncated input returns an
// error and no action is written for that turn.
func (d *Driver) Run(r io.Reader, w io.Writer) error {
	dec := protocol.NewDecoder(r)
	enc := protocol.NewEncoder(w)

	objectives, err := dec.ReadObjectives()
	if errors.Is(err, io.EOF) {
		slog.Warn("input closed before the objectives header")
		return nil
	}
	if err != nil {
		return fmt.Errorf("read objectives: %w", err)
	}
	d.objectives = objectives
	slog.Debug("objectives loaded", "stations", len(objectives))

	for {
		state, err := dec.ReadState()
		if errors.Is(err, io.EOF) {
			slog.Info("input closed", "turns", d.turns)
			return nil
		}
		if err != nil {
			return fmt.Errorf("read turn %d: %w", d.turns+1, err)
		}

		result := d.Step(state)

		enc.WriteAction(result.Decision.Action)
		if err := enc.Flush(); err != nil {
			return fmt.Errorf("write turn %d: %w", result.Turn, err)
		}

		if d.OnTurn != nil {
			if err := d.OnTurn(result); err != nil {
				return fmt.Errorf("turn %d callback: %w", result.Turn, err)
			}
		}
	}
}

// Step decides one snapshot without touching any I/O.
func (d *Driver) Step(state *game.State) TurnResult {
	d.turns++
	d.sector = state.Sector

	// Triage.
	board := strategy.Triage(state)

	// Decide.
	decision := strategy.Decide(state, d.objectives, d.Options)

	if d.LogRatings {
		slog.Debug("ratings", "sector", state.Sector, "pairs", formatRatings(decision.Ratings))
	}
	slog.Info("turn decided",
		"turn", d.turns,
		"sector", state.Sector,
		"action", decision.Action.String(),
		"rule", decision.Rule,
		"score", decision.Score,
		"available", board.Available,
		"winnable", board.Winnable,
		"contested", board.Contested,
		"lost", board.Lost,
		"locked_out", board.LockedOut,
		"best_rating", board.BestRating,
		"score_lead", board.ScoreLead,
		"standing", board.Standing,
	)

	d.Memory.Record(TurnRecord{
		Turn:     d.turns,
		Sector:   state.Sector,
		Action:   decision.Action.String(),
		Rule:     string(decision.Rule),
		Score:    decision.Score,
		Standing: board.Standing,
	})

	return TurnResult{Turn: d.turns, State: state, Board: board, Decision: decision}
}

func formatRatings(ratings []strategy.Rating) string {
	out := make([]byte, 0, len(ratings)*12)
	for i, r := range ratings {
		if i > 0 {
			out = append(out, ' ')
		}
		out = fmt.Appendf(out, "(%d->%d):%d", r.StationID, r.PlanetID, r.Score)
	}
	return string(out)
}
