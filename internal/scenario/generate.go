// Package scenario generates synthetic games for offline replay.
// Planet task costs, station tech and the flow of contributions come from
// layered simplex noise, so a seed always yields the same game. The games
// follow the input protocol but only roughly follow the real rules.
package scenario

import (
	"io"
	"math/rand"

	opensimplex "github.com/ojrac/opensimplex-go"

	"github.com/talgya/colonizer/internal/game"
	"github.com/talgya/colonizer/internal/protocol"
)

// GenConfig holds scenario generation parameters.
type GenConfig struct {
	Seed    int64 // Random seed (0 = random)
	Turns   int   // Snapshots to generate
	Planets int   // Planets on the board at the start
	MaxTask int   // Upper bound of a single task axis
	MaxTech int   // Upper bound of a station tech axis
}

// DefaultGenConfig returns a board sized like a real match.
func DefaultGenConfig() GenConfig {
	return GenConfig{
		Seed:    0,
		Turns:   60,
		Planets: 10,
		MaxTask: 4,
		MaxTech: 3,
	}
}

// SmallTestConfig returns a short game for tests.
func SmallTestConfig() GenConfig {
	return GenConfig{
		Seed:    42,
		Turns:   8,
		Planets: 4,
		MaxTask: 3,
		MaxTech: 2,
	}
}

// Scenario is a generated game: the objectives header and one snapshot per turn.
type Scenario struct {
	Seed       int64
	Objectives game.Objectives
	States     []*game.State
}

var planetBonusTags = []string{
	"POINTS_1", "POINTS_2", "POINTS_3", "ENERGY_CORE", "ALIEN_ARTIFACT",
	"TECH_RESEARCH_2", "TECH_RESEARCH_3", "TECH_RESEARCH_4", "NEW_TECH",
}

// Generate creates a complete scenario.
func Generate(cfg GenConfig) *Scenario {
	seed := cfg.Seed
	if seed == 0 {
		seed = rand.Int63()
	}

	// Independent noise layers.
	taskNoise := opensimplex.NewNormalized(seed)
	techNoise := opensimplex.NewNormalized(seed + 1)
	flowNoise := opensimplex.NewNormalized(seed + 2)
	bonusNoise := opensimplex.NewNormalized(seed + 3)

	sc := &Scenario{Seed: seed, Objectives: make(game.Objectives, protocol.StationCount)}

	stations := make([]game.Station, protocol.StationCount)
	for id := range stations {
		st := game.Station{ID: id, Mine: id%2 == 0}
		var target game.TechVector
		for axis := 0; axis < game.Axes; axis++ {
			st.Tech[axis] = scale(techNoise.Eval2(float64(id)*0.7, float64(axis)*1.3), cfg.MaxTech)
			target[axis] = st.Tech[axis] + scale(techNoise.Eval2(float64(id)*0.7+50, float64(axis)*1.3), 2)
		}
		stations[id] = st
		sc.Objectives[id] = game.StationObjective{
			StationID: id,
			Mine:      st.Mine,
			Score:     5 + 5*scale(techNoise.Eval2(float64(id), 99), 5),
			Target:    target,
		}
	}

	planets := make([]game.Planet, cfg.Planets)
	for i := range planets {
		p := game.Planet{ID: i}
		for axis := 0; axis < game.Axes; axis++ {
			p.Tasks[axis] = scale(octaves(taskNoise, float64(i)*0.9, float64(axis)*1.7), cfg.MaxTask)
		}
		if p.Remaining() == 0 {
			p.Tasks[i%game.Axes] = 1
		}
		p.ColonizationScore = p.Remaining() * (1 + scale(taskNoise.Eval2(float64(i), 77), 3))
		p.Bonuses[0] = pickBonus(bonusNoise, float64(i), 0)
		p.Bonuses[1] = pickBonus(bonusNoise, float64(i), 1)
		planets[i] = p
	}

	var myScore, oppScore int
	for turn := 0; turn < cfg.Turns; turn++ {
		t := float64(turn) * 0.45

		state := &game.State{Sector: turn / 10, MyScore: myScore, OppScore: oppScore}
		for i, st := range stations {
			st.Available = flowNoise.Eval2(float64(i)*3.1, t) > 0.35
			if st.Mine {
				state.MyStations = append(state.MyStations, st)
			} else {
				state.OppStations = append(state.OppStations, st)
			}
		}
		state.Planets = append([]game.Planet(nil), planets...)
		state.MyBonuses = heldBonuses(bonusNoise, 10, t)
		state.OppBonuses = heldBonuses(bonusNoise, 20, t)
		sc.States = append(sc.States, state)

		// Advance the board: each open planet takes contributions from both sides.
		var open []game.Planet
		for i, p := range planets {
			p = contribute(p, flowNoise.Eval2(float64(i)*2.3, t+100), true)
			p = contribute(p, flowNoise.Eval2(float64(i)*2.3, t+200), false)
			if p.Remaining() > 0 {
				open = append(open, p)
				continue
			}
			switch {
			case p.MyContribution > p.OppContribution:
				myScore += p.ColonizationScore
			case p.OppContribution > p.MyContribution:
				oppScore += p.ColonizationScore
			}
		}
		planets = open
	}

	return sc
}

// WriteTo writes the scenario in the referee's input format.
func (sc *Scenario) WriteTo(w io.Writer) (int64, error) {
	cw := &countingWriter{w: w}
	enc := protocol.NewEncoder(cw)
	enc.WriteObjectives(sc.Objectives)
	for _, s := range sc.States {
		enc.WriteState(s)
	}
	err := enc.Flush()
	return cw.n, err
}

// contribute moves up to one unit of work per axis from the tasks into a
// player's contribution when the noise sample is high enough.
func contribute(p game.Planet, sample float64, mine bool) game.Planet {
	if sample < 0.45 {
		return p
	}
	for axis := 0; axis < game.Axes; axis++ {
		if p.Tasks[axis] == 0 {
			continue
		}
		p.Tasks[axis]--
		if mine {
			p.MyContribution++
		} else {
			p.OppContribution++
		}
		if sample < 0.7 {
			break
		}
	}
	return p
}

func heldBonuses(n opensimplex.Noise, offset, t float64) []game.Bonus {
	var out []game.Bonus
	for slot := 0; slot < 3; slot++ {
		if n.Eval2(offset+float64(slot)*4.7, t) > 0.6 {
			out = append(out, pickBonus(n, offset+float64(slot), t))
		}
	}
	return out
}

func pickBonus(n opensimplex.Noise, x, y float64) game.Bonus {
	idx := int(n.Eval2(x*1.9+300, y*2.3) * float64(len(planetBonusTags)))
	if idx >= len(planetBonusTags) {
		idx = len(planetBonusTags) - 1
	}
	return game.ParseBonus(planetBonusTags[idx])
}

// octaves sums two noise octaves, normalized back to [0, 1).
func octaves(n opensimplex.Noise, x, y float64) float64 {
	v := n.Eval2(x, y)*0.7 + n.Eval2(x*2, y*2)*0.3
	if v >= 1 {
		v = 0.999999
	}
	return v
}

// scale maps a [0, 1) sample onto 0..hi.
func scale(v float64, hi int) int {
	out := int(v * float64(hi+1))
	if out > hi {
		out = hi
	}
	if out < 0 {
		out = 0
	}
	return out
}

type countingWriter struct {
	w io.Writer
	n int64
}

func (c *countingWriter) Write(p []byte) (int, error) {
	n, err := c.w.Write(p)
	c.n += int64(n)
	return n, err
}
