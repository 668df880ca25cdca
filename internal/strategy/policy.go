package strategy

import (
	"sort"

	"github.com/talgya/colonizer/internal/game"
)

// Rule names the branch of the policy that produced a decision.
type Rule string

const (
	RuleEnergyCore   Rule = "energy_core"
	RuleTechResearch Rule = "tech_research"
	RuleInvest       Rule = "invest"
	RuleDirect       Rule = "direct"
	RuleResupply     Rule = "resupply"
)

// Options toggles optional branches of the policy.
type Options struct {
	// TechUpgrades spends held TECH_RESEARCH bonuses on stations that have
	// not reached their objective before investing.
	TechUpgrades bool
}

// Rating is the score of one (station, planet) pair.
type Rating struct {
	StationID int `json:"station_id"`
	PlanetID  int `json:"planet_id"`
	Score     int `json:"score"`
}

// Decision is the outcome of one turn.
type Decision struct {
	Action  game.Action
	Rule    Rule
	Score   int      // best pair score, set by RuleInvest
	Ratings []Rating // every pair rated this turn, in evaluation order
}

// Decide runs the turn policy over a snapshot. Branches are tried in
// priority order and the first one that yields an action wins.
func Decide(state *game.State, objectives game.Objectives, opts Options) Decision {
	available := state.AvailableStations()

	if len(available) == 0 && state.HasBonus(game.BonusEnergyCore) {
		return Decision{Action: game.UseEnergyCore(), Rule: RuleEnergyCore}
	}

	if opts.TechUpgrades {
		if action, ok := decideTechResearch(state, available, objectives); ok {
			return Decision{Action: action, Rule: RuleTechResearch}
		}
	}

	d := decideInvestment(state, available)
	if d.Score > 0 {
		return d
	}

	if action, ok := decideDirect(state, available); ok {
		return Decision{Action: action, Rule: RuleDirect, Ratings: d.Ratings}
	}

	return Decision{Action: game.Resupply(), Rule: RuleResupply, Ratings: d.Ratings}
}

// decideInvestment rates every available station against every relevant
// planet and keeps the first pair with the highest score.
func decideInvestment(state *game.State, available []game.Station) Decision {
	var (
		d          = Decision{Rule: RuleInvest}
		found      bool
		bestPlanet game.Planet
		bestID     int
	)
	for _, station := range available {
		for _, planet := range state.Planets {
			if !Relevant(planet) {
				continue
			}
			score := RatePair(station, planet)
			d.Ratings = append(d.Ratings, Rating{StationID: station.ID, PlanetID: planet.ID, Score: score})
			if !found || score > d.Score {
				found = true
				d.Score = score
				bestID = station.ID
				bestPlanet = planet
			}
		}
	}
	if d.Score > 0 {
		d.Action = game.Colonize(bestID, bestPlanet.ID, BonusSlot(bestPlanet))
	}
	return d
}

// decideDirect colonizes the first planet whose open tasks a single
// available station covers on every axis.
func decideDirect(state *game.State, available []game.Station) (game.Action, bool) {
	for _, station := range available {
		for _, planet := range state.Planets {
			if planet.Remaining() > 0 && station.Tech.Dominates(planet.Tasks) {
				return game.Colonize(station.ID, planet.ID, BonusSlot(planet)), true
			}
		}
	}
	return game.Action{}, false
}

// decideTechResearch upgrades the station with the most valuable unmet
// objective. Raising an axis from 0 needs NEW_TECH, which is never spent here.
func decideTechResearch(state *game.State, available []game.Station, objectives game.Objectives) (game.Action, bool) {
	levels := state.TechResearchLevels()
	if len(levels) == 0 {
		return game.Action{}, false
	}

	var order []game.Station
	for _, s := range available {
		if !objectives.Reached(s) {
			order = append(order, s)
		}
	}
	sort.SliceStable(order, func(i, j int) bool {
		return objectives[order[i].ID].Score > objectives[order[j].ID].Score
	})

	for _, s := range order {
		target := objectives[s.ID].Target
		for axis := 0; axis < game.Axes; axis++ {
			current := s.Tech[axis]
			if current > 0 && current < target[axis] && levels[current+1] > 0 {
				return game.Research(s.ID, game.Tech(axis)), true
			}
		}
	}
	return game.Action{}, false
}
