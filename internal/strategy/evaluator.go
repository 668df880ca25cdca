// Package strategy holds the decision engine: it rates every
// (station, planet) investment, triages the board, and picks the one action
// to play this turn.
package strategy

import "github.com/talgya/colonizer/internal/game"

// WinningMoveBonus is added to a move that reaches majority this turn. It
// keeps any such move above every move that does not.
const WinningMoveBonus = 100

// Investable is the progress a single station can contribute to a planet
// this turn: the per-axis minimum of tech and remaining tasks.
func Investable(station game.Station, planet game.Planet) int {
	total := 0
	for axis := 0; axis < game.Axes; axis++ {
		total += min(station.Tech[axis], planet.Tasks[axis])
	}
	return total
}

// RatePair scores investing station into planet. A score of 0 means the move
// should not be played.
func RatePair(station game.Station, planet game.Planet) int {
	investable := Investable(station, planet)
	if investable <= 0 {
		return 0
	}

	majority := planet.Majority()

	// Takes the planet this turn.
	if planet.MyContribution+investable >= majority {
		return WinningMoveBonus + planet.ColonizationScore + planet.BestPoints()
	}

	// Still contestable.
	if planet.OppContribution < majority {
		return investable
	}

	// Lost. A first contribution still unlocks the planet bonus; more only feeds the opponent.
	if planet.MyContribution == 0 {
		return 1
	}
	return 0
}

// TakesMajority reports whether investing station into planet reaches
// majority this turn.
func TakesMajority(station game.Station, planet game.Planet) bool {
	investable := Investable(station, planet)
	return investable > 0 && planet.MyContribution+investable >= planet.Majority()
}

// BonusSlot picks which of the planet's two bonus slots to claim: the one
// with the highest points value, slot 0 otherwise.
func BonusSlot(planet game.Planet) int {
	slot, best := 0, 0
	for i, b := range planet.Bonuses {
		if v, ok := b.Points(); ok && v > best {
			slot, best = i, v
		}
	}
	// TODO: rank TECH_RESEARCH against the station objectives, then ALIEN_ARTIFACT, then ENERGY_CORE.
	return slot
}

// Relevant reports whether the opponent has not yet locked me out of the
// planet, i.e. everything still open plus what I hold beats their share.
func Relevant(planet game.Planet) bool {
	return planet.OppContribution < planet.MyContribution+planet.Remaining()
}
