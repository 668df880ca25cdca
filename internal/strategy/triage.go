package strategy

import "github.com/talgya/colonizer/internal/game"

// Board holds derived signals computed from a snapshot. It is only used for
// logging and reports and never changes the decision.
type Board struct {
	Available  int    `json:"available"`  // my stations usable this turn
	Winnable   int    `json:"winnable"`   // planets some available station takes this turn
	Contested  int    `json:"contested"`  // opponent below majority, not winnable this turn
	Lost       int    `json:"lost"`       // opponent at or above majority
	LockedOut  int    `json:"locked_out"` // fails the relevance filter
	ScoreLead  int    `json:"score_lead"` // my score minus the opponent's
	Standing   string `json:"standing"`   // "AHEAD", "BEHIND", "EVEN"
	BestRating int    `json:"best_rating"`
}

// Triage computes a Board from the snapshot.
func Triage(state *game.State) Board {
	available := state.AvailableStations()
	b := Board{
		Available: len(available),
		ScoreLead: state.MyScore - state.OppScore,
	}

	for _, p := range state.Planets {
		if !Relevant(p) {
			b.LockedOut++
		}
		winnable := false
		for _, s := range available {
			score := RatePair(s, p)
			if score > b.BestRating && Relevant(p) {
				b.BestRating = score
			}
			if TakesMajority(s, p) {
				winnable = true
			}
		}
		switch {
		case winnable:
			b.Winnable++
		case p.OppContribution >= p.Majority():
			b.Lost++
		default:
			b.Contested++
		}
	}

	switch {
	case b.ScoreLead > 0:
		b.Standing = "AHEAD"
	case b.ScoreLead < 0:
		b.Standing = "BEHIND"
	default:
		b.Standing = "EVEN"
	}
	return b
}
