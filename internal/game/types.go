// Package game provides the per-turn entity model: stations, planets,
// station objectives, held bonuses and the snapshot that ties them together.
// Every value here is rebuilt from the input each turn.
package game

// Axes is the number of tech axes on a station and task axes on a planet.
const Axes = 4

// Tech identifies one of the four tech axes.
type Tech uint8

const (
	TechTerra       Tech = 0
	TechEthic       Tech = 1
	TechEngineering Tech = 2
	TechAgriculture Tech = 3
)

var techNames = [Axes]string{"TERRA", "ETHIC", "ENGINEERING", "AGRICULTURE"}

// String returns the axis name used in logs.
func (t Tech) String() string {
	if int(t) < Axes {
		return techNames[t]
	}
	return "UNKNOWN"
}

// TechVector holds one non-negative integer per axis. For a station it is the
// tech level, for a planet the remaining task cost.
type TechVector [Axes]int

// Sum adds up all axes.
func (v TechVector) Sum() int {
	total := 0
	for _, x := range v {
		total += x
	}
	return total
}

// Dominates reports whether v is at least other on every axis.
func (v TechVector) Dominates(other TechVector) bool {
	for i := range v {
		if v[i] < other[i] {
			return false
		}
	}
	return true
}

// Station is a colonization station as seen this turn.
type Station struct {
	ID        int        `json:"id"`
	Mine      bool       `json:"mine"`
	Available bool       `json:"available"` // usable this turn
	Tech      TechVector `json:"tech"`
}

// StationObjective is the tech target of a station and the score granted
// once the target is reached. Sent once at game start.
type StationObjective struct {
	StationID int
	Mine      bool
	Score     int
	Target    TechVector
}

// Objectives maps station id to its objective.
type Objectives map[int]StationObjective

// Reached reports whether the station meets its objective on every axis.
// A station without a known objective counts as reached.
func (o Objectives) Reached(s Station) bool {
	obj, ok := o[s.ID]
	if !ok {
		return true
	}
	return s.Tech.Dominates(obj.Target)
}

// Planet is a colonization target with its remaining tasks and the
// contributions both players have already made.
type Planet struct {
	ID                int        `json:"id"`
	Tasks             TechVector `json:"tasks"`
	MyContribution    int        `json:"my_contribution"`
	OppContribution   int        `json:"opp_contribution"`
	ColonizationScore int        `json:"colonization_score"`
	Bonuses           [2]Bonus   `json:"bonuses"`
}

// Remaining is the task cost still open on the planet.
func (p Planet) Remaining() int {
	return p.Tasks.Sum()
}

// Price is the total task budget of the planet: open tasks plus everything
// already contributed by both players.
func (p Planet) Price() int {
	return p.Remaining() + p.MyContribution + p.OppContribution
}

// Majority is the contribution needed to become the leading colonizer,
// ceil(Price/2).
func (p Planet) Majority() int {
	return (p.Price() + 1) / 2
}

// BestPoints returns the largest points bonus on the planet, or 0.
func (p Planet) BestPoints() int {
	best := 0
	for _, b := range p.Bonuses {
		if v, ok := b.Points(); ok && v > best {
			best = v
		}
	}
	return best
}

// State is the full visible game state for one turn.
type State struct {
	Sector      int       `json:"sector"`
	MyStations  []Station `json:"my_stations"`
	OppStations []Station `json:"opp_stations"`
	Planets     []Planet  `json:"planets"`
	MyBonuses   []Bonus   `json:"my_bonuses"`
	OppBonuses  []Bonus   `json:"opp_bonuses"`
	MyScore     int       `json:"my_score"`
	OppScore    int       `json:"opp_score"`
}

// AvailableStations returns my stations usable this turn, in snapshot order.
func (s *State) AvailableStations() []Station {
	var out []Station
	for _, st := range s.MyStations {
		if st.Available {
			out = append(out, st)
		}
	}
	return out
}

// HasBonus reports whether I hold at least one bonus of the given kind.
func (s *State) HasBonus(kind BonusKind) bool {
	for _, b := range s.MyBonuses {
		if b.Kind == kind {
			return true
		}
	}
	return false
}

// TechResearchLevels counts my held TECH_RESEARCH bonuses by the level they
// raise an axis to.
func (s *State) TechResearchLevels() map[int]int {
	levels := make(map[int]int)
	for _, b := range s.MyBonuses {
		if b.Kind == BonusTechResearch {
			levels[b.Value]++
		}
	}
	return levels
}

// Stations returns my stations followed by the opponent's.
func (s *State) Stations() []Station {
	out := make([]Station, 0, len(s.MyStations)+len(s.OppStations))
	out = append(out, s.MyStations...)
	return append(out, s.OppStations...)
}
