package game

import "fmt"

// ActionKind enumerates the moves the bot can emit.
type ActionKind uint8

const (
	ActionResupply     ActionKind = iota
	ActionColonize                // main action, ends the turn
	ActionEnergyCore              // bonus action, grants another move
	ActionTechResearch            // bonus action, raises one axis of a station
)

var actionNames = map[ActionKind]string{
	ActionResupply:     "RESUPPLY",
	ActionColonize:     "COLONIZE",
	ActionEnergyCore:   "ENERGY_CORE",
	ActionTechResearch: "TECH_RESEARCH",
}

// String returns the command word of the action kind.
func (k ActionKind) String() string {
	if name, ok := actionNames[k]; ok {
		return name
	}
	return fmt.Sprintf("ActionKind(%d)", uint8(k))
}

// ActionKindByName returns the kind whose command word is name.
func ActionKindByName(name string) (ActionKind, bool) {
	for k, n := range actionNames {
		if n == name {
			return k, true
		}
	}
	return 0, false
}

// Action is the single move produced each turn.
type Action struct {
	Kind      ActionKind
	StationID int
	PlanetID  int
	BonusSlot int  // COLONIZE only
	Axis      Tech // TECH_RESEARCH only
}

// Colonize invests a station into a planet and claims the given bonus slot.
func Colonize(stationID, planetID, slot int) Action {
	return Action{Kind: ActionColonize, StationID: stationID, PlanetID: planetID, BonusSlot: slot}
}

// Resupply is the default economic action.
func Resupply() Action {
	return Action{Kind: ActionResupply}
}

// UseEnergyCore spends an energy core.
func UseEnergyCore() Action {
	return Action{Kind: ActionEnergyCore}
}

// Research spends a tech research bonus on one axis of a station.
func Research(stationID int, axis Tech) Action {
	return Action{Kind: ActionTechResearch, StationID: stationID, Axis: axis}
}

// String renders the action as its output line, without the newline.
func (a Action) String() string {
	switch a.Kind {
	case ActionColonize:
		return fmt.Sprintf("COLONIZE %d %d %d", a.StationID, a.PlanetID, a.BonusSlot)
	case ActionTechResearch:
		return fmt.Sprintf("TECH_RESEARCH %d %d", a.StationID, a.Axis)
	default:
		return a.Kind.String()
	}
}
