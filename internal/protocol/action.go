package protocol

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/talgya/colonizer/internal/game"
)

// ParseAction reads an output line back into an action.
func ParseAction(line string) (game.Action, error) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return game.Action{}, fmt.Errorf("%w: empty line", ErrBadAction)
	}
	kind, ok := game.ActionKindByName(fields[0])
	if !ok {
		return game.Action{}, fmt.Errorf("%w: unknown command %q", ErrBadAction, fields[0])
	}

	args := make([]int, 0, len(fields)-1)
	for _, f := range fields[1:] {
		n, err := strconv.Atoi(f)
		if err != nil {
			return game.Action{}, fmt.Errorf("%w: %q: %v", ErrBadAction, line, err)
		}
		args = append(args, n)
	}

	want := map[game.ActionKind]int{
		game.ActionColonize:     3,
		game.ActionTechResearch: 2,
	}[kind]
	if len(args) != want {
		return game.Action{}, fmt.Errorf("%w: %s takes %d arguments, got %d", ErrBadAction, kind, want, len(args))
	}

	switch kind {
	case game.ActionColonize:
		return game.Colonize(args[0], args[1], args[2]), nil
	case game.ActionTechResearch:
		if args[1] < 0 || args[1] >= game.Axes {
			return game.Action{}, fmt.Errorf("%w: tech axis %d out of range", ErrBadAction, args[1])
		}
		return game.Research(args[0], game.Tech(args[1])), nil
	case game.ActionEnergyCore:
		return game.UseEnergyCore(), nil
	default:
		return game.Resupply(), nil
	}
}
