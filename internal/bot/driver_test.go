package bot

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/talgya/colonizer/internal/config"
	"github.com/talgya/colonizer/internal/game"
	"github.com/talgya/colonizer/internal/protocol"
	"github.com/talgya/colonizer/internal/strategy"
)

func testObjectives() game.Objectives {
	objs := game.Objectives{}
	for id := 0; id < protocol.StationCount; id++ {
		objs[id] = game.StationObjective{StationID: id, Mine: id%2 == 0, Score: 10 + id, Target: game.TechVector{1, 1, 1, 1}}
	}
	return objs
}

// stations builds my four even-numbered stations and the opponent's four
// odd-numbered ones. Mine share the availability flag and tech vector.
func stations(available bool, tech game.TechVector) ([]game.Station, []game.Station) {
	var mine, opp []game.Station
	for id := 0; id < protocol.StationCount; id++ {
		if id%2 == 0 {
			mine = append(mine, game.Station{ID: id, Mine: true, Available: available, Tech: tech})
		} else {
			opp = append(opp, game.Station{ID: id, Available: true, Tech: game.TechVector{1, 0, 0, 0}})
		}
	}
	return mine, opp
}

func scriptedStates() []*game.State {
	mine, opp := stations(true, game.TechVector{2, 0, 0, 0})
	invest := &game.State{
		Sector:      0,
		MyStations:  mine,
		OppStations: opp,
		Planets: []game.Planet{
			{ID: 0, Tasks: game.TechVector{3, 3, 0, 0}, ColonizationScore: 10,
				Bonuses: [2]game.Bonus{game.ParseBonus("ENERGY_CORE"), game.ParseBonus("POINTS_2")}},
			{ID: 1, Tasks: game.TechVector{2, 0, 0, 0}, MyContribution: 1, ColonizationScore: 5,
				Bonuses: [2]game.Bonus{game.ParseBonus("POINTS_1"), game.ParseBonus("POINTS_4")}},
		},
	}

	mine, opp = stations(false, game.TechVector{2, 0, 0, 0})
	energy := &game.State{
		Sector:      1,
		MyStations:  mine,
		OppStations: opp,
		Planets:     invest.Planets,
		MyBonuses:   []game.Bonus{game.ParseBonus("ENERGY_CORE")},
		MyScore:     5,
	}
	resupply := &game.State{
		Sector:      2,
		MyStations:  mine,
		OppStations: opp,
		Planets:     invest.Planets,
		MyScore:     5,
		OppScore:    8,
	}
	return []*game.State{invest, energy, resupply}
}

func encodeGame(t *testing.T, objs game.Objectives, states []*game.State) string {
	t.Helper()
	var buf bytes.Buffer
	enc := protocol.NewEncoder(&buf)
	enc.WriteObjectives(objs)
	for _, s := range states {
		enc.WriteState(s)
	}
	if err := enc.Flush(); err != nil {
		t.Fatal(err)
	}
	return buf.String()
}

func TestRunEmitsOneLinePerTurn(t *testing.T) {
	input := encodeGame(t, testObjectives(), scriptedStates())

	d := New(config.Default())
	var results []TurnResult
	d.OnTurn = func(r TurnResult) error {
		results = append(results, r)
		return nil
	}

	var out bytes.Buffer
	if err := d.Run(strings.NewReader(input), &out); err != nil {
		t.Fatalf("Run: %v", err)
	}

	want := []string{"COLONIZE 0 1 1", "ENERGY_CORE", "RESUPPLY"}
	got := strings.Split(strings.TrimSpace(out.String()), "\n")
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("output mismatch (-want +got):\n%s", diff)
	}

	if d.Turns() != 3 || d.Sector() != 2 {
		t.Fatalf("Turns=%d Sector=%d, want 3 and 2", d.Turns(), d.Sector())
	}
	if len(d.Objectives()) != protocol.StationCount {
		t.Fatalf("objectives = %d, want %d", len(d.Objectives()), protocol.StationCount)
	}
	if len(results) != 3 || results[0].Decision.Rule != strategy.RuleInvest || results[2].Board.Standing != "BEHIND" {
		t.Fatalf("unexpected callback results: %+v", results)
	}

	last, ok := d.Memory.Last()
	if !ok || last.Action != "RESUPPLY" || last.Rule != string(strategy.RuleResupply) {
		t.Fatalf("memory last = %+v", last)
	}
}

func TestRunStopsOnTruncatedTurn(t *testing.T) {
	input := encodeGame(t, testObjectives(), scriptedStates()[:2])
	// Drop the opponent score of the last turn.
	input = strings.TrimSuffix(input, "0\n")

	d := New(config.Default())
	var out bytes.Buffer
	err := d.Run(strings.NewReader(input), &out)
	if !errors.Is(err, protocol.ErrTruncated) {
		t.Fatalf("err = %v, want ErrTruncated", err)
	}
	if got := strings.TrimSpace(out.String()); got != "COLONIZE 0 1 1" {
		t.Fatalf("output = %q, want only the first turn", got)
	}
}

func TestRunEmptyInput(t *testing.T) {
	var out bytes.Buffer
	if err := New(config.Default()).Run(strings.NewReader(""), &out); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if out.Len() != 0 {
		t.Fatalf("unexpected output %q", out.String())
	}
}

func TestRunCallbackErrorStops(t *testing.T) {
	input := encodeGame(t, testObjectives(), scriptedStates())
	d := New(config.Default())
	boom := errors.New("boom")
	d.OnTurn = func(TurnResult) error { return boom }

	var out bytes.Buffer
	if err := d.Run(strings.NewReader(input), &out); !errors.Is(err, boom) {
		t.Fatalf("err = %v, want boom", err)
	}
	if strings.Count(out.String(), "\n") != 1 {
		t.Fatalf("output = %q, want a single line", out.String())
	}
}

func TestTurnMemoryTrims(t *testing.T) {
	m := NewTurnMemory(2)
	for i := 1; i <= 3; i++ {
		m.Record(TurnRecord{Turn: i, Action: "RESUPPLY", Rule: "resupply", Standing: "EVEN"})
	}
	if len(m.Records) != 2 || m.Records[0].Turn != 2 {
		t.Fatalf("records = %+v", m.Records)
	}
	if !strings.Contains(m.Format(), "- Turn 3 (sector 0): RESUPPLY via resupply") {
		t.Fatalf("Format() = %q", m.Format())
	}

	off := NewTurnMemory(0)
	off.Record(TurnRecord{Turn: 1})
	if _, ok := off.Last(); ok {
		t.Fatal("disabled memory should not record")
	}
}
