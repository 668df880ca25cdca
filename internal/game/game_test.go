package game

import (
	"encoding/json"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestPlanetMajorityIsCeilingOfHalfPrice(t *testing.T) {
	for tasks := 0; tasks <= 7; tasks++ {
		for my := 0; my <= 5; my++ {
			for opp := 0; opp <= 5; opp++ {
				p := Planet{Tasks: TechVector{tasks, 0, 1, 0}, MyContribution: my, OppContribution: opp}
				price := tasks + 1 + my + opp
				want := price / 2
				if price%2 == 1 {
					want++
				}
				if p.Price() != price {
					t.Fatalf("Price() = %d, want %d", p.Price(), price)
				}
				if p.Majority() != want {
					t.Fatalf("Majority() with price %d = %d, want %d", price, p.Majority(), want)
				}
			}
		}
	}
}

func TestPlanetBestPointsTakesLargest(t *testing.T) {
	p := Planet{Bonuses: [2]Bonus{ParseBonus("POINTS_2"), ParseBonus("POINTS_5")}}
	if got := p.BestPoints(); got != 5 {
		t.Fatalf("BestPoints() = %d, want 5", got)
	}
	p.Bonuses = [2]Bonus{ParseBonus("ENERGY_CORE"), ParseBonus("TECH_RESEARCH_3")}
	if got := p.BestPoints(); got != 0 {
		t.Fatalf("BestPoints() without points = %d, want 0", got)
	}
}

func TestParseBonus(t *testing.T) {
	cases := []struct {
		tag  string
		want Bonus
	}{
		{"POINTS_3", Bonus{Kind: BonusPoints, Value: 3}},
		{"POINTS_12", Bonus{Kind: BonusPoints, Value: 12}},
		{"TECH_RESEARCH_2", Bonus{Kind: BonusTechResearch, Value: 2}},
		{"NEW_TECH", Bonus{Kind: BonusNewTech}},
		{"ENERGY_CORE", Bonus{Kind: BonusEnergyCore}},
		{"ALIEN_ARTIFACT", Bonus{Kind: BonusAlienArtifact}},
		{"NONE", Bonus{Kind: BonusNone}},
		{"", Bonus{Kind: BonusNone}},
		{"POINTS_x", Bonus{Kind: BonusUnknown, Raw: "POINTS_x"}},
		{"POINTS_-1", Bonus{Kind: BonusUnknown, Raw: "POINTS_-1"}},
		{"WORMHOLE", Bonus{Kind: BonusUnknown, Raw: "WORMHOLE"}},
	}
	for _, tc := range cases {
		got := ParseBonus(tc.tag)
		if diff := cmp.Diff(tc.want, got); diff != "" {
			t.Errorf("ParseBonus(%q) mismatch (-want +got):\n%s", tc.tag, diff)
		}
		if tc.tag != "" && got.String() != tc.tag {
			t.Errorf("ParseBonus(%q).String() = %q", tc.tag, got.String())
		}
	}
}

func TestUnknownBonusHasNoPoints(t *testing.T) {
	if _, ok := ParseBonus("POINTS_?").Points(); ok {
		t.Fatal("malformed points tag should not carry a value")
	}
}

func TestPlanetJSONUsesBonusTags(t *testing.T) {
	p := Planet{ID: 3, Tasks: TechVector{1, 0, 2, 0}, ColonizationScore: 7,
		Bonuses: [2]Bonus{ParseBonus("POINTS_2"), ParseBonus("MYSTERY")}}

	data, err := json.Marshal(p)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	want := `{"id":3,"tasks":[1,0,2,0],"my_contribution":0,"opp_contribution":0,"colonization_score":7,"bonuses":["POINTS_2","MYSTERY"]}`
	if string(data) != want {
		t.Fatalf("got %s, want %s", data, want)
	}

	var back Planet
	if err := json.Unmarshal(data, &back); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if diff := cmp.Diff(p, back); diff != "" {
		t.Fatalf("round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestObjectivesReached(t *testing.T) {
	objs := Objectives{
		1: {StationID: 1, Mine: true, Score: 10, Target: TechVector{2, 1, 0, 0}},
	}
	if objs.Reached(Station{ID: 1, Tech: TechVector{1, 1, 0, 0}}) {
		t.Fatal("station below target should not be reached")
	}
	if !objs.Reached(Station{ID: 1, Tech: TechVector{2, 3, 0, 0}}) {
		t.Fatal("station at or above target should be reached")
	}
	if !objs.Reached(Station{ID: 9}) {
		t.Fatal("station without objective counts as reached")
	}
}

func TestStateHelpers(t *testing.T) {
	s := &State{
		MyStations: []Station{
			{ID: 0, Mine: true, Available: false},
			{ID: 2, Mine: true, Available: true},
			{ID: 4, Mine: true, Available: true},
		},
		MyBonuses: []Bonus{
			ParseBonus("TECH_RESEARCH_2"),
			ParseBonus("TECH_RESEARCH_2"),
			ParseBonus("TECH_RESEARCH_4"),
			ParseBonus("ENERGY_CORE"),
		},
	}
	avail := s.AvailableStations()
	if len(avail) != 2 || avail[0].ID != 2 || avail[1].ID != 4 {
		t.Fatalf("AvailableStations() = %+v", avail)
	}
	if !s.HasBonus(BonusEnergyCore) || s.HasBonus(BonusAlienArtifact) {
		t.Fatal("HasBonus mismatch")
	}
	if diff := cmp.Diff(map[int]int{2: 2, 4: 1}, s.TechResearchLevels()); diff != "" {
		t.Fatalf("TechResearchLevels mismatch (-want +got):\n%s", diff)
	}
}

func TestActionString(t *testing.T) {
	cases := map[string]Action{
		"COLONIZE 3 7 1":    Colonize(3, 7, 1),
		"RESUPPLY":          Resupply(),
		"ENERGY_CORE":       UseEnergyCore(),
		"TECH_RESEARCH 5 2": Research(5, TechEngineering),
	}
	for want, a := range cases {
		if got := a.String(); got != want {
			t.Errorf("String() = %q, want %q", got, want)
		}
	}
}
