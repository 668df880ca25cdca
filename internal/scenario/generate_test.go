package scenario

import (
	"bytes"
	"errors"
	"io"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/talgya/colonizer/internal/game"
	"github.com/talgya/colonizer/internal/protocol"
)

func TestGenerateDeterministic(t *testing.T) {
	cfg := SmallTestConfig()

	var a, b bytes.Buffer
	if _, err := Generate(cfg).WriteTo(&a); err != nil {
		t.Fatal(err)
	}
	if _, err := Generate(cfg).WriteTo(&b); err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(a.Bytes(), b.Bytes()) {
		t.Fatal("same seed produced different scenarios")
	}

	cfg.Seed = 43
	var c bytes.Buffer
	if _, err := Generate(cfg).WriteTo(&c); err != nil {
		t.Fatal(err)
	}
	if bytes.Equal(a.Bytes(), c.Bytes()) {
		t.Fatal("different seeds produced identical scenarios")
	}
}

func TestGenerateShape(t *testing.T) {
	cfg := SmallTestConfig()
	sc := Generate(cfg)

	if len(sc.States) != cfg.Turns {
		t.Fatalf("states = %d, want %d", len(sc.States), cfg.Turns)
	}
	if len(sc.Objectives) != protocol.StationCount {
		t.Fatalf("objectives = %d, want %d", len(sc.Objectives), protocol.StationCount)
	}

	// The price of a planet never changes while work moves from tasks to
	// contributions.
	prices := map[int]int{}
	for turn, s := range sc.States {
		if len(s.MyStations) != protocol.StationCount/2 || len(s.OppStations) != protocol.StationCount/2 {
			t.Fatalf("turn %d: %d/%d stations", turn, len(s.MyStations), len(s.OppStations))
		}
		for _, p := range s.Planets {
			if p.Remaining() == 0 {
				t.Fatalf("turn %d: finished planet %d still on the board", turn, p.ID)
			}
			for axis, v := range p.Tasks {
				if v < 0 || v > cfg.MaxTask {
					t.Fatalf("turn %d: planet %d axis %d = %d", turn, p.ID, axis, v)
				}
			}
			if want, ok := prices[p.ID]; ok && p.Price() != want {
				t.Fatalf("turn %d: planet %d price %d, want %d", turn, p.ID, p.Price(), want)
			}
			prices[p.ID] = p.Price()
		}
	}
}

func TestScenarioDecodes(t *testing.T) {
	sc := Generate(SmallTestConfig())

	var buf bytes.Buffer
	n, err := sc.WriteTo(&buf)
	if err != nil {
		t.Fatal(err)
	}
	if n != int64(buf.Len()) {
		t.Fatalf("WriteTo reported %d bytes, wrote %d", n, buf.Len())
	}

	dec := protocol.NewDecoder(&buf)
	objs, err := dec.ReadObjectives()
	if err != nil {
		t.Fatalf("ReadObjectives: %v", err)
	}
	if diff := cmp.Diff(sc.Objectives, objs); diff != "" {
		t.Fatalf("objectives mismatch (-want +got):\n%s", diff)
	}

	var got []*game.State
	for {
		s, err := dec.ReadState()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			t.Fatalf("ReadState %d: %v", len(got)+1, err)
		}
		got = append(got, s)
	}
	if diff := cmp.Diff(sc.States, got, cmpopts.EquateEmpty()); diff != "" {
		t.Fatalf("states mismatch (-want +got):\n%s", diff)
	}
}

func TestRandomSeedIsRecorded(t *testing.T) {
	cfg := SmallTestConfig()
	cfg.Seed = 0
	cfg.Turns = 1
	if sc := Generate(cfg); sc.Seed == 0 {
		t.Fatal("expected a generated seed")
	}
}
