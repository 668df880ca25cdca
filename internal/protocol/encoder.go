package protocol

import (
	"bufio"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/talgya/colonizer/internal/game"
)

// Encoder writes the referee side of the protocol. The scenario generator
// uses it to produce replayable input and the journal to store snapshots.
// The first write error sticks and is returned by Flush.
type Encoder struct {
	w   *bufio.Writer
	err error
}

// NewEncoder creates an Encoder writing to w.
func NewEncoder(w io.Writer) *Encoder {
	return &Encoder{w: bufio.NewWriter(w)}
}

// WriteObjectives writes the header, one line per station ordered by id.
func (e *Encoder) WriteObjectives(objectives game.Objectives) {
	ids := make([]int, 0, len(objectives))
	for id := range objectives {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	for _, id := range ids {
		o := objectives[id]
		e.printf("%d %d %d %s\n", o.StationID, flag(o.Mine), o.Score, vector(o.Target))
	}
}

// WriteState writes one snapshot. My stations are written before the
// opponent's.
func (e *Encoder) WriteState(state *game.State) {
	e.printf("%d\n", state.Sector)
	for _, st := range state.Stations() {
		e.printf("%d %d %d %s\n", st.ID, flag(st.Mine), flag(st.Available), vector(st.Tech))
	}
	e.printf("%d\n", len(state.Planets))
	for _, p := range state.Planets {
		e.printf("%d %s %d %d %d %s %s\n", p.ID, vector(p.Tasks),
			p.MyContribution, p.OppContribution, p.ColonizationScore,
			p.Bonuses[0], p.Bonuses[1])
	}
	e.printf("%d\n", len(state.MyBonuses)+len(state.OppBonuses))
	for _, b := range state.MyBonuses {
		e.printf("1 %s\n", b)
	}
	for _, b := range state.OppBonuses {
		e.printf("0 %s\n", b)
	}
	e.printf("%d\n%d\n", state.MyScore, state.OppScore)
}

// WriteAction writes one action line.
func (e *Encoder) WriteAction(a game.Action) {
	e.printf("%s\n", a)
}

// Flush writes any buffered data and returns the first error seen.
func (e *Encoder) Flush() error {
	if e.err != nil {
		return e.err
	}
	e.err = e.w.Flush()
	return e.err
}

func (e *Encoder) printf(format string, args ...any) {
	if e.err != nil {
		return
	}
	_, e.err = fmt.Fprintf(e.w, format, args...)
}

// EncodeState returns the snapshot in wire format.
func EncodeState(state *game.State) []byte {
	var b strings.Builder
	enc := NewEncoder(&b)
	enc.WriteState(state)
	_ = enc.Flush() // a strings.Builder never fails
	return []byte(b.String())
}

func flag(b bool) int {
	if b {
		return 1
	}
	return 0
}

func vector(v game.TechVector) string {
	return fmt.Sprintf("%d %d %d %d", v[0], v[1], v[2], v[3])
}
