// Package protocol reads and writes the line-based text protocol spoken with
// the game referee: a one-time header of station objectives, then one
// snapshot per turn, answered by exactly one action line.
package protocol

import (
	"bufio"
	"fmt"
	"io"
	"strconv"

	"github.com/talgya/colonizer/internal/game"
)

// StationCount is the number of station records in the header and in every
// snapshot, both players included.
const StationCount = 8

// MaxCount bounds the planet and bonus counts of a snapshot.
const MaxCount = 1024

// Decoder reads whitespace-delimited tokens from the referee.
type Decoder struct {
	sc *bufio.Scanner
}

// NewDecoder creates a Decoder reading from r.
func NewDecoder(r io.Reader) *Decoder {
	sc := bufio.NewScanner(r)
	sc.Split(bufio.ScanWords)
	return &Decoder{sc: sc}
}

// ReadObjectives reads the header. It returns io.EOF if the input is empty.
func (d *Decoder) ReadObjectives() (game.Objectives, error) {
	objectives := make(game.Objectives, StationCount)
	for i := 0; i < StationCount; i++ {
		var (
			obj  game.StationObjective
			mine int
			err  error
		)
		if i == 0 {
			obj.StationID, err = d.first("objective station id")
		} else {
			obj.StationID, err = d.num("objective station id")
		}
		if err != nil {
			return nil, err
		}
		if mine, err = d.num("objective mine flag"); err != nil {
			return nil, err
		}
		obj.Mine = mine == 1
		if obj.Score, err = d.num("objective score"); err != nil {
			return nil, err
		}
		if obj.Target, err = d.vector("objective"); err != nil {
			return nil, err
		}
		objectives[obj.StationID] = obj
	}
	return objectives, nil
}

// ReadState reads one turn. It returns io.EOF if the input ends cleanly
// before the turn starts; any other short read is a *ProtocolError wrapping
// ErrTruncated.
func (d *Decoder) ReadState() (*game.State, error) {
	sector, err := d.first("sector index")
	if err != nil {
		return nil, err
	}
	state := &game.State{Sector: sector}

	for i := 0; i < StationCount; i++ {
		st, err := d.station()
		if err != nil {
			return nil, err
		}
		if st.Mine {
			state.MyStations = append(state.MyStations, st)
		} else {
			state.OppStations = append(state.OppStations, st)
		}
	}

	planetCount, err := d.count("planet count")
	if err != nil {
		return nil, err
	}
	for i := 0; i < planetCount; i++ {
		p, err := d.planet()
		if err != nil {
			return nil, fmt.Errorf("planet %d: %w", i, err)
		}
		state.Planets = append(state.Planets, p)
	}

	bonusCount, err := d.count("bonus count")
	if err != nil {
		return nil, err
	}
	for i := 0; i < bonusCount; i++ {
		mine, err := d.num("bonus owner")
		if err != nil {
			return nil, err
		}
		tag, err := d.word("bonus tag")
		if err != nil {
			return nil, err
		}
		if mine == 1 {
			state.MyBonuses = append(state.MyBonuses, game.ParseBonus(tag))
		} else {
			state.OppBonuses = append(state.OppBonuses, game.ParseBonus(tag))
		}
	}

	if state.MyScore, err = d.num("my colonization score"); err != nil {
		return nil, err
	}
	if state.OppScore, err = d.num("opponent colonization score"); err != nil {
		return nil, err
	}
	return state, nil
}

func (d *Decoder) station() (game.Station, error) {
	var (
		st              game.Station
		mine, available int
		err             error
	)
	if st.ID, err = d.num("station id"); err != nil {
		return st, err
	}
	if mine, err = d.num("station mine flag"); err != nil {
		return st, err
	}
	if available, err = d.num("station available flag"); err != nil {
		return st, err
	}
	st.Mine = mine == 1
	st.Available = available == 1
	st.Tech, err = d.vector("station tech")
	return st, err
}

func (d *Decoder) planet() (game.Planet, error) {
	var (
		p   game.Planet
		err error
	)
	if p.ID, err = d.num("planet id"); err != nil {
		return p, err
	}
	if p.Tasks, err = d.vector("planet tasks"); err != nil {
		return p, err
	}
	if p.MyContribution, err = d.natural("my contribution"); err != nil {
		return p, err
	}
	if p.OppContribution, err = d.natural("opponent contribution"); err != nil {
		return p, err
	}
	if p.ColonizationScore, err = d.natural("colonization score"); err != nil {
		return p, err
	}
	for slot := range p.Bonuses {
		tag, err := d.word("planet bonus")
		if err != nil {
			return p, err
		}
		p.Bonuses[slot] = game.ParseBonus(tag)
	}
	return p, nil
}

func (d *Decoder) vector(field string) (game.TechVector, error) {
	var v game.TechVector
	for axis := range v {
		n, err := d.natural(field)
		if err != nil {
			return v, err
		}
		v[axis] = n
	}
	return v, nil
}

func (d *Decoder) count(field string) (int, error) {
	n, err := d.num(field)
	if err != nil {
		return 0, err
	}
	if n < 0 || n > MaxCount {
		return 0, &ProtocolError{Field: field, Token: strconv.Itoa(n), Err: ErrBadCount}
	}
	return n, nil
}

// natural reads a value that can never be negative: tech levels, task
// costs, contributions and colonization scores.
func (d *Decoder) natural(field string) (int, error) {
	n, err := d.num(field)
	if err != nil {
		return 0, err
	}
	if n < 0 {
		return 0, &ProtocolError{Field: field, Token: strconv.Itoa(n), Err: ErrNegative}
	}
	return n, nil
}

// first reads the opening token of a record group, where a clean end of
// input is not an error.
func (d *Decoder) first(field string) (int, error) {
	if !d.sc.Scan() {
		if err := d.sc.Err(); err != nil {
			return 0, &ProtocolError{Field: field, Err: err}
		}
		return 0, io.EOF
	}
	return d.parse(field, d.sc.Text())
}

func (d *Decoder) num(field string) (int, error) {
	tok, err := d.word(field)
	if err != nil {
		return 0, err
	}
	return d.parse(field, tok)
}

func (d *Decoder) parse(field, tok string) (int, error) {
	n, err := strconv.Atoi(tok)
	if err != nil {
		return 0, &ProtocolError{Field: field, Token: tok, Err: err}
	}
	return n, nil
}

func (d *Decoder) word(field string) (string, error) {
	if !d.sc.Scan() {
		if err := d.sc.Err(); err != nil {
			return "", &ProtocolError{Field: field, Err: err}
		}
		return "", &ProtocolError{Field: field, Err: ErrTruncated}
	}
	return d.sc.Text(), nil
}
