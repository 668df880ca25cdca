// Package replay feeds a recorded or generated game through the bot,
// captures every action line and summarizes the run. A run that fails
// mid-game keeps the output produced so far.
package replay

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/talgya/colonizer/internal/bot"
	"github.com/talgya/colonizer/internal/config"
	"github.com/talgya/colonizer/internal/game"
	"github.com/talgya/colonizer/internal/persistence"
	"github.com/talgya/colonizer/internal/protocol"
	"github.com/talgya/colonizer/internal/strategy"
)

// Report is the outcome of one replay. Board, LastState and Ratings
// describe the last decided turn.
type Report struct {
	Source    string                `json:"source"`
	RunID     string                `json:"run_id,omitempty"` // empty when no journal was used
	Turns     int                   `json:"turns"`
	Actions   []string              `json:"actions"`
	Rules     map[strategy.Rule]int `json:"rules"`
	Board     strategy.Board        `json:"board"`
	LastState *game.State           `json:"last_state,omitempty"`
	Ratings   []strategy.Rating     `json:"ratings,omitempty"`
	Memory    *bot.TurnMemory       `json:"memory"`
	Elapsed   time.Duration         `json:"elapsed_ns"`
	InBytes   int64                 `json:"in_bytes"`
	Died      bool                  `json:"died"`
	Err       error                 `json:"-"`
	Error     string                `json:"error,omitempty"`
	MyScore   int                   `json:"my_score"`
	OppScore  int                   `json:"opp_score"`
}

// Runner replays input through a fresh driver per call.
type Runner struct {
	Config  config.Config
	Journal *persistence.Journal // optional
}

// Run plays the whole input. The returned error is reserved for journal
// failures outside the turn loop; a game that dies is reported through
// Report.Died and Report.Err.
func (rn *Runner) Run(source string, r io.Reader) (*Report, error) {
	rep := &Report{Source: source, Rules: map[strategy.Rule]int{}}

	if rn.Journal != nil {
		id, err := rn.Journal.BeginRun(source, rn.Config.TechUpgrades)
		if err != nil {
			return nil, fmt.Errorf("begin run: %w", err)
		}
		rep.RunID = id
	}

	d := bot.New(rn.Config)
	d.OnTurn = func(res bot.TurnResult) error {
		rep.Rules[res.Decision.Rule]++
		rep.Board = res.Board
		rep.LastState = res.State
		rep.Ratings = res.Decision.Ratings
		rep.MyScore = res.State.MyScore
		rep.OppScore = res.State.OppScore
		if rn.Journal == nil {
			return nil
		}
		return rn.Journal.RecordTurn(rep.RunID, persistence.TurnEntry{
			Turn:     res.Turn,
			Sector:   res.State.Sector,
			Snapshot: protocol.EncodeState(res.State),
			Action:   res.Decision.Action.String(),
			Rule:     string(res.Decision.Rule),
			Score:    res.Decision.Score,
		})
	}

	in := &countingReader{r: r}
	var out bytes.Buffer
	start := time.Now()
	err := d.Run(in, &out)
	rep.Elapsed = time.Since(start)
	rep.InBytes = in.n
	rep.Turns = d.Turns()
	rep.Actions = lines(out.Bytes())
	rep.Memory = d.Memory

	if err != nil {
		rep.Died = true
		rep.Err = err
		rep.Error = err.Error()
		slog.Warn("simulation died", "source", source, "turn", rep.Turns+1, "error", err)
	}

	if rn.Journal != nil {
		if err := rn.Journal.FinishRun(rep.RunID, rep.Turns); err != nil {
			return rep, fmt.Errorf("finish run: %w", err)
		}
	}
	return rep, nil
}

// Summary renders a one-paragraph description of the run.
func (rep *Report) Summary() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s: %s turns from %s of input in %s\n",
		rep.Source, humanize.Comma(int64(rep.Turns)),
		humanize.Bytes(uint64(rep.InBytes)), rep.Elapsed.Round(time.Microsecond))

	rules := make([]string, 0, len(rep.Rules))
	for rule := range rep.Rules {
		rules = append(rules, string(rule))
	}
	sort.Strings(rules)
	for _, rule := range rules {
		fmt.Fprintf(&b, "  %-14s %s\n", rule, humanize.Comma(int64(rep.Rules[strategy.Rule(rule)])))
	}

	fmt.Fprintf(&b, "  final score    %d - %d\n", rep.MyScore, rep.OppScore)
	if rep.Turns > 0 {
		bd := rep.Board
		fmt.Fprintf(&b, "  last board     %s, lead %d, %d available, %d winnable, %d contested, %d lost, %d locked out, best rating %d\n",
			bd.Standing, bd.ScoreLead, bd.Available, bd.Winnable, bd.Contested, bd.Lost, bd.LockedOut, bd.BestRating)
	}
	if recent := rep.Memory.Format(); recent != "" {
		b.WriteString("Recent turns:\n")
		b.WriteString(recent)
	}
	if rep.Died {
		fmt.Fprintf(&b, "Simulation died: %v\n", rep.Err)
	}
	return b.String()
}

// WriteJSON writes the report as indented JSON.
func (rep *Report) WriteJSON(w io.Writer) error {
	data, err := json.MarshalIndent(rep, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal report: %w", err)
	}
	_, err = w.Write(append(data, '\n'))
	return err
}

func lines(out []byte) []string {
	var res []string
	sc := bufio.NewScanner(bytes.NewReader(out))
	for sc.Scan() {
		res = append(res, sc.Text())
	}
	return res
}

type countingReader struct {
	r io.Reader
	n int64
}

func (c *countingReader) Read(p []byte) (int, error) {
	n, err := c.r.Read(p)
	c.n += int64(n)
	return n, err
}
