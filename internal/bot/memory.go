package bot

import (
	"fmt"
	"strings"
)

// TurnRecord captures what happened in a single turn.
type TurnRecord struct {
	Turn     int    `json:"turn"`
	Sector   int    `json:"sector"`
	Action   string `json:"action"`
	Rule     string `json:"rule"`
	Score    int    `json:"score,omitempty"`
	Standing string `json:"standing"`
}

// TurnMemory keeps the most recent turn records. It lives for one process
// and is never written to disk.
type TurnMemory struct {
	Records []TurnRecord `json:"records"`
	max     int
}

// NewTurnMemory creates a memory holding at most max records. A max of 0
// disables recording.
func NewTurnMemory(max int) *TurnMemory {
	return &TurnMemory{max: max}
}

// Record adds a turn record, trimming to the configured size.
func (m *TurnMemory) Record(r TurnRecord) {
	if m == nil || m.max <= 0 {
		return
	}
	m.Records = append(m.Records, r)
	if len(m.Records) > m.max {
		m.Records = m.Records[len(m.Records)-m.max:]
	}
}

// Last returns the most recent record.
func (m *TurnMemory) Last() (TurnRecord, bool) {
	if m == nil || len(m.Records) == 0 {
		return TurnRecord{}, false
	}
	return m.Records[len(m.Records)-1], true
}

// Format returns one line per remembered turn, oldest first.
func (m *TurnMemory) Format() string {
	if m == nil || len(m.Records) == 0 {
		return ""
	}
	var b strings.Builder
	for _, r := range m.Records {
		fmt.Fprintf(&b, "- Turn %d (sector %d): %s via %s, standing=%s", r.Turn, r.Sector, r.Action, r.Rule, r.Standing)
		if r.Score > 0 {
			fmt.Fprintf(&b, ", score=%d", r.Score)
		}
		b.WriteString("\n")
	}
	return b.String()
}
