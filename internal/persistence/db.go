// Package persistence provides the SQLite decision journal used by the
// replay tool. Every replayed turn is stored with its snapshot, compressed,
// and a digest so identical inputs can be grouped across runs. The contest
// bot never opens a journal.
package persistence

import (
	"bytes"
	"encoding/hex"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/pierrec/lz4/v4"
	"lukechampine.com/blake3"
	_ "modernc.org/sqlite"
)

// Journal wraps a SQLite connection holding replay runs and their turns.
type Journal struct {
	conn *sqlx.DB
}

// Run is one replay of an input through the bot.
type Run struct {
	ID           string `db:"id"`
	Source       string `db:"source"`
	StartedAt    int64  `db:"started_at"`
	TechUpgrades bool   `db:"tech_upgrades"`
	Turns        int    `db:"turns"`
}

// TurnEntry is one decided turn. Snapshot holds the wire-format input of the
// turn, uncompressed.
type TurnEntry struct {
	Turn     int    `db:"turn"`
	Sector   int    `db:"sector"`
	Digest   string `db:"digest"`
	Snapshot []byte `db:"snapshot"`
	Action   string `db:"action"`
	Rule     string `db:"rule"`
	Score    int    `db:"score"`
}

// Open opens or creates a journal at the given path.
func Open(path string) (*Journal, error) {
	conn, err := sqlx.Open("sqlite", path+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	j := &Journal{conn: conn}
	if err := j.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	return j, nil
}

// Close closes the database connection.
func (j *Journal) Close() error {
	return j.conn.Close()
}

func (j *Journal) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS runs (
		id TEXT PRIMARY KEY,
		source TEXT NOT NULL,
		started_at INTEGER NOT NULL,
		tech_upgrades INTEGER NOT NULL,
		turns INTEGER NOT NULL DEFAULT 0
	);

	CREATE TABLE IF NOT EXISTS turns (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		run_id TEXT NOT NULL REFERENCES runs(id),
		turn INTEGER NOT NULL,
		sector INTEGER NOT NULL,
		digest TEXT NOT NULL,
		snapshot BLOB NOT NULL,
		action TEXT NOT NULL,
		rule TEXT NOT NULL,
		score INTEGER NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_turns_run ON turns(run_id, turn);
	CREATE INDEX IF NOT EXISTS idx_turns_digest ON turns(digest);
	`
	_, err := j.conn.Exec(schema)
	return err
}

// BeginRun registers a new run and returns its id.
func (j *Journal) BeginRun(source string, techUpgrades bool) (string, error) {
	id := uuid.NewString()
	_, err := j.conn.Exec(
		"INSERT INTO runs (id, source, started_at, tech_upgrades) VALUES (?, ?, ?, ?)",
		id, source, time.Now().Unix(), techUpgrades,
	)
	if err != nil {
		return "", fmt.Errorf("insert run: %w", err)
	}
	slog.Debug("journal run started", "run", id, "source", source)
	return id, nil
}

// RecordTurn appends a turn to a run.
func (j *Journal) RecordTurn(runID string, e TurnEntry) error {
	packed, err := compress(e.Snapshot)
	if err != nil {
		return fmt.Errorf("compress turn %d: %w", e.Turn, err)
	}
	_, err = j.conn.Exec(`INSERT INTO turns
		(run_id, turn, sector, digest, snapshot, action, rule, score)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		runID, e.Turn, e.Sector, Digest(e.Snapshot), packed, e.Action, e.Rule, e.Score,
	)
	if err != nil {
		return fmt.Errorf("insert turn %d: %w", e.Turn, err)
	}
	return nil
}

// FinishRun stores the final turn count of a run.
func (j *Journal) FinishRun(runID string, turns int) error {
	res, err := j.conn.Exec("UPDATE runs SET turns = ? WHERE id = ?", turns, runID)
	if err != nil {
		return fmt.Errorf("update run: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("update run: unknown run %s", runID)
	}
	return nil
}

// Runs returns every run, newest first.
func (j *Journal) Runs() ([]Run, error) {
	var runs []Run
	err := j.conn.Select(&runs,
		"SELECT id, source, started_at, tech_upgrades, turns FROM runs ORDER BY started_at DESC, rowid DESC")
	return runs, err
}

// Turns returns the turns of a run in order, snapshots decompressed.
func (j *Journal) Turns(runID string) ([]TurnEntry, error) {
	var entries []TurnEntry
	err := j.conn.Select(&entries,
		"SELECT turn, sector, digest, snapshot, action, rule, score FROM turns WHERE run_id = ? ORDER BY turn",
		runID,
	)
	if err != nil {
		return nil, err
	}
	for i := range entries {
		raw, err := decompress(entries[i].Snapshot)
		if err != nil {
			return nil, fmt.Errorf("decompress turn %d: %w", entries[i].Turn, err)
		}
		entries[i].Snapshot = raw
	}
	return entries, nil
}

// DistinctSnapshots counts the different inputs seen across all runs.
func (j *Journal) DistinctSnapshots() (int, error) {
	var n int
	err := j.conn.Get(&n, "SELECT COUNT(DISTINCT digest) FROM turns")
	return n, err
}

// Digest fingerprints a wire-format snapshot.
func Digest(snapshot []byte) string {
	sum := blake3.Sum256(snapshot)
	return hex.EncodeToString(sum[:])
}

func compress(src []byte) ([]byte, error) {
	var buf bytes.Buffer
	zw := lz4.NewWriter(&buf)
	if _, err := zw.Write(src); err != nil {
		return nil, err
	}
	if err := zw.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func decompress(src []byte) ([]byte, error) {
	return io.ReadAll(lz4.NewReader(bytes.NewReader(src)))
}
