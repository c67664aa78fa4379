// Package indexdb keeps a small SQLite index of tick summaries so the replay
// tool can find interesting stretches without scanning every log segment.
// Writes are funneled through a single goroutine; the sim loop never blocks
// on the database.
package indexdb

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"

	_ "modernc.org/sqlite"
)

type SQLiteIndex struct {
	db *sql.DB

	ch     chan TickSummary
	wg     sync.WaitGroup
	once   sync.Once
	closed atomic.Bool

	dropped atomic.Uint64
}

// TickSummary is one indexed row: what the decision core did on one tick.
type TickSummary struct {
	Tick         uint64
	Agents       int
	Bandits      int
	TasksStarted int
	TasksDone    int
	Branches     map[string]int
}

const schema = `
CREATE TABLE IF NOT EXISTS ticks (
	tick          INTEGER PRIMARY KEY,
	agents        INTEGER NOT NULL,
	bandits       INTEGER NOT NULL,
	tasks_started INTEGER NOT NULL,
	tasks_done    INTEGER NOT NULL
);
CREATE TABLE IF NOT EXISTS branches (
	tick   INTEGER NOT NULL,
	branch TEXT    NOT NULL,
	n      INTEGER NOT NULL,
	PRIMARY KEY (tick, branch)
);
`

func OpenSQLite(path string) (*SQLiteIndex, error) {
	if path == "" {
		return nil, fmt.Errorf("empty db path")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, err
	}

	idx := &SQLiteIndex{db: db, ch: make(chan TickSummary, 256)}
	idx.wg.Add(1)
	go idx.writer()
	return idx, nil
}

// WriteTick queues a summary; when the writer is backed up the row is dropped
// rather than stalling the caller.
func (idx *SQLiteIndex) WriteTick(ts TickSummary) {
	if idx == nil || idx.closed.Load() {
		return
	}
	select {
	case idx.ch <- ts:
	default:
		idx.dropped.Add(1)
	}
}

// Dropped reports rows lost to backpressure.
func (idx *SQLiteIndex) Dropped() uint64 { return idx.dropped.Load() }

func (idx *SQLiteIndex) Close() error {
	var err error
	idx.once.Do(func() {
		idx.closed.Store(true)
		close(idx.ch)
		idx.wg.Wait()
		err = idx.db.Close()
	})
	return err
}

func (idx *SQLiteIndex) writer() {
	defer idx.wg.Done()
	for ts := range idx.ch {
		idx.insert(ts)
	}
}

func (idx *SQLiteIndex) insert(ts TickSummary) {
	tx, err := idx.db.Begin()
	if err != nil {
		return
	}
	_, err = tx.Exec(
		`INSERT OR REPLACE INTO ticks (tick, agents, bandits, tasks_started, tasks_done) VALUES (?,?,?,?,?)`,
		ts.Tick, ts.Agents, ts.Bandits, ts.TasksStarted, ts.TasksDone,
	)
	if err != nil {
		_ = tx.Rollback()
		return
	}
	for branch, n := range ts.Branches {
		if _, err := tx.Exec(
			`INSERT OR REPLACE INTO branches (tick, branch, n) VALUES (?,?,?)`,
			ts.Tick, branch, n,
		); err != nil {
			_ = tx.Rollback()
			return
		}
	}
	_ = tx.Commit()
}

// BranchTotals sums branch decisions over a tick range (inclusive); toTick=0
// means "to the end".
func (idx *SQLiteIndex) BranchTotals(fromTick, toTick uint64) (map[string]int, error) {
	q := `SELECT branch, SUM(n) FROM branches WHERE tick >= ?`
	args := []any{fromTick}
	if toTick > 0 {
		q += ` AND tick <= ?`
		args = append(args, toTick)
	}
	q += ` GROUP BY branch`

	rows, err := idx.db.Query(q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := map[string]int{}
	for rows.Next() {
		var branch string
		var n int
		if err := rows.Scan(&branch, &n); err != nil {
			return nil, err
		}
		out[branch] = n
	}
	return out, rows.Err()
}
