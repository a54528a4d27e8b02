// Package journal records coil transitions and cycle completions to
// SQLite.
//
// A Journal observes a VM from the outside: it implements the façade's
// handler contracts (HandleCoilChange, HandleCycleComplete) and is
// registered through the ordinary callback API, so it sees exactly what
// any other listener sees. It is an event log, not state persistence -
// replaying a journal cannot reconstruct engine state.
//
// Writes happen inline in the dispatching cycle's call stack, so one
// journal must only be registered on one VM.
package journal

import (
	"context"
	"database/sql"
	_ "embed"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
)

//go:embed schema.sql
var schemaSQL string

// Journal is a SQLite-backed transition log for one VM run.
type Journal struct {
	db *sql.DB

	// runToken correlates every row written by this journal instance.
	// UUIDv7, so tokens sort by creation time.
	runToken string

	seq int64 // monotonic per-run event counter; serialized by the VM's dispatch
}

// Transition is one logged coil change.
type Transition struct {
	Seq  int64
	Coil string
	Old  bool
	New  bool
}

// Open creates or opens a journal database at path and starts a new run.
//
// The database is configured the same way for every open: WAL mode,
// NORMAL synchronous, 5-second busy timeout, and foreign keys on. A
// single connection avoids SQLITE_BUSY between the writer and readers.
func Open(path, module string) (*Journal, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open journal: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("connect journal: %w", err)
	}

	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if err := applyPragmas(db); err != nil {
		db.Close()
		return nil, err
	}
	if _, err := db.Exec(schemaSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply journal schema: %w", err)
	}

	j := &Journal{
		db:       db,
		runToken: uuid.Must(uuid.NewV7()).String(),
	}
	if _, err := db.Exec(
		`INSERT INTO runs (run_token, module) VALUES (?, ?)`,
		j.runToken, module,
	); err != nil {
		db.Close()
		return nil, fmt.Errorf("start journal run: %w", err)
	}

	slog.Info("journal run started", "path", path, "run_token", j.runToken)
	return j, nil
}

func applyPragmas(db *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA busy_timeout = 5000",
		"PRAGMA foreign_keys = ON",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			return fmt.Errorf("apply pragma %q: %w", pragma, err)
		}
	}
	return nil
}

// Close closes the underlying database.
func (j *Journal) Close() error {
	if j.db == nil {
		return nil
	}
	return j.db.Close()
}

// RunToken returns the token identifying this journal run.
func (j *Journal) RunToken() string {
	return j.runToken
}

// HandleCoilChange logs one coil transition. Satisfies the façade's
// coil-change handler contract.
func (j *Journal) HandleCoilChange(name string, oldValue, newValue bool) error {
	j.seq++
	if _, err := j.db.Exec(
		`INSERT INTO transitions (run_token, seq, coil, old_value, new_value)
		 VALUES (?, ?, ?, ?, ?)`,
		j.runToken, j.seq, name, boolInt(oldValue), boolInt(newValue),
	); err != nil {
		return fmt.Errorf("journal transition %s: %w", name, err)
	}
	return nil
}

// HandleCycleComplete logs a completed cycle's full output map as JSON.
// Satisfies the façade's cycle-complete handler contract.
func (j *Journal) HandleCycleComplete(outputs map[string]bool) error {
	// encoding/json sorts map keys, so the stored document is canonical.
	data, err := json.Marshal(outputs)
	if err != nil {
		return fmt.Errorf("journal cycle outputs: %w", err)
	}
	j.seq++
	if _, err := j.db.Exec(
		`INSERT INTO cycles (run_token, seq, outputs) VALUES (?, ?, ?)`,
		j.runToken, j.seq, string(data),
	); err != nil {
		return fmt.Errorf("journal cycle: %w", err)
	}
	return nil
}

// Runs returns every run token in the database, oldest first.
// Run tokens are UUIDv7, so lexical order is creation order.
func (j *Journal) Runs(ctx context.Context) ([]string, error) {
	rows, err := j.db.QueryContext(ctx,
		`SELECT run_token FROM runs ORDER BY run_token`)
	if err != nil {
		return nil, fmt.Errorf("read runs: %w", err)
	}
	defer rows.Close()

	var tokens []string
	for rows.Next() {
		var token string
		if err := rows.Scan(&token); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		tokens = append(tokens, token)
	}
	return tokens, rows.Err()
}

// Transitions returns this run's logged transitions in seq order.
func (j *Journal) Transitions(ctx context.Context) ([]Transition, error) {
	return j.TransitionsFor(ctx, j.runToken)
}

// TransitionsFor returns the logged transitions of any run in the
// database, in seq order.
func (j *Journal) TransitionsFor(ctx context.Context, runToken string) ([]Transition, error) {
	rows, err := j.db.QueryContext(ctx,
		`SELECT seq, coil, old_value, new_value
		 FROM transitions WHERE run_token = ? ORDER BY seq`,
		runToken,
	)
	if err != nil {
		return nil, fmt.Errorf("read transitions: %w", err)
	}
	defer rows.Close()

	var out []Transition
	for rows.Next() {
		var tr Transition
		var oldV, newV int
		if err := rows.Scan(&tr.Seq, &tr.Coil, &oldV, &newV); err != nil {
			return nil, fmt.Errorf("scan transition: %w", err)
		}
		tr.Old = oldV != 0
		tr.New = newV != 0
		out = append(out, tr)
	}
	return out, rows.Err()
}

// CycleCount returns the number of completed cycles logged for this run.
func (j *Journal) CycleCount(ctx context.Context) (int, error) {
	var n int
	err := j.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM cycles WHERE run_token = ?`, j.runToken,
	).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count cycles: %w", err)
	}
	return n, nil
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
