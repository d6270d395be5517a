// Package ledger stores chunk digests in SQLite so later runs can check that
// the same seed still generates the same chunks.
package ledger

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/OCharnyshevich/minecraft-worldgen/pkg/world/chunk"
)

// World identifies what a digest was generated from.
type World struct {
	Seed      int64
	Algorithm string
	Generator string
}

// Run is one recording session.
type Run struct {
	ID        uuid.UUID
	World     World
	CreatedAt time.Time
	Chunks    int
}

// Ledger is a SQLite digest store. It is safe for concurrent use.
type Ledger struct {
	db *sql.DB
}

// Open opens or creates the ledger at path.
func Open(path string) (*Ledger, error) {
	if path == "" {
		return nil, fmt.Errorf("empty ledger path")
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
	db.SetConnMaxLifetime(0)

	if err := initSchema(db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ledger schema: %w", err)
	}
	return &Ledger{db: db}, nil
}

func initSchema(db *sql.DB) error {
	stmts := []string{
		"PRAGMA journal_mode=WAL;",
		"PRAGMA busy_timeout=5000;",
		`CREATE TABLE IF NOT EXISTS runs (
			id TEXT PRIMARY KEY,
			seed INTEGER NOT NULL,
			algorithm TEXT NOT NULL,
			generator TEXT NOT NULL,
			created_at TEXT NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS digests (
			seed INTEGER NOT NULL,
			algorithm TEXT NOT NULL,
			generator TEXT NOT NULL,
			chunk_x INTEGER NOT NULL,
			chunk_z INTEGER NOT NULL,
			digest INTEGER NOT NULL,
			run_id TEXT NOT NULL REFERENCES runs(id),
			PRIMARY KEY (seed, algorithm, generator, chunk_x, chunk_z)
		);`,
		`CREATE INDEX IF NOT EXISTS digests_run ON digests(run_id);`,
	}
	for _, s := range stmts {
		if _, err := db.Exec(s); err != nil {
			return err
		}
	}
	return nil
}

// Close closes the database.
func (l *Ledger) Close() error {
	return l.db.Close()
}

// StartRun registers a new recording session and returns its id.
func (l *Ledger) StartRun(ctx context.Context, w World) (uuid.UUID, error) {
	id := uuid.New()
	_, err := l.db.ExecContext(ctx,
		`INSERT INTO runs (id, seed, algorithm, generator, created_at) VALUES (?, ?, ?, ?, ?)`,
		id.String(), w.Seed, w.Algorithm, w.Generator, time.Now().UTC().Format(time.RFC3339Nano))
	if err != nil {
		return uuid.Nil, fmt.Errorf("start run: %w", err)
	}
	return id, nil
}

// Record stores the digest of the chunk at pos, replacing an earlier one.
func (l *Ledger) Record(ctx context.Context, run uuid.UUID, w World, pos chunk.ChunkPos, digest uint64) error {
	_, err := l.db.ExecContext(ctx,
		`INSERT INTO digests (seed, algorithm, generator, chunk_x, chunk_z, digest, run_id) VALUES (?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT (seed, algorithm, generator, chunk_x, chunk_z) DO UPDATE SET digest = excluded.digest, run_id = excluded.run_id`,
		w.Seed, w.Algorithm, w.Generator, pos.X, pos.Z, int64(digest), run.String())
	if err != nil {
		return fmt.Errorf("record %v: %w", pos, err)
	}
	return nil
}

// Lookup returns the recorded digest of the chunk at pos.
func (l *Ledger) Lookup(ctx context.Context, w World, pos chunk.ChunkPos) (uint64, bool, error) {
	var d int64
	err := l.db.QueryRowContext(ctx,
		`SELECT digest FROM digests WHERE seed = ? AND algorithm = ? AND generator = ? AND chunk_x = ? AND chunk_z = ?`,
		w.Seed, w.Algorithm, w.Generator, pos.X, pos.Z).Scan(&d)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("lookup %v: %w", pos, err)
	}
	return uint64(d), true, nil
}

// Mismatch is a chunk whose digest differs from the recorded one.
type Mismatch struct {
	Pos      chunk.ChunkPos
	Recorded uint64
	Got      uint64
}

func (m Mismatch) Error() string {
	return fmt.Sprintf("chunk %v: digest %016x, recorded %016x", m.Pos, m.Got, m.Recorded)
}

// Verify compares digest with the recorded value. It returns a Mismatch error
// when they differ and reports whether a value was recorded at all.
func (l *Ledger) Verify(ctx context.Context, w World, pos chunk.ChunkPos, digest uint64) (bool, error) {
	recorded, ok, err := l.Lookup(ctx, w, pos)
	if err != nil || !ok {
		return ok, err
	}
	if recorded != digest {
		return true, Mismatch{Pos: pos, Recorded: recorded, Got: digest}
	}
	return true, nil
}

// Runs lists the runs recorded for w, newest first, with how many digests
// each one still owns.
func (l *Ledger) Runs(ctx context.Context, w World) ([]Run, error) {
	rows, err := l.db.QueryContext(ctx,
		`SELECT r.id, r.created_at, COUNT(d.run_id) FROM runs r
		 LEFT JOIN digests d ON d.run_id = r.id
		 WHERE r.seed = ? AND r.algorithm = ? AND r.generator = ?
		 GROUP BY r.id, r.created_at ORDER BY r.created_at DESC`,
		w.Seed, w.Algorithm, w.Generator)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	defer rows.Close()

	var out []Run
	for rows.Next() {
		var (
			id, created string
			n           int
		)
		if err := rows.Scan(&id, &created, &n); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		r := Run{World: w, Chunks: n}
		if r.ID, err = uuid.Parse(id); err != nil {
			return nil, fmt.Errorf("run id %q: %w", id, err)
		}
		if r.CreatedAt, err = time.Parse(time.RFC3339Nano, created); err != nil {
			return nil, fmt.Errorf("run %s time: %w", id, err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}
