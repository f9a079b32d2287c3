// Package cache keeps a local SQLite mirror of the last fetched problems
// and notes so views can render instantly while the network round-trip is
// in flight. The cache carries no authority: server responses always
// overwrite it, and a cache written for a different user is discarded.
package cache

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"

	"github.com/sampathkupparaju/coachingapp/internal/model"
)

const fileName = "cache.db"

type Cache struct {
	db *sql.DB
}

// Open opens (or creates) the cache database under dir.
func Open(dir string) (*Cache, error) {
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("create cache dir: %w", err)
	}
	db, err := sql.Open("sqlite", filepath.Join(dir, fileName)+"?_pragma=journal_mode(wal)")
	if err != nil {
		return nil, fmt.Errorf("open cache: %w", err)
	}
	c := &Cache{db: db}
	if err := c.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate cache: %w", err)
	}
	return c, nil
}

func (c *Cache) Close() error { return c.db.Close() }

func (c *Cache) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS meta (
		key   TEXT PRIMARY KEY,
		value TEXT NOT NULL
	);
	CREATE TABLE IF NOT EXISTS problems (
		id           INTEGER PRIMARY KEY,
		title        TEXT NOT NULL,
		topic        TEXT NOT NULL,
		difficulty   TEXT NOT NULL,
		solved       INTEGER NOT NULL DEFAULT 0,
		starred      INTEGER NOT NULL DEFAULT 0,
		leetcode_url TEXT NOT NULL DEFAULT '',
		neetcode_url TEXT NOT NULL DEFAULT '',
		position     INTEGER NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_problems_topic ON problems(topic);
	CREATE TABLE IF NOT EXISTS notes (
		problem_id TEXT PRIMARY KEY,
		note       TEXT NOT NULL
	);
	`
	_, err := c.db.Exec(schema)
	return err
}

// UserID returns the user id the cached data belongs to, "" when the cache
// is empty.
func (c *Cache) UserID(ctx context.Context) (string, error) {
	var v string
	err := c.db.QueryRowContext(ctx, `SELECT value FROM meta WHERE key = 'user_id'`).Scan(&v)
	if err == sql.ErrNoRows {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("read cache owner: %w", err)
	}
	return v, nil
}

// EnsureOwner wipes the cache when it belongs to a different user and
// records the current one. Toggles and notes are per-user, so cached rows
// from somebody else must never leak into another account's view.
func (c *Cache) EnsureOwner(ctx context.Context, userID string) error {
	owner, err := c.UserID(ctx)
	if err != nil {
		return err
	}
	if owner == userID {
		return nil
	}
	tx, err := c.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin cache reset: %w", err)
	}
	defer tx.Rollback()
	for _, stmt := range []string{`DELETE FROM problems`, `DELETE FROM notes`} {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("reset cache: %w", err)
		}
	}
	if _, err := tx.ExecContext(ctx,
		`INSERT INTO meta (key, value) VALUES ('user_id', ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value`, userID); err != nil {
		return fmt.Errorf("record cache owner: %w", err)
	}
	return tx.Commit()
}

// PutProblems replaces the cached problem set, preserving server order via
// the position column.
func (c *Cache) PutProblems(ctx context.Context, ps []model.Problem) error {
	tx, err := c.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin problems write: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM problems`); err != nil {
		return fmt.Errorf("clear problems: %w", err)
	}
	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO problems (id, title, topic, difficulty, solved, starred, leetcode_url, neetcode_url, position)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare problems write: %w", err)
	}
	defer stmt.Close()
	for i, p := range ps {
		if _, err := stmt.ExecContext(ctx, p.ID, p.Title, p.Topic, string(p.Difficulty),
			boolInt(p.Solved), boolInt(p.Starred), p.LeetcodeURL, p.NeetCodeURL, i); err != nil {
			return fmt.Errorf("cache problem %d: %w", p.ID, err)
		}
	}
	return tx.Commit()
}

// Problems returns the cached problem set in server order.
func (c *Cache) Problems(ctx context.Context) ([]model.Problem, error) {
	rows, err := c.db.QueryContext(ctx, `
		SELECT id, title, topic, difficulty, solved, starred, leetcode_url, neetcode_url
		FROM problems ORDER BY position`)
	if err != nil {
		return nil, fmt.Errorf("read cached problems: %w", err)
	}
	defer rows.Close()

	var out []model.Problem
	for rows.Next() {
		var p model.Problem
		var diff string
		var solved, starred int
		if err := rows.Scan(&p.ID, &p.Title, &p.Topic, &diff, &solved, &starred, &p.LeetcodeURL, &p.NeetCodeURL); err != nil {
			return nil, fmt.Errorf("scan cached problem: %w", err)
		}
		p.Difficulty = model.Difficulty(diff)
		p.Solved = solved != 0
		p.Starred = starred != 0
		out = append(out, p)
	}
	return out, rows.Err()
}

// PutNotes replaces the cached notes map.
func (c *Cache) PutNotes(ctx context.Context, notes model.Notes) error {
	tx, err := c.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin notes write: %w", err)
	}
	defer tx.Rollback()
	if _, err := tx.ExecContext(ctx, `DELETE FROM notes`); err != nil {
		return fmt.Errorf("clear notes: %w", err)
	}
	for id, note := range notes {
		if _, err := tx.ExecContext(ctx, `INSERT INTO notes (problem_id, note) VALUES (?, ?)`, id, note); err != nil {
			return fmt.Errorf("cache note %s: %w", id, err)
		}
	}
	return tx.Commit()
}

// PutNote upserts a single note after a confirmed save so the cache tracks
// the last saved text, not the edit buffer.
func (c *Cache) PutNote(ctx context.Context, problemID, note string) error {
	_, err := c.db.ExecContext(ctx, `
		INSERT INTO notes (problem_id, note) VALUES (?, ?)
		ON CONFLICT(problem_id) DO UPDATE SET note = excluded.note`, problemID, note)
	if err != nil {
		return fmt.Errorf("cache note %s: %w", problemID, err)
	}
	return nil
}

// Notes returns the cached notes map.
func (c *Cache) Notes(ctx context.Context) (model.Notes, error) {
	rows, err := c.db.QueryContext(ctx, `SELECT problem_id, note FROM notes`)
	if err != nil {
		return nil, fmt.Errorf("read cached notes: %w", err)
	}
	defer rows.Close()

	out := model.Notes{}
	for rows.Next() {
		var id, note string
		if err := rows.Scan(&id, &note); err != nil {
			return nil, fmt.Errorf("scan cached note: %w", err)
		}
		out[id] = note
	}
	return out, rows.Err()
}

// ApplyToggle mirrors a server-confirmed toggle into the cache.
func (c *Cache) ApplyToggle(ctx context.Context, problemID int64, ts model.ToggleState) error {
	_, err := c.db.ExecContext(ctx,
		`UPDATE problems SET solved = ?, starred = ? WHERE id = ?`,
		boolInt(ts.Solved), boolInt(ts.Starred), problemID)
	if err != nil {
		return fmt.Errorf("cache toggle %d: %w", problemID, err)
	}
	return nil
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
