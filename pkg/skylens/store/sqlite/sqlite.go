package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/skylens-io/skylens/pkg/skylens/internalerr"
	"github.com/skylens-io/skylens/pkg/skylens/store"
)

// sqliteStore implements the Store interface using SQLite
type sqliteStore struct {
	db *sql.DB
}

// Open opens (creating if needed) a run archive with WAL mode enabled.
func Open(ctx context.Context, path string) (store.Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}

	// Enable WAL mode for better concurrency
	if _, err := db.ExecContext(ctx, "PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, err
	}

	if _, err := db.ExecContext(ctx, "PRAGMA foreign_keys=ON"); err != nil {
		db.Close()
		return nil, err
	}

	if err := initSchema(ctx, db); err != nil {
		db.Close()
		return nil, err
	}

	return &sqliteStore{db: db}, nil
}

// Close closes the database connection
func (s *sqliteStore) Close() error {
	return s.db.Close()
}

// initSchema creates tables if they don't exist
func initSchema(ctx context.Context, db *sql.DB) error {
	schema := `
CREATE TABLE IF NOT EXISTS runs (
	id TEXT PRIMARY KEY,
	label TEXT NOT NULL,
	created_at TEXT NOT NULL,
	docs INTEGER NOT NULL,
	topics INTEGER NOT NULL,
	skipped INTEGER NOT NULL DEFAULT 0
);

CREATE TABLE IF NOT EXISTS topics (
	run_id TEXT NOT NULL,
	topic_id INTEGER NOT NULL,
	size INTEGER NOT NULL,
	keywords TEXT NOT NULL,
	PRIMARY KEY(run_id, topic_id),
	FOREIGN KEY(run_id) REFERENCES runs(id) ON DELETE CASCADE
);

CREATE TABLE IF NOT EXISTS assignments (
	run_id TEXT NOT NULL,
	post_id TEXT NOT NULL,
	topic_id INTEGER NOT NULL,
	PRIMARY KEY(run_id, post_id),
	FOREIGN KEY(run_id) REFERENCES runs(id) ON DELETE CASCADE
);
`

	_, err := db.ExecContext(ctx, schema)
	return err
}

// SaveRun inserts or replaces a run row.
func (s *sqliteStore) SaveRun(ctx context.Context, r store.Run) error {
	const stmt = `
INSERT INTO runs (id, label, created_at, docs, topics, skipped)
VALUES (?, ?, ?, ?, ?, ?)
ON CONFLICT(id) DO UPDATE SET
	label=excluded.label,
	created_at=excluded.created_at,
	docs=excluded.docs,
	topics=excluded.topics,
	skipped=excluded.skipped;
`
	skipped := 0
	if r.Skipped {
		skipped = 1
	}
	_, err := s.db.ExecContext(ctx, stmt,
		r.ID, r.Label, r.CreatedAt.UTC().Format(time.RFC3339), r.Docs, r.Topics, skipped)
	return err
}

// GetRun fetches one run by id.
func (s *sqliteStore) GetRun(ctx context.Context, id string) (store.Run, error) {
	const stmt = `SELECT id, label, created_at, docs, topics, skipped FROM runs WHERE id = ?`
	return scanRun(s.db.QueryRowContext(ctx, stmt, id))
}

// ListRuns returns all runs, newest first.
func (s *sqliteStore) ListRuns(ctx context.Context) ([]store.Run, error) {
	const stmt = `SELECT id, label, created_at, docs, topics, skipped FROM runs ORDER BY id DESC`
	rows, err := s.db.QueryContext(ctx, stmt)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var runs []store.Run
	for rows.Next() {
		r, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

// LatestRun returns the most recently created run. ULID ids sort by
// creation time, so the highest id is the latest.
func (s *sqliteStore) LatestRun(ctx context.Context) (store.Run, error) {
	const stmt = `SELECT id, label, created_at, docs, topics, skipped FROM runs ORDER BY id DESC LIMIT 1`
	return scanRun(s.db.QueryRowContext(ctx, stmt))
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRun(row rowScanner) (store.Run, error) {
	var r store.Run
	var created string
	var skipped int
	err := row.Scan(&r.ID, &r.Label, &created, &r.Docs, &r.Topics, &skipped)
	if err == sql.ErrNoRows {
		return store.Run{}, internalerr.ErrNotFound
	}
	if err != nil {
		return store.Run{}, err
	}
	r.CreatedAt, err = time.Parse(time.RFC3339, created)
	if err != nil {
		return store.Run{}, fmt.Errorf("parse run timestamp: %w", err)
	}
	r.Skipped = skipped != 0
	return r, nil
}

// SaveTopics replaces the topic table of a run.
func (s *sqliteStore) SaveTopics(ctx context.Context, runID string, ts []store.Topic) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM topics WHERE run_id = ?`, runID); err != nil {
		return err
	}
	const stmt = `INSERT INTO topics (run_id, topic_id, size, keywords) VALUES (?, ?, ?, ?)`
	for _, t := range ts {
		keywords, err := json.Marshal(t.Keywords)
		if err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, stmt, runID, t.ID, t.Size, string(keywords)); err != nil {
			return err
		}
	}
	return tx.Commit()
}

// GetTopics returns a run's topics ordered by id.
func (s *sqliteStore) GetTopics(ctx context.Context, runID string) ([]store.Topic, error) {
	const stmt = `SELECT topic_id, size, keywords FROM topics WHERE run_id = ? ORDER BY topic_id`
	rows, err := s.db.QueryContext(ctx, stmt, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var topics []store.Topic
	for rows.Next() {
		var t store.Topic
		var keywords string
		if err := rows.Scan(&t.ID, &t.Size, &keywords); err != nil {
			return nil, err
		}
		if err := json.Unmarshal([]byte(keywords), &t.Keywords); err != nil {
			return nil, fmt.Errorf("decode keywords for run %s topic %d: %w", runID, t.ID, err)
		}
		topics = append(topics, t)
	}
	return topics, rows.Err()
}

// SaveAssignments replaces the per-post topic assignments of a run.
func (s *sqliteStore) SaveAssignments(ctx context.Context, runID string, as []store.Assignment) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM assignments WHERE run_id = ?`, runID); err != nil {
		return err
	}
	const stmt = `INSERT INTO assignments (run_id, post_id, topic_id) VALUES (?, ?, ?)`
	for _, a := range as {
		if _, err := tx.ExecContext(ctx, stmt, runID, a.PostID, a.Topic); err != nil {
			return err
		}
	}
	return tx.Commit()
}

// GetAssignments returns a run's assignments ordered by post id.
func (s *sqliteStore) GetAssignments(ctx context.Context, runID string) ([]store.Assignment, error) {
	const stmt = `SELECT post_id, topic_id FROM assignments WHERE run_id = ? ORDER BY post_id`
	rows, err := s.db.QueryContext(ctx, stmt, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var as []store.Assignment
	for rows.Next() {
		var a store.Assignment
		if err := rows.Scan(&a.PostID, &a.Topic); err != nil {
			return nil, err
		}
		as = append(as, a)
	}
	return as, rows.Err()
}
