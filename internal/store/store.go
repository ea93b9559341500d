// Package store persists graded results. Each row carries the full
// serialized Result, including the per-question snapshot, so a stored
// attempt stays reviewable even after the source exam file is edited or
// deleted. Rows are write-once: there is no update path.
package store

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/javimcasas/smartquiz/internal/model"

	_ "modernc.org/sqlite"
)

// ErrNotFound is returned when no result exists under the given key.
var ErrNotFound = errors.New("result not found")

// Summary is the listing view of a stored result.
type Summary struct {
	Key         string
	ExamID      string
	ExamTitle   string
	CompletedAt time.Time
	Percentage  float64
	Passed      *bool
}

type Store struct {
	db *sql.DB
}

// New opens (and if necessary creates) the result database.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite", dbPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("ping database: %w", err)
	}
	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return s, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS results (
		key TEXT PRIMARY KEY,
		exam_id TEXT NOT NULL,
		exam_title TEXT NOT NULL,
		completed_at DATETIME NOT NULL,
		percentage REAL NOT NULL,
		passed INTEGER,
		data TEXT NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_results_completed_at ON results(completed_at);
	`
	_, err := s.db.Exec(schema)
	return err
}

// Save stores a result and returns its storage key. A result is written
// exactly once; Save never overwrites an existing row.
func (s *Store) Save(res *model.Result) (string, error) {
	data, err := json.Marshal(res)
	if err != nil {
		return "", fmt.Errorf("marshal result: %w", err)
	}

	key := uuid.NewString()
	var passed any
	if res.Passed != nil {
		passed = *res.Passed
	}
	_, err = s.db.Exec(
		`INSERT INTO results (key, exam_id, exam_title, completed_at, percentage, passed, data)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		key, res.ExamID, res.ExamTitle, res.CompletedAt, res.Percentage, passed, string(data),
	)
	if err != nil {
		return "", fmt.Errorf("insert result: %w", err)
	}
	return key, nil
}

// Load returns the stored result for a key.
func (s *Store) Load(key string) (*model.Result, error) {
	var data string
	err := s.db.QueryRow(`SELECT data FROM results WHERE key = ?`, key).Scan(&data)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("result %q: %w", key, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("load result %q: %w", key, err)
	}

	var res model.Result
	if err := json.Unmarshal([]byte(data), &res); err != nil {
		return nil, fmt.Errorf("decode result %q: %w", key, err)
	}
	return &res, nil
}

// ListRecent returns summaries of all stored results, most recently
// completed first.
func (s *Store) ListRecent() ([]Summary, error) {
	rows, err := s.db.Query(
		`SELECT key, exam_id, exam_title, completed_at, percentage, passed
		 FROM results ORDER BY completed_at DESC, rowid DESC`,
	)
	if err != nil {
		return nil, fmt.Errorf("list results: %w", err)
	}
	defer rows.Close()

	var summaries []Summary
	for rows.Next() {
		var sum Summary
		var passed sql.NullBool
		if err := rows.Scan(&sum.Key, &sum.ExamID, &sum.ExamTitle, &sum.CompletedAt, &sum.Percentage, &passed); err != nil {
			return nil, err
		}
		if passed.Valid {
			sum.Passed = &passed.Bool
		}
		summaries = append(summaries, sum)
	}
	return summaries, rows.Err()
}
