// Package store is the persistence gate: a SQLite key-value namespace that
// records which games have been submitted and autosaves proposal drafts.
package store

import (
	"context"
	"database/sql"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/pressly/goose/v3"
	"github.com/tatianab/impact-games/internal/models"
	_ "modernc.org/sqlite"
)

//go:embed migrations/*.sql
var migrations embed.FS

// ErrAlreadySubmitted is returned when a game's submission flag is set.
var ErrAlreadySubmitted = errors.New("game already submitted")

// Store is a SQLite-backed key-value store.
type Store struct {
	db  *sql.DB
	now func() time.Time
}

// Open opens the database at path and applies migrations. ":memory:"
// opens a private in-memory database.
func Open(ctx context.Context, path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	// One connection keeps in-memory databases shared and writes serialized.
	db.SetMaxOpenConns(1)
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	if path != ":memory:" {
		if _, err := db.ExecContext(ctx, "PRAGMA journal_mode=WAL"); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("enable WAL mode: %w", err)
		}
	}
	if err := migrate(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &Store{db: db, now: time.Now}, nil
}

func migrate(ctx context.Context, db *sql.DB) error {
	fsys, err := fs.Sub(migrations, "migrations")
	if err != nil {
		return fmt.Errorf("migrations fs: %w", err)
	}
	p, err := goose.NewProvider(goose.DialectSQLite3, db, fsys)
	if err != nil {
		return fmt.Errorf("migration provider: %w", err)
	}
	if _, err := p.Up(ctx); err != nil {
		return fmt.Errorf("run migrations: %w", err)
	}
	return nil
}

// Close releases the database.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

func submittedKey(game string) string  { return game + "-submitted" }
func submissionKey(game string) string { return game + "-submission" }
func draftKey(game, entryID string) string {
	return game + "-proposal-" + entryID
}

// Get returns the value of key and whether it exists.
func (s *Store) Get(ctx context.Context, key string) (string, bool, error) {
	var value string
	err := s.db.QueryRowContext(ctx, `SELECT value FROM kv WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("get %s: %w", key, err)
	}
	return value, true, nil
}

// Set writes key.
func (s *Store) Set(ctx context.Context, key, value string) error {
	return set(ctx, s.db, key, value, s.now())
}

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func set(ctx context.Context, db execer, key, value string, at time.Time) error {
	_, err := db.ExecContext(ctx, `
INSERT INTO kv (key, value, updated_at) VALUES (?, ?, ?)
ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at
`, key, value, at.UTC().UnixMilli())
	if err != nil {
		return fmt.Errorf("set %s: %w", key, err)
	}
	return nil
}

// IsSubmitted reports whether game has been submitted.
func (s *Store) IsSubmitted(ctx context.Context, game string) (bool, error) {
	v, ok, err := s.Get(ctx, submittedKey(game))
	if err != nil {
		return false, err
	}
	return ok && v == "true", nil
}

// MarkSubmitted stores the submission payload and sets the flag in one
// transaction. A game can be submitted once.
func (s *Store) MarkSubmitted(ctx context.Context, game string, sub models.Submission) error {
	payload, err := json.Marshal(sub)
	if err != nil {
		return fmt.Errorf("encode submission: %w", err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	var flag string
	err = tx.QueryRowContext(ctx, `SELECT value FROM kv WHERE key = ?`, submittedKey(game)).Scan(&flag)
	switch {
	case err == nil && flag == "true":
		return fmt.Errorf("%w: %s", ErrAlreadySubmitted, game)
	case err != nil && !errors.Is(err, sql.ErrNoRows):
		return fmt.Errorf("check submission: %w", err)
	}

	now := s.now()
	if err := set(ctx, tx, submissionKey(game), string(payload), now); err != nil {
		return err
	}
	if err := set(ctx, tx, submittedKey(game), "true", now); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit submission: %w", err)
	}
	return nil
}

// Submission returns the stored submission of game.
func (s *Store) Submission(ctx context.Context, game string) (models.Submission, bool, error) {
	v, ok, err := s.Get(ctx, submissionKey(game))
	if err != nil || !ok {
		return models.Submission{}, false, err
	}
	var sub models.Submission
	if err := json.Unmarshal([]byte(v), &sub); err != nil {
		return models.Submission{}, false, fmt.Errorf("decode submission: %w", err)
	}
	return sub, true, nil
}

// SaveDraft autosaves a proposal draft for one entry.
func (s *Store) SaveDraft(ctx context.Context, game, entryID, text string) error {
	return s.Set(ctx, draftKey(game, entryID), text)
}

// LoadDraft returns the saved draft, or "" when there is none.
func (s *Store) LoadDraft(ctx context.Context, game, entryID string) (string, error) {
	v, _, err := s.Get(ctx, draftKey(game, entryID))
	return v, err
}
