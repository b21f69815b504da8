// Package store provides storage backends for CoachCore.
//
// This file implements the SQLite-backed store.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	_ "embed"

	"github.com/lymhealth/coachcore/internal/models"
	_ "github.com/mattn/go-sqlite3"
)

// DefaultDirPermissions defines the default permissions for database directories.
const DefaultDirPermissions = 0755

//go:embed migrations_sqlite.sql
var sqliteMigrations string

// SQLiteStore persists turns, the action ledger, and template cursors in a
// local SQLite database.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore creates a new SQLite store with the given DSN. The DSN is a
// file path; the parent directory is created if missing.
func NewSQLiteStore(opts ...Option) (*SQLiteStore, error) {
	var cfg Opts
	for _, opt := range opts {
		opt(&cfg)
	}
	slog.Debug("NewSQLiteStore invoked", "DSN_set", cfg.DSN != "")

	dsn := cfg.DSN
	if dsn == "" {
		slog.Error("SQLiteStore DSN not set")
		return nil, fmt.Errorf("database DSN not set")
	}

	dir := filepath.Dir(dsn)
	if err := os.MkdirAll(dir, DefaultDirPermissions); err != nil {
		slog.Error("Failed to create database directory", "error", err, "dir", dir)
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		slog.Error("Failed to open SQLite connection", "error", err)
		return nil, err
	}

	if err := db.Ping(); err != nil {
		slog.Error("SQLite ping failed", "error", err)
		return nil, err
	}

	if _, err := db.Exec(sqliteMigrations); err != nil {
		slog.Error("Failed to run migrations", "error", err)
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}
	slog.Debug("SQLite migrations applied successfully")

	return &SQLiteStore{db: db}, nil
}

// AddTurn persists one conversation turn.
func (s *SQLiteStore) AddTurn(ctx context.Context, turn models.Turn) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO turns (id, user_id, role, body, intent, timestamp) VALUES (?, ?, ?, ?, ?, ?)`,
		turn.ID, turn.UserID, turn.Role, turn.Body, string(turn.Intent), turn.Timestamp)
	if err != nil {
		slog.Error("SQLiteStore AddTurn failed", "error", err, "userID", turn.UserID)
		return fmt.Errorf("failed to insert turn for %s: %w", turn.UserID, err)
	}
	return nil
}

// GetRecentTurns returns up to limit most recent turns, oldest first.
func (s *SQLiteStore) GetRecentTurns(ctx context.Context, userID string, limit int) ([]models.Turn, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, user_id, role, body, intent, timestamp FROM turns
		 WHERE user_id = ? ORDER BY timestamp DESC LIMIT ?`, userID, limit)
	if err != nil {
		slog.Error("SQLiteStore GetRecentTurns query failed", "error", err, "userID", userID)
		return nil, fmt.Errorf("failed to query turns: %w", err)
	}
	defer rows.Close()

	turns, err := scanTurns(rows)
	if err != nil {
		slog.Error("SQLiteStore GetRecentTurns scan failed", "error", err, "userID", userID)
		return nil, err
	}
	reverseTurns(turns)
	return turns, nil
}

// CountToday returns today's ledger count for the action type.
func (s *SQLiteStore) CountToday(ctx context.Context, userID string, actionType models.ActionType) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx,
		`SELECT count FROM action_ledger WHERE user_id = ? AND day = ? AND action_type = ?`,
		userID, dateKey(time.Now()), string(actionType)).Scan(&count)
	if err == sql.ErrNoRows {
		return 0, nil
	}
	if err != nil {
		slog.Error("SQLiteStore CountToday failed", "error", err, "userID", userID, "actionType", actionType)
		return 0, fmt.Errorf("failed to query ledger: %w", err)
	}
	return count, nil
}

// Increment records one action execution for today.
func (s *SQLiteStore) Increment(ctx context.Context, userID string, actionType models.ActionType) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO action_ledger (user_id, day, action_type, count) VALUES (?, ?, ?, 1)
		 ON CONFLICT(user_id, day, action_type) DO UPDATE SET count = count + 1`,
		userID, dateKey(time.Now()), string(actionType))
	if err != nil {
		slog.Error("SQLiteStore Increment failed", "error", err, "userID", userID, "actionType", actionType)
		return fmt.Errorf("failed to increment ledger: %w", err)
	}
	return nil
}

// Next returns the rotation cursor for (user, intent) and advances it.
func (s *SQLiteStore) Next(ctx context.Context, userID string, in models.Intent) (int, error) {
	var cursor int
	err := s.db.QueryRowContext(ctx,
		`INSERT INTO template_cursors (user_id, intent, cursor) VALUES (?, ?, 1)
		 ON CONFLICT(user_id, intent) DO UPDATE SET cursor = cursor + 1
		 RETURNING cursor - 1`,
		userID, string(in)).Scan(&cursor)
	if err != nil {
		slog.Error("SQLiteStore Next failed", "error", err, "userID", userID, "intent", in)
		return 0, fmt.Errorf("failed to advance cursor: %w", err)
	}
	return cursor, nil
}

// Close closes the SQLite database connection.
func (s *SQLiteStore) Close() error {
	slog.Debug("Closing SQLite database connection")
	return s.db.Close()
}
