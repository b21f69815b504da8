// Package store provides storage backends for CoachCore.
//
// This file implements the PostgreSQL-backed store.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	_ "embed"

	"github.com/lymhealth/coachcore/internal/models"
	_ "github.com/lib/pq"
)

// Database connection pool configuration constants.
const (
	// DefaultMaxOpenConns is the default maximum number of open connections.
	DefaultMaxOpenConns = 25
	// DefaultMaxIdleConns is the default maximum number of idle connections.
	DefaultMaxIdleConns = 25
	// DefaultConnMaxLifetime is the default maximum connection reuse time.
	DefaultConnMaxLifetime = 5 * time.Minute
)

//go:embed migrations_postgres.sql
var postgresMigrations string

// PostgresStore persists turns, the action ledger, and template cursors in
// PostgreSQL for multi-user server deployments.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgresStore creates a new Postgres store based on provided options.
func NewPostgresStore(opts ...Option) (*PostgresStore, error) {
	var cfg Opts
	for _, opt := range opts {
		opt(&cfg)
	}
	slog.Debug("PostgresStore.NewPostgresStore: creating Postgres store", "DSN_set", cfg.DSN != "")

	dsn := cfg.DSN
	if dsn == "" {
		slog.Error("PostgresStore DSN not set")
		return nil, fmt.Errorf("database DSN not set")
	}

	db, err := sql.Open("postgres", dsn)
	if err != nil {
		slog.Error("Failed to open Postgres connection", "error", err)
		return nil, err
	}

	db.SetMaxOpenConns(DefaultMaxOpenConns)
	db.SetMaxIdleConns(DefaultMaxIdleConns)
	db.SetConnMaxLifetime(DefaultConnMaxLifetime)

	if err := db.Ping(); err != nil {
		slog.Error("Postgres ping failed", "error", err)
		return nil, err
	}

	if _, err := db.Exec(postgresMigrations); err != nil {
		slog.Error("Failed to run migrations", "error", err)
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}
	slog.Debug("Postgres migrations applied successfully")

	return &PostgresStore{db: db}, nil
}

// AddTurn persists one conversation turn.
func (s *PostgresStore) AddTurn(ctx context.Context, turn models.Turn) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO turns (id, user_id, role, body, intent, timestamp) VALUES ($1, $2, $3, $4, $5, $6)`,
		turn.ID, turn.UserID, turn.Role, turn.Body, string(turn.Intent), turn.Timestamp)
	if err != nil {
		slog.Error("PostgresStore AddTurn failed", "error", err, "userID", turn.UserID)
		return fmt.Errorf("failed to insert turn for %s: %w", turn.UserID, err)
	}
	return nil
}

// GetRecentTurns returns up to limit most recent turns, oldest first.
func (s *PostgresStore) GetRecentTurns(ctx context.Context, userID string, limit int) ([]models.Turn, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, user_id, role, body, intent, timestamp FROM turns
		 WHERE user_id = $1 ORDER BY timestamp DESC LIMIT $2`, userID, limit)
	if err != nil {
		slog.Error("PostgresStore GetRecentTurns query failed", "error", err, "userID", userID)
		return nil, fmt.Errorf("failed to query turns: %w", err)
	}
	defer rows.Close()

	turns, err := scanTurns(rows)
	if err != nil {
		slog.Error("PostgresStore GetRecentTurns scan failed", "error", err, "userID", userID)
		return nil, err
	}
	reverseTurns(turns)
	return turns, nil
}

// CountToday returns today's ledger count for the action type.
func (s *PostgresStore) CountToday(ctx context.Context, userID string, actionType models.ActionType) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx,
		`SELECT count FROM action_ledger WHERE user_id = $1 AND day = $2 AND action_type = $3`,
		userID, dateKey(time.Now()), string(actionType)).Scan(&count)
	if err == sql.ErrNoRows {
		return 0, nil
	}
	if err != nil {
		slog.Error("PostgresStore CountToday failed", "error", err, "userID", userID, "actionType", actionType)
		return 0, fmt.Errorf("failed to query ledger: %w", err)
	}
	return count, nil
}

// Increment records one action execution for today.
func (s *PostgresStore) Increment(ctx context.Context, userID string, actionType models.ActionType) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO action_ledger (user_id, day, action_type, count) VALUES ($1, $2, $3, 1)
		 ON CONFLICT (user_id, day, action_type) DO UPDATE SET count = action_ledger.count + 1`,
		userID, dateKey(time.Now()), string(actionType))
	if err != nil {
		slog.Error("PostgresStore Increment failed", "error", err, "userID", userID, "actionType", actionType)
		return fmt.Errorf("failed to increment ledger: %w", err)
	}
	return nil
}

// Next returns the rotation cursor for (user, intent) and advances it.
func (s *PostgresStore) Next(ctx context.Context, userID string, in models.Intent) (int, error) {
	var cursor int
	err := s.db.QueryRowContext(ctx,
		`INSERT INTO template_cursors (user_id, intent, cursor) VALUES ($1, $2, 1)
		 ON CONFLICT (user_id, intent) DO UPDATE SET cursor = template_cursors.cursor + 1
		 RETURNING cursor - 1`,
		userID, string(in)).Scan(&cursor)
	if err != nil {
		slog.Error("PostgresStore Next failed", "error", err, "userID", userID, "intent", in)
		return 0, fmt.Errorf("failed to advance cursor: %w", err)
	}
	return cursor, nil
}

// Close closes the Postgres database connection.
func (s *PostgresStore) Close() error {
	slog.Debug("Closing Postgres database connection")
	return s.db.Close()
}
