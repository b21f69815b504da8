// Package store provides storage backends for CoachCore.
//
// It persists conversation turns, the per-user daily action-usage ledger,
// and the per-user template rotation cursors. An in-memory store covers the
// single-user embedded case; SQLite and PostgreSQL back server deployments.
package store

import (
	"context"
	"sync"
	"time"

	"github.com/lymhealth/coachcore/internal/models"
)

// Store is the full persistence contract consumed by the coach engine.
// It satisfies governor.Ledger and composer.CursorStore.
type Store interface {
	// AddTurn persists one conversation turn.
	AddTurn(ctx context.Context, turn models.Turn) error
	// GetRecentTurns returns up to limit most recent turns for the user,
	// oldest first.
	GetRecentTurns(ctx context.Context, userID string, limit int) ([]models.Turn, error)

	// CountToday returns today's ledger count for the action type.
	CountToday(ctx context.Context, userID string, actionType models.ActionType) (int, error)
	// Increment records one action execution for today.
	Increment(ctx context.Context, userID string, actionType models.ActionType) error

	// Next returns the rotation cursor for (user, intent) and advances it.
	Next(ctx context.Context, userID string, in models.Intent) (int, error)

	// Close releases backend resources.
	Close() error
}

// dateKey scopes ledger counters to one calendar day.
func dateKey(now time.Time) string {
	return now.Format("2006-01-02")
}

// InMemoryStore keeps everything in process memory, keyed by user so it is
// safe for a multi-user host. Counters reset implicitly when the date key
// rolls over.
type InMemoryStore struct {
	mu      sync.RWMutex
	turns   map[string][]models.Turn
	ledger  map[string]map[string]int // userID -> "date|action" -> count
	cursors map[string]map[models.Intent]int
}

// NewInMemoryStore creates an empty in-memory store.
func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{
		turns:   make(map[string][]models.Turn),
		ledger:  make(map[string]map[string]int),
		cursors: make(map[string]map[models.Intent]int),
	}
}

// AddTurn persists one conversation turn.
func (s *InMemoryStore) AddTurn(ctx context.Context, turn models.Turn) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.turns[turn.UserID] = append(s.turns[turn.UserID], turn)
	return nil
}

// GetRecentTurns returns up to limit most recent turns, oldest first.
func (s *InMemoryStore) GetRecentTurns(ctx context.Context, userID string, limit int) ([]models.Turn, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	all := s.turns[userID]
	if limit <= 0 || limit > len(all) {
		limit = len(all)
	}
	recent := make([]models.Turn, limit)
	copy(recent, all[len(all)-limit:])
	return recent, nil
}

func ledgerKey(actionType models.ActionType, now time.Time) string {
	return dateKey(now) + "|" + string(actionType)
}

// CountToday returns today's ledger count for the action type.
func (s *InMemoryStore) CountToday(ctx context.Context, userID string, actionType models.ActionType) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.ledger[userID][ledgerKey(actionType, time.Now())], nil
}

// Increment records one action execution for today.
func (s *InMemoryStore) Increment(ctx context.Context, userID string, actionType models.ActionType) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ledger[userID] == nil {
		s.ledger[userID] = make(map[string]int)
	}
	s.ledger[userID][ledgerKey(actionType, time.Now())]++
	return nil
}

// Next returns the rotation cursor for (user, intent) and advances it.
func (s *InMemoryStore) Next(ctx context.Context, userID string, in models.Intent) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cursors[userID] == nil {
		s.cursors[userID] = make(map[models.Intent]int)
	}
	cursor := s.cursors[userID][in]
	s.cursors[userID][in] = cursor + 1
	return cursor, nil
}

// Close is a no-op for the in-memory store.
func (s *InMemoryStore) Close() error {
	return nil
}
