package store

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/lymhealth/coachcore/internal/models"
)

func TestInMemoryStore_Turns(t *testing.T) {
	s := NewInMemoryStore()
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		err := s.AddTurn(ctx, models.Turn{
			ID:        fmt.Sprintf("t-%d", i),
			UserID:    "user-1",
			Role:      models.TurnRoleUser,
			Body:      fmt.Sprintf("message %d", i),
			Timestamp: time.Now().UTC(),
		})
		if err != nil {
			t.Fatalf("AddTurn failed: %v", err)
		}
	}

	turns, err := s.GetRecentTurns(ctx, "user-1", 3)
	if err != nil {
		t.Fatalf("GetRecentTurns failed: %v", err)
	}
	if len(turns) != 3 {
		t.Fatalf("expected 3 turns, got %d", len(turns))
	}
	// Oldest first within the window.
	if turns[0].ID != "t-2" || turns[2].ID != "t-4" {
		t.Errorf("unexpected window order: %s .. %s", turns[0].ID, turns[2].ID)
	}

	all, err := s.GetRecentTurns(ctx, "user-1", 0)
	if err != nil {
		t.Fatalf("GetRecentTurns failed: %v", err)
	}
	if len(all) != 5 {
		t.Errorf("expected all 5 turns with zero limit, got %d", len(all))
	}
}

func TestInMemoryStore_TurnsIsolatedPerUser(t *testing.T) {
	s := NewInMemoryStore()
	ctx := context.Background()
	_ = s.AddTurn(ctx, models.Turn{ID: "a", UserID: "user-a", Body: "bonjour"})

	turns, err := s.GetRecentTurns(ctx, "user-b", 10)
	if err != nil {
		t.Fatalf("GetRecentTurns failed: %v", err)
	}
	if len(turns) != 0 {
		t.Errorf("expected no turns for other user, got %d", len(turns))
	}
}

func TestInMemoryStore_Ledger(t *testing.T) {
	s := NewInMemoryStore()
	ctx := context.Background()

	count, err := s.CountToday(ctx, "user-1", models.ActionAdjustCalories)
	if err != nil || count != 0 {
		t.Fatalf("expected fresh count 0, got %d (%v)", count, err)
	}

	for i := 0; i < 2; i++ {
		if err := s.Increment(ctx, "user-1", models.ActionAdjustCalories); err != nil {
			t.Fatalf("Increment failed: %v", err)
		}
	}
	count, _ = s.CountToday(ctx, "user-1", models.ActionAdjustCalories)
	if count != 2 {
		t.Errorf("expected count 2, got %d", count)
	}

	// Other action types and other users are independent.
	if c, _ := s.CountToday(ctx, "user-1", models.ActionStartChallenge); c != 0 {
		t.Errorf("expected independent counter per action type, got %d", c)
	}
	if c, _ := s.CountToday(ctx, "user-2", models.ActionAdjustCalories); c != 0 {
		t.Errorf("expected independent counter per user, got %d", c)
	}
}

func TestInMemoryStore_CursorRotation(t *testing.T) {
	s := NewInMemoryStore()
	ctx := context.Background()

	for want := 0; want < 4; want++ {
		got, err := s.Next(ctx, "user-1", models.IntentHunger)
		if err != nil {
			t.Fatalf("Next failed: %v", err)
		}
		if got != want {
			t.Errorf("cursor advance %d: got %d", want, got)
		}
	}

	// Cursors are scoped per intent and per user.
	if got, _ := s.Next(ctx, "user-1", models.IntentStress); got != 0 {
		t.Errorf("expected fresh cursor per intent, got %d", got)
	}
	if got, _ := s.Next(ctx, "user-2", models.IntentHunger); got != 0 {
		t.Errorf("expected fresh cursor per user, got %d", got)
	}
}

func TestDateKey(t *testing.T) {
	day := time.Date(2025, 3, 9, 23, 59, 0, 0, time.UTC)
	if got := dateKey(day); got != "2025-03-09" {
		t.Errorf("dateKey = %q, want 2025-03-09", got)
	}
}
