// Package coach ties the four decision components into the per-turn pipeline.
//
// Flow: input → safety pre-check → [unless blocked] intent detection →
// response composition (action governor inside) → safety post-check →
// output turn. The engine is also the standalone entry point for executing
// a previously offered action with a confirmation flag.
package coach

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/lymhealth/coachcore/internal/analytics"
	"github.com/lymhealth/coachcore/internal/composer"
	"github.com/lymhealth/coachcore/internal/governor"
	"github.com/lymhealth/coachcore/internal/intent"
	"github.com/lymhealth/coachcore/internal/models"
	"github.com/lymhealth/coachcore/internal/safety"
	"github.com/lymhealth/coachcore/internal/store"
)

// DefaultMemoryWindow is how many recent turns the host gets back for
// memory features.
const DefaultMemoryWindow = 20

// Engine is the embedding surface of the decision layer. All cross-call
// state (ledger, cursors, turns) lives in the store, keyed by user, so one
// engine serves many users.
type Engine struct {
	guard      *safety.Guard
	classifier *intent.Classifier
	governor   *governor.Governor
	composer   *composer.Composer
	store      store.Store
	sink       analytics.Sink
}

// NewEngine wires an engine from a store, an analytics sink, and an optional
// delegated intent labeler. A nil sink falls back to the structured log.
func NewEngine(st store.Store, sink analytics.Sink, labeler intent.Labeler) *Engine {
	if sink == nil {
		sink = analytics.NewSlogSink()
	}
	guard := safety.NewGuard()
	gov := governor.NewGovernor(st)

	var classifier *intent.Classifier
	if labeler != nil {
		classifier = intent.NewClassifierWithLabeler(labeler, intent.DefaultDailyLLMBudget)
	} else {
		classifier = intent.NewClassifier()
	}

	return &Engine{
		guard:      guard,
		classifier: classifier,
		governor:   gov,
		composer:   composer.NewComposer(st, gov, guard),
		store:      st,
		sink:       sink,
	}
}

// SetGuard replaces the safety guard, for hosts configuring an explicit
// disclaimer policy.
func (e *Engine) SetGuard(guard *safety.Guard) {
	e.guard = guard
	e.composer = composer.NewComposer(e.store, e.governor, guard)
}

// ProcessTurn runs one full pipeline pass for a user message and returns the
// output turn. Safety refusals render the fixed redirect; internal failures
// never surface raw error text to the user path.
func (e *Engine) ProcessTurn(ctx context.Context, text string, convCtx models.ConversationContext) (models.ConversationResponse, error) {
	if convCtx.User.ID == "" {
		return models.ConversationResponse{}, models.ErrEmptyUserID
	}
	if text == "" {
		return models.ConversationResponse{}, models.ErrEmptyMessage
	}

	e.persistTurn(ctx, convCtx.User.ID, models.TurnRoleUser, text, models.IntentUnknown)

	decision := e.guard.CheckInput(text, convCtx)
	if !decision.IsAllowed {
		response := e.composer.RedirectResponse(decision)
		e.persistTurn(ctx, convCtx.User.ID, models.TurnRoleAssistant, response.Message.Text, models.IntentUnknown)
		e.sink.Track(e.guard.CreateAnonymizedEvent("safety_redirect", map[string]string{
			"flags": fmt.Sprintf("%v", decision.Flags),
		}))
		slog.Info("Engine ProcessTurn short-circuited by safety guard", "userID", convCtx.User.ID, "flags", decision.Flags)
		return response, nil
	}

	detection := e.classifier.DetectIntent(ctx, text, convCtx, convCtx.IsPremium(), convCtx.LLMCallsToday)
	detection.SafetyFlags = decision.Flags

	response := e.composer.GenerateResponse(ctx, detection, convCtx)

	winner := detection.Winner()
	e.persistTurn(ctx, convCtx.User.ID, models.TurnRoleAssistant, response.Message.Text, winner.Intent)
	e.sink.Track(e.guard.CreateAnonymizedEvent("turn_processed", map[string]string{
		"intent":     string(winner.Intent),
		"confidence": fmt.Sprintf("%.2f", winner.Confidence),
		"sentiment":  string(detection.Sentiment),
		"urgency":    string(detection.Urgency),
	}))
	return response, nil
}

// ExecuteAction runs the governor's execution gate for a previously offered
// action. Refusals come back as structured results, not errors.
func (e *Engine) ExecuteAction(ctx context.Context, proposal models.ActionProposal, convCtx models.ConversationContext, userConfirmed bool) (models.ExecutionResult, error) {
	if convCtx.User.ID == "" {
		return models.ExecutionResult{}, models.ErrEmptyUserID
	}
	result := e.governor.ExecuteAction(ctx, proposal, convCtx, userConfirmed)

	name := "action_executed"
	if !result.Success {
		name = "action_refused"
	}
	e.sink.Track(e.guard.CreateAnonymizedEvent(name, map[string]string{
		"type":      string(proposal.Type),
		"confirmed": fmt.Sprintf("%t", userConfirmed),
	}))
	return result, nil
}

// RecentTurns returns the user's persisted conversation window, oldest first.
func (e *Engine) RecentTurns(ctx context.Context, userID string, limit int) ([]models.Turn, error) {
	if userID == "" {
		return nil, models.ErrEmptyUserID
	}
	if limit <= 0 {
		limit = DefaultMemoryWindow
	}
	return e.store.GetRecentTurns(ctx, userID, limit)
}

// persistTurn stores one turn; persistence failures are logged, never
// propagated into the user path.
func (e *Engine) persistTurn(ctx context.Context, userID string, role models.TurnRole, body string, in models.Intent) {
	turn := models.Turn{
		ID:        uuid.NewString(),
		UserID:    userID,
		Role:      role,
		Body:      body,
		Intent:    in,
		Timestamp: time.Now().UTC(),
	}
	if err := e.store.AddTurn(ctx, turn); err != nil {
		slog.Error("Engine persistTurn failed", "error", err, "userID", userID, "role", role)
	}
}
