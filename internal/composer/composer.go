// Package composer implements response composition for CoachCore.
//
// Given a detection result and the per-turn context, the composer picks the
// winning intent's next template via a per-intent rotation cursor, fills its
// slots, attaches governor-validated actions and quick replies, adds the
// premium-only diagnosis and short-term plan, and routes the assembled
// response through the safety guard's output gate.
package composer

import (
	"context"
	"log/slog"
	"time"

	"github.com/lymhealth/coachcore/internal/governor"
	"github.com/lymhealth/coachcore/internal/models"
	"github.com/lymhealth/coachcore/internal/safety"
	"github.com/lymhealth/coachcore/internal/util"
)

// ModelTag marks responses as produced by the rules engine.
const ModelTag = "rules-v1"

// CursorStore persists the per-user, per-intent template rotation cursor.
// Next returns the cursor value to use for this call and advances it, so
// repeated calls cycle every template before repeating.
type CursorStore interface {
	Next(ctx context.Context, userID string, in models.Intent) (int, error)
}

// Composer assembles conversation responses from the closed template set.
type Composer struct {
	cursors  CursorStore
	governor *governor.Governor
	guard    *safety.Guard
}

// NewComposer creates a Composer with its collaborators.
func NewComposer(cursors CursorStore, gov *governor.Governor, guard *safety.Guard) *Composer {
	return &Composer{cursors: cursors, governor: gov, guard: guard}
}

// GenerateResponse builds the finished output turn for a detection result.
// It is synchronous given its inputs; the rotation cursor and the wall clock
// are the only cross-call state it touches.
func (c *Composer) GenerateResponse(ctx context.Context, detection models.IntentDetectionResult, convCtx models.ConversationContext) models.ConversationResponse {
	started := time.Now()
	winner := detection.Winner()

	// The cursor advances on every call regardless of outcome.
	templates := templatesFor(winner.Intent)
	cursor, err := c.cursors.Next(ctx, convCtx.User.ID, winner.Intent)
	if err != nil {
		slog.Error("Composer GenerateResponse cursor advance failed, using first template", "error", err, "intent", winner.Intent)
		cursor = 0
	}
	template := templates[cursor%len(templates)]

	text := fillSlots(template.Text, convCtx, detection)

	response := models.ConversationResponse{
		Message: models.ResponseMessage{
			Text:  text,
			Tone:  template.Tone,
			Emoji: template.Emoji,
		},
		Actions: c.governor.BuildValidActions(ctx, proposalsFor(winner.Intent, convCtx, detection), convCtx),
		UI: models.ResponseUI{
			QuickReplies: quickRepliesFor(winner.Intent),
		},
	}

	if convCtx.IsPremium() {
		response.Diagnosis = buildDiagnosis(winner.Intent, convCtx, winner.Confidence)
		response.ShortTermPlan = buildPlan(winner.Intent, convCtx)
	}
	response.UI.ShowDiagnosisToggle = response.Diagnosis != nil

	response.Meta = models.ResponseMeta{
		ResponseID:       util.GenerateResponseID(),
		GeneratedAt:      time.Now().UTC(),
		Model:            ModelTag,
		ProcessingTimeMs: time.Since(started).Milliseconds(),
	}

	response = c.guard.ValidateResponse(response, convCtx)

	slog.Debug("Composer GenerateResponse completed", "intent", winner.Intent,
		"actions", len(response.Actions), "premium", convCtx.IsPremium(),
		"responseID", response.Meta.ResponseID)
	return response
}

// RedirectResponse renders a safety refusal as a warm fixed message with no
// actions and no premium extras.
func (c *Composer) RedirectResponse(decision models.SafetyDecision) models.ConversationResponse {
	return models.ConversationResponse{
		Message: models.ResponseMessage{
			Text: decision.RedirectMessage,
			Tone: models.ToneWarm,
		},
		Meta: models.ResponseMeta{
			ResponseID:  util.GenerateResponseID(),
			GeneratedAt: time.Now().UTC(),
			Model:       ModelTag,
		},
	}
}
