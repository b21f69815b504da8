// Package governor implements the action gate for CoachCore.
//
// It is the sole component that turns a proposed follow-up into something
// executable: whitelist check, tier gating, daily quotas, parameter schema
// validation, and mandatory confirmation for sensitive effects. Execution
// never mutates anything itself; it returns an effect descriptor for the
// host to interpret.
package governor

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"
	"strings"

	"github.com/lymhealth/coachcore/internal/models"
)

// Ledger tracks per-user, per-calendar-day action usage. Implementations
// must scope counters to the current wall-clock date and key them by user.
type Ledger interface {
	// CountToday returns today's usage for the action type, never negative.
	CountToday(ctx context.Context, userID string, actionType models.ActionType) (int, error)
	// Increment records one successful execution for today.
	Increment(ctx context.Context, userID string, actionType models.ActionType) error
}

// Governor validates and executes conversation actions.
type Governor struct {
	ledger Ledger
}

// NewGovernor creates a Governor backed by the given usage ledger.
func NewGovernor(ledger Ledger) *Governor {
	return &Governor{ledger: ledger}
}

// Permission returns the static permission for a whitelisted action type.
func Permission(t models.ActionType) (models.ActionPermission, bool) {
	p, ok := permissions[t]
	return p, ok
}

var tagPattern = regexp.MustCompile(`<[^>]*>`)

// sanitizeText strips tags, collapses whitespace, and truncates to the
// action label limit. The limit counts characters, not bytes, so accented
// labels are never cut mid-rune.
func sanitizeText(s string) string {
	s = tagPattern.ReplaceAllString(s, "")
	s = strings.Join(strings.Fields(s), " ")
	if runes := []rune(s); len(runes) > models.MaxActionLabelLength {
		s = string(runes[:models.MaxActionLabelLength])
	}
	return s
}

// ValidateAction checks one proposal against the whitelist, the user's tier,
// today's quota, and the parameter schema. Parameter errors accumulate
// rather than stopping at the first. On success the result carries the
// sanitized, confirmation-adjusted action.
func (g *Governor) ValidateAction(ctx context.Context, proposal models.ActionProposal, convCtx models.ConversationContext) models.ValidationResult {
	// (1) Whitelist.
	if !models.IsValidActionType(proposal.Type) {
		slog.Debug("Governor ValidateAction rejected unknown type", "type", proposal.Type)
		return models.ValidationResult{Errors: []string{models.ErrUnknownActionType.Error()}}
	}
	perm := permissions[proposal.Type]

	// (2) Tier gating. Hosts may omit the tier entirely; an unset tier gets
	// free-tier permissions rather than failing every action.
	tier := convCtx.User.Tier
	if tier == "" {
		tier = models.TierFree
	}
	if !perm.AllowsTier(tier) {
		msg := fmt.Sprintf("action %s requires Premium", proposal.Type)
		slog.Debug("Governor ValidateAction rejected tier", "type", proposal.Type, "tier", tier)
		return models.ValidationResult{Errors: []string{msg}}
	}

	// (3) Daily quota.
	if perm.MaxPerDay > 0 {
		count, err := g.ledger.CountToday(ctx, convCtx.User.ID, proposal.Type)
		if err != nil {
			slog.Error("Governor ValidateAction ledger lookup failed", "error", err, "type", proposal.Type)
			return models.ValidationResult{Errors: []string{"usage ledger unavailable"}}
		}
		if count >= perm.MaxPerDay {
			msg := fmt.Sprintf("daily limit reached for %s (%d/day)", proposal.Type, perm.MaxPerDay)
			slog.Debug("Governor ValidateAction rejected quota", "type", proposal.Type, "count", count)
			return models.ValidationResult{Errors: []string{msg}}
		}
	}

	// (4) Parameter schema; accumulate all errors.
	var paramErrors []string
	schema := schemas[proposal.Type]
	for _, key := range schema.required {
		if _, present := proposal.Params[key]; !present {
			paramErrors = append(paramErrors, fmt.Sprintf("missing required param %s", key))
		}
	}
	for key, value := range proposal.Params {
		if !schema.declares(key) {
			paramErrors = append(paramErrors, fmt.Sprintf("param %s is not declared for %s", key, proposal.Type))
			continue
		}
		if validator, ok := schema.validators[key]; ok {
			if err := validator(value); err != nil {
				paramErrors = append(paramErrors, err.Error())
			}
		}
	}
	if len(paramErrors) > 0 {
		slog.Debug("Governor ValidateAction rejected params", "type", proposal.Type, "errors", paramErrors)
		return models.ValidationResult{Errors: paramErrors}
	}

	action := models.ConversationAction{
		Type:        proposal.Type,
		Label:       sanitizeText(proposal.Label),
		Description: sanitizeText(proposal.Description),
		Params:      proposal.Params,
		RequiresConfirmation: confirmationOverrides[proposal.Type] ||
			perm.RequiresConfirmation || perm.Risk == models.RiskHigh,
		IsPremium: !perm.AllowsTier(models.TierFree),
	}
	return models.ValidationResult{Valid: true, Action: &action}
}

// ExecuteAction validates then executes one action. For confirmation-gated
// types, userConfirmed=false yields a structured refusal and leaves the
// ledger untouched. Only a successful execution increments the ledger.
func (g *Governor) ExecuteAction(ctx context.Context, proposal models.ActionProposal, convCtx models.ConversationContext, userConfirmed bool) models.ExecutionResult {
	validation := g.ValidateAction(ctx, proposal, convCtx)
	if !validation.Valid {
		return models.ExecutionResult{
			Success: false,
			Error:   strings.Join(validation.Errors, "; "),
		}
	}
	action := *validation.Action

	if action.RequiresConfirmation && !userConfirmed {
		slog.Info("Governor ExecuteAction needs explicit confirmation", "type", action.Type, "userID", convCtx.User.ID)
		return models.ExecutionResult{
			Success:              false,
			Error:                "action requires explicit confirmation",
			RequiresConfirmation: true,
		}
	}

	effect, err := buildEffect(action, convCtx)
	if err != nil {
		// Unexpected failures inside an effect stay at this boundary and
		// surface as a generic safe failure.
		slog.Error("Governor ExecuteAction effect failed", "error", err, "type", action.Type, "userID", convCtx.User.ID)
		return models.ExecutionResult{Success: false, Error: "action could not be completed"}
	}

	if err := g.ledger.Increment(ctx, convCtx.User.ID, action.Type); err != nil {
		slog.Error("Governor ExecuteAction ledger increment failed", "error", err, "type", action.Type)
	}

	slog.Info("Governor ExecuteAction succeeded", "type", action.Type, "userID", convCtx.User.ID, "effect", effect.Action)
	return models.ExecutionResult{Success: true, Effect: effect}
}

// BuildValidActions filters and validates composer proposals. Proposals
// missing type or label are dropped, each remaining proposal is validated
// independently, and the sanitized successes are truncated to the response
// bound preserving input order.
func (g *Governor) BuildValidActions(ctx context.Context, proposals []models.ActionProposal, convCtx models.ConversationContext) []models.ConversationAction {
	var actions []models.ConversationAction
	for _, p := range proposals {
		if p.Type == "" || strings.TrimSpace(p.Label) == "" {
			slog.Debug("Governor BuildValidActions dropped incomplete proposal", "type", p.Type)
			continue
		}
		result := g.ValidateAction(ctx, p, convCtx)
		if !result.Valid {
			slog.Debug("Governor BuildValidActions dropped invalid proposal", "type", p.Type, "errors", result.Errors)
			continue
		}
		actions = append(actions, *result.Action)
		if len(actions) == models.MaxActionsPerResponse {
			break
		}
	}
	return actions
}

// buildEffect produces the type-specific effect descriptor. The host
// performs the actual mutation; bounds are enforced here so the descriptor
// is always safe to apply.
func buildEffect(action models.ConversationAction, convCtx models.ConversationContext) (*models.EffectDescriptor, error) {
	switch action.Type {
	case models.ActionNavigateTo:
		return &models.EffectDescriptor{
			Action: "navigate",
			Fields: map[string]any{"screen": action.Params["screen"], "params": action.Params},
		}, nil
	case models.ActionLogMealQuick:
		return &models.EffectDescriptor{
			Action: "open_meal_log",
			Fields: map[string]any{"meal_type": action.Params["meal_type"], "food": action.Params["food"]},
		}, nil
	case models.ActionSuggestMeal:
		return &models.EffectDescriptor{
			Action: "show_meal_suggestion",
			Fields: map[string]any{"meal_type": action.Params["meal_type"], "max_calories": action.Params["max_calories"]},
		}, nil
	case models.ActionAdjustCalories:
		adjustment, _ := asInt(action.Params["adjustment"])
		newTarget := convCtx.Nutrition.CalorieTarget + adjustment
		if newTarget < models.MinCalorieTarget {
			newTarget = models.MinCalorieTarget
		}
		if newTarget > models.MaxCalorieTarget {
			newTarget = models.MaxCalorieTarget
		}
		return &models.EffectDescriptor{
			Action: "calories_adjusted",
			Fields: map[string]any{"new_target": newTarget, "adjustment": adjustment},
		}, nil
	case models.ActionStartChallenge:
		return &models.EffectDescriptor{
			Action: "challenge_enrolled",
			Fields: map[string]any{"challenge_id": action.Params["challenge_id"]},
		}, nil
	case models.ActionShowInsight:
		return &models.EffectDescriptor{
			Action: "show_insight",
			Fields: map[string]any{"insight_id": action.Params["insight_id"]},
		}, nil
	case models.ActionScheduleReminder:
		return &models.EffectDescriptor{
			Action: "reminder_scheduled",
			Fields: map[string]any{"time": action.Params["time"], "label": action.Params["label"]},
		}, nil
	case models.ActionStartBreathing:
		duration, ok := asInt(action.Params["duration_minutes"])
		if !ok {
			duration = 3
		}
		return &models.EffectDescriptor{
			Action: "start_breathing",
			Fields: map[string]any{"duration_minutes": duration},
		}, nil
	case models.ActionShowProgress:
		return &models.EffectDescriptor{
			Action: "show_progress",
			Fields: map[string]any{"metric": action.Params["metric"]},
		}, nil
	case models.ActionContactSupport:
		return &models.EffectDescriptor{
			Action: "open_support",
			Fields: map[string]any{"topic": action.Params["topic"]},
		}, nil
	default:
		return nil, fmt.Errorf("no effect builder for action type %s", action.Type)
	}
}
