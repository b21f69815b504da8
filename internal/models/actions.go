// Package models defines the core data structures for CoachCore.
//
// This file covers the action whitelist and the validation/execution result
// types produced by the action governor.
package models

// ActionType is the closed whitelist of follow-up capabilities the coach may
// offer or execute. Anything outside this list is rejected immediately.
type ActionType string

const (
	ActionSuggestMeal      ActionType = "SUGGEST_MEAL"
	ActionLogMealQuick     ActionType = "LOG_MEAL_QUICK"
	ActionAdjustCalories   ActionType = "ADJUST_CALORIES"
	ActionStartChallenge   ActionType = "START_CHALLENGE"
	ActionNavigateTo       ActionType = "NAVIGATE_TO"
	ActionShowInsight      ActionType = "SHOW_INSIGHT"
	ActionScheduleReminder ActionType = "SCHEDULE_REMINDER"
	ActionStartBreathing   ActionType = "START_BREATHING"
	ActionShowProgress     ActionType = "SHOW_PROGRESS"
	ActionContactSupport   ActionType = "CONTACT_SUPPORT"
)

// ActionTypeCatalog lists all whitelisted action types.
var ActionTypeCatalog = []ActionType{
	ActionSuggestMeal, ActionLogMealQuick, ActionAdjustCalories,
	ActionStartChallenge, ActionNavigateTo, ActionShowInsight,
	ActionScheduleReminder, ActionStartBreathing, ActionShowProgress,
	ActionContactSupport,
}

// IsValidActionType checks if the given action type is whitelisted.
func IsValidActionType(t ActionType) bool {
	for _, known := range ActionTypeCatalog {
		if known == t {
			return true
		}
	}
	return false
}

// RiskLevel grades the sensitivity of an action's effect.
type RiskLevel string

const (
	RiskLow    RiskLevel = "low"
	RiskMedium RiskLevel = "medium"
	RiskHigh   RiskLevel = "high"
)

// Validation constants for actions and responses.
const (
	// MaxActionLabelLength is the maximum sanitized label length.
	MaxActionLabelLength = 100
	// MaxActionsPerResponse bounds the action list attached to a response.
	MaxActionsPerResponse = 3
	// MaxQuickReplies bounds the quick replies attached to a response.
	MaxQuickReplies = 3
	// MaxPlanSteps bounds the steps in a short-term plan.
	MaxPlanSteps = 4
	// MinCalorieTarget and MaxCalorieTarget bound stored calorie targets.
	MinCalorieTarget = 1200
	MaxCalorieTarget = 4000
	// MaxCalorieAdjustment bounds a single calorie-target adjustment.
	MaxCalorieAdjustment = 500
)

// ActionPermission is the static policy attached to one action type.
type ActionPermission struct {
	AllowedTiers         []Tier    `json:"allowed_tiers"`
	Risk                 RiskLevel `json:"risk"`
	RequiresConfirmation bool      `json:"requires_confirmation"`
	MaxPerDay            int       `json:"max_per_day,omitempty"` // 0 means unlimited
}

// AllowsTier reports whether the permission admits the given tier.
func (p ActionPermission) AllowsTier(t Tier) bool {
	for _, allowed := range p.AllowedTiers {
		if allowed == t {
			return true
		}
	}
	return false
}

// ActionProposal is an unvalidated follow-up produced by the composer or an
// external caller. Only the governor can turn it into a ConversationAction.
type ActionProposal struct {
	Type        ActionType     `json:"type"`
	Label       string         `json:"label"`
	Description string         `json:"description,omitempty"`
	Params      map[string]any `json:"params,omitempty"`
}

// ConversationAction is a validated, sanitized follow-up flowing outward to
// the interface. It is only ever constructed by the governor.
type ConversationAction struct {
	Type                 ActionType     `json:"type"`
	Label                string         `json:"label"`
	Description          string         `json:"description,omitempty"`
	Params               map[string]any `json:"params,omitempty"`
	RequiresConfirmation bool           `json:"requires_confirmation"`
	IsPremium            bool           `json:"is_premium"`
}

// ValidationResult reports the outcome of validating one action proposal.
// Parameter errors accumulate rather than stopping at the first failure.
type ValidationResult struct {
	Valid  bool                `json:"valid"`
	Errors []string            `json:"errors,omitempty"`
	Action *ConversationAction `json:"action,omitempty"`
}

// EffectDescriptor is the small tagged payload handed to the execution host.
// This core never performs the described mutation itself.
type EffectDescriptor struct {
	Action string         `json:"action"`
	Fields map[string]any `json:"fields,omitempty"`
}

// ExecutionResult reports the outcome of executing a validated action.
// Policy refusals (missing confirmation, quota exhausted) are structured
// results, not errors.
type ExecutionResult struct {
	Success              bool              `json:"success"`
	Error                string            `json:"error,omitempty"`
	RequiresConfirmation bool              `json:"requires_confirmation,omitempty"`
	Effect               *EffectDescriptor `json:"effect,omitempty"`
}
