// Package models defines the core data structures for CoachCore.
//
// It includes the per-turn conversation context, the closed intent and
// safety-flag catalogs, and the detection/decision types shared across modules.
package models

import (
	"errors"
	"time"
)

// Tier represents the subscription level gating actions and response features.
type Tier string

const (
	// TierFree is the default subscription level.
	TierFree Tier = "free"
	// TierPremium unlocks diagnosis, short-term plans, and premium actions.
	TierPremium Tier = "premium"
)

// IsValidTier checks if the given tier is supported.
func IsValidTier(t Tier) bool {
	switch t {
	case TierFree, TierPremium:
		return true
	default:
		return false
	}
}

// Sentiment classifies the overall emotional polarity of a user message.
type Sentiment string

const (
	SentimentPositive Sentiment = "positive"
	SentimentNeutral  Sentiment = "neutral"
	SentimentNegative Sentiment = "negative"
)

// Urgency classifies how quickly a user message needs attention.
type Urgency string

const (
	UrgencyLow    Urgency = "low"
	UrgencyMedium Urgency = "medium"
	UrgencyHigh   Urgency = "high"
)

// Intent is the closed catalog of reasons a user message may have been sent.
type Intent string

const (
	// Physical needs
	IntentHunger    Intent = "HUNGER"
	IntentCraving   Intent = "CRAVING"
	IntentFatigue   Intent = "FATIGUE"
	IntentHydration Intent = "HYDRATION"
	IntentSleep     Intent = "SLEEP"
	IntentExercise  Intent = "EXERCISE"

	// Emotional
	IntentStress          Intent = "STRESS"
	IntentEmotionalEating Intent = "EMOTIONAL_EATING"
	IntentDiscouragement  Intent = "DISCOURAGEMENT"
	IntentMotivation      Intent = "MOTIVATION"
	IntentCelebration     Intent = "CELEBRATION"

	// Informational
	IntentCalorieQuestion   Intent = "CALORIE_QUESTION"
	IntentNutritionQuestion Intent = "NUTRITION_QUESTION"
	IntentMealSuggestion    Intent = "MEAL_SUGGESTION"
	IntentRecipeRequest     Intent = "RECIPE_REQUEST"
	IntentMealLog           Intent = "MEAL_LOG"
	IntentProgressCheck     Intent = "PROGRESS_CHECK"
	IntentWeightConcern     Intent = "WEIGHT_CONCERN"
	IntentPlateau           Intent = "PLATEAU"
	IntentChallenge         Intent = "CHALLENGE"
	IntentReminder          Intent = "REMINDER"

	// Disengagement
	IntentAbandon Intent = "ABANDON"
	IntentGoodbye Intent = "GOODBYE"

	// Meta
	IntentGreeting Intent = "GREETING"
	IntentThanks   Intent = "THANKS"
	IntentHelp     Intent = "HELP"

	// IntentUnknown is the catch-all when no intent clears threshold.
	IntentUnknown Intent = "UNKNOWN"
)

// IntentCatalog lists all intents in fixed catalog order. Ties during ranking
// keep this order, so it must stay stable.
var IntentCatalog = []Intent{
	IntentHunger, IntentCraving, IntentFatigue, IntentHydration, IntentSleep,
	IntentExercise, IntentStress, IntentEmotionalEating, IntentDiscouragement,
	IntentMotivation, IntentCelebration, IntentCalorieQuestion,
	IntentNutritionQuestion, IntentMealSuggestion, IntentRecipeRequest,
	IntentMealLog, IntentProgressCheck, IntentWeightConcern, IntentPlateau,
	IntentChallenge, IntentReminder, IntentAbandon, IntentGoodbye,
	IntentGreeting, IntentThanks, IntentHelp, IntentUnknown,
}

// IsValidIntent checks if the given intent is part of the catalog.
func IsValidIntent(i Intent) bool {
	for _, known := range IntentCatalog {
		if known == i {
			return true
		}
	}
	return false
}

// EntityType identifies the kind of a typed fragment extracted from text.
type EntityType string

const (
	EntityFood     EntityType = "food"
	EntityMealType EntityType = "meal_type"
	EntityDuration EntityType = "duration"
	EntityQuantity EntityType = "quantity"
	EntityTimeOfDay EntityType = "time_of_day"
)

// Entities maps entity types to the raw fragment extracted from the message.
type Entities map[EntityType]string

// IntentScore pairs an intent with its confidence in [0,1].
type IntentScore struct {
	Intent     Intent  `json:"intent"`
	Confidence float64 `json:"confidence"`
}

// TopIntentCount is the fixed number of ranked intents in a detection result.
const TopIntentCount = 3

// IntentDetectionResult is the full output of intent classification.
// TopIntents always has exactly TopIntentCount entries, sorted by descending
// confidence and padded with UNKNOWN@0 when fewer intents qualify.
type IntentDetectionResult struct {
	TopIntents  []IntentScore `json:"top_intents"`
	Entities    Entities      `json:"entities,omitempty"`
	Sentiment   Sentiment     `json:"sentiment"`
	Urgency     Urgency       `json:"urgency"`
	SafetyFlags []SafetyFlag  `json:"safety_flags,omitempty"`
}

// Winner returns the highest-confidence intent score.
func (r IntentDetectionResult) Winner() IntentScore {
	if len(r.TopIntents) == 0 {
		return IntentScore{Intent: IntentUnknown}
	}
	return r.TopIntents[0]
}

// SafetyFlag marks a sensitive topic requiring special handling.
type SafetyFlag string

const (
	// FlagSelfHarmSignal marks possible self-harm language. Highest severity.
	FlagSelfHarmSignal SafetyFlag = "SELF_HARM_SIGNAL"
	// FlagPotentialTCA marks disordered-eating signals (TCA: troubles du
	// comportement alimentaire).
	FlagPotentialTCA SafetyFlag = "POTENTIAL_TCA"
	// FlagMedicalAdviceRequest marks requests for medical advice.
	FlagMedicalAdviceRequest SafetyFlag = "MEDICAL_ADVICE_REQUEST"
	// FlagExtremeRestriction marks extreme fasting or restriction plans.
	FlagExtremeRestriction SafetyFlag = "EXTREME_RESTRICTION"
	// FlagMinorUser marks a user known or suspected to be under 18.
	FlagMinorUser SafetyFlag = "MINOR_USER"
	// FlagDiabetesMention marks diabetes-related content.
	FlagDiabetesMention SafetyFlag = "DIABETES_MENTION"
	// FlagPregnancyMention marks pregnancy-related content.
	FlagPregnancyMention SafetyFlag = "PREGNANCY_MENTION"
	// FlagAllergyMention marks allergy-related content.
	FlagAllergyMention SafetyFlag = "ALLERGY_MENTION"
)

// SafetyActionType describes what the Safety Guard decided to do with input.
type SafetyActionType string

const (
	// SafetyAllow lets the pipeline proceed untouched.
	SafetyAllow SafetyActionType = "allow"
	// SafetySafeRewrite lets the pipeline proceed with softened handling.
	SafetySafeRewrite SafetyActionType = "safe_rewrite"
	// SafetyRefuseRedirect short-circuits the pipeline with a fixed redirect.
	SafetyRefuseRedirect SafetyActionType = "refuse_redirect"
)

// SafetyDecision is the outcome of the Safety Guard input check.
type SafetyDecision struct {
	Flags           []SafetyFlag     `json:"flags,omitempty"`
	Action          SafetyActionType `json:"action"`
	IsAllowed       bool             `json:"is_allowed"`
	RedirectMessage string           `json:"redirect_message,omitempty"`
}

// HasFlag reports whether the decision carries the given flag.
func (d SafetyDecision) HasFlag(flag SafetyFlag) bool {
	for _, f := range d.Flags {
		if f == flag {
			return true
		}
	}
	return false
}

// AnalyticsEvent is the pre-anonymized payload handed to the analytics sink.
// Properties never carry raw user text.
type AnalyticsEvent struct {
	ID         string            `json:"id"`
	Name       string            `json:"name"`
	Properties map[string]string `json:"properties,omitempty"`
	Timestamp  time.Time         `json:"timestamp"`
}

// Error variables shared across modules.
var (
	ErrEmptyUserID        = errors.New("user id cannot be empty")
	ErrEmptyMessage       = errors.New("message cannot be empty")
	ErrUnknownActionType  = errors.New("action type is not in the whitelist")
	ErrMissingActionType  = errors.New("action type is required")
	ErrMissingActionLabel = errors.New("action label is required")
)

// NutritionContext carries the day's nutrition signals, supplied by the
// external context builder and only consumed here.
type NutritionContext struct {
	CaloriesConsumed   int     `json:"calories_consumed"`
	CalorieTarget      int     `json:"calorie_target"`
	RemainingCalories  int     `json:"remaining_calories"`
	ProteinGrams       float64 `json:"protein_grams,omitempty"`
	HoursSinceLastMeal float64 `json:"hours_since_last_meal"`
	LastMealType       string  `json:"last_meal_type,omitempty"`
	MealsLoggedToday   int     `json:"meals_logged_today"`
}

// WellnessContext carries sleep, stress, and energy signals.
type WellnessContext struct {
	SleepHours  float64 `json:"sleep_hours"`
	StressLevel int     `json:"stress_level"` // 0-10 scale
	EnergyLevel int     `json:"energy_level"` // 0-10 scale
}

// CorrelationContext carries detected behavior patterns.
type CorrelationContext struct {
	StressEatingDetected   bool `json:"stress_eating_detected"`
	ShortSleepSnacking     bool `json:"short_sleep_snacking"`
	EveningCravingPattern  bool `json:"evening_craving_pattern"`
	WeekendOvershootDetected bool `json:"weekend_overshoot_detected"`
}

// ProgramContext carries the user's coaching program position.
type ProgramContext struct {
	GoalType     string `json:"goal_type,omitempty"` // weight_loss, maintain, muscle_gain
	DayInProgram int    `json:"day_in_program"`
	WeekTheme    string `json:"week_theme,omitempty"`
}

// GamificationContext carries streak and points signals.
type GamificationContext struct {
	StreakDays int `json:"streak_days"`
	Points     int `json:"points"`
}

// TemporalContext carries wall-clock signals local to the user.
type TemporalContext struct {
	LocalHour int  `json:"local_hour"`
	IsWeekend bool `json:"is_weekend"`
}

// UserContext carries identity and entitlement fields. The premium flag is
// trusted as supplied; no entitlement check happens in this core.
type UserContext struct {
	ID        string `json:"id"`
	FirstName string `json:"first_name,omitempty"`
	Age       int    `json:"age,omitempty"`
	Tier      Tier   `json:"tier"`
}

// ConversationContext is the immutable per-turn snapshot supplied by the
// context provider. It is built fresh each turn and discarded after.
type ConversationContext struct {
	Nutrition     NutritionContext    `json:"nutrition"`
	Wellness      WellnessContext     `json:"wellness"`
	Correlations  CorrelationContext  `json:"correlations"`
	Program       ProgramContext      `json:"program"`
	Gamification  GamificationContext `json:"gamification"`
	Temporal      TemporalContext     `json:"temporal"`
	User          UserContext         `json:"user"`
	LLMCallsToday int                 `json:"llm_calls_today,omitempty"`
}

// IsPremium reports whether the context's user has the premium tier.
func (c ConversationContext) IsPremium() bool {
	return c.User.Tier == TierPremium
}

// TurnRole identifies who produced a persisted conversation turn.
type TurnRole string

const (
	TurnRoleUser      TurnRole = "user"
	TurnRoleAssistant TurnRole = "assistant"
)

// Turn is a persisted conversation turn. The host feeds recent turns back
// for memory features; this core owns no persistence of its own.
type Turn struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Role      TurnRole  `json:"role"`
	Body      string    `json:"body"`
	Intent    Intent    `json:"intent,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}
