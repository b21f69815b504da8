// Package governor implements the action gate for CoachCore.
//
// This file holds the static permission and parameter-schema tables, one
// entry per whitelisted action type. They are loaded once and never mutated.
package governor

import (
	"fmt"
	"strings"

	"github.com/lymhealth/coachcore/internal/models"
)

// paramValidator checks one declared parameter value.
type paramValidator func(value any) error

// paramSchema declares the parameter contract for one action type.
type paramSchema struct {
	required   []string
	optional   []string
	validators map[string]paramValidator
}

// declares reports whether the schema declares the given key.
func (s paramSchema) declares(key string) bool {
	for _, k := range s.required {
		if k == key {
			return true
		}
	}
	for _, k := range s.optional {
		if k == key {
			return true
		}
	}
	return false
}

var allTiers = []models.Tier{models.TierFree, models.TierPremium}
var premiumOnly = []models.Tier{models.TierPremium}

// permissions is the static policy table, one entry per action type.
var permissions = map[models.ActionType]models.ActionPermission{
	models.ActionSuggestMeal: {
		AllowedTiers: allTiers,
		Risk:         models.RiskLow,
	},
	models.ActionLogMealQuick: {
		AllowedTiers: allTiers,
		Risk:         models.RiskLow,
	},
	models.ActionAdjustCalories: {
		AllowedTiers:         premiumOnly,
		Risk:                 models.RiskHigh,
		RequiresConfirmation: true,
		MaxPerDay:            2,
	},
	models.ActionStartChallenge: {
		AllowedTiers:         allTiers,
		Risk:                 models.RiskMedium,
		RequiresConfirmation: true,
		MaxPerDay:            3,
	},
	models.ActionNavigateTo: {
		AllowedTiers: allTiers,
		Risk:         models.RiskLow,
	},
	models.ActionShowInsight: {
		AllowedTiers: premiumOnly,
		Risk:         models.RiskLow,
	},
	models.ActionScheduleReminder: {
		AllowedTiers:         allTiers,
		Risk:                 models.RiskMedium,
		RequiresConfirmation: true,
		MaxPerDay:            5,
	},
	models.ActionStartBreathing: {
		AllowedTiers: allTiers,
		Risk:         models.RiskLow,
	},
	models.ActionShowProgress: {
		AllowedTiers: allTiers,
		Risk:         models.RiskLow,
	},
	models.ActionContactSupport: {
		AllowedTiers: allTiers,
		Risk:         models.RiskLow,
	},
}

// confirmationOverrides always force requires_confirmation, regardless of the
// proposal and of the static permission.
var confirmationOverrides = map[models.ActionType]bool{
	models.ActionAdjustCalories:   true,
	models.ActionStartChallenge:   true,
	models.ActionScheduleReminder: true,
}

// navigableScreens is the closed set of screens NAVIGATE_TO may target.
var navigableScreens = map[string]bool{
	"home": true, "journal": true, "progress": true, "program": true,
	"profile": true, "settings": true, "recipes": true, "challenges": true,
	"insights": true, "support": true,
}

var validMealTypes = map[string]bool{
	"breakfast": true, "lunch": true, "dinner": true, "snack": true,
}

// schemas is the static parameter-schema table, one entry per action type.
var schemas = map[models.ActionType]paramSchema{
	models.ActionSuggestMeal: {
		optional: []string{"meal_type", "max_calories"},
		validators: map[string]paramValidator{
			"meal_type":    validateMealType,
			"max_calories": intInRange("max_calories", 100, models.MaxCalorieTarget),
		},
	},
	models.ActionLogMealQuick: {
		required: []string{"meal_type"},
		optional: []string{"food"},
		validators: map[string]paramValidator{
			"meal_type": validateMealType,
			"food":      nonEmptyString("food"),
		},
	},
	models.ActionAdjustCalories: {
		required: []string{"adjustment"},
		validators: map[string]paramValidator{
			"adjustment": intInRange("adjustment", -models.MaxCalorieAdjustment, models.MaxCalorieAdjustment),
		},
	},
	models.ActionStartChallenge: {
		required: []string{"challenge_id"},
		validators: map[string]paramValidator{
			"challenge_id": nonEmptyString("challenge_id"),
		},
	},
	models.ActionNavigateTo: {
		required: []string{"screen"},
		optional: []string{"tab"},
		validators: map[string]paramValidator{
			"screen": validateScreen,
			"tab":    nonEmptyString("tab"),
		},
	},
	models.ActionShowInsight: {
		required: []string{"insight_id"},
		validators: map[string]paramValidator{
			"insight_id": nonEmptyString("insight_id"),
		},
	},
	models.ActionScheduleReminder: {
		required: []string{"time"},
		optional: []string{"label"},
		validators: map[string]paramValidator{
			"time":  validateClockTime,
			"label": nonEmptyString("label"),
		},
	},
	models.ActionStartBreathing: {
		optional: []string{"duration_minutes"},
		validators: map[string]paramValidator{
			"duration_minutes": intInRange("duration_minutes", 1, 15),
		},
	},
	models.ActionShowProgress: {
		optional: []string{"metric"},
		validators: map[string]paramValidator{
			"metric": nonEmptyString("metric"),
		},
	},
	models.ActionContactSupport: {
		optional: []string{"topic"},
		validators: map[string]paramValidator{
			"topic": nonEmptyString("topic"),
		},
	},
}

// asInt coerces JSON-decoded numbers (float64) and native ints.
func asInt(value any) (int, bool) {
	switch v := value.(type) {
	case int:
		return v, true
	case int64:
		return int(v), true
	case float64:
		if v == float64(int(v)) {
			return int(v), true
		}
		return 0, false
	default:
		return 0, false
	}
}

func intInRange(key string, min, max int) paramValidator {
	return func(value any) error {
		n, ok := asInt(value)
		if !ok {
			return fmt.Errorf("%s must be an integer", key)
		}
		if n < min || n > max {
			return fmt.Errorf("%s must be between %d and %d", key, min, max)
		}
		return nil
	}
}

func nonEmptyString(key string) paramValidator {
	return func(value any) error {
		s, ok := value.(string)
		if !ok || strings.TrimSpace(s) == "" {
			return fmt.Errorf("%s must be a non-empty string", key)
		}
		return nil
	}
}

func validateMealType(value any) error {
	s, ok := value.(string)
	if !ok || !validMealTypes[strings.ToLower(s)] {
		return fmt.Errorf("meal_type must be one of breakfast, lunch, dinner, snack")
	}
	return nil
}

func validateScreen(value any) error {
	s, ok := value.(string)
	if !ok || !navigableScreens[strings.ToLower(s)] {
		return fmt.Errorf("screen is not navigable")
	}
	return nil
}

// validateClockTime accepts HH:MM 24-hour times.
func validateClockTime(value any) error {
	s, ok := value.(string)
	if !ok {
		return fmt.Errorf("time must be a string in HH:MM format")
	}
	var h, m int
	if _, err := fmt.Sscanf(s, "%d:%d", &h, &m); err != nil {
		return fmt.Errorf("time must be in HH:MM format")
	}
	if h < 0 || h > 23 || m < 0 || m > 59 {
		return fmt.Errorf("time must be a valid 24-hour clock time")
	}
	return nil
}
