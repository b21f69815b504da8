// Package composer implements response composition for CoachCore.
//
// This file maps intents to their proposed follow-up actions and to the
// fixed quick-reply catalog. Proposals still have to clear the governor.
package composer

import "github.com/lymhealth/coachcore/internal/models"

// proposalsFor maps the winning intent to 0-2 action proposals with
// intent-appropriate params.
func proposalsFor(in models.Intent, convCtx models.ConversationContext, detection models.IntentDetectionResult) []models.ActionProposal {
	switch in {
	case models.IntentHunger:
		mealType := "snack"
		if mt, ok := detection.Entities[models.EntityMealType]; ok {
			mealType = mt
		}
		return []models.ActionProposal{
			{Type: models.ActionSuggestMeal, Label: "Voir des idées de repas", Params: map[string]any{"meal_type": mealType}},
			{Type: models.ActionLogMealQuick, Label: "Noter un repas", Params: map[string]any{"meal_type": mealType}},
		}
	case models.IntentCraving, models.IntentEmotionalEating:
		return []models.ActionProposal{
			{Type: models.ActionStartBreathing, Label: "Respirer 3 minutes", Params: map[string]any{"duration_minutes": 3}},
			{Type: models.ActionSuggestMeal, Label: "Une alternative plaisir", Params: map[string]any{"meal_type": "snack"}},
		}
	case models.IntentStress:
		return []models.ActionProposal{
			{Type: models.ActionStartBreathing, Label: "Exercice de respiration", Params: map[string]any{"duration_minutes": 5}},
			{Type: models.ActionShowInsight, Label: "Comprendre mon stress", Params: map[string]any{"insight_id": "stress_eating"}},
		}
	case models.IntentFatigue, models.IntentSleep:
		return []models.ActionProposal{
			{Type: models.ActionScheduleReminder, Label: "Rappel coucher", Description: "Un rappel pour te coucher plus tôt", Params: map[string]any{"time": "22:00", "label": "Extinction des feux"}},
		}
	case models.IntentCalorieQuestion, models.IntentProgressCheck:
		return []models.ActionProposal{
			{Type: models.ActionShowProgress, Label: "Voir mes progrès", Params: map[string]any{"metric": "calories"}},
		}
	case models.IntentMealSuggestion:
		return []models.ActionProposal{
			{Type: models.ActionSuggestMeal, Label: "Des idées pour ce repas"},
			{Type: models.ActionNavigateTo, Label: "Ouvrir les recettes", Params: map[string]any{"screen": "recipes"}},
		}
	case models.IntentRecipeRequest:
		return []models.ActionProposal{
			{Type: models.ActionNavigateTo, Label: "Ouvrir les recettes", Params: map[string]any{"screen": "recipes"}},
		}
	case models.IntentMealLog:
		mealType := "snack"
		if mt, ok := detection.Entities[models.EntityMealType]; ok {
			mealType = mt
		}
		params := map[string]any{"meal_type": mealType}
		if food, ok := detection.Entities[models.EntityFood]; ok {
			params["food"] = food
		}
		return []models.ActionProposal{
			{Type: models.ActionLogMealQuick, Label: "Ajouter au journal", Params: params},
		}
	case models.IntentWeightConcern, models.IntentPlateau:
		return []models.ActionProposal{
			{Type: models.ActionShowProgress, Label: "Voir ma tendance", Params: map[string]any{"metric": "weight"}},
			{Type: models.ActionShowInsight, Label: "Pourquoi ça stagne ?", Params: map[string]any{"insight_id": "plateau"}},
		}
	case models.IntentChallenge:
		return []models.ActionProposal{
			{Type: models.ActionStartChallenge, Label: "Relever le défi 7 jours", Params: map[string]any{"challenge_id": "hydration_7d"}},
		}
	case models.IntentReminder:
		return []models.ActionProposal{
			{Type: models.ActionScheduleReminder, Label: "Programmer un rappel", Params: map[string]any{"time": "12:30", "label": "Pense à ton déjeuner"}},
		}
	case models.IntentAbandon:
		return []models.ActionProposal{
			{Type: models.ActionContactSupport, Label: "Parler à quelqu'un", Params: map[string]any{"topic": "cancellation"}},
		}
	case models.IntentHelp:
		return []models.ActionProposal{
			{Type: models.ActionNavigateTo, Label: "Faire un tour du programme", Params: map[string]any{"screen": "program"}},
		}
	default:
		return nil
	}
}

// quickReplyCatalog is the fixed per-intent quick-reply set, up to three each.
var quickReplyCatalog = map[models.Intent][]models.QuickReply{
	models.IntentHunger: {
		{Label: "Une idée de repas", Intent: models.IntentMealSuggestion},
		{Label: "Il me reste combien ?", Intent: models.IntentCalorieQuestion},
	},
	models.IntentCraving: {
		{Label: "Aide-moi à résister", Intent: models.IntentMotivation},
		{Label: "Je craque, je note", Intent: models.IntentMealLog},
	},
	models.IntentStress: {
		{Label: "On respire", Action: models.ActionStartBreathing, Params: map[string]any{"duration_minutes": 3}},
		{Label: "Pourquoi je stresse-mange ?", Intent: models.IntentNutritionQuestion},
	},
	models.IntentFatigue: {
		{Label: "Un encas qui réveille", Intent: models.IntentMealSuggestion},
		{Label: "Mieux dormir", Intent: models.IntentSleep},
	},
	models.IntentDiscouragement: {
		{Label: "Remotive-moi", Intent: models.IntentMotivation},
		{Label: "Voir mes progrès", Intent: models.IntentProgressCheck},
	},
	models.IntentCalorieQuestion: {
		{Label: "Une idée de repas", Intent: models.IntentMealSuggestion},
		{Label: "Mes progrès", Intent: models.IntentProgressCheck},
	},
	models.IntentMealSuggestion: {
		{Label: "Plutôt rapide", Intent: models.IntentRecipeRequest},
		{Label: "Noter mon repas", Intent: models.IntentMealLog},
	},
	models.IntentProgressCheck: {
		{Label: "Et mon poids ?", Intent: models.IntentWeightConcern},
		{Label: "Un nouveau défi", Intent: models.IntentChallenge},
	},
	models.IntentWeightConcern: {
		{Label: "Pourquoi ça varie ?", Intent: models.IntentNutritionQuestion},
		{Label: "Voir ma tendance", Action: models.ActionShowProgress, Params: map[string]any{"metric": "weight"}},
	},
	models.IntentGreeting: {
		{Label: "J'ai faim", Intent: models.IntentHunger},
		{Label: "Mes progrès", Intent: models.IntentProgressCheck},
		{Label: "Une idée de repas", Intent: models.IntentMealSuggestion},
	},
	models.IntentUnknown: {
		{Label: "J'ai faim", Intent: models.IntentHunger},
		{Label: "Je stresse", Intent: models.IntentStress},
		{Label: "Aide", Intent: models.IntentHelp},
	},
}

// quickRepliesFor returns at most MaxQuickReplies entries for the intent.
func quickRepliesFor(in models.Intent) []models.QuickReply {
	replies := quickReplyCatalog[in]
	if len(replies) > models.MaxQuickReplies {
		replies = replies[:models.MaxQuickReplies]
	}
	return replies
}
