package intent

import (
	"context"
	"errors"
	"testing"

	"github.com/lymhealth/coachcore/internal/models"
)

// mockLabeler implements Labeler for tests.
type mockLabeler struct {
	label string
	err   error
	calls int
}

func (m *mockLabeler) LabelIntent(ctx context.Context, text string, catalog []string) (string, error) {
	m.calls++
	return m.label, m.err
}

func TestDetectIntent_AlwaysThreeRankedIntents(t *testing.T) {
	classifier := NewClassifier()
	tests := []struct {
		name string
		text string
	}{
		{"single trigger", "j'ai faim"},
		{"multiple intents", "je suis stressé et fatigué"},
		{"no trigger", "xyzzy lorem ipsum"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := classifier.DetectIntent(context.Background(), tt.text, models.ConversationContext{}, false, 0)
			if len(result.TopIntents) != models.TopIntentCount {
				t.Fatalf("expected %d ranked intents, got %d", models.TopIntentCount, len(result.TopIntents))
			}
			for i := 1; i < len(result.TopIntents); i++ {
				if result.TopIntents[i].Confidence > result.TopIntents[i-1].Confidence {
					t.Errorf("intents not sorted descending at position %d: %v", i, result.TopIntents)
				}
			}
		})
	}
}

func TestDetectIntent_TriggerMatching(t *testing.T) {
	classifier := NewClassifier()
	tests := []struct {
		text string
		want models.Intent
	}{
		{"j'ai faim", models.IntentHunger},
		{"grosse envie de chocolat ce soir", models.IntentCraving},
		{"je suis épuisé", models.IntentFatigue},
		{"combien de calories il me reste ?", models.IntentCalorieQuestion},
		{"une idée repas pour ce midi ?", models.IntentMealSuggestion},
		{"j'ai réussi mon objectif !", models.IntentCelebration},
		{"je stagne depuis deux semaines", models.IntentPlateau},
		{"rappelle-moi de boire", models.IntentReminder},
		{"bonjour", models.IntentGreeting},
		{"merci beaucoup", models.IntentThanks},
	}
	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			result := classifier.DetectIntent(context.Background(), tt.text, models.ConversationContext{}, false, 0)
			if result.Winner().Intent != tt.want {
				t.Errorf("DetectIntent(%q) winner = %s, want %s", tt.text, result.Winner().Intent, tt.want)
			}
		})
	}
}

func TestDetectIntent_UnknownFallback(t *testing.T) {
	classifier := NewClassifier()
	result := classifier.DetectIntent(context.Background(), "xyzzy lorem ipsum", models.ConversationContext{}, false, 0)
	if result.Winner().Intent != models.IntentUnknown {
		t.Errorf("expected UNKNOWN winner, got %s", result.Winner().Intent)
	}
	if result.Winner().Confidence != 0 {
		t.Errorf("expected zero confidence, got %f", result.Winner().Confidence)
	}
}

func TestDetectIntent_ContextBoostRaisesConfidence(t *testing.T) {
	classifier := NewClassifier()
	text := "j'ai un petit creux"

	plain := classifier.DetectIntent(context.Background(), text, models.ConversationContext{}, false, 0)
	boosted := classifier.DetectIntent(context.Background(), text, models.ConversationContext{
		Nutrition: models.NutritionContext{HoursSinceLastMeal: 6},
	}, false, 0)

	if plain.Winner().Intent != models.IntentHunger || boosted.Winner().Intent != models.IntentHunger {
		t.Fatalf("expected HUNGER winner in both runs, got %s / %s", plain.Winner().Intent, boosted.Winner().Intent)
	}
	if boosted.Winner().Confidence <= plain.Winner().Confidence {
		t.Errorf("expected context boost to raise confidence: %f <= %f",
			boosted.Winner().Confidence, plain.Winner().Confidence)
	}
}

func TestDetectIntent_StressBoost(t *testing.T) {
	classifier := NewClassifier()
	ctx := models.ConversationContext{Wellness: models.WellnessContext{StressLevel: 8}}
	result := classifier.DetectIntent(context.Background(), "je suis sous pression au boulot", ctx, false, 0)
	if result.Winner().Intent != models.IntentStress {
		t.Errorf("expected STRESS winner, got %s", result.Winner().Intent)
	}
}

func TestDetectIntent_EntityExtraction(t *testing.T) {
	classifier := NewClassifier()
	result := classifier.DetectIntent(context.Background(), "grosse envie de chocolat ce soir", models.ConversationContext{}, false, 0)
	if result.Entities[models.EntityFood] != "chocolat" {
		t.Errorf("expected food entity chocolat, got %q", result.Entities[models.EntityFood])
	}
	if result.Entities[models.EntityTimeOfDay] != "evening" {
		t.Errorf("expected time_of_day evening, got %q", result.Entities[models.EntityTimeOfDay])
	}
}

func TestDetectIntent_MealTypeEntityIsDeterministic(t *testing.T) {
	classifier := NewClassifier()
	// "petit déjeuner" contains "déjeuner"; the longer phrase must win on
	// every call, not depend on table iteration order.
	for i := 0; i < 200; i++ {
		result := classifier.DetectIntent(context.Background(), "j'ai mangé mon petit déjeuner", models.ConversationContext{}, false, 0)
		if got := result.Entities[models.EntityMealType]; got != "breakfast" {
			t.Fatalf("call %d: expected meal_type breakfast, got %q", i, got)
		}
	}
	result := classifier.DetectIntent(context.Background(), "qu'est-ce que je mange au déjeuner", models.ConversationContext{}, false, 0)
	if got := result.Entities[models.EntityMealType]; got != "lunch" {
		t.Errorf("expected meal_type lunch, got %q", got)
	}
}

func TestDetectIntent_SingleBoostAloneNeverQualifies(t *testing.T) {
	classifier := NewClassifier()
	ctx := models.ConversationContext{
		Nutrition: models.NutritionContext{HoursSinceLastMeal: 8},
		Wellness:  models.WellnessContext{StressLevel: 9},
	}
	result := classifier.DetectIntent(context.Background(), "d'accord", ctx, false, 0)
	if result.Winner().Intent != models.IntentUnknown {
		t.Errorf("expected UNKNOWN when only context boosts fire, got %s", result.Winner().Intent)
	}
}

func TestDetectIntent_DurationEntity(t *testing.T) {
	classifier := NewClassifier()
	result := classifier.DetectIntent(context.Background(), "j'ai fait 30 minutes de sport", models.ConversationContext{}, false, 0)
	if result.Entities[models.EntityDuration] == "" {
		t.Errorf("expected duration entity, got %v", result.Entities)
	}
}

func TestDetectIntent_Sentiment(t *testing.T) {
	classifier := NewClassifier()
	tests := []struct {
		text string
		want models.Sentiment
	}{
		{"je suis super contente, j'ai réussi", models.SentimentPositive},
		{"je suis triste et découragé", models.SentimentNegative},
		{"qu'est-ce que je mange ce midi", models.SentimentNeutral},
	}
	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			result := classifier.DetectIntent(context.Background(), tt.text, models.ConversationContext{}, false, 0)
			if result.Sentiment != tt.want {
				t.Errorf("sentiment for %q = %s, want %s", tt.text, result.Sentiment, tt.want)
			}
		})
	}
}

func TestDetectIntent_Urgency(t *testing.T) {
	classifier := NewClassifier()
	tests := []struct {
		text string
		want models.Urgency
	}{
		{"au secours je n'en peux plus", models.UrgencyHigh},
		{"il me faut une idée repas tout de suite", models.UrgencyMedium},
		{"une idée repas pour demain ?", models.UrgencyLow},
	}
	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			result := classifier.DetectIntent(context.Background(), tt.text, models.ConversationContext{}, false, 0)
			if result.Urgency != tt.want {
				t.Errorf("urgency for %q = %s, want %s", tt.text, result.Urgency, tt.want)
			}
		})
	}
}

func TestDetectIntent_DelegatesOnLowConfidence(t *testing.T) {
	labeler := &mockLabeler{label: string(models.IntentStress)}
	classifier := NewClassifierWithLabeler(labeler, 10)

	// One trigger match only: confidence below the fallback threshold.
	result := classifier.DetectIntent(context.Background(), "j'ai un petit creux", models.ConversationContext{}, true, 0)
	if labeler.calls != 1 {
		t.Fatalf("expected one delegated call, got %d", labeler.calls)
	}
	if result.Winner().Intent != models.IntentStress {
		t.Errorf("expected promoted STRESS winner, got %s", result.Winner().Intent)
	}
	if len(result.TopIntents) != models.TopIntentCount {
		t.Errorf("expected %d intents after promotion, got %d", models.TopIntentCount, len(result.TopIntents))
	}
}

func TestDetectIntent_DelegationErrorKeepsRules(t *testing.T) {
	labeler := &mockLabeler{err: errors.New("api down")}
	classifier := NewClassifierWithLabeler(labeler, 10)

	result := classifier.DetectIntent(context.Background(), "j'ai un petit creux", models.ConversationContext{}, true, 0)
	if result.Winner().Intent != models.IntentHunger {
		t.Errorf("expected rules winner kept on delegation error, got %s", result.Winner().Intent)
	}
}

func TestDetectIntent_DelegationSkippedOverBudget(t *testing.T) {
	labeler := &mockLabeler{label: string(models.IntentStress)}
	classifier := NewClassifierWithLabeler(labeler, 5)

	classifier.DetectIntent(context.Background(), "j'ai un petit creux", models.ConversationContext{}, true, 5)
	if labeler.calls != 0 {
		t.Errorf("expected no delegated call past the daily budget, got %d", labeler.calls)
	}
}

func TestDetectIntent_DelegationSkippedOnHighConfidence(t *testing.T) {
	labeler := &mockLabeler{label: string(models.IntentStress)}
	classifier := NewClassifierWithLabeler(labeler, 10)

	// Two trigger matches put the winner above the fallback threshold.
	classifier.DetectIntent(context.Background(), "j'ai faim", models.ConversationContext{}, true, 0)
	if labeler.calls != 0 {
		t.Errorf("expected no delegated call for confident rules result, got %d", labeler.calls)
	}
}

func TestDetectIntent_DelegationRejectsInvalidLabel(t *testing.T) {
	labeler := &mockLabeler{label: "NOT_A_REAL_INTENT"}
	classifier := NewClassifierWithLabeler(labeler, 10)

	result := classifier.DetectIntent(context.Background(), "j'ai un petit creux", models.ConversationContext{}, true, 0)
	if result.Winner().Intent != models.IntentHunger {
		t.Errorf("expected rules winner kept for invalid label, got %s", result.Winner().Intent)
	}
}
