package composer

import (
	"context"
	"strings"
	"testing"

	"github.com/lymhealth/coachcore/internal/governor"
	"github.com/lymhealth/coachcore/internal/models"
	"github.com/lymhealth/coachcore/internal/safety"
)

// memCursors is a CursorStore over a plain map.
type memCursors struct {
	cursors map[string]int
}

func newMemCursors() *memCursors {
	return &memCursors{cursors: make(map[string]int)}
}

func (m *memCursors) Next(ctx context.Context, userID string, in models.Intent) (int, error) {
	key := userID + "|" + string(in)
	cursor := m.cursors[key]
	m.cursors[key] = cursor + 1
	return cursor, nil
}

// memLedger satisfies governor.Ledger without persistence.
type memLedger struct {
	counts map[string]int
}

func newMemLedger() *memLedger { return &memLedger{counts: make(map[string]int)} }

func (m *memLedger) CountToday(ctx context.Context, userID string, t models.ActionType) (int, error) {
	return m.counts[userID+"|"+string(t)], nil
}

func (m *memLedger) Increment(ctx context.Context, userID string, t models.ActionType) error {
	m.counts[userID+"|"+string(t)]++
	return nil
}

func newTestComposer() *Composer {
	return NewComposer(newMemCursors(), governor.NewGovernor(newMemLedger()), safety.NewGuard())
}

func detectionFor(in models.Intent) models.IntentDetectionResult {
	return models.IntentDetectionResult{
		TopIntents: []models.IntentScore{
			{Intent: in, Confidence: 0.6},
			{Intent: models.IntentUnknown, Confidence: 0},
			{Intent: models.IntentUnknown, Confidence: 0},
		},
		Sentiment: models.SentimentNeutral,
		Urgency:   models.UrgencyLow,
	}
}

func fullCtx(tier models.Tier) models.ConversationContext {
	return models.ConversationContext{
		Nutrition: models.NutritionContext{
			CaloriesConsumed:   1400,
			CalorieTarget:      2000,
			RemainingCalories:  600,
			HoursSinceLastMeal: 6,
		},
		Wellness:     models.WellnessContext{SleepHours: 7, StressLevel: 3},
		Gamification: models.GamificationContext{StreakDays: 10},
		Program:      models.ProgramContext{DayInProgram: 12},
		User:         models.UserContext{ID: "user-1", FirstName: "Claire", Tier: tier},
	}
}

func TestGenerateResponse_TemplateRotation(t *testing.T) {
	composer := newTestComposer()
	detection := detectionFor(models.IntentHunger)
	convCtx := fullCtx(models.TierFree)

	seen := make(map[string]bool)
	for i := 0; i < 5; i++ {
		resp := composer.GenerateResponse(context.Background(), detection, convCtx)
		seen[resp.Message.Text] = true
	}
	if len(seen) < 2 {
		t.Errorf("expected rotation across templates, got a single text: %v", seen)
	}
}

func TestGenerateResponse_NoLiteralBraces(t *testing.T) {
	composer := newTestComposer()
	// Empty context leaves every slot unresolved.
	empty := models.ConversationContext{User: models.UserContext{ID: "user-1", Tier: models.TierFree}}
	for _, in := range models.IntentCatalog {
		for range templatesFor(in) {
			resp := composer.GenerateResponse(context.Background(), detectionFor(in), empty)
			if strings.ContainsAny(resp.Message.Text, "{}") {
				t.Errorf("intent %s rendered literal braces: %q", in, resp.Message.Text)
			}
			if resp.Message.Text == "" {
				t.Errorf("intent %s rendered an empty message", in)
			}
		}
	}
}

func TestGenerateResponse_SlotsResolved(t *testing.T) {
	composer := newTestComposer()
	resp := composer.GenerateResponse(context.Background(), detectionFor(models.IntentCalorieQuestion), fullCtx(models.TierFree))
	if !strings.Contains(resp.Message.Text, "600 kcal") {
		t.Errorf("expected remaining calories in message, got %q", resp.Message.Text)
	}
}

func TestGenerateResponse_PremiumExtras(t *testing.T) {
	composer := newTestComposer()
	detection := detectionFor(models.IntentHunger)

	premium := composer.GenerateResponse(context.Background(), detection, fullCtx(models.TierPremium))
	if premium.Diagnosis == nil {
		t.Fatal("expected diagnosis for premium user with qualifying context")
	}
	if len(premium.Diagnosis.Factors) == 0 {
		t.Error("expected diagnosis factors")
	}
	if premium.ShortTermPlan == nil {
		t.Fatal("expected short-term plan for premium user")
	}
	if len(premium.ShortTermPlan.Steps) > models.MaxPlanSteps {
		t.Errorf("plan exceeds %d steps: %d", models.MaxPlanSteps, len(premium.ShortTermPlan.Steps))
	}
	if !premium.UI.ShowDiagnosisToggle {
		t.Error("expected diagnosis toggle when a diagnosis is present")
	}
}

func TestGenerateResponse_FreeTierNeverGetsExtras(t *testing.T) {
	composer := newTestComposer()
	for _, in := range []models.Intent{models.IntentHunger, models.IntentStress, models.IntentPlateau} {
		resp := composer.GenerateResponse(context.Background(), detectionFor(in), fullCtx(models.TierFree))
		if resp.Diagnosis != nil {
			t.Errorf("intent %s: free tier got a diagnosis", in)
		}
		if resp.ShortTermPlan != nil {
			t.Errorf("intent %s: free tier got a plan", in)
		}
		if resp.UI.ShowDiagnosisToggle {
			t.Errorf("intent %s: free tier got the diagnosis toggle", in)
		}
	}
}

func TestGenerateResponse_ActionAndReplyBounds(t *testing.T) {
	composer := newTestComposer()
	for _, in := range models.IntentCatalog {
		resp := composer.GenerateResponse(context.Background(), detectionFor(in), fullCtx(models.TierPremium))
		if len(resp.Actions) > models.MaxActionsPerResponse {
			t.Errorf("intent %s: %d actions exceeds bound", in, len(resp.Actions))
		}
		if len(resp.UI.QuickReplies) > models.MaxQuickReplies {
			t.Errorf("intent %s: %d quick replies exceeds bound", in, len(resp.UI.QuickReplies))
		}
	}
}

func TestGenerateResponse_PremiumActionsFilteredForFree(t *testing.T) {
	composer := newTestComposer()
	resp := composer.GenerateResponse(context.Background(), detectionFor(models.IntentStress), fullCtx(models.TierFree))
	for _, a := range resp.Actions {
		if a.Type == models.ActionShowInsight {
			t.Errorf("free tier received premium-only action %s", a.Type)
		}
	}
}

func TestGenerateResponse_MetaPopulated(t *testing.T) {
	composer := newTestComposer()
	resp := composer.GenerateResponse(context.Background(), detectionFor(models.IntentGreeting), fullCtx(models.TierFree))
	if resp.Meta.ResponseID == "" {
		t.Error("expected a response ID")
	}
	if resp.Meta.Model != ModelTag {
		t.Errorf("expected model tag %q, got %q", ModelTag, resp.Meta.Model)
	}
	if resp.Meta.GeneratedAt.IsZero() {
		t.Error("expected a generation timestamp")
	}
}

func TestRedirectResponse(t *testing.T) {
	composer := newTestComposer()
	decision := models.SafetyDecision{
		Flags:           []models.SafetyFlag{models.FlagSelfHarmSignal},
		Action:          models.SafetyRefuseRedirect,
		RedirectMessage: "Appelle le 3114.",
	}
	resp := composer.RedirectResponse(decision)
	if resp.Message.Text != decision.RedirectMessage {
		t.Errorf("expected redirect text, got %q", resp.Message.Text)
	}
	if len(resp.Actions) != 0 {
		t.Errorf("expected no actions on redirect, got %d", len(resp.Actions))
	}
	if resp.Diagnosis != nil || resp.ShortTermPlan != nil {
		t.Error("expected no premium extras on redirect")
	}
	if resp.Message.Tone != models.ToneWarm {
		t.Errorf("expected warm tone, got %q", resp.Message.Tone)
	}
}

func TestFillSlots(t *testing.T) {
	convCtx := fullCtx(models.TierFree)
	detection := detectionFor(models.IntentCraving)
	detection.Entities = models.Entities{models.EntityFood: "chocolat"}

	tests := []struct {
		name string
		text string
		want string
	}{
		{"resolved slot", "Envie de {craving} ?", "Envie de chocolat ?"},
		{"unresolved slot stripped", "Bonjour {missing_slot} toi", "Bonjour toi"},
		{"no slots", "Bonne journée !", "Bonne journée !"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := fillSlots(tt.text, convCtx, detection)
			if got != tt.want {
				t.Errorf("fillSlots(%q) = %q, want %q", tt.text, got, tt.want)
			}
		})
	}
}
