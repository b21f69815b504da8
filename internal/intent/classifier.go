// Package intent implements lexical intent classification for CoachCore.
//
// Each candidate intent gets a base confidence from trigger matches plus
// additive context boosts, clamped to [0,1]. Entities, sentiment, and urgency
// are extracted independently of the winning intent. An optional delegated
// call can relabel low-confidence turns; the rules result always stands when
// that call is unavailable or fails.
package intent

import (
	"context"
	"log/slog"
	"regexp"
	"sort"
	"strings"

	"github.com/lymhealth/coachcore/internal/models"
)

// Scoring constants.
const (
	baseMatchConfidence  = 0.45
	extraMatchConfidence = 0.15
	scoreThreshold       = 0.3
	contextBoost         = 0.2
	smallContextBoost    = 0.1

	// fallbackThreshold is the winning confidence below which the delegated
	// call is consulted, when configured.
	fallbackThreshold = 0.5
	// DefaultDailyLLMBudget caps delegated calls per user per day.
	DefaultDailyLLMBudget = 20
)

// Labeler is the seam for the optional delegated intent call. The genai
// client satisfies it; a nil Labeler means pure rule evaluation.
type Labeler interface {
	LabelIntent(ctx context.Context, text string, catalog []string) (string, error)
}

// Classifier scores user text against the closed intent catalog.
type Classifier struct {
	labeler     Labeler
	dailyBudget int
}

// NewClassifier creates a rules-only classifier.
func NewClassifier() *Classifier {
	return &Classifier{dailyBudget: DefaultDailyLLMBudget}
}

// NewClassifierWithLabeler creates a classifier that may delegate
// low-confidence turns to the given labeler.
func NewClassifierWithLabeler(labeler Labeler, dailyBudget int) *Classifier {
	if dailyBudget <= 0 {
		dailyBudget = DefaultDailyLLMBudget
	}
	return &Classifier{labeler: labeler, dailyBudget: dailyBudget}
}

// DetectIntent classifies the message and extracts entities, sentiment, and
// urgency. The context is read-only; llmCallsToday gates the delegated call.
func (c *Classifier) DetectIntent(ctx context.Context, text string, convCtx models.ConversationContext, isPremium bool, llmCallsToday int) models.IntentDetectionResult {
	lower := strings.ToLower(text)

	scores := c.scoreIntents(lower, convCtx)
	top := rankTop(scores)

	result := models.IntentDetectionResult{
		TopIntents: top,
		Entities:   extractEntities(lower),
		Sentiment:  extractSentiment(lower),
		Urgency:    extractUrgency(lower),
	}

	if c.labeler != nil && top[0].Confidence < fallbackThreshold && llmCallsToday < c.dailyBudget {
		result = c.delegateLabel(ctx, text, result)
	}

	slog.Debug("Classifier DetectIntent completed", "winner", result.Winner().Intent,
		"confidence", result.Winner().Confidence, "sentiment", result.Sentiment, "urgency", result.Urgency)
	return result
}

// scoreIntents computes the confidence for every catalog intent with triggers.
func (c *Classifier) scoreIntents(lower string, convCtx models.ConversationContext) map[models.Intent]float64 {
	scores := make(map[models.Intent]float64, len(triggers))
	for in, words := range triggers {
		matches := 0
		for _, w := range words {
			if strings.Contains(lower, w) {
				matches++
			}
		}
		if matches == 0 {
			continue
		}
		scores[in] = baseMatchConfidence + extraMatchConfidence*float64(matches-1)
	}
	applyContextBoosts(scores, convCtx)
	for in, s := range scores {
		scores[in] = clamp01(s)
	}
	return scores
}

// applyContextBoosts adds additive boosts from the per-turn context snapshot.
// Boosts strengthen intents the text already hinted at; an entry created by
// boosts alone is dropped by the cleanup loop unless stacked boosts reach the
// score threshold on their own.
func applyContextBoosts(scores map[models.Intent]float64, ctx models.ConversationContext) {
	if ctx.Nutrition.HoursSinceLastMeal > 5 {
		scores[models.IntentHunger] += contextBoost
	}
	if ctx.Wellness.SleepHours > 0 && ctx.Wellness.SleepHours < 6 {
		scores[models.IntentFatigue] += contextBoost
		scores[models.IntentSleep] += smallContextBoost
	}
	if ctx.Wellness.StressLevel >= 7 {
		scores[models.IntentStress] += contextBoost
	}
	if ctx.Correlations.StressEatingDetected {
		if _, hinted := scores[models.IntentCraving]; hinted {
			scores[models.IntentEmotionalEating] += contextBoost
		}
		scores[models.IntentStress] += smallContextBoost
	}
	if ctx.Correlations.EveningCravingPattern && ctx.Temporal.LocalHour >= 20 {
		scores[models.IntentCraving] += smallContextBoost
	}
	if ctx.Gamification.StreakDays >= 7 {
		scores[models.IntentCelebration] += smallContextBoost
	}
	// Remove boosts that created entries below threshold on their own.
	for in, s := range scores {
		if s < scoreThreshold {
			delete(scores, in)
		}
	}
}

// rankTop sorts qualifying scores descending and pads to the fixed length
// with UNKNOWN@0. Ties keep catalog order via a stable sort over the catalog.
func rankTop(scores map[models.Intent]float64) []models.IntentScore {
	ranked := make([]models.IntentScore, 0, len(scores))
	for _, in := range models.IntentCatalog {
		if s, ok := scores[in]; ok && s >= scoreThreshold {
			ranked = append(ranked, models.IntentScore{Intent: in, Confidence: s})
		}
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Confidence > ranked[j].Confidence
	})
	if len(ranked) > models.TopIntentCount {
		ranked = ranked[:models.TopIntentCount]
	}
	for len(ranked) < models.TopIntentCount {
		ranked = append(ranked, models.IntentScore{Intent: models.IntentUnknown, Confidence: 0})
	}
	return ranked
}

// delegateLabel consults the configured labeler and, when it returns a known
// catalog intent, promotes it to the winning slot. Any error keeps the rules
// result untouched.
func (c *Classifier) delegateLabel(ctx context.Context, text string, result models.IntentDetectionResult) models.IntentDetectionResult {
	catalog := make([]string, 0, len(models.IntentCatalog))
	for _, in := range models.IntentCatalog {
		if in != models.IntentUnknown {
			catalog = append(catalog, string(in))
		}
	}

	label, err := c.labeler.LabelIntent(ctx, text, catalog)
	if err != nil {
		slog.Warn("Classifier delegated labeling failed, keeping rules result", "error", err)
		return result
	}
	labeled := models.Intent(label)
	if !models.IsValidIntent(labeled) || labeled == models.IntentUnknown {
		slog.Warn("Classifier delegated labeling returned unknown label", "label", label)
		return result
	}
	if result.TopIntents[0].Intent == labeled {
		return result
	}

	promoted := []models.IntentScore{{Intent: labeled, Confidence: fallbackThreshold}}
	for _, s := range result.TopIntents {
		if s.Intent != labeled && len(promoted) < models.TopIntentCount {
			promoted = append(promoted, s)
		}
	}
	for len(promoted) < models.TopIntentCount {
		promoted = append(promoted, models.IntentScore{Intent: models.IntentUnknown, Confidence: 0})
	}
	result.TopIntents = promoted
	return result
}

var durationPattern = regexp.MustCompile(`(\d{1,3})\s*(?:min|minutes?|h|heures?|hours?)`)

// extractEntities pulls typed fragments from the message, independent of the
// winning intent.
func extractEntities(lower string) models.Entities {
	entities := make(models.Entities)
	for _, food := range foodWords {
		if strings.Contains(lower, food) {
			entities[models.EntityFood] = food
			break
		}
	}
	for _, mt := range mealTypePhrases {
		if strings.Contains(lower, mt.phrase) {
			entities[models.EntityMealType] = mt.canonical
			break
		}
	}
	for _, tod := range timeOfDayPhrases {
		if strings.Contains(lower, tod.phrase) {
			entities[models.EntityTimeOfDay] = tod.canonical
			break
		}
	}
	if m := durationPattern.FindStringSubmatch(lower); m != nil {
		entities[models.EntityDuration] = m[0]
	}
	if len(entities) == 0 {
		return nil
	}
	return entities
}

// extractSentiment counts polarity words; ties and empty counts are neutral.
func extractSentiment(lower string) models.Sentiment {
	pos, neg := 0, 0
	for _, w := range positiveWords {
		if strings.Contains(lower, w) {
			pos++
		}
	}
	for _, w := range negativeWords {
		if strings.Contains(lower, w) {
			neg++
		}
	}
	switch {
	case pos > neg:
		return models.SentimentPositive
	case neg > pos:
		return models.SentimentNegative
	default:
		return models.SentimentNeutral
	}
}

// extractUrgency looks for distress vocabulary first, then time pressure.
func extractUrgency(lower string) models.Urgency {
	for _, w := range distressWords {
		if strings.Contains(lower, w) {
			return models.UrgencyHigh
		}
	}
	for _, w := range urgencyMediumWords {
		if strings.Contains(lower, w) {
			return models.UrgencyMedium
		}
	}
	return models.UrgencyLow
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
