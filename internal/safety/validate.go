// Package safety implements the guard wrapping the coaching pipeline.
//
// This file covers the output gate: moralizing-language rewriting and the
// disclaimer policy applied to composed responses.
package safety

import (
	"log/slog"
	"regexp"
	"strings"

	"github.com/lymhealth/coachcore/internal/models"
)

// DisclaimerPolicy controls when a nutrition disclaimer is appended to a
// composed response. It is an explicit, deterministic setting.
type DisclaimerPolicy string

const (
	// DisclaimerOff never appends a disclaimer.
	DisclaimerOff DisclaimerPolicy = "off"
	// DisclaimerOnNutritionAdvice appends one when the message reads as
	// nutrition advice. Default.
	DisclaimerOnNutritionAdvice DisclaimerPolicy = "nutrition_advice"
	// DisclaimerAlways appends one to every response.
	DisclaimerAlways DisclaimerPolicy = "always"
)

// NutritionDisclaimer is the fixed disclaimer text.
const NutritionDisclaimer = "Ces repères sont donnés à titre indicatif et ne remplacent pas l'avis d'un professionnel de santé."

// moralizingReplacements maps shame/guilt phrasing to neutral phrasing.
// Applied to both user input echoes and the coach's own output.
var moralizingReplacements = map[string]string{
	"tu as triché":        "tu as fait un écart",
	"tu as craqué":        "tu as fait un écart",
	"c'est mal":           "ce n'est pas idéal",
	"tu n'aurais pas dû":  "la prochaine fois tu pourras",
	"mauvais aliment":     "aliment moins adapté",
	"aliment interdit":    "aliment à limiter",
	"tu dois culpabiliser": "pas besoin de culpabiliser",
	"c'est de ta faute":   "ça arrive à tout le monde",
	"you cheated":         "you had an off-plan moment",
	"bad food":            "less helpful food",
	"you should feel guilty": "no need to feel guilty",
}

// nutritionAdviceMarkers make a message read as nutrition advice for the
// disclaimer policy.
var nutritionAdviceMarkers = []string{
	"calories", "kcal", "protéines", "proteines", "glucides", "lipides",
	"déficit", "deficit", "apport", "macros", "portion",
}

// ContainsMoralizingLanguage reports whether text carries any phrase of the
// fixed shame/guilt set.
func (g *Guard) ContainsMoralizingLanguage(text string) bool {
	lower := strings.ToLower(text)
	for phrase := range moralizingReplacements {
		if strings.Contains(lower, phrase) {
			return true
		}
	}
	return false
}

// moralizingPatterns holds one case-insensitive matcher per table phrase, so
// replacement offsets always refer to the original string. Lowercasing first
// would shift byte offsets for runes whose case folding changes length.
var moralizingPatterns = func() map[string]*regexp.Regexp {
	patterns := make(map[string]*regexp.Regexp, len(moralizingReplacements))
	for phrase := range moralizingReplacements {
		patterns[phrase] = regexp.MustCompile("(?i)" + regexp.QuoteMeta(phrase))
	}
	return patterns
}()

// RewriteMoralizingText replaces each detected shame/guilt phrase with its
// neutral counterpart. Matching is case-insensitive; replacements keep the
// neutral casing of the table.
func (g *Guard) RewriteMoralizingText(text string) string {
	for phrase, neutral := range moralizingReplacements {
		text = moralizingPatterns[phrase].ReplaceAllLiteralString(text, neutral)
	}
	return text
}

// ValidateResponse is the output gate run after composition. It rewrites
// moralizing phrasing and applies the disclaimer policy. It is idempotent:
// validating an already-clean response changes nothing.
func (g *Guard) ValidateResponse(response models.ConversationResponse, ctx models.ConversationContext) models.ConversationResponse {
	if g.ContainsMoralizingLanguage(response.Message.Text) {
		slog.Debug("SafetyGuard ValidateResponse rewriting moralizing output", "responseID", response.Meta.ResponseID)
		response.Message.Text = g.RewriteMoralizingText(response.Message.Text)
	}

	if response.Disclaimer == "" && g.shouldAppendDisclaimer(response.Message.Text) {
		response.Disclaimer = NutritionDisclaimer
	}

	return response
}

// shouldAppendDisclaimer applies the configured policy to the message text.
func (g *Guard) shouldAppendDisclaimer(text string) bool {
	switch g.disclaimerPolicy {
	case DisclaimerAlways:
		return true
	case DisclaimerOff:
		return false
	default:
		lower := strings.ToLower(text)
		for _, marker := range nutritionAdviceMarkers {
			if strings.Contains(lower, marker) {
				return true
			}
		}
		return false
	}
}
