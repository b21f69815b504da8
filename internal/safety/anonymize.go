// Package safety implements the guard wrapping the coaching pipeline.
//
// This file handles anonymization of text destined for logs and analytics.
package safety

import (
	"regexp"
	"time"

	"github.com/google/uuid"

	"github.com/lymhealth/coachcore/internal/models"
)

// Replacement tokens for anonymized log text.
const (
	TokenPhone  = "[TEL]"
	TokenEmail  = "[EMAIL]"
	TokenWeight = "[POIDS]"
)

var (
	// French numbers (06 12 34 56 78, +33 6 12 34 56 78) and generic
	// international digit runs with separators.
	phonePattern = regexp.MustCompile(`(?:\+\d{1,3}[ .-]?)?0?[1-9](?:[ .-]?\d{2}){4}`)
	emailPattern = regexp.MustCompile(`[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}`)
	// Numeric weight mentions: "72 kg", "72,5 kilos", "je pèse 72".
	weightPattern     = regexp.MustCompile(`(?i)\d{2,3}(?:[.,]\d{1,2})?\s*(?:kg|kilos?|lbs?)`)
	weightVerbPattern = regexp.MustCompile(`(?i)(je\s+p[eè]se|i\s+weigh)\s+\d{2,3}(?:[.,]\d{1,2})?`)
)

// AnonymizeForLog replaces phone numbers, emails, and numeric weight mentions
// with fixed tokens while preserving sentiment-bearing words.
func (g *Guard) AnonymizeForLog(text string) string {
	out := emailPattern.ReplaceAllString(text, TokenEmail)
	out = phonePattern.ReplaceAllString(out, TokenPhone)
	out = weightPattern.ReplaceAllString(out, TokenWeight)
	out = weightVerbPattern.ReplaceAllString(out, "${1} "+TokenWeight)
	return out
}

// CreateAnonymizedEvent maps an internal event to the external analytics
// schema. Property values pass through anonymization so no raw user text,
// phone number, email, or weight ever reaches the sink.
func (g *Guard) CreateAnonymizedEvent(name string, payload map[string]string) models.AnalyticsEvent {
	props := make(map[string]string, len(payload))
	for k, v := range payload {
		props[k] = g.AnonymizeForLog(v)
	}
	return models.AnalyticsEvent{
		ID:         uuid.NewString(),
		Name:       name,
		Properties: props,
		Timestamp:  time.Now().UTC(),
	}
}
