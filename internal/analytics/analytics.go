// Package analytics defines the sink receiving pre-anonymized events.
//
// Events are constructed exclusively by the safety guard so raw user text
// never reaches a sink.
package analytics

import (
	"log/slog"

	"github.com/lymhealth/coachcore/internal/models"
)

// Sink receives anonymized analytics events. Implementations must not block
// the pipeline; delivery failures are their own concern.
type Sink interface {
	Track(event models.AnalyticsEvent)
}

// SlogSink writes events to the structured log. Default sink when no
// external analytics backend is configured.
type SlogSink struct{}

// NewSlogSink creates a log-backed sink.
func NewSlogSink() *SlogSink {
	return &SlogSink{}
}

// Track logs the event at info level.
func (s *SlogSink) Track(event models.AnalyticsEvent) {
	slog.Info("analytics event", "id", event.ID, "name", event.Name, "properties", event.Properties)
}

// NopSink discards events.
type NopSink struct{}

// Track discards the event.
func (NopSink) Track(models.AnalyticsEvent) {}
