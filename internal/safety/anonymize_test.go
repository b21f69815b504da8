package safety

import (
	"strings"
	"testing"
)

func TestAnonymizeForLog(t *testing.T) {
	guard := NewGuard()
	tests := []struct {
		name       string
		input      string
		contains   []string
		notContain []string
	}{
		{
			name:       "french mobile number",
			input:      "Mon numéro est 06 12 34 56 78",
			contains:   []string{TokenPhone},
			notContain: []string{"06 12 34 56 78"},
		},
		{
			name:       "international number",
			input:      "appelle-moi au +33 6 12 34 56 78",
			contains:   []string{TokenPhone},
			notContain: []string{"12 34 56 78"},
		},
		{
			name:       "email address",
			input:      "écris-moi sur marie.dupont@example.fr merci",
			contains:   []string{TokenEmail},
			notContain: []string{"marie.dupont@example.fr"},
		},
		{
			name:       "weight with unit",
			input:      "je fais 72,5 kg ce matin",
			contains:   []string{TokenWeight},
			notContain: []string{"72,5 kg"},
		},
		{
			name:       "weight after pèse",
			input:      "je pèse 84 et je stresse",
			contains:   []string{TokenWeight, "stresse"},
			notContain: []string{"84"},
		},
		{
			name:     "sentiment words preserved",
			input:    "je suis frustrée, je pèse 90 kg",
			contains: []string{"frustrée", TokenWeight},
		},
		{
			name:     "clean text untouched",
			input:    "grosse envie de sucre ce soir",
			contains: []string{"grosse envie de sucre ce soir"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := guard.AnonymizeForLog(tt.input)
			for _, want := range tt.contains {
				if !strings.Contains(got, want) {
					t.Errorf("AnonymizeForLog(%q) = %q, missing %q", tt.input, got, want)
				}
			}
			for _, forbidden := range tt.notContain {
				if strings.Contains(got, forbidden) {
					t.Errorf("AnonymizeForLog(%q) = %q, still contains %q", tt.input, got, forbidden)
				}
			}
		})
	}
}

func TestCreateAnonymizedEvent(t *testing.T) {
	guard := NewGuard()
	event := guard.CreateAnonymizedEvent("turn_processed", map[string]string{
		"message": "rappelle-moi au 06 98 76 54 32",
		"intent":  "HUNGER",
	})
	if event.ID == "" {
		t.Error("expected generated event ID")
	}
	if event.Name != "turn_processed" {
		t.Errorf("expected event name to pass through, got %q", event.Name)
	}
	if strings.Contains(event.Properties["message"], "06 98 76 54 32") {
		t.Errorf("expected phone number scrubbed, got %q", event.Properties["message"])
	}
	if !strings.Contains(event.Properties["message"], TokenPhone) {
		t.Errorf("expected %s token, got %q", TokenPhone, event.Properties["message"])
	}
	if event.Properties["intent"] != "HUNGER" {
		t.Errorf("expected clean property untouched, got %q", event.Properties["intent"])
	}
	if event.Timestamp.IsZero() {
		t.Error("expected timestamp to be set")
	}
}
