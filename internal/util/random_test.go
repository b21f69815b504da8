package util

import (
	"strings"
	"testing"
)

func TestGenerateRandomHex(t *testing.T) {
	tests := []struct {
		name   string
		length int
	}{
		{"short", 8},
		{"typical", 24},
		{"zero", 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := GenerateRandomHex(tt.length)
			if len(got) != tt.length {
				t.Errorf("GenerateRandomHex(%d) length = %d", tt.length, len(got))
			}
			for _, c := range got {
				if !strings.ContainsRune("0123456789abcdef", c) {
					t.Errorf("non-hex character %q in %q", c, got)
				}
			}
		})
	}
}

func TestGenerateResponseID(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		id := GenerateResponseID()
		if !strings.HasPrefix(id, "resp_") {
			t.Fatalf("expected resp_ prefix, got %q", id)
		}
		if len(id) != len("resp_")+24 {
			t.Fatalf("unexpected ID length: %q", id)
		}
		if seen[id] {
			t.Fatalf("duplicate response ID generated: %q", id)
		}
		seen[id] = true
	}
}

func TestParseBoolEnv(t *testing.T) {
	tests := []struct {
		value string
		def   bool
		want  bool
	}{
		{"true", false, true},
		{"1", false, true},
		{"YES", false, true},
		{"off", true, false},
		{"0", true, false},
		{"", true, true},
		{"garbage", false, false},
	}
	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			t.Setenv("COACHCORE_TEST_BOOL", tt.value)
			if got := ParseBoolEnv("COACHCORE_TEST_BOOL", tt.def); got != tt.want {
				t.Errorf("ParseBoolEnv(%q, %v) = %v, want %v", tt.value, tt.def, got, tt.want)
			}
		})
	}
}

func TestEnvOrDefault(t *testing.T) {
	t.Setenv("COACHCORE_TEST_STR", "set")
	if got := EnvOrDefault("COACHCORE_TEST_STR", "fallback"); got != "set" {
		t.Errorf("expected set value, got %q", got)
	}
	t.Setenv("COACHCORE_TEST_STR", "  ")
	if got := EnvOrDefault("COACHCORE_TEST_STR", "fallback"); got != "fallback" {
		t.Errorf("expected fallback for blank value, got %q", got)
	}
}
