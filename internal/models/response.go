// Package models defines the core data structures for CoachCore.
//
// This file covers response composition types and the API response builder.
package models

import "time"

// ResponseTone labels the register of a composed message.
type ResponseTone string

const (
	ToneWarm       ResponseTone = "warm"
	ToneNeutral    ResponseTone = "neutral"
	ToneEncouraging ResponseTone = "encouraging"
	ToneCelebratory ResponseTone = "celebratory"
	ToneCalm       ResponseTone = "calm"
)

// ResponseTemplate is one entry of the closed template set. Text may contain
// {slot} placeholders resolved against the conversation context.
type ResponseTemplate struct {
	Text  string       `json:"text"`
	Tone  ResponseTone `json:"tone"`
	Emoji string       `json:"emoji,omitempty"`
	Slots []string     `json:"slots,omitempty"`
}

// DiagnosisFactor is one piece of explanatory evidence behind a response.
type DiagnosisFactor struct {
	Label  string `json:"label"`
	Value  string `json:"value"`
	Impact string `json:"impact"` // high, medium, low
}

// Diagnosis is the premium-only explanation behind a "why?" toggle.
type Diagnosis struct {
	Summary    string            `json:"summary"`
	Factors    []DiagnosisFactor `json:"factors"`
	Confidence float64           `json:"confidence"`
}

// PlanStep is one time-boxed step of a short-term plan.
type PlanStep struct {
	Action   string `json:"action"`
	Timing   string `json:"timing"`
	Priority int    `json:"priority"` // 1 is highest
}

// ShortTermPlan is the premium-only ordered recommendation list.
// Steps holds at most MaxPlanSteps entries.
type ShortTermPlan struct {
	Horizon         string     `json:"horizon"`
	Steps           []PlanStep `json:"steps"`
	ExpectedOutcome string     `json:"expected_outcome"`
}

// QuickReply is a one-tap reply offered by the interface. It carries either
// a follow-up intent or an action with params.
type QuickReply struct {
	Label  string         `json:"label"`
	Intent Intent         `json:"intent,omitempty"`
	Action ActionType     `json:"action,omitempty"`
	Params map[string]any `json:"params,omitempty"`
}

// ResponseMessage is the rendered coach message.
type ResponseMessage struct {
	Text  string       `json:"text"`
	Tone  ResponseTone `json:"tone"`
	Emoji string       `json:"emoji,omitempty"`
}

// ResponseUI groups interface hints attached to a response.
type ResponseUI struct {
	QuickReplies        []QuickReply `json:"quick_replies,omitempty"`
	ShowDiagnosisToggle bool         `json:"show_diagnosis_toggle"`
}

// ResponseMeta stamps provenance on a response.
type ResponseMeta struct {
	ResponseID       string    `json:"response_id"`
	GeneratedAt      time.Time `json:"generated_at"`
	Model            string    `json:"model"`
	ProcessingTimeMs int64     `json:"processing_time_ms"`
}

// ConversationResponse is the finished output turn handed back to the host.
type ConversationResponse struct {
	Message       ResponseMessage      `json:"message"`
	Diagnosis     *Diagnosis           `json:"diagnosis,omitempty"`
	ShortTermPlan *ShortTermPlan       `json:"short_term_plan,omitempty"`
	Actions       []ConversationAction `json:"actions,omitempty"`
	UI            ResponseUI           `json:"ui"`
	Meta          ResponseMeta         `json:"meta"`
	Disclaimer    string               `json:"disclaimer,omitempty"`
}

// APIStatus represents the status of an API response.
type APIStatus string

const (
	// APIStatusOK indicates an API request completed successfully.
	APIStatusOK APIStatus = "ok"
	// APIStatusError indicates an API request failed with an error.
	APIStatusError APIStatus = "error"
)

// APIResponse represents a standard API response with a status and optional data.
type APIResponse struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
	Result  any    `json:"result,omitempty"`
}

// Success creates a successful API response with optional result data.
func Success(result any) APIResponse {
	return APIResponse{Status: string(APIStatusOK), Result: result}
}

// SuccessWithMessage creates a successful API response with a message.
func SuccessWithMessage(message string, result any) APIResponse {
	return APIResponse{Status: string(APIStatusOK), Message: message, Result: result}
}

// Error creates an error API response with a message.
func Error(message string) APIResponse {
	return APIResponse{Status: string(APIStatusError), Message: message}
}
