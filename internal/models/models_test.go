package models

import "testing"

func TestIsValidIntent(t *testing.T) {
	for _, in := range IntentCatalog {
		if !IsValidIntent(in) {
			t.Errorf("catalog intent %s reported invalid", in)
		}
	}
	if IsValidIntent(Intent("SNACK_ATTACK")) {
		t.Error("expected out-of-catalog intent to be invalid")
	}
	if IsValidIntent(Intent("")) {
		t.Error("expected empty intent to be invalid")
	}
}

func TestIsValidActionType(t *testing.T) {
	for _, a := range ActionTypeCatalog {
		if !IsValidActionType(a) {
			t.Errorf("whitelisted action %s reported invalid", a)
		}
	}
	if IsValidActionType(ActionType("DELETE_ACCOUNT")) {
		t.Error("expected non-whitelisted action to be invalid")
	}
}

func TestActionPermission_AllowsTier(t *testing.T) {
	perm := ActionPermission{AllowedTiers: []Tier{TierPremium}}
	if perm.AllowsTier(TierFree) {
		t.Error("free tier allowed against premium-only permission")
	}
	if !perm.AllowsTier(TierPremium) {
		t.Error("premium tier rejected by premium-only permission")
	}
}

func TestIntentDetectionResult_Winner(t *testing.T) {
	empty := IntentDetectionResult{}
	if empty.Winner().Intent != IntentUnknown {
		t.Errorf("expected UNKNOWN winner for empty result, got %s", empty.Winner().Intent)
	}

	result := IntentDetectionResult{TopIntents: []IntentScore{
		{Intent: IntentHunger, Confidence: 0.8},
		{Intent: IntentCraving, Confidence: 0.5},
	}}
	if result.Winner().Intent != IntentHunger {
		t.Errorf("expected first entry as winner, got %s", result.Winner().Intent)
	}
}

func TestSafetyDecision_HasFlag(t *testing.T) {
	decision := SafetyDecision{Flags: []SafetyFlag{FlagPotentialTCA, FlagMinorUser}}
	if !decision.HasFlag(FlagPotentialTCA) {
		t.Error("expected flag to be present")
	}
	if decision.HasFlag(FlagSelfHarmSignal) {
		t.Error("expected absent flag to report false")
	}
}

func TestConversationContext_IsPremium(t *testing.T) {
	premium := ConversationContext{User: UserContext{Tier: TierPremium}}
	if !premium.IsPremium() {
		t.Error("expected premium context")
	}
	free := ConversationContext{User: UserContext{Tier: TierFree}}
	if free.IsPremium() {
		t.Error("expected free context")
	}
	if (ConversationContext{}).IsPremium() {
		t.Error("expected zero-value context to be non-premium")
	}
}

func TestAPIResponseBuilders(t *testing.T) {
	ok := Success(map[string]string{"k": "v"})
	if ok.Status != string(APIStatusOK) || ok.Result == nil {
		t.Errorf("unexpected success response: %+v", ok)
	}
	withMsg := SuccessWithMessage("done", nil)
	if withMsg.Message != "done" {
		t.Errorf("unexpected message: %q", withMsg.Message)
	}
	errResp := Error("boom")
	if errResp.Status != string(APIStatusError) || errResp.Message != "boom" {
		t.Errorf("unexpected error response: %+v", errResp)
	}
}
