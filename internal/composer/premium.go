// Package composer implements response composition for CoachCore.
//
// This file holds the premium-only generators: per-intent diagnosis evidence
// and short-term plans. Both are pure functions of the turn inputs.
package composer

import (
	"fmt"

	"github.com/lymhealth/coachcore/internal/models"
)

// diagnosisBuilder produces ordered evidence factors for one intent.
type diagnosisBuilder func(convCtx models.ConversationContext) (summary string, factors []models.DiagnosisFactor)

// diagnosisBuilders registers the intents that carry a "why?" explanation.
var diagnosisBuilders = map[models.Intent]diagnosisBuilder{
	models.IntentHunger: func(c models.ConversationContext) (string, []models.DiagnosisFactor) {
		var factors []models.DiagnosisFactor
		if c.Nutrition.HoursSinceLastMeal > 5 {
			factors = append(factors, models.DiagnosisFactor{
				Label:  "Dernier repas",
				Value:  fmt.Sprintf("il y a %.0f heures", c.Nutrition.HoursSinceLastMeal),
				Impact: "high",
			})
		}
		if c.Nutrition.ProteinGrams > 0 && c.Nutrition.ProteinGrams < 40 {
			factors = append(factors, models.DiagnosisFactor{
				Label:  "Protéines du jour",
				Value:  fmt.Sprintf("%.0f g, en dessous du repère", c.Nutrition.ProteinGrams),
				Impact: "medium",
			})
		}
		if c.Wellness.SleepHours > 0 && c.Wellness.SleepHours < 6 {
			factors = append(factors, models.DiagnosisFactor{
				Label:  "Sommeil",
				Value:  fmt.Sprintf("%.1f h cette nuit", c.Wellness.SleepHours),
				Impact: "medium",
			})
		}
		return "Ta faim s'explique surtout par le temps écoulé depuis ton dernier repas.", factors
	},
	models.IntentCraving: func(c models.ConversationContext) (string, []models.DiagnosisFactor) {
		var factors []models.DiagnosisFactor
		if c.Correlations.EveningCravingPattern && c.Temporal.LocalHour >= 20 {
			factors = append(factors, models.DiagnosisFactor{
				Label:  "Habitude du soir",
				Value:  "envies fréquentes après 20h détectées",
				Impact: "high",
			})
		}
		if c.Wellness.StressLevel >= 6 {
			factors = append(factors, models.DiagnosisFactor{
				Label:  "Stress",
				Value:  fmt.Sprintf("niveau %d/10", c.Wellness.StressLevel),
				Impact: "medium",
			})
		}
		if c.Nutrition.RemainingCalories < 200 {
			factors = append(factors, models.DiagnosisFactor{
				Label:  "Budget restant",
				Value:  "faible, la restriction nourrit l'envie",
				Impact: "medium",
			})
		}
		return "Ton envie suit un schéma identifiable plutôt qu'une vraie faim.", factors
	},
	models.IntentStress: func(c models.ConversationContext) (string, []models.DiagnosisFactor) {
		var factors []models.DiagnosisFactor
		if c.Wellness.StressLevel >= 7 {
			factors = append(factors, models.DiagnosisFactor{
				Label:  "Stress déclaré",
				Value:  fmt.Sprintf("%d/10", c.Wellness.StressLevel),
				Impact: "high",
			})
		}
		if c.Correlations.StressEatingDetected {
			factors = append(factors, models.DiagnosisFactor{
				Label:  "Corrélation détectée",
				Value:  "les pics de stress précèdent tes grignotages",
				Impact: "high",
			})
		}
		if c.Wellness.SleepHours > 0 && c.Wellness.SleepHours < 6 {
			factors = append(factors, models.DiagnosisFactor{
				Label:  "Sommeil",
				Value:  fmt.Sprintf("%.1f h, le manque amplifie le stress", c.Wellness.SleepHours),
				Impact: "medium",
			})
		}
		return "Ton stress et ton alimentation s'influencent mutuellement en ce moment.", factors
	},
	models.IntentFatigue: func(c models.ConversationContext) (string, []models.DiagnosisFactor) {
		var factors []models.DiagnosisFactor
		if c.Wellness.SleepHours > 0 && c.Wellness.SleepHours < 6 {
			factors = append(factors, models.DiagnosisFactor{
				Label:  "Sommeil",
				Value:  fmt.Sprintf("%.1f h cette nuit", c.Wellness.SleepHours),
				Impact: "high",
			})
		}
		if c.Nutrition.CaloriesConsumed < c.Nutrition.CalorieTarget/2 && c.Temporal.LocalHour >= 16 {
			factors = append(factors, models.DiagnosisFactor{
				Label:  "Apport du jour",
				Value:  "en dessous de la moitié de ton objectif en fin de journée",
				Impact: "medium",
			})
		}
		if c.Correlations.ShortSleepSnacking {
			factors = append(factors, models.DiagnosisFactor{
				Label:  "Schéma détecté",
				Value:  "les nuits courtes entraînent plus de grignotage",
				Impact: "medium",
			})
		}
		return "Ta fatigue vient d'abord de ton sommeil, et elle pèse sur tes choix alimentaires.", factors
	},
	models.IntentPlateau: func(c models.ConversationContext) (string, []models.DiagnosisFactor) {
		factors := []models.DiagnosisFactor{
			{Label: "Adaptation métabolique", Value: "le corps réduit sa dépense après plusieurs semaines", Impact: "high"},
		}
		if c.Program.DayInProgram > 0 {
			factors = append(factors, models.DiagnosisFactor{
				Label:  "Ancienneté du programme",
				Value:  fmt.Sprintf("jour %d", c.Program.DayInProgram),
				Impact: "medium",
			})
		}
		return "Un palier est une phase d'adaptation attendue, pas un échec.", factors
	},
	models.IntentWeightConcern: func(c models.ConversationContext) (string, []models.DiagnosisFactor) {
		factors := []models.DiagnosisFactor{
			{Label: "Variation quotidienne", Value: "l'eau et la digestion font varier le poids de ±1 kg", Impact: "high"},
		}
		if c.Wellness.SleepHours > 0 && c.Wellness.SleepHours < 6 {
			factors = append(factors, models.DiagnosisFactor{
				Label:  "Sommeil court",
				Value:  "favorise la rétention d'eau",
				Impact: "medium",
			})
		}
		return "La balance reflète bien plus que la masse grasse au jour le jour.", factors
	},
}

// buildDiagnosis runs the intent's diagnosis builder when one exists.
// Returns nil when the intent carries no explanation or no factor applies.
func buildDiagnosis(in models.Intent, convCtx models.ConversationContext, confidence float64) *models.Diagnosis {
	builder, ok := diagnosisBuilders[in]
	if !ok {
		return nil
	}
	summary, factors := builder(convCtx)
	if len(factors) == 0 {
		return nil
	}
	return &models.Diagnosis{Summary: summary, Factors: factors, Confidence: confidence}
}

// planBuilder produces a short-term plan for one intent.
type planBuilder func(convCtx models.ConversationContext) *models.ShortTermPlan

// planBuilders registers the intents that carry a short-term plan.
var planBuilders = map[models.Intent]planBuilder{
	models.IntentHunger: func(c models.ConversationContext) *models.ShortTermPlan {
		steps := []models.PlanStep{
			{Action: "Bois un grand verre d'eau", Timing: "maintenant", Priority: 1},
			{Action: "Prévois un repas avec une source de protéines", Timing: "dans les 30 minutes", Priority: 2},
		}
		if c.Nutrition.RemainingCalories > 400 {
			steps = append(steps, models.PlanStep{Action: "Garde une collation pour plus tard", Timing: "cet après-midi", Priority: 3})
		}
		return &models.ShortTermPlan{
			Horizon:         "2 heures",
			Steps:           steps,
			ExpectedOutcome: "Une faim apaisée sans dépasser ton budget du jour.",
		}
	},
	models.IntentCraving: func(c models.ConversationContext) *models.ShortTermPlan {
		steps := []models.PlanStep{
			{Action: "Bois un verre d'eau et change de pièce", Timing: "maintenant", Priority: 1},
			{Action: "Attends dix minutes avant de décider", Timing: "0-10 min", Priority: 2},
		}
		if c.Nutrition.RemainingCalories > 150 {
			steps = append(steps, models.PlanStep{Action: "Si l'envie persiste, prends une portion plaisir mesurée", Timing: "après 10 min", Priority: 3})
		}
		return &models.ShortTermPlan{
			Horizon:         "30 minutes",
			Steps:           steps,
			ExpectedOutcome: "L'envie passe ou devient un plaisir choisi, pas subi.",
		}
	},
	models.IntentStress: func(c models.ConversationContext) *models.ShortTermPlan {
		steps := []models.PlanStep{
			{Action: "Exercice de respiration guidée", Timing: "maintenant, 3 minutes", Priority: 1},
			{Action: "Marche de cinq minutes sans téléphone", Timing: "dans l'heure", Priority: 2},
		}
		if c.Temporal.LocalHour >= 18 {
			steps = append(steps, models.PlanStep{Action: "Couche-toi 30 minutes plus tôt ce soir", Timing: "ce soir", Priority: 3})
		}
		return &models.ShortTermPlan{
			Horizon:         "ce soir",
			Steps:           steps,
			ExpectedOutcome: "Un niveau de tension redescendu avant le prochain repas.",
		}
	},
	models.IntentFatigue: func(c models.ConversationContext) *models.ShortTermPlan {
		return &models.ShortTermPlan{
			Horizon: "24 heures",
			Steps: []models.PlanStep{
				{Action: "Encas protéiné plutôt que sucré", Timing: "au prochain creux", Priority: 1},
				{Action: "Pas de caféine après 15h", Timing: "aujourd'hui", Priority: 2},
				{Action: "Vise 8h de sommeil cette nuit", Timing: "ce soir", Priority: 3},
			},
			ExpectedOutcome: "Plus d'énergie demain sans compenser par le sucre.",
		}
	},
	models.IntentPlateau: func(c models.ConversationContext) *models.ShortTermPlan {
		return &models.ShortTermPlan{
			Horizon: "14 jours",
			Steps: []models.PlanStep{
				{Action: "Garde le même apport, sans restriction supplémentaire", Timing: "2 semaines", Priority: 1},
				{Action: "Ajoute 2000 pas quotidiens", Timing: "chaque jour", Priority: 2},
				{Action: "Prends tes mensurations en complément de la balance", Timing: "chaque semaine", Priority: 3},
			},
			ExpectedOutcome: "Une tendance relancée sans durcir le régime.",
		}
	},
}

// buildPlan runs the intent's plan builder when one exists.
func buildPlan(in models.Intent, convCtx models.ConversationContext) *models.ShortTermPlan {
	builder, ok := planBuilders[in]
	if !ok {
		return nil
	}
	plan := builder(convCtx)
	if plan != nil && len(plan.Steps) > models.MaxPlanSteps {
		plan.Steps = plan.Steps[:models.MaxPlanSteps]
	}
	return plan
}
