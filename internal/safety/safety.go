// Package safety implements the guard wrapping the coaching pipeline.
//
// It inspects raw input for self-harm, disordered-eating, medical, minor-user,
// and allergy signals before anything else runs, sanitizes generated output,
// and anonymizes text destined for logs or analytics. Matching is deliberately
// coarse: under-flagging a self-harm or eating-disorder signal is unacceptable,
// while over-flagging only costs a soft redirect.
package safety

import (
	"log/slog"
	"regexp"
	"strconv"
	"strings"

	"github.com/lymhealth/coachcore/internal/models"
)

// MinorAgeThreshold is the age below which the minor-user flag fires.
const MinorAgeThreshold = 18

// lowCalorieThreshold flags explicit daily targets below this as potential
// disordered eating.
const lowCalorieThreshold = 800

// Guard evaluates safety rules on input and output text.
type Guard struct {
	disclaimerPolicy DisclaimerPolicy
}

// NewGuard creates a Guard with the default nutrition-advice disclaimer policy.
func NewGuard() *Guard {
	return &Guard{disclaimerPolicy: DisclaimerOnNutritionAdvice}
}

// NewGuardWithPolicy creates a Guard with an explicit disclaimer policy.
func NewGuardWithPolicy(policy DisclaimerPolicy) *Guard {
	return &Guard{disclaimerPolicy: policy}
}

// flagMatcher binds one safety flag to its trigger vocabulary.
type flagMatcher struct {
	flag     models.SafetyFlag
	keywords []string
	patterns []*regexp.Regexp
}

// Matchers are ordered by severity: the first matcher whose flag fires
// determines the redirect script when several high-severity flags co-occur.
var matchers = []flagMatcher{
	{
		flag: models.FlagSelfHarmSignal,
		keywords: []string{
			"me faire du mal", "me faire mal", "plus envie de vivre",
			"envie de disparaitre", "envie de disparaître", "me suicider",
			"suicide", "me blesser", "self harm", "hurt myself",
			"end my life", "kill myself",
		},
	},
	{
		flag: models.FlagPotentialTCA,
		keywords: []string{
			"me faire vomir", "vomir après", "laxatif", "laxatifs",
			"sauter tous les repas", "arrêter de manger", "arreter de manger",
			"ne plus manger", "purger", "purge after", "stop eating",
			"compenser en vomissant",
		},
		patterns: []*regexp.Regexp{
			// Explicit very-low daily calorie targets, e.g. "moins de 500
			// calories par jour".
			regexp.MustCompile(`(?i)moins de\s+(\d{2,4})\s*(?:k?cal|calories)`),
			regexp.MustCompile(`(?i)(?:less than|under)\s+(\d{2,4})\s*(?:k?cal|calories)`),
			regexp.MustCompile(`(?i)(\d{2,4})\s*(?:k?cal|calories)\s+(?:par jour|a day|per day)\s+(?:max|maximum|seulement|only)`),
		},
	},
	{
		flag: models.FlagMedicalAdviceRequest,
		keywords: []string{
			"quel médicament", "quel medicament", "dois-je prendre",
			"ordonnance", "posologie", "arrêter mon traitement",
			"arreter mon traitement", "remplacer mon traitement",
			"should i take medication", "stop my medication", "prescription",
		},
	},
	{
		flag: models.FlagExtremeRestriction,
		keywords: []string{
			"jeûne sec", "jeune sec", "jeûner plusieurs jours",
			"ne rien manger pendant", "water fast", "dry fast",
			"un seul repas par semaine",
		},
	},
	{
		flag: models.FlagDiabetesMention,
		keywords: []string{
			"diabète", "diabete", "diabétique", "diabetique", "glycémie",
			"glycemie", "insuline", "diabetes", "insulin", "blood sugar",
		},
	},
	{
		flag: models.FlagPregnancyMention,
		keywords: []string{
			"enceinte", "grossesse", "allaite", "allaitement", "pregnant",
			"pregnancy", "breastfeeding",
		},
	},
	{
		flag: models.FlagAllergyMention,
		keywords: []string{
			"allergie", "allergique", "intolérance", "intolerance",
			"allergy", "allergic",
		},
	},
}

// refuseFlags force a refuse_redirect decision regardless of weaker flags.
var refuseFlags = map[models.SafetyFlag]bool{
	models.FlagSelfHarmSignal:       true,
	models.FlagPotentialTCA:         true,
	models.FlagMedicalAdviceRequest: true,
}

// severityOrder is the total precedence among flags, highest first. It picks
// the redirect script when several flags fire on the same message.
var severityOrder = []models.SafetyFlag{
	models.FlagSelfHarmSignal,
	models.FlagPotentialTCA,
	models.FlagMedicalAdviceRequest,
	models.FlagExtremeRestriction,
	models.FlagMinorUser,
	models.FlagDiabetesMention,
	models.FlagPregnancyMention,
	models.FlagAllergyMention,
}

// Fixed, reviewed redirect scripts. Never generated dynamically.
var redirectMessages = map[models.SafetyFlag]string{
	models.FlagSelfHarmSignal: "Je suis vraiment désolé que tu traverses un moment aussi difficile. " +
		"Je ne suis pas équipé pour t'aider sur ce sujet, mais des personnes le sont : " +
		"appelle le 3114 (numéro national de prévention du suicide, gratuit, 24h/24). " +
		"Tu n'es pas seul·e.",
	models.FlagPotentialTCA: "Ce que tu décris ressemble à une relation difficile avec l'alimentation, " +
		"et je ne veux pas t'accompagner dans une restriction qui pourrait te faire du mal. " +
		"Je t'encourage à en parler avec un professionnel de santé. " +
		"La ligne Anorexie Boulimie Info Écoute est au 0 810 037 037.",
	models.FlagMedicalAdviceRequest: "Je ne peux pas donner d'avis médical ni me prononcer sur un traitement. " +
		"Pour cette question, le bon interlocuteur est ton médecin ou ton pharmacien. " +
		"Je reste là pour tout ce qui touche à tes habitudes au quotidien.",
	models.FlagExtremeRestriction: "Un jeûne aussi strict peut être dangereux, surtout sans suivi médical. " +
		"Je préfère ne pas t'accompagner là-dessus. Si tu veux alléger ton alimentation, " +
		"on peut construire ensemble quelque chose de progressif et sans danger.",
	models.FlagMinorUser: "Ce programme est conçu pour les adultes. À ton âge, les besoins sont différents : " +
		"parles-en avec tes parents et un médecin avant de changer ton alimentation.",
}

// CheckInput inspects raw user text and returns the safety decision for the
// turn. Any refuse-level flag short-circuits the pipeline.
func (g *Guard) CheckInput(text string, ctx models.ConversationContext) models.SafetyDecision {
	lower := strings.ToLower(text)

	var flags []models.SafetyFlag
	for _, m := range matchers {
		if m.matches(lower) {
			flags = append(flags, m.flag)
		}
	}
	if ctx.User.Age > 0 && ctx.User.Age < MinorAgeThreshold {
		flags = append(flags, models.FlagMinorUser)
	}

	if len(flags) == 0 {
		return models.SafetyDecision{Action: models.SafetyAllow, IsAllowed: true}
	}

	for _, f := range flags {
		if refuseFlags[f] {
			decision := models.SafetyDecision{
				Flags:           flags,
				Action:          models.SafetyRefuseRedirect,
				IsAllowed:       false,
				RedirectMessage: g.GetRedirectMessage(flags),
			}
			slog.Info("SafetyGuard CheckInput refused input", "flags", flags)
			return decision
		}
	}

	slog.Debug("SafetyGuard CheckInput flagged input for safe rewrite", "flags", flags)
	return models.SafetyDecision{
		Flags:     flags,
		Action:    models.SafetySafeRewrite,
		IsAllowed: true,
	}
}

// matches reports whether any keyword or pattern of the matcher fires. For
// the calorie patterns, the captured number must be below the low-calorie
// threshold.
func (m flagMatcher) matches(lower string) bool {
	for _, kw := range m.keywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	for _, p := range m.patterns {
		groups := p.FindStringSubmatch(lower)
		if groups == nil {
			continue
		}
		if len(groups) > 1 {
			n, err := strconv.Atoi(groups[1])
			if err == nil && n >= lowCalorieThreshold {
				continue
			}
		}
		return true
	}
	return false
}

// GetRedirectMessage returns the fixed redirect script for the highest-severity
// flag present. Unknown or script-less flags fall through to the next in order.
func (g *Guard) GetRedirectMessage(flags []models.SafetyFlag) string {
	present := make(map[models.SafetyFlag]bool, len(flags))
	for _, f := range flags {
		present[f] = true
	}
	for _, f := range severityOrder {
		if !present[f] {
			continue
		}
		if msg, ok := redirectMessages[f]; ok {
			return msg
		}
	}
	// Generic fallback so a redirect decision never renders empty.
	return "Je préfère ne pas répondre à ça ici. Si tu as un doute sur ta santé, parles-en à un professionnel."
}
