// Package composer implements response composition for CoachCore.
//
// This file holds the closed template bank and the slot resolver table.
// Templates use {slot} placeholders; unresolved placeholders are stripped
// with their surrounding whitespace so output never contains literal braces.
package composer

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/lymhealth/coachcore/internal/models"
)

// templateBank maps each intent to its rotation set. UNKNOWN is the fallback
// set for intents without registered templates.
var templateBank = map[models.Intent][]models.ResponseTemplate{
	models.IntentHunger: {
		{Text: "Une vraie faim, {name} ? Il te reste {remaining_calories} aujourd'hui, de quoi prévoir quelque chose de consistant.", Tone: models.ToneWarm, Emoji: "🍽️", Slots: []string{"name", "remaining_calories"}},
		{Text: "Ça fait {hours_since_meal} depuis ton dernier repas, c'est normal d'avoir faim. On regarde ce qui te ferait du bien ?", Tone: models.ToneWarm, Slots: []string{"hours_since_meal"}},
		{Text: "Écoute ta faim : un repas complet vaut mieux que trois grignotages. Tu as {remaining_calories} devant toi.", Tone: models.ToneNeutral, Slots: []string{"remaining_calories"}},
	},
	models.IntentCraving: {
		{Text: "Envie de {craving} ? Ça arrive. Bois un grand verre d'eau, attends dix minutes, et si l'envie est toujours là on trouve une version plaisir raisonnable.", Tone: models.ToneCalm, Slots: []string{"craving"}},
		{Text: "Les envies passent souvent en quelques minutes. {streak_encouragement}", Tone: models.ToneEncouraging, Slots: []string{"streak_encouragement"}},
	},
	models.IntentFatigue: {
		{Text: "{sleep_phrase} La fatigue joue beaucoup sur l'appétit : vas-y doucement aujourd'hui.", Tone: models.ToneCalm, Slots: []string{"sleep_phrase"}},
		{Text: "Journée difficile, {name} ? Un encas riche en protéines et un vrai moment de pause peuvent aider.", Tone: models.ToneWarm, Slots: []string{"name"}},
	},
	models.IntentHydration: {
		{Text: "Bon réflexe de penser à l'eau. Vise un verre maintenant et un autre dans l'heure.", Tone: models.ToneNeutral, Emoji: "💧"},
		{Text: "La soif se déguise parfois en faim. Commence par boire, on fait le point après.", Tone: models.ToneCalm},
	},
	models.IntentSleep: {
		{Text: "{sleep_phrase} Ce soir, essaie de couper les écrans trente minutes avant de te coucher.", Tone: models.ToneCalm, Slots: []string{"sleep_phrase"}},
		{Text: "Le sommeil est ton meilleur allié. Une routine régulière aide plus qu'on ne le croit.", Tone: models.ToneNeutral},
	},
	models.IntentExercise: {
		{Text: "Bouger, même vingt minutes, change la journée. Qu'est-ce qui te tente ?", Tone: models.ToneEncouraging, Emoji: "🏃"},
		{Text: "Une séance aujourd'hui ? Super idée. Pense à manger un peu avant si ça fait {hours_since_meal} sans repas.", Tone: models.ToneWarm, Slots: []string{"hours_since_meal"}},
	},
	models.IntentStress: {
		{Text: "{stress_phrase} Deux minutes de respiration peuvent vraiment désamorcer le pic.", Tone: models.ToneCalm, Slots: []string{"stress_phrase"}},
		{Text: "Je t'entends, {name}. Le stress se gère mieux par petites actions : on commence par respirer ?", Tone: models.ToneWarm, Slots: []string{"name"}},
	},
	models.IntentEmotionalEating: {
		{Text: "Manger pour apaiser une émotion, ça nous arrive à tous. L'important c'est de le remarquer, et tu viens de le faire.", Tone: models.ToneWarm},
		{Text: "Avant d'ouvrir le placard : qu'est-ce que tu ressens, là ? Mettre un mot dessus aide déjà.", Tone: models.ToneCalm},
	},
	models.IntentDiscouragement: {
		{Text: "{streak_encouragement} Un jour difficile n'efface pas le chemin parcouru.", Tone: models.ToneEncouraging, Slots: []string{"streak_encouragement"}},
		{Text: "Le découragement fait partie du parcours, {name}. On réduit l'objectif du jour à une seule petite chose ?", Tone: models.ToneWarm, Slots: []string{"name"}},
	},
	models.IntentMotivation: {
		{Text: "{streak_encouragement} Qu'est-ce qui t'aiderait à enclencher la suite ?", Tone: models.ToneEncouraging, Slots: []string{"streak_encouragement"}},
		{Text: "La motivation suit l'action, rarement l'inverse. Choisis le plus petit pas possible et fais-le maintenant.", Tone: models.ToneEncouraging, Emoji: "💪"},
	},
	models.IntentCelebration: {
		{Text: "Bravo {name} ! {streak_encouragement}", Tone: models.ToneCelebratory, Emoji: "🎉", Slots: []string{"name", "streak_encouragement"}},
		{Text: "Ça, ça se fête ! Savoure, tu l'as construit toi-même.", Tone: models.ToneCelebratory, Emoji: "✨"},
	},
	models.IntentCalorieQuestion: {
		{Text: "Il te reste {remaining_calories} sur ton objectif de {calorie_target} kcal aujourd'hui.", Tone: models.ToneNeutral, Slots: []string{"remaining_calories", "calorie_target"}},
		{Text: "Point budget : {remaining_calories} disponibles. De quoi composer un vrai repas.", Tone: models.ToneNeutral, Slots: []string{"remaining_calories"}},
	},
	models.IntentNutritionQuestion: {
		{Text: "Bonne question. En deux mots : privilégie les aliments peu transformés et les protéines à chaque repas.", Tone: models.ToneNeutral},
		{Text: "L'équilibre se joue sur la semaine, pas sur un aliment. Dis-m'en plus sur ce qui t'interroge ?", Tone: models.ToneNeutral},
	},
	models.IntentMealSuggestion: {
		{Text: "Avec {remaining_calories}, je te proposerais bien quelque chose de simple et rassasiant. Je te montre des idées ?", Tone: models.ToneWarm, Slots: []string{"remaining_calories"}},
		{Text: "Envie de salé ou de sucré ? J'ai des idées dans les deux cas pour ton budget du jour.", Tone: models.ToneWarm},
	},
	models.IntentRecipeRequest: {
		{Text: "Je t'ouvre les recettes adaptées à ton objectif ?", Tone: models.ToneNeutral},
		{Text: "Les recettes rapides marchent mieux les soirs de semaine. On filtre par moins de vingt minutes ?", Tone: models.ToneWarm},
	},
	models.IntentMealLog: {
		{Text: "Bien noté ! Enregistrer ses repas est l'habitude qui paie le plus. {streak_encouragement}", Tone: models.ToneEncouraging, Slots: []string{"streak_encouragement"}},
		{Text: "C'est noté. Tu veux que je l'ajoute à ton journal ?", Tone: models.ToneNeutral},
	},
	models.IntentProgressCheck: {
		{Text: "Tu es au jour {day_in_program} de ton programme. Le détail de tes progrès est prêt, je te l'affiche ?", Tone: models.ToneNeutral, Slots: []string{"day_in_program"}},
		{Text: "{streak_encouragement} Regardons les chiffres ensemble.", Tone: models.ToneEncouraging, Slots: []string{"streak_encouragement"}},
	},
	models.IntentWeightConcern: {
		{Text: "Le poids varie naturellement d'un jour à l'autre, souvent d'un kilo ou plus. La tendance sur deux semaines est le seul chiffre qui compte.", Tone: models.ToneCalm},
		{Text: "Je comprends que ça préoccupe. Hydratation, sommeil, cycle : beaucoup de choses bougent la balance sans toucher au gras.", Tone: models.ToneWarm},
	},
	models.IntentPlateau: {
		{Text: "Les paliers sont une étape normale : le corps s'adapte. On tient le cap deux semaines avant d'ajuster quoi que ce soit.", Tone: models.ToneCalm},
		{Text: "Un plateau ne veut pas dire que rien ne se passe. Mesures, énergie, habitudes : il y a d'autres progrès à regarder.", Tone: models.ToneEncouraging},
	},
	models.IntentChallenge: {
		{Text: "Un défi, bonne idée pour relancer la machine ! J'en ai un à ta mesure.", Tone: models.ToneEncouraging, Emoji: "🔥"},
		{Text: "Les défis courts marchent le mieux. Sept jours, une habitude, on y va ?", Tone: models.ToneEncouraging},
	},
	models.IntentReminder: {
		{Text: "Je peux te programmer un rappel. Quelle heure t'arrange ?", Tone: models.ToneNeutral, Emoji: "⏰"},
		{Text: "Bonne idée, un rappel au bon moment fait toute la différence.", Tone: models.ToneNeutral},
	},
	models.IntentAbandon: {
		{Text: "Je respecte ta décision, {name}. Avant de partir, dis-moi ce qui n'a pas fonctionné ? Ça peut aussi se régler.", Tone: models.ToneWarm, Slots: []string{"name"}},
		{Text: "Tu peux faire une pause plutôt qu'arrêter : ton parcours reste sauvegardé. Qu'est-ce qui te ferait rester ?", Tone: models.ToneWarm},
	},
	models.IntentGoodbye: {
		{Text: "À bientôt {name} ! Prends soin de toi.", Tone: models.ToneWarm, Emoji: "👋", Slots: []string{"name"}},
		{Text: "Bonne continuation, on se retrouve au prochain repas !", Tone: models.ToneWarm},
	},
	models.IntentGreeting: {
		{Text: "Bonjour {name} ! Comment tu te sens aujourd'hui ?", Tone: models.ToneWarm, Emoji: "👋", Slots: []string{"name"}},
		{Text: "Salut ! Il te reste {remaining_calories} aujourd'hui. Qu'est-ce que je peux faire pour toi ?", Tone: models.ToneWarm, Slots: []string{"remaining_calories"}},
	},
	models.IntentThanks: {
		{Text: "Avec plaisir ! Je suis là quand tu veux.", Tone: models.ToneWarm, Emoji: "😊"},
		{Text: "C'est pour ça que je suis là. Continue comme ça !", Tone: models.ToneEncouraging},
	},
	models.IntentHelp: {
		{Text: "Je peux t'aider à suivre tes repas, comprendre tes calories, gérer les coups de mou et te proposer des idées adaptées. Par quoi on commence ?", Tone: models.ToneNeutral},
		{Text: "Pose-moi une question sur ton alimentation, ton énergie ou tes progrès, et je te guide.", Tone: models.ToneNeutral},
	},
	models.IntentUnknown: {
		{Text: "Je ne suis pas sûr d'avoir compris, {name}. Tu peux reformuler, ou choisir une des suggestions ci-dessous ?", Tone: models.ToneNeutral, Slots: []string{"name"}},
		{Text: "Hmm, dis-m'en un peu plus ? Je peux t'aider sur tes repas, ton énergie ou tes progrès.", Tone: models.ToneNeutral},
	},
}

// slotResolver produces the replacement for one slot, or false when the slot
// cannot be resolved from this turn. Resolvers are pure functions of the turn
// inputs; only the rotation cursor is stateful.
type slotResolver func(convCtx models.ConversationContext, detection models.IntentDetectionResult) (string, bool)

var slotResolvers = map[string]slotResolver{
	"name": func(c models.ConversationContext, _ models.IntentDetectionResult) (string, bool) {
		if c.User.FirstName == "" {
			return "", false
		}
		return c.User.FirstName, true
	},
	"remaining_calories": func(c models.ConversationContext, _ models.IntentDetectionResult) (string, bool) {
		if c.Nutrition.CalorieTarget == 0 {
			return "", false
		}
		remaining := c.Nutrition.RemainingCalories
		if remaining < 0 {
			remaining = 0
		}
		return fmt.Sprintf("%d kcal", remaining), true
	},
	"calorie_target": func(c models.ConversationContext, _ models.IntentDetectionResult) (string, bool) {
		if c.Nutrition.CalorieTarget == 0 {
			return "", false
		}
		return fmt.Sprintf("%d", c.Nutrition.CalorieTarget), true
	},
	"hours_since_meal": func(c models.ConversationContext, _ models.IntentDetectionResult) (string, bool) {
		h := c.Nutrition.HoursSinceLastMeal
		if h <= 0 {
			return "", false
		}
		if h < 1 {
			return "moins d'une heure", true
		}
		return fmt.Sprintf("%.0f heures", h), true
	},
	"craving": func(_ models.ConversationContext, d models.IntentDetectionResult) (string, bool) {
		food, ok := d.Entities[models.EntityFood]
		return food, ok
	},
	"sleep_phrase": func(c models.ConversationContext, _ models.IntentDetectionResult) (string, bool) {
		switch {
		case c.Wellness.SleepHours <= 0:
			return "", false
		case c.Wellness.SleepHours < 6:
			return fmt.Sprintf("Avec %.0fh de sommeil, ton corps réclame de l'énergie.", c.Wellness.SleepHours), true
		default:
			return "Ta nuit était correcte, c'est déjà une bonne base.", true
		}
	},
	"stress_phrase": func(c models.ConversationContext, _ models.IntentDetectionResult) (string, bool) {
		switch {
		case c.Wellness.StressLevel >= 7:
			return "Ton niveau de stress est élevé aujourd'hui.", true
		case c.Wellness.StressLevel >= 4:
			return "Un peu de tension aujourd'hui, rien d'ingérable.", true
		default:
			return "", false
		}
	},
	"streak_encouragement": func(c models.ConversationContext, _ models.IntentDetectionResult) (string, bool) {
		switch {
		case c.Gamification.StreakDays >= 30:
			return fmt.Sprintf("%d jours d'affilée, c'est remarquable.", c.Gamification.StreakDays), true
		case c.Gamification.StreakDays >= 7:
			return fmt.Sprintf("Déjà %d jours de suite, ta régularité paie.", c.Gamification.StreakDays), true
		case c.Gamification.StreakDays >= 2:
			return fmt.Sprintf("%d jours de suite, continue sur ta lancée.", c.Gamification.StreakDays), true
		default:
			return "", false
		}
	},
	"day_in_program": func(c models.ConversationContext, _ models.IntentDetectionResult) (string, bool) {
		if c.Program.DayInProgram <= 0 {
			return "", false
		}
		return fmt.Sprintf("%d", c.Program.DayInProgram), true
	},
}

var slotPattern = regexp.MustCompile(`\{([a-z_]+)\}`)

// fillSlots substitutes resolved placeholders and strips unresolved ones with
// their surrounding whitespace.
func fillSlots(text string, convCtx models.ConversationContext, detection models.IntentDetectionResult) string {
	out := slotPattern.ReplaceAllStringFunc(text, func(match string) string {
		slot := slotPattern.FindStringSubmatch(match)[1]
		if resolver, ok := slotResolvers[slot]; ok {
			if value, resolved := resolver(convCtx, detection); resolved {
				return value
			}
		}
		return ""
	})
	// Collapse whitespace left behind by stripped placeholders.
	out = strings.Join(strings.Fields(out), " ")
	// Drop an orphaned leading punctuation or comma from a stripped greeting slot.
	out = strings.TrimPrefix(out, ", ")
	return strings.TrimSpace(out)
}

// templatesFor returns the intent's template set, falling back to UNKNOWN's.
func templatesFor(in models.Intent) []models.ResponseTemplate {
	if set, ok := templateBank[in]; ok && len(set) > 0 {
		return set
	}
	return templateBank[models.IntentUnknown]
}
