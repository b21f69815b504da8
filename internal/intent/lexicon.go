// Package intent implements lexical intent classification for CoachCore.
//
// This file holds the fixed rule tables: per-intent trigger vocabularies,
// sentiment and distress lexicons, and entity keyword sets. French first,
// with common English equivalents.
package intent

import "github.com/lymhealth/coachcore/internal/models"

// triggers maps each catalog intent to its lexical trigger set. An intent
// with no triggers (UNKNOWN) can only win by default.
var triggers = map[models.Intent][]string{
	models.IntentHunger: {
		"j'ai faim", "jai faim", "faim", "creux", "ventre vide",
		"i'm hungry", "im hungry", "starving",
	},
	models.IntentCraving: {
		"envie de", "craquer pour", "craving", "grignoter", "grignotage",
		"envie de sucre", "envie de chocolat", "je craque",
	},
	models.IntentFatigue: {
		"fatigué", "fatigue", "épuisé", "epuise", "crevé", "creve",
		"plus d'énergie", "plus d'energie", "tired", "exhausted",
	},
	models.IntentHydration: {
		"soif", "boire de l'eau", "hydratation", "hydrater", "water intake",
	},
	models.IntentSleep: {
		"mal dormi", "insomnie", "sommeil", "me coucher", "nuit blanche",
		"can't sleep", "slept badly",
	},
	models.IntentExercise: {
		"sport", "séance", "seance", "entraînement", "entrainement",
		"courir", "muscu", "workout", "exercise",
	},
	models.IntentStress: {
		"stressé", "stresse", "stress", "anxieux", "anxiété", "anxiete",
		"sous pression", "débordé", "deborde", "stressed", "anxious",
	},
	models.IntentEmotionalEating: {
		"je mange quand", "manger mes émotions", "manger mes emotions",
		"mange pour me consoler", "emotional eating", "eat my feelings",
	},
	models.IntentDiscouragement: {
		"découragé", "decourage", "j'abandonne", "jabandonne", "à quoi bon",
		"a quoi bon", "je n'y arrive pas", "j'y arrive pas", "nul",
		"give up", "discouraged", "pointless",
	},
	models.IntentMotivation: {
		"motivation", "motiver", "me remotiver", "besoin d'un coup de boost",
		"motivate me", "need a push",
	},
	models.IntentCelebration: {
		"j'ai réussi", "jai reussi", "fier de moi", "fière de moi",
		"objectif atteint", "i did it", "proud of myself",
	},
	models.IntentCalorieQuestion: {
		"combien de calories", "calories restantes", "il me reste combien",
		"mon budget calories", "how many calories", "calories left",
	},
	models.IntentNutritionQuestion: {
		"protéines", "proteines", "glucides", "lipides", "c'est bon pour",
		"nutritionnel", "quels aliments", "is it healthy", "nutrition",
	},
	models.IntentMealSuggestion: {
		"quoi manger", "idée repas", "idee repas", "suggestion de repas",
		"qu'est-ce que je mange", "quest-ce que je mange",
		"what should i eat", "meal idea",
	},
	models.IntentRecipeRequest: {
		"recette", "comment cuisiner", "comment préparer", "comment preparer",
		"recipe",
	},
	models.IntentMealLog: {
		"j'ai mangé", "jai mange", "je viens de manger", "noter mon repas",
		"enregistrer mon repas", "i ate", "log my meal",
	},
	models.IntentProgressCheck: {
		"mes progrès", "mes progres", "où j'en suis", "ou j'en suis",
		"mon bilan", "mes stats", "my progress", "how am i doing",
	},
	models.IntentWeightConcern: {
		"mon poids", "je grossis", "pris du poids", "la balance",
		"je n'ai pas perdu", "gained weight", "scale",
	},
	models.IntentPlateau: {
		"stagne", "palier", "plateau", "ça ne bouge plus", "ca ne bouge plus",
		"stuck",
	},
	models.IntentChallenge: {
		"défi", "defi", "challenge", "un nouveau défi", "relever",
	},
	models.IntentReminder: {
		"rappel", "rappelle-moi", "rappelle moi", "me rappeler",
		"remind me", "reminder",
	},
	models.IntentAbandon: {
		"supprimer mon compte", "arrêter le programme", "arreter le programme",
		"me désinscrire", "me desinscrire", "j'arrête tout", "jarrete tout",
		"cancel my subscription", "quit the program",
	},
	models.IntentGoodbye: {
		"au revoir", "à demain", "a demain", "bonne nuit", "bye", "goodbye",
	},
	models.IntentGreeting: {
		"bonjour", "salut", "coucou", "hello", "bonsoir", "hey",
	},
	models.IntentThanks: {
		"merci", "thanks", "thank you", "top merci",
	},
	models.IntentHelp: {
		"aide", "comment ça marche", "comment ca marche", "je suis perdu",
		"que peux-tu faire", "help", "how does this work",
	},
}

// positiveWords and negativeWords drive sentiment extraction, independent of
// the winning intent.
var positiveWords = []string{
	"super", "génial", "genial", "content", "contente", "heureux", "heureuse",
	"fier", "fière", "fiere", "réussi", "reussi", "motivé", "motive", "merci",
	"great", "happy", "proud", "awesome",
}

var negativeWords = []string{
	"triste", "nul", "nulle", "découragé", "decourage", "marre", "fatigué",
	"fatigue", "stressé", "stresse", "angoissé", "angoisse", "honte",
	"épuisé", "epuise", "sad", "tired", "stressed", "ashamed", "awful",
}

// distressWords force urgency=high when present.
var distressWords = []string{
	"au secours", "je craque complètement", "je craque completement",
	"je n'en peux plus", "j'en peux plus", "jen peux plus", "détresse",
	"detresse", "panique", "crise", "help me", "can't take it", "breaking down",
}

// urgencyMediumWords raise urgency to medium.
var urgencyMediumWords = []string{
	"vite", "urgent", "maintenant", "tout de suite", "là maintenant",
	"la maintenant", "right now", "asap",
}

// foodWords feed the food entity extractor.
var foodWords = []string{
	"chocolat", "pizza", "pain", "fromage", "pâtes", "pates", "riz", "poulet",
	"salade", "burger", "frites", "gâteau", "gateau", "bonbons", "chips",
	"yaourt", "pomme", "banane", "oeufs", "poisson", "soupe", "sandwich",
	"chocolate", "cake", "cookies", "bread", "cheese", "pasta",
}

// entityPhrase binds a surface phrase to its canonical entity value.
type entityPhrase struct {
	phrase    string
	canonical string
}

// mealTypePhrases feed the meal_type entity extractor. Ordered longest
// phrase first: "petit déjeuner" must win over its substring "déjeuner".
var mealTypePhrases = []entityPhrase{
	{"petit-déjeuner", "breakfast"},
	{"petit déjeuner", "breakfast"},
	{"petit dej", "breakfast"},
	{"breakfast", "breakfast"},
	{"collation", "snack"},
	{"déjeuner", "lunch"},
	{"dejeuner", "lunch"},
	{"goûter", "snack"},
	{"gouter", "snack"},
	{"dinner", "dinner"},
	{"dîner", "dinner"},
	{"diner", "dinner"},
	{"lunch", "lunch"},
	{"snack", "snack"},
}

// timeOfDayPhrases feed the time_of_day entity extractor, longest first.
var timeOfDayPhrases = []entityPhrase{
	{"cet après-midi", "afternoon"},
	{"cet apres-midi", "afternoon"},
	{"this morning", "morning"},
	{"cette nuit", "night"},
	{"ce matin", "morning"},
	{"ce soir", "evening"},
	{"tonight", "evening"},
	{"ce midi", "noon"},
}
