package services

import "github.com/AnshRaj112/saferplace/internal/models"

// IntroductionInterval is how often, in milliseconds, the shell rotates
// the introduction messages.
const IntroductionInterval = 4000

var tutorialPages = []models.TutorialPage{
	{
		Title:       "Welcome to SaferPlace",
		Description: "Discover how to make the most of our features with this quick tutorial.",
		Icon:        "rocket",
	},
	{
		Title:       "Key Features",
		Description: "Our powerful tools in VerifyMessages helps you check your text, audio and documents for any toxic content",
		Icon:        "star",
	},
	{
		Title:       "Get Started",
		Description: "You can add emergency contacts with the Add Contact feature on the top right corner of the app",
		Icon:        "check-circle",
	},
}

var introductionMessages = []models.Quote{
	{
		ID:      1,
		Title:   "Ne laissez pas la peur contrôler votre vie.",
		Content: "Les violences, qu'elles soient physiques ou émotionnelles, laissent des cicatrices invisibles, mais sachez que vous n'êtes pas seul(e). Safer Place est là pour vous aider, pour vous offrir une échappatoire sécurisée et discrète. Cette application vous permet de contacter des professionnels, d'obtenir des ressources, et de trouver des solutions adaptées à votre situation. Vous méritez de vivre sans crainte et de retrouver votre sérénité. Commencez avec Safer Place et faites le premier pas vers la liberté.",
	},
	{
		ID:      2,
		Title:   "Un geste pour votre sécurité.",
		Content: "Si vous vous sentez pris(e) au piège dans une relation violente, Safer Place est votre allié. Cette application offre une aide confidentielle, rapide et efficace, vous permettant de contacter des ressources, de signaler les violences, et de planifier des actions pour votre protection. Vous avez le droit de vous sentir en sécurité et soutenu(e). N’attendez plus : un petit geste peut tout changer. Utilisez Safer Place et reprenez le contrôle de votre vie.",
	},
	{
		ID:      3,
		Title:   "Le premier pas vers un avenir serein commence aujourd'hui.",
		Content: "Il est difficile de demander de l'aide quand on vit dans la peur, mais Safer Place est une ressource simple et sécurisée pour vous apporter le soutien dont vous avez besoin. Cette application offre une assistance discrète pour vous protéger et vous guider vers des solutions concrètes. Vous n'êtes pas seul(e) : il existe des personnes prêtes à vous tendre la main. Avec Safer Place dès aujourd'hui vous faites un choix pour votre avenir, votre sécurité et votre bien-être.",
	},
}

// Tutorial returns the onboarding pages in display order.
func Tutorial() []models.TutorialPage {
	out := make([]models.TutorialPage, len(tutorialPages))
	copy(out, tutorialPages)
	return out
}

// Introduction returns the rotating welcome messages.
func Introduction() []models.Quote {
	out := make([]models.Quote, len(introductionMessages))
	copy(out, introductionMessages)
	return out
}
