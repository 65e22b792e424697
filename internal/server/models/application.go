package models

import (
	"time"

	"github.com/dmitrijs2005/rpportal/internal/skills"
)

// Application is a submitted character application. It is never updated.
type Application struct {
	ID                   string     `json:"id"`
	SubmitterID          string     `json:"submitterId"`
	Email                string     `json:"email"`
	DiscordHandle        string     `json:"discordHandle"`
	AgeIRL               int        `json:"ageIRL"`
	Discovery            string     `json:"discovery"`
	Origin               string     `json:"origin"`
	AgeRP                int        `json:"ageRP"`
	CharacterName        string     `json:"characterName"`
	MainCraft            string     `json:"mainCraft"`
	Height               string     `json:"height"`
	Backstory            string     `json:"backstory"`
	Appearance           string     `json:"appearance"`
	Skills               skills.Set `json:"skills"`
	RoleplayContribution string     `json:"roleplayContribution"`
	Projects             string     `json:"projects"`
	RulesRead            bool       `json:"rulesRead"`
	LoreRead             bool       `json:"loreRead"`
	Referrer             string     `json:"referrer,omitempty"`
	CreatedAt            time.Time  `json:"createdAt"`
}

// Origins are the peoples a character may come from.
var Origins = []string{
	"Viking",
	"Aldovien",
	"Kuzvar",
	"Librosi",
	"Vladislave",
	"Frisien",
	"Galdien",
}

// Crafts are the main trades offered on the application form.
var Crafts = []string{
	"Ouvrier",
	"Fermier / Eleveur",
	"Couturier / Tanneur",
	"Forgeron",
	"Apothicaire",
	"Garde",
	"Druide",
}
