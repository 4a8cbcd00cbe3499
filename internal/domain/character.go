package domain

import (
	"time"

	"github.com/google/uuid"
)

// MaxCharactersPerUser caps how many characters one account may hold.
const MaxCharactersPerUser = 3

type AbilityScores struct {
	Strength     int `json:"strength"`
	Dexterity    int `json:"dexterity"`
	Constitution int `json:"constitution"`
	Intelligence int `json:"intelligence"`
	Wisdom       int `json:"wisdom"`
	Charisma     int `json:"charisma"`
}

type HitPoints struct {
	Current int `json:"current"`
	Maximum int `json:"maximum"`
}

type Character struct {
	ID               uuid.UUID     `json:"id"`
	UserID           uuid.UUID     `json:"user_id"`
	Name             string        `json:"name"`
	Race             string        `json:"race"`
	Class            string        `json:"class"`
	Background       string        `json:"background"`
	Backstory        string        `json:"backstory"`
	AvatarURL        *string       `json:"avatar_url,omitempty"`
	Level            int           `json:"level"`
	AbilityScores    AbilityScores `json:"ability_scores"`
	HitPoints        HitPoints     `json:"hit_points"`
	ArmorClass       int           `json:"armor_class"`
	ProficiencyBonus int           `json:"proficiency_bonus"`
	Equipment        []string      `json:"equipment"`
	Spells           []string      `json:"spells"`
	CreatedAt        time.Time     `json:"created_at"`
	UpdatedAt        time.Time     `json:"updated_at"`
}
