package domain

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

const (
	SenderPlayer   = "player"
	SenderNarrator = "dm"
)

// DiceRoll annotates a player message produced by the dice panel.
type DiceRoll struct {
	Die    string `json:"dice"`
	Result int    `json:"result"`
}

// ChatMessage is a log entry with a canonical, normalized timestamp.
// Sequence order is append order and is authoritative; logs are never
// re-sorted by timestamp.
type ChatMessage struct {
	ID        string    `json:"id"`
	Sender    string    `json:"sender"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
	DiceRoll  *DiceRoll `json:"dice_roll,omitempty"`
}

// StoredMessage is the wire form of a log entry as persisted in the campaign
// history document. Timestamps are left undecoded because older documents
// carry several shapes (epoch objects, strings, bare numbers); the timestamp
// package normalizes them on the way out.
type StoredMessage struct {
	ID        string          `json:"id"`
	Sender    string          `json:"sender"`
	Content   string          `json:"content"`
	Timestamp json.RawMessage `json:"timestamp"`
	DiceRoll  *DiceRoll       `json:"dice_roll,omitempty"`
}

// Campaign is the single ongoing play-through owned by one character.
type Campaign struct {
	ID           uuid.UUID      `json:"id"`
	CharacterID  uuid.UUID      `json:"character_id"`
	UserID       uuid.UUID      `json:"user_id"`
	Title        string         `json:"title"`
	CurrentScene string         `json:"current_scene"`
	History      []ChatMessage  `json:"history"`
	GameState    map[string]any `json:"game_state"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
}
