package service

import (
	"context"
	"fmt"
	"strings"

	"solo_adventure/internal/domain"
	"solo_adventure/pkg/logger"
)

// historyWindow caps how many trailing messages are folded into the prompt.
// Truncation is purely recency-based.
const historyWindow = 6

// notConfiguredText is shown instead of failing the whole session when no
// model token is present.
const notConfiguredText = "Please configure your Replicate API token to use the AI Dungeon Master."

// GenerationResult is the gateway's answer: either narrative text or a
// diagnostic. The gateway reports failure instead of returning an error so
// the session controller can decide what survives in the log.
type GenerationResult struct {
	Text    string `json:"text"`
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
}

// NarratorService produces the dungeon master's side of the conversation.
// Calls are best-effort with no bounded latency guarantee; callers own their
// context deadlines.
type NarratorService interface {
	OpeningScene(ctx context.Context, character *domain.Character) GenerationResult
	ContinueStory(ctx context.Context, input string, character *domain.Character, history []domain.ChatMessage) GenerationResult
}

// generator is the hosted-model transport behind the narrator.
type generator interface {
	Configured() bool
	Generate(ctx context.Context, prompt string) (string, error)
}

type narratorService struct {
	gen generator
	log logger.Logger
}

func NewNarratorService(gen generator, log logger.Logger) NarratorService {
	return &narratorService{gen: gen, log: log}
}

func (s *narratorService) OpeningScene(ctx context.Context, character *domain.Character) GenerationResult {
	return s.generate(ctx, openingPrompt(character))
}

func (s *narratorService) ContinueStory(ctx context.Context, input string, character *domain.Character, history []domain.ChatMessage) GenerationResult {
	return s.generate(ctx, continuePrompt(input, character, history))
}

func (s *narratorService) generate(ctx context.Context, prompt string) GenerationResult {
	if !s.gen.Configured() {
		s.log.Warn("Narrative model token not configured, generation disabled")
		return GenerationResult{
			Text:    notConfiguredText,
			Success: false,
			Error:   "API token not configured",
		}
	}

	text, err := s.gen.Generate(ctx, prompt)
	if err != nil {
		s.log.Error("Narrative generation failed", "error", err)
		return GenerationResult{
			Success: false,
			Error:   err.Error(),
		}
	}

	return GenerationResult{
		Text:    text,
		Success: true,
	}
}

func openingPrompt(c *domain.Character) string {
	backstory := ""
	if c.Backstory != "" {
		backstory = fmt.Sprintf("\n\nCharacter Backstory: %s", c.Backstory)
	}

	return fmt.Sprintf(`You are a skilled Dungeon Master running a solo D&D campaign. The player's character is:

Name: %s
Race: %s
Class: %s
Background: %s
Level: %d%s

Ability Scores:
- Strength: %d
- Dexterity: %d
- Constitution: %d
- Intelligence: %d
- Wisdom: %d
- Charisma: %d

Create an engaging opening scene for this character's adventure that incorporates their backstory and personality. Keep the description to two concise paragraphs. Conclude by offering the player a clear choice of 2-3 actions, formatted as a numbered list.`,
		c.Name, c.Race, c.Class, c.Background, c.Level, backstory,
		c.AbilityScores.Strength, c.AbilityScores.Dexterity, c.AbilityScores.Constitution,
		c.AbilityScores.Intelligence, c.AbilityScores.Wisdom, c.AbilityScores.Charisma,
	)
}

func continuePrompt(input string, c *domain.Character, history []domain.ChatMessage) string {
	backstory := ""
	if c.Backstory != "" {
		backstory = fmt.Sprintf("\nCharacter Backstory: %s", c.Backstory)
	}

	return fmt.Sprintf(`You are a Dungeon Master continuing a D&D campaign. Here's the recent conversation:

%s

Character: %s (%s %s, Level %d)%s

Player's latest action: %s

As the DM, respond to the player's action. Follow these rules:
1. Provide a brief narrative of the outcome in one to two sentences.
2. If the player's action has an uncertain outcome (e.g., attacking, persuading, searching for something hidden, or performing an athletic feat), you must ask them to make a dice roll.
3. The format for asking for a dice roll must be clear. Example: "Roll a d20 for your Dexterity saving throw." or "Roll a d20 for an attack on the goblin."
4. If the action is straightforward and doesn't require a dice roll, simply describe the outcome and present the next choices.
5. If the player rolled dice in their action, use the result to describe the outcome.
6. Present the player's next choices as a numbered list.`,
		historyContext(c.Name, history), c.Name, c.Race, c.Class, c.Level, backstory, input,
	)
}

// historyContext renders the last messages of the log with the player's
// lines attributed to the character.
func historyContext(characterName string, history []domain.ChatMessage) string {
	if len(history) > historyWindow {
		history = history[len(history)-historyWindow:]
	}

	lines := make([]string, 0, len(history))
	for _, msg := range history {
		speaker := "DM"
		if msg.Sender == domain.SenderPlayer {
			speaker = characterName
		}
		lines = append(lines, fmt.Sprintf("%s: %s", speaker, msg.Content))
	}
	return strings.Join(lines, "\n")
}
