package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"solo_adventure/internal/dice"
	"solo_adventure/internal/domain"
	"solo_adventure/internal/repository"
	"solo_adventure/internal/rules"
	apperrors "solo_adventure/pkg/errors"
	"solo_adventure/pkg/logger"
)

const (
	backstoryMinChars = 50
	backstoryMaxChars = 2000
)

// CharacterInput carries the character-build form fields. Derived stats are
// always recomputed server-side; clients never submit hit points or armor
// class.
type CharacterInput struct {
	Name          string               `json:"name"`
	Race          string               `json:"race"`
	Class         string               `json:"class"`
	Background    string               `json:"background"`
	Backstory     string               `json:"backstory"`
	AvatarURL     *string              `json:"avatar_url,omitempty"`
	AbilityScores domain.AbilityScores `json:"ability_scores"`
}

type CharacterService interface {
	Create(ctx context.Context, userID uuid.UUID, input CharacterInput) (*domain.Character, error)
	Get(ctx context.Context, userID, characterID uuid.UUID) (*domain.Character, error)
	List(ctx context.Context, userID uuid.UUID) ([]*domain.Character, error)
	Update(ctx context.Context, userID, characterID uuid.UUID, input CharacterInput) (*domain.Character, error)
	Delete(ctx context.Context, userID, characterID uuid.UUID) error
	RollScores() domain.AbilityScores
}

type characterService struct {
	repo   repository.CharacterRepository
	roller *dice.Roller
	log    logger.Logger
}

func NewCharacterService(repo repository.CharacterRepository, roller *dice.Roller, log logger.Logger) CharacterService {
	return &characterService{repo: repo, roller: roller, log: log}
}

func (s *characterService) Create(ctx context.Context, userID uuid.UUID, input CharacterInput) (*domain.Character, error) {
	if err := validateInput(&input); err != nil {
		return nil, err
	}

	count, err := s.repo.CountByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to count characters: %w", err)
	}
	if count >= domain.MaxCharactersPerUser {
		return nil, apperrors.ErrCharacterLimit
	}

	scores := clampScores(input.AbilityScores)
	hp := rules.HitPoints(scores.Constitution)

	character := &domain.Character{
		ID:            uuid.New(),
		UserID:        userID,
		Name:          input.Name,
		Race:          input.Race,
		Class:         input.Class,
		Background:    input.Background,
		Backstory:     input.Backstory,
		AvatarURL:     input.AvatarURL,
		Level:         rules.BaseLevel,
		AbilityScores: scores,
		HitPoints: domain.HitPoints{
			Current: hp,
			Maximum: hp,
		},
		ArmorClass:       rules.ArmorClass(scores.Dexterity),
		ProficiencyBonus: rules.ProficiencyBonus,
		Equipment:        []string{},
		Spells:           []string{},
		CreatedAt:        time.Now(),
		UpdatedAt:        time.Now(),
	}

	if err := s.repo.Create(ctx, character); err != nil {
		return nil, fmt.Errorf("failed to create character: %w", err)
	}

	s.log.Info("Character created", "character_id", character.ID, "user_id", userID, "name", character.Name)
	return character, nil
}

func (s *characterService) Get(ctx context.Context, userID, characterID uuid.UUID) (*domain.Character, error) {
	return s.getOwned(ctx, userID, characterID)
}

func (s *characterService) List(ctx context.Context, userID uuid.UUID) ([]*domain.Character, error) {
	return s.repo.ListByUser(ctx, userID)
}

func (s *characterService) Update(ctx context.Context, userID, characterID uuid.UUID, input CharacterInput) (*domain.Character, error) {
	if err := validateInput(&input); err != nil {
		return nil, err
	}

	character, err := s.getOwned(ctx, userID, characterID)
	if err != nil {
		return nil, err
	}

	scores := clampScores(input.AbilityScores)
	hp := rules.HitPoints(scores.Constitution)

	character.Name = input.Name
	character.Race = input.Race
	character.Class = input.Class
	character.Background = input.Background
	character.Backstory = input.Backstory
	character.AvatarURL = input.AvatarURL
	character.AbilityScores = scores
	character.ArmorClass = rules.ArmorClass(scores.Dexterity)

	// Derived maximum moved; current HP follows but never exceeds it.
	character.HitPoints.Maximum = hp
	if character.HitPoints.Current > hp || character.HitPoints.Current == 0 {
		character.HitPoints.Current = hp
	}

	if err := s.repo.Update(ctx, character); err != nil {
		return nil, fmt.Errorf("failed to update character: %w", err)
	}

	return character, nil
}

func (s *characterService) Delete(ctx context.Context, userID, characterID uuid.UUID) error {
	if _, err := s.getOwned(ctx, userID, characterID); err != nil {
		return err
	}
	return s.repo.Delete(ctx, characterID)
}

// RollScores generates a fresh stat block, 4d6 drop lowest per ability.
func (s *characterService) RollScores() domain.AbilityScores {
	return domain.AbilityScores{
		Strength:     s.roller.RollAbilityScore(),
		Dexterity:    s.roller.RollAbilityScore(),
		Constitution: s.roller.RollAbilityScore(),
		Intelligence: s.roller.RollAbilityScore(),
		Wisdom:       s.roller.RollAbilityScore(),
		Charisma:     s.roller.RollAbilityScore(),
	}
}

func (s *characterService) getOwned(ctx context.Context, userID, characterID uuid.UUID) (*domain.Character, error) {
	character, err := s.repo.GetByID(ctx, characterID)
	if err != nil {
		return nil, err
	}
	if character.UserID != userID {
		return nil, apperrors.ErrForbidden
	}
	return character, nil
}

func validateInput(input *CharacterInput) error {
	input.Name = strings.TrimSpace(input.Name)
	input.Race = strings.TrimSpace(input.Race)
	input.Class = strings.TrimSpace(input.Class)
	input.Background = strings.TrimSpace(input.Background)
	input.Backstory = strings.TrimSpace(input.Backstory)

	if input.Name == "" || input.Race == "" || input.Class == "" || input.Background == "" {
		return fmt.Errorf("%w: name, race, class and background are required", apperrors.ErrBadRequest)
	}
	if len(input.Name) > 100 {
		return fmt.Errorf("%w: name is too long (max 100 characters)", apperrors.ErrBadRequest)
	}
	if len(input.Backstory) < backstoryMinChars {
		return fmt.Errorf("%w: backstory must be at least %d characters", apperrors.ErrBadRequest, backstoryMinChars)
	}
	if len(input.Backstory) > backstoryMaxChars {
		return fmt.Errorf("%w: backstory must be at most %d characters", apperrors.ErrBadRequest, backstoryMaxChars)
	}
	return nil
}

func clampScores(scores domain.AbilityScores) domain.AbilityScores {
	return domain.AbilityScores{
		Strength:     rules.ClampScore(scores.Strength),
		Dexterity:    rules.ClampScore(scores.Dexterity),
		Constitution: rules.ClampScore(scores.Constitution),
		Intelligence: rules.ClampScore(scores.Intelligence),
		Wisdom:       rules.ClampScore(scores.Wisdom),
		Charisma:     rules.ClampScore(scores.Charisma),
	}
}
