package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"solo_adventure/internal/dice"
	"solo_adventure/internal/domain"
	"solo_adventure/internal/repository"
	apperrors "solo_adventure/pkg/errors"
	"solo_adventure/pkg/logger"
)

// turnLockTTL bounds how long an in-flight generation can hold a campaign if
// its request dies without releasing the lock.
const turnLockTTL = 2 * time.Minute

// SessionView is the result of entering a play session.
type SessionView struct {
	Campaign *domain.Campaign `json:"campaign"`
	Created  bool             `json:"created"`
}

// TurnResult is the outcome of one player turn. When the narrator fails, the
// player's message stays in the log, NarratorReplied is false and Diagnostic
// carries the gateway's explanation; the client offers an explicit retry.
type TurnResult struct {
	Campaign        *domain.Campaign `json:"campaign"`
	NarratorReplied bool             `json:"narrator_replied"`
	Diagnostic      string           `json:"diagnostic,omitempty"`
}

// SessionService governs a character's play session: find-or-create on
// entry, one appended player message plus at most one narrator reply per
// turn, dice rolls that bypass the narrator, and explicit retry of a
// stranded turn.
type SessionService interface {
	Enter(ctx context.Context, userID, characterID uuid.UUID) (*SessionView, error)
	Send(ctx context.Context, userID, characterID uuid.UUID, input string) (*TurnResult, error)
	Roll(ctx context.Context, userID, characterID uuid.UUID, die string) (*TurnResult, error)
	Retry(ctx context.Context, userID, characterID uuid.UUID) (*TurnResult, error)
	Watch(ctx context.Context, userID, campaignID uuid.UUID) (*domain.Campaign, error)
}

type sessionService struct {
	characterRepo repository.CharacterRepository
	campaignRepo  repository.CampaignRepository
	turnLock      repository.TurnLockRepository
	narrator      NarratorService
	roller        *dice.Roller
	stream        *StreamHub
	log           logger.Logger
}

func NewSessionService(
	characterRepo repository.CharacterRepository,
	campaignRepo repository.CampaignRepository,
	turnLock repository.TurnLockRepository,
	narrator NarratorService,
	roller *dice.Roller,
	stream *StreamHub,
	log logger.Logger,
) SessionService {
	return &sessionService{
		characterRepo: characterRepo,
		campaignRepo:  campaignRepo,
		turnLock:      turnLock,
		narrator:      narrator,
		roller:        roller,
		stream:        stream,
		log:           log,
	}
}

// Enter loads the character's campaign, generating the opening scene and
// creating the campaign if this is the first play. Two racing first plays
// converge on one campaign via the store's uniqueness guarantee.
func (s *sessionService) Enter(ctx context.Context, userID, characterID uuid.UUID) (*SessionView, error) {
	character, err := s.ownedCharacter(ctx, userID, characterID)
	if err != nil {
		return nil, err
	}

	campaign, err := s.campaignRepo.FindByCharacter(ctx, characterID)
	if err == nil {
		return &SessionView{Campaign: campaign}, nil
	}
	if !errors.Is(err, apperrors.ErrCampaignNotFound) {
		return nil, fmt.Errorf("failed to load campaign: %w", err)
	}

	result := s.narrator.OpeningScene(ctx, character)
	if !result.Success {
		s.log.Error("Failed to generate opening scene", "character_id", characterID, "error", result.Error)
		return nil, fmt.Errorf("%w: failed to start campaign: %s", apperrors.ErrInternalServer, result.Error)
	}

	campaign = &domain.Campaign{
		ID:           uuid.New(),
		CharacterID:  characterID,
		UserID:       userID,
		Title:        fmt.Sprintf("%s's Adventure", character.Name),
		CurrentScene: result.Text,
		History: []domain.ChatMessage{
			{
				ID:        uuid.NewString(),
				Sender:    domain.SenderNarrator,
				Content:   result.Text,
				Timestamp: time.Now(),
			},
		},
		GameState: map[string]any{},
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}

	if err := s.campaignRepo.Create(ctx, campaign); err != nil {
		if errors.Is(err, repository.ErrCampaignExists) {
			existing, findErr := s.campaignRepo.FindByCharacter(ctx, characterID)
			if findErr != nil {
				return nil, fmt.Errorf("failed to load racing campaign: %w", findErr)
			}
			return &SessionView{Campaign: existing}, nil
		}
		return nil, fmt.Errorf("failed to create campaign: %w", err)
	}

	s.log.Info("Campaign created", "campaign_id", campaign.ID, "character_id", characterID)
	return &SessionView{Campaign: campaign, Created: true}, nil
}

// Send runs one player turn: append the player's message, ask the narrator,
// append its reply. The player message is appended optimistically and stays
// even when generation fails.
func (s *sessionService) Send(ctx context.Context, userID, characterID uuid.UUID, input string) (*TurnResult, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return nil, fmt.Errorf("%w: message cannot be empty", apperrors.ErrBadRequest)
	}

	character, err := s.ownedCharacter(ctx, userID, characterID)
	if err != nil {
		return nil, err
	}

	campaign, err := s.campaignRepo.FindByCharacter(ctx, characterID)
	if err != nil {
		return nil, err
	}

	unlock, err := s.acquireTurn(ctx, campaign.ID)
	if err != nil {
		return nil, err
	}
	defer unlock()

	// Re-read under the lock so turns that settled while we waited are part
	// of the prompt context. The history captured here predates this turn's
	// append; the player's new input rides in the prompt itself.
	campaign, err = s.campaignRepo.GetByID(ctx, campaign.ID)
	if err != nil {
		return nil, err
	}
	history := campaign.History

	playerMessage := domain.ChatMessage{
		ID:        uuid.NewString(),
		Sender:    domain.SenderPlayer,
		Content:   input,
		Timestamp: time.Now(),
	}
	if err := s.appendAndPublish(ctx, campaign.ID, playerMessage); err != nil {
		return nil, err
	}

	result := s.narrator.ContinueStory(ctx, input, character, history)
	return s.concludeTurn(ctx, campaign.ID, result)
}

// Roll resolves a side-panel dice roll: the annotated result goes straight
// into the log. The narrator is not invoked; the model only sees the roll if
// the player references it in a later message.
func (s *sessionService) Roll(ctx context.Context, userID, characterID uuid.UUID, die string) (*TurnResult, error) {
	if _, err := s.ownedCharacter(ctx, userID, characterID); err != nil {
		return nil, err
	}

	sides, ok := dice.ParseName(die)
	if !ok {
		return nil, fmt.Errorf("%w: unsupported die %q", apperrors.ErrBadRequest, die)
	}

	campaign, err := s.campaignRepo.FindByCharacter(ctx, characterID)
	if err != nil {
		return nil, err
	}

	result, err := s.roller.Roll(sides)
	if err != nil {
		return nil, err
	}

	name := dice.Name(sides)
	rollMessage := domain.ChatMessage{
		ID:        uuid.NewString(),
		Sender:    domain.SenderPlayer,
		Content:   fmt.Sprintf("🎲 Rolled %s", dice.FormatRoll(name, result)),
		Timestamp: time.Now(),
		DiceRoll: &domain.DiceRoll{
			Die:    name,
			Result: result,
		},
	}
	if err := s.appendAndPublish(ctx, campaign.ID, rollMessage); err != nil {
		return nil, err
	}

	updated, err := s.campaignRepo.GetByID(ctx, campaign.ID)
	if err != nil {
		return nil, err
	}

	return &TurnResult{Campaign: updated, NarratorReplied: false}, nil
}

// Retry re-runs generation for a turn whose narrator reply never arrived.
// It appends only the reply; the stranded player message is not duplicated.
func (s *sessionService) Retry(ctx context.Context, userID, characterID uuid.UUID) (*TurnResult, error) {
	character, err := s.ownedCharacter(ctx, userID, characterID)
	if err != nil {
		return nil, err
	}

	campaign, err := s.campaignRepo.FindByCharacter(ctx, characterID)
	if err != nil {
		return nil, err
	}

	unlock, err := s.acquireTurn(ctx, campaign.ID)
	if err != nil {
		return nil, err
	}
	defer unlock()

	// Validate against the log as it stands under the lock; a reply that
	// landed in the meantime means there is nothing left to retry.
	campaign, err = s.campaignRepo.GetByID(ctx, campaign.ID)
	if err != nil {
		return nil, err
	}

	last := len(campaign.History) - 1
	if last < 0 || campaign.History[last].Sender != domain.SenderPlayer {
		return nil, fmt.Errorf("%w: no stranded player message to retry", apperrors.ErrBadRequest)
	}

	result := s.narrator.ContinueStory(ctx, campaign.History[last].Content, character, campaign.History[:last])
	return s.concludeTurn(ctx, campaign.ID, result)
}

// Watch authorizes a live subscription to a campaign's log and returns the
// campaign so the caller can replay the history to the new viewer.
func (s *sessionService) Watch(ctx context.Context, userID, campaignID uuid.UUID) (*domain.Campaign, error) {
	campaign, err := s.campaignRepo.GetByID(ctx, campaignID)
	if err != nil {
		return nil, err
	}
	if campaign.UserID != userID {
		return nil, apperrors.ErrForbidden
	}
	return campaign, nil
}

// concludeTurn appends the narrator's reply when generation succeeded and
// returns the refreshed view either way.
func (s *sessionService) concludeTurn(ctx context.Context, campaignID uuid.UUID, result GenerationResult) (*TurnResult, error) {
	if result.Success {
		narratorMessage := domain.ChatMessage{
			ID:        uuid.NewString(),
			Sender:    domain.SenderNarrator,
			Content:   result.Text,
			Timestamp: time.Now(),
		}
		if err := s.appendAndPublish(ctx, campaignID, narratorMessage); err != nil {
			return nil, err
		}
		if err := s.campaignRepo.UpdateCurrentScene(ctx, campaignID, result.Text); err != nil {
			s.log.Warn("Failed to update current scene", "error", err, "campaign_id", campaignID)
		}
	} else {
		s.log.Warn("Narrator reply missing, player message stranded", "campaign_id", campaignID, "error", result.Error)
	}

	updated, err := s.campaignRepo.GetByID(ctx, campaignID)
	if err != nil {
		return nil, err
	}

	return &TurnResult{
		Campaign:        updated,
		NarratorReplied: result.Success,
		Diagnostic:      result.Error,
	}, nil
}

func (s *sessionService) appendAndPublish(ctx context.Context, campaignID uuid.UUID, message domain.ChatMessage) error {
	if err := s.campaignRepo.AppendMessage(ctx, campaignID, message); err != nil {
		return fmt.Errorf("failed to append message: %w", err)
	}
	s.stream.Publish(campaignID, message)
	return nil
}

func (s *sessionService) acquireTurn(ctx context.Context, campaignID uuid.UUID) (func(), error) {
	ok, err := s.turnLock.Acquire(ctx, campaignID, turnLockTTL)
	if err != nil {
		return nil, fmt.Errorf("failed to acquire turn lock: %w", err)
	}
	if !ok {
		return nil, apperrors.ErrTurnInProgress
	}

	return func() {
		if err := s.turnLock.Release(context.WithoutCancel(ctx), campaignID); err != nil {
			s.log.Warn("Failed to release turn lock", "error", err, "campaign_id", campaignID)
		}
	}, nil
}

func (s *sessionService) ownedCharacter(ctx context.Context, userID, characterID uuid.UUID) (*domain.Character, error) {
	character, err := s.characterRepo.GetByID(ctx, characterID)
	if err != nil {
		return nil, err
	}
	if character.UserID != userID {
		return nil, apperrors.ErrForbidden
	}
	return character, nil
}
