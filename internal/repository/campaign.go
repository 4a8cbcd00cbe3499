package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"solo_adventure/internal/domain"
	apperrors "solo_adventure/pkg/errors"
	"solo_adventure/pkg/logger"
	"solo_adventure/pkg/timestamp"
)

// ErrCampaignExists indicates a second campaign creation raced with the
// first; the caller should re-read and use the winner's campaign.
var ErrCampaignExists = errors.New("campaign already exists for character")

// CampaignRepository is the authoritative ordered log of a character's single
// active campaign. The conversation history lives in a JSONB document column;
// appends are a single jsonb concatenation so there is no read-modify-write
// window, and a unique index on character_id keeps find-or-create races from
// producing duplicates.
type CampaignRepository interface {
	Create(ctx context.Context, campaign *domain.Campaign) error
	FindByCharacter(ctx context.Context, characterID uuid.UUID) (*domain.Campaign, error)
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Campaign, error)
	AppendMessage(ctx context.Context, campaignID uuid.UUID, message domain.ChatMessage) error
	UpdateCurrentScene(ctx context.Context, campaignID uuid.UUID, scene string) error
}

type campaignRepository struct {
	db  *pgxpool.Pool
	log logger.Logger
}

func NewCampaignRepository(db *pgxpool.Pool, log logger.Logger) CampaignRepository {
	return &campaignRepository{db: db, log: log}
}

func (r *campaignRepository) Create(ctx context.Context, campaign *domain.Campaign) error {
	history, err := encodeHistory(campaign.History)
	if err != nil {
		return fmt.Errorf("failed to encode history: %w", err)
	}

	gameState := campaign.GameState
	if gameState == nil {
		gameState = map[string]any{}
	}
	state, err := json.Marshal(gameState)
	if err != nil {
		return fmt.Errorf("failed to encode game state: %w", err)
	}

	query := `
		INSERT INTO campaigns (id, character_id, user_id, title, current_scene, history, game_state, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING created_at, updated_at
	`

	err = r.db.QueryRow(ctx, query,
		campaign.ID, campaign.CharacterID, campaign.UserID, campaign.Title,
		campaign.CurrentScene, history, state, campaign.CreatedAt, campaign.UpdatedAt,
	).Scan(&campaign.CreatedAt, &campaign.UpdatedAt)

	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			r.log.Warn("Campaign creation raced with an existing one", "character_id", campaign.CharacterID)
			return ErrCampaignExists
		}
		r.log.Error("Failed to create campaign", "error", err, "character_id", campaign.CharacterID)
		return err
	}

	return nil
}

func (r *campaignRepository) FindByCharacter(ctx context.Context, characterID uuid.UUID) (*domain.Campaign, error) {
	query := `
		SELECT id, character_id, user_id, title, current_scene, history, game_state, created_at, updated_at
		FROM campaigns
		WHERE character_id = $1
	`

	campaign, err := r.scanCampaign(r.db.QueryRow(ctx, query, characterID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrCampaignNotFound
		}
		r.log.Error("Failed to find campaign", "error", err, "character_id", characterID)
		return nil, err
	}

	return campaign, nil
}

func (r *campaignRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Campaign, error) {
	query := `
		SELECT id, character_id, user_id, title, current_scene, history, game_state, created_at, updated_at
		FROM campaigns
		WHERE id = $1
	`

	campaign, err := r.scanCampaign(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrCampaignNotFound
		}
		r.log.Error("Failed to get campaign", "error", err, "campaign_id", id)
		return nil, err
	}

	return campaign, nil
}

// AppendMessage appends one message to the history document in a single
// UPDATE. Append order is authoritative.
func (r *campaignRepository) AppendMessage(ctx context.Context, campaignID uuid.UUID, message domain.ChatMessage) error {
	encoded, err := encodeMessage(message)
	if err != nil {
		return fmt.Errorf("failed to encode message: %w", err)
	}

	query := `
		UPDATE campaigns
		SET history = history || $2::jsonb, updated_at = NOW()
		WHERE id = $1
	`

	tag, err := r.db.Exec(ctx, query, campaignID, encoded)
	if err != nil {
		r.log.Error("Failed to append message", "error", err, "campaign_id", campaignID)
		return err
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrCampaignNotFound
	}

	return nil
}

func (r *campaignRepository) UpdateCurrentScene(ctx context.Context, campaignID uuid.UUID, scene string) error {
	query := `
		UPDATE campaigns
		SET current_scene = $2, updated_at = NOW()
		WHERE id = $1
	`

	tag, err := r.db.Exec(ctx, query, campaignID, scene)
	if err != nil {
		r.log.Error("Failed to update current scene", "error", err, "campaign_id", campaignID)
		return err
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrCampaignNotFound
	}

	return nil
}

func (r *campaignRepository) scanCampaign(row rowScanner) (*domain.Campaign, error) {
	campaign := &domain.Campaign{}
	var history, gameState []byte

	err := row.Scan(
		&campaign.ID, &campaign.CharacterID, &campaign.UserID, &campaign.Title,
		&campaign.CurrentScene, &history, &gameState, &campaign.CreatedAt, &campaign.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	campaign.History = r.decodeHistory(history)

	if len(gameState) > 0 {
		if err := json.Unmarshal(gameState, &campaign.GameState); err != nil {
			r.log.Warn("Failed to decode game state, keeping empty", "error", err, "campaign_id", campaign.ID)
			campaign.GameState = map[string]any{}
		}
	}

	return campaign, nil
}

// decodeHistory converts the stored document into canonical messages,
// normalizing every timestamp on the way out. A corrupt history never fails
// a read; the bad entries are dropped with a warning.
func (r *campaignRepository) decodeHistory(raw []byte) []domain.ChatMessage {
	if len(raw) == 0 {
		return nil
	}

	var stored []domain.StoredMessage
	if err := json.Unmarshal(raw, &stored); err != nil {
		r.log.Warn("Failed to decode campaign history", "error", err)
		return nil
	}

	messages := make([]domain.ChatMessage, 0, len(stored))
	for _, m := range stored {
		messages = append(messages, domain.ChatMessage{
			ID:        m.ID,
			Sender:    m.Sender,
			Content:   m.Content,
			Timestamp: timestamp.Normalize(m.Timestamp),
			DiceRoll:  m.DiceRoll,
		})
	}
	return messages
}

func encodeMessage(message domain.ChatMessage) ([]byte, error) {
	encoded, err := json.Marshal([]domain.ChatMessage{message})
	if err != nil {
		return nil, err
	}
	return encoded, nil
}

func encodeHistory(messages []domain.ChatMessage) ([]byte, error) {
	if messages == nil {
		messages = []domain.ChatMessage{}
	}
	for i := range messages {
		if messages[i].Timestamp.IsZero() {
			messages[i].Timestamp = time.Now()
		}
	}
	return json.Marshal(messages)
}
