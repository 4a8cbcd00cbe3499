package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"solo_adventure/internal/domain"
	apperrors "solo_adventure/pkg/errors"
	"solo_adventure/pkg/logger"
)

type CharacterRepository interface {
	Create(ctx context.Context, character *domain.Character) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Character, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]*domain.Character, error)
	CountByUser(ctx context.Context, userID uuid.UUID) (int, error)
	Update(ctx context.Context, character *domain.Character) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type characterRepository struct {
	db  *pgxpool.Pool
	log logger.Logger
}

func NewCharacterRepository(db *pgxpool.Pool, log logger.Logger) CharacterRepository {
	return &characterRepository{db: db, log: log}
}

const characterColumns = `
	id, user_id, name, race, class, background, backstory, avatar_url, level,
	strength, dexterity, constitution, intelligence, wisdom, charisma,
	hp_current, hp_maximum, armor_class, proficiency_bonus,
	equipment, spells, created_at, updated_at
`

func (r *characterRepository) Create(ctx context.Context, c *domain.Character) error {
	query := `
		INSERT INTO characters (
			id, user_id, name, race, class, background, backstory, avatar_url, level,
			strength, dexterity, constitution, intelligence, wisdom, charisma,
			hp_current, hp_maximum, armor_class, proficiency_bonus,
			equipment, spells, created_at, updated_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21, $22, $23)
		RETURNING created_at, updated_at
	`

	err := r.db.QueryRow(ctx, query,
		c.ID, c.UserID, c.Name, c.Race, c.Class, c.Background, c.Backstory, c.AvatarURL, c.Level,
		c.AbilityScores.Strength, c.AbilityScores.Dexterity, c.AbilityScores.Constitution,
		c.AbilityScores.Intelligence, c.AbilityScores.Wisdom, c.AbilityScores.Charisma,
		c.HitPoints.Current, c.HitPoints.Maximum, c.ArmorClass, c.ProficiencyBonus,
		c.Equipment, c.Spells, c.CreatedAt, c.UpdatedAt,
	).Scan(&c.CreatedAt, &c.UpdatedAt)

	if err != nil {
		r.log.Error("Failed to create character", "error", err, "user_id", c.UserID)
		return err
	}

	return nil
}

func (r *characterRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Character, error) {
	query := `SELECT ` + characterColumns + ` FROM characters WHERE id = $1`

	row := r.db.QueryRow(ctx, query, id)
	character, err := scanCharacter(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrCharacterNotFound
		}
		r.log.Error("Failed to get character", "error", err, "character_id", id)
		return nil, err
	}

	return character, nil
}

func (r *characterRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]*domain.Character, error) {
	query := `SELECT ` + characterColumns + ` FROM characters WHERE user_id = $1 ORDER BY created_at DESC`

	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		r.log.Error("Failed to list characters", "error", err, "user_id", userID)
		return nil, err
	}
	defer rows.Close()

	var characters []*domain.Character
	for rows.Next() {
		character, err := scanCharacter(rows)
		if err != nil {
			r.log.Error("Failed to scan character", "error", err)
			return nil, err
		}
		characters = append(characters, character)
	}

	return characters, rows.Err()
}

func (r *characterRepository) CountByUser(ctx context.Context, userID uuid.UUID) (int, error) {
	var count int
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM characters WHERE user_id = $1`, userID).Scan(&count)
	if err != nil {
		r.log.Error("Failed to count characters", "error", err, "user_id", userID)
		return 0, err
	}
	return count, nil
}

func (r *characterRepository) Update(ctx context.Context, c *domain.Character) error {
	query := `
		UPDATE characters
		SET name = $2, race = $3, class = $4, background = $5, backstory = $6, avatar_url = $7,
		    strength = $8, dexterity = $9, constitution = $10, intelligence = $11, wisdom = $12, charisma = $13,
		    hp_current = $14, hp_maximum = $15, armor_class = $16,
		    equipment = $17, spells = $18, updated_at = $19
		WHERE id = $1
		RETURNING updated_at
	`

	err := r.db.QueryRow(ctx, query,
		c.ID, c.Name, c.Race, c.Class, c.Background, c.Backstory, c.AvatarURL,
		c.AbilityScores.Strength, c.AbilityScores.Dexterity, c.AbilityScores.Constitution,
		c.AbilityScores.Intelligence, c.AbilityScores.Wisdom, c.AbilityScores.Charisma,
		c.HitPoints.Current, c.HitPoints.Maximum, c.ArmorClass,
		c.Equipment, c.Spells, time.Now(),
	).Scan(&c.UpdatedAt)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.ErrCharacterNotFound
		}
		r.log.Error("Failed to update character", "error", err, "character_id", c.ID)
		return err
	}

	return nil
}

func (r *characterRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM characters WHERE id = $1`, id)
	if err != nil {
		r.log.Error("Failed to delete character", "error", err, "character_id", id)
		return err
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrCharacterNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanCharacter(row rowScanner) (*domain.Character, error) {
	c := &domain.Character{}
	err := row.Scan(
		&c.ID, &c.UserID, &c.Name, &c.Race, &c.Class, &c.Background, &c.Backstory, &c.AvatarURL, &c.Level,
		&c.AbilityScores.Strength, &c.AbilityScores.Dexterity, &c.AbilityScores.Constitution,
		&c.AbilityScores.Intelligence, &c.AbilityScores.Wisdom, &c.AbilityScores.Charisma,
		&c.HitPoints.Current, &c.HitPoints.Maximum, &c.ArmorClass, &c.ProficiencyBonus,
		&c.Equipment, &c.Spells, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return c, nil
}
