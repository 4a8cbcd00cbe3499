package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"solo_adventure/pkg/logger"
)

// TurnLockRepository guards a campaign against overlapping player turns.
// The lock mirrors the UI's disabled send control, but across tabs and
// devices. The TTL bounds how long a crashed generation can hold a campaign.
type TurnLockRepository interface {
	Acquire(ctx context.Context, campaignID uuid.UUID, ttl time.Duration) (bool, error)
	Release(ctx context.Context, campaignID uuid.UUID) error
}

type turnLockRepository struct {
	redis *redis.Client
	log   logger.Logger
}

func NewTurnLockRepository(redis *redis.Client, log logger.Logger) TurnLockRepository {
	return &turnLockRepository{redis: redis, log: log}
}

func lockKey(campaignID uuid.UUID) string {
	return "turn_lock:" + campaignID.String()
}

func (r *turnLockRepository) Acquire(ctx context.Context, campaignID uuid.UUID, ttl time.Duration) (bool, error) {
	ok, err := r.redis.SetNX(ctx, lockKey(campaignID), time.Now().Unix(), ttl).Result()
	if err != nil {
		r.log.Error("Failed to acquire turn lock", "error", err, "campaign_id", campaignID)
		return false, err
	}
	return ok, nil
}

func (r *turnLockRepository) Release(ctx context.Context, campaignID uuid.UUID) error {
	if err := r.redis.Del(ctx, lockKey(campaignID)).Err(); err != nil {
		r.log.Error("Failed to release turn lock", "error", err, "campaign_id", campaignID)
		return err
	}
	return nil
}
