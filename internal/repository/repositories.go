package repository

import (
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"solo_adventure/pkg/logger"
)

type Repositories struct {
	User      UserRepository
	Character CharacterRepository
	Campaign  CampaignRepository
	RateLimit RateLimitRepository
	TurnLock  TurnLockRepository
}

func NewRepositories(db *pgxpool.Pool, rdb *redis.Client, log logger.Logger) *Repositories {
	return &Repositories{
		User:      NewUserRepository(db, log),
		Character: NewCharacterRepository(db, log),
		Campaign:  NewCampaignRepository(db, log),
		RateLimit: NewRateLimitRepository(rdb, log),
		TurnLock:  NewTurnLockRepository(rdb, log),
	}
}
