package service

import (
	"solo_adventure/internal/config"
	"solo_adventure/internal/dice"
	"solo_adventure/internal/replicate"
	"solo_adventure/internal/repository"
	"solo_adventure/pkg/logger"
)

type Services struct {
	Auth      AuthService
	Character CharacterService
	Narrator  NarratorService
	Session   SessionService
	Stream    *StreamHub
	RateLimit RateLimitService
}

func NewServices(repos *repository.Repositories, cfg *config.Config, log logger.Logger) *Services {
	roller := dice.New()
	stream := NewStreamHub(log)
	narrator := NewNarratorService(replicate.NewClient(cfg.Replicate, log), log)

	return &Services{
		Auth:      NewAuthService(repos.User, cfg.JWT, log),
		Character: NewCharacterService(repos.Character, roller, log),
		Narrator:  narrator,
		Session:   NewSessionService(repos.Character, repos.Campaign, repos.TurnLock, narrator, roller, stream, log),
		Stream:    stream,
		RateLimit: NewRateLimitService(repos.RateLimit, log),
	}
}
