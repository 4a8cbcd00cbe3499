package handler

import (
	"solo_adventure/internal/config"
	"solo_adventure/internal/service"
	"solo_adventure/pkg/logger"
)

type Handlers struct {
	Health    *HealthHandler
	Auth      *AuthHandler
	Character *CharacterHandler
	Catalog   *CatalogHandler
	Dice      *DiceHandler
	Play      *PlayHandler
	Events    *EventsHandler
}

func NewHandlers(services *service.Services, cfg *config.Config, log logger.Logger) *Handlers {
	return &Handlers{
		Health:    NewHealthHandler(cfg),
		Auth:      NewAuthHandler(services.Auth, log),
		Character: NewCharacterHandler(services.Character, log),
		Catalog:   NewCatalogHandler(),
		Dice:      NewDiceHandler(log),
		Play:      NewPlayHandler(services.Session, log),
		Events:    NewEventsHandler(services.Session, services.Stream, log),
	}
}
