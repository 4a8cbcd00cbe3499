package handler

import (
	"net/http"

	"solo_adventure/internal/service"
	"solo_adventure/pkg/errors"
	"solo_adventure/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type CharacterHandler struct {
	characterService service.CharacterService
	log              logger.Logger
}

func NewCharacterHandler(characterService service.CharacterService, log logger.Logger) *CharacterHandler {
	return &CharacterHandler{
		characterService: characterService,
		log:              log,
	}
}

func (h *CharacterHandler) Create(c *gin.Context) {
	userID, _ := c.Get("user_id")
	var req service.CharacterInput
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	character, err := h.characterService.Create(c.Request.Context(), userID.(uuid.UUID), req)
	if err != nil {
		h.log.Warn("Character creation failed", "error", err, "user_id", userID)
		c.JSON(errors.HTTPStatusFromError(err), gin.H{"error": err.Error()})
		return
	}

	h.log.Info("Character created", "character_id", character.ID, "user_id", userID)
	c.JSON(http.StatusCreated, character)
}

func (h *CharacterHandler) List(c *gin.Context) {
	userID, _ := c.Get("user_id")
	characters, err := h.characterService.List(c.Request.Context(), userID.(uuid.UUID))
	if err != nil {
		c.JSON(errors.HTTPStatusFromError(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"characters": characters})
}

func (h *CharacterHandler) GetByID(c *gin.Context) {
	userID, _ := c.Get("user_id")
	characterID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid character ID"})
		return
	}

	character, err := h.characterService.Get(c.Request.Context(), userID.(uuid.UUID), characterID)
	if err != nil {
		c.JSON(errors.HTTPStatusFromError(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, character)
}

func (h *CharacterHandler) Update(c *gin.Context) {
	userID, _ := c.Get("user_id")
	characterID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid character ID"})
		return
	}

	var req service.CharacterInput
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	character, err := h.characterService.Update(c.Request.Context(), userID.(uuid.UUID), characterID, req)
	if err != nil {
		c.JSON(errors.HTTPStatusFromError(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, character)
}

func (h *CharacterHandler) Delete(c *gin.Context) {
	userID, _ := c.Get("user_id")
	characterID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid character ID"})
		return
	}

	if err := h.characterService.Delete(c.Request.Context(), userID.(uuid.UUID), characterID); err != nil {
		c.JSON(errors.HTTPStatusFromError(err), gin.H{"error": err.Error()})
		return
	}

	h.log.Info("Character deleted", "character_id", characterID, "user_id", userID)
	c.JSON(http.StatusOK, gin.H{"message": "character deleted"})
}

// RollScores deals a fresh set of ability scores for the creation form.
func (h *CharacterHandler) RollScores(c *gin.Context) {
	scores := h.characterService.RollScores()
	c.JSON(http.StatusOK, gin.H{"ability_scores": scores})
}
