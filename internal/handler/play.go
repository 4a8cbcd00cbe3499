package handler

import (
	"net/http"

	"solo_adventure/internal/service"
	"solo_adventure/pkg/errors"
	"solo_adventure/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// PlayHandler exposes the campaign session endpoints. All routes key on the
// character ID; the session service resolves the campaign behind it.
type PlayHandler struct {
	sessionService service.SessionService
	log            logger.Logger
}

func NewPlayHandler(sessionService service.SessionService, log logger.Logger) *PlayHandler {
	return &PlayHandler{
		sessionService: sessionService,
		log:            log,
	}
}

type SendMessageRequest struct {
	Content string `json:"content" binding:"required"`
}

type RollRequest struct {
	Die string `json:"die" binding:"required"`
}

func (h *PlayHandler) Enter(c *gin.Context) {
	userID, characterID, ok := h.sessionParams(c)
	if !ok {
		return
	}

	view, err := h.sessionService.Enter(c.Request.Context(), userID, characterID)
	if err != nil {
		h.log.Warn("Failed to enter session", "error", err, "character_id", characterID)
		c.JSON(errors.HTTPStatusFromError(err), gin.H{"error": err.Error()})
		return
	}

	status := http.StatusOK
	if view.Created {
		status = http.StatusCreated
	}
	c.JSON(status, view)
}

func (h *PlayHandler) Send(c *gin.Context) {
	userID, characterID, ok := h.sessionParams(c)
	if !ok {
		return
	}

	var req SendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := h.sessionService.Send(c.Request.Context(), userID, characterID, req.Content)
	if err != nil {
		c.JSON(errors.HTTPStatusFromError(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, result)
}

func (h *PlayHandler) Roll(c *gin.Context) {
	userID, characterID, ok := h.sessionParams(c)
	if !ok {
		return
	}

	var req RollRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := h.sessionService.Roll(c.Request.Context(), userID, characterID, req.Die)
	if err != nil {
		c.JSON(errors.HTTPStatusFromError(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, result)
}

func (h *PlayHandler) Retry(c *gin.Context) {
	userID, characterID, ok := h.sessionParams(c)
	if !ok {
		return
	}

	result, err := h.sessionService.Retry(c.Request.Context(), userID, characterID)
	if err != nil {
		c.JSON(errors.HTTPStatusFromError(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, result)
}

func (h *PlayHandler) sessionParams(c *gin.Context) (uuid.UUID, uuid.UUID, bool) {
	userID, _ := c.Get("user_id")
	characterID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid character ID"})
		return uuid.Nil, uuid.Nil, false
	}
	return userID.(uuid.UUID), characterID, true
}
