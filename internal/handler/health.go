package handler

import (
	"net/http"

	"solo_adventure/internal/config"

	"github.com/gin-gonic/gin"
)

type HealthHandler struct {
	narratorConfigured bool
}

func NewHealthHandler(cfg *config.Config) *HealthHandler {
	return &HealthHandler{
		narratorConfigured: cfg.Replicate.APIToken != "",
	}
}

func (h *HealthHandler) Check(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":              "ok",
		"service":             "solo-adventure",
		"narrator_configured": h.narratorConfigured,
	})
}
