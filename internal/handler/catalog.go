package handler

import (
	"net/http"

	"solo_adventure/internal/rules"

	"github.com/gin-gonic/gin"
)

// CatalogHandler serves the static character-build options.
type CatalogHandler struct{}

func NewCatalogHandler() *CatalogHandler {
	return &CatalogHandler{}
}

func (h *CatalogHandler) Get(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"races":       rules.Races,
		"classes":     rules.Classes,
		"backgrounds": rules.Backgrounds,
	})
}
