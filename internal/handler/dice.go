package handler

import (
	"net/http"
	"time"

	"solo_adventure/internal/dice"
	"solo_adventure/pkg/logger"
	"solo_adventure/pkg/timestamp"

	"github.com/gin-gonic/gin"
)

// DiceHandler serves standalone rolls outside any campaign.
type DiceHandler struct {
	roller *dice.Roller
	log    logger.Logger
}

func NewDiceHandler(log logger.Logger) *DiceHandler {
	return &DiceHandler{
		roller: dice.New(),
		log:    log,
	}
}

func (h *DiceHandler) Roll(c *gin.Context) {
	name := c.Param("die")
	sides, ok := dice.ParseName(name)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unsupported die: " + name})
		return
	}

	result, err := h.roller.Roll(sides)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	now := time.Now()
	c.JSON(http.StatusOK, gin.H{
		"dice":       dice.Name(sides),
		"result":     result,
		"display":    dice.FormatRoll(dice.Name(sides), result),
		"rolled_at":  now,
		"local_time": timestamp.FormatDisplay(now),
	})
}
