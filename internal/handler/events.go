package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"solo_adventure/internal/service"
	"solo_adventure/pkg/errors"
	"solo_adventure/pkg/logger"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // TODO: restrict origins once the frontend host is pinned
	},
}

// EventsHandler streams appended campaign messages over a websocket so a
// second tab sees turns as they land.
type EventsHandler struct {
	sessionService service.SessionService
	stream         *service.StreamHub
	log            logger.Logger
}

func NewEventsHandler(sessionService service.SessionService, stream *service.StreamHub, log logger.Logger) *EventsHandler {
	return &EventsHandler{
		sessionService: sessionService,
		stream:         stream,
		log:            log,
	}
}

func (h *EventsHandler) HandleCampaignLog(c *gin.Context) {
	userID, _ := c.Get("user_id")
	campaignID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid campaign ID"})
		return
	}

	campaign, err := h.sessionService.Watch(c.Request.Context(), userID.(uuid.UUID), campaignID)
	if err != nil {
		c.JSON(errors.HTTPStatusFromError(err), gin.H{"error": err.Error()})
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.log.Error("Failed to upgrade connection", "error", err)
		return
	}
	defer conn.Close()

	messages, cancel := h.stream.Subscribe(campaignID)
	defer cancel()

	// Replay the log before streaming so the viewer starts from the full
	// normalized history rather than a blank panel.
	for _, message := range campaign.History {
		if err := conn.WriteJSON(message); err != nil {
			h.log.Warn("Failed to replay log message", "error", err, "campaign_id", campaignID)
			return
		}
	}

	// Reader goroutine only notices the peer going away.
	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	for {
		select {
		case message, ok := <-messages:
			if !ok {
				return
			}
			if err := conn.WriteJSON(message); err != nil {
				h.log.Warn("Failed to write stream message", "error", err, "campaign_id", campaignID)
				return
			}
		case <-done:
			return
		case <-c.Request.Context().Done():
			return
		}
	}
}
