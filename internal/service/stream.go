package service

import (
	"sync"

	"github.com/google/uuid"

	"solo_adventure/internal/domain"
	"solo_adventure/pkg/logger"
)

// subscriberBuffer bounds a slow client's backlog; beyond it messages are
// dropped for that subscriber and the client re-syncs on reconnect.
const subscriberBuffer = 16

// StreamHub fans appended log messages out to live campaign viewers.
type StreamHub struct {
	mu          sync.RWMutex
	subscribers map[uuid.UUID]map[chan domain.ChatMessage]struct{}
	log         logger.Logger
}

func NewStreamHub(log logger.Logger) *StreamHub {
	return &StreamHub{
		subscribers: make(map[uuid.UUID]map[chan domain.ChatMessage]struct{}),
		log:         log,
	}
}

// Subscribe registers a viewer for a campaign's log. The returned cancel
// function must be called when the viewer disconnects.
func (h *StreamHub) Subscribe(campaignID uuid.UUID) (<-chan domain.ChatMessage, func()) {
	ch := make(chan domain.ChatMessage, subscriberBuffer)

	h.mu.Lock()
	if h.subscribers[campaignID] == nil {
		h.subscribers[campaignID] = make(map[chan domain.ChatMessage]struct{})
	}
	h.subscribers[campaignID][ch] = struct{}{}
	h.mu.Unlock()

	cancel := func() {
		h.mu.Lock()
		if subs, ok := h.subscribers[campaignID]; ok {
			delete(subs, ch)
			if len(subs) == 0 {
				delete(h.subscribers, campaignID)
			}
		}
		h.mu.Unlock()
		close(ch)
	}

	return ch, cancel
}

// Publish delivers a freshly appended message to every subscriber of the
// campaign. Delivery is best-effort and never blocks an append.
func (h *StreamHub) Publish(campaignID uuid.UUID, message domain.ChatMessage) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for ch := range h.subscribers[campaignID] {
		select {
		case ch <- message:
		default:
			h.log.Warn("Dropping stream message for slow subscriber", "campaign_id", campaignID)
		}
	}
}
