package system

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/gofiber/contrib/websocket"
	"go.uber.org/zap"
)

// DecisionEvent is pushed to connected clients whenever an approval
// action is processed.
type DecisionEvent struct {
	TaskID     int       `json:"taskId"`
	Module     string    `json:"module"`
	Action     string    `json:"action"`
	ApproverID string    `json:"approverId"`
	At         time.Time `json:"at"`
}

// Hub fans decision events out to all live websocket connections.
type Hub struct {
	mu     sync.Mutex
	conns  map[*websocket.Conn]struct{}
	logger *zap.Logger
}

func NewHub(logger *zap.Logger) *Hub {
	return &Hub{
		conns:  map[*websocket.Conn]struct{}{},
		logger: logger,
	}
}

func (h *Hub) register(c *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.conns[c] = struct{}{}
}

func (h *Hub) unregister(c *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.conns, c)
}

// Broadcast sends the event to every connection; dead connections are
// dropped on write failure.
func (h *Hub) Broadcast(event DecisionEvent) {
	payload, err := json.Marshal(event)
	if err != nil {
		h.logger.Error("failed to encode decision event", zap.Error(err))
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	for c := range h.conns {
		if err := c.WriteMessage(websocket.TextMessage, payload); err != nil {
			c.Close()
			delete(h.conns, c)
		}
	}
}
