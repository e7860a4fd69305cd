package system

import (
	"go-approvals/internal/common/api"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
)

type WebSocketApi struct {
	Hub *Hub
}

func NewWebSocketApi(hub *Hub) api.Route {
	return &WebSocketApi{Hub: hub}
}

func (h *WebSocketApi) Setup(app *fiber.App) {
	app.Get("/ws/approvals", websocket.New(func(c *websocket.Conn) {
		h.Hub.register(c)
		defer h.Hub.unregister(c)

		// Clients are listen-only; reads just detect disconnect.
		for {
			if _, _, err := c.ReadMessage(); err != nil {
				break
			}
		}
	}))
}
