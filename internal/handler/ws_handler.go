package handler

import (
	"go-jewelry-store/internal/ws"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
)

type WSHandler struct {
	hub *ws.Hub
}

func NewWSHandler(hub *ws.Hub) *WSHandler {
	return &WSHandler{hub: hub}
}

// RequireUpgrade rejects plain HTTP requests to the websocket route.
func (h *WSHandler) RequireUpgrade(c *fiber.Ctx) error {
	if websocket.IsWebSocketUpgrade(c) {
		return c.Next()
	}
	return fiber.ErrUpgradeRequired
}

// Stream keeps the admin connection registered with the hub until the client
// goes away. Clients only listen; anything they send is discarded.
// GET /api/admin/ws?token=<jwt>
func (h *WSHandler) Stream() fiber.Handler {
	return websocket.New(func(c *websocket.Conn) {
		if !h.hub.Attach(c) {
			c.Close()
			return
		}
		defer h.hub.Detach(c)

		for {
			if _, _, err := c.ReadMessage(); err != nil {
				break
			}
		}
	})
}
