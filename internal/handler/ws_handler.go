package handler

import (
	"context"
	"encoding/json"
	"log"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"

	"tailorshop/internal/domain"
	"tailorshop/internal/middleware"
	"tailorshop/internal/service/auth"
	"tailorshop/internal/service/message"
	"tailorshop/internal/service/token"
	"tailorshop/internal/ws"
)

const (
	wsUserKey       = "ws_user"
	wsRoutingKeyKey = "ws_routing_key"
)

// WSHandler authenticates WebSocket handshakes and runs the per-connection
// read loop. Authentication happens once at upgrade time; the connection then
// stays bound to the principal resolved there.
type WSHandler struct {
	hub            *ws.Hub
	authService    auth.Service
	tokenService   *token.Service
	messageService message.Service
}

func NewWSHandler(hub *ws.Hub, authService auth.Service, tokenService *token.Service, messageService message.Service) *WSHandler {
	return &WSHandler{
		hub:            hub,
		authService:    authService,
		tokenService:   tokenService,
		messageService: messageService,
	}
}

// Upgrade gates the route to real WebSocket upgrades and resolves the
// principal before the protocol switch. The routing key prefers the user's
// numeric id, falls back to the token subject when the subject names no
// account, and finally to "unknown". Unknown connections are accepted but
// never receive pushes.
func (h *WSHandler) Upgrade(c *fiber.Ctx) error {
	if !websocket.IsWebSocketUpgrade(c) {
		return fiber.ErrUpgradeRequired
	}

	routingKey := "unknown"
	var user *domain.User

	if tokenString := middleware.ExtractToken(c); tokenString != "" {
		resolved, err := h.authService.ResolvePrincipal(c.Context(), tokenString)
		if err != nil {
			log.Printf("ws: could not resolve principal for handshake: %v", err)
		}
		if resolved != nil {
			user = resolved
			routingKey = strconv.FormatInt(resolved.ID, 10)
		} else if subject, err := h.tokenService.ExtractSubject(tokenString); err == nil && subject != "" {
			routingKey = subject
		}
	}

	c.Locals(wsUserKey, user)
	c.Locals(wsRoutingKeyKey, routingKey)
	return c.Next()
}

// inboundFrame is what clients send over the socket; only chat messages are
// accepted inbound, everything else flows server to client.
type inboundFrame struct {
	Event string                  `json:"event"`
	Data  domain.SendMessageInput `json:"data"`
}

func (h *WSHandler) Serve() fiber.Handler {
	return websocket.New(func(conn *websocket.Conn) {
		routingKey, _ := conn.Locals(wsRoutingKeyKey).(string)
		if routingKey == "" {
			routingKey = "unknown"
		}
		user, _ := conn.Locals(wsUserKey).(*domain.User)

		h.hub.Register(routingKey, conn)
		defer h.hub.Unregister(routingKey, conn)

		for {
			_, payload, err := conn.ReadMessage()
			if err != nil {
				return
			}

			if user == nil {
				continue
			}

			var frame inboundFrame
			if err := json.Unmarshal(payload, &frame); err != nil || frame.Event != "message" {
				continue
			}

			if _, err := h.messageService.Send(context.Background(), user, frame.Data); err != nil {
				log.Printf("ws: failed to deliver message from user %d: %v", user.ID, err)
			}
		}
	})
}
