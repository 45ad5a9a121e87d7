package handler

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/studyhub/studyhub-backend/internal/common"
	"github.com/studyhub/studyhub-backend/internal/ws"
	"github.com/studyhub/studyhub-backend/pkg/jwt"
	"github.com/studyhub/studyhub-backend/pkg/logger"
)

// WSHandler handles WebSocket connections. It is the connection gateway:
// every connection passes connecting -> authenticated -> bound, and any
// credential failure closes the attempt before it is bound.
type WSHandler struct {
	hub            *ws.Hub
	jwtManager     *jwt.Manager
	allowedOrigins []string
	upgrader       websocket.Upgrader
}

// NewWSHandler creates a new WSHandler
func NewWSHandler(hub *ws.Hub, jwtManager *jwt.Manager, allowedOrigins string) *WSHandler {
	h := &WSHandler{
		hub:            hub,
		jwtManager:     jwtManager,
		allowedOrigins: parseOrigins(allowedOrigins),
	}
	h.upgrader = websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin:     h.checkOrigin,
	}
	return h
}

// parseOrigins parses comma-separated origins string
func parseOrigins(origins string) []string {
	if origins == "" {
		return nil
	}
	parts := strings.Split(origins, ",")
	result := make([]string, 0, len(parts))
	for _, p := range parts {
		trimmed := strings.TrimSpace(p)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}

// checkOrigin validates the request origin against allowed origins
func (h *WSHandler) checkOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		return true // Same-origin requests don't have Origin header
	}

	// If no allowed origins configured, allow all (development mode)
	if len(h.allowedOrigins) == 0 {
		return true
	}

	for _, allowed := range h.allowedOrigins {
		if origin == allowed {
			return true
		}
	}

	return false
}

// bearerToken extracts the credential from the handshake request. Browsers
// cannot set headers on WebSocket upgrades, so a token query parameter is
// accepted alongside the Authorization header. The credential must arrive
// with the handshake, never as a first message.
func bearerToken(c *gin.Context) string {
	if token := c.Query("token"); token != "" {
		return token
	}
	authHeader := c.GetHeader("Authorization")
	if strings.HasPrefix(authHeader, "Bearer ") {
		return strings.TrimPrefix(authHeader, "Bearer ")
	}
	return ""
}

// Connect handles GET /ws/chat, the WebSocket upgrade
// @Summary Realtime messaging WebSocket
// @Tags messages
// @Param token query string true "bearer credential"
// @Router /ws/chat [get]
func (h *WSHandler) Connect(c *gin.Context) {
	token := bearerToken(c)
	if token == "" {
		common.ErrorResponse(c, http.StatusUnauthorized, "Missing credentials", nil)
		return
	}

	claims, err := h.jwtManager.VerifyToken(token)
	if err != nil {
		common.ErrorResponse(c, http.StatusUnauthorized, "Invalid credentials", err)
		return
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		return
	}

	client := ws.NewClient(h.hub, conn, claims.UserID)
	h.hub.Register(client)

	wsLogger := logger.WithUserID(claims.UserID)
	wsLogger.Debug().Msg("websocket bound")

	go client.WritePump()
	go client.ReadPump()
}
