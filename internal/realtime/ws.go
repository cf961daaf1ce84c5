package realtime

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	jwtsvc "homebound/internal/pkg/jwt"
	"homebound/internal/pkg/response"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true }, // restrict in prod
}

type WSHandler struct {
	hub *Hub
	jwt *jwtsvc.Service
}

func NewWSHandler(hub *Hub, jwt *jwtsvc.Service) *WSHandler {
	return &WSHandler{hub: hub, jwt: jwt}
}

// HandleWebSocket upgrades GET /ws?token=JWT. Browsers cannot set
// headers on websocket upgrades, so the token travels in the query.
func (h *WSHandler) HandleWebSocket(c *gin.Context) {
	token := c.Query("token")
	if token == "" {
		response.Error(c, http.StatusUnauthorized, "UNAUTHORIZED", "Token is required")
		return
	}

	claims, err := h.jwt.ValidateToken(token)
	if err != nil {
		response.Error(c, http.StatusUnauthorized, "UNAUTHORIZED", "Invalid or expired token")
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("websocket upgrade failed: %v", err)
		return
	}

	h.hub.ServeWS(conn, claims.UserID, claims.Role)
}
