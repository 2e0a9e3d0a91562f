package game

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

// Origin filtering happens in the server middleware before the upgrade.
var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

type GameHandler struct {
	hub *hub
}

func NewGameHandler(hub *hub) *GameHandler {
	return &GameHandler{hub: hub}
}

func (h *GameHandler) ConnectHandler(ctx *gin.Context) {
	conn, err := upgrader.Upgrade(ctx.Writer, ctx.Request, nil)
	if err != nil {
		slog.Error("WS upgrade failed", "ip", ctx.ClientIP(), "error", err)
		return
	}

	socket := NewWebsocketConnection(conn)
	player := NewPlayer(uuid.NewString(), h.hub.Inbox(), h.hub.Removals())
	h.hub.Register(player)

	slog.Debug("player connected", "id", player.Id(), "ip", ctx.ClientIP())

	go player.ReadPump(socket)
	go player.WritePump(socket)
}
