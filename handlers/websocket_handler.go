package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/websocket"

	"github.com/kmarzh/scrim-scoreboard/broadcast"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Overlays and team pages connect from arbitrary origins.
	CheckOrigin: func(r *http.Request) bool { return true },
}

type WebSocketHandler struct {
	hub *broadcast.Hub
}

func NewWebSocketHandler(hub *broadcast.Hub) *WebSocketHandler {
	return &WebSocketHandler{hub: hub}
}

// ServeWSHandler attaches a viewer to the room of the tournament it watches.
func (h *WebSocketHandler) ServeWSHandler(w http.ResponseWriter, r *http.Request) {
	tournamentID, err := urlParam(r, "tournamentID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		slog.Warn("websocket upgrade failed", slog.Any("error", err))
		return
	}

	client := &broadcast.Client{
		Hub:  h.hub,
		Conn: conn,
		Send: make(chan []byte, 64),
		Room: tournamentID,
	}
	h.hub.Register <- client

	go client.WritePump()
	go client.ReadPump()
}
