package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	ws "miniblog/internal/websocket"
)

// WebSocketHandler upgrades HTTP connections for the live activity feed.
type WebSocketHandler struct {
	hub           *ws.Hub
	allowedOrigin string
}

// NewWebSocketHandler creates a new WebSocketHandler.
func NewWebSocketHandler(hub *ws.Hub, allowedOrigin string) *WebSocketHandler {
	return &WebSocketHandler{hub: hub, allowedOrigin: allowedOrigin}
}

func (h *WebSocketHandler) upgrader() websocket.Upgrader {
	return websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(r *http.Request) bool {
			origin := r.Header.Get("Origin")
			return origin == "" || origin == h.allowedOrigin
		},
	}
}

// Serve handles the WebSocket connection request.
func (h *WebSocketHandler) Serve(w http.ResponseWriter, r *http.Request) {
	upgrader := h.upgrader()
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Error().Err(err).Msg("Failed to upgrade websocket connection")
		return
	}

	client := ws.NewClient(h.hub, conn)
	h.hub.Register <- client

	go client.WritePump()
	go func() {
		client.ReadPump(h.handleIncoming)
		h.hub.Unregister <- client
	}()
}

// handleIncoming processes messages received from a websocket client.
func (h *WebSocketHandler) handleIncoming(client *ws.Client, message []byte) {
	var msg ws.Message
	if err := json.Unmarshal(message, &msg); err != nil {
		log.Error().Err(err).Bytes("message", message).Msg("Error decoding websocket message")
		client.Send <- ws.NewErrorMessage("Malformed message")
		return
	}

	switch msg.Action {
	case "subscribe_post":
		postID, ok := postIDFromPayload(msg.Payload)
		if !ok {
			client.Send <- ws.NewErrorMessage("Invalid payload for subscribe_post")
			return
		}
		h.hub.Subscribe(client, postID)

	case "unsubscribe_post":
		postID, ok := postIDFromPayload(msg.Payload)
		if !ok {
			client.Send <- ws.NewErrorMessage("Invalid payload for unsubscribe_post")
			return
		}
		h.hub.Unsubscribe(client, postID)

	default:
		log.Warn().Str("action", msg.Action).Msg("Unknown websocket action received")
		client.Send <- ws.NewErrorMessage("Unknown action: " + msg.Action)
	}
}

func postIDFromPayload(payload interface{}) (string, bool) {
	fields, ok := payload.(map[string]interface{})
	if !ok {
		return "", false
	}
	postID, ok := fields["postId"].(string)
	if !ok || postID == "" {
		return "", false
	}
	return postID, true
}
