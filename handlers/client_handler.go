package handlers

import (
	"errors"
	"log"

	"github.com/gorilla/websocket"

	"bomberman/server/game"
	"bomberman/server/messages"
	"bomberman/server/models"
	"bomberman/server/network"
	"bomberman/server/services"
)

// ClientHandler manages a single client connection
type ClientHandler struct {
	conn          *network.Connection
	playerService *services.PlayerService
	arena         *services.ArenaService
	clientManager *ClientManager
	player        *models.PlayerProfile
	joined        bool
}

// HandleClientConnection serves a client until its connection closes
func HandleClientConnection(wsConn *websocket.Conn, codec network.Codec, playerService *services.PlayerService, arena *services.ArenaService, clientManager *ClientManager) {
	log.Printf("New %s connection from %s", codec.Name(), wsConn.RemoteAddr())

	conn := network.NewConnection(wsConn, codec)
	handler := &ClientHandler{
		conn:          conn,
		playerService: playerService,
		arena:         arena,
		clientManager: clientManager,
	}

	go conn.WritePump()
	conn.ReadPump(handler)

	handler.leaveArena()
	if handler.player != nil {
		clientManager.RemoveClient(handler.player.ID)
		playerService.Logout(handler.player.ID)
		log.Printf("Player %s disconnected", handler.player.Nickname)
	}
}

// HandleMessage handles incoming messages from the client
func (h *ClientHandler) HandleMessage(conn *network.Connection, message []byte) {
	var baseMsg messages.BaseMessage
	if err := conn.Codec().Unmarshal(message, &baseMsg); err != nil {
		log.Printf("Error unmarshaling message: %v", err)
		h.sendError(messages.CodeBadPayload, "Malformed message")
		return
	}

	switch baseMsg.Type {
	case messages.MessageTypeLogin:
		h.handleLogin(baseMsg.Payload)
	case messages.MessageTypeJoin:
		h.handleJoin()
	case messages.MessageTypeCommand:
		h.handleCommand(baseMsg.Payload)
	case messages.MessageTypeLeave:
		h.leaveArena()
	default:
		log.Printf("Unknown message type: %s", baseMsg.Type)
		h.sendError(messages.CodeUnknownMessageType, "Unknown message type received")
	}
}

// handleLogin handles login requests
func (h *ClientHandler) handleLogin(payload interface{}) {
	if h.player != nil {
		h.sendError(messages.CodeLoginFailed, "Already logged in")
		return
	}

	var loginMsg messages.LoginMessage
	if err := network.Convert(h.conn.Codec(), payload, &loginMsg); err != nil {
		log.Printf("Error decoding login message: %v", err)
		h.sendError(messages.CodeBadPayload, "Malformed login message")
		return
	}

	player, err := h.playerService.Login(loginMsg.Nickname)
	if err != nil {
		log.Printf("Login failed for %q: %v", loginMsg.Nickname, err)
		h.sendError(messages.CodeLoginFailed, err.Error())
		return
	}
	h.player = player
	h.clientManager.AddClient(player.ID, h)
	log.Printf("Player %s logged in as %s (%d online)", player.Nickname, player.ID, h.clientManager.Count())

	h.send(messages.MessageTypeLoginSuccess, messages.LoginSuccessMessage{
		PlayerID: player.ID,
		Message:  "Login successful",
	})
}

// handleJoin spawns the player's character
func (h *ClientHandler) handleJoin() {
	if h.player == nil {
		h.sendError(messages.CodeNotLoggedIn, "Log in before joining")
		return
	}
	if h.joined {
		h.sendError(messages.CodeJoinFailed, "Already joined")
		return
	}

	spawned, err := h.arena.Join(h.player.ID, h.player.Nickname)
	if err != nil {
		if errors.Is(err, game.ErrNoSpawnAvailable) {
			h.sendError(messages.CodeNoSpawnAvailable, err.Error())
			return
		}
		log.Printf("Join failed for %s: %v", h.player.Nickname, err)
		h.sendError(messages.CodeJoinFailed, err.Error())
		return
	}
	h.joined = true
	if err := h.playerService.RecordJoin(h.player.ID); err != nil {
		log.Printf("Error recording join for %s: %v", h.player.Nickname, err)
	}

	h.send(messages.MessageTypeJoined, messages.JoinedMessage{
		PlayerID: h.player.ID,
		Col:      spawned.Col,
		Row:      spawned.Row,
		X:        spawned.X,
		Y:        spawned.Y,
		Scale:    spawned.Scale,
		State:    h.arena.Snapshot(),
	})
}

// handleCommand queues a key or action command for the next tick
func (h *ClientHandler) handleCommand(payload interface{}) {
	if h.player == nil {
		h.sendError(messages.CodeNotLoggedIn, "Log in before sending commands")
		return
	}

	var cmd messages.Command
	if err := network.Convert(h.conn.Codec(), payload, &cmd); err != nil {
		h.sendError(messages.CodeBadPayload, "Malformed command")
		return
	}

	err := h.arena.Enqueue(h.player.ID, cmd)
	switch {
	case err == nil:
	case errors.Is(err, services.ErrQueueFull):
		h.sendError(messages.CodeQueueFull, err.Error())
	default:
		h.sendError(messages.CodeCommandRejected, err.Error())
	}
}

// leaveArena removes the character, if any
func (h *ClientHandler) leaveArena() {
	if !h.joined {
		return
	}
	h.joined = false
	if err := h.arena.Leave(h.player.ID); err != nil {
		log.Printf("Error leaving arena: %v", err)
		return
	}
	log.Printf("Player %s left the arena", h.player.Nickname)
}

func (h *ClientHandler) send(t messages.MessageType, payload interface{}) {
	if err := h.conn.SendMessage(messages.BaseMessage{Type: t, Payload: payload}); err != nil {
		log.Printf("Error sending %s: %v", t, err)
	}
}

func (h *ClientHandler) sendError(code, message string) {
	h.send(messages.MessageTypeError, messages.ErrorMessage{Code: code, Message: message})
}
