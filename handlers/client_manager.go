package handlers

import (
	"log"
	"sync"

	"bomberman/server/messages"
	"bomberman/server/services"
)

// ClientManager manages connected clients
type ClientManager struct {
	clients map[string]*ClientHandler // Map PlayerID to ClientHandler
	mutex   sync.RWMutex
}

// NewClientManager creates a new client manager
func NewClientManager() *ClientManager {
	return &ClientManager{
		clients: make(map[string]*ClientHandler),
	}
}

// AddClient adds a client to the manager
func (cm *ClientManager) AddClient(playerID string, handler *ClientHandler) {
	cm.mutex.Lock()
	defer cm.mutex.Unlock()
	cm.clients[playerID] = handler
}

// RemoveClient removes a client from the manager
func (cm *ClientManager) RemoveClient(playerID string) {
	cm.mutex.Lock()
	defer cm.mutex.Unlock()
	delete(cm.clients, playerID)
}

// Count reports the number of logged in clients
func (cm *ClientManager) Count() int {
	cm.mutex.RLock()
	defer cm.mutex.RUnlock()
	return len(cm.clients)
}

// BroadcastToAll sends a message to all connected clients
func (cm *ClientManager) BroadcastToAll(msg interface{}) {
	cm.mutex.RLock()
	defer cm.mutex.RUnlock()

	for id, client := range cm.clients {
		if err := client.conn.SendMessage(msg); err != nil {
			log.Printf("Error broadcasting to client %s: %v", id, err)
		}
	}
}

// BroadcastTick relays the commands applied during a tick, then the
// resulting state
func (cm *ClientManager) BroadcastTick(update services.TickUpdate) {
	for _, qc := range update.Commands {
		cm.BroadcastToAll(messages.BaseMessage{
			Type:    messages.MessageTypeUpdate,
			Payload: messages.UpdateCommand(qc.PlayerID, qc.Command),
		})
	}
	cm.BroadcastToAll(messages.BaseMessage{
		Type: messages.MessageTypeState,
		Payload: messages.StateMessage{
			State:  update.State,
			Placed: update.Placed,
			Blasts: update.Blasts,
		},
	})
}
