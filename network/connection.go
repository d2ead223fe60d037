package network

import (
	"log"
	"sync"

	"github.com/gorilla/websocket"
)

// Connection wraps the WebSocket connection with additional fields
type Connection struct {
	ws        *websocket.Conn
	codec     Codec
	send      chan []byte
	done      chan struct{}
	closeOnce sync.Once
}

// NewConnection creates a new connection wrapper
func NewConnection(ws *websocket.Conn, codec Codec) *Connection {
	if codec == nil {
		codec = JSONCodec{}
	}
	return &Connection{
		ws:    ws,
		codec: codec,
		send:  make(chan []byte, 256),
		done:  make(chan struct{}),
	}
}

// Codec returns the codec negotiated for this connection
func (c *Connection) Codec() Codec { return c.codec }

// ReadPump reads messages from the WebSocket connection until it fails
func (c *Connection) ReadPump(h MessageHandler) {
	defer c.Close()

	for {
		_, message, err := c.ws.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("Error reading message: %v", err)
			}
			return
		}
		h.HandleMessage(c, message)
	}
}

// WritePump writes queued messages to the WebSocket connection
func (c *Connection) WritePump() {
	defer c.Close()

	for {
		select {
		case <-c.done:
			c.ws.WriteMessage(websocket.CloseMessage, []byte{})
			return
		case message := <-c.send:
			if err := c.ws.WriteMessage(c.codec.FrameType(), message); err != nil {
				return
			}
		}
	}
}

// SendMessage encodes msg and queues it. A client that cannot keep up is
// disconnected.
func (c *Connection) SendMessage(msg interface{}) error {
	data, err := c.codec.Marshal(msg)
	if err != nil {
		return err
	}

	select {
	case <-c.done:
		return nil
	default:
	}
	select {
	case c.send <- data:
	default:
		log.Println("Send buffer full, closing connection")
		c.Close()
	}
	return nil
}

// Close shuts the connection down once
func (c *Connection) Close() {
	c.closeOnce.Do(func() {
		close(c.done)
		c.ws.Close()
	})
}

// MessageHandler interface for handling messages
type MessageHandler interface {
	HandleMessage(conn *Connection, message []byte)
}
