package messages

import "bomberman/server/game"

// MessageType defines the type of message being sent
type MessageType string

const (
	MessageTypeLogin        MessageType = "login"
	MessageTypeLoginSuccess MessageType = "login_success"
	MessageTypeJoin         MessageType = "join"
	MessageTypeJoined       MessageType = "joined"
	MessageTypeLeave        MessageType = "leave"
	MessageTypeCommand      MessageType = "command"
	MessageTypeUpdate       MessageType = "update"
	MessageTypeState        MessageType = "state"
	MessageTypeError        MessageType = "error"
)

// BaseMessage is the base structure for all messages
type BaseMessage struct {
	Type    MessageType `json:"type"`
	Payload interface{} `json:"payload"`
}

// LoginMessage represents a login request
type LoginMessage struct {
	Nickname string `json:"nickname"`
}

// LoginSuccessMessage represents a successful login response
type LoginSuccessMessage struct {
	PlayerID string `json:"player_id"`
	Message  string `json:"message"`
}

// JoinedMessage answers a join request with the spawn placement and the
// current map
type JoinedMessage struct {
	PlayerID string        `json:"player_id"`
	Col      int           `json:"col"`
	Row      int           `json:"row"`
	X        float64       `json:"x"`
	Y        float64       `json:"y"`
	Scale    float64       `json:"scale"`
	State    game.Snapshot `json:"state"`
}

// StateMessage is broadcast after every tick
type StateMessage struct {
	State  game.Snapshot   `json:"state"`
	Placed []game.BombView `json:"placed,omitempty"`
	Blasts []game.Blast    `json:"blasts,omitempty"`
}

// ErrorMessage represents an error response
type ErrorMessage struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Error codes sent in ErrorMessage
const (
	CodeLoginFailed        = "LOGIN_FAILED"
	CodeNotLoggedIn        = "NOT_LOGGED_IN"
	CodeNoSpawnAvailable   = "NO_SPAWN_AVAILABLE"
	CodeJoinFailed         = "JOIN_FAILED"
	CodeCommandRejected    = "COMMAND_REJECTED"
	CodeQueueFull          = "QUEUE_FULL"
	CodeUnknownMessageType = "UNKNOWN_MESSAGE_TYPE"
	CodeBadPayload         = "BAD_PAYLOAD"
)
