package messages

import (
	"fmt"
	"math"

	"bomberman/server/game"
)

// Command names understood by the arena
const (
	CommandKey    = "key"
	CommandAction = "action"
	CommandUpdate = "update"
)

// Command is a replayable player action: {"name": "key", "args": ["down", 273]}
type Command struct {
	Name string        `json:"name"`
	Args []interface{} `json:"args"`
}

// KeyCommand builds a raw key edge command
func KeyCommand(state game.KeyState, code game.KeyCode) Command {
	return Command{Name: CommandKey, Args: []interface{}{string(state), int(code)}}
}

// ActionCommand builds a command naming the binding directly, e.g. "+up" or "bomb"
func ActionCommand(state game.KeyState, binding game.Binding) Command {
	return Command{Name: CommandAction, Args: []interface{}{string(state), binding.String()}}
}

// UpdateCommand wraps an applied command for rebroadcast to peers
func UpdateCommand(playerID string, cmd Command) Command {
	return Command{Name: CommandUpdate, Args: []interface{}{playerID, cmd}}
}

// Input is a command resolved into an input edge
type Input struct {
	State   game.KeyState
	Code    game.KeyCode
	Binding *game.Binding
}

// ParseInput validates a command and resolves its arguments
func (c Command) ParseInput() (Input, error) {
	if len(c.Args) != 2 {
		return Input{}, fmt.Errorf("command %q takes 2 arguments, got %d", c.Name, len(c.Args))
	}
	s, err := c.StringArg(0)
	if err != nil {
		return Input{}, err
	}
	state, err := game.ParseKeyState(s)
	if err != nil {
		return Input{}, err
	}

	switch c.Name {
	case CommandKey:
		code, err := c.IntArg(1)
		if err != nil {
			return Input{}, err
		}
		return Input{State: state, Code: game.KeyCode(code)}, nil
	case CommandAction:
		spec, err := c.StringArg(1)
		if err != nil {
			return Input{}, err
		}
		b, err := game.ParseBinding(spec)
		if err != nil {
			return Input{}, err
		}
		return Input{State: state, Binding: &b}, nil
	}
	return Input{}, fmt.Errorf("unknown command %q", c.Name)
}

// StringArg returns argument i as a string
func (c Command) StringArg(i int) (string, error) {
	if i >= len(c.Args) {
		return "", fmt.Errorf("missing argument %d", i)
	}
	s, ok := c.Args[i].(string)
	if !ok {
		return "", fmt.Errorf("argument %d: expected string, got %T", i, c.Args[i])
	}
	return s, nil
}

// IntArg returns argument i as an int. JSON decodes numbers as float64 and
// msgpack as the narrowest integer type, so both are accepted.
func (c Command) IntArg(i int) (int, error) {
	if i >= len(c.Args) {
		return 0, fmt.Errorf("missing argument %d", i)
	}
	switch v := c.Args[i].(type) {
	case int:
		return v, nil
	case int8:
		return int(v), nil
	case int16:
		return int(v), nil
	case int32:
		return int(v), nil
	case int64:
		return int(v), nil
	case uint8:
		return int(v), nil
	case uint16:
		return int(v), nil
	case uint32:
		return int(v), nil
	case uint64:
		return int(v), nil
	case float64:
		if v != math.Trunc(v) {
			return 0, fmt.Errorf("argument %d: %v is not an integer", i, v)
		}
		return int(v), nil
	case float32:
		if float64(v) != math.Trunc(float64(v)) {
			return 0, fmt.Errorf("argument %d: %v is not an integer", i, v)
		}
		return int(v), nil
	}
	return 0, fmt.Errorf("argument %d: expected number, got %T", i, c.Args[i])
}
