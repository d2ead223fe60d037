package game

import (
	"fmt"
	"strings"
)

// Action is a semantic player intent
type Action string

const (
	ActionUp    Action = "up"
	ActionDown  Action = "down"
	ActionLeft  Action = "left"
	ActionRight Action = "right"
	ActionBomb  Action = "bomb"
)

// ParseAction validates an action name
func ParseAction(name string) (Action, error) {
	switch a := Action(name); a {
	case ActionUp, ActionDown, ActionLeft, ActionRight, ActionBomb:
		return a, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownAction, name)
}

// Directional reports whether the action moves the character
func (a Action) Directional() bool {
	return a == ActionUp || a == ActionDown || a == ActionLeft || a == ActionRight
}

// OneShot reports whether the action is consumed once per press
func (a Action) OneShot() bool {
	return a == ActionBomb
}

// KeyCode is a raw key identifier from the input binding layer
type KeyCode int

// KeyState is the edge of a key event
type KeyState string

const (
	KeyDown KeyState = "down"
	KeyUp   KeyState = "up"
)

// ParseKeyState validates a key edge name
func ParseKeyState(s string) (KeyState, error) {
	switch st := KeyState(s); st {
	case KeyDown, KeyUp:
		return st, nil
	}
	return "", fmt.Errorf("invalid key state %q", s)
}

// BindingMode controls how key edges map onto the held action set
type BindingMode int

const (
	// ModeMomentary holds the action while the key is down
	ModeMomentary BindingMode = iota
	// ModeReverse holds the action while the key is up
	ModeReverse
	// ModeOneShot queues the action once per key press
	ModeOneShot
)

// Binding pairs an action with the mode its key drives it in
type Binding struct {
	Action Action
	Mode   BindingMode
}

// ParseBinding reads the "+name", "-name" and bare "name" notation
func ParseBinding(spec string) (Binding, error) {
	mode := ModeMomentary
	name := spec
	switch {
	case strings.HasPrefix(spec, "+"):
		name = spec[1:]
	case strings.HasPrefix(spec, "-"):
		mode = ModeReverse
		name = spec[1:]
	}
	action, err := ParseAction(name)
	if err != nil {
		return Binding{}, err
	}
	if action.OneShot() {
		if name != spec {
			return Binding{}, fmt.Errorf("%w: %q cannot take a %q modifier", ErrUnknownAction, name, spec[:1])
		}
		mode = ModeOneShot
	}
	return Binding{Action: action, Mode: mode}, nil
}

func (b Binding) String() string {
	switch b.Mode {
	case ModeReverse:
		return "-" + string(b.Action)
	case ModeOneShot:
		return string(b.Action)
	}
	return "+" + string(b.Action)
}

// Keymap binds key codes to actions
type Keymap map[KeyCode]Binding

// NewKeymap validates a raw {keyCode: binding} table
func NewKeymap(raw map[KeyCode]string) (Keymap, error) {
	km := make(Keymap, len(raw))
	for code, spec := range raw {
		b, err := ParseBinding(spec)
		if err != nil {
			return nil, fmt.Errorf("key %d: %w", code, err)
		}
		km[code] = b
	}
	return km, nil
}

// Default key codes, matching the classic SDL arrow/space codes
const (
	KeyCodeUp    KeyCode = 273
	KeyCodeDown  KeyCode = 274
	KeyCodeRight KeyCode = 275
	KeyCodeLeft  KeyCode = 276
	KeyCodeSpace KeyCode = 32
)

// DefaultKeymap returns arrows for movement and space for bombs
func DefaultKeymap() Keymap {
	return Keymap{
		KeyCodeUp:    {Action: ActionUp, Mode: ModeMomentary},
		KeyCodeDown:  {Action: ActionDown, Mode: ModeMomentary},
		KeyCodeRight: {Action: ActionRight, Mode: ModeMomentary},
		KeyCodeLeft:  {Action: ActionLeft, Mode: ModeMomentary},
		KeyCodeSpace: {Action: ActionBomb, Mode: ModeOneShot},
	}
}

// Input tracks the held action set and the queue of one-shot presses
type Input struct {
	keymap  Keymap
	held    []Action
	pending []Action
}

// NewInput creates an input state bound to km. A nil keymap uses DefaultKeymap.
func NewInput(km Keymap) *Input {
	if km == nil {
		km = DefaultKeymap()
	}
	return &Input{keymap: km}
}

// ApplyKeyEvent routes a key edge through the keymap. Unmapped keys are
// ignored and reported as false.
func (in *Input) ApplyKeyEvent(state KeyState, code KeyCode) bool {
	b, ok := in.keymap[code]
	if !ok {
		return false
	}
	in.ApplyAction(state, b)
	return true
}

// ApplyAction applies a key edge for a binding directly
func (in *Input) ApplyAction(state KeyState, b Binding) {
	switch b.Mode {
	case ModeOneShot:
		if state == KeyDown {
			in.pending = append(in.pending, b.Action)
		}
	case ModeReverse:
		if state == KeyDown {
			in.release(b.Action)
		} else {
			in.hold(b.Action)
		}
	default:
		if state == KeyDown {
			in.hold(b.Action)
		} else {
			in.release(b.Action)
		}
	}
}

func (in *Input) hold(a Action) {
	for _, h := range in.held {
		if h == a {
			return
		}
	}
	in.held = append(in.held, a)
}

func (in *Input) release(a Action) {
	for i, h := range in.held {
		if h == a {
			in.held = append(in.held[:i], in.held[i+1:]...)
			return
		}
	}
}

// Held returns the held actions in the order they were pressed
func (in *Input) Held() []Action {
	out := make([]Action, len(in.held))
	copy(out, in.held)
	return out
}

// DrainOneShots returns and clears the queued one-shot actions
func (in *Input) DrainOneShots() []Action {
	out := in.pending
	in.pending = nil
	return out
}

// Reset drops every held and queued action
func (in *Input) Reset() {
	in.held = nil
	in.pending = nil
}
