package game

import "time"

// CharacterID identifies a character within its level
type CharacterID string

// Character defaults
const (
	DefaultRadius    = 45.0
	DefaultSpeed     = 450.0
	DefaultBombPower = 2
)

// Character is a circular avatar. X and Y are its centre in tile space:
// one unit per tile, (0,0) at the top-left corner of the grid.
type Character struct {
	ID   CharacterID
	Name string

	X, Y float64
	// Radius and Speed are in world units at a scale of 1
	Radius float64
	Speed  float64
	Scale  float64

	BombPower         int
	BombWallTraversal bool

	Facing Action
	Moving bool

	input *Input
	bombs []BombID
	slot  int
}

// NewCharacter creates a character with default stats. A nil keymap uses
// DefaultKeymap.
func NewCharacter(id CharacterID, name string, km Keymap) *Character {
	return &Character{
		ID:        id,
		Name:      name,
		Radius:    DefaultRadius,
		Speed:     DefaultSpeed,
		Scale:     1,
		BombPower: DefaultBombPower,
		Facing:    ActionDown,
		input:     NewInput(km),
	}
}

func (c *Character) Input() *Input { return c.input }

// ApplyKeyEvent feeds a key edge into the character's input state
func (c *Character) ApplyKeyEvent(state KeyState, code KeyCode) bool {
	return c.input.ApplyKeyEvent(state, code)
}

// Bombs returns the IDs of the character's live bombs
func (c *Character) Bombs() []BombID {
	out := make([]BombID, len(c.bombs))
	copy(out, c.bombs)
	return out
}

func (c *Character) radiusTiles() float64 {
	return c.Radius / ReferenceTileSize
}

func (c *Character) update(l *Level, dt time.Duration) {
	held := c.input.Held()
	step := c.Speed * c.Scale * dt.Seconds() / ReferenceTileSize

	// Diagonals are the plain sum of both axes.
	moving := false
	for _, a := range held {
		switch a {
		case ActionUp:
			c.Y -= step
		case ActionDown:
			c.Y += step
		case ActionRight:
			c.X += step
		case ActionLeft:
			c.X -= step
		default:
			continue
		}
		moving = true
		c.Facing = a
	}
	c.Moving = moving

	for _, a := range c.input.DrainOneShots() {
		if a == ActionBomb {
			l.PlaceBomb(c.ID)
		}
	}

	l.refreshExemptions(c)
	l.resolveCollisions(c)
	l.refreshExemptions(c)
}
