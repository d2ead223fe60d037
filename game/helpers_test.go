package game

import (
	"math"
	"testing"
	"time"

	"bomberman/server/models"
)

const tickDT = time.Second / 60

var testLegend = map[string]string{
	"s": "Spawn",
	" ": "Grass",
	"o": "Block",
	"x": "Rock",
}

func newTestLevel(t *testing.T, rows ...string) *Level {
	t.Helper()
	l, err := NewLevel(models.LayoutFromRows("test", rows, testLegend))
	if err != nil {
		t.Fatalf("NewLevel: %v", err)
	}
	return l
}

// spawnAt spawns a character and moves it to the tile-space position (x, y)
func spawnAt(t *testing.T, l *Level, id CharacterID, x, y float64) *Character {
	t.Helper()
	c := NewCharacter(id, string(id), nil)
	if _, err := l.Spawn(c); err != nil {
		t.Fatalf("Spawn %s: %v", id, err)
	}
	c.X, c.Y = x, y
	return c
}

func press(c *Character, a Action) {
	b, _ := ParseBinding(string(a))
	c.Input().ApplyAction(KeyDown, b)
}

func release(c *Character, a Action) {
	b, _ := ParseBinding(string(a))
	c.Input().ApplyAction(KeyUp, b)
}

func approx(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}
