package main

import (
	"time"

	"github.com/gdamore/tcell/v2"

	"bomberman/server/game"
)

// Terminals report key presses only, so a key counts as released once no
// press or repeat has arrived for releaseDelay.
const releaseDelay = 200 * time.Millisecond

var specialKeys = map[tcell.Key]game.KeyCode{
	tcell.KeyUp:    game.KeyCodeUp,
	tcell.KeyDown:  game.KeyCodeDown,
	tcell.KeyRight: game.KeyCodeRight,
	tcell.KeyLeft:  game.KeyCodeLeft,
}

// keyCode translates a terminal key into the key codes keymaps use. Runes
// map to their code point, so space is 32.
func keyCode(key tcell.Key, r rune) (game.KeyCode, bool) {
	if key == tcell.KeyRune {
		return game.KeyCode(r), true
	}
	code, ok := specialKeys[key]
	return code, ok
}

// keyTracker turns a stream of presses into down/up edges
type keyTracker struct {
	held map[game.KeyCode]time.Time
}

func newKeyTracker() *keyTracker {
	return &keyTracker{held: make(map[game.KeyCode]time.Time)}
}

// press records a press and reports whether it is a new key-down edge
func (k *keyTracker) press(code game.KeyCode, now time.Time) bool {
	_, down := k.held[code]
	k.held[code] = now
	return !down
}

// expire returns the keys whose release delay has passed and forgets them
func (k *keyTracker) expire(now time.Time) []game.KeyCode {
	var released []game.KeyCode
	for code, last := range k.held {
		if now.Sub(last) >= releaseDelay {
			released = append(released, code)
			delete(k.held, code)
		}
	}
	return released
}
