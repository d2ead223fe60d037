package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"bomberman/server/game"
	"bomberman/server/messages"
)

// DefaultTickRate is the simulation rate in steps per second
const DefaultTickRate = 60

var (
	// ErrQueueFull is returned when the command buffer cannot take another command
	ErrQueueFull = errors.New("command queue full")
	// ErrNotJoined is returned for commands from players without a character
	ErrNotJoined = errors.New("player has not joined the arena")
	// ErrInvalidCommand wraps command validation failures
	ErrInvalidCommand = errors.New("invalid command")
)

// TickUpdate is what one simulation step produced
type TickUpdate struct {
	Tick     uint64
	Commands []QueuedCommand
	State    game.Snapshot
	Placed   []game.BombView
	Blasts   []game.Blast
}

// ArenaService owns the level and serialises every mutation of it
type ArenaService struct {
	level    *game.Level
	keymap   game.Keymap
	buffer   *CommandBuffer
	tickRate int

	listeners  []func(TickUpdate)
	listenerMu sync.RWMutex

	worldMutex sync.RWMutex
}

// NewArenaService creates an arena around an already built level. A nil
// keymap uses game.DefaultKeymap.
func NewArenaService(level *game.Level, keymap game.Keymap, tickRate, queueCapacity int) *ArenaService {
	if keymap == nil {
		keymap = game.DefaultKeymap()
	}
	if tickRate <= 0 {
		tickRate = DefaultTickRate
	}
	return &ArenaService{
		level:    level,
		keymap:   keymap,
		buffer:   NewCommandBuffer(queueCapacity),
		tickRate: tickRate,
	}
}

// TickRate reports the configured steps per second
func (as *ArenaService) TickRate() int { return as.tickRate }

// OnTick registers a listener called after every step, outside the world lock
func (as *ArenaService) OnTick(fn func(TickUpdate)) {
	as.listenerMu.Lock()
	defer as.listenerMu.Unlock()
	as.listeners = append(as.listeners, fn)
}

// Join spawns a character for the player on the next free spawn
func (as *ArenaService) Join(playerID, nickname string) (game.Spawned, error) {
	as.worldMutex.Lock()
	defer as.worldMutex.Unlock()

	c := game.NewCharacter(game.CharacterID(playerID), nickname, as.keymap)
	spawned, err := as.level.Spawn(c)
	if err != nil {
		return game.Spawned{}, err
	}
	log.Printf("Player %s joined at tile (%d,%d)", nickname, spawned.Col, spawned.Row)
	return spawned, nil
}

// Leave removes the player's character. Its bombs stay armed.
func (as *ArenaService) Leave(playerID string) error {
	as.worldMutex.Lock()
	defer as.worldMutex.Unlock()

	return as.level.Remove(game.CharacterID(playerID))
}

// Joined reports whether the player currently has a character
func (as *ArenaService) Joined(playerID string) bool {
	as.worldMutex.RLock()
	defer as.worldMutex.RUnlock()

	_, ok := as.level.Character(game.CharacterID(playerID))
	return ok
}

// Enqueue validates a command and queues it for the next step
func (as *ArenaService) Enqueue(playerID string, cmd messages.Command) error {
	if _, err := cmd.ParseInput(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidCommand, err)
	}
	if !as.Joined(playerID) {
		return ErrNotJoined
	}
	if !as.buffer.Push(QueuedCommand{PlayerID: playerID, Command: cmd}) {
		return ErrQueueFull
	}
	return nil
}

// Step applies queued commands, advances the level by dt and notifies
// listeners
func (as *ArenaService) Step(dt time.Duration) TickUpdate {
	as.worldMutex.Lock()
	applied := make([]QueuedCommand, 0)
	for _, qc := range as.buffer.Drain() {
		if as.apply(qc) {
			applied = append(applied, qc)
		}
	}
	res := as.level.Step(dt)
	update := TickUpdate{
		Tick:     res.Tick,
		Commands: applied,
		State:    as.level.Snapshot(),
		Placed:   res.Placed,
		Blasts:   res.Blasts,
	}
	as.worldMutex.Unlock()

	for _, b := range update.Blasts {
		log.Printf("Bomb %d of %s exploded at (%d,%d), %d blocks destroyed", b.BombID, b.Owner, b.Col, b.Row, len(b.Changes))
	}

	as.listenerMu.RLock()
	listeners := make([]func(TickUpdate), len(as.listeners))
	copy(listeners, as.listeners)
	as.listenerMu.RUnlock()
	for _, fn := range listeners {
		fn(update)
	}
	return update
}

// apply feeds one command into its character's input. Commands for
// characters that left since queueing are dropped.
func (as *ArenaService) apply(qc QueuedCommand) bool {
	c, ok := as.level.Character(game.CharacterID(qc.PlayerID))
	if !ok {
		return false
	}
	in, err := qc.Command.ParseInput()
	if err != nil {
		return false
	}
	if in.Binding != nil {
		c.Input().ApplyAction(in.State, *in.Binding)
		return true
	}
	return c.ApplyKeyEvent(in.State, in.Code)
}

// Snapshot returns the current level state
func (as *ArenaService) Snapshot() game.Snapshot {
	as.worldMutex.RLock()
	defer as.worldMutex.RUnlock()
	return as.level.Snapshot()
}

// Run steps the arena at the configured rate with a fixed dt until ctx is done
func (as *ArenaService) Run(ctx context.Context) {
	dt := time.Second / time.Duration(as.tickRate)
	ticker := time.NewTicker(dt)
	defer ticker.Stop()

	log.Printf("Arena running at %d ticks per second", as.tickRate)
	for {
		select {
		case <-ctx.Done():
			log.Println("Arena loop stopped")
			return
		case <-ticker.C:
			as.Step(dt)
		}
	}
}
