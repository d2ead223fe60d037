package services

import (
	"sync"

	"bomberman/server/messages"
)

// QueuedCommand is a player command waiting for the next tick
type QueuedCommand struct {
	PlayerID string
	Command  messages.Command
}

// CommandBuffer holds player commands between ticks in a fixed-size ring.
// Connection goroutines push, the arena loop drains.
type CommandBuffer struct {
	mu    sync.Mutex
	data  []QueuedCommand
	head  int
	tail  int
	count int
}

// NewCommandBuffer creates a buffer holding at most capacity commands
func NewCommandBuffer(capacity int) *CommandBuffer {
	if capacity < 1 {
		capacity = 1
	}
	return &CommandBuffer{data: make([]QueuedCommand, capacity)}
}

// Push adds a command at the tail. It reports false and drops the command
// when the ring is full.
func (b *CommandBuffer) Push(cmd QueuedCommand) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.count == len(b.data) {
		return false
	}
	b.data[b.tail] = cmd
	b.tail = (b.tail + 1) % len(b.data)
	b.count++
	return true
}

// Drain empties the ring and returns its commands oldest first
func (b *CommandBuffer) Drain() []QueuedCommand {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.count == 0 {
		return nil
	}
	out := make([]QueuedCommand, b.count)
	for i := 0; i < b.count; i++ {
		out[i] = b.data[(b.head+i)%len(b.data)]
	}
	b.head, b.tail, b.count = 0, 0, 0
	return out
}

// Len reports how many commands wait for the next tick
func (b *CommandBuffer) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.count
}
