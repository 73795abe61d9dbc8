package logging

import (
	"sync"

	"markdeck/internal/buffer"
)

// LogBuffer keeps the most recent entries in memory.
type LogBuffer struct {
	mu   sync.Mutex
	ring *buffer.Ring[LogEntry]
}

func NewLogBuffer(size int) *LogBuffer {
	return &LogBuffer{
		ring: buffer.NewRing[LogEntry](size),
	}
}

func (b *LogBuffer) Add(entry LogEntry) {
	if b == nil {
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.ring.Add(entry)
}

// List returns the buffered entries, oldest first.
func (b *LogBuffer) List() []LogEntry {
	if b == nil {
		return nil
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.ring.List()
}

func (b *LogBuffer) Len() int {
	if b == nil {
		return 0
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.ring.Len()
}

// Evicted counts entries dropped to make room for newer ones.
func (b *LogBuffer) Evicted() uint64 {
	if b == nil {
		return 0
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.ring.Evicted()
}

// Since returns buffered entries at or above minLevel, oldest first.
func (b *LogBuffer) Since(minLevel Level) []LogEntry {
	var out []LogEntry
	for _, entry := range b.List() {
		if LevelAtLeast(entry.Level, minLevel) {
			out = append(out, entry)
		}
	}
	return out
}
